package knowledge

import "context"

// Source is the external collaborator that owns the reference records.
// FetchBarbers and FetchLocations return active records only.
type Source interface {
	FetchServices(ctx context.Context) ([]Service, error)
	FetchBarbers(ctx context.Context) ([]Barber, error)
	FetchFAQs(ctx context.Context) ([]FAQ, error)
	FetchPromotions(ctx context.Context) ([]Promotion, error)
	FetchWorkingHours(ctx context.Context) ([]WorkingHours, error)
	FetchStyleCategories(ctx context.Context) ([]StyleCategory, error)
	FetchBarberSpecializations(ctx context.Context) ([]Specialization, error)
	FetchLocations(ctx context.Context) ([]Location, error)
}

// StaticSource serves a fixed Dataset. It backs the in-memory deployment and
// tests.
type StaticSource struct {
	Data Dataset
}

// NewStaticSource wraps a dataset.
func NewStaticSource(data Dataset) *StaticSource {
	return &StaticSource{Data: data}
}

func (s *StaticSource) FetchServices(context.Context) ([]Service, error) {
	return append([]Service(nil), s.Data.Services...), nil
}

func (s *StaticSource) FetchBarbers(context.Context) ([]Barber, error) {
	return activeBarbers(s.Data.Barbers), nil
}

func (s *StaticSource) FetchFAQs(context.Context) ([]FAQ, error) {
	return append([]FAQ(nil), s.Data.FAQs...), nil
}

func (s *StaticSource) FetchPromotions(context.Context) ([]Promotion, error) {
	return append([]Promotion(nil), s.Data.Promotions...), nil
}

func (s *StaticSource) FetchWorkingHours(context.Context) ([]WorkingHours, error) {
	return append([]WorkingHours(nil), s.Data.Hours...), nil
}

func (s *StaticSource) FetchStyleCategories(context.Context) ([]StyleCategory, error) {
	return append([]StyleCategory(nil), s.Data.Styles...), nil
}

func (s *StaticSource) FetchBarberSpecializations(context.Context) ([]Specialization, error) {
	return append([]Specialization(nil), s.Data.Specializations...), nil
}

func (s *StaticSource) FetchLocations(context.Context) ([]Location, error) {
	var out []Location
	for _, l := range s.Data.Locations {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func activeBarbers(in []Barber) []Barber {
	var out []Barber
	for _, b := range in {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out
}
