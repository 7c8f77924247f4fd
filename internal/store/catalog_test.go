package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
)

func newMockCatalog(t *testing.T) (*Catalog, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCatalog(db), mock
}

func TestCatalogFetchServices(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectQuery("FROM services").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "duration_minutes", "description"}).
			AddRow("s2", "Beard Trim", 25.0, int64(20), "Shape and line up").
			AddRow("s1", "Classic Haircut", 35.0, int64(30), ""))

	services, err := catalog.FetchServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, knowledge.Service{ID: "s2", Name: "Beard Trim", Price: 25, DurationMinutes: 20, Description: "Shape and line up"}, services[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogFetchBarbersActiveOnly(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectQuery("FROM barbers\\s+WHERE is_active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bio", "is_active"}).
			AddRow("b1", "James Wilson", "Classic Cuts & Styling", true))

	barbers, err := catalog.FetchBarbers(context.Background())
	require.NoError(t, err)
	require.Len(t, barbers, 1)
	assert.True(t, barbers[0].IsActive)
}

func TestCatalogFetchStyleCategoriesArray(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectQuery("FROM style_categories").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "maintenance_level", "difficulty_level", "suitable_for"}).
			AddRow("st1", "Modern Fade", "Short sides", "high", "medium", `{"straight hair","thick hair"}`))

	styles, err := catalog.FetchStyleCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, styles, 1)
	assert.Equal(t, []string{"straight hair", "thick hair"}, styles[0].SuitableFor)
}

func TestCatalogFetchPromotionsAndHours(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectQuery("FROM promotions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "details", "valid_until"}).
			AddRow("p1", "Tuesday Special", "20% off", "2026-06-30").
			AddRow("p2", "Loyalty", "Every 10th cut free", ""))
	mock.ExpectQuery("FROM working_hours").
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "open_time", "close_time", "is_closed"}).
			AddRow(int64(0), "", "", true).
			AddRow(int64(1), "09:00", "19:00", false))

	promos, err := catalog.FetchPromotions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-06-30", promos[0].ValidUntil)
	assert.Empty(t, promos[1].ValidUntil)

	hours, err := catalog.FetchWorkingHours(context.Background())
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.True(t, hours[0].IsClosed)
	assert.Equal(t, "19:00", hours[1].CloseTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogFetchRemaining(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectQuery("FROM faqs").
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "category"}).
			AddRow("f1", "Do you take walk-ins?", "Yes, when a chair is free.", "general"))
	mock.ExpectQuery("FROM barber_specializations").
		WillReturnRows(sqlmock.NewRows([]string{"barber_id", "specialization", "expertise_level"}).
			AddRow("b2", "Beard Grooming", "expert"))
	mock.ExpectQuery("FROM barbershop_locations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "city", "phone", "is_active"}).
			AddRow("l1", "EliteCuts Downtown", "12 Main St", "Springfield", "", true))

	ctx := context.Background()
	faqs, err := catalog.FetchFAQs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "general", faqs[0].Category)

	specs, err := catalog.FetchBarberSpecializations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "expert", specs[0].ExpertiseLevel)

	locs, err := catalog.FetchLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Springfield", locs[0].City)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogQueryError(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectQuery("FROM faqs").WillReturnError(errors.New("relation does not exist"))

	_, err := catalog.FetchFAQs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store: load faqs")
}

func TestCatalogScanError(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectQuery("FROM services").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "duration_minutes", "description"}).
			AddRow("s1", "Cut", "not a number", int64(30), ""))

	_, err := catalog.FetchServices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store: scan services")
}

func TestCatalogFeedsLoader(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.MatchExpectationsInOrder(false)
	for _, table := range []string{"faqs", "promotions", "working_hours", "style_categories", "barber_specializations", "barbershop_locations"} {
		mock.ExpectQuery("FROM " + table).WillReturnError(errors.New("down"))
	}
	mock.ExpectQuery("FROM services").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "duration_minutes", "description"}).
			AddRow("s1", "Classic Haircut", 35.0, int64(30), ""))
	mock.ExpectQuery("FROM barbers").WillReturnError(errors.New("down"))

	snap := knowledge.NewLoader(catalog, nil, 0).Load(context.Background())
	assert.False(t, snap.Fallback.Services)
	assert.True(t, snap.Fallback.Barbers)
	assert.Equal(t, knowledge.BuiltinBarbers(), snap.Barbers)
}
