package knowledge

// Built-in dataset used when the store cannot supply services, barbers,
// specializations or styles. FAQs, promotions, hours and locations have no
// fallback; replies for those say the information is unavailable.

var builtinServices = []Service{
	{ID: "s1", Name: "Classic Haircut", Price: 35, DurationMinutes: 30, Description: "A traditional haircut including a consultation, shampoo, cut, and style."},
	{ID: "s2", Name: "Beard Trim", Price: 25, DurationMinutes: 20, Description: "A precise beard trim to shape and maintain your facial hair."},
	{ID: "s3", Name: "Hot Towel Shave", Price: 45, DurationMinutes: 45, Description: "A luxurious hot towel shave with premium products for the smoothest finish."},
	{ID: "s4", Name: "Hair Coloring", Price: 60, DurationMinutes: 90, Description: "Professional hair coloring to cover grays or change your look with quality products."},
	{ID: "s5", Name: "Father & Son Package", Price: 50, DurationMinutes: 60, Description: "A haircut for both father and son. Bonding time made stylish."},
	{ID: "s6", Name: "Head Massage", Price: 30, DurationMinutes: 25, Description: "A relaxing scalp massage to stimulate blood flow and reduce stress."},
	{ID: "s7", Name: "Senior Haircut", Price: 25, DurationMinutes: 30, Description: "A classic cut for our clients aged 65 and over."},
	{ID: "s8", Name: "Kids Haircut", Price: 20, DurationMinutes: 25, Description: "A patient, child-friendly haircut for kids under 12."},
}

var builtinBarbers = []Barber{
	{ID: "b1", Name: "James Wilson", Bio: "Classic Cuts & Styling, 15 years of experience", IsActive: true},
	{ID: "b2", Name: "Michael Thompson", Bio: "Beard Grooming Expert, 8 years of experience", IsActive: true},
	{ID: "b3", Name: "David Garcia", Bio: "Hair Coloring Specialist, 12 years of experience", IsActive: true},
	{ID: "b4", Name: "Robert Johnson", Bio: "Modern Styles & Fades, 6 years of experience", IsActive: true},
}

var builtinSpecializations = []Specialization{
	{BarberID: "b1", Specialization: "Classic Cuts", ExpertiseLevel: "master"},
	{BarberID: "b1", Specialization: "Styling", ExpertiseLevel: "expert"},
	{BarberID: "b2", Specialization: "Beard Grooming", ExpertiseLevel: "expert"},
	{BarberID: "b2", Specialization: "Shaving", ExpertiseLevel: "expert"},
	{BarberID: "b3", Specialization: "Hair Coloring", ExpertiseLevel: "expert"},
	{BarberID: "b4", Specialization: "Fades", ExpertiseLevel: "expert"},
	{BarberID: "b4", Specialization: "Modern Styles", ExpertiseLevel: "intermediate"},
}

var builtinStyles = []StyleCategory{
	{
		ID:               "modern-fade",
		Name:             "Modern Fade",
		Description:      "A contemporary take on the classic fade with a smooth gradient from very short sides to a longer top.",
		MaintenanceLevel: "Medium, touch-ups every 2-3 weeks keep the fade crisp",
		DifficultyLevel:  "intermediate",
		SuitableFor:      []string{"all hair types", "a clean, professional look"},
	},
	{
		ID:               "classic-cut",
		Name:             "Classic Cut",
		Description:      "A timeless style with tapered sides and back and enough length on top for a side part.",
		MaintenanceLevel: "Low to medium, a trim every 4-6 weeks",
		DifficultyLevel:  "beginner",
		SuitableFor:      []string{"straight to wavy hair", "professional settings"},
	},
	{
		ID:               "textured-crop",
		Name:             "Textured Crop",
		Description:      "A textured top with shorter sides for a casual, effortless finish.",
		MaintenanceLevel: "Low, 4-8 weeks between cuts",
		DifficultyLevel:  "intermediate",
		SuitableFor:      []string{"all hair types", "thick or wavy hair"},
	},
	{
		ID:               "pompadour",
		Name:             "Pompadour",
		Description:      "Volume and sweep on top styled upward and back, with shorter sides.",
		MaintenanceLevel: "High, daily styling and a cut every 3-4 weeks",
		DifficultyLevel:  "advanced",
		SuitableFor:      []string{"medium to thick hair", "anyone happy to style daily"},
	},
}

// BuiltinServices returns a copy of the fallback services.
func BuiltinServices() []Service { return append([]Service(nil), builtinServices...) }

// BuiltinBarbers returns a copy of the fallback barbers.
func BuiltinBarbers() []Barber { return append([]Barber(nil), builtinBarbers...) }

// BuiltinSpecializations returns a copy of the fallback specializations.
func BuiltinSpecializations() []Specialization {
	return append([]Specialization(nil), builtinSpecializations...)
}

// BuiltinStyles returns a copy of the fallback style catalog.
func BuiltinStyles() []StyleCategory { return append([]StyleCategory(nil), builtinStyles...) }
