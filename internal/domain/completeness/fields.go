package completeness

// Section identifies one logical group of institution profile fields
type Section string

const (
	SectionBasic          Section = "basic"
	SectionEducation      Section = "education"
	SectionTeachers       Section = "teachers"
	SectionInfrastructure Section = "infrastructure"
	SectionServices       Section = "services"
	SectionFinance        Section = "finance"
	SectionResults        Section = "results"
	SectionAdmission      Section = "admission"
	SectionMedia          Section = "media"
)

// allSections keeps the back-office display order
var allSections = []Section{
	SectionBasic,
	SectionEducation,
	SectionTeachers,
	SectionInfrastructure,
	SectionServices,
	SectionFinance,
	SectionResults,
	SectionAdmission,
	SectionMedia,
}

// Classification lists the tracked fields of a section
type Classification struct {
	Required  []string `json:"required"`
	Important []string `json:"important"`
}

// classifications is read-only after init.
// Results and admission have no tracked fields yet and always score 0.
var classifications = map[Section]Classification{
	SectionBasic: {
		Required: []string{
			"name_uz", "name_ru", "institution_type", "region", "district", "address", "phone",
		},
		Important: []string{
			"name_en", "description", "email", "website", "telegram", "instagram", "founded_year", "landmark",
		},
	},
	SectionEducation: {
		Required: []string{"grades", "education_languages", "curriculum"},
		Important: []string{
			"class_size_max", "school_hours_start", "school_hours_end", "extended_day", "accreditation", "specializations",
		},
	},
	SectionTeachers: {
		Required: []string{"total_teachers"},
		Important: []string{
			"avg_experience_years", "students_per_teacher", "native_speakers", "foreign_teachers",
			"masters_degree_percent", "phd_count", "certified_teachers", "teacher_training",
		},
	},
	SectionInfrastructure: {
		Required: []string{"building_area", "classrooms_count"},
		Important: []string{
			"has_gym", "has_pool", "has_library", "has_cafeteria",
			"has_medical_room", "has_security", "has_transport", "has_playground",
		},
	},
	SectionServices: {
		Required:  []string{"meals_provided"},
		Important: []string{"clubs", "sports_sections", "summer_camp", "tutoring", "transport_routes"},
	},
	SectionFinance: {
		Required:  []string{"fee_monthly_min", "fee_monthly_max", "currency"},
		Important: []string{"admission_fee", "payment_methods", "discounts", "scholarships", "sibling_discount"},
	},
	SectionMedia: {
		Required:  []string{"logo_url", "cover_image_url"},
		Important: []string{"photos", "video_url", "virtual_tour_url"},
	},
}

// AllSections returns every known section in display order
func AllSections() []Section {
	out := make([]Section, len(allSections))
	copy(out, allSections)
	return out
}

// IsValid reports whether s is one of the known sections
func (s Section) IsValid() bool {
	for _, known := range allSections {
		if s == known {
			return true
		}
	}
	return false
}

func (s Section) String() string {
	return string(s)
}

// RequiredFields returns the required field names of a section.
// Unknown sections yield an empty list.
func RequiredFields(section Section) []string {
	return clone(classifications[section].Required)
}

// ImportantFields returns the important field names of a section.
// Unknown sections yield an empty list.
func ImportantFields(section Section) []string {
	return clone(classifications[section].Important)
}

// ClassificationFor returns both field lists of a section
func ClassificationFor(section Section) Classification {
	return Classification{
		Required:  RequiredFields(section),
		Important: ImportantFields(section),
	}
}

// HasTrackedFields reports whether a section contributes anything to its score
func HasTrackedFields(section Section) bool {
	c := classifications[section]
	return len(c.Required) > 0 || len(c.Important) > 0
}

func clone(fields []string) []string {
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}
