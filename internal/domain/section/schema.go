package section

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/edumap/edumap-api/internal/domain/completeness"
)

type fieldKind string

const (
	kindText       fieldKind = "text"
	kindCount      fieldKind = "count"
	kindFlag       fieldKind = "flag"
	kindList       fieldKind = "list"
	kindTextOrList fieldKind = "text_or_list"
	kindFlagOrText fieldKind = "flag_or_text"
	kindCurrency   fieldKind = "currency"
)

// Cleared form inputs arrive as null or "", so every kind accepts both.
var kindDefinitions = map[fieldKind]map[string]any{
	kindText: {"type": []string{"string", "null"}},
	kindCount: {"anyOf": []any{
		map[string]any{"type": "number", "minimum": 0},
		map[string]any{"type": "null"},
		map[string]any{"const": ""},
	}},
	kindFlag: {"anyOf": []any{
		map[string]any{"type": "boolean"},
		map[string]any{"type": "null"},
		map[string]any{"const": ""},
	}},
	kindList:       {"type": []string{"array", "null"}},
	kindTextOrList: {"type": []string{"string", "array", "null"}},
	kindFlagOrText: {"type": []string{"boolean", "string", "null"}},
	kindCurrency: {"anyOf": []any{
		map[string]any{"enum": []string{"UZS", "USD", "EUR", "RUB"}},
		map[string]any{"type": "null"},
		map[string]any{"const": ""},
	}},
}

// Fields not listed here are stored untouched.
var fieldKinds = map[completeness.Section]map[string]fieldKind{
	completeness.SectionBasic: {
		"name_uz": kindText, "name_ru": kindText, "name_en": kindText,
		"institution_type": kindText, "region": kindText, "district": kindText,
		"address": kindText, "landmark": kindText, "description": kindText,
		"phone": kindText, "email": kindText, "website": kindText,
		"telegram": kindText, "instagram": kindText,
		"founded_year": kindCount,
	},
	completeness.SectionEducation: {
		"grades": kindTextOrList, "education_languages": kindList, "curriculum": kindTextOrList,
		"class_size_max": kindCount, "school_hours_start": kindText, "school_hours_end": kindText,
		"extended_day": kindFlag, "accreditation": kindTextOrList, "specializations": kindList,
	},
	completeness.SectionTeachers: {
		"total_teachers": kindCount, "avg_experience_years": kindCount, "students_per_teacher": kindCount,
		"native_speakers": kindCount, "foreign_teachers": kindCount, "masters_degree_percent": kindCount,
		"phd_count": kindCount, "certified_teachers": kindCount, "teacher_training": kindFlagOrText,
	},
	completeness.SectionInfrastructure: {
		"building_area": kindCount, "classrooms_count": kindCount,
		"has_gym": kindFlag, "has_pool": kindFlag, "has_library": kindFlag, "has_cafeteria": kindFlag,
		"has_medical_room": kindFlag, "has_security": kindFlag, "has_transport": kindFlag, "has_playground": kindFlag,
	},
	completeness.SectionServices: {
		"meals_provided": kindFlagOrText, "clubs": kindList, "sports_sections": kindList,
		"summer_camp": kindFlag, "tutoring": kindFlagOrText, "transport_routes": kindTextOrList,
	},
	completeness.SectionFinance: {
		"fee_monthly_min": kindCount, "fee_monthly_max": kindCount, "currency": kindCurrency,
		"admission_fee": kindCount, "payment_methods": kindList, "discounts": kindTextOrList,
		"scholarships": kindFlagOrText, "sibling_discount": kindFlagOrText,
	},
	completeness.SectionMedia: {
		"logo_url": kindText, "cover_image_url": kindText, "video_url": kindText,
		"virtual_tour_url": kindText, "photos": kindList,
	},
}

var payloadSchemas = mustCompileSchemas()

func schemaDocument(section completeness.Section) map[string]any {
	definitions := make(map[string]any, len(kindDefinitions))
	for kind, def := range kindDefinitions {
		definitions[string(kind)] = def
	}

	properties := map[string]any{}
	for field, kind := range fieldKinds[section] {
		properties[field] = map[string]any{"$ref": "#/definitions/" + string(kind)}
	}

	return map[string]any{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       string(section),
		"type":        "object",
		"definitions": definitions,
		"properties":  properties,
	}
}

func mustCompileSchemas() map[completeness.Section]*gojsonschema.Schema {
	out := make(map[completeness.Section]*gojsonschema.Schema)
	for _, section := range completeness.AllSections() {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaDocument(section)))
		if err != nil {
			panic(fmt.Sprintf("compile %s payload schema: %v", section, err))
		}
		out[section] = schema
	}
	return out
}

// ValidatePayload checks field value shapes of a section payload.
// Unknown fields are allowed.
func ValidatePayload(section completeness.Section, data completeness.Data) error {
	schema, ok := payloadSchemas[section]
	if !ok {
		return completeness.ErrInvalidSection
	}
	if data == nil {
		data = completeness.Data{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validate %s payload: %w", section, err)
	}
	if result.Valid() {
		return nil
	}

	fields := make(map[string]string, len(result.Errors()))
	for _, e := range result.Errors() {
		if _, seen := fields[e.Field()]; seen {
			continue
		}
		fields[e.Field()] = e.Description()
	}
	return &PayloadError{Fields: fields}
}

// PayloadError lists the payload fields with the wrong shape
type PayloadError struct {
	Fields map[string]string
}

func (e *PayloadError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid section payload: %v", names)
}

func (e *PayloadError) Unwrap() error { return ErrInvalidPayload }
