package completeness

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

const (
	// RequiredWeight is the share of a section score carried by required fields
	RequiredWeight = 70
	// ImportantWeight is the share carried by important fields
	ImportantWeight = 30
)

// Data holds the raw field values of one section, keyed by field name
type Data map[string]any

// SectionReport is a section score with the fields still missing
type SectionReport struct {
	Section          Section  `json:"section"`
	Score            int      `json:"score"`
	MissingRequired  []string `json:"missing_required"`
	MissingImportant []string `json:"missing_important"`
}

// ParseSection validates a section tag coming from outside (URL, CLI flag).
func ParseSection(s string) (Section, error) {
	section := Section(strings.ToLower(strings.TrimSpace(s)))
	if !section.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSection, s)
	}
	return section, nil
}

// IsFilled reports whether a field value counts towards completeness.
// Only nil and the empty string are empty; 0 and false are filled.
func IsFilled(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		return IsFilled(rv.Elem().Interface())
	}
	return true
}

// Score computes the 0-100 completeness of one section.
// Unknown sections and sections without tracked fields score 0.
func Score(section Section, data Data) int {
	c := classifications[section]

	var requiredPortion, importantPortion float64
	if len(c.Required) > 0 {
		requiredPortion = float64(countFilled(c.Required, data)) / float64(len(c.Required)) * RequiredWeight
	}
	if len(c.Important) > 0 {
		importantPortion = float64(countFilled(c.Important, data)) / float64(len(c.Important)) * ImportantWeight
	}

	return int(math.Round(requiredPortion + importantPortion))
}

// Breakdown scores a section and lists the fields that are still empty
func Breakdown(section Section, data Data) SectionReport {
	c := classifications[section]
	return SectionReport{
		Section:          section,
		Score:            Score(section, data),
		MissingRequired:  missing(c.Required, data),
		MissingImportant: missing(c.Important, data),
	}
}

// Overall is the unweighted mean of the supplied section scores.
// Sections absent from the map are not counted.
func Overall(scores map[Section]int) int {
	if len(scores) == 0 {
		return 0
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}

func countFilled(fields []string, data Data) int {
	n := 0
	for _, f := range fields {
		if IsFilled(data[f]) {
			n++
		}
	}
	return n
}

func missing(fields []string, data Data) []string {
	out := []string{}
	for _, f := range fields {
		if !IsFilled(data[f]) {
			out = append(out, f)
		}
	}
	return out
}
