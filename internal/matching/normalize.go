// internal/matching/normalize.go
package matching

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeAssignment returns a copy of the assignment with nil list fields
// replaced by empty slices so scorers never have to nil-check.
func NormalizeAssignment(a Assignment) Assignment {
	if a.RequiredSkills == nil {
		a.RequiredSkills = []string{}
	}
	if a.RequiredValues == nil {
		a.RequiredValues = []string{}
	}
	return a
}

// NormalizeConsultant converts a raw consultant record into the canonical
// comparison-ready Profile. It never fails: missing or malformed fields fall
// back to neutral defaults.
func NormalizeConsultant(c Consultant) Profile {
	years, ok := ParseExperienceYears(c.Experience)

	return Profile{
		ID:                 c.ID,
		Name:               c.Name,
		Email:              c.Email,
		Skills:             orEmpty(c.Skills),
		Values:             orEmpty(c.Values),
		ExperienceYears:    years,
		HasExperience:      ok,
		Availability:       ClassifyAvailability(c.Availability),
		Rating:             c.Rating,
		HasRating:          c.Rating > 0,
		Projects:           c.Projects,
		Certifications:     orEmpty(c.Certifications),
		Industries:         orEmpty(c.Industries),
		CommunicationStyle: strings.TrimSpace(c.CommunicationStyle),
		WorkStyle:          strings.TrimSpace(c.WorkStyle),
		PersonalityTraits:  orEmpty(c.PersonalityTraits),
		Languages:          orEmpty(c.Languages),
	}
}

// ParseExperienceYears extracts the leading number from a free-text
// experience field ("5+ years", "12 års erfarenhet"). The second return
// reports whether anything was parsed; callers get DefaultExperienceYears
// otherwise.
func ParseExperienceYears(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultExperienceYears, false
	}

	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			start = i
			break
		}
	}
	if start == -1 {
		return DefaultExperienceYears, false
	}

	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	years, err := strconv.Atoi(s[start:end])
	if err != nil || years < 0 {
		return DefaultExperienceYears, false
	}
	if years > 50 {
		years = 50
	}
	return years, true
}

// ClassifyAvailability maps free-text availability ("Tillgänglig nu",
// "Busy until June") onto the closed status enum via case-insensitive
// substring matching.
func ClassifyAvailability(raw string) AvailabilityStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return AvailabilityUnknown
	}
	for _, entry := range availabilityKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(s, kw) {
				return entry.status
			}
		}
	}
	return AvailabilityUnknown
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// containsFold reports whether either string contains the other,
// case-insensitively. Both sides must be non-empty.
func containsFold(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// anyTermIn reports whether any of the given terms appears as a substring of
// any of the values.
func anyTermIn(values []string, terms []string) bool {
	for _, v := range values {
		lv := strings.ToLower(v)
		for _, t := range terms {
			if strings.Contains(lv, t) {
				return true
			}
		}
	}
	return false
}
