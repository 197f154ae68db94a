// internal/matching/analyzer.go
package matching

import (
	"fmt"
	"strings"
)

// Qualitative analysis: derives the human-readable parts of a match from the
// scores and evidence. All thresholds are fixed template gates.

// StrengthAreas emits the labeled strengths whose thresholds the profile
// crosses.
func StrengthAreas(p Profile, thoughtLeadership int) []string {
	strengths := []string{}
	if p.HasRating && p.Rating >= 4.5 {
		strengths = append(strengths, "High client satisfaction")
	}
	if p.Projects > 10 {
		strengths = append(strengths, "Extensive project experience")
	}
	if len(p.Certifications) > 2 {
		strengths = append(strengths, "Strong certification profile")
	}
	if thoughtLeadership > 80 {
		strengths = append(strengths, "Thought leadership")
	}
	return strengths
}

// DevelopmentAreas lists up to two missing required skills by name and flags
// limited seniority.
func DevelopmentAreas(a Assignment, p Profile, matchedSkills []string) []string {
	areas := []string{}

	missing := missingSkills(a, matchedSkills)
	if len(missing) > 2 {
		missing = missing[:2]
	}
	for _, skill := range missing {
		areas = append(areas, fmt.Sprintf("Missing required skill: %s", skill))
	}

	if p.HasExperience && p.ExperienceYears < 3 {
		areas = append(areas, "Junior profile - may need mentorship")
	}

	return areas
}

// RiskFactors flags the signals that historically predict a rough start.
func RiskFactors(p Profile) []string {
	risks := []string{}
	if p.HasExperience && p.ExperienceYears < 2 {
		risks = append(risks, "Less than 2 years of experience")
	}
	if p.HasRating && p.Rating < 4.0 {
		risks = append(risks, "Below-average client rating")
	}
	if p.Availability != AvailabilityAvailable {
		risks = append(risks, "Not immediately available")
	}
	return risks
}

// MatchReasoning concatenates the qualifying template sentences. When no gate
// opens, a generic fallback sentence is emitted so the field is never empty.
func MatchReasoning(p Profile, s DimensionScores) string {
	var sentences []string

	if s.TechnicalFit > 85 {
		sentences = append(sentences, fmt.Sprintf("%s has a very strong technical profile for this assignment.", displayName(p)))
	}
	if s.CulturalFit > 80 {
		sentences = append(sentences, "The cultural fit with the team is excellent.")
	}
	if p.HasRating && p.Rating >= 4.5 {
		sentences = append(sentences, fmt.Sprintf("Previous clients rate %s %.1f out of 5.", displayName(p), p.Rating))
	}
	if p.Availability == AvailabilityAvailable {
		sentences = append(sentences, "The consultant is available to start immediately.")
	}

	if len(sentences) == 0 {
		return fmt.Sprintf("%s is a reasonable candidate for this assignment based on the overall profile.", displayName(p))
	}
	return strings.Join(sentences, " ")
}

// CulturalAdaptation scores the consultant's ability to adjust to a new team:
// base 75, with bonuses for adaptability values and flexible traits.
func CulturalAdaptation(p Profile) int {
	score := 75
	if anyTermIn(p.Values, adaptabilityTerms) {
		score += 15
	}
	if anyTermIn(p.PersonalityTraits, flexibleTerms) {
		score += 10
	}
	return clampScore(score)
}

// EstimatedOnboardingTime buckets the expected ramp-up from availability and
// seniority.
func EstimatedOnboardingTime(p Profile) string {
	switch p.Availability {
	case AvailabilityAvailable:
		if p.ExperienceYears >= 7 {
			return "1 week"
		}
		return "1-2 weeks"
	case AvailabilityFuture, AvailabilityLimited, AvailabilityUnknown:
		return "2-4 weeks"
	default:
		return "4-6 weeks"
	}
}

// CoverLetter fills the deterministic local template. The remote scorer
// generates narrative letters; this is the fallback used when scoring runs
// locally.
func CoverLetter(a Assignment, p Profile, matchedSkills []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi,\n\nI would like to introduce %s for the assignment \"%s\".\n\n", displayName(p), a.Title)

	if len(matchedSkills) > 0 {
		fmt.Fprintf(&b, "%s brings hands-on experience with %s, directly matching your requirements.\n",
			displayName(p), joinNatural(matchedSkills))
	} else {
		fmt.Fprintf(&b, "%s has a broad consulting background relevant to this assignment.\n", displayName(p))
	}

	if p.ExperienceYears > 0 {
		fmt.Fprintf(&b, "With %d years of experience", p.ExperienceYears)
		if a.Industry != "" && industriesInclude(p.Industries, a.Industry) {
			fmt.Fprintf(&b, ", including work in %s,", strings.ToLower(a.Industry))
		}
		b.WriteString(" they can contribute from day one.\n")
	}

	b.WriteString("\nBest regards,\nMatchWise\n")
	return b.String()
}

// ThoughtLeadership is a light proxy score from certifications and project
// volume, used only as a strength-area gate.
func ThoughtLeadership(p Profile) int {
	score := 50
	score += len(p.Certifications) * 10
	if p.Projects > 15 {
		score += 20
	}
	return clampScore(score)
}

func missingSkills(a Assignment, matchedSkills []string) []string {
	matched := make(map[string]bool, len(matchedSkills))
	for _, s := range matchedSkills {
		matched[strings.ToLower(s)] = true
	}
	missing := []string{}
	for _, req := range a.RequiredSkills {
		if !matched[strings.ToLower(req)] {
			missing = append(missing, req)
		}
	}
	return missing
}

func displayName(p Profile) string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return "The consultant"
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
