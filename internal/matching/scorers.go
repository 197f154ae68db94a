// internal/matching/scorers.go
package matching

import (
	"math"
	"strings"
)

// The six dimension scorers. Each is a pure function over a normalized
// assignment and a normalized consultant profile, returning a 0-100 score
// (plus evidence where the dimension produces any).

// TechnicalFit scores required-skill coverage. Per-skill weights come from
// the skill weight table, match levels are 100 exact / 80 substring / 0 none.
// Consultant skills beyond the requirements and years of experience add
// capped bonuses. Returns the matched required skills as evidence.
func TechnicalFit(a Assignment, p Profile) (int, []string) {
	if len(a.RequiredSkills) == 0 {
		return DefaultTechnicalScore, []string{}
	}

	matched := []string{}
	matchedSet := make(map[string]bool)

	totalWeight := 0
	weightedLevel := 0
	for _, req := range a.RequiredSkills {
		weight := skillWeightFor(req)
		totalWeight += weight

		level, hit := skillMatchLevel(req, p.Skills)
		weightedLevel += weight * level
		if level > 0 {
			matched = append(matched, req)
			matchedSet[strings.ToLower(hit)] = true
		}
	}

	base := float64(weightedLevel) / float64(totalWeight)

	// Breadth beyond the requirements: 2 points per extra skill, capped at 15.
	extras := 0
	for _, s := range p.Skills {
		if !matchedSet[strings.ToLower(s)] {
			extras++
		}
	}
	extraBonus := extras * 2
	if extraBonus > 15 {
		extraBonus = 15
	}

	expBonus := p.ExperienceYears
	if expBonus > 10 {
		expBonus = 10
	}

	return clampScore(int(math.Round(base)) + extraBonus + expBonus), matched
}

func skillWeightFor(skill string) int {
	if w, ok := skillWeights[strings.ToLower(strings.TrimSpace(skill))]; ok {
		return w
	}
	return 1
}

// skillMatchLevel returns the best match level for one required skill against
// the consultant's skill list, and the consultant skill that produced it.
func skillMatchLevel(required string, skills []string) (int, string) {
	best := 0
	hit := ""
	req := strings.ToLower(strings.TrimSpace(required))
	for _, s := range skills {
		cand := strings.ToLower(strings.TrimSpace(s))
		if cand == "" {
			continue
		}
		switch {
		case cand == req:
			return 100, s
		case strings.Contains(cand, req) || strings.Contains(req, cand):
			if best < 80 {
				best = 80
				hit = s
			}
		}
	}
	return best, hit
}

// CulturalFit starts from a base of 70 and adds credit for shared values,
// communication-style compatibility, and a team-dynamics signal on both
// sides. Returns the matched values as evidence.
func CulturalFit(a Assignment, p Profile) (int, []string) {
	score := 70.0
	matchedValues := []string{}

	if len(a.RequiredValues) > 0 && len(p.Values) > 0 {
		for _, rv := range a.RequiredValues {
			for _, cv := range p.Values {
				if containsFold(rv, cv) {
					matchedValues = append(matchedValues, rv)
					break
				}
			}
		}
		score += 25.0 * float64(len(matchedValues)) / float64(len(a.RequiredValues))
	}

	if a.CommunicationStyle != "" && p.CommunicationStyle != "" {
		score += float64(StyleCompatibility(a.CommunicationStyle, p.CommunicationStyle)) * 0.15
	}

	if hasTeamSignal(a.TeamCulture) && (hasTeamSignal(p.WorkStyle) || anyTermIn(p.PersonalityTraits, teamSignalTerms)) {
		score += 10
	}

	return clampScore(int(math.Round(score))), matchedValues
}

func hasTeamSignal(s string) bool {
	return anyTermIn([]string{s}, teamSignalTerms)
}

// ExperienceMatch scores seniority against the assignment's complexity tier.
// The tier bonus is all-or-nothing at the tier's year threshold; completed
// projects and direct industry experience add on top.
func ExperienceMatch(a Assignment, p Profile) int {
	tier := complexityTier(a)

	score := 50
	if p.ExperienceYears >= tier.minYears {
		score += tier.bonus
	}

	projectBonus := p.Projects
	if projectBonus > 15 {
		projectBonus = 15
	}
	score += projectBonus

	if a.Industry != "" && industriesInclude(p.Industries, a.Industry) {
		score += 10
	}

	return clampScore(score)
}

// complexityTier infers the assignment's seniority tier from its budget
// ceiling, falling back to the floor and then to mid when no budget is set.
func complexityTier(a Assignment) experienceTier {
	budget := a.BudgetMax
	if budget == 0 {
		budget = a.BudgetMin
	}
	switch {
	case budget == 0:
		return experienceTiers["mid"]
	case budget < budgetMidThreshold:
		return experienceTiers["junior"]
	case budget < budgetSeniorThreshold:
		return experienceTiers["mid"]
	case budget < budgetExpertThreshold:
		return experienceTiers["senior"]
	default:
		return experienceTiers["expert"]
	}
}

// AvailabilityScore maps the classified availability status to its fixed
// score.
func AvailabilityScore(p Profile) int {
	if score, ok := availabilityScores[p.Availability]; ok {
		return score
	}
	return availabilityScores[AvailabilityUnknown]
}

// CommunicationFit scores responsiveness signals: client rating, local
// language coverage, and style compatibility with the assignment.
func CommunicationFit(a Assignment, p Profile) int {
	rating := p.Rating
	if !p.HasRating {
		rating = 4.0
	}
	score := rating / 5.0 * 60.0

	if anyTermIn(p.Languages, localLanguages) {
		score += 20
	}

	if a.CommunicationStyle != "" && p.CommunicationStyle != "" {
		score += float64(StyleCompatibility(a.CommunicationStyle, p.CommunicationStyle)) * 0.2
	}

	return clampScore(int(math.Round(score)))
}

// IndustryExperience gives 95 for a direct industry match, 75 for a related
// industry, 50 for a clear mismatch, and a neutral 60 when either side has no
// industry data at all.
func IndustryExperience(a Assignment, p Profile) int {
	if strings.TrimSpace(a.Industry) == "" || len(p.Industries) == 0 {
		return 60
	}

	if industriesInclude(p.Industries, a.Industry) {
		return 95
	}

	if related, ok := relatedIndustries[strings.ToLower(strings.TrimSpace(a.Industry))]; ok {
		if anyTermIn(p.Industries, related) {
			return 75
		}
	}

	return 50
}

func industriesInclude(industries []string, industry string) bool {
	for _, ind := range industries {
		if containsFold(ind, industry) {
			return true
		}
	}
	return false
}

// StyleCompatibility compares two free-text communication styles: exact
// case-insensitive match 100, same cluster 85, otherwise a partial-credit 60.
// Never zero: unknown styles are not evidence of incompatibility.
func StyleCompatibility(a, b string) int {
	sa := strings.ToLower(strings.TrimSpace(a))
	sb := strings.ToLower(strings.TrimSpace(b))
	if sa == sb && sa != "" {
		return 100
	}
	for _, cluster := range styleClusters {
		if inCluster(sa, cluster) && inCluster(sb, cluster) {
			return 85
		}
	}
	return 60
}

func inCluster(style string, cluster []string) bool {
	for _, member := range cluster {
		if strings.Contains(style, member) {
			return true
		}
	}
	return false
}

// ScoreDimensions runs all six scorers and returns the scores plus evidence.
func ScoreDimensions(a Assignment, p Profile) (DimensionScores, []string, []string) {
	technical, matchedSkills := TechnicalFit(a, p)
	cultural, matchedValues := CulturalFit(a, p)

	return DimensionScores{
		TechnicalFit:       technical,
		CulturalFit:        cultural,
		ExperienceMatch:    ExperienceMatch(a, p),
		AvailabilityScore:  AvailabilityScore(p),
		CommunicationFit:   CommunicationFit(a, p),
		IndustryExperience: IndustryExperience(a, p),
	}, matchedSkills, matchedValues
}
