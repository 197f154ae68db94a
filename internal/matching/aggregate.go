// internal/matching/aggregate.go
package matching

import "math"

// TotalScore combines the six dimension scores into the weighted aggregate.
func TotalScore(s DimensionScores) int {
	total := float64(s.TechnicalFit)*WeightTechnical +
		float64(s.CulturalFit)*WeightCultural +
		float64(s.ExperienceMatch)*WeightExperience +
		float64(s.AvailabilityScore)*WeightAvailability +
		float64(s.CommunicationFit)*WeightCommunication +
		float64(s.IndustryExperience)*WeightIndustry
	return clampScore(int(math.Round(total)))
}

// ConfidenceLevel measures how complete the profile data is, independent of
// match quality. A sparse profile never reaches high confidence, even with a
// perfect score.
func ConfidenceLevel(p Profile) int {
	confidence := 60
	if len(p.Skills) > 5 {
		confidence += 10
	}
	if p.HasExperience {
		confidence += 10
	}
	if p.HasRating {
		confidence += 10
	}
	if len(p.Values) > 0 {
		confidence += 5
	}
	if len(p.Certifications) > 0 {
		confidence += 5
	}
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

// SuccessPrediction estimates engagement success from the total score plus
// track-record bonuses. Capped at 95: the engine never claims certainty.
func SuccessPrediction(totalScore int, p Profile) int {
	prediction := float64(totalScore) * 0.7
	if p.HasRating && p.Rating >= 4.5 {
		prediction += 10
	}
	if p.Projects > 5 {
		prediction += 10
	}

	result := int(math.Round(prediction))
	if result < 0 {
		result = 0
	}
	if result > 95 {
		result = 95
	}
	return result
}
