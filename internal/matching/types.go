// internal/matching/types.go
package matching

import "encoding/json"

// Assignment is a company's request for a consultant. It is created by the
// company side of the platform and is read-only to the matching engine.
type Assignment struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	RequiredSkills     []string `json:"requiredSkills"`
	RequiredValues     []string `json:"requiredValues"`
	Industry           string   `json:"industry"`
	TeamCulture        string   `json:"teamCulture"`
	CommunicationStyle string   `json:"desiredCommunicationStyle"`
	BudgetMin          int      `json:"budgetMin"`
	BudgetMax          int      `json:"budgetMax"`
	Currency           string   `json:"currency"`
	TeamSize           int      `json:"teamSize"`
	RemoteType         string   `json:"remoteType"`
	StartDate          string   `json:"startDate"`
	Workload           string   `json:"workload"`
}

// Consultant is a profile as stored by the upload pipeline. Most fields are
// free text and optional; everything here is tolerated as missing or malformed.
type Consultant struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Skills             []string        `json:"skills"`
	Values             []string        `json:"values"`
	Experience         string          `json:"experience"`
	Availability       string          `json:"availability"`
	Rating             float64         `json:"rating"`
	Projects           int             `json:"projects"`
	Certifications     []string        `json:"certifications"`
	Industries         []string        `json:"industries"`
	CommunicationStyle string          `json:"communicationStyle"`
	WorkStyle          string          `json:"workStyle"`
	PersonalityTraits  []string        `json:"personalityTraits"`
	Languages          []string        `json:"languages"`
	CVAnalysis         json.RawMessage `json:"cvAnalysis,omitempty"`
	LinkedInAnalysis   json.RawMessage `json:"linkedinAnalysis,omitempty"`
}

// AvailabilityStatus is the closed classification of the free-text
// availability field, assigned once by the normalizer.
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "available"
	AvailabilityBusy      AvailabilityStatus = "busy"
	AvailabilityLimited   AvailabilityStatus = "limited"
	AvailabilityFuture    AvailabilityStatus = "futureAvailable"
	AvailabilityUnknown   AvailabilityStatus = "unknown"
)

// Profile is the comparison-ready shape of a consultant: list fields are
// non-nil, experience is parsed to years, availability is classified.
type Profile struct {
	ID                 string
	Name               string
	Email              string
	Skills             []string
	Values             []string
	ExperienceYears    int
	HasExperience      bool
	Availability       AvailabilityStatus
	Rating             float64
	HasRating          bool
	Projects           int
	Certifications     []string
	Industries         []string
	CommunicationStyle string
	WorkStyle          string
	PersonalityTraits  []string
	Languages          []string
}

// DimensionScores holds the six independent 0-100 sub-scores.
type DimensionScores struct {
	TechnicalFit       int `json:"technicalFit"`
	CulturalFit        int `json:"culturalFit"`
	ExperienceMatch    int `json:"experienceMatch"`
	AvailabilityScore  int `json:"availabilityScore"`
	CommunicationFit   int `json:"communicationFit"`
	IndustryExperience int `json:"industryExperience"`
}

// Match is one scored, evidenced pairing of a consultant to an assignment.
type Match struct {
	ConsultantID   string `json:"consultantId"`
	ConsultantName string `json:"consultantName"`

	Scores          DimensionScores `json:"scores"`
	TotalMatchScore int             `json:"totalMatchScore"`
	ConfidenceLevel int             `json:"confidenceLevel"`

	MatchedSkills []string `json:"matchedSkills"`
	MatchedValues []string `json:"matchedValues"`

	StrengthAreas    []string `json:"strengthAreas"`
	DevelopmentAreas []string `json:"developmentAreas"`
	RiskFactors      []string `json:"riskFactors"`
	MatchReasoning   string   `json:"matchReasoning"`

	SuccessPrediction       int    `json:"successPrediction"`
	EstimatedOnboardingTime string `json:"estimatedOnboardingTime"`
	CulturalAdaptation      int    `json:"culturalAdaptation"`

	CoverLetter string `json:"coverLetter,omitempty"`
}

// RankScore is the confidence-discounted score used for ordering: a high raw
// score from a sparse profile ranks below a slightly lower score from a
// well-documented one.
func (m Match) RankScore() float64 {
	return float64(m.TotalMatchScore) * float64(m.ConfidenceLevel) / 100.0
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
