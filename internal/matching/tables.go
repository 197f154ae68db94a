// internal/matching/tables.go
package matching

// Static lookup tables used by the scorers. These are business tuning values,
// kept out of the scoring logic so they can be updated and tested on their own.

// Dimension weights for the aggregate score. Must sum to 1.0; downstream
// reports depend on these exact values.
const (
	WeightTechnical     = 0.25
	WeightCultural      = 0.20
	WeightExperience    = 0.20
	WeightAvailability  = 0.10
	WeightCommunication = 0.15
	WeightIndustry      = 0.10
)

// Per-skill weights for the technical fit scorer. Skills not listed here
// count with weight 1.
var skillWeights = map[string]int{
	// critical
	"react":      3,
	"kubernetes": 3,
	"aws":        3,
	"golang":     3,
	"go":         3,
	"java":       3,
	"python":     3,
	"terraform":  3,
	"security":   3,
	// important
	"typescript": 2,
	"node.js":    2,
	"docker":     2,
	"sql":        2,
	"postgresql": 2,
	"azure":      2,
	"gcp":        2,
	"graphql":    2,
	"ci/cd":      2,
	"agile":      2,
}

// Availability classification keywords, English and Swedish. Checked in
// order; the first table with a hit wins. Busy and limited come before
// available so negated phrases like "not available" and "ej tillgänglig"
// never hit the plain availability words they contain.
var availabilityKeywords = []struct {
	status   AvailabilityStatus
	keywords []string
}{
	{AvailabilityBusy, []string{"busy", "upptagen", "fullbokad", "fully booked", "not available", "ej tillgänglig", "inte tillgänglig"}},
	{AvailabilityLimited, []string{"limited", "begränsad", "part-time", "deltid", "partial"}},
	{AvailabilityAvailable, []string{"available", "tillgänglig", "ledig", "omgående", "immediately", "direkt", "open"}},
	{AvailabilityFuture, []string{"from", "från", "starting", "after", "efter", "notice", "uppsägningstid"}},
}

// Availability score table. Unknown defaults to a moderate 75 rather than
// penalizing missing data.
var availabilityScores = map[AvailabilityStatus]int{
	AvailabilityAvailable: 100,
	AvailabilityBusy:      60,
	AvailabilityLimited:   40,
	AvailabilityFuture:    70,
	AvailabilityUnknown:   75,
}

// Communication-style clusters. Two free-text styles landing in the same
// cluster count as compatible (85) even when they are not an exact match.
var styleClusters = [][]string{
	{"direct", "tydlig", "rak", "straightforward"},
	{"collaborative", "samarbetsinriktad", "team", "teamwork", "lagspelare"},
	{"formal", "formell", "structured", "strukturerad"},
	{"informal", "informell", "casual", "avslappnad"},
	{"analytical", "analytisk", "data-driven", "datadriven"},
}

// Related industries for partial industry credit.
var relatedIndustries = map[string][]string{
	"fintech":       {"finance", "banking", "insurance", "bank", "försäkring"},
	"finance":       {"fintech", "banking", "insurance", "bank"},
	"healthtech":    {"healthcare", "medical", "pharma", "vård", "hälsa"},
	"healthcare":    {"healthtech", "medical", "pharma", "vård"},
	"e-commerce":    {"retail", "commerce", "handel", "detaljhandel"},
	"retail":        {"e-commerce", "commerce", "handel"},
	"automotive":    {"manufacturing", "transport", "fordon", "industri"},
	"manufacturing": {"automotive", "industrial", "industri", "produktion"},
	"telecom":       {"networking", "infrastructure", "telekom", "it"},
	"gaming":        {"entertainment", "media", "spel"},
	"edtech":        {"education", "utbildning", "e-learning"},
	"public sector": {"government", "myndighet", "offentlig", "kommun"},
}

// Experience tiers derived from the assignment budget (SEK). Bonus is awarded
// only when the consultant meets the tier's minimum years.
type experienceTier struct {
	name     string
	minYears int
	bonus    int
}

var experienceTiers = map[string]experienceTier{
	"junior": {name: "junior", minYears: 2, bonus: 30},
	"mid":    {name: "mid", minYears: 4, bonus: 35},
	"senior": {name: "senior", minYears: 7, bonus: 40},
	"expert": {name: "expert", minYears: 10, bonus: 45},
}

// Budget breakpoints for the complexity tier. Numeric range comparison on the
// budget ceiling; the legacy behavior probed the budget string for literal
// substrings, which broke on formats like "2000000-2500000".
const (
	budgetMidThreshold    = 500_000
	budgetSeniorThreshold = 1_000_000
	budgetExpertThreshold = 2_000_000
)

// Languages that satisfy the local-language requirement for communication fit.
var localLanguages = []string{"swedish", "svenska", "english", "engelska"}

// Terms that signal adaptability and flexibility for the cultural adaptation
// score.
var (
	adaptabilityTerms = []string{"adaptability", "adaptable", "anpassningsbar", "flexibilitet"}
	flexibleTerms     = []string{"flexible", "flexibel", "agile", "prestigelös"}
	teamSignalTerms   = []string{"team", "lagspelare", "teamwork", "samarbete"}
)

// DefaultExperienceYears is assumed when the experience field is missing or
// unparseable.
const DefaultExperienceYears = 4

// DefaultTechnicalScore is returned when an assignment lists no required
// skills: nothing specified, nothing to penalize.
const DefaultTechnicalScore = 85
