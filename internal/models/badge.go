package models

// BadgeKind selects the statistic a badge threshold applies to. Badges are a
// fixed enumerated set rather than arbitrary criteria expressions, so the
// catalog stays data-driven without runtime dispatch.
type BadgeKind string

// Badge kind constants.
const (
	KindTotalLocations    BadgeKind = "total_locations"
	KindVerifiedLocations BadgeKind = "verified_locations"
	KindVotesGiven        BadgeKind = "votes_given"
	KindUpvotesReceived   BadgeKind = "upvotes_received"
	KindUniqueAreas       BadgeKind = "unique_areas"
)

// Badge is a catalog entry: display metadata plus the threshold rule.
type Badge struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
	Kind        BadgeKind `json:"kind" yaml:"kind"`
	Threshold   int       `json:"threshold" yaml:"threshold"`
}

// UserStats is the aggregated snapshot badge rules are evaluated against.
type UserStats struct {
	TotalLocations       int `json:"total_locations"`
	VerifiedLocations    int `json:"verified_locations"`
	TotalVotesGiven      int `json:"total_votes_given"`
	TotalUpvotesReceived int `json:"total_upvotes_received"`
	UniqueAreas          int `json:"unique_areas"`
}

// StatFor returns the snapshot value the badge kind measures. Unknown kinds
// report zero and therefore never satisfy a positive threshold.
func (s *UserStats) StatFor(kind BadgeKind) int {
	switch kind {
	case KindTotalLocations:
		return s.TotalLocations
	case KindVerifiedLocations:
		return s.VerifiedLocations
	case KindVotesGiven:
		return s.TotalVotesGiven
	case KindUpvotesReceived:
		return s.TotalUpvotesReceived
	case KindUniqueAreas:
		return s.UniqueAreas
	default:
		return 0
	}
}

// Satisfied reports whether the stats snapshot meets the badge threshold.
func (b *Badge) Satisfied(stats *UserStats) bool {
	return stats.StatFor(b.Kind) >= b.Threshold
}
