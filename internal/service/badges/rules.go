package badges

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
)

// Badge IDs of the built-in catalog.
const (
	BadgeFirstContribution   = "first_contribution"
	BadgeVerifiedContributor = "verified_contributor"
	BadgeSuperVoter          = "super_voter"
	BadgePopularSpot         = "popular_spot"
	BadgeExplorer            = "explorer"
)

var knownKinds = map[models.BadgeKind]bool{
	models.KindTotalLocations:    true,
	models.KindVerifiedLocations: true,
	models.KindVotesGiven:        true,
	models.KindUpvotesReceived:   true,
	models.KindUniqueAreas:       true,
}

// DefaultCatalog returns the built-in, ordered badge table.
func DefaultCatalog() []models.Badge {
	return []models.Badge{
		{
			ID:          BadgeFirstContribution,
			Name:        "First Contribution",
			Description: "Created your first location",
			Icon:        "🏁",
			Kind:        models.KindTotalLocations,
			Threshold:   1,
		},
		{
			ID:          BadgeVerifiedContributor,
			Name:        "Verified Contributor",
			Description: "Had a location verified by the community",
			Icon:        "✅",
			Kind:        models.KindVerifiedLocations,
			Threshold:   1,
		},
		{
			ID:          BadgeSuperVoter,
			Name:        "Super Voter",
			Description: "Cast 10 votes",
			Icon:        "🗳️",
			Kind:        models.KindVotesGiven,
			Threshold:   10,
		},
		{
			ID:          BadgePopularSpot,
			Name:        "Popular Spot",
			Description: "Received 50 upvotes across your locations",
			Icon:        "🔥",
			Kind:        models.KindUpvotesReceived,
			Threshold:   50,
		},
		{
			ID:          BadgeExplorer,
			Name:        "Explorer",
			Description: "Dropped locations in 5 distinct areas",
			Icon:        "🧭",
			Kind:        models.KindUniqueAreas,
			Threshold:   5,
		},
	}
}

// LoadCatalog reads a badge catalog from a YAML file. The file replaces the
// built-in table entirely, preserving its ordering.
func LoadCatalog(path string) ([]models.Badge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read badge catalog: %w", err)
	}

	var catalog []models.Badge
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse badge catalog: %w", err)
	}

	if err := validateCatalog(catalog); err != nil {
		return nil, fmt.Errorf("invalid badge catalog: %w", err)
	}
	return catalog, nil
}

func validateCatalog(catalog []models.Badge) error {
	if len(catalog) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]bool, len(catalog))
	for i, b := range catalog {
		if b.ID == "" {
			return fmt.Errorf("badge %d has no id", i)
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate badge id %q", b.ID)
		}
		seen[b.ID] = true
		if !knownKinds[b.Kind] {
			return fmt.Errorf("badge %q has unknown kind %q", b.ID, b.Kind)
		}
		if b.Threshold <= 0 {
			return fmt.Errorf("badge %q has non-positive threshold %d", b.ID, b.Threshold)
		}
	}
	return nil
}
