package podcheck

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/podsmith/pkg/logger"
)

// Tier bands a generated player is drawn from, as {low, high} on the numeric
// scale. Weighted toward the middle like a typical store night.
var tierBands = [][2]float64{
	{5, 7}, {5, 7}, {6, 8}, {6, 8},
	{3, 5}, {7, 9}, {8, 10}, {1, 4},
}

var bracketLabels = []string{"1", "2", "3", "4", "top"}

// generateRosters creates config.Rosters random rosters. Roster i is drawn
// from a PCG stream keyed by (Seed, i) so a run is reproducible.
func generateRosters(ctx context.Context, config *Config, stats *Stats) ([]Roster, error) {
	logger.Get().Info(ctx, "generating rosters",
		logger.Int("rosters", config.Rosters),
		logger.Int("minSize", config.MinSize),
		logger.Int("maxSize", config.MaxSize))

	rosters := make([]Roster, config.Rosters)
	for i := range rosters {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during roster generation: %w", err)
		}
		rng := rand.New(rand.NewPCG(config.Seed, uint64(i)))
		rosters[i] = generateRoster(rng, config)
	}

	stats.RostersGenerated = len(rosters)
	logger.Get().Info(ctx, "generated rosters successfully", logger.Int("count", len(rosters)))
	return rosters, nil
}

// generateRoster builds one roster. Group members always share the group's
// anchor tier so every generated group is feasible.
func generateRoster(rng *rand.Rand, config *Config) Roster {
	size := config.MinSize
	if config.MaxSize > config.MinSize {
		size += rng.IntN(config.MaxSize - config.MinSize + 1)
	}

	r := Roster{
		RosterID:     uuid.NewString(),
		Tolerance:    config.Tolerance,
		Mode:         config.Mode,
		Scale:        config.Scale,
		Participants: make([]Participant, 0, size),
	}

	groups := 0
	for len(r.Participants) < size {
		remaining := size - len(r.Participants)
		if remaining >= 2 && rng.Float64() < config.GroupRate {
			members := 2 + rng.IntN(min(remaining, 4)-1)
			groups++
			groupID := "g" + strconv.Itoa(groups)
			anchor := drawTier(rng, config.Scale)
			for range members {
				r.Participants = append(r.Participants, newParticipant(rng, config.Scale, len(r.Participants), groupID, anchor))
			}
			continue
		}
		r.Participants = append(r.Participants, newParticipant(rng, config.Scale, len(r.Participants), "", drawTier(rng, config.Scale)))
	}
	return r
}

func newParticipant(rng *rand.Rand, scale string, index int, groupID, anchor string) Participant {
	tiers := []string{anchor}
	extra := rng.IntN(3)
	for range extra {
		tiers = append(tiers, drawTier(rng, scale))
	}
	return Participant{
		ID:      "p" + strconv.Itoa(index+1),
		Name:    "player-" + strconv.Itoa(index+1),
		Tiers:   tiers,
		GroupID: groupID,
	}
}

// drawTier returns a tier label: a half-step value in a weighted band on the
// numeric scale, or one of the bracket labels.
func drawTier(rng *rand.Rand, scale string) string {
	if scale == "bracket" {
		return bracketLabels[rng.IntN(len(bracketLabels))]
	}
	band := tierBands[rng.IntN(len(tierBands))]
	steps := int((band[1] - band[0]) * 2)
	v := band[0] + float64(rng.IntN(steps+1))/2
	return strconv.FormatFloat(v, 'f', -1, 64)
}
