package providers

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-edge/internal/models"
)

// roundScoreStdDev is the per-round scoring noise in strokes. Tour scoring
// data puts a golfer's round-to-round spread close to this regardless of
// skill level.
const roundScoreStdDev = 2.75

// roundsPerTournament assumes a standard four-round stroke-play event.
const roundsPerTournament = 4

// SkillSource supplies the raw skill ratings the simulation runs on.
type SkillSource interface {
	GetSkillRatings(ctx context.Context) ([]models.SkillRating, error)
}

// StatsProvider turns DataGolf skill ratings into golfer records with
// simulated tournament outcomes: win percentage, top-10 percentage, and
// average finish across simulated events.
type StatsProvider struct {
	source      SkillSource
	logger      *logrus.Logger
	simulations int
	workers     int
	seed        int64
}

// NewStatsProvider creates a simulation-backed statistics provider.
func NewStatsProvider(source SkillSource, simulations, workers int, logger *logrus.Logger) *StatsProvider {
	if simulations < 1 {
		simulations = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &StatsProvider{
		source:      source,
		logger:      logger,
		simulations: simulations,
		workers:     workers,
	}
}

// GetGolfers fetches skill ratings and simulates tournaments to produce the
// roster. An empty rating set yields an empty roster, which downstream treats
// as "statistics not loaded yet" rather than an error.
func (p *StatsProvider) GetGolfers(ctx context.Context) ([]models.Golfer, error) {
	ratings, err := p.source.GetSkillRatings(ctx)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, nil
	}

	start := time.Now()
	tally := p.simulate(ratings)

	golfers := make([]models.Golfer, len(ratings))
	sims := float64(p.simulations)
	for i, rating := range ratings {
		golfers[i] = models.Golfer{
			Name:               rating.PlayerName,
			StrokesGainedTotal: rating.SGTotal,
			SimulationStats: models.SimulationStats{
				WinPercentage:   float64(tally.wins[i]) / sims * 100.0,
				Top10Percentage: float64(tally.top10s[i]) / sims * 100.0,
				AverageFinish:   float64(tally.finishSum[i]) / sims,
			},
		}
	}

	p.logger.WithFields(logrus.Fields{
		"golfers":     len(golfers),
		"simulations": p.simulations,
		"workers":     p.workers,
		"duration":    time.Since(start).String(),
	}).Info("Simulated golfer statistics")

	return golfers, nil
}

type simTally struct {
	wins      []int64
	top10s    []int64
	finishSum []int64
}

func newSimTally(n int) *simTally {
	return &simTally{
		wins:      make([]int64, n),
		top10s:    make([]int64, n),
		finishSum: make([]int64, n),
	}
}

func (t *simTally) merge(other *simTally) {
	for i := range t.wins {
		t.wins[i] += other.wins[i]
		t.top10s[i] += other.top10s[i]
		t.finishSum[i] += other.finishSum[i]
	}
}

// simulate runs the Monte Carlo pass across a worker pool, each worker with
// its own RNG and local tally, merged at the end.
func (p *StatsProvider) simulate(ratings []models.SkillRating) *simTally {
	baseSeed := p.seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	perWorker := p.simulations / p.workers
	remainder := p.simulations % p.workers

	results := make(chan *simTally, p.workers)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		count := perWorker
		if w < remainder {
			count++
		}
		if count == 0 {
			continue
		}

		wg.Add(1)
		go func(workerID, count int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(baseSeed + int64(workerID)))
			results <- runSimulations(rng, ratings, count)
		}(w, count)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	total := newSimTally(len(ratings))
	for partial := range results {
		total.merge(partial)
	}
	return total
}

func runSimulations(rng *rand.Rand, ratings []models.SkillRating, count int) *simTally {
	tally := newSimTally(len(ratings))
	totals := make([]float64, len(ratings))
	order := make([]int, len(ratings))

	for sim := 0; sim < count; sim++ {
		for i, rating := range ratings {
			// A golfer's expected round score is par minus strokes gained;
			// par cancels out when only relative finish matters.
			score := 0.0
			for r := 0; r < roundsPerTournament; r++ {
				score += -rating.SGTotal + rng.NormFloat64()*roundScoreStdDev
			}
			totals[i] = score
			order[i] = i
		}

		sort.Slice(order, func(a, b int) bool {
			return totals[order[a]] < totals[order[b]]
		})

		for finish, idx := range order {
			position := finish + 1
			tally.finishSum[idx] += int64(position)
			if position == 1 {
				tally.wins[idx]++
			}
			if position <= 10 {
				tally.top10s[idx]++
			}
		}
	}
	return tally
}
