package loader

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/watchfire-io/salesboard/internal/models"
)

var (
	seedActions = []string{
		"Discovery call with", "Product demo for", "Proposal for", "Contract renewal:",
		"Upsell analytics to", "Quarterly review with", "Pilot kickoff for", "Pricing negotiation with",
		"Onboarding plan for", "Security review for", "Expansion deal:", "Follow-up with",
	}
	seedAccounts = []string{
		"Acme Corp", "Globex", "Initech", "Umbrella", "Hooli", "Stark Industries",
		"Wayne Enterprises", "Soylent", "Vandelay Imports", "Cyberdyne", "Tyrell", "Wonka Industries",
		"Massive Dynamic", "Oscorp", "Pied Piper", "Dunder Mifflin",
	}
	seedNotes = []string{
		"", "", "Waiting on budget approval", "Champion changed roles", "Legal reviewing MSA",
		"Asked for a case study", "", "Competing with incumbent vendor",
	}
)

const seedWindow = 60 * 24 * time.Hour

// GenerateSalesTasks returns n plausible task records drawn from rng.
func GenerateSalesTasks(n int, rng *rand.Rand) []models.Task {
	return GenerateSalesTasksAt(n, rng, time.Now().UTC())
}

// GenerateSalesTasksAt is GenerateSalesTasks with a fixed reference time, so
// the output depends only on rng's seed and now.
func GenerateSalesTasksAt(n int, rng *rand.Rand, now time.Time) []models.Task {
	if n <= 0 {
		return nil
	}

	titles := seedTitles(n, rng)
	tasks := make([]models.Task, 0, n)
	for i := 0; i < n; i++ {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			id = uuid.New()
		}

		status := models.Statuses[rng.Intn(len(models.Statuses))]
		createdAt := now.Add(-time.Duration(rng.Int63n(int64(seedWindow)))).Truncate(time.Minute)

		t := models.Task{
			ID:        id.String(),
			Title:     titles[i],
			Revenue:   math.Round((500+rng.Float64()*14500)/50) * 50,
			TimeTaken: math.Round((1+rng.Float64()*39)*2) / 2,
			Priority:  models.Priorities[rng.Intn(len(models.Priorities))],
			Status:    status,
			Notes:     seedNotes[rng.Intn(len(seedNotes))],
			CreatedAt: createdAt,
		}
		if status == models.TaskStatusDone {
			span := now.Sub(createdAt)
			c := createdAt
			if span > 0 {
				c = createdAt.Add(time.Duration(rng.Int63n(int64(span)))).Truncate(time.Minute)
			}
			t.CompletedAt = &c
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// seedTitles builds n distinct titles from a shuffled action/account grid,
// numbering repeats once the grid is exhausted.
func seedTitles(n int, rng *rand.Rand) []string {
	grid := make([]string, 0, len(seedActions)*len(seedAccounts))
	for _, a := range seedActions {
		for _, acct := range seedAccounts {
			grid = append(grid, a+" "+acct)
		}
	}
	rng.Shuffle(len(grid), func(i, j int) { grid[i], grid[j] = grid[j], grid[i] })

	titles := make([]string, n)
	for i := range titles {
		titles[i] = grid[i%len(grid)]
		if round := i / len(grid); round > 0 {
			titles[i] = fmt.Sprintf("%s (%d)", titles[i], round+1)
		}
	}
	return titles
}

// WithSeedFallback wraps l so that an empty, error-free result is replaced by
// count generated records. A seed of 0 draws from the current time.
// Errors from l are returned untouched.
func WithSeedFallback(l Loader, count int, seed int64) Loader {
	return Func(func(ctx context.Context) ([]models.Task, error) {
		tasks, err := l.Load(ctx)
		if err != nil || len(tasks) > 0 {
			return tasks, err
		}
		log.Printf("[loader] source returned no tasks, generating %d seed tasks", count)
		return GenerateSalesTasks(count, NewRand(seed)), nil
	})
}

// WithSeedOnError wraps l so that a failed load is replaced by count
// generated records instead of surfacing the error.
func WithSeedOnError(l Loader, count int, seed int64) Loader {
	return Func(func(ctx context.Context) ([]models.Task, error) {
		tasks, err := l.Load(ctx)
		if err == nil || ctx.Err() != nil {
			return tasks, err
		}
		log.Printf("[loader] load failed (%v), generating %d seed tasks", err, count)
		return GenerateSalesTasks(count, NewRand(seed)), nil
	})
}

// NewRand seeds a generator, drawing from the clock when seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
