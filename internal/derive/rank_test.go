package derive

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/watchfire-io/salesboard/internal/models"
)

func titles(ranked []models.DerivedTask) []string {
	out := make([]string, len(ranked))
	for i, d := range ranked {
		out[i] = d.Title
	}
	return out
}

func TestRankByROI(t *testing.T) {
	tasks := []models.Task{
		task("X", 100, 10, models.PriorityMedium),
		task("Y", 300, 10, models.PriorityMedium),
	}

	got := titles(Rank(tasks))
	if want := []string{"Y", "X"}; !slices.Equal(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

func TestRankTieBreaks(t *testing.T) {
	tasks := []models.Task{
		task("delta", 200, 2, models.PriorityLow),    // 100, low
		task("charlie", 200, 2, models.PriorityHigh), // 100, high
		task("bravo", 200, 2, models.PriorityLow),    // 100, low
		task("alpha", 500, 1, models.PriorityLow),    // 500
		task("echo", 50, 0, models.PriorityHigh),     // undefined ROI
	}

	got := titles(Rank(tasks))
	want := []string{"alpha", "charlie", "bravo", "delta", "echo"}
	if !slices.Equal(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

func TestRankUndefinedROISortsLast(t *testing.T) {
	tasks := []models.Task{
		task("broken", 1_000_000, 0, models.PriorityHigh),
		task("zero", 0, 5, models.PriorityLow),
	}

	got := titles(Rank(tasks))
	if want := []string{"zero", "broken"}; !slices.Equal(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

func TestRankIndependentOfInputOrder(t *testing.T) {
	var tasks []models.Task
	for i, title := range []string{"m", "k", "a", "z", "b", "q", "c", "y"} {
		p := models.Priorities[i%len(models.Priorities)]
		tasks = append(tasks, task(title, float64(100*(i%3)), 1, p))
	}
	// Same title twice; ID must settle the order.
	dup := task("a", 0, 1, models.PriorityHigh)
	dup.ID = "id-a-2"
	tasks = append(tasks, dup)

	want := Rank(tasks)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		shuffled := slices.Clone(tasks)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := Rank(shuffled)
		for j := range want {
			if got[j].ID != want[j].ID {
				t.Fatalf("iteration %d: position %d = %s, want %s", i, j, got[j].ID, want[j].ID)
			}
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		task("low", 10, 1, models.PriorityLow),
		task("high", 1000, 1, models.PriorityLow),
	}
	_ = Rank(tasks)
	if tasks[0].Title != "low" || tasks[1].Title != "high" {
		t.Errorf("input reordered: %v, %v", tasks[0].Title, tasks[1].Title)
	}
}

func TestCompareTitleOrder(t *testing.T) {
	a := WithDerived(task("apple", 100, 1, models.PriorityMedium))
	b := WithDerived(task("banana", 100, 1, models.PriorityMedium))
	r := newRanker()
	if r.compare(a, b) >= 0 {
		t.Error("apple should rank before banana")
	}
	if r.compare(b, a) <= 0 {
		t.Error("banana should rank after apple")
	}
	if r.compare(a, a) != 0 {
		t.Error("a task should compare equal to itself")
	}
}
