package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/watchfire-io/salesboard/internal/models"
)

var (
	t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

// fakeClock returns successive instants each time it is read.
type fakeClock struct{ times []time.Time }

func (c *fakeClock) now() time.Time {
	if len(c.times) == 1 {
		return c.times[0]
	}
	next := c.times[0]
	c.times = c.times[1:]
	return next
}

func newTestStore(times ...time.Time) *Store {
	if len(times) == 0 {
		times = []time.Time{t0}
	}
	clock := &fakeClock{times: times}
	n := 0
	return New(
		WithClock(clock.now),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		}),
	)
}

func input(title string, status models.TaskStatus) models.TaskInput {
	return models.TaskInput{
		Title:     title,
		Revenue:   100,
		TimeTaken: 10,
		Priority:  models.PriorityMedium,
		Status:    status,
	}
}

func ptr[T any](v T) *T { return &v }

// loaderFunc adapts a function to Loader.
type loaderFunc func(ctx context.Context) ([]models.Task, error)

func (f loaderFunc) Load(ctx context.Context) ([]models.Task, error) { return f(ctx) }

func TestAddAssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore()

	todo := s.Add(input("Call Acme", models.TaskStatusTodo))
	if todo.ID != "gen-1" {
		t.Errorf("ID = %q, want gen-1", todo.ID)
	}
	if !todo.CreatedAt.Equal(t0) {
		t.Errorf("CreatedAt = %v, want %v", todo.CreatedAt, t0)
	}
	if todo.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil for Todo", todo.CompletedAt)
	}

	done := s.Add(input("Close Globex", models.TaskStatusDone))
	if done.CompletedAt == nil || !done.CompletedAt.Equal(t0) {
		t.Errorf("CompletedAt = %v, want %v for Done", done.CompletedAt, t0)
	}

	if got := len(s.Tasks()); got != 2 {
		t.Errorf("len(Tasks) = %d, want 2", got)
	}
}

func TestAddClampsTimeTaken(t *testing.T) {
	for _, v := range []float64{0, -3} {
		s := newTestStore()
		in := input("t", models.TaskStatusTodo)
		in.TimeTaken = v
		if got := s.Add(in).TimeTaken; got != 1 {
			t.Errorf("Add(timeTaken=%v).TimeTaken = %v, want 1", v, got)
		}
	}
}

func TestAddCallerIDCollision(t *testing.T) {
	s := newTestStore()

	in := input("first", models.TaskStatusTodo)
	in.ID = "fixed"
	if got := s.Add(in).ID; got != "fixed" {
		t.Fatalf("first ID = %q, want fixed", got)
	}

	in.Title = "second"
	second := s.Add(in)
	if second.ID == "fixed" {
		t.Fatal("second task reused an ID already in the collection")
	}
	if _, ok := s.Get("fixed"); !ok {
		t.Error("original task no longer reachable by its ID")
	}
}

func TestUpdateClampsAndPatchesPartially(t *testing.T) {
	s := newTestStore()
	task := s.Add(input("t", models.TaskStatusTodo))

	if !s.Update(task.ID, models.TaskPatch{TimeTaken: ptr(-5.0), Notes: ptr("follow up")}) {
		t.Fatal("Update returned false for existing task")
	}
	got, _ := s.Get(task.ID)
	if got.TimeTaken != 1 {
		t.Errorf("TimeTaken = %v, want 1", got.TimeTaken)
	}
	if got.Notes != "follow up" || got.Title != "t" || got.Revenue != 100 {
		t.Errorf("unexpected task after patch: %+v", got)
	}
}

func TestUpdateCompletedAtIsSticky(t *testing.T) {
	s := newTestStore(t0, t1, t2)
	task := s.Add(input("t", models.TaskStatusTodo)) // t0

	s.Update(task.ID, models.TaskPatch{Status: ptr(models.TaskStatusDone)}) // t1
	got, _ := s.Get(task.ID)
	if got.CompletedAt == nil || !got.CompletedAt.Equal(t1) {
		t.Fatalf("CompletedAt = %v, want %v", got.CompletedAt, t1)
	}

	s.Update(task.ID, models.TaskPatch{Status: ptr(models.TaskStatusTodo)})
	got, _ = s.Get(task.ID)
	if got.CompletedAt == nil || !got.CompletedAt.Equal(t1) {
		t.Errorf("CompletedAt after reopening = %v, want %v", got.CompletedAt, t1)
	}

	s.Update(task.ID, models.TaskPatch{Status: ptr(models.TaskStatusDone)})
	got, _ = s.Get(task.ID)
	if got.CompletedAt == nil || !got.CompletedAt.Equal(t1) {
		t.Errorf("CompletedAt after re-completing = %v, want %v", got.CompletedAt, t1)
	}
}

func TestUpdateDoneToDoneKeepsCompletedAt(t *testing.T) {
	s := newTestStore(t0, t1)
	task := s.Add(input("t", models.TaskStatusDone)) // completed at t0

	s.Update(task.ID, models.TaskPatch{Status: ptr(models.TaskStatusDone), Revenue: ptr(500.0)})
	got, _ := s.Get(task.ID)
	if !got.CompletedAt.Equal(t0) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, t0)
	}
}

func TestUpdateMissingIsNoop(t *testing.T) {
	s := newTestStore()
	s.Add(input("t", models.TaskStatusTodo))
	before := s.Version()

	if s.Update("nope", models.TaskPatch{Title: ptr("x")}) {
		t.Error("Update returned true for missing task")
	}
	if s.Version() != before {
		t.Error("Update on missing task changed the store")
	}
}

func TestDeleteUndoRoundTrip(t *testing.T) {
	s := newTestStore()
	a := s.Add(input("a", models.TaskStatusTodo))
	b := s.Add(input("b", models.TaskStatusDone))

	if !s.Delete(b.ID) {
		t.Fatal("Delete returned false")
	}
	if len(s.Tasks()) != 1 {
		t.Fatalf("len(Tasks) = %d after delete, want 1", len(s.Tasks()))
	}
	if ld := s.LastDeleted(); ld == nil || ld.ID != b.ID {
		t.Fatalf("LastDeleted = %v, want %s", ld, b.ID)
	}

	if !s.UndoDelete() {
		t.Fatal("UndoDelete returned false")
	}
	tasks := s.Tasks()
	if len(tasks) != 2 || tasks[0].ID != a.ID || tasks[1].ID != b.ID {
		t.Fatalf("Tasks after undo = %+v", tasks)
	}
	if !tasks[1].CreatedAt.Equal(b.CreatedAt) || !tasks[1].CompletedAt.Equal(*b.CompletedAt) {
		t.Error("restored task fields changed")
	}
	if s.LastDeleted() != nil {
		t.Error("buffer not cleared after undo")
	}
	if s.UndoDelete() {
		t.Error("second UndoDelete should be a no-op")
	}
}

func TestDoubleDeleteSingleUndo(t *testing.T) {
	s := newTestStore()
	a := s.Add(input("a", models.TaskStatusTodo))
	b := s.Add(input("b", models.TaskStatusTodo))

	s.Delete(a.ID)
	s.Delete(b.ID)
	s.UndoDelete()

	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Errorf("Tasks = %+v, want only %s restored", tasks, b.ID)
	}
}

func TestDeleteMissingClearsBuffer(t *testing.T) {
	s := newTestStore()
	a := s.Add(input("a", models.TaskStatusTodo))
	s.Delete(a.ID)

	if s.Delete(a.ID) {
		t.Error("Delete of missing task returned true")
	}
	if s.LastDeleted() != nil {
		t.Error("buffer should be empty after deleting a missing id")
	}
	if s.UndoDelete() {
		t.Error("UndoDelete restored after buffer was cleared")
	}
}

func TestUndoSkipsWhenIDInUse(t *testing.T) {
	s := newTestStore()
	in := input("a", models.TaskStatusTodo)
	in.ID = "shared"
	s.Add(in)
	s.Delete("shared")

	in.Title = "replacement"
	s.Add(in) // free again, so the caller ID is honored

	if s.UndoDelete() {
		t.Error("UndoDelete should refuse to create a duplicate id")
	}
	if len(s.Tasks()) != 1 {
		t.Errorf("len(Tasks) = %d, want 1", len(s.Tasks()))
	}
	if s.LastDeleted() != nil {
		t.Error("buffer not cleared")
	}
}

func TestClearLastDeleted(t *testing.T) {
	s := newTestStore()
	a := s.Add(input("a", models.TaskStatusTodo))
	s.Delete(a.ID)
	s.ClearLastDeleted()

	if s.UndoDelete() {
		t.Error("UndoDelete restored after ClearLastDeleted")
	}
}

func TestInitializeOnceAndNormalizes(t *testing.T) {
	s := newTestStore()
	records := []models.Task{
		{ID: "a", Title: "A", Revenue: 10, TimeTaken: 0, Priority: models.PriorityLow, Status: models.TaskStatusDone},
		{ID: "a", Title: "A2", Revenue: 10, TimeTaken: 2, Priority: models.PriorityLow, Status: models.TaskStatusTodo, CreatedAt: t1},
		{Title: "no id", Revenue: 10, TimeTaken: 2, Priority: models.PriorityLow, Status: models.TaskStatusTodo},
	}

	if !s.Initialize(records) {
		t.Fatal("first Initialize returned false")
	}
	if s.Initialize(nil) {
		t.Error("second Initialize returned true")
	}

	tasks := s.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("len(Tasks) = %d, want 3", len(tasks))
	}
	seen := map[string]bool{}
	for _, task := range tasks {
		if task.ID == "" || seen[task.ID] {
			t.Errorf("id %q missing or duplicated", task.ID)
		}
		seen[task.ID] = true
		if task.TimeTaken <= 0 {
			t.Errorf("%s: TimeTaken = %v", task.Title, task.TimeTaken)
		}
	}
	if tasks[0].CompletedAt == nil || !tasks[0].CreatedAt.Equal(t0) {
		t.Errorf("Done record not stamped: %+v", tasks[0])
	}
	if !tasks[1].CreatedAt.Equal(t1) {
		t.Errorf("CreatedAt overwritten: %v", tasks[1].CreatedAt)
	}
	if records[0].TimeTaken != 0 {
		t.Error("Initialize mutated its input")
	}
}

func TestLoadOnce(t *testing.T) {
	s := newTestStore()
	calls := 0
	l := loaderFunc(func(context.Context) ([]models.Task, error) {
		calls++
		return []models.Task{{ID: "x", Title: "X", Revenue: 100, TimeTaken: 10, Priority: models.PriorityMedium, Status: models.TaskStatusTodo}}, nil
	})

	if err := s.Load(context.Background(), l); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Load(context.Background(), l); !errors.Is(err, ErrAlreadyLoaded) {
		t.Errorf("second Load error = %v, want ErrAlreadyLoaded", err)
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
	if len(s.Tasks()) != 1 || s.Loading() || s.Err() != nil {
		t.Errorf("unexpected state: tasks=%d loading=%v err=%v", len(s.Tasks()), s.Loading(), s.Err())
	}
}

func TestLoadErrorLeavesStoreUsable(t *testing.T) {
	s := newTestStore()
	boom := errors.New("fetch failed")

	err := s.Load(context.Background(), loaderFunc(func(context.Context) ([]models.Task, error) {
		return nil, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("Load error = %v, want %v", err, boom)
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err = %v, want %v", s.Err(), boom)
	}
	if s.Loading() {
		t.Error("Loading still true after failure")
	}
	if len(s.Tasks()) != 0 {
		t.Error("failed load produced tasks")
	}

	s.Add(input("manual", models.TaskStatusTodo))
	if len(s.Tasks()) != 1 {
		t.Error("store not usable after load failure")
	}
}

func TestLoadDiscardedAfterClose(t *testing.T) {
	s := newTestStore()
	release := make(chan struct{})
	started := make(chan struct{})
	l := loaderFunc(func(context.Context) ([]models.Task, error) {
		close(started)
		<-release
		return []models.Task{{ID: "late", Title: "late", TimeTaken: 1}}, nil
	})

	errc := make(chan error, 1)
	go func() { errc <- s.Load(context.Background(), l) }()

	<-started
	if !s.Loading() {
		t.Error("Loading should be true while the loader runs")
	}
	s.Close()
	close(release)

	if err := <-errc; !errors.Is(err, ErrClosed) {
		t.Errorf("Load error = %v, want ErrClosed", err)
	}
	if len(s.Tasks()) != 0 {
		t.Error("stale load result was written after Close")
	}
}

func TestLoadDiscardedOnCancel(t *testing.T) {
	s := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Load(ctx, loaderFunc(func(context.Context) ([]models.Task, error) {
		cancel()
		return []models.Task{{ID: "late", Title: "late", TimeTaken: 1}}, nil
	}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load error = %v, want context.Canceled", err)
	}
	if len(s.Tasks()) != 0 {
		t.Error("load result written after cancellation")
	}
	if s.Loading() {
		t.Error("store still loading after a cancelled load")
	}
	if !errors.Is(s.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", s.Err())
	}
}

func TestLoadWithCancelledContext(t *testing.T) {
	s := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Load(ctx, loaderFunc(func(ctx context.Context) ([]models.Task, error) {
		return nil, ctx.Err()
	}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load error = %v, want context.Canceled", err)
	}
	if s.Loading() || !errors.Is(s.Err(), context.Canceled) {
		t.Errorf("Loading() = %v, Err() = %v; want a terminal cancelled state", s.Loading(), s.Err())
	}

	// The store stays usable.
	s.Add(input("after cancel", models.TaskStatusTodo))
	if len(s.Tasks()) != 1 {
		t.Errorf("len(Tasks) = %d, want 1", len(s.Tasks()))
	}
}

func TestAddDuringLoadIsKept(t *testing.T) {
	s := newTestStore()
	release := make(chan struct{})
	started := make(chan struct{})
	l := loaderFunc(func(context.Context) ([]models.Task, error) {
		close(started)
		<-release
		return []models.Task{
			{ID: "gen-1", Title: "loaded", Revenue: 50, TimeTaken: 1, Priority: models.PriorityLow, Status: models.TaskStatusTodo, CreatedAt: t0},
		}, nil
	})

	errc := make(chan error, 1)
	go func() { errc <- s.Load(context.Background(), l) }()

	<-started
	added := s.Add(input("typed while loading", models.TaskStatusTodo)) // takes gen-1
	close(release)
	if err := <-errc; err != nil {
		t.Fatalf("Load: %v", err)
	}

	tasks := s.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("len(Tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].Title != "loaded" || tasks[1].ID != added.ID {
		t.Errorf("Tasks = %+v, want loaded record then the added task", tasks)
	}
	if tasks[0].ID == tasks[1].ID {
		t.Error("loaded record kept an id already taken by an added task")
	}
}

func TestDerivedViewsFollowChanges(t *testing.T) {
	s := newTestStore()
	x := s.Add(models.TaskInput{Title: "X", Revenue: 100, TimeTaken: 10, Priority: models.PriorityMedium, Status: models.TaskStatusTodo})
	s.Add(models.TaskInput{Title: "Y", Revenue: 300, TimeTaken: 10, Priority: models.PriorityMedium, Status: models.TaskStatusTodo})

	ranked := s.Ranked()
	if ranked[0].Title != "Y" || ranked[1].Title != "X" {
		t.Fatalf("Ranked = [%s %s], want [Y X]", ranked[0].Title, ranked[1].Title)
	}
	if m := s.Metrics(); m.TotalRevenue != 400 || m.PerformanceGrade != models.GradeNeedsImprovement {
		t.Errorf("Metrics = %+v", m)
	}

	s.Update(x.ID, models.TaskPatch{Revenue: ptr(5000.0)})
	ranked = s.Ranked()
	if ranked[0].Title != "X" {
		t.Errorf("Ranked[0] = %s after update, want X", ranked[0].Title)
	}
	if m := s.Metrics(); m.TotalRevenue != 5300 {
		t.Errorf("TotalRevenue = %v, want 5300", m.TotalRevenue)
	}
}

func TestEmptyStoreMetrics(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot()
	if len(snap.Ranked) != 0 {
		t.Errorf("Ranked = %v, want empty", snap.Ranked)
	}
	if snap.Metrics != models.EmptyMetrics() {
		t.Errorf("Metrics = %+v, want %+v", snap.Metrics, models.EmptyMetrics())
	}
}

func TestTasksReturnsCopies(t *testing.T) {
	s := newTestStore()
	a := s.Add(input("a", models.TaskStatusDone))

	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	*tasks[0].CompletedAt = t2

	got, _ := s.Get(a.ID)
	if got.Title != "a" || !got.CompletedAt.Equal(t0) {
		t.Errorf("store state changed through returned slice: %+v", got)
	}
}

func TestVersionTracksLoading(t *testing.T) {
	s := newTestStore()
	start := s.Version()

	var during uint64
	err := s.Load(context.Background(), loaderFunc(func(context.Context) ([]models.Task, error) {
		during = s.Version()
		return nil, errors.New("offline")
	}))
	if err == nil {
		t.Fatal("Load should fail")
	}
	if during <= start {
		t.Errorf("version during load = %d, want > %d", during, start)
	}
	if s.Version() <= during {
		t.Errorf("version after load = %d, want > %d", s.Version(), during)
	}
}
