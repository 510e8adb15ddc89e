// Package store owns the canonical in-memory task collection.
//
// Every change goes through one of the named operations (Initialize, Load,
// Add, Update, Delete, UndoDelete, ClearLastDeleted). They keep three
// invariants in one place: IDs are unique, TimeTaken is positive, and
// CompletedAt is set once and never cleared. Ranked and Metrics are derived
// from the current collection and recomputed only after it changes.
package store

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/watchfire-io/salesboard/internal/derive"
	"github.com/watchfire-io/salesboard/internal/models"
)

// Lifecycle errors.
var (
	// ErrAlreadyLoaded is returned by Load after the first call.
	ErrAlreadyLoaded = errors.New("store: load already started")
	// ErrAlreadyInitialized is returned by Load when the collection was set
	// by Initialize while the load was in flight.
	ErrAlreadyInitialized = errors.New("store: already initialized")
	// ErrClosed is returned by Load when the store was closed before the
	// load finished. The result is discarded.
	ErrClosed = errors.New("store: closed")
)

// Loader supplies the initial task collection.
type Loader interface {
	Load(ctx context.Context) ([]models.Task, error)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt/completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the ID generator used for new tasks.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Store holds the task collection and the single-slot undo buffer.
// It is meant to have one logical owner; the mutex only serializes the
// owner against the goroutine completing Load.
type Store struct {
	mu          sync.Mutex
	tasks       []models.Task
	lastDeleted *models.Task
	loading     bool
	loadErr     error
	initialized bool
	version     uint64
	cache       derivedCache

	loadStarted atomic.Bool
	closed      chan struct{}
	closeOnce   sync.Once

	now   func() time.Time
	newID func() string
}

type derivedCache struct {
	valid   bool
	version uint64
	ranked  []models.DerivedTask
	metrics models.Metrics
}

// Snapshot is a read-only view of the store at one version.
type Snapshot struct {
	Version     uint64
	Tasks       []models.Task
	Ranked      []models.DerivedTask
	Metrics     models.Metrics
	LastDeleted *models.Task
	Loading     bool
	Err         error
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		closed: make(chan struct{}),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close marks the owner as gone. A Load still in flight will discard its
// result instead of writing it.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Initialize sets the collection from bootstrap records. Only the first
// call (or successful Load) takes effect; it returns false afterwards.
func (s *Store) Initialize(tasks []models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return false
	}
	s.initializeLocked(tasks)
	return true
}

// Load runs l exactly once per store and installs its result. Later calls
// return ErrAlreadyLoaded without invoking the loader. A failed or cancelled
// load is recorded in Err and leaves the store empty but usable; there is no
// retry. After Close the result is dropped and nothing is written.
func (s *Store) Load(ctx context.Context, l Loader) error {
	if !s.loadStarted.CompareAndSwap(false, true) {
		return ErrAlreadyLoaded
	}

	s.mu.Lock()
	s.loading = true
	s.version++
	s.mu.Unlock()

	tasks, err := l.Load(ctx)

	if s.isClosed() {
		log.Printf("[store] discarding load result: %v", ErrClosed)
		return ErrClosed
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	s.version++
	if err != nil {
		s.loadErr = err
		log.Printf("[store] load failed: %v", err)
		return err
	}
	if s.initialized {
		log.Printf("[store] ignoring %d loaded tasks: collection already initialized", len(tasks))
		return ErrAlreadyInitialized
	}
	s.initializeLocked(tasks)
	log.Printf("[store] loaded %d tasks", len(tasks))
	return nil
}

// isClosed reports whether the owner has gone; a finished load must then
// leave the store untouched.
func (s *Store) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// initializeLocked installs bootstrap records ahead of any tasks added
// while they were loading. Caller must hold s.mu.
func (s *Store) initializeLocked(records []models.Task) {
	now := s.now()
	added := s.tasks

	seen := make(map[string]bool, len(records)+len(added))
	for _, t := range added {
		seen[t.ID] = true
	}

	tasks := make([]models.Task, 0, len(records)+len(added))
	for _, r := range records {
		t := r.Clone()
		if t.ID == "" || seen[t.ID] {
			if t.ID != "" {
				log.Printf("[store] duplicate task id %q, issuing a new one", t.ID)
			}
			t.ID = s.uniqueIDLocked(seen)
		}
		seen[t.ID] = true
		t.TimeTaken = models.ClampTimeTaken(t.TimeTaken)
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.IsDone() && t.CompletedAt == nil {
			c := now
			t.CompletedAt = &c
		}
		tasks = append(tasks, t)
	}
	tasks = append(tasks, added...)

	s.tasks = tasks
	s.initialized = true
	s.loadErr = nil
	s.loading = false
	s.version++
}

// Add creates a task from a payload and appends it to the collection.
// A caller-supplied ID is kept unless another task already uses it.
func (s *Store) Add(in models.TaskInput) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := in.ID
	if id == "" || s.indexLocked(id) >= 0 {
		if id != "" {
			log.Printf("[store] task id %q already in use, issuing a new one", id)
		}
		id = s.uniqueIDLocked(nil)
	}

	t := models.Task{
		ID:        id,
		Title:     in.Title,
		Revenue:   in.Revenue,
		TimeTaken: models.ClampTimeTaken(in.TimeTaken),
		Priority:  in.Priority,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	if t.IsDone() {
		c := now
		t.CompletedAt = &c
	}

	s.tasks = append(s.tasks, t)
	s.version++
	return t.Clone()
}

// Update applies a partial patch to the task with the given ID. It returns
// false, changing nothing, when no task matches.
//
// CompletedAt is stamped when the status moves into Done and the task has
// never been completed before; it is never cleared or moved.
func (s *Store) Update(id string, patch models.TaskPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}

	t := s.tasks[i].Clone()
	wasDone := t.IsDone()

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Revenue != nil {
		t.Revenue = *patch.Revenue
	}
	if patch.TimeTaken != nil {
		t.TimeTaken = models.ClampTimeTaken(*patch.TimeTaken)
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}

	if !wasDone && t.IsDone() && t.CompletedAt == nil {
		c := s.now()
		t.CompletedAt = &c
	}

	s.tasks[i] = t
	s.version++
	return true
}

// Delete removes the task with the given ID and holds it in the undo
// buffer, replacing whatever was there. When no task matches, the buffer is
// emptied and false is returned.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		if s.lastDeleted != nil {
			s.lastDeleted = nil
			s.version++
		}
		return false
	}

	removed := s.tasks[i]
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)
	s.lastDeleted = &removed
	s.version++
	return true
}

// UndoDelete re-appends the last deleted task, unchanged, and empties the
// buffer. It returns false when there is nothing to restore.
func (s *Store) UndoDelete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		return false
	}
	t := *s.lastDeleted
	s.lastDeleted = nil
	s.version++

	if s.indexLocked(t.ID) >= 0 {
		log.Printf("[store] not restoring task %q: id is in use again", t.ID)
		return false
	}
	s.tasks = append(s.tasks, t)
	return true
}

// ClearLastDeleted empties the undo buffer without restoring.
func (s *Store) ClearLastDeleted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted != nil {
		s.lastDeleted = nil
		s.version++
	}
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasksLocked()
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Titles returns the titles of all tasks, for uniqueness checks.
func (s *Store) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	titles := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		titles[i] = t.Title
	}
	return titles
}

// Ranked returns the derived tasks in ranking order.
func (s *Store) Ranked() []models.DerivedTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.derivedLocked().ranked)
}

// Metrics returns aggregate metrics for the collection.
func (s *Store) Metrics() models.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.derivedLocked().metrics
}

// LastDeleted returns the task held in the undo buffer, or nil.
func (s *Store) LastDeleted() *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		return nil
	}
	t := s.lastDeleted.Clone()
	return &t
}

// Loading reports whether a Load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the load failure, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Version increments on every observable change.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot returns a consistent view of all read surfaces.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.derivedLocked()
	snap := Snapshot{
		Version: s.version,
		Tasks:   s.tasksLocked(),
		Ranked:  slices.Clone(d.ranked),
		Metrics: d.metrics,
		Loading: s.loading,
		Err:     s.loadErr,
	}
	if s.lastDeleted != nil {
		t := s.lastDeleted.Clone()
		snap.LastDeleted = &t
	}
	return snap
}

// derivedLocked recomputes the ranked view and metrics if the collection
// changed since they were last built. Caller must hold s.mu.
func (s *Store) derivedLocked() *derivedCache {
	if !s.cache.valid || s.cache.version != s.version {
		s.cache = derivedCache{
			valid:   true,
			version: s.version,
			ranked:  derive.Rank(s.tasks),
			metrics: derive.Compute(s.tasks),
		}
	}
	return &s.cache
}

func (s *Store) tasksLocked() []models.Task {
	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// uniqueIDLocked draws IDs until one is unused by the collection and by
// reserved.
func (s *Store) uniqueIDLocked(reserved map[string]bool) string {
	for {
		id := s.newID()
		if id != "" && !reserved[id] && s.indexLocked(id) < 0 {
			return id
		}
	}
}
