package llmcall

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity bounds how many calls a Store keeps.
const DefaultCapacity = 10000

// QueryFilter specifies filters for listing LLM calls.
type QueryFilter struct {
	RunID     string
	FieldPath string
	Kind      string
	PromptKey string
	Provider  string
	Model     string
	After     *time.Time
	Before    *time.Time
	Success   *bool
	Limit     int
	Offset    int
}

// Store keeps the most recent calls in memory. Once full, the oldest call
// is evicted for each new one.
type Store struct {
	mu       sync.RWMutex
	capacity int
	calls    []Call // ring buffer
	start    int
	byID     map[string]int // id -> absolute sequence number
	seq      int
}

// NewStore creates a store holding at most capacity calls.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		calls:    make([]Call, 0, capacity),
		byID:     make(map[string]int),
	}
}

// Add records call, assigning an ID and timestamp when missing, and
// returns the stored ID.
func (s *Store) Add(call Call) string {
	if call.ID == "" {
		call.ID = uuid.New().String()
	}
	if call.Timestamp.IsZero() {
		call.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calls) < s.capacity {
		s.calls = append(s.calls, call)
	} else {
		evicted := s.calls[s.start]
		delete(s.byID, evicted.ID)
		s.calls[s.start] = call
		s.start = (s.start + 1) % s.capacity
	}
	s.byID[call.ID] = s.seq
	s.seq++
	return call.ID
}

// Len returns how many calls are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// at returns the i-th oldest call. Must be called with lock held.
func (s *Store) at(i int) Call {
	return s.calls[(s.start+i)%len(s.calls)]
}

// Get retrieves a single LLM call by ID. It returns nil when the call is
// unknown or has been evicted.
func (s *Store) Get(_ context.Context, id string) (*Call, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	oldest := s.seq - len(s.calls)
	call := s.at(seq - oldest)
	return &call, nil
}

// List returns calls matching the filter, newest first.
func (s *Store) List(_ context.Context, filter QueryFilter) ([]Call, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Call, 0)
	skipped := 0
	for i := len(s.calls) - 1; i >= 0; i-- {
		call := s.at(i)
		if !call.Matches(filter) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, call)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// CountByPromptKey returns call counts grouped by prompt key, optionally
// restricted to one run.
func (s *Store) CountByPromptKey(ctx context.Context, runID string) (map[string]int, error) {
	calls, err := s.List(ctx, QueryFilter{RunID: runID})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, c := range calls {
		counts[c.PromptKey]++
	}
	return counts, nil
}
