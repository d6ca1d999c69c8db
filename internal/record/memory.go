package record

import (
	"context"
	"sort"
	"sync"
)

// MemoryRecorder keeps records in process. Used by tests and by adapters
// started without a database.
type MemoryRecorder struct {
	mu      sync.Mutex
	records map[string][]MatchRecord
	byID    map[string]MatchRecord
	stats   map[string]Stats
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		records: make(map[string][]MatchRecord),
		byID:    make(map[string]MatchRecord),
		stats:   make(map[string]Stats),
	}
}

func (m *MemoryRecorder) Record(ctx context.Context, rec MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec, err := Normalize(rec)
	if err != nil {
		return err
	}
	rec.Moves = append([]Move(nil), rec.Moves...)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[rec.ID]; ok {
		return ErrAlreadyExists
	}
	m.byID[rec.ID] = rec
	m.records[rec.AccountID] = append(m.records[rec.AccountID], rec)
	m.stats[rec.AccountID] = m.stats[rec.AccountID].Apply(rec)
	return nil
}

func (m *MemoryRecorder) Stats(ctx context.Context, accountID string) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[NormalizeAccount(accountID)]
	if !ok {
		return Stats{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryRecorder) Recent(ctx context.Context, accountID string, limit int) ([]MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.records[NormalizeAccount(accountID)]
	all := make([]MatchRecord, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		all = append(all, stored[i])
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if n := ClampLimit(limit); len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (m *MemoryRecorder) Get(ctx context.Context, id string) (MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return MatchRecord{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return MatchRecord{}, ErrNotFound
	}
	rec.Moves = append([]Move(nil), rec.Moves...)
	return rec, nil
}

func (m *MemoryRecorder) Leaderboard(ctx context.Context, limit int) ([]Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	all := make([]Stats, 0, len(m.stats))
	for _, s := range m.stats {
		all = append(all, s)
	}
	m.mu.Unlock()

	RankStats(all)
	if n := ClampLimit(limit); len(all) > n {
		all = all[:n]
	}
	return all, nil
}

var _ Recorder = (*MemoryRecorder)(nil)
