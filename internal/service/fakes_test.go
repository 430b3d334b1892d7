package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/infrastructure/notify"
	"github.com/frontlinebot/actlog/internal/model"
	"github.com/frontlinebot/actlog/internal/repository"
)

type fakeLinks struct {
	names map[string]string
	err   error
}

func (f fakeLinks) LinkedName(_ context.Context, userID string) (string, error) {
	return f.names[userID], f.err
}

type fakeMatches struct {
	mu        sync.Mutex
	err       error
	summaries map[uuid.UUID]actlog.MatchSummary
}

func (f *fakeMatches) CreateMatch(_ context.Context, s actlog.MatchSummary) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.summaries == nil {
		f.summaries = map[uuid.UUID]actlog.MatchSummary{}
	}
	id := uuid.New()
	f.summaries[id] = s
	return id, nil
}

func (f *fakeMatches) GetByID(_ context.Context, id uuid.UUID) (*model.StoredMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.summaries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.StoredMatch{ID: id, Summary: s}, nil
}

type fakeResults struct {
	mu      sync.Mutex
	failFor map[string]bool
	records map[uuid.UUID]actlog.FinalizedRecord
	delay   time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeResults) CreateResult(_ context.Context, rec actlog.FinalizedRecord) (uuid.UUID, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failFor[rec.Name] {
		return uuid.Nil, errors.New("write rejected")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records == nil {
		f.records = map[uuid.UUID]actlog.FinalizedRecord{}
	}
	id := uuid.New()
	f.records[id] = rec
	return id, nil
}

func (f *fakeResults) GetByID(_ context.Context, id uuid.UUID) (*model.StoredResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.StoredResult{ID: id, Record: rec}, nil
}

func (f *fakeResults) ListByMatch(_ context.Context, matchID uuid.UUID) ([]model.StoredResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StoredResult
	for id, rec := range f.records {
		if rec.MatchID == matchID.String() {
			out = append(out, model.StoredResult{ID: id, Record: rec})
		}
	}
	return out, nil
}

func (f *fakeResults) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeResults) ListReporterResults(_ context.Context, name string) ([]actlog.FinalizedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []actlog.FinalizedRecord
	for _, rec := range f.records {
		if rec.IsReporter && rec.Name == name {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeArchiver struct {
	err  error
	keys map[string][]byte
}

func (f *fakeArchiver) ArchiveLog(_ context.Context, matchID string, raw []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.keys == nil {
		f.keys = map[string][]byte{}
	}
	key := "act-records/" + matchID + ".csv.gz"
	f.keys[key] = raw
	return key, nil
}

type fakeNotifier struct {
	err    error
	events []notify.MatchEvent
}

func (f *fakeNotifier) Name() string { return "fake" }

func (f *fakeNotifier) Notify(_ context.Context, ev notify.MatchEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeWatchlist struct {
	entries []model.WatchlistEntry
}

func (f *fakeWatchlist) Add(_ context.Context, e *model.WatchlistEntry) error {
	e.ID = uuid.New()
	e.RecordedAt = time.Now()
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeWatchlist) Find(_ context.Context, name, world string) ([]model.WatchlistEntry, error) {
	var out []model.WatchlistEntry
	for _, e := range f.entries {
		if e.CharacterName == name && (world == "" || e.WorldName == world) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeWatchlist) DeleteByName(_ context.Context, name, world string) (int64, error) {
	var kept []model.WatchlistEntry
	var n int64
	for _, e := range f.entries {
		if e.CharacterName == name && (world == "" || e.WorldName == world) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return n, nil
}
