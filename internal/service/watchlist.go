package service

import (
	"context"
	"strings"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/model"
	"github.com/frontlinebot/actlog/internal/repository"
)

type WatchlistStore interface {
	Add(ctx context.Context, entry *model.WatchlistEntry) error
	Find(ctx context.Context, name, world string) ([]model.WatchlistEntry, error)
	DeleteByName(ctx context.Context, name, world string) (int64, error)
}

type WatchlistAdd struct {
	First         string
	Last          string
	World         string
	Memo          string
	RecordedBy    string
	RecordedByTag string
}

type WatchlistService struct {
	store WatchlistStore
}

func NewWatchlistService(store WatchlistStore) *WatchlistService {
	return &WatchlistService{store: store}
}

func (s *WatchlistService) Add(ctx context.Context, req WatchlistAdd) (*model.WatchlistEntry, error) {
	name, ok := actlog.FullName(req.First, req.Last)
	if !ok {
		return nil, ErrInvalidName
	}
	entry := &model.WatchlistEntry{
		CharacterName: name,
		FirstName:     actlog.Capitalize(req.First),
		LastName:      actlog.Capitalize(req.Last),
		WorldName:     strings.TrimSpace(req.World),
		Memo:          strings.TrimSpace(req.Memo),
		RecordedBy:    req.RecordedBy,
		RecordedByTag: req.RecordedByTag,
	}
	if err := s.store.Add(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Check returns the composed name and its entries; world narrows the search when set.
func (s *WatchlistService) Check(ctx context.Context, first, last, world string) (string, []model.WatchlistEntry, error) {
	name, ok := actlog.FullName(first, last)
	if !ok {
		return "", nil, ErrInvalidName
	}
	entries, err := s.store.Find(ctx, name, strings.TrimSpace(world))
	if err != nil {
		return name, nil, err
	}
	if entries == nil {
		entries = []model.WatchlistEntry{}
	}
	return name, entries, nil
}

// Delete removes every entry for the name and reports how many went.
func (s *WatchlistService) Delete(ctx context.Context, first, last, world string) (string, int64, error) {
	name, ok := actlog.FullName(first, last)
	if !ok {
		return "", 0, ErrInvalidName
	}
	n, err := s.store.DeleteByName(ctx, name, strings.TrimSpace(world))
	if err != nil {
		return name, 0, err
	}
	if n == 0 {
		return name, 0, repository.ErrNotFound
	}
	return name, n, nil
}
