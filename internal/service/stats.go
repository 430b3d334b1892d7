package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/model"
)

var (
	ErrInvalidName = errors.New("both first and last name are required")
	ErrNoReports   = errors.New("no reports recorded for this reporter")
	ErrForbidden   = errors.New("record belongs to another user")
)

type ReporterResults interface {
	ListReporterResults(ctx context.Context, name string) ([]actlog.FinalizedRecord, error)
}

type ResultReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.StoredResult, error)
	ListByMatch(ctx context.Context, matchID uuid.UUID) ([]model.StoredResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MatchReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.StoredMatch, error)
}

// StatsService answers queries over stored matches.
type StatsService struct {
	reporters ReporterResults
	results   ResultReader
	matches   MatchReader
}

func NewStatsService(reporters ReporterResults, results ResultReader, matches MatchReader) *StatsService {
	return &StatsService{reporters: reporters, results: results, matches: matches}
}

// ReporterStats summarises every record flagged for the named reporter.
func (s *StatsService) ReporterStats(ctx context.Context, first, last string) (actlog.ReporterSummary, error) {
	name, ok := actlog.FullName(first, last)
	if !ok {
		return actlog.ReporterSummary{}, ErrInvalidName
	}
	records, err := s.reporters.ListReporterResults(ctx, name)
	if err != nil {
		return actlog.ReporterSummary{}, fmt.Errorf("list reports for %s: %w", name, err)
	}
	summary, ok := actlog.ReporterStats(name, records)
	if !ok {
		return summary, ErrNoReports
	}
	return summary, nil
}

// DeleteResult removes a stored record. Only the user who uploaded it may do so.
func (s *StatsService) DeleteResult(ctx context.Context, id uuid.UUID, userID string) (*model.StoredResult, error) {
	res, err := s.results.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Record.CallerID != userID {
		return nil, ErrForbidden
	}
	if err := s.results.Delete(ctx, id); err != nil {
		return nil, err
	}
	return res, nil
}

// Match returns a stored match with its records.
func (s *StatsService) Match(ctx context.Context, id uuid.UUID) (*model.MatchDetail, error) {
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	results, err := s.results.ListByMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list results of %s: %w", id, err)
	}
	if results == nil {
		results = []model.StoredResult{}
	}
	return &model.MatchDetail{Match: *m, Results: results}, nil
}
