package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/infrastructure/notify"
)

var (
	// ErrUnreadableLog wraps the parser's reason when an export cannot be read.
	ErrUnreadableLog = errors.New("log export could not be read")
	ErrUnknownTeam   = errors.New("unknown team")
	ErrMissingUser   = errors.New("user id is required")
)

const (
	defaultWorkers = 4
	notifyTimeout  = 15 * time.Second
)

// LinkLookup resolves the character linked to a chat user. An empty name
// means the user has no link.
type LinkLookup interface {
	LinkedName(ctx context.Context, userID string) (string, error)
}

type MatchStore interface {
	CreateMatch(ctx context.Context, summary actlog.MatchSummary) (uuid.UUID, error)
}

type ResultStore interface {
	CreateResult(ctx context.Context, rec actlog.FinalizedRecord) (uuid.UUID, error)
}

// Archiver keeps a copy of the raw export.
type Archiver interface {
	ArchiveLog(ctx context.Context, matchID string, raw []byte) (string, error)
}

// RecordRequest is one act record submission.
type RecordRequest struct {
	UserID        string
	Team          actlog.Team
	Scores        actlog.TeamScores
	Kills         int
	Assists       int
	ReporterFirst string
	ReporterLast  string
	Raw           string
}

// StoredRef names one persisted record.
type StoredRef struct {
	Name string    `json:"name"`
	ID   uuid.UUID `json:"id"`
}

type RecordOutcome struct {
	MatchID    uuid.UUID          `json:"match_id"`
	Status     actlog.ParseStatus `json:"-"`
	Result     actlog.Result      `json:"-"`
	Succeeded  int                `json:"succeeded"`
	Failed     int                `json:"failed"`
	Stored     []StoredRef        `json:"stored"`
	ArchiveKey string             `json:"archive_key,omitempty"`
}

type RecordDeps struct {
	Links   LinkLookup
	Matches MatchStore
	Results ResultStore
	// Archiver and Notifier are optional.
	Archiver Archiver
	Notifier notify.Notifier
	Workers  int
	Logger   zerolog.Logger
}

// RecordService turns an uploaded export into a stored match.
type RecordService struct {
	links    LinkLookup
	matches  MatchStore
	results  ResultStore
	archiver Archiver
	notifier notify.Notifier
	workers  int
	log      zerolog.Logger
	now      func() time.Time
}

func NewRecordService(d RecordDeps) *RecordService {
	workers := d.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &RecordService{
		links:    d.Links,
		matches:  d.Matches,
		results:  d.Results,
		archiver: d.Archiver,
		notifier: d.Notifier,
		workers:  workers,
		log:      d.Logger.With().Str("component", "record_service").Logger(),
		now:      time.Now,
	}
}

// Record parses the export, stores the match summary and every finalized
// record. Individual record failures are counted, not returned.
func (s *RecordService) Record(ctx context.Context, req RecordRequest) (*RecordOutcome, error) {
	if req.UserID == "" {
		return nil, ErrMissingUser
	}
	if !req.Team.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, req.Team)
	}
	log := s.log.With().Str("user_id", req.UserID).Logger()

	linked := ""
	if s.links != nil {
		name, err := s.links.LinkedName(ctx, req.UserID)
		if err != nil {
			log.Warn().Err(err).Msg("linked character lookup failed; continuing without it")
		} else {
			linked = name
		}
	}
	// Matched verbatim against export names, so no case folding here.
	reporter, _ := actlog.JoinName(req.ReporterFirst, req.ReporterLast)

	parsed := actlog.Parse(req.Raw)
	switch parsed.Status {
	case actlog.ParseFailed:
		return nil, fmt.Errorf("%w: %w", ErrUnreadableLog, parsed.Err)
	case actlog.ParseEmpty:
		log.Warn().Msg("log export has no player rows")
	}

	res := actlog.Aggregate(parsed.Records, actlog.MatchInput{
		CallerID:      req.UserID,
		LinkedName:    linked,
		CallerTeam:    req.Team,
		Scores:        req.Scores,
		CallerKills:   req.Kills,
		CallerAssists: req.Assists,
		ReporterName:  reporter,
		Durations:     parsed.Durations,
	})

	matchID, err := s.matches.CreateMatch(ctx, res.Summary)
	if err != nil {
		return nil, fmt.Errorf("store match summary: %w", err)
	}
	res.AssignMatch(matchID.String())
	log = log.With().Str("match_id", matchID.String()).Logger()

	out := &RecordOutcome{MatchID: matchID, Status: parsed.Status, Result: res}
	out.Stored, out.Failed = s.persist(ctx, log, res.Records)
	out.Succeeded = len(out.Stored)

	log.Info().
		Str("venue", res.Summary.Venue.ID).
		Int("records", len(res.Records)).
		Int("succeeded", out.Succeeded).
		Int("failed", out.Failed).
		Bool("reporter", res.Reporter != nil).
		Msg("act record stored")

	if s.archiver != nil {
		key, err := s.archiver.ArchiveLog(ctx, matchID.String(), []byte(req.Raw))
		if err != nil {
			log.Warn().Err(err).Msg("archive raw export failed")
		} else {
			out.ArchiveKey = key
		}
	}

	if s.notifier != nil {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		err := s.notifier.Notify(nctx, notify.MatchEvent{
			MatchID:    matchID.String(),
			Result:     res,
			Stored:     out.Succeeded,
			Failed:     out.Failed,
			RecordedAt: s.now(),
		})
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("notify match failed")
		}
	}

	return out, nil
}

// persist stores records with at most s.workers in flight.
func (s *RecordService) persist(ctx context.Context, log zerolog.Logger, records []actlog.FinalizedRecord) ([]StoredRef, int) {
	ids := make([]uuid.UUID, len(records))
	var failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, rec := range records {
		g.Go(func() error {
			id, err := s.results.CreateResult(ctx, rec)
			if err != nil {
				failed.Add(1)
				log.Error().Err(err).Str("name", rec.Name).Msg("store record failed")
				return nil
			}
			ids[i] = id
			return nil
		})
	}
	_ = g.Wait()

	stored := make([]StoredRef, 0, len(records))
	for i, id := range ids {
		if id != uuid.Nil {
			stored = append(stored, StoredRef{Name: records[i].Name, ID: id})
		}
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].Name < stored[j].Name })
	return stored, int(failed.Load())
}
