package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/discord"
	"github.com/frontlinebot/actlog/internal/model"
	"github.com/frontlinebot/actlog/internal/repository"
	"github.com/frontlinebot/actlog/internal/response"
	"github.com/frontlinebot/actlog/internal/service"
	"github.com/frontlinebot/actlog/internal/storage"
)

type StatsReader interface {
	ReporterStats(ctx context.Context, first, last string) (actlog.ReporterSummary, error)
	DeleteResult(ctx context.Context, id uuid.UUID, userID string) (*model.StoredResult, error)
	Match(ctx context.Context, id uuid.UUID) (*model.MatchDetail, error)
}

// ArchiveReader returns the raw exports kept in object storage.
type ArchiveReader interface {
	ReadLog(ctx context.Context, matchID string) ([]byte, error)
	ListArchives(ctx context.Context) ([]storage.ObjectInfo, error)
}

// MatchHandler serves stored matches, records and reporter stats.
type MatchHandler struct {
	Stats StatsReader
	// Archive is nil when object storage is not configured.
	Archive ArchiveReader
	Now     func() time.Time
}

// GetMatch returns a match summary with its records (GET /matches/:id).
func (h *MatchHandler) GetMatch(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid match id", err.Error())
	}
	detail, err := h.Stats.Match(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return response.NotFound(c, "match not found", id.String())
	}
	if err != nil {
		return response.InternalError(c, "get match failed", err.Error())
	}
	return response.OK(c, detail, "")
}

// GetRawLog returns the archived export of a match (GET /matches/:id/raw).
func (h *MatchHandler) GetRawLog(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid match id", err.Error())
	}
	if h.Archive == nil {
		return response.NotFound(c, "archive not configured", "object storage is disabled")
	}
	raw, err := h.Archive.ReadLog(c.Request().Context(), id.String())
	if errors.Is(err, storage.ErrObjectNotFound) {
		return response.NotFound(c, "no archived export for match", id.String())
	}
	if err != nil {
		return response.InternalError(c, "read archived export failed", err.Error())
	}
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", raw)
}

// ListArchives lists archived exports (GET /archives).
func (h *MatchHandler) ListArchives(c echo.Context) error {
	if h.Archive == nil {
		return response.OK(c, map[string]any{"objects": []storage.ObjectInfo{}}, "object storage not configured")
	}
	list, err := h.Archive.ListArchives(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "list archives failed", err.Error())
	}
	return response.OK(c, map[string]any{"objects": list}, "")
}

// DeleteRecord removes one stored record (DELETE /records/:id?user_id=).
func (h *MatchHandler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid record id", err.Error())
	}
	userID := c.QueryParam("user_id")
	if userID == "" {
		return response.BadRequest(c, "missing user_id", "query param user_id is required")
	}

	deleted, err := h.Stats.DeleteResult(c.Request().Context(), id, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return response.NotFound(c, "record not found", id.String())
	case errors.Is(err, service.ErrForbidden):
		return response.Forbidden(c, "this record was uploaded by another user", err.Error())
	case err != nil:
		return response.InternalError(c, "delete record failed", err.Error())
	}
	return response.OK(c, deleted, "record deleted")
}

// ReporterStats summarises a reporter's matches (GET /reporters/stats?first=&last=).
func (h *MatchHandler) ReporterStats(c echo.Context) error {
	summary, err := h.Stats.ReporterStats(c.Request().Context(), c.QueryParam("first"), c.QueryParam("last"))
	switch {
	case errors.Is(err, service.ErrInvalidName):
		return response.BadRequest(c, "invalid reporter name", err.Error())
	case errors.Is(err, service.ErrNoReports):
		return response.NotFound(c, "no reports found", summary.Name)
	case err != nil:
		return response.InternalError(c, "reporter stats failed", err.Error())
	}
	return response.OK(c, map[string]any{
		"stats": summary,
		"embed": discord.NewReporterStatsPayload(summary, h.now()),
	}, "")
}

func (h *MatchHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
