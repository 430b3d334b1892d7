package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/frontlinebot/actlog/internal/discord"
	"github.com/frontlinebot/actlog/internal/model"
	"github.com/frontlinebot/actlog/internal/repository"
	"github.com/frontlinebot/actlog/internal/response"
	"github.com/frontlinebot/actlog/internal/service"
)

type Watchlist interface {
	Add(ctx context.Context, req service.WatchlistAdd) (*model.WatchlistEntry, error)
	Check(ctx context.Context, first, last, world string) (string, []model.WatchlistEntry, error)
	Delete(ctx context.Context, first, last, world string) (string, int64, error)
}

// WatchlistHandler serves /watchlist.
type WatchlistHandler struct {
	Watchlist Watchlist
}

type watchlistAddRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	WorldName string `json:"world_name" validate:"required"`
	Memo      string `json:"memo" validate:"required,max=1000"`
	UserID    string `json:"user_id" validate:"required"`
	UserTag   string `json:"user_tag"`
}

func (h *WatchlistHandler) Add(c echo.Context) error {
	var req watchlistAddRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid JSON body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "invalid watchlist entry", validationDetail(err))
	}
	entry, err := h.Watchlist.Add(c.Request().Context(), service.WatchlistAdd{
		First:         req.FirstName,
		Last:          req.LastName,
		World:         req.WorldName,
		Memo:          req.Memo,
		RecordedBy:    req.UserID,
		RecordedByTag: req.UserTag,
	})
	if errors.Is(err, service.ErrInvalidName) {
		return response.BadRequest(c, "invalid watchlist entry", err.Error())
	}
	if err != nil {
		return response.InternalError(c, "add watchlist entry failed", err.Error())
	}
	return response.Created(c, entry, "added to watchlist")
}

// Check looks a player up (GET /watchlist?first=&last=&world=).
func (h *WatchlistHandler) Check(c echo.Context) error {
	world := c.QueryParam("world")
	name, entries, err := h.Watchlist.Check(c.Request().Context(), c.QueryParam("first"), c.QueryParam("last"), world)
	if errors.Is(err, service.ErrInvalidName) {
		return response.BadRequest(c, "invalid name", err.Error())
	}
	if err != nil {
		return response.InternalError(c, "watchlist check failed", err.Error())
	}
	return response.OK(c, map[string]any{
		"character_name": name,
		"listed":         len(entries) > 0,
		"entries":        entries,
		"embed":          discord.NewWatchlistPayload(name, world, entries),
	}, "")
}

// Delete removes a player's entries (DELETE /watchlist?first=&last=&world=).
func (h *WatchlistHandler) Delete(c echo.Context) error {
	name, n, err := h.Watchlist.Delete(c.Request().Context(), c.QueryParam("first"), c.QueryParam("last"), c.QueryParam("world"))
	switch {
	case errors.Is(err, service.ErrInvalidName):
		return response.BadRequest(c, "invalid name", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return response.NotFound(c, "player is not on the watchlist", name)
	case err != nil:
		return response.InternalError(c, "watchlist delete failed", err.Error())
	}
	return response.OK(c, map[string]any{"character_name": name, "deleted": n}, "removed from watchlist")
}
