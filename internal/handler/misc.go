package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/discord"
	"github.com/frontlinebot/actlog/internal/infrastructure/notify"
	"github.com/frontlinebot/actlog/internal/response"
)

// TypeLister lists registered notifier types.
type TypeLister interface {
	AllTypesInfo() []notify.TypeInfo
	GetTypeInfo(name string) (notify.TypeInfo, bool)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// InfoHandler serves the read-only endpoints that need no storage.
type InfoHandler struct {
	Notifiers TypeLister
	DB        Pinger
	Now       func() time.Time
}

// Today returns the current frontline rotation (GET /frontline/today).
func (h *InfoHandler) Today(c echo.Context) error {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	rot := actlog.CurrentRotation(now)
	return response.OK(c, map[string]any{
		"rotation": rot,
		"embed":    discord.NewRotationPayload(rot),
	}, "")
}

// NotifierTypes lists notifier types and their config fields (GET /notifiers/types).
func (h *InfoHandler) NotifierTypes(c echo.Context) error {
	return response.OK(c, map[string]any{"types": h.Notifiers.AllTypesInfo()}, "")
}

// NotifierType returns one notifier type's config fields (GET /notifiers/types/:type).
func (h *InfoHandler) NotifierType(c echo.Context) error {
	info, ok := h.Notifiers.GetTypeInfo(c.Param("type"))
	if !ok {
		return response.NotFound(c, "unknown notifier type", c.Param("type"))
	}
	return response.OK(c, info, "")
}

func (h *InfoHandler) Health(c echo.Context) error {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			return response.Error(c, http.StatusServiceUnavailable, "database unavailable", err.Error())
		}
	}
	return response.OK(c, map[string]string{"status": "ok"}, "")
}
