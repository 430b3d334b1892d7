package handler

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/model"
	"github.com/frontlinebot/actlog/internal/repository"
	"github.com/frontlinebot/actlog/internal/response"
)

type LinkStore interface {
	Get(ctx context.Context, userID string) (*model.CharacterLink, error)
	Upsert(ctx context.Context, userID, name string) (*model.CharacterLink, error)
	Delete(ctx context.Context, userID string) error
}

// LinkHandler manages /links/:user_id.
type LinkHandler struct {
	Links LinkStore
}

type linkRequest struct {
	FirstName string `json:"first_name" validate:"required,max=15"`
	LastName  string `json:"last_name" validate:"required,max=15"`
}

func (h *LinkHandler) Get(c echo.Context) error {
	link, err := h.Links.Get(c.Request().Context(), c.Param("user_id"))
	if errors.Is(err, repository.ErrNotFound) {
		return response.NotFound(c, "no linked character", c.Param("user_id"))
	}
	if err != nil {
		return response.InternalError(c, "get link failed", err.Error())
	}
	return response.OK(c, link, "")
}

// Put links the user to "First Last", replacing any previous link.
func (h *LinkHandler) Put(c echo.Context) error {
	var req linkRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid JSON body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "invalid link", validationDetail(err))
	}
	name, ok := actlog.FullName(req.FirstName, req.LastName)
	if !ok {
		return response.BadRequest(c, "invalid link", "first_name and last_name are required")
	}
	link, err := h.Links.Upsert(c.Request().Context(), c.Param("user_id"), name)
	if err != nil {
		return response.InternalError(c, "store link failed", err.Error())
	}
	return response.OK(c, link, "linked")
}

func (h *LinkHandler) Delete(c echo.Context) error {
	err := h.Links.Delete(c.Request().Context(), c.Param("user_id"))
	if errors.Is(err, repository.ErrNotFound) {
		return response.NotFound(c, "no linked character", c.Param("user_id"))
	}
	if err != nil {
		return response.InternalError(c, "delete link failed", err.Error())
	}
	return response.NoContent(c)
}
