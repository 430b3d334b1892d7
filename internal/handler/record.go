package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/discord"
	"github.com/frontlinebot/actlog/internal/response"
	"github.com/frontlinebot/actlog/internal/service"
)

type Recorder interface {
	Record(ctx context.Context, req service.RecordRequest) (*service.RecordOutcome, error)
}

// RecordHandler accepts act record uploads (POST /act-records).
type RecordHandler struct {
	Recorder       Recorder
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

type actRecordRequest struct {
	UserID               string `form:"user_id" query:"user_id" validate:"required"`
	MyTeam               string `form:"my_team" query:"my_team" validate:"required"`
	MaelstromPoints      int    `form:"maelstrom_points" query:"maelstrom_points" validate:"gte=0"`
	TwinAddersPoints     int    `form:"twin_adders_points" query:"twin_adders_points" validate:"gte=0"`
	ImmortalFlamesPoints int    `form:"immortal_flames_points" query:"immortal_flames_points" validate:"gte=0"`
	MyKills              int    `form:"my_kills" query:"my_kills" validate:"gte=0"`
	MyAssists            int    `form:"my_assists" query:"my_assists" validate:"gte=0"`
	StrategistFirst      string `form:"strategist_first" query:"strategist_first"`
	StrategistLast       string `form:"strategist_last" query:"strategist_last"`
}

type actRecordResponse struct {
	*service.RecordOutcome
	Summary     actlog.MatchSummary    `json:"summary"`
	ParseStatus string                 `json:"parse_status"`
	Embed       discord.WebhookPayload `json:"embed"`
}

var errTooLarge = errors.New("upload too large")

// Create handles a multipart upload (file field "log") or a raw text/csv
// body with the match fields in the query string.
func (h *RecordHandler) Create(c echo.Context) error {
	var (
		req actRecordRequest
		raw string
		err error
	)
	if isRawCSV(c) {
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
			return response.BadRequest(c, "invalid query", err.Error())
		}
		raw, err = h.readLimited(c.Request().Body)
	} else {
		if err := c.Bind(&req); err != nil {
			return response.BadRequest(c, "invalid form", err.Error())
		}
		raw, err = h.readFormFile(c)
	}
	if errors.Is(err, errTooLarge) {
		return response.TooLarge(c, "log export too large", fmt.Sprintf("limit is %d bytes", h.MaxUploadBytes))
	}
	if err != nil {
		return response.BadRequest(c, "missing log export", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "invalid act record", validationDetail(err))
	}

	team, err := actlog.ParseTeam(req.MyTeam)
	if err != nil {
		return response.BadRequest(c, "invalid my_team", err.Error())
	}

	out, err := h.Recorder.Record(c.Request().Context(), service.RecordRequest{
		UserID: req.UserID,
		Team:   team,
		Scores: actlog.TeamScores{
			Maelstrom:      req.MaelstromPoints,
			TwinAdders:     req.TwinAddersPoints,
			ImmortalFlames: req.ImmortalFlamesPoints,
		},
		Kills:         req.MyKills,
		Assists:       req.MyAssists,
		ReporterFirst: req.StrategistFirst,
		ReporterLast:  req.StrategistLast,
		Raw:           raw,
	})
	switch {
	case errors.Is(err, service.ErrUnreadableLog):
		return response.Unprocessable(c, "could not read the log export; check that it is an ACT CSV export", err.Error())
	case errors.Is(err, service.ErrUnknownTeam), errors.Is(err, service.ErrMissingUser):
		return response.BadRequest(c, "invalid act record", err.Error())
	case err != nil:
		h.Logger.Error().Err(err).Str("user_id", req.UserID).Msg("act record failed")
		return response.InternalError(c, "could not store the act record", err.Error())
	}

	return response.Created(c, actRecordResponse{
		RecordOutcome: out,
		Summary:       out.Result.Summary,
		ParseStatus:   out.Status.String(),
		Embed: discord.NewMatchPayload(discord.MatchReport{
			MatchID: out.MatchID.String(),
			Result:  out.Result,
			Stored:  out.Succeeded,
		}),
	}, fmt.Sprintf("stored %d of %d records", out.Succeeded, out.Succeeded+out.Failed))
}

func isRawCSV(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, "text/csv") || strings.HasPrefix(ct, echo.MIMETextPlain)
}

func (h *RecordHandler) readFormFile(c echo.Context) (string, error) {
	fh, err := c.FormFile("log")
	if err != nil {
		return "", fmt.Errorf("form file 'log': %w", err)
	}
	if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
		return "", errTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.readLimited(f)
}

func (h *RecordHandler) readLimited(r io.Reader) (string, error) {
	if h.MaxUploadBytes > 0 {
		r = io.LimitReader(r, h.MaxUploadBytes+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if h.MaxUploadBytes > 0 && int64(len(b)) > h.MaxUploadBytes {
		return "", errTooLarge
	}
	if len(b) == 0 {
		return "", errors.New("log export is empty")
	}
	return string(b), nil
}
