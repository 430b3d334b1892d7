package discord

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/model"
)

func TestWebhookClient_Send(t *testing.T) {
	var got WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewWebhookClient(srv.URL).Send(context.Background(), WebhookPayload{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}

func TestWebhookClient_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0.01")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewWebhookClient(srv.URL).Send(context.Background(), WebhookPayload{Content: "x"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestWebhookClient_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewWebhookClient(srv.URL).Send(context.Background(), WebhookPayload{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 retries")
}

func TestWebhookClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewWebhookClient(srv.URL).Send(context.Background(), WebhookPayload{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, time.Second, retryAfter(""))
	assert.Equal(t, time.Second, retryAfter("soon"))
	assert.Equal(t, 2*time.Second, retryAfter("2"))
	assert.Equal(t, 500*time.Millisecond, retryAfter("0.5"))
}

func sampleResult() actlog.Result {
	raw := "Name,Job,Damage,Ally,DPS,Deaths,DamageTaken,Duration\n" +
		"YOU,WAR,4000,T,6.5,1,3200,610\n" +
		"Bob Smith,WHM,12000,T,19.7,0,1800,612\n" +
		"Alice Zed,BLM,9000,F,14.8,2,900,605\n"
	out := actlog.Parse(raw)
	res := actlog.Aggregate(out.Records, actlog.MatchInput{
		CallerID:      "user-1",
		LinkedName:    "Taro Yamada",
		CallerTeam:    actlog.Maelstrom,
		Scores:        actlog.TeamScores{Maelstrom: 1600, TwinAdders: 900, ImmortalFlames: 1100},
		CallerKills:   5,
		CallerAssists: 12,
		ReporterName:  "Bob Smith",
		Durations:     out.Durations,
	})
	res.AssignMatch("m-1")
	return res
}

func TestNewMatchPayload(t *testing.T) {
	p := NewMatchPayload(MatchReport{MatchID: "m-1", Result: sampleResult(), Stored: 3})

	require.Len(t, p.Embeds, 1)
	e := p.Embeds[0]
	assert.Contains(t, e.Title, actlog.OnsalHakair.Name)
	assert.Contains(t, e.Description, "`m-1`")
	assert.Contains(t, e.Description, "黒渦団 (1位)")
	assert.Contains(t, e.Description, "**3名**")

	assert.Equal(t, "🥇 1位", e.Fields[0].Name)
	assert.Equal(t, "黒渦団 (1600pt)", e.Fields[0].Value)
	assert.Equal(t, "不滅隊 (1100pt)", e.Fields[1].Value)

	var joined strings.Builder
	for _, f := range e.Fields {
		joined.WriteString(f.Name + "|" + f.Value + "\n")
	}
	text := joined.String()
	assert.Contains(t, text, "軍師: Bob Smith")
	assert.Contains(t, text, "**K:** 5 / **A:** 12")
	assert.Contains(t, text, "🚩 1. Bob Smith")
	assert.Contains(t, text, "🔴 2. Alice Zed")
	assert.Contains(t, text, "**与ダメ:** 12,000")
	assert.NotContains(t, text, ". Taro Yamada", "caller is not on the leaderboard")
	assert.Equal(t, "記録者: Taro Yamada | 試合時間: 612秒 | データベースに格納済み", e.Footer.Text)
}

func TestNewMatchPayload_NoSelfNoDuration(t *testing.T) {
	res := actlog.Aggregate(map[string]actlog.ActorRecord{}, actlog.MatchInput{
		CallerID:   "user-9",
		CallerTeam: actlog.TwinAdders,
	})
	p := NewMatchPayload(MatchReport{MatchID: "m-2", Result: res})
	e := p.Embeds[0]
	assert.Contains(t, e.Title, actlog.UnknownVenue.Name)
	assert.Equal(t, "記録者: user-9 | 試合時間: 不明秒 | データベースに格納済み", e.Footer.Text)
	assert.Empty(t, e.Timestamp)
}

func TestNewReporterStatsPayload(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := NewReporterStatsPayload(actlog.ReporterSummary{
		Name: "Bob Smith", Reports: 4, Wins: 2, WinRate: 50, First: 2, Third: 1,
		AverageDPS: 1234.6, TopJob: "WHM", TopJobCount: 3, Tier: actlog.TierGood,
	}, at)

	e := p.Embeds[0]
	assert.Equal(t, colorGreen, e.Color)
	assert.Equal(t, "🏆 軍師 戦績レポート: Bob Smith", e.Title)
	assert.Contains(t, e.Fields[0].Value, "`50.00%`")
	assert.Contains(t, e.Fields[1].Value, "[WHM] (3回)")
	assert.Contains(t, e.Fields[1].Value, "`1,235`")
	assert.Equal(t, "2 回", e.Fields[3].Value)
	assert.Equal(t, "2024-05-01T12:00:00Z", e.Timestamp)

	poor := NewReporterStatsPayload(actlog.ReporterSummary{Tier: actlog.TierPoor}, at)
	assert.Equal(t, colorRed, poor.Embeds[0].Color)
}

func TestNewWatchlistPayload(t *testing.T) {
	clean := NewWatchlistPayload("Bad Guy", "", nil)
	assert.Equal(t, colorGreen, clean.Embeds[0].Color)
	assert.Contains(t, clean.Embeds[0].Fields[0].Value, "全ワールド対象")

	hit := NewWatchlistPayload("Bad Guy", "Tiamat", []model.WatchlistEntry{{
		ID: uuid.New(), CharacterName: "Bad Guy", WorldName: "Tiamat", Memo: "afk", RecordedBy: "user-1",
	}})
	e := hit.Embeds[0]
	assert.Equal(t, colorRed, e.Color)
	assert.Contains(t, e.Title, "(1件)")
	assert.Contains(t, e.Fields[0].Value, "`user-1`")
}

func TestNewRotationPayload(t *testing.T) {
	rot := actlog.CurrentRotation(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	p := NewRotationPayload(rot)
	e := p.Embeds[0]
	assert.Contains(t, e.Description, rot.Today.Name)
	assert.Equal(t, rot.Next.Name, e.Fields[0].Value)
	assert.Contains(t, e.Fields[1].Value, "▶")
}

func TestFormatNumber(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1000: "1,000", 47832: "47,832", 1234567: "1,234,567", -4200: "-4,200"}
	for in, want := range cases {
		assert.Equal(t, want, formatNumber(in))
	}
}
