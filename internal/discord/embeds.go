package discord

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/model"
)

const (
	colorRed    = 0xCF1E1E
	colorGreen  = 0x47FF47
	colorYellow = 0xFFFF00
	colorBlue   = 0x0099FF
	colorGold   = 0xFFC832

	separator = "────────────────────"
	blank     = "\u200b"
)

var placeMedals = [...]string{"🥇 1位", "🥈 2位", "🥉 3位"}

// MatchReport is what gets announced after an upload is stored.
type MatchReport struct {
	MatchID    string
	Result     actlog.Result
	Stored     int
	RecordedAt time.Time
}

// NewMatchPayload renders a stored match: standings, the reporter, the
// caller's own line and the damage leaderboard.
func NewMatchPayload(r MatchReport) WebhookPayload {
	s := r.Result.Summary

	desc := fmt.Sprintf("**試合ID:** `%s`\n**自分のチーム:** %s (%s位)\n\n戦闘記録を**%d名**について登録しました。",
		r.MatchID, s.CallerTeamLabel, s.CallerRank(), r.Stored)
	desc += "\n\n⚠️ **注釈:** フィールドは優勝チームのポイントに基づいて自動判定しています。"

	embed := Embed{
		Title:       fmt.Sprintf("✅ ACTフロントライン記録完了 (%s)", s.Venue.Name),
		Description: desc,
		Color:       colorBlue,
	}
	for i, st := range s.Standings {
		if i >= len(placeMedals) {
			break
		}
		embed.Fields = append(embed.Fields, EmbedField{
			Name:   placeMedals[i],
			Value:  fmt.Sprintf("%s (%dpt)", st.Name, st.Points),
			Inline: true,
		})
	}

	if rep := r.Result.Reporter; rep != nil {
		embed.Fields = append(embed.Fields, EmbedField{
			Name:  separator,
			Value: fmt.Sprintf("**👑 軍師: %s %s [%s]**", rep.Name, actlog.JobEmoji(rep.Job), rep.Job),
		})
	}

	if self := r.Result.Self; self != nil {
		embed.Fields = append(embed.Fields,
			EmbedField{
				Name:  separator,
				Value: fmt.Sprintf("**👑 あなたの戦績 (%s %s [%s])**", self.Name, actlog.JobEmoji(self.Job), self.Job),
			},
			EmbedField{
				Name:   "キル/アシスト",
				Value:  fmt.Sprintf("**K:** %d / **A:** %d", self.Kills, self.Assists),
				Inline: true,
			},
			EmbedField{
				Name:   "与ダメージ / DPS",
				Value:  fmt.Sprintf("**Dmg:** %s / **DPS:** %s", formatNumber(self.Damage), formatNumber(roundInt(self.DPS))),
				Inline: true,
			},
			EmbedField{
				Name:   "被ダメージ / デス",
				Value:  fmt.Sprintf("**被Dmg:** %s / **Death:** %d", formatNumber(self.DamageTaken), self.Deaths),
				Inline: true,
			},
		)
	}

	embed.Fields = append(embed.Fields, EmbedField{
		Name:  blank,
		Value: fmt.Sprintf("**⚔️ 全員与ダメージランキング TOP %d**", actlog.LeaderboardSize),
	})
	for i, p := range r.Result.Leaderboard {
		embed.Fields = append(embed.Fields, EmbedField{
			Name: fmt.Sprintf("%s %d. %s %s [%s] (DPS: %s)",
				allyMark(p), i+1, p.Name, actlog.JobEmoji(p.Job), p.Job, formatNumber(roundInt(p.DPS))),
			Value: fmt.Sprintf("**与ダメ:** %s | **被ダメ:** %s | **デス:** %d",
				formatNumber(p.Damage), formatNumber(p.DamageTaken), p.Deaths),
		})
	}

	recorder := s.RecordedBy
	if self := r.Result.Self; self != nil {
		recorder = self.Name
	}
	duration := "不明"
	if s.EstimatedDuration != nil {
		duration = strconv.Itoa(*s.EstimatedDuration)
	}
	embed.Footer = &EmbedFooter{Text: fmt.Sprintf("記録者: %s | 試合時間: %s秒 | データベースに格納済み", recorder, duration)}
	embed.Timestamp = timestamp(r.RecordedAt)

	return WebhookPayload{Embeds: []Embed{embed}}
}

func allyMark(r actlog.FinalizedRecord) string {
	if r.IsReporter {
		return "🚩"
	}
	switch r.Allegiance() {
	case actlog.Friendly:
		return "🟢"
	case actlog.Enemy:
		return "🔴"
	}
	return "⚪"
}

// NewReporterStatsPayload renders a reporter's record across every stored match.
func NewReporterStatsPayload(s actlog.ReporterSummary, at time.Time) WebhookPayload {
	color := colorRed
	switch s.Tier {
	case actlog.TierGood:
		color = colorGreen
	case actlog.TierFair:
		color = colorYellow
	}

	return WebhookPayload{Embeds: []Embed{{
		Title:       "🏆 軍師 戦績レポート: " + s.Name,
		Description: fmt.Sprintf("総記録回数: **%d 回**", s.Reports),
		Color:       color,
		Fields: []EmbedField{
			{
				Name:   "⚔️ 最重要指標",
				Value:  fmt.Sprintf("**総勝利回数:** %d 回\n**勝率:** `%.2f%%`", s.Wins, s.WinRate),
				Inline: true,
			},
			{
				Name: "💡 ジョブ/火力",
				Value: fmt.Sprintf("**最多ジョブ:** %s [%s] (%d回)\n**平均DPS:** `%s`",
					actlog.JobEmoji(s.TopJob), s.TopJob, s.TopJobCount, formatNumber(roundInt(s.AverageDPS))),
				Inline: true,
			},
			{Name: blank, Value: blank},
			{Name: placeMedals[0], Value: fmt.Sprintf("%d 回", s.First), Inline: true},
			{Name: placeMedals[1], Value: fmt.Sprintf("%d 回", s.Second), Inline: true},
			{Name: placeMedals[2], Value: fmt.Sprintf("%d 回", s.Third), Inline: true},
		},
		Footer:    &EmbedFooter{Text: "記録はACTデータに基づきます。"},
		Timestamp: timestamp(at),
	}}}
}

// NewRotationPayload renders today's frontline map.
func NewRotationPayload(rot actlog.Rotation) WebhookPayload {
	var order strings.Builder
	for i, v := range rot.Order {
		mark := "・"
		if v == rot.Today {
			mark = "▶"
		}
		fmt.Fprintf(&order, "%s %d. %s\n", mark, i+1, v.Name)
	}
	return WebhookPayload{Embeds: []Embed{{
		Title:       fmt.Sprintf("📅 本日のフロントライン (%s)", rot.Date),
		Description: fmt.Sprintf("**%s**", rot.Today.Name),
		Color:       colorGold,
		Fields: []EmbedField{
			{Name: "明日", Value: rot.Next.Name, Inline: true},
			{Name: "ローテーション", Value: strings.TrimSpace(order.String())},
		},
	}}}
}

// NewWatchlistPayload renders a watchlist lookup for name.
func NewWatchlistPayload(name, world string, entries []model.WatchlistEntry) WebhookPayload {
	cond := fmt.Sprintf("プレイヤー名: **%s**\nワールド: %s", name, orDefault(world, "なし (全ワールド対象)"))
	if len(entries) == 0 {
		return WebhookPayload{Embeds: []Embed{{
			Title:       "✅ ウォッチリスト・チェック",
			Description: fmt.Sprintf("**クリーン！** プレイヤー **%s** はウォッチリストに登録されていません。", name),
			Color:       colorGreen,
			Fields:      []EmbedField{{Name: "検索条件", Value: cond}},
		}}}
	}

	embed := Embed{
		Title:       fmt.Sprintf("🚨 ウォッチリストに登録されています！ (%d件)", len(entries)),
		Description: cond,
		Color:       colorRed,
	}
	for i, e := range entries {
		embed.Fields = append(embed.Fields, EmbedField{
			Name: fmt.Sprintf("🚨 登録 #%d: (%s)", i+1, e.WorldName),
			Value: fmt.Sprintf("**メモ:** %s\n**登録者:** `%s`\n**登録日時:** %s (ID: `%s`)",
				orDefault(e.Memo, "なし"), orDefault(e.RecordedByTag, e.RecordedBy),
				e.RecordedAt.Format("2006/01/02 15:04"), e.ID),
		})
	}
	return WebhookPayload{Embeds: []Embed{embed}}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func roundInt(f float64) int {
	return int(math.Round(f))
}

// formatNumber formats a number with commas (e.g., 47832 -> "47,832").
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var result bytes.Buffer
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
