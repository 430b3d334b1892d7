package actlog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnknownJob labels records stored without a job code.
const UnknownJob = "不明"

// StatsTier buckets a win rate for display.
type StatsTier string

const (
	TierGood StatsTier = "good"
	TierFair StatsTier = "fair"
	TierPoor StatsTier = "poor"
)

// ReporterSummary aggregates the stored results flagged for one reporter.
type ReporterSummary struct {
	Name        string    `json:"name"`
	Reports     int       `json:"reports"`
	Wins        int       `json:"wins"`
	WinRate     float64   `json:"win_rate"`
	First       int       `json:"first"`
	Second      int       `json:"second"`
	Third       int       `json:"third"`
	AverageDPS  float64   `json:"average_dps"`
	TopJob      string    `json:"top_job"`
	TopJobCount int       `json:"top_job_count"`
	Tier        StatsTier `json:"tier"`
}

// ReporterStats summarises records. ok is false when records is empty.
func ReporterStats(name string, records []FinalizedRecord) (summary ReporterSummary, ok bool) {
	summary = ReporterSummary{Name: name, TopJob: UnknownJob}
	if len(records) == 0 {
		return summary, false
	}

	var totalDPS float64
	jobCounts := make(map[string]int)
	var jobOrder []string
	for _, r := range records {
		switch r.Rank {
		case 1:
			summary.First++
			summary.Wins++
		case 2:
			summary.Second++
		case 3:
			summary.Third++
		}
		totalDPS += r.DPS

		job := r.Job
		if job == "" {
			job = UnknownJob
		}
		if _, seen := jobCounts[job]; !seen {
			jobOrder = append(jobOrder, job)
		}
		jobCounts[job]++
	}

	summary.Reports = len(records)
	summary.WinRate = float64(summary.Wins) / float64(summary.Reports) * 100
	summary.AverageDPS = totalDPS / float64(summary.Reports)
	for _, job := range jobOrder {
		if jobCounts[job] > summary.TopJobCount {
			summary.TopJob = job
			summary.TopJobCount = jobCounts[job]
		}
	}

	switch {
	case summary.WinRate >= 50:
		summary.Tier = TierGood
	case summary.WinRate >= 33.33:
		summary.Tier = TierFair
	default:
		summary.Tier = TierPoor
	}
	return summary, true
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// FullName joins a character's first and last name, capitalising both.
// ok is false unless both parts are present.
func FullName(first, last string) (name string, ok bool) {
	first, last = Capitalize(first), Capitalize(last)
	if first == "" || last == "" {
		return "", false
	}
	return first + " " + last, true
}

// JoinName joins first and last exactly as typed, trimmed. It is used where a
// name must match an export row verbatim. ok is false unless both parts are present.
func JoinName(first, last string) (name string, ok bool) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" || last == "" {
		return "", false
	}
	return first + " " + last, true
}

var jobEmojis = map[string]string{
	"PLD": "🛡️", "WAR": "🪓", "DRK": "⚫", "GNB": "💥",
	"WHM": "🌸", "SCH": "🧚", "AST": "🔮", "SGE": "🟢",
	"MNK": "👊", "DRG": "🐉", "NIN": "🥷", "SAM": "🔪",
	"RPR": "💀", "VPR": "🐍", "BRD": "🏹", "MCH": "🔫",
	"DNC": "💃", "BLM": "🧙", "SMN": "🦄", "RDM": "🗡️",
	"PCT": "🎨",
}

// JobEmoji returns the chat icon for a job code, or "❓".
func JobEmoji(job string) string {
	if e, ok := jobEmojis[strings.ToUpper(strings.TrimSpace(job))]; ok {
		return e
	}
	return "❓"
}
