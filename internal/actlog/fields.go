package actlog

import (
	"math"
	"strconv"
	"strings"
)

type fieldKind int

const (
	kindInt fieldKind = iota
	kindFloat
)

// fieldSpec binds a lower-cased column name to a typed Metrics field.
type fieldSpec struct {
	kind     fieldKind
	intRef   func(*Metrics) *int
	floatRef func(*Metrics) *float64
}

func intField(ref func(*Metrics) *int) fieldSpec {
	return fieldSpec{kind: kindInt, intRef: ref}
}

func floatField(ref func(*Metrics) *float64) fieldSpec {
	return fieldSpec{kind: kindFloat, floatRef: ref}
}

var metricFields = map[string]fieldSpec{
	"duration":           intField(func(m *Metrics) *int { return &m.Duration }),
	"damage":             intField(func(m *Metrics) *int { return &m.Damage }),
	"kills":              intField(func(m *Metrics) *int { return &m.Kills }),
	"assists":            intField(func(m *Metrics) *int { return &m.Assists }),
	"deaths":             intField(func(m *Metrics) *int { return &m.Deaths }),
	"healed":             intField(func(m *Metrics) *int { return &m.Healed }),
	"heals":              intField(func(m *Metrics) *int { return &m.Heals }),
	"healstaken":         intField(func(m *Metrics) *int { return &m.HealsTaken }),
	"damagetaken":        intField(func(m *Metrics) *int { return &m.DamageTaken }),
	"powerdrain":         intField(func(m *Metrics) *int { return &m.PowerDrain }),
	"powerreplenish":     intField(func(m *Metrics) *int { return &m.PowerReplenish }),
	"hits":               intField(func(m *Metrics) *int { return &m.Hits }),
	"crithits":           intField(func(m *Metrics) *int { return &m.CritHits }),
	"blocked":            intField(func(m *Metrics) *int { return &m.Blocked }),
	"misses":             intField(func(m *Metrics) *int { return &m.Misses }),
	"swings":             intField(func(m *Metrics) *int { return &m.Swings }),
	"threatdelta":        intField(func(m *Metrics) *int { return &m.ThreatDelta }),
	"directhitcount":     intField(func(m *Metrics) *int { return &m.DirectHitCount }),
	"critdirecthitcount": intField(func(m *Metrics) *int { return &m.CritDirectHitCount }),

	"dps":              floatField(func(m *Metrics) *float64 { return &m.DPS }),
	"encdps":           floatField(func(m *Metrics) *float64 { return &m.EncDPS }),
	"enchps":           floatField(func(m *Metrics) *float64 { return &m.EncHPS }),
	"damageperc":       floatField(func(m *Metrics) *float64 { return &m.DamagePerc }),
	"healedperc":       floatField(func(m *Metrics) *float64 { return &m.HealedPerc }),
	"tohit":            floatField(func(m *Metrics) *float64 { return &m.ToHit }),
	"critdamperc":      floatField(func(m *Metrics) *float64 { return &m.CritDamPerc }),
	"crithealperc":     floatField(func(m *Metrics) *float64 { return &m.CritHealPerc }),
	"parrypct":         floatField(func(m *Metrics) *float64 { return &m.ParryPct }),
	"blockpct":         floatField(func(m *Metrics) *float64 { return &m.BlockPct }),
	"inctohit":         floatField(func(m *Metrics) *float64 { return &m.IncToHit }),
	"overhealpct":      floatField(func(m *Metrics) *float64 { return &m.OverHealPct }),
	"directhitpct":     floatField(func(m *Metrics) *float64 { return &m.DirectHitPct }),
	"critdirecthitpct": floatField(func(m *Metrics) *float64 { return &m.CritDirectHitPct }),
}

func (f fieldSpec) apply(m *Metrics, raw string) {
	switch f.kind {
	case kindInt:
		*f.intRef(m) = coerceInt(raw)
	case kindFloat:
		*f.floatRef(m) = coerceFloat(raw)
	}
}

var percentStripper = strings.NewReplacer("%", "", "-", "")

// coerceInt reads the leading integer of raw ("612.4" -> 612); anything else is 0.
func coerceInt(raw string) int {
	n, ok := leadingInt(raw)
	if !ok {
		return 0
	}
	return n
}

func leadingInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// coerceFloat strips '%' and '-' then reads the leading decimal ("45%-" -> 45).
func coerceFloat(raw string) float64 {
	s := strings.TrimSpace(percentStripper.Replace(raw))
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	end, seenDot := 0, false
	for end < len(s) {
		c := s[end]
		if c == '.' && !seenDot {
			seenDot = true
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

// cleanString trims raw and maps the "--" placeholder to an empty string.
func cleanString(raw string) string {
	s := strings.TrimSpace(raw)
	if s == placeholder {
		return ""
	}
	return s
}
