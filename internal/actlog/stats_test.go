package actlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reported(rank Rank, job string, dps float64) FinalizedRecord {
	return FinalizedRecord{
		ActorRecord: ActorRecord{Name: "Taro Yamada", Job: job, Metrics: Metrics{DPS: dps}},
		Rank:        rank,
		IsReporter:  true,
	}
}

func TestReporterStats(t *testing.T) {
	summary, ok := ReporterStats("Taro Yamada", []FinalizedRecord{
		reported(1, "SAM", 100),
		reported(3, "NIN", 200),
		reported(1, "NIN", 300),
		reported(Unranked, "SAM", 400),
	})

	require.True(t, ok)
	assert.Equal(t, 4, summary.Reports)
	assert.Equal(t, 2, summary.Wins)
	assert.Equal(t, 2, summary.First)
	assert.Equal(t, 0, summary.Second)
	assert.Equal(t, 1, summary.Third)
	assert.InDelta(t, 50.0, summary.WinRate, 1e-9)
	assert.InDelta(t, 250.0, summary.AverageDPS, 1e-9)
	assert.Equal(t, "SAM", summary.TopJob, "ties go to the job seen first")
	assert.Equal(t, 2, summary.TopJobCount)
	assert.Equal(t, TierGood, summary.Tier)
}

func TestReporterStats_Tiers(t *testing.T) {
	fair, _ := ReporterStats("x", []FinalizedRecord{reported(1, "", 0), reported(2, "", 0), reported(3, "", 0)})
	assert.Equal(t, TierFair, fair.Tier)
	assert.Equal(t, UnknownJob, fair.TopJob)

	poor, _ := ReporterStats("x", []FinalizedRecord{reported(2, "PLD", 0)})
	assert.Equal(t, TierPoor, poor.Tier)
}

func TestReporterStats_Empty(t *testing.T) {
	summary, ok := ReporterStats("Nobody", nil)
	assert.False(t, ok)
	assert.Equal(t, "Nobody", summary.Name)
	assert.Zero(t, summary.Reports)
}

func TestFullName(t *testing.T) {
	name, ok := FullName("taro", "YAMADA")
	require.True(t, ok)
	assert.Equal(t, "Taro Yamada", name)

	_, ok = FullName("taro", " ")
	assert.False(t, ok)
	_, ok = FullName("", "Yamada")
	assert.False(t, ok)
}

func TestJoinName(t *testing.T) {
	name, ok := JoinName(" taro ", "YAMADA")
	require.True(t, ok)
	assert.Equal(t, "taro YAMADA", name)

	_, ok = JoinName("Taro", "")
	assert.False(t, ok)
}

func TestCurrentRotation(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		want Venue
		next Venue
	}{
		{"epoch", time.Date(2023, 12, 28, 0, 0, 0, 0, jst), BorderlandRuins, SealRock},
		{"same day in UTC", time.Date(2023, 12, 28, 14, 59, 0, 0, time.UTC), BorderlandRuins, SealRock},
		{"next JST day", time.Date(2023, 12, 28, 15, 0, 0, 0, time.UTC), SealRock, FieldsOfGlory},
		{"wraps", time.Date(2023, 12, 31, 12, 0, 0, 0, jst), OnsalHakair, BorderlandRuins},
		{"before epoch", time.Date(2023, 12, 27, 23, 0, 0, 0, jst), OnsalHakair, BorderlandRuins},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rot := CurrentRotation(tc.at)
			assert.Equal(t, tc.want, rot.Today)
			assert.Equal(t, tc.next, rot.Next)
			assert.Len(t, rot.Order, 4)
		})
	}
}

func TestJobEmoji(t *testing.T) {
	assert.Equal(t, "🐉", JobEmoji("drg"))
	assert.Equal(t, "❓", JobEmoji("XYZ"))
}
