package repository

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontlinebot/actlog/internal/actlog"
)

func TestRankColumn(t *testing.T) {
	assert.Nil(t, rankColumn(actlog.Unranked))
	got := rankColumn(2)
	require.NotNil(t, got)
	assert.EqualValues(t, 2, *got)
}

func TestDecodeRecord_Document(t *testing.T) {
	rec := actlog.FinalizedRecord{
		ActorRecord: actlog.ActorRecord{
			Name:    "Taro Yamada",
			Job:     "SAM",
			Ally:    actlog.AllyFriendly,
			Metrics: actlog.Metrics{Damage: 1200, Kills: 3, DPS: 45.5},
			Extra:   map[string]string{"encid": "a1"},
		},
		MatchID:  "8d0c3b1e-6f1c-4a8e-9d3a-3c0f7b1f2a10",
		CallerID: "user-1",
		Team:     actlog.Maelstrom.Label(),
		Rank:     actlog.Unranked,
	}
	doc, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"rank":"None"`)
	assert.Contains(t, string(doc), `"damage":1200`)

	var back actlog.FinalizedRecord
	require.NoError(t, decodeRecord(doc, &back))
	assert.Equal(t, rec, back)
}
