package actlog

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Team is one of the three Grand Company alliances that take part in a frontline match.
type Team string

const (
	Maelstrom      Team = "Maelstrom"
	TwinAdders     Team = "Twin Adders"
	ImmortalFlames Team = "Immortal Flames"
)

// NoTeam marks records that do not belong to the caller's alliance.
const NoTeam = "None"

// Teams lists the alliances in their fixed display order.
var Teams = [...]Team{Maelstrom, TwinAdders, ImmortalFlames}

var teamLabels = map[Team]string{
	Maelstrom:      "黒渦団",
	TwinAdders:     "双蛇党",
	ImmortalFlames: "不滅隊",
}

// Label returns the name the community uses for the alliance in chat.
func (t Team) Label() string {
	if l, ok := teamLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is one of the three alliances.
func (t Team) Valid() bool {
	_, ok := teamLabels[t]
	return ok
}

// ParseTeam accepts the command value ("Twin Adders"), its compact form
// ("TwinAdders") or the chat label ("双蛇党").
func ParseTeam(s string) (Team, error) {
	s = strings.TrimSpace(s)
	compact := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for _, t := range Teams {
		if compact == strings.ToLower(strings.ReplaceAll(string(t), " ", "")) || s == t.Label() {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown team %q", s)
}

// TeamScores holds the final points submitted for each alliance.
type TeamScores struct {
	Maelstrom      int `json:"Maelstrom"`
	TwinAdders     int `json:"TwinAdders"`
	ImmortalFlames int `json:"ImmortalFlames"`
}

// Of returns the score of team t, or 0 for an unknown team.
func (s TeamScores) Of(t Team) int {
	switch t {
	case Maelstrom:
		return s.Maelstrom
	case TwinAdders:
		return s.TwinAdders
	case ImmortalFlames:
		return s.ImmortalFlames
	}
	return 0
}

// Rank is a team placement. Zero means unranked and is rendered as "None".
type Rank int

// Unranked is the placement of records outside the caller's alliance.
const Unranked Rank = 0

func (r Rank) String() string {
	if r <= Unranked {
		return NoTeam
	}
	return strconv.Itoa(int(r))
}

func (r Rank) MarshalJSON() ([]byte, error) {
	if r <= Unranked {
		return []byte(`"` + NoTeam + `"`), nil
	}
	return strconv.AppendInt(nil, int64(r), 10), nil
}

// UnmarshalJSON accepts numbers, quoted numbers and the "None"/"N/A" sentinels.
func (r *Rank) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := strings.Trim(string(b), `"`)
	switch s {
	case "", "null", NoTeam, "N/A", "Unknown":
		*r = Unranked
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("rank %s: %w", b, err)
	}
	*r = Rank(n)
	return nil
}

// TeamStanding is one alliance's final placement.
type TeamStanding struct {
	Team   Team   `json:"team"`
	Name   string `json:"name"`
	Rank   Rank   `json:"rank"`
	Points int    `json:"points"`
}

// RankTeams orders the alliances by score, highest first. Tied scores share a
// rank and the next rank is skipped (1, 1, 3).
func RankTeams(scores TeamScores) []TeamStanding {
	out := make([]TeamStanding, 0, len(Teams))
	for _, t := range Teams {
		out = append(out, TeamStanding{Team: t, Name: t.Label(), Points: scores.Of(t)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	for i := range out {
		rank := 1
		for _, other := range out {
			if other.Points > out[i].Points {
				rank++
			}
		}
		out[i].Rank = Rank(rank)
	}
	return out
}

func rankOf(standings []TeamStanding, t Team) Rank {
	for _, s := range standings {
		if s.Team == t {
			return s.Rank
		}
	}
	return Unranked
}
