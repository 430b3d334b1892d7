package actlog

import (
	"sort"
	"strings"
	"unicode"
)

const (
	selfPlaceholder = "YOU"
	// LeaderboardSize caps the damage ranking shown with a match.
	LeaderboardSize = 8
)

// MatchInput carries the context submitted alongside an export.
type MatchInput struct {
	CallerID      string
	LinkedName    string // empty when the caller has no linked character
	CallerTeam    Team
	Scores        TeamScores
	CallerKills   int
	CallerAssists int
	ReporterName  string // empty when no reporter was named
	Durations     []int
}

// Result is the aggregated view of one match.
type Result struct {
	Summary MatchSummary
	// Records holds every finalized record, ordered by name.
	Records []FinalizedRecord
	// Leaderboard is the damage ranking without the caller's own record.
	Leaderboard []FinalizedRecord
	// Self is the caller's record, when a linked name matched.
	Self *FinalizedRecord
	// Reporter is the flagged reporter's record, when one matched.
	Reporter *FinalizedRecord
}

// AssignMatch stamps the persisted match id on every record of the result.
func (r *Result) AssignMatch(id string) {
	for i := range r.Records {
		r.Records[i].MatchID = id
	}
	for i := range r.Leaderboard {
		r.Leaderboard[i].MatchID = id
	}
	if r.Self != nil {
		r.Self.MatchID = id
	}
	if r.Reporter != nil {
		r.Reporter.MatchID = id
	}
}

// Aggregate ranks the alliances, resolves the caller's "YOU" row and
// assigns team, rank and reporter flags to each parsed record.
func Aggregate(records map[string]ActorRecord, in MatchInput) Result {
	standings := RankTeams(in.Scores)
	callerRank := rankOf(standings, in.CallerTeam)

	res := Result{
		Summary: MatchSummary{
			Venue:             VenueForScore(standings[0].Points),
			CallerTeam:        in.CallerTeam,
			CallerTeamLabel:   in.CallerTeam.Label(),
			Points:            in.Scores,
			Standings:         standings,
			EstimatedDuration: EstimateDuration(in.Durations),
			RecordedBy:        in.CallerID,
		},
	}

	resolved := substituteSelf(records, in.LinkedName)
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	res.Records = make([]FinalizedRecord, 0, len(names))
	for _, name := range names {
		rec := resolved[name]
		fin := FinalizedRecord{
			ActorRecord: rec,
			CallerID:    in.CallerID,
			Team:        NoTeam,
			Rank:        Unranked,
		}
		fin.Extra = cloneExtra(rec.Extra)

		isSelf := in.LinkedName != "" && name == in.LinkedName
		switch {
		case isSelf:
			fin.Kills = in.CallerKills
			fin.Assists = in.CallerAssists
			fin.Team = in.CallerTeam.Label()
			fin.Rank = callerRank
		case rec.Ally == AllyFriendly:
			fin.Team = in.CallerTeam.Label()
			fin.Rank = callerRank
		}
		if in.ReporterName != "" && name == in.ReporterName && res.Reporter == nil {
			fin.IsReporter = true
		}

		res.Records = append(res.Records, fin)
		if isSelf {
			self := fin
			res.Self = &self
		}
		if fin.IsReporter {
			reporter := fin
			res.Reporter = &reporter
		}
	}

	res.Leaderboard = buildLeaderboard(res.Records, in.LinkedName)
	return res
}

// substituteSelf re-keys the friendly "YOU" row under the caller's linked
// name. When several rows qualify ("YOU", "You") the greatest name wins.
// It returns a copy; the input map is not modified.
func substituteSelf(records map[string]ActorRecord, linked string) map[string]ActorRecord {
	selfKey := ""
	if linked != "" {
		for name, rec := range records {
			if isSelfPlaceholder(name) && rec.Ally == AllyFriendly && name > selfKey {
				selfKey = name
			}
		}
	}

	out := make(map[string]ActorRecord, len(records))
	for name, rec := range records {
		if selfKey != "" && name == selfKey {
			continue
		}
		out[name] = rec
	}
	if selfKey != "" {
		self := records[selfKey]
		self.Name = linked
		out[linked] = self
	}
	return out
}

func isSelfPlaceholder(name string) bool {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String()) == selfPlaceholder
}

func buildLeaderboard(records []FinalizedRecord, linked string) []FinalizedRecord {
	board := make([]FinalizedRecord, 0, len(records))
	for _, r := range records {
		if r.Damage <= 0 || r.Name == "" || r.Job == "" {
			continue
		}
		if linked != "" && r.Name == linked {
			continue
		}
		board = append(board, r)
	}
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Damage != board[j].Damage {
			return board[i].Damage > board[j].Damage
		}
		return board[i].Name < board[j].Name
	})
	if len(board) > LeaderboardSize {
		board = board[:LeaderboardSize]
	}
	return board
}

func cloneExtra(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
