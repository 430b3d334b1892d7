package actlog

// Allegiance classifies a log row relative to the uploader's side.
type Allegiance string

const (
	Friendly Allegiance = "friendly"
	Enemy    Allegiance = "enemy"
	Unknown  Allegiance = "unknown"
)

// Raw codes found in the Ally column of an ACT export.
const (
	AllyFriendly = "T"
	AllyEnemy    = "F"
)

// AllegianceOf maps a raw Ally code to an Allegiance.
func AllegianceOf(code string) Allegiance {
	switch code {
	case AllyFriendly:
		return Friendly
	case AllyEnemy:
		return Enemy
	}
	return Unknown
}

// Metrics are the numeric columns of an ACT row, keyed in JSON by their
// lower-cased column names.
type Metrics struct {
	Duration           int `json:"duration"`
	Damage             int `json:"damage"`
	Kills              int `json:"kills"`
	Assists            int `json:"assists"`
	Deaths             int `json:"deaths"`
	Healed             int `json:"healed"`
	Heals              int `json:"heals"`
	HealsTaken         int `json:"healstaken"`
	DamageTaken        int `json:"damagetaken"`
	PowerDrain         int `json:"powerdrain"`
	PowerReplenish     int `json:"powerreplenish"`
	Hits               int `json:"hits"`
	CritHits           int `json:"crithits"`
	Blocked            int `json:"blocked"`
	Misses             int `json:"misses"`
	Swings             int `json:"swings"`
	ThreatDelta        int `json:"threatdelta"`
	DirectHitCount     int `json:"directhitcount"`
	CritDirectHitCount int `json:"critdirecthitcount"`

	DPS              float64 `json:"dps"`
	EncDPS           float64 `json:"encdps"`
	EncHPS           float64 `json:"enchps"`
	DamagePerc       float64 `json:"damageperc"`
	HealedPerc       float64 `json:"healedperc"`
	ToHit            float64 `json:"tohit"`
	CritDamPerc      float64 `json:"critdamperc"`
	CritHealPerc     float64 `json:"crithealperc"`
	ParryPct         float64 `json:"parrypct"`
	BlockPct         float64 `json:"blockpct"`
	IncToHit         float64 `json:"inctohit"`
	OverHealPct      float64 `json:"overhealpct"`
	DirectHitPct     float64 `json:"directhitpct"`
	CritDirectHitPct float64 `json:"critdirecthitpct"`
}

// ActorRecord is one parsed row of a log export.
type ActorRecord struct {
	Name string `json:"name"`
	Job  string `json:"job"`
	Ally string `json:"ally"`
	Metrics
	// Extra holds the columns outside the schema, keyed by lower-cased column name.
	Extra map[string]string `json:"extra,omitempty"`
}

// Allegiance returns the classification of the record's Ally code.
func (r ActorRecord) Allegiance() Allegiance { return AllegianceOf(r.Ally) }

// FinalizedRecord is an ActorRecord with match-level context applied.
type FinalizedRecord struct {
	ActorRecord
	MatchID    string `json:"match_id"`
	CallerID   string `json:"user_id"`
	Team       string `json:"team"`
	Rank       Rank   `json:"rank"`
	IsReporter bool   `json:"is_reporter"`
}

// MatchSummary is the match-level view persisted once per upload.
type MatchSummary struct {
	Venue             Venue          `json:"venue"`
	CallerTeam        Team           `json:"caller_team"`
	CallerTeamLabel   string         `json:"caller_team_label"`
	Points            TeamScores     `json:"points"`
	Standings         []TeamStanding `json:"standings"`
	EstimatedDuration *int           `json:"estimated_duration"`
	RecordedBy        string         `json:"recorded_by"`
}

// CallerRank returns the placement of the caller's alliance.
func (s MatchSummary) CallerRank() Rank { return rankOf(s.Standings, s.CallerTeam) }

// EstimateDuration returns the largest positive duration, or nil when there is none.
func EstimateDuration(durations []int) *int {
	best := 0
	for _, d := range durations {
		if d > best {
			best = d
		}
	}
	if best == 0 {
		return nil
	}
	return &best
}
