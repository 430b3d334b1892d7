package actlog

import "time"

// Venue is a frontline map.
type Venue struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

var (
	BorderlandRuins = Venue{ID: "borderland_ruins", Name: "外縁遺跡群（制圧戦）", Short: "制圧戦"}
	SealRock        = Venue{ID: "seal_rock", Name: "シールロック（争奪戦）", Short: "争奪戦"}
	FieldsOfGlory   = Venue{ID: "fields_of_glory", Name: "フィールド・オブ・グローリー（砕氷戦）", Short: "砕氷戦"}
	OnsalHakair     = Venue{ID: "onsal_hakair", Name: "オンサル・ハカイル（終節戦）", Short: "終節戦"}
	UnknownVenue    = Venue{ID: "unknown", Name: "フィールド不明 (ポイント不足/時間切れ)", Short: "不明"}
)

// Evaluated highest first; each bound is inclusive.
var venueThresholds = []struct {
	min   int
	venue Venue
}{
	{2400, BorderlandRuins},
	{2000, FieldsOfGlory},
	{1400, OnsalHakair},
	{700, SealRock},
}

// VenueForScore infers the map from the winning alliance's final score.
func VenueForScore(winning int) Venue {
	for _, t := range venueThresholds {
		if winning >= t.min {
			return t.venue
		}
	}
	return UnknownVenue
}

var (
	rotationOrder = []Venue{BorderlandRuins, SealRock, FieldsOfGlory, OnsalHakair}
	jst           = time.FixedZone("JST", 9*60*60)
	rotationEpoch = time.Date(2023, 12, 28, 0, 0, 0, 0, jst)
)

// Rotation describes the map served today and the one that follows.
type Rotation struct {
	Date  string  `json:"date"`
	Today Venue   `json:"today"`
	Next  Venue   `json:"next"`
	Order []Venue `json:"order"`
}

// CurrentRotation returns the daily rotation for now. Maps switch at 00:00 JST.
func CurrentRotation(now time.Time) Rotation {
	local := now.In(jst)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, jst)
	days := int(midnight.Sub(rotationEpoch).Hours()) / 24
	n := len(rotationOrder)
	idx := ((days % n) + n) % n
	order := make([]Venue, n)
	copy(order, rotationOrder)
	return Rotation{
		Date:  local.Format("2006/01/02"),
		Today: rotationOrder[idx],
		Next:  rotationOrder[(idx+1)%n],
		Order: order,
	}
}
