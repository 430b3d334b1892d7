package model

import "time"

// CharacterLink ties a chat user to the in-game character they play.
type CharacterLink struct {
	UserID        string    `json:"user_id" db:"user_id"`
	CharacterName string    `json:"character_name" db:"character_name"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
