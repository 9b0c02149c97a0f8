package entity

import "database/sql"

type Award struct {
	Base

	Name        string
	Description string

	EventID string `gorm:"index;size:36"`

	Winner sql.NullString
	GameID sql.NullString `gorm:"size:36"`
}

// IsClaimed returns true if the award has been given to a winner or a card.
func (a *Award) IsClaimed() bool {
	return a.Winner.Valid || a.GameID.Valid
}
