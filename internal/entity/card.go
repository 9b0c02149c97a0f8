package entity

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	GridSize = 5

	// FreeNumber is the sentinel of the center cell, which is always marked.
	FreeNumber = 0
)

type Cell struct {
	Number int  `json:"num"`
	Marked bool `json:"marked"`
}

// Grid is a bingo card layout. The first index is the column (B, I, N, G, O),
// the second one is the row.
type Grid [GridSize][GridSize]Cell

func (g *Grid) Scan(obj any) error {
	switch t := obj.(type) {
	case string:
		return json.Unmarshal([]byte(t), g)
	case []byte:
		return json.Unmarshal(t, g)
	}

	return fmt.Errorf("cannot scan invalid data type %T", obj)
}

func (g Grid) Value() (driver.Value, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

// Hash identifies the numbers of the grid. Marked flags are not part of the
// hash, so a card keeps its identity while being played.
func (g Grid) Hash() string {
	var sb strings.Builder
	for col := range g {
		for row := range g[col] {
			sb.WriteString(strconv.Itoa(g[col][row].Number))
			sb.WriteByte(',')
		}
		sb.WriteByte(';')
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// Toggle switches the marked flag of every cell having number. The free cell
// can not be toggled.
func (g *Grid) Toggle(number int) bool {
	if number == FreeNumber {
		return false
	}

	found := false
	for col := range g {
		for row := range g[col] {
			if g[col][row].Number == number {
				g[col][row].Marked = !g[col][row].Marked
				found = true
			}
		}
	}

	return found
}

// Reset unmarks every cell except the free one.
func (g *Grid) Reset() {
	for col := range g {
		for row := range g[col] {
			g[col][row].Marked = g[col][row].Number == FreeNumber
		}
	}
}

type Card struct {
	Base

	EventID   string `gorm:"uniqueIndex:idx_card_event_nums;size:36"`
	Buyer     string `gorm:"index;size:36"`
	Nums      Grid   `gorm:"type:text"`
	NumsHash  string `gorm:"uniqueIndex:idx_card_event_nums;size:64"`
	Available bool   `gorm:"index"`
}
