package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/repository"
)

const (
	User1 = "user1"
	User2 = "user2"
	User3 = "user3"
)

var (
	// Pending event of user1, scheduled tomorrow.
	Event1 = &entity.Event{
		Base:        entity.Base{ID: "event1"},
		Name:        "Friday bingo",
		Description: "Weekly bingo",
		UserID:      User1,
		Price:       2.5,
		Status:      entity.EventPending,
	}

	// Running event of user1.
	Event2 = &entity.Event{
		Base:         entity.Base{ID: "event2"},
		Name:         "Live bingo",
		UserID:       User1,
		Price:        1,
		Status:       entity.EventNow,
		HostIsActive: true,
	}

	// Completed event of user2.
	Event3 = &entity.Event{
		Base:   entity.Base{ID: "event3"},
		Name:   "Old bingo",
		UserID: User2,
		Price:  3,
		Status: entity.EventCompleted,
	}

	Events = []*entity.Event{Event1, Event2, Event3}

	Award1 = &entity.Award{
		Base:    entity.Base{ID: "award1"},
		Name:    "Teddy bear",
		EventID: Event1.ID,
	}

	Award2 = &entity.Award{
		Base:    entity.Base{ID: "award2"},
		Name:    "Bicycle",
		EventID: Event3.ID,
		GameID:  sql.NullString{Valid: true, String: "card2"},
	}

	Awards = []*entity.Award{Award1, Award2}

	Card1 = &entity.Card{
		Base:      entity.Base{ID: "card1"},
		EventID:   Event2.ID,
		Buyer:     User2,
		Nums:      FixedGrid(0),
		Available: true,
	}

	Card2 = &entity.Card{
		Base:      entity.Base{ID: "card2"},
		EventID:   Event3.ID,
		Buyer:     User3,
		Nums:      FixedGrid(1),
		Available: true,
	}

	Cards = []*entity.Card{Card1, Card2}
)

// FixedGrid returns a structurally valid grid. Different shifts in [0, 10]
// produce different grids.
func FixedGrid(shift int) entity.Grid {
	var g entity.Grid
	for col := 0; col < entity.GridSize; col++ {
		for row := 0; row < entity.GridSize; row++ {
			g[col][row] = entity.Cell{Number: col*15 + row + 1 + shift}
		}
	}
	g[2][2] = entity.Cell{Number: entity.FreeNumber, Marked: true}

	return g
}

func CreateFixtureDb(ctx context.Context) {
	now := time.Now().UTC()
	Event1.StartTime = now.AddDate(0, 0, 1)
	Event2.StartTime = now.Add(-time.Hour)
	Event3.StartTime = now.AddDate(0, 0, -7)

	InsertEvents(ctx)
	InsertAwards(ctx)
	InsertCards(ctx)
}

func InsertEvents(ctx context.Context) {
	eventRepo := repository.NewEventRepository()
	for _, e := range Events {
		event := *e
		if err := eventRepo.Create(ctx, &event); err != nil {
			panic(err)
		}
	}
}

func InsertAwards(ctx context.Context) {
	awardRepo := repository.NewAwardRepository()
	awards := []entity.Award{}
	for _, a := range Awards {
		awards = append(awards, *a)
	}

	if err := awardRepo.CreateMany(ctx, awards); err != nil {
		panic(err)
	}
}

func InsertCards(ctx context.Context) {
	cardRepo := repository.NewCardRepository()
	for _, c := range Cards {
		card := *c
		card.NumsHash = card.Nums.Hash()
		if err := cardRepo.Create(ctx, &card); err != nil {
			panic(err)
		}
	}
}
