package model

import (
	"github.com/livebingo/backend/internal/entity"
)

func ConvertEvent(event *entity.Event) Event {
	if event == nil {
		return Event{}
	}

	result := Event{
		ID:           event.ID,
		Name:         event.Name,
		Description:  event.Description,
		UserID:       event.UserID,
		Price:        event.Price,
		Status:       string(event.Status),
		StartTime:    event.StartTime.UTC(),
		HostIsActive: event.HostIsActive,
		CreatedAt:    event.CreatedAt,
		UpdatedAt:    event.UpdatedAt,
	}

	if event.EndTime.Valid {
		endTime := event.EndTime.Time.UTC()
		result.EndTime = &endTime
	}

	return result
}

func ConvertAward(award *entity.Award) Award {
	if award == nil {
		return Award{}
	}

	return Award{
		ID:          award.ID,
		Name:        award.Name,
		Description: award.Description,
		EventID:     award.EventID,
		Winner:      award.Winner.String,
		GameID:      award.GameID.String,
	}
}

func ConvertAwards(awards []entity.Award) []Award {
	result := []Award{}
	for i := range awards {
		result = append(result, ConvertAward(&awards[i]))
	}

	return result
}

func ConvertCard(card *entity.Card) Card {
	if card == nil {
		return Card{}
	}

	nums := make([][]Cell, entity.GridSize)
	for col := range card.Nums {
		nums[col] = make([]Cell, entity.GridSize)
		for row := range card.Nums[col] {
			nums[col][row] = Cell{
				Num:    card.Nums[col][row].Number,
				Marked: card.Nums[col][row].Marked,
			}
		}
	}

	return Card{
		ID:        card.ID,
		EventID:   card.EventID,
		Buyer:     card.Buyer,
		Nums:      nums,
		Available: card.Available,
		CreatedAt: card.CreatedAt,
	}
}

func ConvertCards(cards []entity.Card) []Card {
	result := []Card{}
	for i := range cards {
		result = append(result, ConvertCard(&cards[i]))
	}

	return result
}
