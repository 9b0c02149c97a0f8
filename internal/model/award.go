package model

type CreateEventAwardRequest struct {
	EventID     string `json:"event_id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateEventAwardResponse struct {
	Award Award `json:"award"`
}

type GetListAwardByEventRequest struct {
	EventID string `json:"event_id"`
}

type GetListAwardByEventResponse struct {
	Data []Award `json:"data"`
}

type GetListWinnerByEventRequest struct {
	EventID string `json:"event_id"`
}

type GetListWinnerByEventResponse struct {
	Data []Award `json:"data"`
}

type GetAwardRequest struct {
	ID string `json:"id"`
}

type GetAwardResponse struct {
	Award Award `json:"award"`
}

type UpdateAwardRequest struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Winner      *string `json:"winner"`
	GameID      *string `json:"game_id"`
}

type UpdateAwardResponse struct {
	Award Award `json:"award"`
}

type RemoveAwardRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

type RemoveAwardResponse struct {
	Award Award `json:"award"`
}
