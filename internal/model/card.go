package model

type CreateCardRequest struct {
	EventID  string `json:"event_id"`
	Buyer    string `json:"buyer"`
	Quantity int    `json:"quantity"`
}

type CreateCardResponse struct {
	Price     float64       `json:"price"`
	EventName string        `json:"event_name"`
	Cards     []Card        `json:"cards"`
	Items     []BillingItem `json:"items"`
}

type GetCardRequest struct {
	ID string `json:"id"`

	// Buyer and EventID are optional filters. When any is set, only a sold
	// card matching the given fields is returned.
	Buyer   string `json:"buyer"`
	EventID string `json:"event_id"`
}

type GetCardResponse struct {
	Card Card `json:"card"`
}

type GetListCardByEventRequest struct {
	EventID string `json:"event_id"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
}

type GetListCardByEventResponse struct {
	Data []Card `json:"data"`
	Meta Meta   `json:"meta"`
}

type CountCardByEventRequest struct {
	EventID string `json:"event_id"`
}

type CountCardByEventResponse struct {
	Total    int64 `json:"total"`
	Disabled int64 `json:"disabled"`
}

type CountCardByBuyerRequest struct {
	EventID string `json:"event_id"`
	Buyer   string `json:"buyer"`
}

type CountCardByBuyerResponse struct {
	Total int64 `json:"total"`
}

type GetListCardByBuyerRequest struct {
	EventID string `json:"event_id"`
	Buyer   string `json:"buyer"`
}

type GetListCardByBuyerResponse struct {
	Data []Card `json:"data"`
}

type ExistsBuyerInEventRequest struct {
	EventID string `json:"event_id"`
	Buyer   string `json:"buyer"`
}

type ExistsBuyerInEventResponse struct {
	Exists bool `json:"exists"`
}

type UpdateAvailableCardRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	CardID  string `json:"card_id"`
}

type UpdateAvailableCardResponse struct {
	Success bool `json:"success"`
}

type UpdateAvailableManyCardRequest struct {
	IDs []string `json:"ids"`
}

type UpdateAvailableManyCardResponse struct {
	Updated int64 `json:"updated"`
}

type CheckOrUncheckBoxRequest struct {
	CardID    string `json:"card_id"`
	MarkedNum int    `json:"marked_num"`
	UserID    string `json:"user_id"`
}

type CheckOrUncheckBoxResponse struct {
	Card Card `json:"card"`
}

type ValidateCardsRequest struct {
	IDs []string `json:"ids"`
}

type ValidateCardsResponse struct {
	Cards []Card `json:"cards"`
}

type RemoveCardsRequest struct {
	IDs []string `json:"ids"`
}

type RemoveCardsResponse struct {
	Deleted int64 `json:"deleted"`
}

type ResetCardsRequest struct {
	EventID string   `json:"event_id"`
	IDs     []string `json:"ids"`
}

type ResetCardsResponse struct {
	Cards []Card `json:"cards"`
}
