package domain

import (
	"context"
	"errors"

	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/internal/domain/cardgen"
	"github.com/livebingo/backend/internal/domain/readcache"
	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/xcontext"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type CardDomain interface {
	Create(context.Context, *model.CreateCardRequest) (*model.CreateCardResponse, error)
	Get(context.Context, *model.GetCardRequest) (*model.GetCardResponse, error)
	GetListByEvent(context.Context, *model.GetListCardByEventRequest) (*model.GetListCardByEventResponse, error)
	CountByEvent(context.Context, *model.CountCardByEventRequest) (*model.CountCardByEventResponse, error)
	CountByBuyer(context.Context, *model.CountCardByBuyerRequest) (*model.CountCardByBuyerResponse, error)
	GetListByBuyer(context.Context, *model.GetListCardByBuyerRequest) (*model.GetListCardByBuyerResponse, error)
	ExistsBuyerInEvent(context.Context, *model.ExistsBuyerInEventRequest) (*model.ExistsBuyerInEventResponse, error)
	UpdateAvailable(context.Context, *model.UpdateAvailableCardRequest) (*model.UpdateAvailableCardResponse, error)
	UpdateAvailableMany(context.Context, *model.UpdateAvailableManyCardRequest) (*model.UpdateAvailableManyCardResponse, error)
	CheckOrUncheckBox(context.Context, *model.CheckOrUncheckBoxRequest) (*model.CheckOrUncheckBoxResponse, error)
	Validate(context.Context, *model.ValidateCardsRequest) (*model.ValidateCardsResponse, error)
	Remove(context.Context, *model.RemoveCardsRequest) (*model.RemoveCardsResponse, error)
	Reset(context.Context, *model.ResetCardsRequest) (*model.ResetCardsResponse, error)
}

type cardDomain struct {
	cardRepo  repository.CardRepository
	eventRepo repository.EventRepository
	generator *cardgen.Generator
	cache     *readcache.Cache
}

func NewCardDomain(
	cardRepo repository.CardRepository,
	eventRepo repository.EventRepository,
	generator *cardgen.Generator,
	cache *readcache.Cache,
) *cardDomain {
	return &cardDomain{
		cardRepo:  cardRepo,
		eventRepo: eventRepo,
		generator: generator,
		cache:     cache,
	}
}

func (d *cardDomain) Create(
	ctx context.Context, req *model.CreateCardRequest,
) (*model.CreateCardResponse, error) {
	if req.Buyer == "" {
		return nil, errorx.New(errorx.BadRequest, "Require buyer")
	}

	maxQuantity := xcontext.Configs(ctx).Card.MaxQuantity
	if req.Quantity <= 0 || req.Quantity > maxQuantity {
		return nil, errorx.New(errorx.BadRequest, "Quantity must be between 1 and %d", maxQuantity)
	}

	event, err := d.getEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if event.UserID == req.Buyer {
		return nil, errorx.New(errorx.PermissionDenied, "Owner cannot participate in own event")
	}

	if event.Status == entity.EventCompleted {
		return nil, errorx.New(errorx.Conflict, "Event has already completed")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cards := []model.Card{}
	items := []model.BillingItem{}
	for i := 0; i < req.Quantity; i++ {
		card, err := d.generator.Generate(ctx, event.ID, req.Buyer)
		if err != nil {
			if errors.Is(err, cardgen.ErrExhausted) {
				return nil, errorx.New(errorx.Internal, "Cannot generate a unique card")
			}

			xcontext.Logger(ctx).Errorf("Cannot create card: %v", err)
			return nil, errorx.Unknown
		}

		cards = append(cards, model.ConvertCard(card))
		items = append(items, model.BillingItem{
			EventID:  event.ID,
			CardID:   card.ID,
			Price:    event.Price,
			Quantity: 1,
		})
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)
	d.cache.Invalidate(ctx, nil, common.RedisPatternCardsByEvent(event.ID))

	return &model.CreateCardResponse{
		Price:     event.Price,
		EventName: event.Name,
		Cards:     cards,
		Items:     items,
	}, nil
}

func (d *cardDomain) Get(ctx context.Context, req *model.GetCardRequest) (*model.GetCardResponse, error) {
	card, err := readcache.Load(ctx, d.cache, common.RedisKeyCard(req.ID),
		func(ctx context.Context) (model.Card, error) {
			card, err := d.getCard(ctx, req.ID)
			if err != nil {
				return model.Card{}, err
			}

			return model.ConvertCard(card), nil
		})
	if err != nil {
		return nil, err
	}

	if req.Buyer != "" || req.EventID != "" {
		if (req.Buyer != "" && card.Buyer != req.Buyer) ||
			(req.EventID != "" && card.EventID != req.EventID) || !card.Available {
			return nil, errorx.New(errorx.NotFound, "Not found card")
		}
	}

	return &model.GetCardResponse{Card: card}, nil
}

func (d *cardDomain) GetListByEvent(
	ctx context.Context, req *model.GetListCardByEventRequest,
) (*model.GetListCardByEventResponse, error) {
	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	p, err := paginate(ctx, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	key := common.RedisKeyCardListByEvent(req.EventID, p.page, p.limit)
	return readcache.Load(ctx, d.cache, key,
		func(ctx context.Context) (*model.GetListCardByEventResponse, error) {
			sold := true
			filter := repository.GetListCardFilter{
				EventID:   req.EventID,
				Available: &sold,
				Offset:    p.offset,
				Limit:     p.limit,
			}

			cards, err := d.cardRepo.GetList(ctx, filter)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get list of cards: %v", err)
				return nil, errorx.Unknown
			}

			total, err := d.cardRepo.Count(ctx, filter)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot count cards: %v", err)
				return nil, errorx.Unknown
			}

			return &model.GetListCardByEventResponse{
				Data: model.ConvertCards(cards),
				Meta: model.NewMeta(total, p.page, p.limit),
			}, nil
		})
}

func (d *cardDomain) CountByEvent(
	ctx context.Context, req *model.CountCardByEventRequest,
) (*model.CountCardByEventResponse, error) {
	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	return readcache.Load(ctx, d.cache, common.RedisKeyCardCountByEvent(req.EventID),
		func(ctx context.Context) (*model.CountCardByEventResponse, error) {
			total, err := d.cardRepo.Count(ctx, repository.GetListCardFilter{EventID: req.EventID})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot count cards: %v", err)
				return nil, errorx.Unknown
			}

			disabled := false
			totalDisabled, err := d.cardRepo.Count(ctx, repository.GetListCardFilter{
				EventID:   req.EventID,
				Available: &disabled,
			})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot count disabled cards: %v", err)
				return nil, errorx.Unknown
			}

			return &model.CountCardByEventResponse{Total: total, Disabled: totalDisabled}, nil
		})
}

func (d *cardDomain) CountByBuyer(
	ctx context.Context, req *model.CountCardByBuyerRequest,
) (*model.CountCardByBuyerResponse, error) {
	sold := true
	total, err := d.cardRepo.Count(ctx, repository.GetListCardFilter{
		EventID:   req.EventID,
		Buyer:     req.Buyer,
		Available: &sold,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count cards of buyer: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CountCardByBuyerResponse{Total: total}, nil
}

func (d *cardDomain) GetListByBuyer(
	ctx context.Context, req *model.GetListCardByBuyerRequest,
) (*model.GetListCardByBuyerResponse, error) {
	if req.EventID == "" || req.Buyer == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id and buyer")
	}

	sold := true
	cards, err := d.cardRepo.GetList(ctx, repository.GetListCardFilter{
		EventID:   req.EventID,
		Buyer:     req.Buyer,
		Available: &sold,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get cards of buyer: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetListCardByBuyerResponse{Data: model.ConvertCards(cards)}, nil
}

func (d *cardDomain) ExistsBuyerInEvent(
	ctx context.Context, req *model.ExistsBuyerInEventRequest,
) (*model.ExistsBuyerInEventResponse, error) {
	if req.EventID == "" || req.Buyer == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id and buyer")
	}

	total, err := d.cardRepo.Count(ctx, repository.GetListCardFilter{
		EventID: req.EventID,
		Buyer:   req.Buyer,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count cards of buyer: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ExistsBuyerInEventResponse{Exists: total > 0}, nil
}

// UpdateAvailable disables a card. Only the event owner can do it.
func (d *cardDomain) UpdateAvailable(
	ctx context.Context, req *model.UpdateAvailableCardRequest,
) (*model.UpdateAvailableCardResponse, error) {
	card, err := d.getCard(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	event, err := d.getEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if event.UserID != req.UserID || card.Buyer == req.UserID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if card.EventID != event.ID {
		return nil, errorx.New(errorx.NotFound, "Not found card")
	}

	if err := d.cardRepo.UpdateAvailableByID(ctx, card.ID, false); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot disable card: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidate(ctx, card.EventID, card.ID)
	return &model.UpdateAvailableCardResponse{Success: true}, nil
}

// UpdateAvailableMany marks cards as sold after their payment.
func (d *cardDomain) UpdateAvailableMany(
	ctx context.Context, req *model.UpdateAvailableManyCardRequest,
) (*model.UpdateAvailableManyCardResponse, error) {
	ids := uniqueIDs(req.IDs)
	if len(ids) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require ids")
	}

	cards, err := d.cardRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get cards: %v", err)
		return nil, errorx.Unknown
	}

	updated, err := d.cardRepo.UpdateAvailableByIDs(ctx, ids, true)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update cards: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidateCards(ctx, cards)
	return &model.UpdateAvailableManyCardResponse{Updated: updated}, nil
}

func (d *cardDomain) CheckOrUncheckBox(
	ctx context.Context, req *model.CheckOrUncheckBoxRequest,
) (*model.CheckOrUncheckBoxResponse, error) {
	card, err := d.getCard(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	if card.Buyer != req.UserID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if !card.Nums.Toggle(req.MarkedNum) {
		return nil, errorx.New(errorx.BadRequest, "Number %d is not in the card", req.MarkedNum)
	}

	if err := d.cardRepo.UpdateNumsByID(ctx, card.ID, card.Nums); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update card: %v", err)
		return nil, errorx.Unknown
	}

	result := model.ConvertCard(card)
	d.cache.Set(ctx, common.RedisKeyCard(card.ID), result)
	d.cache.Invalidate(ctx, nil, common.RedisPatternCardsByEvent(card.EventID))

	return &model.CheckOrUncheckBoxResponse{Card: result}, nil
}

func (d *cardDomain) Validate(
	ctx context.Context, req *model.ValidateCardsRequest,
) (*model.ValidateCardsResponse, error) {
	ids := uniqueIDs(req.IDs)
	if len(ids) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require ids")
	}

	cards, err := d.cardRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get cards: %v", err)
		return nil, errorx.Unknown
	}

	if len(cards) != len(ids) {
		return nil, errorx.New(errorx.BadRequest, "Not found some cards")
	}

	return &model.ValidateCardsResponse{Cards: model.ConvertCards(cards)}, nil
}

// Remove deletes cards which are not sold. Sold cards are kept.
func (d *cardDomain) Remove(
	ctx context.Context, req *model.RemoveCardsRequest,
) (*model.RemoveCardsResponse, error) {
	ids := uniqueIDs(req.IDs)
	if len(ids) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require ids")
	}

	cards, err := d.cardRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get cards: %v", err)
		return nil, errorx.Unknown
	}

	deleted, err := d.cardRepo.DeleteUnavailableByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete cards: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidateCards(ctx, cards)
	return &model.RemoveCardsResponse{Deleted: deleted}, nil
}

// Reset unmarks every number of the given cards of the event.
func (d *cardDomain) Reset(
	ctx context.Context, req *model.ResetCardsRequest,
) (*model.ResetCardsResponse, error) {
	ids := uniqueIDs(req.IDs)
	if req.EventID == "" || len(ids) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require event_id and ids")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cards, err := d.cardRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get cards: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Card{}
	resetCards := []entity.Card{}
	for _, card := range cards {
		if card.EventID != req.EventID {
			continue
		}

		card.Nums.Reset()
		if err := d.cardRepo.UpdateNumsByID(ctx, card.ID, card.Nums); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot reset card: %v", err)
			return nil, errorx.Unknown
		}

		resetCards = append(resetCards, card)
		result = append(result, model.ConvertCard(&card))
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)
	d.invalidateCards(ctx, resetCards)

	return &model.ResetCardsResponse{Cards: result}, nil
}

func (d *cardDomain) CountSold(ctx context.Context, eventID string) (int64, error) {
	sold := true
	return d.cardRepo.Count(ctx, repository.GetListCardFilter{EventID: eventID, Available: &sold})
}

func (d *cardDomain) DeleteUnsold(ctx context.Context, eventID string) ([]string, error) {
	unsold := false
	cards, err := d.cardRepo.GetList(ctx, repository.GetListCardFilter{EventID: eventID, Available: &unsold})
	if err != nil {
		return nil, err
	}

	if err := d.cardRepo.DeleteUnavailableByEventID(ctx, eventID); err != nil {
		return nil, err
	}

	ids := []string{}
	for _, c := range cards {
		ids = append(ids, c.ID)
	}

	return ids, nil
}

func (d *cardDomain) getCard(ctx context.Context, cardID string) (*entity.Card, error) {
	card, err := d.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found card")
		}

		xcontext.Logger(ctx).Errorf("Cannot get card: %v", err)
		return nil, errorx.Unknown
	}

	return card, nil
}

func (d *cardDomain) getEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	event, err := d.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get event: %v", err)
		return nil, errorx.Unknown
	}

	return event, nil
}

func (d *cardDomain) invalidate(ctx context.Context, eventID string, cardIDs ...string) {
	keys := []string{}
	for _, id := range cardIDs {
		keys = append(keys, common.RedisKeyCard(id))
	}

	d.cache.Invalidate(ctx, keys, common.RedisPatternCardsByEvent(eventID))
}

func (d *cardDomain) invalidateCards(ctx context.Context, cards []entity.Card) {
	byEvent := map[string][]string{}
	for _, c := range cards {
		byEvent[c.EventID] = append(byEvent[c.EventID], c.ID)
	}

	for eventID, ids := range byEvent {
		d.invalidate(ctx, eventID, ids...)
	}
}

func uniqueIDs(ids []string) []string {
	result := []string{}
	for _, id := range ids {
		if id != "" && !slices.Contains(result, id) {
			result = append(result, id)
		}
	}

	return result
}
