package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/internal/domain/readcache"
	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/xcontext"

	"gorm.io/gorm"
)

type AwardDomain interface {
	Create(context.Context, *model.CreateEventAwardRequest) (*model.CreateEventAwardResponse, error)
	GetListByEvent(context.Context, *model.GetListAwardByEventRequest) (*model.GetListAwardByEventResponse, error)
	GetListWinnerByEvent(context.Context, *model.GetListWinnerByEventRequest) (*model.GetListWinnerByEventResponse, error)
	Get(context.Context, *model.GetAwardRequest) (*model.GetAwardResponse, error)
	Update(context.Context, *model.UpdateAwardRequest) (*model.UpdateAwardResponse, error)
	Remove(context.Context, *model.RemoveAwardRequest) (*model.RemoveAwardResponse, error)
}

type awardDomain struct {
	awardRepo repository.AwardRepository
	eventRepo repository.EventRepository
	cardRepo  repository.CardRepository
	cache     *readcache.Cache
}

func NewAwardDomain(
	awardRepo repository.AwardRepository,
	eventRepo repository.EventRepository,
	cardRepo repository.CardRepository,
	cache *readcache.Cache,
) *awardDomain {
	return &awardDomain{
		awardRepo: awardRepo,
		eventRepo: eventRepo,
		cardRepo:  cardRepo,
		cache:     cache,
	}
}

func (d *awardDomain) CreateBatch(
	ctx context.Context, eventID string, reqs []model.CreateAwardRequest,
) ([]model.Award, error) {
	awards := []entity.Award{}
	for _, req := range reqs {
		awards = append(awards, entity.Award{
			Base:        entity.Base{ID: uuid.NewString()},
			Name:        req.Name,
			Description: req.Description,
			EventID:     eventID,
		})
	}

	if err := d.awardRepo.CreateMany(ctx, awards); err != nil {
		return nil, err
	}

	d.cache.Invalidate(ctx, nil, common.RedisPatternAwardsByEvent(eventID))
	return model.ConvertAwards(awards), nil
}

// Create adds an award to an existing pending event of the user.
func (d *awardDomain) Create(
	ctx context.Context, req *model.CreateEventAwardRequest,
) (*model.CreateEventAwardResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Require name")
	}

	event, err := d.getOwnedEvent(ctx, req.EventID, req.UserID)
	if err != nil {
		return nil, err
	}

	if event.Status != entity.EventPending {
		return nil, errorx.New(errorx.Conflict, "Event is not pending")
	}

	award := &entity.Award{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        req.Name,
		Description: req.Description,
		EventID:     event.ID,
	}

	if err := d.awardRepo.CreateMany(ctx, []entity.Award{*award}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create award: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidate(ctx, award)
	return &model.CreateEventAwardResponse{Award: model.ConvertAward(award)}, nil
}

func (d *awardDomain) DeleteByEventID(ctx context.Context, eventID string) error {
	awards, err := d.awardRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return err
	}

	if err := d.awardRepo.DeleteByEventID(ctx, eventID); err != nil {
		return err
	}

	keys := []string{}
	for _, a := range awards {
		keys = append(keys, common.RedisKeyAward(a.ID))
	}

	d.cache.Invalidate(ctx, keys, common.RedisPatternAwardsByEvent(eventID))
	return nil
}

// GetByEventIDs returns the awards of events grouped by event id. Winners of
// awards claimed by a card are the buyer of the card.
func (d *awardDomain) GetByEventIDs(ctx context.Context, eventIDs []string) (map[string][]model.Award, error) {
	awards, err := d.awardRepo.GetByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	result := map[string][]model.Award{}
	converted, err := d.withWinners(ctx, awards)
	if err != nil {
		return nil, err
	}

	for _, a := range converted {
		result[a.EventID] = append(result[a.EventID], a)
	}

	return result, nil
}

func (d *awardDomain) GetListByEvent(
	ctx context.Context, req *model.GetListAwardByEventRequest,
) (*model.GetListAwardByEventResponse, error) {
	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	return readcache.Load(ctx, d.cache, common.RedisKeyAwardsByEvent(req.EventID),
		func(ctx context.Context) (*model.GetListAwardByEventResponse, error) {
			awards, err := d.awardRepo.GetByEventID(ctx, req.EventID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get awards: %v", err)
				return nil, errorx.Unknown
			}

			result, err := d.withWinners(ctx, awards)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get winners of awards: %v", err)
				return nil, errorx.Unknown
			}

			return &model.GetListAwardByEventResponse{Data: result}, nil
		})
}

func (d *awardDomain) GetListWinnerByEvent(
	ctx context.Context, req *model.GetListWinnerByEventRequest,
) (*model.GetListWinnerByEventResponse, error) {
	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	return readcache.Load(ctx, d.cache, common.RedisKeyWinnersByEvent(req.EventID),
		func(ctx context.Context) (*model.GetListWinnerByEventResponse, error) {
			awards, err := d.awardRepo.GetClaimedByEventID(ctx, req.EventID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get claimed awards: %v", err)
				return nil, errorx.Unknown
			}

			result, err := d.withWinners(ctx, awards)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get winners of awards: %v", err)
				return nil, errorx.Unknown
			}

			return &model.GetListWinnerByEventResponse{Data: result}, nil
		})
}

func (d *awardDomain) Get(ctx context.Context, req *model.GetAwardRequest) (*model.GetAwardResponse, error) {
	award, err := readcache.Load(ctx, d.cache, common.RedisKeyAward(req.ID),
		func(ctx context.Context) (model.Award, error) {
			award, err := d.getAward(ctx, req.ID)
			if err != nil {
				return model.Award{}, err
			}

			return model.ConvertAward(award), nil
		})
	if err != nil {
		return nil, err
	}

	return &model.GetAwardResponse{Award: award}, nil
}

func (d *awardDomain) Update(
	ctx context.Context, req *model.UpdateAwardRequest,
) (*model.UpdateAwardResponse, error) {
	award, event, err := d.getOwnedAward(ctx, req.ID, req.UserID)
	if err != nil {
		return nil, err
	}

	if award.IsClaimed() {
		return nil, errorx.New(errorx.Conflict, "Award has already been claimed")
	}

	data := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, errorx.New(errorx.BadRequest, "Name must not be empty")
		}
		data["name"] = *req.Name
	}

	if req.Description != nil {
		data["description"] = *req.Description
	}

	if req.Winner != nil && *req.Winner != "" {
		data["winner"] = *req.Winner
	}

	if req.GameID != nil && *req.GameID != "" {
		card, err := d.cardRepo.GetByID(ctx, *req.GameID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get card: %v", err)
			return nil, errorx.Unknown
		}

		if err != nil || card.EventID != event.ID || !card.Available {
			return nil, errorx.New(errorx.BadRequest, "Card is not a sold card of the event")
		}

		data["game_id"] = card.ID
	}

	if len(data) > 0 {
		if err := d.awardRepo.UpdateByID(ctx, award.ID, data); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update award: %v", err)
			return nil, errorx.Unknown
		}
	}

	award, err = d.getAward(ctx, award.ID)
	if err != nil {
		return nil, err
	}

	d.invalidate(ctx, award)
	return &model.UpdateAwardResponse{Award: model.ConvertAward(award)}, nil
}

func (d *awardDomain) Remove(
	ctx context.Context, req *model.RemoveAwardRequest,
) (*model.RemoveAwardResponse, error) {
	award, event, err := d.getOwnedAward(ctx, req.ID, req.UserID)
	if err != nil {
		return nil, err
	}

	if award.IsClaimed() {
		return nil, errorx.New(errorx.Conflict, "Award has already been claimed")
	}

	if event.Status != entity.EventPending {
		return nil, errorx.New(errorx.Conflict, "Event is not pending")
	}

	if err := d.awardRepo.DeleteByID(ctx, award.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete award: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidate(ctx, award)
	return &model.RemoveAwardResponse{Award: model.ConvertAward(award)}, nil
}

func (d *awardDomain) getAward(ctx context.Context, awardID string) (*entity.Award, error) {
	award, err := d.awardRepo.GetByID(ctx, awardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found award")
		}

		xcontext.Logger(ctx).Errorf("Cannot get award: %v", err)
		return nil, errorx.Unknown
	}

	return award, nil
}

func (d *awardDomain) getOwnedAward(
	ctx context.Context, awardID, userID string,
) (*entity.Award, *entity.Event, error) {
	award, err := d.getAward(ctx, awardID)
	if err != nil {
		return nil, nil, err
	}

	event, err := d.getOwnedEvent(ctx, award.EventID, userID)
	if err != nil {
		return nil, nil, err
	}

	return award, event, nil
}

func (d *awardDomain) getOwnedEvent(ctx context.Context, eventID, userID string) (*entity.Event, error) {
	if eventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require event_id")
	}

	event, err := d.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get event: %v", err)
		return nil, errorx.Unknown
	}

	if event.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return event, nil
}

func (d *awardDomain) withWinners(ctx context.Context, awards []entity.Award) ([]model.Award, error) {
	cardIDs := []string{}
	for _, a := range awards {
		if a.GameID.Valid && !a.Winner.Valid {
			cardIDs = append(cardIDs, a.GameID.String)
		}
	}

	buyers := map[string]string{}
	if len(cardIDs) > 0 {
		cards, err := d.cardRepo.GetByIDs(ctx, cardIDs)
		if err != nil {
			return nil, err
		}

		for _, c := range cards {
			buyers[c.ID] = c.Buyer
		}
	}

	result := []model.Award{}
	for i := range awards {
		award := model.ConvertAward(&awards[i])
		if award.Winner == "" && award.GameID != "" {
			award.Winner = buyers[award.GameID]
		}
		result = append(result, award)
	}

	return result, nil
}

func (d *awardDomain) invalidate(ctx context.Context, award *entity.Award) {
	d.cache.Invalidate(ctx,
		[]string{common.RedisKeyAward(award.ID), common.RedisKeyEventWithAwards(award.EventID)},
		common.RedisPatternAwardsByEvent(award.EventID),
		common.RedisPatternEventList(),
	)
}
