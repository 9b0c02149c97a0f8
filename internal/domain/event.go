package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/internal/domain/eventstate"
	"github.com/livebingo/backend/internal/domain/readcache"
	"github.com/livebingo/backend/internal/domain/saga"
	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/model"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/enum"
	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/pubsub"
	"github.com/livebingo/backend/pkg/xcontext"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type EventDomain interface {
	Create(context.Context, *model.CreateEventRequest) (*model.CreateEventResponse, error)
	UpdateStatus(context.Context, *model.UpdateStatusEventRequest) (*model.UpdateStatusEventResponse, error)
	Remove(context.Context, *model.RemoveEventRequest) (*model.RemoveEventResponse, error)
	Update(context.Context, *model.UpdateEventRequest) (*model.UpdateEventResponse, error)
	Get(context.Context, *model.GetEventRequest) (*model.GetEventResponse, error)
	GetByUser(context.Context, *model.GetEventByUserRequest) (*model.GetEventByUserResponse, error)
	GetWithAwards(context.Context, *model.GetEventWithAwardsRequest) (*model.GetEventWithAwardsResponse, error)
	GetList(context.Context, *model.GetListEventRequest) (*model.GetListEventResponse, error)
	GetListByStatus(context.Context, *model.GetListEventByStatusRequest) (*model.GetListEventResponse, error)
	GetListByUser(context.Context, *model.GetListEventByUserRequest) (*model.GetListEventResponse, error)
	GetListByUserAndStatus(context.Context, *model.GetListEventByUserAndStatusRequest) (*model.GetListEventResponse, error)
	GetListByUserWithAwards(context.Context, *model.GetListEventByUserWithAwardsRequest) (*model.GetListEventWithAwardsResponse, error)
}

type eventDomain struct {
	eventRepo repository.EventRepository
	awards    AwardPort
	cards     CardPort
	rooms     RoomAllocator
	cache     *readcache.Cache
	publisher pubsub.Publisher
	now       func() time.Time
}

func NewEventDomain(
	eventRepo repository.EventRepository,
	awards AwardPort,
	cards CardPort,
	rooms RoomAllocator,
	cache *readcache.Cache,
	publisher pubsub.Publisher,
) *eventDomain {
	return &eventDomain{
		eventRepo: eventRepo,
		awards:    awards,
		cards:     cards,
		rooms:     rooms,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

func (d *eventDomain) Create(
	ctx context.Context, req *model.CreateEventRequest,
) (*model.CreateEventResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require user_id")
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Require name")
	}

	if err := checkPrice(req.Price); err != nil {
		return nil, err
	}

	if req.StartTime.IsZero() {
		return nil, errorx.New(errorx.BadRequest, "Require start_time")
	}

	if req.EndTime != nil && !req.EndTime.After(req.StartTime) {
		return nil, errorx.New(errorx.BadRequest, "End time must be after start time")
	}

	for i, a := range req.Awards {
		if a.Name == "" {
			return nil, errorx.New(errorx.BadRequest, "Require name of award %d", i+1)
		}
	}

	event := &entity.Event{
		Base:         entity.Base{ID: uuid.NewString()},
		Name:         req.Name,
		Description:  req.Description,
		UserID:       req.UserID,
		Price:        req.Price,
		Status:       entity.EventPending,
		StartTime:    req.StartTime.UTC(),
		HostIsActive: req.HostIsActive,
	}

	if req.EndTime != nil {
		event.EndTime.Valid = true
		event.EndTime.Time = req.EndTime.UTC()
	}

	var awards []model.Award
	var room *model.Room
	workflow := saga.New("create_event").
		AddStep(saga.Step{
			Name: "insert_event",
			Action: func(ctx context.Context) error {
				return d.eventRepo.Create(ctx, event)
			},
			Compensate: func(ctx context.Context) error {
				return d.eventRepo.DeleteByIDAndUserID(ctx, event.ID, event.UserID)
			},
		}).
		AddStep(saga.Step{
			Name: "insert_awards",
			Action: func(ctx context.Context) error {
				var err error
				awards, err = d.awards.CreateBatch(ctx, event.ID, req.Awards)
				return err
			},
			Compensate: func(ctx context.Context) error {
				return d.awards.DeleteByEventID(ctx, event.ID)
			},
		}).
		AddStep(saga.Step{
			Name: "allocate_room",
			Action: func(ctx context.Context) error {
				var err error
				room, err = d.rooms.AllocateRoom(ctx, model.AllocateRoomRequest{
					EventID:   event.ID,
					OwnerID:   event.UserID,
					StartTime: event.StartTime,
				})
				return err
			},
		})

	if err := workflow.Run(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create event: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot create event")
	}

	result := model.ConvertEvent(event)
	d.cache.Set(ctx, common.RedisKeyEvent(event.ID), result)
	d.cache.Invalidate(ctx, nil, common.RedisPatternEventList())
	d.publish(ctx, model.EventCreatedNotification, event)

	return &model.CreateEventResponse{Event: result, Awards: awards, Room: *room}, nil
}

func (d *eventDomain) UpdateStatus(
	ctx context.Context, req *model.UpdateStatusEventRequest,
) (*model.UpdateStatusEventResponse, error) {
	event, err := d.getEvent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	result, err := eventstate.Transition(event, entity.EventStatus(req.Status), req.UserID, d.now())
	if err != nil {
		return nil, err
	}

	err = d.eventRepo.UpdateByID(ctx, event.ID, map[string]any{
		"status":     result.Status,
		"start_time": result.StartTime,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update status of event: %v", err)
		return nil, errorx.Unknown
	}

	event.Status = result.Status
	event.StartTime = result.StartTime
	d.refresh(ctx, event)
	d.publish(ctx, model.EventStatusChangedNotification, event)

	return &model.UpdateStatusEventResponse{
		Status:  string(result.Status),
		Message: result.Message,
	}, nil
}

func (d *eventDomain) Remove(
	ctx context.Context, req *model.RemoveEventRequest,
) (*model.RemoveEventResponse, error) {
	event, err := d.getEvent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if event.UserID != req.UserID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if event.Status == entity.EventCompleted {
		return nil, errorx.New(errorx.Conflict, "Event has already completed")
	}

	sold, err := d.cards.CountSold(ctx, event.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count sold cards: %v", err)
		return nil, errorx.Unknown
	}

	if sold > 0 {
		return nil, errorx.New(errorx.Conflict, "Event already has players")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	cardIDs, err := d.cards.DeleteUnsold(ctx, event.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete unsold cards: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.awards.DeleteByEventID(ctx, event.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete awards: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.eventRepo.DeleteByIDAndUserID(ctx, event.ID, event.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete event: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	keys := []string{common.RedisKeyEvent(event.ID), common.RedisKeyEventWithAwards(event.ID)}
	for _, id := range cardIDs {
		keys = append(keys, common.RedisKeyCard(id))
	}

	d.cache.Invalidate(ctx, keys,
		common.RedisPatternEventList(),
		common.RedisPatternCardsByEvent(event.ID),
		common.RedisPatternAwardsByEvent(event.ID),
	)
	d.publish(ctx, model.EventDeletedNotification, event)

	return &model.RemoveEventResponse{Event: model.ConvertEvent(event)}, nil
}

func (d *eventDomain) Update(
	ctx context.Context, req *model.UpdateEventRequest,
) (*model.UpdateEventResponse, error) {
	event, err := d.getEvent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if event.Status != entity.EventPending {
		return nil, errorx.New(errorx.Conflict, "Event is not pending")
	}

	if event.UserID != req.UserID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	data := map[string]any{}
	if req.Price != nil {
		if err := checkPrice(*req.Price); err != nil {
			return nil, err
		}
		data["price"] = *req.Price
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, errorx.New(errorx.BadRequest, "Name must not be empty")
		}
		data["name"] = *req.Name
	}

	if req.Description != nil {
		data["description"] = *req.Description
	}

	if req.HostIsActive != nil {
		data["host_is_active"] = *req.HostIsActive
	}

	startTime := event.StartTime
	if req.StartTime != nil {
		startTime = req.StartTime.UTC()
		data["start_time"] = startTime
	}

	if req.EndTime != nil {
		if !req.EndTime.After(startTime) {
			return nil, errorx.New(errorx.BadRequest, "End time must be after start time")
		}
		data["end_time"] = req.EndTime.UTC()
	}

	if len(data) == 0 {
		return &model.UpdateEventResponse{Event: model.ConvertEvent(event)}, nil
	}

	data["status"] = eventstate.ScheduleStatus(event, req.StartTime != nil)

	if err := d.eventRepo.UpdateByID(ctx, event.ID, data); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update event: %v", err)
		return nil, errorx.Unknown
	}

	event, err = d.getEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	d.refresh(ctx, event)
	d.publish(ctx, model.EventUpdatedNotification, event)

	return &model.UpdateEventResponse{Event: model.ConvertEvent(event)}, nil
}

func (d *eventDomain) Get(ctx context.Context, req *model.GetEventRequest) (*model.GetEventResponse, error) {
	event, err := d.loadEvent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &model.GetEventResponse{Event: event}, nil
}

func (d *eventDomain) GetByUser(
	ctx context.Context, req *model.GetEventByUserRequest,
) (*model.GetEventByUserResponse, error) {
	event, err := d.loadEvent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if event.UserID != req.UserID {
		return nil, errorx.New(errorx.NotFound, "Not found event")
	}

	return &model.GetEventByUserResponse{Event: event}, nil
}

func (d *eventDomain) GetWithAwards(
	ctx context.Context, req *model.GetEventWithAwardsRequest,
) (*model.GetEventWithAwardsResponse, error) {
	result, err := readcache.Load(ctx, d.cache, common.RedisKeyEventWithAwards(req.ID),
		func(ctx context.Context) (model.EventWithAwards, error) {
			event, err := d.getEvent(ctx, req.ID)
			if err != nil {
				return model.EventWithAwards{}, err
			}

			awards, err := d.awards.GetByEventIDs(ctx, []string{event.ID})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get awards of event: %v", err)
				return model.EventWithAwards{}, errorx.Unknown
			}

			return model.EventWithAwards{
				Event:  model.ConvertEvent(event),
				Awards: nonNilAwards(awards[event.ID]),
			}, nil
		})
	if err != nil {
		return nil, err
	}

	return &model.GetEventWithAwardsResponse{Event: result}, nil
}

func (d *eventDomain) GetList(
	ctx context.Context, req *model.GetListEventRequest,
) (*model.GetListEventResponse, error) {
	p, err := paginate(ctx, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	return d.listEvents(ctx, common.RedisKeyEventList(p.page, p.limit), repository.GetListEventFilter{}, p)
}

func (d *eventDomain) GetListByStatus(
	ctx context.Context, req *model.GetListEventByStatusRequest,
) (*model.GetListEventResponse, error) {
	status, err := parseStatusFilter(req.Status, true)
	if err != nil {
		return nil, err
	}

	p, err := paginate(ctx, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	return d.listEvents(ctx,
		common.RedisKeyEventListByStatus(string(status), p.page, p.limit),
		repository.GetListEventFilter{Status: status}, p)
}

func (d *eventDomain) GetListByUser(
	ctx context.Context, req *model.GetListEventByUserRequest,
) (*model.GetListEventResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require user_id")
	}

	p, err := paginate(ctx, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	return d.listEvents(ctx,
		common.RedisKeyEventListByUser(req.UserID, p.page, p.limit),
		repository.GetListEventFilter{UserID: req.UserID}, p)
}

func (d *eventDomain) GetListByUserAndStatus(
	ctx context.Context, req *model.GetListEventByUserAndStatusRequest,
) (*model.GetListEventResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require user_id")
	}

	status, err := parseStatusFilter(req.Status, false)
	if err != nil {
		return nil, err
	}

	p, err := paginate(ctx, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	return d.listEvents(ctx,
		common.RedisKeyEventListByUserAndStatus(req.UserID, string(status), p.page, p.limit),
		repository.GetListEventFilter{UserID: req.UserID, Status: status}, p)
}

func (d *eventDomain) GetListByUserWithAwards(
	ctx context.Context, req *model.GetListEventByUserWithAwardsRequest,
) (*model.GetListEventWithAwardsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require user_id")
	}

	p, err := paginate(ctx, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	key := common.RedisKeyEventListByUserWithAwards(req.UserID, p.page, p.limit)
	return readcache.Load(ctx, d.cache, key,
		func(ctx context.Context) (*model.GetListEventWithAwardsResponse, error) {
			events, err := d.queryEvents(ctx, repository.GetListEventFilter{UserID: req.UserID}, p)
			if err != nil {
				return nil, err
			}

			ids := []string{}
			for _, e := range events.Data {
				ids = append(ids, e.ID)
			}

			awards, err := d.awards.GetByEventIDs(ctx, ids)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get awards of events: %v", err)
				return nil, errorx.Unknown
			}

			result := &model.GetListEventWithAwardsResponse{
				Data: []model.EventWithAwards{},
				Meta: events.Meta,
			}
			for _, e := range events.Data {
				result.Data = append(result.Data, model.EventWithAwards{
					Event:  e,
					Awards: nonNilAwards(awards[e.ID]),
				})
			}

			return result, nil
		})
}

func (d *eventDomain) listEvents(
	ctx context.Context, key string, filter repository.GetListEventFilter, p pagination,
) (*model.GetListEventResponse, error) {
	return readcache.Load(ctx, d.cache, key,
		func(ctx context.Context) (*model.GetListEventResponse, error) {
			return d.queryEvents(ctx, filter, p)
		})
}

func (d *eventDomain) queryEvents(
	ctx context.Context, filter repository.GetListEventFilter, p pagination,
) (*model.GetListEventResponse, error) {
	filter.Offset = p.offset
	filter.Limit = p.limit

	var events []entity.Event
	var total int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		events, err = d.eventRepo.GetList(egCtx, filter)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = d.eventRepo.Count(egCtx, filter)
		return err
	})

	if err := eg.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of events: %v", err)
		return nil, errorx.Unknown
	}

	result := &model.GetListEventResponse{
		Data: []model.Event{},
		Meta: model.NewMeta(total, p.page, p.limit),
	}
	for i := range events {
		result.Data = append(result.Data, model.ConvertEvent(&events[i]))
	}

	return result, nil
}

func (d *eventDomain) loadEvent(ctx context.Context, eventID string) (model.Event, error) {
	return readcache.Load(ctx, d.cache, common.RedisKeyEvent(eventID),
		func(ctx context.Context) (model.Event, error) {
			event, err := d.getEvent(ctx, eventID)
			if err != nil {
				return model.Event{}, err
			}

			return model.ConvertEvent(event), nil
		})
}

// getEvent reads the event from the store, bypassing the cache.
func (d *eventDomain) getEvent(ctx context.Context, eventID string) (*entity.Event, error) {
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

// refresh writes the event to its cache key and invalidates every list which
// may contain it.
func (d *eventDomain) refresh(ctx context.Context, event *entity.Event) {
	d.cache.Set(ctx, common.RedisKeyEvent(event.ID), model.ConvertEvent(event))
	d.cache.Invalidate(ctx,
		[]string{common.RedisKeyEventWithAwards(event.ID)},
		common.RedisPatternEventList(),
	)
}

func (d *eventDomain) publish(ctx context.Context, notificationType string, event *entity.Event) {
	b, err := json.Marshal(model.EventNotification{
		Type:    notificationType,
		EventID: event.ID,
		OwnerID: event.UserID,
		Status:  string(event.Status),
		At:      d.now().UTC(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event notification: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.EventTopic
	err = d.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(event.ID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish event notification %s: %v", notificationType, err)
		common.PromCounters[common.EventNotificationTotal].WithLabelValues(notificationType, "failure").Inc()
		return
	}

	common.PromCounters[common.EventNotificationTotal].WithLabelValues(notificationType, "success").Inc()
}

func parseStatusFilter(s string, allowEmpty bool) (entity.EventStatus, error) {
	if s == "" {
		if allowEmpty {
			return "", nil
		}

		return "", errorx.New(errorx.BadRequest, "Require status")
	}

	status, err := enum.ToEnum[entity.EventStatus](s)
	if err != nil {
		return "", errorx.New(errorx.BadRequest, "Invalid status %s", s)
	}

	return status, nil
}

func nonNilAwards(awards []model.Award) []model.Award {
	if awards == nil {
		return []model.Award{}
	}

	return awards
}
