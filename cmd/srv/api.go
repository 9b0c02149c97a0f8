package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/livebingo/backend/internal/domain"
	"github.com/livebingo/backend/internal/middleware"
	"github.com/livebingo/backend/pkg/kafka"
	"github.com/livebingo/backend/pkg/router"
	"github.com/livebingo/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()
	s.startPrometheus()
	if err := s.startRoomSubscriber(); err != nil {
		return err
	}

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:    cfg.Address(),
		Handler: s.router.Handler(cfg.AllowedOrigins),
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.Port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return s.subscriber.Stop(s.ctx)
}

// startRoomSubscriber consumes the room topic with a consumer group owned by
// this instance, so every api instance receives every message.
func (s *srv) startRoomSubscriber() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	subscriber, err := kafka.NewSubscriber(
		fmt.Sprintf("%s-api-%s", cfg.GroupID, uuid.NewString()),
		[]string{cfg.Addr},
		[]string{cfg.RoomTopic},
		domain.NewRoomSubscriber(s.roomDomain).Subscribe,
		kafka.FromNewest(),
	)
	if err != nil {
		return err
	}

	s.subscriber = subscriber
	go s.subscriber.Subscribe(s.ctx)
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	// Event API
	{
		router.POST(s.router, "/createEvent", s.eventDomain.Create)
		router.POST(s.router, "/updateStatusEvent", s.eventDomain.UpdateStatus)
		router.POST(s.router, "/removeEvent", s.eventDomain.Remove)
		router.POST(s.router, "/updateEvent", s.eventDomain.Update)
		router.GET(s.router, "/getEvent", s.eventDomain.Get)
		router.GET(s.router, "/getEventByUser", s.eventDomain.GetByUser)
		router.GET(s.router, "/getEventWithAwards", s.eventDomain.GetWithAwards)
		router.GET(s.router, "/getListEvent", s.eventDomain.GetList)
		router.GET(s.router, "/getListEventByStatus", s.eventDomain.GetListByStatus)
		router.GET(s.router, "/getListEventByUser", s.eventDomain.GetListByUser)
		router.GET(s.router, "/getListEventByUserAndStatus", s.eventDomain.GetListByUserAndStatus)
		router.GET(s.router, "/getListEventByUserWithAwards", s.eventDomain.GetListByUserWithAwards)
	}

	// Card API
	{
		router.POST(s.router, "/createCard", s.cardDomain.Create)
		router.GET(s.router, "/getCard", s.cardDomain.Get)
		router.GET(s.router, "/getListCardByEvent", s.cardDomain.GetListByEvent)
		router.GET(s.router, "/countCardByEvent", s.cardDomain.CountByEvent)
		router.GET(s.router, "/countCardByBuyer", s.cardDomain.CountByBuyer)
		router.GET(s.router, "/getListCardByBuyer", s.cardDomain.GetListByBuyer)
		router.GET(s.router, "/existsBuyerInEvent", s.cardDomain.ExistsBuyerInEvent)
		router.POST(s.router, "/updateAvailableCard", s.cardDomain.UpdateAvailable)
		router.POST(s.router, "/updateAvailableManyCard", s.cardDomain.UpdateAvailableMany)
		router.POST(s.router, "/checkOrUncheckBox", s.cardDomain.CheckOrUncheckBox)
		router.POST(s.router, "/validateCards", s.cardDomain.Validate)
		router.POST(s.router, "/removeCards", s.cardDomain.Remove)
		router.POST(s.router, "/resetCards", s.cardDomain.Reset)
	}

	// Award API
	{
		router.POST(s.router, "/createAward", s.awardDomain.Create)
		router.GET(s.router, "/getListAwardByEvent", s.awardDomain.GetListByEvent)
		router.GET(s.router, "/getListWinnerByEvent", s.awardDomain.GetListWinnerByEvent)
		router.GET(s.router, "/getAward", s.awardDomain.Get)
		router.POST(s.router, "/updateAward", s.awardDomain.Update)
		router.POST(s.router, "/removeAward", s.awardDomain.Remove)
	}

	// Room API
	{
		router.POST(s.router, "/joinRoom", s.roomDomain.Join)
		router.GET(s.router, "/countUsersRoom", s.roomDomain.CountUsers)
		router.POST(s.router, "/deleteRoom", s.roomDomain.Delete)
		router.POST(s.router, "/deleteUserRoom", s.roomDomain.DeleteUser)
		router.POST(s.router, "/moveRoom", s.roomDomain.Move)
		router.Websocket(s.router, "/ws", s.roomDomain.ServeWS)
	}
}
