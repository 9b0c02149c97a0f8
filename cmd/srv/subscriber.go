package main

import (
	"os/signal"
	"syscall"

	"github.com/livebingo/backend/internal/domain"
	"github.com/livebingo/backend/internal/domain/presence"
	"github.com/livebingo/backend/pkg/kafka"
	"github.com/livebingo/backend/pkg/ws"
	"github.com/livebingo/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	s.loadDatabase()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.startPrometheus()

	rooms := domain.NewRoomDomain(
		s.eventRepo,
		presence.NewTracker(s.redisClient),
		presence.NewAllocator(s.redisClient),
		ws.NewHub(),
	)
	eventSubscriber := domain.NewEventSubscriber(rooms, s.publisher)

	cfg := xcontext.Configs(s.ctx).Kafka
	subscriber, err := kafka.NewSubscriber(
		cfg.GroupID,
		[]string{cfg.Addr},
		[]string{cfg.EventTopic},
		eventSubscriber.Subscribe,
	)
	if err != nil {
		return err
	}
	s.subscriber = subscriber

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	xcontext.Logger(s.ctx).Infof("Starting subscriber of topic %s", cfg.EventTopic)
	s.subscriber.Subscribe(ctx)
	<-ctx.Done()

	return s.subscriber.Stop(s.ctx)
}
