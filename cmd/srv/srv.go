package main

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/livebingo/backend/config"
	"github.com/livebingo/backend/internal/domain"
	"github.com/livebingo/backend/internal/domain/cardgen"
	"github.com/livebingo/backend/internal/domain/presence"
	"github.com/livebingo/backend/internal/domain/readcache"
	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/kafka"
	"github.com/livebingo/backend/pkg/logger"
	"github.com/livebingo/backend/pkg/prometheus"
	"github.com/livebingo/backend/pkg/pubsub"
	"github.com/livebingo/backend/pkg/router"
	"github.com/livebingo/backend/pkg/ws"
	"github.com/livebingo/backend/pkg/xcontext"
	"github.com/livebingo/backend/pkg/xredis"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context
	log logger.Logger

	redisClient xredis.Client
	publisher   pubsub.Publisher
	subscriber  pubsub.Subscriber
	hub         *ws.Hub

	eventRepo repository.EventRepository
	awardRepo repository.AwardRepository
	cardRepo  repository.CardRepository

	eventDomain domain.EventDomain
	cardDomain  domain.CardDomain
	awardDomain domain.AwardDomain
	roomDomain  domain.RoomDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	return nil
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx)
	s.log = logger.NewLogger(logger.ParseLevel(cfg.Log.Level), cfg.Env != "local")
	s.ctx = xcontext.WithLogger(s.ctx, s.log)
}

func (s *srv) syncLogger() {
	if s.log != nil {
		// Syncing a terminal stderr returns EINVAL on linux.
		_ = s.log.Sync()
	}
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(), // data source name
		DefaultStringSize:         256,                    // default size for string fields
		DisableDatetimePrecision:  true,                   // disable datetime precision, which not supported before MySQL 5.6
		DontSupportRenameIndex:    true,                   // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
		DontSupportRenameColumn:   true,                   // `change` when rename column, rename column not supported before MySQL 8, MariaDB
		SkipInitializeWithVersion: false,                  // auto configure based on currently MySQL version
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	publisher, err := kafka.NewPublisher(cfg.ClientID, []string{cfg.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.eventRepo = repository.NewEventRepository()
	s.awardRepo = repository.NewAwardRepository()
	s.cardRepo = repository.NewCardRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)
	cache := readcache.New(s.redisClient, cfg.Cache.TTL.Duration)
	generator := cardgen.New(s.cardRepo, cfg.Card.MaxGenerateAttempts, rand.NewSource(time.Now().UnixNano()))
	allocator := presence.NewAllocator(s.redisClient)
	s.hub = ws.NewHub()

	awardDomain := domain.NewAwardDomain(s.awardRepo, s.eventRepo, s.cardRepo, cache)
	cardDomain := domain.NewCardDomain(s.cardRepo, s.eventRepo, generator, cache)

	s.awardDomain = awardDomain
	s.cardDomain = cardDomain
	s.eventDomain = domain.NewEventDomain(s.eventRepo, awardDomain, cardDomain, allocator, cache, s.publisher)
	s.roomDomain = domain.NewRoomDomain(s.eventRepo, presence.NewTracker(s.redisClient), allocator, s.hub)
}

func (s *srv) startPrometheus() {
	cfg := xcontext.Configs(s.ctx)
	go func() {
		httpSrv := &http.Server{
			Addr:    cfg.PrometheusServer.Address(),
			Handler: prometheus.NewHandler(),
		}

		xcontext.Logger(s.ctx).Infof("Starting prometheus on port: %s", cfg.PrometheusServer.Port)
		if err := httpSrv.ListenAndServe(); err != nil {
			xcontext.Logger(s.ctx).Errorf("Server prometheus stop: %v", err)
		}
	}()
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Error
	}
}
