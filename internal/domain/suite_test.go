package domain

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/livebingo/backend/internal/domain/cardgen"
	"github.com/livebingo/backend/internal/domain/presence"
	"github.com/livebingo/backend/internal/domain/readcache"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/testutil"
	"github.com/livebingo/backend/pkg/ws"
	"github.com/livebingo/backend/pkg/xredis"
)

type suite struct {
	ctx         context.Context
	redisClient xredis.Client
	redisServer *miniredis.Miniredis
	publisher   *testutil.MockPublisher
	allocator   *testutil.MockRoomAllocator
	hub         *ws.Hub

	eventRepo repository.EventRepository
	awardRepo repository.AwardRepository
	cardRepo  repository.CardRepository

	eventDomain *eventDomain
	awardDomain *awardDomain
	cardDomain  *cardDomain
	roomDomain  *roomDomain
}

// newSuite wires all domains on a fresh fixture database and a fresh redis.
func newSuite(t *testing.T) *suite {
	s := &suite{
		ctx:       testutil.MockContext(),
		publisher: &testutil.MockPublisher{},
		allocator: &testutil.MockRoomAllocator{},
		hub:       ws.NewHub(),
		eventRepo: repository.NewEventRepository(),
		awardRepo: repository.NewAwardRepository(),
		cardRepo:  repository.NewCardRepository(),
	}
	s.redisClient, s.redisServer = testutil.NewRedisClient(t)
	testutil.CreateFixtureDb(s.ctx)

	cache := readcache.New(s.redisClient, time.Minute)
	generator := cardgen.New(s.cardRepo, 10, rand.NewSource(1))

	s.awardDomain = NewAwardDomain(s.awardRepo, s.eventRepo, s.cardRepo, cache)
	s.cardDomain = NewCardDomain(s.cardRepo, s.eventRepo, generator, cache)
	s.eventDomain = NewEventDomain(s.eventRepo, s.awardDomain, s.cardDomain, s.allocator, cache, s.publisher)
	s.roomDomain = NewRoomDomain(s.eventRepo,
		presence.NewTracker(s.redisClient), presence.NewAllocator(s.redisClient), s.hub)

	return s
}
