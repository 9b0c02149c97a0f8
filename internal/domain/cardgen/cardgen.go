// Package cardgen draws bingo grids which are unique inside an event.
package cardgen

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/internal/repository"
	"github.com/livebingo/backend/pkg/xcontext"

	"golang.org/x/exp/slices"
)

// ErrExhausted is returned when no unique grid could be found within the
// allowed number of attempts.
var ErrExhausted = errors.New("cannot generate a unique card")

const (
	columnSpan = 15
	centerCol  = 2
	centerRow  = 2
)

// Store persists cards. The store must reject two cards having the same
// event id and nums hash.
type Store interface {
	ExistsByHash(ctx context.Context, eventID, hash string) (bool, error)
	Create(ctx context.Context, card *entity.Card) error
}

type Generator struct {
	store       Store
	maxAttempts int

	mu   sync.Mutex
	rand *rand.Rand
}

func New(store Store, maxAttempts int, source rand.Source) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	return &Generator{
		store:       store,
		maxAttempts: maxAttempts,
		rand:        rand.New(source),
	}
}

// Draw returns a random grid. Column i contains 5 distinct numbers in
// [15*i+1, 15*i+15] sorted ascending, and the center cell is free.
func (g *Generator) Draw() entity.Grid {
	g.mu.Lock()
	defer g.mu.Unlock()

	var grid entity.Grid
	for col := 0; col < entity.GridSize; col++ {
		numbers := g.rand.Perm(columnSpan)[:entity.GridSize]
		slices.Sort(numbers)
		for row, n := range numbers {
			grid[col][row] = entity.Cell{Number: col*columnSpan + n + 1}
		}
	}

	grid[centerCol][centerRow] = entity.Cell{Number: entity.FreeNumber, Marked: true}
	return grid
}

// Generate draws grids until one is not used by any card of the event, then
// stores it as a new card of buyer.
func (g *Generator) Generate(ctx context.Context, eventID, buyer string) (*entity.Card, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		grid := g.Draw()
		hash := grid.Hash()

		exists, err := g.store.ExistsByHash(ctx, eventID, hash)
		if err != nil {
			return nil, err
		}

		if exists {
			countCollision("check")
			continue
		}

		card := &entity.Card{
			Base:     entity.Base{ID: uuid.NewString()},
			EventID:  eventID,
			Buyer:    buyer,
			Nums:     grid,
			NumsHash: hash,
		}

		if err := g.store.Create(ctx, card); err != nil {
			// Another request may have stored the same grid after the check.
			// The check does not see it inside a repeatable read transaction.
			if !repository.IsDuplicateKey(err) {
				return nil, err
			}

			countCollision("insert")
			continue
		}

		observeAttempts("success", attempt)
		return card, nil
	}

	xcontext.Logger(ctx).Warnf("Cannot generate a unique card for event %s after %d attempts",
		eventID, g.maxAttempts)
	observeAttempts("exhausted", g.maxAttempts)
	return nil, ErrExhausted
}

// Check returns true if grid has the structure produced by Draw.
func Check(grid entity.Grid) bool {
	for col := 0; col < entity.GridSize; col++ {
		low, high := col*columnSpan+1, col*columnSpan+columnSpan
		last := 0
		for row := 0; row < entity.GridSize; row++ {
			cell := grid[col][row]
			if col == centerCol && row == centerRow {
				if cell.Number != entity.FreeNumber || !cell.Marked {
					return false
				}
				continue
			}

			if cell.Number < low || cell.Number > high || cell.Number <= last {
				return false
			}
			last = cell.Number
		}
	}

	return true
}

func countCollision(source string) {
	common.PromCounters[common.CardCollisionTotal].WithLabelValues(source).Inc()
}

func observeAttempts(result string, attempts int) {
	common.PromHistograms[common.CardGenerateAttempts].WithLabelValues(result).Observe(float64(attempts))
}
