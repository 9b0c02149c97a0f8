package cardgen

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/livebingo/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	existsFunc func(eventID, hash string) (bool, error)
	createFunc func(card *entity.Card) error

	existsCalls int
	cards       []*entity.Card
}

func (m *mockStore) ExistsByHash(_ context.Context, eventID, hash string) (bool, error) {
	m.existsCalls++
	if m.existsFunc != nil {
		return m.existsFunc(eventID, hash)
	}

	for _, c := range m.cards {
		if c.EventID == eventID && c.NumsHash == hash {
			return true, nil
		}
	}

	return false, nil
}

func (m *mockStore) Create(_ context.Context, card *entity.Card) error {
	if m.createFunc != nil {
		if err := m.createFunc(card); err != nil {
			return err
		}
	}

	m.cards = append(m.cards, card)
	return nil
}

func TestGenerator_Draw(t *testing.T) {
	g := New(&mockStore{}, 10, rand.NewSource(1))
	for i := 0; i < 200; i++ {
		grid := g.Draw()
		require.True(t, Check(grid), "invalid grid %v", grid)
		require.Equal(t, entity.Cell{Number: entity.FreeNumber, Marked: true}, grid[2][2])

		for col := 0; col < entity.GridSize; col++ {
			seen := map[int]bool{}
			for row := 0; row < entity.GridSize; row++ {
				require.False(t, seen[grid[col][row].Number])
				seen[grid[col][row].Number] = true
			}
		}
	}
}

func TestGenerator_Generate(t *testing.T) {
	store := &mockStore{}
	g := New(store, 10, rand.NewSource(2))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		card, err := g.Generate(context.Background(), "event", "buyer")
		require.NoError(t, err)
		require.NotEmpty(t, card.ID)
		require.False(t, card.Available)
		require.Equal(t, card.Nums.Hash(), card.NumsHash)
		require.False(t, seen[card.NumsHash])
		seen[card.NumsHash] = true
	}
}

func TestGenerator_RetriesOnCollision(t *testing.T) {
	collisions := 3
	store := &mockStore{}
	store.existsFunc = func(string, string) (bool, error) {
		if collisions > 0 {
			collisions--
			return true, nil
		}
		return false, nil
	}

	g := New(store, 10, rand.NewSource(3))
	card, err := g.Generate(context.Background(), "event", "buyer")
	require.NoError(t, err)
	require.NotNil(t, card)
	require.Equal(t, 4, store.existsCalls)
}

func TestGenerator_InsertConflictIsCollision(t *testing.T) {
	tests := []struct {
		name     string
		conflict error
	}{
		{name: "mysql", conflict: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}},
		{name: "sqlite", conflict: errors.New("UNIQUE constraint failed: cards.event_id, cards.nums_hash")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := 1
			store := &mockStore{}
			store.createFunc = func(card *entity.Card) error {
				// The concurrent insert is not visible to ExistsByHash.
				if conflicts > 0 {
					conflicts--
					return tt.conflict
				}
				return nil
			}

			g := New(store, 10, rand.NewSource(4))
			card, err := g.Generate(context.Background(), "event", "buyer")
			require.NoError(t, err)
			require.NotNil(t, card)
			require.Len(t, store.cards, 1)
			require.Equal(t, 2, store.existsCalls)
		})
	}
}

func TestGenerator_InsertErrorIsReturned(t *testing.T) {
	failure := errors.New("connection refused")
	store := &mockStore{createFunc: func(*entity.Card) error { return failure }}

	g := New(store, 10, rand.NewSource(5))
	_, err := g.Generate(context.Background(), "event", "buyer")
	require.ErrorIs(t, err, failure)
}

func TestGenerator_Exhausted(t *testing.T) {
	store := &mockStore{existsFunc: func(string, string) (bool, error) { return true, nil }}

	g := New(store, 7, rand.NewSource(6))
	_, err := g.Generate(context.Background(), "event", "buyer")
	require.ErrorIs(t, err, ErrExhausted)
	require.Equal(t, 7, store.existsCalls)
}

func TestCheck(t *testing.T) {
	g := New(&mockStore{}, 1, rand.NewSource(7))

	grid := g.Draw()
	grid[0][0], grid[0][1] = grid[0][1], grid[0][0]
	require.False(t, Check(grid))

	grid = g.Draw()
	grid[4][4].Number = 76
	require.False(t, Check(grid))

	grid = g.Draw()
	grid[2][2].Marked = false
	require.False(t, Check(grid))
}
