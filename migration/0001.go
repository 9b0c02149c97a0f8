package migration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/livebingo/backend/internal/entity"
	"github.com/livebingo/backend/pkg/xcontext"

	"gorm.io/gorm"
)

const backfillBatchSize = 100

// Card0 is the card table before two cards of an event could not share the
// same grid.
type Card0 struct {
	Base0

	EventID   string `gorm:"index;size:36"`
	Buyer     string `gorm:"index;size:36"`
	Nums      string `gorm:"type:text"`
	Available bool   `gorm:"index"`
}

func (Card0) TableName() string {
	return "cards"
}

// Card1 adds the grid fingerprint and its unique index.
type Card1 struct {
	Base0

	EventID   string `gorm:"uniqueIndex:idx_card_event_nums;size:36"`
	Buyer     string `gorm:"index;size:36"`
	Nums      string `gorm:"type:text"`
	NumsHash  string `gorm:"uniqueIndex:idx_card_event_nums;size:64"`
	Available bool   `gorm:"index"`
}

func (Card1) TableName() string {
	return "cards"
}

func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()

	if !migrator.HasColumn(&Card1{}, "nums_hash") {
		if err := migrator.AddColumn(&Card1{}, "NumsHash"); err != nil {
			return err
		}
	}

	if err := backfillNumsHash(ctx); err != nil {
		return err
	}

	if !migrator.HasIndex(&Card1{}, "idx_card_event_nums") {
		if err := migrator.CreateIndex(&Card1{}, "idx_card_event_nums"); err != nil {
			return err
		}
	}

	return nil
}

// backfillNumsHash computes the hash of cards created before the column
// existed. A card duplicating an older card of the same event gets a hash
// derived from its id, so the unique index can still be created.
func backfillNumsHash(ctx context.Context) error {
	db := xcontext.DB(ctx)

	var cards []Card1
	return db.Unscoped().
		Where("nums_hash IS NULL OR nums_hash = ''").
		FindInBatches(&cards, backfillBatchSize, func(_ *gorm.DB, _ int) error {
			for _, card := range cards {
				var grid entity.Grid
				if err := grid.Scan(card.Nums); err != nil {
					return fmt.Errorf("cannot parse nums of card %s: %w", card.ID, err)
				}

				hash := grid.Hash()
				var duplicated int64
				err := db.Unscoped().Model(&Card1{}).
					Where("event_id=? AND nums_hash=?", card.EventID, hash).
					Count(&duplicated).Error
				if err != nil {
					return err
				}

				if duplicated > 0 {
					xcontext.Logger(ctx).Warnf("Card %s has the same grid as another card of event %s",
						card.ID, card.EventID)
					sum := sha256.Sum256([]byte(hash + card.ID))
					hash = hex.EncodeToString(sum[:])
				}

				err = db.Unscoped().Model(&Card1{}).Where("id=?", card.ID).Update("nums_hash", hash).Error
				if err != nil {
					return err
				}
			}

			return nil
		}).Error
}
