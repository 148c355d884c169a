package model

import (
	"context"
	"errors"

	l "github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ThreadRepository persists per-token threads and the checkpoint row
type ThreadRepository struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewThreadRepository(db *gorm.DB) (self *ThreadRepository) {
	self = new(ThreadRepository)
	self.db = db
	self.log = l.NewSublogger("thread-repository")
	return
}

func (self *ThreadRepository) LastTweetID(ctx context.Context, tokenID string) (tweetID string, ok bool, err error) {
	var thread Thread
	err = self.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		First(&thread).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	tweetID = thread.LastTweetID
	ok = tweetID != ""
	return
}

func (self *ThreadRepository) UpsertTweetID(ctx context.Context, tokenID string, tweetID string) (err error) {
	err = self.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_tweet_id"}),
		}).
		Create(&Thread{
			TokenID:     tokenID,
			LastTweetID: tweetID,
		}).
		Error
	return
}

func (self *ThreadRepository) Checkpoint(ctx context.Context) (height int64, ok bool, err error) {
	var thread Thread
	err = self.db.WithContext(ctx).
		Where("token_id = ?", CheckpointTokenID).
		First(&thread).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	height = thread.LastBlock
	ok = true
	return
}

// SaveCheckpoint moves the checkpoint forward. A stale height is ignored,
// the checkpoint never rolls back.
func (self *ThreadRepository) SaveCheckpoint(ctx context.Context, height int64) (err error) {
	err = self.db.WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			var checkpoint Thread
			err := tx.Where("token_id = ?", CheckpointTokenID).
				First(&checkpoint).
				Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(&Thread{
					TokenID:   CheckpointTokenID,
					LastBlock: height,
				}).Error
			}
			if err != nil {
				return err
			}

			if checkpoint.LastBlock >= height {
				return nil
			}

			return tx.Model(&Thread{TokenID: CheckpointTokenID}).
				Update("last_block", height).
				Error
		})
	if err != nil {
		self.log.WithError(err).WithField("height", height).Error("Failed to save checkpoint")
	}
	return
}
