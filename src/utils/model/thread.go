package model

// CheckpointTokenID is the reserved row holding the last scanned block.
// It never collides with a real token id, those are 32 byte hashes.
const CheckpointTokenID = "0x0"

// Thread keeps one conversation per tracked token.
// The sentinel row is the only one using LastBlock.
type Thread struct {
	// Token id, or CheckpointTokenID for the checkpoint row
	TokenID string `gorm:"primaryKey;column:token_id"`

	// Id of the newest tweet in the token's thread
	LastTweetID string `gorm:"column:last_tweet_id"`

	// Last scanned block, checkpoint row only
	LastBlock int64 `gorm:"column:last_block"`
}

func (Thread) TableName() string {
	return "threads"
}
