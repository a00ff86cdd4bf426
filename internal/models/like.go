package models

import "time"

// Like records that a user liked a review. The (UserID, PostID) pair is
// unique and the table is the single source of truth for like counts;
// rows are hard-deleted on unlike so counts never drift.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
