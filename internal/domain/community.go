package domain

import "time"

// Comment belongs to one user and one memoir. Immutable once created.
type Comment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MemoirID  uint64    `gorm:"column:memoir_id;index" json:"memoir_id"`
	UserID    uint64    `gorm:"column:user_id;index" json:"user_id"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

// CommentResponse includes the author's nickname
type CommentResponse struct {
	ID             uint64    `json:"id"`
	MemoirID       uint64    `json:"memoir_id"`
	UserID         uint64    `json:"user_id"`
	AuthorNickname string    `json:"author_nickname,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Like joins a user and a memoir. The unique index on
// (user_id, memoir_id) prevents duplicate likes.
type Like struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;uniqueIndex:uniq_user_memoir" json:"user_id"`
	MemoirID  uint64    `gorm:"column:memoir_id;uniqueIndex:uniq_user_memoir;index" json:"memoir_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Like) TableName() string { return "likes" }

// LikeResponse reflects the memoir's like state after a toggle
type LikeResponse struct {
	MemoirID  uint64 `json:"memoir_id"`
	LikeCount int64  `json:"like_count"`
	UserLiked bool   `json:"user_liked"`
}
