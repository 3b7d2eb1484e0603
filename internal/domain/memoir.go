package domain

import "time"

// Memoir is a user-authored document composed of ordered chapters
type Memoir struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;index" json:"user_id"`
	Title     string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Content   string    `gorm:"column:content;type:mediumtext" json:"content"`
	IsPublic  bool      `gorm:"column:is_public;default:false;index" json:"is_public"`
	ViewCount uint      `gorm:"column:view_count;default:0" json:"view_count"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Chapters []Chapter `gorm:"foreignKey:MemoirID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
}

func (Memoir) TableName() string { return "memoirs" }

// Chapter belongs to exactly one memoir. OrderNum orders chapters within
// a memoir; uniqueness of the ordering is maintained by the service layer.
type Chapter struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MemoirID  uint64    `gorm:"column:memoir_id;index" json:"memoir_id"`
	Title     string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Content   string    `gorm:"column:content;type:mediumtext" json:"content"`
	OrderNum  int       `gorm:"column:order_num;default:0" json:"order_num"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapters" }

// MemoirSummary is the list-view DTO for the public feed and own lists
type MemoirSummary struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	IsPublic       bool      `json:"is_public"`
	AuthorID       uint64    `json:"author_id"`
	AuthorNickname string    `json:"author_nickname,omitempty"`
	ChapterCount   int64     `json:"chapter_count"`
	LikeCount      int64     `json:"like_count"`
	CommentCount   int64     `json:"comment_count"`
	ViewCount      uint      `json:"view_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
