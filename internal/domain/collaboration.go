package domain

import "time"

// Collaboration roles
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
)

// Collaboration statuses. pending may transition once to accepted or
// declined; both are terminal.
const (
	CollabPending  = "pending"
	CollabAccepted = "accepted"
	CollabDeclined = "declined"
)

// ValidRole reports whether r is a known collaboration role
func ValidRole(r string) bool {
	return r == RoleViewer || r == RoleEditor
}

// Collaboration links a memoir, the invited collaborator and the inviting
// user. The unique index on (memoir_id, collaborator_id) prevents
// duplicate invitations.
type Collaboration struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MemoirID       uint64    `gorm:"column:memoir_id;uniqueIndex:uniq_memoir_collaborator;index" json:"memoir_id"`
	CollaboratorID uint64    `gorm:"column:collaborator_id;uniqueIndex:uniq_memoir_collaborator;index" json:"collaborator_id"`
	InviterID      uint64    `gorm:"column:inviter_id" json:"inviter_id"`
	Role           string    `gorm:"column:role;type:varchar(20);default:'viewer'" json:"role"`
	Status         string    `gorm:"column:status;type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Collaboration) TableName() string { return "memoir_collaborations" }

// CollaborationResponse enriches a collaboration with display fields
type CollaborationResponse struct {
	ID                   uint64    `json:"id"`
	MemoirID             uint64    `json:"memoir_id"`
	MemoirTitle          string    `json:"memoir_title,omitempty"`
	CollaboratorID       uint64    `json:"collaborator_id"`
	CollaboratorNickname string    `json:"collaborator_nickname,omitempty"`
	InviterID            uint64    `json:"inviter_id"`
	InviterNickname      string    `json:"inviter_nickname,omitempty"`
	Role                 string    `json:"role"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}
