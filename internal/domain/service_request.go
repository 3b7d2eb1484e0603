package domain

import "time"

// Service request types
const (
	ServiceEditing     = "editing"
	ServiceTechSupport = "tech_support"
	ServiceInterview   = "interview"
	ServiceOther       = "other"
)

// Service request statuses
const (
	RequestPendingReview = "pending_review"
	RequestInProgress    = "in_progress"
	RequestCompleted     = "completed"
	RequestCancelled     = "cancelled"
	RequestRejected      = "rejected"
)

// ValidServiceType reports whether t is a known service type
func ValidServiceType(t string) bool {
	switch t {
	case ServiceEditing, ServiceTechSupport, ServiceInterview, ServiceOther:
		return true
	}
	return false
}

// ServiceRequest is a user's ask for human assistance, optionally linked
// to one of their memoirs.
type ServiceRequest struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"column:user_id;index" json:"user_id"`
	MemoirID    *uint64   `gorm:"column:memoir_id" json:"memoir_id,omitempty"`
	ServiceType string    `gorm:"column:service_type;type:varchar(30)" json:"service_type"`
	Details     string    `gorm:"column:details;type:text" json:"details"`
	Status      string    `gorm:"column:status;type:varchar(30);default:'pending_review';index" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ServiceRequest) TableName() string { return "service_requests" }

// Cancellable reports whether the request may still be cancelled by its owner
func (r *ServiceRequest) Cancellable() bool {
	return r.Status == RequestPendingReview || r.Status == RequestInProgress
}
