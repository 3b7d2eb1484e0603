package domain

import "time"

// Publish order formats
const (
	FormatPaperback = "paperback"
	FormatHardcover = "hardcover"
	FormatEbook     = "ebook"
)

// Publish order statuses
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPrinting  = "printing"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// ValidFormat reports whether f is a known publish format
func ValidFormat(f string) bool {
	return f == FormatPaperback || f == FormatHardcover || f == FormatEbook
}

// PhysicalFormat reports whether f requires shipping details
func PhysicalFormat(f string) bool {
	return f == FormatPaperback || f == FormatHardcover
}

// PublishOrder is a request to produce a physical or e-book copy of a memoir
type PublishOrder struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        uint64    `gorm:"column:user_id;index" json:"user_id"`
	MemoirID      uint64    `gorm:"column:memoir_id;index" json:"memoir_id"`
	Format        string    `gorm:"column:format;type:varchar(20)" json:"format"`
	Copies        int       `gorm:"column:copies;default:1" json:"copies"`
	RecipientName string    `gorm:"column:recipient_name;type:varchar(100)" json:"recipient_name,omitempty"`
	Phone         string    `gorm:"column:phone;type:varchar(20)" json:"phone,omitempty"`
	Address       string    `gorm:"column:address;type:varchar(500)" json:"address,omitempty"`
	Status        string    `gorm:"column:status;type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PublishOrder) TableName() string { return "publish_orders" }

// Cancellable reports whether the order may still be cancelled by its owner
func (o *PublishOrder) Cancellable() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}
