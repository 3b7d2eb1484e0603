package domain

import "time"

// User represents a registered user. Phone is the login key.
type User struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Phone     string    `gorm:"column:phone;type:varchar(20);uniqueIndex" json:"phone"`
	Password  string    `gorm:"column:password;type:varchar(255)" json:"-"`
	Name      string    `gorm:"column:name;type:varchar(100)" json:"name"`
	Nickname  string    `gorm:"column:nickname;type:varchar(100)" json:"nickname"`
	AvatarURL *string   `gorm:"column:avatar_url;type:varchar(500)" json:"avatar_url,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserResponse is the private view of a user (own account)
type UserResponse struct {
	ID        uint64    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		Name:      u.Name,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// UserProfileResponse is the public view of a user
type UserProfileResponse struct {
	ID        uint64  `json:"id"`
	Nickname  string  `json:"nickname"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	JoinedAt  string  `json:"joined_at"`
}

// ToProfileResponse converts User to its public profile
func (u *User) ToProfileResponse() *UserProfileResponse {
	return &UserProfileResponse{
		ID:        u.ID,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
		JoinedAt:  u.CreatedAt.Format("2006-01-02"),
	}
}
