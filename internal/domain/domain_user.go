package domain

import "time"

// User 用户领域模型
type User struct {
	UID       int64
	Username  string
	Password  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
