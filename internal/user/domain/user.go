// Package domain 包含用户账户与会话的领域模型
package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 凭证无效
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User 用户账户
type User struct {
	gorm.Model   `json:"-"`
	UserID       string    `gorm:"column:user_id;type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(64);not null" json:"-"`
	Name         string    `gorm:"column:name;type:varchar(255)" json:"name"`
	Phone        string    `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Addresses    []Address `gorm:"foreignKey:UserRef" json:"addresses"`
}

func (User) TableName() string { return "users" }

// Address 收货地址
type Address struct {
	gorm.Model `json:"-"`
	UserRef    uint   `gorm:"column:user_ref;index;not null" json:"-"`
	Label      string `gorm:"column:label;type:varchar(64)" json:"label"`
	Address    string `gorm:"column:address;type:varchar(512)" json:"address"`
	City       string `gorm:"column:city;type:varchar(128)" json:"city"`
	State      string `gorm:"column:state;type:varchar(128)" json:"state"`
	Zip        string `gorm:"column:zip;type:varchar(16)" json:"zip"`
	IsDefault  bool   `gorm:"column:is_default;not null;default:false" json:"is_default"`
}

func (Address) TableName() string { return "user_addresses" }

// Session 用户会话，仅存于 Redis
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired 会话是否已过期
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
