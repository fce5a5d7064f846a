package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 平台用户
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"type:varchar(48);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Cellphone string    `gorm:"type:varchar(24);index" json:"cellphone,omitempty"`
	Email     string    `gorm:"type:varchar(100);index" json:"email,omitempty"`
	Realname  string    `gorm:"type:varchar(48)" json:"realname,omitempty"`
	RoleID    int64     `gorm:"default:0" json:"roleId"` // 平台角色，>= 10 为平台管理员
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRoleAdmin 平台管理员角色阈值
const UserRoleAdmin int64 = 10

func (User) TableName() string {
	return "users"
}

// SetPassword 设置密码（加密）
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsPlatformAdmin 是否是平台管理员
func (u *User) IsPlatformAdmin() bool {
	return u.RoleID >= UserRoleAdmin
}
