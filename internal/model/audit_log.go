package model

import (
	"time"
)

// AuditLog 审计日志，记录机构管理端的写操作
type AuditLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID int64     `gorm:"index" json:"organizationId"`
	UserID         int64     `gorm:"index" json:"userId"`
	Username       string    `gorm:"type:varchar(48)" json:"username"`
	Action         string    `gorm:"type:varchar(20)" json:"action"`
	Path           string    `gorm:"type:varchar(255)" json:"path"`
	RequestBody    string    `gorm:"type:text" json:"requestBody"`
	ResponseCode   int       `json:"responseCode"`
	Duration       int64     `json:"duration"` // 毫秒
	IPAddress      string    `gorm:"type:varchar(45)" json:"ipAddress"`
	UserAgent      string    `gorm:"type:varchar(500)" json:"userAgent"`
	CreatedAt      time.Time `json:"createdAt"`
}

// 审计操作类型
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
)

func (AuditLog) TableName() string {
	return "audit_logs"
}
