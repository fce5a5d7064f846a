package model

import (
	"time"
)

// LessonOrganization 机构
type LessonOrganization struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	LoginURL  string         `gorm:"type:varchar(128);uniqueIndex" json:"loginUrl"`
	Logo      string         `gorm:"type:varchar(500)" json:"logo"`
	EndDate   time.Time      `json:"endDate"`
	Count     int            `gorm:"default:0" json:"count"` // 机构人数上限
	Extra     map[string]any `gorm:"serializer:json" json:"extra,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (LessonOrganization) TableName() string {
	return "lesson_organizations"
}

// IsExpired 机构是否已到期
func (o *LessonOrganization) IsExpired(now time.Time) bool {
	return !o.EndDate.IsZero() && now.After(o.EndDate)
}

// LessonOrganizationClass 机构班级，成员身份仅在班级结束前有效
type LessonOrganizationClass struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID int64     `gorm:"index;not null" json:"organizationId"`
	Name           string    `gorm:"type:varchar(64);not null" json:"name"`
	Begin          time.Time `json:"begin"`
	End            time.Time `json:"end"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (LessonOrganizationClass) TableName() string {
	return "lesson_organization_classes"
}

// IsOpen 班级是否仍在进行中
func (c *LessonOrganizationClass) IsOpen(now time.Time) bool {
	return c.End.After(now)
}
