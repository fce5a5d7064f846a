package model

import (
	"time"
)

// Package 课程包
type Package struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"index;not null" json:"userId"` // 创建者
	PackageName string    `gorm:"type:varchar(128);not null" json:"packageName"`
	Intro       string    `gorm:"type:varchar(255)" json:"intro"`
	CoverURL    string    `gorm:"type:varchar(500)" json:"coverUrl"`
	Amount      int       `gorm:"default:0" json:"amount"` // 价格（分）
	State       int       `gorm:"default:0" json:"state"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Package) TableName() string {
	return "packages"
}

// LessonOrganizationPackage 机构与课程包的关联。
// classId = 0 表示机构级课程包，否则只对该班级可见；
// minRole 为角色门槛，0 表示不限。
type LessonOrganizationPackage struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID int64           `gorm:"index:idx_org_class_pkg;not null" json:"organizationId"`
	ClassID        int64           `gorm:"index:idx_org_class_pkg;not null;default:0" json:"classId"`
	PackageID      int64           `gorm:"index:idx_org_class_pkg;not null" json:"packageId"`
	MinRole        ClassMemberRole `gorm:"default:0" json:"minRole"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	// 关联
	Package *Package                 `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	Class   *LessonOrganizationClass `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

func (LessonOrganizationPackage) TableName() string {
	return "lesson_organization_packages"
}

// PackageLesson 课程包与课程的关联
type PackageLesson struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PackageID int64     `gorm:"index;not null" json:"packageId"`
	LessonID  int64     `gorm:"index;not null" json:"lessonId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PackageLesson) TableName() string {
	return "package_lessons"
}
