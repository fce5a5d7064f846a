package model

import (
	"time"
)

// ClassMemberRole 班级成员角色，数值越大权限越高
type ClassMemberRole int64

const (
	RoleStudent ClassMemberRole = 1  // 学生
	RoleTeacher ClassMemberRole = 2  // 教师
	RoleAdmin   ClassMemberRole = 64 // 机构管理员

	// RoleFull 查询参数默认值，表示不限角色
	RoleFull ClassMemberRole = RoleStudent | RoleTeacher | RoleAdmin
)

// MeetsOrExceeds 角色是否达到指定门槛
func (r ClassMemberRole) MeetsOrExceeds(threshold ClassMemberRole) bool {
	return r >= threshold
}

// Valid 是否是已定义的单一角色
func (r ClassMemberRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleAdmin
}

// MaxRole 取成员记录中的最高角色，与输入顺序无关
func MaxRole(members []LessonOrganizationClassMember) ClassMemberRole {
	var max ClassMemberRole
	for _, m := range members {
		if m.RoleID > max {
			max = m.RoleID
		}
	}
	return max
}

// LessonOrganizationClassMember 机构班级成员记录。
// classId = 0 表示机构级身份（不挂在任何班级下）；
// 一个用户在同一机构可以有多条记录，每个班级一条，各自带角色。
type LessonOrganizationClassMember struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID int64           `gorm:"index:idx_org_member;not null" json:"organizationId"`
	MemberID       int64           `gorm:"index:idx_org_member;not null" json:"memberId"`
	ClassID        int64           `gorm:"index;not null;default:0" json:"classId"`
	RoleID         ClassMemberRole `gorm:"not null;default:1" json:"roleId"`
	Realname       string          `gorm:"type:varchar(48)" json:"realname"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	// 关联
	Class *LessonOrganizationClass `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

func (LessonOrganizationClassMember) TableName() string {
	return "lesson_organization_class_members"
}
