package service

import (
	"time"

	"lesson-server/internal/model"
)

// PackageView 课程包列表视图，在关联记录之上补充派生字段，不回写底层数据
type PackageView struct {
	model.LessonOrganizationPackage
	Joined        bool  `json:"joined"`        // 用户是否已在该课程包的作用域内
	RemainingDays int   `json:"remainingDays"` // 班级课程包剩余天数，机构级为 0
	Teachable     bool  `json:"teachable"`     // 当前角色是否可以授课
	LessonCount   int64 `json:"lessonCount"`
}

// PackageDetailView 课程包详情视图
type PackageDetailView struct {
	PackageView
	Lessons []model.Lesson `json:"lessons"`
}

// visibleEntrances 课程包可见性规则：
// 机构级（classId=0）课程包对机构内所有人可见；
// 班级课程包只在班级仍在进行中时可见；
// 配置了角色门槛的课程包要求当前角色达到门槛。
func visibleEntrances(rows []model.LessonOrganizationPackage, roleID model.ClassMemberRole, now time.Time) []model.LessonOrganizationPackage {
	visible := make([]model.LessonOrganizationPackage, 0, len(rows))
	for _, row := range rows {
		if row.ClassID != 0 && (row.Class == nil || !row.Class.IsOpen(now)) {
			continue
		}
		if row.MinRole != 0 && !roleID.MeetsOrExceeds(row.MinRole) {
			continue
		}
		visible = append(visible, row)
	}
	return visible
}

// FindAllEntrance 查找 (机构, 班级, 角色) 可见的课程包入口：
// 机构级课程包加上指定班级的课程包，再按可见性规则过滤。
func FindAllEntrance(organizationID, classID int64, roleID model.ClassMemberRole) ([]model.LessonOrganizationPackage, error) {
	var rows []model.LessonOrganizationPackage
	err := model.DB.Preload("Package").Preload("Class").
		Where("organization_id = ? AND class_id IN ?", organizationID, []int64{0, classID}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return visibleEntrances(rows, roleID, time.Now()), nil
}

// annotatePackages 为课程包列表补充派生字段。
// memberClassIDs 是用户在机构内的班级集合（含 0 表示有机构级身份），
// lessonCounts 是各课程包的课程数。
func annotatePackages(rows []model.LessonOrganizationPackage, roleID model.ClassMemberRole, memberClassIDs map[int64]bool, lessonCounts map[int64]int64, now time.Time) []PackageView {
	views := make([]PackageView, 0, len(rows))
	for _, row := range rows {
		view := PackageView{
			LessonOrganizationPackage: row,
			Teachable:                 roleID.MeetsOrExceeds(model.RoleTeacher),
			LessonCount:               lessonCounts[row.PackageID],
		}
		if row.ClassID == 0 {
			view.Joined = len(memberClassIDs) > 0
		} else {
			view.Joined = memberClassIDs[row.ClassID]
			if row.Class != nil {
				view.RemainingDays = int(row.Class.End.Sub(now).Hours() / 24)
			}
		}
		views = append(views, view)
	}
	return views
}

// DealWithPackageList 课程包列表后处理，补充调用方渲染需要的派生字段
func DealWithPackageList(rows []model.LessonOrganizationPackage, roleID model.ClassMemberRole, userID, organizationID int64) ([]PackageView, error) {
	memberClassIDs := map[int64]bool{}
	members, err := GetMembers(organizationID, userID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		memberClassIDs[m.ClassID] = true
	}

	lessonCounts := map[int64]int64{}
	packageIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		packageIDs = append(packageIDs, row.PackageID)
	}
	if len(packageIDs) > 0 {
		var counts []struct {
			PackageID int64
			Count     int64
		}
		err := model.DB.Model(&model.PackageLesson{}).
			Select("package_id, COUNT(*) AS count").
			Where("package_id IN ?", packageIDs).
			Group("package_id").
			Scan(&counts).Error
		if err != nil {
			return nil, err
		}
		for _, c := range counts {
			lessonCounts[c.PackageID] = c.Count
		}
	}

	return annotatePackages(rows, roleID, memberClassIDs, lessonCounts, time.Now()), nil
}

// ListEntitledPackages 获取 (机构, 班级, 用户, 角色) 可访问的课程包视图列表
func ListEntitledPackages(organizationID, classID, userID int64, roleID model.ClassMemberRole) ([]PackageView, error) {
	rows, err := FindAllEntrance(organizationID, classID, roleID)
	if err != nil {
		return nil, err
	}
	return DealWithPackageList(rows, roleID, userID, organizationID)
}

// GetPackageDetail 课程包详情，执行和列表一样的角色与班级可见性校验
func GetPackageDetail(packageID, classID int64, roleID model.ClassMemberRole, userID, organizationID int64) (*PackageDetailView, error) {
	var rows []model.LessonOrganizationPackage
	err := model.DB.Preload("Package").Preload("Class").
		Where("organization_id = ? AND package_id = ? AND class_id IN ?",
			organizationID, packageID, []int64{0, classID}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrPackageNotFound
	}

	visible := visibleEntrances(rows, roleID, time.Now())
	if len(visible) == 0 {
		return nil, ErrNotEntitled
	}

	views, err := DealWithPackageList(visible[:1], roleID, userID, organizationID)
	if err != nil {
		return nil, err
	}

	var lessons []model.Lesson
	err = model.DB.Joins("JOIN package_lessons ON package_lessons.lesson_id = lessons.id").
		Where("package_lessons.package_id = ?", packageID).
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}

	return &PackageDetailView{PackageView: views[0], Lessons: lessons}, nil
}
