package service

import (
	"errors"
	"time"

	"lesson-server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrganization 按 id 查找机构
func GetOrganization(id int64) (*model.LessonOrganization, error) {
	var organ model.LessonOrganization
	if err := model.DB.First(&organ, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &organ, nil
}

// GetOrganizationByName 按名称查找机构
func GetOrganizationByName(name string) (*model.LessonOrganization, error) {
	var organ model.LessonOrganization
	if err := model.DB.First(&organ, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &organ, nil
}

// GetOrganizationByURL 按登录地址查找机构
func GetOrganizationByURL(loginURL string) (*model.LessonOrganization, error) {
	var organ model.LessonOrganization
	if err := model.DB.First(&organ, "login_url = ?", loginURL).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &organ, nil
}

// GetMembers 获取用户在机构中的全部成员记录（带班级信息）
func GetMembers(organizationID, memberID int64) ([]model.LessonOrganizationClassMember, error) {
	var members []model.LessonOrganizationClassMember
	err := model.DB.Preload("Class").
		Where("organization_id = ? AND member_id = ?", organizationID, memberID).
		Find(&members).Error
	return members, err
}

// FilterActiveMembers 过滤出当前有效的成员记录：
// classId = 0 的机构级身份始终有效；
// 挂在班级下的身份只在班级结束前有效，班级缺失或已结束的记录被丢弃。
func FilterActiveMembers(members []model.LessonOrganizationClassMember, now time.Time) []model.LessonOrganizationClassMember {
	active := make([]model.LessonOrganizationClassMember, 0, len(members))
	for _, m := range members {
		if m.ClassID == 0 {
			active = append(active, m)
			continue
		}
		if m.Class != nil && m.Class.IsOpen(now) {
			active = append(active, m)
		}
	}
	return active
}

// GetActiveMembers 获取用户在机构中当前有效的成员记录
func GetActiveMembers(organizationID, memberID int64, now time.Time) ([]model.LessonOrganizationClassMember, error) {
	members, err := GetMembers(organizationID, memberID)
	if err != nil {
		return nil, err
	}
	return FilterActiveMembers(members, now), nil
}

// MergeRole 把用户在机构中的多个角色合并成一个会话角色。
// 取所有记录中的最高角色，与记录顺序无关；空集合返回 ErrMemberNotExists。
func MergeRole(members []model.LessonOrganizationClassMember) (model.ClassMemberRole, error) {
	if len(members) == 0 {
		return 0, ErrMemberNotExists
	}
	return model.MaxRole(members), nil
}

// MergeRoleAndIssueToken 合并角色并签发会话 token
func MergeRoleAndIssueToken(members []model.LessonOrganizationClassMember, userID int64, username string, organizationID int64, clear bool) (string, model.ClassMemberRole, error) {
	roleID, err := MergeRole(members)
	if err != nil {
		return "", 0, err
	}

	token, err := IssueToken(userID, username, organizationID, roleID, clear)
	if err != nil {
		return "", 0, err
	}
	return token, roleID, nil
}

// OrgPackageEntry 机构课程包配置项
type OrgPackageEntry struct {
	PackageID int64                 `json:"packageId" binding:"required"`
	MinRole   model.ClassMemberRole `json:"minRole"`
}

// CreateOrganizationParams 创建机构参数
type CreateOrganizationParams struct {
	Name      string            `json:"name" binding:"required"`
	LoginURL  string            `json:"loginUrl"`
	Logo      string            `json:"logo"`
	EndDate   time.Time         `json:"endDate"`
	Count     int               `json:"count"`
	Packages  []OrgPackageEntry `json:"packages"`
	Usernames []string          `json:"usernames"`
}

// CreateOrganization 创建机构，可同时配置机构课程包和管理员名单
func CreateOrganization(params CreateOrganizationParams) (*model.LessonOrganization, error) {
	if params.LoginURL == "" {
		params.LoginURL = uuid.New().String()[:8]
	}

	// 名称和登录地址全局唯一
	var existing model.LessonOrganization
	if err := model.DB.Where("name = ? OR login_url = ?", params.Name, params.LoginURL).
		First(&existing).Error; err == nil {
		return nil, ErrOrganizationExists
	}

	organ := model.LessonOrganization{
		Name:     params.Name,
		LoginURL: params.LoginURL,
		Logo:     params.Logo,
		EndDate:  params.EndDate,
		Count:    params.Count,
	}
	if err := model.DB.Create(&organ).Error; err != nil {
		return nil, err
	}

	if params.Packages != nil {
		if err := ReplaceOrgPackages(organ.ID, params.Packages); err != nil {
			return nil, err
		}
	}
	if params.Usernames != nil {
		if err := ReplaceOrgAdmins(organ.ID, params.Usernames); err != nil {
			return nil, err
		}
	}
	return &organ, nil
}

// UpdateOrganizationParams 机构更新参数，子操作均为可选
type UpdateOrganizationParams struct {
	Name      string            `json:"name"`
	LoginURL  string            `json:"loginUrl"`
	Logo      string            `json:"logo"`
	EndDate   *time.Time        `json:"endDate"`
	Count     *int              `json:"count"`
	Packages  []OrgPackageEntry `json:"packages"`
	Usernames []string          `json:"usernames"`
}

// UpdateOrganization 更新机构。
// 基本字段直接更新；packages、endDate、usernames 三个子操作相互独立，
// 各自在一个事务内完成，一个失败不影响已完成的子操作。
func UpdateOrganization(id int64, params UpdateOrganizationParams) error {
	organ, err := GetOrganization(id)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if params.Name != "" {
		updates["name"] = params.Name
	}
	if params.LoginURL != "" {
		updates["login_url"] = params.LoginURL
	}
	if params.Logo != "" {
		updates["logo"] = params.Logo
	}
	if params.EndDate != nil {
		updates["end_date"] = *params.EndDate
	}
	if params.Count != nil {
		updates["count"] = *params.Count
	}
	if len(updates) > 0 {
		if err := model.DB.Model(organ).Updates(updates).Error; err != nil {
			return err
		}
	}

	if params.Packages != nil {
		if err := ReplaceOrgPackages(id, params.Packages); err != nil {
			return err
		}
	}

	if params.EndDate != nil {
		if err := ClampClassEndDates(id, *params.EndDate); err != nil {
			return err
		}
	}

	if params.Usernames != nil {
		if err := ReplaceOrgAdmins(id, params.Usernames); err != nil {
			return err
		}
	}

	return nil
}

// ReplaceOrgPackages 替换机构级课程包集合。
// 先删除全部机构级（classId=0）关联，再按新列表重建，
// 最后清理不在新集合里的班级课程包，保持班级配置和机构集合一致。
// 三步在同一事务内，顺序不能变。
func ReplaceOrgPackages(organizationID int64, entries []OrgPackageEntry) error {
	tx := model.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("organization_id = ? AND class_id = 0", organizationID).
		Delete(&model.LessonOrganizationPackage{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	packageIDs := make([]int64, 0, len(entries))
	rows := make([]model.LessonOrganizationPackage, 0, len(entries))
	for _, e := range entries {
		packageIDs = append(packageIDs, e.PackageID)
		rows = append(rows, model.LessonOrganizationPackage{
			OrganizationID: organizationID,
			ClassID:        0,
			PackageID:      e.PackageID,
			MinRole:        e.MinRole,
		})
	}
	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	// 清理依赖机构集合的班级课程包
	fix := tx.Where("organization_id = ? AND class_id <> 0", organizationID)
	if len(packageIDs) > 0 {
		fix = fix.Where("package_id NOT IN ?", packageIDs)
	}
	if err := fix.Delete(&model.LessonOrganizationPackage{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// ClampClassEndDates 把结束时间晚于机构新结束时间的班级压到新结束时间。
// 已提前结束的班级不受影响，也绝不把班级延长到机构结束时间之后。
func ClampClassEndDates(organizationID int64, endDate time.Time) error {
	return model.DB.Model(&model.LessonOrganizationClass{}).
		Where("organization_id = ? AND `end` > ?", organizationID, endDate).
		Update("end", endDate).Error
}

// ReplaceOrgAdmins 替换机构管理员名单。
// 先解析全部用户名，任何一个不存在就整体失败并报出被拒绝的名单；
// 然后在一个事务内删除原有的机构级成员记录并重建管理员记录。
func ReplaceOrgAdmins(organizationID int64, usernames []string) error {
	users := make([]model.User, 0, len(usernames))
	var unknown []string
	for _, name := range usernames {
		var user model.User
		if err := model.DB.First(&user, "username = ?", name).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				unknown = append(unknown, name)
				continue
			}
			return err
		}
		users = append(users, user)
	}
	if len(unknown) > 0 {
		return &UnknownUsernamesError{Usernames: unknown}
	}

	tx := model.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("organization_id = ? AND class_id = 0", organizationID).
		Delete(&model.LessonOrganizationClassMember{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	for _, user := range users {
		member := model.LessonOrganizationClassMember{
			OrganizationID: organizationID,
			MemberID:       user.ID,
			ClassID:        0,
			RoleID:         model.RoleAdmin,
			Realname:       realnameInOrg(tx, organizationID, &user),
		}
		if err := tx.Create(&member).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// realnameInOrg 一个人在一个机构中的姓名是相同的：
// 已有成员记录时沿用原姓名，否则取用户资料里的姓名。
func realnameInOrg(tx *gorm.DB, organizationID int64, user *model.User) string {
	var existing model.LessonOrganizationClassMember
	if err := tx.Where("organization_id = ? AND member_id = ?", organizationID, user.ID).
		First(&existing).Error; err == nil && existing.Realname != "" {
		return existing.Realname
	}
	if user.Realname != "" {
		return user.Realname
	}
	return user.Username
}

// GetUserOrganizations 获取用户所在的全部机构
func GetUserOrganizations(userID int64) ([]model.LessonOrganization, error) {
	sub := model.DB.Model(&model.LessonOrganizationClassMember{}).
		Select("organization_id").
		Where("member_id = ?", userID)

	var organs []model.LessonOrganization
	err := model.DB.Where("id IN (?)", sub).Find(&organs).Error
	return organs, err
}

// GetOrgPackages 获取机构级（classId=0）课程包集合
func GetOrgPackages(organizationID int64) ([]model.LessonOrganizationPackage, error) {
	var rows []model.LessonOrganizationPackage
	err := model.DB.Preload("Package").
		Where("organization_id = ? AND class_id = 0", organizationID).
		Find(&rows).Error
	return rows, err
}

// CheckUserInvalid 校验用户名是否可以加入教师列表：
// 用户必须存在且不能已经是该机构的教师。
func CheckUserInvalid(username string, organizationID int64) error {
	user, err := FindUser(UserLookup{Username: username})
	if err != nil {
		return err
	}

	var count int64
	if err := model.DB.Model(&model.LessonOrganizationClassMember{}).
		Where("organization_id = ? AND member_id = ? AND role_id >= ?",
			organizationID, user.ID, model.RoleTeacher).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyTeacher
	}
	return nil
}

// GetRealNameInOrg 获取用户在机构中的姓名
func GetRealNameInOrg(userID, organizationID int64) (string, error) {
	var member model.LessonOrganizationClassMember
	if err := model.DB.Where("organization_id = ? AND member_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotInOrg
		}
		return "", err
	}
	return member.Realname, nil
}

// RoleCount 机构内某个角色的人数
type RoleCount struct {
	RoleID model.ClassMemberRole `json:"roleId"`
	Count  int64                 `json:"count"`
}

// GetMemberCountByRole 统计机构各角色的人数（同一用户多条记录只计一次）
func GetMemberCountByRole(organizationID int64) ([]RoleCount, error) {
	var list []RoleCount
	err := model.DB.Raw(`SELECT role_id, COUNT(DISTINCT member_id) AS count
		FROM lesson_organization_class_members
		WHERE organization_id = ?
		GROUP BY role_id`, organizationID).Scan(&list).Error
	return list, err
}
