package handler

import (
	"strconv"

	"lesson-server/internal/middleware"
	"lesson-server/internal/model"
	"lesson-server/internal/pkg/response"
	"lesson-server/internal/service"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct{}

func NewOrganizationHandler() *OrganizationHandler {
	return &OrganizationHandler{}
}

// Index 获取当前用户所在的全部机构
func (h *OrganizationHandler) Index(c *gin.Context) {
	list, err := service.GetUserOrganizations(middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// Show 机构详情
func (h *OrganizationHandler) Show(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: id")
		return
	}

	organ, err := service.GetOrganization(id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, organ)
}

// GetByURL 按登录地址查找机构
func (h *OrganizationHandler) GetByURL(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		response.BadRequest(c, "参数错误: url")
		return
	}

	organ, err := service.GetOrganizationByURL(url)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, organ)
}

// GetByName 按名称查找机构
func (h *OrganizationHandler) GetByName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.BadRequest(c, "参数错误: name")
		return
	}

	organ, err := service.GetOrganizationByName(name)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, organ)
}

// Create 创建机构（平台管理员）
func (h *OrganizationHandler) Create(c *gin.Context) {
	var params service.CreateOrganizationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	organ, err := service.CreateOrganization(params)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, organ)
}

// Update 更新机构。
// 需要机构管理员角色或平台管理员；
// packages / endDate / usernames 三个子操作按给定内容依次执行。
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: id")
		return
	}

	var params service.UpdateOrganizationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if !middleware.GetRoleID(c).MeetsOrExceeds(model.RoleAdmin) {
		// 机构角色不够时还允许平台管理员操作
		user, err := service.GetUserByID(middleware.GetUserID(c))
		if err != nil || !user.IsPlatformAdmin() {
			fail(c, service.ErrAuth)
			return
		}
	}

	if err := service.UpdateOrganization(id, params); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "OK", nil)
}

// Packages 当前会话可见的课程包列表
func (h *OrganizationHandler) Packages(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := middleware.GetOrganizationID(c)

	classID, _ := strconv.ParseInt(c.DefaultQuery("classId", "0"), 10, 64)
	roleID := middleware.GetRoleID(c)
	if v := c.Query("roleId"); v != "" {
		r, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "参数错误: roleId")
			return
		}
		roleID = model.ClassMemberRole(r)
	}
	if roleID == 0 {
		roleID = model.RoleFull
	}

	list, err := service.ListEntitledPackages(organizationID, classID, userID, roleID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// GetPackages 机构级课程包集合
func (h *OrganizationHandler) GetPackages(c *gin.Context) {
	organizationID, err := strconv.ParseInt(c.Query("organizationId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: organizationId")
		return
	}

	list, err := service.GetOrgPackages(organizationID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// PackageDetail 课程包详情页
func (h *OrganizationHandler) PackageDetail(c *gin.Context) {
	userID := middleware.GetUserID(c)
	organizationID := middleware.GetOrganizationID(c)

	packageID, err := strconv.ParseInt(c.Query("packageId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: packageId")
		return
	}
	classID, _ := strconv.ParseInt(c.DefaultQuery("classId", "0"), 10, 64)

	roleID := middleware.GetRoleID(c)
	if v := c.Query("roleId"); v != "" {
		r, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "参数错误: roleId")
			return
		}
		roleID = model.ClassMemberRole(r)
	}
	if roleID == 0 {
		roleID = model.RoleStudent
	}

	detail, err := service.GetPackageDetail(packageID, classID, roleID, userID, organizationID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}

// CheckUserInvalid 校验用户名是否可加入教师列表：
// 用户不存在或已经是机构教师时返回错误。
func (h *OrganizationHandler) CheckUserInvalid(c *gin.Context) {
	username := c.Query("username")
	organizationID, err := strconv.ParseInt(c.Query("organizationId"), 10, 64)
	if username == "" || err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := service.CheckUserInvalid(username, organizationID); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "OK", nil)
}

// GetRealNameInOrg 获取当前用户在机构中的姓名，一个人在一个机构中的姓名是相同的
func (h *OrganizationHandler) GetRealNameInOrg(c *gin.Context) {
	realname, err := service.GetRealNameInOrg(middleware.GetUserID(c), middleware.GetOrganizationID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, realname)
}

// GetMemberCountByRole 获取机构各角色的人数
func (h *OrganizationHandler) GetMemberCountByRole(c *gin.Context) {
	organizationID, err := strconv.ParseInt(c.Query("organizationId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: organizationId")
		return
	}

	list, err := service.GetMemberCountByRole(organizationID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}
