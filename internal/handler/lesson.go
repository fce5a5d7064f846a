package handler

import (
	"strconv"

	"lesson-server/internal/middleware"
	"lesson-server/internal/pkg/response"
	"lesson-server/internal/service"

	"github.com/gin-gonic/gin"
)

type LessonHandler struct{}

func NewLessonHandler() *LessonHandler {
	return &LessonHandler{}
}

// List 获取当前用户创建的课程
func (h *LessonHandler) List(c *gin.Context) {
	list, err := service.ListLessons(middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// Show 课程详情
func (h *LessonHandler) Show(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: id")
		return
	}

	lesson, err := service.GetLesson(id, 0)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, lesson)
}

// Create 创建课程，传了 skills 时同时创建技能评分
func (h *LessonHandler) Create(c *gin.Context) {
	var params service.LessonParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if params.LessonName == "" {
		response.BadRequest(c, "参数错误: lessonName")
		return
	}

	lesson, err := service.CreateLesson(middleware.GetUserID(c), params)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, lesson)
}

// Update 更新课程，传了 skills 时评分整体替换
func (h *LessonHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: id")
		return
	}

	var params service.LessonParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := service.UpdateLesson(id, middleware.GetUserID(c), params); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "OK", nil)
}

// Delete 删除课程，技能评分一并删除
func (h *LessonHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: id")
		return
	}

	if err := service.DestroyLesson(id, middleware.GetUserID(c)); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "OK", nil)
}

// Skills 获取课程的技能评分和技能名称
func (h *LessonHandler) Skills(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: id")
		return
	}

	list, err := service.GetSkillsWithName(id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// AddSkillRequest 增加技能评分请求
type AddSkillRequest struct {
	SkillID int64 `json:"skillId" binding:"required"`
	Score   int   `json:"score"`
}

// AddSkill 给课程增加一项技能评分
func (h *LessonHandler) AddSkill(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: id")
		return
	}

	var req AddSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := service.AddSkillScore(middleware.GetUserID(c), id, req.SkillID, req.Score); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "OK", nil)
}

// Packages 获取课程所属的课程包
func (h *LessonHandler) Packages(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "参数错误: id")
		return
	}

	list, err := service.GetPackagesByLessonID(id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}
