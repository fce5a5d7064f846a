package handler

import (
	"errors"

	"lesson-server/internal/pkg/response"
	"lesson-server/internal/service"

	"github.com/gin-gonic/gin"
)

// fail 把领域错误映射为 HTTP 响应
func fail(c *gin.Context, err error) {
	var unknown *service.UnknownUsernamesError
	switch {
	case errors.Is(err, service.ErrArgs),
		errors.Is(err, service.ErrUsernameOrPwd),
		errors.Is(err, service.ErrMemberNotExists),
		errors.Is(err, service.ErrAlreadyTeacher),
		errors.Is(err, service.ErrOrganizationExists):
		response.BadRequest(c, err.Error())
	case errors.As(err, &unknown):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrAuth),
		errors.Is(err, service.ErrNotEntitled):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrOrganizationNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrUserNotInOrg),
		errors.Is(err, service.ErrPackageNotFound),
		errors.Is(err, service.ErrLessonNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrDB):
		response.ServerError(c, err.Error())
	default:
		response.ServerError(c, "服务器内部错误")
	}
}
