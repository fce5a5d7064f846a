package service

import (
	"errors"
	"fmt"
	"strings"
)

// 领域错误，由 handler 层映射为 HTTP 状态码
var (
	ErrArgs                 = errors.New("参数错误")
	ErrMemberNotExists      = errors.New("用户不在该机构中")
	ErrOrganizationNotFound = errors.New("机构不存在")
	ErrOrganizationExists   = errors.New("机构名称或登录地址已存在")
	ErrUserNotInOrg         = errors.New("用户不在机构中")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrPackageNotFound      = errors.New("课程包不存在")
	ErrLessonNotFound       = errors.New("课程不存在")
	ErrNotEntitled          = errors.New("无权查看该课程包")
	ErrAuth                 = errors.New("权限不足")
	ErrUsernameOrPwd        = errors.New("用户名或密码错误")
	ErrAlreadyTeacher       = errors.New("该用户已经是机构教师")
	ErrDB                   = errors.New("数据库操作失败")
)

// UnknownUsernamesError 管理员名单中存在无法识别的用户名，整个子操作回滚
type UnknownUsernamesError struct {
	Usernames []string
}

func (e *UnknownUsernamesError) Error() string {
	return fmt.Sprintf("用户名不存在: %s", strings.Join(e.Usernames, ", "))
}
