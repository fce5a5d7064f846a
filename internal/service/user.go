package service

import (
	"errors"

	"lesson-server/internal/config"
	"lesson-server/internal/model"
	"lesson-server/internal/pkg/crypto"

	"gorm.io/gorm"
)

// UserLookup 多字段用户查询条件，设置的字段之间取或
type UserLookup struct {
	UserID    int64
	Username  string
	Cellphone string
	Email     string
}

// FindUser 按多字段或条件查找用户，一个条件都没有给时返回 ErrArgs
func FindUser(q UserLookup) (*model.User, error) {
	db := model.DB
	var conds []string
	var args []interface{}

	if q.UserID != 0 {
		conds = append(conds, "id = ?")
		args = append(args, q.UserID)
	}
	if q.Username != "" {
		conds = append(conds, "username = ?")
		args = append(args, q.Username)
	}
	if q.Cellphone != "" {
		conds = append(conds, "cellphone = ?")
		args = append(args, q.Cellphone)
	}
	if q.Email != "" {
		conds = append(conds, "email = ?")
		args = append(args, q.Email)
	}
	if len(conds) == 0 {
		return nil, ErrArgs
	}

	query := db.Where(conds[0], args[0])
	for i := 1; i < len(conds); i++ {
		query = query.Or(conds[i], args[i])
	}

	var user model.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByAccount 登录账号可以是用户名、手机号或邮箱
func FindUserByAccount(account string) (*model.User, error) {
	return FindUser(UserLookup{Username: account, Cellphone: account, Email: account})
}

// GetUserByID 按主键查找用户
func GetUserByID(userID int64) (*model.User, error) {
	var user model.User
	if err := model.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// IssueToken 签发机构会话 token 并登记到白名单。
// clear 为 true 时清空该用户已有的全部 token。
func IssueToken(userID int64, username string, organizationID int64, roleID model.ClassMemberRole, clear bool) (string, error) {
	cfg := config.Get()
	token, err := crypto.GenerateToken(userID, username, organizationID, int64(roleID), cfg.JWT.Secret, cfg.JWT.ExpireSeconds)
	if err != nil {
		return "", err
	}

	GetTokenStore().SetToken(userID, token, clear)
	return token, nil
}
