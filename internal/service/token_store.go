package service

import (
	"sync"

	"lesson-server/internal/config"
)

const defaultTokenLimit = 20

// TokenStore 会话 token 白名单。
// 每个用户保留一个有序 token 列表，新 token 插在最前，
// 超过上限时淘汰最旧的一个；所有读写都在锁内完成。
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[int64][]string
	limit  int
}

var (
	defaultTokenStore *TokenStore
	tokenStoreOnce    sync.Once
)

// GetTokenStore 获取 token 白名单单例
func GetTokenStore() *TokenStore {
	tokenStoreOnce.Do(func() {
		limit := 0
		if cfg := config.Get(); cfg != nil {
			limit = cfg.JWT.TokenLimit
		}
		defaultTokenStore = NewTokenStore(limit)
	})
	return defaultTokenStore
}

// NewTokenStore 创建 token 白名单
func NewTokenStore(limit int) *TokenStore {
	if limit <= 0 {
		limit = defaultTokenLimit
	}
	return &TokenStore{
		tokens: make(map[int64][]string),
		limit:  limit,
	}
}

// SetToken 记录一个新 token。
// clear 为 true 时先清空该用户的全部旧 token（强制重新登录其它会话）。
func (s *TokenStore) SetToken(userID int64, token string, clear bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.tokens[userID]
	if clear {
		list = nil
	}

	list = append([]string{token}, list...)
	if len(list) > s.limit {
		list = list[:s.limit]
	}
	s.tokens[userID] = list
}

// ValidateToken token 是否仍在白名单中
func (s *TokenStore) ValidateToken(userID int64, token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tokens[userID] {
		if t == token {
			return true
		}
	}
	return false
}

// ClearTokens 清空该用户的全部 token
func (s *TokenStore) ClearTokens(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, userID)
}

// TokenCount 该用户当前持有的 token 数量
func (s *TokenStore) TokenCount(userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens[userID])
}
