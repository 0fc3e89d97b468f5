package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/craftwood/sofa-erp/internal/config"
	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled       = errors.New("账号已停用")
	ErrInvalidToken       = errors.New("无效的令牌")
)

// AuthService 登录认证
// 刷新令牌的 jti 存在 Redis，登出即删除，access token 到期自然失效
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      config.JWTConfig
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg config.JWTConfig, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg, logger: logger}
}

const refreshKeyPrefix = "token:refresh:"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login 密码登录，返回令牌对
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*entity.User, *TokenPair, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, nil, ErrUserDisabled
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Warn("更新最后登录时间失败", zap.String("user_id", user.ID), zap.Error(err))
	}
	return user, pair, nil
}

// Refresh 用刷新令牌换新令牌对，旧 jti 作废
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	jti := claims.ID
	if jti == "" {
		return nil, ErrInvalidToken
	}

	stored, err := s.rdb.Get(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("校验刷新令牌失败: %w", err)
	}
	if stored != claims.UserID {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user.Status != "active" {
		return nil, ErrUserDisabled
	}

	if err := s.rdb.Del(ctx, refreshKeyPrefix+jti).Err(); err != nil {
		return nil, fmt.Errorf("作废旧刷新令牌失败: %w", err)
	}
	return s.issueTokens(ctx, user)
}

// Logout 删除刷新令牌 jti
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return ErrInvalidToken
	}
	return s.rdb.Del(ctx, refreshKeyPrefix+claims.ID).Err()
}

func (s *AuthService) GetUser(id string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("用户 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := middleware.JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpire)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("签发访问令牌失败: %w", err)
	}

	jti := uuid.New().String()
	refreshClaims := middleware.JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenExpire)),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("签发刷新令牌失败: %w", err)
	}

	if err := s.rdb.Set(ctx, refreshKeyPrefix+jti, user.ID, s.cfg.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("保存刷新令牌失败: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.AccessTokenExpire.Seconds()),
	}, nil
}

// EnsureAdminUser 首次启动时创建默认管理员
func (s *AuthService) EnsureAdminUser(username, password string) error {
	total, err := s.userRepo.Count()
	if err != nil {
		return fmt.Errorf("查询用户数失败: %w", err)
	}
	if total > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         "管理员",
		PasswordHash: string(hash),
		Role:         entity.UserRoleAdmin,
		Status:       "active",
	}
	if err := s.userRepo.Create(admin); err != nil {
		return fmt.Errorf("创建管理员失败: %w", err)
	}
	s.logger.Info("已创建默认管理员账号", zap.String("username", username))
	return nil
}
