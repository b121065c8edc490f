package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"logi-events/internal/model"
	apperrors "logi-events/pkg/app_errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity 已驗證的呼叫者
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

type Claims struct {
	UserID string     `json:"user_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Guard 簽發與驗證 HS256 token
type Guard struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewGuard(secret string, ttl time.Duration) *Guard {
	return &Guard{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (g *Guard) Issue(userID uuid.UUID, role model.Role) (string, error) {
	now := g.now()
	claims := Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Authenticate 解析 Authorization header
func (g *Guard) Authenticate(header string) (Identity, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return Identity{}, fmt.Errorf("%w: missing bearer token", apperrors.ErrUnauthorized)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("%w: token expired", apperrors.ErrUnauthorized)
		}
		return Identity{}, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: invalid subject", apperrors.ErrUnauthorized)
	}

	switch claims.Role {
	case model.RoleUser, model.RoleAdmin, model.RoleGod:
	default:
		return Identity{}, fmt.Errorf("%w: unknown role", apperrors.ErrUnauthorized)
	}

	return Identity{UserID: userID, Role: claims.Role}, nil
}
