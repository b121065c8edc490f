package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"logi-events/internal/model"
	apperrors "logi-events/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_IssueAndAuthenticate(t *testing.T) {
	g := NewGuard("secret", time.Hour)
	userID := uuid.New()

	token, err := g.Issue(userID, model.RoleAdmin)
	require.NoError(t, err)

	identity, err := g.Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, model.RoleAdmin, identity.Role)
}

func TestGuard_Authenticate_Rejects(t *testing.T) {
	g := NewGuard("secret", time.Hour)
	valid, err := g.Issue(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	other, err := NewGuard("other-secret", time.Hour).Issue(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	expiredGuard := NewGuard("secret", time.Hour)
	expiredGuard.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredGuard.Issue(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: uuid.NewString(),
		Role:   model.RoleGod,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", valid},
		{"wrong secret", "Bearer " + other},
		{"expired", "Bearer " + expired},
		{"alg none", "Bearer " + noneToken},
		{"garbage", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Authenticate(tt.header)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := NewGuard("secret", time.Hour)

	router := gin.New()
	router.GET("/admin", g.RequireAuth(), RequireRole(model.RoleAdmin, model.RoleGod), func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, identity.UserID.String())
	})

	userToken, _ := g.Issue(uuid.New(), model.RoleUser)
	godID := uuid.New()
	godToken, _ := g.Issue(godID, model.RoleGod)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"user role", "Bearer " + userToken, http.StatusForbidden},
		{"god role", "Bearer " + godToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("identity is exposed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+godToken)
		router.ServeHTTP(w, req)
		assert.Equal(t, godID.String(), w.Body.String())
	})
}
