package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecycle-cms/config"
	"lifecycle-cms/models"
	"lifecycle-cms/policy"
)

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWTSecret)
	require.NoError(t, err)
	return signed
}

func authedActor(t *testing.T, token string) (models.Actor, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var actor models.Actor
	router := gin.New()
	router.Use(AuthMiddleware())
	router.GET("/whoami", func(c *gin.Context) {
		actor, _ = ActorFromContext(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return actor, w.Code
}

func TestAuthMiddlewareAdminFlagComesFromClaim(t *testing.T) {
	// The is_admin claim is authoritative; the role string does not grant it.
	token := signToken(t, &Claims{
		UserID:  1,
		Role:    string(models.RoleWriter),
		Plan:    policy.PlanPro,
		IsAdmin: true,
	})
	actor, code := authedActor(t, token)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, actor.IsAdmin)

	token = signToken(t, &Claims{
		UserID: 2,
		Role:   string(models.RoleAdmin),
		Plan:   policy.PlanFree,
	})
	actor, code = authedActor(t, token)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, actor.IsAdmin)
}

func TestAuthMiddlewareUnknownPlanFallsBackToFree(t *testing.T) {
	token := signToken(t, &Claims{UserID: 3, Plan: policy.Plan("platinum")})
	actor, code := authedActor(t, token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, policy.PlanFree, actor.Plan)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	_, code := authedActor(t, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}
