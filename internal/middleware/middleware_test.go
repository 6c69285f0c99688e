package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harentsoaR/pharmaca-api/internal/access"
	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"github.com/harentsoaR/pharmaca-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type roleTable struct {
	roles map[string]models.Role
	calls int
	err   error
}

func (r *roleTable) Role(_ context.Context, email string) (models.Role, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	role, ok := r.roles[email]
	if !ok {
		return "", store.ErrNotFound
	}
	return role, nil
}

func newEngine(tokens *utils.TokenIssuer, gate *Gate) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	authed := r.Group("/", AuthMiddleware(tokens))
	authed.GET("/users", gate.Require(access.ListUsers, nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": Email(c)})
	})
	authed.GET("/payments/:email", gate.Require(access.ReadOwnPayment, OwnerParam("email")), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	roles := &roleTable{roles: map[string]models.Role{"admin@x.com": models.RoleAdmin}}
	r := newEngine(tokens, NewGate(access.DefaultPolicy(), roles))

	w := do(r, "/users", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"No token provided"}`, w.Body.String())

	w = do(r, "/users", "garbage")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Failed to authenticate token"}`, w.Body.String())

	forged, err := utils.NewTokenIssuer("other", time.Hour).Generate("admin@x.com")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(r, "/users", forged).Code)

	assert.Zero(t, roles.calls)
}

func TestGate_RoleAndOwnership(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	roles := &roleTable{roles: map[string]models.Role{
		"admin@x.com": models.RoleAdmin,
		"buyer@x.com": models.RoleCustomer,
	}}
	r := newEngine(tokens, NewGate(access.DefaultPolicy(), roles))

	admin, _ := tokens.Generate("admin@x.com")
	buyer, _ := tokens.Generate("buyer@x.com")
	stranger, _ := tokens.Generate("nobody@x.com")

	w := do(r, "/users", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"admin@x.com"}`, w.Body.String())

	w = do(r, "/users", buyer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"forbidden access"}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, do(r, "/users", stranger).Code)

	calls := roles.calls
	assert.Equal(t, http.StatusOK, do(r, "/payments/buyer@x.com", buyer).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/payments/admin@x.com", buyer).Code)
	assert.Equal(t, calls, roles.calls, "ownership-only checks never read the role")
}

func TestGate_RoleLookupFailure(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	r := newEngine(tokens, NewGate(access.DefaultPolicy(), &roleTable{err: errors.New("db down")}))

	admin, _ := tokens.Generate("admin@x.com")
	w := do(r, "/users", admin)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, w.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := do(r, "/", "")
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	require.NoError(t, err)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Body.String())
}
