package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryStore map[string]*models.Staff

func (m memoryStore) GetByUsername(_ context.Context, username string) (*models.Staff, error) {
	st, ok := m[username]
	if !ok {
		return nil, &models.NotFoundError{Resource: "staff", ID: username}
	}
	return st, nil
}

func (m memoryStore) Upsert(_ context.Context, username, hash string, role models.Role) error {
	m[username] = &models.Staff{ID: uuid.New(), Username: username, PasswordHash: hash, Role: role}
	return nil
}

func newTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := newTokens(t)
	staff := &models.Staff{ID: uuid.New(), Username: "alice", Role: models.RoleStaff}

	raw, expires, err := tokens.Issue(staff)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.Equal(t, staff.ID.String(), claims.Subject)
}

func TestTokensRejects(t *testing.T) {
	tokens := newTokens(t)
	staff := &models.Staff{ID: uuid.New(), Username: "alice", Role: models.RoleStaff}

	other, err := NewTokens("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue(staff)
	require.NoError(t, err)

	expired, err := NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.Issue(staff)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "mallory", Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage":        "not.a.token",
		"wrong secret":   foreign,
		"expired":        stale,
		"unsigned token": none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(raw)
			assert.ErrorIs(t, err, models.ErrUnauthorized)
		})
	}
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	store := memoryStore{}
	svc := NewService(store, newTokens(t), logger.Discard())
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "s3cret"))
	assert.NotEqual(t, "s3cret", store["admin"].PasswordHash)

	tests := []struct {
		name    string
		req     models.LoginRequest
		wantErr error
	}{
		{name: "valid", req: models.LoginRequest{Username: "admin", Password: "s3cret"}},
		{name: "padded username", req: models.LoginRequest{Username: "  admin ", Password: "s3cret"}},
		{name: "wrong password", req: models.LoginRequest{Username: "admin", Password: "nope"}, wantErr: models.ErrUnauthorized},
		{name: "unknown user", req: models.LoginRequest{Username: "ghost", Password: "s3cret"}, wantErr: models.ErrUnauthorized},
		{name: "missing password", req: models.LoginRequest{Username: "admin"}, wantErr: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &tt.req, "req")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, models.RoleAdmin, resp.Role)
		})
	}
}

func TestEnsureAdminSkipsEmptyPassword(t *testing.T) {
	store := memoryStore{}
	svc := NewService(store, newTokens(t), logger.Discard())
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", ""))
	assert.Empty(t, store)
}

func TestRequireMiddleware(t *testing.T) {
	tokens := newTokens(t)
	staffToken, _, err := tokens.Issue(&models.Staff{ID: uuid.New(), Username: "bob", Role: models.RoleStaff})
	require.NoError(t, err)

	r := gin.New()
	r.Use(web.RequestID())
	r.GET("/staff", RequireStaff(tokens, logger.Discard()), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UsernameKey))
	})
	r.GET("/admin", Require(tokens, logger.Discard(), models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "no header", path: "/staff", want: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/staff", header: "Basic " + staffToken, want: http.StatusUnauthorized},
		{name: "bad token", path: "/staff", header: "Bearer junk", want: http.StatusUnauthorized},
		{name: "staff allowed", path: "/staff", header: "Bearer " + staffToken, want: http.StatusOK},
		{name: "staff not admin", path: "/admin", header: "Bearer " + staffToken, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK && tt.path == "/staff" {
				assert.Equal(t, "bob", w.Body.String())
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	store := memoryStore{}
	svc := NewService(store, newTokens(t), logger.Discard())
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "s3cret"))

	r := gin.New()
	NewHandler(svc, logger.Discard()).RegisterRoutes(r.Group("/api/v1"))

	body, _ := json.Marshal(models.LoginRequest{Username: "admin", Password: "s3cret"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	body, _ = json.Marshal(models.LoginRequest{Username: "admin", Password: "wrong"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
