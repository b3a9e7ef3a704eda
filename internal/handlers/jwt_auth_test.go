package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/62String/devicerent-sub000/internal/auth"
	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
)

// stubUserRepo serves a fixed user set for middleware tests.
type stubUserRepo struct {
	users map[string]*models.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetWithCredentials(ctx context.Context, id string) (*models.User, error) {
	return s.GetByID(ctx, id)
}

func (s *stubUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := s.users[id]
	return ok, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserRepo) Delete(ctx context.Context, id string) error         { return nil }

func (s *stubUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func newAuthTestRouter(t *testing.T) (*gin.Engine, *auth.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenIssuer("test-secret", "test", time.Hour, time.Hour)
	repo := &stubUserRepo{users: map[string]*models.User{
		"alice": {ID: "alice", Name: "Alice", Affiliation: "QA Team", RoleLevel: 5},
		"boss":  {ID: "boss", Name: "Boss", Affiliation: "HQ", RoleLevel: 1, IsAdmin: true},
	}}
	mw := NewJWTAuthMiddleware(tokens, repo)

	router := gin.New()
	router.GET("/protected", mw.AuthMiddleware(), func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})
	router.GET("/admin-only", mw.AuthMiddleware(), mw.RequireAdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, tokens
}

func doRequest(router *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	if w := doRequest(router, "/protected", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	if w := doRequest(router, "/protected", "not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareResolvesUser(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	token, err := tokens.Issue("alice", false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w := doRequest(router, "/protected", token)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsDeletedAccount(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	// A valid signature over an account that no longer exists.
	token, err := tokens.Issue("ghost", false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := doRequest(router, "/protected", token); w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRequireAdminMiddleware(t *testing.T) {
	router, tokens := newAuthTestRouter(t)

	userToken, err := tokens.Issue("alice", false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := doRequest(router, "/admin-only", userToken); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin: want 403, got %d", w.Code)
	}

	adminToken, err := tokens.Issue("boss", true)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := doRequest(router, "/admin-only", adminToken); w.Code != http.StatusOK {
		t.Fatalf("admin: want 200, got %d", w.Code)
	}
}
