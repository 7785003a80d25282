package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/auth"
)

type fakeIdentityResolver struct{ user *models.User }

func (f *fakeIdentityResolver) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	if f.user == nil || f.user.ID != userID {
		return nil, apperrors.ErrUserNotFound
	}
	return f.user, nil
}

func newAuthTestRouter(t *testing.T, resolver *fakeIdentityResolver) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "unit-test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "scholarhub-test",
	})

	m := NewAuthMiddleware(jwtService, resolver)
	router := gin.New()
	router.GET("/whoami", m.JWTAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, string(GetUserRole(c)))
	})
	return router, jwtService
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestJWTAuthAccountChecks(t *testing.T) {
	tokenUser := &models.User{ID: 100, Email: "priya.sharma@example.com", RoleType: models.RoleStudent, IsActive: true}

	t.Run("active account passes with its current role", func(t *testing.T) {
		// The stored account was promoted after the token was issued; the
		// request must carry the account's role, not the token's.
		resolver := &fakeIdentityResolver{user: &models.User{
			ID: 100, Email: tokenUser.Email, RoleType: models.RoleReviewer, IsActive: true,
		}}
		router, jwtService := newAuthTestRouter(t, resolver)
		token, _, _, _, err := jwtService.GenerateTokenPair(tokenUser)
		if err != nil {
			t.Fatalf("GenerateTokenPair() error = %v", err)
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, bearerRequest(token))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
		}
		if rec.Body.String() != string(models.RoleReviewer) {
			t.Errorf("role = %q, want the account's current role %q", rec.Body.String(), models.RoleReviewer)
		}
	})

	t.Run("deactivated account is rejected despite a valid token", func(t *testing.T) {
		resolver := &fakeIdentityResolver{user: &models.User{
			ID: 100, Email: tokenUser.Email, RoleType: models.RoleStudent, IsActive: false,
		}}
		router, jwtService := newAuthTestRouter(t, resolver)
		token, _, _, _, err := jwtService.GenerateTokenPair(tokenUser)
		if err != nil {
			t.Fatalf("GenerateTokenPair() error = %v", err)
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, bearerRequest(token))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401 for a deactivated account", rec.Code)
		}
	})

	t.Run("erased account is rejected", func(t *testing.T) {
		resolver := &fakeIdentityResolver{}
		router, jwtService := newAuthTestRouter(t, resolver)
		token, _, _, _, err := jwtService.GenerateTokenPair(tokenUser)
		if err != nil {
			t.Fatalf("GenerateTokenPair() error = %v", err)
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, bearerRequest(token))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401 when the account no longer resolves", rec.Code)
		}
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		router, _ := newAuthTestRouter(t, &fakeIdentityResolver{})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401 without credentials", rec.Code)
		}
	})
}
