package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrkit/employee-api/internal/auth"
)

func TestTokenGenerateAndVerify(t *testing.T) {
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating token service: %v", err)
	}

	signed, expiresAt, err := tokens.Generate("user-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected signed token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	if _, err := auth.NewTokenService("  ", time.Hour); !errors.Is(err, auth.ErrSecretRequired) {
		t.Fatalf("expected secret-required error, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// tokens signed with a different secret must fail too
	other, err := auth.NewTokenService("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	foreign, _, err := other.Generate("user-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := tokens.Verify(foreign); err == nil {
		t.Fatalf("expected verification failure for foreign token")
	}

	if _, err := tokens.Verify("not-a-token"); err == nil {
		t.Fatalf("expected verification failure for garbage")
	}
}

func TestRequireAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	router := gin.New()
	router.GET("/protected", auth.RequireAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(auth.ContextUserID)})
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	signed, _, err := tokens.Generate("user-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}
