package jwt

import (
	"errors"
	"testing"
	"time"

	"smart-schedule/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "admin", "CS")
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("期望 UserID=user-1，实际=%s", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("期望 Role=admin，实际=%s", claims.Role)
	}
	if claims.Department != "CS" {
		t.Errorf("期望 Department=CS，实际=%s", claims.Department)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际=%s", claims.TokenType)
	}
	if claims.Issuer != "smart-schedule" {
		t.Errorf("期望 Issuer=smart-schedule，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -time.Minute,
	})

	token, err := m.GenerateAccessToken("user-1", "admin", "")
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := newTestManager().GenerateAccessToken("user-1", "admin", "")

	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-0123456789",
		AccessTokenTTL: 15 * time.Minute,
	})
	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := newTestManager().ParseToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
