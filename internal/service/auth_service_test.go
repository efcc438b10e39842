package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizshare/quizshare-backend/internal/config"
	"github.com/quizshare/quizshare-backend/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // min cost keeps tests fast
	}
}

func TestPasswordHashing(t *testing.T) {
	s := NewAuthService(testConfig())

	hash, err := s.HashPassword("pw123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("hash equals plaintext")
	}

	if err := s.CheckPassword(hash, "pw123"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}
	if err := s.CheckPassword(hash, "wrongpw"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenRoundtrip(t *testing.T) {
	s := NewAuthService(testConfig())
	user := &model.User{ID: uuid.New(), Username: "alice", Role: model.RoleTeacher}

	token, err := s.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != model.RoleTeacher {
		t.Fatalf("expected role teacher, got %s", claims.Role)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected expiry to be set")
	}
}

func TestTokensAreDistinctPerIssue(t *testing.T) {
	s := NewAuthService(testConfig())
	user := &model.User{ID: uuid.New(), Username: "alice", Role: model.RoleTeacher}

	t1, err := s.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	t2, err := s.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if t1 == t2 {
		t.Fatal("expected distinct tokens per issuance (unique jti)")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	cfg.JWTExpiry = -time.Minute
	s := NewAuthService(cfg)

	token, err := s.GenerateToken(&model.User{ID: uuid.New(), Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := s.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenSignatureChecked(t *testing.T) {
	issuer := NewAuthService(testConfig())
	token, err := issuer.GenerateToken(&model.User{ID: uuid.New(), Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	otherCfg := testConfig()
	otherCfg.JWTSecret = "different-secret"
	verifier := NewAuthService(otherCfg)

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	s := NewAuthService(testConfig())

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := s.ValidateToken(tok); err == nil {
			t.Fatalf("expected malformed token %q to be rejected", tok)
		}
	}
}
