//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"coupon-engine/internal/domain/auth"
	"coupon-engine/internal/pkg/config"
	"coupon-engine/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, subject string, role auth.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg).GenerateToken(subject, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) OperatorToken(t *testing.T) string {
	t.Helper()
	return h.GenerateToken(t, "operator-e2e", auth.RoleOperator)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, subject string, role auth.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg).GenerateToken(subject, role, time.Millisecond)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

// SignedWithOtherSecret is well formed but fails verification.
func (h *JWTHelper) SignedWithOtherSecret(t *testing.T) string {
	t.Helper()
	other := h.cfg
	other.Secret = h.cfg.Secret + "-other"
	token, err := jwt.NewService(other).GenerateToken("intruder", auth.RoleOperator, time.Hour)
	require.NoError(t, err)
	return token
}
