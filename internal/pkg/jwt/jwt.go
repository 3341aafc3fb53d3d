package jwt

import (
	"time"

	"coupon-engine/internal/domain/auth"
	"coupon-engine/internal/pkg/config"
	"coupon-engine/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errs.New("invalid token")
	ErrExpiredToken = errs.New("token expired")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service verifies operator tokens. Signing exists for tooling and tests; the
// service itself never issues tokens.
type Service struct {
	secretKey []byte
	issuer    string
	parser    *jwt.Parser
}

func NewService(cfg config.JWTConfig) *Service {
	return &Service{
		secretKey: []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(cfg.Leeway),
		),
	}
}

func (s *Service) GenerateToken(subject string, role auth.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", errs.Wrap(err, "sign token")
	}
	return signed, nil
}

// ValidateToken collapses every failure into ErrExpiredToken or ErrInvalidToken;
// the underlying reason stays attached for logging.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errs.Is(err, jwt.ErrTokenExpired):
		return nil, errs.Mark(err, ErrExpiredToken)
	default:
		return nil, errs.Mark(err, ErrInvalidToken)
	}
}
