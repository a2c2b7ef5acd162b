package utils

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"jobcore-api/domain/models"
	"jobcore-api/pkg/errors"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingToken = errors.New("missing token")
)

// IdentityLocalsKey key ของ identity ใน fiber locals
const IdentityLocalsKey = "identity"

// claim ที่ใช้หา email เรียงตามลำดับความสำคัญ
var emailClaims = []string{"email", "preferred_username", "upn", "unique_name"}

// ParseIdentityToken verifies an HMAC-signed token and extracts the caller.
// roles may be a string or a list under "roles" or "role".
func ParseIdentityToken(tokenString, jwtSecret string) (*models.Identity, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	identity := &models.Identity{
		Subject: stringClaim(claims, "sub"),
		Roles:   listClaim(claims, "roles", "role"),
	}
	for _, key := range emailClaims {
		if v := stringClaim(claims, key); v != "" {
			identity.Email = v
			break
		}
	}
	if identity.Subject == "" {
		identity.Subject = identity.Email
	}
	if identity.Subject == "" {
		return nil, ErrInvalidToken
	}

	return identity, nil
}

// SignIdentityToken ออก token สำหรับ dev และ tests
func SignIdentityToken(identity *models.Identity, jwtSecret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   identity.Subject,
		"email": identity.Email,
		"roles": identity.Roles,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// listClaim values of the first key present
func listClaim(claims jwt.MapClaims, keys ...string) []string {
	var out []string
	for _, key := range keys {
		if _, ok := claims[key]; !ok {
			continue
		}
		switch v := claims[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
		}
		return out
	}
	return out
}

func ExtractTokenFromHeader(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// GetIdentityFromContext identity ที่ middleware.Authenticate ใส่ไว้
func GetIdentityFromContext(c *fiber.Ctx) (*models.Identity, error) {
	identity, ok := c.Locals(IdentityLocalsKey).(*models.Identity)
	if !ok || identity == nil {
		return nil, errors.Unauthorized("authentication required")
	}
	return identity, nil
}
