package internal

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/DrGermanius/Bogocargo/internal/model"
)

const tokenTTL = 72 * time.Hour

type claims struct {
	ID   int        `json:"id"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewToken(secret string, p model.Principal, now time.Time) (string, error) {
	c := claims{
		ID:   p.ID,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry and resolves the caller. Tokens carrying an
// unknown role are refused.
func ParseToken(secret, tokenString string) (model.Principal, error) {
	c := claims{}
	_, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	role, ok := model.ParseRole(string(c.Role))
	if !ok || c.ID <= 0 {
		return model.Principal{}, ErrInvalidToken
	}
	return model.Principal{ID: c.ID, Role: role}, nil
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
