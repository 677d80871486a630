package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried inside a bearer token.
type Claims struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// Issuer signs and verifies HS256 tokens for one namespace. The shopper and
// admin namespaces use separate Issuers with separate secrets so a token from
// one is never accepted by the other.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Secret() []byte { return i.secret }

func (i *Issuer) Issue(c Claims) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"user_id": c.UserID,
		"email":   c.Email,
		"name":    c.Name,
		"role":    c.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Parse(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claimsFromToken(tok)
}

func claimsFromToken(tok *jwt.Token) (Claims, error) {
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	c := Claims{
		UserID: stringClaim(mc, "user_id"),
		Email:  stringClaim(mc, "email"),
		Name:   stringClaim(mc, "name"),
		Role:   stringClaim(mc, "role"),
	}
	if c.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	if c.Role == "" {
		c.Role = RoleCustomer
	}
	return c, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	switch v := mc[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
