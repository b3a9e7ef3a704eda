package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed credential payload: account id plus admin flag.
type Claims struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 credentials. Admin sessions are
// long-lived, regular sessions short-lived.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	adminTTL time.Duration
	userTTL  time.Duration
}

func NewTokenIssuer(secret, issuer string, adminTTL, userTTL time.Duration) *TokenIssuer {
	if adminTTL <= 0 {
		adminTTL = 365 * 24 * time.Hour
	}
	if userTTL <= 0 {
		userTTL = time.Hour
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		adminTTL: adminTTL,
		userTTL:  userTTL,
	}
}

// Issue creates a credential for the given account.
func (ti *TokenIssuer) Issue(userID string, isAdmin bool) (string, error) {
	ttl := ti.userTTL
	if isAdmin {
		ttl = ti.adminTTL
	}

	now := time.Now().UTC()
	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    ti.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Parse verifies signature and expiry and returns the claims.
func (ti *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
