package utils // package utils provides helpers for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openvid/vidshare/internal/model"
)

// ErrInvalidToken is returned when a bearer token fails signature or expiry
// validation, or does not carry the expected claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity snapshot embedded in every access token. The
// profile fields are trusted as of issuance time and are never re-validated
// against the store per request; tokens are short-lived enough (10 days by
// default) that this is acceptable.
type Claims struct {
	ChannelName string `json:"channelName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	LogoID      string `json:"logoId"`
	jwt.RegisteredClaims
}

// UserID returns the identity id carried in the token subject.
func (c Claims) UserID() string { return c.Subject }

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The token
// subject is the user id; channel name, email, phone and logo asset id ride
// along as profile claims. ttlDays controls the expiry.
func NewAccessToken(secret string, u model.User, ttlDays int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := Claims{
		ChannelName: u.ChannelName,
		Email:       u.Email,
		Phone:       u.Phone,
		LogoID:      u.LogoID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of raw and returns the
// decoded claims. Tokens signed with an unexpected algorithm are rejected.
func ParseAccessToken(secret, raw string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
