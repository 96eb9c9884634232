package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessToken is a signed JWT plus its expiry, used by tests to mint
// tokens without depending on the auth collaborator.
// Production access tokens are issued by that collaborator; the core
// exchange only ever verifies them (see middleware.JWTAuth).
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken builds an HS256 JWT carrying the subject's id and
// role, matching the claim shape middleware.JWTAuth expects.
func NewAccessToken(secret string, userID uuid.UUID, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
