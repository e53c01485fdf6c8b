package identity

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Role     string `json:"role"`
	Category string `json:"category"`
	jwt.RegisteredClaims
}

type signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func (s *signer) issue(a Actor) (string, time.Time, error) {
	issued := s.now()
	expires := issued.Add(s.ttl)

	c := claims{
		Role:     a.Role,
		Category: a.Category,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(a.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *signer) verify(raw string) (Actor, error) {
	var c claims
	_, err := jwt.ParseWithClaims(
		raw, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Actor{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id < 1 {
		return Actor{}, errors.Join(ErrInvalidToken, err)
	}

	return Actor{ID: id, Role: c.Role, Category: c.Category}, nil
}
