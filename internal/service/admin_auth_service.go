package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"parispub/internal/config"
)

const tokenTTL = 8 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminAuthService interface {
	Login(username, password string) (string, error)
	ParseToken(token string) (jwt.MapClaims, error)
}

type adminAuthService struct {
	user     string
	passHash []byte
	secret   []byte
	now      func() time.Time
}

// NewAdminAuthService hashes the configured admin password once so request
// handling only ever compares against the hash.
func NewAdminAuthService(auth config.Auth) (AdminAuthService, error) {
	if auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	s := &adminAuthService{
		user:   auth.AdminUser,
		secret: []byte(auth.JWTSecret),
		now:    time.Now,
	}
	if auth.AdminUser != "" && auth.AdminPass != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(auth.AdminPass), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		s.passHash = hash
	}
	return s, nil
}

func (s *adminAuthService) Login(username, password string) (string, error) {
	if s.passHash == nil {
		return "", ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.user)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passHash, []byte(password))
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.MapClaims{
		"user": username,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies signature and expiry and returns the claims.
func (s *adminAuthService) ParseToken(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
