package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/storefront/internal/modules/user"
)

const tokenTTL = 24 * time.Hour

type service struct {
	userRepo user.Repository
	jwtKey   []byte
	log      *zap.Logger
	now      func() time.Time
}

// NewService creates a new auth service signing tokens with secret.
func NewService(userRepo user.Repository, secret string, log *zap.Logger) Service {
	return &service{userRepo: userRepo, jwtKey: []byte(secret), log: log, now: time.Now}
}

func (s *service) Login(ctx context.Context, email, password string) (*Token, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, user.NormalizeEmail(email))
	if errors.Is(err, user.ErrNotFound) {
		s.log.Info("login rejected", zap.String("reason", "unknown email"))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login rejected", zap.String("user_id", u.ID), zap.String("reason", "bad password"))
		return nil, ErrInvalidCredentials
	}

	expirationTime := s.now().Add(tokenTTL)
	claims := &jwt.StandardClaims{
		Subject:   u.ID,
		IssuedAt:  s.now().Unix(),
		ExpiresAt: expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("admin signed in", zap.String("user_id", u.ID))
	return &Token{Token: tokenString, ExpiresAt: time.Unix(expirationTime.Unix(), 0).UTC()}, nil
}

func (s *service) Verify(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
