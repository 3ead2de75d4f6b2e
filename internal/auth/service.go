package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/suvamneog/foodanalyserr/internal/config"
	"github.com/suvamneog/foodanalyserr/internal/storage"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidUserID = errors.New("invalid user id")
)

const (
	devUserID  = "dev-user"
	defaultTTL = 30 * 24 * time.Hour
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:@-]{1,64}$`)

// Service: сервис авторизации
type Service struct {
	config  *config.Config
	storage storage.Storage
	now     func() time.Time
}

func NewService(cfg *config.Config, st storage.Storage) *Service {
	return &Service{config: cfg, storage: st, now: time.Now}
}

// SignInDev issues a token for userID and makes sure the user has an owner profile.
func (s *Service) SignInDev(ctx context.Context, req DevAuthRequest) (*DevAuthResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = devUserID
	}
	if !userIDPattern.MatchString(userID) {
		return nil, ErrInvalidUserID
	}

	profile, err := s.findOrCreateOwnerProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create owner profile: %w", err)
	}

	ttl := s.tokenTTL()
	token, err := s.generateJWT(userID, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	return &DevAuthResponse{
		AccessToken:    token,
		TokenType:      "Bearer",
		ExpiresIn:      int64(ttl.Seconds()),
		UserID:         userID,
		OwnerProfileID: profile.ID,
	}, nil
}

// findOrCreateOwnerProfile: найти или создать owner профиль
func (s *Service) findOrCreateOwnerProfile(ctx context.Context, userID string) (*storage.Profile, error) {
	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		if p.Type == "owner" && p.OwnerUserID == userID {
			return &p, nil
		}
	}

	profile := &storage.Profile{
		Type:        "owner",
		Name:        "Me",
		OwnerUserID: userID,
		WeightUnit:  "metric",
	}
	if err := s.storage.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// tokenTTL is JWT_TTL_MINUTES, 30 days when unset.
func (s *Service) tokenTTL() time.Duration {
	if s.config.JWTTTLMinutes <= 0 {
		return defaultTTL
	}
	return time.Duration(s.config.JWTTTLMinutes) * time.Minute
}

func (s *Service) generateJWT(userID string, ttl time.Duration) (string, error) {
	now := s.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.config.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT returns the token subject.
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.JWTIssuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
