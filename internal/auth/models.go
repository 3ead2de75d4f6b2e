package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DevAuthRequest: запрос dev-авторизации. UserID defaults to "dev-user".
type DevAuthRequest struct {
	UserID string `json:"user_id"`
}

// DevAuthResponse: ответ на dev-авторизацию
type DevAuthResponse struct {
	AccessToken    string    `json:"access_token"`
	TokenType      string    `json:"token_type"`
	ExpiresIn      int64     `json:"expires_in"`
	UserID         string    `json:"user_id"`
	OwnerProfileID uuid.UUID `json:"owner_profile_id"`
}

// Claims: claims нашего access token, sub хранит user id
type Claims struct {
	jwt.RegisteredClaims
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
