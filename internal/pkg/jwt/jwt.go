package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims identifies the caller of an attendance operation.
// EmployeeID and Email are alternative identifiers resolved to the canonical user ID by middleware.
type Claims struct {
	UserID     string
	EmployeeID string
	Email      string
	IsAdmin    bool
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateSSEToken(userID string, isAdmin bool) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, isAdmin bool, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	payload := map[string]interface{}{
		"user_id":  claims.UserID,
		"is_admin": claims.IsAdmin,
		"type":     "access",
		"exp":      expiresAt,
	}
	if claims.EmployeeID != "" {
		payload["employee_id"] = claims.EmployeeID
	}
	if claims.Email != "" {
		payload["email"] = claims.Email
	}

	_, tokenString, err := j.tokenAuth.Encode(payload)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(userID string, isAdmin bool) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":  userID,
		"is_admin": isAdmin,
		"type":     "sse",
		"exp":      expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the user it was issued to
func (j *JWTService) ValidateSSEToken(tokenString string) (userID string, isAdmin bool, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", false, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "sse" {
		return "", false, jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", false, jwt.ErrInvalidJWT()
	}
	userID, ok = userIDVal.(string)
	if !ok || userID == "" {
		return "", false, jwt.ErrInvalidJWT()
	}

	if adminVal, ok := token.Get("is_admin"); ok {
		isAdmin, _ = adminVal.(bool)
	}

	return userID, isAdmin, nil
}
