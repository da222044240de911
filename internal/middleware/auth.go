package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TokenValidator checks HMAC-signed bearer tokens whose "sub" claim is the
// user id.
type TokenValidator struct {
	secret []byte
}

func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

// Identity is the caller described by a valid token. Username comes from the
// optional "username" claim.
type Identity struct {
	UserID   string
	Username string
}

// Issue signs a token for userID valid for ttl.
func (v *TokenValidator) Issue(userID string, ttl time.Duration) (string, error) {
	return v.IssueIdentity(Identity{UserID: userID}, ttl)
}

// IssueIdentity signs a token carrying the identity, valid for ttl.
func (v *TokenValidator) IssueIdentity(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := gojwt.MapClaims{
		"sub": identity.UserID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	if identity.Username != "" {
		claims["username"] = identity.Username
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Validate returns the user id carried by a valid token.
func (v *TokenValidator) Validate(tokenString string) (string, error) {
	identity, err := v.ValidateIdentity(tokenString)
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}

// ValidateIdentity returns the identity carried by a valid token.
func (v *TokenValidator) ValidateIdentity(tokenString string) (Identity, error) {
	claims := gojwt.MapClaims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(token *gojwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, errors.Wrap(err, "parse token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return Identity{}, errors.Wrap(err, "read subject")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return Identity{}, errors.Wrap(err, "subject is not a user id")
	}
	username, _ := claims["username"].(string)
	return Identity{UserID: userID.String(), Username: username}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware validates the Authorization header and stores the caller's
// user id under "userID" and the token username under "username".
func AuthMiddleware(validator *TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		token, ok := BearerToken(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		identity, err := validator.ValidateIdentity(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", identity.UserID)
		c.Set("username", identity.Username)
		c.Next()
	}
}
