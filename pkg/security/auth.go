package security

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

func secret() []byte {
	jwtSecretOnce.Do(func() {
		s := os.Getenv("JWT_SECRET")
		if s == "" {
			// .env may not have been loaded yet when tests construct tokens
			if err := godotenv.Load(); err == nil {
				s = os.Getenv("JWT_SECRET")
			}
		}
		if s == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}
		jwtSecret = []byte(s)
	})
	return jwtSecret
}

// GenerateJWT issues the token returned by login and registration. Tokens
// carry the user id and role; expiry is 30 days.
func GenerateJWT(userID int, role string, email string) (string, error) {
	claims := jwt.MapClaims{
		"userID": strconv.Itoa(userID),
		"role":   role,
		"email":  email,
		"exp":    time.Now().Add(30 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// ActorID returns the authenticated user's id set by JWTMiddleware. Mutating
// handlers attribute createdBy, technician and authorizedBy to this value and
// never to anything client-supplied.
func ActorID(c *gin.Context) (int, error) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, fmt.Errorf("no authenticated user in context")
	}

	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("userID is not a string")
	}

	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("malformed userID claim: %w", err)
	}

	return id, nil
}

// ActorRole returns the authenticated user's role, empty when absent.
func ActorRole(c *gin.Context) string {
	raw, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := raw.(string)
	return role
}
