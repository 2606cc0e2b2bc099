package utils

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateToken parses and verifies a bearer token against JWT_SECRET and
// returns its claims.
func ValidateToken(tokenString string) (jwt.MapClaims, error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ExtractUserIDFromRequest pulls the acting user's id out of the request's
// bearer token. Timer operations attribute sessions to this user.
func ExtractUserIDFromRequest(r *http.Request) (primitive.ObjectID, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return primitive.NilObjectID, fmt.Errorf("authorization header missing")
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := ValidateToken(tokenStr)
	if err != nil {
		return primitive.NilObjectID, err
	}

	userID, exists := claims["userId"]
	if !exists {
		return primitive.NilObjectID, fmt.Errorf("userId claim not found in token")
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("userId claim is not a string")
	}

	objectID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid userId in token: %v", err)
	}
	return objectID, nil
}
