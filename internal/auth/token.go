package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = time.Hour

const customerIDKey = "customer_id"

// EncodeToken issues an HS256 bearer token for the given customer, valid for
// one hour. The subject claim must be a string or decoding fails downstream.
func EncodeToken(secret string, customerID uint) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("signing secret is empty")
	}

	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		Subject:   strconv.FormatUint(uint64(customerID), 10),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// DecodeToken verifies signature and expiry and returns the customer id
// carried in the subject claim.
func DecodeToken(secret, tokenString string) (uint, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return 0, err
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, jwt.ErrTokenInvalidClaims
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, jwt.ErrTokenInvalidSubject
	}

	return uint(id), nil
}

// RequireAuth validates the bearer token and stores the authenticated
// customer id on the context. Status codes and messages are kept compatible
// with the original API contract.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "You must be logged in to access this!"})
			return
		}

		var token string
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
			token = strings.TrimSpace(parts[1])
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Token is missing!"})
			return
		}

		customerID, err := DecodeToken(secret, token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Token has expired!"})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid token!"})
			return
		}

		c.Set(customerIDKey, customerID)
		c.Next()
	}
}

// CustomerID returns the authenticated customer id set by RequireAuth.
func CustomerID(c *gin.Context) uint {
	id, _ := c.Get(customerIDKey)
	customerID, _ := id.(uint)
	return customerID
}
