package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func expiredToken(t *testing.T, customerID uint) string {
	t.Helper()

	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		Subject:   strconv.FormatUint(uint64(customerID), 10),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func TestTokenRoundTrip(t *testing.T) {
	for _, id := range []uint{1, 42, 90210} {
		token, err := EncodeToken(testSecret, id)
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		decoded, err := DecodeToken(testSecret, token)
		assert.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestDecodeExpiredToken(t *testing.T) {
	_, err := DecodeToken(testSecret, expiredToken(t, 7))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestDecodeTamperedToken(t *testing.T) {
	token, err := EncodeToken(testSecret, 7)
	assert.NoError(t, err)

	// Flip one byte of the signature
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = DecodeToken(testSecret, string(tampered))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestDecodeWrongSecret(t *testing.T) {
	token, err := EncodeToken(testSecret, 7)
	assert.NoError(t, err)

	_, err = DecodeToken("another-secret", token)
	assert.Error(t, err)
}

func setupAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", RequireAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customer_id": CustomerID(c)})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	router := setupAuthTestRouter()

	request := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("Missing Authorization header", func(t *testing.T) {
		recorder := request("")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "You must be logged in to access this!")
	})

	t.Run("Empty bearer token", func(t *testing.T) {
		recorder := request("Bearer ")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Token is missing!")
	})

	t.Run("Invalid token", func(t *testing.T) {
		recorder := request("Bearer not-a-token")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid token!")
	})

	t.Run("Expired token", func(t *testing.T) {
		recorder := request("Bearer " + expiredToken(t, 7))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Token has expired!")
	})

	t.Run("Valid token forwards the subject", func(t *testing.T) {
		token, err := EncodeToken(testSecret, 7)
		assert.NoError(t, err)

		recorder := request("Bearer " + token)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"customer_id":7`)
	})
}
