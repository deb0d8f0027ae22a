package utils

import (
	"ets/src/types"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGenerateTicketCode(t *testing.T) {
	code := GenerateTicketCode()

	parts := strings.Split(code, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "TKT", parts[0])
	assert.Len(t, parts[2], 6)
	for _, c := range parts[1] + parts[2] {
		assert.Contains(t, codeCharset, string(c))
	}

	other := GenerateTicketCode()
	assert.NotEqual(t, code, other)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.Nil(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "incorrect horse"))
}

func TestGenerateJWT(t *testing.T) {
	token, err := GenerateJWT("someone@example.com", 42, string(types.ROLE_USER), "session-1")
	assert.Nil(t, err)

	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tkn *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	assert.Nil(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "someone@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, string(types.ROLE_USER), claims.Role)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestMessageEncryption(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	sealed, err := EncryptMessage(key, "TKT-ABC123-XYZ789")
	assert.Nil(t, err)
	assert.NotEqual(t, "TKT-ABC123-XYZ789", sealed)

	opened, err := DecryptMessage(key, sealed)
	assert.Nil(t, err)
	assert.Equal(t, "TKT-ABC123-XYZ789", *opened)

	wrongKey := []byte("ffffffffffffffffffffffffffffffff")
	_, err = DecryptMessage(wrongKey, sealed)
	assert.NotNil(t, err)

	_, err = DecryptMessage(key, "not base64!!")
	assert.NotNil(t, err)
}

func TestErrStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrStatus(types.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, ErrStatus(gorm.ErrRecordNotFound))
	assert.Equal(t, http.StatusForbidden, ErrStatus(types.ErrPermissionDenied))
	assert.Equal(t, http.StatusConflict, ErrStatus(types.ErrInvalidState))
	assert.Equal(t, http.StatusConflict, ErrStatus(types.ErrCancellationWindowClosed))
	assert.Equal(t, http.StatusConflict, ErrStatus(types.ErrStorageConflict))
	assert.Equal(t, http.StatusConflict, ErrStatus(&types.InsufficientInventoryError{TicketType: types.TICKET_GENERAL, Remaining: 3}))
	assert.Equal(t, http.StatusConflict, ErrStatus(&types.AlreadyCheckedInError{At: time.Now()}))
	assert.Equal(t, http.StatusBadRequest, ErrStatus(assert.AnError))
}
