package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/StockTrack-api/pkg/jwt"
)

const (
	testSecret = "secreto-de-pruebas"
	testUserID = "11111111-1111-1111-1111-111111111111"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate(testSecret, testUserID, "admin_store", "stocktrack", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, "admin_store", role)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", testUserID, "admin_store", "stocktrack", 60)
	assert.Error(t, err)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("otro-secreto", testUserID, "admin_store", "stocktrack", 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse(testSecret, token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate(testSecret, testUserID, "admin_store", "stocktrack", -5)
	require.NoError(t, err)

	_, _, err = jwt.Parse(testSecret, token)
	assert.Error(t, err)
}

func TestParse_TokenMalformado(t *testing.T) {
	_, _, err := jwt.Parse(testSecret, "no-es-un-jwt")
	assert.Error(t, err)
}
