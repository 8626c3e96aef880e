package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := jwt.Generate("secret", "u1", "c1", "owner", "pdv-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "pdv-api", claims.Issuer)
}

func TestParse_Rejects(t *testing.T) {
	token, err := jwt.Generate("secret", "u1", "c1", "owner", "pdv-api", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err, "firma incorrecta")

	expired, err := jwt.Generate("secret", "u1", "c1", "owner", "pdv-api", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secret", expired)
	assert.Error(t, err, "token expirado")

	_, err = jwt.Generate("", "u1", "c1", "owner", "pdv-api", 5)
	assert.Error(t, err)
}
