package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "service-crm-test", 60, "user-1", "technician", "technician", 7)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "technician", claims.Role)
	assert.Equal(t, "technician", claims.LocationKind)
	assert.Equal(t, int64(7), claims.LocationID)
	assert.Equal(t, "service-crm-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "iss", 60, "user-1", "plant", "plant", 1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("other-secret", tok)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "iss", -1, "user-1", "plant", "plant", 1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("secret", tok)
	assert.Error(t, err)
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := pkgjwt.Generate("", "iss", 60, "user-1", "plant", "plant", 1)
	assert.Error(t, err)
}
