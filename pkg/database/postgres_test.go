package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrino-academy/andrino-api/pkg/config"
)

func TestDSNEscapesCredentials(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "andrino", Password: "p@ss/word?", Name: "andrino_academy", SSLMode: "disable",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/andrino_academy", u.Path)
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss/word?", password)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "andrino-api", u.Query().Get("application_name"))
}
