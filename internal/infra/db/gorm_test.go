package db

import (
	"testing"

	"app/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		PostgresHost:     "localhost",
		PostgresPort:     5433,
		PostgresUser:     "app",
		PostgresPassword: "secret",
		PostgresDB:       "storefront",
		PostgresSSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5433 user=app password=secret dbname=storefront sslmode=disable",
		DSN(cfg),
	)
}
