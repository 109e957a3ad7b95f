package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cattyman919/contact/app/config"
)

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(&config.Config{DatabaseURL: "postgres://u:p@db:5432/contacts?sslmode=disable"})

	assert.Equal(t, "postgres://u:p@db:5432/contacts?sslmode=disable", cfg.DSN)
	assert.Equal(t, 2, cfg.MaxOpenConns)
	assert.Equal(t, 10*time.Second, cfg.ConnTimeout)
}

func TestConnection_CloseWithoutDB(t *testing.T) {
	assert.NoError(t, (&Connection{}).Close())
}
