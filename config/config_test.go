package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "8083", cfg.ServerPort)
	assert.Equal(t, 5, cfg.TxMaxAttempts)
	assert.Equal(t, 20*time.Millisecond, cfg.TxRetryDelay)
	assert.Nil(t, cfg.TicketSigningKey)
	assert.Contains(t, cfg.DSN(), "dbname=checkin_db")
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	key := strings.Repeat("ab", 32)
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9999\nTICKET_SIGNING_KEY="+key+"\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("TICKET_SIGNING_KEY")
	})

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Len(t, cfg.TicketSigningKey, 32)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidSigningKey(t *testing.T) {
	t.Setenv("TICKET_SIGNING_KEY", "not-hex")

	_, err := Load("")

	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestLoad_InvalidAttempts(t *testing.T) {
	t.Setenv("TX_MAX_ATTEMPTS", "0")

	_, err := Load("")

	assert.Error(t, err)
}
