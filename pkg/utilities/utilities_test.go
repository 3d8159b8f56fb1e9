package utilities

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
)

func TestSnowflakeIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		id := NewSnowflakeIDWithNode(3)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSnowflakeIDWithBadNodeFallsBackToKSUID(t *testing.T) {
	id := NewSnowflakeIDWithNode(5000)
	assert.Len(t, id, 27)
}

func TestNewSnowflakeID_BadEnv(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE", "abc")
	assert.NotEmpty(t, NewSnowflakeID())
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, "debug", levelFromString("debug").String())
	assert.Equal(t, "warn", levelFromString("warning").String())
	assert.Equal(t, "info", levelFromString("loud").String())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_DEV", "1")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "/tmp/auth.log")
	cfg := ConfigFromEnv()
	assert.Equal(t, Config{Level: "debug", Dev: true, File: "/tmp/auth.log"}, cfg)
}

func TestInit_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.log")
	logger, err := Init(Config{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

type sample struct {
	Name   string `json:"userName" validate:"required"`
	Mobile string `json:"primMobileNo" validate:"required,mobile"`
	Sex    string `json:"sex" validate:"oneof=M F O"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(sample{Name: "A", Mobile: "9123456789", Sex: "F"}))

	err := Validate(sample{Mobile: "12345", Sex: "X"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	msg := apperr.Message(err)
	assert.Contains(t, msg, "userName is required")
	assert.Contains(t, msg, "primMobileNo must be a 10 digit mobile number")
	assert.Contains(t, msg, "sex must be one of [M F O]")
}

func TestValidate_NotMobile(t *testing.T) {
	type in struct {
		UserID string `json:"userId" validate:"omitempty,notmobile"`
	}
	require.NoError(t, Validate(in{UserID: "U1"}))
	require.NoError(t, Validate(in{UserID: "12345678901"}))
	require.NoError(t, Validate(in{}))

	err := Validate(in{UserID: "1234567890"})
	require.Error(t, err)
	assert.Equal(t, "userId must not be a 10 digit number", apperr.Message(err))
}
