package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithEnvVars(t *testing.T) {
	os.Setenv("NUTRILOG_PORT", "9090")
	os.Setenv("NUTRILOG_DEBUG", "true")
	os.Setenv("NUTRILOG_DATABASE_PATH", "/tmp/nutrilog-test/nutrition.db")
	os.Setenv("NUTRILOG_DEFAULT_USER_ID", "alice")
	os.Setenv("NUTRILOG_NUTRITIONIX_APP_ID", "app-id")
	os.Setenv("NUTRILOG_NUTRITIONIX_API_KEY", "api-key")
	os.Setenv("NUTRILOG_S3_ENDPOINT", "http://localhost:9000")
	os.Setenv("NUTRILOG_S3_ACCESS_KEY_ID", "key")
	os.Setenv("NUTRILOG_S3_SECRET_ACCESS_KEY", "secret")
	defer func() {
		os.Unsetenv("NUTRILOG_PORT")
		os.Unsetenv("NUTRILOG_DEBUG")
		os.Unsetenv("NUTRILOG_DATABASE_PATH")
		os.Unsetenv("NUTRILOG_DEFAULT_USER_ID")
		os.Unsetenv("NUTRILOG_NUTRITIONIX_APP_ID")
		os.Unsetenv("NUTRILOG_NUTRITIONIX_API_KEY")
		os.Unsetenv("NUTRILOG_S3_ENDPOINT")
		os.Unsetenv("NUTRILOG_S3_ACCESS_KEY_ID")
		os.Unsetenv("NUTRILOG_S3_SECRET_ACCESS_KEY")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/nutrilog-test/nutrition.db", cfg.DatabasePath)
	assert.Equal(t, "alice", cfg.DefaultUserID)
	assert.Equal(t, "app-id", cfg.NutritionixAppID)
	assert.Equal(t, "api-key", cfg.NutritionixAPIKey)
	assert.Equal(t, "http://localhost:9000", cfg.S3Endpoint)
}

func TestLoad_UnprefixedNutritionixVars(t *testing.T) {
	// The original deployment used bare NUTRITIONIX_* variables; envconfig
	// falls back to the unprefixed tag name.
	os.Setenv("NUTRITIONIX_APP_ID", "bare-app-id")
	os.Setenv("NUTRITIONIX_API_KEY", "bare-api-key")
	defer func() {
		os.Unsetenv("NUTRITIONIX_APP_ID")
		os.Unsetenv("NUTRITIONIX_API_KEY")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bare-app-id", cfg.NutritionixAppID)
	assert.Equal(t, "bare-api-key", cfg.NutritionixAPIKey)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, filepath.Join("data", "nutrition.db"), filepath.FromSlash(cfg.DatabasePath))
	assert.Equal(t, "demo", cfg.DefaultUserID)
	assert.Equal(t, "nutrilog-exports", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestExportPath(t *testing.T) {
	cfg := &Config{DatabasePath: filepath.Join("data", "nutrition.db")}

	assert.Equal(t, "data", cfg.DataDir())
	assert.Equal(t, filepath.Join("data", "logs_export.csv"), cfg.ExportPath())
}

func TestHasS3(t *testing.T) {
	cfg := &Config{
		S3Endpoint:  "http://localhost:9000",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	}
	assert.True(t, cfg.HasS3())

	cfg.S3Endpoint = ""
	assert.False(t, cfg.HasS3())
}

func TestHasNutritionix(t *testing.T) {
	cfg := &Config{NutritionixAppID: "app-id", NutritionixAPIKey: "api-key"}
	assert.True(t, cfg.HasNutritionix())

	cfg.NutritionixAPIKey = ""
	assert.False(t, cfg.HasNutritionix())
}
