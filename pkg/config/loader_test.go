package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcase/lexcase/pkg/config"
)

type defaultsConfig struct {
	Issuer      string `env:"CFGTEST_ISSUER_DEFAULT" envDefault:"LexCase"`
	MaxAttempts int    `env:"CFGTEST_MAX_ATTEMPTS_DEFAULT" envDefault:"5"`
	Enabled     bool   `env:"CFGTEST_ENABLED_DEFAULT" envDefault:"true"`
}

type successConfig struct {
	Issuer      string `env:"CFGTEST_ISSUER" envDefault:"LexCase"`
	MaxAttempts int    `env:"CFGTEST_MAX_ATTEMPTS" envDefault:"5"`
}

type singletonConfig struct {
	Value string `env:"CFGTEST_SINGLETON"`
}

type requiredConfig struct {
	Keys string `env:"CFGTEST_REQUIRED,required"`
}

type fileConfig struct {
	FromFile string `env:"CFGTEST_FROM_FILE"`
	Override string `env:"CFGTEST_OVERRIDE"`
}

type badIntConfig struct {
	N int `env:"CFGTEST_BAD_INT"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("CFGTEST_ISSUER", "Smith & Partners")
	t.Setenv("CFGTEST_MAX_ATTEMPTS", "3")

	var cfg successConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "Smith & Partners", cfg.Issuer)
	assert.Equal(t, 3, cfg.MaxAttempts)
}

func TestLoad_DefaultValues(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "LexCase", cfg.Issuer)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.True(t, cfg.Enabled)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("CFGTEST_BAD_INT", "five")

	var cfg badIntConfig
	require.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
}

func TestLoad_Cached(t *testing.T) {
	t.Setenv("CFGTEST_SINGLETON", "first")

	var first singletonConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFGTEST_SINGLETON", "second")

	var second singletonConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.ResetCache()
	var third singletonConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *successConfig
	require.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
	assert.NotPanics(t, func() {
		var cfg defaultsConfig
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_FROM_FILE=file_value\nCFGTEST_OVERRIDE=file\n"), 0o600))

	t.Setenv("CFGTEST_OVERRIDE", "process")
	t.Cleanup(func() { _ = os.Unsetenv("CFGTEST_FROM_FILE") })

	require.NoError(t, config.LoadEnv(path))

	config.ResetCache()
	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "file_value", cfg.FromFile)
	assert.Equal(t, "process", cfg.Override)

	require.ErrorIs(t, config.LoadEnv(filepath.Join(dir, "missing.env")), config.ErrLoadingEnvFile)
	require.NoError(t, config.LoadEnv())
}
