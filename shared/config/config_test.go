package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("AGRI_TEST_ADDR", ":9090")
	require.Equal(t, ":9090", GetEnv("AGRI_TEST_ADDR", ":8080"))

	t.Setenv("AGRI_TEST_ADDR", "")
	require.Equal(t, ":8080", GetEnv("AGRI_TEST_ADDR", ":8080"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 3},
		{name: "valid", value: "5", want: 5},
		{name: "malformed", value: "five", want: 3},
		{name: "negative", value: "-1", want: -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("AGRI_TEST_DB", tc.value)
			require.Equal(t, tc.want, GetEnvInt("AGRI_TEST_DB", 3))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset", value: "", want: 10 * time.Second},
		{name: "valid", value: "250ms", want: 250 * time.Millisecond},
		{name: "malformed", value: "soon", want: 10 * time.Second},
		{name: "zero_rejected", value: "0s", want: 10 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("AGRI_TEST_TIMEOUT", tc.value)
			require.Equal(t, tc.want, GetEnvDuration("AGRI_TEST_TIMEOUT", 10*time.Second))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AGRI_DOTENV_KEY=from-file\n"), 0o600))

	t.Setenv("AGRI_DOTENV_KEY", "")
	require.NoError(t, os.Unsetenv("AGRI_DOTENV_KEY"))

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))
	require.Equal(t, "from-file", os.Getenv("AGRI_DOTENV_KEY"))
}
