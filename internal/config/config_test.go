package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from the developer's environment
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvGitLabToken, EnvGitLabURL,
		EnvTestingFarmToken, EnvTestingFarmURL,
		EnvBackend, EnvBackendTimeout, EnvDisableSummary,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Flags{Project: "group/proj", Pipeline: "1234"})
	require.NoError(t, err)

	assert.Equal(t, "group/proj", cfg.Pipeline.Project)
	assert.Equal(t, "1234", cfg.Pipeline.ID)
	assert.Equal(t, "https://gitlab.com/api/v4", cfg.GitLabURL)
	assert.Equal(t, "https://api.testing-farm.io/v0.1", cfg.TestingFarmURL)
	assert.Empty(t, cfg.GitLabToken)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.True(t, cfg.Summary.Enabled)
	assert.Equal(t, BackendGemini, cfg.Summary.Backend)
	assert.Equal(t, 30*time.Second, cfg.Summary.Timeout)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGitLabToken, "glpat-secret")
	t.Setenv(EnvGitLabURL, "https://gitlab.example.com/api/v4/")
	t.Setenv(EnvTestingFarmToken, "tf-secret")
	t.Setenv(EnvBackendTimeout, "90s")

	cfg, err := Load(Flags{Project: "42", Pipeline: "7"})
	require.NoError(t, err)

	assert.Equal(t, "glpat-secret", cfg.GitLabToken)
	assert.Equal(t, "https://gitlab.example.com/api/v4", cfg.GitLabURL)
	assert.Equal(t, "tf-secret", cfg.TestingFarmToken)
	assert.Equal(t, 90*time.Second, cfg.Summary.Timeout)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackend, "gemini")

	cfg, err := Load(Flags{Project: "p", Pipeline: "1", Backend: "NONE", Color: "Never", Verbose: true, Quiet: true})
	require.NoError(t, err)

	assert.Equal(t, BackendNone, cfg.Summary.Backend)
	assert.False(t, cfg.Summary.Enabled)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.False(t, cfg.Verbose, "quiet disables verbose")
	assert.True(t, cfg.Quiet)
}

func TestLoad_DisableSummary(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDisableSummary, "1")

	cfg, err := Load(Flags{Project: "p", Pipeline: "1"})
	require.NoError(t, err)

	assert.False(t, cfg.Summary.Enabled)
	assert.Equal(t, BackendGemini, cfg.Summary.Backend)
}

func TestLoad_PipelineURL(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Flags{Pipeline: "https://gitlab.com/redhat/centos-stream/ci/-/pipelines/998877"})
	require.NoError(t, err)

	assert.Equal(t, "redhat/centos-stream/ci", cfg.Pipeline.Project)
	assert.Equal(t, "998877", cfg.Pipeline.ID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		flags         Flags
		expectedError string
	}{
		{
			name:          "missing pipeline",
			flags:         Flags{Project: "p"},
			expectedError: "pipeline is required",
		},
		{
			name:          "missing project",
			flags:         Flags{Pipeline: "12"},
			expectedError: "project is required",
		},
		{
			name:          "bad gitlab url",
			env:           map[string]string{EnvGitLabURL: "gitlab.com/api/v4"},
			flags:         Flags{Project: "p", Pipeline: "1"},
			expectedError: "GITLAB_API_URL must be an http(s) URL",
		},
		{
			name:          "bad testing farm url",
			env:           map[string]string{EnvTestingFarmURL: "::"},
			flags:         Flags{Project: "p", Pipeline: "1"},
			expectedError: "TESTING_FARM_API_URL must be an http(s) URL",
		},
		{
			name:          "unknown backend",
			flags:         Flags{Project: "p", Pipeline: "1", Backend: "llama"},
			expectedError: `unsupported summarization backend "llama"`,
		},
		{
			name:          "non-positive timeout",
			env:           map[string]string{EnvBackendTimeout: "-5s"},
			flags:         Flags{Project: "p", Pipeline: "1"},
			expectedError: "PIPELINEBOT_BACKEND_TIMEOUT must be a positive duration",
		},
		{
			name:          "bad colour mode",
			flags:         Flags{Project: "p", Pipeline: "1", Color: "sometimes"},
			expectedError: `invalid --color value "sometimes"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(tt.flags)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, strings.Contains(err.Error(), tt.expectedError), "expected %q in %q", tt.expectedError, err.Error())
		})
	}
}
