package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Attamusc/pipelinebot/internal/input"
)

// Environment variables read by Load
const (
	EnvGitLabToken      = "GITLAB_API_TOKEN"
	EnvGitLabURL        = "GITLAB_API_URL"
	EnvTestingFarmToken = "TESTING_FARM_API_TOKEN"
	EnvTestingFarmURL   = "TESTING_FARM_API_URL"
	EnvBackend          = "PIPELINEBOT_BACKEND"
	EnvBackendTimeout   = "PIPELINEBOT_BACKEND_TIMEOUT"
	EnvDisableSummary   = "DISABLE_SUMMARY"
)

// Summarization backends
const (
	BackendGemini = "gemini"
	BackendNone   = "none"
)

// Colour modes accepted by --color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	defaultGitLabURL      = "https://gitlab.com/api/v4"
	defaultTestingFarmURL = "https://api.testing-farm.io/v0.1"
	defaultBackendTimeout = 30 * time.Second
)

// Flags are the command-line values that take part in configuration
type Flags struct {
	Project  string
	Pipeline string
	Verbose  bool
	Quiet    bool
	Color    string
	Backend  string
}

// Config holds all configuration for the application
type Config struct {
	GitLabToken      string
	GitLabURL        string
	TestingFarmToken string
	TestingFarmURL   string
	Pipeline         input.PipelineRef
	Verbose          bool
	Quiet            bool
	Color            string
	Summary          struct {
		Enabled bool
		Backend string
		Timeout time.Duration
	}
}

// Load creates a Config from the environment (including a .env file when
// present) and the given flags. Non-empty flag values take precedence.
func Load(flags Flags) (*Config, error) {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	for _, key := range []string{
		EnvGitLabToken, EnvGitLabURL,
		EnvTestingFarmToken, EnvTestingFarmURL,
		EnvBackend, EnvBackendTimeout, EnvDisableSummary,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	v.SetDefault(EnvGitLabURL, defaultGitLabURL)
	v.SetDefault(EnvTestingFarmURL, defaultTestingFarmURL)
	v.SetDefault(EnvBackend, BackendGemini)
	v.SetDefault(EnvBackendTimeout, defaultBackendTimeout)

	ref, err := input.ParsePipelineRef(flags.Project, flags.Pipeline)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GitLabToken:      v.GetString(EnvGitLabToken),
		GitLabURL:        strings.TrimRight(v.GetString(EnvGitLabURL), "/"),
		TestingFarmToken: v.GetString(EnvTestingFarmToken),
		TestingFarmURL:   v.GetString(EnvTestingFarmURL),
		Pipeline:         ref,
		Verbose:          flags.Verbose && !flags.Quiet, // verbose is disabled if quiet is set
		Quiet:            flags.Quiet,
		Color:            strings.ToLower(flags.Color),
	}
	if cfg.Color == "" {
		cfg.Color = ColorAuto
	}

	cfg.Summary.Backend = strings.ToLower(v.GetString(EnvBackend))
	if flags.Backend != "" {
		cfg.Summary.Backend = strings.ToLower(flags.Backend)
	}
	cfg.Summary.Timeout = v.GetDuration(EnvBackendTimeout)
	cfg.Summary.Enabled = v.GetString(EnvDisableSummary) == "" && cfg.Summary.Backend != BackendNone

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if err := validateURL(EnvGitLabURL, c.GitLabURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL(EnvTestingFarmURL, c.TestingFarmURL); err != nil {
		errs = append(errs, err)
	}

	switch c.Summary.Backend {
	case BackendGemini, BackendNone:
	default:
		errs = append(errs, fmt.Errorf("unsupported summarization backend %q (expected %q or %q)", c.Summary.Backend, BackendGemini, BackendNone))
	}
	if c.Summary.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be a positive duration such as 30s", EnvBackendTimeout))
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("invalid --color value %q (expected auto, always or never)", c.Color))
	}

	return errors.Join(errs...)
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
	}
	return nil
}
