package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for GitPatrol.
type FileConfig struct {
	Include         *string `yaml:"include"`
	Exclude         *string `yaml:"exclude"`
	DefaultExcludes *bool   `yaml:"default_excludes"`
	KeepGoing       *bool   `yaml:"keep_going"`
	NoColor         *bool   `yaml:"no_color"`
	Format          *string `yaml:"format"`
	LogLevel        *string `yaml:"log_level"`
	LogFile         *string `yaml:"log_file"`
	Timeout         *string `yaml:"timeout"`
	IgnoreFile      *string `yaml:"ignore_file"`
	Baseline        *string `yaml:"baseline"`
	AuditLog        *string `yaml:"audit_log"`

	// Remote repository access
	Remote *RemoteConfig `yaml:"remote"`
}

// RemoteConfig holds settings for scanning GitHub repositories.
type RemoteConfig struct {
	// APIURL overrides https://api.github.com, e.g. for GitHub Enterprise.
	APIURL *string `yaml:"api_url"`

	// TokenEnv names the environment variable holding the API token.
	// Defaults to GITHUB_TOKEN. Tokens are never read from the file itself.
	TokenEnv *string `yaml:"token_env"`

	// ListWorkers bounds concurrent directory listings.
	ListWorkers *int `yaml:"list_workers"`

	// QueueSize bounds discovered paths buffered ahead of the scanner.
	QueueSize *int `yaml:"queue_size"`

	// Strict aborts on any failed directory listing instead of skipping it.
	Strict *bool `yaml:"strict"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .gitpatrol.yml/.yaml and gitpatrol.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".gitpatrol.yml", ".gitpatrol.yaml", "gitpatrol.yml", "gitpatrol.yaml"} {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// Dir returns the GitPatrol directory under the XDG config base, or "" when
// no base can be determined.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "gitpatrol")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	dir := Dir()
	if dir == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(dir, "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// GetRemote returns the remote configuration, never nil.
func (fc FileConfig) GetRemote() RemoteConfig {
	if fc.Remote == nil {
		return RemoteConfig{}
	}
	return *fc.Remote
}
