// Package config wraps the viper configuration singleton for the wv CLI.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wikivault/wikivault/internal/debug"
)

// ProjectDirName is the per-project directory holding config.yaml, the
// database, and the log file.
const ProjectDirName = ".wikivault"

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()

	// We only ever load config.yaml, never config.json.
	v.SetConfigType("yaml")

	// Explicitly locate config.yaml and use SetConfigFile.
	// Precedence: project .wikivault/config.yaml > ~/.config/wv/config.yaml > ~/.wikivault/config.yaml
	configFileSet := false

	// 1. Walk up from CWD to find the project .wikivault/config.yaml,
	//    so commands work from subdirectories.
	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ProjectDirName, "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	// 2. User config directory (~/.config/wv/config.yaml)
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "wv", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// 3. Home directory (~/.wikivault/config.yaml)
	if !configFileSet {
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(homeDir, ProjectDirName, "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// Automatic environment variable binding; env vars take precedence
	// over the config file. E.g. WV_JSON, WV_DB, WV_ACTOR, WV_ROLES.
	v.SetEnvPrefix("WV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Defaults for the persistent flags.
	v.SetDefault("json", false)
	v.SetDefault("db", "")
	v.SetDefault("actor", "")
	v.SetDefault("roles", []string{})
	v.SetDefault("lock-timeout", "30s")

	// Rendering defaults.
	v.SetDefault("render.style", "auto")
	v.SetDefault("render.width", 0)

	// Log rotation defaults (sizes in MB, age in days). An empty
	// log-file means <project>/.wikivault/wv.log.
	v.SetDefault("log-file", "")
	v.SetDefault("log.max-size", 5)
	v.SetDefault("log.max-backups", 3)
	v.SetDefault("log.max-age", 30)

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		debug.Logf("loaded config from %s", v.ConfigFileUsed())
	} else {
		debug.Logf("no config.yaml found; using defaults and environment variables")
	}

	return nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// ProjectDir walks up from the working directory and returns the first
// .wikivault directory found, or empty when outside any project.
func ProjectDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ProjectDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// DefaultDBPath resolves the database path: the db config key when set,
// otherwise <project>/.wikivault/wiki.db.
func DefaultDBPath() string {
	if db := GetString("db"); db != "" {
		return db
	}
	if dir := ProjectDir(); dir != "" {
		return filepath.Join(dir, "wiki.db")
	}
	return ""
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault    ConfigSource = "default"
	SourceConfigFile ConfigSource = "config_file"
	SourceEnvVar     ConfigSource = "env_var"
	SourceFlag       ConfigSource = "flag"
)

// GetValueSource returns the source of a configuration value.
// Priority (highest to lowest): env var > config file > default.
// Flag overrides are handled in the CLI layer since viper does not know
// about cobra flags.
func GetValueSource(key string) ConfigSource {
	if v == nil {
		return SourceDefault
	}
	envKey := "WV_" + strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(key, "-", "_"), ".", "_"))
	if os.Getenv(envKey) != "" {
		return SourceEnvVar
	}
	if v.InConfig(key) {
		return SourceConfigFile
	}
	return SourceDefault
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice retrieves a string slice configuration value
func GetStringSlice(key string) []string {
	if v == nil {
		return []string{}
	}
	return v.GetStringSlice(key)
}

// Set sets a configuration value
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}

// GetActor resolves the acting user for revision and review attribution.
// Priority chain:
//  1. flagValue (from --actor)
//  2. WV_ACTOR env var / config.yaml actor field (via viper)
//  3. git config user.email, then user.name
//  4. hostname
func GetActor(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if actor := GetString("actor"); actor != "" {
		return actor
	}
	for _, key := range []string{"user.email", "user.name"} {
		cmd := exec.Command("git", "config", key)
		if output, err := cmd.Output(); err == nil {
			if gitUser := strings.TrimSpace(string(output)); gitUser != "" {
				return gitUser
			}
		}
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return "unknown"
}

// GetRoles resolves the acting user's role names. Flag values win over
// the roles config key; both accept comma-separated lists.
func GetRoles(flagValue string) []string {
	raw := GetStringSlice("roles")
	if flagValue != "" {
		raw = strings.Split(flagValue, ",")
	}
	var roles []string
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
