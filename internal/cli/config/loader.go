package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// EnvPrefix prefixes every environment variable read by the loader.
// Nested keys are separated by a double underscore:
// BOOKSALES_TARGET__HOST sets target.host.
const EnvPrefix = "BOOKSALES_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"target-type": "target.type",
	"host":        "target.host",
	"port":        "target.port",
	"user":        "target.user",
	"password":    "target.password",
	"database":    "target.database",
	"fixture":     "fixture.source",
	"env":         "environment",
	"verbose":     "verbose",
	"output":      "output",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// configNames are the file names searched for, in order.
var configNames = []string{"booksales.yaml", "booksales.yml"}

// configIn returns the config file inside dir, or "".
func configIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigFile finds the config file to use.
// Priority: explicit path > booksales.yaml/.yml in CWD or a parent directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	dir := cwd
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configIn(dir); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, already absolute, in-memory, or a URL.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || baseDir == "" || filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > environment overlay > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithEnv(cfgFile, "", flags)
}

// LoadConfigWithEnv loads configuration with an optional environment override.
// envOverride names an entry of the environments section whose target and
// fixture are laid over the base configuration.
func LoadConfigWithEnv(cfgFile string, envOverride string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"target.type":    DefaultTargetType,
		"fixture.source": DefaultFixture,
		"verbose":        false,
		"output":         DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	var baseDir string
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			baseDir = filepath.Dir(abs)
		}
	}

	// 3. Lay the selected environment over the base values
	envName := envOverride
	if envName == "" {
		envName = os.Getenv(EnvPrefix + "ENVIRONMENT")
	}
	if envName == "" {
		envName = k.String("environment")
	}
	if err := applyEnvironment(envName); err != nil {
		return nil, err
	}

	// 4. Load environment variables (BOOKSALES_ prefix)
	// Transform: BOOKSALES_TARGET__HOST -> target.host
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 6. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if envName != "" {
		cfg.Environment = envName
	}

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{Type: DefaultTargetType}
	}
	ApplyTargetDefaults(cfg.Target)

	// Expand environment variables in credentials
	expandTargetEnvVars(cfg.Target)
	cfg.Fixture.S3.AccessKeyID = expandEnvVars(cfg.Fixture.S3.AccessKeyID)
	cfg.Fixture.S3.SecretAccessKey = expandEnvVars(cfg.Fixture.S3.SecretAccessKey)

	// Paths given as flags are relative to CWD; everything else is
	// relative to the config file.
	if !flagChanged(flags, "fixture") {
		cfg.Fixture.Source = resolvePathRelativeTo(cfg.Fixture.Source, baseDir)
	}
	if IsFileStore(cfg.Target.Type) && !flagChanged(flags, "database") {
		cfg.Target.Database = resolvePathRelativeTo(cfg.Target.Database, baseDir)
	}

	// Validate target configuration
	if err := cfg.Target.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// applyEnvironment merges environments.<name> over the loaded values.
func applyEnvironment(name string) error {
	if name == "" {
		return nil
	}
	prefix := "environments." + name
	if !k.Exists(prefix) {
		if k.Exists("environments") {
			return fmt.Errorf("unknown environment %q\nHint: Check the environments section of %s", name, DefaultConfigFile)
		}
		return nil
	}
	if k.Exists(prefix + ".target") {
		if err := k.MergeAt(k.Cut(prefix+".target"), "target"); err != nil {
			return fmt.Errorf("failed to apply environment %s: %w", name, err)
		}
	}
	if src := k.String(prefix + ".fixture"); src != "" {
		if err := k.Set("fixture.source", src); err != nil {
			return fmt.Errorf("failed to apply environment %s: %w", name, err)
		}
	}
	return nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig or LoadConfigWithEnv is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}
