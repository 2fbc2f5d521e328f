package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/objcryst/internal/logger"
	"github.com/oshokin/objcryst/internal/version"
)

// Config holds the settings of the version accessor and the self-test suite.
type Config struct {
	// Distribution is the name the version accessor looks up.
	Distribution string `mapstructure:"distribution" yaml:"distribution"`
	// Manifest is an optional installed-distributions YAML file consulted before build info.
	Manifest string `mapstructure:"manifest" yaml:"manifest,omitempty"`
	// DatePolicy is "strict" or "tolerant", see version.DatePolicy.
	DatePolicy string `mapstructure:"date_policy" yaml:"date_policy"`
	// LogLevel is the minimum level of the process logger.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// Suite configures self-test runs.
	Suite SuiteConfig `mapstructure:"suite" yaml:"suite"`
}

// SuiteConfig controls how the self-test suite is run and reported.
type SuiteConfig struct {
	// Run lists glob patterns selecting cases by name.
	Run []string `mapstructure:"run" yaml:"run"`
	// CaseTimeout bounds a single case, zero disables the limit.
	CaseTimeout time.Duration `mapstructure:"case_timeout" yaml:"case_timeout"`
	// Propagate turns a normal run into a debug run that stops on the first failure.
	Propagate bool `mapstructure:"propagate" yaml:"propagate"`
	// Output is the report format: "text" or "yaml".
	Output string `mapstructure:"output" yaml:"output"`
	// ReportFile is where the last report is stored, empty disables persistence.
	ReportFile string `mapstructure:"report_file" yaml:"report_file"`
}

const (
	// DefaultDistribution is the distribution describing this module.
	DefaultDistribution = "github.com/oshokin/objcryst"

	// DefaultReportFilename is the default location of the last self-test report.
	DefaultReportFilename = "objcryst-selftest-report.yaml"

	// DefaultCaseTimeout bounds a single self-test case.
	DefaultCaseTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600

	// OutputText renders reports for humans.
	OutputText = "text"
	// OutputYAML renders reports as YAML documents.
	OutputYAML = "yaml"

	// envPrefix prefixes environment overrides, e.g. OBJCRYST_SUITE_PROPAGATE.
	envPrefix = "objcryst"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errDistributionRequired is returned when the distribution name is blank.
	errDistributionRequired = errors.New("distribution must be provided")
	// errUnknownLogLevel is returned for unsupported log levels.
	errUnknownLogLevel = errors.New("unknown log level")
	// errUnknownOutput is returned for unsupported report formats.
	errUnknownOutput = errors.New("unknown report output")
	// errNegativeTimeout is returned for a negative case timeout.
	errNegativeTimeout = errors.New("case timeout must not be negative")
	// errBadPattern is returned for malformed case patterns.
	errBadPattern = errors.New("invalid case pattern")
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Distribution: DefaultDistribution,
		DatePolicy:   string(version.DatePolicyTolerant),
		LogLevel:     "info",
		Suite: SuiteConfig{
			Run:         []string{"**"},
			CaseTimeout: DefaultCaseTimeout,
			Output:      OutputText,
			ReportFile:  DefaultReportFilename,
		},
	}
}

// Load reads configuration from path (optional) and OBJCRYST_* environment variables.
// An empty path uses defaults and environment only; a named file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(filepath.Clean(path))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so that environment overrides apply to them.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("distribution", cfg.Distribution)
	v.SetDefault("manifest", cfg.Manifest)
	v.SetDefault("date_policy", cfg.DatePolicy)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("suite.run", cfg.Suite.Run)
	v.SetDefault("suite.case_timeout", cfg.Suite.CaseTimeout)
	v.SetDefault("suite.propagate", cfg.Suite.Propagate)
	v.SetDefault("suite.output", cfg.Suite.Output)
	v.SetDefault("suite.report_file", cfg.Suite.ReportFile)
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills defaults for blank fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.Distribution) == "" {
		return errDistributionRequired
	}

	policy, err := version.ParseDatePolicy(cfg.DatePolicy)
	if err != nil {
		return err
	}

	cfg.DatePolicy = string(policy)

	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	return validateSuite(&cfg.Suite)
}

// validateSuite checks suite settings.
func validateSuite(s *SuiteConfig) error {
	if len(s.Run) == 0 {
		s.Run = []string{"**"}
	}

	for _, pattern := range s.Run {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", errBadPattern, pattern)
		}
	}

	if s.CaseTimeout < 0 {
		return errNegativeTimeout
	}

	switch s.Output {
	case "":
		s.Output = OutputText
	case OutputText, OutputYAML:
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, s.Output)
	}

	return nil
}

// Policy returns the validated date policy.
func (c *Config) Policy() version.DatePolicy {
	return version.DatePolicy(c.DatePolicy)
}

// VersionStore returns the metadata store described by the settings:
// the manifest when configured, then the binary's build information.
//
//nolint:ireturn // Callers only need the lookup capability.
func (c *Config) VersionStore() version.Store {
	stores := make(version.ChainStore, 0, 2)
	if c.Manifest != "" {
		stores = append(stores, version.NewManifestStore(c.Manifest))
	}

	return append(stores, version.NewBuildInfoStore())
}
