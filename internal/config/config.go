package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name.
const FileName = "statex.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STATEX"

// Config represents the top-level statex.yaml configuration.
type Config struct {
	Log    LogConfig `yaml:"log"`
	People []Person  `yaml:"people,omitempty" validate:"dive"`
	Jobs   []Job     `yaml:"jobs,omitempty" validate:"dive"`
	NAV    NAVConfig `yaml:"nav"`
	RunLog string    `yaml:"run_log,omitempty"`

	// PDFPassword only comes from the environment.
	PDFPassword string `yaml:"-"`
}

// LogConfig controls the process-wide logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	File   string `yaml:"file,omitempty"`
}

// Person is a household member whose statements are processed.
type Person struct {
	ID      string   `yaml:"id" validate:"required"`
	Name    string   `yaml:"name" validate:"required"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Job is one configured extraction.
type Job struct {
	Name        string `yaml:"name" validate:"required"`
	Person      string `yaml:"person" validate:"required"`
	Format      string `yaml:"format" validate:"required"`
	Input       string `yaml:"input" validate:"required"`
	Output      string `yaml:"output" validate:"required"`
	OutputJSON  string `yaml:"output_json,omitempty"`
	OutputExcel string `yaml:"output_excel,omitempty"`
	Recursive   *bool  `yaml:"recursive,omitempty"`
	Strict      bool   `yaml:"strict,omitempty"`
}

// NAVConfig controls mutual fund NAV downloads.
type NAVConfig struct {
	BaseURL       string        `yaml:"base_url" validate:"omitempty,url"`
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
	Concurrency   int           `yaml:"concurrency" validate:"gte=0"`
	RatePerSecond float64       `yaml:"rate_per_second" validate:"gte=0"`
	MaxRetries    int           `yaml:"max_retries" validate:"gte=0"`
}

// Env holds the STATEX_* environment overrides.
type Env struct {
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogFormat   string `envconfig:"LOG_FORMAT"`
	PDFPassword string `envconfig:"PDF_PASSWORD"`
	NAVBaseURL  string `envconfig:"NAV_BASE_URL"`
}

// Load reads a statex.yaml file from disk, fills defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.fillDefaults()

	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(env)
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with no people or jobs.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		NAV: NAVConfig{
			BaseURL:       "https://api.mfapi.in/mf",
			Timeout:       30 * time.Second,
			Concurrency:   4,
			RatePerSecond: 2,
			MaxRetries:    5,
		},
		RunLog: "logs/run-log.csv",
	}
}

// fillDefaults restores defaults for keys a file set to zero values.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.NAV.BaseURL == "" {
		c.NAV.BaseURL = d.NAV.BaseURL
	}
	if c.NAV.Timeout == 0 {
		c.NAV.Timeout = d.NAV.Timeout
	}
	if c.NAV.Concurrency == 0 {
		c.NAV.Concurrency = d.NAV.Concurrency
	}
	if c.NAV.RatePerSecond == 0 {
		c.NAV.RatePerSecond = d.NAV.RatePerSecond
	}
}

// LoadEnv reads the STATEX_* variables.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("reading environment: %w", err)
	}
	return env, nil
}

// ApplyEnv overlays non-empty environment values.
func (c *Config) ApplyEnv(env Env) {
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		c.Log.Format = env.LogFormat
	}
	if env.PDFPassword != "" {
		c.PDFPassword = env.PDFPassword
	}
	if env.NAVBaseURL != "" {
		c.NAV.BaseURL = env.NAVBaseURL
	}
}

// Validate checks field rules and cross references. formats lists the
// registered statement formats. All problems are reported together.
func (c *Config) Validate(formats []string) error {
	var errs []error

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: failed %q rule", fieldPath(fe.Namespace()), fe.Tag()))
		}
	}

	people := make(map[string]bool, len(c.People))
	for _, p := range c.People {
		if people[p.ID] {
			errs = append(errs, fmt.Errorf("person %q is defined twice", p.ID))
		}
		people[p.ID] = true
	}

	names := make(map[string]bool, len(c.Jobs))
	for _, j := range c.Jobs {
		if j.Name != "" && names[j.Name] {
			errs = append(errs, fmt.Errorf("job %q is defined twice", j.Name))
		}
		names[j.Name] = true
		if j.Person != "" && !people[j.Person] {
			errs = append(errs, fmt.Errorf("job %q: unknown person %q", j.Name, j.Person))
		}
		if j.Format != "" && !slices.Contains(formats, strings.ToLower(j.Format)) {
			errs = append(errs, fmt.Errorf("job %q: unknown format %q", j.Name, j.Format))
		}
	}

	return errors.Join(errs...)
}

// Job returns the named job.
func (c *Config) Job(name string) (Job, bool) {
	for _, j := range c.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
