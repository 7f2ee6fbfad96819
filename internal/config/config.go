// Package config loads the settings of the command line.
//
// Settings come, by increasing precedence, from the defaults, the yaml file,
// the environment, and the command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/bourse"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "gesport.yaml"

// Config holds every setting of the command line.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	Portfolio string `yaml:"portfolio"`
	Currency  string `yaml:"currency"`
	Oracle    Oracle `yaml:"oracle"`
}

// Oracle configures the quote service client.
type Oracle struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	// Cache is the directory of the daily response cache. Empty disables it.
	Cache string `yaml:"cache"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		DataDir:   ".",
		Portfolio: portfolio.DefaultName,
		Currency:  portfolio.DefaultCurrency,
		Oracle: Oracle{
			BaseURL:       bourse.DefaultBaseURL,
			Timeout:       bourse.DefaultTimeout,
			RatePerSecond: bourse.DefaultRatePerSecond,
			Cache:         filepath.Join(os.TempDir(), "gesport"),
		},
	}
}

// Load reads the yaml file at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvDataDir       = "GESPORT_DATA_DIR"
	EnvPortfolio     = "GESPORT_PORTFOLIO"
	EnvCurrency      = "GESPORT_CURRENCY"
	EnvOracleURL     = "GESPORT_ORACLE_URL"
	EnvOracleTimeout = "GESPORT_ORACLE_TIMEOUT"
	EnvOracleRate    = "GESPORT_ORACLE_RATE"
	EnvOracleCache   = "GESPORT_ORACLE_CACHE"
)

// ApplyEnv overrides the settings whose variable is set. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok {
		c.DataDir = v
	}
	if v, ok := lookup(EnvPortfolio); ok {
		c.Portfolio = v
	}
	if v, ok := lookup(EnvCurrency); ok {
		c.Currency = v
	}
	if v, ok := lookup(EnvOracleURL); ok {
		c.Oracle.BaseURL = v
	}
	if v, ok := lookup(EnvOracleCache); ok {
		c.Oracle.Cache = v
	}
	var errs []error
	if v, ok := lookup(EnvOracleTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvOracleTimeout, err))
		}
		c.Oracle.Timeout = d
	}
	if v, ok := lookup(EnvOracleRate); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvOracleRate, err))
		}
		c.Oracle.RatePerSecond = r
	}
	return errors.Join(errs...)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	if err := portfolio.ValidateName(c.Portfolio); err != nil {
		errs = append(errs, fmt.Errorf("portfolio: %w", err))
	}
	if len(c.Currency) != 3 {
		errs = append(errs, fmt.Errorf("currency %q is not an ISO 4217 code", c.Currency))
	}
	if u, err := url.Parse(c.Oracle.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("oracle.base_url %q is not an http address", c.Oracle.BaseURL))
	}
	if c.Oracle.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("oracle.timeout must be positive, got %v", c.Oracle.Timeout))
	}
	if c.Oracle.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("oracle.rate_per_second must not be negative, got %v", c.Oracle.RatePerSecond))
	}
	return errors.Join(errs...)
}
