// Package config loads the poller configuration.
//
// Sources, later ones winning: built-in defaults, an optional YAML file,
// a .env file, and SOTASTATS_* environment variables. The result is checked
// against an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sotastats/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOTASTATS_"

// Config holds runtime configuration for the poller.
type Config struct {
	Server         string        `yaml:"server" json:"server"`
	Association    string        `yaml:"association" json:"association"`
	DBName         string        `yaml:"dbname" json:"dbname"`
	SpotsTable     string        `yaml:"spots_table" json:"spots_table"`
	SummitsTable   string        `yaml:"summits_table" json:"summits_table"`
	ReportFile     string        `yaml:"report_file" json:"report_file"`
	Stats          string        `yaml:"stats" json:"stats"`
	StoreAll       bool          `yaml:"store_all" json:"store_all"`
	LookbackHours  int           `yaml:"lookback_hours" json:"lookback_hours"`
	PollInterval   time.Duration `yaml:"poll_interval" json:"poll_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries" json:"max_retries"`
	Backoff        time.Duration `yaml:"backoff" json:"backoff"`
	Locale         string        `yaml:"locale" json:"locale"`
	SummitDedup    string        `yaml:"summit_dedup" json:"summit_dedup"`
	MetricsAddr    string        `yaml:"metrics_addr" json:"metrics_addr"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server:         "https://api2.sota.org.uk",
		Association:    "W5N",
		DBName:         "sotastats.db",
		SpotsTable:     "spots",
		SummitsTable:   "summits",
		ReportFile:     "w5n_spot_summary.txt",
		Stats:          "querystats.csv",
		StoreAll:       true,
		LookbackHours:  2,
		PollInterval:   time.Second,
		RequestTimeout: 30 * time.Second,
		MaxRetries:     3,
		Backoff:        500 * time.Millisecond,
		Locale:         "en-US",
		SummitDedup:    "first",
		UserAgent:      "sotastats/1.0",
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
// envFiles default to ".env"; missing env files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Association = strings.ToUpper(strings.TrimSpace(cfg.Association))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config:\n%s", cueerrors.Details(err, nil))
	}
	if err := c.Tables().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Tables returns the configured store table names.
func (c Config) Tables() store.Tables {
	return store.Tables{Spots: c.SpotsTable, Summits: c.SummitsTable}
}

func applyEnv(c *Config) error {
	strs := map[string]*string{
		"SERVER":        &c.Server,
		"ASSOCIATION":   &c.Association,
		"DBNAME":        &c.DBName,
		"SPOTS_TABLE":   &c.SpotsTable,
		"SUMMITS_TABLE": &c.SummitsTable,
		"REPORT_FILE":   &c.ReportFile,
		"STATS":         &c.Stats,
		"LOCALE":        &c.Locale,
		"SUMMIT_DEDUP":  &c.SummitDedup,
		"METRICS_ADDR":  &c.MetricsAddr,
		"USER_AGENT":    &c.UserAgent,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"LOOKBACK_HOURS": &c.LookbackHours,
		"MAX_RETRIES":    &c.MaxRetries,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"POLL_INTERVAL":   &c.PollInterval,
		"REQUEST_TIMEOUT": &c.RequestTimeout,
		"BACKOFF":         &c.Backoff,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup("STORE_ALL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sSTORE_ALL: %w", EnvPrefix, err)
		}
		c.StoreAll = b
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}
