package config

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"oven_dashboard/internal/logger"
	"oven_dashboard/internal/models"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SupportedEncodings are the encoding names the dialect detector can decode.
var SupportedEncodings = []string{"utf-8-sig", "cp1252", "latin1"}

// Order modes for the dashboard.
const (
	OrderAppearance = "appearance"
	OrderSmart      = "smart"
)

// Config is the full runtime configuration.
type Config struct {
	Log       Log       `mapstructure:"log"`
	Input     Input     `mapstructure:"input"`
	Dialect   Dialect   `mapstructure:"dialect"`
	Columns   Columns   `mapstructure:"columns"`
	Normalize Normalize `mapstructure:"normalize"`
	Phase     Phase     `mapstructure:"phase"`
	Device    Device    `mapstructure:"device"`
	Chart     Chart     `mapstructure:"chart"`
	Dashboard Dashboard `mapstructure:"dashboard"`
	Export    Export    `mapstructure:"export"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Input struct {
	Path     string `mapstructure:"path"`
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone; "" and "Local" mean the machine's zone.
func (i Input) Location() (*time.Location, error) {
	if i.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(i.Timezone)
}

type Dialect struct {
	Encodings  []string `mapstructure:"encodings"`
	Delimiters []string `mapstructure:"delimiters"`
	MinColumns int      `mapstructure:"min_columns"`
}

// DelimiterRunes returns the delimiters as runes. Validate guarantees each
// entry is exactly one rune.
func (d Dialect) DelimiterRunes() []rune {
	out := make([]rune, 0, len(d.Delimiters))
	for _, s := range d.Delimiters {
		r, _ := utf8.DecodeRuneInString(s)
		out = append(out, r)
	}
	return out
}

// Columns holds the header keywords per canonical field, highest priority first.
type Columns struct {
	Timestamp []string `mapstructure:"timestamp"`
	Device    []string `mapstructure:"device"`
	Message   []string `mapstructure:"message"`
	Setpoint  []string `mapstructure:"setpoint"`
	Actual    []string `mapstructure:"actual"`
}

// Keywords returns the keyword lists keyed by canonical field.
func (c Columns) Keywords() map[models.Field][]string {
	return map[models.Field][]string{
		models.FieldTimestamp: c.Timestamp,
		models.FieldDevice:    c.Device,
		models.FieldMessage:   c.Message,
		models.FieldSetpoint:  c.Setpoint,
		models.FieldActual:    c.Actual,
	}
}

type Normalize struct {
	// SplitLayout parses the controller form "yy/mm/dd, HH:MM:SS, fff" after
	// the three parts were joined as "yy/mm/dd HH:MM:SS.fff".
	SplitLayout string   `mapstructure:"split_layout"`
	TimeLayouts []string `mapstructure:"time_layouts"`
}

type Phase struct {
	PreheatKeywords []string      `mapstructure:"preheat_keywords"`
	RuntimeKeywords []string      `mapstructure:"runtime_keywords"`
	EndKeywords     []string      `mapstructure:"end_keywords"`
	Sticky          bool          `mapstructure:"sticky"`
	MinDuration     time.Duration `mapstructure:"min_duration"`
}

type Device struct {
	GatewayName  string   `mapstructure:"gateway_name"`
	HearthTypes  []string `mapstructure:"hearth_types"`
	NoHearth     string   `mapstructure:"no_hearth"`
	UnknownLabel string   `mapstructure:"unknown_label"`
}

type Chart struct {
	Height          string  `mapstructure:"height"`
	YMin            float64 `mapstructure:"y_min"`
	YMax            float64 `mapstructure:"y_max"`
	PreheatColor    string  `mapstructure:"preheat_color"`
	RuntimeColor    string  `mapstructure:"runtime_color"`
	ActualColor     string  `mapstructure:"actual_color"`
	SetpointColor   string  `mapstructure:"setpoint_color"`
	CycleStartHour  int     `mapstructure:"cycle_start_hour"`
	AssetsHost      string  `mapstructure:"assets_host"`
	ScriptIntegrity string  `mapstructure:"script_integrity"`
}

type Dashboard struct {
	Title        string `mapstructure:"title"`
	Output       string `mapstructure:"output"`
	FragmentsDir string `mapstructure:"fragments_dir"`
	Order        string `mapstructure:"order"`
}

type Export struct {
	Report string `mapstructure:"report"`
	SQLite string `mapstructure:"sqlite"`
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"out":           "dashboard.output",
	"fragments-dir": "dashboard.fragments_dir",
	"order":         "dashboard.order",
	"report":        "export.report",
	"sqlite":        "export.sqlite",
	"timezone":      "input.timezone",
}

var (
	errNoEncodings  = errors.New("dialect.encodings must not be empty")
	errNoDelimiters = errors.New("dialect.delimiters must not be empty")
)

// Load reads configuration from path, or from configs/config.yml when path is
// empty, on top of the built-in defaults. Flags present in flags override both.
// A missing default config file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults are static and always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if len(c.Dialect.Encodings) == 0 {
		return errNoEncodings
	}
	for _, enc := range c.Dialect.Encodings {
		if !contains(SupportedEncodings, enc) {
			return fmt.Errorf("dialect.encodings: unsupported encoding %q (supported: %v)", enc, SupportedEncodings)
		}
	}
	if len(c.Dialect.Delimiters) == 0 {
		return errNoDelimiters
	}
	for _, d := range c.Dialect.Delimiters {
		if utf8.RuneCountInString(d) != 1 {
			return fmt.Errorf("dialect.delimiters: %q is not a single character", d)
		}
	}
	if c.Dialect.MinColumns < 1 {
		return fmt.Errorf("dialect.min_columns must be >= 1, got %d", c.Dialect.MinColumns)
	}
	if c.Phase.MinDuration <= 0 {
		return fmt.Errorf("phase.min_duration must be positive, got %s", c.Phase.MinDuration)
	}
	if _, err := c.Input.Location(); err != nil {
		return fmt.Errorf("input.timezone: %w", err)
	}
	if c.Chart.CycleStartHour > 23 {
		return fmt.Errorf("chart.cycle_start_hour must be -1 or 0..23, got %d", c.Chart.CycleStartHour)
	}
	if c.Chart.YMax <= c.Chart.YMin {
		return fmt.Errorf("chart.y_max (%g) must exceed chart.y_min (%g)", c.Chart.YMax, c.Chart.YMin)
	}
	switch c.Dashboard.Order {
	case OrderAppearance, OrderSmart:
	default:
		return fmt.Errorf("dashboard.order must be %q or %q, got %q", OrderAppearance, OrderSmart, c.Dashboard.Order)
	}
	if c.Dashboard.Output == "" {
		return errors.New("dashboard.output must not be empty")
	}
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
