package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"toonconv/internal/errors"
)

// Duration wraps time.Duration so YAML configs can write "30s" or "5m"
// instead of nanosecond integers.
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or a plain integer of
// seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration '%s': %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration value")
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// MarshalYAML renders the duration back as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Delimiter is the separator between inline array values and tabular cells.
type Delimiter string

const (
	DelimiterComma Delimiter = "comma"
	DelimiterTab   Delimiter = "tab"
	DelimiterPipe  Delimiter = "pipe"
)

// Rune returns the character the delimiter stands for.
func (d Delimiter) Rune() rune {
	switch d {
	case DelimiterTab:
		return '\t'
	case DelimiterPipe:
		return '|'
	default:
		return ','
	}
}

// ParseDelimiter maps a CLI/config token to a Delimiter.
func ParseDelimiter(s string) (Delimiter, error) {
	switch strings.ToLower(s) {
	case "", "comma", ",":
		return DelimiterComma, nil
	case "tab", "\t":
		return DelimiterTab, nil
	case "pipe", "|":
		return DelimiterPipe, nil
	default:
		return "", errors.NewConfigError(
			fmt.Sprintf("invalid delimiter '%s': use 'comma', 'tab', or 'pipe'", s), nil)
	}
}

// Config holds every knob of a conversion run. The zero value is not
// usable; start from NewConfig or one of the profiles.
type Config struct {
	// Indent is the number of spaces per nesting level, 0 to 8.
	Indent int `yaml:"indent"`
	// Delimiter separates inline array values: comma, tab, or pipe.
	Delimiter Delimiter `yaml:"delimiter"`
	// LengthMarker includes element counts in array headers.
	LengthMarker bool `yaml:"length_marker"`
	// Quote is the string quoting strategy: smart, always, or never.
	Quote string `yaml:"quote"`
	// ByteLimit caps accepted input size in bytes.
	ByteLimit int64 `yaml:"byte_limit"`
	// Timeout caps conversion wall-clock time.
	Timeout Duration `yaml:"timeout"`
	// Pretty selects line-per-field layout.
	Pretty bool `yaml:"pretty"`
	// Validate runs the output validator after emission.
	Validate bool `yaml:"validate"`
	// IncludeSchema collects array schema metadata into the result.
	IncludeSchema bool `yaml:"include_schema"`
	// MaxDepth caps nesting depth. Zero disables the check.
	MaxDepth int `yaml:"max_depth"`
	// KeyCase rewrites object keys before emission: "" (keep), snake,
	// camel, kebab, or screaming_snake.
	KeyCase string `yaml:"key_case"`
}

// NewConfig returns the defaults: two-space indent, comma delimiter, length
// markers on, smart quoting, 100MB input cap, five-minute timeout, pretty
// validated output with schema metadata and a nesting cap of 1000.
func NewConfig() *Config {
	return &Config{
		Indent:        2,
		Delimiter:     DelimiterComma,
		LengthMarker:  true,
		Quote:         "smart",
		ByteLimit:     100 * 1024 * 1024,
		Timeout:       Duration(5 * time.Minute),
		Pretty:        true,
		Validate:      true,
		IncludeSchema: true,
		MaxDepth:      1000,
	}
}

// SmallFiles returns a profile tuned for inputs under a megabyte: a tight
// input cap and a short timeout so misuse fails fast.
func SmallFiles() *Config {
	cfg := NewConfig()
	cfg.ByteLimit = 10 * 1024 * 1024
	cfg.Timeout = Duration(30 * time.Second)
	return cfg
}

// LargeFiles returns a profile for inputs beyond 100MB: a 1GB cap, a long
// timeout, and validation off since the integrity scan is quadratic-ish on
// big documents.
func LargeFiles() *Config {
	cfg := NewConfig()
	cfg.ByteLimit = 1024 * 1024 * 1024
	cfg.Timeout = Duration(30 * time.Minute)
	cfg.Validate = false
	return cfg
}

// Batch returns a profile for bulk runs: compact output, validation off,
// generous limits.
func Batch() *Config {
	cfg := NewConfig()
	cfg.ByteLimit = 512 * 1024 * 1024
	cfg.Timeout = Duration(10 * time.Minute)
	cfg.Pretty = false
	cfg.Validate = false
	return cfg
}

// Profile returns the named profile, or an error for unknown names.
func Profile(name string) (*Config, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return NewConfig(), nil
	case "small":
		return SmallFiles(), nil
	case "large":
		return LargeFiles(), nil
	case "batch":
		return Batch(), nil
	default:
		return nil, errors.NewConfigError(
			fmt.Sprintf("unknown profile '%s': use 'small', 'large', or 'batch'", name), nil)
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) CheckValid() error {
	if c.Indent < 0 || c.Indent > 8 {
		return errors.NewConfigError(
			fmt.Sprintf("indent must be 0-8 spaces, got %d", c.Indent), nil)
	}
	if _, err := ParseDelimiter(string(c.Delimiter)); err != nil {
		return err
	}
	switch strings.ToLower(c.Quote) {
	case "", "smart", "always", "never":
	default:
		return errors.NewConfigError(
			fmt.Sprintf("invalid quote strategy '%s': use 'smart', 'always', or 'never'", c.Quote), nil)
	}
	if c.ByteLimit < 0 {
		return errors.NewConfigError("byte limit cannot be negative", nil)
	}
	if c.Timeout < 0 {
		return errors.NewConfigError("timeout cannot be negative", nil)
	}
	if c.MaxDepth < 0 {
		return errors.NewConfigError("max depth cannot be negative", nil)
	}
	switch strings.ToLower(c.KeyCase) {
	case "", "keep", "snake", "camel", "kebab", "screaming_snake":
	default:
		return errors.NewConfigError(
			fmt.Sprintf("invalid key case '%s': use 'snake', 'camel', 'kebab', or 'screaming_snake'", c.KeyCase), nil)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file, layered over defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("failed to parse config file '%s'", path), err)
	}
	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory and
// its parents, returning the first hit or an empty string.
func FindConfigFile() string {
	configNames := []string{".toonconv.yml", ".toonconv.yaml", "toonconv.yml", "toonconv.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// CLIOverrides carries the flag values that can override a loaded config.
// Pointer fields distinguish "not set" from zero values.
type CLIOverrides struct {
	Indent    *int
	Delimiter string
	Compact   bool
	Quote     string
	MaxDepth  *int
	ByteLimit *int64
	Timeout   *time.Duration
	NoMarker  bool
	KeyCase   string
}

// Apply layers CLI overrides on top of the config.
func (c *Config) Apply(o CLIOverrides) error {
	if o.Indent != nil {
		c.Indent = *o.Indent
	}
	if o.Delimiter != "" {
		d, err := ParseDelimiter(o.Delimiter)
		if err != nil {
			return err
		}
		c.Delimiter = d
	}
	if o.Compact {
		c.Pretty = false
	}
	if o.Quote != "" {
		c.Quote = o.Quote
	}
	if o.MaxDepth != nil {
		c.MaxDepth = *o.MaxDepth
	}
	if o.ByteLimit != nil {
		c.ByteLimit = *o.ByteLimit
	}
	if o.Timeout != nil {
		c.Timeout = Duration(*o.Timeout)
	}
	if o.NoMarker {
		c.LengthMarker = false
	}
	if o.KeyCase != "" {
		c.KeyCase = o.KeyCase
	}
	return c.CheckValid()
}

// LoadConfigWithCLI resolves the effective config: explicit path if given,
// otherwise a discovered config file, otherwise defaults; then profile and
// CLI overrides on top.
func LoadConfigWithCLI(configPath, profile string, overrides CLIOverrides) (*Config, error) {
	if configPath != "" && profile != "" {
		return nil, errors.NewConfigError("cannot combine --config with --profile", nil)
	}

	var cfg *Config
	var err error

	switch {
	case configPath != "":
		cfg, err = LoadConfig(configPath)
	case profile != "":
		cfg, err = Profile(profile)
	default:
		if found := FindConfigFile(); found != "" {
			cfg, err = LoadConfig(found)
		} else {
			cfg = NewConfig()
		}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Apply(overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}
