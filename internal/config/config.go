// =============================================================================
// Client Data Masker - Configuration Module
// =============================================================================
//
// This module loads the run configuration. Values are resolved in layers,
// later layers winning:
//
//   1. Built-in defaults
//   2. The YAML config file (optional, --config)
//   3. A .env file in the working directory (optional)
//   4. MASKER_* process environment variables
//   5. Command-line flags (applied by the cmd package)
//
// The resolved configuration is validated once; every problem found is
// reported together.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hengadev/errsx"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the settings of one masking run.
type Config struct {
	Input   InputSettings   `yaml:"input"`
	Output  OutputSettings  `yaml:"output"`
	Logging LoggingSettings `yaml:"logging"`
	Metrics MetricsSettings `yaml:"metrics"`
}

// InputSettings controls how the input file is read.
type InputSettings struct {
	// Delimiter separates fields in delimited-text input.
	// Aliases: "tab" / "\t", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding of delimited-text input.
	// Supported: "UTF-8", "ISO-8859-1" (alias "latin1"), "Windows-1252".
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// Sheet is the worksheet read from .xlsx input. Empty means the first.
	Sheet string `yaml:"sheet"`
}

// OutputSettings controls where and how masked rows are written.
type OutputSettings struct {
	// Path of the masked output. Placeholders:
	//   {uuid}      - a random UUID
	//   {timestamp} - current time (YYYYMMDD_HHMMSS)
	//   {original}  - input file name without extension
	// Default: "data/masked_clients.csv"
	Path string `yaml:"path"`

	// Format is "csv" or "xml". Default: derived from Path, else "csv".
	Format string `yaml:"format"`

	// Delimiter for csv output. Default: ","
	Delimiter string `yaml:"delimiter"`

	// XML element names and indentation for xml output.
	XML XMLSettings `yaml:"xml"`

	// ErrorLogDir receives a text log of skipped rows. Empty disables it.
	ErrorLogDir string `yaml:"error_log_dir"`

	// ArchiveDir receives the input file after a successful run. Empty
	// disables archiving.
	ArchiveDir string `yaml:"archive_dir"`
}

// XMLSettings names the XML elements.
type XMLSettings struct {
	// RootElement wraps the whole document. Default: "clients"
	RootElement string `yaml:"root_element"`

	// RecordElement wraps one output row. Default: "client"
	RecordElement string `yaml:"record_element"`

	// Indent is the per-level indentation. Default: two spaces
	Indent string `yaml:"indent"`

	// WriteSchema also writes an XSD next to the output, same name with
	// the .xsd extension.
	WriteSchema bool `yaml:"write_schema"`
}

// LoggingSettings controls the structured logger.
type LoggingSettings struct {
	// Level is one of "debug", "info", "warn", "error". Default: "info"
	Level string `yaml:"level"`

	// Format is "text" or "json". Default: "text"
	Format string `yaml:"format"`
}

// MetricsSettings controls run metrics.
type MetricsSettings struct {
	// Textfile is where run metrics are written in the Prometheus text
	// format. Empty disables the export.
	Textfile string `yaml:"textfile"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultOutputPath is where masked data goes when nothing else is set.
	DefaultOutputPath = "data/masked_clients.csv"

	FormatCSV = "csv"
	FormatXML = "xml"

	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"

	envPrefix = "MASKER_"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ","
	}
	if cfg.Input.Encoding == "" {
		cfg.Input.Encoding = "UTF-8"
	}

	if cfg.Output.Path == "" {
		cfg.Output.Path = DefaultOutputPath
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatForPath(cfg.Output.Path)
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if cfg.Output.Delimiter == "" {
		cfg.Output.Delimiter = ","
	}
	if cfg.Output.XML.RootElement == "" {
		cfg.Output.XML.RootElement = "clients"
	}
	if cfg.Output.XML.RecordElement == "" {
		cfg.Output.XML.RecordElement = "client"
	}
	if cfg.Output.XML.Indent == "" {
		cfg.Output.XML.Indent = "  "
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
}

// FormatForPath picks the output format from a path's extension: "xml" for
// .xml files, "csv" otherwise.
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return FormatXML
	}
	return FormatCSV
}

// =============================================================================
// LOADING
// =============================================================================

// Load resolves the configuration from the YAML file at path (empty path
// means no file), the .env file and the process environment.
//
// PARAMETERS:
//   - path: The YAML config file. A path that is set but missing is an error.
//
// RETURNS:
//   - The validated configuration.
//   - An error if a file cannot be read or parsed, or validation fails.
func Load(path string) (*Config, error) {
	return load(path, DotEnvFile, os.LookupEnv)
}

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

func load(path, dotEnvPath string, lookup lookupFunc) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	dotEnv, err := readDotEnv(dotEnvPath)
	if err != nil {
		return nil, err
	}

	applyEnv(cfg, func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotEnv[key]
		return v, ok
	})

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// readDotEnv parses a .env file without touching the process environment.
// A missing file yields no values.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

// applyEnv overrides file values with MASKER_* variables.
func applyEnv(cfg *Config, lookup lookupFunc) {
	overrides := map[string]*string{
		"INPUT_DELIMITER":  &cfg.Input.Delimiter,
		"INPUT_ENCODING":   &cfg.Input.Encoding,
		"INPUT_SHEET":      &cfg.Input.Sheet,
		"OUTPUT_PATH":      &cfg.Output.Path,
		"OUTPUT_FORMAT":    &cfg.Output.Format,
		"OUTPUT_DELIMITER": &cfg.Output.Delimiter,
		"ERROR_LOG_DIR":    &cfg.Output.ErrorLogDir,
		"ARCHIVE_DIR":      &cfg.Output.ArchiveDir,
		"LOG_LEVEL":        &cfg.Logging.Level,
		"LOG_FORMAT":       &cfg.Logging.Format,
		"METRICS_TEXTFILE": &cfg.Metrics.Textfile,
	}

	for name, field := range overrides {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*field = v
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate reports every invalid setting at once. The returned error is an
// errsx.Map keyed by setting name.
func (c *Config) Validate() error {
	errs := errsx.Map{}

	if _, err := ParseDelimiter(c.Input.Delimiter); err != nil {
		errs.Set("input.delimiter", err)
	}
	if _, ok := NormalizeEncoding(c.Input.Encoding); !ok {
		errs.Set("input.encoding", fmt.Errorf("unsupported encoding %q", c.Input.Encoding))
	}

	switch c.Output.Format {
	case FormatCSV, FormatXML:
	default:
		errs.Set("output.format", fmt.Errorf("format must be csv or xml, got %q", c.Output.Format))
	}
	if _, err := ParseDelimiter(c.Output.Delimiter); err != nil {
		errs.Set("output.delimiter", err)
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		errs.Set("output.path", errors.New("output path must not be empty"))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs.Set("logging.level", fmt.Errorf("level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs.Set("logging.format", fmt.Errorf("format must be text or json, got %q", c.Logging.Format))
	}

	return errs.AsError()
}

// =============================================================================
// SHARED SETTING PARSERS
// =============================================================================

// ParseDelimiter resolves a delimiter setting, including its aliases, to the
// field separator rune.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",", "comma":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	switch r[0] {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}

// NormalizeEncoding maps an encoding setting to its canonical name:
// "utf-8", "iso-8859-1" or "windows-1252".
func NormalizeEncoding(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return "utf-8", true
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return "iso-8859-1", true
	case "windows-1252", "cp1252":
		return "windows-1252", true
	}
	return "", false
}
