package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-fnol-router/internal/fnol"
	"github.com/a3tai/mcp-fnol-router/internal/pdf/extraction"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultOCRDPI      = extraction.DefaultOCRDPI
	DefaultOCRLanguage = "eng"

	envPrefix = "FNOL"
)

// ErrVersionRequested is returned by the loaders when --version is on the command line
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the FNOL router
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Directory that claim documents must live under
	ClaimsDirectory string

	// Extraction configuration
	FieldMapPath string // optional YAML field map; empty selects the built-in ACORD map
	OCREnabled   bool
	OCRDPI       float64
	OCRLanguage  string // tesseract language list, "+" separated

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio,
		Host:            DefaultHost,
		Port:            DefaultPort,
		ClaimsDirectory: currentDir,
		OCREnabled:      true,
		OCRDPI:          DefaultOCRDPI,
		OCRLanguage:     DefaultOCRLanguage,
		Version:         "1.0.0",
		ServerName:      "mcp-fnol-router",
		LogLevel:        DefaultLogLevel,
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// LoadFromFlags parses the server command line (os.Args) and environment
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(viper.GetViper(), cfg)
	defineCommandLineFlags(pflag.CommandLine, cfg)
	bindFlagsToViper(viper.GetViper(), pflag.CommandLine)
	setupUsageMessage()

	if err := checkVersionFlag(os.Args[1:]); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(viper.GetViper(), cfg)
	return finish(cfg)
}

// LoadProcessFlags parses the flags of the one-shot processing command.
// It returns the configuration and the remaining positional arguments.
func LoadProcessFlags(args []string) (*Config, []string, error) {
	cfg := DefaultConfig()
	v := viper.New()
	fs := pflag.NewFlagSet("fnol_process", pflag.ContinueOnError)

	setupViperEnvironment(v, cfg)
	fs.String("fieldmap", cfg.FieldMapPath, "YAML file overriding the built-in field map")
	fs.Bool("no-ocr", false, "Disable the OCR fallback")
	fs.Float64("dpi", cfg.OCRDPI, "Rendering resolution for OCR")
	fs.String("lang", cfg.OCRLanguage, "Tesseract languages, '+' separated")
	fs.Bool("verbose", false, "Enable debug logging")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")

	if err := checkVersionFlag(args); err != nil {
		return nil, nil, err
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	_ = v.BindPFlag("fieldmap", fs.Lookup("fieldmap"))
	_ = v.BindPFlag("ocrdpi", fs.Lookup("dpi"))
	_ = v.BindPFlag("ocrlang", fs.Lookup("lang"))
	_ = v.BindPFlag("maxfilesize", fs.Lookup("maxfilesize"))
	populateConfigFromViper(v, cfg)

	if noOCR, _ := fs.GetBool("no-ocr"); noOCR {
		cfg.OCREnabled = false
	}
	if verbose, _ := fs.GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	cfg, err := finish(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func finish(cfg *Config) (*Config, error) {
	if cfg.ClaimsDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.ClaimsDirectory); err == nil {
			cfg.ClaimsDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.ClaimsDirectory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("fieldmap", cfg.FieldMapPath)
	v.SetDefault("ocr", cfg.OCREnabled)
	v.SetDefault("ocrdpi", cfg.OCRDPI)
	v.SetDefault("ocrlang", cfg.OCRLanguage)
}

// defineCommandLineFlags sets up all server command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("dir", cfg.ClaimsDirectory, "Directory containing claim documents")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.String("fieldmap", cfg.FieldMapPath, "YAML file overriding the built-in field map")
	fs.Bool("ocr", cfg.OCREnabled, "Enable the OCR fallback for scanned documents")
	fs.Float64("ocrdpi", cfg.OCRDPI, "Rendering resolution for OCR")
	fs.String("ocrlang", cfg.OCRLanguage, "Tesseract languages, '+' separated")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	for _, key := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxfilesize",
		"fieldmap", "ocr", "ocrdpi", "ocrlang",
	} {
		_ = v.BindPFlag(key, fs.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP FNOL Router - extracts claim fields from FNOL PDFs and recommends a route\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   # stdio mode, current directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/srv/claims --ocr=false     # no OCR fallback\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081         # SSE server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FNOL_MODE FNOL_HOST FNOL_PORT FNOL_DIR FNOL_LOGLEVEL FNOL_MAXFILESIZE\n")
		fmt.Fprintf(os.Stderr, "  FNOL_FIELDMAP FNOL_OCR FNOL_OCRDPI FNOL_OCRLANG\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) error {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.ClaimsDirectory = v.GetString("dir")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.FieldMapPath = v.GetString("fieldmap")
	cfg.OCREnabled = v.GetBool("ocr")
	cfg.OCRDPI = v.GetFloat64("ocrdpi")
	cfg.OCRLanguage = v.GetString("ocrlang")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.ClaimsDirectory == "" {
		return errors.New("claims directory cannot be empty")
	}

	// A directory that does not exist yet is accepted so clients may pass placeholders
	if info, err := os.Stat(c.ClaimsDirectory); err == nil && !info.IsDir() {
		return fmt.Errorf("claims directory %s is not a directory", c.ClaimsDirectory)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot access claims directory %s: %w", c.ClaimsDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.FieldMapPath != "" {
		if info, err := os.Stat(c.FieldMapPath); err != nil {
			return fmt.Errorf("cannot access field map %s: %w", c.FieldMapPath, err)
		} else if info.IsDir() {
			return fmt.Errorf("field map %s is a directory", c.FieldMapPath)
		}
	}

	if c.OCREnabled {
		if c.OCRDPI < 72 || c.OCRDPI > 1200 {
			return fmt.Errorf("OCR DPI must be between 72 and 1200, got %g", c.OCRDPI)
		}
		if len(c.OCRLanguages()) == 0 {
			return errors.New("OCR language cannot be empty")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// OCRLanguages splits OCRLanguage into tesseract language codes
func (c *Config) OCRLanguages() []string {
	var langs []string
	for _, lang := range strings.FieldsFunc(c.OCRLanguage, func(r rune) bool { return r == '+' || r == ',' }) {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	return langs
}

// ChainOptions returns the extraction chain settings
func (c *Config) ChainOptions() extraction.ChainOptions {
	return extraction.ChainOptions{
		EnableOCR:    c.OCREnabled,
		OCRDPI:       c.OCRDPI,
		OCRLanguages: c.OCRLanguages(),
	}
}

// LoadFieldMap returns the configured field map, or the built-in one when none is set
func (c *Config) LoadFieldMap() (*fnol.FieldMap, error) {
	if c.FieldMapPath == "" {
		return fnol.DefaultFieldMap(), nil
	}
	return fnol.LoadFieldMap(c.FieldMapPath)
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, ClaimsDirectory: %s, LogLevel: %s, MaxFileSize: %d, "+
		"FieldMap: %q, OCR: %t, OCRDPI: %g, OCRLanguage: %s}",
		c.Mode, c.Host, c.Port, c.ClaimsDirectory, c.LogLevel, c.MaxFileSize,
		c.FieldMapPath, c.OCREnabled, c.OCRDPI, c.OCRLanguage)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
