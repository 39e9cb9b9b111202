// Package config reads the server configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/screen-values-mcp/internal/imaging"
	"github.com/ironsheep/screen-values-mcp/internal/logging"
	"github.com/ironsheep/screen-values-mcp/internal/ocr"
)

// Environment variable names.
const (
	EnvLogLevel        = "SCREENVAL_LOG_LEVEL"
	EnvLanguage        = "SCREENVAL_LANGUAGE"
	EnvTessdataPrefix  = "SCREENVAL_TESSDATA_PREFIX"
	EnvModes           = "SCREENVAL_MODES"
	EnvMinWidth        = "SCREENVAL_MIN_WIDTH"
	EnvInvertDark      = "SCREENVAL_INVERT_DARK"
	EnvZeroSubstitutes = "SCREENVAL_ZERO_SUBSTITUTES"
	EnvNoColor         = "SCREENVAL_NO_COLOR"
)

// DefaultEnvFile is read when present and no other file is named.
const DefaultEnvFile = ".env"

// Config holds the server settings.
type Config struct {
	LogLevel logging.Level
	NoColor  bool

	// Language and TessdataPrefix configure Tesseract.
	Language       string
	TessdataPrefix string

	// Modes is the default preprocessing pass list for queries that name none.
	Modes      []imaging.Mode
	MinWidth   int
	InvertDark bool

	// ZeroSubstitutes are OCR misreads of "0" accepted by number rows when a
	// query names none (for example "O").
	ZeroSubstitutes []string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel: logging.LevelInfo,
		Language: ocr.DefaultLanguage,
		Modes:    append([]imaging.Mode(nil), imaging.DefaultModes...),
		MinWidth: imaging.DefaultMinWidth,
	}
}

// Load builds the configuration from the process environment. Values from
// envFile fill in variables the environment does not set. An empty envFile
// means DefaultEnvFile, which may be absent; a named file must exist.
func Load(envFile string) (*Config, error) {
	values := map[string]string{}

	path := envFile
	if path == "" {
		path = DefaultEnvFile
	}
	fileValues, err := godotenv.Read(path)
	switch {
	case err == nil:
		values = fileValues
	case envFile == "" && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	})
}

// FromLookup builds the configuration from lookup, which reports the value
// of a variable and whether it is set.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLogLevel); ok {
		level, err := logging.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v, ok := get(EnvNoColor); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvNoColor, err)
		}
		cfg.NoColor = b
	}

	if v, ok := get(EnvLanguage); ok {
		cfg.Language = v
	}
	if v, ok := get(EnvTessdataPrefix); ok {
		cfg.TessdataPrefix = v
	}

	if v, ok := get(EnvModes); ok {
		modes, err := imaging.ParseModes(SplitList(v))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvModes, err)
		}
		cfg.Modes = modes
	}

	if v, ok := get(EnvMinWidth); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvMinWidth, err)
		}
		cfg.MinWidth = n
	}

	if v, ok := get(EnvInvertDark); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvInvertDark, err)
		}
		cfg.InvertDark = b
	}

	if v, ok := get(EnvZeroSubstitutes); ok {
		cfg.ZeroSubstitutes = SplitList(v)
	}

	return cfg, nil
}

// SplitList splits a comma-separated list, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// PreprocessOptions returns the image preprocessing settings.
func (c *Config) PreprocessOptions() imaging.Options {
	return imaging.Options{MinWidth: c.MinWidth, InvertDark: c.InvertDark}
}

// Engine returns the Tesseract engine described by c.
func (c *Config) Engine() ocr.TesseractEngine {
	return ocr.TesseractEngine{Language: c.Language, TessdataPrefix: c.TessdataPrefix}
}
