// Package config gathers the settings shared by the command line tool and
// the HTTP server and validates them before anything is built.
package config

import (
	"fmt"
	"os"
	"strconv"

	"textcleanup/internal/markup"
	"textcleanup/internal/wordsource"
	"textcleanup/pkg/options"
)

// Config is the full runtime configuration.
type Config struct {
	DictionaryPath string

	MaxErrors        int
	AllowSpace       bool
	Substitution     bool
	Deletion         bool
	Insertion        bool
	AvoidCapitalized bool

	XML          bool
	Selector     string
	ReformatOnly bool
	Indent       string // per nesting level when reformatting
	Diff         bool
	Workers      int

	// MaxTokenLength keeps longer tokens verbatim; 0 means no limit.
	MaxTokenLength int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	HTTPAddr  string
	RateLimit float64 // requests per second, 0 disables limiting

	S3 wordsource.Config
}

// Error reports a malformed configuration value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FromEnv reads the configuration from the environment. Unset or
// unparsable variables fall back to their defaults.
func FromEnv() Config {
	def := options.DefaultOptions
	return Config{
		DictionaryPath:   getenv("DICTIONARY_PATH", "words.txt"),
		MaxErrors:        getEnvInt("MAX_ERRORS", def.MaxErrors),
		AllowSpace:       def.AllowSpace,
		Substitution:     def.Substitution,
		Deletion:         def.Deletion,
		Insertion:        def.Insertion,
		AvoidCapitalized: def.AvoidCapitalized,
		Indent:           " ",
		Workers:          getEnvInt("WORKERS", 1),
		MaxTokenLength:   getEnvInt("MAX_TOKEN_LENGTH", 0),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		RateLimit:        getEnvFloat("RATE_LIMIT", 0),
		S3: wordsource.Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Secure:    getEnvBool("S3_SECURE", true),
		},
	}
}

// Markup reports whether input is treated as an HTML/XML fragment.
// A selector implies markup mode.
func (c *Config) Markup() bool {
	return c.XML || c.Selector != ""
}

// Validate returns a *Error describing the first malformed value.
func (c *Config) Validate() error {
	switch {
	case c.DictionaryPath == "":
		return &Error{Field: "dict", Reason: "no dictionary given"}
	case c.MaxErrors < 0:
		return &Error{Field: "errors", Reason: fmt.Sprintf("must not be negative, got %d", c.MaxErrors)}
	case c.Workers < 0:
		return &Error{Field: "workers", Reason: fmt.Sprintf("must not be negative, got %d", c.Workers)}
	case c.MaxTokenLength < 0:
		return &Error{Field: "max-token-length", Reason: fmt.Sprintf("must not be negative, got %d", c.MaxTokenLength)}
	case c.RateLimit < 0:
		return &Error{Field: "rate-limit", Reason: fmt.Sprintf("must not be negative, got %g", c.RateLimit)}
	case c.ReformatOnly && !c.Markup():
		return &Error{Field: "reformat-only", Reason: "requires xml input"}
	case c.ReformatOnly && c.Diff:
		return &Error{Field: "reformat-only", Reason: "cannot be combined with diff"}
	}
	if err := markup.ValidateSelector(c.Selector); err != nil {
		return &Error{Field: "selector", Reason: err.Error()}
	}
	return nil
}

// CorrectorOptions translates the correction settings into options for
// corrector.NewSpellCorrector.
func (c *Config) CorrectorOptions() []options.Options {
	opts := []options.Options{
		options.WithMaxErrors(c.MaxErrors),
		options.WithSpace(c.AllowSpace),
		options.WithSubstitution(c.Substitution),
		options.WithDeletion(c.Deletion),
		options.WithInsertion(c.Insertion),
	}
	if c.AvoidCapitalized {
		opts = append(opts, options.WithAvoidCapitalized())
	}
	return opts
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
