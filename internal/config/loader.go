package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load builds the configuration from tag defaults, the TOML file at path
// (skipped when path is empty) and environment variables, then validates it.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := applyDefaults(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := applyEnv(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets every field that carries a default tag.
func applyDefaults(v reflect.Value) error {
	return walk(v, func(field reflect.StructField, fieldVal reflect.Value) error {
		def, ok := field.Tag.Lookup("default")
		if !ok || def == "" {
			return nil
		}
		if err := setField(fieldVal, def); err != nil {
			return fmt.Errorf("default for %s=%q: %w", field.Name, def, err)
		}
		return nil
	})
}

// applyEnv overrides fields whose env (or envAlt) variable is set.
func applyEnv(v reflect.Value) error {
	return walk(v, func(field reflect.StructField, fieldVal reflect.Value) error {
		envName := field.Tag.Get("env")
		if envName == "" {
			return nil
		}

		value, ok := os.LookupEnv(envName)
		if !ok || value == "" {
			if alt := field.Tag.Get("envAlt"); alt != "" {
				value, ok = os.LookupEnv(alt)
			}
		}
		if !ok || value == "" {
			return nil
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
		return nil
	})
}

// walk visits the settable leaf fields of a (possibly nested) struct.
func walk(v reflect.Value, fn func(reflect.StructField, reflect.Value) error) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := walk(fieldVal, fn); err != nil {
				return err
			}
			continue
		}

		if err := fn(field, fieldVal); err != nil {
			return err
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.URL == "" {
		if c.Database.Host == "" {
			errs = append(errs, "CORPUS_DB_HOST is required")
		}
		if c.Database.User == "" {
			errs = append(errs, "CORPUS_DB_USER is required")
		}
		if c.Database.Name == "" {
			errs = append(errs, "CORPUS_DB_NAME is required")
		}
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("CORPUS_DB_PORT (%d) must be 1-65535", c.Database.Port))
	}
	if c.Database.Timeout < 0 {
		errs = append(errs, "CORPUS_DB_TIMEOUT must be non-negative")
	}

	if c.Import.BatchSize <= 0 {
		errs = append(errs, "IMPORT_BATCH_SIZE must be positive")
	}
	switch strings.ToLower(c.Import.OnError) {
	case "abort", "skip":
	default:
		errs = append(errs, fmt.Sprintf("IMPORT_ON_ERROR (%q) must be one of: abort, skip", c.Import.OnError))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe representation of the config for logging.
// The password and any descriptor URL are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Database: {Host: %q, Port: %d, User: %q, Name: %q, Password: %s, URL: %s}, ",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Name,
		mask(c.Database.Password), mask(c.Database.URL))
	fmt.Fprintf(&b, "Import: {BatchSize: %d, OnError: %q, Progress: %v}, ",
		c.Import.BatchSize, c.Import.OnError, c.Import.Progress)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return `""`
	}
	return "[MASKED]"
}
