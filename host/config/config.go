// Package config loads kbcfg settings from a TOML file, KBHOOKS_*
// environment variables and command line flags, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"kbhooks/host/logging"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "KBHOOKS_"

// Options are the configurator settings. Field names map to flags
// ("TimeoutMs" -> "timeout-ms") unless a flag tag names the flag.
type Options struct {
	Config string

	Transport string `toml:"device.transport" env:"TRANSPORT"`
	Device    string `toml:"device.path" env:"DEVICE"`
	Baud      int    `toml:"device.baud" env:"BAUD"`
	TimeoutMs int    `toml:"device.timeout_ms" env:"TIMEOUT_MS"`

	VendorID  int `toml:"hid.vendor_id" env:"HID_VENDOR_ID" flag:"vid"`
	ProductID int `toml:"hid.product_id" env:"HID_PRODUCT_ID" flag:"pid"`

	BufferSlots int    `toml:"keymap.buffer_slots" env:"BUFFER_SLOTS"`
	SimState    string `toml:"sim.state" env:"SIM_STATE"`

	LoggingLevel  string `toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `toml:"logging.format" env:"LOGGING_FORMAT"`
}

// Defaults returns the built-in settings.
func Defaults() Options {
	return Options{
		Config:        "kbcfg.toml",
		Transport:     "serial",
		Device:        "/dev/ttyACM0",
		Baud:          115200,
		TimeoutMs:     2000,
		VendorID:      0x3434,
		BufferSlots:   2,
		LoggingLevel:  "info",
		LoggingFormat: "text",
	}
}

// Logging returns the logging section of the options.
func (o *Options) Logging() logging.Config {
	return logging.Config{Level: o.LoggingLevel, Format: o.LoggingFormat}
}

// LoadConfig loads configuration with proper precedence: CLI args > env vars > config file.
// If cmd is provided, flags explicitly set via CLI will not be overwritten.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()

	changedFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changedFlags[f.Name] = true
			}
		})
	}

	var configPath string
	if f := v.FieldByName("Config"); f.IsValid() {
		configPath = f.String()
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			var config map[string]any
			if err := toml.Unmarshal(data, &config); err != nil {
				return fmt.Errorf("failed to parse TOML config: %w", err)
			}
			for i := 0; i < v.NumField(); i++ {
				fieldType := t.Field(i)
				if changedFlags[flagName(fieldType)] {
					continue
				}
				if tomlPath := fieldType.Tag.Get("toml"); tomlPath != "" {
					if value := getNestedValue(config, tomlPath); value != nil {
						setFieldValue(v.Field(i), value)
					}
				}
			}
		case !os.IsNotExist(err):
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)
		if changedFlags[flagName(fieldType)] {
			continue
		}
		if envKey := fieldType.Tag.Get("env"); envKey != "" {
			if envValue := os.Getenv(EnvPrefix + envKey); envValue != "" {
				setFieldValueFromString(v.Field(i), envValue)
			}
		}
	}

	return nil
}

func flagName(f reflect.StructField) string {
	if name := f.Tag.Get("flag"); name != "" {
		return name
	}
	return fieldNameToFlag(f.Name)
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "LoggingLevel" -> "logging-level", "Device" -> "device".
func fieldNameToFlag(fieldName string) string {
	var result []rune
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '-')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// getNestedValue retrieves a value from nested map using dot notation.
func getNestedValue(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data

	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

// setFieldValue sets a field from a decoded TOML value.
func setFieldValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		switch i := value.(type) {
		case int64:
			field.SetInt(i)
		case int:
			field.SetInt(int64(i))
		}
	}
}

// setFieldValueFromString sets a field value from string (for env vars).
// Integers accept 0x-prefixed hex.
func setFieldValueFromString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, err := strconv.ParseInt(value, 0, 64); err == nil {
			field.SetInt(i)
		}
	}
}
