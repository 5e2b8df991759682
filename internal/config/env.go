package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// LoadEnv loads environment variables into the config struct
// It uses struct tags to determine which environment variables to load
func LoadEnv(config *AppConfig) error {
	log.Debug().Msg("Loading environment variables")

	// Process AppSettings
	if err := processStructEnv(&config.App); err != nil {
		return err
	}

	// Process DatabaseSettings
	if err := processStructEnv(&config.Database); err != nil {
		return err
	}

	// Process the local database target. Its struct reuses the DB_* env tags,
	// so the values are read explicitly from the DB_LOCAL_* variables instead.
	if err := processLocalDatabaseEnv(&config.LocalDatabase); err != nil {
		return err
	}

	// Process ServerSettings
	if err := processStructEnv(&config.Server); err != nil {
		return err
	}

	// Process JWTSettings
	if err := processStructEnv(&config.JWT); err != nil {
		return err
	}

	// Process GoogleOAuthSettings
	if err := processStructEnv(&config.GoogleOAuth); err != nil {
		return err
	}

	// Process AdminSettings
	if err := processStructEnv(&config.Admin); err != nil {
		return err
	}

	// Process CacheSettings
	if err := processStructEnv(&config.Cache); err != nil {
		return err
	}

	// Process LoggingSettings
	if err := processStructEnv(&config.Logging); err != nil {
		return err
	}

	// Process CORSSettings
	if err := processStructEnv(&config.CORS); err != nil {
		return err
	}

	return nil
}

// processLocalDatabaseEnv reads the DB_LOCAL_* variables for the second
// table browser target.
func processLocalDatabaseEnv(settings *DatabaseSettings) error {
	if host, ok := os.LookupEnv("DB_LOCAL_HOST"); ok {
		settings.Host = host
	}
	if portStr, ok := os.LookupEnv("DB_LOCAL_PORT"); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid integer for DB_LOCAL_PORT: %w", err)
		}
		settings.Port = port
	}
	if name, ok := os.LookupEnv("DB_LOCAL_NAME"); ok {
		settings.Name = name
	}
	if user, ok := os.LookupEnv("DB_LOCAL_USER"); ok {
		settings.User = user
	}
	if password, ok := os.LookupEnv("DB_LOCAL_PASSWORD"); ok {
		settings.Password = password
	}
	if sslMode, ok := os.LookupEnv("DB_LOCAL_SSL_MODE"); ok {
		settings.SSLMode = sslMode
	}
	return nil
}

// processStructEnv processes environment variables for a struct
func processStructEnv(s interface{}) error {
	val := reflect.ValueOf(s).Elem()
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		// Skip if not settable
		if !fieldVal.CanSet() {
			continue
		}

		// Get the environment variable name from the tag
		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		// Get the environment variable value
		envValue, exists := os.LookupEnv(envName)
		if !exists {
			continue
		}

		// Set the field value based on its type
		switch fieldVal.Kind() {
		case reflect.String:
			fieldVal.SetString(envValue)

		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if field.Type == reflect.TypeOf(time.Duration(0)) {
				// Handle time.Duration separately
				duration, err := time.ParseDuration(envValue)
				if err != nil {
					return fmt.Errorf("invalid duration for %s: %w", envName, err)
				}
				fieldVal.Set(reflect.ValueOf(duration))
			} else {
				// Regular int types
				intValue, err := strconv.ParseInt(envValue, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid integer for %s: %w", envName, err)
				}
				fieldVal.SetInt(intValue)
			}

		case reflect.Bool:
			boolValue, err := strconv.ParseBool(envValue)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", envName, err)
			}
			fieldVal.SetBool(boolValue)

		case reflect.Slice:
			// Handle slice types (only string slices supported for now)
			if fieldVal.Type().Elem().Kind() == reflect.String {
				values := strings.Split(envValue, ",")
				// Trim whitespace from each value
				for i, v := range values {
					values[i] = strings.TrimSpace(v)
				}
				fieldVal.Set(reflect.ValueOf(values))
			}

		default:
			// Skip unsupported types
		}
	}

	return nil
}
