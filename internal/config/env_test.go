package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadEnv(t *testing.T) {
	// Set environment variables for testing
	os.Setenv("APP_ENV", "test-env")
	os.Setenv("APP_NAME", "test-app")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("DB_HOST", "test-db-host")
	os.Setenv("DB_LOCAL_HOST", "local-db-host")
	os.Setenv("DB_LOCAL_PORT", "5433")
	os.Setenv("JWT_EXPIRY", "30m")
	os.Setenv("ALLOWED_ORIGINS", "https://example.com,https://api.example.com")
	os.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	// Clean up after the test
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("APP_NAME")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_LOCAL_HOST")
		os.Unsetenv("DB_LOCAL_PORT")
		os.Unsetenv("JWT_EXPIRY")
		os.Unsetenv("ALLOWED_ORIGINS")
		os.Unsetenv("CORS_ALLOW_CREDENTIALS")
	}()

	// Create config
	config := &AppConfig{}

	// Load environment variables
	err := LoadEnv(config)
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	// Check that environment variables were loaded
	if config.App.Environment != "test-env" {
		t.Errorf("Expected App.Environment = %s, got %s", "test-env", config.App.Environment)
	}

	if config.App.Name != "test-app" {
		t.Errorf("Expected App.Name = %s, got %s", "test-app", config.App.Name)
	}

	if config.Server.Port != 9090 {
		t.Errorf("Expected Server.Port = %d, got %d", 9090, config.Server.Port)
	}

	if config.Database.Host != "test-db-host" {
		t.Errorf("Expected Database.Host = %s, got %s", "test-db-host", config.Database.Host)
	}

	// The local target reads DB_LOCAL_* and must not inherit DB_* values
	if config.LocalDatabase.Host != "local-db-host" {
		t.Errorf("Expected LocalDatabase.Host = %s, got %s", "local-db-host", config.LocalDatabase.Host)
	}

	if config.LocalDatabase.Port != 5433 {
		t.Errorf("Expected LocalDatabase.Port = %d, got %d", 5433, config.LocalDatabase.Port)
	}

	if config.JWT.Expiry != 30*time.Minute {
		t.Errorf("Expected JWT.Expiry = %v, got %v", 30*time.Minute, config.JWT.Expiry)
	}

	if len(config.CORS.AllowedOrigins) != 2 ||
		config.CORS.AllowedOrigins[0] != "https://example.com" ||
		config.CORS.AllowedOrigins[1] != "https://api.example.com" {
		t.Errorf("Expected CORS.AllowedOrigins = %v, got %v",
			[]string{"https://example.com", "https://api.example.com"},
			config.CORS.AllowedOrigins)
	}

	if !config.CORS.AllowCredentials {
		t.Errorf("Expected CORS.AllowCredentials = %v, got %v", true, config.CORS.AllowCredentials)
	}
}

func TestProcessLocalDatabaseEnv(t *testing.T) {
	os.Setenv("DB_LOCAL_NAME", "promesto_local")
	os.Setenv("DB_LOCAL_USER", "local_user")
	os.Setenv("DB_LOCAL_SSL_MODE", "disable")

	defer func() {
		os.Unsetenv("DB_LOCAL_NAME")
		os.Unsetenv("DB_LOCAL_USER")
		os.Unsetenv("DB_LOCAL_SSL_MODE")
	}()

	settings := &DatabaseSettings{}
	if err := processLocalDatabaseEnv(settings); err != nil {
		t.Fatalf("processLocalDatabaseEnv() error = %v", err)
	}

	if settings.Name != "promesto_local" {
		t.Errorf("Expected Name = %s, got %s", "promesto_local", settings.Name)
	}

	if settings.User != "local_user" {
		t.Errorf("Expected User = %s, got %s", "local_user", settings.User)
	}

	if settings.SSLMode != "disable" {
		t.Errorf("Expected SSLMode = %s, got %s", "disable", settings.SSLMode)
	}

	t.Run("Invalid port", func(t *testing.T) {
		os.Setenv("DB_LOCAL_PORT", "not-a-port")
		defer os.Unsetenv("DB_LOCAL_PORT")

		if err := processLocalDatabaseEnv(&DatabaseSettings{}); err == nil {
			t.Error("Expected error for invalid DB_LOCAL_PORT, got nil")
		}
	})
}

func TestProcessStructEnv(t *testing.T) {
	// Define a test struct
	type TestStruct struct {
		StringField string        `env:"TEST_STRING"`
		IntField    int           `env:"TEST_INT"`
		BoolField   bool          `env:"TEST_BOOL"`
		DurField    time.Duration `env:"TEST_DURATION"`
		StrSlice    []string      `env:"TEST_SLICE"`
		NoEnvTag    string
	}

	// Set environment variables
	os.Setenv("TEST_STRING", "test-value")
	os.Setenv("TEST_INT", "42")
	os.Setenv("TEST_BOOL", "true")
	os.Setenv("TEST_DURATION", "15m")
	os.Setenv("TEST_SLICE", "item1, item2,item3")

	// Clean up
	defer func() {
		os.Unsetenv("TEST_STRING")
		os.Unsetenv("TEST_INT")
		os.Unsetenv("TEST_BOOL")
		os.Unsetenv("TEST_DURATION")
		os.Unsetenv("TEST_SLICE")
	}()

	// Create struct
	testStruct := &TestStruct{}

	// Process environment variables
	err := processStructEnv(testStruct)
	if err != nil {
		t.Fatalf("processStructEnv() error = %v", err)
	}

	// Check values
	if testStruct.StringField != "test-value" {
		t.Errorf("Expected StringField = %s, got %s", "test-value", testStruct.StringField)
	}

	if testStruct.IntField != 42 {
		t.Errorf("Expected IntField = %d, got %d", 42, testStruct.IntField)
	}

	if !testStruct.BoolField {
		t.Errorf("Expected BoolField = %v, got %v", true, testStruct.BoolField)
	}

	if testStruct.DurField != 15*time.Minute {
		t.Errorf("Expected DurField = %v, got %v", 15*time.Minute, testStruct.DurField)
	}

	expectedSlice := []string{"item1", "item2", "item3"}
	if len(testStruct.StrSlice) != len(expectedSlice) {
		t.Errorf("Expected StrSlice length = %d, got %d", len(expectedSlice), len(testStruct.StrSlice))
	} else {
		for i, item := range expectedSlice {
			if testStruct.StrSlice[i] != item {
				t.Errorf("Expected StrSlice[%d] = %s, got %s", i, item, testStruct.StrSlice[i])
			}
		}
	}

	// Field without env tag should be unchanged
	if testStruct.NoEnvTag != "" {
		t.Errorf("Expected NoEnvTag to be empty, got %s", testStruct.NoEnvTag)
	}
}

func TestProcessStructEnvErrors(t *testing.T) {
	tests := []struct {
		name     string
		envName  string
		envValue string
		target   interface{}
	}{
		{
			name:     "Invalid int",
			envName:  "TEST_INT",
			envValue: "not-an-int",
			target: &struct {
				IntField int `env:"TEST_INT"`
			}{},
		},
		{
			name:     "Invalid bool",
			envName:  "TEST_BOOL",
			envValue: "not-a-bool",
			target: &struct {
				BoolField bool `env:"TEST_BOOL"`
			}{},
		},
		{
			name:     "Invalid duration",
			envName:  "TEST_DURATION",
			envValue: "not-a-duration",
			target: &struct {
				DurField time.Duration `env:"TEST_DURATION"`
			}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.envName, tt.envValue)
			defer os.Unsetenv(tt.envName)

			if err := processStructEnv(tt.target); err == nil {
				t.Errorf("processStructEnv() expected error for %s=%s, got nil", tt.envName, tt.envValue)
			}
		})
	}
}
