// Package config provides environment-variable driven configuration for
// weave's demo API server, including the transport Policy flags shared
// by wirejson and wirexml.
package config

import (
	"os"
	"strconv"
	"time"

	"weave/cargo"
)

// Config holds every value the demo server needs. All fields have
// sensible defaults and can be overridden through environment
// variables read by Load.
type Config struct {
	// Server Configuration
	// ====================

	// Port is the HTTP server listening port.
	// Environment: WEAVE_PORT
	// Default: 8085
	Port int

	// HTTPReadTimeout bounds how long the server waits to read a
	// request.
	// Environment: WEAVE_HTTP_READ_TIMEOUT (seconds)
	// Default: 15 seconds
	HTTPReadTimeout time.Duration

	// HTTPWriteTimeout bounds how long the server takes to write a
	// response.
	// Environment: WEAVE_HTTP_WRITE_TIMEOUT (seconds)
	// Default: 15 seconds
	HTTPWriteTimeout time.Duration

	// HTTPIdleTimeout bounds how long a keep-alive connection may sit
	// idle.
	// Environment: WEAVE_HTTP_IDLE_TIMEOUT (seconds)
	// Default: 60 seconds
	HTTPIdleTimeout time.Duration

	// ShutdownTimeout bounds how long graceful shutdown waits for
	// in-flight requests to finish.
	// Environment: WEAVE_SHUTDOWN_TIMEOUT (seconds)
	// Default: 10 seconds
	ShutdownTimeout time.Duration

	// SwaggerHost is the host:port advertised by the OpenAPI document
	// served at /swagger/doc.json.
	// Environment: WEAVE_SWAGGER_HOST
	// Default: "localhost:8085"
	SwaggerHost string

	// LogLevel sets the minimum level logger.Configure applies.
	// Environment: WEAVE_LOG_LEVEL
	// Default: "info"
	LogLevel string

	// AppName identifies this server in logs and responses.
	// Environment: WEAVE_APP_NAME
	// Default: "weave"
	AppName string

	// AppVersion is reported by the health endpoint.
	// Environment: WEAVE_APP_VERSION
	// Default: "1.0.0"
	AppVersion string

	// DocsDir is the directory containing the swagger.json
	// served at /swagger/doc.json.
	// Environment: WEAVE_DOCS_DIR
	// Default: "./docs"
	DocsDir string

	// Transport Policy
	// ================
	//
	// Policy is the default cargo.Policy applied to /v1/encode and
	// /v1/decode requests that do not override it in their body.
	Policy cargo.Policy
}

// Load reads Config from the environment, falling back to defaults for
// anything unset.
func Load() *Config {
	return &Config{
		Port:             getEnvInt("WEAVE_PORT", 8085),
		HTTPReadTimeout:  getEnvSeconds("WEAVE_HTTP_READ_TIMEOUT", 15),
		HTTPWriteTimeout: getEnvSeconds("WEAVE_HTTP_WRITE_TIMEOUT", 15),
		HTTPIdleTimeout:  getEnvSeconds("WEAVE_HTTP_IDLE_TIMEOUT", 60),
		ShutdownTimeout:  getEnvSeconds("WEAVE_SHUTDOWN_TIMEOUT", 10),
		SwaggerHost:      getEnv("WEAVE_SWAGGER_HOST", "localhost:8085"),
		LogLevel:         getEnv("WEAVE_LOG_LEVEL", "info"),
		AppName:          getEnv("WEAVE_APP_NAME", "weave"),
		AppVersion:       getEnv("WEAVE_APP_VERSION", "1.0.0"),
		DocsDir:          getEnv("WEAVE_DOCS_DIR", "./docs"),
		Policy:           policyFromEnv(),
	}
}

// policyFromEnv builds a cargo.Policy from cargo.DefaultPolicy(),
// overridden field-by-field by the WEAVE_POLICY_* booleans.
func policyFromEnv() cargo.Policy {
	p := cargo.DefaultPolicy()
	p.Tabbed = getEnvBool("WEAVE_POLICY_TABBED", p.Tabbed)
	p.LineFeeds = getEnvBool("WEAVE_POLICY_LINE_FEEDS", p.LineFeeds)
	p.Namespaces = getEnvBool("WEAVE_POLICY_NAMESPACES", p.Namespaces)
	p.Prolog = getEnvBool("WEAVE_POLICY_PROLOG", p.Prolog)
	p.UnknownNameSkipped = getEnvBool("WEAVE_POLICY_UNKNOWN_NAME_SKIPPED", p.UnknownNameSkipped)
	p.EveryEntryRequired = getEnvBool("WEAVE_POLICY_EVERY_ENTRY_REQUIRED", p.EveryEntryRequired)
	p.MissingEntryFailed = getEnvBool("WEAVE_POLICY_MISSING_ENTRY_FAILED", p.MissingEntryFailed)
	p.UnknownInstructionSkipped = getEnvBool("WEAVE_POLICY_UNKNOWN_INSTRUCTION_SKIPPED", p.UnknownInstructionSkipped)
	return p
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}
