package ciutil

import (
	"log/slog"
	"os"

	"github.com/phrazzld/transit-api/internal/redact"
)

// Common environment variable names used across the codebase.
const (
	// CI environment detection variables
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvTravisCI      = "TRAVIS"
	EnvCircleCI      = "CIRCLECI"

	// Test storage locations. The TRANSIT_ names are preferred.
	EnvTestPostgresURL = "TRANSIT_TEST_POSTGRES_URL"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvTestMongoURI    = "TRANSIT_TEST_MONGO_URI"
	EnvMongoURI        = "MONGODB_URI"

	// EnvRequireIntegration forces integration helpers to fail instead of
	// skip when their storage is not configured, even outside CI.
	EnvRequireIntegration = "TRANSIT_REQUIRE_INTEGRATION"
)

// IsCI returns true if the current environment is a CI environment.
// It checks for common CI environment variables across different CI providers.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != "" ||
		os.Getenv(EnvJenkinsURL) != "" ||
		os.Getenv(EnvTravisCI) != "" ||
		os.Getenv(EnvCircleCI) != ""
}

// IntegrationRequired reports whether missing integration storage should fail
// the run rather than skip it.
func IntegrationRequired() bool {
	return os.Getenv(EnvRequireIntegration) != ""
}

// GetEnvWithFallbacks returns the value of the first non-empty environment variable
// from the provided list. If no environment variables are set, it returns the defaultValue.
// A warning is logged when a name other than the first one supplied the value.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		if val := os.Getenv(envVar); val != "" {
			if i > 0 && logger != nil {
				logger.Warn("using fallback environment variable",
					slog.String("used_var", envVar),
					slog.String("preferred_var", envVars[0]),
					slog.String("value", redact.ConnectionString(val)),
				)
			}
			return val
		}
	}
	return defaultValue
}

// TestPostgresURL returns the PostgreSQL URL for integration tests, or "".
func TestPostgresURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTestPostgresURL, EnvDatabaseURL}, "", logger)
}

// TestMongoURI returns the MongoDB URI for integration tests, or "".
func TestMongoURI(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTestMongoURI, EnvMongoURI}, "", logger)
}
