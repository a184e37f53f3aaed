// Package testdb opens and resets the external databases used by the
// integration-tagged store tests. A helper whose TRANSIT_TEST_* variable is
// unset skips the calling test locally and fails it in CI or when
// TRANSIT_REQUIRE_INTEGRATION is set.
package testdb
