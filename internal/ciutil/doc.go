// Package ciutil provides utilities for CI and environment-specific functionality.
//
// It centralizes CI detection and the lookup of environment variables that
// have more than one accepted name, so test helpers behave the same way on a
// developer machine and in a pipeline.
package ciutil
