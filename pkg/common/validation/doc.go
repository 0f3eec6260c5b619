// Package validation provides common validation utilities for configuration
// parameters across the proxyflow library.
//
// Each helper returns a *errors.ValidationError naming the module and field,
// so callers can surface consistent messages from constructors and config
// loaders.
package validation
