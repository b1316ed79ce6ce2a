// Package config handles client configuration loading and validation.
//
// Configuration is read from a YAML file and validated using struct
// tags. Environment variables override file values so the API key can
// stay out of checked-in files.
package config
