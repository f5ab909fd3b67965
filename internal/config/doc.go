// Package config defines configuration structures for the s3dl CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (S3DL_ prefix)
//   - YAML configuration file
//
// Sources are merged in that order of precedence: flags override
// environment variables, which override the file, which overrides the
// built-in defaults.
package config
