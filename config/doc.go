// Package config loads artifactup client settings from a YAML file.
//
// The file maps 1:1 to the Config struct: registrar endpoint and auth, spool
// directory, retry overrides, transport options and logging. Absent fields
// fall back to the library defaults, and secrets are resolved from the
// environment rather than stored in the file (auth.key_env names the
// variable holding the registrar credential).
//
// Load reads and validates a file; the Retry, Transport, Registrar and
// Logger methods bridge the parsed values into the types the client
// consumes.
package config
