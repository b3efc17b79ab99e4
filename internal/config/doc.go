// Package config provides configuration loading, merging, and validation
// facilities for the salon server and client.
//
// Configuration is assembled from multiple sources. The first source that
// sets a field wins:
//  1. Environment variables
//  2. Command-line flags
//  3. Config file (JSON, TOML or YAML, chosen by extension)
//  4. Built-in defaults
//
// The main entry points are [GetStructuredConfig] for the server and
// [LoadClientConfig] for the client.
package config
