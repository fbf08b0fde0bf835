// Package config provides configuration loading, merging, and validation
// facilities for the portal runtime.
//
// Configuration is assembled from multiple sources. Earlier sources win for
// non-zero fields:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetStructuredConfig] and [Load].
package config
