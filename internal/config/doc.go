// Package config provides configuration structures and utilities for retester.
// It defines the options shared by every command, the optional .retester
// settings file, and the YAML suite files that bundle many test requests.
package config
