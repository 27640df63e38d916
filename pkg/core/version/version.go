// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     version
// Description: Central version information for the CLI and the server
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Application version
	Application = "0.1.0"

	// Language is the version of the accepted source language subset
	Language = "1.0.0"

	// HistorySchema is the run history database schema version
	HistorySchema = 1

	// Protocol is the websocket message protocol version
	Protocol = "1"
)

// Commit is set at build time via -ldflags "-X .../version.Commit=..."
var Commit = "dev"

// Info is the structured version report
type Info struct {
	Application string `json:"application" yaml:"application"`
	Language    string `json:"language" yaml:"language"`
	Protocol    string `json:"protocol" yaml:"protocol"`
	Schema      int    `json:"history_schema" yaml:"history_schema"`
	Commit      string `json:"commit" yaml:"commit"`
	GoVersion   string `json:"go_version" yaml:"go_version"`
}

// Get returns the version report of this build
func Get() Info {
	return Info{
		Application: Application,
		Language:    Language,
		Protocol:    Protocol,
		Schema:      HistorySchema,
		Commit:      Commit,
		GoVersion:   runtime.Version(),
	}
}

// String renders "minipas 0.1.0 (commit dev, go1.23)"
func (i Info) String() string {
	return fmt.Sprintf("minipas %s (commit %s, %s)", i.Application, i.Commit, i.GoVersion)
}
