// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package sfcli

import "time"

// Config is the immutable policy for the executor. It is supplied at
// construction; the executor holds no other state.
type Config struct {
	// Binary is the program used by the convenience operations.
	// It must be a member of AllowedPrograms.
	Binary string

	// AllowedPrograms is the closed set of binaries that may be spawned.
	AllowedPrograms []string

	// AllowedTokens is the closed set of subcommand verbs and nouns.
	// Unknown tokens are rejected, not escaped.
	AllowedTokens []string

	// AllowedWorkDirRoots restricts CommandSpec working directories and
	// local file arguments such as manifest paths. Empty means no local
	// path passes validation at all.
	AllowedWorkDirRoots []string

	// ForbiddenPaths are substrings that fail the suspicious-content scan,
	// e.g. sensitive filesystem roots.
	ForbiddenPaths []string

	// MaxArgLength bounds a single sanitized argument.
	MaxArgLength int

	// MaxQueryLength bounds a SOQL query string.
	MaxQueryLength int

	// DefaultTimeout applies to ordinary commands.
	DefaultTimeout time.Duration

	// RetrieveTimeout applies to bulk source retrieval, which is
	// long-running compared to ordinary commands.
	RetrieveTimeout time.Duration

	// ProbeTimeout applies to the availability probe.
	ProbeTimeout time.Duration

	// TerminationGrace is the window between SIGTERM and SIGKILL.
	TerminationGrace time.Duration
}

// DefaultConfig returns the policy for the Salesforce CLI.
func DefaultConfig() Config {
	return Config{
		Binary:          "sf",
		AllowedPrograms: []string{"sf", "sfdx"},
		AllowedTokens: []string{
			"org", "list", "metadata", "data", "query",
			"project", "retrieve", "start", "sobject", "describe",
		},
		ForbiddenPaths: []string{
			"/etc/", "/dev/", "/proc/", "/sys/", "/boot/",
			"C:\\Windows", "C:\\Program Files",
		},
		MaxArgLength:     4096,
		MaxQueryLength:   4096,
		DefaultTimeout:   30 * time.Second,
		RetrieveTimeout:  5 * time.Minute,
		ProbeTimeout:     5 * time.Second,
		TerminationGrace: 3 * time.Second,
	}
}

func (c *Config) fillDefault() {
	d := DefaultConfig()
	if c.Binary == "" {
		c.Binary = d.Binary
	}
	if c.AllowedPrograms == nil {
		c.AllowedPrograms = d.AllowedPrograms
	}
	if c.AllowedTokens == nil {
		c.AllowedTokens = d.AllowedTokens
	}
	if c.ForbiddenPaths == nil {
		c.ForbiddenPaths = d.ForbiddenPaths
	}
	if c.MaxArgLength == 0 {
		c.MaxArgLength = d.MaxArgLength
	}
	if c.MaxQueryLength == 0 {
		c.MaxQueryLength = d.MaxQueryLength
	}
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = d.DefaultTimeout
	}
	if c.RetrieveTimeout == 0 {
		c.RetrieveTimeout = d.RetrieveTimeout
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = d.ProbeTimeout
	}
	if c.TerminationGrace == 0 {
		c.TerminationGrace = d.TerminationGrace
	}
}
