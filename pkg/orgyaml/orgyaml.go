// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

// Package orgyaml defines the YAML configuration consumed by the executor
// and the orchestrator. The core does not own these values; they are
// externally supplied constants.
package orgyaml

type OrgYAML struct {
	// Binary is the trusted CLI to invoke: "sf" or "sfdx".
	Binary string `yaml:"binary,omitempty"`

	// CacheDir is the root of the on-disk source cache. "~" is expanded.
	CacheDir string `yaml:"cacheDir,omitempty"`

	// APIVersion is the source API version, e.g. "64.0".
	APIVersion string `yaml:"apiVersion,omitempty"`

	// Timeout applies to ordinary commands. time.Duration string.
	Timeout string `yaml:"timeout,omitempty"`

	// RetrieveTimeout applies to bulk source retrieval.
	RetrieveTimeout string `yaml:"retrieveTimeout,omitempty"`

	// ProbeTimeout applies to the availability probe.
	ProbeTimeout string `yaml:"probeTimeout,omitempty"`

	// TerminationGrace is the window between the graceful termination
	// signal and the forceful kill.
	TerminationGrace string `yaml:"terminationGrace,omitempty"`

	// MaxArgLength bounds a single command argument.
	MaxArgLength int `yaml:"maxArgLength,omitempty"`

	// MaxQueryLength bounds a SOQL query.
	MaxQueryLength int `yaml:"maxQueryLength,omitempty"`

	// MetadataTypes lists the manifest types to retrieve. Empty means the
	// built-in default set.
	MetadataTypes []string `yaml:"metadataTypes,omitempty"`

	// ForbiddenPaths are appended to the built-in set of sensitive
	// filesystem roots rejected in arguments.
	ForbiddenPaths []string `yaml:"forbiddenPaths,omitempty"`
}
