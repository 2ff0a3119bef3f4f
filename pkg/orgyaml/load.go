// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package orgyaml

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/chenchenick/orgsource/pkg/localpathutil"
	"github.com/chenchenick/orgsource/pkg/orgsync"
	"github.com/chenchenick/orgsource/pkg/sfcli"
)

// Load reads the config from path, fills defaults, and validates. An
// empty path yields the pure defaults; a non-empty path that cannot be
// read is an error, so a mistyped --config never falls back silently.
func Load(path string) (*OrgYAML, error) {
	var y OrgYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.UnmarshalWithOptions(b, &y, yaml.Strict()); err != nil {
			return nil, err
		}
	}
	FillDefault(&y)
	if err := Validate(y); err != nil {
		return nil, err
	}
	return &y, nil
}

// ResolveCacheDir returns the expanded cache root, defaulting to
// "orgsource" under the user cache dir.
func (y *OrgYAML) ResolveCacheDir() (string, error) {
	if y.CacheDir == "" {
		ucd, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(ucd, "orgsource"), nil
	}
	return localpathutil.Expand(y.CacheDir)
}

// ExecutorConfig maps the YAML onto the executor policy. Validate must
// have passed.
func (y *OrgYAML) ExecutorConfig(cacheDir string) sfcli.Config {
	cfg := sfcli.DefaultConfig()
	cfg.Binary = y.Binary
	cfg.MaxArgLength = y.MaxArgLength
	cfg.MaxQueryLength = y.MaxQueryLength
	cfg.DefaultTimeout = mustDuration(y.Timeout)
	cfg.RetrieveTimeout = mustDuration(y.RetrieveTimeout)
	cfg.ProbeTimeout = mustDuration(y.ProbeTimeout)
	cfg.TerminationGrace = mustDuration(y.TerminationGrace)
	cfg.ForbiddenPaths = append(cfg.ForbiddenPaths, y.ForbiddenPaths...)
	if cacheDir != "" {
		cfg.AllowedWorkDirRoots = []string{cacheDir}
	}
	return cfg
}

// OrchestratorConfig maps the YAML onto the orchestrator config.
func (y *OrgYAML) OrchestratorConfig() orgsync.Config {
	return orgsync.Config{
		CacheDir:      y.CacheDir,
		APIVersion:    y.APIVersion,
		MetadataTypes: y.MetadataTypes,
	}
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
