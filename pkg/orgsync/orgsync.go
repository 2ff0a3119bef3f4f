// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

// Package orgsync turns "give me the current source for org X" into a
// cached local directory, doing the minimum external work. Concurrent
// requests for the same org collapse into one underlying retrieval, and
// previously fetched source is served from the on-disk cache until
// explicitly invalidated.
package orgsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/chenchenick/orgsource/pkg/localpathutil"
	"github.com/chenchenick/orgsource/pkg/lockutil"
	"github.com/chenchenick/orgsource/pkg/manifest"
	"github.com/chenchenick/orgsource/pkg/sfcli"
)

// packageDir is the fixed package-directory convention declared in
// sfdx-project.json; the CLI writes retrieved source under it.
const packageDir = "force-app"

type Config struct {
	// CacheDir is the root of the on-disk cache. "~" is expanded.
	CacheDir string

	// APIVersion is the source API version declared in the staged project
	// descriptor and the manifest.
	APIVersion string

	// MetadataTypes lists the manifest types to fetch. Empty falls back to
	// the manifest package's default set.
	MetadataTypes []string
}

// CacheEntry records one successful retrieval. Entries are never mutated
// in place; invalidation removes the entry and its backing directory.
type CacheEntry struct {
	Key       string
	LocalPath string
	CreatedAt time.Time
}

// FileRef identifies one previously retrieved file. LocalPath is empty
// when the file was never retrieved, which is distinct from a recorded
// path that is no longer readable.
type FileRef struct {
	OrgID     string
	LocalPath string
}

// Orchestrator owns the cache directory tree and the in-flight tracking.
// All map mutations go through the mutex; the singleflight group
// guarantees at most one retrieval per key at any instant.
type Orchestrator struct {
	cfg  Config
	exec *sfcli.Executor

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]*CacheEntry
}

func New(cfg Config, exec *sfcli.Executor) (*Orchestrator, error) {
	if cfg.CacheDir == "" {
		ucd, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		cfg.CacheDir = filepath.Join(ucd, "orgsource")
	}
	expanded, err := localpathutil.Expand(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	cfg.CacheDir = expanded
	if cfg.APIVersion == "" {
		cfg.APIVersion = "64.0"
	}
	if err := sfcli.ValidateAPIVersion(cfg.APIVersion); err != nil {
		return nil, err
	}
	for _, name := range cfg.MetadataTypes {
		if err := sfcli.ValidateMetadataType(name); err != nil {
			return nil, err
		}
	}
	return &Orchestrator{
		cfg:     cfg,
		exec:    exec,
		entries: make(map[string]*CacheEntry),
	}, nil
}

// CacheKey returns the cache directory name for an org ID. Validated IDs
// are already path-safe, but hashing keeps the layout uniform and immune
// to future key formats.
func CacheKey(orgID string) string {
	return digest.SHA256.FromString(orgID).Encoded()
}

func (o *Orchestrator) orgDir(orgID string) string {
	return filepath.Join(o.cfg.CacheDir, "orgs", "by-id-sha256", CacheKey(orgID))
}

// Cached returns the cached local path for orgID, if any. Entries persist
// as directory names, so a cache populated by an earlier process is
// rehydrated from disk.
func (o *Orchestrator) Cached(orgID string) (string, bool) {
	o.mu.Lock()
	if e, ok := o.entries[orgID]; ok {
		o.mu.Unlock()
		return e.LocalPath, true
	}
	o.mu.Unlock()
	e := o.loadEntry(orgID)
	if e == nil {
		return "", false
	}
	o.mu.Lock()
	o.entries[orgID] = e
	o.mu.Unlock()
	return e.LocalPath, true
}

// loadEntry rehydrates a cache entry from disk. The "time" file is written
// only after a fully successful retrieval, so its presence distinguishes a
// complete cache entry from the staging leftovers of a failed fetch.
func (o *Orchestrator) loadEntry(orgID string) *CacheEntry {
	orgDir := o.orgDir(orgID)
	b, err := os.ReadFile(filepath.Join(orgDir, "time"))
	if err != nil {
		return nil
	}
	createdAt, err := time.Parse(time.RFC3339, strings.TrimSpace(string(b)))
	if err != nil {
		createdAt = time.Time{}
	}
	return &CacheEntry{
		Key:       orgID,
		LocalPath: filepath.Join(orgDir, "project", packageDir),
		CreatedAt: createdAt,
	}
}

// Retrieve returns the local directory holding the org's source, fetching
// it through the executor on a cache miss. Concurrent calls for the same
// org share one underlying retrieval and observe the same result; a
// failed fetch leaves the org uncached so the next call is a fresh
// attempt, never a cached failure.
func (o *Orchestrator) Retrieve(ctx context.Context, orgID string) (string, error) {
	if err := sfcli.ValidateOrgID(orgID); err != nil {
		return "", err
	}
	if p, ok := o.Cached(orgID); ok {
		return p, nil
	}
	v, err, shared := o.group.Do(orgID, func() (any, error) {
		// Re-check under the group: a fetch that completed while this
		// caller was queueing must not be repeated.
		if p, ok := o.Cached(orgID); ok {
			return p, nil
		}
		return o.fetch(ctx, orgID)
	})
	if err != nil {
		return "", err
	}
	if shared {
		logrus.Debugf("joined in-flight retrieval for org %q", orgID)
	}
	return v.(string), nil
}

// fetch stages the project descriptor, target tree, and manifest, then
// invokes the executor's retrieval under a cross-process lock. The cache
// entry is registered only after full success.
func (o *Orchestrator) fetch(ctx context.Context, orgID string) (string, error) {
	orgDir := o.orgDir(orgID)
	if err := os.MkdirAll(orgDir, 0o700); err != nil {
		return "", err
	}
	var localPath string
	var createdAt time.Time
	err := lockutil.WithDirLock(orgDir, func() error {
		// Another process may have completed the fetch while this one
		// waited on the lock.
		if e := o.loadEntry(orgID); e != nil {
			localPath = e.LocalPath
			createdAt = e.CreatedAt
			return nil
		}
		if err := os.WriteFile(filepath.Join(orgDir, "key"), []byte(orgID), 0o644); err != nil {
			return err
		}
		projectDir := filepath.Join(orgDir, "project")
		if err := stageProject(projectDir, o.cfg.APIVersion); err != nil {
			return err
		}
		manifestPath := filepath.Join(orgDir, "package.xml")
		pkg := manifest.New(o.cfg.APIVersion, o.cfg.MetadataTypes)
		if err := pkg.WriteFile(manifestPath); err != nil {
			return err
		}
		logrus.Infof("Retrieving source for org %q into %q", orgID, projectDir)
		if _, err := o.exec.RetrieveSource(ctx, projectDir, manifestPath, orgID); err != nil {
			return err
		}
		createdAt = time.Now()
		// Written last: its presence marks the entry as complete.
		if err := os.WriteFile(filepath.Join(orgDir, "time"), []byte(createdAt.Format(time.RFC3339)+"\n"), 0o644); err != nil {
			return err
		}
		localPath = filepath.Join(projectDir, packageDir)
		return nil
	})
	if err != nil {
		return "", err
	}
	o.mu.Lock()
	o.entries[orgID] = &CacheEntry{
		Key:       orgID,
		LocalPath: localPath,
		CreatedAt: createdAt,
	}
	o.mu.Unlock()
	return localPath, nil
}

// projectDescriptor is the sfdx-project.json shape the CLI expects.
type projectDescriptor struct {
	PackageDirectories []packageDirectory `json:"packageDirectories"`
	SourceAPIVersion   string             `json:"sourceApiVersion"`
}

type packageDirectory struct {
	Path    string `json:"path"`
	Default bool   `json:"default"`
}

// stageProject writes the project descriptor (only if absent) and ensures
// the target directory tree exists.
func stageProject(projectDir, apiVersion string) error {
	if err := os.MkdirAll(filepath.Join(projectDir, packageDir, "main", "default"), 0o755); err != nil {
		return err
	}
	descriptorPath := filepath.Join(projectDir, "sfdx-project.json")
	if _, err := os.Stat(descriptorPath); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	b, err := json.MarshalIndent(projectDescriptor{
		PackageDirectories: []packageDirectory{{Path: packageDir, Default: true}},
		SourceAPIVersion:   apiVersion,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(descriptorPath, append(b, '\n'), 0o644)
}

// FileContent returns the text of a previously retrieved file. A ref with
// no recorded path is a hard error ("not yet fetched"); a recorded path
// that is absent or unreadable returns empty content so higher layers can
// fall back to a live per-file fetch.
func (o *Orchestrator) FileContent(ref FileRef) (string, error) {
	if ref.LocalPath == "" {
		return "", fmt.Errorf("%w: no local copy recorded for org %q", sfcli.ErrValidation, ref.OrgID)
	}
	b, err := os.ReadFile(ref.LocalPath)
	if err != nil {
		logrus.WithError(err).Warnf("failed to read %q; returning empty content", ref.LocalPath)
		return "", nil
	}
	return string(b), nil
}

// Invalidate removes the org's cache entry and its backing directory.
// Filesystem errors are logged, not propagated: a failed cleanup must
// never block the caller from re-fetching.
func (o *Orchestrator) Invalidate(orgID string) {
	o.mu.Lock()
	delete(o.entries, orgID)
	o.mu.Unlock()
	o.group.Forget(orgID)
	removeBestEffort(o.orgDir(orgID))
}

// CleanupAll removes every cached org and clears all entries and in-flight
// trackers. Intended for shutdown.
func (o *Orchestrator) CleanupAll() {
	o.mu.Lock()
	keys := make([]string, 0, len(o.entries))
	for key := range o.entries {
		keys = append(keys, key)
	}
	o.entries = make(map[string]*CacheEntry)
	o.mu.Unlock()
	for _, key := range keys {
		o.group.Forget(key)
	}
	byID := filepath.Join(o.cfg.CacheDir, "orgs", "by-id-sha256")
	logrus.Infof("Pruning %q", byID)
	removeBestEffort(byID)
}

// Entries returns the cache directories currently on disk, keyed by the
// raw org ID recorded in each directory's "key" file (falling back to the
// hashed directory name).
func (o *Orchestrator) Entries() (map[string]string, error) {
	entries := make(map[string]string)
	byID := filepath.Join(o.cfg.CacheDir, "orgs", "by-id-sha256")
	dirs, err := os.ReadDir(byID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, err
	}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		key := d.Name()
		if b, err := os.ReadFile(filepath.Join(byID, d.Name(), "key")); err == nil {
			key = string(b)
		}
		entries[key] = filepath.Join(byID, d.Name())
	}
	return entries, nil
}

func removeBestEffort(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		logrus.WithError(err).Warnf("failed to remove %q", dir)
	}
}
