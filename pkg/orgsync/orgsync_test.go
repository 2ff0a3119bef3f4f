// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package orgsync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
	"gotest.tools/v3/assert"

	"github.com/chenchenick/orgsource/pkg/sfcli"
)

const testOrgID = "00Dxx0000001"

type fixture struct {
	orch     *Orchestrator
	cacheDir string
	spawns   atomic.Int32
	fail     atomic.Bool
	block    chan struct{}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	cacheDir := t.TempDir()
	f.cacheDir = cacheDir
	exec, err := sfcli.New(
		sfcli.Config{AllowedWorkDirRoots: []string{cacheDir}},
		sfcli.WithSpawnFunc(func(_ context.Context, _ *sfcli.CommandSpec) (*sfcli.Result, error) {
			f.spawns.Add(1)
			if f.block != nil {
				<-f.block
			}
			if f.fail.Load() {
				return nil, &sfcli.ExitError{ExitCode: 1, Stderr: "retrieve failed"}
			}
			return &sfcli.Result{Stdout: "{}"}, nil
		}))
	assert.NilError(t, err)
	f.orch, err = New(Config{CacheDir: cacheDir}, exec)
	assert.NilError(t, err)
	return f
}

func TestRetrieveCachesOnSuccess(t *testing.T) {
	f := newFixture(t)

	p1, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)
	assert.Equal(t, int32(1), f.spawns.Load())
	assert.Equal(t, filepath.Base(p1), packageDir)

	// Repeated request returns the cached path with zero additional
	// invocations.
	p2, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, int32(1), f.spawns.Load())
}

func TestRetrieveStagesProject(t *testing.T) {
	f := newFixture(t)

	p, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)

	projectDir := filepath.Dir(p)
	orgDir := filepath.Dir(projectDir)

	_, err = os.Stat(filepath.Join(projectDir, "sfdx-project.json"))
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(orgDir, "package.xml"))
	assert.NilError(t, err)
	b, err := os.ReadFile(filepath.Join(orgDir, "key"))
	assert.NilError(t, err)
	assert.Equal(t, testOrgID, string(b))
	_, err = os.Stat(filepath.Join(p, "main", "default"))
	assert.NilError(t, err)
}

func TestCacheSurvivesRestart(t *testing.T) {
	f := newFixture(t)

	p1, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)

	// A fresh orchestrator over the same cache dir rehydrates the entry
	// from disk instead of fetching again.
	exec, err := sfcli.New(
		sfcli.Config{AllowedWorkDirRoots: []string{f.cacheDir}},
		sfcli.WithSpawnFunc(func(context.Context, *sfcli.CommandSpec) (*sfcli.Result, error) {
			t.Error("must not spawn for a cache entry persisted on disk")
			return nil, nil
		}))
	assert.NilError(t, err)
	orch2, err := New(Config{CacheDir: f.cacheDir}, exec)
	assert.NilError(t, err)

	p2, err := orch2.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)
	assert.Equal(t, p1, p2)
}

func TestRetrieveRejectsInvalidOrgID(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Retrieve(context.Background(), "org;id")
	assert.ErrorIs(t, err, sfcli.ErrValidation)
	assert.Equal(t, int32(0), f.spawns.Load())
}

func TestConcurrentRetrievesShareOneFetch(t *testing.T) {
	f := newFixture(t)
	f.block = make(chan struct{})

	var eg errgroup.Group
	paths := make([]string, 8)
	for i := range paths {
		eg.Go(func() error {
			p, err := f.orch.Retrieve(context.Background(), testOrgID)
			paths[i] = p
			return err
		})
	}
	// Let all callers queue up behind the in-flight fetch, then release it.
	time.Sleep(100 * time.Millisecond)
	close(f.block)
	assert.NilError(t, eg.Wait())

	assert.Equal(t, int32(1), f.spawns.Load())
	for _, p := range paths[1:] {
		assert.Equal(t, paths[0], p)
	}
}

func TestConcurrentRetrievesShareOneFailure(t *testing.T) {
	f := newFixture(t)
	f.block = make(chan struct{})
	f.fail.Store(true)

	var eg errgroup.Group
	errs := make([]error, 4)
	for i := range errs {
		eg.Go(func() error {
			_, errs[i] = f.orch.Retrieve(context.Background(), testOrgID)
			return nil
		})
	}
	time.Sleep(100 * time.Millisecond)
	close(f.block)
	assert.NilError(t, eg.Wait())

	assert.Equal(t, int32(1), f.spawns.Load())
	var ee *sfcli.ExitError
	for _, err := range errs {
		assert.Assert(t, errors.As(err, &ee), "expected ExitError, got %v", err)
	}
}

func TestFailedRetrieveLeavesOrgUncached(t *testing.T) {
	f := newFixture(t)
	f.fail.Store(true)

	_, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.ErrorContains(t, err, "retrieve failed")
	_, ok := f.orch.Cached(testOrgID)
	assert.Assert(t, !ok)

	// The next request is a fresh attempt, never a cached failure.
	f.fail.Store(false)
	p, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)
	assert.Assert(t, p != "")
	assert.Equal(t, int32(2), f.spawns.Load())
}

func TestInvalidate(t *testing.T) {
	f := newFixture(t)

	p, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)
	orgDir := filepath.Dir(filepath.Dir(p))

	f.orch.Invalidate(testOrgID)
	_, ok := f.orch.Cached(testOrgID)
	assert.Assert(t, !ok)
	_, err = os.Stat(orgDir)
	assert.Assert(t, errors.Is(err, os.ErrNotExist))

	// A subsequent request triggers a fresh fetch.
	_, err = f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)
	assert.Equal(t, int32(2), f.spawns.Load())
}

func TestCleanupAll(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)
	_, err = f.orch.Retrieve(context.Background(), "00Dyy0000002")
	assert.NilError(t, err)

	entries, err := f.orch.Entries()
	assert.NilError(t, err)
	assert.Equal(t, 2, len(entries))

	f.orch.CleanupAll()
	_, ok := f.orch.Cached(testOrgID)
	assert.Assert(t, !ok)
	entries, err = f.orch.Entries()
	assert.NilError(t, err)
	assert.Equal(t, 0, len(entries))
}

func TestEntriesRecordRawOrgID(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Retrieve(context.Background(), testOrgID)
	assert.NilError(t, err)

	entries, err := f.orch.Entries()
	assert.NilError(t, err)
	dir, ok := entries[testOrgID]
	assert.Assert(t, ok)
	assert.Equal(t, filepath.Base(dir), CacheKey(testOrgID))
}

func TestFileContent(t *testing.T) {
	f := newFixture(t)

	// No recorded path at all is a hard error, distinguishing "not yet
	// fetched" from "fetched but unreadable".
	_, err := f.orch.FileContent(FileRef{OrgID: testOrgID})
	assert.ErrorIs(t, err, sfcli.ErrValidation)

	// A recorded but unreadable path returns empty content.
	content, err := f.orch.FileContent(FileRef{OrgID: testOrgID, LocalPath: filepath.Join(t.TempDir(), "gone.cls")})
	assert.NilError(t, err)
	assert.Equal(t, "", content)

	path := filepath.Join(t.TempDir(), "Hello.cls")
	assert.NilError(t, os.WriteFile(path, []byte("public class Hello {}"), 0o644))
	content, err = f.orch.FileContent(FileRef{OrgID: testOrgID, LocalPath: path})
	assert.NilError(t, err)
	assert.Equal(t, "public class Hello {}", content)
}
