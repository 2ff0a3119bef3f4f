// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package lockutil

import (
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"
	"gotest.tools/v3/assert"
)

func TestWithDirLock(t *testing.T) {
	dir := t.TempDir()

	// The lock serializes the critical section; with it held, counter
	// increments cannot interleave.
	var counter int
	var eg errgroup.Group
	for range 16 {
		eg.Go(func() error {
			return WithDirLock(dir, func() error {
				counter++
				return nil
			})
		})
	}
	assert.NilError(t, eg.Wait())
	assert.Equal(t, 16, counter)
}

func TestWithDirLockPropagatesError(t *testing.T) {
	dir := t.TempDir()
	errTest := errors.New("test error")
	assert.ErrorIs(t, WithDirLock(dir, func() error { return errTest }), errTest)
}

func TestWithDirLockMissingDir(t *testing.T) {
	err := WithDirLock(t.TempDir()+"/nonexistent", func() error { return nil })
	assert.Assert(t, err != nil)
}
