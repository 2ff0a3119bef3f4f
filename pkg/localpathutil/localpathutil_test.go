// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package localpathutil

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestExpand(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	assert.NilError(t, err)

	got, err := Expand("~")
	assert.NilError(t, err)
	assert.Equal(t, homeDir, got)

	got, err = Expand("~/cache")
	assert.NilError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "cache"), got)

	_, err = Expand("")
	assert.ErrorContains(t, err, "empty path")

	_, err = Expand("~foo/bar")
	assert.ErrorContains(t, err, "unexpandable")

	abs, err := Expand("/var/cache")
	assert.NilError(t, err)
	assert.Equal(t, "/var/cache", abs)
}
