// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package sfcli

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestValidOrgIDs(t *testing.T) {
	for _, input := range []string{
		"00Dxx0000001",
		"00D5f000000ABCDEAQ",
		"my-dev-org",
		"sandbox.staging",
		"org_2024",
		strings.Repeat("a", maxIdentifierLength),
	} {
		t.Run(input, func(t *testing.T) {
			assert.NilError(t, ValidateOrgID(input))
		})
	}
}

func TestInvalidOrgIDs(t *testing.T) {
	for _, input := range []string{
		"",
		"org with spaces",
		"org;id",
		"../etc",
		"-leading-dash",
		"trailing-dash-",
		"双byte",
		strings.Repeat("a", maxIdentifierLength+1),
	} {
		t.Run(input, func(t *testing.T) {
			assert.ErrorIs(t, ValidateOrgID(input), ErrValidation)
		})
	}
}

func TestValidateAPIVersion(t *testing.T) {
	for _, input := range []string{"58.0", "64.0", "100.0"} {
		assert.NilError(t, ValidateAPIVersion(input))
	}
	for _, input := range []string{"", "64", "64.0.1", "v64.0", "6.0"} {
		assert.ErrorIs(t, ValidateAPIVersion(input), ErrValidation)
	}
}

func TestValidateMetadataType(t *testing.T) {
	for _, input := range []string{"ApexClass", "CustomObject", "Custom_Thing"} {
		assert.NilError(t, ValidateMetadataType(input))
	}
	for _, input := range []string{"", "1Class", "Apex Class", "Apex-Class"} {
		assert.ErrorIs(t, ValidateMetadataType(input), ErrValidation)
	}
}

func TestValidateQuery(t *testing.T) {
	cfg := DefaultConfig()
	assert.NilError(t, cfg.ValidateQuery("SELECT Id FROM ApexClass"))
	assert.NilError(t, cfg.ValidateQuery("select Name from CustomObject"))
	// Any whitespace may follow the keyword.
	assert.NilError(t, cfg.ValidateQuery("SELECT\nId\nFROM ApexClass"))
	assert.NilError(t, cfg.ValidateQuery("SELECT\tId FROM ApexClass"))

	assert.ErrorIs(t, cfg.ValidateQuery(""), ErrValidation)
	assert.ErrorContains(t, cfg.ValidateQuery("DELETE FROM ApexClass"), "must begin with SELECT")
	assert.ErrorContains(t, cfg.ValidateQuery("UPDATE ApexClass SET Name = NULL"), "must begin with SELECT")

	long := "SELECT " + strings.Repeat("Id, ", cfg.MaxQueryLength/4) + "Id FROM ApexClass"
	assert.ErrorContains(t, cfg.ValidateQuery(long), "maximum length")
}

func TestValidateLocalPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedWorkDirRoots = []string{"/home/user/cache"}
	assert.NilError(t, cfg.ValidateLocalPath("/home/user/cache"))
	assert.NilError(t, cfg.ValidateLocalPath("/home/user/cache/orgs"))
	assert.NilError(t, cfg.ValidateLocalPath("/home/user/cache/orgs/package.xml"))

	assert.ErrorIs(t, cfg.ValidateLocalPath(""), ErrValidation)
	assert.ErrorIs(t, cfg.ValidateLocalPath("relative/path"), ErrValidation)
	assert.ErrorIs(t, cfg.ValidateLocalPath("/home/user/../../etc/passwd"), ErrValidation)
	assert.ErrorContains(t, cfg.ValidateLocalPath("/tmp/elsewhere"), "not under an allowed root")

	// A sibling dir sharing the root as a string prefix is not under it.
	assert.ErrorContains(t, cfg.ValidateLocalPath("/home/user/cache-evil/project"), "not under an allowed root")
	assert.ErrorContains(t, cfg.ValidateLocalPath("/home/user/cachex"), "not under an allowed root")

	// No configured roots means no path passes.
	cfg.AllowedWorkDirRoots = nil
	assert.ErrorContains(t, cfg.ValidateLocalPath("/home/user/cache/orgs"), "not under an allowed root")
}

func TestSanitizeArg(t *testing.T) {
	cfg := DefaultConfig()

	s, err := cfg.sanitizeArg("plain")
	assert.NilError(t, err)
	assert.Equal(t, "plain", s)

	s, err = cfg.sanitizeArg("with\x00null")
	assert.NilError(t, err)
	assert.Equal(t, "withnull", s)

	s, err = cfg.sanitizeArg("line1\r\n\nline2")
	assert.NilError(t, err)
	assert.Equal(t, "line1 line2", s)

	_, err = cfg.sanitizeArg(strings.Repeat("a", cfg.MaxArgLength+1))
	assert.ErrorIs(t, err, ErrSecurity)
}

func TestScanArgSuspiciousContent(t *testing.T) {
	cfg := DefaultConfig()
	for _, input := range []string{
		"a;b", "a&b", "a|b", "a`b", "a$b",
		"a(b", "a)b", "a{b", "a}b", "a[b", "a]b",
		"a<b", "a>b",
		"a&&b", "a||b",
		"../secret",
		"/etc/passwd",
		"rm -rf /",
		"sudo whoami",
	} {
		t.Run(input, func(t *testing.T) {
			assert.ErrorIs(t, cfg.scanArg(input), ErrSecurity)
		})
	}
}

func TestScanArgBenignContent(t *testing.T) {
	cfg := DefaultConfig()
	for _, input := range []string{
		"--json",
		"--metadata-type",
		"ApexClass",
		"00Dxx0000001",
		"SELECT Id FROM ApexClass",
		"/home/user/cache/package.xml",
	} {
		t.Run(input, func(t *testing.T) {
			assert.NilError(t, cfg.scanArg(input))
		})
	}
}
