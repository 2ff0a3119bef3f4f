// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package sfcli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

const (
	maxIdentifierLength = 80
	alphanum            = `[A-Za-z0-9]+`
	separators          = `[._-]`
)

var (
	// Org identifiers (15/18-character IDs or aliases) must be safe for use
	// as filesystem path components.
	orgIDRe = regexp.MustCompile(reAnchor(alphanum + reGroup(separators+reGroup(alphanum)) + "*"))

	// Versioned API strings like "64.0".
	apiVersionRe = regexp.MustCompile(reAnchor(`[0-9]{2,3}\.[0-9]`))

	// Metadata type names like "ApexClass" or "CustomObject".
	metadataTypeRe = regexp.MustCompile(reAnchor(`[A-Za-z][A-Za-z0-9_]*`))

	// Shell metacharacters and redirection. Arguments matching this are
	// rejected outright, never escaped, so failures are loud.
	shellMetaRe = regexp.MustCompile("[;&|`$(){}\\[\\]<>]")

	// Standalone tokens of common destructive commands.
	destructiveRe = regexp.MustCompile(`(?i)(?:^|[\s/\\._-])(rm|del|mkfs|dd|shutdown|reboot|halt|sudo|chmod|chown)(?:$|[\s/\\._-])`)

	// Runs of CR/LF collapse to a single space to prevent argument
	// smuggling via embedded newlines.
	crlfRe = regexp.MustCompile(`[\r\n]+`)
)

func reGroup(s string) string {
	return `(?:` + s + `)`
}

func reAnchor(s string) string {
	return `^` + s + `$`
}

// ValidateOrgID returns nil if s is a valid org identifier or alias.
func ValidateOrgID(s string) error {
	if s == "" {
		return fmt.Errorf("%w: org identifier must not be empty", ErrValidation)
	}
	if len(s) > maxIdentifierLength {
		return fmt.Errorf("%w: org identifier %q greater than maximum length (%d characters)", ErrValidation, s, maxIdentifierLength)
	}
	if !orgIDRe.MatchString(s) {
		return fmt.Errorf("%w: org identifier %q must match %v", ErrValidation, s, orgIDRe)
	}
	return nil
}

// ValidateAPIVersion returns nil if s is a versioned API string like "64.0".
func ValidateAPIVersion(s string) error {
	if !apiVersionRe.MatchString(s) {
		return fmt.Errorf("%w: API version %q must match %v", ErrValidation, s, apiVersionRe)
	}
	return nil
}

// ValidateMetadataType returns nil if s is a valid metadata type name.
func ValidateMetadataType(s string) error {
	if s == "" {
		return fmt.Errorf("%w: metadata type must not be empty", ErrValidation)
	}
	if len(s) > maxIdentifierLength {
		return fmt.Errorf("%w: metadata type %q greater than maximum length (%d characters)", ErrValidation, s, maxIdentifierLength)
	}
	if !metadataTypeRe.MatchString(s) {
		return fmt.Errorf("%w: metadata type %q must match %v", ErrValidation, s, metadataTypeRe)
	}
	return nil
}

// ValidateQuery returns nil if q is an acceptable SOQL query: it must begin
// with the SELECT keyword and respect the configured maximum length.
// The suspicious-content scan still applies when the query becomes an
// argument.
func (c *Config) ValidateQuery(q string) error {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return fmt.Errorf("%w: query must not be empty", ErrValidation)
	}
	if len(trimmed) > c.MaxQueryLength {
		return fmt.Errorf("%w: query greater than maximum length (%d characters)", ErrValidation, c.MaxQueryLength)
	}
	// Fields splits on any whitespace, so "SELECT\nId" counts too.
	if first := strings.Fields(trimmed)[0]; !strings.EqualFold(first, "SELECT") {
		return fmt.Errorf("%w: query must begin with SELECT", ErrValidation)
	}
	return nil
}

// ValidateLocalPath returns nil if p is an absolute path with no
// parent-directory traversal, under one of the allowed roots. No roots
// configured means no local path is acceptable.
func (c *Config) ValidateLocalPath(p string) error {
	if p == "" {
		return fmt.Errorf("%w: path must not be empty", ErrValidation)
	}
	if strings.Contains(p, "..") {
		return fmt.Errorf("%w: path %q contains parent-directory traversal", ErrValidation, p)
	}
	if !filepath.IsAbs(p) {
		return fmt.Errorf("%w: path %q must be absolute", ErrValidation, p)
	}
	for _, root := range c.AllowedWorkDirRoots {
		// Separator-aware: a sibling dir sharing the root as a string
		// prefix (e.g. "<root>-evil") must not pass.
		if p == root || strings.HasPrefix(p, root+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("%w: path %q is not under an allowed root", ErrValidation, p)
}

func (c *Config) validateProgram(program string) error {
	if !slices.Contains(c.AllowedPrograms, program) {
		return fmt.Errorf("%w: program %q is not in the allow-list %v", ErrSecurity, program, c.AllowedPrograms)
	}
	return nil
}

func (c *Config) validateToken(tok string) error {
	if !slices.Contains(c.AllowedTokens, tok) {
		return fmt.Errorf("%w: subcommand token %q is not in the allow-list", ErrSecurity, tok)
	}
	return nil
}

// sanitizeArg strips NUL bytes, collapses CR/LF runs into a single space,
// and bounds the length. The sanitized argument still has to pass scanArg.
func (c *Config) sanitizeArg(arg string) (string, error) {
	s := strings.ReplaceAll(arg, "\x00", "")
	s = crlfRe.ReplaceAllString(s, " ")
	if len(s) > c.MaxArgLength {
		return "", fmt.Errorf("%w: argument greater than maximum length (%d characters)", ErrSecurity, c.MaxArgLength)
	}
	return s, nil
}

// scanArg rejects arguments containing shell metacharacters, logical
// operators, parent-directory traversal, sensitive filesystem roots, or
// destructive command tokens.
func (c *Config) scanArg(arg string) error {
	if m := shellMetaRe.FindString(arg); m != "" {
		return fmt.Errorf("%w: argument %q contains shell metacharacter %q", ErrSecurity, arg, m)
	}
	if strings.Contains(arg, "&&") || strings.Contains(arg, "||") {
		return fmt.Errorf("%w: argument %q contains a logical operator", ErrSecurity, arg)
	}
	if strings.Contains(arg, "..") {
		return fmt.Errorf("%w: argument %q contains parent-directory traversal", ErrSecurity, arg)
	}
	for _, p := range c.ForbiddenPaths {
		if strings.Contains(arg, p) {
			return fmt.Errorf("%w: argument %q references forbidden path %q", ErrSecurity, arg, p)
		}
	}
	if m := destructiveRe.FindStringSubmatch(arg); m != nil {
		return fmt.Errorf("%w: argument %q contains destructive command token %q", ErrSecurity, arg, m[1])
	}
	return nil
}
