// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package sfcli

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the executor.
// Callers dispatch with errors.Is; the wrapped message names the offending
// program, token, argument, or field.
var (
	// ErrSecurity indicates a disallowed program or subcommand, or an
	// argument matching a suspicious pattern. Never retried, never
	// downgraded: it means either a caller bug or an injection attempt.
	ErrSecurity = errors.New("security violation")

	// ErrValidation indicates a malformed identifier, API version, query,
	// or path. Fatal for the call.
	ErrValidation = errors.New("validation failed")

	// ErrSpawn indicates the OS could not start the process, typically
	// because the trusted binary is missing.
	ErrSpawn = errors.New("failed to spawn process")

	// ErrTimeout indicates the process did not finish within the spec's
	// timeout and was terminated.
	ErrTimeout = errors.New("command timed out")
)

// ExitError is returned when the process ran but exited with a non-zero
// status. Stderr carries the captured diagnostic output.
type ExitError struct {
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command exited with status %d", e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
