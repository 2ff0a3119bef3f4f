// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package orgyaml

import (
	"fmt"
	"slices"
	"time"

	"github.com/chenchenick/orgsource/pkg/sfcli"
)

// Validate checks a filled OrgYAML.
func Validate(y OrgYAML) error {
	d := sfcli.DefaultConfig()
	if !slices.Contains(d.AllowedPrograms, y.Binary) {
		return fmt.Errorf("field `binary` must be one of %v, got %q", d.AllowedPrograms, y.Binary)
	}
	if err := sfcli.ValidateAPIVersion(y.APIVersion); err != nil {
		return fmt.Errorf("field `apiVersion`: %w", err)
	}
	for _, field := range []struct {
		name, value string
	}{
		{"timeout", y.Timeout},
		{"retrieveTimeout", y.RetrieveTimeout},
		{"probeTimeout", y.ProbeTimeout},
		{"terminationGrace", y.TerminationGrace},
	} {
		dur, err := time.ParseDuration(field.value)
		if err != nil {
			return fmt.Errorf("field `%s`: %w", field.name, err)
		}
		if dur <= 0 {
			return fmt.Errorf("field `%s` must be positive, got %q", field.name, field.value)
		}
	}
	if y.MaxArgLength < 0 {
		return fmt.Errorf("field `maxArgLength` must not be negative, got %d", y.MaxArgLength)
	}
	if y.MaxQueryLength < 0 {
		return fmt.Errorf("field `maxQueryLength` must not be negative, got %d", y.MaxQueryLength)
	}
	for _, name := range y.MetadataTypes {
		if err := sfcli.ValidateMetadataType(name); err != nil {
			return fmt.Errorf("field `metadataTypes`: %w", err)
		}
	}
	return nil
}
