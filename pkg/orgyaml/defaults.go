// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package orgyaml

import (
	"github.com/chenchenick/orgsource/pkg/sfcli"
)

// FillDefault fills unset fields from the built-in policy.
func FillDefault(y *OrgYAML) {
	d := sfcli.DefaultConfig()
	if y.Binary == "" {
		y.Binary = d.Binary
	}
	if y.APIVersion == "" {
		y.APIVersion = "64.0"
	}
	if y.Timeout == "" {
		y.Timeout = d.DefaultTimeout.String()
	}
	if y.RetrieveTimeout == "" {
		y.RetrieveTimeout = d.RetrieveTimeout.String()
	}
	if y.ProbeTimeout == "" {
		y.ProbeTimeout = d.ProbeTimeout.String()
	}
	if y.TerminationGrace == "" {
		y.TerminationGrace = d.TerminationGrace.String()
	}
	if y.MaxArgLength == 0 {
		y.MaxArgLength = d.MaxArgLength
	}
	if y.MaxQueryLength == 0 {
		y.MaxQueryLength = d.MaxQueryLength
	}
}
