// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package sfcli

import (
	"context"
	"fmt"
)

// Convenience operations. Each assembles a validated CommandSpec for the
// configured binary and delegates to Run. Output is returned as opaque
// text; callers parse it (or not) themselves.

// ListOrgs lists the orgs known to the CLI.
func (e *Executor) ListOrgs(ctx context.Context) (*Result, error) {
	spec, err := e.Command(e.cfg.Binary, []string{"org", "list"}, []string{"--json"})
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, spec)
}

// ListMetadata lists the metadata members of the given type in the org.
func (e *Executor) ListMetadata(ctx context.Context, metadataType, orgID string) (*Result, error) {
	if err := ValidateMetadataType(metadataType); err != nil {
		return nil, err
	}
	if err := ValidateOrgID(orgID); err != nil {
		return nil, err
	}
	spec, err := e.Command(e.cfg.Binary,
		[]string{"org", "list", "metadata"},
		[]string{"--metadata-type", metadataType, "--target-org", orgID, "--json"})
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, spec)
}

// Query runs a bounded SOQL query against the org.
func (e *Executor) Query(ctx context.Context, soql, orgID string, useToolingAPI bool) (*Result, error) {
	if err := e.cfg.ValidateQuery(soql); err != nil {
		return nil, err
	}
	if err := ValidateOrgID(orgID); err != nil {
		return nil, err
	}
	args := []string{"--query", soql, "--target-org", orgID}
	if useToolingAPI {
		args = append(args, "--use-tooling-api")
	}
	args = append(args, "--json")
	spec, err := e.Command(e.cfg.Binary, []string{"data", "query"}, args)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, spec)
}

// RetrieveSource retrieves the source described by the manifest into the
// project directory. Bulk retrieval is long-running, so it gets the
// retrieve timeout rather than the default one.
func (e *Executor) RetrieveSource(ctx context.Context, projectDir, manifestPath, orgID string) (*Result, error) {
	if err := ValidateOrgID(orgID); err != nil {
		return nil, err
	}
	if err := e.cfg.ValidateLocalPath(manifestPath); err != nil {
		return nil, err
	}
	spec, err := e.Command(e.cfg.Binary,
		[]string{"project", "retrieve", "start"},
		[]string{"--manifest", manifestPath, "--target-org", orgID, "--json"},
		WithWorkDir(projectDir),
		WithTimeout(e.cfg.RetrieveTimeout))
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, spec)
}

// Describe returns the shape of the named sobject type.
func (e *Executor) Describe(ctx context.Context, typeName, orgID string) (*Result, error) {
	if err := ValidateMetadataType(typeName); err != nil {
		return nil, err
	}
	if err := ValidateOrgID(orgID); err != nil {
		return nil, err
	}
	spec, err := e.Command(e.cfg.Binary,
		[]string{"sobject", "describe"},
		[]string{"--sobject", typeName, "--target-org", orgID, "--json"})
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, spec)
}

// CheckAvailable probes whether the trusted binary is reachable at all,
// under the short probe timeout. A nil error means the binary responded
// to --version.
func (e *Executor) CheckAvailable(ctx context.Context, program string) error {
	spec, err := e.Command(program, nil, []string{"--version"}, WithTimeout(e.cfg.ProbeTimeout))
	if err != nil {
		return err
	}
	if _, err := e.Run(ctx, spec); err != nil {
		return fmt.Errorf("%q is not available: %w", program, err)
	}
	return nil
}
