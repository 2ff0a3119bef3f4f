// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOrgsCommand() *cobra.Command {
	orgsCommand := &cobra.Command{
		Use:               "orgs",
		Aliases:           []string{"list"},
		Short:             "List the orgs known to the Salesforce CLI",
		Args:              cobra.NoArgs,
		RunE:              orgsAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	return orgsCommand
}

func orgsAction(cmd *cobra.Command, _ []string) error {
	exec, err := newExecutor(cmd)
	if err != nil {
		return err
	}
	res, err := exec.ListOrgs(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
	return nil
}
