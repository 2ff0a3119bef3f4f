// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQueryCommand() *cobra.Command {
	queryCommand := &cobra.Command{
		Use:               "query SOQL",
		Short:             "Run a SOQL query against an org",
		Args:              cobra.ExactArgs(1),
		RunE:              queryAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	queryCommand.Flags().StringP("target-org", "o", "", "Org ID or alias")
	_ = queryCommand.MarkFlagRequired("target-org")
	queryCommand.Flags().Bool("use-tooling-api", false, "Query the Tooling API instead of the data API")
	return queryCommand
}

func queryAction(cmd *cobra.Command, args []string) error {
	orgID, err := cmd.Flags().GetString("target-org")
	if err != nil {
		return err
	}
	useToolingAPI, err := cmd.Flags().GetBool("use-tooling-api")
	if err != nil {
		return err
	}
	exec, err := newExecutor(cmd)
	if err != nil {
		return err
	}
	res, err := exec.Query(cmd.Context(), args[0], orgID, useToolingAPI)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
	return nil
}
