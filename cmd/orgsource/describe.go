// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDescribeCommand() *cobra.Command {
	describeCommand := &cobra.Command{
		Use:               "describe SOBJECT",
		Short:             "Describe the shape of an sobject type",
		Args:              cobra.ExactArgs(1),
		RunE:              describeAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	describeCommand.Flags().StringP("target-org", "o", "", "Org ID or alias")
	_ = describeCommand.MarkFlagRequired("target-org")
	return describeCommand
}

func describeAction(cmd *cobra.Command, args []string) error {
	orgID, err := cmd.Flags().GetString("target-org")
	if err != nil {
		return err
	}
	exec, err := newExecutor(cmd)
	if err != nil {
		return err
	}
	res, err := exec.Describe(cmd.Context(), args[0], orgID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
	return nil
}
