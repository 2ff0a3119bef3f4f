// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMetadataCommand() *cobra.Command {
	metadataCommand := &cobra.Command{
		Use:               "metadata TYPE",
		Short:             "List metadata members of the given type in an org",
		Args:              cobra.ExactArgs(1),
		RunE:              metadataAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	metadataCommand.Flags().StringP("target-org", "o", "", "Org ID or alias")
	_ = metadataCommand.MarkFlagRequired("target-org")
	return metadataCommand
}

func metadataAction(cmd *cobra.Command, args []string) error {
	orgID, err := cmd.Flags().GetString("target-org")
	if err != nil {
		return err
	}
	exec, err := newExecutor(cmd)
	if err != nil {
		return err
	}
	res, err := exec.ListMetadata(cmd.Context(), args[0], orgID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
	return nil
}
