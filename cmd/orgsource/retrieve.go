// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRetrieveCommand() *cobra.Command {
	retrieveCommand := &cobra.Command{
		Use:               "retrieve",
		Short:             "Retrieve an org's source into the local cache and print its path",
		Args:              cobra.NoArgs,
		RunE:              retrieveAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	retrieveCommand.Flags().StringP("target-org", "o", "", "Org ID or alias")
	_ = retrieveCommand.MarkFlagRequired("target-org")
	return retrieveCommand
}

func retrieveAction(cmd *cobra.Command, _ []string) error {
	orgID, err := cmd.Flags().GetString("target-org")
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	localPath, err := orch.Retrieve(cmd.Context(), orgID)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), localPath)
	return nil
}
