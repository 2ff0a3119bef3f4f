// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
)

func newInvalidateCommand() *cobra.Command {
	invalidateCommand := &cobra.Command{
		Use:               "invalidate",
		Short:             "Drop an org's cached source so the next retrieve fetches fresh",
		Args:              cobra.NoArgs,
		RunE:              invalidateAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	invalidateCommand.Flags().StringP("target-org", "o", "", "Org ID or alias")
	_ = invalidateCommand.MarkFlagRequired("target-org")
	return invalidateCommand
}

func invalidateAction(cmd *cobra.Command, _ []string) error {
	orgID, err := cmd.Flags().GetString("target-org")
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	orch.Invalidate(orgID)
	return nil
}
