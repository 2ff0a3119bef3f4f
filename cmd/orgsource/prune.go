// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newPruneCommand() *cobra.Command {
	pruneCommand := &cobra.Command{
		Use:               "prune",
		Short:             "Remove all cached org source",
		Args:              cobra.NoArgs,
		RunE:              pruneAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	return pruneCommand
}

func pruneAction(cmd *cobra.Command, _ []string) error {
	orch, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	entries, err := orch.Entries()
	if err != nil {
		return err
	}
	for orgID, dir := range entries {
		logrus.Infof("Removing cached source for org %q (%s)", orgID, dir)
	}
	orch.CleanupAll()
	return nil
}
