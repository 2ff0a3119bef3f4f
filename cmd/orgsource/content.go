// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chenchenick/orgsource/pkg/orgsync"
)

func newContentCommand() *cobra.Command {
	contentCommand := &cobra.Command{
		Use:               "content FILE",
		Short:             "Print the cached content of a retrieved file (path relative to the org's source root)",
		Args:              cobra.ExactArgs(1),
		RunE:              contentAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	contentCommand.Flags().StringP("target-org", "o", "", "Org ID or alias")
	_ = contentCommand.MarkFlagRequired("target-org")
	return contentCommand
}

func contentAction(cmd *cobra.Command, args []string) error {
	orgID, err := cmd.Flags().GetString("target-org")
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	ref := orgsync.FileRef{OrgID: orgID}
	if localPath, ok := orch.Cached(orgID); ok {
		ref.LocalPath = filepath.Join(localPath, args[0])
	}
	content, err := orch.FileContent(ref)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), content)
	return nil
}
