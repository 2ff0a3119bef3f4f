// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDoctorCommand() *cobra.Command {
	doctorCommand := &cobra.Command{
		Use:               "doctor",
		Short:             "Check whether the trusted Salesforce CLI is reachable",
		Args:              cobra.NoArgs,
		RunE:              doctorAction,
		ValidArgsFunction: cobra.NoFileCompletions,
	}
	return doctorCommand
}

func doctorAction(cmd *cobra.Command, _ []string) error {
	y, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exec, err := newExecutor(cmd)
	if err != nil {
		return err
	}
	if err := exec.CheckAvailable(cmd.Context(), y.Binary); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", y.Binary)
	return nil
}
