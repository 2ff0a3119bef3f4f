// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chenchenick/orgsource/pkg/orgsync"
	"github.com/chenchenick/orgsource/pkg/orgyaml"
	"github.com/chenchenick/orgsource/pkg/sfcli"
	"github.com/chenchenick/orgsource/pkg/version"
)

func main() {
	if err := newApp().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func processGlobalFlags(rootCmd *cobra.Command) error {
	// --log-level overrides --debug
	if debug, _ := rootCmd.Flags().GetBool("debug"); debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	l, _ := rootCmd.Flags().GetString("log-level")
	if l != "" {
		lvl, err := logrus.ParseLevel(l)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	}

	logFormat, _ := rootCmd.Flags().GetString("log-format")
	switch logFormat {
	case "json":
		formatter := new(logrus.JSONFormatter)
		logrus.StandardLogger().SetFormatter(formatter)
	case "text":
		// logrus use text format by default.
		if runtime.GOOS == "windows" && isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			formatter := new(logrus.TextFormatter)
			// the default setting does not recognize cygwin on windows
			formatter.ForceColors = true
			logrus.StandardLogger().SetFormatter(formatter)
		}
	default:
		return fmt.Errorf("unsupported log-format: %q", logFormat)
	}
	return nil
}

func newApp() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "orgsource",
		Short:   "orgsource: cached Salesforce org source retrieval",
		Version: strings.TrimPrefix(version.Version, "v"),
		Example: `  List the orgs known to the CLI:
  $ orgsource orgs

  Retrieve (and cache) the source of an org:
  $ orgsource retrieve --target-org my-dev-org

  Run a SOQL query:
  $ orgsource query "SELECT Id, Name FROM ApexClass" --target-org my-dev-org`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to the orgsource YAML config (default: built-in defaults)")
	rootCmd.PersistentFlags().String("log-level", "", "Set the logging level [trace, debug, info, warn, error]")
	rootCmd.PersistentFlags().String("log-format", "text", "Set the logging format [text, json]")
	rootCmd.PersistentFlags().Bool("debug", false, "debug mode")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return processGlobalFlags(cmd.Root())
	}

	rootCmd.AddCommand(
		newOrgsCommand(),
		newMetadataCommand(),
		newQueryCommand(),
		newDescribeCommand(),
		newRetrieveCommand(),
		newContentCommand(),
		newInvalidateCommand(),
		newPruneCommand(),
		newDoctorCommand(),
	)
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*orgyaml.OrgYAML, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	return orgyaml.Load(path)
}

func newExecutor(cmd *cobra.Command) (*sfcli.Executor, error) {
	y, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cacheDir, err := y.ResolveCacheDir()
	if err != nil {
		return nil, err
	}
	return sfcli.New(y.ExecutorConfig(cacheDir))
}

func newOrchestrator(cmd *cobra.Command) (*orgsync.Orchestrator, error) {
	y, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cacheDir, err := y.ResolveCacheDir()
	if err != nil {
		return nil, err
	}
	exec, err := sfcli.New(y.ExecutorConfig(cacheDir))
	if err != nil {
		return nil, err
	}
	return orgsync.New(y.OrchestratorConfig(), exec)
}
