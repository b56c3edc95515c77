// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pcdshub/wavetools/internal/config"
	"github.com/pcdshub/wavetools/internal/expinfo"
	"github.com/pcdshub/wavetools/internal/shell"
	"github.com/pcdshub/wavetools/pkg/metadata"
)

var (
	liveMode    bool
	endedMode   bool
	verbose     bool
	showVersion bool

	rootCmd = &cobra.Command{
		Use:   "expstat",
		Short: "Report the current experiment for a hutch",
		Long: `Report the current experiment/run identifier for a hutch.

When the hutch cannot be determined from the calling environment, the
tool asks for a hutch name and retries the lookup scoped to it.

Examples:
  # Experiment currently assigned to the hutch
  expstat

  # Experiment with a run in progress
  expstat -l

  # Most recently ended experiment
  expstat -e
`,
		Run: func(cmd *cobra.Command, args []string) {
			if verbose {
				SetVerbose()
			}
			if showVersion {
				fmt.Printf("expstat %s (built %s)\n", metadata.Version, metadata.BuildTime)
				return
			}
			doStatus()
		},
	}
)

func init() {
	rootCmd.Flags().BoolVarP(&liveMode, "live", "l", false, "report the experiment with a run in progress")
	rootCmd.Flags().BoolVarP(&endedMode, "ended", "e", false, "report the most recently ended experiment")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "display additional debug information")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version number and exit")

	rootCmd.MarkFlagsMutuallyExclusive("live", "ended")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func doStatus() {
	cfg := config.NewConfig()

	client := expinfo.Client{
		Shell: shell.LocalShell{},
		Cmd:   cfg.GetToolGetInfo(),
		In:    os.Stdin,
		Out:   os.Stderr,
	}

	mode := expinfo.ModeCurrent
	switch {
	case liveMode:
		mode = expinfo.ModeLive
	case endedMode:
		mode = expinfo.ModeEnded
	}

	exp, err := client.CurrentInteractive(mode)
	if err != nil {
		log.Fatal().Msgf("experiment lookup failed: %v", err)
	}
	fmt.Println(exp)
}
