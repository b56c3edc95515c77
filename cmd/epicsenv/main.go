// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// epicsenv prints the shell snippet that activates the versioned EPICS
// runtime, for use as: eval "$(epicsenv --release <dir>)".
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pcdshub/wavetools/internal/config"
	"github.com/pcdshub/wavetools/internal/epicsenv"
)

var (
	release string

	rootCmd = &cobra.Command{
		Use:   "epicsenv",
		Short: "Print the EPICS environment-activation snippet",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.NewConfig()
			fmt.Print(epicsenv.Snippet(epicsenv.Params{
				SiteTop:   cfg.GetEpicsSiteTop(),
				PspkgRoot: cfg.GetPspkgRoot(),
				Release:   release,
			}))
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&release, "release", "R", "", "release directory to put on PATH")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
