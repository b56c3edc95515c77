// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pcdshub/wavetools/internal/config"
	"github.com/pcdshub/wavetools/internal/epicsenv"
	"github.com/pcdshub/wavetools/internal/remote"
	"github.com/pcdshub/wavetools/internal/shell"
	"github.com/pcdshub/wavetools/internal/upgrade"
	"github.com/pcdshub/wavetools/pkg/metadata"
)

// Exit codes, also used by the hutch operator displays
const (
	exitSuccess   = 0
	exitException = 1
	exitNoConfirm = 2
)

var (
	iocName      string
	firmwarePath string
	readOnly     bool
	devicePath   string
	autoConfirm  bool
	dryRun       bool
	verbose      bool
	showVersion  bool

	rootCmd = &cobra.Command{
		Use:   "wave8upgrade",
		Short: "Upgrade or read wave8 FPGA firmware",
		Long: `Upgrade the FPGA firmware of a wave8 device, or read the currently
loaded version, through the IOC that owns it.

Examples:
  # Read the firmware version behind an IOC
  wave8upgrade -i ioc-xpp-wave8-01 -r

  # Upgrade to a new image
  wave8upgrade -i ioc-xpp-wave8-01 -p /cds/group/pcds/firmware/wave8/Wave8_R2.4.1.mcs
`,
		Run: func(cmd *cobra.Command, args []string) {
			if verbose {
				SetVerbose()
			}
			if showVersion {
				fmt.Printf("wave8upgrade %s (built %s)\n", metadata.Version, metadata.BuildTime)
				return
			}
			if iocName == "" {
				fmt.Fprintln(os.Stderr, "error: an IOC name is required (-i)")
				_ = cmd.Usage()
				os.Exit(exitException)
			}
			if !readOnly && firmwarePath == "" {
				fmt.Fprintln(os.Stderr, "error: give a firmware image (-p) or request a version read (-r)")
				_ = cmd.Usage()
				os.Exit(exitException)
			}
			doUpgrade()
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&iocName, "ioc", "i", "", "name of the IOC controlling the wave8")
	rootCmd.Flags().StringVarP(&firmwarePath, "firmware", "p", "", "path to the mcs firmware image to load")
	rootCmd.Flags().BoolVarP(&readOnly, "read-only", "r", false, "read the loaded firmware version, change nothing")
	rootCmd.Flags().StringVarP(&devicePath, "device", "d", "/dev/datadev_0", "device node on the target host")
	rootCmd.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and print the plan without connecting")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "display additional debug information")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version number and exit")

	rootCmd.MarkFlagsMutuallyExclusive("firmware", "read-only")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitException)
	}
}

func doUpgrade() {
	cfg := config.NewConfig()

	runner := remote.NewSSHRunner(remote.Config{
		User:    cfg.GetSSHUser(),
		Port:    cfg.GetSSHPort(),
		KeyPath: cfg.GetSSHKeyPath(),
		Timeout: cfg.GetSSHTimeout(),
	})

	u := upgrade.Upgrader{
		Shell:   shell.LocalShell{},
		Runner:  runner,
		GrepIOC: cfg.GetToolGrepIOC(),
		Tools: upgrade.Tools{
			Imgr:   cfg.GetToolImgr(),
			Loader: cfg.GetToolFpgaLoader(),
		},
		Env: epicsenv.Params{
			SiteTop:   cfg.GetEpicsSiteTop(),
			PspkgRoot: cfg.GetPspkgRoot(),
		},
		SiteTop:     cfg.GetEpicsSiteTop(),
		In:          os.Stdin,
		Out:         os.Stdout,
		AutoConfirm: autoConfirm,
		DryRun:      dryRun,
		Log:         log.Logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req := upgrade.Request{
		IOC:          iocName,
		FirmwarePath: firmwarePath,
		Device:       devicePath,
		ReadOnly:     readOnly,
	}

	if err := u.Run(ctx, req); err != nil {
		if errors.Is(err, upgrade.ErrDeclined) {
			log.Warn().Msg("aborted by operator")
			os.Exit(exitNoConfirm)
		}
		log.Fatal().Msgf("wave8 upgrade failed: %v", err)
	}
}
