// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package upgrade

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pcdshub/wavetools/internal/epicsenv"
	"github.com/pcdshub/wavetools/internal/iocdata"
	"github.com/pcdshub/wavetools/internal/iocmanager"
	"github.com/pcdshub/wavetools/internal/remote"
	"github.com/pcdshub/wavetools/internal/shell"
)

var (
	// ErrDeclined indicates the operator declined the confirmation prompt
	ErrDeclined = errors.New("operator declined")
	// ErrNoHost indicates the iocmanager entry has no host assigned
	ErrNoHost = errors.New("ioc has no host assigned")
)

// Plan is a fully resolved firmware operation, ready to execute.
type Plan struct {
	Request
	Entry   iocdata.Entry
	Release iocdata.Release
	Hutch   string
	Host    string
	// State is the IOC state observed before connecting
	State iocmanager.State
}

// Upgrader resolves and executes wave8 firmware operations.
type Upgrader struct {
	Shell  shell.Shell
	Runner remote.Runner

	GrepIOC string
	Tools   Tools
	Env     epicsenv.Params

	// SiteTop resolves relative iocmanager dir entries
	SiteTop string

	In  io.Reader
	Out io.Writer

	AutoConfirm bool
	DryRun      bool

	Log zerolog.Logger
}

// Resolve validates the request and resolves the IOC entry, release
// configuration, and target host. No remote action is taken.
func (u *Upgrader) Resolve(req Request) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out, err := u.Shell.Execute(u.GrepIOC, req.IOC, "all")
	if err != nil {
		return nil, errors.Wrapf(err, "grep_ioc failed: %s", strings.TrimSpace(string(out)))
	}
	entry, err := iocdata.FindEntry(iocdata.ParseEntries(out), req.IOC)
	if err != nil {
		return nil, err
	}
	if entry.Host == "" {
		return nil, errors.Wrap(ErrNoHost, entry.ID)
	}

	dir := entry.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(u.SiteTop, dir)
	}
	rel, err := iocdata.ResolveRelease(dir)
	if err != nil {
		return nil, err
	}

	hutch := iocdata.Hutch(req.IOC)
	plan := &Plan{
		Request: req,
		Entry:   entry,
		Release: rel,
		Hutch:   hutch,
		Host:    entry.Host,
		State:   iocmanager.StateUnknown,
	}

	imgr := iocmanager.IMgr{Shell: u.Shell, Cmd: u.Tools.Imgr}
	state, err := imgr.Status(req.IOC, hutch)
	if err != nil {
		// The status preflight is informational only; the remote
		// procedure re-queries before touching anything.
		u.Log.Debug().Err(err).Msg("imgr status preflight failed")
	} else {
		plan.State = state
	}

	return plan, nil
}

func (u *Upgrader) describe(p *Plan) {
	action := "upgrade firmware"
	if p.ReadOnly {
		action = "read firmware version"
	}
	fmt.Fprintf(u.Out, "About to %s\n", action)
	fmt.Fprintf(u.Out, "  ioc:     %s (%s)\n", p.IOC, p.State)
	fmt.Fprintf(u.Out, "  host:    %s\n", p.Host)
	fmt.Fprintf(u.Out, "  device:  %s (pgp lane %d)\n", p.Device, p.Release.PGPLane)
	fmt.Fprintf(u.Out, "  release: %s\n", p.Release.ParentRelease)
	if p.Release.ModuleVersion != "" {
		fmt.Fprintf(u.Out, "  module:  %s\n", p.Release.ModuleVersion)
	}
	if !p.ReadOnly {
		fmt.Fprintf(u.Out, "  image:   %s\n", p.FirmwarePath)
	}
}

// Confirm prints the plan and asks the operator to proceed. Read-only
// plans and AutoConfirm skip the prompt.
func (u *Upgrader) Confirm(p *Plan) error {
	u.describe(p)
	if p.ReadOnly || u.AutoConfirm {
		return nil
	}
	fmt.Fprint(u.Out, "Proceed? y/n: ")
	scanner := bufio.NewScanner(u.In)
	if !scanner.Scan() {
		return ErrDeclined
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	if !strings.HasPrefix(answer, "y") {
		return ErrDeclined
	}
	return nil
}

// Execute runs the remote procedure for the plan and streams its output
// to Out.
func (u *Upgrader) Execute(ctx context.Context, p *Plan) error {
	script := BuildScript(p, u.Tools, u.Env)
	u.Log.Debug().Str("host", p.Host).Msgf("remote script:\n%s", script)

	out, err := u.Runner.Run(ctx, p.Host, script)
	if len(out) > 0 {
		fmt.Fprintln(u.Out, strings.TrimRight(string(out), "\n"))
	}
	if err != nil {
		return errors.Wrapf(err, "remote procedure on %s failed", p.Host)
	}
	return nil
}

// Run performs the whole workflow: validate, resolve, confirm, execute.
func (u *Upgrader) Run(ctx context.Context, req Request) error {
	log := u.Log.With().Str("session", uuid.NewString()).Logger()
	u.Log = log

	log.Info().Str("ioc", req.IOC).Msg("resolving ioc configuration")
	plan, err := u.Resolve(req)
	if err != nil {
		return err
	}
	log.Info().
		Str("host", plan.Host).
		Str("release", plan.Release.ParentRelease).
		Int("lane", plan.Release.PGPLane).
		Msg("resolved")

	if u.DryRun {
		u.describe(plan)
		fmt.Fprintf(u.Out, "Dry-run: would run on %s:\n%s", plan.Host, BuildScript(plan, u.Tools, u.Env))
		return nil
	}

	if err := u.Confirm(plan); err != nil {
		return err
	}

	if err := u.Execute(ctx, plan); err != nil {
		return err
	}

	if plan.ReadOnly {
		log.Info().Msg("firmware version read complete")
	} else {
		log.Info().Msg("firmware upgrade complete")
	}
	return nil
}
