// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package expinfo queries the site information service for the current
// experiment/run identifier via the get_info client.
package expinfo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/pcdshub/wavetools/internal/shell"
)

// Sentinel is what get_info reports when it cannot determine the hutch
// from the calling environment.
const Sentinel = "xxx"

// Mode selects which experiment get_info reports.
type Mode int

const (
	// ModeCurrent reports the experiment currently assigned to the hutch
	ModeCurrent Mode = iota
	// ModeLive reports the experiment with a run in progress
	ModeLive
	// ModeEnded reports the most recently ended experiment
	ModeEnded
)

func (m Mode) args() []string {
	switch m {
	case ModeLive:
		return []string{"--exp", "--live"}
	case ModeEnded:
		return []string{"--exp", "--ended"}
	default:
		return []string{"--exp"}
	}
}

// ErrEmptyHutch indicates the interactive prompt got no hutch name
var ErrEmptyHutch = errors.New("no hutch name given")

// Client wraps the get_info executable.
type Client struct {
	Shell shell.Shell
	Cmd   string
	In    io.Reader
	Out   io.Writer
}

// Current returns the experiment identifier for the given mode, scoped
// to hutch if non-empty.
func (c *Client) Current(mode Mode, hutch string) (string, error) {
	args := mode.args()
	if hutch != "" {
		args = append(args, "--hutch", hutch)
	}
	out, err := c.Shell.Execute(c.Cmd, args...)
	if err != nil {
		return "", errors.Wrapf(err, "get_info failed: %s", strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentInteractive returns the experiment identifier for the given
// mode. When the lookup returns the hutch sentinel, it prompts for a
// hutch name on Out, reads it from In, and retries scoped to that hutch.
func (c *Client) CurrentInteractive(mode Mode) (string, error) {
	exp, err := c.Current(mode, "")
	if err != nil {
		return "", err
	}
	if exp != Sentinel {
		return exp, nil
	}

	fmt.Fprint(c.Out, "Could not determine hutch, please enter a hutch name: ")
	scanner := bufio.NewScanner(c.In)
	if !scanner.Scan() {
		return "", ErrEmptyHutch
	}
	hutch := strings.TrimSpace(scanner.Text())
	if hutch == "" {
		return "", ErrEmptyHutch
	}
	return c.Current(mode, hutch)
}
