// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package iocmanager wraps the imgr client used to query and control
// IOC processes through the hutch iocmanager.
package iocmanager

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/pcdshub/wavetools/internal/shell"
)

// State is the iocmanager view of an IOC process.
type State string

const (
	// StateRunning means the IOC process is up
	StateRunning State = "RUNNING"
	// StateShutdown means the IOC is enabled but not running
	StateShutdown State = "SHUTDOWN"
	// StateDisabled means the IOC is disabled in the iocmanager config
	StateDisabled State = "DISABLED"
	// StateUnknown means the status output was not recognized
	StateUnknown State = "UNKNOWN"
)

// IMgr wraps the imgr executable.
type IMgr struct {
	Shell shell.Shell
	Cmd   string
}

func (m *IMgr) run(ioc, hutch string, action string) ([]byte, error) {
	out, err := m.Shell.Execute(m.Cmd, ioc, "--hutch", hutch, action)
	if err != nil {
		return out, errors.Wrapf(err, "imgr %s %s failed: %s", ioc, action, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// Status reports the current state of the IOC.
func (m *IMgr) Status(ioc, hutch string) (State, error) {
	out, err := m.run(ioc, hutch, "status")
	if err != nil {
		return StateUnknown, err
	}
	status := strings.ToUpper(strings.TrimSpace(string(out)))
	for _, s := range []State{StateRunning, StateShutdown, StateDisabled} {
		if strings.Contains(status, string(s)) {
			return s, nil
		}
	}
	return StateUnknown, nil
}

// Disable stops the IOC and marks it disabled.
func (m *IMgr) Disable(ioc, hutch string) error {
	_, err := m.run(ioc, hutch, "disable")
	return err
}

// Enable marks the IOC enabled and starts it.
func (m *IMgr) Enable(ioc, hutch string) error {
	_, err := m.run(ioc, hutch, "enable")
	return err
}
