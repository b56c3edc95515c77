// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package upgrade

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcdshub/wavetools/internal/epicsenv"
	"github.com/pcdshub/wavetools/internal/iocdata"
	"github.com/pcdshub/wavetools/internal/iocmanager"
)

// MockShell serves canned output per binary name.
type MockShell struct {
	Outputs map[string][]byte
	Errs    map[string]error
	Calls   []string
}

func (m *MockShell) Execute(binary string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, binary)
	return m.Outputs[binary], m.Errs[binary]
}

// MockRunner records the script it was asked to run.
type MockRunner struct {
	Host   string
	Script string
	Output []byte
	Err    error
	Calls  int
}

func (m *MockRunner) Run(_ context.Context, host, script string) ([]byte, error) {
	m.Calls++
	m.Host = host
	m.Script = script
	return m.Output, m.Err
}

// newReleaseTree lays out an IOC dir with a RELEASE file pointing at a
// parent release carrying a CONFIG_SITE.
func newReleaseTree(t *testing.T) (iocDir, parentDir string) {
	t.Helper()
	root := t.TempDir()
	iocDir = filepath.Join(root, "ioc", "xpp", "wave8-01")
	parentDir = filepath.Join(root, "ioc", "common", "wave8", "R2.0.1")
	require.NoError(t, os.MkdirAll(iocDir, 0o755))
	require.NoError(t, os.MkdirAll(parentDir, 0o755))

	release := fmt.Sprintf("PARENT_RELEASE=%s\n", parentDir)
	require.NoError(t, os.WriteFile(filepath.Join(iocDir, "RELEASE"), []byte(release), 0o644))

	configSite := "PGP_LANE=3\nWAVE8_MODULE_VERSION=R2.4.1\n"
	require.NoError(t, os.WriteFile(filepath.Join(parentDir, "CONFIG_SITE"), []byte(configSite), 0o644))
	return iocDir, parentDir
}

func newTestUpgrader(t *testing.T, sh *MockShell, runner *MockRunner) *Upgrader {
	t.Helper()
	return &Upgrader{
		Shell:   sh,
		Runner:  runner,
		GrepIOC: "grep_ioc",
		Tools:   Tools{Imgr: "imgr", Loader: "wave8LoadFpga"},
		Env: epicsenv.Params{
			SiteTop:   "/cds/group/pcds/epics",
			PspkgRoot: "/cds/group/pcds/pkg_mgr",
		},
		In:  bytes.NewBufferString("y\n"),
		Out: &bytes.Buffer{},
		Log: zerolog.Nop(),
	}
}

func TestUpgrader_Resolve(t *testing.T) {
	iocDir, parentDir := newReleaseTree(t)

	sh := &MockShell{
		Outputs: map[string][]byte{
			"grep_ioc": []byte(fmt.Sprintf(
				"id:'ioc-xpp-wave8-01', host:'ctl-xpp-misc-01', port:30501, dir:'%s'\n", iocDir)),
			"imgr": []byte("RUNNING on ctl-xpp-misc-01\n"),
		},
	}
	u := newTestUpgrader(t, sh, &MockRunner{})

	plan, err := u.Resolve(Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", ReadOnly: true})
	require.NoError(t, err)

	assert.Equal(t, "ctl-xpp-misc-01", plan.Host)
	assert.Equal(t, "xpp", plan.Hutch)
	assert.Equal(t, parentDir, plan.Release.ParentRelease)
	assert.Equal(t, 3, plan.Release.PGPLane)
	assert.Equal(t, "R2.4.1", plan.Release.ModuleVersion)
	assert.Equal(t, iocmanager.StateRunning, plan.State)
}

func TestUpgrader_Resolve_NoRemoteActionOnBadInput(t *testing.T) {
	sh := &MockShell{Outputs: map[string][]byte{}}
	u := newTestUpgrader(t, sh, &MockRunner{})

	_, err := u.Resolve(Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0",
		FirmwarePath: "/no/such/file.mcs"})
	assert.Error(t, err)
	assert.Empty(t, sh.Calls, "no external tool may run before validation passes")
}

func TestUpgrader_Resolve_UnknownIOC(t *testing.T) {
	sh := &MockShell{
		Outputs: map[string][]byte{
			"grep_ioc": []byte("id:'ioc-xcs-wave8-01', host:'ctl-xcs-misc-01', dir:'ioc/xcs/wave8-01'\n"),
		},
	}
	u := newTestUpgrader(t, sh, &MockRunner{})

	_, err := u.Resolve(Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", ReadOnly: true})
	assert.ErrorIs(t, err, iocdata.ErrIOCNotFound)
}

func TestUpgrader_Resolve_NoHost(t *testing.T) {
	sh := &MockShell{
		Outputs: map[string][]byte{
			"grep_ioc": []byte("id:'ioc-xpp-wave8-01', dir:'ioc/xpp/wave8-01'\n"),
		},
	}
	u := newTestUpgrader(t, sh, &MockRunner{})

	_, err := u.Resolve(Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", ReadOnly: true})
	assert.ErrorIs(t, err, ErrNoHost)
}

func TestUpgrader_Run_Declined(t *testing.T) {
	iocDir, _ := newReleaseTree(t)
	mcs := writeFirmware(t, "Wave8_R2.4.1.mcs")

	sh := &MockShell{
		Outputs: map[string][]byte{
			"grep_ioc": []byte(fmt.Sprintf(
				"id:'ioc-xpp-wave8-01', host:'ctl-xpp-misc-01', dir:'%s'\n", iocDir)),
			"imgr": []byte("RUNNING\n"),
		},
	}
	runner := &MockRunner{}
	u := newTestUpgrader(t, sh, runner)
	u.In = bytes.NewBufferString("n\n")

	err := u.Run(context.Background(), Request{
		IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", FirmwarePath: mcs})
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Zero(t, runner.Calls, "declined plan must not reach the remote host")
}

func TestUpgrader_Run_Upgrade(t *testing.T) {
	iocDir, _ := newReleaseTree(t)
	mcs := writeFirmware(t, "Wave8_R2.4.1.mcs")

	sh := &MockShell{
		Outputs: map[string][]byte{
			"grep_ioc": []byte(fmt.Sprintf(
				"id:'ioc-xpp-wave8-01', host:'ctl-xpp-misc-01', dir:'%s'\n", iocDir)),
			"imgr": []byte("RUNNING\n"),
		},
	}
	runner := &MockRunner{Output: []byte("FPGA image loaded\n")}
	u := newTestUpgrader(t, sh, runner)
	u.AutoConfirm = true
	out := &bytes.Buffer{}
	u.Out = out

	err := u.Run(context.Background(), Request{
		IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", FirmwarePath: mcs})
	require.NoError(t, err)

	assert.Equal(t, 1, runner.Calls)
	assert.Equal(t, "ctl-xpp-misc-01", runner.Host)
	assert.Contains(t, runner.Script, "--mcs")
	assert.Contains(t, out.String(), "FPGA image loaded")
}

func TestUpgrader_Run_RemoteFailureAborts(t *testing.T) {
	iocDir, _ := newReleaseTree(t)
	mcs := writeFirmware(t, "Wave8_R2.4.1.mcs")

	sh := &MockShell{
		Outputs: map[string][]byte{
			"grep_ioc": []byte(fmt.Sprintf(
				"id:'ioc-xpp-wave8-01', host:'ctl-xpp-misc-01', dir:'%s'\n", iocDir)),
			"imgr": []byte("RUNNING\n"),
		},
	}
	runner := &MockRunner{Err: errors.New("exited with status 1")}
	u := newTestUpgrader(t, sh, runner)
	u.AutoConfirm = true

	err := u.Run(context.Background(), Request{
		IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", FirmwarePath: mcs})
	assert.Error(t, err)
}

func TestUpgrader_Run_DryRun(t *testing.T) {
	iocDir, _ := newReleaseTree(t)
	mcs := writeFirmware(t, "Wave8_R2.4.1.mcs")

	sh := &MockShell{
		Outputs: map[string][]byte{
			"grep_ioc": []byte(fmt.Sprintf(
				"id:'ioc-xpp-wave8-01', host:'ctl-xpp-misc-01', dir:'%s'\n", iocDir)),
			"imgr": []byte("SHUTDOWN\n"),
		},
	}
	runner := &MockRunner{}
	u := newTestUpgrader(t, sh, runner)
	u.DryRun = true
	out := &bytes.Buffer{}
	u.Out = out

	err := u.Run(context.Background(), Request{
		IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", FirmwarePath: mcs})
	require.NoError(t, err)

	assert.Zero(t, runner.Calls)
	assert.Contains(t, out.String(), "Dry-run")
	assert.Contains(t, out.String(), "wave8LoadFpga")
}
