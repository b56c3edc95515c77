// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package upgrade

import (
	"fmt"
	"strings"

	"github.com/pcdshub/wavetools/internal/epicsenv"
	"github.com/pcdshub/wavetools/internal/iocmanager"
)

// Tools names the executables the remote procedure invokes on the
// target host.
type Tools struct {
	Imgr   string
	Loader string
}

// quote wraps s in single quotes for safe interpolation into the
// remote script.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// BuildScript composes the remote procedure for a plan. The script
// activates the versioned runtime, verifies the device node, and either
// reads the firmware version or disables the IOC, loads the image, and
// restores the IOC to its prior state. set -e makes any failing step
// abort the whole procedure.
func BuildScript(p *Plan, tools Tools, env epicsenv.Params) string {
	env.Release = p.Release.ParentRelease

	var b strings.Builder
	b.WriteString("set -e\n")
	b.WriteString(epicsenv.Snippet(env))

	dev := quote(p.Device)
	fmt.Fprintf(&b, "if [ ! -e %s ]; then echo \"device %s not found\" >&2; exit 1; fi\n", dev, p.Device)

	lane := fmt.Sprintf("%d", p.Release.PGPLane)
	if p.ReadOnly {
		fmt.Fprintf(&b, "%s --dev %s --lane %s --readver\n", tools.Loader, dev, lane)
		return b.String()
	}

	imgr := fmt.Sprintf("%s %s --hutch %s", tools.Imgr, quote(p.IOC), quote(p.Hutch))
	fmt.Fprintf(&b, "state=$(%s status)\n", imgr)
	fmt.Fprintf(&b, "%s disable\n", imgr)
	fmt.Fprintf(&b, "%s --dev %s --lane %s --mcs %s\n", tools.Loader, dev, lane, quote(p.FirmwarePath))
	// An IOC that was disabled before the upgrade stays disabled.
	fmt.Fprintf(&b, "case \"$state\" in *%s*) ;; *) %s enable ;; esac\n", iocmanager.StateDisabled, imgr)

	return b.String()
}
