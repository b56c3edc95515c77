// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package epicsenv renders the shell snippet that activates the
// versioned EPICS runtime for a release. The same snippet is printed by
// the epicsenv tool and prepended to the remote upgrade procedure.
package epicsenv

import (
	"fmt"
	"strings"
)

// Params drive the rendered activation snippet.
type Params struct {
	// SiteTop is the EPICS release area root
	SiteTop string
	// PspkgRoot is the package manager root
	PspkgRoot string
	// Release is the release directory whose runtime is activated
	Release string
}

// Snippet renders the activation snippet for p.
func Snippet(p Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "export EPICS_SITE_TOP=%s\n", p.SiteTop)
	fmt.Fprintf(&b, "export PSPKG_ROOT=%s\n", p.PspkgRoot)
	b.WriteString("source \"$PSPKG_ROOT/etc/set_env.sh\"\n")
	if p.Release != "" {
		fmt.Fprintf(&b, "export PATH=%s/bin:$PATH\n", p.Release)
	}
	return b.String()
}
