// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package remote executes scripts on facility hosts over SSH.
package remote

import "context"

// Runner runs a shell script on a remote host and returns its combined
// output.
type Runner interface {
	Run(ctx context.Context, host, script string) ([]byte, error)
}
