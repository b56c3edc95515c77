// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package shell

// Shell runs external commands on the local host.
type Shell interface {
	Execute(binary string, args ...string) ([]byte, error)
}
