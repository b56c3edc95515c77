// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"os/exec"
)

// LocalShell executes commands via os/exec, returning combined output.
type LocalShell struct{}

func (LocalShell) Execute(binary string, args ...string) ([]byte, error) {
	cmd := exec.Command(binary, args...)
	output, err := cmd.CombinedOutput()

	return output, err
}
