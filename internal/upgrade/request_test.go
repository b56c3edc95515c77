// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package upgrade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFirmware(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fpga image"), 0o644))
	return path
}

func TestRequest_Validate(t *testing.T) {
	mcs := writeFirmware(t, "Wave8_R2.4.1.mcs")
	upperMcs := writeFirmware(t, "Wave8_R2.4.1.MCS")
	bin := writeFirmware(t, "Wave8_R2.4.1.bin")

	tests := []struct {
		name    string
		request Request
		wantErr bool
	}{
		{
			name:    "valid - read-only",
			request: Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", ReadOnly: true},
			wantErr: false,
		},
		{
			name:    "valid - upgrade",
			request: Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", FirmwarePath: mcs},
			wantErr: false,
		},
		{
			name:    "valid - uppercase extension",
			request: Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", FirmwarePath: upperMcs},
			wantErr: false,
		},
		{
			name:    "invalid - missing ioc",
			request: Request{Device: "/dev/datadev_0", ReadOnly: true},
			wantErr: true,
		},
		{
			name:    "invalid - malformed ioc name",
			request: Request{IOC: "wave8", Device: "/dev/datadev_0", ReadOnly: true},
			wantErr: true,
		},
		{
			name:    "invalid - read-only and firmware together",
			request: Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", ReadOnly: true, FirmwarePath: mcs},
			wantErr: true,
		},
		{
			name:    "invalid - neither read-only nor firmware",
			request: Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0"},
			wantErr: true,
		},
		{
			name:    "invalid - wrong extension",
			request: Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", FirmwarePath: bin},
			wantErr: true,
		},
		{
			name:    "invalid - firmware file does not exist",
			request: Request{IOC: "ioc-xpp-wave8-01", Device: "/dev/datadev_0", FirmwarePath: "/no/such/file.mcs"},
			wantErr: true,
		},
		{
			name:    "invalid - missing device",
			request: Request{IOC: "ioc-xpp-wave8-01", ReadOnly: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
