// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package upgrade orchestrates wave8 firmware upgrades: validate the
// request, resolve the IOC deployment and release configuration,
// resolve the target host, and run the upgrade procedure there.
package upgrade

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const validationErrorValueRequired = "value is required"

// Request is a validated firmware operation request.
type Request struct {
	// IOC is the name of the IOC controlling the wave8, e.g. ioc-xpp-wave8-01
	IOC string
	// FirmwarePath is the mcs image to load; empty in read-only mode
	FirmwarePath string
	// Device is the device node on the target host
	Device string
	// ReadOnly requests a version read instead of an upgrade
	ReadOnly bool
}

// Validate validates the firmware operation request
func (r *Request) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IOC,
			validation.Required.Error(validationErrorValueRequired),
			validation.By(wellFormedIOCName)),
		validation.Field(&r.Device,
			validation.Required.Error(validationErrorValueRequired)),
		validation.Field(&r.FirmwarePath,
			validation.Required.When(!r.ReadOnly).Error("a firmware image is required unless reading the version"),
			validation.Empty.When(r.ReadOnly).Error("read-only mode and a firmware image are mutually exclusive"),
			validation.When(r.FirmwarePath != "" && !r.ReadOnly, validation.By(readableMcsFile))),
	)
}

// wellFormedIOCName enforces the facility naming scheme: hyphen
// delimited, at least three sections, starting with "ioc".
func wellFormedIOCName(value interface{}) error {
	name, _ := value.(string)
	parts := strings.Split(name, "-")
	if len(parts) < 3 || parts[0] != "ioc" {
		return fmt.Errorf("must look like ioc-<hutch>-<name>")
	}
	return nil
}

func readableMcsFile(value interface{}) error {
	path, _ := value.(string)
	if strings.ToLower(filepath.Ext(path)) != ".mcs" {
		return fmt.Errorf("firmware image must be an mcs file")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("firmware image not readable: %v", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("firmware image is not a regular file")
	}
	return nil
}
