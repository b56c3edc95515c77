// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package iocdata

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Keys recognized in RELEASE and CONFIG_SITE files.
const (
	keyWave8         = "WAVE8"
	keyParentRelease = "PARENT_RELEASE"
	keyPGPLane       = "PGP_LANE"
	keyModuleVersion = "WAVE8_MODULE_VERSION"
	keyFirmwareDir   = "FIRMWARE_DIR"
)

// ErrNoParentRelease indicates neither RELEASE file names a parent release
var ErrNoParentRelease = errors.New("no parent release found in RELEASE files")

// Release holds the resolved release configuration of a deployed IOC.
type Release struct {
	// ParentRelease is the common IOC release the deployed IOC builds on
	ParentRelease string
	// PGPLane is the PGP lane the wave8 is cabled to
	PGPLane int
	// ModuleVersion is the wave8 module version pinned by the release
	ModuleVersion string
	// FirmwareDir is the release-relative directory holding mcs images
	FirmwareDir string
}

// ScanKeyValues reads KEY=VALUE lines. Comments and malformed lines are
// skipped; a later assignment of the same key wins. Values may be
// single- or double-quoted.
func ScanKeyValues(r io.Reader) map[string]string {
	values := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		values[key] = value
	}
	return values
}

func scanFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ScanKeyValues(f), nil
}

// ResolveRelease scans the IOC directory's RELEASE and configure/RELEASE
// files for the parent release path, then the parent's CONFIG_SITE for
// the PGP lane and module versions.
func ResolveRelease(iocDir string) (Release, error) {
	var rel Release

	parent := ""
	for _, name := range []string{"RELEASE", filepath.Join("configure", "RELEASE")} {
		values, err := scanFile(filepath.Join(iocDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return rel, errors.Wrapf(err, "reading %s", name)
		}
		if v := values[keyParentRelease]; v != "" {
			parent = v
		} else if v := values[keyWave8]; v != "" {
			parent = v
		}
		if parent != "" {
			break
		}
	}
	if parent == "" {
		return rel, errors.Wrap(ErrNoParentRelease, iocDir)
	}
	rel.ParentRelease = parent

	values, err := scanFile(filepath.Join(parent, "CONFIG_SITE"))
	if err != nil {
		if os.IsNotExist(err) {
			// A parent release without CONFIG_SITE uses lane 0
			return rel, nil
		}
		return rel, errors.Wrap(err, "reading CONFIG_SITE")
	}
	if v, ok := values[keyPGPLane]; ok {
		lane, err := cast.ToIntE(v)
		if err != nil {
			return rel, errors.Wrapf(err, "bad %s value %q", keyPGPLane, v)
		}
		rel.PGPLane = lane
	}
	rel.ModuleVersion = values[keyModuleVersion]
	rel.FirmwareDir = values[keyFirmwareDir]

	return rel, nil
}
