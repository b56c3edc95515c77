// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package iocdata resolves IOC deployment information from the hutch
// iocmanager configuration (via grep_ioc output) and from the EPICS
// release files of a deployed IOC.
package iocdata

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

var (
	// ErrIOCNotFound indicates the IOC name matched no iocmanager entry
	ErrIOCNotFound = errors.New("ioc not found in any hutch configuration")
	// ErrIOCAmbiguous indicates the IOC name matched more than one entry
	ErrIOCAmbiguous = errors.New("ioc name matches more than one entry")
)

// Entry is one IOC record from an iocmanager configuration file.
type Entry struct {
	ID       string
	Host     string
	Port     int
	Dir      string
	Alias    string
	Disabled bool
}

var entryFieldRe = regexp.MustCompile(`(\w+)\s*:\s*(?:'([^']*)'|"([^"]*)"|([^,\s}]+))`)

// ParseEntries parses grep_ioc output into entries. Lines without an id
// field are ignored.
func ParseEntries(output []byte) []Entry {
	var entries []Entry
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := map[string]string{}
		for _, m := range entryFieldRe.FindAllStringSubmatch(line, -1) {
			value := m[2]
			if value == "" {
				value = m[3]
			}
			if value == "" {
				value = m[4]
			}
			fields[m[1]] = value
		}
		if fields["id"] == "" {
			continue
		}
		entries = append(entries, Entry{
			ID:       fields["id"],
			Host:     fields["host"],
			Port:     cast.ToInt(fields["port"]),
			Dir:      fields["dir"],
			Alias:    fields["alias"],
			Disabled: cast.ToBool(fields["disable"]),
		})
	}
	return entries
}

// FindEntry returns the single entry whose id equals name.
func FindEntry(entries []Entry, name string) (Entry, error) {
	matches := lo.Filter(entries, func(e Entry, _ int) bool {
		return e.ID == name
	})
	switch len(matches) {
	case 0:
		return Entry{}, errors.Wrap(ErrIOCNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return Entry{}, errors.Wrap(ErrIOCAmbiguous, name)
	}
}

// Hutch derives the hutch name from a well-formed IOC name such as
// ioc-xpp-wave8-01.
func Hutch(iocName string) string {
	parts := strings.Split(iocName, "-")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
