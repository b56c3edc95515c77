// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLog routes logs to stderr so stdout stays clean for tool output.
func InitLog() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}

// SetVerbose drops the log level to debug.
func SetVerbose() {
	log.Logger = log.Logger.Level(zerolog.DebugLevel)
}
