// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// expstat reports the current experiment/run identifier for a hutch by
// querying the site information service.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// EnvFile is the optional site env file loaded before anything else
var EnvFile = "/etc/wavetools.env"

func main() {
	if path, isPresent := os.LookupEnv("WAVETOOLS_ENV"); isPresent {
		if err := godotenv.Load(path); err != nil {
			log.Fatal().Msgf("unable to load env file %s: %v", path, err)
		}
	} else {
		_ = godotenv.Load(EnvFile)
	}
	InitLog()
	Execute()
}
