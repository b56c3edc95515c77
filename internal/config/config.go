// SPDX-FileCopyrightText: Copyright (c) 2026 SLAC National Accelerator Laboratory. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	// ConfigFilePath specifies the path to the config file, this contains the default path
	ConfigFilePath = "config.file"
	// ConfigFilePathEnv specifies the environment variable name for the config file path
	ConfigFilePathEnv = "WAVETOOLS_CONFIG_FILE"

	// ConfigLogLevel specifies the log level
	ConfigLogLevel = "log.level"

	// ConfigToolGetInfo specifies the site information service client executable
	ConfigToolGetInfo = "tools.getInfo"
	// ConfigToolGrepIOC specifies the IOC config lookup executable
	ConfigToolGrepIOC = "tools.grepIoc"
	// ConfigToolImgr specifies the IOC process manager executable
	ConfigToolImgr = "tools.imgr"
	// ConfigToolFpgaLoader specifies the firmware loader executable run on the target host
	ConfigToolFpgaLoader = "tools.fpgaLoader"

	// ConfigEpicsSiteTop specifies the EPICS release area root
	ConfigEpicsSiteTop = "epics.siteTop"
	// ConfigPspkgRoot specifies the package manager root used for environment activation
	ConfigPspkgRoot = "epics.pspkgRoot"

	// ConfigSSHUser specifies the login user for remote execution; empty means the current user
	ConfigSSHUser = "ssh.user"
	// ConfigSSHPort specifies the remote shell port
	ConfigSSHPort = "ssh.port"
	// ConfigSSHKeyPath specifies the private key used for remote execution
	ConfigSSHKeyPath = "ssh.keyPath"
	// ConfigSSHTimeout specifies the dial/run timeout for remote execution
	ConfigSSHTimeout = "ssh.timeout"
)

// Maintain a global config object
var config *Config

// Config represents configurations for the operator tools
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new config object
func NewConfig() *Config {
	if config != nil {
		return config
	}

	c := Config{
		v: viper.New(),
	}

	// Set defaults
	c.v.SetDefault(ConfigLogLevel, "info")
	c.v.SetDefault(ConfigToolGetInfo, "get_info")
	c.v.SetDefault(ConfigToolGrepIOC, "grep_ioc")
	c.v.SetDefault(ConfigToolImgr, "imgr")
	c.v.SetDefault(ConfigToolFpgaLoader, "wave8LoadFpga")
	c.v.SetDefault(ConfigEpicsSiteTop, "/cds/group/pcds/epics")
	c.v.SetDefault(ConfigPspkgRoot, "/cds/group/pcds/pkg_mgr")
	c.v.SetDefault(ConfigSSHUser, "")
	c.v.SetDefault(ConfigSSHPort, 22)
	c.v.SetDefault(ConfigSSHKeyPath, "")
	c.v.SetDefault(ConfigSSHTimeout, 5*time.Minute)

	// Set config file
	// Check environment variable. If not set, use default
	if os.Getenv(ConfigFilePathEnv) != "" {
		c.v.SetDefault(ConfigFilePath, os.Getenv(ConfigFilePathEnv))
	} else {
		c.v.SetDefault(ConfigFilePath, os.ExpandEnv("$HOME/.config/wavetools/config.yaml"))
	}

	c.v.AutomaticEnv()
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.SetConfigFile(c.GetPathToConfig())

	err := c.v.ReadInConfig()
	if _, ok := err.(*os.PathError); ok {
		log.Debug().Msgf("no config file '%s' found, using default values", c.GetPathToConfig())
	} else if err != nil {
		log.Panic().Err(err).Msgf("fatal error while reading the config file: %s", err)
	}

	config = &c

	return config
}

// Reset discards the global config so the next NewConfig call rebuilds it.
// Intended for tests.
func Reset() {
	config = nil
}

// GetPathToConfig returns the path to the config file
func (c *Config) GetPathToConfig() string {
	return c.v.GetString(ConfigFilePath)
}

// GetLogLevel returns the configured log level
func (c *Config) GetLogLevel() string {
	return c.v.GetString(ConfigLogLevel)
}

// GetToolGetInfo returns the get_info executable path
func (c *Config) GetToolGetInfo() string {
	return c.v.GetString(ConfigToolGetInfo)
}

// GetToolGrepIOC returns the grep_ioc executable path
func (c *Config) GetToolGrepIOC() string {
	return c.v.GetString(ConfigToolGrepIOC)
}

// GetToolImgr returns the imgr executable path
func (c *Config) GetToolImgr() string {
	return c.v.GetString(ConfigToolImgr)
}

// GetToolFpgaLoader returns the firmware loader executable path
func (c *Config) GetToolFpgaLoader() string {
	return c.v.GetString(ConfigToolFpgaLoader)
}

// GetEpicsSiteTop returns the EPICS release area root
func (c *Config) GetEpicsSiteTop() string {
	return c.v.GetString(ConfigEpicsSiteTop)
}

// GetPspkgRoot returns the package manager root
func (c *Config) GetPspkgRoot() string {
	return c.v.GetString(ConfigPspkgRoot)
}

// GetSSHUser returns the remote login user
func (c *Config) GetSSHUser() string {
	return c.v.GetString(ConfigSSHUser)
}

// GetSSHPort returns the remote shell port
func (c *Config) GetSSHPort() int {
	return c.v.GetInt(ConfigSSHPort)
}

// GetSSHKeyPath returns the private key path
func (c *Config) GetSSHKeyPath() string {
	return c.v.GetString(ConfigSSHKeyPath)
}

// GetSSHTimeout returns the remote execution timeout
func (c *Config) GetSSHTimeout() time.Duration {
	return c.v.GetDuration(ConfigSSHTimeout)
}
