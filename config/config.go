// Package config loads framework configuration with Viper. Values merge
// from system, user, and project TOML files, with SIMYX_* environment
// variables overriding all of them.
package config

import "fmt"

// Config represents the core SIMYX configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Run    RunConfig    `mapstructure:"run"`
	Report ReportConfig `mapstructure:"report"`
}

// LogConfig configures console output
type LogConfig struct {
	Verbosity int  `mapstructure:"verbosity"` // 0=results only, 1=progress, 2=debug, 3=trace, 4=everything
	JSON      bool `mapstructure:"json"`      // Structured JSON instead of console output
}

// RunConfig configures experiment execution
type RunConfig struct {
	Workers   int    `mapstructure:"workers"`    // Concurrent replication workers (0 = one per CPU)
	OutputDir string `mapstructure:"output_dir"` // Where report files land (default: "out")
}

// ReportConfig configures report sinks
type ReportConfig struct {
	Database string `mapstructure:"database"` // SQLite path for database sinks (default: "simyx.db")
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// GetOutputDir returns the run output directory
func (c *Config) GetOutputDir() string {
	if c.Run.OutputDir == "" {
		return "out"
	}
	return c.Run.OutputDir
}

// GetDatabasePath returns the configured report database path
func (c *Config) GetDatabasePath() string {
	if c.Report.Database == "" {
		return "simyx.db"
	}
	return c.Report.Database
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Log: {Verbosity: %d}, Run: {Workers: %d, OutputDir: %s}, Report: {Database: %s}}",
		c.Log.Verbosity, c.Run.Workers, c.GetOutputDir(), c.GetDatabasePath())
}
