package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.json", false)

	// Run defaults
	v.SetDefault("run.workers", 0) // 0 = one worker per CPU
	v.SetDefault("run.output_dir", "out")

	// Report defaults
	v.SetDefault("report.database", "simyx.db")
}
