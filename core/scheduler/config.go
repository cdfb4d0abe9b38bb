package scheduler

import "time"

// Config holds the pipeline trigger settings.
type Config struct {
	// Interval is the base period between runs.
	Interval time.Duration `mapstructure:"interval" default:"30m"`
	// Jitter is the upper bound of the random delay added to each interval.
	Jitter time.Duration `mapstructure:"jitter" default:"60s"`
	// RunOnStart triggers one run immediately when the loop starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
	// RunTimeout bounds a single run. Zero disables the bound.
	RunTimeout time.Duration `mapstructure:"run_timeout" default:"10m"`
}
