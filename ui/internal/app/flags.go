package app

import "flag"

// Config represents the command-line parameters for the interactive viewer.
type Config struct {
	Scale   int
	TPS     int
	Seed    int64
	DT      float64
	SleepMs int
	Tile    int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 16, TPS: 60, Seed: 0, DT: 1.0, SleepMs: 1, Tile: 8}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier for the slice view")
	fs.IntVar(&c.TPS, "tps", c.TPS, "renderer frames per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the growth controller")
	fs.Float64Var(&c.DT, "dt", c.DT, "simulation tick interval, in seconds")
	fs.IntVar(&c.SleepMs, "sleep-ms", c.SleepMs, "post-tick sleep, in milliseconds")
	fs.IntVar(&c.Tile, "tile", c.Tile, "pixels per chunk in the world-map view")
}
