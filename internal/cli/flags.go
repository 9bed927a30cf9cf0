package cli

import "conventest/internal/config"

// Flags holds command-line flags
type Flags struct {
	ConfigFile    string
	Workers       int
	NameFilter    string
	Lifecycle     string
	Shard         int
	Shards        int
	ShardOutput   string
	FailedFrom    string
	TestCases     bool
	OnlyFailed    bool
	RerunFailures bool
	OpenFaills    bool
	Archive       bool
	History       bool
	Verbose       bool
	Debug         bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:    f.ConfigFile,
		Workers:       f.Workers,
		NameFilter:    f.NameFilter,
		Lifecycle:     f.Lifecycle,
		Shard:         f.Shard,
		Shards:        f.Shards,
		ShardOutput:   f.ShardOutput,
		FailedFrom:    f.FailedFrom,
		TestCases:     f.TestCases,
		OnlyFailed:    f.OnlyFailed,
		RerunFailures: f.RerunFailures,
		OpenFaills:    f.OpenFaills,
		Archive:       f.Archive,
		History:       f.History,
		Verbose:       f.Verbose,
		Debug:         f.Debug,
	}
}
