package ctx

import "github.com/kolkov/ircd/internal/ircd/profiler"

// ProfilerSettings is the profiler's runtime-configurable threshold set;
// see spec.md §4.8.
type ProfilerSettings = profiler.Settings

// GetProfilerSettings returns the active profiler configuration.
func GetProfilerSettings() ProfilerSettings { return profiler.Current() }

// SetProfilerSettings replaces the active profiler configuration.
func SetProfilerSettings(s ProfilerSettings) { profiler.Configure(s) }
