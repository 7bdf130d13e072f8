// Package config handles the simulation's YAML configuration surface.
// Unknown keys are ignored; omitted or malformed values fall back to
// documented defaults rather than failing the run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for every recognized option.
const (
	DefaultSeed              = uint32(1337)
	DefaultPopulationSize    = 250
	DefaultHistorySpanDays   = 30.0
	DefaultMessagesPerMinute = 12.0
	DefaultBurstChance       = 0.04
	DefaultBurstMin          = 2
	DefaultBurstMax          = 5
	DefaultTypingDelayMinMs  = 35
	DefaultTypingDelayMaxMs  = 900
	DefaultGeneratorPageSize = 50
	DefaultHistorySize       = 1000

	DefaultFatigueIncrement       = 0.18
	DefaultFatigueRecoveryPerHour = 0.25
)

// Options is the root configuration structure.
type Options struct {
	Seed                     uint32  `yaml:"seed"`
	PopulationSize           int     `yaml:"populationSize"`
	HistorySpanDays          float64 `yaml:"historySpanDays"`
	MessagesPerMinute        float64 `yaml:"messagesPerMinute"`
	SimulateTypingBeforeSend *bool   `yaml:"simulateTypingBeforeSend"`
	BurstChance              float64 `yaml:"burstChance"`
	BurstSizeRange           []int   `yaml:"burstSizeRange"`
	TypingDelayRange         []int   `yaml:"typingDelayRange"` // [minMs, maxMs]
	GeneratorPageSize        int     `yaml:"generatorPageSize"`
	HistorySize              int     `yaml:"historySize"` // messages in the historical span

	// Fatigue constants are deliberately configurable; the defaults
	// are heuristic, not derived.
	FatigueIncrement       float64 `yaml:"fatigueIncrement"`
	FatigueRecoveryPerHour float64 `yaml:"fatigueRecoveryPerHour"`

	Store StoreOptions `yaml:"store"`
}

// StoreOptions selects the fatigue overlay backend.
type StoreOptions struct {
	Kind string `yaml:"kind"` // "memory", "file", "sqlite"
	Path string `yaml:"path"`
}

// Default returns Options with every field at its documented default.
func Default() Options {
	yes := true
	return Options{
		Seed:                     DefaultSeed,
		PopulationSize:           DefaultPopulationSize,
		HistorySpanDays:          DefaultHistorySpanDays,
		MessagesPerMinute:        DefaultMessagesPerMinute,
		SimulateTypingBeforeSend: &yes,
		BurstChance:              DefaultBurstChance,
		BurstSizeRange:           []int{DefaultBurstMin, DefaultBurstMax},
		TypingDelayRange:         []int{DefaultTypingDelayMinMs, DefaultTypingDelayMaxMs},
		GeneratorPageSize:        DefaultGeneratorPageSize,
		HistorySize:              DefaultHistorySize,
		FatigueIncrement:         DefaultFatigueIncrement,
		FatigueRecoveryPerHour:   DefaultFatigueRecoveryPerHour,
		Store:                    StoreOptions{Kind: "memory"},
	}
}

// Load reads and parses a YAML configuration file, then sanitizes it.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes over the defaults and sanitizes the
// result. Unknown keys are silently ignored.
func Parse(data []byte) (Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing config: %w", err)
	}
	opts.Sanitize()
	return opts, nil
}

// Sanitize corrects out-of-range values back to their defaults.
// Malformed configuration degrades, it never crashes the run.
func (o *Options) Sanitize() {
	if o.PopulationSize <= 0 {
		o.PopulationSize = DefaultPopulationSize
	}
	if o.HistorySpanDays <= 0 {
		o.HistorySpanDays = DefaultHistorySpanDays
	}
	if o.MessagesPerMinute <= 0 {
		o.MessagesPerMinute = DefaultMessagesPerMinute
	}
	if o.SimulateTypingBeforeSend == nil {
		yes := true
		o.SimulateTypingBeforeSend = &yes
	}
	if o.BurstChance < 0 || o.BurstChance > 1 {
		o.BurstChance = DefaultBurstChance
	}
	if len(o.BurstSizeRange) != 2 || o.BurstSizeRange[0] < 1 || o.BurstSizeRange[1] < o.BurstSizeRange[0] {
		o.BurstSizeRange = []int{DefaultBurstMin, DefaultBurstMax}
	}
	if len(o.TypingDelayRange) != 2 || o.TypingDelayRange[0] < 0 || o.TypingDelayRange[1] < o.TypingDelayRange[0] {
		o.TypingDelayRange = []int{DefaultTypingDelayMinMs, DefaultTypingDelayMaxMs}
	}
	if o.GeneratorPageSize <= 0 {
		o.GeneratorPageSize = DefaultGeneratorPageSize
	}
	if o.HistorySize <= 0 {
		o.HistorySize = DefaultHistorySize
	}
	if o.FatigueIncrement <= 0 || o.FatigueIncrement > 1 {
		o.FatigueIncrement = DefaultFatigueIncrement
	}
	if o.FatigueRecoveryPerHour <= 0 {
		o.FatigueRecoveryPerHour = DefaultFatigueRecoveryPerHour
	}
	switch o.Store.Kind {
	case "", "memory", "file", "sqlite":
	default:
		o.Store = StoreOptions{Kind: "memory"}
	}
}

// TypingSim reports whether character-level typing simulation is on.
func (o Options) TypingSim() bool {
	return o.SimulateTypingBeforeSend == nil || *o.SimulateTypingBeforeSend
}
