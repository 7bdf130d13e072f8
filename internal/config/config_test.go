package config

import "testing"

func TestParseDefaults(t *testing.T) {
	opts, err := Parse([]byte("seed: 4000\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Seed != 4000 {
		t.Errorf("seed = %d, want 4000", opts.Seed)
	}
	if opts.PopulationSize != DefaultPopulationSize {
		t.Errorf("populationSize = %d, want default %d", opts.PopulationSize, DefaultPopulationSize)
	}
	if !opts.TypingSim() {
		t.Error("typing simulation should default to on")
	}
}

func TestParseUnknownKeysIgnored(t *testing.T) {
	opts, err := Parse([]byte("seed: 7\nsomeFutureOption: true\nnested:\n  what: ever\n"))
	if err != nil {
		t.Fatalf("unknown keys must be ignored, got error: %v", err)
	}
	if opts.Seed != 7 {
		t.Errorf("seed = %d, want 7", opts.Seed)
	}
}

func TestSanitizeCorrectsMalformedValues(t *testing.T) {
	opts, err := Parse([]byte(`
populationSize: -5
messagesPerMinute: 0
burstChance: 3.5
burstSizeRange: [9, 2]
typingDelayRange: [100]
historySpanDays: -1
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.PopulationSize != DefaultPopulationSize {
		t.Errorf("populationSize not corrected: %d", opts.PopulationSize)
	}
	if opts.MessagesPerMinute != DefaultMessagesPerMinute {
		t.Errorf("messagesPerMinute not corrected: %v", opts.MessagesPerMinute)
	}
	if opts.BurstChance != DefaultBurstChance {
		t.Errorf("burstChance not corrected: %v", opts.BurstChance)
	}
	if opts.BurstSizeRange[0] != DefaultBurstMin || opts.BurstSizeRange[1] != DefaultBurstMax {
		t.Errorf("burstSizeRange not corrected: %v", opts.BurstSizeRange)
	}
	if opts.TypingDelayRange[0] != DefaultTypingDelayMinMs {
		t.Errorf("typingDelayRange not corrected: %v", opts.TypingDelayRange)
	}
	if opts.HistorySpanDays != DefaultHistorySpanDays {
		t.Errorf("historySpanDays not corrected: %v", opts.HistorySpanDays)
	}
}

func TestSanitizeUnknownStoreKind(t *testing.T) {
	opts := Default()
	opts.Store.Kind = "redis"
	opts.Sanitize()
	if opts.Store.Kind != "memory" {
		t.Errorf("unknown store kind should fall back to memory, got %q", opts.Store.Kind)
	}
}

func TestParseTypingToggle(t *testing.T) {
	opts, err := Parse([]byte("simulateTypingBeforeSend: false\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.TypingSim() {
		t.Error("explicit false should disable typing simulation")
	}
}

func TestParseMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("seed: [not a number\n")); err == nil {
		t.Error("expected a descriptive error for unparseable YAML")
	}
}
