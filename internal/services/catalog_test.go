package services

import "testing"

func TestCatalog_KeysGloballyUnique(t *testing.T) {
	c := NewCatalog()
	seen := map[string]string{}
	for _, tier := range c.tiers {
		for _, e := range tier.entries {
			if prev, dup := seen[e.key]; dup {
				t.Fatalf("key %q defined in both %s and %s", e.key, prev, tier.name)
			}
			seen[e.key] = tier.name
		}
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		name string
		tier string
		key  string
		want string
	}{
		{"key in tier", TierPremium, "claude", "anthropic/claude-3.7-sonnet"},
		{"key absent from tier", TierPremium, "mistral", "openai/gpt-4o"},
		{"default key", TierFree, "default", "openai/gpt-3.5-turbo"},
		{"specialized first", TierSpecialized, "", "qwen/qwen-2.5-coder-32b-instruct"},
		{"empty tier is standard", "", "gemini", "google/gemini-2.0-flash-001"},
		{"empty tier unknown key", "", "nope", "openai/gpt-4o-mini"},
		{"unknown tier", "enterprise", "gpt4o", "mistralai/mistral-medium"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Resolve(tc.tier, tc.key); got != tc.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tc.tier, tc.key, got, tc.want)
			}
		})
	}
}

func TestCatalog_Select(t *testing.T) {
	c := NewCatalog()
	const fallback = "deepseek/deepseek-chat"

	tests := []struct {
		name  string
		tier  string
		model string
		want  string
	}{
		{"nothing requested", "", "", fallback},
		{"provider id passes", "", "openai/gpt-4o", "openai/gpt-4o"},
		{"logical key flattened", "", "reasoning", "anthropic/claude-3.5-sonnet"},
		{"unknown id passes through", "", "meta/llama-x", "meta/llama-x"},
		{"tier and key", TierFree, "auto", "openrouter/auto"},
		{"tier with provider id", TierFree, "openai/gpt-4o", "openai/gpt-4o"},
		{"tier with foreign key", TierFree, "claude", "openai/gpt-3.5-turbo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Select(tc.tier, tc.model, fallback); got != tc.want {
				t.Errorf("Select(%q, %q) = %q, want %q", tc.tier, tc.model, got, tc.want)
			}
		})
	}
}

func TestCatalog_Tiers(t *testing.T) {
	tiers := NewCatalog().Tiers()
	if len(tiers) != 4 {
		t.Fatalf("expected 4 tiers, got %d", len(tiers))
	}
	if tiers[0].Name != TierPremium || tiers[0].Models[0].Key != "gpt4o" {
		t.Fatalf("unexpected first tier: %+v", tiers[0])
	}
}
