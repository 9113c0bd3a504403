package services

import (
	"strings"

	"smartbrief-backend/internal/models"
)

const (
	TierPremium     = "premium"
	TierStandard    = "standard"
	TierFree        = "free"
	TierSpecialized = "specialized"
)

type catalogEntry struct {
	key   string
	model string
}

type catalogTier struct {
	name    string
	entries []catalogEntry
}

// Catalog resolves logical model keys to provider-qualified model ids.
// Tiers and entries keep their declaration order, so "first entry" is stable.
type Catalog struct {
	tiers []catalogTier
}

func NewCatalog() *Catalog {
	return &Catalog{tiers: []catalogTier{
		{TierPremium, []catalogEntry{
			{"gpt4o", "openai/gpt-4o"},
			{"claude", "anthropic/claude-3.7-sonnet"},
			{"gpt4", "openai/gpt-4-turbo"},
			{"gemini-2.5-pro", "google/gemini-2.5-pro-preview"},
		}},
		{TierStandard, []catalogEntry{
			{"gpt4o-mini", "openai/gpt-4o-mini"},
			{"mistral", "mistralai/mistral-medium"},
			{"gemini", "google/gemini-2.0-flash-001"},
			{"gemini-1.5-pro", "google/gemini-pro-1.5"},
			{"gpt4.1-mini", "openai/gpt-4.1-mini"},
		}},
		{TierFree, []catalogEntry{
			{"gpt35", "openai/gpt-3.5-turbo"},
			{"gemini-free", "google/gemini-2.0-flash-lite-001:free"},
			{"auto", "openrouter/auto"},
			{"gemma2-9b-free", "google/gemma-2-9b-it:free"},
			{"qwen3-8b-free", "qwen/qwen3-8b:free"},
			{"gpt4.1-nano", "openai/gpt-4.1-nano"},
		}},
		{TierSpecialized, []catalogEntry{
			{"coding", "qwen/qwen-2.5-coder-32b-instruct"},
			{"reasoning", "anthropic/claude-3.5-sonnet"},
			{"creative", "anthropic/claude-3-opus"},
		}},
	}}
}

func (c *Catalog) tier(name string) (catalogTier, bool) {
	for _, t := range c.tiers {
		if t.name == name {
			return t, true
		}
	}
	return catalogTier{}, false
}

// Resolve returns the model for key within tier. An empty tier means standard.
// A key missing from the tier yields the tier's first entry; an unknown tier
// yields the standard mistral model.
func (c *Catalog) Resolve(tier, key string) string {
	if tier == "" {
		tier = TierStandard
	}

	t, ok := c.tier(tier)
	if !ok || len(t.entries) == 0 {
		standard, _ := c.tier(TierStandard)
		for _, e := range standard.entries {
			if e.key == "mistral" {
				return e.model
			}
		}
		return ""
	}

	for _, e := range t.entries {
		if e.key == key {
			return e.model
		}
	}
	return t.entries[0].model
}

// Lookup finds a logical key in the flattened catalog.
func (c *Catalog) Lookup(key string) (string, bool) {
	for _, t := range c.tiers {
		for _, e := range t.entries {
			if e.key == key {
				return e.model, true
			}
		}
	}
	return "", false
}

// Contains reports whether model is a provider-qualified id present in the catalog.
func (c *Catalog) Contains(model string) bool {
	for _, t := range c.tiers {
		for _, e := range t.entries {
			if e.model == model {
				return true
			}
		}
	}
	return false
}

// Select picks the model for one request. fallback is used when neither a
// tier nor a model was requested.
func (c *Catalog) Select(tier, model, fallback string) string {
	tier = strings.TrimSpace(tier)
	model = strings.TrimSpace(model)

	switch {
	case tier != "":
		if c.Contains(model) {
			return model
		}
		return c.Resolve(tier, model)
	case model == "":
		return fallback
	case c.Contains(model):
		return model
	}

	if m, ok := c.Lookup(model); ok {
		return m
	}
	// Unknown ids are passed through and fail at the inference boundary if unservable.
	return model
}

// Tiers returns the catalog for display.
func (c *Catalog) Tiers() []models.ModelTier {
	out := make([]models.ModelTier, 0, len(c.tiers))
	for _, t := range c.tiers {
		mt := models.ModelTier{Name: t.name, Models: make([]models.ModelEntry, len(t.entries))}
		for i, e := range t.entries {
			mt.Models[i] = models.ModelEntry{Key: e.key, Model: e.model}
		}
		out = append(out, mt)
	}
	return out
}
