package tools

import "strings"

// Aggregate buckets OAuth tools by lowercased provider key and folds buckets
// with two or more members into provider groups. Non-OAuth tools, OAuth tools
// with no siblings, and OAuth tools with no provider key pass through
// unchanged as standalone entries, in their original positions.
//
// Aggregation is idempotent: running it again over the same descriptor list
// yields identical groups and scope unions regardless of input order.
func Aggregate(descriptors []ToolDescriptor) []Entry {
	counts := make(map[string]int)
	for _, d := range descriptors {
		if key := providerKey(d); key != "" {
			counts[key]++
		}
	}

	entries := make([]Entry, 0, len(descriptors))
	groups := make(map[string]*ProviderGroup)

	for _, d := range descriptors {
		key := providerKey(d)
		if key == "" || counts[key] < 2 {
			tool := d
			entries = append(entries, Entry{Tool: &tool})
			continue
		}

		group, ok := groups[key]
		if !ok {
			group = &ProviderGroup{
				ProviderKey: key,
				DisplayName: providerDisplayName(key),
			}
			groups[key] = group
			// The group occupies the position of its first member.
			entries = append(entries, Entry{Group: group})
		}

		group.Tools = append(group.Tools, d)
		group.AggregatedScopes = unionScopes(group.AggregatedScopes, d.OAuthScopes)
		group.OAuthInstructions = unionInstructions(group.OAuthInstructions, d.OAuthInstructions)
	}

	return entries
}

func providerKey(d ToolDescriptor) string {
	if !d.RequiresOAuth {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(d.OAuthProvider))
}

// providerDisplayName title-cases the provider key for tools that arrive
// without a display-ready provider name.
func providerDisplayName(key string) string {
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// unionScopes appends scopes not already present, preserving first-seen
// order. Set union: commutative in membership, idempotent under repeats.
func unionScopes(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s] = true
	}
	for _, s := range incoming {
		if s == "" || seen[s] {
			continue
		}
		existing = append(existing, s)
		seen[s] = true
	}
	return existing
}

// unionInstructions joins distinct non-empty member instructions with a blank
// line so the consent screen shows every provider note once.
func unionInstructions(existing, incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" || incoming == existing || strings.Contains(existing, incoming) {
		return existing
	}
	if existing == "" {
		return incoming
	}
	return existing + "\n\n" + incoming
}
