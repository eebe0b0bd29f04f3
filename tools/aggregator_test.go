package tools

import (
	"reflect"
	"testing"
)

func oauthTool(name, provider string, scopes ...string) ToolDescriptor {
	return ToolDescriptor{
		Name:          name,
		DisplayName:   name,
		RequiresOAuth: true,
		OAuthProvider: provider,
		OAuthScopes:   scopes,
	}
}

func TestAggregateGroupsSharedProvider(t *testing.T) {
	descriptors := []ToolDescriptor{
		oauthTool("gmail", "google", "a"),
		oauthTool("calendar", "Google", "b", "a"),
	}

	entries := Aggregate(descriptors)
	if len(entries) != 1 {
		t.Fatalf("expected one provider group, got %d entries", len(entries))
	}

	group := entries[0].Group
	if group == nil {
		t.Fatal("expected a group entry")
	}
	if group.ProviderKey != "google" {
		t.Errorf("provider key = %q, want google (lowercased)", group.ProviderKey)
	}
	if len(group.Tools) != 2 {
		t.Errorf("expected 2 member tools, got %d", len(group.Tools))
	}

	want := []string{"a", "b"}
	if !reflect.DeepEqual(group.AggregatedScopes, want) {
		t.Errorf("aggregatedScopes = %v, want %v (first-seen order)", group.AggregatedScopes, want)
	}
}

func TestAggregatePassThrough(t *testing.T) {
	apiTool := ToolDescriptor{Name: "jira", DisplayName: "Jira"}
	soloOAuth := oauthTool("slack", "slack", "chat:write")

	entries := Aggregate([]ToolDescriptor{apiTool, soloOAuth})
	if len(entries) != 2 {
		t.Fatalf("expected 2 standalone entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Group != nil {
			t.Errorf("entry %d should not be a group", i)
		}
	}
	if entries[0].Tool.Name != "jira" || entries[1].Tool.Name != "slack" {
		t.Errorf("pass-through order not preserved: %v, %v", entries[0].Key(), entries[1].Key())
	}
}

func TestAggregateScopeUnionCommutativeAndIdempotent(t *testing.T) {
	forward := []ToolDescriptor{
		oauthTool("gmail", "google", "a", "c"),
		oauthTool("calendar", "google", "b", "a"),
	}
	reversed := []ToolDescriptor{forward[1], forward[0]}

	scopeSet := func(entries []Entry) map[string]bool {
		set := make(map[string]bool)
		for _, s := range entries[0].Group.AggregatedScopes {
			set[s] = true
		}
		return set
	}

	first := Aggregate(forward)
	second := Aggregate(forward)
	swapped := Aggregate(reversed)

	if !reflect.DeepEqual(first[0].Group.AggregatedScopes, second[0].Group.AggregatedScopes) {
		t.Errorf("aggregation not idempotent: %v vs %v",
			first[0].Group.AggregatedScopes, second[0].Group.AggregatedScopes)
	}
	if !reflect.DeepEqual(scopeSet(first), scopeSet(swapped)) {
		t.Errorf("scope membership not commutative: %v vs %v",
			first[0].Group.AggregatedScopes, swapped[0].Group.AggregatedScopes)
	}
}

func TestAggregateGroupDefaultsToFirstMemberSchema(t *testing.T) {
	a := oauthTool("gmail", "google", "a")
	a.ToolCode = "google-mail"
	a.Fields = []CredentialField{{Name: "client_id", Label: "Client ID", Type: FieldText}}
	b := oauthTool("calendar", "google", "b")
	b.ToolCode = "google-calendar"

	entries := Aggregate([]ToolDescriptor{a, b})
	group := entries[0].Group
	if group.ToolCode() != "google-mail" {
		t.Errorf("group toolCode = %q, want first member's", group.ToolCode())
	}
	if len(group.Fields()) != 1 || group.Fields()[0].Name != "client_id" {
		t.Errorf("group fields should default to first member's, got %+v", group.Fields())
	}
}

func TestAggregateInstructionUnion(t *testing.T) {
	a := oauthTool("gmail", "google")
	a.OAuthInstructions = "Enable the Gmail API."
	b := oauthTool("calendar", "google")
	b.OAuthInstructions = "Enable the Calendar API."
	c := oauthTool("drive", "google")
	c.OAuthInstructions = "Enable the Gmail API."

	entries := Aggregate([]ToolDescriptor{a, b, c})
	got := entries[0].Group.OAuthInstructions
	want := "Enable the Gmail API.\n\nEnable the Calendar API."
	if got != want {
		t.Errorf("instructions = %q, want %q", got, want)
	}
}
