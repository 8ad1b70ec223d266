package groups_test

import (
	"testing"

	"tgconsole/internal/domain"
	"tgconsole/internal/groups"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input          string
		wantType       domain.GroupRefType
		wantNormalized string
	}{
		{"@my_group", domain.RefUsername, "my_group"},
		{"my_group", domain.RefUsername, "my_group"},
		{"https://t.me/my_group", domain.RefUsername, "my_group"},
		{"t.me/my_group", domain.RefUsername, "my_group"},
		{"https://t.me/joinchat/AbCdEf123", domain.RefInviteLink, "https://t.me/joinchat/AbCdEf123"},
		{"https://t.me/+AbCdEf123", domain.RefInviteLink, "https://t.me/+AbCdEf123"},
		{"t.me/+AbCdEf123", domain.RefInviteLink, "t.me/+AbCdEf123"},
		{"-1001234567890", domain.RefNumericID, "-1001234567890"},
		// Bare digits match the handle shape, which ranks first.
		{"1234567890", domain.RefUsername, "1234567890"},
		{"https://example.com/foo", domain.RefUnknown, "https://example.com/foo"},
		{"not a handle", domain.RefUnknown, "not a handle"},
		{"  @padded  ", domain.RefUsername, "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref := groups.Classify(tt.input)
			if ref.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", ref.Type, tt.wantType)
			}
			if ref.Normalized != tt.wantNormalized {
				t.Errorf("Normalized = %q, want %q", ref.Normalized, tt.wantNormalized)
			}
			if ref.Display != ref.Normalized {
				t.Errorf("Display = %q, want normalized identifier", ref.Display)
			}
		})
	}
}

// The same account referenced three ways collapses to one identifier.
func TestClassify_HandleRoundTrip(t *testing.T) {
	for _, input := range []string{"@foo", "https://t.me/foo", "foo"} {
		ref := groups.Classify(input)
		if ref.Type != domain.RefUsername {
			t.Errorf("Classify(%q).Type = %v, want username", input, ref.Type)
		}
		if ref.Normalized != "foo" {
			t.Errorf("Classify(%q).Normalized = %q, want foo", input, ref.Normalized)
		}
	}
}

func TestClassify_NeverRejects(t *testing.T) {
	for _, input := range []string{"???", "a b c", "https://elsewhere.example"} {
		ref := groups.Classify(input)
		if ref.Type != domain.RefUnknown {
			t.Errorf("Classify(%q).Type = %v, want unknown passthrough", input, ref.Type)
		}
		if ref.Normalized == "" {
			t.Errorf("Classify(%q) dropped the raw text", input)
		}
	}
}
