package common

import "testing"

func TestHasAny(t *testing.T) {
	tests := []struct {
		name string
		s    string
		subs []string
		want bool
	}{
		{name: "match ignores case", s: "Light Rain Shower", subs: []string{"rain"}, want: true},
		{name: "second candidate", s: "Overcast", subs: []string{"cloud", "overcast"}, want: true},
		{name: "no match", s: "Sunny", subs: []string{"snow", "sleet"}, want: false},
		{name: "no candidates", s: "Sunny", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAny(tt.s, tt.subs...); got != tt.want {
				t.Errorf("HasAny(%q, %v) = %v, want %v", tt.s, tt.subs, got, tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "invalid access key", "fallback"); got != "invalid access key" {
		t.Fatalf("unexpected value %q", got)
	}
	if got := FirstNonEmpty("", ""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
