package profile

import (
	"slices"
	"strings"
	"testing"
)

func TestUpdateValidate(t *testing.T) {
	tests := []struct {
		name   string
		update Update
		want   int
	}{
		{"valid", Update{Name: "Asha", Phone: "+91 98765 43210"}, 0},
		{"blankName", Update{Name: "  "}, 1},
		{"longName", Update{Name: strings.Repeat("a", 101)}, 1},
		{"longPhone", Update{Name: "Asha", Phone: strings.Repeat("9", 21)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.update.Validate(); len(got) != tt.want {
				t.Errorf("Validate() = %v, want %d problems", got, tt.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"vegan", []string{"vegan"}},
		{" vegan , nut-free,,vegan ", []string{"vegan", "nut-free"}},
	}

	for _, tt := range tests {
		if got := ParseList(tt.raw); !slices.Equal(got, tt.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
