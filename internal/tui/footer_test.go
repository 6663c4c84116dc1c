package tui

import (
	"strings"
	"testing"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
)

func TestFooter(t *testing.T) {
	t.Parallel()
	km := DefaultKeyMap()

	wide := Footer{Width: 160, Bindings: SliderFooterBindings(km)}.View()
	for _, want := range []string{"reset weights", "+10", "quit"} {
		if !strings.Contains(wide, want) {
			t.Errorf("wide footer missing %q:\n%s", want, wide)
		}
	}

	narrow := Footer{Width: 40, Bindings: ListFooterBindings(km)}.View()
	if strings.Contains(narrow, "conflicts only") {
		t.Errorf("compact footer should omit descriptions:\n%s", narrow)
	}
}

func TestRenderSlider(t *testing.T) {
	t.Parallel()
	tests := []struct {
		weight float64
		full   int
	}{
		{0, 0},
		{50, 10},
		{100, 20},
		{250, 20},
	}
	for _, tt := range tests {
		line := renderSlider(fusion.SourceDetail{Source: catalog.Hubble, Weight: tt.weight}, false, 100)
		if got := strings.Count(line, sliderFull); got != tt.full {
			t.Errorf("weight %v: %d full cells, want %d", tt.weight, got, tt.full)
		}
		if got := strings.Count(line, sliderFull) + strings.Count(line, sliderEmpty); got != sliderWidth {
			t.Errorf("weight %v: bar has %d cells", tt.weight, got)
		}
	}
}
