package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/workspace"
)

func newTestModel(t *testing.T) AppModel {
	t.Helper()
	recs, err := catalog.Generate(12, 42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return NewAppModel(workspace.New(recs, 100), 100)
}

func press(t *testing.T, m AppModel, msgs ...tea.KeyMsg) AppModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(AppModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func weightsOf(t *testing.T, m AppModel) catalog.Weights {
	t.Helper()
	rec, ok := m.selected()
	if !ok {
		t.Fatal("no record selected")
	}
	return rec.Weights.Snapshot()
}

func TestNewAppModel_SelectsFirst(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	rec, ok := m.Workspace.Selected()
	if !ok || rec.ID != "COS-10000" {
		t.Errorf("selected = %v %v, want COS-10000", rec.ID, ok)
	}
}

func TestListNavigation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		wantID string
	}{
		{"down once", []tea.KeyMsg{{Type: tea.KeyDown}}, "COS-10001"},
		{"j twice", []tea.KeyMsg{runes("j"), runes("j")}, "COS-10002"},
		{"up at top stays", []tea.KeyMsg{{Type: tea.KeyUp}}, "COS-10000"},
		{"down past end clamps", repeat(tea.KeyMsg{Type: tea.KeyDown}, 30), "COS-10011"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := press(t, newTestModel(t), tt.keys...)
			rec, ok := m.Workspace.Selected()
			if !ok || rec.ID != tt.wantID {
				t.Errorf("selected %q, want %q", rec.ID, tt.wantID)
			}
		})
	}
}

func repeat(k tea.KeyMsg, n int) []tea.KeyMsg {
	out := make([]tea.KeyMsg, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func TestSliders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want catalog.Weights
	}{
		{
			name: "right adds one to hubble",
			keys: []tea.KeyMsg{{Type: tea.KeyRight}},
			want: catalog.Weights{catalog.Hubble: 34, catalog.Gaia: 33, catalog.JWST: 34},
		},
		{
			name: "shift+left removes ten",
			keys: []tea.KeyMsg{{Type: tea.KeyShiftLeft}},
			want: catalog.Weights{catalog.Hubble: 23, catalog.Gaia: 33, catalog.JWST: 34},
		},
		{
			name: "clamps at zero",
			keys: repeat(tea.KeyMsg{Type: tea.KeyShiftLeft}, 5),
			want: catalog.Weights{catalog.Hubble: 0, catalog.Gaia: 33, catalog.JWST: 34},
		},
		{
			name: "clamps at max",
			keys: repeat(tea.KeyMsg{Type: tea.KeyShiftRight}, 10),
			want: catalog.Weights{catalog.Hubble: 100, catalog.Gaia: 33, catalog.JWST: 34},
		},
		{
			name: "focus sliders and move to jwst",
			keys: []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyLeft}},
			want: catalog.Weights{catalog.Hubble: 33, catalog.Gaia: 33, catalog.JWST: 33},
		},
		{
			name: "reset restores defaults",
			keys: []tea.KeyMsg{{Type: tea.KeyShiftRight}, runes("r")},
			want: catalog.DefaultWeights(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := press(t, newTestModel(t), tt.keys...)
			if diff := cmp.Diff(tt.want, weightsOf(t, m)); diff != "" {
				t.Errorf("weights (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSliders_OnlyTouchSelectedRecord(t *testing.T) {
	t.Parallel()
	m := press(t, newTestModel(t), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight})

	first, _ := m.Workspace.Record("COS-10000")
	if diff := cmp.Diff(catalog.DefaultWeights(), first.Weights.Snapshot()); diff != "" {
		t.Errorf("unselected record changed (-want +got):\n%s", diff)
	}
}

func TestWeightsHook(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	var gotID string
	var got catalog.Weights
	m.OnWeights = func(id string, w catalog.Weights) { gotID, got = id, w }

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if gotID != "COS-10000" || got[catalog.Hubble] != 34 {
		t.Errorf("hook got %q %v", gotID, got)
	}
}

func TestWeightsFileMsg(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	want := catalog.Weights{catalog.Hubble: 0, catalog.Gaia: 0, catalog.JWST: 1}

	next, _ := m.Update(MsgWeightsFile{Weights: want})
	m = next.(AppModel)
	if diff := cmp.Diff(want, weightsOf(t, m)); diff != "" {
		t.Errorf("weights (-want +got):\n%s", diff)
	}

	next, _ = m.Update(MsgWeightsFile{Err: errors.New("bad file")})
	m = next.(AppModel)
	if m.Err == nil || !strings.Contains(m.Err.Error(), "bad file") {
		t.Errorf("Err = %v", m.Err)
	}

	next, _ = m.Update(MsgWeightsFile{Weights: catalog.Weights{catalog.Hubble: 500, catalog.Gaia: 0, catalog.JWST: 0}})
	m = next.(AppModel)
	if !errors.Is(m.Err, catalog.ErrInvalidArgument) {
		t.Errorf("over-max weights Err = %v", m.Err)
	}
	if diff := cmp.Diff(want, weightsOf(t, m)); diff != "" {
		t.Errorf("rejected update changed weights (-want +got):\n%s", diff)
	}
}

func TestConflictFilter(t *testing.T) {
	t.Parallel()
	m := press(t, newTestModel(t), runes("c"))
	if !m.ConflictsOnly {
		t.Fatal("ConflictsOnly not set")
	}
	for _, r := range m.rows() {
		if !r.HasConflict {
			t.Errorf("%s listed without conflict", r.ID)
		}
	}
	if rec, ok := m.selected(); ok && !rec.HasConflict {
		t.Errorf("selected %s has no conflict", rec.ID)
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()
	_, cmd := newTestModel(t).Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("command produced %T, want tea.QuitMsg", cmd())
	}
}

func TestView(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	if got := m.View(); got != "initializing..." {
		t.Errorf("View before size = %q", got)
	}

	for _, width := range []int{120, 50} {
		next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: 30})
		out := next.(AppModel).View()
		for _, want := range []string{"COSMIC", "COS-10000", "hubble", "gaia", "jwst", "fused"} {
			if !strings.Contains(out, want) {
				t.Errorf("width %d: view missing %q", width, want)
			}
		}
	}
}
