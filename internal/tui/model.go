// Package tui is the interactive harmonizer: a record list, the selected
// record's measurements, and one trust-weight slider per mission whose
// changes re-fuse the distance live.
package tui

import (
	"math"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/workspace"
)

// Focus selects which pane receives up/down.
type Focus int

// Focus targets.
const (
	FocusList    Focus = iota // Up/down move through records
	FocusSliders              // Up/down move between sliders
)

// Slider step sizes.
const (
	fineStep   = 1.0
	coarseStep = 10.0
)

// WeightsHook is called after every successful weight change.
type WeightsHook func(id string, w catalog.Weights)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	Workspace *workspace.Workspace
	Keys      KeyMap
	MaxWeight float64
	OnWeights WeightsHook

	Width  int
	Height int
	Focus  Focus

	// Cursor indexes into the visible rows; Slider indexes catalog.Sources().
	Cursor        int
	Slider        int
	ConflictsOnly bool
	// Err is the last rejected update, shown until the next successful one.
	Err error
}

// NewAppModel builds a model over ws with the first record selected.
func NewAppModel(ws *workspace.Workspace, maxWeight float64) AppModel {
	m := AppModel{
		Workspace: ws,
		Keys:      DefaultKeyMap(),
		MaxWeight: maxWeight,
	}
	m.syncSelection()
	return m
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgWeightsFile:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		if rec, ok := m.selected(); ok {
			m.apply(rec.ID, func() error { return m.Workspace.ReplaceWeights(rec.ID, msg.Weights) })
		}
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Focus):
		if m.Focus == FocusList {
			m.Focus = FocusSliders
		} else {
			m.Focus = FocusList
		}

	case key.Matches(msg, m.Keys.Up):
		m.move(-1)

	case key.Matches(msg, m.Keys.Down):
		m.move(1)

	case key.Matches(msg, m.Keys.DecCoarse):
		m.nudge(-coarseStep)

	case key.Matches(msg, m.Keys.IncCoarse):
		m.nudge(coarseStep)

	case key.Matches(msg, m.Keys.Dec):
		m.nudge(-fineStep)

	case key.Matches(msg, m.Keys.Inc):
		m.nudge(fineStep)

	case key.Matches(msg, m.Keys.Reset):
		if rec, ok := m.selected(); ok {
			m.apply(rec.ID, func() error { return m.Workspace.ReplaceWeights(rec.ID, catalog.DefaultWeights()) })
		}

	case key.Matches(msg, m.Keys.Conflicts):
		m.ConflictsOnly = !m.ConflictsOnly
		m.Cursor = 0
		m.syncSelection()
	}
	return m, nil
}

// move shifts the cursor of the focused pane, clamping at the ends.
func (m *AppModel) move(delta int) {
	if m.Focus == FocusSliders {
		m.Slider = clampInt(m.Slider+delta, 0, len(catalog.Sources())-1)
		return
	}
	m.Cursor = clampInt(m.Cursor+delta, 0, len(m.rows())-1)
	m.syncSelection()
}

// nudge changes the active slider of the selected record by delta,
// clamping to [0, MaxWeight].
func (m *AppModel) nudge(delta float64) {
	rec, ok := m.selected()
	if !ok {
		return
	}
	src := catalog.Sources()[m.Slider]
	v := rec.Weights.Snapshot()[src] + delta
	v = math.Max(0, v)
	if m.MaxWeight > 0 {
		v = math.Min(m.MaxWeight, v)
	}
	m.apply(rec.ID, func() error { return m.Workspace.SetWeight(rec.ID, src, v) })
}

// apply runs an update and reports the new weights to the hook.
func (m *AppModel) apply(id string, update func() error) {
	if err := update(); err != nil {
		m.Err = err
		return
	}
	m.Err = nil
	if m.OnWeights == nil {
		return
	}
	if rec, err := m.Workspace.Record(id); err == nil {
		m.OnWeights(id, rec.Weights.Snapshot())
	}
}

// rows returns the records currently listed.
func (m AppModel) rows() []catalog.Record {
	if m.ConflictsOnly {
		return m.Workspace.Conflicts()
	}
	return m.Workspace.Records()
}

// selected returns the record under the cursor.
func (m AppModel) selected() (catalog.Record, bool) {
	rows := m.rows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return catalog.Record{}, false
	}
	return rows[m.Cursor], true
}

// syncSelection mirrors the cursor into the workspace selection.
func (m *AppModel) syncSelection() {
	if rec, ok := m.selected(); ok {
		_ = m.Workspace.Select(rec.ID)
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
