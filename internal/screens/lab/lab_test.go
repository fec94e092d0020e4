package lab

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	mathlab "github.com/abhisek/misparia/internal/lab"
)

func press(s *LabScreen, code rune) {
	s.Update(tea.KeyPressMsg{Code: code})
}

func TestLabScreen_Defaults(t *testing.T) {
	s := New()
	if g := s.Grid(); g.Rows != mathlab.DefaultRows || g.Cols != mathlab.DefaultCols {
		t.Errorf("grid = %+v, want %dx%d", g, mathlab.DefaultRows, mathlab.DefaultCols)
	}
	if f := s.Fraction(); f.Num != 1 || f.Den != 4 {
		t.Errorf("fraction = %v, want 1/4", f)
	}
}

func TestLabScreen_GridArrows(t *testing.T) {
	s := New()
	press(s, tea.KeyDown)
	press(s, tea.KeyRight)
	press(s, tea.KeyRight)

	g := s.Grid()
	if g.Rows != 5 || g.Cols != 5 {
		t.Errorf("grid = %dx%d, want 5x5", g.Rows, g.Cols)
	}
	if !strings.Contains(s.View(80, 40), "25") {
		t.Error("expected the grid equation in the view")
	}
}

func TestLabScreen_GridClamps(t *testing.T) {
	s := New()
	for range 20 {
		press(s, tea.KeyUp)
	}
	if got := s.Grid().Rows; got != mathlab.MinSide {
		t.Errorf("rows = %d, want %d", got, mathlab.MinSide)
	}
}

func TestLabScreen_TabSwitchesToFractions(t *testing.T) {
	s := New()
	press(s, tea.KeyTab)
	press(s, tea.KeyUp)
	press(s, tea.KeyUp)

	if f := s.Fraction(); f.Num != 3 || f.Den != 4 {
		t.Errorf("fraction = %v, want 3/4", f)
	}
	if g := s.Grid(); g.Rows != mathlab.DefaultRows {
		t.Error("arrows on the fraction tab must not touch the grid")
	}
	if !strings.Contains(s.View(80, 40), "75%") {
		t.Error("expected the percentage in the view")
	}
}

func TestLabScreen_ShrinkingDenominatorClampsNumerator(t *testing.T) {
	s := New()
	press(s, tea.KeyTab)
	for range 3 {
		press(s, tea.KeyUp)
	}
	press(s, tea.KeyLeft)

	if f := s.Fraction(); f.Num != 3 || f.Den != 3 {
		t.Errorf("fraction = %v, want 3/3", f)
	}
}

func TestLabScreen_KeyHintsFollowTab(t *testing.T) {
	s := New()
	before := s.KeyHints()[0].Description
	press(s, tea.KeyTab)
	if after := s.KeyHints()[0].Description; after == before {
		t.Errorf("tab hint did not change: %q", after)
	}
}
