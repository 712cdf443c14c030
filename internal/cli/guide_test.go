package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	gocube "github.com/SeamusWaldron/gocube_vision"
	"github.com/SeamusWaldron/gocube_vision/internal/overlay"
)

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEscape}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func scrambledModel(t *testing.T, scramble string) (*guideModel, gocube.Solution) {
	t.Helper()
	moves, err := gocube.ParseSolution(scramble)
	if err != nil {
		t.Fatal(err)
	}
	cube := gocube.NewCube()
	cube.ApplyMoves(moves)
	start := cube.State()

	var sol gocube.Solution
	for i := len(moves) - 1; i >= 0; i-- {
		sol = append(sol, moves[i].Inverse())
	}

	m, err := newGuideModel(sol, &start, nil, "")
	if err != nil {
		t.Fatalf("newGuideModel error = %v", err)
	}
	return m, sol
}

func TestGuideModel_ConfirmToComplete(t *testing.T) {
	m, sol := scrambledModel(t, "R U F' D2")

	for i := range sol {
		key := keySpace
		if i%2 == 1 {
			key = keyEnter
		}
		_, cmd := m.Update(key)
		if isQuit(cmd) {
			t.Fatalf("confirm %d quit the program", i+1)
		}
	}

	if got := m.session.Status(); got != gocube.StatusComplete {
		t.Fatalf("status = %v, want complete", got)
	}
	if solved, ok := m.session.ExpectedSolved(); !ok || !solved {
		t.Errorf("ExpectedSolved = %v, %v", solved, ok)
	}
	if !strings.Contains(m.View(), "SOLVED!") {
		t.Errorf("View() missing SOLVED!:\n%s", m.View())
	}

	// Extra confirms are ignored.
	m.Update(keySpace)
	if m.session.Snapshot().Index != len(sol) {
		t.Errorf("index moved past the end: %d", m.session.Snapshot().Index)
	}
}

func TestGuideModel_Quit(t *testing.T) {
	for name, key := range map[string]tea.KeyMsg{
		"q":      runeKey('q'),
		"esc":    keyEsc,
		"ctrl+c": keyCtrlC,
	} {
		m, _ := scrambledModel(t, "R U")
		m.Update(keySpace)

		_, cmd := m.Update(key)
		if !isQuit(cmd) {
			t.Errorf("%s: expected quit", name)
		}
		snap := m.session.Snapshot()
		if snap.Status != gocube.StatusCancelled || snap.Index != 1 {
			t.Errorf("%s: snapshot = %+v", name, snap)
		}
		if !strings.Contains(m.View(), "Stopped after 1 of 2 moves") {
			t.Errorf("%s: View() = %q", name, m.View())
		}
	}
}

func TestGuideModel_QuitAfterComplete(t *testing.T) {
	m, _ := scrambledModel(t, "R")
	m.Update(keySpace)
	_, cmd := m.Update(runeKey('q'))
	if !isQuit(cmd) {
		t.Fatal("expected quit")
	}
	if m.session.Status() != gocube.StatusComplete {
		t.Errorf("status = %v, want complete to stay", m.session.Status())
	}
	if !strings.Contains(m.View(), "Cube solved!") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestGuideModel_Restart(t *testing.T) {
	m, _ := scrambledModel(t, "R U F")
	m.Update(keySpace)
	m.Update(keySpace)

	m.Update(runeKey('r'))
	snap := m.session.Snapshot()
	if snap.Index != 0 || snap.Status != gocube.StatusAwaiting {
		t.Errorf("after restart: %+v", snap)
	}
	if m.restarts != 1 {
		t.Errorf("restarts = %d", m.restarts)
	}
	ins, ok := m.session.Instruction()
	if !ok || ins.Move != gocube.FPrime {
		t.Errorf("first instruction = %v, %v", ins.Move, ok)
	}
}

func TestGuideModel_View(t *testing.T) {
	m, _ := scrambledModel(t, "R")
	view := m.View()
	for _, want := range []string{"Step 1 / 1", "R'", "Right face counter-clockwise", "move down"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestGuideModel_WritesOverlays(t *testing.T) {
	dir := t.TempDir()
	sol, _ := gocube.ParseSolution("U2 B")
	m, err := newGuideModel(sol, nil, overlay.New(), dir)
	if err != nil {
		t.Fatal(err)
	}

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should render the first step")
	}
	m.Update(cmd())
	if m.lastFrame != filepath.Join(dir, "step_01.png") {
		t.Errorf("lastFrame = %q", m.lastFrame)
	}

	_, cmd = m.Update(keySpace)
	if cmd == nil {
		t.Fatal("confirm should render the next step")
	}
	m.Update(cmd())
	if _, err := os.Stat(filepath.Join(dir, "step_02.png")); err != nil {
		t.Errorf("step_02.png: %v", err)
	}

	// Nothing left to render once complete.
	if _, cmd = m.Update(keySpace); cmd != nil {
		t.Error("no overlay expected after the last move")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		move string
		want string
	}{
		{"U", "Turn the Up face clockwise"},
		{"L'", "Turn the Left face counter-clockwise"},
		{"F2", "Turn the Front face a half turn"},
		{"B", "turn the back layer"},
		{"F", "front face turns clockwise as you see it"},
	}
	for _, tt := range tests {
		m, _ := gocube.ParseMove(tt.move)
		cue := gocube.CueFor(m)
		ins := gocube.Instruction{Move: m, Face: m.Face, Direction: cue.Direction, Step: 1, Total: 1, Cue: cue}
		if got := describe(ins); !strings.Contains(got, tt.want) {
			t.Errorf("describe(%s) = %q, want it to contain %q", tt.move, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(0, 0, 10); got != "" {
		t.Errorf("empty total: %q", got)
	}
	if got := progressBar(5, 10, 10); got != "[█████░░░░░] 5/10" {
		t.Errorf("progressBar(5, 10) = %q", got)
	}
}
