package cli

import (
	"fmt"
	"image"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_vision"
	"github.com/SeamusWaldron/gocube_vision/internal/overlay"
	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

var (
	guideSolutionID string
	guideOverlayDir string
	guideFrame      string
)

var guideCmd = &cobra.Command{
	Use:   "guide [STATE]",
	Short: "Step through the solution interactively",
	Long: `Solve the cube and guide you through the solution one move at a time.

Hold the cube with F facing you and U on top. Each step shows the face to
turn, the direction and how the layer moves.

Keyboard shortcuts:
  SPACE/Enter - Move done, show the next one
  r           - Restart from the first move
  q/Esc       - Quit

With --overlay-dir every step is also rendered as a PNG frame
(step_01.png, step_02.png, ...) with the turning layer highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGuide,
}

func init() {
	rootCmd.AddCommand(guideCmd)
	addGuideFlags(guideCmd)
	guideCmd.Flags().StringVar(&guideSolutionID, "solution", "", "Guide a recorded solution ID instead of solving")
}

// addGuideFlags registers the overlay flags shared by guide and run.
func addGuideFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&guideOverlayDir, "overlay-dir", "", "Write an overlay PNG per step to this directory")
	cmd.Flags().StringVar(&guideFrame, "frame", "", "Camera frame to draw the overlays on")
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	stepStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder())

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Arrow colors match the overlay frames.
var directionColors = map[string]lipgloss.Color{
	"cw":     lipgloss.Color("40"),
	"ccw":    lipgloss.Color("196"),
	"double": lipgloss.Color("226"),
}

var faceNames = map[gocube.Face]string{
	gocube.FaceU: "Up",
	gocube.FaceR: "Right",
	gocube.FaceF: "Front",
	gocube.FaceD: "Down",
	gocube.FaceL: "Left",
	gocube.FaceB: "Back",
}

// Messages
type overlayWrittenMsg struct{ path string }
type overlayErrMsg struct{ err error }

// Model
type guideModel struct {
	solution gocube.Solution
	start    *gocube.State
	session  *gocube.Session
	restarts int

	// Overlay frames
	renderer   *overlay.Renderer
	overlayDir string
	lastFrame  string

	// UI
	width    int
	height   int
	err      error
	quitting bool
}

func newGuideModel(sol gocube.Solution, start *gocube.State, renderer *overlay.Renderer, overlayDir string) (*guideModel, error) {
	m := &guideModel{
		solution:   sol,
		start:      start,
		renderer:   renderer,
		overlayDir: overlayDir,
	}
	session, err := m.newSession()
	if err != nil {
		return nil, err
	}
	m.session = session
	return m, nil
}

func (m *guideModel) newSession() (*gocube.Session, error) {
	var opts []gocube.SessionOption
	if m.start != nil {
		opts = append(opts, gocube.WithStartState(*m.start))
	}
	return gocube.NewSession(m.solution, opts...)
}

func (m *guideModel) Init() tea.Cmd {
	return m.writeOverlay()
}

// writeOverlay renders the current step in the background.
func (m *guideModel) writeOverlay() tea.Cmd {
	if m.renderer == nil || m.overlayDir == "" {
		return nil
	}
	ins, ok := m.session.Instruction()
	if !ok {
		return nil
	}
	renderer, dir := m.renderer, m.overlayDir
	return func() tea.Msg {
		path, err := renderer.WriteFile(dir, ins)
		if err != nil {
			return overlayErrMsg{err: err}
		}
		return overlayWrittenMsg{path: path}
	}
}

func (m *guideModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.session.Cancel()
			m.quitting = true
			return m, tea.Quit

		case " ", "enter":
			if m.session.Confirm() {
				logger.Debug("move confirmed", zap.Int("index", m.session.Snapshot().Index))
				return m, m.writeOverlay()
			}

		case "r":
			session, err := m.newSession()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.session = session
			m.restarts++
			m.err = nil
			return m, m.writeOverlay()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case overlayWrittenMsg:
		m.lastFrame = msg.path

	case overlayErrMsg:
		m.err = msg.err
	}

	return m, nil
}

func (m *guideModel) View() string {
	if m.quitting {
		snap := m.session.Snapshot()
		if snap.Status == gocube.StatusComplete {
			return "Cube solved!\n"
		}
		return fmt.Sprintf("Stopped after %d of %d moves.\n", snap.Index, snap.Total)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("gocube-vision Guide"))
	b.WriteString("\n\n")

	snap := m.session.Snapshot()
	if ins, ok := m.session.Instruction(); ok {
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step %d / %d", ins.Step, ins.Total)))
		b.WriteString("\n")
		b.WriteString(moveStyle.BorderForeground(cueColor(ins.Cue)).Render(ins.Move.Notation()))
		b.WriteString("\n")
		b.WriteString(describe(ins))
		b.WriteString("\n\n")

		b.WriteString(progressBar(snap.Index, snap.Total, 30))
		b.WriteString("\n")
		if next := m.session.Remaining(); len(next) > 1 {
			upcoming := next[1:]
			more := ""
			if len(upcoming) > 8 {
				upcoming = upcoming[:8]
				more = " ..."
			}
			b.WriteString(statusStyle.Render("Then: " + upcoming.String() + more))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(stepStyle.Render("SOLVED!"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("All %d moves done.\n", snap.Total))
		if solved, ok := m.session.ExpectedSolved(); ok && !solved {
			b.WriteString(errorStyle.Render("The tracked cube does not come out solved; check the scan."))
			b.WriteString("\n")
		}
	}

	if m.lastFrame != "" {
		b.WriteString(statusStyle.Render("Overlay: " + m.lastFrame))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "SPACE=done  r=restart  q=quit"
	if snap.Status.Terminal() {
		help = "r=restart  q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

func cueColor(cue gocube.Cue) lipgloss.Color {
	switch {
	case cue.Arrows == 2:
		return directionColors["double"]
	case cue.Direction == gocube.CounterClockwise:
		return directionColors["ccw"]
	default:
		return directionColors["cw"]
	}
}

// describe spells out a move for someone holding the cube F toward them.
func describe(ins gocube.Instruction) string {
	turn := ins.Direction.String()
	if ins.Cue.Arrows == 2 {
		turn = "a half turn"
	}

	var motion string
	switch ins.Cue.Sweep {
	case gocube.SweepLeft, gocube.SweepRight, gocube.SweepUp, gocube.SweepDown:
		motion = "the front stickers of that layer move " + ins.Cue.Sweep.String()
	case gocube.SweepCurlCW:
		motion = "the front face turns clockwise as you see it"
	case gocube.SweepCurlCCW:
		motion = "the front face turns counter-clockwise as you see it"
	}
	if ins.Face == gocube.FaceB {
		motion = "turn the back layer; " + motion
	}

	return fmt.Sprintf("Turn the %s face %s\n(%s)", faceNames[ins.Face], turn, motion)
}

func progressBar(done, total, width int) string {
	if total == 0 {
		return ""
	}
	filled := done * width / total
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("█", filled), strings.Repeat("░", width-filled), done, total)
}

// loadFrame decodes the optional background frame for the overlays.
func loadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	return img, nil
}

func newRenderer() (*overlay.Renderer, error) {
	if guideOverlayDir == "" {
		return nil, nil
	}
	opts := []overlay.Option{overlay.WithGridSize(cfg.GridSize)}
	if guideFrame != "" {
		img, err := loadFrame(guideFrame)
		if err != nil {
			return nil, err
		}
		opts = append(opts, overlay.WithBackground(img))
	}
	return overlay.New(opts...), nil
}

// guide runs the interactive session and records how it ended. An empty
// solution completes at once without starting the TUI.
func guide(db *storage.DB, sol gocube.Solution, solutionID string, start *gocube.State) error {
	renderer, err := newRenderer()
	if err != nil {
		return err
	}
	model, err := newGuideModel(sol, start, renderer, guideOverlayDir)
	if err != nil {
		return err
	}

	repo := storage.NewGuidanceRepository(db)
	var sessionID string
	if solutionID != "" {
		sessionID, err = repo.Start(solutionID, model.session.Snapshot())
		if err != nil {
			logger.Warn("failed to record guidance start", zap.Error(err))
		}
	}

	final := model
	alreadySolved := model.session.Status() == gocube.StatusComplete
	if alreadySolved {
		fmt.Println("The cube is already solved. Nothing to guide.")
	} else {
		p := tea.NewProgram(model, tea.WithAltScreen())
		result, err := p.Run()
		if err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		final = result.(*guideModel)
	}
	snap := final.session.Snapshot()

	if sessionID != "" {
		var expected *bool
		if solved, ok := final.session.ExpectedSolved(); ok {
			expected = &solved
		}
		if err := repo.Finish(sessionID, snap, expected); err != nil {
			logger.Warn("failed to record guidance end", zap.Error(err))
		}
	}
	logger.Info("guidance finished",
		zap.String("session_id", sessionID),
		zap.Stringer("status", snap.Status),
		zap.Int("confirmed", snap.Index),
		zap.Int("total", snap.Total),
		zap.Int("restarts", final.restarts),
	)

	if !alreadySolved {
		fmt.Print(final.View())
	}
	return nil
}

// recordedSolution loads a solution by ID together with the state it solves.
func recordedSolution(db *storage.DB, id string) (gocube.Solution, *gocube.State, error) {
	rec, err := storage.NewSolutionRepository(db).Get(id)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, fmt.Errorf("solution %s not found", id)
	}
	sol, err := rec.Parsed()
	if err != nil {
		return nil, nil, err
	}
	state, err := gocube.ParseState(rec.State)
	if err != nil {
		logger.Warn("recorded state unreadable, guiding without it",
			zap.String("solution_id", id),
			zap.Error(err),
		)
		return sol, nil, nil
	}
	return sol, &state, nil
}

func runGuide(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if guideSolutionID != "" {
		sol, start, err := recordedSolution(db, guideSolutionID)
		if err != nil {
			return err
		}
		return guide(db, sol, guideSolutionID, start)
	}

	state, err := loadState(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("Solving with the %s engine...\n", cfg.Engine)
	sol, solutionID, err := solveState(ctx, db, state)
	if err != nil {
		return err
	}
	return guide(db, sol, solutionID, &state)
}
