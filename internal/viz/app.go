package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/input"
	"github.com/san-kum/headsim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	progressHistory = 120
	gestureLogSize  = 8

	// KeyImpulse is the raw axis value a key press produces. With unit
	// sensitivity it clears the default motion threshold.
	KeyImpulse = 3.0
	// KeyBurst is how many ticks one key press lasts.
	KeyBurst = 5

	RecordingPath = "headsim.gif"
)

type TickMsg time.Time

// Model is the Bubble Tea model of a live session.
type Model struct {
	session  *sim.Session
	keys     *input.Keyboard
	dt       float64
	canvas   *Canvas
	viewport Viewport

	last     sim.Frame
	progress []float64
	gestures []sim.GestureEvent

	running   bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted
	status    string
}

func NewModel(s *sim.Session) Model {
	canvas := NewCanvas(canvasWidth, canvasHeight)
	return Model{
		session:  s,
		keys:     input.NewKeyboard(),
		dt:       s.Config().Session.Dt,
		canvas:   canvas,
		viewport: NewViewport(canvas),
		last:     s.Snapshot(),
		progress: make([]float64, 0, progressHistory),
		running:  true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.keys.Press(-KeyImpulse, 0, KeyBurst)
	case "right", "l":
		m.keys.Press(KeyImpulse, 0, KeyBurst)
	case "up", "k":
		m.keys.Press(0, KeyImpulse, KeyBurst)
	case "down", "j":
		m.keys.Press(0, -KeyImpulse, KeyBurst)
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	case "g":
		if m.recording {
			m.status = m.saveGIF()
			m.recording = false
			m.frames = nil
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
			m.status = "recording"
		}
	}
	return m, nil
}

// step feeds one keyboard sample through the session.
func (m *Model) step() {
	x, y, _ := m.keys.Next()
	f := m.session.Step(x, y, m.dt)
	m.last = f

	m.progress = append(m.progress, f.Progress)
	if len(m.progress) > progressHistory {
		m.progress = m.progress[1:]
	}

	if f.Gesture != gesture.NoGesture {
		m.gestures = append(m.gestures, sim.GestureEvent{
			Step:    f.Step,
			Time:    f.Time,
			Gesture: f.Gesture,
			Target:  f.Target,
		})
		if len(m.gestures) > gestureLogSize {
			m.gestures = m.gestures[1:]
		}
	}
}

// reset reloads the scene, like restarting the level.
func (m *Model) reset() {
	m.session.Reset()
	m.keys = input.NewKeyboard()
	m.last = m.session.Snapshot()
	m.progress = m.progress[:0]
	m.gestures = nil
	m.status = "scene reset"
}

func (m Model) View() string {
	cfg := m.session.Config()
	DrawScene(m.canvas, m.viewport, m.session.Rig(), m.session.World(), cfg.Selection.MaxOutlineWidth)

	sceneView := panelStyle().Render(m.canvas.String())
	side := lipgloss.JoinVertical(lipgloss.Left,
		m.viewStatus(),
		m.viewObjects(),
		m.viewHistory(),
		m.viewGestures(),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, sceneView, side)

	var b strings.Builder
	b.WriteString(titleStyle().Render("HEADSIM") + "  " + subtle().Render(CurrentTheme.Name) + "\n")
	if m.showHelp {
		b.WriteString(m.viewHelp() + "\n")
	}
	b.WriteString(main + "\n")
	if len(m.progress) > 1 {
		chart := asciigraph.Plot(m.progress,
			asciigraph.Height(4),
			asciigraph.Width(canvasWidth),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption("selection progress"))
		b.WriteString(chart + "\n")
	}
	b.WriteString(keyHint().Render("←↓↑→/hjkl:Look  SP:Pause  R:Reset  T:Theme  G:Record  ?:Help  Q:Quit"))
	return b.String()
}

func (m Model) viewStatus() string {
	f := m.last
	state := "RUNNING"
	if !m.running {
		state = "PAUSED"
	}
	if m.status != "" {
		state += "  " + m.status
	}

	row := func(label, value string) string {
		return labelStyle().Render(label) + valueStyle().Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(titleStyle().Render(state) + "\n")
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", f.Time)))
	s.WriteString(row("Yaw", fmt.Sprintf("%+.1f°", f.Yaw)))
	s.WriteString(row("Pitch", fmt.Sprintf("%+.1f°", f.Pitch)))
	target := f.Target
	if target == "" {
		target = "-"
	}
	s.WriteString(row("Target", target))
	s.WriteString(row("Focused", fmt.Sprintf("%t", f.Focused)))
	return panelStyle().Render(strings.TrimRight(s.String(), "\n"))
}

func (m Model) viewObjects() string {
	var s strings.Builder
	s.WriteString(titleStyle().Render("OBJECTS") + "\n")
	for _, o := range m.session.World().Objects() {
		st := o.Machine.State()
		s.WriteString(fmt.Sprintf("%-10s %s %s\n",
			o.Name,
			OutlineStyle(o.Render.Color).Render(ProgressBar(o.Machine.Progress(), 10)),
			StateStyle(st).Render(st.String()),
		))
	}
	return panelStyle().Render(strings.TrimRight(s.String(), "\n"))
}

func (m Model) viewHistory() string {
	var s strings.Builder
	s.WriteString(titleStyle().Render("MOTION") + "\n")
	hist := m.session.Recognizer().History()
	for i := len(hist) - 1; i >= 0; i-- {
		s.WriteString(valueStyle().Render(hist[i].String()) + "\n")
	}
	return panelStyle().Render(strings.TrimRight(s.String(), "\n"))
}

func (m Model) viewGestures() string {
	var s strings.Builder
	s.WriteString(titleStyle().Render("GESTURES") + "\n")
	if len(m.gestures) == 0 {
		s.WriteString(subtle().Render("(none yet)"))
	}
	for i := len(m.gestures) - 1; i >= 0; i-- {
		ev := m.gestures[i]
		line := fmt.Sprintf("%6.2fs %-5s %s", ev.Time, ev.Gesture, ev.Target)
		s.WriteString(valueStyle().Render(line) + "\n")
	}
	return panelStyle().Render(strings.TrimRight(s.String(), "\n"))
}

func (m Model) viewHelp() string {
	lines := []string{
		"Look at an object to select it; the outline fills blue to green.",
		"Shake (left, right, left) to drop the selected object.",
		"Nod (up, down, up) to pull it close; nod again to push it back.",
		"",
		"Space - Pause/Resume    R - Reset scene",
		"T     - Cycle themes    G - Toggle GIF recording",
		"?     - Toggle help     Q - Quit",
	}
	return panelStyle().Render(strings.Join(lines, "\n"))
}

func (m *Model) captureFrame() {
	cfg := m.session.Config()
	DrawScene(m.canvas, m.viewport, m.session.Rig(), m.session.World(), cfg.Selection.MaxOutlineWidth)

	charW, charH := 8, 16
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH),
		color.Palette{color.Black, color.White})

	dotW, dotH := charW/2, charH/4
	pw, ph := m.canvas.PixelSize()
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() string {
	if len(m.frames) == 0 {
		return "nothing recorded"
	}
	anim := gif.GIF{LoopCount: 0}
	delay := max(int(m.dt*100), 1)
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(RecordingPath)
	if err != nil {
		return "record failed: " + err.Error()
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return "record failed: " + err.Error()
	}
	return "saved " + RecordingPath
}

// Run starts the live view in the alternate screen.
func Run(s *sim.Session) error {
	_, err := tea.NewProgram(NewModel(s), tea.WithAltScreen()).Run()
	return err
}
