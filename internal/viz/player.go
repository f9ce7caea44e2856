package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

const (
	historyCapacity = 600
	maxSpeed        = 64
)

type tickMsg time.Time

// Player replays a schedule through a solver, one or more steps per tick.
type Player struct {
	sched     *protocol.Schedule
	newSolver driver.SolverFactory
	solver    driver.Solver
	unit      string
	interval  time.Duration

	pos      int
	speed    int
	running  bool
	err      error
	history  []float64
	targets  []float64
	showHelp bool
}

// NewPlayer builds a paused-at-zero player. newSolver is called again on
// restart.
func NewPlayer(s *protocol.Schedule, newSolver driver.SolverFactory, unit string) Player {
	return Player{
		sched:     s,
		newSolver: newSolver,
		solver:    newSolver(),
		unit:      unit,
		interval:  time.Second / 30,
		speed:     1,
		running:   true,
		history:   make([]float64, 0, historyCapacity),
		targets:   make([]float64, 0, historyCapacity),
	}
}

func (m Player) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Player) Init() tea.Cmd {
	return m.tick()
}

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "r":
			m.restart()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tickMsg:
		if m.running && !m.Done() {
			m.advance(m.speed)
		}
		return m, m.tick()
	}
	return m, nil
}

// advance applies up to n steps and stops on the first solver failure.
func (m *Player) advance(n int) {
	for i := 0; i < n && !m.Done(); i++ {
		st := m.sched.Steps[m.pos]
		if err := m.solver.Step(context.Background(), st.Increment); err != nil {
			m.err = &driver.StepError{
				Index:  st.Index,
				Peak:   st.Peak,
				Cycle:  st.Cycle,
				Target: st.Target,
				Err:    err,
			}
			m.running = false
			return
		}
		m.pos++
		m.history = appendCapped(m.history, m.solver.Displacement())
		m.targets = appendCapped(m.targets, st.Target)
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[len(s)-historyCapacity:]
	}
	return s
}

func (m *Player) restart() {
	m.solver = m.newSolver()
	m.pos = 0
	m.err = nil
	m.running = true
	m.history = m.history[:0]
	m.targets = m.targets[:0]
}

// Done reports whether every step was applied or the solver failed.
func (m Player) Done() bool {
	return m.err != nil || m.pos >= m.sched.Len()
}

func (m Player) Position() int { return m.pos }

func (m Player) Err() error { return m.err }

func (m Player) View() string {
	var chart string
	if len(m.history) > 1 {
		chart = PlotMany([][]float64{m.targets, m.history},
			fmt.Sprintf("Displacement (%s)", m.unit),
			PlotOptions{Width: 60, Height: 12})
	} else {
		chart = Subtle.Render("waiting for steps...")
	}

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(m.sched.Protocol.Name))
	s.WriteString("\n\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = StatusFailed.Render(driver.Incomplete.String())
	case m.pos >= m.sched.Len():
		status = StatusRunning.Render(driver.Done.String())
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(KeyValue("Status", status) + "\n")
	s.WriteString(KeyValue("Step", fmt.Sprintf("%d / %d", m.pos, m.sched.Len())) + "\n")
	s.WriteString(KeyValue("Speed", fmt.Sprintf("%dx", m.speed)) + "\n")

	if m.pos > 0 {
		st := m.sched.Steps[m.pos-1]
		s.WriteString(KeyValue("Peak", fmt.Sprintf("#%d  %g", st.PeakIndex+1, st.Peak)) + "\n")
		s.WriteString(KeyValue("Cycle", fmt.Sprintf("%d", st.Cycle)) + "\n")
		s.WriteString(KeyValue("Target", fmt.Sprintf("%.4f %s", st.Target, m.unit)) + "\n")
		s.WriteString(KeyValue("Displacement", fmt.Sprintf("%.4f %s", m.solver.Displacement(), m.unit)) + "\n")
	}

	progress := 0.0
	if m.sched.Len() > 0 {
		progress = float64(m.pos) / float64(m.sched.Len())
	}
	s.WriteString("\n" + ProgressBar(progress, 30) + "\n")

	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(m.err.Error()) + "\n")
	}

	s.WriteString(KeyHint.Render("\nSP:Pause +/-:Speed R:Restart ?:Help Q:Quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(chart), Panel.Render(s.String()))
	if m.showHelp {
		help := Panel.Render(strings.Join([]string{
			Title.Render("Keys"),
			"space  pause or resume",
			"+ / -  double or halve steps per frame",
			"r      restart from zero",
			"q      quit",
		}, "\n"))
		return help + "\n" + view
	}
	return view
}
