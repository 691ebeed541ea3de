// Package viz renders the live terminal view: wave profile, motion traces
// and the hydrostatics panel, fed exclusively from orchestrator snapshots.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/shipsim/internal/config"
	"github.com/san-kum/shipsim/internal/motion"
	"github.com/san-kum/shipsim/internal/sim"
	"github.com/san-kum/shipsim/internal/wave"
)

const historyCapacity = 300

type TickMsg time.Time

// Model is the bubbletea model for the live view.
type Model struct {
	orch *sim.Orchestrator
	snap sim.Snapshot
	err  error

	fps      int
	running  bool
	showHelp bool

	seaNames []string
	seaIdx   int
	seed     int64

	rollHist  []float64
	heaveHist []float64
}

// NewModel wires the view to an orchestrator. fps is the tick rate.
func NewModel(orch *sim.Orchestrator, fps int, seaPreset string, seed int64) Model {
	names := config.ListSeaPresets()
	idx := 0
	for i, n := range names {
		if n == seaPreset {
			idx = i
		}
	}
	return Model{
		orch:     orch,
		fps:      fps,
		running:  true,
		seaNames: names,
		seaIdx:   idx,
		seed:     seed,
	}
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			m.seaIdx = (m.seaIdx + 1) % len(m.seaNames)
			if p := config.GetSeaPreset(m.seaNames[m.seaIdx]); p != nil {
				if f, err := wave.FromSeaState(p.Hs, p.Tp, p.Components, m.seed); err == nil {
					m.orch.SetSeaState(f)
				}
			}
		case "h", "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		if m.running {
			snap, err := m.orch.Tick(1 / float64(m.fps))
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.snap = snap
			m.rollHist = appendCapped(m.rollHist, snap.Motion[motion.Roll].Displacement*180/math.Pi)
			m.heaveHist = appendCapped(m.heaveHist, snap.Motion[motion.Heave].Displacement)
		}
		return m, m.tick()
	}
	return m, nil
}

func appendCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[len(hist)-historyCapacity:]
	}
	return hist
}

func (m Model) View() string {
	if m.err != nil {
		return warnStyle.Render("simulation error: "+m.err.Error()) + "\n"
	}
	if m.snap.GZ == nil {
		return "starting...\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("shipsim live  t=%.1fs  sea=%s", m.snap.Time, m.seaNames[m.seaIdx])))
	b.WriteString("\n")

	if len(m.snap.WaveProfile) > 0 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.snap.WaveProfile,
			asciigraph.Height(6), asciigraph.Caption("wave profile (m)"))))
		b.WriteString("\n")
	}
	if len(m.rollHist) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.rollHist,
			asciigraph.Height(6), asciigraph.Caption("roll (deg)"))))
		b.WriteString("\n")
	}
	if len(m.heaveHist) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.heaveHist,
			asciigraph.Height(5), asciigraph.Caption("heave (m)"))))
		b.WriteString("\n")
	}

	b.WriteString(m.statsView())

	if m.showHelp {
		b.WriteString(helpStyle.Render("space pause · s cycle sea state · h help · q quit"))
	} else {
		b.WriteString(helpStyle.Render("h for help"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) statsView() string {
	s := m.snap
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(row("displacement", fmt.Sprintf("%.0f t", s.Ship.Displacement)))
	b.WriteString(row("KG", fmt.Sprintf("%.2f m", s.Ship.KG)))
	gm := fmt.Sprintf("%.2f m", s.GZ.GM)
	if s.GZ.GM <= 0 {
		gm = warnStyle.Render(gm + "  UNSTABLE")
	}
	b.WriteString(row("GM", gm))
	b.WriteString(row("max GZ", fmt.Sprintf("%.2f m @ %.0f°", s.GZ.MaxGZ, s.GZ.MaxGZAngleDeg)))
	b.WriteString(row("vanishing", fmt.Sprintf("%.0f°", s.GZ.VanishingAngle)))
	b.WriteString(row("sea", fmt.Sprintf("Hs %.1f m · Tp %.1f s", s.Sea.SignificantHeight, s.Sea.DominantPeriod)))
	b.WriteString(row("roll p-p", fmt.Sprintf("%.2f°", s.Amplitudes[motion.Roll]*180/math.Pi)))
	b.WriteString(row("heave p-p", fmt.Sprintf("%.2f m", s.Amplitudes[motion.Heave])))
	b.WriteString(row("pitch p-p", fmt.Sprintf("%.2f°", s.Amplitudes[motion.Pitch]*180/math.Pi)))
	return statsStyle.Render(b.String()) + "\n"
}

// Run starts the live view and blocks until quit.
func Run(orch *sim.Orchestrator, fps int, seaPreset string, seed int64) error {
	if fps <= 0 {
		fps = 20
	}
	p := tea.NewProgram(NewModel(orch, fps, seaPreset, seed))
	_, err := p.Run()
	return err
}
