// Package tui shows a running simulation live in the terminal: energy and
// temperature sparklines plus the current observables.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/moldyn/internal/config"
	"github.com/san-kum/moldyn/internal/experiment"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type Model struct {
	sim         *experiment.Simulation
	cfg         *config.Config
	last        experiment.Frame
	energyHist  []float64
	tempHist    []float64
	stepsDone   int
	running     bool
	finished    bool
	err         error
}

func NewModel(sim *experiment.Simulation, cfg *config.Config) Model {
	return Model{
		sim:        sim,
		cfg:        cfg,
		energyHist: make([]float64, 0, historyCapacity),
		tempHist:   make([]float64, 0, historyCapacity),
		running:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.finished {
				m.running = !m.running
			}
		}
	case TickMsg:
		if m.running && !m.finished && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	batch := m.cfg.SampleEvery
	if batch < 1 {
		batch = 1
	}
	if rest := m.cfg.Steps - m.stepsDone; batch > rest {
		batch = rest
	}
	if err := m.sim.Context.Step(batch); err != nil {
		m.err = err
		return
	}
	m.stepsDone += batch

	frame, err := m.sim.Sample()
	if err != nil {
		m.err = err
		return
	}
	m.last = frame
	m.energyHist = appendCapped(m.energyHist, frame.Kinetic+frame.Potential)
	m.tempHist = appendCapped(m.tempHist, frame.Temperature)

	if m.stepsDone >= m.cfg.Steps {
		m.finished = true
		m.running = false
	}
}

func appendCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[1:]
	}
	return hist
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Preset)+" / "+m.cfg.Integrator) + "\n")

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = "ERROR"
	case m.finished:
		status = "DONE"
	case !m.running:
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	if len(m.energyHist) > 1 {
		chart := asciigraph.Plot(m.energyHist, asciigraph.Height(6), asciigraph.Width(56), asciigraph.Caption("Total energy (kJ/mol)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.tempHist) > 1 {
		chart := asciigraph.Plot(m.tempHist, asciigraph.Height(4), asciigraph.Width(56), asciigraph.Caption("Temperature (K)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4f ps", m.last.Time)) + "\n")
	s.WriteString(labelStyle.Render("Kinetic") + valueStyle.Render(fmt.Sprintf("%.3f kJ/mol", m.last.Kinetic)) + "\n")
	s.WriteString(labelStyle.Render("Potential") + valueStyle.Render(fmt.Sprintf("%.3f kJ/mol", m.last.Potential)) + "\n")
	s.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.1f K", m.last.Temperature)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d / %d", m.stepsDone, m.cfg.Steps)) + "\n")
	s.WriteString(labelStyle.Render("Backend") + valueStyle.Render(m.sim.Context.Backend().Name()) + "\n")

	s.WriteString(helpStyle.Render("space: pause/resume  q: quit"))
	return s.String()
}

// Run builds a simulation from cfg and drives it interactively until the
// user quits or all steps complete.
func Run(cfg *config.Config) error {
	sim, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	defer sim.Context.Close()

	p := tea.NewProgram(NewModel(sim, cfg))
	_, err = p.Run()
	return err
}
