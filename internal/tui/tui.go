// Package tui is a terminal front end for the drill
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/wordloop/internal/drill"
	"codeberg.org/snonux/wordloop/internal/sampler"
)

const (
	rangeStep    = 0.05
	intervalStep = 5 * time.Second
	barWidth     = 20
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleWord   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleSubtle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleBarIn  = lipgloss.NewStyle().Background(lipgloss.Color("10"))
	styleBarOut = lipgloss.NewStyle().Background(lipgloss.Color("8"))
	styleBox    = lipgloss.NewStyle().Padding(1, 4)
)

type view int

const (
	viewDrill view = iota
	viewLists
)

// sampleMsg carries a sample drawn outside of Update, e.g. by the timer
type sampleMsg sampler.Sample

type model struct {
	ctrl *drill.Controller
	help help.Model

	view   view
	names  []string
	cursor int

	samples <-chan sampler.Sample
	copy    func(string) error

	status string
	err    error
}

func newModel(ctrl *drill.Controller, samples <-chan sampler.Sample) model {
	m := model{
		ctrl:    ctrl,
		help:    help.New(),
		samples: samples,
		copy:    clipboard.WriteAll,
	}
	m.reloadNames()
	return m
}

// Run drills in the terminal until the user quits or ctx is done
func Run(ctx context.Context, ctrl *drill.Controller) error {
	samples := make(chan sampler.Sample, 1)
	ctrl.OnChange(func(s sampler.Sample) {
		// Only the newest sample matters
		for {
			select {
			case samples <- s:
				return
			default:
				select {
				case <-samples:
				default:
				}
			}
		}
	})

	p := tea.NewProgram(newModel(ctrl, samples), tea.WithAltScreen(), tea.WithContext(ctx))
	ctrl.StartTimer()
	defer ctrl.StopTimer()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

func waitForSample(samples <-chan sampler.Sample) tea.Cmd {
	if samples == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-samples
		if !ok {
			return nil
		}
		return sampleMsg(s)
	}
}

func (m model) Init() tea.Cmd {
	if len(m.ctrl.Current()) == 0 && m.ctrl.PoolSize() > 0 {
		m.ctrl.Next()
	}
	return waitForSample(m.samples)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sampleMsg:
		// The shown sample is read from the controller on render
		return m, waitForSample(m.samples)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.err, m.status = nil, ""
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, keys.Lists):
			if m.view == viewDrill {
				m.view = viewLists
				m.reloadNames()
			} else {
				m.view = viewDrill
			}
			return m, nil
		}

		if m.view == viewLists {
			return m.updateLists(msg)
		}
		return m.updateDrill(msg)
	}
	return m, nil
}

func (m model) updateDrill(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Next):
		m.next()
	case key.Matches(msg, keys.Back):
		m.ctrl.Back()
	case key.Matches(msg, keys.Forward):
		if _, moved := m.ctrl.Forward(); !moved {
			m.next()
		}
	case key.Matches(msg, keys.Timer):
		switch {
		case m.ctrl.Interval() == 0:
			m.status = "Set an interval with + to start the timer"
		case m.ctrl.TimerRunning():
			m.ctrl.StopTimer()
		default:
			m.ctrl.StartTimer()
		}
	case key.Matches(msg, keys.Slower):
		m.ctrl.SetInterval(m.ctrl.Interval() + intervalStep)
	case key.Matches(msg, keys.Faster):
		m.ctrl.SetInterval(m.ctrl.Interval() - intervalStep)
	case key.Matches(msg, keys.More):
		m.ctrl.SetCount(m.ctrl.Settings().Count + 1)
	case key.Matches(msg, keys.Fewer):
		m.ctrl.SetCount(m.ctrl.Settings().Count - 1)
	case key.Matches(msg, keys.Fair):
		m.ctrl.SetFair(!m.ctrl.Settings().Fair)
	case key.Matches(msg, keys.Copy):
		words := m.ctrl.Current().Words()
		if len(words) == 0 {
			break
		}
		if err := m.copy(strings.Join(words, "\n")); err != nil {
			m.err = fmt.Errorf("failed to copy: %w", err)
			break
		}
		m.status = fmt.Sprintf("Copied %d words", len(words))
	}
	return m, nil
}

func (m *model) next() {
	if _, err := m.ctrl.Next(); err != nil {
		if errors.Is(err, drill.ErrNoWords) {
			m.status = "No words to drill, select a list with tab"
			return
		}
		m.err = err
	}
}

func (m model) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.names) == 0 {
		return m, nil
	}
	name := m.names[m.cursor]

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		if _, err := m.ctrl.Toggle(name); err != nil {
			m.err = err
		}
	case key.Matches(msg, keys.Lower):
		m.ctrl.SetLower(name, m.ctrl.Range(name).Lower-rangeStep)
	case key.Matches(msg, keys.Raise):
		m.ctrl.SetLower(name, m.ctrl.Range(name).Lower+rangeStep)
	case key.Matches(msg, keys.Shrink):
		m.ctrl.SetUpper(name, m.ctrl.Range(name).Upper-rangeStep)
	case key.Matches(msg, keys.Grow):
		m.ctrl.SetUpper(name, m.ctrl.Range(name).Upper+rangeStep)
	}
	return m, nil
}

func (m *model) reloadNames() {
	names, err := m.ctrl.Store().Names()
	if err != nil {
		m.err = err
		return
	}
	m.names = names
	if m.cursor >= len(names) {
		m.cursor = max(len(names)-1, 0)
	}
}

func (m model) View() string {
	var b strings.Builder

	if m.view == viewLists {
		b.WriteString(styleHeader.Render("Lists"))
		b.WriteString("\n\n")
		b.WriteString(m.listsView())
	} else {
		b.WriteString(styleHeader.Render("wordloop"))
		b.WriteString(styleSubtle.Render(m.statusLine()))
		b.WriteString("\n")
		b.WriteString(styleBox.Render(m.drillView()))
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styleError.Render(m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(styleSubtle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.view == viewLists {
		b.WriteString(m.help.View(listKeys{keys}))
	} else {
		b.WriteString(m.help.View(drillKeys{keys}))
	}
	return b.String()
}

func (m model) drillView() string {
	s := m.ctrl.Current()
	if len(s) == 0 {
		return styleSubtle.Render("No words yet")
	}

	lines := make([]string, 0, len(s))
	for _, e := range s {
		lines = append(lines, styleWord.Render(e.Word)+"  "+styleSubtle.Render(e.List))
	}
	return strings.Join(lines, "\n")
}

func (m model) statusLine() string {
	s := m.ctrl.Settings()

	timer := "manual"
	switch {
	case m.ctrl.Interval() > 0 && m.ctrl.TimerRunning():
		timer = "every " + m.ctrl.Interval().String()
	case m.ctrl.Interval() > 0:
		timer = "paused"
	}
	mode := "uniform"
	if s.Fair {
		mode = "fair"
	}
	return fmt.Sprintf("%d/%d words from %d lists, %s, timer %s",
		s.Count, m.ctrl.PoolSize(), len(m.ctrl.Selected()), mode, timer)
}

func (m model) listsView() string {
	if len(m.names) == 0 {
		return styleSubtle.Render("No lists, import one with 'wordloop import <file>'")
	}

	var b strings.Builder
	for i, name := range m.names {
		cursor := "  "
		if i == m.cursor {
			cursor = styleCursor.Render("> ")
		}
		check := "[ ]"
		if m.ctrl.IsSelected(name) {
			check = "[x]"
		}
		r := m.ctrl.Range(name)
		fmt.Fprintf(&b, "%s%s %s %s %s\n", cursor, check, rangeBar(r), styleSubtle.Render(fmt.Sprintf("%3.0f%%-%3.0f%%", r.Lower*100, r.Upper*100)), name)
	}
	return b.String()
}

// rangeBar draws the drilled part of a list
func rangeBar(r sampler.Range) string {
	start, end := r.Bounds(barWidth)
	return styleBarOut.Render(strings.Repeat(" ", start)) +
		styleBarIn.Render(strings.Repeat(" ", end-start)) +
		styleBarOut.Render(strings.Repeat(" ", barWidth-end))
}
