package main

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/newhook/memsearch/counter"
	"github.com/newhook/memsearch/valuesearch"
)

func (m *Model) refreshRows() {
	rows, err := m.search.Iterate()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) resetSearch() {
	if err := m.search.Reset(m.kind, m.valueSize); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.started = true
	m.pointerMode = false
	m.refreshRows()
	m.statusMsg = "new search started"
}

func (m *Model) stepComparison(cmp valuesearch.Comparison, source valuesearch.Source, value *counter.Counter) {
	if !m.started {
		m.statusMsg = "press r to start a search first"
		return
	}
	if err := m.search.Configure(valuesearch.Config{Comparison: cmp, Source: source}); err != nil {
		m.statusMsg = err.Error()
		return
	}
	n, err := m.search.StepValue(value)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.refreshRows()
	m.statusMsg = "matches: " + strconv.Itoa(n)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepTick:
		if !m.paused {
			m.guest.Step()
			if m.pointerMode {
				m.search.PointerUpdate()
			}
		}
		return m, doTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.activeMode != modeNormal {
			return m.updateDialog(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.activeMode = modeNormal
		return m, nil
	case tea.KeyEnter:
		text := m.input.Value()
		m.input.SetValue("")
		switch m.activeMode {
		case modeGotoValue:
			m.activeMode = modeNormal
			v, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				m.statusMsg = "invalid value: " + err.Error()
				return m, nil
			}
			val := counter.StoreInt(v, counter.Width(m.valueSize))
			m.stepComparison(valuesearch.Equal, valuesearch.ImmediateInt, &val)
		case modePointerTarget:
			m.activeMode = modeNormal
			addr, err := strconv.ParseUint(text, 16, 64)
			if err != nil {
				m.statusMsg = "invalid address: " + err.Error()
				return m, nil
			}
			if err := m.search.PointerInit(addr, m.valueSize, m.kind, 0x10, 2, 256); err != nil {
				m.statusMsg = err.Error()
				return m, nil
			}
			m.pointerMode = true
			results, _ := m.search.PointerResults()
			m.pointerResults = results
			m.statusMsg = "pointer search started"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p":
		m.paused = !m.paused
	case "s":
		if m.paused {
			m.guest.Step()
			if m.pointerMode {
				m.search.PointerUpdate()
			}
		}
	case "r":
		m.resetSearch()
	case "=":
		m.activeMode = modeGotoValue
		m.input.Placeholder = "equals value"
		m.input.Focus()
		return m, textinput.Blink
	case ">":
		m.stepComparison(valuesearch.Increased, valuesearch.PreviousSnapshot, nil)
	case "<":
		m.stepComparison(valuesearch.Decreased, valuesearch.PreviousSnapshot, nil)
	case "!":
		m.stepComparison(valuesearch.NotEqual, valuesearch.PreviousSnapshot, nil)
	case "t":
		m.activeMode = modePointerTarget
		m.input.Placeholder = "target address (hex)"
		m.input.Focus()
		return m, textinput.Blink
	case "u":
		if m.pointerMode {
			m.search.PointerUpdate()
			results, _ := m.search.PointerResults()
			m.pointerResults = results
		}
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	}
	return m, nil
}
