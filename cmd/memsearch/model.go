// Command memsearch is a live memory-inspection demo: it steps a small
// synthetic guest process in the background and drives a
// searchsession.Session against its memory over time, rendered with
// bubbletea/bubbles/lipgloss in the same style as the teacher's step
// debugger (monitor/main.go). The guest process itself is explicitly out
// of scope per spec.md §1 ("treated as external collaborators") — this
// stand-in exists only to give the demo something whose bytes change from
// tick to tick, the way a real running program's would.
package main

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/newhook/memsearch/counter"
	"github.com/newhook/memsearch/memregion"
	"github.com/newhook/memsearch/pointersearch"
	"github.com/newhook/memsearch/searchsession"
	"github.com/newhook/memsearch/valuesearch"
)

type stepTick struct{}

func doTick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return stepTick{}
	})
}

// mode selects which input prompt "=" / "t" opens.
type mode int

const (
	modeNormal mode = iota
	modeGotoValue
	modePointerTarget
)

// guestSize is the byte span of the synthetic guest process's address
// space: exactly one full page of the value search
// (valuesearch.DefaultPageSize is 4096), without needing a real CPU.
const guestSize = 4096

// guestProcess is a minimal stand-in for the emulated process spec.md
// treats as an external collaborator (§1): a byte buffer that changes a
// little on every Step, so there is something for a live search to narrow
// against. It has no instruction set, registers, or control flow — it
// only needs to mutate memory the way a running game would, from the
// search engine's point of view.
type guestProcess struct {
	mem     []byte
	tick    uint32
	counter uint8
	health  uint8
}

func newGuestProcess() *guestProcess {
	g := &guestProcess{mem: make([]byte, guestSize), health: 100}
	copy(g.mem[0x100:], []byte("PLAYER ONE"))
	g.mem[0x10] = g.counter
	g.mem[0x11] = g.health
	return g
}

// Step advances the guest by one tick: an 8-bit counter at $10 that
// increments every tick (wrapping from 255 to 0), and a "health" value at
// $11 that drains every third tick and wraps back to 100 when it bottoms
// out — giving the demo a value that increases and one that decreases,
// then resets, to narrow against.
func (g *guestProcess) Step() {
	g.tick++
	g.counter++
	g.mem[0x10] = g.counter
	if g.tick%3 == 0 {
		if g.health == 0 {
			g.health = 100
		} else {
			g.health--
		}
		g.mem[0x11] = g.health
	}
}

// Model is the TUI state: a running guest, the search session watching it,
// and whatever dialog is currently focused.
type Model struct {
	guest  *guestProcess
	region *memregion.FlatGuest
	search *searchsession.Session

	paused bool
	width  int
	height int

	valueSize int
	kind      counter.Kind
	started   bool

	rows      []valuesearch.Row
	cursor    int
	statusMsg string

	pointerMode    bool
	pointerResults []pointersearch.Result
	pointerOffsets int

	input      textinput.Model
	activeMode mode
}

// New constructs a demo Model: a fresh synthetic guest process wrapped as a
// single-region guest so valuesearch/pointersearch can scan it.
func New() *Model {
	g := newGuestProcess()
	region := memregion.NewFlatGuest("ram", 0, g.mem, 2, memregion.LittleEndian)
	session := searchsession.New(region)

	ti := textinput.New()
	ti.Placeholder = "value (decimal)"
	ti.CharLimit = 10
	ti.Width = 16

	return &Model{
		guest:     g,
		region:    region,
		search:    session,
		paused:    true,
		valueSize: 1,
		kind:      counter.Int,
		input:     ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return doTick()
}
