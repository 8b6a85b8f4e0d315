package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/geocoin/internal/core"
)

// KeyMap defines the key bindings of the play screen.
type KeyMap struct {
	North      key.Binding
	South      key.Binding
	East       key.Binding
	West       key.Binding
	Next       key.Binding
	Prev       key.Binding
	Collect    key.Binding
	CollectAll key.Binding
	Deposit    key.Binding
	DepositAll key.Binding
	Feed       key.Binding
	Reset      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.North, k.Next, k.Collect, k.Deposit, k.Feed, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.North, k.South, k.East, k.West},
		{k.Next, k.Prev, k.Feed},
		{k.Collect, k.CollectAll, k.Deposit, k.DepositAll},
		{k.Reset, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		North: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "north"),
		),
		South: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "south"),
		),
		East: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "east"),
		),
		West: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "west"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "n"),
			key.WithHelp("tab/n", "next cache"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "p"),
			key.WithHelp("S-tab/p", "prev cache"),
		),
		Collect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collect 1"),
		),
		CollectAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "collect all"),
		),
		Deposit: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deposit 1"),
		),
		DepositAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "deposit all"),
		),
		Feed: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle feed"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R R", "reset game"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings, for the help view.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to a game action. all is set for the bulk
// variants of collect and deposit. Keys that only drive the screen, such as
// cache selection, map to ActionNone.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, all bool) {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, false
	case key.Matches(msg, k.North):
		return core.ActionNorth, false
	case key.Matches(msg, k.South):
		return core.ActionSouth, false
	case key.Matches(msg, k.East):
		return core.ActionEast, false
	case key.Matches(msg, k.West):
		return core.ActionWest, false
	case key.Matches(msg, k.Collect):
		return core.ActionCollect, false
	case key.Matches(msg, k.CollectAll):
		return core.ActionCollect, true
	case key.Matches(msg, k.Deposit):
		return core.ActionDeposit, false
	case key.Matches(msg, k.DepositAll):
		return core.ActionDeposit, true
	case key.Matches(msg, k.Feed):
		return core.ActionFeed, false
	case key.Matches(msg, k.Reset):
		return core.ActionReset, false
	}
	return core.ActionNone, false
}
