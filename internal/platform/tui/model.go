package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/geocoin/internal/core"
	"github.com/vovakirdan/geocoin/internal/feed"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/world"
)

// Layout constants
const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 14 // Title, panels, flash line and help
	minTableRows  = 3
)

// FeedFactory builds a location feed starting at the given location.
type FeedFactory func(from grid.LatLng) (feed.Feed, error)

// Options configure the play screen.
type Options struct {
	Title    string
	Context  context.Context // Ends the feed when done; nil means never
	Feed     FeedFactory     // nil disables the feed key
	AutoFeed bool            // Start the feed as soon as the screen opens
	Logger   *log.Logger     // nil discards
	Width    int
	Height   int
}

// FeedMsg carries one location update from the feed into the event loop.
type FeedMsg struct {
	Loc  grid.LatLng
	link *feedLink
}

// feedEndedMsg reports that the feed ran out of updates.
type feedEndedMsg struct {
	link *feedLink
}

// startFeedMsg asks the model to start its feed.
type startFeedMsg struct{}

// feedLink connects one feed subscription to the event loop. The handler
// blocks until the loop takes the update, so deliveries stay serial.
type feedLink struct {
	ch   chan grid.LatLng
	stop chan struct{}
	sub  *feed.Subscription
}

func (l *feedLink) close() {
	l.sub.Unsubscribe()
	close(l.stop)
}

// waitForFeed returns a command that yields the next update of l.
func waitForFeed(l *feedLink) tea.Cmd {
	return func() tea.Msg {
		select {
		case loc := <-l.ch:
			return FeedMsg{Loc: loc, link: l}
		case <-l.sub.Done():
			return feedEndedMsg{link: l}
		case <-l.stop:
			return nil
		}
	}
}

// Model is the Bubble Tea model of the play screen.
type Model struct {
	ctx      context.Context
	engine   *world.Engine
	keys     *KeyMapper
	table    table.Model
	help     help.Model
	views    []world.CacheView
	newFeed  FeedFactory
	link     *feedLink
	autoFeed bool
	logger   *log.Logger
	title    string

	flash      string
	flashWarn  bool
	flashID    int
	confirming bool // First R of a reset was pressed
	width      int
	height     int
	quitting   bool
}

// NewModel creates the play screen for an engine.
func NewModel(engine *world.Engine, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	title := opts.Title
	if title == "" {
		title = "GEOCOIN"
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := Model{
		ctx:      ctx,
		engine:   engine,
		keys:     NewKeyMapper(),
		help:     h,
		newFeed:  opts.Feed,
		autoFeed: opts.AutoFeed,
		logger:   logger,
		title:    title,
		width:    width,
		height:   height,
	}
	m.table = m.createTable()
	m.refresh()
	return m
}

// createTable creates the cache table sized to the window.
func (m *Model) createTable() table.Model {
	columns := []table.Column{
		{Title: "Cache", Width: 14},
		{Title: "Dist", Width: 5},
		{Title: "Value", Width: 6},
		{Title: "Coins", Width: 6},
		{Title: "State", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chromeHeight, minTableRows)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// refresh reloads the active caches from the engine into the table.
func (m *Model) refresh() {
	m.views = m.engine.Caches()

	rows := make([]table.Row, len(m.views))
	for i, v := range m.views {
		state := ""
		if v.Opened {
			state = "opened"
		}
		rows[i] = table.Row{
			v.Record.Cell.String(),
			fmt.Sprintf("%d", v.Distance),
			fmt.Sprintf("%d", v.Record.PointValue),
			fmt.Sprintf("%d", v.Record.CoinCount),
			state,
		}
	}
	m.table.SetRows(rows)

	if len(rows) > 0 {
		m.table.SetCursor(min(max(m.table.Cursor(), 0), len(rows)-1))
	}
}

// Selected returns the cache under the cursor.
func (m Model) Selected() (world.CacheView, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.views) {
		return world.CacheView{}, false
	}
	return m.views[i], true
}

// Init starts the feed when the screen opens with one.
func (m Model) Init() tea.Cmd {
	if m.autoFeed && m.newFeed != nil {
		return func() tea.Msg { return startFeedMsg{} }
	}
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.refresh()
		if cursor >= 0 && cursor < len(m.views) {
			m.table.SetCursor(cursor)
		}
		return m, nil

	case startFeedMsg:
		if m.link != nil {
			return m, nil
		}
		cmd := m.startFeed()
		return m, cmd

	case FeedMsg:
		if msg.link != m.link {
			// Update from a feed that was switched off meanwhile
			return m, nil
		}
		m.engine.MoveTo(msg.Loc)
		m.refresh()
		return m, waitForFeed(m.link)

	case feedEndedMsg:
		if msg.link == m.link {
			m.link = nil
			return m.withFlash("feed ended", false)
		}
		return m, nil

	case flashExpiredMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, all := m.keys.MapKey(msg)
	if action != core.ActionReset {
		m.confirming = false
	}

	switch {
	case action == core.ActionQuit:
		m.stopFeed()
		m.quitting = true
		return m, tea.Quit

	case action.IsMove():
		m.engine.MoveBy(action.Direction())
		m.refresh()
		return m, nil

	case action == core.ActionCollect:
		return m.collect(all)

	case action == core.ActionDeposit:
		return m.deposit(all)

	case action == core.ActionFeed:
		return m.toggleFeed()

	case action == core.ActionReset:
		if !m.confirming {
			m.confirming = true
			return m.withFlash("press R again to reset the game", true)
		}
		m.confirming = false
		m.stopFeed()
		m.engine.Reset()
		m.table.SetCursor(0)
		m.refresh()
		return m.withFlash("game reset", false)
	}

	keys := m.keys.Keys()
	switch {
	case key.Matches(msg, keys.Next):
		if n := len(m.views); n > 0 {
			m.table.SetCursor((m.table.Cursor() + 1) % n)
		}
	case key.Matches(msg, keys.Prev):
		if n := len(m.views); n > 0 {
			m.table.SetCursor((m.table.Cursor() - 1 + n) % n)
		}
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) collect(all bool) (tea.Model, tea.Cmd) {
	sel, ok := m.Selected()
	if !ok {
		return m.withFlash("no cache in range", true)
	}
	n := 1
	if all {
		n = max(sel.Record.CoinCount, 1)
	}
	cell := sel.Record.Cell
	if !m.engine.Collect(cell, n) {
		m.refresh()
		return m.withFlash(fmt.Sprintf("cache %s has no coins to give", cell), true)
	}
	m.refresh()
	return m.withFlash(fmt.Sprintf("collected %d from %s (+%d pts)", n, cell, n*sel.Record.PointValue), false)
}

func (m Model) deposit(all bool) (tea.Model, tea.Cmd) {
	sel, ok := m.Selected()
	if !ok {
		return m.withFlash("no cache in range", true)
	}
	n := 1
	if all {
		n = max(m.engine.Session().Coins, 1)
	}
	cell := sel.Record.Cell
	if !m.engine.Deposit(cell, n) {
		m.refresh()
		return m.withFlash("your wallet is empty", true)
	}
	m.refresh()
	return m.withFlash(fmt.Sprintf("deposited %d into %s", n, cell), false)
}

func (m Model) toggleFeed() (tea.Model, tea.Cmd) {
	if m.newFeed == nil {
		return m.withFlash("no location feed configured", true)
	}
	if m.link != nil {
		m.stopFeed()
		return m.withFlash("feed off", false)
	}
	cmd := m.startFeed()
	if m.link == nil {
		return m, cmd
	}
	flash := m.setFlash("feed on", false)
	return m, tea.Batch(cmd, flash)
}

// startFeed subscribes to a new feed from the current location.
func (m *Model) startFeed() tea.Cmd {
	f, err := m.newFeed(m.engine.Session().Location)
	if err != nil {
		m.logger.Error("could not start feed", "err", err)
		return m.setFlash("feed failed: "+err.Error(), true)
	}

	l := &feedLink{ch: make(chan grid.LatLng), stop: make(chan struct{})}
	ctx := m.ctx
	l.sub = f.Subscribe(ctx, func(loc grid.LatLng) {
		select {
		case l.ch <- loc:
		case <-l.stop:
		case <-ctx.Done():
		}
	})
	m.link = l
	m.logger.Info("feed started", "from", m.engine.Session().Location)
	return waitForFeed(l)
}

// stopFeed cancels the running feed, if any.
func (m *Model) stopFeed() {
	if m.link == nil {
		return
	}
	m.link.close()
	m.link = nil
	m.logger.Info("feed stopped")
}

// setFlash shows a status message and schedules its expiry.
func (m *Model) setFlash(text string, warn bool) tea.Cmd {
	m.flashID++
	m.flash = text
	m.flashWarn = warn
	return flashExpiry(m.flashID)
}

// withFlash is setFlash for handlers that return right away.
func (m Model) withFlash(text string, warn bool) (tea.Model, tea.Cmd) {
	cmd := m.setFlash(text, warn)
	return m, cmd
}

// FeedRunning reports whether a feed is driving the player.
func (m Model) FeedRunning() bool {
	return m.link != nil
}

// Engine returns the engine behind the screen.
func (m Model) Engine() *world.Engine {
	return m.engine
}

// View renders the play screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(centerText(m.title, m.width)))
	b.WriteString("\n\n")

	sel, ok := m.Selected()
	var minted []grid.Token
	if ok {
		minted = m.engine.Tokens(sel.Record.Cell)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderStatus(m.engine.Session(), m.engine.PlayerCell(), m.link != nil),
		"  ",
		renderCacheDetail(sel, minted, ok),
	))
	b.WriteString("\n")

	if len(m.views) == 0 {
		b.WriteString(panelStyle.Render(emptyStyle.Render(
			fmt.Sprintf("No caches within %d cells.\nWalk somewhere else!", m.engine.Radius()))))
	} else {
		b.WriteString(panelStyle.Render(m.table.View()))
	}
	b.WriteString("\n")

	switch {
	case m.flash == "":
		b.WriteString(" ")
	case m.flashWarn:
		b.WriteString(warnStyle.Render(m.flash))
	default:
		b.WriteString(okStyle.Render(m.flash))
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render(m.help.View(m.keys.Keys())))

	return b.String()
}

// Run starts the Bubble Tea program for the play screen.
func Run(engine *world.Engine, opts Options) error {
	p := tea.NewProgram(
		NewModel(engine, opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.stopFeed()
	}
	return err
}
