// Package dashboard implements the live fire-risk monitor TUI using
// BubbleTea: the current reading, the 24-hour chart, the alert history and
// the safety, emergency, configuration and photo verification panels.
package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"quyca-monitor/internal/alerting"
	"quyca-monitor/internal/fixtures"
	"quyca-monitor/internal/service"
	"quyca-monitor/internal/storage"
)

const alertRows = 8

// Monitor is the part of the service the dashboard drives.
type Monitor interface {
	Snapshot() service.Snapshot
	RecordVerification(ctx context.Context, hasFire bool) (alerting.Notification, error)
}

// AlertLister lists the alert history, newest first.
type AlertLister interface {
	ListRecentAlerts(ctx context.Context, limit int) ([]storage.AlertRecord, error)
}

// Options wires the model to the running service.
type Options struct {
	Context   context.Context
	Monitor   Monitor
	Snapshots <-chan service.Snapshot
	Alerts    AlertLister
	Fixtures  *fixtures.Bundle
	Clock     clockwork.Clock
}

type panel int

const (
	panelNone panel = iota
	panelManual
	panelContacts
	panelConfig
	panelVerify
)

// ── Messages ─────────────────────────────────────────────────────────

type snapshotMsg service.Snapshot

type feedClosedMsg struct{}

type alertsMsg []storage.AlertRecord

type verifiedMsg struct {
	note alerting.Notification
	err  error
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the dashboard.
type Model struct {
	ctx       context.Context
	monitor   Monitor
	snapshots <-chan service.Snapshot
	alerts    AlertLister
	fixtures  *fixtures.Bundle
	clock     clockwork.Clock

	snap      service.Snapshot
	history   []storage.AlertRecord
	panel     panel
	verdict   *alerting.Notification
	err       error
	paused    bool
	width     int
	height    int
	scroll    int
	startTime time.Time
}

// New creates the initial model from the current snapshot.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	m := Model{
		ctx:       ctx,
		monitor:   opts.Monitor,
		snapshots: opts.Snapshots,
		alerts:    opts.Alerts,
		fixtures:  opts.Fixtures,
		clock:     clock,
		startTime: clock.Now(),
	}
	if m.fixtures == nil {
		m.fixtures = &fixtures.Bundle{}
	}
	if opts.Monitor != nil {
		m.snap = opts.Monitor.Snapshot()
	}
	return m
}

// ── Commands ─────────────────────────────────────────────────────────

func waitForSnapshot(ch <-chan service.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m Model) loadAlerts() tea.Cmd {
	if m.alerts == nil {
		return nil
	}
	ctx, lister := m.ctx, m.alerts
	return func() tea.Msg {
		rows, err := lister.ListRecentAlerts(ctx, alertRows)
		if err != nil {
			return errMsg{err}
		}
		return alertsMsg(rows)
	}
}

func (m Model) verify(hasFire bool) tea.Cmd {
	ctx, mon := m.ctx, m.monitor
	return func() tea.Msg {
		note, err := mon.RecordVerification(ctx, hasFire)
		return verifiedMsg{note: note, err: err}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), m.loadAlerts())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll = min(m.scroll, m.maxScroll())

	case snapshotMsg:
		next := waitForSnapshot(m.snapshots)
		if m.paused {
			return m, next
		}
		m.snap = service.Snapshot(msg)
		return m, tea.Batch(next, m.loadAlerts())

	case feedClosedMsg:
		return m, tea.Quit

	case alertsMsg:
		m.history = msg

	case verifiedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		note := msg.note
		m.verdict = &note
		return m, m.loadAlerts()

	case errMsg:
		m.err = msg.err
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.panel = panelNone
		m.scroll = min(m.scroll, m.maxScroll())
		return m, nil
	case "p", " ":
		m.paused = !m.paused
		return m, nil
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	case "down", "j":
		if m.scroll < m.maxScroll() {
			m.scroll++
		}
		return m, nil
	}

	if m.panel == panelVerify && m.verdict == nil && m.monitor != nil {
		switch key {
		case "y":
			return m, m.verify(true)
		case "n":
			return m, m.verify(false)
		}
	}

	switch key {
	case "m":
		m.toggle(panelManual)
	case "e":
		m.toggle(panelContacts)
	case "c":
		m.toggle(panelConfig)
	case "f":
		m.toggle(panelVerify)
		m.verdict = nil
	}
	m.scroll = min(m.scroll, m.maxScroll())
	return m, nil
}

func (m *Model) toggle(p panel) {
	if m.panel == p {
		m.panel = panelNone
		return
	}
	m.panel = p
}
