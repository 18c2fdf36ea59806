// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neuralweb/neuralweb/internal/cli/styles"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/logging"
)

// SessionsModel is the Bubble Tea model for the interactive session browser.
type SessionsModel struct {
	help    help.Model
	keys    sessionsKeyMap
	confirm *styles.ConfirmModel

	snapshots     []*entity.SessionState
	selectedIdx   int
	expandedIdx   int // -1 means none expanded
	width         int
	height        int
	err           error
	statusMessage string

	ctx       context.Context
	stateRepo repository.SessionStateRepository
	theme     *styles.Theme
}

type sessionsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Expand  key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k sessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Delete, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k sessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand},
		{k.Delete, k.Refresh},
		{k.Help, k.Quit},
	}
}

func defaultSessionsKeyMap() sessionsKeyMap {
	return sessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter", "expand/collapse"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewSessionsModel creates a new session browser model.
func NewSessionsModel(ctx context.Context, theme *styles.Theme, stateRepo repository.SessionStateRepository) SessionsModel {
	return SessionsModel{
		help:        help.New(),
		keys:        defaultSessionsKeyMap(),
		expandedIdx: -1,
		width:       80,
		height:      24,
		ctx:         ctx,
		stateRepo:   stateRepo,
		theme:       theme,
	}
}

// Init implements tea.Model.
func (m SessionsModel) Init() tea.Cmd {
	return m.loadSnapshots
}

type snapshotsLoadedMsg struct {
	snapshots []*entity.SessionState
	err       error
}

type snapshotDeletedMsg struct {
	windowID entity.WindowID
	err      error
}

func (m SessionsModel) loadSnapshots() tea.Msg {
	log := logging.FromContext(m.ctx)
	log.Debug().Msg("loading session snapshots")

	snapshots, err := m.stateRepo.ListSnapshots(m.ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load session snapshots")
		return snapshotsLoadedMsg{err: err}
	}
	return snapshotsLoadedMsg{snapshots: snapshots}
}

// Update implements tea.Model.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case snapshotsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.snapshots = msg.snapshots
			m.err = nil
			if m.selectedIdx >= len(m.snapshots) {
				m.selectedIdx = max(0, len(m.snapshots)-1)
			}
		}
		return m, nil

	case snapshotDeletedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMessage = fmt.Sprintf("Snapshot for window %s deleted", msg.windowID)
		}
		return m, m.loadSnapshots
	}

	return m, nil
}

func (m SessionsModel) handleConfirmModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	confirm, cmd := m.confirm.Update(msg)
	m.confirm = &confirm
	if m.confirm.Done() {
		if m.confirm.Result() && m.selectedIdx < len(m.snapshots) {
			cmd = m.deleteSnapshot(m.snapshots[m.selectedIdx].WindowID)
		}
		m.confirm = nil
		return m, cmd
	}
	return m, cmd
}

func (m SessionsModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.snapshots)-1 {
			m.selectedIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Expand):
		if m.expandedIdx == m.selectedIdx {
			m.expandedIdx = -1
		} else {
			m.expandedIdx = m.selectedIdx
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.selectedIdx < len(m.snapshots) {
			snap := m.snapshots[m.selectedIdx]
			confirm := styles.NewConfirm(m.theme,
				fmt.Sprintf("Delete snapshot for window %s?", snap.WindowID))
			m.confirm = &confirm
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadSnapshots

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m SessionsModel) deleteSnapshot(windowID entity.WindowID) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)
		log.Info().Str("window_id", string(windowID)).Msg("deleting session snapshot")

		err := m.stateRepo.DeleteSnapshot(m.ctx, windowID)
		return snapshotDeletedMsg{windowID: windowID, err: err}
	}
}

// View implements tea.Model.
func (m SessionsModel) View() string {
	if m.confirm != nil {
		return m.confirm.View()
	}

	t := m.theme
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(t.ErrorStyle.Render(fmt.Sprintf("%s Error: %v", styles.IconX, m.err)))
		b.WriteString("\n\n")
	}

	if m.statusMessage != "" {
		b.WriteString(t.Subtle.Render(m.statusMessage))
		b.WriteString("\n\n")
	}

	if len(m.snapshots) == 0 {
		b.WriteString(t.Subtle.Render("  No saved sessions found."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderSnapshotList())
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m SessionsModel) renderHeader() string {
	t := m.theme

	icon := lipgloss.NewStyle().Foreground(t.Accent).Render(styles.IconSession)
	title := t.Title.MarginLeft(1).Render("Sessions")

	var tabTotal int
	for _, s := range m.snapshots {
		tabTotal += len(s.Tabs)
	}
	stats := t.Subtle.Render(fmt.Sprintf("  %d windows  %s %d tabs",
		len(m.snapshots), styles.IconTab, tabTotal))

	return icon + title + stats
}

func (m SessionsModel) renderSnapshotList() string {
	t := m.theme
	var b strings.Builder

	for i, snap := range m.snapshots {
		line := fmt.Sprintf("%s  %d tabs  saved %s",
			snap.WindowID, len(snap.Tabs), snap.SavedAt.Format("2006-01-02 15:04"))

		if i == m.selectedIdx {
			b.WriteString(t.ListItemSelected.Render("▸ " + line))
		} else {
			b.WriteString(t.ListItem.Render(line))
		}
		b.WriteString("\n")

		if i == m.expandedIdx {
			b.WriteString(m.renderTabs(snap))
		}
	}

	return b.String()
}

func (m SessionsModel) renderTabs(snap *entity.SessionState) string {
	t := m.theme
	var b strings.Builder

	for j, tab := range snap.Tabs {
		marker := " "
		if j == snap.ActiveTabIndex {
			marker = styles.IconPlay
		}
		title := tab.Title
		if title == "" {
			title = tab.URL
		}
		b.WriteString(t.Subtle.Render(fmt.Sprintf("      %s %s", marker, title)))
		b.WriteString("\n")
	}

	return b.String()
}
