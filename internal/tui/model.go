// Package tui is a small album browser for the active site.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/events"
	"github.com/mmcdole/iplay/internal/tui/styles"
)

type view int

const (
	viewAlbums view = iota
	viewMedia
	viewDetail
)

type albumItem struct{ domain.Album }

func (a albumItem) Title() string       { return a.Name }
func (a albumItem) Description() string { return a.ItemType() }
func (a albumItem) FilterValue() string { return a.Name }

type mediaItem struct{ domain.MediaItem }

func (m mediaItem) Title() string { return m.Name }
func (m mediaItem) Description() string {
	if m.ProductionYear > 0 {
		return fmt.Sprintf("%s · %d", m.Type, m.ProductionYear)
	}
	return m.Type
}
func (m mediaItem) FilterValue() string { return m.Name }

// Model is the bubbletea model for the browser
type Model struct {
	catalog Catalog
	site    string

	view    view
	albums  list.Model
	media   list.Model
	spinner spinner.Model
	loading string // What is being loaded; empty when idle
	err     error

	item domain.MediaItem
	info *domain.PlaybackInfo

	outcomes <-chan events.Event
	status   string // Last settled operation

	width, height int
}

// NewModel creates a browser for catalog; site labels the header
func NewModel(catalog Catalog, site string) Model {
	albums := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	albums.Title = "Albums"
	albums.Styles.Title = styles.TitleStyle

	media := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	media.Styles.Title = styles.TitleStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	return Model{
		catalog: catalog,
		site:    site,
		albums:  albums,
		media:   media,
		spinner: sp,
		loading: "albums",
	}
}

// WithOutcomes feeds the status line from an engine bus subscription
func (m Model) WithOutcomes(ch <-chan events.Event) Model {
	m.outcomes = ch
	return m
}

// Init starts the spinner and loads albums
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, LoadAlbumsCmd(m.catalog)}
	if m.outcomes != nil {
		cmds = append(cmds, WaitForOutcomeCmd(m.outcomes))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := styles.AppStyle.GetFrameSize()
		m.albums.SetSize(msg.Width-h, msg.Height-v-1)
		m.media.SetSize(msg.Width-h, msg.Height-v-1)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case OutcomeMsg:
		m.status = formatOutcome(msg.Event)
		return m, WaitForOutcomeCmd(m.outcomes)

	case ErrMsg:
		m.loading = ""
		m.err = msg
		return m, nil

	case AlbumsLoadedMsg:
		m.loading = ""
		items := make([]list.Item, len(msg.Albums))
		for i, a := range msg.Albums {
			items[i] = albumItem{a}
		}
		return m, m.albums.SetItems(items)

	case AlbumMediaLoadedMsg:
		m.loading = ""
		m.view = viewMedia
		m.media.Title = msg.Album.Name
		items := make([]list.Item, len(msg.Media.Items))
		for i, it := range msg.Media.Items {
			items[i] = mediaItem{it}
		}
		m.media.ResetSelected()
		return m, m.media.SetItems(items)

	case PlaybackInfoLoadedMsg:
		m.loading = ""
		m.view = viewDetail
		m.item, m.info = msg.Item, msg.Info
		return m, nil

	case tea.KeyMsg:
		if m.activeList().FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc", "backspace":
			m.err = nil
			switch m.view {
			case viewDetail:
				m.view = viewMedia
				return m, nil
			case viewMedia:
				m.view = viewAlbums
				return m, nil
			}
		case "enter":
			if m.loading != "" {
				return m, nil
			}
			m.err = nil
			return m.open()
		}
	}

	var cmd tea.Cmd
	switch m.view {
	case viewAlbums:
		m.albums, cmd = m.albums.Update(msg)
	case viewMedia:
		m.media, cmd = m.media.Update(msg)
	}
	return m, cmd
}

// open drills into the selected row
func (m Model) open() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewAlbums:
		if sel, ok := m.albums.SelectedItem().(albumItem); ok {
			m.loading = sel.Name
			return m, tea.Batch(m.spinner.Tick, LoadAlbumMediaCmd(m.catalog, sel.Album))
		}
	case viewMedia:
		if sel, ok := m.media.SelectedItem().(mediaItem); ok {
			m.loading = "playback info"
			return m, tea.Batch(m.spinner.Tick, LoadPlaybackInfoCmd(m.catalog, sel.MediaItem))
		}
	}
	return m, nil
}

func (m Model) activeList() list.Model {
	if m.view == viewMedia {
		return m.media
	}
	return m.albums
}

// View renders the model
func (m Model) View() string {
	var b strings.Builder

	header := styles.DimStyle.Render(m.site)
	if m.loading != "" {
		header += "  " + m.spinner.View() + styles.SubtitleStyle.Render(" loading "+m.loading+"…")
	}
	b.WriteString(header + "\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ "+m.err.Error()) + "\n")
	}

	switch m.view {
	case viewAlbums:
		b.WriteString(m.albums.View())
	case viewMedia:
		b.WriteString(m.media.View())
	case viewDetail:
		b.WriteString(m.detailView())
	}

	if m.status != "" {
		b.WriteString("\n" + styles.DimStyle.Render(m.status))
	}

	return styles.AppStyle.Render(b.String())
}

func formatOutcome(e events.Event) string {
	label := e.Op
	if e.Arg != "" {
		label += " " + e.Arg
	}
	at := e.Timestamp.Format("15:04:05")
	if e.Outcome == events.Rejected {
		return fmt.Sprintf("%s  %s failed: %s", at, label, domain.UserMessage(e.Err))
	}
	return fmt.Sprintf("%s  %s ok", at, label)
}

func (m Model) detailView() string {
	var lines []string
	lines = append(lines, styles.TitleStyle.Render(m.item.Name))
	if m.item.Overview != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(max(m.width-10, 20)).Render(m.item.Overview))
	}
	lines = append(lines, "", styles.SubtitleStyle.Render("Sources"))
	if m.info == nil || len(m.info.MediaSources) == 0 {
		lines = append(lines, styles.DimStyle.Render("  none"))
	} else {
		for _, src := range m.info.MediaSources {
			mode := "transcode"
			if src.SupportsDirectPlay {
				mode = "direct play"
			} else if src.SupportsDirectStream {
				mode = "direct stream"
			}
			lines = append(lines, fmt.Sprintf("  %s  %s  %s", styles.AccentStyle.Render(src.Container), mode, styles.DimStyle.Render(src.ID)))
		}
	}
	lines = append(lines, "", styles.DimStyle.Render("esc back · q quit"))
	return styles.DetailStyle.Render(strings.Join(lines, "\n"))
}
