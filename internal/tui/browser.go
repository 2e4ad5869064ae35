// Package tui implements the manual-mode directory browser: a
// bubbletea list over the remote file index with browser-style
// back/forward navigation and cache-aware refresh.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"streamdex/internal/cache"
	"streamdex/internal/index"
	"streamdex/internal/media"
	"streamdex/internal/nav"
)

var (
	pathStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
	badgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

type keyMap struct {
	back    key.Binding
	forward key.Binding
	refresh key.Binding
	quit    key.Binding
}

var keys = keyMap{
	back:    key.NewBinding(key.WithKeys("left", "backspace"), key.WithHelp("←", "back")),
	forward: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "forward")),
	refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// item adapts a FileEntry to the bubbles list.
type item struct {
	entry media.FileEntry
}

func (i item) Title() string {
	if i.entry.IsDirectory {
		return i.entry.Name + "/"
	}
	return i.entry.Name
}

func (i item) Description() string {
	if i.entry.IsDirectory {
		return "directory"
	}
	desc := badgeStyle.Render(index.Extension(i.entry.Name))
	if q := index.Quality(i.entry.Name); q != "" {
		desc += " " + q
	}
	if s := index.Source(i.entry.Name); s != "" {
		desc += " " + s
	}
	if i.entry.Size != "" {
		desc += " " + i.entry.Size
	}
	return desc
}

func (i item) FilterValue() string { return i.entry.Name }

type listingMsg struct {
	listing *media.DirectoryListing
	fromWeb bool
	err     error
}

// Model is the browser's bubbletea model.
type Model struct {
	fetcher *index.Fetcher
	cache   *cache.Cache
	history *nav.History
	list    list.Model
	path    string
	loading bool
	err     error

	// Selected is the video entry the user picked, nil if they quit.
	Selected *media.FileEntry
}

// NewModel creates a browser rooted at startPath.
func NewModel(fetcher *index.Fetcher, c *cache.Cache, startPath string) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "streamdex"
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.back, keys.forward, keys.refresh}
	}

	return &Model{
		fetcher: fetcher,
		cache:   c,
		history: nav.New(),
		list:    l,
		path:    startPath,
	}
}

func (m *Model) Init() tea.Cmd {
	m.history.NavigateTo(m.path)
	return m.load(m.path, false)
}

// load fetches a listing, consulting the manual-mode cache first
// unless force is set.
func (m *Model) load(path string, force bool) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		key := cache.ManualKey(path)
		if !force {
			if entry, ok := m.cache.Get(key); ok {
				return listingMsg{listing: &media.DirectoryListing{Path: entry.Path, Entries: entry.Data}}
			}
		} else {
			m.cache.Invalidate(key)
		}

		listing, err := m.fetcher.Fetch(path)
		if err != nil {
			return listingMsg{err: err}
		}
		return listingMsg{listing: listing, fromWeb: true}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case listingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.path = msg.listing.Path
		if msg.fromWeb {
			m.cache.Set(cache.ManualKey(m.path), msg.listing.Entries, m.path, true)
		}
		m.cache.SetLastPath(m.path)

		items := make([]list.Item, len(msg.listing.Entries))
		for i, e := range msg.listing.Entries {
			items[i] = item{entry: e}
		}
		m.list.SetItems(items)
		m.list.ResetSelected()
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit

		case key.Matches(msg, keys.back):
			if path, ok := m.history.Back(); ok {
				return m, m.load(path, false)
			}
			return m, nil

		case key.Matches(msg, keys.forward):
			if path, ok := m.history.Forward(); ok {
				return m, m.load(path, false)
			}
			return m, nil

		case key.Matches(msg, keys.refresh):
			return m, m.load(m.path, true)

		case msg.String() == "enter":
			sel, ok := m.list.SelectedItem().(item)
			if !ok {
				return m, nil
			}
			if sel.entry.IsDirectory {
				m.history.NavigateTo(sel.entry.URL)
				return m, m.load(sel.entry.URL, false)
			}
			m.Selected = &sel.entry
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	header := pathStyle.Render(m.path)
	if m.loading {
		header += hintStyle.Render("  loading…")
	}
	if m.err != nil {
		return header + "\n" + errStyle.Render(m.err.Error()) +
			"\n" + hintStyle.Render("r to retry, ← to go back, q to quit")
	}
	return header + "\n" + m.list.View()
}

// Browse runs the interactive browser and returns the selected video
// entry, or nil when the user quit without picking one.
func Browse(fetcher *index.Fetcher, c *cache.Cache, startPath string) (*media.FileEntry, error) {
	m := NewModel(fetcher, c, startPath)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running browser: %w", err)
	}
	if fm, ok := final.(*Model); ok {
		return fm.Selected, nil
	}
	return nil, nil
}
