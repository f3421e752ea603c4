// Package model contains the bubbletea models of the chromekit CLI.
package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/chromekit/internal/cli"
	"github.com/bnema/chromekit/internal/cli/styles"
	"github.com/bnema/chromekit/internal/domain/entity"
	"github.com/bnema/chromekit/internal/ui/component"
	"github.com/bnema/chromekit/internal/ui/controller"
	"github.com/bnema/chromekit/internal/ui/coordinator"
)

const scrollStep = 12.0

// keyMap defines the simulator key bindings.
type keyMap struct {
	Drag        key.Binding
	ScrollUp    key.Binding
	ScrollDn    key.Binding
	ReleaseUp   key.Binding
	ReleaseDown key.Binding
	Top         key.Binding
	Reader      key.Binding
	Notify      key.Binding
	Dismiss     key.Binding
	Save        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Drag:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "begin drag")),
		ScrollDn:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "scroll down")),
		ScrollUp:    key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "scroll up")),
		ReleaseUp:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "release scrolling up")),
		ReleaseDown: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "release scrolling down")),
		Top:         key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "hit top")),
		Reader:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "toggle reader")),
		Notify:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "push snackbar")),
		Dismiss:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss snackbar")),
		Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save to reading list")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Drag, k.ScrollDn, k.ScrollUp, k.ReleaseUp, k.Reader, k.Notify, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Drag, k.ScrollDn, k.ScrollUp, k.ReleaseUp, k.ReleaseDown, k.Top},
		{k.Reader, k.Notify, k.Dismiss, k.Save, k.Quit},
	}
}

type tickMsg time.Time

// SimulateModel drives the chrome controller with synthetic scroll and
// drag events and renders the resulting offsets, insets and stack.
type SimulateModel struct {
	ctx    context.Context
	chrome *coordinator.Chrome
	stack  *component.SnackbarStack
	pages  *cli.SimContainer
	page   *cli.SimPage
	theme  *styles.Theme

	keys   keyMap
	help   help.Model
	scroll float64
	status string
	width  int
}

// NewSimulateModel creates the simulator over an assembled app.
func NewSimulateModel(ctx context.Context, app *cli.App) SimulateModel {
	page := cli.NewSimPage("sim-1", "https://example.com/article")
	app.Pages.AddPage(page)

	// The sim page always offers readable content.
	app.Chrome.Reader().OnStateChanged(ctx, page, entity.ReaderAvailable)

	return SimulateModel{
		ctx:    ctx,
		chrome: app.Chrome,
		stack:  app.Chrome.Snackbars(),
		pages:  app.Pages,
		page:   page,
		theme:  styles.DefaultTheme(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		status: "ready",
		width:  80,
	}
}

// Init implements tea.Model.
func (m SimulateModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m SimulateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctl := m.chrome.Controller()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tickMsg:
		// Rendered state is animated; poll it for display.
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Drag):
			ctl.BeginDrag(controller.Point{Y: m.scroll})
			m.status = "dragging"

		case key.Matches(msg, m.keys.ScrollDn):
			m.scroll += scrollStep
			ctl.OnScroll(m.ctx, controller.Point{Y: m.scroll})

		case key.Matches(msg, m.keys.ScrollUp):
			m.scroll -= scrollStep
			if m.scroll < 0 {
				m.scroll = 0
			}
			ctl.OnScroll(m.ctx, controller.Point{Y: m.scroll})

		// Velocity sign follows the scroll delta convention: negative
		// means toward the document start.
		case key.Matches(msg, m.keys.ReleaseUp):
			ctl.EndDrag(m.ctx, controller.Point{Y: -5})
			m.status = "released while scrolling up"

		case key.Matches(msg, m.keys.ReleaseDown):
			ctl.EndDrag(m.ctx, controller.Point{Y: 5})
			m.status = "released while scrolling down"

		case key.Matches(msg, m.keys.Top):
			m.scroll = 0
			ctl.OnReachTop(m.ctx)
			m.status = "reached top"

		case key.Matches(msg, m.keys.Reader):
			m.chrome.ReaderBar().Toggle(m.ctx)
			m.status = "reader toggled"

		case key.Matches(msg, m.keys.Notify):
			bar := component.NewSnackbar(48)
			m.chrome.Notify(m.ctx, bar)
			m.status = "snackbar pushed"

		case key.Matches(msg, m.keys.Dismiss):
			if bars := m.stack.Bars(); len(bars) > 0 {
				m.chrome.Dismiss(m.ctx, bars[0].ID)
				m.status = "snackbar dismissed"
			}

		case key.Matches(msg, m.keys.Save):
			if err := m.chrome.SaveToReadingList(m.ctx); err != nil {
				m.status = "save failed: " + err.Error()
			} else {
				m.status = "saved to reading list"
			}
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m SimulateModel) View() string {
	t := m.theme
	ctl := m.chrome.Controller()
	offsets := ctl.Offsets()
	insets := ctl.Insets()

	var b strings.Builder
	b.WriteString(t.Title.Render("chromekit simulator"))
	b.WriteString("\n\n")

	header := fmt.Sprintf("header offset %6.1f  alpha %4.2f", offsets.Header, offsets.HeaderAlpha)
	b.WriteString(t.Header.Render(header))
	b.WriteString("\n")

	if ctl.ReaderBarVisible() {
		b.WriteString(t.Reader.Render("reader bar"))
		b.WriteString("\n")
	}

	content := fmt.Sprintf("content  scroll %6.1f  insets top %5.1f bottom %5.1f  url %s",
		m.scroll, insets.Top, insets.Bottom, m.page.URL())
	b.WriteString(t.Content.Render(content))
	b.WriteString("\n")

	for i := len(m.stack.Bars()) - 1; i >= 0; i-- {
		bar := m.stack.Bars()[i]
		b.WriteString(t.Snack.Render(fmt.Sprintf("snackbar %s", bar.ID[:8])))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("footer offset %6.1f  alpha %4.2f  top %5.1f",
		offsets.Footer, offsets.FooterAlpha, m.stack.FooterTop())
	b.WriteString(t.Footer.Render(footer))
	b.WriteString("\n\n")

	b.WriteString(t.Subtle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}
