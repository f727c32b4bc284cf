package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type tuiItem struct {
	id   string
	name string
}

func (i tuiItem) FilterValue() string { return i.name }

type itemDelegate struct{ st styles }

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(tuiItem)
	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+"☐ "+it.name)
}

// pageMsg carries a freshly loaded list; errMsg any failed server call.
type pageMsg struct{ page *page }

type errMsg struct{ err error }

type tuiModel struct {
	ctx      context.Context
	client   *todoClient
	listName string
	st       styles

	list   list.Model
	input  textinput.Model
	adding bool
	err    error
}

func newTUIModel(ctx context.Context, c *todoClient, listName string, st styles) tuiModel {
	l := list.New(nil, itemDelegate{st: st}, 0, 0)
	l.Title = listName
	l.Styles.Title = st.title
	l.Styles.HelpStyle = st.help
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("item", "items")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "done"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, delBind, refreshBind} }
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item..."
	ti.CharLimit = 200

	return tuiModel{ctx: ctx, client: c, listName: listName, st: st, list: l, input: ti}
}

func (m tuiModel) load() tea.Cmd {
	return func() tea.Msg {
		p, err := m.client.Show(m.ctx, m.listName)
		if err != nil {
			return errMsg{err}
		}
		return pageMsg{p}
	}
}

// then runs a server mutation and reloads the list when it succeeds.
func (m tuiModel) then(call func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		if _, err := call(); err != nil {
			return errMsg{err}
		}
		return m.load()()
	}
}

func (m tuiModel) Init() tea.Cmd { return m.load() }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil
	case pageMsg:
		m.err = nil
		m.list.Title = msg.page.ListTitle
		items := make([]list.Item, 0, len(msg.page.NewListItems))
		for _, it := range msg.page.NewListItems {
			items = append(items, tuiItem{id: it.ID, name: it.Name})
		}
		return m, m.list.SetItems(items)
	case errMsg:
		m.err = msg.err
		return m, nil
	}

	if m.adding {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				name := m.input.Value()
				m.adding = false
				m.input.SetValue("")
				m.input.Blur()
				return m, m.then(func() (string, error) { return m.client.Add(m.ctx, m.listName, name) })
			case "esc":
				m.adding = false
				m.input.SetValue("")
				m.input.Blur()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.adding = true
			m.input.Focus()
			return m, textinput.Blink
		case "r":
			return m, m.load()
		case "d", " ":
			it, ok := m.list.SelectedItem().(tuiItem)
			if !ok {
				return m, nil
			}
			return m, m.then(func() (string, error) { return m.client.Delete(m.ctx, m.listName, it.id) })
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	if m.adding {
		b.WriteString("\n" + m.st.panel.Render("Add item\n"+m.input.View()))
	}
	if m.err != nil {
		b.WriteString("\n" + m.st.err.Render("✖ "+m.err.Error()))
	}
	return m.st.panel.Render(b.String())
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [LIST]",
		Short: "Browse and edit a list interactively (default: Today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listName := todayList
			if len(args) == 1 {
				listName = args[0]
			}
			m := newTUIModel(cmd.Context(), newTodoClient(serverURL, timeout), listName, newStyles(os.Stdout))
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
