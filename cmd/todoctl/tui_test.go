package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m tuiModel, msg tea.Msg) (tuiModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(tuiModel)
	require.True(t, ok)
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func names(m tuiModel) []string {
	var out []string
	for _, it := range m.list.Items() {
		out = append(out, it.(tuiItem).name)
	}
	return out
}

func TestTUIModel_LoadAddDelete(t *testing.T) {
	srv, st := newServer(t)
	c := newTodoClient(srv.URL, 2*time.Second)
	m := newTUIModel(context.Background(), c, "Groceries", newStyles(io.Discard))
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	// The first load creates the list with its defaults.
	m, _ = press(t, m, m.Init()())
	assert.Equal(t, []string{"Read Book", "Write Sai's Record"}, names(m))
	assert.Equal(t, "Groceries", m.list.Title)

	m, _ = press(t, m, runes("a"))
	require.True(t, m.adding)
	for _, r := range "Milk" {
		m, _ = press(t, m, runes(string(r)))
	}
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	assert.Equal(t, []string{"Read Book", "Write Sai's Record", "Milk"}, names(m))

	m, cmd = press(t, m, runes("d"))
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	assert.Equal(t, []string{"Write Sai's Record", "Milk"}, names(m))

	l, err := st.Lists().FindByName(context.Background(), "groceries")
	require.NoError(t, err)
	assert.Len(t, l.Items, 2)
}

func TestTUIModel_EscCancelsAdd(t *testing.T) {
	srv, st := newServer(t)
	m := newTUIModel(context.Background(), newTodoClient(srv.URL, time.Second), todayList, newStyles(io.Discard))

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("x"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.adding)
	assert.Nil(t, cmd)

	its, err := st.Items().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, its)
}

func TestTUIModel_ErrorAndQuit(t *testing.T) {
	srv, _ := newServer(t)
	m := newTUIModel(context.Background(), newTodoClient(srv.URL, time.Second), todayList, newStyles(io.Discard))
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = press(t, m, errMsg{errors.New("server unreachable")})
	assert.Contains(t, m.View(), "server unreachable")

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
