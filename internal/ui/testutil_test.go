package ui

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"planner/internal/config"
	"planner/internal/kv"
	"planner/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testNow is the fixed clock used by every UI test store.
var testNow = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors to ensure consistent output across environments.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStore returns an in-memory store holding the seed data, with a
// fixed clock and sequential ids.
func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	return createStoreOver(t, kv.NewMemory())
}

// createStoreOver is createTestStore over a caller-owned backend.
func createStoreOver(t *testing.T, b kv.Backend) *store.Store {
	t.Helper()
	n := 0
	return store.New(b,
		store.WithClock(func() time.Time { return testNow }),
		store.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		store.WithLogger(slog.New(slog.DiscardHandler)),
	)
}

// createEmptyStore is createTestStore with the seed tasks and habits removed.
func createEmptyStore(t *testing.T) *store.Store {
	t.Helper()
	s := createTestStore(t)
	for _, task := range s.Tasks() {
		s.DeleteTask(task.ID)
	}
	for _, h := range s.Habits() {
		s.DeleteHabit(h.ID)
	}
	return s
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

func createTestApp(t *testing.T, s *store.Store) *App {
	t.Helper()
	setupTest(t)
	return NewApp(s, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 80,
		HabitDays:             7,
	})
}

// keyPress builds the key message bubbletea would deliver for k.
func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// send delivers msg to the app and feeds back any change or status message
// the resulting command produces.
func send(a *App, msg tea.Msg) {
	_, cmd := a.Update(msg)
	if cmd == nil {
		return
	}
	switch m := cmd().(type) {
	case changedMsg, statusMsg:
		a.Update(m)
	}
}

// changeFrom runs cmd and returns the change message it carries.
func changeFrom(t *testing.T, cmd tea.Cmd) changedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	got := cmd()
	msg, ok := got.(changedMsg)
	if !ok {
		t.Fatalf("command produced %T, want changedMsg", got)
	}
	return msg
}
