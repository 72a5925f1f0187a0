package ui

import (
	"strings"
	"testing"

	"planner/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

func TestHelpOverlay_ContentStructure(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles())
	help.SetSize(100, 50)

	output := help.View()

	for _, section := range []string{"Global", "Tasks", "Habits", "Projects", "Input Mode"} {
		if !strings.Contains(output, section) {
			t.Errorf("help overlay should contain section: %s", section)
		}
	}
	for _, k := range []string{"Tab", "?", "K / J", "+ / -", "Undo", "Redo", "Enter", "Esc"} {
		if !strings.Contains(output, k) {
			t.Errorf("help overlay should mention key: %s", k)
		}
	}
}

func TestHelpOverlay_SmallTerminal(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles())
	help.SetSize(30, 20)

	// Narrow overlays wrap but still render every section.
	output := help.View()
	if !strings.Contains(output, "Projects") {
		t.Errorf("small overlay:\n%s", output)
	}
}

func TestApp_HelpToggle(t *testing.T) {
	app := createTestApp(t, createTestStore(t))
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	send(app, keyPress("?"))
	if !app.showHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(app.View(), "Keyboard Shortcuts") {
		t.Error("view should be the help overlay")
	}

	send(app, keyPress("esc"))
	if app.showHelp {
		t.Error("esc should close help")
	}
}

func TestApp_HelpOverlayBlocksInput(t *testing.T) {
	s := createTestStore(t)
	app := createTestApp(t, s)

	send(app, keyPress("?"))
	send(app, keyPress("tab"))
	send(app, keyPress("x"))

	if app.ActivePane() != PaneTasks {
		t.Error("keys should not reach panes while help is open")
	}
	if len(s.Tasks()) != 2 {
		t.Error("delete went through while help was open")
	}
}

func TestApp_ContextualHelp(t *testing.T) {
	app := createTestApp(t, createTestStore(t))

	cases := []struct {
		key  string
		want []string
	}{
		{"1", []string{"add task", "toggle done", "next view"}},
		{"2", []string{"add habit", "toggle"}},
		{"3", []string{"add project", "progress +10", "progress -10"}},
	}
	for _, c := range cases {
		send(app, keyPress(c.key))
		bar := app.renderHelpBar()
		for _, want := range append(c.want, "next pane", "undo", "help") {
			if !strings.Contains(bar, want) {
				t.Errorf("pane %s help bar missing %q: %q", c.key, want, bar)
			}
		}
	}
}

func TestApp_InputModeHelp(t *testing.T) {
	app := createTestApp(t, createTestStore(t))

	send(app, keyPress("a"))
	if bar := app.renderHelpBar(); !strings.Contains(bar, "save") || !strings.Contains(bar, "cancel") {
		t.Errorf("task input help = %q", bar)
	}
	send(app, keyPress("esc"))

	send(app, keyPress("2"))
	send(app, keyPress("a"))
	if bar := app.renderHelpBar(); !strings.Contains(bar, "next/save") {
		t.Errorf("habit input help = %q", bar)
	}
}

func TestApp_CustomKeysInHelpBar(t *testing.T) {
	setupTest(t)
	app := NewApp(createTestStore(t), createTestStyles(), &AppConfig{
		Keys: &config.KeysConfig{AddTask: "n"},
	})

	send(app, keyPress("n"))
	if !app.taskPane.IsAdding() {
		t.Error("custom add key should open the input")
	}
}
