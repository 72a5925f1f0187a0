package ui

import (
	"fmt"
	"strings"

	"planner/internal/config"
	"planner/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

const (
	progressStep     = 10
	progressBarWidth = 10
)

// ProjectsPane lists projects with a progress bar each.
type ProjectsPane struct {
	store    *store.Store
	styles   *Styles
	projects []store.Project
	cursor   int
	focused  bool
	width    int
	height   int
	adding   bool
	input    textinput.Model

	keys      ProjectKeyMap
	inputKeys InputKeyMap
}

// NewProjectsPane creates a projects pane with default keys.
func NewProjectsPane(s *store.Store, styles *Styles) *ProjectsPane {
	return NewProjectsPaneWithKeys(s, styles, &config.KeysConfig{})
}

// NewProjectsPaneWithKeys creates a projects pane with custom key bindings.
func NewProjectsPaneWithKeys(s *store.Store, styles *Styles, keyCfg *config.KeysConfig) *ProjectsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "Project name"
	ti.CharLimit = 60
	ti.Width = 30

	p := &ProjectsPane{
		store:     s,
		styles:    styles,
		input:     ti,
		keys:      NewProjectKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
	p.Refresh()
	return p
}

// Refresh re-reads projects from the store and clamps the cursor.
func (p *ProjectsPane) Refresh() {
	p.projects = p.store.Projects()
	if p.cursor >= len(p.projects) {
		p.cursor = max(0, len(p.projects)-1)
	}
}

// Selected returns the project under the cursor.
func (p *ProjectsPane) Selected() (store.Project, bool) {
	if p.cursor < 0 || p.cursor >= len(p.projects) {
		return store.Project{}, false
	}
	return p.projects[p.cursor], true
}

// SetSize sets the pane dimensions.
func (p *ProjectsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused.
func (p *ProjectsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *ProjectsPane) IsFocused() bool {
	return p.focused
}

// IsAdding returns whether we're in add mode.
func (p *ProjectsPane) IsAdding() bool {
	return p.adding
}

// Update handles messages for the projects pane.
func (p *ProjectsPane) Update(msg tea.Msg) tea.Cmd {
	if p.adding {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				title := strings.TrimSpace(p.input.Value())
				p.adding = false
				p.input.Reset()
				if title == "" {
					return nil
				}
				return emit(*addProject(p.store, title))

			case key.Matches(msg, p.inputKeys.Cancel):
				p.adding = false
				p.input.Reset()
				return nil
			}
		}

		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.projects) > 0 {
				p.cursor = min(p.cursor+1, len(p.projects)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.projects) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.projects) > 0 {
				p.cursor = len(p.projects) - 1
			}

		case key.Matches(msg, p.keys.Add):
			p.adding = true
			p.input.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.ProgressUp):
			if pr, ok := p.Selected(); ok {
				return changed(stepProgress(p.store, pr.ID, progressStep))
			}

		case key.Matches(msg, p.keys.ProgressDown):
			if pr, ok := p.Selected(); ok {
				return changed(stepProgress(p.store, pr.ID, -progressStep))
			}

		case key.Matches(msg, p.keys.Delete):
			if pr, ok := p.Selected(); ok {
				return changed(deleteProject(p.store, pr.ID))
			}
		}
	}

	return nil
}

func (p *ProjectsPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.projects) == 0 {
		return nil
	}

	const headerRows = 2

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.projects)-1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		row := msg.Y - headerRows
		if row >= 0 && row < len(p.projects) {
			p.cursor = row
		}
	}
	return nil
}

// View renders the projects pane.
func (p *ProjectsPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📁 PROJECTS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.projects) == 0 && !p.adding {
		b.WriteString(p.styles.StatLabelStyle.Render("  No projects. Press 'a' to add one."))
		b.WriteString("\n")
	}

	// marker (2) + bar + " 100%" (5) + spaces
	titleWidth := max(6, p.width-4-2-progressBarWidth-5-2)

	for i, pr := range p.projects {
		selected := i == p.cursor && p.focused && !p.adding

		marker := "  "
		if selected {
			marker = "▶ "
		}
		title := runewidth.FillRight(runewidth.Truncate(pr.Title, titleWidth, ".."), titleWidth)

		line := fmt.Sprintf("%s%s %s %3d%%", marker, title, p.renderBar(pr.Progress), pr.Progress)
		if selected {
			line = p.styles.TaskSelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")

		if selected {
			b.WriteString("    " + p.details(pr))
			b.WriteString("\n")
		}
	}

	if p.adding {
		b.WriteString("\n")
		b.WriteString(p.styles.InputPromptStyle.Render("+ ") + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// details renders category, due date and description of the selected project.
func (p *ProjectsPane) details(pr store.Project) string {
	parts := []string{p.styles.CategoryStyle.Render(string(pr.Category))}
	if pr.DueDate != nil {
		parts = append(parts, p.styles.DueDateFutureStyle.Render("due "+pr.DueDate.UTC().Format("Jan 2")))
	}
	if pr.Description != "" {
		parts = append(parts, p.styles.StatLabelStyle.Render(runewidth.Truncate(pr.Description, max(10, p.width-30), "..")))
	}
	return strings.Join(parts, " · ")
}

// renderBar draws progress as progressBarWidth cells.
func (p *ProjectsPane) renderBar(progress int) string {
	filled := min(progressBarWidth, max(0, progress*progressBarWidth/100))
	return p.styles.ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		p.styles.ProgressEmptyStyle.Render(strings.Repeat("░", progressBarWidth-filled))
}

// Average returns the mean progress across projects, 0 when there are none.
func (p *ProjectsPane) Average() int {
	if len(p.projects) == 0 {
		return 0
	}
	sum := 0
	for _, pr := range p.projects {
		sum += pr.Progress
	}
	return sum / len(p.projects)
}
