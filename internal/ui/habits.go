package ui

import (
	"fmt"
	"strings"
	"time"

	"planner/internal/config"
	"planner/internal/store"
	"planner/internal/views"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

const defaultHabitDays = 7

// HabitsPane handles habit tracking display and interactions.
type HabitsPane struct {
	store   *store.Store
	styles  *Styles
	habits  []store.Habit
	days    int
	cursor  int
	focused bool
	width   int
	height  int
	adding  bool
	addStep int // 0 = title, 1 = category
	input   textinput.Model
	newName string

	// Key bindings
	keys      HabitKeyMap
	inputKeys InputKeyMap
}

// NewHabitsPane creates a new habits pane.
func NewHabitsPane(s *store.Store, styles *Styles) *HabitsPane {
	return NewHabitsPaneWithKeys(s, styles, &config.KeysConfig{})
}

// NewHabitsPaneWithKeys creates a new habits pane with custom key bindings.
func NewHabitsPaneWithKeys(s *store.Store, styles *Styles, keyCfg *config.KeysConfig) *HabitsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "Habit name (e.g., Exercise)"
	ti.CharLimit = 40
	ti.Width = 30

	p := &HabitsPane{
		store:     s,
		styles:    styles,
		days:      defaultHabitDays,
		input:     ti,
		keys:      NewHabitKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
	p.Refresh()
	return p
}

// SetDays sets how many days of history the grid shows.
func (p *HabitsPane) SetDays(n int) {
	if n <= 0 {
		n = defaultHabitDays
	}
	p.days = n
}

// Refresh re-reads habits from the store and clamps the cursor.
func (p *HabitsPane) Refresh() {
	p.habits = p.store.Habits()
	if p.cursor >= len(p.habits) {
		p.cursor = max(0, len(p.habits)-1)
	}
}

// Selected returns the habit under the cursor.
func (p *HabitsPane) Selected() (store.Habit, bool) {
	if p.cursor < 0 || p.cursor >= len(p.habits) {
		return store.Habit{}, false
	}
	return p.habits[p.cursor], true
}

// SetSize sets the pane dimensions.
func (p *HabitsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused.
func (p *HabitsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *HabitsPane) IsFocused() bool {
	return p.focused
}

// IsAdding returns whether we're in add mode.
func (p *HabitsPane) IsAdding() bool {
	return p.adding
}

// Update handles messages for the habits pane.
func (p *HabitsPane) Update(msg tea.Msg) tea.Cmd {
	if p.adding {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				if p.addStep == 0 {
					p.newName = strings.TrimSpace(p.input.Value())
					if p.newName != "" {
						p.addStep = 1
						p.input.Reset()
						p.input.Placeholder = "Category (default Health)"
					}
					return nil
				}
				category := store.CategoryHealth
				if c := strings.TrimSpace(p.input.Value()); c != "" {
					category = categoryFor(c)
				}
				name := p.newName
				p.resetAddMode()
				return emit(*addHabit(p.store, name, category))

			case key.Matches(msg, p.inputKeys.Cancel):
				p.resetAddMode()
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
			if len(p.habits) > 0 {
				p.cursor = min(p.cursor+1, len(p.habits)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.habits) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.habits) > 0 {
				p.cursor = len(p.habits) - 1
			}

		case key.Matches(msg, p.keys.Add):
			p.adding = true
			p.addStep = 0
			p.input.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.Toggle):
			if h, ok := p.Selected(); ok {
				return p.toggle(h.ID)
			}

		case key.Matches(msg, p.keys.Delete):
			if h, ok := p.Selected(); ok {
				return changed(deleteHabit(p.store, h.ID))
			}
		}
	}

	return nil
}

// toggle checks the habit in or out for today's UTC date.
func (p *HabitsPane) toggle(id string) tea.Cmd {
	return changed(toggleHabit(p.store, id, store.DateString(p.store.Now())))
}

// resetAddMode resets the add habit state.
func (p *HabitsPane) resetAddMode() {
	p.adding = false
	p.addStep = 0
	p.newName = ""
	p.input.Reset()
	p.input.Placeholder = "Habit name (e.g., Exercise)"
}

// handleMouse processes mouse events for the habits pane.
func (p *HabitsPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.habits) == 0 {
		return nil
	}

	// title (1) + separator (1) + blank (1)
	const headerRows = 3

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
		return nil

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.habits)-1)
		return nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}

		row := msg.Y - headerRows
		if row < 0 || row >= len(p.habits) {
			return nil
		}
		p.cursor = row

		// Clicking the leading marker toggles today.
		if msg.X < 4 {
			return p.toggle(p.habits[row].ID)
		}
	}

	return nil
}

// View renders the habits pane.
func (p *HabitsPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("🔥 HABITS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styleMutedText(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	now := p.store.Now()
	days := views.LastDays(now, p.days)

	if len(p.habits) == 0 && !p.adding {
		b.WriteString("\n")
		b.WriteString(p.styleMutedText("  No habits yet."))
		b.WriteString("\n")
		b.WriteString(p.styleMutedText("  Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")

		// grid, count and streak take roughly 2 cells per day plus 12
		titleWidth := max(6, p.width-4-4-2*len(days)-12)

		best := 0
		for i, h := range p.habits {
			best = max(best, h.Streak)
			selected := i == p.cursor && p.focused && !p.adding

			marker := "  "
			if selected {
				marker = "▶ "
			}
			check := p.styles.HabitUndoneIcon
			if views.DoneToday(h, now) {
				check = p.styles.HabitDoneIcon
			}

			title := runewidth.Truncate(h.Title, titleWidth, "..")
			title = runewidth.FillRight(title, titleWidth)

			grid := views.HabitGrid(h, days)
			line := fmt.Sprintf("%s%s %s  %s  %d/%d", marker, check, title, p.renderGrid(grid), countDone(grid), len(grid))
			if h.Streak > 0 {
				line += " " + p.styles.HabitStreakStyle.Render(fmt.Sprintf("🔥%d", h.Streak))
			}

			if selected {
				line = p.styles.TaskSelectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

		if best > 0 {
			b.WriteString("\n")
			b.WriteString("  " + p.styles.StatLabelStyle.Render("Best streak: ") + p.styles.HabitStreakStyle.Render(fmt.Sprintf("%d days 🔥", best)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + p.styleMutedText(dayLabels(days)))
	b.WriteString("\n")

	if p.adding {
		b.WriteString("\n")
		prompt := p.styles.InputPromptStyle.Render("Name: ")
		if p.addStep == 1 {
			prompt = p.styles.InputPromptStyle.Render("Category: ")
		}
		b.WriteString("  " + prompt + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderGrid draws one dot per day, oldest first.
func (p *HabitsPane) renderGrid(grid []views.Day) string {
	cells := make([]string, len(grid))
	for i, d := range grid {
		if d.Done {
			cells[i] = p.styles.HabitDoneIcon
		} else {
			cells[i] = p.styles.HabitUndoneIcon
		}
	}
	return strings.Join(cells, " ")
}

func (p *HabitsPane) styleMutedText(s string) string {
	return p.styles.StatLabelStyle.Render(s)
}

// TodayCompletion returns how many habits are checked in for today.
func (p *HabitsPane) TodayCompletion() (done, total int) {
	now := p.store.Now()
	for _, h := range p.habits {
		if views.DoneToday(h, now) {
			done++
		}
	}
	return done, len(p.habits)
}

func countDone(grid []views.Day) int {
	n := 0
	for _, d := range grid {
		if d.Done {
			n++
		}
	}
	return n
}

// dayLabels returns the weekday initials for days, space separated.
func dayLabels(days []string) string {
	labels := make([]string, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(store.DateLayout, d)
		if err != nil {
			labels = append(labels, "?")
			continue
		}
		labels = append(labels, t.Format("Mon")[:1])
	}
	return strings.Join(labels, " ")
}
