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
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TaskView selects which slice of the task collection the pane lists.
type TaskView int

const (
	// ViewToday lists today's open tasks followed by the ones finished today.
	ViewToday TaskView = iota
	// ViewInbox lists open tasks not due today, soonest first.
	ViewInbox
	// ViewAll lists every task in manual order; the only view that reorders.
	ViewAll
	// ViewArchive lists completed tasks, latest due first.
	ViewArchive
)

var taskViewNames = [...]string{"Today", "Inbox", "All", "Archive"}

func (v TaskView) String() string {
	if v < 0 || int(v) >= len(taskViewNames) {
		return "?"
	}
	return taskViewNames[v]
}

// TaskPane handles the task list display and interactions.
type TaskPane struct {
	store   *store.Store
	styles  *Styles
	view    TaskView
	tasks   []store.Task
	cursor  int
	focused bool
	width   int
	height  int
	adding  bool
	input   textinput.Model

	// Key bindings
	keys      TaskKeyMap
	inputKeys InputKeyMap
}

// NewTaskPane creates a new task pane with default keys.
func NewTaskPane(s *store.Store, styles *Styles) *TaskPane {
	return NewTaskPaneWithKeys(s, styles, &config.KeysConfig{})
}

// NewTaskPaneWithKeys creates a new task pane with custom key bindings.
func NewTaskPaneWithKeys(s *store.Store, styles *Styles, keyCfg *config.KeysConfig) *TaskPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "What needs to be done? (!high #health)"
	ti.CharLimit = 120
	ti.Width = 40

	p := &TaskPane{
		store:     s,
		styles:    styles,
		view:      ViewToday,
		focused:   true,
		input:     ti,
		keys:      NewTaskKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
	p.Refresh()
	return p
}

// Refresh re-reads the current view from the store and clamps the cursor.
func (p *TaskPane) Refresh() {
	now := p.store.Now()
	all := p.store.Tasks()

	switch p.view {
	case ViewToday:
		p.tasks = append(views.TodayFocus(all, now), views.CompletedToday(all, now)...)
	case ViewInbox:
		p.tasks = views.Inbox(all, now)
	case ViewArchive:
		p.tasks = views.Archive(all)
	default:
		p.tasks = all
	}

	if p.cursor >= len(p.tasks) {
		p.cursor = max(0, len(p.tasks)-1)
	}
}

// CurrentView returns the listed view.
func (p *TaskPane) CurrentView() TaskView { return p.view }

// SetView switches the listed view and resets the cursor.
func (p *TaskPane) SetView(v TaskView) {
	p.view = v
	p.cursor = 0
	p.Refresh()
}

// Selected returns the task under the cursor.
func (p *TaskPane) Selected() (store.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.tasks) {
		return store.Task{}, false
	}
	return p.tasks[p.cursor], true
}

// SetSize sets the pane dimensions.
func (p *TaskPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused.
func (p *TaskPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TaskPane) IsFocused() bool {
	return p.focused
}

// IsAdding returns whether we're in add mode.
func (p *TaskPane) IsAdding() bool {
	return p.adding
}

// Update handles messages for the task pane.
func (p *TaskPane) Update(msg tea.Msg) tea.Cmd {
	if p.adding {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				text := strings.TrimSpace(p.input.Value())
				p.adding = false
				p.input.Reset()
				if text == "" {
					return nil
				}
				in := parseQuickAdd(text, p.store.Now(), p.view == ViewToday)
				if in.Title == "" {
					return emit(statusMsg{text: "Task title is empty", err: true})
				}
				return emit(*addTask(p.store, in))

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
		case key.Matches(msg, p.keys.MoveUp):
			return p.move(store.Up)

		case key.Matches(msg, p.keys.MoveDown):
			return p.move(store.Down)

		case key.Matches(msg, p.keys.Down):
			if len(p.tasks) > 0 {
				p.cursor = min(p.cursor+1, len(p.tasks)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.tasks) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.tasks) > 0 {
				p.cursor = len(p.tasks) - 1
			}

		case key.Matches(msg, p.keys.ToggleView):
			p.SetView((p.view + 1) % TaskView(len(taskViewNames)))

		case key.Matches(msg, p.keys.Add):
			p.adding = true
			p.input.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.Toggle):
			if task, ok := p.Selected(); ok {
				return changed(toggleTask(p.store, task.ID))
			}

		case key.Matches(msg, p.keys.Delete):
			if task, ok := p.Selected(); ok {
				return changed(deleteTask(p.store, task.ID))
			}
		}
	}

	return nil
}

// move reorders the selected task. Only the All view shows manual order, so
// elsewhere it explains instead of silently shuffling hidden neighbours.
func (p *TaskPane) move(dir store.Direction) tea.Cmd {
	if p.view != ViewAll {
		return emit(statusMsg{text: "Reorder in the All view (press v)"})
	}
	task, ok := p.Selected()
	if !ok {
		return nil
	}
	cmd := changed(moveTask(p.store, task.ID, dir))
	if cmd == nil {
		return nil
	}
	p.Refresh()
	if i := p.store.TaskPosition(task.ID); i >= 0 {
		p.cursor = i
	}
	return cmd
}

// changed turns a mutation result into a command; nil stays nil.
func changed(m *changedMsg) tea.Cmd {
	if m == nil {
		return nil
	}
	return emit(*m)
}

// handleMouse processes mouse events for the task pane.
func (p *TaskPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.tasks) == 0 {
		return nil
	}

	// Content starts after title (1) + separator (1) = row 2
	const headerRows = 2

	maxTasks, startIdx := p.window()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
		return nil

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.tasks)-1)
		return nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}

		row := msg.Y - headerRows
		if row < 0 || row >= maxTasks {
			return nil
		}
		idx := startIdx + row
		if idx >= len(p.tasks) {
			return nil
		}
		p.cursor = idx

		// Checkbox format: "![ ] " - about 5 chars
		if msg.X < 5 {
			return changed(toggleTask(p.store, p.tasks[idx].ID))
		}
	}

	return nil
}

// window returns how many rows fit and the first visible index.
func (p *TaskPane) window() (rows, start int) {
	rows = p.height - 6 // title, separator, stats, input
	if rows < 3 {
		rows = 5
	}
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	return rows, start
}

// View renders the task pane.
func (p *TaskPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("✅ TASKS · " + p.view.String()))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.tasks) == 0 && !p.adding {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  " + p.emptyHint()))
		b.WriteString("\n")
	} else {
		rows, start := p.window()
		now := p.store.Now()
		doneCount := 0

		for i, task := range p.tasks {
			if task.Completed {
				doneCount++
			}
			if i < start || i >= start+rows {
				continue
			}
			b.WriteString(p.renderLine(task, i == p.cursor && p.focused && !p.adding, now))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d complete", doneCount, len(p.tasks))))
		b.WriteString("\n")
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

func (p *TaskPane) emptyHint() string {
	switch p.view {
	case ViewToday:
		return "Nothing due today. Press 'a' to add."
	case ViewArchive:
		return "No completed tasks yet."
	default:
		return "No tasks here. Press 'a' to add one."
	}
}

// renderLine lays out: [space][priority][checkbox][space][title][pad][due]
func (p *TaskPane) renderLine(task store.Task, selected bool, now time.Time) string {
	badge := p.formatPriorityBadge(task.Priority)
	checkbox := p.styles.TaskCheckboxPending
	if task.Completed {
		checkbox = p.styles.TaskCheckboxDone
	}

	due := p.formatDueDate(task, now)
	dueWidth := lipgloss.Width(due)

	fixed := 6
	if dueWidth > 0 {
		fixed += dueWidth + 1
	}
	avail := max(5, p.width-4-fixed)

	title := runewidth.Truncate(task.Title, avail, "..")
	pad := strings.Repeat(" ", max(1, avail-runewidth.StringWidth(title)))

	if selected {
		return p.styles.TaskSelectedStyle.Render(fmt.Sprintf(" %s%s %s%s%s ", badge, checkbox, title, pad, due))
	}

	styled := p.styles.TaskPendingStyle.Render(title)
	if task.Completed {
		styled = p.styles.TaskDoneStyle.Render(title)
	}
	return fmt.Sprintf(" %s%s %s%s%s", badge, checkbox, styled, pad, due)
}

// Stats returns done/total over the listed tasks.
func (p *TaskPane) Stats() (done, total int) {
	for _, task := range p.tasks {
		if task.Completed {
			done++
		}
	}
	return done, len(p.tasks)
}

// formatPriorityBadge returns "!" for high, "~" for medium, "-" for low and
// " " for anything else.
func (p *TaskPane) formatPriorityBadge(priority store.Priority) string {
	switch priority {
	case store.PriorityHigh:
		return p.styles.PriorityHighStyle.Render("!")
	case store.PriorityMedium:
		return p.styles.PriorityMediumStyle.Render("~")
	case store.PriorityLow:
		return p.styles.PriorityLowStyle.Render("-")
	default:
		return " "
	}
}

// formatDueDate returns a compact due indicator in UTC calendar days:
// "!" (overdue and open), "T" (today), "+1" (tomorrow), "3d", "2w", ">1m".
// Past dates on completed tasks render nothing.
func (p *TaskPane) formatDueDate(task store.Task, now time.Time) string {
	days := daysBetween(now, task.DueDate)

	switch {
	case days < 0:
		if task.Completed {
			return ""
		}
		return p.styles.DueDateOverdueStyle.Render("!")
	case days == 0:
		return p.styles.DueDateTodayStyle.Render("T")
	case days == 1:
		return p.styles.DueDateFutureStyle.Render("+1")
	case days <= 7:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dd", days))
	case days <= 30:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dw", days/7))
	default:
		return p.styles.DueDateFutureStyle.Render(">1m")
	}
}

// daysBetween counts UTC calendar days from a to b.
func daysBetween(a, b time.Time) int {
	day := func(t time.Time) time.Time {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(day(b).Sub(day(a)).Hours() / 24)
}

// parseQuickAdd turns input like "Call bank !high #personal" into a task.
// "!" tokens set the priority (h/m/l or full names) and "#" tokens the
// category; everything else is the title. dueToday puts the task on today,
// otherwise it is captured for tomorrow like the inbox does.
func parseQuickAdd(text string, now time.Time, dueToday bool) store.TaskInput {
	in := views.QuickCapture("", now)
	if dueToday {
		in.DueDate = now
	}

	var words []string
	for _, w := range strings.Fields(text) {
		switch {
		case len(w) > 1 && w[0] == '!':
			if pr, ok := shortPriority(w[1:]); ok {
				in.Priority = pr
				continue
			}
		case len(w) > 1 && w[0] == '#':
			in.Category = categoryFor(w[1:])
			continue
		}
		words = append(words, w)
	}
	in.Title = strings.Join(words, " ")
	return in
}

func shortPriority(s string) (store.Priority, bool) {
	switch strings.ToLower(s) {
	case "h":
		return store.PriorityHigh, true
	case "m":
		return store.PriorityMedium, true
	case "l":
		return store.PriorityLow, true
	}
	pr, err := store.ParsePriority(s)
	return pr, err == nil
}

// categoryFor matches a built-in category case-insensitively and keeps
// anything else verbatim.
func categoryFor(s string) store.Category {
	for _, c := range store.Categories() {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return store.Category(s)
}
