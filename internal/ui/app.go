package ui

import (
	"fmt"
	"strings"
	"time"

	"planner/internal/config"
	"planner/internal/store"
	"planner/internal/views"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneTasks PaneID = iota
	PaneHabits
	PaneProjects
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	NarrowLayoutThreshold int
	HabitDays             int
	ShowQuote             bool
}

// AppConfigFrom builds the app settings from a loaded config.
func AppConfigFrom(cfg *config.Config) *AppConfig {
	return &AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		HabitDays:             cfg.UX.HabitDays,
		ShowQuote:             cfg.UX.ShowQuote,
	}
}

// App is the main application model that coordinates all panes.
type App struct {
	store        *store.Store
	styles       *Styles
	config       *AppConfig
	taskPane     *TaskPane
	habitsPane   *HabitsPane
	projectsPane *ProjectsPane
	helpOverlay  *HelpOverlay
	undoManager  *UndoManager
	confirmDel   *confirmDeleteState
	activePane   PaneID
	layoutMode   LayoutMode
	showHelp     bool
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	quitting     bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	tasksPaneStart    int
	tasksPaneEnd      int
	habitsPaneStart   int
	habitsPaneEnd     int
	projectsPaneStart int
	projectsPaneEnd   int
	contentTop        int // Y coordinate where content starts
}

type confirmDeleteState struct {
	title string
	body  string
	apply func() *changedMsg
}

// NewApp creates a new application over s.
func NewApp(s *store.Store, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
			HabitDays:             defaultHabitDays,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	habitsPane := NewHabitsPaneWithKeys(s, styles, cfg.Keys)
	habitsPane.SetDays(cfg.HabitDays)

	app := &App{
		store:        s,
		styles:       styles,
		config:       cfg,
		taskPane:     NewTaskPaneWithKeys(s, styles, cfg.Keys),
		habitsPane:   habitsPane,
		projectsPane: NewProjectsPaneWithKeys(s, styles, cfg.Keys),
		helpOverlay:  NewHelpOverlay(styles),
		undoManager:  NewUndoManager(),
		keys:         NewGlobalKeyMap(cfg.Keys),
		helpKeys:     DefaultHelpKeyMap(),
	}
	app.setActivePane(PaneTasks)
	if held := s.Held(); len(held) > 0 {
		app.SetStatus(heldStatus(held), true)
	}
	return app
}

// Init starts the clock tick. The store is already hydrated.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		if msg.undo != nil {
			a.undoManager.Push(msg.undo)
		}
		if msg.status != "" {
			a.SetStatus(msg.status, false)
		}
		a.refresh()
		return a, nil

	case statusMsg:
		a.SetStatus(msg.text, msg.err)
		return a, nil

	case tea.KeyMsg:
		if a.confirmDel != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				apply := a.confirmDel.apply
				a.confirmDel = nil
				return a, changed(apply())
			case "n", "N", "esc":
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
			}
			return a, nil
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		if !a.inInputMode() {
			if a.config.ConfirmDeletions {
				if handled := a.confirmDelete(msg); handled {
					return a, nil
				}
			}

			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextPane):
				a.switchPane()
				return a, nil

			case key.Matches(msg, a.keys.Pane1):
				a.setActivePane(PaneTasks)
				return a, nil

			case key.Matches(msg, a.keys.Pane2):
				a.setActivePane(PaneHabits)
				return a, nil

			case key.Matches(msg, a.keys.Pane3):
				a.setActivePane(PaneProjects)
				return a, nil

			case key.Matches(msg, a.keys.Undo):
				a.undo()
				return a, nil

			case key.Matches(msg, a.keys.Redo):
				a.redo()
				return a, nil

			case key.Matches(msg, a.keys.Reload):
				a.reload()
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()
	}

	if a.showHelp {
		return a, nil
	}
	return a, a.activeUpdate(msg)
}

// activeUpdate forwards msg to the focused pane.
func (a *App) activeUpdate(msg tea.Msg) tea.Cmd {
	switch a.activePane {
	case PaneHabits:
		return a.habitsPane.Update(msg)
	case PaneProjects:
		return a.projectsPane.Update(msg)
	default:
		return a.taskPane.Update(msg)
	}
}

func (a *App) inInputMode() bool {
	return a.taskPane.IsAdding() || a.habitsPane.IsAdding() || a.projectsPane.IsAdding()
}

// confirmDelete intercepts the active pane's delete key and asks first.
func (a *App) confirmDelete(msg tea.KeyMsg) bool {
	switch a.activePane {
	case PaneTasks:
		if !key.Matches(msg, a.taskPane.keys.Delete) {
			return false
		}
		task, ok := a.taskPane.Selected()
		if !ok {
			a.SetStatus("No task selected", true)
			return true
		}
		a.confirmDel = &confirmDeleteState{
			title: "Delete task?",
			body:  truncateText(task.Title, 60),
			apply: func() *changedMsg { return deleteTask(a.store, task.ID) },
		}

	case PaneHabits:
		if !key.Matches(msg, a.habitsPane.keys.Delete) {
			return false
		}
		habit, ok := a.habitsPane.Selected()
		if !ok {
			a.SetStatus("No habit selected", true)
			return true
		}
		a.confirmDel = &confirmDeleteState{
			title: "Delete habit?",
			body:  fmt.Sprintf("%s (streak %d)", truncateText(habit.Title, 50), habit.Streak),
			apply: func() *changedMsg { return deleteHabit(a.store, habit.ID) },
		}

	case PaneProjects:
		if !key.Matches(msg, a.projectsPane.keys.Delete) {
			return false
		}
		project, ok := a.projectsPane.Selected()
		if !ok {
			a.SetStatus("No project selected", true)
			return true
		}
		a.confirmDel = &confirmDeleteState{
			title: "Delete project?",
			body:  fmt.Sprintf("%s (%d%%)", truncateText(project.Title, 50), project.Progress),
			apply: func() *changedMsg { return deleteProject(a.store, project.ID) },
		}
	}
	return a.confirmDel != nil
}

func (a *App) undo() {
	desc, err := a.undoManager.Undo()
	switch {
	case err != nil:
		a.SetStatus("Undo failed: "+err.Error(), true)
	case desc != "":
		a.SetStatus("Undid: "+desc, false)
	default:
		a.SetStatus("Nothing to undo", false)
	}
	a.refresh()
}

func (a *App) redo() {
	desc, err := a.undoManager.Redo()
	switch {
	case err != nil:
		a.SetStatus("Redo failed: "+err.Error(), true)
	case desc != "":
		a.SetStatus("Redid: "+desc, false)
	default:
		a.SetStatus("Nothing to redo", false)
	}
	a.refresh()
}

// reload hydrates the store again, picking up changes made outside the TUI
// such as a restore. Undo history refers to the old state and is dropped.
func (a *App) reload() {
	a.store.Reload()
	a.undoManager.Clear()
	a.refresh()
	if held := a.store.Held(); len(held) > 0 {
		a.SetStatus(heldStatus(held), true)
		return
	}
	a.SetStatus("Reloaded from storage", false)
}

func heldStatus(keys []string) string {
	return "Could not read " + strings.Join(keys, ", ") + ": changes there are not saved (ctrl+r retries)"
}

// refresh re-reads every pane from the store.
func (a *App) refresh() {
	a.taskPane.Refresh()
	a.habitsPane.Refresh()
	a.projectsPane.Refresh()
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.confirmDel != nil || a.showHelp {
		if msg.Action == tea.MouseActionPress {
			if a.confirmDel != nil {
				a.SetStatus("Canceled", false)
			}
			a.confirmDel = nil
			a.showHelp = false
		}
		return nil
	}

	isWheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown
	if msg.Action != tea.MouseActionPress && !isWheel {
		return nil
	}

	// Tab bar click in narrow mode
	if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 && !isWheel {
		tabWidth := max(1, a.width/3)
		switch {
		case msg.X < tabWidth:
			a.setActivePane(PaneTasks)
		case msg.X < tabWidth*2:
			a.setActivePane(PaneHabits)
		default:
			a.setActivePane(PaneProjects)
		}
		return nil
	}

	if !isWheel {
		if clicked := a.paneAtPosition(msg.X); clicked >= 0 && clicked != a.activePane {
			a.setActivePane(clicked)
		}
	}

	if msg.Y < a.contentTop && !isWheel {
		return nil
	}

	local := msg
	local.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide {
		switch a.activePane {
		case PaneHabits:
			local.X = msg.X - a.habitsPaneStart
		case PaneProjects:
			local.X = msg.X - a.projectsPaneStart
		}
	}
	return a.activeUpdate(local)
}

// switchPane cycles through panes.
func (a *App) switchPane() {
	a.setActivePane((a.activePane + 1) % 3)
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.taskPane.SetFocused(pane == PaneTasks)
	a.habitsPane.SetFocused(pane == PaneHabits)
	a.projectsPane.SetFocused(pane == PaneProjects)
}

// ActivePane returns the focused pane.
func (a *App) ActivePane() PaneID { return a.activePane }

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}

	switch {
	case x >= a.tasksPaneStart && x < a.tasksPaneEnd:
		return PaneTasks
	case x >= a.habitsPaneStart && x < a.habitsPaneEnd:
		return PaneHabits
	case x >= a.projectsPaneStart && x < a.projectsPaneEnd:
		return PaneProjects
	}
	return -1
}

// headerRows is the title bar plus the optional quote line.
func (a *App) headerRows() int {
	if a.config.ShowQuote {
		return 2
	}
	return 1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for the header and help bar
	contentHeight := max(10, a.height-a.headerRows()-3)

	a.contentTop = a.headerRows()
	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow

		narrowHeight := max(8, contentHeight-1)
		paneWidth := max(20, totalWidth)

		a.taskPane.SetSize(paneWidth, narrowHeight)
		a.habitsPane.SetSize(paneWidth, narrowHeight)
		a.projectsPane.SetSize(paneWidth, narrowHeight)

		a.tasksPaneStart, a.tasksPaneEnd = 0, a.width
		a.habitsPaneStart, a.habitsPaneEnd = 0, a.width
		a.projectsPaneStart, a.projectsPaneEnd = 0, a.width

		// tab bar sits between header and pane
		a.contentTop++
		return
	}

	a.layoutMode = LayoutWide

	var tasksWidth, habitsWidth, projectsWidth int
	if totalWidth < 120 {
		tasksWidth = (totalWidth * 38) / 100
		habitsWidth = (totalWidth * 34) / 100
		projectsWidth = totalWidth - tasksWidth - habitsWidth - 2
	} else {
		tasksWidth = min((totalWidth*38)/100, 60)
		habitsWidth = min((totalWidth*34)/100, 55)
		projectsWidth = min(totalWidth-tasksWidth-habitsWidth-2, 50)
	}

	a.taskPane.SetSize(tasksWidth, contentHeight)
	a.habitsPane.SetSize(habitsWidth, contentHeight)
	a.projectsPane.SetSize(projectsWidth, contentHeight)

	// 1 space gaps between panes
	a.tasksPaneStart = 0
	a.tasksPaneEnd = tasksWidth
	a.habitsPaneStart = tasksWidth + 1
	a.habitsPaneEnd = a.habitsPaneStart + habitsWidth
	a.projectsPaneStart = a.habitsPaneEnd + 1
	a.projectsPaneEnd = a.projectsPaneStart + projectsWidth
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	if a.config.ShowQuote {
		b.WriteString(a.styles.QuoteStyle.Render(" “" + views.Quote(a.store.Now()) + "”"))
		b.WriteString("\n")
	}

	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWideContent renders all three panes side by side.
func (a *App) renderWideContent() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		a.taskPane.View(), " ",
		a.habitsPane.View(), " ",
		a.projectsPane.View(),
	)
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder

	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	switch a.activePane {
	case PaneTasks:
		b.WriteString(a.taskPane.View())
	case PaneHabits:
		b.WriteString(a.habitsPane.View())
	case PaneProjects:
		b.WriteString(a.projectsPane.View())
	}
	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneTasks, "Tasks"},
		{PaneHabits, "Habits"},
		{PaneProjects, "Projects"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		if tab.id == a.activePane {
			parts = append(parts, activeTabStyle.Render("["+tab.label+"]"))
		} else {
			parts = append(parts, inactiveTabStyle.Render(" "+tab.label+" "))
		}
	}

	tabBar := strings.Join(parts, "  ")
	if padding := (a.width - lipgloss.Width(tabBar)) / 2; padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}
	return tabBar
}

// renderGoodbye shows an exit message with today's progress.
func (a *App) renderGoodbye() string {
	st := views.Summarize(a.store.Snapshot(), a.store.Now())
	todayTotal := st.TodayPending + st.TodayCompleted

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")

	if todayTotal > 0 || st.HabitsTotal > 0 {
		b.WriteString("  Today's progress:\n")
		if todayTotal > 0 {
			fmt.Fprintf(&b, "     Tasks:  %d/%d (%d%%)\n", st.TodayCompleted, todayTotal, st.TodayCompleted*100/todayTotal)
		}
		if st.HabitsTotal > 0 {
			fmt.Fprintf(&b, "     Habits: %d/%d (%d%%)\n", st.HabitsDoneToday, st.HabitsTotal, st.HabitsDoneToday*100/st.HabitsTotal)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderTitleBar creates the top bar with today's counters and the date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" planner ")

	now := a.store.Now()
	st := views.Summarize(a.store.Snapshot(), now)

	var items []string
	if total := st.TodayPending + st.TodayCompleted; total > 0 {
		items = append(items, fmt.Sprintf("Today: %d/%d", st.TodayCompleted, total))
	}
	if st.HabitsTotal > 0 {
		items = append(items, fmt.Sprintf("Habits: %d/%d", st.HabitsDoneToday, st.HabitsTotal))
	}
	if st.ProjectsTotal > 0 {
		items = append(items, fmt.Sprintf("Projects: %d%%", st.ProjectsAverage))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(items, "  "))

	var overdue string
	if st.Overdue > 0 {
		overdue = a.styles.ErrorStyle.Render(fmt.Sprintf("%d overdue", st.Overdue))
	}

	date := a.styles.DateStyle.Render(now.Local().Format("Mon Jan 2 · 15:04"))

	used := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(overdue) + lipgloss.Width(date)
	spacer := max(2, a.width-used-6)

	var b strings.Builder
	b.WriteString(title)
	if stats != "" {
		b.WriteString("  " + stats)
	}
	b.WriteString(strings.Repeat(" ", spacer/2))
	b.WriteString(overdue)
	b.WriteString(strings.Repeat(" ", spacer-spacer/2))
	b.WriteString(date)
	return b.String()
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.taskPane.IsAdding() || a.projectsPane.IsAdding() {
		return a.styles.RenderHelp("enter", "save", "esc", "cancel")
	}
	if a.habitsPane.IsAdding() {
		return a.styles.RenderHelp("enter", "next/save", "esc", "cancel")
	}

	var pane string
	switch a.activePane {
	case PaneTasks:
		k := a.taskPane.keys
		pane = a.styles.RenderBindings(k.Add, k.Toggle, k.Delete, k.ToggleView)
	case PaneHabits:
		k := a.habitsPane.keys
		pane = a.styles.RenderBindings(k.Add, k.Toggle, k.Delete)
	case PaneProjects:
		k := a.projectsPane.keys
		pane = a.styles.RenderBindings(k.Add, k.ProgressUp, k.ProgressDown, k.Delete)
	}
	return pane + "  " + a.styles.RenderBindings(a.keys.NextPane, a.keys.Undo, a.keys.Help)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program over s.
func Run(s *store.Store, styles *Styles, cfg *AppConfig) error {
	app := NewApp(s, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
