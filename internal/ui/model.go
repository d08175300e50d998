package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/jma-terminal/internal/navigation"
)

// AppState represents the current state of the application
type AppState int

const (
	StateBrowsing     AppState = iota // Choosing region, prefecture and area
	StateProvisioning                 // Rebuilding the forecast cache
	StateError                        // Error state
)

// Column identifies one of the selection lists
type Column int

const (
	ColumnRegion Column = iota
	ColumnPrefecture
	ColumnArea
	numColumns
)

var columnTitles = [numColumns]string{"地方", "都道府県", "地域"}

// Option configures a Model
type Option func(*Model)

// WithProvisioning runs fn behind a spinner before browsing starts
func WithProvisioning(fn ProvisionFunc) Option {
	return func(m *Model) {
		m.provision = fn
	}
}

// WithTitle sets the header line
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithTimeout bounds each lookup made while browsing
func WithTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// Model represents the application's state
type Model struct {
	state  AppState
	focus  Column
	width  int
	height int
	err    error
	title  string

	navigator *navigation.Navigator
	timeout   time.Duration
	selection navigation.Selection
	columns   [numColumns]list.Model
	forecast  string
	loading   bool

	// Provisioning
	provision         ProvisionFunc
	spinner           spinner.Model
	provisionStatus   string
	provisionChannels *provisioningStartedMsg
}

// NewModel creates a new application model browsing through nav
func NewModel(nav *navigation.Navigator, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		state:     StateBrowsing,
		focus:     ColumnRegion,
		title:     "気象庁 天気予報",
		navigator: nav,
		timeout:   defaultLookupTimeout,
		spinner:   s,
		forecast:  navigation.MessageSelectRegion,
	}
	for i := range m.columns {
		m.columns[i] = createColumnList(columnTitles[i], 0, 0)
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.provision != nil {
		m.state = StateProvisioning
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.provision != nil {
		return tea.Batch(m.spinner.Tick, initiateProvisioning(m.provision))
	}
	return resolveSelection(m.navigator, m.selection, m.timeout)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.resizeColumns()
		return m, nil
	}

	switch msg := msg.(type) {
	case provisioningStartedMsg:
		m.state = StateProvisioning
		m.provisionStatus = "Starting forecast download..."
		m.provisionChannels = &msg
		return m, tea.Batch(
			waitForProvisionStatus(msg.progressChan),
			waitForProvisionResult(msg.resultChan),
		)

	case provisionStatusMsg:
		m.provisionStatus = string(msg)
		if m.provisionChannels != nil {
			return m, waitForProvisionStatus(m.provisionChannels.progressChan)
		}
		return m, nil

	case provisionResultMsg:
		m.provisionChannels = nil
		if msg.err != nil {
			m.err = fmt.Errorf("provisioning failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.state = StateBrowsing
		return m, m.resolve(navigation.Selection{})

	case viewResolvedMsg:
		// A newer selection has been made since this one was requested
		if msg.selection != m.selection {
			return m, nil
		}
		m.applyView(msg.view)
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" || keyMsg.String() == "q" {
			return m, tea.Quit
		}

		switch m.state {
		case StateBrowsing:
			return m.handleBrowsing(keyMsg)
		case StateError:
			// Any key exits once an error is shown
			return m, tea.Quit
		}
		return m, nil
	}

	if m.state == StateProvisioning {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleBrowsing handles keyboard input while browsing
func (m Model) handleBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "right":
		m.focus = (m.focus + 1) % numColumns
		return m, nil
	case "shift+tab", "left":
		m.focus = (m.focus + numColumns - 1) % numColumns
		return m, nil
	case "enter":
		return m.selectFocused()
	}

	var cmd tea.Cmd
	m.columns[m.focus], cmd = m.columns[m.focus].Update(msg)
	return m, cmd
}

// selectFocused commits the highlighted entry of the focused column
func (m Model) selectFocused() (tea.Model, tea.Cmd) {
	opt, ok := selectedOption(m.columns[m.focus])
	if !ok {
		return m, nil
	}

	sel := m.selection
	switch m.focus {
	case ColumnRegion:
		sel = navigation.Selection{Region: opt.Key}
		setOptions(&m.columns[ColumnPrefecture], nil)
		setOptions(&m.columns[ColumnArea], nil)
		m.focus = ColumnPrefecture
	case ColumnPrefecture:
		sel.Prefecture = opt.Key
		sel.Area = ""
		setOptions(&m.columns[ColumnArea], nil)
		m.focus = ColumnArea
	case ColumnArea:
		sel.Area = opt.Key
	}
	return m, m.resolve(sel)
}

// resolve records sel as current and requests its view
func (m *Model) resolve(sel navigation.Selection) tea.Cmd {
	m.selection = sel
	m.loading = true
	return resolveSelection(m.navigator, sel, m.timeout)
}

// applyView fills the column or forecast pane the view describes
func (m *Model) applyView(view navigation.View) {
	m.loading = false
	switch view.Level {
	case navigation.LevelRegions:
		setOptions(&m.columns[ColumnRegion], view.Options)
	case navigation.LevelPrefectures:
		setOptions(&m.columns[ColumnPrefecture], view.Options)
	case navigation.LevelAreas:
		setOptions(&m.columns[ColumnArea], view.Options)
	}
	m.forecast = view.Text()
}

// resizeColumns splits the width between the three lists
func (m *Model) resizeColumns() {
	width := (m.width - 12) / int(numColumns)
	if width < 10 {
		width = 10
	}
	height := m.height / 2
	if height < 5 {
		height = 5
	}
	for i := range m.columns {
		m.columns[i].SetSize(width, height)
	}
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateProvisioning:
		return m.viewProvisioning()
	case StateBrowsing:
		return m.viewBrowsing()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewProvisioning renders the cache rebuild screen
func (m Model) viewProvisioning() string {
	title := titleStyle.Render(m.title)

	status := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(m.provisionStatus)

	info := helpStyle.Render("Downloading forecasts for every area into the local cache...")

	return lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), status),
		"",
		info,
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("✗ Error"),
		"",
		errorMsg,
		"",
		helpStyle.Render("Press any key to exit"),
	)
}

// viewBrowsing renders the selection columns above the forecast pane
func (m Model) viewBrowsing() string {
	panes := make([]string, numColumns)
	for i := range m.columns {
		style := paneStyle
		if Column(i) == m.focus {
			style = activePaneStyle
		}
		panes[i] = style.Render(m.columns[i].View())
	}

	forecast := m.forecast
	if m.loading {
		forecast = mutedStyle.Render("Loading...")
	}

	help := helpStyle.Render("↑/↓: Navigate • Tab/←/→: Switch column • Enter: Select • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
		sectionHeaderStyle.Render("天気予報"),
		forecastBoxStyle.Width(max(m.width-6, 20)).Render(forecast),
		help,
	)
}
