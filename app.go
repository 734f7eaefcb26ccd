package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/philtim/digiclock/catalog"
	"github.com/philtim/digiclock/clock"
	"github.com/philtim/digiclock/config"
	"github.com/philtim/digiclock/zonedb"
	zlog "github.com/rs/zerolog/log"
)

// viewState represents the current view state
type viewState int

const (
	viewMain viewState = iota
	viewPicker
)

// maxVisible is the number of picker rows shown at once
const maxVisible = 12

// tickMsg is sent every second to update the clock
type tickMsg time.Time

// spinnerTickMsg is sent to update the spinner animation
type spinnerTickMsg time.Time

// zonesReadyMsg is sent when the zone database has finished loading
type zonesReadyMsg struct{}

// zonesErrorMsg is sent when zone enumeration fails
type zonesErrorMsg struct{ err error }

// model is the application state. Every field is owned by the bubbletea
// update loop.
type model struct {
	// Core data
	prefs   config.Preferences
	store   *config.Store
	clock   *clock.Clock
	builder *catalog.Builder
	catalog *catalog.Catalog
	zones   *zonedb.Database
	device  func() (string, float64)
	year    int

	// View state
	state    viewState
	viewport viewport.Model
	ready    bool
	width    int
	height   int
	quitting bool

	// Spinner state
	spinnerFrame int
	zonesReady   bool
	zonesErr     error

	// Picker state
	filter           textinput.Model
	results          []catalog.Entry
	selected         int
	justOpenedPicker bool
}

// newModel wires the application state. The catalog starts with the device
// option only and is rebuilt once the zone database is ready.
func newModel(store *config.Store, clk *clock.Clock, builder *catalog.Builder, zones *zonedb.Database) model {
	ti := textinput.New()
	ti.Placeholder = "Filter zones..."
	ti.CharLimit = 50
	ti.Width = 50

	m := model{
		prefs:   store.Load(),
		store:   store,
		clock:   clk,
		builder: builder,
		zones:   zones,
		device:  zonedb.Device,
		year:    clk.Now().Year(),
		state:   viewMain,
		filter:  ti,
	}
	m.rebuildCatalog(nil)
	return m
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		spinnerTickCmd(),
		checkZonesCmd(m.zones),
	)
}

// Update handles messages and updates the model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			// Reserve space for the footer (1 newline + 1 bar line)
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			m.viewport.YPosition = 0
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())

	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		if !m.zonesReady {
			cmds = append(cmds, spinnerTickCmd())
		}

	case zonesReadyMsg:
		m.zonesReady = true
		m.rebuildCatalog(m.zones.Zones())

	case zonesErrorMsg:
		// device-only catalog stays in place
		m.zonesReady = true
		m.zonesErr = msg.err
		m.rebuildCatalog(nil)
	}

	if m.state == viewPicker {
		// skip the key that opened the picker so it doesn't land in the filter
		if !m.justOpenedPicker {
			m.filter, cmd = m.filter.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			m.refreshResults()
		} else {
			m.justOpenedPicker = false
		}
	}

	m.refreshViewport()
	m.viewport, cmd = m.viewport.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// rebuildCatalog rebuilds the catalog from zones and revalidates the selected
// zone against it
func (m *model) rebuildCatalog(zones []string) {
	id, offset := m.device()
	m.catalog = m.builder.Build(id, offset, zones)

	// Only revalidate against a real list. Before enumeration finishes the
	// catalog has no concrete zones and every stored zone would be dropped.
	if !m.zonesReady {
		return
	}
	m.prefs.Reconcile(m.catalog.Contains)
}

// setPrefs applies a user change and persists it. bubbletea renders after
// every Update, so the new preference shows without waiting for a tick.
func (m *model) setPrefs(prefs config.Preferences) {
	m.prefs = prefs
	m.store.Save(prefs)
	zlog.Debug().Str("zone", prefs.Zone).Bool("use24h", prefs.Use24Hour).Msg("preferences changed")
}

// handleKeyPress handles keyboard input based on current view state
func (m *model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.state {
	case viewMain:
		return m.handleMainKeys(msg)
	case viewPicker:
		return m.handlePickerKeys(msg)
	}
	return nil
}

// handleMainKeys handles keys in main view
func (m *model) handleMainKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return tea.Quit

	case "f":
		prefs := m.prefs
		prefs.Use24Hour = !prefs.Use24Hour
		m.setPrefs(prefs)

	case "d":
		if m.prefs.Zone != config.DeviceZone {
			prefs := m.prefs
			prefs.Zone = config.DeviceZone
			m.setPrefs(prefs)
		}

	case "z":
		m.state = viewPicker
		m.filter.Reset()
		m.justOpenedPicker = true
		m.refreshResults()
		m.selected = m.indexOf(m.prefs.Zone)
		return m.filter.Focus()
	}

	return nil
}

// handlePickerKeys handles keys in the zone picker
func (m *model) handlePickerKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return tea.Quit

	case "esc":
		m.state = viewMain
		m.filter.Blur()

	case "up":
		if m.selected > 0 {
			m.selected--
		}

	case "down":
		if m.selected < len(m.results)-1 {
			m.selected++
		}

	case "enter":
		if m.selected < len(m.results) {
			prefs := m.prefs
			prefs.Zone = m.results[m.selected].ID
			m.setPrefs(prefs)
		}
		m.state = viewMain
		m.filter.Blur()
	}

	return nil
}

func (m *model) refreshResults() {
	m.results = m.catalog.Search(m.filter.Value())
	if m.selected >= len(m.results) {
		m.selected = 0
	}
}

func (m *model) indexOf(id string) int {
	for i, e := range m.results {
		if e.ID == id {
			return i
		}
	}
	return 0
}

// View renders the UI
func (m model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	switch m.state {
	case viewPicker:
		return m.renderPicker()
	default:
		return m.renderMain()
	}
}

// refreshViewport puts the current clock card into the stored viewport so
// scrolling works on terminals shorter than the card
func (m *model) refreshViewport() {
	if !m.ready || m.state != viewMain {
		return
	}
	content := renderClockCard(m.clock.Render(m.prefs), m.width)
	m.viewport.SetContent(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, content))
}

// renderMain renders the clock view
func (m model) renderMain() string {
	return fmt.Sprintf("%s\n%s", m.viewport.View(), m.renderCommandBar())
}

// renderPicker renders the zone picker
func (m model) renderPicker() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Padding(1, 0)
	b.WriteString(titleStyle.Render("Select Timezone"))
	b.WriteString("\n\n")

	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if !m.zonesReady {
		b.WriteString(dimStyle.Render("Loading timezones..."))
		b.WriteString("\n")
	}

	start := 0
	if m.selected >= maxVisible {
		start = m.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.results))

	for i := start; i < end; i++ {
		e := m.results[i]
		marker := " "
		if e.ID == m.prefs.Zone {
			marker = "✓"
		}

		line := fmt.Sprintf("%s %s", marker, e.Label())
		if e.Region != "" {
			line = fmt.Sprintf("%s %s › %s", marker, e.Region, e.Label())
		}
		if e.Current && e.ID != config.DeviceZone {
			line += " •"
		}

		if i == m.selected {
			line = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d | ↑/↓: Navigate | Enter: Select | ESC: Cancel", len(m.results), m.catalog.Len()+1)))

	return b.String()
}

var dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// renderCommandBar renders the footer: key hints, year and zone status
func (m model) renderCommandBar() string {
	barStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	format := "24h"
	if !m.prefs.Use24Hour {
		format = "12h"
	}
	leftContent := barStyle.Render(fmt.Sprintf("z: Zone | f: Format (%s) | d: Device | q: Quit", format))

	var status string
	switch {
	case !m.zonesReady:
		status = fmt.Sprintf("%s Loading zones...", spinnerFrames[m.spinnerFrame])
	case m.zonesErr != nil:
		status = "Zones: device only"
	default:
		status = fmt.Sprintf("Zones: %d", m.catalog.Len())
	}
	rightContent := barStyle.Render(fmt.Sprintf("%s | © %d", status, m.year))

	spacingWidth := max(m.width-lipgloss.Width(leftContent)-lipgloss.Width(rightContent), 0)
	spacing := strings.Repeat(" ", spacingWidth)

	return lipgloss.NewStyle().Background(lipgloss.Color("235")).Render(leftContent + spacing + rightContent)
}

// spinnerFrames are the characters used for the loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickCmd returns a command that sends a tick message every second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// spinnerTickCmd returns a command that sends a spinner tick message
func spinnerTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// checkZonesCmd waits for the zone database to finish loading
func checkZonesCmd(db *zonedb.Database) tea.Cmd {
	return func() tea.Msg {
		for i := 0; i < 300; i++ { // up to 30 seconds
			if db.IsReady() {
				if err := db.GetError(); err != nil {
					return zonesErrorMsg{err: err}
				}
				return zonesReadyMsg{}
			}
			time.Sleep(100 * time.Millisecond)
		}
		return zonesErrorMsg{err: errors.New("timeout waiting for zone database")}
	}
}

// renderClockCard renders the time, date and zone in a bordered card
func renderClockCard(d clock.Display, width int) string {
	cardWidth := min(max(width-8, 28), 48)

	zoneStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Align(lipgloss.Center).
		Width(cardWidth).
		PaddingTop(1).
		PaddingBottom(1)

	timeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Align(lipgloss.Center).
		Width(cardWidth).
		MarginBottom(1)

	dateStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Align(lipgloss.Center).
		Width(cardWidth).
		PaddingBottom(1)

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 2).
		Margin(1, 1, 0, 1)

	content := lipgloss.JoinVertical(lipgloss.Left,
		zoneStyle.Render(strings.ToUpper(d.Zone)),
		timeStyle.Render(d.Time),
		dateStyle.Render(d.Date),
	)

	return cardStyle.Render(content)
}
