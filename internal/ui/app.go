package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lotwatch/internal/api"
	"github.com/five82/lotwatch/internal/config"
	"github.com/five82/lotwatch/internal/logging"
	"github.com/five82/lotwatch/internal/prefs"
	"github.com/five82/lotwatch/internal/state"
	"github.com/five82/lotwatch/internal/view"
)

// Monitor is the run-state source the dashboard listens to.
type Monitor interface {
	Snapshot() state.Snapshot
	Kick()
	Updates() <-chan struct{}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    api.API
	Monitor   Monitor
	Config    *config.Config
	Logger    logging.Logger
	ThemeName string
	Compact   bool
	PrefsPath string
	// Clock overrides time.Now for relative timestamps.
	Clock func() time.Time
}

// listData is the last accepted result for one region.
type listData struct {
	records []api.Vehicle
	current int
	pages   int
	total   int
	loaded  bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    api.API
	busy      *api.Busy
	monitor   Monitor
	config    *config.Config
	log       logging.Logger
	prefsPath string
	clock     func() time.Time

	// UI state
	theme     Theme
	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	search    textinput.Model
	records   viewport.Model
	width     int
	height    int
	ready     bool
	compact   bool
	showHelp  bool
	searching bool
	modal     Modal
	notice    string

	// View state
	state     view.State
	tracker   *view.Tracker
	lists     map[view.Region]listData
	selected  int
	pageFocus int

	// Dashboard data
	stats       api.Stats
	statsLoaded bool
	snapshot    state.Snapshot
	phase       state.Phase
	starting    bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	var busy *api.Busy
	if opts.Client != nil {
		busy = opts.Client.Busy()
	}

	ti := textinput.New()
	ti.Placeholder = "brand, model or title"
	ti.CharLimit = 100
	ti.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		busy:      busy,
		monitor:   opts.Monitor,
		config:    cfg,
		log:       log.With(logging.String("component", "ui")),
		prefsPath: prefsPath,
		clock:     opts.Clock,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		search:    ti,
		compact:   opts.Compact,
		state:     view.Initial(),
		tracker:   &view.Tracker{},
		lists:     make(map[view.Region]listData),
		pageFocus: -1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(DefaultUIInterval),
		m.spinner.Tick,
	}
	if m.client != nil {
		cmds = append(cmds, m.loadStats(), m.load(m.state.Reload()))
	}
	if m.monitor != nil {
		cmds = append(cmds, waitForMonitor(m.ctx, m.monitor.Updates()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		m.ready = true
		m.refreshRecords()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m.handleTick()

	case recordsMsg:
		m.handleRecords(msg)
		return m, nil

	case statsMsg:
		m.handleStats(msg)
		return m, nil

	case detailMsg:
		m.handleDetail(msg)
		return m, nil

	case runMsg:
		m.handleRun(msg)
		return m, nil

	case monitorMsg:
		return m, m.handleMonitor()

	case activityMsg:
		if a, ok := m.modal.(*activityModal); ok {
			a.setLines(msg.lines, msg.err)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	styles := m.theme.Styles()
	bar := renderPageBar(m.pageControls(), m.pageFocus, m.lists[view.RegionList].pages, styles)
	return strings.Join([]string{
		m.renderHeader(),
		m.renderTabBar(),
		lipgloss.NewStyle().Width(m.width).Height(m.records.Height).Render(m.records.View()),
		lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(bar),
		m.renderFooter(),
	}, "\n")
}

func (m *Model) resize() {
	h := max(m.height-chromeRows, 1)
	if m.records.Width == 0 && m.records.Height == 0 {
		m.records = viewport.New(m.width, h)
	}
	m.records.Width = m.width
	m.records.Height = h
	if r, ok := m.modal.(interface{ resize(int, int) }); ok {
		r.resize(m.width, m.height)
	}
}

// handleTick refreshes relative times and, when open, the activity log.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
	if _, ok := m.modal.(*activityModal); ok {
		cmds = append(cmds, readActivityCmd(m.config.LogFile))
	}
	m.refreshRecords()
	return m, tea.Batch(cmds...)
}

// region is where the current tab draws its records.
func (m Model) region() view.Region {
	switch m.state.Tab {
	case view.TabRecent:
		return view.RegionRecent
	case view.TabRemoved:
		return view.RegionRemoved
	default:
		return view.RegionList
	}
}

func (m Model) visibleRecords() []api.Vehicle {
	return m.lists[m.region()].records
}

func (m Model) selectedRecord() (api.Vehicle, bool) {
	records := m.visibleRecords()
	if m.selected < 0 || m.selected >= len(records) {
		return api.Vehicle{}, false
	}
	return records[m.selected], true
}

// refreshRecords redraws the record list and keeps the selection visible.
func (m *Model) refreshRecords() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	data := m.lists[m.region()]
	if !data.loaded {
		m.records.SetContent(styles.FaintText.Render("Loading…"))
		return
	}
	if len(data.records) == 0 {
		m.records.SetContent(renderRecords(nil, styles, m.records.Width, recordOptions{}))
		m.records.GotoTop()
		return
	}

	opts := recordOptions{Selected: m.selected, Compact: m.compact, Now: m.now()}
	blocks := recordBlocks(data.records, styles, m.records.Width, opts)
	sep := "\n\n"
	if m.compact {
		sep = "\n"
	}
	m.records.SetContent(strings.Join(blocks, sep))

	offsets := recordOffsets(blocks, m.compact)
	sel := clamp(m.selected, 0, len(blocks)-1)
	top := offsets[sel]
	bottom := top + lipgloss.Height(blocks[sel]) - 1
	switch {
	case top < m.records.YOffset:
		m.records.SetYOffset(top)
	case bottom >= m.records.YOffset+m.records.Height:
		m.records.SetYOffset(bottom - m.records.Height + 1)
	}
}

func (m Model) perPage() int {
	if m.config != nil && m.config.PerPage > 0 {
		return m.config.PerPage
	}
	return api.DefaultPerPage
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
