package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/config"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
	"github.com/fitdeck/fitdeck/internal/mutation"
	"github.com/fitdeck/fitdeck/internal/prefs"
	"github.com/fitdeck/fitdeck/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewWorkouts
	ViewGoals
	ViewNutrition
	ViewActivity
	ViewSettings
	ViewLogs
	numViews
)

var viewNames = [numViews]string{"Dashboard", "Workouts", "Goals", "Nutrition", "Activity", "Settings", "Logs"}

func (v View) String() string {
	if v < 0 || v >= numViews {
		return "Unknown"
	}
	return viewNames[v]
}

// collections returns what a view displays, for refresh.
func (v View) collections() []cache.Collection {
	switch v {
	case ViewWorkouts:
		return []cache.Collection{cache.Workouts}
	case ViewGoals:
		return []cache.Collection{cache.Goals}
	case ViewNutrition:
		return []cache.Collection{cache.Meals}
	case ViewActivity:
		return []cache.Collection{cache.Activities}
	case ViewSettings:
		return []cache.Collection{cache.Profile}
	case ViewLogs:
		return nil
	default:
		return cache.All
	}
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *cache.Store
	Dispatcher *mutation.Dispatcher
	Tracker    *session.Tracker
	Gateway    gateway.Gateway
	Role       fitness.Role
	Config     config.Config
	Prefs      prefs.Prefs
	PrefsPath  string
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx        context.Context
	store      *cache.Store
	dispatcher *mutation.Dispatcher
	tracker    *session.Tracker
	gateway    gateway.Gateway
	role       fitness.Role
	config     config.Config
	prefs      prefs.Prefs
	prefsPath  string
	now        func() time.Time
	newID      func() string
	keys       keyMap

	storeEvents <-chan struct{}
	unsubscribe func()

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Data state
	snapshot        cache.Snapshot
	session         session.Session
	tracking        bool
	cursor          [numViews]int
	profilePrompted bool

	toasts    []toast
	nextToast int

	logViewport viewport.Model
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	gw := opts.Gateway
	if gw == nil {
		gw = gateway.Unavailable{}
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := opts.Prefs
	if !userPrefs.ActivityType.Valid() {
		userPrefs.ActivityType = fitness.Walk
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		dispatcher:  opts.Dispatcher,
		tracker:     opts.Tracker,
		gateway:     gw,
		role:        opts.Role,
		config:      opts.Config,
		prefs:       userPrefs,
		prefsPath:   prefsPath,
		now:         now,
		newID:       newID,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(userPrefs.Theme),
		currentView: ViewDashboard,
		unsubscribe: func() {},
	}
	if m.store != nil {
		m.storeEvents, m.unsubscribe = watchStore(m.store)
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(TickInterval),
		// The first store message also starts the store watch.
		func() tea.Msg { return storeChangedMsg{} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logViewport = viewport.New(m.width, m.contentHeight())
		} else {
			m.logViewport.Width = m.width
			m.logViewport.Height = m.contentHeight()
		}
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case storeChangedMsg:
		return m.handleStoreChanged()

	case mutationMsg:
		return m.handleMutation(msg)

	case trackerMsg:
		return m.handleTracker(msg)

	case exportMsg:
		if msg.err != nil {
			cmd := m.notifyErr("Failed to export data", msg.err)
			return m, cmd
		}
		log.Printf("export written to %s", msg.path)
		cmd := m.notify(toastSuccess, "Data exported to "+msg.path)
		return m, cmd

	case photoMsg:
		if msg.err != nil {
			cmd := m.notifyErr("Failed to save photo", msg.err)
			return m, cmd
		}
		cmd := m.notify(toastSuccess, "Photo saved to "+msg.path)
		return m, cmd

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case toastExpiredMsg:
		m.expireToast(msg.id)
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

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m.switchView((m.currentView + 1) % numViews)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView((m.currentView + numViews - 1) % numViews)
	case key.Matches(msg, m.keys.ViewDashboard):
		return m.switchView(ViewDashboard)
	case key.Matches(msg, m.keys.ViewWorkouts):
		return m.switchView(ViewWorkouts)
	case key.Matches(msg, m.keys.ViewGoals):
		return m.switchView(ViewGoals)
	case key.Matches(msg, m.keys.ViewNutrition):
		return m.switchView(ViewNutrition)
	case key.Matches(msg, m.keys.ViewActivity):
		return m.switchView(ViewActivity)
	case key.Matches(msg, m.keys.ViewSettings):
		return m.switchView(ViewSettings)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshView()
	}

	switch m.currentView {
	case ViewWorkouts:
		return m.handleWorkoutsKey(msg)
	case ViewGoals:
		return m.handleGoalsKey(msg)
	case ViewNutrition:
		return m.handleNutritionKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewLogs:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewLogs {
		return m, loadLogs(m.config.LogFile)
	}
	return m, nil
}

// refreshView invalidates the current view's collections; the refetch loop
// picks them up.
func (m Model) refreshView() tea.Cmd {
	if m.currentView == ViewLogs {
		return loadLogs(m.config.LogFile)
	}
	collections := m.currentView.collections()
	if m.store == nil || len(collections) == 0 {
		return nil
	}
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		for _, c := range collections {
			store.Refresh(ctx, c)
		}
		return nil
	}
}

// moveCursor applies list navigation keys to the current view's cursor.
func (m *Model) moveCursor(msg tea.KeyMsg, count int) bool {
	c := &m.cursor[m.currentView]
	switch {
	case key.Matches(msg, m.keys.Down):
		if *c < count-1 {
			*c++
		}
	case key.Matches(msg, m.keys.Up):
		if *c > 0 {
			*c--
		}
	case key.Matches(msg, m.keys.Top):
		*c = 0
	case key.Matches(msg, m.keys.Bottom):
		*c = maxInt(count-1, 0)
	default:
		return false
	}
	return true
}

// selected clamps and returns the cursor for a list of count rows, or -1.
func (m *Model) selected(count int) int {
	c := &m.cursor[m.currentView]
	if count == 0 {
		*c = 0
		return -1
	}
	if *c >= count {
		*c = count - 1
	}
	return *c
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(TickInterval)}
	if m.tracker != nil {
		m.session, m.tracking = m.tracker.Current()
	}
	if m.currentView == ViewLogs {
		cmds = append(cmds, loadLogs(m.config.LogFile))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleStoreChanged() (tea.Model, tea.Cmd) {
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	if m.needsProfile() {
		m.profilePrompted = true
		m.modal = m.newProfileForm("Welcome! Set up your profile")
	}
	return m, waitForStore(m.ctx, m.storeEvents)
}

// needsProfile reports a signed-in caller whose profile is known to be absent.
func (m Model) needsProfile() bool {
	if m.profilePrompted || m.modal != nil || m.role == fitness.RoleGuest || m.role == "" {
		return false
	}
	st := m.snapshot.Status(cache.Profile)
	return st.Freshness == cache.Fresh && m.snapshot.Profile == nil
}

func (m Model) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if !errors.Is(msg.err, mutation.ErrPending) {
			log.Printf("%s: %v", strings.ToLower(msg.failure), msg.err)
		}
		cmd := m.notifyErr(msg.failure, msg.err)
		return m, cmd
	}
	cmd := m.notify(toastSuccess, msg.success)
	return m, cmd
}

func (m Model) handleTracker(msg trackerMsg) (tea.Model, tea.Cmd) {
	if m.tracker != nil {
		m.session, m.tracking = m.tracker.Current()
	}
	switch {
	case msg.started && msg.err != nil:
		cmd := m.notifyErr("Failed to start activity", msg.err)
		return m, cmd
	case msg.started:
		cmd := m.notify(toastSuccess, "Activity tracking started")
		return m, cmd
	case msg.err != nil:
		cmd := m.notifyErr("Failed to save activity", msg.err)
		return m, cmd
	}
	cmd := m.notify(toastSuccess, "Activity saved: "+m.activitySummary(msg.activity))
	return m, cmd
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	atBottom := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(m.renderLogLines(msg.entries))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Printf("save prefs failed: %v", err)
	}
}

// contentHeight is the space left under the header and above the toasts.
func (m Model) contentHeight() int {
	return maxInt(m.height-2-MaxToasts, 1)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.unsubscribe()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
