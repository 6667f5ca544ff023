// ABOUTME: Terminal user interface for the prospection sheet using bubbletea
// ABOUTME: Full-screen spreadsheet with inline editing, filters, and dialogs
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koochoy97/sheet-app/brief"
	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/rest"
	"github.com/koochoy97/sheet-app/sheet"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewSheet ViewMode = iota
	ViewEditCell
	ViewLinePicker
	ViewCreate
	ViewBrief
	ViewConfirmArchive
)

// Model is the main bubbletea model
type Model struct {
	cfg        *config.Config
	client     *rest.Client
	dispatcher *brief.Dispatcher

	store  *sheet.Store
	editor *sheet.CellEditor

	clients []models.Client
	catalog *sheet.LineCatalog

	clientFilter string
	fetchGen     int
	fetchCancel  context.CancelFunc
	loading      bool
	loadErr      error

	filters   sheet.Filters
	sortState sheet.Sort
	presets   []sheet.DateRange
	presetIdx int

	viewMode ViewMode
	cursorR  int
	cursorC  int

	selected       map[models.RowID]bool
	selectionLock  bool
	pendingArchive []models.RowID

	// Cell edit state
	editInput textinput.Model
	editKey   sheet.CellKey
	editOrig  string

	// Line picker state
	lineOpts      []sheet.LineOption
	lineCursor    int
	lineSelection map[int]bool

	// Query input state
	queryInput  textinput.Model
	queryActive bool

	// Create form state
	form        *sheet.CreateForm
	formInputs  []textinput.Model
	formFields  []models.Field
	focusIndex  int
	formSaving  bool
	formAnother bool

	// Brief dialog state
	briefRow     models.Row
	briefSending bool
	briefResp    *brief.Response
	briefErr     string

	toasts []toast

	width  int
	height int
}

// NewModel creates the TUI model, scoped to the persisted or default
// client filter.
func NewModel(cfg *config.Config, client *rest.Client, clientFilter string) Model {
	store := sheet.NewStore()
	ti := textinput.New()
	ti.CharLimit = 512
	qi := textinput.New()
	qi.Placeholder = "Buscar (fuzzy)"
	return Model{
		cfg:          cfg,
		client:       client,
		dispatcher:   brief.New(cfg.BriefURL),
		store:        store,
		editor:       sheet.NewCellEditor(store, client),
		clientFilter: clientFilter,
		catalog:      sheet.NewLineCatalog(nil),
		selected:     make(map[models.RowID]bool),
		editInput:    ti,
		queryInput:   qi,
		loading:      true,
		width:        80,
		height:       24,
	}
}

func (m Model) Init() tea.Cmd {
	// Mutations must happen in Update so they survive on the returned
	// model; Init only kicks off the first load.
	return func() tea.Msg { return initMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initMsg:
		m.store.Reset()
		return m, tea.Batch(
			m.fetchRowsCmd(),
			m.fetchClientsCmd(),
			m.fetchLinesCmd(),
		)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case rowsLoadedMsg:
		return m.handleRowsLoaded(msg)
	case clientsLoadedMsg:
		if msg.err == nil {
			m.clients = msg.clients
		}
		return m, nil
	case linesLoadedMsg:
		if msg.err == nil {
			m.catalog = sheet.NewLineCatalog(msg.lines)
		}
		return m, nil
	case commitDoneMsg:
		return m.handleCommitDone(msg)
	case createDoneMsg:
		return m.handleCreateDone(msg)
	case archiveDoneMsg:
		return m.handleArchiveDone(msg)
	case briefDoneMsg:
		m.briefSending = false
		if msg.err != nil {
			m.briefErr = msg.err.Error()
		} else {
			m.briefErr = ""
			m.briefResp = msg.resp
		}
		return m, nil
	case toastExpiredMsg:
		m.toasts = removeToast(m.toasts, msg.id)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewSheet:
		return m.renderSheetView()
	case ViewEditCell:
		return m.renderEditView()
	case ViewLinePicker:
		return m.renderLinePicker()
	case ViewCreate:
		return m.renderCreateView()
	case ViewBrief:
		return m.renderBriefView()
	case ViewConfirmArchive:
		return m.renderConfirmArchive()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.fetchCancel != nil {
			m.fetchCancel()
		}
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewSheet:
		return m.handleSheetKeys(msg)
	case ViewEditCell:
		return m.handleEditKeys(msg)
	case ViewLinePicker:
		return m.handleLinePickerKeys(msg)
	case ViewCreate:
		return m.handleCreateKeys(msg)
	case ViewBrief:
		return m.handleBriefKeys(msg)
	case ViewConfirmArchive:
		return m.handleConfirmArchiveKeys(msg)
	}
	return m, nil
}

// visibleRows is the derived view: filter then sort.
func (m Model) visibleRows() []models.Row {
	return sheet.SortRows(sheet.FilterRows(m.store.Rows(), m.filters), m.sortState)
}

func (m Model) currentRow() (models.Row, bool) {
	rows := m.visibleRows()
	if m.cursorR < 0 || m.cursorR >= len(rows) {
		return models.Row{}, false
	}
	return rows[m.cursorR], true
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	cellCursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	rowSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))
)
