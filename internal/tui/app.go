package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/feedview/internal/article"
	"github.com/matheuskafuri/feedview/internal/browser"
	"github.com/matheuskafuri/feedview/internal/reveal"
	"github.com/matheuskafuri/feedview/internal/session"
)

type mode int

const (
	modeLoading mode = iota
	modeFailed
	modeNormal
	modeSearch
	modeHelp
)

// LoadFunc fetches the data file. It runs once, before the session exists.
type LoadFunc func(ctx context.Context) (article.Dataset, error)

type App struct {
	opts RunOpts
	log  *slog.Logger
	mode mode

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	debounce    debouncer

	session     *session.Session
	list        visibleList
	prox        proximity
	cursor      int
	offset      int
	lastUpdated time.Time
	loadErr     error
	err         error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Load               LoadFunc
	BatchSize          int
	ProximityThreshold int
	Debounce           time.Duration
	Logger             *slog.Logger
	// Open launches a URL; defaults to browser.Open.
	Open func(string) error
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Open == nil {
		opts.Open = browser.Open
	}

	return &App{
		opts:        opts,
		log:         logger,
		mode:        modeLoading,
		searchInput: ti,
		spinner:     sp,
		debounce:    debouncer{delay: opts.Debounce},
		prox:        newProximity(opts.ProximityThreshold),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadCmd(), a.spinner.Tick)
}

func (a *App) loadCmd() tea.Cmd {
	load := a.opts.Load
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ds, err := load(ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return datasetLoadedMsg{dataset: ds}
	}
}

// Emit receives reveal events for the visible list and the proximity
// detector.
func (a *App) Emit(e reveal.Event) {
	a.list.apply(e)
	a.prox.observe(e)
	if e.Kind == reveal.EventReplace {
		a.cursor = 0
		a.offset = 0
	}
	a.log.Debug("reveal", "event", e.Kind.String(), "items", len(e.Items), "total", e.Total)
}

func (a *App) start(ds article.Dataset) {
	a.lastUpdated = ds.LastUpdated
	a.session = session.New(article.NewStore(ds.Articles), session.Options{
		BatchSize: a.opts.BatchSize,
		Sink:      a,
		Logger:    a.log,
	})
	a.session.Start()
	a.mode = modeNormal
	a.log.Info("articles loaded", "count", len(ds.Articles), "skipped", ds.Skipped, "malformed", ds.Malformed)
	a.checkProximity()
}

func (a *App) applyQuery(q string) {
	if a.session == nil {
		return
	}
	a.session.SetQuery(q)
	a.checkProximity()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.offset = scrollOffset(a.offset, a.cursor, a.rows(), a.list.len())
		a.checkProximity()
		return a, nil

	case tea.KeyMsg:
		a.err = nil
		return a.handleKey(msg)

	case datasetLoadedMsg:
		a.start(msg.dataset)
		return a, nil

	case loadFailedMsg:
		a.loadErr = msg.err
		a.mode = modeFailed
		a.log.Error("loading articles failed", "err", msg.err)
		return a, nil

	case debouncedQueryMsg:
		if a.debounce.current(msg) {
			a.applyQuery(msg.query)
		}
		return a, nil

	case openFailedMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.mode == modeLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeLoading, modeFailed:
		if msg.String() == "q" || msg.String() == "esc" {
			return a, tea.Quit
		}
		return a, nil
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "pgdown", "ctrl+d":
		a.moveCursor(a.rows())
	case "pgup", "ctrl+u":
		a.moveCursor(-a.rows())
	case "g", "home":
		a.moveCursor(-a.cursor)
	case "G", "end":
		a.moveCursor(a.list.len() - 1 - a.cursor)
	case "o", "enter":
		if a.cursor < a.list.len() {
			return a, a.openCmd(a.list.items[a.cursor].Article.URL)
		}
	case "/":
		a.mode = modeSearch
		return a, a.searchInput.Focus()
	case "esc":
		if a.searchInput.Value() != "" {
			a.searchInput.SetValue("")
			a.debounce.cancel()
			a.applyQuery("")
		}
	case "?":
		a.mode = modeHelp
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.debounce.cancel()
		a.applyQuery("")
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		// Apply immediately rather than waiting for the pending tick.
		a.debounce.cancel()
		if a.session != nil && a.session.Query() != a.searchInput.Value() {
			a.applyQuery(a.searchInput.Value())
		}
		return a, nil
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if after := a.searchInput.Value(); after != before {
		return a, tea.Batch(cmd, a.debounce.submit(after))
	}
	return a, cmd
}

func (a *App) moveCursor(delta int) {
	n := a.list.len()
	if n == 0 {
		return
	}
	a.cursor = max(0, min(n-1, a.cursor+delta))
	a.offset = scrollOffset(a.offset, a.cursor, a.rows(), n)
	a.checkProximity()
}

// checkProximity fires the reveal trigger while the bottom of the window is
// near the end of the revealed items. A tall window may need several batches
// before it is filled.
func (a *App) checkProximity() {
	if a.session == nil {
		return
	}
	for {
		revealed := a.list.len()
		lastRendered := min(a.offset+a.rows(), revealed) - 1
		if !a.prox.near(lastRendered, revealed) {
			return
		}
		a.session.OnProximitySignal()
		if a.list.len() == revealed {
			return
		}
	}
}

func (a *App) openCmd(url string) tea.Cmd {
	open := a.opts.Open
	return func() tea.Msg {
		if err := open(url); err != nil {
			return openFailedMsg{err: err}
		}
		return nil
	}
}

// listHeight is the inner height of the list pane.
func (a *App) listHeight() int {
	// header, search line, status bar and the pane borders
	return max(3, a.height-1-1-1-2)
}

func (a *App) rows() int {
	return visibleRows(a.listHeight())
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  feedview")
	}

	switch a.mode {
	case modeLoading:
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" Loading articles...")
	case modeFailed:
		msg := errorStyle.Render("Could not load articles") + "\n\n" +
			helpDimStyle.Render(wrapText(a.loadErr.Error(), max(20, a.width/2))) + "\n\n" +
			helpDimStyle.Render("q quit")
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, msg)
	case modeHelp:
		return a.renderHelp()
	}

	contentHeight := a.listHeight()
	listWidth := int(float64(a.width) * 0.55)
	previewWidth := a.width - listWidth - 1

	headerLeft := headerStyle.Render("feedview")
	headerRight := ""
	if !a.lastUpdated.IsZero() {
		headerRight = headerDateStyle.Render("updated " + a.lastUpdated.Local().Format("Jan 2 15:04") + " ")
	}
	headerGap := max(0, a.width-lipgloss.Width(headerLeft)-lipgloss.Width(headerRight))
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	search := helpDimStyle.Render(" / to search titles")
	if a.mode == modeSearch || a.searchInput.Value() != "" {
		search = a.searchInput.View()
	}

	listContent := renderList(&a.list, a.cursor, a.offset, contentHeight, listWidth-4)
	listPane := listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	var selected *reveal.Item
	if a.cursor < a.list.len() {
		selected = &a.list.items[a.cursor]
	}
	previewContent := renderPreview(selected, a.list.total, previewWidth-4, contentHeight)
	previewPane := previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	info := statusInfo{
		count:     a.list.total,
		revealed:  a.list.len(),
		exhausted: a.list.exhausted,
		searching: a.mode == modeSearch,
	}
	if a.session != nil {
		info.query = strings.TrimSpace(a.session.Query())
		info.total = a.session.TotalArticles()
	}
	status := renderStatusBar(info, a.width)
	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, search, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("feedview")
	dim := helpDimStyle

	help := title + dim.Render(" keyboard shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓       Move through the list\n" +
		"  pgup/pgdown    Move a page\n" +
		"  g/G            First / last loaded article\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter       Open article in browser\n" +
		"  /              Search titles\n" +
		"  esc            Clear search\n\n" +
		dim.Render("General") + "\n" +
		"  ?              Toggle this help\n" +
		"  q, ctrl+c      Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
