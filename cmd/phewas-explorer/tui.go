package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/phewas-explorer/pkg/explorer"
	"github.com/dd0wney/phewas-explorer/pkg/filter"
	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
	"github.com/dd0wney/phewas-explorer/pkg/visualization"
	"github.com/spf13/cobra"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0fc405")).
			MarginLeft(2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#e871fb")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF"))

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFFF00")).
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)
)

type view int

const (
	treeView view = iota
	graphView
)

type inputMode int

const (
	browseMode inputMode = iota
	filterMode
	navigateMode
)

type keyMap struct {
	Tab          key.Binding
	Activate     key.Binding
	Label        key.Binding
	Next         key.Binding
	Prev         key.Binding
	Close        key.Binding
	Filter       key.Binding
	Clear        key.Binding
	Subtypes     key.Binding
	ExpandAll    key.Binding
	Navigate     key.Binding
	Associations key.Binding
	ShowAllele   key.Binding
	Phenotype    key.Binding
	OddsTable    key.Binding
	Row          key.Binding
	Cancel       key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	ZoomIn       key.Binding
	ZoomOut      key.Binding
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Tab:          key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tree/graph")),
	Activate:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/select")),
	Label:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle label")),
	Next:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next disease")),
	Prev:         key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev disease")),
	Close:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close panel")),
	Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filters")),
	Clear:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Subtypes:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "subtypes")),
	ExpandAll:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
	Navigate:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to disease")),
	Associations: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "associations")),
	ShowAllele:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "all diseases with allele")),
	Phenotype:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter by phenotype")),
	OddsTable:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "affected/mitigated")),
	Row:          key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "open row")),
	Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel/dismiss")),
	ScrollUp:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "scroll panel up")),
	ScrollDown:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "scroll panel down")),
	ZoomIn:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Label, k.Filter, k.Navigate, k.Tab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Activate, k.Label, k.Next, k.Prev, k.Close},
		{k.Filter, k.Clear, k.Subtypes, k.ExpandAll, k.Navigate},
		{k.Associations, k.ShowAllele, k.Phenotype, k.OddsTable, k.Row},
		{k.Tab, k.ScrollUp, k.ScrollDown, k.ZoomIn, k.ZoomOut, k.Cancel, k.Quit},
	}
}

// outcomeMsg delivers the result of an explorer effect to Update.
type outcomeMsg struct {
	outcome explorer.Outcome
}

type model struct {
	ctx      context.Context
	explorer *explorer.Explorer
	logger   logging.Logger
	extent   float64

	currentView view
	mode        inputMode
	tree        table.Model
	rowIDs      []string
	hovered     string
	input       textinput.Model
	panel       viewport.Model
	help        help.Model
	keys        keyMap
	mitigated   bool

	width    int
	height   int
	inflight int
	message  string
	initCmd  tea.Cmd
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), a)
		},
	}
}

func runTUI(ctx context.Context, a *app) error {
	m := initialModel(ctx, a)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func initialModel(ctx context.Context, a *app) model {
	ti := textinput.New()
	ti.CharLimit = 400
	ti.Width = 80

	columns := []table.Column{
		{Title: "Node", Width: 36},
		{Title: "Kind", Width: 9},
		{Title: "State", Width: 10},
		{Title: "Lbl", Width: 3},
		{Title: "Detail", Width: 24},
	}
	// The explorer bindings take the letter keys the table uses by default.
	km := table.DefaultKeyMap()
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
	km.GotoTop = key.NewBinding(key.WithKeys("home"))
	km.GotoBottom = key.NewBinding(key.WithKeys("end"))

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
		table.WithKeyMap(km),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#e871fb")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		ctx:      ctx,
		explorer: a.explorer,
		logger:   a.logger.With(logging.Component("tui")),
		extent:   a.cfg.Layout.Width,
		tree:     t,
		input:    ti,
		panel:    viewport.New(48, 20),
		help:     help.New(),
		keys:     keys,
	}
	m.initCmd = m.run(a.explorer.Initialize())
	return m
}

func (m model) Init() tea.Cmd {
	return m.initCmd
}

// run turns effects into commands. Each command executes off the program
// goroutine and reports back through outcomeMsg.
func (m *model) run(effects []explorer.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	ctx := m.ctx
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		m.inflight++
		cmds = append(cmds, func() tea.Msg {
			return outcomeMsg{outcome: eff(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

// do runs the effects of an interaction, or reports its error.
func (m *model) do(effects []explorer.Effect, err error) tea.Cmd {
	if err != nil {
		m.fail(err)
		return nil
	}
	return m.run(effects)
}

func (m *model) fail(err error) {
	switch {
	case errors.Is(err, explorer.ErrBusy):
		m.message = "Still loading, try again in a moment."
	case errors.Is(err, explorer.ErrNotExpandable):
		m.message = "Alleles cannot be expanded."
	default:
		m.message = err.Error()
		m.logger.Warn("interaction failed", logging.Error(err))
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

	case outcomeMsg:
		m.inflight--
		next, err := m.explorer.Apply(msg.outcome)
		if err != nil {
			m.fail(err)
		}
		cmds = append(cmds, m.run(next))

	case tea.KeyMsg:
		if m.mode != browseMode {
			cmds = append(cmds, m.updateInput(msg))
			break
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.message = ""
		cmds = append(cmds, m.handleKey(msg))
	}

	if m.mode == browseMode && m.currentView == treeView {
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	e := m.explorer
	switch {
	case key.Matches(msg, m.keys.Tab):
		m.currentView = (m.currentView + 1) % 2
		if m.currentView == treeView {
			m.tree.Focus()
		} else {
			m.tree.Blur()
		}

	case key.Matches(msg, m.keys.Activate):
		if id := m.selectedID(); id != "" {
			return m.do(e.Activate(id))
		}

	case key.Matches(msg, m.keys.Label):
		if id := m.selectedID(); id != "" {
			if err := e.RightClick(id); err != nil {
				m.fail(err)
			}
		}

	case key.Matches(msg, m.keys.Next):
		return m.run(e.NextDisease())

	case key.Matches(msg, m.keys.Prev):
		return m.run(e.PrevDisease())

	case key.Matches(msg, m.keys.Close):
		e.ClosePanel()

	case key.Matches(msg, m.keys.Filter):
		m.startInput(filterMode, e.Filters(), "gene_name:==:a AND p:<:0.05")

	case key.Matches(msg, m.keys.Navigate):
		m.startInput(navigateMode, "", "disease name")

	case key.Matches(msg, m.keys.Clear):
		return m.run(e.ClearFilters())

	case key.Matches(msg, m.keys.Subtypes):
		return m.run(e.ToggleSubtypes())

	case key.Matches(msg, m.keys.ExpandAll):
		return m.do(e.ExpandAllCategories())

	case key.Matches(msg, m.keys.Associations):
		return m.run(e.ShowAssociations())

	case key.Matches(msg, m.keys.ShowAllele):
		return m.do(e.ShowAllDiseasesWithAllele())

	case key.Matches(msg, m.keys.Phenotype):
		if name := m.pairwiseValue("phewas_string"); name != "" {
			return m.do(e.FilterByPhenotype(name))
		}

	case key.Matches(msg, m.keys.OddsTable):
		m.mitigated = !m.mitigated

	case key.Matches(msg, m.keys.Row):
		i := int(msg.String()[0] - '1')
		p, ok := e.Panel()
		if !ok {
			break
		}
		if p.Kind == explorer.PanelCategory {
			return m.run(e.SelectPanelDisease(i))
		}
		name := explorer.TableMostAffected
		if m.mitigated {
			name = explorer.TableMostMitigated
		}
		return m.run(e.SelectOddsRow(name, i))

	case key.Matches(msg, m.keys.Cancel):
		if e.Navigating() {
			e.CancelNavigation()
		} else {
			e.DismissNotice()
		}

	case key.Matches(msg, m.keys.ScrollUp):
		m.panel.LineUp(1)

	case key.Matches(msg, m.keys.ScrollDown):
		m.panel.LineDown(1)

	case m.currentView == graphView:
		m.moveCamera(msg)
	}
	return nil
}

func (m *model) moveCamera(msg tea.KeyMsg) {
	const step = 40
	cam := m.explorer.Camera()
	switch {
	case key.Matches(msg, m.keys.ZoomIn):
		cam = cam.Zoom(0.8)
	case key.Matches(msg, m.keys.ZoomOut):
		cam = cam.Zoom(1.25)
	case key.Matches(msg, m.keys.Up):
		cam = cam.Pan(0, -step)
	case key.Matches(msg, m.keys.Down):
		cam = cam.Pan(0, step)
	case key.Matches(msg, m.keys.Left):
		cam = cam.Pan(-step, 0)
	case key.Matches(msg, m.keys.Right):
		cam = cam.Pan(step, 0)
	default:
		return
	}
	m.explorer.SetCamera(cam)
}

func (m *model) startInput(mode inputMode, value, placeholder string) {
	m.mode = mode
	m.tree.Blur()
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) stopInput() {
	m.mode = browseMode
	m.input.Blur()
	if m.currentView == treeView {
		m.tree.Focus()
	}
}

func (m *model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return nil
	case tea.KeyEnter:
		mode, value := m.mode, strings.TrimSpace(m.input.Value())
		m.stopInput()
		if mode == navigateMode {
			if value == "" {
				return nil
			}
			return m.run(m.explorer.NavigateToDisease(value))
		}
		return m.applyFilterString(value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// applyFilterString loads a typed filter string into the form and applies
// it.
func (m *model) applyFilterString(s string) tea.Cmd {
	fs, err := filter.Parse(s)
	if err != nil {
		m.fail(err)
		return nil
	}
	if err := m.explorer.Form().Load(fs); err != nil {
		m.fail(err)
		return nil
	}
	return m.run(m.explorer.ApplyFilters())
}

func (m *model) selectedID() string {
	i := m.tree.Cursor()
	if i < 0 || i >= len(m.rowIDs) {
		return ""
	}
	return m.rowIDs[i]
}

func (m *model) pairwiseValue(field string) string {
	p, ok := m.explorer.Panel()
	if !ok || p.Allele == nil {
		return ""
	}
	for _, r := range p.Allele.Pairwise {
		if r.Field == field {
			return r.Value
		}
	}
	return ""
}

func (m *model) resize() {
	bodyHeight := max(m.height-9, 5)
	panelWidth := max(m.width/3, 30)
	m.tree.SetHeight(bodyHeight - 2)
	m.tree.SetWidth(max(m.width-panelWidth-6, 20))
	m.panel.Width = panelWidth
	m.panel.Height = bodyHeight
	m.input.Width = max(m.width-8, 20)
}

// refresh rebuilds the tree rows, the hover highlight and the panel text
// from the explorer.
func (m *model) refresh() {
	s := m.explorer.Store()
	var rows []table.Row
	var ids []string

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, err := s.Node(id)
		if err != nil || n.Hidden {
			return
		}
		rows = append(rows, table.Row{
			strings.Repeat("  ", depth) + marker(m.explorer.State(id), n) + n.Label,
			string(n.Kind),
			stateText(m.explorer.State(id), n),
			labelText(n),
			detail(n),
		})
		ids = append(ids, id)
		for _, c := range s.OutNeighbors(id) {
			walk(c, depth+1)
		}
	}
	categories := s.NodesOfKind(graph.KindCategory)
	slices.SortFunc(categories, func(a, b graph.Node) int { return strings.Compare(a.Label, b.Label) })
	for _, c := range categories {
		walk(c.ID, 0)
	}

	m.rowIDs = ids
	m.tree.SetRows(rows)
	if c := m.tree.Cursor(); c >= len(rows) {
		m.tree.SetCursor(max(len(rows)-1, 0))
	}
	m.hover(m.selectedID())
	m.panel.SetContent(m.renderPanel())
}

// hover moves the hover highlight to the node under the cursor.
func (m *model) hover(id string) {
	if id == m.hovered {
		return
	}
	if m.hovered != "" && m.explorer.Store().Has(m.hovered) {
		_ = m.explorer.HoverOffNode(m.hovered)
	}
	m.hovered = id
	if id != "" {
		_ = m.explorer.HoverNode(id)
	}
}

func marker(st explorer.State, n graph.Node) string {
	if n.Kind == graph.KindAllele {
		return "• "
	}
	switch st {
	case explorer.Expanded:
		return "▾ "
	case explorer.Expanding:
		return "… "
	}
	return "▸ "
}

func stateText(st explorer.State, n graph.Node) string {
	if !n.Kind.Expandable() {
		return ""
	}
	return st.String()
}

func labelText(n graph.Node) string {
	switch {
	case n.UserForceLabel:
		return "U"
	case n.ForceLabel:
		return "*"
	}
	return ""
}

func detail(n graph.Node) string {
	switch n.Kind {
	case graph.KindDisease:
		return fmt.Sprintf("%d alleles", n.Disease.AlleleCount)
	case graph.KindAllele:
		return fmt.Sprintf("OR %.3g  p %.2g", n.Allele.OddsRatio, n.Allele.PValue)
	}
	return ""
}

func (m model) renderPanel() string {
	var s strings.Builder
	p, ok := m.explorer.Panel()
	if !ok {
		s.WriteString(helpStyle.Render("Select a category or an allele."))
		return s.String()
	}
	s.WriteString(panelTitleStyle.Render(p.Title))
	s.WriteString("\n\n")

	switch p.Kind {
	case explorer.PanelCategory:
		v := p.Category
		switch {
		case v.Loading:
			s.WriteString("Loading...")
		case v.Err != "":
			s.WriteString(errorStyle.Render(v.Err))
		default:
			for i, d := range v.Diseases {
				fmt.Fprintf(&s, "%2d. %s\n", i+1, d)
			}
		}

	case explorer.PanelAllele:
		m.renderAllele(&s, p.Allele)
	}

	if a, ok := m.explorer.Associations(); ok {
		s.WriteString("\n")
		s.WriteString(sectionStyle.Render("Combined associations: " + a.Disease))
		s.WriteString("\n")
		if a.Err != "" {
			s.WriteString(errorStyle.Render(a.Err))
		}
		for _, r := range a.Records {
			fmt.Fprintf(&s, "%s + %s  OR %.3g  p %.2g\n", r.Gene1, r.Gene2, r.CombinedOddsRatio, r.CombinedPValue)
		}
	}
	return s.String()
}

func (m model) renderAllele(s *strings.Builder, v *explorer.AlleleView) {
	if v.HasNavigation() {
		fmt.Fprintf(s, "Disease %d of %d  (n/p)\n\n", v.Index+1, len(v.DiseaseIDs))
	}
	switch {
	case v.PairwiseLoading:
		s.WriteString("Loading...\n")
	case v.PairwiseErr != "":
		s.WriteString(errorStyle.Render(v.PairwiseErr) + "\n")
	default:
		for _, r := range v.Pairwise {
			fmt.Fprintf(s, "%-16s %s\n", r.Field, r.Value)
		}
	}

	tables := []struct {
		title string
		rows  []explorer.OddsRow
		on    bool
	}{
		{explorer.TableMostAffected, v.TopOdds, !m.mitigated},
		{explorer.TableMostMitigated, v.LowestOdds, m.mitigated},
	}
	for _, t := range tables {
		s.WriteString("\n")
		title := t.title
		if t.on {
			title += " [1-9]"
		}
		s.WriteString(sectionStyle.Render(title) + "\n")
		switch {
		case v.OddsLoading:
			s.WriteString("Loading...\n")
		case v.OddsErr != "":
			s.WriteString(errorStyle.Render(v.OddsErr) + "\n")
		default:
			for i, r := range t.rows {
				fmt.Fprintf(s, "%d. %-24s OR %-6s p %s\n", i+1, r.Disease, r.OddsRatio, r.P)
			}
		}
	}
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("HLA PheWAS Explorer"))
	s.WriteString("  ")
	s.WriteString(m.renderTabs())
	s.WriteString("\n")
	s.WriteString(m.renderStatus())
	s.WriteString("\n")

	var left string
	if m.currentView == treeView {
		left = m.tree.View()
	} else {
		left = m.renderGraph(m.tree.Width(), m.tree.Height()+2)
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(left),
		paneStyle.Render(m.panel.View()),
	))
	s.WriteString("\n")

	if n, ok := m.explorer.Notice(); ok {
		switch n.Level {
		case explorer.NoticeError:
			s.WriteString(errorStyle.Render("✗ " + n.Text))
		case explorer.NoticeAlert:
			s.WriteString(alertStyle.Render(n.Text + "  (esc)"))
		default:
			s.WriteString(infoStyle.Render("✓ " + n.Text))
		}
		s.WriteString("\n")
	}
	if m.message != "" {
		s.WriteString(errorStyle.Render(m.message))
		s.WriteString("\n")
	}

	switch m.mode {
	case filterMode:
		s.WriteString("Filters: " + m.input.View() + "\n")
	case navigateMode:
		s.WriteString("Go to: " + m.input.View() + "\n")
	}

	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Tree", "Graph"}
	rendered := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if view(i) == m.currentView {
			rendered = append(rendered, activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderStatus() string {
	s := m.explorer.Store()
	filters := m.explorer.Filters()
	if filters == "" {
		filters = "none"
	}
	subtypes := "off"
	if m.explorer.ShowSubtypes() {
		subtypes = "on"
	}
	status := fmt.Sprintf("%d nodes  %d edges  filters: %s  subtypes: %s",
		s.Len(), s.EdgeCount(), filters, subtypes)
	if m.inflight > 0 {
		status += fmt.Sprintf("  loading (%d)", m.inflight)
	}
	if m.explorer.Navigating() {
		status += "  navigating"
	}
	return statusStyle.Render(status)
}

// renderGraph draws positioned nodes onto a character grid. Forced labels
// are written next to their node when there is room.
func (m model) renderGraph(cols, rows int) string {
	vp := visualization.Viewport{Cols: cols, Rows: rows, Extent: m.extent}
	cam := m.explorer.Camera()

	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = slices.Repeat([]string{" "}, cols)
	}

	for _, n := range m.explorer.Store().Nodes() {
		if n.Hidden {
			continue
		}
		col, row, ok := vp.Project(cam, n.Position)
		if !ok {
			continue
		}
		style := lipgloss.NewStyle().Foreground(terminalColor(n.Style.Color))
		grid[row][col] = style.Render(glyph(n.Kind))
		if !n.ForceLabel {
			continue
		}
		for i, r := range []rune(n.Label) {
			c := col + 2 + i
			if c >= cols {
				break
			}
			grid[row][c] = string(r)
		}
	}

	lines := make([]string, rows)
	for r, cells := range grid {
		lines[r] = strings.Join(cells, "")
	}
	return strings.Join(lines, "\n")
}

func glyph(k graph.Kind) string {
	switch k {
	case graph.KindCategory:
		return "◉"
	case graph.KindDisease:
		return "●"
	}
	return "•"
}

// terminalColor maps a node color to a terminal color. Only hex colors
// are passed through.
func terminalColor(c string) lipgloss.Color {
	if strings.HasPrefix(c, "#") {
		return lipgloss.Color(c)
	}
	return lipgloss.Color("#444444")
}
