// Package explorer provides the Bubble Tea cryptanalysis explorer.
package explorer

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cipherlab/internal/analysis"
	"github.com/verte-zerg/cipherlab/internal/model"
	"github.com/verte-zerg/cipherlab/internal/report"
	"github.com/verte-zerg/cipherlab/internal/store"
	"github.com/verte-zerg/cipherlab/internal/textio"
)

const (
	tabCaesar = iota
	tabFrequency
	tabKasiski
	tabHistory
)

const (
	historyLimit     = 200
	defaultWidth     = 80
	historyTimeStamp = "2006-01-02 15:04"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea explorer.
type Model struct {
	store *store.Store
	cfg   model.Config

	text   string
	result analysis.Result
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	contents  []string

	history       []model.AnalysisSummary
	historyTable  table.Model
	historyLayout tableLayout
	historyDetail bool

	width  int
	height int

	inputMode bool
	input     textinput.Model
}

type tableLayout struct {
	width  int
	height int
}

// NewModel constructs an explorer over text. st may be nil, which disables
// the history tab and saving.
func NewModel(st *store.Store, cfg model.Config, text string) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Caesar", "Frequency", "Kasiski", "History"},
	}
	m.initInput()
	m.initViewports()
	m.historyTable = buildHistoryTable(nil, defaultWidth, 1)
	m.refreshHistory()
	if strings.TrimSpace(text) != "" {
		m.run(text)
	} else {
		m.renderTabContents()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.inputMode {
			return m.updateInput(msg)
		}
		if m.activeTab == tabHistory {
			m.historyTable.Focus()
		} else {
			m.historyTable.Blur()
		}
		if m.activeTab == tabHistory && m.historyDetail && msg.Type == tea.KeyEsc {
			m.historyDetail = false
			return m, nil
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startInput()
		case "r":
			if m.activeTab == tabHistory {
				m.refreshHistory()
			}
			return m, nil
		case "enter":
			if m.activeTab == tabHistory && !m.historyDetail {
				m.openSelectedAnalysis()
			}
			return m, nil
		case "g", "home":
			if m.usesTable() {
				m.historyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.usesTable() {
				m.historyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.usesTable() {
				var cmd tea.Cmd
				m.historyTable, cmd = m.historyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) usesTable() bool {
	return m.activeTab == tabHistory && !m.historyDetail
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	m.contents = make([]string, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInput() {
	input := textinput.New()
	input.Prompt = "Ciphertext: "
	input.Placeholder = "paste or type the text to analyze"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	m.input = input
}

func (m *Model) analysisOptions() analysis.Options {
	return analysis.Options{
		Lang:               m.cfg.Lang,
		MinLength:          m.cfg.MinLength,
		DistinctDistances:  m.cfg.DistinctDistances,
		Hypotheses:         m.cfg.Hypotheses,
		MaxRepetitionInput: m.cfg.MaxKasiskiInput,
	}
}

// run analyzes text, saves the run when history is enabled and refreshes
// every tab.
func (m *Model) run(text string) {
	m.text = text
	m.result = analysis.Analyze(text, m.analysisOptions())
	m.errMsg = ""
	if err := m.save(); err != nil {
		m.errMsg = err.Error()
	}
	m.refreshHistory()
	m.renderTabContents()
}

func (m *Model) save() error {
	if m.store == nil || !m.cfg.SaveHistory || m.result.Signal == "" {
		return nil
	}
	ctx := context.Background()
	res := m.result
	type entry struct {
		rec      model.AnalysisRecord
		findings []model.Finding
	}
	entries := []entry{
		{
			rec:      report.NewRecord(model.KindCaesar, "", m.text, report.CaesarSummary(res.Caesar)),
			findings: report.CaesarFindings(res.Caesar),
		},
		{
			rec:      report.NewRecord(model.KindFrequency, res.Reference.Lang, m.text, report.FrequencySummary(res.Frequencies, res.Hypotheses)),
			findings: report.FrequencyFindings(res.Frequencies, res.Hypotheses),
		},
	}
	if !res.RepetitionsSkipped {
		entries = append(entries, entry{
			rec:      report.NewRecord(model.KindKasiski, "", m.text, report.KasiskiSummary(res.Repetitions, res.KeyLengths)),
			findings: report.KasiskiFindings(res.KeyLengths),
		})
	}
	for _, e := range entries {
		if _, err := m.store.InsertAnalysis(ctx, e.rec, e.findings); err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
	}
	return nil
}

func (m *Model) refreshHistory() {
	if m.store == nil {
		return
	}
	analyses, err := m.store.ListAnalyses(context.Background(), model.HistoryConfig{Last: historyLimit})
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	// Newest first.
	for i, j := 0, len(analyses)-1; i < j; i, j = i+1, j-1 {
		analyses[i], analyses[j] = analyses[j], analyses[i]
	}
	m.history = analyses
	m.historyTable.SetRows(historyRows(analyses))
}

func (m *Model) openSelectedAnalysis() {
	row := m.historyTable.SelectedRow()
	if m.store == nil || len(row) == 0 {
		return
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		m.errMsg = fmt.Sprintf("invalid analysis id %q", row[0])
		return
	}
	a, findings, err := m.store.GetAnalysis(context.Background(), id)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	var buf bytes.Buffer
	if err := report.RenderAnalysis(&buf, a, findings, m.reportOptions()); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.setContent(tabHistory, strings.TrimRight(buf.String(), "\n"))
	m.viewports[tabHistory].GotoTop()
	m.historyDetail = true
}

func (m *Model) reportOptions() report.Options {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	return report.Options{Width: width, Top: m.cfg.Top, Color: true}
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.text == "" {
		for _, tab := range []int{tabCaesar, tabFrequency, tabKasiski} {
			m.setContent(tab, "No ciphertext yet. Press / to enter one.")
		}
		return
	}
	opts := m.reportOptions()
	res := m.result
	m.setContent(tabCaesar, renderWith(func(buf *bytes.Buffer) error {
		return report.RenderCaesar(buf, res.Caesar, opts)
	}))
	m.setContent(tabFrequency, renderWith(func(buf *bytes.Buffer) error {
		return report.RenderFrequencies(buf, m.text, res.Frequencies, res.Reference, res.Hypotheses, opts)
	}))
	if res.RepetitionsSkipped {
		m.setContent(tabKasiski, fmt.Sprintf("Input has %d letters, above max-kasiski-input (%d). Kasiski examination skipped.",
			len([]rune(res.Signal)), m.cfg.MaxKasiskiInput))
		return
	}
	m.setContent(tabKasiski, renderWith(func(buf *bytes.Buffer) error {
		return report.RenderKasiski(buf, res.Repetitions, res.KeyLengths, report.KasiskiOptions{Options: opts})
	}))
}

func renderWith(render func(buf *bytes.Buffer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Sprintf("Failed to render: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) setContent(tab int, content string) {
	m.contents[tab] = content
	m.viewports[tab].SetContent(content)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.inputMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setHistoryTableSize(m.width, vpHeight)
	promptWidth := lipgloss.Width(m.input.Prompt)
	m.input.Width = max(10, m.width-promptWidth-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.historyTable.Focus()
	} else {
		m.historyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	settings := padLines(m.renderSettings(), m.width)
	return tabs + "\n" + settings
}

func (m *Model) renderSettings() string {
	input := "(none)"
	if m.text != "" {
		input = fmt.Sprintf("%d letters", len([]rune(m.result.Signal)))
	}
	lang := m.result.Reference.Lang
	if lang == "" {
		lang = m.cfg.Lang
	}
	votes := "per-occurrence"
	if m.cfg.DistinctDistances {
		votes = "distinct"
	}
	summary := fmt.Sprintf("Input: %s  lang=%s  min-length=%d  votes=%s", input, lang, m.cfg.MinLength, votes)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Ciphertext: /  Quit: q"
	if m.activeTab == tabHistory {
		help = "Nav: left/right  Select: up/down  Open: enter  Reload: r  Ciphertext: /  Quit: q"
		if m.historyDetail {
			help = "Back: esc  Scroll: up/down/pgup/pgdn  Quit: q"
		}
	}
	return headerStyle.Render(help)
}

func (m *Model) renderInputHelp() string {
	return headerStyle.Render("enter: analyze  esc: cancel  ctrl+c: quit")
}

func (m *Model) renderFooter() string {
	if m.inputMode {
		return m.renderInputHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderInputForm() string {
	lines := []string{
		titleStyle.Render("Ciphertext (enter to analyze, esc to cancel)"),
		m.input.View(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.inputMode {
		return fitLines(m.renderInputForm(), m.width, height)
	}
	if m.activeTab == tabHistory {
		switch {
		case m.store == nil:
			return fitLines("History is disabled.", m.width, height)
		case m.historyDetail:
			return fitLines(m.viewports[tabHistory].View(), m.width, height)
		case len(m.history) == 0:
			return fitLines("No analyses found.", m.width, height)
		default:
			return fitLines(tableMutedStyle.Render(m.historyTable.View()), m.width, height)
		}
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) startInput() (tea.Model, tea.Cmd) {
	m.inputMode = true
	m.input.SetValue(m.text)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.inputMode = false
		m.input.Blur()
		m.run(textio.Normalize(m.input.Value()))
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func historyColumns(width int) []table.Column {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "When", Width: 16},
		{Title: "Kind", Width: 9},
		{Title: "Letters", Width: 7},
		{Title: "Summary", Width: 20},
	}
	used := 0
	for _, c := range columns[:len(columns)-1] {
		used += c.Width + 1
	}
	columns[len(columns)-1].Width = max(20, width-used-1)
	return columns
}

func historyRows(analyses []model.AnalysisSummary) []table.Row {
	rows := make([]table.Row, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, table.Row{
			strconv.FormatInt(a.ID, 10),
			a.CreatedAt.Local().Format(historyTimeStamp),
			string(a.Kind),
			strconv.Itoa(a.InputLetters),
			a.Summary,
		})
	}
	return rows
}

func buildHistoryTable(analyses []model.AnalysisSummary, width, height int) table.Model {
	t := table.New(
		table.WithColumns(historyColumns(width)),
		table.WithRows(historyRows(analyses)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(historyTableStyles())
	return t
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) setHistoryTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.historyLayout.width == width && m.historyLayout.height == viewportHeight {
		return
	}
	m.historyLayout.width = width
	m.historyLayout.height = viewportHeight
	m.historyTable.SetColumns(historyColumns(width))
	m.historyTable.SetWidth(width)
	m.historyTable.SetHeight(viewportHeight)
	// The header border takes rows the table does not account for.
	if viewHeight := lipgloss.Height(m.historyTable.View()); viewHeight > height {
		m.historyTable.SetHeight(max(1, viewportHeight-(viewHeight-height)))
	}
}
