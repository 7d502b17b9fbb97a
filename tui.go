package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// previewMaxSize caps in-memory fetches for the file viewer.
const previewMaxSize = 1 << 20

// ViewMode represents the current view mode
type ViewMode int

const (
	ViewBrowser ViewMode = iota
	ViewPreview
	ViewHelp
	ViewPrompt
)

// promptKind says what the command-bar input is asking for.
type promptKind int

const (
	promptNewFolder promptKind = iota
	promptRename
	promptNewBucket
	promptDeleteBucket
	promptUpload
	promptFilter
)

// Model represents the application state. One user intent is processed
// to completion per Update call; gateway calls run synchronously inside
// the intent, so no two operations ever interleave.
type Model struct {
	session *Session
	gw      Gateway
	cfg     *Config
	log     *zap.Logger
	theme   Theme

	viewMode ViewMode

	prompt    promptKind
	input     textinput.Model
	renameKey string

	previewName   string
	previewLines  []string
	previewScroll int

	status    string
	statusErr bool

	width  int
	height int
}

// NewModel creates the TUI model around an already started session.
func NewModel(session *Session, gw Gateway, cfg *Config, log *zap.Logger) Model {
	input := textinput.New()
	input.CharLimit = 512
	return Model{
		session:  session,
		gw:       gw,
		cfg:      cfg,
		log:      log,
		theme:    themeByName(cfg.Theme),
		viewMode: ViewBrowser,
		input:    input,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case ViewBrowser:
			return m.updateBrowser(msg)
		case ViewPreview:
			return m.updatePreview(msg)
		case ViewHelp:
			return m.updateHelp(msg)
		case ViewPrompt:
			return m.updatePrompt(msg)
		}
	}

	return m, nil
}

func (m Model) ok(format string, args ...any) Model {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
	return m
}

func (m Model) fail(err error) Model {
	m.status = err.Error()
	m.statusErr = true
	m.log.Error("operation failed", zap.Error(err))
	return m
}

// updateBrowser handles browser view updates
func (m Model) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	pane := m.session.ActivePane()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.session.SwitchActive()

	case "up", "k":
		m.session.MoveCursor(-1)

	case "down", "j":
		m.session.MoveCursor(1)

	case "enter", "l", "right":
		entry, err := m.session.EnterCurrent(ctx)
		if err != nil {
			return m.fail(err), nil
		}
		if entry.Kind == KindFile {
			return m.openPreview(ctx, entry), nil
		}
		m.status = ""

	case "backspace", "h", "left":
		if err := m.session.GoUp(ctx); err != nil {
			return m.fail(err), nil
		}
		m.status = ""

	case " ":
		m.session.ToggleSelection()

	case "*":
		m.session.SelectAll()

	case "-":
		m.session.ClearSelection()

	case "r":
		if err := m.session.ReloadActive(ctx); err != nil {
			return m.fail(err), nil
		}
		m = m.ok("refreshed %s", pane.Location())

	case "f5", "c":
		return m.runBatch(ctx, OpCopy), nil

	case "f6", "m":
		return m.runBatch(ctx, OpMove), nil

	case "f8", "x":
		return m.runBatch(ctx, OpDelete), nil

	case "f7", "n":
		if pane.AtBucketLevel() {
			return m.openPrompt(promptNewBucket, "New bucket name: "), nil
		}
		return m.openPrompt(promptNewFolder, "New folder name: "), nil

	case "f2":
		entry, okEntry := pane.CurrentEntry()
		if !okEntry || entry.Kind != KindFile {
			return m.ok("select a file to rename"), nil
		}
		m.renameKey = entry.Key
		return m.openPrompt(promptRename, fmt.Sprintf("Rename %q to: ", entry.Name)), nil

	case "d":
		return m.downloadCurrent(ctx), nil

	case "u":
		if pane.AtBucketLevel() {
			return m.ok("enter a bucket before uploading"), nil
		}
		return m.openPrompt(promptUpload, "Local file to upload: "), nil

	case "D":
		if !pane.AtBucketLevel() {
			return m.ok("go to the bucket list to delete a bucket"), nil
		}
		return m.openPrompt(promptDeleteBucket, "Bucket to delete: "), nil

	case "/":
		return m.openPrompt(promptFilter, "Filter: "), nil

	case "t":
		m.theme = nextTheme(m.theme.Name)
		if err := m.cfg.SaveTheme(m.theme.Name); err != nil {
			m.log.Error("failed to persist theme", zap.Error(err))
		}
		m = m.ok("theme: %s", m.theme.Name)

	case "?", "f1":
		m.viewMode = ViewHelp
	}

	return m, nil
}

func (m Model) openPrompt(kind promptKind, prompt string) Model {
	m.prompt = kind
	m.input.Prompt = prompt
	m.input.SetValue("")
	m.input.Focus()
	m.viewMode = ViewPrompt
	return m
}

// updatePrompt handles command-bar input
func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.viewMode = ViewBrowser
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.viewMode = ViewBrowser
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		return m.applyPrompt(context.Background(), value), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) applyPrompt(ctx context.Context, value string) Model {
	pane := m.session.ActivePane()
	loc := pane.Location()

	switch m.prompt {
	case promptNewFolder:
		// A zero-byte marker object makes the empty folder visible.
		key := loc.Prefix + value + delimiter
		if err := m.gw.PutObjectBytes(ctx, loc.Bucket, key, nil); err != nil {
			return m.fail(err)
		}
		if err := pane.Reload(ctx, m.gw); err != nil {
			return m.fail(err)
		}
		return m.ok("created folder %s", value)

	case promptRename:
		// Copy-then-delete; not atomic. If the delete fails the
		// duplicate stays behind and the status message says so.
		newKey := loc.Prefix + value
		if err := m.gw.CopyObject(ctx, loc.Bucket, m.renameKey, loc.Bucket, newKey); err != nil {
			return m.fail(err)
		}
		if err := m.gw.DeleteObject(ctx, loc.Bucket, m.renameKey); err != nil {
			return m.fail(fmt.Errorf("renamed, but old copy remains: %w", err))
		}
		if err := pane.Reload(ctx, m.gw); err != nil {
			return m.fail(err)
		}
		return m.ok("renamed to %s", value)

	case promptNewBucket:
		if err := m.gw.CreateBucket(ctx, value, m.cfg.Region); err != nil {
			return m.fail(err)
		}
		if err := m.session.ReloadBoth(ctx); err != nil {
			return m.fail(err)
		}
		return m.ok("created bucket %s", value)

	case promptDeleteBucket:
		if err := m.gw.DeleteBucket(ctx, value); err != nil {
			return m.fail(err)
		}
		if err := m.session.ReloadBoth(ctx); err != nil {
			return m.fail(err)
		}
		return m.ok("deleted bucket %s", value)

	case promptUpload:
		key := loc.Prefix + filepath.Base(value)
		if err := m.gw.UploadFromLocal(ctx, value, loc.Bucket, key); err != nil {
			return m.fail(err)
		}
		if err := pane.Reload(ctx, m.gw); err != nil {
			return m.fail(err)
		}
		return m.ok("uploaded %s", key)

	case promptFilter:
		n := pane.Filter(value)
		return m.ok("%d entries match %q", n, value)
	}
	return m
}

func (m Model) runBatch(ctx context.Context, op BatchOp) Model {
	res, err := m.session.RunBatch(ctx, op)
	if err != nil {
		// Preconditions are guidance, not faults.
		if errors.Is(err, ErrNoSelection) || errors.Is(err, ErrNotInBucket) || errors.Is(err, ErrNoDestination) {
			return m.ok("%s: %v", op, err)
		}
		return m.fail(err)
	}

	if len(res.Failed) == 0 {
		return m.ok("%s: %d succeeded", op, len(res.Succeeded))
	}
	first := res.Failed[0]
	m = m.ok("%s: %d succeeded, %d failed (%s: %v)",
		op, len(res.Succeeded), len(res.Failed), first.Key, first.Err)
	m.statusErr = true
	return m
}

func (m Model) downloadCurrent(ctx context.Context) Model {
	pane := m.session.ActivePane()
	entry, ok := pane.CurrentEntry()
	if !ok || entry.Kind != KindFile {
		return m.ok("select a file to download")
	}
	path := entry.Name
	if err := m.gw.DownloadToLocal(ctx, pane.Location().Bucket, entry.Key, path); err != nil {
		return m.fail(err)
	}
	return m.ok("downloaded %s", path)
}

func (m Model) openPreview(ctx context.Context, entry Entry) Model {
	bucket := m.session.ActivePane().Location().Bucket
	data, err := m.gw.GetObjectBytes(ctx, bucket, entry.Key, previewMaxSize)
	if err != nil {
		return m.fail(err)
	}

	content := string(data)
	if !utf8.Valid(data) {
		content = "[Binary file - cannot preview]"
	}
	m.previewName = entry.Name
	m.previewLines = strings.Split(content, "\n")
	m.previewScroll = 0
	m.viewMode = ViewPreview
	m.status = ""
	return m
}

// updatePreview handles preview view updates
func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxScroll := len(m.previewLines) - (m.height - 8)
	if maxScroll < 0 {
		maxScroll = 0
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace", "h", "left":
		m.viewMode = ViewBrowser
		m.previewLines = nil
		m.previewName = ""
		m.previewScroll = 0
	case "up", "k":
		if m.previewScroll > 0 {
			m.previewScroll--
		}
	case "down", "j":
		if m.previewScroll < maxScroll {
			m.previewScroll++
		}
	case "pgup":
		m.previewScroll -= 10
		if m.previewScroll < 0 {
			m.previewScroll = 0
		}
	case "pgdown":
		m.previewScroll += 10
		if m.previewScroll > maxScroll {
			m.previewScroll = maxScroll
		}
	case "g", "home":
		m.previewScroll = 0
	case "G", "end":
		m.previewScroll = maxScroll
	}
	return m, nil
}

// updateHelp handles help view updates
func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "?":
		m.viewMode = ViewBrowser
	}
	return m, nil
}

// View renders the current view
func (m Model) View() string {
	switch m.viewMode {
	case ViewBrowser, ViewPrompt:
		return m.viewBrowser()
	case ViewPreview:
		return m.viewPreview()
	case ViewHelp:
		return m.viewHelp()
	}
	return ""
}

func (m Model) paneDimensions() (width, height int) {
	width = (m.width - 6) / 2
	if width < 30 {
		width = 30
	}
	height = m.height - 7
	if height < 5 {
		height = 5
	}
	return width, height
}

// viewBrowser renders the two panes side by side with the status and
// command bars below.
func (m Model) viewBrowser() string {
	var s strings.Builder

	s.WriteString(m.theme.Title.Render("s3cmdr"))
	s.WriteString("\n")

	paneWidth, paneHeight := m.paneDimensions()
	left := m.renderPane(m.session.LeftPane(), paneWidth, paneHeight)
	right := m.renderPane(m.session.RightPane(), paneWidth, paneHeight)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	s.WriteString("\n")

	if m.viewMode == ViewPrompt {
		s.WriteString(m.input.View())
	} else if m.statusErr {
		s.WriteString(m.theme.Error.Render(m.status))
	} else if m.status != "" {
		s.WriteString(m.theme.Success.Render(m.status))
	}
	s.WriteString("\n")

	s.WriteString(m.theme.Help.Render(
		"tab: pane • space: select • */-: all/none • F5/c: copy • F6/m: move • F8/x: delete • F7/n: new • F2: rename • d/u: down/upload • /: filter • t: theme • ?: help • q: quit"))

	return s.String()
}

func (m Model) renderPane(p *Pane, width, height int) string {
	var rows []string

	title := p.Location().String()
	rows = append(rows, m.theme.Title.Render(truncate(title, width-2)))

	entries := p.Entries()
	offset := 0
	if p.Cursor() >= height {
		offset = p.Cursor() - height + 1
	}

	for i := offset; i < len(entries) && i-offset < height; i++ {
		rows = append(rows, m.renderEntry(p, entries[i], i, width))
	}
	if len(entries) == 0 {
		rows = append(rows, m.theme.Help.Render("(empty)"))
	}

	border := m.theme.PaneBorder
	if p.Active() {
		border = m.theme.ActivePane
	}
	return border.Width(width).Height(height + 1).Render(strings.Join(rows, "\n"))
}

func (m Model) renderEntry(p *Pane, e Entry, idx, width int) string {
	marker := "  "
	if p.IsSelected(e.SelectionKey()) {
		marker = " *"
	}
	if idx == p.Cursor() && p.Active() {
		marker = ">" + marker[1:]
	}

	var name string
	var style lipgloss.Style
	switch e.Kind {
	case KindBucket:
		name = e.Name
		style = m.theme.Bucket
	case KindFolder:
		name = e.Name + delimiter
		style = m.theme.Folder
	case KindFile:
		name = e.Name
		style = m.theme.File
	}

	detail := ""
	if e.Kind == KindFile {
		detail = fmt.Sprintf(" %8s  %s", humanize.IBytes(uint64(e.Size)), e.Modified.Format("2006-01-02 15:04"))
	}

	avail := width - 4 - len(detail)
	if avail < 8 {
		avail = 8
	}
	line := marker + " " + style.Render(truncate(name, avail)) + detail

	if idx == p.Cursor() && p.Active() {
		return m.theme.CursorLine.Render(line)
	}
	if p.IsSelected(e.SelectionKey()) {
		return m.theme.Selected.Render(line)
	}
	return line
}

// viewPreview renders the file preview view
func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(m.theme.Title.Render("Preview: " + m.previewName))
	s.WriteString("\n\n")

	visible := m.height - 8
	if visible < 1 {
		visible = 10
	}

	total := len(m.previewLines)
	start := m.previewScroll
	end := start + visible
	if end > total {
		end = total
	}

	if total == 0 {
		s.WriteString("[Empty file]\n")
	} else {
		for i := start; i < end; i++ {
			s.WriteString(fmt.Sprintf("%4d │ %s\n", i+1, m.previewLines[i]))
		}
		if total > visible {
			s.WriteString(m.theme.Help.Render(
				fmt.Sprintf("\n[lines %d-%d of %d]", start+1, end, total)))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(m.theme.Help.Render("↑/k,↓/j: scroll • pgup/pgdown: page • g/G: top/bottom • esc: back • q: quit"))
	return s.String()
}

// viewHelp renders the help view
func (m Model) viewHelp() string {
	var s strings.Builder

	s.WriteString(m.theme.Title.Render("s3cmdr - Help"))
	s.WriteString("\n\n")

	s.WriteString(`Navigation:
  ↑/k ↓/j       Move cursor
  Tab           Switch panes
  Enter/l       Enter bucket/folder, preview file
  Backspace/h   Go up one level
  r             Refresh active pane (keeps selection)

Selection:
  Space         Toggle selection
  *             Select all listed entries
  -             Clear selection

Operations (selection in active pane, target = other pane):
  F5/c          Copy selected objects
  F6/m          Move selected objects (copy, then delete)
  F8/x          Delete selected objects
  F7/n          New folder (or new bucket at the bucket list)
  F2            Rename file under cursor
  d             Download file under cursor to current directory
  u             Upload a local file into the current location
  D             Delete a bucket (at the bucket list)

Other:
  /             Filter entries in the active pane
  t             Cycle color theme
  ?/F1          This help
  q/Esc         Quit

Folders are prefix groupings; copying a selected folder copies its
marker object only, not its contents.
`)

	s.WriteString("\n")
	s.WriteString(m.theme.Help.Render("esc/?: back • q: quit"))
	return s.String()
}

// truncate shortens s to max runes, with an ellipsis when it cuts.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
