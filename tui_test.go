package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestModel(t *testing.T) (Model, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	gw.put("docs", "a.txt", 10)
	gw.put("docs", "notes/b.txt", 20)
	gw.put("backup", "old.txt", 5)

	s := NewSession(gw, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))

	cfg := &Config{Theme: defaultThemeName, Region: "us-east-1"}
	m := NewModel(s, gw, cfg, zap.NewNop())
	m.width = 100
	m.height = 30
	return m, gw
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func TestBrowserNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "j")
	assert.Equal(t, 1, m.session.ActivePane().Cursor())
	m = press(t, m, "k")
	assert.Equal(t, 0, m.session.ActivePane().Cursor())

	m = press(t, m, "tab")
	assert.Same(t, m.session.RightPane(), m.session.ActivePane())
	m = press(t, m, "tab")
	assert.Same(t, m.session.LeftPane(), m.session.ActivePane())

	// Enter the docs bucket, descend into notes/, and come back out.
	m = press(t, m, "j", "enter")
	assert.Equal(t, "docs", m.session.ActivePane().Location().Bucket)
	m = press(t, m, "enter")
	assert.Equal(t, "notes/", m.session.ActivePane().Location().Prefix)
	m = press(t, m, "h", "h")
	assert.True(t, m.session.ActivePane().AtBucketLevel())
}

func TestBrowserSelectionKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "j", "enter") // into docs

	m = press(t, m, " ")
	assert.Equal(t, []string{"notes/"}, m.session.ActivePane().Selected())

	m = press(t, m, "*")
	assert.Len(t, m.session.ActivePane().Selected(), 2)

	m = press(t, m, "-")
	assert.Empty(t, m.session.ActivePane().Selected())
}

func TestBrowserBatchCopy(t *testing.T) {
	m, gw := newTestModel(t)

	m = press(t, m, "j", "enter") // left pane into docs
	m = press(t, m, "tab", "enter", "tab")

	m = press(t, m, "j", " ", "c") // select a.txt, copy
	assert.Equal(t, "copy: 1 succeeded", m.status)
	assert.False(t, m.statusErr)
	assert.Contains(t, gw.buckets["backup"], "a.txt")
}

func TestBrowserBatchGuidance(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "j", "enter", "c")
	assert.Contains(t, m.status, "nothing selected")
	assert.False(t, m.statusErr, "missing selection is guidance, not an error")
}

func TestBrowserBatchPartialFailure(t *testing.T) {
	m, gw := newTestModel(t)
	gw.failDelete["a.txt"] = errInjected

	m = press(t, m, "j", "enter")
	m = press(t, m, "tab", "enter", "tab")

	m = press(t, m, "j", " ", "x")
	assert.Contains(t, m.status, "0 succeeded, 1 failed")
	assert.True(t, m.statusErr)
	assert.Equal(t, []string{"a.txt"}, m.session.ActivePane().Selected(),
		"failed key stays selected")
}

func TestPromptNewFolder(t *testing.T) {
	m, gw := newTestModel(t)
	m = press(t, m, "j", "enter") // into docs

	m = press(t, m, "n")
	assert.Equal(t, ViewPrompt, m.viewMode)

	m = press(t, m, "drafts", "enter")
	assert.Equal(t, ViewBrowser, m.viewMode)
	assert.Contains(t, gw.buckets["docs"], "drafts/")

	var names []string
	for _, e := range m.session.ActivePane().Entries() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "drafts")
}

func TestPromptEscCancels(t *testing.T) {
	m, gw := newTestModel(t)
	m = press(t, m, "j", "enter", "n", "drafts", "esc")
	assert.Equal(t, ViewBrowser, m.viewMode)
	assert.NotContains(t, gw.buckets["docs"], "drafts/")
}

func TestPromptNewBucketAtBucketLevel(t *testing.T) {
	m, gw := newTestModel(t)

	// F7 at the bucket listing creates a bucket, not a folder.
	m = press(t, m, "n", "archive", "enter")
	assert.Contains(t, gw.buckets, "archive")
	assert.Len(t, m.session.LeftPane().Entries(), 3, "both panes pick up the new bucket")
	assert.Len(t, m.session.RightPane().Entries(), 3)
}

func TestPromptRename(t *testing.T) {
	m, gw := newTestModel(t)
	m = press(t, m, "j", "enter", "j") // docs, cursor on a.txt

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyF2})
	m = next.(Model)
	require.Equal(t, ViewPrompt, m.viewMode)

	m = press(t, m, "renamed.txt", "enter")
	assert.Contains(t, gw.buckets["docs"], "renamed.txt")
	assert.NotContains(t, gw.buckets["docs"], "a.txt")
}

func TestPromptFilter(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "j", "enter", "/", "txt", "enter")

	entries := m.session.ActivePane().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Contains(t, m.status, "1 entries match")
}

func TestPreview(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "j", "enter", "j", "enter") // open a.txt

	assert.Equal(t, ViewPreview, m.viewMode)
	assert.Equal(t, "a.txt", m.previewName)
	assert.Contains(t, m.View(), "xxxxxxxxxx")

	m = press(t, m, "esc")
	assert.Equal(t, ViewBrowser, m.viewMode)
	assert.Nil(t, m.previewLines)
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "?")
	assert.Equal(t, ViewHelp, m.viewMode)
	assert.Contains(t, m.View(), "Switch panes")
	m = press(t, m, "esc")
	assert.Equal(t, ViewBrowser, m.viewMode)
}

func TestViewRendersPanes(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "s3cmdr")
	assert.Contains(t, out, "(buckets)")
	assert.Contains(t, out, "docs")
	assert.Contains(t, out, "backup")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hell…", truncate("hello!", 5))
	assert.Equal(t, "", truncate("hello", 0))
	assert.Equal(t, "héll…", truncate("héllo world", 5), "rune-safe cut")
}
