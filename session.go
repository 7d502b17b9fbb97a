package main

import (
	"context"

	"go.uber.org/zap"
)

// Session owns the two panes and dispatches user intents: navigation
// and selection go to the active pane, batch operations to the engine
// with the active pane as source and the other as destination. It keeps
// no state of its own beyond which pane is active.
type Session struct {
	gw        Gateway
	log       *zap.Logger
	panes     [2]*Pane
	activeIdx int
}

func NewSession(gw Gateway, log *zap.Logger) *Session {
	s := &Session{gw: gw, log: log}
	s.panes[0] = NewPane()
	s.panes[1] = NewPane()
	s.panes[0].active = true
	return s
}

// Start loads the bucket listing into both panes.
func (s *Session) Start(ctx context.Context) error {
	for _, p := range s.panes {
		if err := p.Reload(ctx, s.gw); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) ActivePane() *Pane   { return s.panes[s.activeIdx] }
func (s *Session) InactivePane() *Pane { return s.panes[1-s.activeIdx] }
func (s *Session) LeftPane() *Pane     { return s.panes[0] }
func (s *Session) RightPane() *Pane    { return s.panes[1] }

// SwitchActive toggles which pane receives intents. No other state
// changes.
func (s *Session) SwitchActive() {
	s.panes[s.activeIdx].active = false
	s.activeIdx = 1 - s.activeIdx
	s.panes[s.activeIdx].active = true
}

func (s *Session) MoveCursor(delta int) {
	s.ActivePane().MoveCursor(delta)
}

// EnterCurrent descends into the bucket or folder under the active
// pane's cursor. File entries are left to the caller (the UI previews
// them); the returned entry tells it what was under the cursor.
func (s *Session) EnterCurrent(ctx context.Context) (Entry, error) {
	pane := s.ActivePane()
	entry, ok := pane.CurrentEntry()
	if !ok {
		return Entry{}, nil
	}
	switch entry.Kind {
	case KindBucket:
		return entry, pane.EnterBucket(ctx, s.gw, entry.Name)
	case KindFolder:
		return entry, pane.EnterFolder(ctx, s.gw, entry)
	case KindFile:
		return entry, nil
	}
	return entry, nil
}

func (s *Session) GoUp(ctx context.Context) error {
	return s.ActivePane().GoUp(ctx, s.gw)
}

func (s *Session) ToggleSelection() {
	s.ActivePane().ToggleSelection()
}

func (s *Session) SelectAll() {
	s.ActivePane().SelectAll()
}

func (s *Session) ClearSelection() {
	s.ActivePane().ClearSelection()
}

func (s *Session) ReloadActive(ctx context.Context) error {
	return s.ActivePane().Reload(ctx, s.gw)
}

func (s *Session) ReloadBoth(ctx context.Context) error {
	for _, p := range s.panes {
		if err := p.Reload(ctx, s.gw); err != nil {
			return err
		}
	}
	return nil
}

// RunBatch applies op to the active pane's selection, targeting the
// other pane's location for copy and move.
func (s *Session) RunBatch(ctx context.Context, op BatchOp) (*BatchResult, error) {
	return runBatch(ctx, s.gw, s.ActivePane(), s.InactivePane(), op, s.log)
}
