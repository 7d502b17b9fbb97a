package main

import (
	"context"
	"fmt"
	"strings"
)

// Location is a pane's position in the key space. An empty bucket means
// the pane is at the bucket-selection level. A non-empty prefix always
// ends with the delimiter.
type Location struct {
	Bucket string
	Prefix string
}

func (l Location) String() string {
	if l.Bucket == "" {
		return "(buckets)"
	}
	return l.Bucket + delimiter + l.Prefix
}

// parentPrefix pops one path segment off prefix: "a/b/" -> "a/", "a/" -> "".
func parentPrefix(prefix string) string {
	p := strings.TrimSuffix(prefix, delimiter)
	if i := strings.LastIndex(p, delimiter); i >= 0 {
		return p[:i+1]
	}
	return ""
}

// Pane is one of the two navigation contexts of the dual-pane layout:
// a location, the entries listed there, a cursor, and a selection.
//
// The entries slice is replaced wholesale on every navigation or reload;
// the selection is an independently owned, insertion-ordered set of keys,
// joined to entries only by key lookup. Every location-changing
// transition clears the selection; a plain reload does not, so a
// selection survives a refresh-and-retry as long as the location is
// stable.
type Pane struct {
	loc      Location
	entries  []Entry
	cursor   int
	selected []string
	selSet   map[string]struct{}
	active   bool
}

func NewPane() *Pane {
	return &Pane{selSet: make(map[string]struct{})}
}

func (p *Pane) Location() Location { return p.loc }
func (p *Pane) Entries() []Entry   { return p.entries }
func (p *Pane) Cursor() int        { return p.cursor }
func (p *Pane) Active() bool       { return p.active }

// AtBucketLevel reports whether the pane is in bucket-selection mode.
func (p *Pane) AtBucketLevel() bool { return p.loc.Bucket == "" }

// CurrentEntry returns the entry under the cursor.
func (p *Pane) CurrentEntry() (Entry, bool) {
	if len(p.entries) == 0 {
		return Entry{}, false
	}
	return p.entries[p.cursor], true
}

// Selected returns the selected keys in selection order.
func (p *Pane) Selected() []string {
	out := make([]string, len(p.selected))
	copy(out, p.selected)
	return out
}

func (p *Pane) IsSelected(key string) bool {
	_, ok := p.selSet[key]
	return ok
}

// MoveCursor clamps the cursor into the entry range. No-op when the
// pane is empty. Never touches the selection.
func (p *Pane) MoveCursor(delta int) {
	if len(p.entries) == 0 {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor > len(p.entries)-1 {
		p.cursor = len(p.entries) - 1
	}
}

// ToggleSelection flips the selection state of the entry under the
// cursor, keyed by object key (or name for buckets).
func (p *Pane) ToggleSelection() {
	entry, ok := p.CurrentEntry()
	if !ok {
		return
	}
	key := entry.SelectionKey()
	if p.IsSelected(key) {
		p.removeSelection(key)
	} else {
		p.addSelection(key)
	}
}

// SelectAll selects every currently listed entry.
func (p *Pane) SelectAll() {
	p.ClearSelection()
	for _, e := range p.entries {
		p.addSelection(e.SelectionKey())
	}
}

func (p *Pane) ClearSelection() {
	p.selected = p.selected[:0]
	p.selSet = make(map[string]struct{})
}

func (p *Pane) addSelection(key string) {
	if p.IsSelected(key) {
		return
	}
	p.selected = append(p.selected, key)
	p.selSet[key] = struct{}{}
}

func (p *Pane) removeSelection(key string) {
	if !p.IsSelected(key) {
		return
	}
	delete(p.selSet, key)
	for i, k := range p.selected {
		if k == key {
			p.selected = append(p.selected[:i], p.selected[i+1:]...)
			break
		}
	}
}

// EnterBucket moves the pane from bucket selection into a bucket root.
func (p *Pane) EnterBucket(ctx context.Context, gw Gateway, name string) error {
	p.loc = Location{Bucket: name}
	p.ClearSelection()
	return p.Reload(ctx, gw)
}

// EnterFolder descends into a folder entry within the current bucket.
func (p *Pane) EnterFolder(ctx context.Context, gw Gateway, entry Entry) error {
	if entry.Kind != KindFolder {
		return fmt.Errorf("cannot enter %s %q", entry.Kind, entry.Name)
	}
	p.loc.Prefix = entry.Key
	p.ClearSelection()
	return p.Reload(ctx, gw)
}

// GoUp pops one path segment, or leaves the bucket entirely when
// already at the bucket root.
func (p *Pane) GoUp(ctx context.Context, gw Gateway) error {
	if p.loc.Bucket == "" {
		return nil
	}
	if p.loc.Prefix != "" {
		p.loc.Prefix = parentPrefix(p.loc.Prefix)
	} else {
		p.loc = Location{}
	}
	p.ClearSelection()
	return p.Reload(ctx, gw)
}

// Reload re-lists the current location and resets the cursor. The
// selection is left alone: after a partially failed batch the failed
// keys stay selected so the user can retry.
func (p *Pane) Reload(ctx context.Context, gw Gateway) error {
	var entries []Entry
	var err error
	if p.AtBucketLevel() {
		entries, err = listBucketEntries(ctx, gw)
	} else {
		entries, err = listEntries(ctx, gw, p.loc.Bucket, p.loc.Prefix)
	}
	if err != nil {
		return err
	}
	p.entries = entries
	p.cursor = 0
	return nil
}

// Filter narrows the listed entries to those whose name contains term
// (case-insensitive). The full list comes back on the next reload.
func (p *Pane) Filter(term string) int {
	term = strings.ToLower(term)
	filtered := p.entries[:0:0]
	for _, e := range p.entries {
		if strings.Contains(strings.ToLower(e.Name), term) {
			filtered = append(filtered, e)
		}
	}
	p.entries = filtered
	p.cursor = 0
	return len(filtered)
}
