// Package track maintains per-URL time statistics for browser tabs.
//
// Tracked URLs are broken into segments (host, then path components) that
// form a tree. Each node accumulates the focused-tab time attributed to
// that exact segment path, and holds the tab instances currently (or
// formerly) open on it.
package track

import (
	"fmt"
	"math"
	"time"
)

// TabNotFoundError reports a tab event for a tab id that was never focused
// at the given URL.
type TabNotFoundError struct {
	TabID int
}

func (e *TabNotFoundError) Error() string {
	return fmt.Sprintf("tab %d not found", e.TabID)
}

// nowMillis returns the current wall-clock time in milliseconds.
func nowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

// satAdd adds two millisecond counters without wrapping.
func satAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return math.MaxUint64
}

// satSub clamps at zero when the clock moves backwards.
func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// TabInstance is one browser tab associated with a tree node. LastOpened is
// set while the tab is focused; TimeActive holds milliseconds not yet folded
// into the node's aggregate.
type TabInstance struct {
	TabID      int     `json:"tab_id"`
	TimeActive uint64  `json:"time_active"`
	LastOpened *uint64 `json:"last_opened,omitempty"`
}

func newInstance(tabID int, now uint64) *TabInstance {
	ts := now
	return &TabInstance{TabID: tabID, LastOpened: &ts}
}

func (ti *TabInstance) active() bool {
	return ti.LastOpened != nil
}

// fold moves the elapsed focused interval into TimeActive and deactivates
// the instance. No-op when the instance is already inactive.
func (ti *TabInstance) fold(now uint64) {
	if ti.LastOpened == nil {
		return
	}
	ti.TimeActive = satAdd(ti.TimeActive, satSub(now, *ti.LastOpened))
	ti.LastOpened = nil
}

// foldAndReset flushes the instance's pending time and returns it. An active
// instance keeps running: its LastOpened is reset to now so the flushed
// interval is counted exactly once.
func (ti *TabInstance) foldAndReset(now uint64) uint64 {
	if ti.LastOpened != nil {
		ti.TimeActive = satAdd(ti.TimeActive, satSub(now, *ti.LastOpened))
		ts := now
		ti.LastOpened = &ts
	}
	total := ti.TimeActive
	ti.TimeActive = 0
	return total
}

// node is one URL segment in the tracking tree. Nodes are created on first
// track and never pruned, even when all instances are gone.
type node struct {
	subPart       string
	aggregateTime uint64
	instances     []*TabInstance
	children      map[string]*node
}

func newNode(subPart string) *node {
	return &node{subPart: subPart, children: make(map[string]*node)}
}

func (n *node) findInstance(tabID int) *TabInstance {
	for _, ti := range n.instances {
		if ti.TabID == tabID {
			return ti
		}
	}
	return nil
}

func (n *node) removeInstance(tabID int) *TabInstance {
	for i, ti := range n.instances {
		if ti.TabID == tabID {
			n.instances[i] = n.instances[len(n.instances)-1]
			n.instances = n.instances[:len(n.instances)-1]
			return ti
		}
	}
	return nil
}

// focusInstance activates the tab at this node, creating the instance on
// first focus. Refocusing an already-active tab is a no-op.
func (n *node) focusInstance(tabID int, now uint64) {
	if existing := n.findInstance(tabID); existing != nil {
		if existing.LastOpened == nil {
			ts := now
			existing.LastOpened = &ts
		}
		return
	}
	n.instances = append(n.instances, newInstance(tabID, now))
}

// accumulateAll flushes every instance's pending time into the node's
// aggregate and reports (aggregate, active count, total count).
func (n *node) accumulateAll(now uint64) (uint64, int, int) {
	var total uint64
	active := 0
	for _, ti := range n.instances {
		if ti.active() {
			active++
		}
		total = satAdd(total, ti.foldAndReset(now))
	}
	n.aggregateTime = satAdd(n.aggregateTime, total)
	return n.aggregateTime, active, len(n.instances)
}

// Tracker owns one session name and the forest of tracked URL segments,
// keyed by host.
type Tracker struct {
	name string
	root map[string]*node
	now  func() uint64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the tracker's millisecond time source.
func WithClock(now func() uint64) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// New returns an empty Tracker for the named session.
func New(name string, opts ...Option) *Tracker {
	t := &Tracker{
		name: name,
		root: make(map[string]*node),
		now:  nowMillis,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the session name this tracker records under.
func (t *Tracker) Name() string {
	return t.name
}

// findOrCreate descends the tree along parts, creating missing nodes with
// zero time, and returns the terminal node. parts must be non-empty.
func (t *Tracker) findOrCreate(parts []string) *node {
	current := t.root
	var n *node
	for _, part := range parts {
		child, ok := current[part]
		if !ok {
			child = newNode(part)
			current[part] = child
		}
		n = child
		current = child.children
	}
	return n
}

// find returns the terminal node for parts, or nil if any segment is absent.
// It never returns a partially-matched node.
func (t *Tracker) find(parts []string) *node {
	current := t.root
	var n *node
	for _, part := range parts {
		child, ok := current[part]
		if !ok {
			return nil
		}
		n = child
		current = child.children
	}
	return n
}

// TrackFocus records that tabID became focused on url, creating the node
// path and instance as needed.
func (t *Tracker) TrackFocus(url string, tabID int) error {
	parts, err := parseURLParts(url)
	if err != nil {
		return err
	}
	t.findOrCreate(parts).focusInstance(tabID, t.now())
	return nil
}

// TrackUnfocus records that tabID lost focus on url, folding the elapsed
// interval into the instance's pending time.
func (t *Tracker) TrackUnfocus(url string, tabID int) error {
	parts, err := parseURLParts(url)
	if err != nil {
		return err
	}
	now := t.now()
	n := t.find(parts)
	if n == nil {
		return &TabNotFoundError{TabID: tabID}
	}
	ti := n.findInstance(tabID)
	if ti == nil {
		return &TabNotFoundError{TabID: tabID}
	}
	ti.fold(now)
	return nil
}

// TrackClose removes the tab's instance from its node, folding all of its
// accumulated time into the node's aggregate.
func (t *Tracker) TrackClose(url string, tabID int) error {
	parts, err := parseURLParts(url)
	if err != nil {
		return err
	}
	now := t.now()
	n := t.find(parts)
	if n == nil {
		return &TabNotFoundError{TabID: tabID}
	}
	ti := n.removeInstance(tabID)
	if ti == nil {
		return &TabNotFoundError{TabID: tabID}
	}
	ti.fold(now)
	n.aggregateTime = satAdd(n.aggregateTime, ti.TimeActive)
	return nil
}
