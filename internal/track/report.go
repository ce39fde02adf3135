package track

// Entry is one row of a flattened tracking report: the slash-joined segment
// path from the tree root and the time attributed to that exact node.
type Entry struct {
	Path            string `json:"path"`
	AggregateTime   uint64 `json:"aggregate_time"`
	TotalInstances  int    `json:"total_instances"`
	ActiveInstances int    `json:"active_instances"`
}

// Report sweeps the whole tree at the current time and returns one entry per
// node with a non-zero aggregate. Nodes that hold instances but have not yet
// accumulated any time are omitted. Sibling order follows map iteration and
// is unspecified.
func (t *Tracker) Report() []Entry {
	now := t.now()
	entries := []Entry{}
	collect(&entries, "", t.root, now)
	return entries
}

func collect(entries *[]Entry, prefix string, nodes map[string]*node, now uint64) {
	for segment, n := range nodes {
		path := segment
		if prefix != "" {
			path = prefix + "/" + segment
		}
		aggregate, active, total := n.accumulateAll(now)
		if aggregate > 0 {
			*entries = append(*entries, Entry{
				Path:            path,
				AggregateTime:   aggregate,
				TotalInstances:  total,
				ActiveInstances: active,
			})
		}
		collect(entries, path, n.children, now)
	}
}
