package track

// Snapshot is the persisted form of a tracker: the session name plus the
// serialized segment forest. "Full" snapshots keep per-node instances so a
// session can be resumed with live tabs intact; "pruned" snapshots carry
// aggregates only.
type Snapshot struct {
	SessionName string                   `json:"session_name"`
	Data        map[string]*SnapshotNode `json:"data"`
}

// SnapshotNode mirrors a tree node. Instances is omitted entirely in pruned
// snapshots.
type SnapshotNode struct {
	SubPart       string                   `json:"sub_part"`
	AggregateTime uint64                   `json:"aggregate_time"`
	Instances     []TabInstance            `json:"instances,omitempty"`
	Children      map[string]*SnapshotNode `json:"children"`
}

// Snapshot sweeps the whole tree at the current time, then serializes it.
// With includeInstances the snapshot can seamlessly continue the session;
// without, only aggregate times and the tree shape survive.
func (t *Tracker) Snapshot(includeInstances bool) *Snapshot {
	now := t.now()
	data := make(map[string]*SnapshotNode, len(t.root))
	for segment, n := range t.root {
		sweep(n, now)
		data[segment] = n.toSnapshot(includeInstances)
	}
	return &Snapshot{SessionName: t.name, Data: data}
}

func sweep(n *node, now uint64) {
	n.accumulateAll(now)
	for _, child := range n.children {
		sweep(child, now)
	}
}

func (n *node) toSnapshot(withInstances bool) *SnapshotNode {
	sn := &SnapshotNode{
		SubPart:       n.subPart,
		AggregateTime: n.aggregateTime,
		Children:      make(map[string]*SnapshotNode, len(n.children)),
	}
	if withInstances {
		sn.Instances = make([]TabInstance, len(n.instances))
		for i, ti := range n.instances {
			inst := *ti
			if ti.LastOpened != nil {
				ts := *ti.LastOpened
				inst.LastOpened = &ts
			}
			sn.Instances[i] = inst
		}
	}
	for segment, child := range n.children {
		sn.Children[segment] = child.toSnapshot(withInstances)
	}
	return sn
}

// FromSnapshot rebuilds a tracker from persisted data. With fresh, instance
// state is discarded everywhere while aggregates and the tree shape are
// kept; this derives a new session identity from old data. Without fresh,
// instances are restored verbatim to resume the same session.
func FromSnapshot(name string, data map[string]*SnapshotNode, fresh bool, opts ...Option) *Tracker {
	t := New(name, opts...)
	for segment, sn := range data {
		t.root[segment] = sn.toNode(fresh)
	}
	return t
}

func (sn *SnapshotNode) toNode(fresh bool) *node {
	n := newNode(sn.SubPart)
	n.aggregateTime = sn.AggregateTime
	if !fresh {
		for i := range sn.Instances {
			inst := sn.Instances[i]
			if sn.Instances[i].LastOpened != nil {
				ts := *sn.Instances[i].LastOpened
				inst.LastOpened = &ts
			}
			n.instances = append(n.instances, &inst)
		}
	}
	for segment, child := range sn.Children {
		n.children[segment] = child.toNode(fresh)
	}
	return n
}
