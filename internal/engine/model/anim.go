package model

import "github.com/Faultbox/midgard-g3d/pkg/math"

// NodeAnim holds the keyframe channels driving one node. Any channel may be empty.
type NodeAnim struct {
	Node        NodeID
	Translation []Keyframe[math.Vec3]
	Rotation    []Keyframe[math.Quat]
	Scaling     []Keyframe[math.Vec3]
}

// Sort orders every channel by time.
func (na *NodeAnim) Sort() {
	SortKeyframes(na.Translation)
	SortKeyframes(na.Rotation)
	SortKeyframes(na.Scaling)
}

// End returns the time of the last keyframe across all channels.
func (na *NodeAnim) End() float32 {
	var end float32
	if n := len(na.Translation); n > 0 {
		end = max(end, na.Translation[n-1].Time)
	}
	if n := len(na.Rotation); n > 0 {
		end = max(end, na.Rotation[n-1].Time)
	}
	if n := len(na.Scaling); n > 0 {
		end = max(end, na.Scaling[n-1].Time)
	}
	return end
}

func (na NodeAnim) clone() NodeAnim {
	na.Translation = append([]Keyframe[math.Vec3](nil), na.Translation...)
	na.Rotation = append([]Keyframe[math.Quat](nil), na.Rotation...)
	na.Scaling = append([]Keyframe[math.Vec3](nil), na.Scaling...)
	return na
}

// Anim is a named animation over a set of nodes.
type Anim struct {
	ID       string
	Duration float32
	Nodes    []NodeAnim
}

// UpdateDuration sets Duration to the latest keyframe time of any channel.
// Channels must be sorted.
func (a *Anim) UpdateDuration() {
	a.Duration = 0
	for i := range a.Nodes {
		a.Duration = max(a.Duration, a.Nodes[i].End())
	}
}

// Clone returns a deep copy. Node targets are unchanged.
func (a *Anim) Clone() *Anim {
	c := &Anim{ID: a.ID, Duration: a.Duration, Nodes: make([]NodeAnim, len(a.Nodes))}
	for i, na := range a.Nodes {
		c.Nodes[i] = na.clone()
	}
	return c
}
