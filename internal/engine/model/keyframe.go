package model

import (
	"slices"
	"sort"

	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// Keyframe is a timestamped value on one animation channel.
type Keyframe[V math.Vec3 | math.Quat] struct {
	Time  float32
	Value V
}

// Frame returns the keyframe with the greatest time not after t. An exact match
// is returned as is; the value is never interpolated towards the next keyframe.
// frames must be sorted by time. Frame reports false for an empty channel or a
// t outside [first, last].
func Frame[V math.Vec3 | math.Quat](frames []Keyframe[V], t float32) (Keyframe[V], bool) {
	n := len(frames)
	if n == 0 || !(t >= frames[0].Time && t <= frames[n-1].Time) {
		return Keyframe[V]{}, false
	}
	// First index whose time is after t; its predecessor is the floor.
	i := sort.Search(n, func(i int) bool { return frames[i].Time > t })
	return frames[i-1], true
}

// SortKeyframes orders frames by ascending time, keeping the relative order of
// equal times.
func SortKeyframes[V math.Vec3 | math.Quat](frames []Keyframe[V]) {
	slices.SortStableFunc(frames, func(a, b Keyframe[V]) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
}
