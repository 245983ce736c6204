package quality

import "fruitgrader/internal/model"

// Fuse combines the two per-camera labels. The fruit is fresh only when both
// cameras saw it fresh; any other pair, including unknown or empty labels,
// is rotten.
func Fuse(left, right model.Label) model.Verdict {
	if left == model.LabelFresh && right == model.LabelFresh {
		return model.VerdictFresh
	}
	return model.VerdictRotten
}

// Conclude fuses two camera results. It returns false when either camera
// detected nothing, in which case no verdict exists for the tick.
func Conclude(left, right model.CameraResult) (model.Verdict, bool) {
	if !left.Detected || !right.Detected {
		return "", false
	}
	return Fuse(left.Label, right.Label), true
}
