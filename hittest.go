package cinder

import "github.com/cindervm/cinder/internal/geom"

// HitTestMode selects how Stage.Pick and DisplayObject.HitTestPoint
// test a point against a display object: against its axis-aligned
// world bounds, or in shape mode against its HitShape when one is set
// and otherwise its local bounds. The rasterized fill itself is not
// tested.
type HitTestMode uint8

const (
	HitTestBounds HitTestMode = iota
	HitTestShape
)

// HitTestPoint reports whether worldPoint lies inside d, honoring
// ScrollRect clipping and Visible (an invisible object is never hit in
// shape mode; bounds mode still honors Visible since a hidden object
// has no meaningful hit surface either). MouseEnabled/MouseChildren are
// the container picker's concern (Pick), not a single object's own test.
func (d *DisplayObject) HitTestPoint(worldPoint geom.Point, mode HitTestMode) bool {
	if !d.Visible {
		return false
	}
	local := d.worldMatrix.Invert().TransformPoint(worldPoint)

	if d.ScrollRect != nil && !d.ScrollRect.Contains(local) {
		return false
	}

	if mode == HitTestShape && d.HitShape != nil {
		return d.HitShape.Contains(local)
	}
	return d.LocalBounds().Contains(local)
}

// Pick walks d's subtree in reverse render order (front-most first) and
// returns the first descendant (or d itself) whose hit test succeeds,
// or nil. mouseEnabled=false on a node excludes it and its subtree;
// mouseChildren=false on a container excludes its children but not the
// container itself, matching mouse-picking short-circuit rule.
//
// A button substitutes its hit-area state for its visible subtree: the
// hit area is tested directly rather than recursing into up/over/down,
// mirroring Avm2Button::mouse_pick_avm2's hit_area handling, including
// the fact that an unattached hit-area subtree's own transform is not
// composed into world space (it has no parent), so the point is mapped
// into the button's local space before testing it.
func (d *DisplayObject) Pick(worldPoint geom.Point, mode HitTestMode) *DisplayObject {
	if !d.MouseEnabled {
		return nil
	}

	if d.Kind == KindButton && d.Button != nil {
		if hit := d.Button.HitArea(); hit != nil {
			if hit.Parent == d {
				if hit.HitTestPoint(worldPoint, mode) {
					return d
				}
			} else {
				local := d.worldMatrix.Invert().TransformPoint(worldPoint)
				if hit.LocalBounds().Contains(local) {
					return d
				}
			}
			return nil
		}
	}

	if d.MouseChildren {
		for i := len(d.renderOrder) - 1; i >= 0; i-- {
			if hit := d.renderOrder[i].Pick(worldPoint, mode); hit != nil {
				return hit
			}
		}
	}

	if d.HitTestPoint(worldPoint, mode) {
		return d
	}
	return nil
}
