package guard

import (
	"fmt"
	"strings"

	"toonconv/internal/errors"
	"toonconv/internal/models"
)

// Check walks the tree before emission and rejects structures the emitter
// cannot handle: nesting deeper than maxDepth, and container nodes revisited
// along the current path. Parsed JSON cannot hold true cycles, but callers
// constructing trees programmatically can alias the same slice twice; depth
// tracking catches runaway nesting either way.
//
// The path in returned errors uses dotted keys and bracketed indices, e.g.
// "users[2].profile.tags".
func Check(root models.Value, maxDepth int) error {
	d := &detector{maxDepth: maxDepth, visiting: make(map[nodeID]struct{})}
	return d.walk(root, "$", 0)
}

// nodeID identifies a container node by the backing array of its slice.
// Scalars are never aliased in a way that matters, so only Items and Fields
// slices are fingerprinted.
type nodeID struct {
	ptr  any
	kind models.Kind
}

type detector struct {
	maxDepth int
	visiting map[nodeID]struct{}
}

func (d *detector) walk(v models.Value, path string, depth int) error {
	if depth > d.maxDepth {
		return errors.NewGuardError(
			fmt.Sprintf("nesting at %s exceeds the maximum depth", path),
			&errors.MaxDepthError{Limit: d.maxDepth},
		)
	}

	switch v.Kind {
	case models.Array:
		if len(v.Items) == 0 {
			return nil
		}
		id := nodeID{ptr: &v.Items[0], kind: models.Array}
		if _, seen := d.visiting[id]; seen {
			return errors.NewGuardError(
				"array participates in a reference cycle",
				&errors.CircularRefError{Path: path},
			)
		}
		d.visiting[id] = struct{}{}
		for i, it := range v.Items {
			if err := d.walk(it, fmt.Sprintf("%s[%d]", path, i), depth+1); err != nil {
				return err
			}
		}
		delete(d.visiting, id)

	case models.Object:
		if len(v.Fields) == 0 {
			return nil
		}
		id := nodeID{ptr: &v.Fields[0], kind: models.Object}
		if _, seen := d.visiting[id]; seen {
			return errors.NewGuardError(
				"object participates in a reference cycle",
				&errors.CircularRefError{Path: path},
			)
		}
		d.visiting[id] = struct{}{}
		for _, f := range v.Fields {
			if err := d.walk(f.Value, joinKey(path, f.Key), depth+1); err != nil {
				return err
			}
		}
		delete(d.visiting, id)
	}

	return nil
}

// joinKey appends a key segment to a dotted path. Keys containing a dot or
// bracket are wrapped in quotes so the path stays unambiguous.
func joinKey(path, key string) string {
	if strings.ContainsAny(key, ".[]") {
		return fmt.Sprintf("%s[%q]", path, key)
	}
	return path + "." + key
}

// MaxObservedDepth returns the deepest nesting level in the tree. The root
// counts as depth 0. Used for statistics, not enforcement.
func MaxObservedDepth(root models.Value) int {
	return observe(root, 0)
}

func observe(v models.Value, depth int) int {
	max := depth
	switch v.Kind {
	case models.Array:
		for _, it := range v.Items {
			if d := observe(it, depth+1); d > max {
				max = d
			}
		}
	case models.Object:
		for _, f := range v.Fields {
			if d := observe(f.Value, depth+1); d > max {
				max = d
			}
		}
	}
	return max
}
