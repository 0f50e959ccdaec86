package differ

import (
	"reflect"
	"strconv"

	"github.com/google/go-cmp/cmp"

	"github.com/erraggy/oaschangelog/internal/maputil"
	"github.com/erraggy/oaschangelog/internal/pathutil"
	"github.com/erraggy/oaschangelog/oaserrors"
	"github.com/erraggy/oaschangelog/parser"
)

// memoEntry records the comparison of one pair of schema locations.
type memoEntry struct {
	// depth is the recursion depth at which the comparison started
	depth int
	// inProgress is true until the comparison returns; reaching an entry
	// that is still in progress means the schemas loop back on themselves
	inProgress bool
	// changes are relative to the compared node
	changes []SchemaChange
	// cut is the depth of the enclosing comparison that short-circuited
	// part of this one, or noCut. Such an entry stays valid only while
	// that comparison is in progress.
	cut int
}

// diffSchemas compares two schemas found at srcLoc and tgtLoc of their
// documents and returns the leaf differences with paths rooted at "#".
func (c *comparison) diffSchemas(src, tgt any, srcLoc, tgtLoc string) ([]SchemaChange, error) {
	rel, _, err := c.diffNode(src, tgt, srcLoc, tgtLoc, 0)
	if err != nil {
		return nil, err
	}
	return dedupeChanges(rel), nil
}

// diffNode compares two values and returns their differences relative to the
// node, together with the smallest depth of an in-progress comparison that
// was short-circuited below it (noCut when none was).
//
// srcLoc and tgtLoc are the JSON pointers of the values inside their
// documents. After a $ref is followed they name the referenced component,
// so a schema that refers back to itself leads to a location that is already
// being compared.
func (c *comparison) diffNode(src, tgt any, srcLoc, tgtLoc string, depth int) ([]SchemaChange, int, error) {
	if src == nil && tgt == nil {
		return nil, noCut, nil
	}

	srcRef, srcIsRef := parser.RefOf(src)
	tgtRef, tgtIsRef := parser.RefOf(tgt)
	if srcIsRef && tgtIsRef && srcRef != tgtRef {
		return []SchemaChange{{JSONPath: "/$ref", Source: srcRef, Target: tgtRef, Action: ActionChanged}}, noCut, nil
	}
	var err error
	if srcIsRef {
		if src, srcLoc, err = followRef(src, srcLoc, c.source.Raw); err != nil {
			return nil, 0, err
		}
	}
	if tgtIsRef {
		if tgt, tgtLoc, err = followRef(tgt, tgtLoc, c.target.Raw); err != nil {
			return nil, 0, err
		}
	}

	srcObj, srcIsObj := src.(map[string]any)
	tgtObj, tgtIsObj := tgt.(map[string]any)
	if srcIsObj && tgtIsObj {
		return c.diffObjects(srcObj, tgtObj, srcLoc, tgtLoc, depth)
	}

	srcArr, srcIsArr := src.([]any)
	tgtArr, tgtIsArr := tgt.([]any)
	if srcIsArr && tgtIsArr {
		return c.diffArrays(srcArr, tgtArr, srcLoc, tgtLoc, depth)
	}

	if scalarEqual(src, tgt) {
		return nil, noCut, nil
	}
	return []SchemaChange{{Source: src, Target: tgt, Action: ActionChanged}}, noCut, nil
}

func (c *comparison) diffObjects(src, tgt map[string]any, srcLoc, tgtLoc string, depth int) ([]SchemaChange, int, error) {
	if sameObject(src, tgt) {
		return nil, noCut, nil
	}

	key := srcLoc
	if srcLoc != tgtLoc {
		key = srcLoc + "\x00" + tgtLoc
	}
	if entry, ok := c.memo[key]; ok {
		if entry.inProgress {
			c.log.Debug("short-circuited $ref cycle", "source", srcLoc, "target", tgtLoc, "depth", entry.depth)
			return nil, entry.depth, nil
		}
		return entry.changes, entry.cut, nil
	}
	entry := &memoEntry{depth: depth, inProgress: true, cut: noCut}
	c.memo[key] = entry

	var changes []SchemaChange
	low := noCut

	keys := maputil.CompareKeys(src, tgt)
	for _, k := range keys.Added {
		changes = append(changes, SchemaChange{JSONPath: "/" + pathutil.Escape(k), Target: tgt[k], Action: ActionAdded})
	}
	for _, k := range keys.Removed {
		changes = append(changes, SchemaChange{JSONPath: "/" + pathutil.Escape(k), Source: src[k], Action: ActionDeleted})
	}
	for _, k := range keys.Common {
		child, childLow, err := c.diffNode(src[k], tgt[k], pathutil.Append(srcLoc, k), pathutil.Append(tgtLoc, k), depth+1)
		if err != nil {
			c.dropScoped(depth)
			delete(c.memo, key)
			return nil, 0, err
		}
		low = min(low, childLow)
		changes = appendPrefixed(changes, "/"+pathutil.Escape(k), child)
	}

	entry.inProgress = false
	entry.changes = changes
	c.dropScoped(depth)
	if low < depth {
		// Cut by a comparison further up: the result depends on where the
		// cycle was entered, so it is reused only until that one finishes.
		entry.cut = low
		c.scoped[low] = append(c.scoped[low], key)
		return changes, low, nil
	}
	return changes, noCut, nil
}

// dropScoped forgets the results that were cut by the comparison at depth.
func (c *comparison) dropScoped(depth int) {
	for _, key := range c.scoped[depth] {
		delete(c.memo, key)
	}
	delete(c.scoped, depth)
}

// diffArrays compares arrays index by index.
func (c *comparison) diffArrays(src, tgt []any, srcLoc, tgtLoc string, depth int) ([]SchemaChange, int, error) {
	var changes []SchemaChange
	low := noCut

	for i := 0; i < max(len(src), len(tgt)); i++ {
		idx := strconv.Itoa(i)
		switch {
		case i >= len(src):
			changes = append(changes, SchemaChange{JSONPath: "/" + idx, Target: tgt[i], Action: ActionAdded})
		case i >= len(tgt):
			changes = append(changes, SchemaChange{JSONPath: "/" + idx, Source: src[i], Action: ActionDeleted})
		default:
			child, childLow, err := c.diffNode(src[i], tgt[i], pathutil.Append(srcLoc, idx), pathutil.Append(tgtLoc, idx), depth+1)
			if err != nil {
				return nil, 0, err
			}
			low = min(low, childLow)
			changes = appendPrefixed(changes, "/"+idx, child)
		}
	}
	return changes, low, nil
}

// followRef resolves a reference chain starting at node and returns the
// final value and its location.
func followRef(node any, loc string, root map[string]any) (any, string, error) {
	seen := make(map[string]bool)
	for {
		ref, ok := parser.RefOf(node)
		if !ok {
			return node, loc, nil
		}
		if seen[ref] {
			return nil, "", &oaserrors.ReferenceError{Ref: ref, Message: "reference chain loops back on itself"}
		}
		seen[ref] = true

		target, err := lookupRef(ref, root)
		if err != nil {
			return nil, "", err
		}
		node, loc = target, ref
	}
}

// appendPrefixed appends child changes under prefix without touching the
// child slice, which may be shared through the memo.
func appendPrefixed(dst []SchemaChange, prefix string, child []SchemaChange) []SchemaChange {
	for _, ch := range child {
		ch.JSONPath = prefix + ch.JSONPath
		dst = append(dst, ch)
	}
	return dst
}

// dedupeChanges roots relative paths at "#" and drops exact duplicates,
// keeping the first occurrence.
func dedupeChanges(rel []SchemaChange) []SchemaChange {
	if len(rel) == 0 {
		return nil
	}
	out := make([]SchemaChange, 0, len(rel))
	byPath := make(map[string][]int, len(rel))
	for _, ch := range rel {
		ch.JSONPath = pathutil.Root + ch.JSONPath
		duplicate := false
		for _, i := range byPath[ch.JSONPath] {
			if cmp.Equal(out[i], ch) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		byPath[ch.JSONPath] = append(byPath[ch.JSONPath], len(out))
		out = append(out, ch)
	}
	return out
}

// sameObject reports whether both maps are the same instance.
func sameObject(a, b map[string]any) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

// scalarEqual compares leaf values. Numbers compare by value regardless of
// their Go type, so an int decoded from YAML equals the float64 decoded from
// the same JSON literal.
func scalarEqual(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && af == bf
	}
	if !isComparable(a) || !isComparable(b) {
		return false
	}
	return a == b
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
