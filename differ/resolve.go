package differ

import (
	"fmt"

	"github.com/erraggy/oaschangelog/internal/pathutil"
	"github.com/erraggy/oaschangelog/oaserrors"
	"github.com/erraggy/oaschangelog/parser"
)

// ResolveRef resolves node one step against root.
//
// A node that is not a reference object is returned unchanged. A reference is
// followed by mapping lookups only; the result is not resolved further even
// if it is itself a reference. The pointer "#" resolves to root. External
// references, missing keys and lookups through non-objects fail with a
// *oaserrors.ReferenceError.
func ResolveRef(node any, root map[string]any) (any, error) {
	ref, ok := parser.RefOf(node)
	if !ok {
		return node, nil
	}
	return lookupRef(ref, root)
}

func lookupRef(ref string, root map[string]any) (any, error) {
	tokens, ok := pathutil.Tokens(ref)
	if !ok {
		return nil, &oaserrors.ReferenceError{Ref: ref, Message: "only local references are supported"}
	}

	var cur any = root
	for i, token := range tokens {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, &oaserrors.ReferenceError{
				Ref:     ref,
				Message: fmt.Sprintf("%s is not an object", pathutil.Pointer(tokens[:i]...)),
			}
		}
		next, ok := obj[token]
		if !ok {
			return nil, &oaserrors.ReferenceError{Ref: ref, Message: fmt.Sprintf("missing key %q", token)}
		}
		cur = next
	}
	return cur, nil
}

// ResolveRefDeep returns a copy of value with every reachable reference
// replaced by its target, recursively through objects and arrays. Reference
// chains are followed to the end.
//
// Cyclic schemas would expand forever, so each cycle is expanded once and
// closed with a reference object where it loops back. value itself is never
// modified; expansions of the same reference may be shared between several
// places of the returned tree.
func ResolveRefDeep(value any, root map[string]any) (any, error) {
	r := &deepResolver{
		root:    root,
		active:  make(map[string]int),
		done:    make(map[string]any),
		partial: make(map[string]partialExpansion),
		scoped:  make(map[int][]string),
	}
	out, _, err := r.resolve(value)
	return out, err
}

// noCut is the low-water mark of an expansion that did not cut a cycle.
const noCut = int(^uint(0) >> 1)

type deepResolver struct {
	root map[string]any
	// active maps the references being expanded to their nesting depth
	active map[string]int
	// done caches expansions that do not depend on an enclosing expansion
	done map[string]any
	// partial caches expansions that were cut by an enclosing one; scoped
	// lists them by the depth of that expansion so they can be dropped
	// when it finishes
	partial map[string]partialExpansion
	scoped  map[int][]string
}

type partialExpansion struct {
	value any
	low   int
}

// resolve returns the expansion of v and the smallest nesting depth of an
// active reference that was cut inside it, or noCut.
func (r *deepResolver) resolve(v any) (any, int, error) {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := parser.RefOf(val); ok {
			return r.resolveRef(ref)
		}
		out := make(map[string]any, len(val))
		low := noCut
		for k, item := range val {
			resolved, itemLow, err := r.resolve(item)
			if err != nil {
				return nil, 0, err
			}
			out[k] = resolved
			low = min(low, itemLow)
		}
		return out, low, nil
	case []any:
		out := make([]any, len(val))
		low := noCut
		for i, item := range val {
			resolved, itemLow, err := r.resolve(item)
			if err != nil {
				return nil, 0, err
			}
			out[i] = resolved
			low = min(low, itemLow)
		}
		return out, low, nil
	default:
		return val, noCut, nil
	}
}

func (r *deepResolver) resolveRef(ref string) (any, int, error) {
	if depth, ok := r.active[ref]; ok {
		return map[string]any{"$ref": ref}, depth, nil
	}
	if cached, ok := r.done[ref]; ok {
		return cached, noCut, nil
	}
	if p, ok := r.partial[ref]; ok {
		return p.value, p.low, nil
	}

	target, err := lookupRef(ref, r.root)
	if err != nil {
		return nil, 0, err
	}

	depth := len(r.active)
	r.active[ref] = depth
	out, low, err := r.resolve(target)
	delete(r.active, ref)
	r.dropScoped(depth)
	if err != nil {
		return nil, 0, err
	}
	if low >= depth {
		// Every cut inside points at ref itself or deeper, so the
		// expansion is the same wherever ref is entered from.
		r.done[ref] = out
		return out, noCut, nil
	}
	r.partial[ref] = partialExpansion{value: out, low: low}
	r.scoped[low] = append(r.scoped[low], ref)
	return out, low, nil
}

func (r *deepResolver) dropScoped(depth int) {
	for _, ref := range r.scoped[depth] {
		delete(r.partial, ref)
	}
	delete(r.scoped, depth)
}
