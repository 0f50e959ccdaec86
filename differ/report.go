package differ

// resolveReport replaces the operation and record schemas of result with
// deep-resolved copies.
func resolveReport(result *Result, sourceRoot, targetRoot map[string]any) error {
	res := reportResolver{source: sourceRoot, target: targetRoot}
	for _, routes := range [][]Route{result.SameRoutes, result.AddedRoutes, result.DeletedRoutes, result.ChangedRoutes} {
		for i := range routes {
			if err := res.route(&routes[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

type reportResolver struct {
	source map[string]any
	target map[string]any
	err    error
}

func (r *reportResolver) route(route *Route) error {
	if route.SourceSchema != nil {
		route.SourceSchema = r.object(route.SourceSchema, r.source)
	}
	if route.TargetSchema != nil {
		route.TargetSchema = r.object(route.TargetSchema, r.target)
	}
	for i, change := range route.Changes {
		route.Changes[i] = r.change(change)
	}
	return r.err
}

func (r *reportResolver) change(change Change) Change {
	switch c := change.(type) {
	case ParameterAdded:
		c.TargetSchema = r.value(c.TargetSchema, r.target)
		return c
	case ParameterChanged:
		c.SourceSchema = r.value(c.SourceSchema, r.source)
		c.TargetSchema = r.value(c.TargetSchema, r.target)
		return c
	case ParameterDeleted:
		c.SourceSchema = r.value(c.SourceSchema, r.source)
		return c
	case RequestBodyAdded:
		c.TargetSchema = r.value(c.TargetSchema, r.target)
		return c
	case RequestBodyChanged:
		c.SourceSchema = r.value(c.SourceSchema, r.source)
		c.TargetSchema = r.value(c.TargetSchema, r.target)
		return c
	case RequestBodyDeleted:
		c.SourceSchema = r.value(c.SourceSchema, r.source)
		return c
	case ResponseHeaderAdded:
		c.TargetSchema = r.value(c.TargetSchema, r.target)
		return c
	case ResponseHeaderChanged:
		c.SourceSchema = r.value(c.SourceSchema, r.source)
		c.TargetSchema = r.value(c.TargetSchema, r.target)
		return c
	case ResponseHeaderDeleted:
		c.SourceSchema = r.value(c.SourceSchema, r.source)
		return c
	case ResponseBodyAdded:
		c.TargetSchema = r.value(c.TargetSchema, r.target)
		return c
	case ResponseBodyChanged:
		c.SourceSchema = r.value(c.SourceSchema, r.source)
		c.TargetSchema = r.value(c.TargetSchema, r.target)
		return c
	case ResponseBodyDeleted:
		c.SourceSchema = r.value(c.SourceSchema, r.source)
		return c
	default:
		return change
	}
}

// value deep-resolves v, remembering the first error.
func (r *reportResolver) value(v any, root map[string]any) any {
	if r.err != nil {
		return v
	}
	out, err := ResolveRefDeep(v, root)
	if err != nil {
		r.err = err
		return v
	}
	return out
}

func (r *reportResolver) object(m map[string]any, root map[string]any) map[string]any {
	out, _ := r.value(m, root).(map[string]any)
	return out
}
