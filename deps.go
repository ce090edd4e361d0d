package jsonschema

// maxExtractDepth bounds extractReferencedPaths against pathological,
// deeply self-referential schema trees.
const maxExtractDepth = 100

// extractReferencedPaths walks schema and returns every instance path
// (relative to the value schema describes) whose value can affect, or is
// affected by, the constraints schema expresses. Paths are de-duplicated;
// recursion is bounded to maxExtractDepth and silently truncates past it,
// matching the "evaluation never throws" contract used throughout the tree
// runtime. Callers that want to detect truncation on a pathological schema
// should call ExtractReferencedPaths instead.
func extractReferencedPaths(schema *Schema, basePath string, depth int) []string {
	var out []string
	seen := make(map[string]bool)
	extractInto(schema, basePath, depth, &out, seen, nil)
	return out
}

// ExtractReferencedPaths is extractReferencedPaths' exported counterpart: it
// reports ErrMaxExtractDepthExceeded when recursion hit maxExtractDepth,
// instead of silently truncating.
func ExtractReferencedPaths(schema *Schema, basePath string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	truncated := false
	extractInto(schema, basePath, 0, &out, seen, &truncated)
	if truncated {
		return out, ErrMaxExtractDepthExceeded
	}
	return out, nil
}

func extractInto(schema *Schema, basePath string, depth int, out *[]string, seen map[string]bool, truncated *bool) {
	if schema == nil {
		return
	}
	if depth > maxExtractDepth {
		if truncated != nil {
			*truncated = true
		}
		return
	}

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			*out = append(*out, path)
		}
	}

	if schema.Properties != nil {
		for key, sub := range *schema.Properties {
			childPath := basePath + "/" + key
			extractInto(sub, childPath, depth+1, out, seen, truncated)
		}
	}

	if schema.Items != nil {
		itemsPath := basePath
		if itemsPath == "" {
			itemsPath = "/"
		}
		extractInto(schema.Items, itemsPath, depth+1, out, seen, truncated)
	}

	for i, sub := range schema.PrefixItems {
		childPath := basePath + "/" + itoa(i)
		extractInto(sub, childPath, depth+1, out, seen, truncated)
	}

	if basePath != "" && hasValueConstraints(schema) {
		add(basePath)
	}

	for _, r := range schema.Required {
		add(basePath + "/" + r)
	}

	for key, sub := range schema.DependentSchemas {
		add(basePath + "/" + key)
		extractInto(sub, basePath, depth+1, out, seen, truncated)
	}
	for key := range schema.DependentRequired {
		add(basePath + "/" + key)
	}

	extractInto(schema.If, basePath, depth+1, out, seen, truncated)
	extractInto(schema.Then, basePath, depth+1, out, seen, truncated)
	extractInto(schema.Else, basePath, depth+1, out, seen, truncated)
	extractInto(schema.Not, basePath, depth+1, out, seen, truncated)
	extractInto(schema.Contains, basePath, depth+1, out, seen, truncated)
	for _, sub := range schema.AllOf {
		extractInto(sub, basePath, depth+1, out, seen, truncated)
	}
	for _, sub := range schema.AnyOf {
		extractInto(sub, basePath, depth+1, out, seen, truncated)
	}
	for _, sub := range schema.OneOf {
		extractInto(sub, basePath, depth+1, out, seen, truncated)
	}
}

// hasValueConstraints reports whether schema directly constrains the value
// at its own path (as opposed to only describing its children), per
// spec.md's extractReferencedPaths rule for const/enum/type/value keywords.
func hasValueConstraints(schema *Schema) bool {
	return schema.Const != nil ||
		len(schema.Enum) > 0 ||
		len(schema.Type) > 0 ||
		schema.Minimum != nil || schema.Maximum != nil ||
		schema.ExclusiveMinimum != nil || schema.ExclusiveMaximum != nil ||
		schema.MinLength != nil || schema.MaxLength != nil ||
		schema.Pattern != nil ||
		schema.Format != nil ||
		schema.MinItems != nil || schema.MaxItems != nil ||
		schema.UniqueItems != nil ||
		schema.MinProperties != nil || schema.MaxProperties != nil
}

// dependencySet is the Set<absolutePath> spec.md's collectDependencies
// returns, used by the tree runtime to index which nodes must reconcile
// when a given path changes.
type dependencySet map[string]bool

func newDependencySet() dependencySet {
	return make(dependencySet)
}

func (d dependencySet) add(path string) {
	d[path] = true
}

func (d dependencySet) addAll(paths []string) {
	for _, p := range paths {
		d[p] = true
	}
}

func (d dependencySet) slice() []string {
	out := make([]string, 0, len(d))
	for p := range d {
		out = append(out, p)
	}
	return out
}

// collectDependencies computes the absolute instance paths a node at
// instanceLocation must watch in order to re-derive its effective schema,
// per spec.md 4.5.
func collectDependencies(schema *Schema, instanceLocation string) dependencySet {
	deps := newDependencySet()
	collectInto(schema, instanceLocation, deps)
	return deps
}

func collectInto(schema *Schema, instanceLocation string, deps dependencySet) {
	if schema == nil {
		return
	}

	for _, r := range schema.Required {
		deps.add(resolveAbsolutePath(instanceLocation, "/"+r))
	}
	for key := range schema.DependentRequired {
		deps.add(resolveAbsolutePath(instanceLocation, "/"+key))
	}

	if schema.If != nil {
		for _, rel := range extractReferencedPaths(schema.If, "", 0) {
			deps.add(resolveAbsolutePath(instanceLocation, rel))
		}
		collectInto(schema.Then, instanceLocation, deps)
		collectInto(schema.Else, instanceLocation, deps)
	}

	for _, option := range schema.OneOf {
		for _, rel := range extractReferencedPaths(option, "", 0) {
			deps.add(resolveAbsolutePath(instanceLocation, rel))
		}
		collectInto(option, instanceLocation, deps)
	}
	for _, option := range schema.AnyOf {
		for _, rel := range extractReferencedPaths(option, "", 0) {
			deps.add(resolveAbsolutePath(instanceLocation, rel))
		}
		collectInto(option, instanceLocation, deps)
	}

	for _, member := range schema.AllOf {
		collectInto(member, instanceLocation, deps)
	}

	for key, sub := range schema.DependentSchemas {
		deps.add(resolveAbsolutePath(instanceLocation, "/"+key))
		collectInto(sub, instanceLocation, deps)
	}
}

// resolveAbsolutePath appends relativePath to nodePath when relativePath is
// rooted (starts with "/"); otherwise relativePath is already absolute by
// convention and is returned unchanged.
func resolveAbsolutePath(nodePath, relativePath string) string {
	if len(relativePath) > 0 && relativePath[0] == '/' {
		if nodePath == "" {
			return relativePath
		}
		return nodePath + relativePath
	}
	return relativePath
}
