package jsonschema

import (
	"log"
	"sort"
)

// FieldNode is the reactive tree entity SchemaRuntime maintains: one node
// per instance location, carrying its effective schema (applicators
// absorbed), inferred type, current value, validation error, children, and
// the set of paths its effective schema depends on.
type FieldNode struct {
	JSONPointer    string // absolute instance pointer, "" for root.
	SchemaPath     string // absolute keyword path, starts with "#".
	OriginalSchema *Schema
	Schema         *Schema // effective schema: if/allOf/anyOf/oneOf stripped.
	Type           string

	Value    any
	HasValue bool

	DefaultValue    any
	HasDefaultValue bool

	Error *EvaluationResult

	Children []*FieldNode

	Dependencies dependencySet

	Version uint64
}

// Event is what SchemaRuntime delivers to subscribers.
type Event struct {
	Type string // "value" or "schema"
	Path string
}

const (
	eventValue  = "value"
	eventSchema = "schema"
	rootWatcherKey = "#"
)

type watcherEntry struct {
	id int
	cb func(Event)
}

// SchemaRuntime maintains a live tree of FieldNodes mirroring a JSON
// instance against a JSON Schema, re-resolving only the nodes whose
// effective schema depends on a changed location.
type SchemaRuntime struct {
	rootSchema *Schema
	root       *FieldNode
	rootValue  any

	dependentsMap map[string]map[string]*FieldNode // dependency path -> node pointer -> node
	nodesByPointer map[string]*FieldNode

	watchers     map[string][]watcherEntry
	nextWatcherID int

	updatingNodes map[string]bool

	version uint64

	autoFillDefaults AutoFillStrategy
}

// RuntimeOptions configures NewSchemaRuntime.
type RuntimeOptions struct {
	AutoFillDefaults AutoFillStrategy
}

// NewSchemaRuntime builds a tree rooted at schema, seeded with initialValue,
// per spec.md 4.7's initializeTree.
func NewSchemaRuntime(schema *Schema, initialValue any, opts RuntimeOptions) *SchemaRuntime {
	strategy := opts.AutoFillDefaults
	if strategy == "" {
		strategy = AutoFillExplicit
	}

	r := &SchemaRuntime{
		rootSchema:     schema,
		dependentsMap:  make(map[string]map[string]*FieldNode),
		nodesByPointer: make(map[string]*FieldNode),
		watchers:       make(map[string][]watcherEntry),
		updatingNodes:  make(map[string]bool),
		autoFillDefaults: strategy,
	}

	r.initializeTree(initialValue)
	return r
}

func (r *SchemaRuntime) initializeTree(initialValue any) {
	r.dependentsMap = make(map[string]map[string]*FieldNode)
	r.nodesByPointer = make(map[string]*FieldNode)

	value := initialValue
	if value == nil && r.autoFillDefaults != AutoFillNever {
		if seeded, ok := seedInitialValue(r.rootSchema, r.autoFillDefaults, true); ok {
			value = seeded
		}
	}

	r.rootValue = value
	r.root = r.buildNode(r.rootSchema, "#", "", value, false)
}

func (r *SchemaRuntime) nextVersion() uint64 {
	r.version++
	return r.version
}

// GetVersion returns the runtime's monotonically increasing version
// counter, bumped on every observable mutation.
func (r *SchemaRuntime) GetVersion() uint64 {
	return r.version
}

// buildNode constructs a FieldNode (and its subtree) for schema at
// jsonPointer/schemaPath against value, per spec.md 4.7's buildNode.
func (r *SchemaRuntime) buildNode(schema *Schema, schemaPath, jsonPointer string, value any, skipDependencyRegistration bool) *FieldNode {
	resolved := resolveSchemaRef(schema)
	deps := collectDependencies(resolved, jsonPointer)
	effective := ResolveEffectiveSchema(resolved, value, schemaPath, jsonPointer, false)

	node := &FieldNode{
		JSONPointer:    jsonPointer,
		SchemaPath:     schemaPath,
		OriginalSchema: schema,
		Schema:         effective.Schema,
		Type:           effective.Type,
		Value:          value,
		HasValue:       value != nil,
		Dependencies:   deps,
		Version:        r.nextVersion(),
	}

	if dv, ok := getDefaultValue(effective.Schema, false); ok {
		node.DefaultValue = dv
		node.HasDefaultValue = true
	}

	r.nodesByPointer[jsonPointer] = node

	if !skipDependencyRegistration {
		r.registerDependencies(node)
	}

	node.Children = r.buildChildren(node)

	return node
}

func (r *SchemaRuntime) registerDependencies(node *FieldNode) {
	for path := range node.Dependencies {
		bucket := r.dependentsMap[path]
		if bucket == nil {
			bucket = make(map[string]*FieldNode)
			r.dependentsMap[path] = bucket
		}
		bucket[node.JSONPointer] = node
	}
}

func (r *SchemaRuntime) unregisterDependencies(node *FieldNode) {
	for path := range node.Dependencies {
		bucket := r.dependentsMap[path]
		if bucket == nil {
			continue
		}
		delete(bucket, node.JSONPointer)
		if len(bucket) == 0 {
			delete(r.dependentsMap, path)
		}
	}
}

// unregisterSubtree recursively unregisters a node and every descendant's
// dependency registrations and lookup-table entries, ahead of discarding
// that subtree (e.g. on a schema-shape change).
func (r *SchemaRuntime) unregisterSubtree(node *FieldNode) {
	if node == nil {
		return
	}
	r.unregisterDependencies(node)
	delete(r.nodesByPointer, node.JSONPointer)
	for _, child := range node.Children {
		r.unregisterSubtree(child)
	}
}

// buildChildren builds the child nodes for an object/array FieldNode, per
// spec.md 4.7's "Build children per effective type" step. Property order
// within an object is not preserved past JSON decoding (the decoded
// map[string]any/SchemaMap carry no order), so children are iterated in
// sorted key order for determinism rather than true declaration order.
func (r *SchemaRuntime) buildChildren(node *FieldNode) []*FieldNode {
	switch node.Type {
	case "object":
		return r.buildObjectChildren(node)
	case "array":
		return r.buildArrayChildren(node)
	default:
		return nil
	}
}

func (r *SchemaRuntime) buildObjectChildren(node *FieldNode) []*FieldNode {
	obj, ok := node.Value.(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if node.Schema.PatternProperties != nil {
		node.Schema.compilePatterns()
	}

	children := make([]*FieldNode, 0, len(keys))
	for _, key := range keys {
		childSchema := resolveObjectChildSchema(node.Schema, key)
		childPointer := node.JSONPointer + "/" + key
		childPath := node.SchemaPath + "/properties/" + key
		children = append(children, r.buildNode(childSchema, childPath, childPointer, obj[key], false))
	}
	return children
}

// resolveObjectChildSchema picks the subschema source for key, per the
// "properties -> patternProperties -> additionalProperties" priority spec.md
// 4.7 specifies. An object with no matching source at all (additional
// properties are implicitly allowed when the keyword is absent) still gets
// an unconstrained schema so every own property still yields a node.
func resolveObjectChildSchema(schema *Schema, key string) *Schema {
	if schema.Properties != nil {
		if propSchema, ok := (*schema.Properties)[key]; ok {
			return propSchema
		}
	}
	if schema.PatternProperties != nil {
		for pattern, patternSchema := range *schema.PatternProperties {
			if regex, ok := schema.compiledPatterns[pattern]; ok && regex.MatchString(key) {
				return patternSchema
			}
		}
	}
	if schema.AdditionalProperties != nil {
		return schema.AdditionalProperties
	}
	return &Schema{}
}

func (r *SchemaRuntime) buildArrayChildren(node *FieldNode) []*FieldNode {
	arr, ok := node.Value.([]any)
	if !ok {
		return nil
	}

	children := make([]*FieldNode, 0, len(arr))
	for i, item := range arr {
		childSchema := resolveArrayChildSchema(node.Schema, i)
		childPointer := node.JSONPointer + "/" + itoa(i)
		childPath := node.SchemaPath + "/items"
		if i < len(node.Schema.PrefixItems) {
			childPath = node.SchemaPath + "/prefixItems/" + itoa(i)
		}
		children = append(children, r.buildNode(childSchema, childPath, childPointer, item, false))
	}
	return children
}

func resolveArrayChildSchema(schema *Schema, index int) *Schema {
	if index < len(schema.PrefixItems) {
		return schema.PrefixItems[index]
	}
	if schema.Items != nil {
		return schema.Items
	}
	return &Schema{}
}

// resolveSchemaRef substitutes a $ref/$dynamicRef-bearing schema with its
// resolved target merged with any sibling keywords, so that the FieldNode
// built from it carries a ref-free effective schema (invariant 5). A schema
// that resolves back to itself (a self-referential anchor) is returned
// as-is rather than looped on forever.
func resolveSchemaRef(schema *Schema) *Schema {
	if schema == nil || (schema.Ref == "" && schema.DynamicRef == "") {
		return schema
	}

	target := schema
	visited := map[*Schema]bool{schema: true}
	for target.Ref != "" || target.DynamicRef != "" {
		var next *Schema
		if target.Ref != "" {
			next = target.ResolvedRef
		} else {
			next = target.ResolvedDynamicRef
		}
		if next == nil || visited[next] {
			break
		}
		visited[next] = true
		target = next
	}

	if target == schema {
		return schema
	}

	siblings := copySchema(schema)
	siblings.Ref, siblings.DynamicRef = "", ""
	siblings.ResolvedRef, siblings.ResolvedDynamicRef = nil, nil

	return mergeSchema(target, siblings, refOrigin(schema))
}

// refOrigin is a placeholder keyword-location tag used only for
// x-origin-keyword provenance when merging a $ref target with its sibling
// keywords; it carries no semantic meaning for resolution itself.
func refOrigin(s *Schema) string {
	if s.Ref != "" {
		return s.Ref
	}
	return s.DynamicRef
}

// reconcileNode re-derives a single node's effective schema/value/children
// after a dependency changed, per spec.md 4.7's reconcileNode.
func (r *SchemaRuntime) reconcileNode(node *FieldNode) {
	value, err := GetPointer(r.rootValue, node.JSONPointer)
	if err != nil {
		value = nil
	}

	resolved := resolveSchemaRef(node.OriginalSchema)
	effective := ResolveEffectiveSchema(resolved, value, node.SchemaPath, node.JSONPointer, false)

	sameShape := schemasEquivalent(node.Schema, effective.Schema) && node.Type == effective.Type

	if sameShape {
		node.Value = value
		node.HasValue = value != nil
		if dv, ok := getDefaultValue(effective.Schema, false); ok {
			node.DefaultValue, node.HasDefaultValue = dv, true
		} else {
			node.DefaultValue, node.HasDefaultValue = nil, false
		}
		node.Schema = effective.Schema
		node.Version = r.nextVersion()
		r.reconcileChildren(node)
		return
	}

	r.unregisterSubtree(node)

	rebuilt := r.buildNode(node.OriginalSchema, node.SchemaPath, node.JSONPointer, value, true)
	r.registerDependencies(rebuilt)

	node.Schema = rebuilt.Schema
	node.Type = rebuilt.Type
	node.Value = rebuilt.Value
	node.HasValue = rebuilt.HasValue
	node.DefaultValue = rebuilt.DefaultValue
	node.HasDefaultValue = rebuilt.HasDefaultValue
	node.Children = rebuilt.Children
	node.Dependencies = rebuilt.Dependencies
	node.Version = r.nextVersion()
	r.nodesByPointer[node.JSONPointer] = node

	r.notify(node.JSONPointer, Event{Type: eventSchema, Path: node.JSONPointer})
}

// reconcileChildren rebuilds node's child set to match its current value,
// reusing existing children by identical jsonPointer where possible.
func (r *SchemaRuntime) reconcileChildren(node *FieldNode) {
	existing := make(map[string]*FieldNode, len(node.Children))
	for _, child := range node.Children {
		existing[child.JSONPointer] = child
	}

	var fresh []*FieldNode
	switch node.Type {
	case "object":
		obj, ok := node.Value.(map[string]any)
		if !ok {
			break
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if node.Schema.PatternProperties != nil {
			node.Schema.compilePatterns()
		}
		for _, key := range keys {
			childPointer := node.JSONPointer + "/" + key
			if child, ok := existing[childPointer]; ok {
				delete(existing, childPointer)
				fresh = append(fresh, child)
				continue
			}
			childSchema := resolveObjectChildSchema(node.Schema, key)
			childPath := node.SchemaPath + "/properties/" + key
			fresh = append(fresh, r.buildNode(childSchema, childPath, childPointer, obj[key], false))
		}
	case "array":
		arr, ok := node.Value.([]any)
		if !ok {
			break
		}
		for i, item := range arr {
			childPointer := node.JSONPointer + "/" + itoa(i)
			if child, ok := existing[childPointer]; ok {
				delete(existing, childPointer)
				fresh = append(fresh, child)
				continue
			}
			childSchema := resolveArrayChildSchema(node.Schema, i)
			childPath := node.SchemaPath + "/items"
			if i < len(node.Schema.PrefixItems) {
				childPath = node.SchemaPath + "/prefixItems/" + itoa(i)
			}
			fresh = append(fresh, r.buildNode(childSchema, childPath, childPointer, item, false))
		}
	}

	for _, dropped := range existing {
		r.unregisterSubtree(dropped)
	}

	node.Children = fresh
}

// schemasEquivalent is a structural deep-equal over the fields mergeSchema
// and ResolveEffectiveSchema actually vary; used by reconcileNode to decide
// whether the node's effective schema shape changed.
func schemasEquivalent(a, b *Schema) bool {
	if a == nil || b == nil {
		return a == b
	}
	am, _ := compactJSON(a)
	bm, _ := compactJSON(b)
	return am == bm
}

func compactJSON(s *Schema) (string, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetValue resolves path against the root instance value.
func (r *SchemaRuntime) GetValue(path string) any {
	value, err := GetPointer(r.rootValue, path)
	if err != nil {
		return nil
	}
	return value
}

// FindNode returns the FieldNode at path, or nil. Identical to GetNode.
func (r *SchemaRuntime) FindNode(path string) *FieldNode {
	return r.nodesByPointer[path]
}

// GetNode is an alias for FindNode, per spec.md 4.7's ".findNode(path) ->
// FieldNode? (identical to getNode)".
func (r *SchemaRuntime) GetNode(path string) *FieldNode {
	return r.FindNode(path)
}

// SetValue writes v at path via JSON-Pointer set semantics, then
// reconciles every node whose effective schema depends on path, per
// spec.md 4.7's setValue.
func (r *SchemaRuntime) SetValue(path string, v any) error {
	if isRootPointer(path) && r.root != nil && (r.root.Type == "object" || r.root.Type == "array") {
		if !isContainerValue(v) {
			return ErrRootReplacement
		}
	}

	updated, err := SetPointer(r.rootValue, path, v)
	if err != nil {
		return err
	}
	r.rootValue = updated

	r.notify(path, Event{Type: eventValue, Path: path})

	r.updateNodeValue(path)

	bucket := r.dependentsMap[path]
	if len(bucket) == 0 {
		return nil
	}
	pointers := make([]string, 0, len(bucket))
	for p := range bucket {
		pointers = append(pointers, p)
	}
	sort.Strings(pointers)
	for _, p := range pointers {
		node := bucket[p]
		if node == nil || r.updatingNodes[node.JSONPointer] {
			continue
		}
		r.updatingNodes[node.JSONPointer] = true
		r.reconcileNode(node)
		delete(r.updatingNodes, node.JSONPointer)
	}
	return nil
}

// updateNodeValue reassigns value from the root instance at path (and every
// descendant's pointer), refreshing error without re-resolving schema shape.
func (r *SchemaRuntime) updateNodeValue(path string) {
	node, ok := r.nodesByPointer[path]
	if !ok {
		return
	}
	value, err := GetPointer(r.rootValue, path)
	if err != nil {
		value = nil
	}
	node.Value = value
	node.HasValue = value != nil
	node.Error = node.Schema.Validate(value, WithShallow())
	node.Version = r.nextVersion()

	for _, child := range node.Children {
		r.updateNodeValue(child.JSONPointer)
	}
}

// AddChild initializes parentPath's key slot with a type-based default (or
// undefined, still binding the key), then treats the write as a value
// mutation. Returns false if parentPath does not name an object node.
func (r *SchemaRuntime) AddChild(parentPath, key string) bool {
	parent := r.nodesByPointer[parentPath]
	if parent == nil || parent.Type != "object" {
		return false
	}

	childSchema := resolveObjectChildSchema(parent.Schema, key)
	value, _ := getDefaultValue(childSchema, true)

	if err := r.SetValue(parentPath+"/"+key, value); err != nil {
		return false
	}
	return true
}

// RemoveValue deletes the value at path. Required fields are left bound to
// nil (surfacing as a missing-required validation error); optional fields
// are removed from the parent instance entirely.
func (r *SchemaRuntime) RemoveValue(path string) bool {
	parentPath, key := splitParentPointer(path)
	parent := r.nodesByPointer[parentPath]

	required := false
	if parent != nil {
		for _, req := range parent.Schema.Required {
			if req == key {
				required = true
				break
			}
		}
	}

	if required {
		return r.SetValue(path, nil) == nil
	}

	updated, err := RemovePointer(r.rootValue, path)
	if err != nil {
		return false
	}
	r.rootValue = updated

	r.unregisterSubtree(r.nodesByPointer[path])
	if parent != nil {
		r.reconcileChildren(parent)
	}

	r.notify(path, Event{Type: eventValue, Path: path})
	return true
}

// isRootPointer reports whether path denotes the document root under either
// pointer convention the runtime accepts ("", "#", "/").
func isRootPointer(path string) bool {
	return path == "" || path == rootWatcherKey || path == "/"
}

// isContainerValue reports whether v can stand in for an object/array root
// without orphaning the existing tree structure underneath it.
func isContainerValue(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

func splitParentPointer(path string) (parent, key string) {
	idx := lastSlash(path)
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

// UpdateSchema fully re-initializes the tree against newSchema while
// preserving the current instance value, emitting a schema event at root.
func (r *SchemaRuntime) UpdateSchema(newSchema *Schema) {
	current := r.rootValue
	r.rootSchema = newSchema
	r.initializeTree(current)
	r.notify("", Event{Type: eventSchema, Path: "#"})
}

// Subscribe registers cb to receive events at path ("#" for every event at
// any path). The returned disposer removes cb and any now-empty bucket.
func (r *SchemaRuntime) Subscribe(path string, cb func(Event)) func() {
	id := r.nextWatcherID
	r.nextWatcherID++
	r.watchers[path] = append(r.watchers[path], watcherEntry{id: id, cb: cb})

	return func() {
		entries := r.watchers[path]
		for i, e := range entries {
			if e.id == id {
				r.watchers[path] = append(entries[:i], entries[i+1:]...)
				break
			}
		}
		if len(r.watchers[path]) == 0 {
			delete(r.watchers, path)
		}
	}
}

// notify delivers evt to watchers on path, then (unless path is already the
// root bucket) to watchers on "#". A panicking watcher is caught and
// logged so one bad subscriber never stops the others.
func (r *SchemaRuntime) notify(path string, evt Event) {
	r.dispatch(path, evt)
	if path != rootWatcherKey {
		r.dispatch(rootWatcherKey, evt)
	}
}

func (r *SchemaRuntime) dispatch(path string, evt Event) {
	for _, entry := range r.watchers[path] {
		safeNotify(entry.cb, evt)
	}
}

func safeNotify(cb func(Event), evt Event) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("jsonschema: watcher panicked: %v", rec)
		}
	}()
	cb(evt)
}

// Validate re-runs validation at path (root if path is empty) and stores
// the result on the corresponding node's Error field.
func (r *SchemaRuntime) Validate(path string) error {
	node := r.nodesByPointer[path]
	if node == nil {
		return ErrNodeNotFound
	}
	node.Error = node.Schema.Validate(node.Value)
	return nil
}
