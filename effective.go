package jsonschema

// EffectiveResult is the outcome of resolving a schema's effective shape
// against a concrete value: the applicators have been absorbed, and type has
// been pinned down to the single branch the value actually matches.
type EffectiveResult struct {
	Schema *Schema
	Type   string
	Error  *EvaluationResult
}

// ResolveEffectiveSchema evaluates if/then/else, allOf, anyOf, and oneOf
// against value and produces a merged, residue-free schema plus the
// effective type, per spec.md 4.4. The applicator keywords are stripped
// from the returned schema once absorbed, so the validator (and the tree
// runtime) never re-evaluates them.
//
// When validate is true, the merged schema is re-validated (shallow, so
// child keyword errors are not double-reported) and the outcome is
// returned as Error.
func ResolveEffectiveSchema(schema *Schema, value any, keywordLocation, instanceLocation string, validate bool) *EffectiveResult {
	if schema == nil {
		return &EffectiveResult{Schema: nil, Type: "unknown"}
	}
	if schema.Boolean != nil {
		return &EffectiveResult{Schema: schema, Type: getDataType(value)}
	}

	effective := copySchema(schema)

	if effective.If != nil {
		ifResult := effective.If.Validate(value, WithFastFail())
		if ifResult.IsValid() {
			if effective.Then != nil {
				thenResolved := ResolveEffectiveSchema(effective.Then, value, keywordLocation+"/then", instanceLocation, false)
				effective = mergeSchema(effective, thenResolved.Schema, keywordLocation+"/then")
			}
		} else if effective.Else != nil {
			elseResolved := ResolveEffectiveSchema(effective.Else, value, keywordLocation+"/else", instanceLocation, false)
			effective = mergeSchema(effective, elseResolved.Schema, keywordLocation+"/else")
		}
		effective.If, effective.Then, effective.Else = nil, nil, nil
	}

	if len(effective.AllOf) > 0 {
		for i, branch := range effective.AllOf {
			resolved := ResolveEffectiveSchema(branch, value, keywordLocationIndex(keywordLocation, "allOf", i), instanceLocation, false)
			effective = mergeSchema(effective, resolved.Schema, keywordLocationIndex(keywordLocation, "allOf", i))
		}
		effective.AllOf = nil
	}

	if len(effective.AnyOf) > 0 {
		for i, branch := range effective.AnyOf {
			if !branch.Validate(value).IsValid() {
				continue
			}
			resolved := ResolveEffectiveSchema(branch, value, keywordLocationIndex(keywordLocation, "anyOf", i), instanceLocation, false)
			effective = mergeSchema(effective, resolved.Schema, keywordLocationIndex(keywordLocation, "anyOf", i))
		}
		effective.AnyOf = nil
	}

	if len(effective.OneOf) > 0 {
		matchIdx := -1
		matchCount := 0
		for i, branch := range effective.OneOf {
			if branch.Validate(value).IsValid() {
				matchCount++
				if matchCount == 1 {
					matchIdx = i
				}
			}
		}
		if matchCount == 1 {
			resolved := ResolveEffectiveSchema(effective.OneOf[matchIdx], value, keywordLocationIndex(keywordLocation, "oneOf", matchIdx), instanceLocation, false)
			effective = mergeSchema(effective, resolved.Schema, keywordLocationIndex(keywordLocation, "oneOf", matchIdx))
		}
		effective.OneOf = nil
	}

	effectiveType := resolveType(effective.Type, value)

	result := &EffectiveResult{Schema: effective, Type: effectiveType}

	if validate {
		result.Error = effective.Validate(value, WithShallow())
	}

	return result
}

func keywordLocationIndex(base, keyword string, i int) string {
	return base + "/" + keyword + "/" + itoa(i)
}

// resolveType picks the allowed type that matches value: the first entry in
// declared that matches (an integer value also matches "number") if
// declared is non-empty, else the detected instance type.
func resolveType(declared SchemaType, value any) string {
	if len(declared) == 0 {
		return getDataType(value)
	}

	instanceType := getDataType(value)
	for _, t := range declared {
		if t == instanceType {
			return t
		}
		if t == "number" && instanceType == "integer" {
			return t
		}
	}
	return declared[0]
}

// copySchema returns a shallow copy of s: a new *Schema with every field
// value copied, safe to mutate (e.g. stripping If/Then/Else) without
// touching the original tree. Nested *Schema pointers are shared, not
// deep-copied, since mergeSchema only ever replaces whole fields.
func copySchema(s *Schema) *Schema {
	cp := *s
	return &cp
}

// mergeSchema combines override onto base following spec.md 4.4's per-
// keyword merge table. Neither base nor override is modified: the result is
// a copy of base with override merged in (base itself when override is nil).
// overrideOrigin tags newly-merged properties/patternProperties entries with
// x-origin-keyword provenance for UI consumers.
func mergeSchema(base, override *Schema, overrideOrigin string) *Schema {
	if override == nil {
		return base
	}
	if base == nil {
		return copySchema(override)
	}

	merged := copySchema(base)

	merged.Defs = mergeDefsUnion(base.Defs, override.Defs)
	merged.Required = unionStrings(base.Required, override.Required)
	merged.Type = intersectTypes(base.Type, override.Type)
	merged.DependentRequired = mergeDependentRequiredUnion(base.DependentRequired, override.DependentRequired)
	merged.DependentSchemas = mergeDependentSchemasUnion(base.DependentSchemas, override.DependentSchemas, overrideOrigin)
	merged.Properties = mergePropertiesRecursive(base.Properties, override.Properties, overrideOrigin, "properties")
	merged.PatternProperties = mergePropertiesRecursive(base.PatternProperties, override.PatternProperties, overrideOrigin, "patternProperties")
	merged.Items = mergeItemsRecursive(base.Items, override.Items)
	merged.PrefixItems = mergePrefixItemsPairwise(base.PrefixItems, override.PrefixItems, overrideOrigin)
	merged.AllOf = append(append([]*Schema{}, base.AllOf...), override.AllOf...)
	merged.AnyOf = append(append([]*Schema{}, base.AnyOf...), override.AnyOf...)
	merged.OneOf = append(append([]*Schema{}, base.OneOf...), override.OneOf...)

	// if/then/else are context-dependent, not structurally merged: override wins.
	if override.If != nil || override.Then != nil || override.Else != nil {
		merged.If, merged.Then, merged.Else = override.If, override.Then, override.Else
	}

	// Everything else not named above: override spreads over base field by
	// field, only where override actually sets a value.
	spreadOverride(merged, override)

	return merged
}

// spreadOverride copies every override field not already handled by a
// dedicated keyword-merge rule, when override's value is non-zero/non-nil.
func spreadOverride(merged, override *Schema) {
	if override.ID != "" {
		merged.ID = override.ID
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	if override.Format != nil {
		merged.Format = override.Format
	}
	if override.Title != nil {
		merged.Title = override.Title
	}
	if override.Description != nil {
		merged.Description = override.Description
	}
	if override.Default != nil {
		merged.Default = override.Default
	}
	if override.Deprecated != nil {
		merged.Deprecated = override.Deprecated
	}
	if override.ReadOnly != nil {
		merged.ReadOnly = override.ReadOnly
	}
	if override.WriteOnly != nil {
		merged.WriteOnly = override.WriteOnly
	}
	if len(override.Examples) > 0 {
		merged.Examples = override.Examples
	}
	if override.Enum != nil {
		merged.Enum = override.Enum
	}
	if override.Const != nil {
		merged.Const = override.Const
	}
	if override.MultipleOf != nil {
		merged.MultipleOf = override.MultipleOf
	}
	if override.Maximum != nil {
		merged.Maximum = override.Maximum
	}
	if override.ExclusiveMaximum != nil {
		merged.ExclusiveMaximum = override.ExclusiveMaximum
	}
	if override.Minimum != nil {
		merged.Minimum = override.Minimum
	}
	if override.ExclusiveMinimum != nil {
		merged.ExclusiveMinimum = override.ExclusiveMinimum
	}
	if override.MaxLength != nil {
		merged.MaxLength = override.MaxLength
	}
	if override.MinLength != nil {
		merged.MinLength = override.MinLength
	}
	if override.Pattern != nil {
		merged.Pattern = override.Pattern
	}
	if override.MaxItems != nil {
		merged.MaxItems = override.MaxItems
	}
	if override.MinItems != nil {
		merged.MinItems = override.MinItems
	}
	if override.UniqueItems != nil {
		merged.UniqueItems = override.UniqueItems
	}
	if override.MaxContains != nil {
		merged.MaxContains = override.MaxContains
	}
	if override.MinContains != nil {
		merged.MinContains = override.MinContains
	}
	if override.Contains != nil {
		merged.Contains = override.Contains
	}
	if override.MaxProperties != nil {
		merged.MaxProperties = override.MaxProperties
	}
	if override.MinProperties != nil {
		merged.MinProperties = override.MinProperties
	}
	// additionalProperties, propertyNames, not, unevaluated*: override wins via spread.
	if override.AdditionalProperties != nil {
		merged.AdditionalProperties = override.AdditionalProperties
	}
	if override.PropertyNames != nil {
		merged.PropertyNames = override.PropertyNames
	}
	if override.Not != nil {
		merged.Not = override.Not
	}
	if override.UnevaluatedProperties != nil {
		merged.UnevaluatedProperties = override.UnevaluatedProperties
	}
	if override.UnevaluatedItems != nil {
		merged.UnevaluatedItems = override.UnevaluatedItems
	}
	if len(override.Extra) > 0 {
		extra := make(map[string]any, len(merged.Extra)+len(override.Extra))
		for k, v := range merged.Extra {
			extra[k] = v
		}
		for k, v := range override.Extra {
			extra[k] = v
		}
		merged.Extra = extra
	}
}

func mergeDefsUnion(base, override map[string]*Schema) map[string]*Schema {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string]*Schema, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

func unionStrings(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// intersectTypes implements spec.md 4.4's "type: intersection. Empty
// intersection => undefined (no type constraint)" rule.
func intersectTypes(a, b SchemaType) SchemaType {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	bSet := make(map[string]bool, len(b))
	for _, t := range b {
		bSet[t] = true
	}
	var out SchemaType
	for _, t := range a {
		if bSet[t] {
			out = append(out, t)
		}
	}
	return out
}

func mergeDependentRequiredUnion(base, override map[string][]string) map[string][]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string][]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = unionStrings(merged[k], v)
	}
	return merged
}

func mergeDependentSchemasUnion(base, override map[string]*Schema, overrideOrigin string) map[string]*Schema {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string]*Schema, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		if existing, ok := merged[k]; ok {
			merged[k] = mergeSchema(existing, v, overrideOrigin+"/dependentSchemas/"+k)
		} else {
			merged[k] = v
		}
	}
	return merged
}

// mergePropertiesRecursive implements spec.md 4.4's properties/
// patternProperties rule: union of keys, overlapping keys recursively
// merged, each override-contributed value tagged with x-origin-keyword.
func mergePropertiesRecursive(base, override *SchemaMap, overrideOrigin, keyword string) *SchemaMap {
	if base == nil && override == nil {
		return nil
	}
	merged := make(SchemaMap)
	if base != nil {
		for k, v := range *base {
			merged[k] = v
		}
	}
	if override != nil {
		for k, v := range *override {
			origin := overrideOrigin + "/" + keyword + "/" + k
			if existing, ok := merged[k]; ok {
				merged[k] = taggedOrigin(mergeSchema(existing, v, origin), origin)
			} else {
				merged[k] = taggedOrigin(copySchema(v), origin)
			}
		}
	}
	return &merged
}

func taggedOrigin(s *Schema, origin string) *Schema {
	extra := make(map[string]any, len(s.Extra)+1)
	for k, v := range s.Extra {
		extra[k] = v
	}
	extra["x-origin-keyword"] = origin
	s.Extra = extra
	return s
}

func mergeItemsRecursive(base, override *Schema) *Schema {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}
	return mergeSchema(base, override, "")
}

// mergePrefixItemsPairwise implements spec.md 4.4's prefixItems rule:
// positional merge; a slot present on only one side is used directly.
func mergePrefixItemsPairwise(base, override []*Schema, overrideOrigin string) []*Schema {
	if len(base) == 0 {
		return override
	}
	if len(override) == 0 {
		return base
	}

	length := len(base)
	if len(override) > length {
		length = len(override)
	}

	merged := make([]*Schema, length)
	for i := 0; i < length; i++ {
		var b, o *Schema
		if i < len(base) {
			b = base[i]
		}
		if i < len(override) {
			o = override[i]
		}
		switch {
		case b != nil && o != nil:
			merged[i] = mergeSchema(b, o, keywordLocationIndex(overrideOrigin, "prefixItems", i))
		case o != nil:
			merged[i] = taggedOrigin(copySchema(o), keywordLocationIndex(overrideOrigin, "prefixItems", i))
		default:
			merged[i] = b
		}
	}
	return merged
}

// itoa avoids pulling in strconv just for small non-negative indices used in
// keyword-location strings.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}
