package jsonschema

import "strings"

// Draft identifies the JSON Schema specification version a document was
// authored against, prior to normalization to 2020-12.
type Draft string

const (
	Draft04     Draft = "draft-04"
	Draft07     Draft = "draft-07"
	Draft201909 Draft = "draft-2019-09"
	Draft202012 Draft = "draft-2020-12"
)

const schema202012URI = "https://json-schema.org/draft/2020-12/schema"

// NormalizeOptions configures a Normalize call.
type NormalizeOptions struct {
	// SourceDraft overrides draft detection when the caller already knows
	// which draft a document was authored against.
	SourceDraft Draft

	// InferRequired turns on the "extended normalizer" inference pass
	// (spec.md's opinionated const/enum-implies-required rule). Off by
	// default: schemas migrated from elsewhere should opt in explicitly.
	InferRequired bool
}

// NormalizeOption configures a NormalizeOptions value.
type NormalizeOption func(*NormalizeOptions)

// WithSourceDraft pins the draft normalization assumes, skipping detection.
func WithSourceDraft(d Draft) NormalizeOption {
	return func(o *NormalizeOptions) { o.SourceDraft = d }
}

// WithInferRequired enables the extended normalizer's required-inference pass.
func WithInferRequired(infer bool) NormalizeOption {
	return func(o *NormalizeOptions) { o.InferRequired = infer }
}

// Normalize rewrites any supported-draft JSON Schema document (decoded as
// bool, map[string]any, or any other JSON-decoded value) into a canonical
// draft-2020-12 shape. It never mutates its input and never panics on
// malformed input: anything that isn't a bool or object collapses to {}.
// Normalize is deterministic and idempotent: Normalize(Normalize(s)) is
// equal to Normalize(s).
func Normalize(schemaIn any, opts ...NormalizeOption) map[string]any {
	options := &NormalizeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	root, _ := normalizeAny(schemaIn, options, options.InferRequired)
	if root == nil {
		return map[string]any{}
	}
	return root
}

// DetectDraft guesses which draft a raw schema document was authored
// against, from its $schema URI if present, else from structural heuristics.
func DetectDraft(schemaIn any) Draft {
	m, ok := schemaIn.(map[string]any)
	if !ok {
		return Draft202012
	}

	if uri, ok := m["$schema"].(string); ok {
		switch {
		case strings.Contains(uri, "draft-04") || strings.Contains(uri, "draft4"):
			return Draft04
		case strings.Contains(uri, "draft-07") || strings.Contains(uri, "draft7"):
			return Draft07
		case strings.Contains(uri, "2019-09"):
			return Draft201909
		case strings.Contains(uri, "2020-12"):
			return Draft202012
		}
	}

	if _, ok := m["prefixItems"]; ok {
		return Draft202012
	}
	if _, ok := m["$recursiveRef"]; ok {
		return Draft201909
	}
	if _, ok := m["$recursiveAnchor"]; ok {
		return Draft201909
	}
	if _, ok := m["unevaluatedProperties"]; ok {
		return Draft201909
	}
	if _, ok := m["unevaluatedItems"]; ok {
		return Draft201909
	}
	if _, hasID := m["id"]; hasID {
		if _, hasDollarID := m["$id"]; !hasDollarID {
			return Draft04
		}
	}
	if isBoolExclusive(m["exclusiveMaximum"]) || isBoolExclusive(m["exclusiveMinimum"]) {
		return Draft04
	}
	if _, ok := m["dependencies"]; ok {
		if _, hasID := m["$id"]; hasID {
			return Draft07
		}
		return Draft04
	}
	if _, ok := m["additionalItems"]; ok {
		if _, hasID := m["$id"]; hasID {
			return Draft07
		}
		return Draft04
	}

	return Draft202012
}

func isBoolExclusive(v any) bool {
	_, ok := v.(bool)
	return ok
}

// isKnownDraft reports whether d is one of the drafts this normalizer
// recognizes. An empty Draft means "detect", which is always valid.
func isKnownDraft(d Draft) bool {
	switch d {
	case "", Draft04, Draft07, Draft201909, Draft202012:
		return true
	default:
		return false
	}
}

// normalizeAny normalizes a single schema node. forceRequired propagates the
// extended normalizer's forced-required-inference mode into dependentSchemas
// and if-subschemas, per spec.md 4.1.
func normalizeAny(schemaIn any, options *NormalizeOptions, forceRequired bool) (map[string]any, bool) {
	switch v := schemaIn.(type) {
	case bool:
		if v {
			return map[string]any{}, true
		}
		return map[string]any{"not": map[string]any{}}, true
	case map[string]any:
		return normalizeObject(v, options, forceRequired), true
	default:
		return map[string]any{}, false
	}
}

func normalizeObject(in map[string]any, options *NormalizeOptions, forceRequired bool) map[string]any {
	draft := options.SourceDraft
	if draft == "" {
		draft = DetectDraft(in)
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}

	switch draft {
	case Draft04:
		normalizeDraft04(out)
	case Draft07:
		normalizeDraft07(out)
	case Draft201909:
		normalizeDraft201909(out)
	}

	normalizeExtensions(out)
	recurseSubschemas(out, options)

	if options.InferRequired || forceRequired {
		inferRequired(out)
	}

	if _, hadSchema := in["$schema"]; hadSchema {
		out["$schema"] = schema202012URI
	}

	return out
}

func normalizeDraft04(out map[string]any) {
	if id, ok := out["id"]; ok {
		if _, hasDollarID := out["$id"]; !hasDollarID {
			out["$id"] = id
		}
		delete(out, "id")
	}

	if excl, ok := out["exclusiveMaximum"].(bool); ok {
		if excl {
			if maxV, ok := out["maximum"]; ok {
				out["exclusiveMaximum"] = maxV
				delete(out, "maximum")
			} else {
				delete(out, "exclusiveMaximum")
			}
		} else {
			delete(out, "exclusiveMaximum")
		}
	}
	if excl, ok := out["exclusiveMinimum"].(bool); ok {
		if excl {
			if minV, ok := out["minimum"]; ok {
				out["exclusiveMinimum"] = minV
				delete(out, "minimum")
			} else {
				delete(out, "exclusiveMinimum")
			}
		} else {
			delete(out, "exclusiveMinimum")
		}
	}

	if ref, ok := out["$ref"].(string); ok && ref != "" {
		keep := map[string]any{"$ref": ref}
		for _, sibling := range []string{"$schema", "$id", "$comment"} {
			if v, ok := out[sibling]; ok {
				keep[sibling] = v
			}
		}
		for k := range out {
			delete(out, k)
		}
		for k, v := range keep {
			out[k] = v
		}
	}

	if enum, ok := out["enum"].([]any); ok && len(enum) == 1 {
		out["const"] = enum[0]
		delete(out, "enum")
	}

	normalizeDraft07(out)
}

func normalizeDraft07(out map[string]any) {
	if items, ok := out["items"].([]any); ok {
		out["prefixItems"] = items
		delete(out, "items")
		if additional, ok := out["additionalItems"]; ok {
			out["items"] = additional
			delete(out, "additionalItems")
		}
	}

	normalizeDraft07Dependencies(out)
}

// normalizeDraft07Dependencies splits the overloaded draft-07 "dependencies"
// keyword into dependentRequired (string[] values) and dependentSchemas
// (schema values), shared by the draft-04 and draft-07 rewrite paths.
func normalizeDraft07Dependencies(out map[string]any) {
	deps, ok := out["dependencies"].(map[string]any)
	if !ok {
		return
	}

	dependentRequired := map[string]any{}
	dependentSchemas := map[string]any{}

	for key, v := range deps {
		switch dep := v.(type) {
		case []any:
			dependentRequired[key] = dep
		default:
			dependentSchemas[key] = dep
		}
	}

	if len(dependentRequired) > 0 {
		out["dependentRequired"] = dependentRequired
	}
	if len(dependentSchemas) > 0 {
		out["dependentSchemas"] = dependentSchemas
	}
	delete(out, "dependencies")
}

func normalizeDraft201909(out map[string]any) {
	if ref, ok := out["$recursiveRef"].(string); ok {
		if ref == "#" {
			out["$dynamicRef"] = "#recursiveAnchor"
		} else {
			out["$dynamicRef"] = ref
		}
		delete(out, "$recursiveRef")
	}
	if anchor, ok := out["$recursiveAnchor"].(bool); ok && anchor {
		out["$dynamicAnchor"] = "recursiveAnchor"
		delete(out, "$recursiveAnchor")
	}
}

func normalizeExtensions(out map[string]any) {
	if nullable, ok := out["nullable"].(bool); ok && nullable {
		switch t := out["type"].(type) {
		case string:
			if t != "null" {
				out["type"] = []any{t, "null"}
			}
		case []any:
			if !containsString(t, "null") {
				out["type"] = append(append([]any{}, t...), "null")
			}
		}
	}

	if example, ok := out["example"]; ok {
		if _, hasExamples := out["examples"]; !hasExamples {
			out["examples"] = []any{example}
		}
	}

	if defs, ok := out["definitions"]; ok {
		if _, hasDollarDefs := out["$defs"]; !hasDollarDefs {
			out["$defs"] = defs
		}
		delete(out, "definitions")
	}
}

func containsString(list []any, s string) bool {
	for _, v := range list {
		if str, ok := v.(string); ok && str == s {
			return true
		}
	}
	return false
}

// recurseSubschemas walks every subschema-bearing slot and normalizes it in
// place, the same "every subschema slot" enumeration used elsewhere
// (ref.go's resolveReferences, schema.go's initializeNestedSchemas).
func recurseSubschemas(out map[string]any, options *NormalizeOptions) {
	normalizeChild := func(key string, forceRequired bool) {
		if child, ok := out[key]; ok {
			normalized, _ := normalizeAny(child, options, forceRequired)
			out[key] = normalized
		}
	}
	normalizeChildList := func(key string) {
		if children, ok := out[key].([]any); ok {
			normalized := make([]any, len(children))
			for i, child := range children {
				n, _ := normalizeAny(child, options, false)
				normalized[i] = n
			}
			out[key] = normalized
		}
	}
	normalizeChildMap := func(key string, forceRequired bool) {
		if children, ok := out[key].(map[string]any); ok {
			normalized := make(map[string]any, len(children))
			for k, child := range children {
				n, _ := normalizeAny(child, options, forceRequired)
				normalized[k] = n
			}
			out[key] = normalized
		}
	}

	normalizeChildMap("properties", false)
	normalizeChildMap("patternProperties", false)
	normalizeChild("additionalProperties", false)
	normalizeChild("items", false)
	normalizeChildList("prefixItems")
	normalizeChild("contains", false)
	normalizeChildList("allOf")
	normalizeChildList("anyOf")
	normalizeChildList("oneOf")
	normalizeChild("not", false)
	normalizeChild("if", true)
	normalizeChild("then", false)
	normalizeChild("else", false)
	normalizeChildMap("dependentSchemas", true)
	normalizeChild("unevaluatedItems", false)
	normalizeChild("unevaluatedProperties", false)
	normalizeChild("propertyNames", false)
	normalizeChild("contentSchema", false)
	normalizeChildMap("$defs", false)
}

// inferRequired implements the extended normalizer's opt-in rule: properties
// whose subschema has const/non-empty enum, or that are flagged required by
// common extension keywords, are added to the parent's required list.
func inferRequired(out map[string]any) {
	properties, ok := out["properties"].(map[string]any)
	if !ok {
		return
	}

	required := map[string]bool{}
	for _, r := range asStringList(out["required"]) {
		required[r] = true
	}

	var ordered []string
	if existing, ok := out["required"].([]any); ok {
		for _, r := range existing {
			if s, ok := r.(string); ok {
				ordered = append(ordered, s)
			}
		}
	}

	addRequired := func(name string) {
		if !required[name] {
			required[name] = true
			ordered = append(ordered, name)
		}
	}

	for name, propAny := range properties {
		prop, ok := propAny.(map[string]any)
		if !ok {
			continue
		}
		if _, hasConst := prop["const"]; hasConst {
			addRequired(name)
			continue
		}
		if enum, ok := prop["enum"].([]any); ok && len(enum) > 0 {
			addRequired(name)
			continue
		}
		if flag, ok := prop["x-required"].(bool); ok && flag {
			addRequired(name)
		}
	}

	if discriminator, ok := out["discriminator"].(map[string]any); ok {
		if propName, ok := discriminator["propertyName"].(string); ok && propName != "" {
			addRequired(propName)
		}
	}

	if items, ok := out["items"].(map[string]any); ok {
		if mergeKey, ok := items["x-kubernetes-patch-merge-key"].(string); ok && mergeKey != "" {
			itemsRequired := asStringList(items["required"])
			if !containsStr(itemsRequired, mergeKey) {
				items["required"] = append(toAnySlice(itemsRequired), mergeKey)
			}
		}
	}

	if len(ordered) > 0 {
		out["required"] = toAnySlice(ordered)
	}
}

func asStringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func toAnySlice(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}
