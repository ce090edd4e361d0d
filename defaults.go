package jsonschema

import "github.com/google/uuid"

// typeNullable reports whether schema's declared type list includes "null",
// per spec.md 4.6: nullability is a property of the type list, not a
// separate keyword, and the non-null member of the list drives default
// selection.
func typeNullable(schema *Schema) bool {
	if schema == nil {
		return false
	}
	for _, t := range schema.Type {
		if t == "null" {
			return true
		}
	}
	return false
}

// primaryType returns the first non-"null" entry in schema.Type, or "" if
// none is declared.
func primaryType(schema *Schema) string {
	for _, t := range schema.Type {
		if t != "null" {
			return t
		}
	}
	return ""
}

// getDefaultValue computes the value getDefaultValue(schema, required) would
// seed per spec.md 4.6's priority: const > default > type-based. Type-based
// generation only fires when required is true, or for object/array
// containers that themselves own required children. ok is false when no
// value should be materialized (the JS "undefined" case).
func getDefaultValue(schema *Schema, required bool) (value any, ok bool) {
	if schema == nil {
		return nil, false
	}

	if schema.Const != nil && schema.Const.IsSet {
		return schema.Const.Value, true
	}

	if schema.Default != nil {
		resolved, err := evaluateSchemaDefault(schema)
		if err == nil {
			return resolved, true
		}
		return schema.Default, true
	}

	nullable := typeNullable(schema)
	typ := primaryType(schema)
	if typ == "" && len(schema.Type) > 0 {
		typ = schema.Type[0]
	}

	switch typ {
	case "object":
		if len(schema.Required) == 0 {
			if !required {
				return nil, false
			}
			if nullable {
				return nil, true
			}
			return map[string]any{}, true
		}
		obj := map[string]any{}
		if schema.Properties != nil {
			for _, name := range schema.Required {
				propSchema, has := (*schema.Properties)[name]
				if !has {
					continue
				}
				if v, has := getDefaultValue(propSchema, true); has {
					obj[name] = v
				}
			}
		}
		return obj, true

	case "array":
		if len(schema.PrefixItems) > 0 {
			items := make([]any, len(schema.PrefixItems))
			for i, itemSchema := range schema.PrefixItems {
				v, _ := getDefaultValue(itemSchema, true)
				items[i] = v
			}
			return items, true
		}
		if !required {
			return nil, false
		}
		if nullable {
			return nil, true
		}
		return []any{}, true

	default:
		if !required {
			return nil, false
		}
		if nullable {
			return nil, true
		}
		return zeroValueForType(typ), true
	}
}

// zeroValueForType returns the JSON Schema primitive zero value for typ,
// matching the "" / 0 / false / null table in spec.md 4.6.
func zeroValueForType(typ string) any {
	switch typ {
	case "string":
		return ""
	case "integer", "number":
		return 0
	case "boolean":
		return false
	default:
		return nil
	}
}

// evaluateSchemaDefault resolves schema.Default, dereferencing dynamic
// function-call defaults ("now()", "uuid()", ...) the same way Unmarshal's
// struct-mapping path does via evaluateDefaultValue, but standalone (no
// destination struct is involved in tree-runtime default seeding).
func evaluateSchemaDefault(schema *Schema) (any, error) {
	defaultStr, ok := schema.Default.(string)
	if !ok {
		return schema.Default, nil
	}

	call, err := parseFunctionCall(defaultStr)
	if err != nil || call == nil {
		return defaultStr, nil
	}

	compiler := schema.GetCompiler()
	if compiler == nil {
		return defaultStr, nil
	}

	fn, exists := compiler.getDefaultFunc(call.Name)
	if !exists {
		return defaultStr, nil
	}

	value, err := fn(call.Args...)
	if err != nil {
		return defaultStr, nil //nolint:nilerr // fall back to literal default text on function failure
	}
	return value, nil
}

// DefaultUUIDFunc generates a random (v4) UUID string. NewCompiler registers
// it under the name "uuid", which enables "uuid()" default-value expressions.
func DefaultUUIDFunc(_ ...any) (any, error) {
	return uuid.NewString(), nil
}

// applyDefaults reconciles value against schema's default rules at a single
// node, without recursing into children (the tree runtime's buildNode/
// reconcileNode own recursion, calling this once per FieldNode). Returns the
// (possibly replaced) value and whether it changed.
func applyDefaults(value any, schema *Schema, required bool) (result any, changed bool) {
	if schema == nil {
		return value, false
	}

	if value == nil {
		if defaultValue, ok := getDefaultValue(schema, required); ok {
			return defaultValue, true
		}
		return value, false
	}

	typ := primaryType(schema)

	if typ == "object" {
		obj, ok := value.(map[string]any)
		if !ok {
			return value, false
		}
		out := obj
		didChange := false
		if schema.Properties != nil {
			for _, name := range schema.Required {
				if _, exists := out[name]; exists {
					continue
				}
				propSchema, has := (*schema.Properties)[name]
				if !has {
					continue
				}
				if v, has := getDefaultValue(propSchema, true); has {
					if !didChange {
						out = copyMapShallow(obj)
						didChange = true
					}
					out[name] = v
				}
			}
			for name, propSchema := range *schema.Properties {
				if _, exists := out[name]; exists {
					continue
				}
				if propSchema.Default == nil {
					continue
				}
				if v, has := getDefaultValue(propSchema, false); has {
					if !didChange {
						out = copyMapShallow(obj)
						didChange = true
					}
					out[name] = v
				}
			}
		}
		return out, didChange
	}

	if typ == "array" {
		arr, ok := value.([]any)
		if !ok {
			return value, false
		}
		if len(schema.PrefixItems) == 0 {
			return value, false
		}
		if len(arr) >= len(schema.PrefixItems) {
			return value, false
		}
		out := make([]any, len(schema.PrefixItems))
		copy(out, arr)
		for i := len(arr); i < len(schema.PrefixItems); i++ {
			out[i] = nil
		}
		return out, true
	}

	return value, false
}

func copyMapShallow(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AutoFillStrategy controls how aggressively SchemaRuntime materializes
// default values, per spec.md 4.6.
type AutoFillStrategy string

const (
	// AutoFillNever applies no defaults at any point.
	AutoFillNever AutoFillStrategy = "never"
	// AutoFillExplicit materializes a node's explicit const/default value
	// when it has one; a required node without either gets its type-based
	// value (e.g. "" or []), and an optional one is left unset.
	AutoFillExplicit AutoFillStrategy = "explicit"
	// AutoFillAlways materializes every type-based default at initialization
	// for every property with a declared type.
	AutoFillAlways AutoFillStrategy = "always"
)

// seedInitialValue computes the value buildNode should use to initialize a
// node when the caller-supplied value is nil, honoring strategy.
func seedInitialValue(schema *Schema, strategy AutoFillStrategy, required bool) (any, bool) {
	switch strategy {
	case AutoFillNever:
		return nil, false
	case AutoFillAlways:
		return getDefaultValue(schema, true)
	default: // AutoFillExplicit
		if schema != nil && (schema.Default != nil || (schema.Const != nil && schema.Const.IsSet)) {
			return getDefaultValue(schema, required)
		}
		if required {
			return getDefaultValue(schema, true)
		}
		return nil, false
	}
}
