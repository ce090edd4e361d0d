package jsonschema

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// resolveRef resolves a $ref or $dynamicRef value to the schema it points at.
// Only internal, same-document references are supported: "#" (the document
// root), "#/json/pointer" (a JSON Pointer into the document), and "#name" (a
// plain $anchor or $dynamicAnchor lookup). A ref without a leading "#" names
// a schema outside this document and is not resolvable here.
func (s *Schema) resolveRef(ref string) (*Schema, error) {
	if ref == "#" {
		return s.getRootSchema(), nil
	}

	if strings.HasPrefix(ref, "#") {
		return s.resolveAnchor(ref[1:])
	}

	return nil, ErrGlobalReferenceResolution
}

func (s *Schema) resolveAnchor(anchorName string) (*Schema, error) {
	if strings.HasPrefix(anchorName, "/") {
		return s.resolveJSONPointer(anchorName)
	}

	if schema, ok := s.anchors[anchorName]; ok {
		return schema, nil
	}

	if schema, ok := s.dynamicAnchors[anchorName]; ok {
		return schema, nil
	}

	if s.parent != nil {
		return s.parent.resolveAnchor(anchorName)
	}

	return nil, ErrReferenceResolution
}

// resolveJSONPointer resolves a JSON Pointer within the schema based on JSON Schema structure.
func (s *Schema) resolveJSONPointer(pointer string) (*Schema, error) {
	if pointer == "/" {
		return s, nil
	}

	// Parse JSON Pointer using the jsonpointer library
	// This handles ~ escaping (~ -> ~0, / -> ~1) automatically
	segments := jsonpointer.Parse(pointer)
	currentSchema := s
	previousSegment := ""

	for i, segment := range segments {
		// jsonpointer.Parse handles ~0 and ~1 escaping, but not URL percent encoding
		// We need to handle URL percent encoding separately for JSON Schema compatibility
		decodedSegment, err := url.PathUnescape(segment)
		if err != nil {
			return nil, ErrJSONPointerSegmentDecode
		}

		nextSchema, found := findSchemaInSegment(currentSchema, decodedSegment, previousSegment)
		if found {
			currentSchema = nextSchema
			previousSegment = decodedSegment
			continue
		}

		if !found && i == len(segments)-1 {
			// If no schema is found and it's the last segment, throw error
			return nil, ErrJSONPointerSegmentNotFound
		}

		previousSegment = decodedSegment
	}

	return currentSchema, nil
}

// Helper function to find a schema within a given segment
func findSchemaInSegment(currentSchema *Schema, segment string, previousSegment string) (*Schema, bool) {
	switch previousSegment {
	case "properties":
		if currentSchema.Properties != nil {
			if schema, exists := (*currentSchema.Properties)[segment]; exists {
				return schema, true
			}
		}
	case "prefixItems":
		index, err := strconv.Atoi(segment)

		if err == nil && currentSchema.PrefixItems != nil && index < len(currentSchema.PrefixItems) {
			return currentSchema.PrefixItems[index], true
		}
	case "$defs", "definitions": // Support both $defs (2020-12) and definitions (Draft-7) for backward compatibility
		if defSchema, exists := currentSchema.Defs[segment]; exists {
			return defSchema, true
		}
	case "items":
		if currentSchema.Items != nil {
			return currentSchema.Items, true
		}
	}
	return nil, false
}

// resolveReferences walks the schema tree resolving every $ref/$dynamicRef it
// finds against the document it belongs to. Resolution failure (e.g. a ref
// naming an external document, or one that genuinely cannot be found) leaves
// ResolvedRef/ResolvedDynamicRef nil; the validator then treats the keyword
// as an opaque leaf that imposes no constraint rather than erroring out.
func (s *Schema) resolveReferences() {
	if s.Ref != "" {
		if resolved, err := s.resolveRef(s.Ref); err == nil {
			s.ResolvedRef = resolved
		}
	}

	if s.DynamicRef != "" {
		if resolved, err := s.resolveRef(s.DynamicRef); err == nil {
			s.ResolvedDynamicRef = resolved
		}
	}

	if s.Defs != nil {
		for _, defSchema := range s.Defs {
			defSchema.resolveReferences()
		}
	}

	if s.Properties != nil {
		for _, schema := range *s.Properties {
			if schema != nil {
				schema.resolveReferences()
			}
		}
	}

	resolveSubschemaList(s.AllOf)
	resolveSubschemaList(s.AnyOf)
	resolveSubschemaList(s.OneOf)
	if s.Not != nil {
		s.Not.resolveReferences()
	}
	if s.Items != nil {
		s.Items.resolveReferences()
	}
	if s.PrefixItems != nil {
		for _, schema := range s.PrefixItems {
			schema.resolveReferences()
		}
	}

	if s.AdditionalProperties != nil {
		s.AdditionalProperties.resolveReferences()
	}
	if s.Contains != nil {
		s.Contains.resolveReferences()
	}
	if s.PatternProperties != nil {
		for _, schema := range *s.PatternProperties {
			schema.resolveReferences()
		}
	}
	if s.If != nil {
		s.If.resolveReferences()
	}
	if s.Then != nil {
		s.Then.resolveReferences()
	}
	if s.Else != nil {
		s.Else.resolveReferences()
	}
	if s.DependentSchemas != nil {
		for _, schema := range s.DependentSchemas {
			schema.resolveReferences()
		}
	}
	if s.PropertyNames != nil {
		s.PropertyNames.resolveReferences()
	}
	if s.UnevaluatedProperties != nil {
		s.UnevaluatedProperties.resolveReferences()
	}
	if s.UnevaluatedItems != nil {
		s.UnevaluatedItems.resolveReferences()
	}
}

// Helper function to resolve references in a list of schemas
func resolveSubschemaList(schemas []*Schema) {
	for _, schema := range schemas {
		if schema != nil {
			schema.resolveReferences()
		}
	}
}
