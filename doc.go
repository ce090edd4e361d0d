// Package jsonschema implements a reactive JSON Schema runtime: given a
// schema (drafts 04, 07, 2019-09, or 2020-12, normalized to 2020-12 shape)
// and a JSON instance, it maintains a live tree of FieldNodes mirroring the
// instance, each carrying its effective schema (conditionals and
// combinators resolved against the current value), inferred type, value,
// and validation error. Changing a value through SchemaRuntime.SetValue
// reconciles only the nodes whose effective schema actually depends on the
// changed location; the rest of the tree keeps its identity.
//
// Compiler.Compile normalizes and parses a raw schema document into a
// Schema tree. Schema.Validate runs the draft-2020-12 evaluator directly,
// independent of the tree runtime, for one-shot validation. NewSchemaRuntime
// builds the reactive tree on top of a compiled Schema.
//
// Credit to https://github.com/santhosh-tekuri/jsonschema for format validators.
package jsonschema
