package jsonschema

import (
	"sync"

	"github.com/goccy/go-json"
)

// FormatDef defines a custom format validation rule
type FormatDef struct {
	// Type specifies which JSON Schema type this format applies to (optional)
	// Supported values: "string", "number", "integer", "boolean", "array", "object"
	// Empty string means applies to all types
	Type string

	// Validate is the validation function
	Validate func(any) bool
}

// Compiler compiles raw JSON Schema documents into Schema trees and holds the
// settings (format assertion, custom formats, dynamic default functions) new
// schemas inherit unless overridden.
type Compiler struct {
	AssertFormat bool // Flag to enforce format validation.

	// PreserveExtra keeps each Schema's collected x-*/unknown-keyword bucket
	// (Extra) after compilation instead of discarding it. Off by default to
	// match the compile-and-forget-extras behavior of earlier schema
	// versions.
	PreserveExtra bool

	// JSON encoder/decoder configuration
	jsonEncoder func(v any) ([]byte, error)
	jsonDecoder func(data []byte, v any) error

	// Default function registry
	defaultFuncs map[string]DefaultFunc // Registry for dynamic default value functions
	defaultFuncsRW sync.RWMutex

	// Custom format registry
	customFormats   map[string]*FormatDef // Registry for custom format definitions
	customFormatsRW sync.RWMutex          // Protects concurrent access to custom formats
}

// DefaultFunc represents a function that can generate dynamic default values
type DefaultFunc func(args ...any) (any, error)

// NewCompiler creates a new Compiler instance and initializes it with default settings.
func NewCompiler() *Compiler {
	c := &Compiler{
		AssertFormat:  false,
		defaultFuncs:  make(map[string]DefaultFunc),
		customFormats: make(map[string]*FormatDef),

		jsonEncoder: func(v any) ([]byte, error) { return json.Marshal(v) },
		jsonDecoder: func(data []byte, v any) error { return json.Unmarshal(data, v) },
	}
	c.defaultFuncs["uuid"] = DefaultUUIDFunc
	return c
}

// WithEncoderJSON configures custom JSON encoder implementation
func (c *Compiler) WithEncoderJSON(encoder func(v any) ([]byte, error)) *Compiler {
	c.jsonEncoder = encoder
	return c
}

// WithDecoderJSON configures custom JSON decoder implementation
func (c *Compiler) WithDecoderJSON(decoder func(data []byte, v any) error) *Compiler {
	c.jsonDecoder = decoder
	return c
}

// Compile parses a JSON Schema document of any supported draft, normalizes
// it to canonical draft-2020-12 shape, then initializes its schema tree
// (anchors, $ref/$dynamicRef resolution, regex validation) and returns the
// root Schema.
func (c *Compiler) Compile(jsonSchema []byte, opts ...NormalizeOption) (*Schema, error) {
	options := &NormalizeOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if !isKnownDraft(options.SourceDraft) {
		return nil, ErrUnknownDraft
	}

	var raw any
	if err := c.jsonDecoder(jsonSchema, &raw); err != nil {
		return nil, err
	}

	normalized := Normalize(raw, opts...)

	normalizedJSON, err := c.jsonEncoder(normalized)
	if err != nil {
		return nil, err
	}

	schema, err := newSchema(normalizedJSON)
	if err != nil {
		return nil, err
	}

	schema.initializeSchema(c, nil)

	if err := schema.validateRegexSyntax(); err != nil {
		return nil, err
	}

	return schema, nil
}

// SetAssertFormat enables or disables format assertion.
func (c *Compiler) SetAssertFormat(assert bool) *Compiler {
	c.AssertFormat = assert
	return c
}

// SetPreserveExtra controls whether unknown/x-* keywords survive compilation.
func (c *Compiler) SetPreserveExtra(preserve bool) *Compiler {
	c.PreserveExtra = preserve
	return c
}

// RegisterDefaultFunc registers a function for dynamic default value generation
func (c *Compiler) RegisterDefaultFunc(name string, fn DefaultFunc) *Compiler {
	c.defaultFuncsRW.Lock()
	defer c.defaultFuncsRW.Unlock()

	if c.defaultFuncs == nil {
		c.defaultFuncs = make(map[string]DefaultFunc)
	}
	c.defaultFuncs[name] = fn
	return c
}

// getDefaultFunc retrieves a registered default function by name
func (c *Compiler) getDefaultFunc(name string) (DefaultFunc, bool) {
	c.defaultFuncsRW.RLock()
	defer c.defaultFuncsRW.RUnlock()

	fn, exists := c.defaultFuncs[name]
	return fn, exists
}

// RegisterFormat registers a custom format.
// The optional typeName parameter specifies which JSON Schema type the format applies to
// (e.g., "string", "number"). If omitted, the format applies to all types.
func (c *Compiler) RegisterFormat(name string, validator func(any) bool, typeName ...string) *Compiler {
	c.customFormatsRW.Lock()
	defer c.customFormatsRW.Unlock()

	var t string
	if len(typeName) > 0 {
		t = typeName[0]
	}

	c.customFormats[name] = &FormatDef{
		Type:     t,
		Validate: validator,
	}
	return c
}

// UnregisterFormat removes a custom format.
func (c *Compiler) UnregisterFormat(name string) *Compiler {
	c.customFormatsRW.Lock()
	defer c.customFormatsRW.Unlock()

	delete(c.customFormats, name)
	return c
}
