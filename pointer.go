package jsonschema

import (
	"net/url"
	"strconv"
	"strings"
)

// ParsePointer splits a JSON Pointer into its unescaped reference tokens.
// Parsing is loose: a leading "/" is optional, and "" or "#" both denote the
// document root (zero tokens). "~0"/"~1" are unescaped to "~"/"/" per RFC
// 6901, and any remaining percent-encoding is decoded for compatibility with
// pointers embedded in $ref-style fragments.
func ParsePointer(pointer string) []string {
	p := strings.TrimPrefix(pointer, "#")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}

	rawTokens := strings.Split(p, "/")
	tokens := make([]string, len(rawTokens))
	for i, t := range rawTokens {
		t = strings.ReplaceAll(t, "~1", "/")
		t = strings.ReplaceAll(t, "~0", "~")
		if decoded, err := url.PathUnescape(t); err == nil {
			t = decoded
		}
		tokens[i] = t
	}
	return tokens
}

// FormatPointer re-escapes a token slice into a single JSON Pointer string,
// the inverse of ParsePointer (aside from percent-decoding, which is lossy).
func FormatPointer(tokens ...string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		t = strings.ReplaceAll(t, "~", "~0")
		t = strings.ReplaceAll(t, "/", "~1")
		b.WriteString(t)
	}
	return b.String()
}

// GetPointer resolves pointer against doc and returns the value found there.
// doc is walked as a tree of map[string]any / []any, the shapes produced by
// decoding JSON into interface{}.
func GetPointer(doc any, pointer string) (any, error) {
	tokens := ParsePointer(pointer)
	current := doc
	for _, token := range tokens {
		next, err := stepInto(current, token)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func stepInto(current any, token string) (any, error) {
	switch v := current.(type) {
	case map[string]any:
		val, ok := v[token]
		if !ok {
			return nil, ErrPointerNotFound
		}
		return val, nil
	case []any:
		idx, err := arrayIndex(token, len(v))
		if err != nil {
			return nil, err
		}
		return v[idx], nil
	default:
		return nil, ErrPointerTraversal
	}
}

func arrayIndex(token string, length int) (int, error) {
	if token == "-" {
		return 0, ErrPointerIndexRange
	}
	idx, err := strconv.Atoi(token)
	if err != nil || idx < 0 {
		return 0, ErrPointerIndexInvalid
	}
	if idx >= length {
		return 0, ErrPointerIndexRange
	}
	return idx, nil
}

// SetPointer writes value at pointer within doc, creating intermediate
// containers as needed: an array when the next token is a decimal index (or
// "-", meaning append), otherwise an object. Returns the (possibly replaced)
// root document: containers are threaded back up through return values
// rather than mutated-in-place, since a bare []any cannot grow without its
// owner reassigning the slice header.
func SetPointer(doc any, pointer string, value any) (any, error) {
	tokens := ParsePointer(pointer)
	if len(tokens) == 0 {
		return value, nil
	}
	return setRecursive(doc, tokens, value)
}

// newContainerFor creates an empty container suited to hold nextToken: an
// array when the token is a decimal index or "-", otherwise an object.
func newContainerFor(nextToken string) any {
	if isArrayToken(nextToken) {
		return []any{}
	}
	return map[string]any{}
}

func isArrayToken(token string) bool {
	if token == "-" {
		return true
	}
	_, err := strconv.Atoi(token)
	return err == nil
}

// setRecursive writes value at the path described by tokens within
// container, returning the (possibly reallocated) container.
func setRecursive(container any, tokens []string, value any) (any, error) {
	token := tokens[0]
	last := len(tokens) == 1

	switch c := container.(type) {
	case map[string]any:
		if last {
			c[token] = value
			return c, nil
		}
		child := c[token]
		if child == nil {
			child = newContainerFor(tokens[1])
		}
		updated, err := setRecursive(child, tokens[1:], value)
		if err != nil {
			return nil, err
		}
		c[token] = updated
		return c, nil

	case []any:
		idx := len(c)
		if token != "-" {
			parsed, err := strconv.Atoi(token)
			if err != nil || parsed < 0 || parsed > len(c) {
				return nil, ErrPointerIndexRange
			}
			idx = parsed
		}
		if last {
			if idx == len(c) {
				return append(c, value), nil
			}
			c[idx] = value
			return c, nil
		}
		var child any
		if idx < len(c) {
			child = c[idx]
		} else {
			child = newContainerFor(tokens[1])
			c = append(c, child)
		}
		updated, err := setRecursive(child, tokens[1:], value)
		if err != nil {
			return nil, err
		}
		c[idx] = updated
		return c, nil

	case nil:
		return setRecursive(newContainerFor(token), tokens, value)

	default:
		return nil, ErrPointerTraversal
	}
}

// RemovePointer deletes the value at pointer within doc, returning the
// (possibly reallocated) document. Removing a map key that does not exist,
// or an index past the end, is a no-op success.
func RemovePointer(doc any, pointer string) (any, error) {
	tokens := ParsePointer(pointer)
	if len(tokens) == 0 {
		return nil, ErrPointerRootReplace
	}
	return removeRecursive(doc, tokens)
}

func removeRecursive(container any, tokens []string) (any, error) {
	token := tokens[0]
	last := len(tokens) == 1

	switch c := container.(type) {
	case map[string]any:
		if last {
			delete(c, token)
			return c, nil
		}
		child, ok := c[token]
		if !ok {
			return c, nil
		}
		updated, err := removeRecursive(child, tokens[1:])
		if err != nil {
			return nil, err
		}
		c[token] = updated
		return c, nil

	case []any:
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= len(c) {
			return c, nil
		}
		if last {
			return append(c[:idx], c[idx+1:]...), nil
		}
		updated, err := removeRecursive(c[idx], tokens[1:])
		if err != nil {
			return nil, err
		}
		c[idx] = updated
		return c, nil

	default:
		return container, nil
	}
}
