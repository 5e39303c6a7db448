package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/ggoodman/mcp-stdio-examples/mcp"
)

// ToolArguments checks raw tool-call arguments against a tool's input schema.
// Only the subset of JSON Schema that ToolInputSchema can express is enforced:
// the top-level object shape, required members, primitive property types and
// whether unknown members are allowed. A null required member counts as
// missing.
func ToolArguments(schema mcp.ToolInputSchema, raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return fmt.Errorf("arguments must be an object")
	}
	var args map[string]json.RawMessage
	if err := json.Unmarshal(raw, &args); err != nil {
		return fmt.Errorf("arguments must be an object: %w", err)
	}

	for _, name := range schema.Required {
		v, ok := args[name]
		if !ok || isNull(v) {
			return fmt.Errorf("missing required property %q", name)
		}
	}

	// Sorted so the reported property is stable across calls.
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, known := schema.Properties[name]
		if !known {
			if !schema.AdditionalProperties {
				return fmt.Errorf("unexpected property %q", name)
			}
			continue
		}
		v := args[name]
		if isNull(v) && !slices.Contains(schema.Required, name) {
			continue
		}
		if err := checkType(prop, v); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

func checkType(p mcp.SchemaProperty, v json.RawMessage) error {
	v = bytes.TrimSpace(v)
	if p.Type == "" || len(v) == 0 {
		return nil
	}
	var ok bool
	switch p.Type {
	case "string":
		ok = v[0] == '"'
	case "boolean":
		ok = string(v) == "true" || string(v) == "false"
	case "number":
		ok = isNumber(v)
	case "integer":
		ok = isNumber(v) && !bytes.ContainsAny(v, ".eE")
	case "object":
		ok = v[0] == '{'
	case "array":
		ok = v[0] == '['
	default:
		ok = true
	}
	if !ok {
		return fmt.Errorf("expected %s", p.Type)
	}
	if len(p.Enum) > 0 {
		var got any
		if err := json.Unmarshal(v, &got); err != nil {
			return err
		}
		if !slices.ContainsFunc(p.Enum, func(e any) bool { return fmt.Sprint(e) == fmt.Sprint(got) }) {
			return fmt.Errorf("value not in enum")
		}
	}
	return nil
}

func isNumber(v []byte) bool {
	return v[0] == '-' || (v[0] >= '0' && v[0] <= '9')
}
