package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator checks a payload against the schema of a definition.
type ConfigValidator interface {
	Validate(def WidgetDefinition, config map[string]any) error
}

// ValidationErrors maps form fields to messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + v[field]
	}
	return "dashboard: invalid form: " + strings.Join(parts, "; ")
}

// JSONSchemaValidator validates widget configs and form payloads with
// jsonschema. Schemas are compiled on first use and cached by code.
type JSONSchemaValidator struct {
	mu      sync.Mutex
	schemas map[string]*jsonschema.Schema
}

func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{schemas: map[string]*jsonschema.Schema{}}
}

// Validate round-trips config through JSON first, so YAML integers and typed
// slices are checked the same way as decoded request bodies.
func (v *JSONSchemaValidator) Validate(def WidgetDefinition, config map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.compile(def)
	if err != nil {
		return err
	}
	doc, err := jsonValue(config)
	if err != nil {
		return fmt.Errorf("dashboard: %s config: %w", def.Code, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("dashboard: %s: %w", def.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) compile(def WidgetDefinition) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if schema, ok := v.schemas[def.Code]; ok {
		return schema, nil
	}
	raw, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode schema %s: %w", def.Code, err)
	}
	schema, err := jsonschema.CompileString(def.Code+".json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", def.Code, err)
	}
	v.schemas[def.Code] = schema
	return schema, nil
}

func jsonValue(config map[string]any) (any, error) {
	if config == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FieldErrors flattens a schema failure into one message per top-level
// field, keeping the first message seen. Errors that are not schema failures
// land under "form".
func FieldErrors(err error) ValidationErrors {
	out := ValidationErrors{}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) {
		collectLeaves(schemaErr, out)
	}
	if len(out) == 0 && err != nil {
		out["form"] = err.Error()
	}
	return out
}

func collectLeaves(err *jsonschema.ValidationError, out ValidationErrors) {
	for _, cause := range err.Causes {
		collectLeaves(cause, out)
	}
	if len(err.Causes) > 0 {
		return
	}
	field, _, _ := strings.Cut(strings.TrimPrefix(err.InstanceLocation, "/"), "/")
	if field == "" {
		field = "form"
	}
	if _, exists := out[field]; !exists {
		out[field] = err.Message
	}
}

type noopConfigValidator struct{}

func (noopConfigValidator) Validate(WidgetDefinition, map[string]any) error { return nil }
