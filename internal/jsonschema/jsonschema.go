package jsonschema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema represents the subset of JSON Schema used for defining structured
// completion outputs. It supports object, array, and primitive types,
// required properties, and numeric bounds.
type Schema struct {
	// Type specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// Minimum and Maximum bound numeric values (inclusive)
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
}

// Generate builds a Schema for the type T via reflection. Pointers are
// dereferenced; field names and omitempty come from `json` tags; constraints
// come from `jsonschema` tags.
func Generate[T any]() *Schema {
	return generateSchema(reflect.TypeFor[T]())
}

func generateSchema(t reflect.Type) *Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return generateStructSchema(t)

	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: generateSchema(t.Elem())}

	case reflect.Map:
		return &Schema{Type: "object"}

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	default:
		// interface{} and anything exotic: leave the type open.
		return &Schema{}
	}
}

func generateStructSchema(t reflect.Type) *Schema {
	schema := &Schema{Type: "object", Properties: map[string]*Schema{}}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		isOmitEmpty := false
		if jsonTag != "" {
			if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
				if jsonTag[:commaIdx] != "" {
					fieldName = jsonTag[:commaIdx]
				}
				isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
			} else {
				fieldName = jsonTag
			}
		}

		fieldSchema := generateSchema(field.Type)
		requiredByTag := applyTagConstraints(fieldSchema, field.Tag.Get("jsonschema"))
		schema.Properties[fieldName] = fieldSchema

		// Non-pointer fields without omitempty are required by default,
		// matching encoding/json's always-present marshaling of them.
		if (field.Type.Kind() != reflect.Ptr && !isOmitEmpty) || requiredByTag {
			schema.Required = append(schema.Required, fieldName)
		}
	}

	return schema
}

// applyTagConstraints parses the comma-separated `jsonschema` tag and applies
// the recognized constraints to the field schema. Returns whether the tag
// marked the field as required.
func applyTagConstraints(fieldSchema *Schema, tag string) bool {
	required := false

	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, hasValue := strings.Cut(part, "=")
		switch key {
		case "required":
			required = true
		case "description":
			if hasValue {
				fieldSchema.Description = value
			}
		case "minimum":
			if bound, err := strconv.ParseFloat(value, 64); err == nil {
				fieldSchema.Minimum = &bound
			}
		case "maximum":
			if bound, err := strconv.ParseFloat(value, 64); err == nil {
				fieldSchema.Maximum = &bound
			}
		}
	}

	return required
}

// Validate checks a decoded JSON value against the schema. It verifies
// required properties are present, property types are compatible, and
// numeric bounds hold. It returns the first violation found.
//
// Validation is structural, not exhaustive: properties absent from the
// schema are allowed, matching the lenient way completion services emit
// extra fields.
func (schema *Schema) Validate(value any) error {
	return validateValue(schema, value, "$")
}

func validateValue(schema *Schema, value any, path string) error {
	if schema == nil || value == nil {
		return nil
	}

	switch schema.Type {
	case "object":
		object, isObject := value.(map[string]any)
		if !isObject {
			return fmt.Errorf("%s: expected object, got %T", path, value)
		}

		for _, requiredKey := range schema.Required {
			if _, present := object[requiredKey]; !present {
				return fmt.Errorf("%s: missing required property %q", path, requiredKey)
			}
		}

		for propertyName, propertySchema := range schema.Properties {
			propertyValue, present := object[propertyName]
			if !present {
				continue
			}
			if err := validateValue(propertySchema, propertyValue, path+"."+propertyName); err != nil {
				return err
			}
		}
		return nil

	case "array":
		items, isArray := value.([]any)
		if !isArray {
			return fmt.Errorf("%s: expected array, got %T", path, value)
		}
		for index, item := range items {
			if err := validateValue(schema.Items, item, fmt.Sprintf("%s[%d]", path, index)); err != nil {
				return err
			}
		}
		return nil

	case "string":
		if _, isString := value.(string); !isString {
			return fmt.Errorf("%s: expected string, got %T", path, value)
		}
		return nil

	case "boolean":
		if _, isBool := value.(bool); !isBool {
			return fmt.Errorf("%s: expected boolean, got %T", path, value)
		}
		return nil

	case "number", "integer":
		number, isNumber := value.(float64)
		if !isNumber {
			return fmt.Errorf("%s: expected %s, got %T", path, schema.Type, value)
		}
		if schema.Type == "integer" && number != float64(int64(number)) {
			return fmt.Errorf("%s: expected integer, got %v", path, number)
		}
		if schema.Minimum != nil && number < *schema.Minimum {
			return fmt.Errorf("%s: value %v below minimum %v", path, number, *schema.Minimum)
		}
		if schema.Maximum != nil && number > *schema.Maximum {
			return fmt.Errorf("%s: value %v above maximum %v", path, number, *schema.Maximum)
		}
		return nil

	default:
		// Open type: nothing to check.
		return nil
	}
}
