package openapi

import (
	"reflect"
	"strings"
	"time"
)

// GenerateSchema creates an OpenAPI schema from a Go value using reflection
func GenerateSchema(v interface{}) *Schema {
	if v == nil {
		return nil
	}

	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return typeToSchema(t)
}

func typeToSchema(t reflect.Type) *Schema {
	if t == reflect.TypeOf(time.Time{}) {
		return &Schema{Type: "string", Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.Struct:
		schema := &Schema{
			Type:       "object",
			Properties: make(map[string]*Schema),
		}
		addFields(schema, t)
		return schema

	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "binary"}
		}
		return &Schema{
			Type:  "array",
			Items: typeToSchema(t.Elem()),
		}

	case reflect.Map:
		return &Schema{Type: "object"}

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Ptr:
		schema := typeToSchema(t.Elem())
		schema.Nullable = true
		return schema

	default:
		return &Schema{Type: "string"}
	}
}

// addFields adds the JSON-visible fields of t, flattening embedded structs
func addFields(schema *Schema, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := strings.Split(jsonTag, ",")[0]
		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			addFields(schema, field.Type)
			continue
		}
		if name == "" {
			name = field.Name
		}

		if propSchema := typeToSchema(field.Type); propSchema != nil {
			schema.Properties[name] = propSchema
		}
	}
}
