package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchemaURL = "https://uiforge.local/schemas/tree.schema.json"

// documentSchema describes the wire shape of a tree document. Component kinds
// are left to the validator, which reports them as invalid components.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$ref": "#/$defs/node",
  "$defs": {
    "node": {
      "type": "object",
      "properties": {
        "component": {"type": "string"},
        "props": {"type": ["object", "null"]},
        "children": {
          "type": ["array", "null"],
          "items": {"$ref": "#/$defs/node"}
        }
      },
      "additionalProperties": false
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(documentSchemaURL, strings.NewReader(documentSchema)); err != nil {
			schemaErr = fmt.Errorf("failed to load tree schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(documentSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to compile tree schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks that data is a JSON tree document of the expected
// shape. It does not check component kinds.
func ValidateDocument(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid tree document: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid tree document: %w", err)
	}
	return nil
}

// Decode validates data against the document schema and decodes it.
func Decode(data []byte) (*Node, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}
	return &n, nil
}
