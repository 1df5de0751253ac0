package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const fileSchema = `{
  "type": "object",
  "required": ["steps"],
  "additionalProperties": false,
  "properties": {
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "method", "endpoint"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "description": {"type": "string"},
          "method": {"type": "string", "enum": ["GET", "POST", "PUT", "DELETE", "get", "post", "put", "delete"]},
          "endpoint": {"type": "string", "pattern": "^/"},
          "body": {"type": "object"},
          "expectedBehavior": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(fileSchema)

// File is the on-disk catalog document
type File struct {
	Steps []Step `yaml:"steps"`
}

// LoadFile reads a YAML catalog file, validates it and builds a Catalog
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates a YAML catalog document and builds a Catalog
func Parse(data []byte) (*Catalog, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return New(f.Steps)
}

// Validate checks a YAML catalog document against the catalog schema
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("catalog is empty")
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating catalog: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid catalog: %s", strings.Join(msgs, "; "))
	}

	return nil
}

// Marshal renders a catalog back to its YAML form
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(File{Steps: c.Steps()})
}
