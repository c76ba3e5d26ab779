package elements

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrTreeInvalid = errors.New("elements: tree does not match the element schema")

const treeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {"$ref": "#/$defs/node"},
  "$defs": {
    "node": {
      "type": "object",
      "required": ["id", "elType"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "elType": {"type": "string", "minLength": 1},
        "widgetType": {"type": "string"},
        "settings": {"type": ["object", "array"]},
        "elements": {"type": "array", "items": {"$ref": "#/$defs/node"}}
      },
      "if": {"properties": {"elType": {"const": "widget"}}},
      "then": {"required": ["widgetType"], "properties": {"widgetType": {"minLength": 1}}}
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func treeValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("elements.json", strings.NewReader(treeSchema)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = compiler.Compile("elements.json")
	})
	return compiled, compileErr
}

// Issue is a single schema violation.
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// ValidationError lists every violation found in a tree.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, location+": "+issue.Message)
	}
	return ErrTreeInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrTreeInvalid }

// ValidateData checks a serialised tree (a JSON array of nodes) against the
// element schema.
func ValidateData(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrTreeInvalid, err)
	}
	schema, err := treeValidator()
	if err != nil {
		return fmt.Errorf("elements: compile schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Issues: collectIssues(verr)}
		}
		return fmt.Errorf("%w: %v", ErrTreeInvalid, err)
	}
	return nil
}

// Validate checks an already decoded tree.
func Validate(tree []Node) error {
	if tree == nil {
		tree = []Node{}
	}
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTreeInvalid, err)
	}
	return ValidateData(data)
}

func collectIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{Location: node.InstanceLocation, Message: node.Message})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(root)
	return issues
}
