package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schemas the oracle's three operations validate their extracted JSON
// against before hydrating a typed variant. The subprocess boundary is the
// only place tolerant parsing lives; everything past it is typed.
const (
	extractTasksSchemaJSON = `{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"title": {"type": "string"},
				"description": {"type": "string"}
			},
			"required": ["id", "title", "description"]
		}
	}`

	interpretSchemaJSON = `{
		"type": "object",
		"properties": {
			"status": {"type": "string"},
			"summary": {"type": ["string", "null"]},
			"error": {"type": ["string", "null"]},
			"question": {"type": ["string", "null"]},
			"options": {"type": ["array", "null"], "items": {"type": "string"}},
			"recommendation": {"type": ["string", "null"]}
		},
		"required": ["status"]
	}`

	decisionSchemaJSON = `{
		"type": "object",
		"properties": {
			"decision": {"type": "string", "enum": ["retry", "escalate"]},
			"reason": {"type": ["string", "null"]},
			"guidance_for_retry": {"type": ["string", "null"]}
		},
		"required": ["decision"]
	}`
)

// compiledSchemas holds the three compiled jsonschema.Schema instances,
// compiled once at Client construction rather than per call.
type compiledSchemas struct {
	extractTasks *jsonschema.Schema
	interpret    *jsonschema.Schema
	decision     *jsonschema.Schema
}

func compileSchemas() (*compiledSchemas, error) {
	extractTasks, err := compileSchema("extract_tasks.json", extractTasksSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile extract_tasks schema: %w", err)
	}
	interpret, err := compileSchema("interpret.json", interpretSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile interpret schema: %w", err)
	}
	decision, err := compileSchema("decision.json", decisionSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile decision schema: %w", err)
	}
	return &compiledSchemas{extractTasks: extractTasks, interpret: interpret, decision: decision}, nil
}

func compileSchema(name, schemaJSON string) (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile(name)
}

// validate unmarshals payload as generic JSON and checks it against schema,
// returning the decoded generic document for convenience.
func validate(_ context.Context, schema *jsonschema.Schema, payload []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	return doc, nil
}
