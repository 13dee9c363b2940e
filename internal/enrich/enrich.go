// Package enrich validates and applies word-enrichment payloads. An external
// collaborator (a generative model, a dictionary scraper) produces them as
// JSON; nothing reaches a word until the payload passes the schema.
package enrich

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// Payload is one enrichment result for a single word, addressed by text.
type Payload struct {
	Text        string `json:"text" validate:"required"`
	Definition  string `json:"definition"`
	Translation string `json:"translation"`
	CEFRLevel   string `json:"cefrLevel" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
}

var payloadSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"text":        map[string]any{"type": "string", "minLength": 1},
		"definition":  map[string]any{"type": "string"},
		"translation": map[string]any{"type": "string"},
		"cefrLevel":   map[string]any{"type": "string", "enum": []any{"A1", "A2", "B1", "B2", "C1", "C2"}},
	},
	"required":             []any{"text"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

var validate = validator.New()

// Parse validates raw JSON against the payload schema and decodes it.
// Returns *ErrInvalidPayload when the payload does not conform.
func Parse(raw json.RawMessage) (*Payload, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile payload schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ErrInvalidPayload{Content: raw, Err: err}
	}
	if err := p.Validate(); err != nil {
		return nil, &ErrInvalidPayload{Content: raw, Err: err}
	}
	return &p, nil
}

// Validate checks the payload's field constraints. Parse calls it; callers
// that build payloads directly (CLI flags) call it themselves.
func (p *Payload) Validate() error {
	return validate.Struct(p)
}

// Apply copies the payload's non-empty fields onto the word and reports
// whether anything changed. Empty payload fields never clear a value the
// user already entered.
func Apply(w *vocab.Word, p *Payload) bool {
	changed := false
	if p.Definition != "" && p.Definition != w.Definition {
		w.Definition = p.Definition
		changed = true
	}
	if p.Translation != "" && p.Translation != w.Translation {
		w.Translation = p.Translation
		changed = true
	}
	if p.CEFRLevel != "" && p.CEFRLevel != w.CEFRLevel {
		w.CEFRLevel = p.CEFRLevel
		changed = true
	}
	return changed
}

// compiledSchema compiles the payload schema once and caches it.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value; round-trip the definition
		// so Go ints become JSON numbers.
		defBytes, err := json.Marshal(payloadSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://enrichment.json", defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile("schema://enrichment.json")
	})
	return compiled, compileErr
}
