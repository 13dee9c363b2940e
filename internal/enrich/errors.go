package enrich

import (
	"encoding/json"
	"fmt"
)

// ErrInvalidPayload indicates an enrichment payload that does not satisfy
// the payload schema. Content carries the offending JSON for logging.
type ErrInvalidPayload struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid enrichment payload: %v", e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }
