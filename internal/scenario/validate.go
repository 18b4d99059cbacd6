package scenario

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

func compiledSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaValue = ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		schemaErr = schemaValue.Err()
	})
	return schemaValue, schemaErr
}

// ValidateAgainstSchema unifies a decoded scenario document with the
// embedded CUE schema and requires the result to be concrete. CUE
// reports every violation with its path, which beats hand-written field
// checks for nested documents.
func ValidateAgainstSchema(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("schema compile: %w", err)
	}

	data := schema.Context().Encode(doc)
	if err := data.Err(); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	unified := schema.Unify(data)
	if err := unified.Err(); err != nil {
		return err
	}
	return unified.Validate(cue.Concrete(true))
}
