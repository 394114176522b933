package sheets

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed service_account.schema.json
var credentialSchemaJSON string

var credentialSchema = jsonschema.MustCompileString("service_account.schema.json", credentialSchemaJSON)

// ValidateCredentials checks that blob is a structurally valid Google
// service-account credential document. It catches missing or malformed
// configuration at startup, before the chat loop starts, instead of on the
// first remote call.
func ValidateCredentials(blob []byte) error {
	if len(blob) == 0 {
		return fmt.Errorf("credential document is empty")
	}

	var doc any
	if err := json.Unmarshal(blob, &doc); err != nil {
		return fmt.Errorf("credential document is not valid JSON: %w", err)
	}
	if err := credentialSchema.Validate(doc); err != nil {
		return fmt.Errorf("credential document failed validation: %w", err)
	}
	return nil
}
