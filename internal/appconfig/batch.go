package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// BatchEntry is one independently configured test definition within a
// batch file. Its position in the file is significant: the entry index
// seeds the working-directory suffix, so entries must not be reordered
// mid-run.
type BatchEntry struct {
	Arguments  []string `json:"arguments"`
	Operations []string `json:"operations"`
}

// batchSchema is the shape every batch file must satisfy before any entry
// is used.
const batchSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"arguments":  {"type": "array", "items": {"type": "string"}},
			"operations": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["arguments", "operations"]
	}
}`

// LoadBatchFile reads and validates a batch-definition file.
func LoadBatchFile(path string) ([]BatchEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read batch file %q: %w", path, err)
	}

	schemaLoader := gojsonschema.NewStringLoader(batchSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("could not validate batch file %q: %w", path, err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("batch file %q is malformed: %s", path, strings.Join(problems, "; "))
	}

	var entries []BatchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("could not decode batch file %q: %w", path, err)
	}
	return entries, nil
}
