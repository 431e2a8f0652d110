package collection

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/jsonfile"
)

// schemaJSON validates the structural invariants a collection document
// must satisfy before the runner walks it. Exports from the app contain
// many more fields; only the ones the CLI relies on are constrained.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "folders", "requests"],
  "properties": {
    "name": { "type": "string" },
    "folders": { "type": "array" },
    "requests": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "method", "endpoint"],
        "properties": {
          "name": { "type": "string" },
          "method": { "type": "string" },
          "endpoint": { "type": "string" }
        }
      }
    }
  }
}`

var schema = gojsonschema.NewStringLoader(schemaJSON)

// ReadFile reads one or more collections from the JSON file at path. The
// file may hold a single collection object or an array of them; both parse
// to a slice. knownToExist comes from the caller's existence probe and
// sharpens the error when the file cannot be read.
func ReadFile(path string, knownToExist bool) ([]*Collection, error) {
	data, err := jsonfile.Read(path, knownToExist)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if jsonfile.IsArray(data) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, clierror.Wrap(clierror.CodeMalformedCollection, path, err)
		}
	} else {
		raw = []json.RawMessage{json.RawMessage(data)}
	}

	cols := make([]*Collection, 0, len(raw))
	for _, doc := range raw {
		col, err := parseOne(doc)
		if err != nil {
			return nil, clierror.Wrap(clierror.CodeMalformedCollection, path, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func parseOne(doc json.RawMessage) (*Collection, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, err
	}
	if !result.Valid() {
		return nil, schemaError(result)
	}

	var col Collection
	if err := json.Unmarshal(doc, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

func schemaError(result *gojsonschema.Result) error {
	errs := result.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &validationError{detail: errs[0].String()}
}

type validationError struct {
	detail string
}

func (e *validationError) Error() string {
	return e.detail
}
