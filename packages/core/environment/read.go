package environment

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/jsonfile"
)

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "variables"],
  "properties": {
    "name": { "type": "string" },
    "variables": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "value"],
        "properties": {
          "key": { "type": "string" },
          "value": { "type": "string" }
        }
      }
    }
  }
}`

var schema = gojsonschema.NewStringLoader(schemaJSON)

// ReadFile reads a single environment from the JSON file at path. A file
// holding an array of environments (a bulk export from the app) is
// rejected with BULK_ENV_FILE since the caller names exactly one
// environment. knownToExist comes from the caller's existence probe.
func ReadFile(path string, knownToExist bool) (*Environment, error) {
	data, err := jsonfile.Read(path, knownToExist)
	if err != nil {
		return nil, err
	}

	if jsonfile.IsArray(data) {
		return nil, clierror.New(clierror.CodeBulkEnvFile, path)
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, clierror.Wrap(clierror.CodeMalformedEnvFile, path, err)
	}
	if !result.Valid() {
		return nil, clierror.Wrap(clierror.CodeMalformedEnvFile, path, schemaError(result))
	}

	var env Environment
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, clierror.Wrap(clierror.CodeMalformedEnvFile, path, err)
	}
	return &env, nil
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
