// Package schema defines the typed input and output documents of every app type.
//
// Inputs are decoded strictly (unknown fields are rejected) from JSON or YAML and
// validated bottom-up; validation errors carry the document path of the
// offending field.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/apolo-us/appvalues/domain/model"
)

// Input is an app input document.
type Input interface {
	AppType() model.AppType
	Validate() error
}

var inputs = map[model.AppType]func() Input{
	model.AppTypeLLMInference:     func() Input { return &LLMInferenceInputs{} },
	model.AppTypeLLMBundle:        func() Input { return &LLMBundleInputs{} },
	model.AppTypeCustomDeployment: func() Input { return &CustomDeploymentInputs{} },
	model.AppTypeJupyter:          func() Input { return &JupyterInputs{} },
	model.AppTypeOpenWebUI:        func() Input { return &OpenWebUIInputs{} },
	model.AppTypePostgres:         func() Input { return &PostgresInputs{} },
	model.AppTypeWeaviate:         func() Input { return &WeaviateInputs{} },
	model.AppTypeMLflow:           func() Input { return &MLflowInputs{} },
	model.AppTypeSparkJob:         func() Input { return &SparkJobInputs{} },
	model.AppTypeLightRAG:         func() Input { return &LightRAGInputs{} },
}

var outputs = map[model.AppType]func() any{
	model.AppTypeLLMInference:     func() any { return &LLMInferenceOutputs{} },
	model.AppTypeLLMBundle:        func() any { return &LLMInferenceOutputs{} },
	model.AppTypeCustomDeployment: func() any { return &CustomDeploymentOutputs{} },
	model.AppTypeJupyter:          func() any { return &WebAppOutputs{} },
	model.AppTypeOpenWebUI:        func() any { return &WebAppOutputs{} },
	model.AppTypePostgres:         func() any { return &PostgresOutputs{} },
	model.AppTypeWeaviate:         func() any { return &WeaviateOutputs{} },
	model.AppTypeMLflow:           func() any { return &MLflowOutputs{} },
	model.AppTypeSparkJob:         func() any { return &SparkJobOutputs{} },
	model.AppTypeLightRAG:         func() any { return &LightRAGOutputs{} },
}

// NewInput returns an empty input document for t.
func NewInput(t model.AppType) (Input, error) {
	f, ok := inputs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedAppType, t)
	}
	return f(), nil
}

// NewOutput returns an empty output document for t.
func NewOutput(t model.AppType) (any, error) {
	f, ok := outputs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedAppType, t)
	}
	return f(), nil
}

// DecodeInput parses a JSON or YAML input document for t and validates it.
func DecodeInput(t model.AppType, data []byte) (Input, error) {
	in, err := NewInput(t)
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(data, in); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// DecodeInputMap validates a raw mapping (for example Helm-style values) as an input for t.
func DecodeInputMap(t model.AppType, raw map[string]any) (Input, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, model.Invalid("", "input is not serializable: %v", err)
	}
	return DecodeInput(t, data)
}

// DecodeOutput parses a JSON or YAML output document for t.
func DecodeOutput(t model.AppType, data []byte) (any, error) {
	out, err := NewOutput(t)
	if err != nil {
		return nil, err
	}
	if err := decodeStrict(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode serializes a document as indented JSON.
func Encode(doc any) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// decodeStrict decodes with encoding/json rather than yaml.UnmarshalStrict,
// which flattens json.UnmarshalTypeError and loses the field path.
func decodeStrict(data []byte, into any) error {
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return model.Invalid("", "malformed document: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return model.Invalid(te.Field, "expected %s, got %s", te.Type, te.Value)
		}
		return model.Invalid("", "%v", err)
	}
	return nil
}
