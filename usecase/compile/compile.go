package compile

import (
	"context"
	"fmt"
	"time"

	"github.com/apolo-us/appvalues/compiler/processor"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/logging"
	"github.com/apolo-us/appvalues/internal/metrics"
	"github.com/apolo-us/appvalues/schema"
	"github.com/apolo-us/appvalues/usecase/preset"
)

// CompileInput names the app instance and carries its validated input document.
type CompileInput struct {
	AppType        model.AppType
	Input          schema.Input
	AppName        string
	Namespace      string
	AppID          string
	AppSecretsName string
}

func (in *CompileInput) request() processor.Request {
	return processor.Request{
		AppName:        in.AppName,
		Namespace:      in.Namespace,
		AppID:          in.AppID,
		AppSecretsName: in.AppSecretsName,
	}
}

// CompileRawInput is CompileInput with an undecoded input document.
type CompileRawInput struct {
	CompileInput
	// Data is a JSON or YAML input document. Raw is used when Data is empty.
	Data []byte
	Raw  map[string]any
}

// Compile looks up the processor of the app type, then computes the Helm
// flags and the values document. Presets are resolved at most once per call.
func (u *UseCase) Compile(ctx context.Context, in *CompileInput) (out *CompileOutput, err error) {
	if in == nil {
		return nil, fmt.Errorf("CompileInput is required")
	}
	start := time.Now()
	ctx, done := logging.Span(ctx, "Compile:Run", "appType", string(in.AppType), "appName", in.AppName, "appId", in.AppID)
	defer func() {
		metrics.ObserveCompile(string(in.AppType), start, err)
		done(err)
	}()

	if in.Input == nil {
		return nil, model.Required("input")
	}
	if in.Input.AppType() != in.AppType {
		return nil, fmt.Errorf("%w: input document is for %q, not %q", model.ErrValidation, in.Input.AppType(), in.AppType)
	}
	if err := in.Input.Validate(); err != nil {
		return nil, err
	}
	if in.AppID == "" {
		return nil, model.Required("app_id")
	}

	reg := processor.NewRegistry(processor.Deps{
		Presets:  preset.NewCachedCatalog(u.Presets),
		Platform: u.Platform,
	})
	p, err := reg.Lookup(in.AppType)
	if err != nil {
		return nil, err
	}
	args, err := p.ExtraHelmArgs(ctx, in.Input)
	if err != nil {
		return nil, fmt.Errorf("helm args for %s: %w", in.AppType, err)
	}
	vals, err := p.ExtraValues(ctx, in.Input, in.request())
	if err != nil {
		return nil, fmt.Errorf("values for %s: %w", in.AppType, err)
	}
	return &CompileOutput{HelmArgs: args, Values: vals}, nil
}

// CompileRaw validates the raw document against the input schema of the app
// type, then compiles it.
func (u *UseCase) CompileRaw(ctx context.Context, in *CompileRawInput) (*CompileOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("CompileRawInput is required")
	}
	var (
		doc schema.Input
		err error
	)
	if len(in.Data) > 0 {
		doc, err = schema.DecodeInput(in.AppType, in.Data)
	} else {
		doc, err = schema.DecodeInputMap(in.AppType, in.Raw)
	}
	if err != nil {
		metrics.CompilesTotal.WithLabelValues(string(in.AppType), metrics.ResultError).Inc()
		return nil, err
	}
	ci := in.CompileInput
	ci.Input = doc
	return u.Compile(ctx, &ci)
}
