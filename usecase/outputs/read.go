package outputs

import (
	"context"
	"fmt"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/logging"
	"github.com/apolo-us/appvalues/internal/metrics"
)

func resolve(in *ReadInput) (*readRequest, error) {
	r := &readRequest{Values: in.Values, Namespace: in.Namespace, AppID: in.AppID, AppType: in.AppType}
	if r.AppType == "" {
		s, _ := values.LookupString(in.Values, "apolo_app_type")
		if s == "" {
			return nil, fmt.Errorf("%w: app type not given and apolo_app_type missing from values", model.ErrValidation)
		}
		r.AppType = model.AppType(s)
	}
	if _, err := model.ParseAppType(string(r.AppType)); err != nil {
		return nil, err
	}
	if r.AppID == "" {
		r.AppID, _ = values.LookupString(in.Values, "apolo_app_id")
	}
	if r.AppID == "" {
		return nil, model.Required("apolo_app_id")
	}
	if r.Namespace == "" {
		return nil, model.Required("namespace")
	}
	return r, nil
}

// Read discovers the endpoints of an installed app and mints its credentials
// into the platform secret store. Secrets minted before a failure stay in
// place; Cleanup removes them.
func (u *UseCase) Read(ctx context.Context, in *ReadInput) (out *ReadOutput, err error) {
	if in == nil {
		return nil, fmt.Errorf("ReadInput is required")
	}
	r, err := resolve(in)
	if err != nil {
		metrics.OutputReadsTotal.WithLabelValues(string(in.AppType), metrics.ResultError).Inc()
		return nil, err
	}
	ctx, done := logging.Span(ctx, "Outputs:Read", "appType", string(r.AppType), "appId", r.AppID, "namespace", r.Namespace)
	defer func() {
		metrics.OutputReadsTotal.WithLabelValues(string(r.AppType), metrics.Result(err)).Inc()
		done(err)
	}()

	read, ok := readers[r.AppType]
	if !ok {
		return nil, fmt.Errorf("%w: no output reader for %q", model.ErrUnsupportedAppType, r.AppType)
	}
	doc, err := read(ctx, u, r)
	if err != nil {
		return nil, err
	}
	return &ReadOutput{AppType: r.AppType, AppID: r.AppID, Document: doc}, nil
}
