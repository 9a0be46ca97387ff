package logging

import (
	"context"
	"time"
)

// Span emits a start line "<sym>/S" and returns a context carrying the attributed
// logger plus a finisher that emits "<sym>/EOK" or "<sym>/EFAIL" with the elapsed time.
//
//	ctx, done := logging.Span(ctx, "Compile:Run", "appType", in.AppType)
//	defer func() { done(err) }()
//
// Error strings are truncated to 64 bytes so that values rendered into errors do not
// flood the log.
func Span(ctx context.Context, sym string, kv ...any) (context.Context, func(err error)) {
	start := time.Now()
	logger := FromContext(ctx)
	if len(kv) > 0 {
		logger = logger.With(kv...)
	}
	ctx = WithLogger(ctx, logger)
	logger.Info(ctx, sym+"/S")
	return ctx, func(err error) {
		elapsed := time.Since(start).Seconds()
		if err == nil {
			logger.Info(ctx, sym+"/EOK", "elapsed", elapsed)
			return
		}
		msg := err.Error()
		if len(msg) > 64 {
			msg = msg[:64] + "..."
		}
		logger.Info(ctx, sym+"/EFAIL", "err", msg, "elapsed", elapsed)
	}
}
