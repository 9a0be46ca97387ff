package main

import (
	"context"
	"time"

	"github.com/apolo-us/appvalues/internal/logging"
)

// withCmdRunLogger emits CMD:<operation>/S and returns a context whose logger
// carries resourceId, plus a cleanup that emits /EOK or /EFAIL with the
// elapsed seconds. The runId comes from the logger set in PersistentPreRunE.
//
//	ctx, cleanup := withCmdRunLogger(ctx, "outputs.update", appID)
//	defer func() { cleanup(err) }()
func withCmdRunLogger(ctx context.Context, operation, resourceID string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("resourceId", resourceID)
	ctx = logging.WithLogger(ctx, logger)
	logger.Info(ctx, "CMD:"+operation+"/S")

	return ctx, func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "CMD:"+operation+"/EOK", "err", "", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 32 {
			errStr = errStr[:32] + "..."
		}
		logger.Info(ctx, "CMD:"+operation+"/EFAIL", "err", errStr, "elapsed", elapsed)
	}
}
