package logging

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
)

// HumaMiddleware is the huma counterpart of LoggingWrapper: it opens a
// LogData for each operation, attaches it to the request context so handlers
// can record timings and data against it, and emits the Start/Complete pair
// with everything collected.
func HumaMiddleware(log *logrus.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		loggingName := ctx.Operation().OperationID
		log.Infof("Handler.%v.Start", loggingName)

		logData := NewLogData(log)
		endTimer := logData.AddTiming("duration")

		ctx = huma.WithContext(ctx, WithLogData(ctx.Context(), logData))
		next(ctx)
		endTimer()

		if ctx.Status() >= http.StatusBadRequest {
			logData.AddData("status", ctx.Status())
			logData.Log().Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}
