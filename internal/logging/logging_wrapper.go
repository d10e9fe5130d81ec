package logging

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// LoggingWrapper adapts a plain handler that reports errors to an
// http.HandlerFunc logging one entry per request.
func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		reqID := requestID(req.Header.Get(RequestIDHeader))
		w.Header().Set(RequestIDHeader, reqID)
		logData.AddData("requestID", reqID)

		endTimer := logData.AddTiming("duration")
		err := handler(w, req, logData)
		endTimer()
		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}

// Middleware gives every huma operation a LogData in its context and logs it
// under the operation id once the handler has written its response.
func Middleware(log *logrus.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		logData := NewLogData(log)

		reqID := requestID(ctx.Header(RequestIDHeader))
		ctx.SetHeader(RequestIDHeader, reqID)
		logData.AddData("requestID", reqID)
		logData.AddData("method", ctx.Method())
		logData.AddData("path", ctx.URL().Path)

		loggingName := "unknown"
		if op := ctx.Operation(); op != nil {
			loggingName = op.OperationID
		}

		endTimer := logData.AddTiming("duration")
		next(huma.WithContext(ctx, WithLogData(ctx.Context(), logData)))
		endTimer()

		status := ctx.Status()
		logData.AddData("status", status)
		if status >= http.StatusInternalServerError {
			logData.Log().Errorf("Handler.%v.Error", loggingName)
			return
		}
		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}

func requestID(incoming string) string {
	if incoming != "" {
		return incoming
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return id.String()
}
