package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/lesson-booking/internal/logging"
)

// HeaderCorrelationID ties a request to its log lines and is echoed back.
const HeaderCorrelationID = "Correlation-ID"

// RequestLogger attaches a logrus entry carrying the correlation id to the
// request context and logs one line per request once the response status
// is final.
func RequestLogger(base logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			cid := req.Header.Get(HeaderCorrelationID)
			if cid == "" {
				cid = "gen_" + shortuuid.New()
			}
			c.Response().Header().Set(HeaderCorrelationID, cid)

			entry := base.WithFields(logrus.Fields{
				"correlation_id": cid,
				"method":         req.Method,
				"path":           req.URL.Path,
			})
			c.SetRequest(req.WithContext(logging.ToContext(req.Context(), entry)))

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := logrus.Fields{
				"status":     status,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  c.RealIP(),
				"bytes_out":  c.Response().Size,
			}
			switch {
			case status >= 500:
				entry.WithFields(fields).Error("request")
			case status >= 400:
				entry.WithFields(fields).Warn("request")
			default:
				entry.WithFields(fields).Info("request")
			}
			return nil
		}
	}
}
