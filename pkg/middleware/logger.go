package middleware

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func Logger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}

			stop := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
				if id == "" {
					id = uuid.New().String()
				}
			}

			logger.Info("Request",
				zap.String("request_id", id),
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.String("referer", req.Referer()),
				zap.String("route", c.Path()),
				zap.String("remote_ip", c.RealIP()),
				zap.String("protocol", req.Proto),
				zap.String("host", req.Host),
				zap.String("user_agent", req.UserAgent()),
				zap.Time("start_time", start),
				zap.Time("stop_time", stop),
				zap.Duration("response_time", stop.Sub(start)),
				zap.String("request_size", req.Header.Get(echo.HeaderContentLength)),
				zap.String("response_size", strconv.FormatInt(res.Size, 10)),
			)

			return nil
		}
	}
}

