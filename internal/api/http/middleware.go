package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/api/http/handlers"
	"github.com/spec-kit/jobsabroad-web/internal/observability"
	apperrors "github.com/spec-kit/jobsabroad-web/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, renderer *handlers.Renderer, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics, renderer))
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(handlers.SessionCookie())
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware converts errors into a rendered error page. No
// failure here is fatal to the process: the worst outcome is the generic
// error page.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, renderer *handlers.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				var fiberErr *fiber.Error
				if errors.As(err, &fiberErr) {
					err = apperrors.NewDomainError("REQUEST_FAILED", fiberErr.Message, fiberErr.Code, nil)
				}
				domainErr := apperrors.ToDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				renderErr := renderer.Render(c, domainErr.HTTPStatus, "error", handlers.PageData{
					Title: "Something went wrong",
					Error: domainErr.Message,
				})
				if renderErr != nil {
					c.Status(domainErr.HTTPStatus)
					_ = c.SendString(domainErr.Message)
				}
				err = nil
			}
		}()
		return c.Next()
	}
}
