package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/analytics"
	"github.com/trezcool/elimu/core/course"
)

type analyticsApi struct {
	svc *analytics.Service
}

func registerAnalyticsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *analytics.Service) {
	api := analyticsApi{svc: svc}

	ag := g.Group("/analytics", jwt)
	ag.GET("/users", api.userStats, adminMiddleware())
	ag.GET("/payments", api.paymentStats, adminMiddleware())
	ag.GET("/revenue", api.revenue, adminMiddleware())
	ag.GET("/courses/:id", api.courseAnalytics, teacherMiddleware())
	ag.GET("/teachers/:id", api.teacherAnalytics, teacherMiddleware())
}

// Handlers

func (api *analyticsApi) userStats(ctx echo.Context) error {
	stats, err := api.svc.UserStats()
	if err != nil {
		return errors.Wrap(err, "computing user stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *analyticsApi) paymentStats(ctx echo.Context) error {
	stats, err := api.svc.PaymentStats()
	if err != nil {
		return errors.Wrap(err, "computing payment stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *analyticsApi) revenue(ctx echo.Context) error {
	months, err := api.svc.RevenueAnalytics()
	if err != nil {
		return errors.Wrap(err, "computing revenue analytics")
	}
	return ctx.JSON(http.StatusOK, months)
}

func (api *analyticsApi) courseAnalytics(ctx echo.Context) error {
	stats, err := api.svc.CourseAnalytics(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "computing course analytics")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *analyticsApi) teacherAnalytics(ctx echo.Context) error {
	// teachers may only see their own dashboard
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if !claims.IsAdmin && ctx.Param("id") != claims.Subject {
		return errHttpForbidden
	}

	stats, err := api.svc.TeacherAnalytics(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing teacher analytics")
	}
	return ctx.JSON(http.StatusOK, stats)
}
