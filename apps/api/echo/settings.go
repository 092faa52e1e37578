package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/settings"
)

type settingsApi struct {
	svc *settings.Service
}

func registerSettingsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *settings.Service) {
	api := settingsApi{svc: svc}

	sg := g.Group("/settings", jwt, adminMiddleware())
	sg.GET("", api.queryAll)
	sg.GET("/:key", api.retrieve)
	sg.PUT("/:key", api.set)
}

// Handlers

func (api *settingsApi) queryAll(ctx echo.Context) error {
	all, err := api.svc.All()
	if err != nil {
		return errors.Wrap(err, "listing settings")
	}
	return ctx.JSON(http.StatusOK, all)
}

func (api *settingsApi) retrieve(ctx echo.Context) error {
	var value json.RawMessage
	if err := api.svc.Get(ctx.Param("key"), &value); err != nil {
		if errors.Cause(err) == settings.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting setting")
	}
	return ctx.JSON(http.StatusOK, settings.Setting{Key: ctx.Param("key"), Value: value})
}

func (api *settingsApi) set(ctx echo.Context) error {
	var value json.RawMessage
	if err := ctx.Bind(&value); err != nil {
		return errors.Wrap(err, "binding setting value")
	}

	s, err := api.svc.Set(ctx.Param("key"), value)
	if err != nil {
		return errors.Wrap(err, "setting value")
	}
	return ctx.JSON(http.StatusOK, s)
}
