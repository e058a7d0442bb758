package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gencidev/storefront/config"
	"github.com/gencidev/storefront/internal/app"
	"github.com/gencidev/storefront/internal/remote"
	"github.com/gencidev/storefront/internal/repository"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

var cfile = flag.String("c", "storefront.yml", "config file")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer application.Release()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundTasks(ctx)

	e := newServer(application)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("web server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("web server shutdown", zap.Error(err))
	}
}

func newServer(a *app.Application) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status": "ok",
			"online": a.Connectivity().IsOnline(),
		})
	})

	e.GET("/api/products", func(c echo.Context) error {
		limit := cast.ToInt(c.QueryParam("limit"))
		skip := cast.ToInt(c.QueryParam("skip"))
		products, err := a.Products().List(c.Request().Context(), limit, skip)
		if err != nil {
			return dataError(c, err)
		}
		return c.JSON(http.StatusOK, products)
	})

	e.GET("/api/products/:id", func(c echo.Context) error {
		id := cast.ToInt(c.Param("id"))
		if id <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
		}
		product, err := a.Products().GetByID(c.Request().Context(), id)
		if err != nil {
			return dataError(c, err)
		}
		if product == nil {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return c.JSON(http.StatusOK, product)
	})

	e.GET("/api/search", func(c echo.Context) error {
		query := c.QueryParam("q")
		limit := cast.ToInt(c.QueryParam("limit"))
		skip := cast.ToInt(c.QueryParam("skip"))
		products, err := a.Products().Search(c.Request().Context(), query, limit, skip)
		if err != nil {
			return dataError(c, err)
		}
		return c.JSON(http.StatusOK, products)
	})

	e.GET("/api/categories", func(c echo.Context) error {
		categories, err := a.Products().Categories(c.Request().Context())
		if err != nil {
			return dataError(c, err)
		}
		return c.JSON(http.StatusOK, categories)
	})

	e.GET("/api/categories/:slug/products", func(c echo.Context) error {
		limit := cast.ToInt(c.QueryParam("limit"))
		skip := cast.ToInt(c.QueryParam("skip"))
		products, err := a.Products().ListByCategory(c.Request().Context(), c.Param("slug"), limit, skip)
		if err != nil {
			return dataError(c, err)
		}
		return c.JSON(http.StatusOK, products)
	})

	e.GET("/api/carts", func(c echo.Context) error {
		limit := cast.ToInt(c.QueryParam("limit"))
		skip := cast.ToInt(c.QueryParam("skip"))
		carts, err := a.Carts().List(c.Request().Context(), limit, skip)
		if err != nil {
			return dataError(c, err)
		}
		return c.JSON(http.StatusOK, carts)
	})

	e.GET("/api/cache/info", func(c echo.Context) error {
		catalog, err := a.Products().CacheInfo(c.Request().Context())
		if err != nil {
			return dataError(c, err)
		}
		carts, err := a.Carts().CacheInfo(c.Request().Context())
		if err != nil {
			return dataError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"catalog": catalog,
			"carts":   carts,
			"online":  a.Connectivity().IsOnline(),
		})
	})

	return e
}

// dataError maps repository errors onto HTTP statuses. Nothing cached
// and no network is a service-unavailable condition, not a client
// mistake.
func dataError(c echo.Context, err error) error {
	var status *remote.StatusError
	switch {
	case errors.Is(err, repository.ErrNotCached):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no cached data and remote unreachable")
	case errors.Is(err, repository.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &status):
		return echo.NewHTTPError(status.StatusCode, status.Body)
	default:
		zap.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "upstream request failed")
	}
}
