package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"

	panel "github.com/beacon-sh/panel"
	"github.com/beacon-sh/panel/client"
	"github.com/beacon-sh/panel/middleware/sessionguard"
)

// Config is the process configuration, read from the environment.
type Config struct {
	BackendURL     string        `env:"BACKEND_URL,required"`
	ListenAddr     string        `env:"LISTEN_ADDR" envDefault:":8080"`
	ViewsDir       string        `env:"VIEWS_DIR" envDefault:"./views"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s"`
	Debug          bool          `env:"DEBUG" envDefault:"false"`
}

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("panel"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	api := client.New(cfg.BackendURL,
		client.WithTimeout(cfg.BackendTimeout),
		client.WithLogger(lgr.GetLogger("client")),
	)

	engine := django.New(cfg.ViewsDir, ".html")
	engine.AddFuncMap(panel.TemplateHelpers())

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	srv.Router().Use(mflash.New(mflash.ConfigDefault))

	// Cheap cookie check in front of every authenticated page. Handlers still
	// verify the session against the backend; this only short-circuits
	// requests that cannot possibly carry one.
	srv.Router().Use(sessionguard.New(sessionguard.Config{
		Filter: func(ctx router.Context) bool {
			return !strings.HasPrefix(ctx.Path(), "/panel")
		},
	}))

	srv.Router().Static("/public", "./public")

	panel.RegisterPanelRoutes(srv.Router(),
		panel.WithPanelAPI(api),
		panel.WithPanelLogger(lgr.GetLogger("http")),
		panel.WithPanelDebug(cfg.Debug),
	)

	app := lgr.GetLogger("app")
	app.Info("listening", "addr", cfg.ListenAddr)
	srv.Serve(cfg.ListenAddr)

	waitExitSignal()
	app.Info("shutting down")
	return nil
}

func waitExitSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
}
