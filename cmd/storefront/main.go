package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/pflag"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/views"
)

func main() {
	configPath := pflag.String("config", "", "YAML config file applied over environment settings")
	port := pflag.String("port", "", "listen port (overrides PORT)")
	dsn := pflag.String("db", "", "sqlite DSN (overrides DB_DSN)")
	reload := pflag.Bool("reload", false, "re-parse templates on every request")
	pflag.Parse()

	cfg := config.Load()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath, cfg); err != nil {
			log.Fatal(err)
		}
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dsn != "" {
		cfg.DBDSN = *dsn
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	client := catalog.New(cfg.CatalogURL, cfg.CatalogTimeout)

	engine := views.NewEngine(cfg.TemplatesDir)
	engine.Reload(*reload)

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || p == "/events"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Static("/static", "./web/static")

	deps := handlers.NewDeps(db, cfg, client)
	handlers.Routes(app, deps)

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "catalog": cfg.CatalogURL})
	log.Fatal(app.Listen(":" + cfg.Port))
}
