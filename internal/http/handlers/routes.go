package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "storefront/internal/log"
)

// ErrorHandler logs err and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
		status = fe.Code
	}
	applog.Error(c, "server.error", err, map[string]any{"status": status})
	if rerr := c.Status(status).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(status).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// LoginLimiter throttles login attempts per client.
func LoginLimiter(attempts int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        attempts,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return render(c.Status(fiber.StatusTooManyRequests), "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	})
}

// Routes registers every page. Anything not matched goes back to the
// listing.
func Routes(app *fiber.App, d *Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	app.Use(WithSession(d.Sessions))

	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/products") })
	app.Get("/products", d.ProductHandler.List)
	app.Get("/products/:id", d.ProductHandler.Detail)

	app.Get("/cart", d.CartHandler.View)
	app.Post("/cart", d.CartHandler.Add)
	app.Post("/cart/checkout", d.CartHandler.Checkout)
	app.Post("/cart/:id/quantity", d.CartHandler.UpdateQuantity)
	app.Post("/cart/:id/delete", d.CartHandler.Remove)

	app.Get("/checkout", RequireToken(), d.OrderHandler.Checkout)
	app.Post("/checkout", RequireToken(), d.OrderHandler.Place)
	app.Get("/order/:id", d.OrderHandler.View)

	loginLimit := d.LoginLimit
	if loginLimit == nil {
		loginLimit = LoginLimiter(5, 10*time.Minute)
	}
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", loginLimit, d.AuthHandler.Login)

	app.Get("/events", d.EventsHandler.Stream)

	app.Use(func(c *fiber.Ctx) error {
		return c.Redirect("/products")
	})
}
