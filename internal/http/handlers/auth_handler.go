package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/catalog"
	applog "storefront/internal/log"
	"storefront/internal/storage"
	"storefront/internal/validate"
)

type AuthHandler struct{}

const checkoutNotice = "Please login to proceed to checkout"

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	s := current(c)
	if s.Gate.Authenticated() {
		return c.Redirect("/products")
	}
	return render(c, "login", fiber.Map{"Err": "", "Notice": loginNotice(s.Store)})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	s := current(c)
	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_username"})
		return h.fail(c, "Username is required", username)
	}
	if !validate.Password(c.FormValue("password")) {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_password_format"})
		return h.fail(c, "Password must be at least 4 characters", username)
	}

	dest, err := s.Gate.Login(c.UserContext(), username, c.FormValue("password"))
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username, "err": err.Error()})
		return h.fail(c, catalog.LoginMessage(err), username)
	}

	applog.Audit(c, "auth.login.success", map[string]any{"username": username, "next": dest})
	return c.Redirect(safeNext(dest, "/products"))
}

func (h *AuthHandler) fail(c *fiber.Ctx, msg, username string) error {
	return render(c.Status(fiber.StatusUnauthorized), "login", fiber.Map{
		"Err":      msg,
		"Username": username,
		"Notice":   loginNotice(current(c).Store),
	})
}

// loginNotice explains why the visitor landed on the login page.
func loginNotice(store storage.Store) string {
	if dest, _ := storage.GetString(store, storage.KeyRedirectAfterLogin); dest == "/checkout" {
		return checkoutNotice
	}
	return ""
}
