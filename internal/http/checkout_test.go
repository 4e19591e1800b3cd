package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestGuestCheckoutLoginReturnsToCheckout(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	v := newVisitor(t, app)
	v.page("/products")
	v.post("/cart", url.Values{"productId": {"4"}, "qty": {"2"}})

	expectRedirect(t, v.get("/checkout"), "/login")
	expectRedirect(t, v.post("/cart/checkout", url.Values{}), "/login")

	doc := v.page("/login")
	if got := doc.Find("p.notice").Text(); got != "Please login to proceed to checkout" {
		t.Fatalf("notice = %q", got)
	}

	expectRedirect(t, v.post("/login", url.Values{"username": {"mor_2314"}, "password": {goodPassword}}), "/checkout")

	doc = v.page("/checkout")
	if got := doc.Find("p.total").Text(); got != "Total: $9.00" {
		t.Fatalf("checkout total = %q", got)
	}
	if got := doc.Find(".username").Text(); got != "mor_2314" {
		t.Fatalf("header username = %q", got)
	}

	if v.page("/cart").Find("p.empty").Length() != 0 {
		t.Fatalf("login must not touch the cart")
	}

	resp := v.post("/checkout", url.Values{
		"name":    {"Mor"},
		"email":   {"mor@example.com"},
		"address": {"1 Main Street"},
	})
	if resp.StatusCode != http.StatusFound || !strings.HasPrefix(resp.Header.Get("Location"), "/order/") {
		t.Fatalf("expected redirect to order page, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	orderURL := resp.Header.Get("Location")

	doc = v.page(orderURL)
	if got := doc.Find("code.order-id").Text(); "/order/"+got != orderURL {
		t.Fatalf("order id = %q", got)
	}
	if got := doc.Find("#cart-count").Text(); got != "0" {
		t.Fatalf("cart should be empty after order, header shows %q", got)
	}

	other := newVisitor(t, app)
	entries := captureLogs(t, func() {
		resp := other.get(orderURL)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("foreign order: expected 404, got %d", resp.StatusCode)
		}
	})
	if !hasAction(entries, "access.denied.order") {
		t.Fatalf("expected access.denied.order log")
	}
}

func TestCheckoutValidation(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	v := newVisitor(t, app)
	v.page("/products")
	v.post("/login", url.Values{"username": {"john"}, "password": {goodPassword}})

	// Empty cart goes back to the cart page.
	expectRedirect(t, v.get("/checkout"), "/cart")

	v.post("/cart", url.Values{"productId": {"1"}})
	resp := v.post("/checkout", url.Values{"name": {"J"}, "email": {"not-an-email"}, "address": {"1 Main Street"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad email: expected 400, got %d", resp.StatusCode)
	}
	resp = v.post("/checkout", url.Values{"name": {"J"}, "email": {"j@example.com"}, "address": {"x"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short address: expected 400, got %d", resp.StatusCode)
	}
}

func TestGuardedRouteLogsDenial(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	v := newVisitor(t, app)

	entries := captureLogs(t, func() {
		expectRedirect(t, v.get("/checkout"), "/login")
	})
	if !hasAction(entries, "access.denied.guarded") {
		t.Fatalf("expected access.denied.guarded log")
	}
}
