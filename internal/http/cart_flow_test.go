package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestCartAddMergeUpdateRemove(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	v := newVisitor(t, app)
	v.page("/products")

	expectRedirect(t, v.post("/cart", url.Values{"productId": {"3"}, "qty": {"2"}}), "/cart")
	expectRedirect(t, v.post("/cart", url.Values{"productId": {"3"}, "qty": {"1"}, "size": {"XL"}}), "/cart")
	expectRedirect(t, v.post("/cart", url.Values{"productId": {"25"}, "qty": {"1"}, "color": {"purple"}}), "/cart")

	doc := v.page("/cart")
	if n := doc.Find("tr.line").Length(); n != 2 {
		t.Fatalf("expected 2 lines after merge, got %d", n)
	}
	first := doc.Find(`tr.line[data-product-id="3"]`)
	if q := first.Find("input[name=qty]").AttrOr("value", ""); q != "3" {
		t.Fatalf("merged quantity = %q, want 3", q)
	}
	if !strings.Contains(first.Text(), "Size L") {
		t.Fatalf("first add's size should be kept: %q", first.Text())
	}
	if got := doc.Find("#cart-count").Text(); got != "4" {
		t.Fatalf("header count = %q, want 4", got)
	}
	if got := doc.Find(".totals .subtotal").Text(); got != "$36.00" {
		t.Fatalf("subtotal = %q", got)
	}

	// Non-positive quantities are ignored.
	expectRedirect(t, v.post("/cart/3/quantity", url.Values{"qty": {"0"}}), "/cart")
	doc = v.page("/cart")
	if q := doc.Find(`tr.line[data-product-id="3"] input[name=qty]`).AttrOr("value", ""); q != "3" {
		t.Fatalf("quantity after 0 = %q, want unchanged 3", q)
	}

	expectRedirect(t, v.post("/cart/3/quantity", url.Values{"qty": {"5"}}), "/cart")
	expectRedirect(t, v.post("/cart/25/delete", url.Values{}), "/cart")
	doc = v.page("/cart")
	if n := doc.Find("tr.line").Length(); n != 1 {
		t.Fatalf("expected 1 line after remove, got %d", n)
	}
	if got := doc.Find("#cart-count").Text(); got != "5" {
		t.Fatalf("header count = %q, want 5", got)
	}
	if got := doc.Find(".totals .total").Text(); got != "$17.50" {
		t.Fatalf("total = %q", got)
	}
}

func TestCartAddFetchesUnlistedProduct(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	v := newVisitor(t, app)
	// Only jewelery is loaded; product 2 has to come from the catalog.
	v.page("/products?category=jewelery")

	expectRedirect(t, v.post("/cart", url.Values{"productId": {"2"}, "next": {"/products?category=jewelery"}}), "/products?category=jewelery")
	doc := v.page("/cart")
	if doc.Find(`tr.line[data-product-id="2"]`).Length() != 1 {
		t.Fatalf("product 2 missing from cart")
	}

	resp := v.post("/cart", url.Values{"productId": {"999"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product: expected 404, got %d", resp.StatusCode)
	}
	resp = v.post("/cart", url.Values{"productId": {"abc"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", resp.StatusCode)
	}
}

func TestCartRedirectStaysOnSite(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	v := newVisitor(t, app)
	v.page("/products")

	expectRedirect(t, v.post("/cart", url.Values{"productId": {"1"}, "next": {"//evil.test/"}}), "/cart")
}

func TestCartIsPerVisitor(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	a, b := newVisitor(t, app), newVisitor(t, app)
	a.page("/products")
	b.page("/products")

	a.post("/cart", url.Values{"productId": {"1"}})
	if got := b.page("/cart").Find("p.empty").Length(); got != 1 {
		t.Fatalf("second visitor should see an empty cart")
	}
}
