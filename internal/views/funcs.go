package views

import (
	"fmt"
	"html/template"
	"math"
	"net/url"
	"strconv"

	html "github.com/gofiber/template/html/v2"
)

// Stars returns five flags, true for a lit star. A fraction of .5 or more
// lights the star after the full ones.
func Stars(rate float64) []bool {
	full := int(math.Floor(rate))
	half := rate-math.Floor(rate) >= 0.5
	out := make([]bool, 5)
	for i := range out {
		out[i] = i < full || (i == full && half)
	}
	return out
}

func Price(v float64) string { return fmt.Sprintf("$%.2f", v) }

// PageURL builds the listing URL for page, keeping category and query.
func PageURL(category, query string, page int) string {
	v := url.Values{}
	if category != "" {
		v.Set("category", category)
	}
	if query != "" {
		v.Set("q", query)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/products"
	}
	return "/products?" + v.Encode()
}

// Funcs is the template FuncMap used by every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"stars":   Stars,
		"price":   Price,
		"pageURL": PageURL,
		"add":     func(a, b int) int { return a + b },
		"sub":     func(a, b int) int { return a - b },
	}
}

// NewEngine loads the page templates under dir with Funcs registered.
func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	for name, fn := range Funcs() {
		engine.AddFunc(name, fn)
	}
	return engine
}
