package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/views"
)

const goodPassword = "83r5^_"

// fakeAPI serves the handful of catalog endpoints the storefront uses.
// 20 electronics products (ids 1-20) and 10 jewelery (ids 21-30).
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	var all []domain.Product
	for i := 1; i <= 30; i++ {
		cat := "electronics"
		if i > 20 {
			cat = "jewelery"
		}
		title := "Product " + strconv.Itoa(i)
		if i == 7 {
			title = "Fjallraven Backpack"
		}
		all = append(all, domain.Product{
			ID: i, Title: title, Price: float64(i) + 0.5, Category: cat,
			Image: "https://img.test/" + strconv.Itoa(i) + ".jpg",
			Rating: &domain.Rating{Rate: 3.6, Count: 10 * i},
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(all)
	})
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"electronics", "jewelery"})
	})
	mux.HandleFunc("/products/category/", func(w http.ResponseWriter, r *http.Request) {
		cat := strings.TrimPrefix(r.URL.Path, "/products/category/")
		out := []domain.Product{}
		for _, p := range all {
			if p.Category == cat {
				out = append(out, p)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/products/"))
		if id < 1 || id > len(all) {
			return // the real API answers 200 with an empty body
		}
		_ = json.NewEncoder(w).Encode(all[id-1])
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds catalog.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		switch {
		case creds.Password != goodPassword:
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, "username or password is incorrect")
		case creds.Username == "stringy":
			fmt.Fprint(w, `"tok-string"`)
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-" + creds.Username})
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type appOpts struct {
	loginLimit fiber.Handler
}

// newApp wires the real routes against an in-memory database and fakeAPI.
func newApp(t *testing.T, opts appOpts) (*fiber.App, *handlers.Deps) {
	t.Helper()
	cfg := config.Default()
	cfg.DBDSN = ":memory:"
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := fakeAPI(t)
	client := catalog.New(srv.URL, 5*time.Second)

	app := fiber.New(fiber.Config{
		Views:        views.NewEngine("../../web/templates"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))

	deps := handlers.NewDeps(db, cfg, client)
	deps.LoginLimit = opts.loginLimit
	handlers.Routes(app, deps)
	return app, deps
}

// visitor is one browser: it keeps cookies between requests and fills in
// the csrf form field.
type visitor struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newVisitor(t *testing.T, app *fiber.App) *visitor {
	return &visitor{t: t, app: app, cookies: map[string]string{}}
}

func (v *visitor) do(method, target string, form url.Values) *http.Response {
	v.t.Helper()
	var body io.Reader
	if form != nil {
		if form.Get("csrf") == "" {
			form.Set("csrf", v.cookies["csrf_"])
		}
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, val := range v.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: val})
	}
	resp, err := v.app.Test(req, -1)
	if err != nil {
		v.t.Fatalf("%s %s: %v", method, target, err)
	}
	for _, c := range resp.Cookies() {
		if c.Value == "" || c.MaxAge < 0 {
			delete(v.cookies, c.Name)
			continue
		}
		v.cookies[c.Name] = c.Value
	}
	return resp
}

func (v *visitor) get(target string) *http.Response { return v.do(http.MethodGet, target, nil) }

func (v *visitor) post(target string, form url.Values) *http.Response {
	if _, ok := v.cookies["csrf_"]; !ok {
		v.get("/login")
	}
	return v.do(http.MethodPost, target, form)
}

func (v *visitor) page(target string) *goquery.Document {
	v.t.Helper()
	resp := v.get(target)
	if resp.StatusCode != http.StatusOK {
		v.t.Fatalf("GET %s: status %d", target, resp.StatusCode)
	}
	return parse(v.t, resp)
}

func parse(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func expectRedirect(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected redirect to %s, got %d body=%s", want, resp.StatusCode, b)
	}
	if got := resp.Header.Get("Location"); got != want {
		t.Fatalf("redirect to %q, want %q", got, want)
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf lockedBuf
	applog.SetOutput(&buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	buf.mu.Lock()
	defer buf.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}
