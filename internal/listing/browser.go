package listing

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

var ErrSuperseded = errors.New("listing: superseded by a newer category request")

const LoadFailedMessage = "Failed to load products. Please try again."

// Source is the part of the catalog client the listing reads from.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Browser is one origin's listing: its State plus a loader where only the
// most recently issued category fetch may update the state.
type Browser struct {
	src Source

	mu         sync.Mutex
	state      *State
	categories []string
	loaded     string // category AllProducts belongs to; empty before the first success
	loading    bool
	errMsg     string
	seq        uint64
	cancel     context.CancelFunc
}

func NewBrowser(src Source, itemsPerPage int) *Browser {
	return &Browser{src: src, state: NewState(itemsPerPage)}
}

// Init loads the category list (once) and the products of the selected
// category, concurrently.
func (b *Browser) Init(ctx context.Context) error {
	b.mu.Lock()
	category := b.state.SelectedCategory
	b.mu.Unlock()
	return b.load(ctx, category)
}

func (b *Browser) load(ctx context.Context, category string) error {
	var g errgroup.Group
	g.Go(func() error { return b.loadCategories(ctx) })
	g.Go(func() error { return b.SelectCategory(ctx, category) })
	return g.Wait()
}

// Open prepares the browser for a page request. Products are reused only
// when the last successful fetch was for category; otherwise they are
// fetched again, together with the category list if it is still missing.
func (b *Browser) Open(ctx context.Context, category string) error {
	if category == "" {
		category = AllCategories
	}
	b.mu.Lock()
	current := b.loaded == category && b.state.SelectedCategory == category
	if current {
		b.errMsg = ""
	}
	b.mu.Unlock()

	if current {
		return b.loadCategories(ctx)
	}
	return b.load(ctx, category)
}

func (b *Browser) loadCategories(ctx context.Context) error {
	b.mu.Lock()
	have := len(b.categories) > 0
	b.mu.Unlock()
	if have {
		return nil
	}

	cats, err := b.src.Categories(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			b.errMsg = catalog.Message(err, LoadFailedMessage)
		}
		return err
	}
	seen := make(map[string]bool, len(cats))
	out := []string{AllCategories}
	for _, c := range cats {
		if c == "" || c == AllCategories || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	b.categories = out
	return nil
}

// SelectCategory switches category and fetches its products. A fetch still
// in flight for an earlier category is cancelled; if this call is itself
// overtaken it returns ErrSuperseded and leaves the state alone. A failed
// fetch returns the selection to the category whose products are loaded.
func (b *Browser) SelectCategory(ctx context.Context, category string) error {
	if category == "" {
		category = AllCategories
	}
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.seq++
	seq := b.seq
	fetchCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	prevPage := b.state.CurrentPage
	wasLoaded := b.state.SelectedCategory == b.loaded
	b.state.SetCategory(category)
	b.loading = true
	b.errMsg = ""
	b.mu.Unlock()
	defer cancel()

	var products []domain.Product
	var err error
	if category == AllCategories {
		products, err = b.src.Products(fetchCtx)
	} else {
		products, err = b.src.ProductsByCategory(fetchCtx, category)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.seq {
		return ErrSuperseded
	}
	b.cancel = nil
	b.loading = false
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			b.errMsg = catalog.Message(err, LoadFailedMessage)
		}
		// Fall back to the set that is still loaded so the category shown
		// always matches the products shown.
		if b.loaded != "" {
			b.state.SelectedCategory = b.loaded
			if wasLoaded {
				b.state.CurrentPage = prevPage
			}
		}
		return err
	}
	b.loaded = category
	b.state.SetProducts(products)
	return nil
}

func (b *Browser) SetQuery(q string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.SetQuery(q)
}

func (b *Browser) GoToPage(page int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.GoToPage(page)
}

func (b *Browser) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.SearchQuery
}

// Product looks a product up in the loaded set.
func (b *Browser) Product(id int) (domain.Product, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.state.AllProducts {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.state.View()
	v.Categories = append([]string(nil), b.categories...)
	v.IsLoading = b.loading
	v.Err = b.errMsg
	return v
}
