package listing

import "storefront/internal/domain"

// State is the listing's input set. Filtered, paginated and pager values are
// derived on demand and never stored.
type State struct {
	AllProducts      []domain.Product
	SearchQuery      string
	SelectedCategory string
	CurrentPage      int
	ItemsPerPage     int
}

func NewState(itemsPerPage int) *State {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &State{SelectedCategory: AllCategories, CurrentPage: 1, ItemsPerPage: itemsPerPage}
}

// SetProducts replaces the product set wholesale.
func (s *State) SetProducts(products []domain.Product) {
	s.AllProducts = products
	s.normalize()
}

// SetQuery changes the search query and returns to the first page.
func (s *State) SetQuery(q string) {
	s.SearchQuery = q
	s.CurrentPage = 1
	s.normalize()
}

// SetCategory records the category and returns to the first page. The
// products for it are loaded separately.
func (s *State) SetCategory(category string) {
	if category == "" {
		category = AllCategories
	}
	s.SelectedCategory = category
	s.CurrentPage = 1
}

// GoToPage moves to page when it exists and reports whether it did.
func (s *State) GoToPage(page int) bool {
	if page < 1 || page > s.TotalPages() {
		return false
	}
	s.CurrentPage = page
	return true
}

func (s *State) Filtered() []domain.Product { return Filter(s.AllProducts, s.SearchQuery) }

func (s *State) Paginated() []domain.Product {
	return Paginate(s.Filtered(), s.CurrentPage, s.ItemsPerPage)
}

func (s *State) TotalPages() int { return TotalPages(len(s.Filtered()), s.ItemsPerPage) }

func (s *State) Pages() []PageLink { return PageNumbers(s.TotalPages(), s.CurrentPage) }

// normalize sends the page back to 1 when filtering left it out of range.
func (s *State) normalize() {
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
	if total := s.TotalPages(); total > 0 && s.CurrentPage > total {
		s.CurrentPage = 1
	}
}

// View is a snapshot handed to templates.
type View struct {
	Products     []domain.Product
	Categories   []string
	Category     string
	Query        string
	Page         int
	TotalPages   int
	TotalMatches int
	Pages        []PageLink
	HasPrev      bool
	HasNext      bool
	IsLoading    bool
	Err          string
}

func (s *State) View() View {
	filtered := s.Filtered()
	total := TotalPages(len(filtered), s.ItemsPerPage)
	return View{
		Products:     Paginate(filtered, s.CurrentPage, s.ItemsPerPage),
		Category:     s.SelectedCategory,
		Query:        s.SearchQuery,
		Page:         s.CurrentPage,
		TotalPages:   total,
		TotalMatches: len(filtered),
		Pages:        PageNumbers(total, s.CurrentPage),
		HasPrev:      s.CurrentPage > 1,
		HasNext:      s.CurrentPage < total,
	}
}
