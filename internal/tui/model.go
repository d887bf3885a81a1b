// Package tui is the terminal storefront: a bubbletea program that browses
// the catalog and drives one visitor session in process.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/cart"
	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/filter"
	"github.com/georgemunganga/storefront/internal/modules/notify"
	"github.com/georgemunganga/storefront/internal/modules/order"
	"github.com/georgemunganga/storefront/internal/modules/quickview"
	"github.com/georgemunganga/storefront/internal/modules/session"
)

// refreshInterval is how often toasts and the quick view are re-read from
// the session. Both change on timers owned by the session.
const refreshInterval = 200 * time.Millisecond

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeQuickView
	modeAlert
)

type pane int

const (
	paneProducts pane = iota
	paneCart
)

// Options configure a storefront program.
type Options struct {
	Catalog  catalog.Service
	Engine   *filter.Engine
	Orders   order.Service
	Session  *session.Session
	Debounce time.Duration
	// Query restores a browse state from a query string, as a shared link
	// would.
	Query string
	Log   *zap.Logger
}

// ── Messages ────────────────────────────────────────────

type productsMsg struct {
	products []*catalog.Product
	err      error
}

type searchMsg struct {
	seq  int
	term string
}

type quickViewMsg struct {
	view quickview.View
	err  error
}

type refreshMsg struct{}

// Model is the storefront program state.
type Model struct {
	ctx    context.Context
	opts   Options
	styles Styles

	mode  mode
	focus pane

	all     []*catalog.Product
	results []*catalog.Product
	facets  filter.Facets
	spec    filter.Spec
	cursor  int
	loadErr error

	search    textinput.Model
	searchSeq int

	view quickview.View

	cartCursor int
	summary    cart.Summary

	alertPrice textinput.Model
	alertEmail textinput.Model
	alertFor   *catalog.Product
	alertErr   string

	toasts []notify.Toast

	// DeepLink is the WhatsApp link of the last checkout.
	DeepLink string
	width    int
}

// New builds the program state. A malformed Query is ignored with a warning.
func New(ctx context.Context, opts Options) Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Engine == nil {
		opts.Engine = filter.NewEngine("en")
	}

	search := textinput.New()
	search.Placeholder = "search products"
	search.Prompt = "/ "
	search.CharLimit = 80

	price := textinput.New()
	price.Placeholder = "target price"
	price.CharLimit = 16
	email := textinput.New()
	email.Placeholder = "email (optional)"
	email.CharLimit = 120

	spec, err := filter.ParseFromQuery(opts.Query)
	if err != nil {
		opts.Log.Warn("ignoring browse query", zap.String("query", opts.Query), zap.Error(err))
		spec = filter.Spec{}
	}
	spec = spec.Normalize()
	search.SetValue(spec.SearchTerm)

	return Model{
		ctx:        ctx,
		opts:       opts,
		styles:     DefaultStyles(),
		spec:       spec,
		search:     search,
		alertPrice: price,
		alertEmail: email,
		view:       opts.Session.QuickView.View(),
		summary:    opts.Session.Cart.Summary(),
		toasts:     opts.Session.Toasts.Active(),
	}
}

// Init loads the catalog and starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadProducts(), refresh())
}

func (m Model) loadProducts() tea.Cmd {
	return func() tea.Msg {
		products, err := m.opts.Catalog.ListProducts(m.ctx, "")
		return productsMsg{products: products, err: err}
	}
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func debounceSearch(seq int, term string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return searchMsg{seq: seq, term: term} })
}

func (m Model) openQuickView(productID string) tea.Cmd {
	qv := m.opts.Session.QuickView
	return func() tea.Msg {
		v, err := qv.Open(m.ctx, productID)
		return quickViewMsg{view: v, err: err}
	}
}

// AddressBar is the shareable query string of the current browse state.
func (m Model) AddressBar() string {
	q := filter.SerializeToQuery(m.spec)
	if q == "" {
		return "/"
	}
	return "/?" + q
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case productsMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			m.opts.Log.Error("catalog load failed", zap.Error(msg.err))
			return m, nil
		}
		m.all = msg.products
		m.facets = filter.ComputeFacets(m.all)
		m.applyFilter()
		return m, nil

	case searchMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.spec.SearchTerm = strings.TrimSpace(msg.term)
		m.applyFilter()
		return m, nil

	case quickViewMsg:
		if errors.Is(msg.err, quickview.ErrStale) {
			return m, nil
		}
		m.view = msg.view
		return m, nil

	case refreshMsg:
		m.syncSession()
		return m, refresh()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeQuickView:
			return m.updateQuickView(msg)
		case modeAlert:
			return m.updateAlert(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

// syncSession re-reads state that session timers may have changed.
func (m *Model) syncSession() {
	s := m.opts.Session
	m.toasts = s.Toasts.Active()
	m.summary = s.Cart.Summary()
	if m.cartCursor >= len(m.summary.Lines) {
		m.cartCursor = max(0, len(m.summary.Lines)-1)
	}
	if m.mode == modeQuickView && m.view.State != quickview.StateLoading {
		m.view = s.QuickView.View()
		if m.view.State == quickview.StateClosed {
			m.mode = modeBrowse
		}
	}
}

func (m *Model) applyFilter() {
	m.results = m.opts.Engine.Apply(m.all, m.spec)
	if m.cursor >= len(m.results) {
		m.cursor = max(0, len(m.results)-1)
	}
}

func (m Model) selected() *catalog.Product {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return nil
	}
	return m.results[m.cursor]
}

// ── Browse ──────────────────────────────────────────────

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		cmd := m.search.Focus()
		return m, cmd
	case "tab":
		if m.focus == paneProducts {
			m.focus = paneCart
		} else {
			m.focus = paneProducts
		}
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "s":
		m.spec.Sort = nextSort(m.spec.Sort)
		m.applyFilter()
	case "i":
		m.spec.InStockOnly = !m.spec.InStockOnly
		m.applyFilter()
	case "x":
		m.spec = filter.Spec{Sort: filter.SortFeatured}
		m.search.SetValue("")
		m.searchSeq++
		m.applyFilter()
	case "o":
		m.checkout()
	case "enter":
		if m.focus == paneProducts {
			if p := m.selected(); p != nil {
				m.mode = modeQuickView
				m.view = quickview.View{State: quickview.StateLoading, ProductID: p.ID}
				return m, m.openQuickView(p.ID)
			}
		}
	case "p":
		if p := m.selected(); p != nil && m.focus == paneProducts {
			m.startAlert(p)
			cmd := m.alertPrice.Focus()
			return m, cmd
		}
	case "+", "=":
		m.stepCartLine(1)
	case "-":
		m.stepCartLine(-1)
	case "d", "delete":
		if m.focus == paneCart && m.cartCursor < len(m.summary.Lines) {
			m.summary = m.opts.Session.Cart.Remove(m.ctx, m.summary.Lines[m.cartCursor].ProductID)
			m.syncSession()
		}
	default:
		// Digits toggle the n-th category facet.
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := int(key[0] - '1')
			if n < len(m.facets.Categories) {
				m.spec = m.spec.WithCategory(m.facets.Categories[n])
				m.applyFilter()
			}
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.focus == paneCart {
		m.cartCursor = clamp(m.cartCursor+delta, len(m.summary.Lines))
		return
	}
	m.cursor = clamp(m.cursor+delta, len(m.results))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func nextSort(k filter.SortKey) filter.SortKey {
	for i, sk := range filter.SortKeys {
		if sk == k {
			return filter.SortKeys[(i+1)%len(filter.SortKeys)]
		}
	}
	return filter.SortFeatured
}

func (m *Model) stepCartLine(delta int) {
	if m.focus != paneCart || m.cartCursor >= len(m.summary.Lines) {
		return
	}
	line := m.summary.Lines[m.cartCursor]
	if line.Quantity+delta < 1 {
		return
	}
	sum, err := m.opts.Session.Cart.SetQuantity(m.ctx, line.ProductID, line.Quantity+delta)
	if err != nil {
		m.opts.Session.Toasts.Emit(notify.LevelError, err.Error())
		return
	}
	m.summary = sum
}

func (m *Model) checkout() {
	s := m.opts.Session
	o, err := m.opts.Orders.Checkout(m.ctx, s.ID, s.Cart.Summary())
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		s.Toasts.Emit(notify.LevelError, "Your cart is empty")
	case errors.Is(err, order.ErrNoPhone):
		s.Toasts.Emit(notify.LevelError, "Ordering by WhatsApp is not available")
	case err != nil:
		m.opts.Log.Error("checkout failed", zap.Error(err))
		s.Toasts.Emit(notify.LevelError, "Could not place the order. Try again.")
	default:
		m.DeepLink = o.DeepLink
		s.Toasts.Emit(notify.LevelSuccess, fmt.Sprintf("Order %s ready to send on WhatsApp", o.OrderNumber))
	}
	m.toasts = s.Toasts.Active()
}

// ── Search ──────────────────────────────────────────────

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		m.mode = modeBrowse
		// Leaving the box applies the term at once.
		m.searchSeq++
		m.spec.SearchTerm = strings.TrimSpace(m.search.Value())
		m.applyFilter()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	return m, tea.Batch(cmd, debounceSearch(m.searchSeq, m.search.Value(), m.opts.Debounce))
}

// ── Quick view ──────────────────────────────────────────

func (m Model) updateQuickView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	qv := m.opts.Session.QuickView
	switch msg.String() {
	case "esc", "q":
		qv.Close()
		m.view = qv.View()
		m.mode = modeBrowse
	case "+", "=", "right", "l":
		m.view, _ = qv.Step(1)
	case "-", "left", "h":
		m.view, _ = qv.Step(-1)
	case "a", "enter":
		sum, err := qv.AddToCart(m.ctx)
		switch {
		case errors.Is(err, quickview.ErrOutOfStock):
			m.opts.Session.Toasts.Emit(notify.LevelError, "This product is out of stock")
		case err != nil && !errors.Is(err, quickview.ErrNotShown):
			m.opts.Session.Toasts.Emit(notify.LevelError, err.Error())
		case err == nil:
			m.summary = sum
		}
		m.toasts = m.opts.Session.Toasts.Active()
	}
	return m, nil
}

// ── Price alert form ────────────────────────────────────

func (m *Model) startAlert(p *catalog.Product) {
	m.mode = modeAlert
	m.alertFor = p
	m.alertErr = ""
	m.alertPrice.SetValue("")
	m.alertEmail.SetValue("")
	m.alertEmail.Blur()
}

func (m Model) updateAlert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.alertPrice.Blur()
		m.alertEmail.Blur()
		m.mode = modeBrowse
		return m, nil
	case "tab", "shift+tab":
		if m.alertPrice.Focused() {
			m.alertPrice.Blur()
			cmd := m.alertEmail.Focus()
			return m, cmd
		}
		m.alertEmail.Blur()
		cmd := m.alertPrice.Focus()
		return m, cmd
	case "enter":
		m.submitAlert()
		return m, nil
	}

	var cmd tea.Cmd
	if m.alertPrice.Focused() {
		m.alertPrice, cmd = m.alertPrice.Update(msg)
	} else {
		m.alertEmail, cmd = m.alertEmail.Update(msg)
	}
	return m, cmd
}

func (m *Model) submitAlert() {
	desired, err := decimal.NewFromString(strings.TrimSpace(m.alertPrice.Value()))
	if err != nil {
		m.alertErr = "Enter a price, for example 2300"
		return
	}
	s := m.opts.Session
	a, err := s.Alerts.Create(m.ctx, m.alertFor, desired, m.alertEmail.Value())
	if err != nil {
		m.alertErr = err.Error()
		return
	}
	s.Toasts.Emit(notify.LevelSuccess, fmt.Sprintf("We'll tell you when %s drops to %s", a.ProductName, a.DesiredPrice.StringFixed(2)))
	m.toasts = s.Toasts.Active()
	m.alertPrice.Blur()
	m.alertEmail.Blur()
	m.mode = modeBrowse
}
