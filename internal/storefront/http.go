package storefront

import (
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"Storefront/internal/cart"
	"Storefront/internal/checkout"
	"Storefront/internal/render"
	"Storefront/internal/session"
	"Storefront/internal/storage"
	"Storefront/internal/surface"
	"Storefront/internal/view"
	"Storefront/pkg/kit"
)

const (
	noticeContainer = "notice"

	invalidEventMessage    = `<p class="error">That action is not available on this page.</p>`
	invalidQuantityMessage = `<p class="error">Quantity must be a whole number.</p>`
	cartSaveFailedMessage  = `<p class="error">Your cart could not be saved. Please try again.</p>`
	emptyCartMessage       = `<p class="error">Your cart is empty.</p>`
	orderFailedMessage     = `<p class="error">We could not place your order. Please try again later.</p>`
	invalidFormTemplate    = `<p class="error">Please correct: {{fields}}.</p>`
)

type Server struct {
	Catalog    Catalog
	Storage    *storage.Adapter
	Partials   *render.Partials
	Templates  Templates
	CartKey    string
	Categories []string
	Checkout   *checkout.Service
	Log        *zap.Logger
	Metrics    *kit.Metrics
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	page := surface.NewPage()
	mgr := s.cartFor(r, cart.Options{})

	links := make([]render.Record, 0, len(s.Categories))
	for _, c := range s.Categories {
		links = append(links, render.Record{"categoryQuery": url.QueryEscape(c), "label": categoryLabel(c)})
	}
	page.Container("categories").SetContent(render.RenderList(s.Templates.CategoryLink, links))

	s.writePage(w, r, http.StatusOK, page, mgr, "Home", s.Templates.Home, nil)
}

func (s *Server) productList(w http.ResponseWriter, r *http.Request) {
	page := surface.NewPage()
	mgr := s.cartFor(r, cart.Options{})

	params := r.URL.Query()
	list := view.NewProductList(params, s.Catalog, page.Container("products"), s.Templates.ProductCard, s.Log)
	list.Init(r.Context())

	heading := categoryLabel(list.Category)
	if heading == "" {
		heading = "All"
	}
	s.writePage(w, r, http.StatusOK, page, mgr, "Products: "+heading, s.Templates.ProductList,
		render.Record{"heading": heading})
}

// productDetail renders one product. On POST it first dispatches the posted
// event, which is how the add-to-cart button reaches the cart.
func (s *Server) productDetail(w http.ResponseWriter, r *http.Request) {
	page := surface.NewPage()
	mgr := s.cartFor(r, cart.Options{})

	// chi matches on the raw path, so an escaped id arrives still escaped.
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		id = ""
	}
	params := url.Values{"id": {id}}
	detail := view.NewProductDetail(params, s.Catalog, mgr, page.Container("product"),
		page.Container(noticeContainer), s.Templates.ProductBody, s.Log)

	status := http.StatusOK
	if detail.Init(r.Context()) == view.Error {
		status = http.StatusNotFound
	}

	if r.Method == http.MethodPost && status == http.StatusOK {
		status = s.dispatch(r, page)
	}

	p := detail.Product()
	title := p.Name
	if title == "" {
		title = "Product"
	}
	s.writePage(w, r, status, page, mgr, title, s.Templates.ProductPage,
		render.Record{"category": p.Category, "categoryQuery": url.QueryEscape(p.Category)})
}

func (s *Server) cart(w http.ResponseWriter, r *http.Request) {
	page := surface.NewPage()
	mgr := s.cartFor(r, cart.Options{
		List:      page.Container("cartList"),
		Summary:   page.Container("cartSummary"),
		Templates: cart.Templates{Item: s.Templates.CartItem, Summary: s.Templates.CartSummary},
	})
	mgr.Render()

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = s.dispatch(r, page)
	}

	s.writePage(w, r, status, page, mgr, "Cart", s.Templates.CartPage, nil)
}

func (s *Server) checkoutForm(w http.ResponseWriter, r *http.Request) {
	page := surface.NewPage()
	mgr := s.cartFor(r, cart.Options{})

	if mgr.Count() == 0 {
		page.Container(noticeContainer).SetContent(emptyCartMessage)
	}
	page.Container("checkout").SetContent(s.renderCheckoutForm(mgr, checkout.Form{}))

	s.writePage(w, r, http.StatusOK, page, mgr, "Checkout", s.Templates.CheckoutPage, nil)
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	page := surface.NewPage()
	mgr := s.cartFor(r, cart.Options{})

	if err := r.ParseForm(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad form", nil)
		return
	}
	form := checkout.FormFromValues(r.PostForm)
	itemCount := mgr.Count()

	order, conf, err := s.Checkout.Submit(r.Context(), form, mgr)
	if err == nil {
		orderID := order.ID
		if v, ok := conf["orderId"].(string); ok && v != "" {
			orderID = v
		}
		page.Container("checkout").SetContent(render.Render(s.Templates.OrderPlaced, render.Record{
			"orderId":   orderID,
			"itemCount": itemCount,
			"total":     render.Currency(order.Total),
		}))
		s.writePage(w, r, http.StatusOK, page, mgr, "Order placed", s.Templates.CheckoutPage, nil)
		return
	}

	status := http.StatusBadRequest
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		page.Container(noticeContainer).SetContent(render.Render(invalidFormTemplate, render.Record{
			"fields": strings.Join(slices.Sorted(maps.Keys(verr.Fields)), ", "),
		}))
	case errors.Is(err, checkout.ErrEmptyCart):
		page.Container(noticeContainer).SetContent(emptyCartMessage)
	default:
		status = http.StatusBadGateway
		page.Container(noticeContainer).SetContent(orderFailedMessage)
	}

	page.Container("checkout").SetContent(s.renderCheckoutForm(mgr, form))
	s.writePage(w, r, status, page, mgr, "Checkout", s.Templates.CheckoutPage, nil)
}

// dispatch routes the posted event to the page and reports the status the
// page should be served with. Failures surface as a notice.
func (s *Server) dispatch(r *http.Request, page *surface.Page) int {
	if err := r.ParseForm(); err != nil {
		page.Container(noticeContainer).SetContent(invalidEventMessage)
		return http.StatusBadRequest
	}

	ev := surface.Event{
		Type:   r.PostForm.Get("event"),
		Target: r.PostForm.Get("target"),
		Value:  r.PostForm.Get("value"),
	}

	err := page.Dispatch(r.Context(), ev)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, surface.ErrNoHandler):
		kit.OrNop(s.Log).Info("unhandled page event",
			zap.String("event", ev.Type), zap.String("target", ev.Target))
		page.Container(noticeContainer).SetContent(invalidEventMessage)
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrInvalidQuantity):
		page.Container(noticeContainer).SetContent(invalidQuantityMessage)
		return http.StatusBadRequest
	default:
		// The add-to-cart handler writes its own notice.
		if page.Content(noticeContainer) == "" {
			page.Container(noticeContainer).SetContent(cartSaveFailedMessage)
		}
		return http.StatusInternalServerError
	}
}

// cartFor opens the visitor's cart from storage scoped to their session.
func (s *Server) cartFor(r *http.Request, opts cart.Options) *cart.Manager {
	sid, _ := session.FromContext(r.Context())

	opts.Log = s.Log
	opts.Metrics = s.Metrics
	return cart.NewManager(r.Context(), s.Storage.Scope(sid), s.CartKey, opts)
}

func (s *Server) renderCheckoutForm(mgr *cart.Manager, f checkout.Form) string {
	t := mgr.Totals()
	return render.Render(s.Templates.CheckoutForm, render.Record{
		"fname":     f.FirstName,
		"lname":     f.LastName,
		"email":     f.Email,
		"phone":     f.Phone,
		"street":    f.Street,
		"city":      f.City,
		"state":     f.State,
		"zip":       f.Zip,
		"itemCount": mgr.Count(),
		"subtotal":  render.Currency(t.Subtotal),
		"tax":       render.Currency(t.Tax),
		"total":     render.Currency(t.Total),
	})
}

// writePage expands main against the page's containers and wraps it in the
// layout with the header and footer partials.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page *surface.Page, mgr *cart.Manager, title, main string, extra render.Record) {
	header, footer, err := s.Partials.LoadHeaderFooter(r.Context())
	if err != nil {
		kit.OrNop(s.Log).Error("load page partials failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	body := page.Compose(main, extra)
	kit.WriteHTML(w, status, page.Compose(s.Templates.Layout, render.Record{
		"title":  title,
		"header": render.Raw(render.Render(header, render.Record{"cartCount": mgr.Count()})),
		"main":   render.Raw(body),
		"footer": render.Raw(footer),
	}))
}

// categoryLabel turns a category slug such as "sleeping-bags" into
// "Sleeping Bags".
func categoryLabel(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.TrimSpace(slug), "-", " "))
}
