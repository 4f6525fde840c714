package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/views"
	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
	"github.com/jsamuelsen/agency-leads/internal/ports"
)

const (
	wizardPagePath = "/insurance/boat/wizard"

	// DefaultWizardCookie names the cookie holding the boat wizard id.
	DefaultWizardCookie = "boat_wizard"

	sessionExpiredMessage = "Your boat quote session expired. Please start again."
	stepsMissingMessage   = "Save every required step before submitting."
	staleStepMessage      = "That step was already removed. The form below is up to date."
)

// PageConfig wires the server-rendered site.
type PageConfig struct {
	Quotes  app.QuoteSubmitter
	Wizards *app.BoatWizardService
	Blog    *app.BlogService

	// Flags may be nil; the configured banner is used as-is then.
	Flags ports.FeatureFlags

	Site    views.Site
	Metrics *LeadMetrics

	// WizardCookie defaults to DefaultWizardCookie and WizardTTL to
	// app.DefaultWizardTTL.
	WizardCookie string
	WizardTTL    time.Duration

	Logger *slog.Logger
}

// PageHandler renders the public HTML site. Requests carrying
// "HX-Request: true" get only the swapped fragment.
type PageHandler struct {
	cfg    PageConfig
	logger *slog.Logger
}

// NewPageHandler creates a page handler. Panics if Quotes, Wizards or Blog is nil.
func NewPageHandler(cfg PageConfig) *PageHandler {
	if cfg.Quotes == nil || cfg.Wizards == nil || cfg.Blog == nil {
		panic("PageHandler: Quotes, Wizards and Blog are required")
	}

	if cfg.WizardCookie == "" {
		cfg.WizardCookie = DefaultWizardCookie
	}

	if cfg.WizardTTL <= 0 {
		cfg.WizardTTL = app.DefaultWizardTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PageHandler{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "handlers.PageHandler")),
	}
}

// templRender adapts a templ component to gin's renderer.
type templRender struct {
	ctx       context.Context
	component templ.Component
}

func (r templRender) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	return r.component.Render(r.ctx, w)
}

func (r templRender) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func (h *PageHandler) site(ctx context.Context) views.Site {
	site := h.cfg.Site
	if h.cfg.Flags != nil {
		site.Banner = h.cfg.Flags.GetString(ctx, ports.FlagSiteBanner, site.Banner)
	}

	return site
}

// render writes fragment for HTMX requests and page inside the layout otherwise.
func (h *PageHandler) render(c *gin.Context, status int, meta views.PageMeta, page, fragment templ.Component) {
	ctx := c.Request.Context()

	body := views.Layout(h.withSite(ctx, meta), page)
	if fragment != nil && isHTMX(c) {
		body = fragment
	}

	c.Render(status, templRender{ctx: ctx, component: body})
}

func (h *PageHandler) withSite(ctx context.Context, meta views.PageMeta) views.PageMeta {
	meta.Site = h.site(ctx)
	return meta
}

func (h *PageHandler) notFound(c *gin.Context, what string) {
	h.render(c, http.StatusNotFound, views.PageMeta{Title: "Not found"},
		views.ErrorPage("Page not found", "We couldn't find that "+what+"."), nil)
}

func (h *PageHandler) serverError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	logging.FromContextOr(ctx, h.logger).ErrorContext(ctx, "page failed",
		slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))

	h.render(c, http.StatusInternalServerError, views.PageMeta{Title: "Error"},
		views.ErrorPage("Something went wrong", "Please try again, or give us a call."), nil)
}

// postedValues returns the first value of every posted form field.
func postedValues(c *gin.Context) (map[string]string, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}

	return out, nil
}

// Home handles GET /.
func (h *PageHandler) Home(c *gin.Context) {
	meta := views.PageMeta{
		Description: "Free insurance quotes for home, auto, health, life, boat and business.",
		Keywords:    []string{"insurance", "quote", "agency"},
	}

	h.render(c, http.StatusOK, meta, views.Home(domain.Products()), nil)
}

// Product handles GET /insurance/:slug.
func (h *PageHandler) Product(c *gin.Context) {
	schema, err := domain.ProductBySlug(c.Param("slug"))
	if err != nil {
		h.notFound(c, "product")
		return
	}

	if schema.Wizard {
		c.Redirect(http.StatusSeeOther, wizardPagePath)
		return
	}

	view := views.NewFormView(schema)
	h.render(c, http.StatusOK, productMeta(schema), views.ProductPage(view), views.QuoteFormPartial(view))
}

func productMeta(schema *domain.ProductSchema) views.PageMeta {
	return views.PageMeta{
		Title:       schema.Title,
		Description: schema.Tagline,
		Keywords:    []string{schema.Title, "quote"},
	}
}

// SubmitProduct handles POST /insurance/:slug. Validation and backend
// failures re-render the form with 200 so HTMX swaps it in.
func (h *PageHandler) SubmitProduct(c *gin.Context) {
	schema, err := domain.ProductBySlug(c.Param("slug"))
	if err != nil {
		h.notFound(c, "product")
		return
	}

	if schema.Wizard {
		c.Redirect(http.StatusSeeOther, wizardPagePath)
		return
	}

	values, err := postedValues(c)
	if err != nil {
		values = map[string]string{}
	}

	form := h.quoteForm(schema.Type)
	created, err := form.Submit(c.Request.Context(), schema.Type, schema.NewQuote(values))

	view := views.NewFormView(schema)
	view.Values = values
	view.ConsentChecked = values[domain.ConsentField] != ""
	view.State = form.State()
	view.Created = created

	if err != nil {
		view.Errors = domain.ValidationDetails(err)
	}

	h.render(c, http.StatusOK, productMeta(schema), views.ProductPage(view), views.QuoteFormPartial(view))
}

func (h *PageHandler) quoteForm(t domain.QuoteType) *app.QuoteForm {
	form := app.NewQuoteForm(h.cfg.Quotes)
	form.OnSuccess = func(*domain.Quote) { h.cfg.Metrics.Submission(t, nil) }
	form.OnError = func(err error) { h.cfg.Metrics.Submission(t, err) }

	return form
}

func (h *PageHandler) setWizardCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.WizardCookie, id, int(h.cfg.WizardTTL/time.Second), wizardPagePath, "", c.Request.TLS != nil, true)
}

func (h *PageHandler) clearWizardCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.WizardCookie, "", -1, wizardPagePath, "", c.Request.TLS != nil, true)
}

// currentWizard loads the wizard named by the cookie. expired is set when
// a cookie was present but its draft is gone.
func (h *PageHandler) currentWizard(c *gin.Context) (w *domain.BoatWizard, expired bool, err error) {
	id, cookieErr := c.Cookie(h.cfg.WizardCookie)
	if cookieErr != nil || id == "" {
		return nil, false, nil
	}

	w, err = h.cfg.Wizards.Get(c.Request.Context(), id)
	if domain.IsNotFound(err) {
		return nil, true, nil
	}

	return w, false, err
}

// startWizard creates a fresh wizard and points the cookie at it.
func (h *PageHandler) startWizard(c *gin.Context) (*domain.BoatWizard, error) {
	w, err := h.cfg.Wizards.Start(c.Request.Context())
	if err != nil {
		return nil, err
	}

	h.setWizardCookie(c, w.ID)

	return w, nil
}

func (h *PageHandler) wizardView(w *domain.BoatWizard) (views.WizardView, error) {
	schema, err := domain.ProductByType(domain.QuoteTypeBoat)
	if err != nil {
		return views.WizardView{}, err
	}

	return views.WizardView{Wizard: w, Contact: views.NewFormView(schema)}, nil
}

func (h *PageHandler) renderWizard(c *gin.Context, view views.WizardView) {
	meta := views.PageMeta{
		Title:       "Boat Insurance",
		Description: "Quote coverage for every boat and operator in one go.",
		Keywords:    []string{"boat insurance", "watercraft", "quote"},
	}

	h.render(c, http.StatusOK, meta, views.WizardPage(view), views.WizardPanel(view))
}

// Wizard handles GET /insurance/boat/wizard. The draft in the cookie is
// resumed; ?new=1 starts over.
func (h *PageHandler) Wizard(c *gin.Context) {
	var (
		w       *domain.BoatWizard
		expired bool
		err     error
	)

	if c.Query("new") != "1" {
		w, expired, err = h.currentWizard(c)
		if err != nil {
			h.serverError(c, err)
			return
		}
	}

	if w == nil {
		if w, err = h.startWizard(c); err != nil {
			h.serverError(c, err)
			return
		}
	}

	view, err := h.wizardView(w)
	if err != nil {
		h.serverError(c, err)
		return
	}

	if expired {
		view.Error = sessionExpiredMessage
	}

	h.renderWizard(c, view)
}

// restartExpired starts a new wizard after the draft vanished mid-flow.
func (h *PageHandler) restartExpired(c *gin.Context) {
	w, err := h.startWizard(c)
	if err != nil {
		h.serverError(c, err)
		return
	}

	view, err := h.wizardView(w)
	if err != nil {
		h.serverError(c, err)
		return
	}

	view.Error = sessionExpiredMessage
	h.renderWizard(c, view)
}

// WizardCommand handles POST /insurance/boat/wizard/commands. The form
// carries action, slot and index; every other field is slot data.
func (h *PageHandler) WizardCommand(c *gin.Context) {
	w, expired, err := h.currentWizard(c)
	if err != nil {
		h.serverError(c, err)
		return
	}

	if w == nil {
		if expired {
			h.restartExpired(c)
			return
		}

		c.Redirect(http.StatusSeeOther, wizardPagePath)

		return
	}

	values, err := postedValues(c)
	if err != nil {
		values = map[string]string{}
	}

	index, _ := strconv.Atoi(values["index"])
	cmd := domain.WizardCommand{
		Action: domain.WizardAction(values["action"]),
		Slot:   domain.SlotKind(values["slot"]),
		Index:  index,
		Data:   map[string]any{},
	}

	entered := map[string]string{}
	for k, v := range values {
		switch k {
		case "action", "slot", "index":
		default:
			cmd.Data[k] = v
			entered[k] = v
		}
	}

	updated, err := h.cfg.Wizards.Apply(c.Request.Context(), w.ID, cmd)
	h.cfg.Metrics.WizardCommand(cmd.Action, cmd.Slot, err)

	if updated == nil {
		updated = w
	}

	view, viewErr := h.wizardView(updated)
	if viewErr != nil {
		h.serverError(c, viewErr)
		return
	}

	var fieldErrs *domain.FieldErrors

	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		view.ErrorSlot = cmd.Slot
		view.ErrorIndex = cmd.Index
		view.SlotErrors = fieldErrs.Fields
		view.Entered = entered
	case domain.IsNotFound(err):
		view.Error = staleStepMessage
	case domain.IsValidation(err), domain.IsConflict(err):
		view.Error = err.Error()
	default:
		h.serverError(c, err)
		return
	}

	h.renderWizard(c, view)
}

// SubmitWizard handles POST /insurance/boat/wizard/submit. The form carries
// the contact block; the boats and operators come from the draft.
func (h *PageHandler) SubmitWizard(c *gin.Context) {
	w, expired, err := h.currentWizard(c)
	if err != nil {
		h.serverError(c, err)
		return
	}

	if w == nil {
		if expired {
			h.restartExpired(c)
			return
		}

		c.Redirect(http.StatusSeeOther, wizardPagePath)

		return
	}

	values, err := postedValues(c)
	if err != nil {
		values = map[string]string{}
	}

	view, err := h.wizardView(w)
	if err != nil {
		h.serverError(c, err)
		return
	}

	form := h.quoteForm(domain.QuoteTypeBoat)
	created, err := h.cfg.Wizards.Finalize(c.Request.Context(), w.ID, view.Contact.Schema.NewQuote(values), form)

	view.Contact.Values = values
	view.Contact.ConsentChecked = values[domain.ConsentField] != ""
	view.Contact.State = form.State()
	view.Contact.Created = created

	if err == nil {
		h.clearWizardCookie(c)
		h.renderWizard(c, view)

		return
	}

	if reloaded, getErr := h.cfg.Wizards.Get(c.Request.Context(), w.ID); getErr == nil {
		view.Wizard = reloaded
	}

	view.Contact.Errors = domain.ValidationDetails(err)

	if view.Contact.State.Error == "" {
		view.Error = wizardSubmitMessage(err)
	}

	h.renderWizard(c, view)
}

func wizardSubmitMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrSubmissionInProgress):
		return app.ErrorMessage(err)
	case domain.IsConflict(err):
		return stepsMissingMessage
	default:
		return app.ErrorMessage(err)
	}
}

// Blog handles GET /blog?category&tag.
func (h *PageHandler) Blog(c *gin.Context) {
	var filter domain.BlogFilter
	_ = c.ShouldBindQuery(&filter)

	ctx := c.Request.Context()

	posts, err := h.cfg.Blog.ListPosts(ctx, filter)
	if err != nil {
		h.serverError(c, err)
		return
	}

	categories, err := h.cfg.Blog.Categories(ctx)
	if err != nil {
		h.serverError(c, err)
		return
	}

	meta := views.PageMeta{
		Title:       "Blog",
		Description: "Plain-language articles on insurance coverage.",
		Keywords:    []string{"insurance", "blog"},
	}

	h.render(c, http.StatusOK, meta, views.BlogIndex(posts, categories, filter), nil)
}

// BlogPost handles GET /blog/:slug.
func (h *PageHandler) BlogPost(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := h.cfg.Blog.GetPost(ctx, c.Param("slug"))
	if err != nil {
		if domain.IsNotFound(err) {
			h.notFound(c, "article")
			return
		}

		h.serverError(c, err)

		return
	}

	h.render(c, http.StatusOK, views.BlogPostMeta(post, h.site(ctx)), views.BlogPostPage(post), nil)
}

// RegisterPageRoutes registers the HTML site on engine.
func (h *PageHandler) RegisterPageRoutes(engine *gin.Engine) {
	engine.GET("/", h.Home)
	engine.GET("/insurance/:slug", h.Product)
	engine.POST("/insurance/:slug", h.SubmitProduct)
	engine.GET(wizardPagePath, h.Wizard)
	engine.POST(wizardPagePath+"/commands", h.WizardCommand)
	engine.POST(wizardPagePath+"/submit", h.SubmitWizard)
	engine.GET("/blog", h.Blog)
	engine.GET("/blog/:slug", h.BlogPost)
}
