package views

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// FormView is everything the generic quote form needs to render.
type FormView struct {
	Schema *domain.ProductSchema

	// Values are the raw entered values keyed by input name.
	Values map[string]string

	// Errors are field messages keyed by field path.
	Errors map[string]string

	State   app.FormState
	Created *domain.Quote

	ConsentChecked bool
}

// NewFormView returns a blank form for schema with the consent default applied.
func NewFormView(schema *domain.ProductSchema) FormView {
	return FormView{
		Schema:         schema,
		Values:         map[string]string{},
		ConsentChecked: schema.ConsentDefault,
	}
}

// Home lists every product.
func Home(products []domain.ProductSchema) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="hero"><h1>Insurance quotes from people who pick up the phone</h1>`)
		h.raw(`<p>Choose a product to get a free, no-obligation quote.</p></section>`)
		h.raw(`<ul class="product-grid">`)

		for _, p := range products {
			target := "/insurance/" + p.Slug
			if p.Wizard {
				target += "/wizard"
			}

			h.raw(`<li class="product-card"><a`)
			h.href(target)
			h.raw(`><h2>`)
			h.text(p.Title)
			h.raw(`</h2><p>`)
			h.text(p.Tagline)
			h.raw(`</p></a></li>`)
		}

		h.raw(`</ul>`)
	})
}

// ProductPage is the landing page for one product with its form.
func ProductPage(view FormView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section class="landing"><h1>`)
		h.text(view.Schema.Title)
		h.raw(`</h1><p class="tagline">`)
		h.text(view.Schema.Tagline)
		h.raw(`</p></section>`)
		h.render(ctx, QuoteFormPartial(view))
	})
}

// QuoteFormPartial is the swappable form region. HTMX posts replace it.
func QuoteFormPartial(view FormView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div id="quote-form">`)

		if view.State.Success && view.Created != nil {
			h.render(ctx, successPanel(view.Created))
			h.raw(`</div>`)

			return
		}

		h.render(ctx, banner("error", view.State.Error))

		action := "/insurance/" + view.Schema.Slug

		h.raw(`<form method="post"`)
		h.attr("action", action)
		h.attr("hx-post", action)
		h.raw(` hx-target="#quote-form" hx-swap="outerHTML" novalidate>`)

		for _, f := range view.Schema.AllFields() {
			h.render(ctx, field(f, view.Values[f.InputName()], view.Errors[f.Path()]))
		}

		h.render(ctx, consentBox(view.ConsentChecked, view.Errors[domain.ConsentField]))

		h.raw(`<button type="submit"`)
		h.flag("disabled", view.State.Submitting)
		h.raw(`>Get my quote</button></form></div>`)
	})
}

func successPanel(q *domain.Quote) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="success" role="status"><h2>Thank you, `)
		h.text(q.FirstName)
		h.raw(`!</h2><p>We received your request for `)
		h.text(q.CoverageDesired)
		h.raw(`. An agent will contact you at `)
		h.text(q.Email)
		h.raw(` shortly.</p>`)

		if q.QuoteNumber != "" {
			h.raw(`<p>Your reference number is <strong>`)
			h.text(q.QuoteNumber)
			h.raw(`</strong>.</p>`)
		}

		h.raw(`</section>`)
	})
}

func consentBox(checked bool, errMsg string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="field field-checkbox"><label><input type="checkbox" value="on"`)
		h.attr("name", domain.ConsentField)
		h.flag("checked", checked)
		h.raw(`> I understand my information is kept secure and may be used to prepare my quote.</label>`)
		fieldError(h, errMsg)
		h.raw(`</div>`)
	})
}

// field renders one input for f with its current value and error.
func field(f domain.FieldSpec, value, errMsg string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		id := "f-" + f.InputName()

		h.raw(`<div`)
		h.attr("class", fmt.Sprintf("field field-%s", f.Kind))
		h.raw(`>`)

		if f.Kind == domain.KindCheckbox {
			h.raw(`<label><input type="checkbox" value="on"`)
			h.attr("id", id)
			h.attr("name", f.InputName())
			h.flag("checked", f.Convert(value) == true)
			h.raw(`> `)
			h.text(f.Label)
			h.raw(`</label>`)
			fieldError(h, errMsg)
			h.raw(`</div>`)

			return
		}

		h.raw(`<label`)
		h.attr("for", id)
		h.raw(`>`)
		h.text(f.Label)

		if f.Required() {
			h.raw(`<span class="required" aria-hidden="true">*</span>`)
		}

		h.raw(`</label>`)

		switch f.Kind {
		case domain.KindSelect:
			h.raw(`<select`)
			h.attr("id", id)
			h.attr("name", f.InputName())
			h.flag("required", f.Required())
			h.raw(`><option value="">Select...</option>`)

			for _, opt := range f.Options {
				h.raw(`<option`)
				h.attr("value", opt)
				h.flag("selected", opt == value)
				h.raw(`>`)
				h.text(opt)
				h.raw(`</option>`)
			}

			h.raw(`</select>`)
		case domain.KindTextarea:
			h.raw(`<textarea rows="4"`)
			h.attr("id", id)
			h.attr("name", f.InputName())
			h.raw(`>`)
			h.text(value)
			h.raw(`</textarea>`)
		default:
			h.raw(`<input`)
			h.attr("type", inputType(f.Kind))
			h.attr("id", id)
			h.attr("name", f.InputName())
			h.attr("value", value)

			if f.Placeholder != "" {
				h.attr("placeholder", f.Placeholder)
			}

			h.flag("required", f.Required())
			h.raw(`>`)
		}

		fieldError(h, errMsg)
		h.raw(`</div>`)
	})
}

func fieldError(h *htmlWriter, msg string) {
	if msg == "" {
		return
	}

	h.raw(`<p class="field-error">`)
	h.text(msg)
	h.raw(`</p>`)
}

func inputType(kind domain.FieldKind) string {
	switch kind {
	case domain.KindEmail, domain.KindTel, domain.KindDate, domain.KindNumber:
		return string(kind)
	default:
		return "text"
	}
}
