package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

const (
	wizardCommandPath = "/insurance/boat/wizard/commands"
	wizardSubmitPath  = "/insurance/boat/wizard/submit"
)

// WizardView is the state of the boat wizard page.
type WizardView struct {
	Wizard *domain.BoatWizard

	// Contact is the base block collected with the final submit.
	Contact FormView

	// SlotErrors are field messages for the slot named by ErrorSlot.
	ErrorSlot  domain.SlotKind
	ErrorIndex int
	SlotErrors map[string]string

	// Entered keeps rejected slot input so it can be re-shown.
	Entered map[string]string

	Error string
}

// WizardPage is the full boat wizard page.
func WizardPage(view WizardView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section class="landing"><h1>Boat Insurance</h1>`)
		h.raw(`<p class="tagline">Tell us about your boats and who drives them.</p></section>`)
		h.render(ctx, WizardPanel(view))
	})
}

// WizardPanel is the swappable wizard region.
func WizardPanel(view WizardView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div id="boat-wizard">`)

		if view.Contact.State.Success && view.Contact.Created != nil {
			h.render(ctx, successPanel(view.Contact.Created))
			h.raw(`<p><a href="/insurance/boat/wizard?new=1">Start another boat quote</a></p></div>`)

			return
		}

		h.render(ctx, banner("error", view.Error))

		w := view.Wizard

		h.render(ctx, slotSection(view, domain.SlotPrimaryBoat, 0, w.PrimaryBoat))

		for i, s := range w.AdditionalBoats {
			h.render(ctx, slotSection(view, domain.SlotBoat, i, s))
		}

		if len(w.AdditionalBoats) < domain.MaxAdditionalSlots {
			h.render(ctx, commandButton(domain.ActionAdd, domain.SlotBoat, 0, "Add another boat", "secondary"))
		}

		h.render(ctx, slotSection(view, domain.SlotPrimaryOperator, 0, w.PrimaryOperator))

		for i, s := range w.AdditionalOperators {
			h.render(ctx, slotSection(view, domain.SlotOperator, i, s))
		}

		if len(w.AdditionalOperators) < domain.MaxAdditionalSlots {
			h.render(ctx, commandButton(domain.ActionAdd, domain.SlotOperator, 0, "Add another operator", "secondary"))
		}

		h.render(ctx, slotSection(view, domain.SlotAdditionalInformation, 0, w.AdditionalInformation))
		h.render(ctx, wizardSubmit(view))
		h.raw(`</div>`)
	})
}

func slotSection(view WizardView, kind domain.SlotKind, index int, slot domain.FormSlot) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		form := kind.SubForm()

		title := form.Title
		if kind.Additional() {
			title = fmt.Sprintf("%s %d", title, index+1)
		}

		h.raw(`<section`)
		h.attr("class", "wizard-step state-"+string(slot.State()))
		h.attr("id", fmt.Sprintf("step-%s-%d", kind, index))
		h.raw(`><h2>`)
		h.text(title)
		h.raw(` <span class="badge">`)
		h.text(stateLabel(slot.State()))
		h.raw(`</span></h2>`)

		if slot.State() == domain.StateSubmitted {
			h.raw(`<dl class="summary">`)

			for _, f := range form.Fields {
				if v, ok := slot.Data[f.Name]; ok && v != "" {
					h.raw(`<dt>`)
					h.text(f.Label)
					h.raw(`</dt><dd>`)
					h.text(displayValue(v))
					h.raw(`</dd>`)
				}
			}

			h.raw(`</dl>`)
			h.render(ctx, commandButton(domain.ActionEdit, kind, index, "Edit", "link"))
			h.render(ctx, removeButton(kind, index))
			h.raw(`</section>`)

			return
		}

		errs := map[string]string{}
		values := slotValues(form.Fields, slot.Data)

		if view.ErrorSlot == kind && view.ErrorIndex == index {
			errs = view.SlotErrors
			if view.Entered != nil {
				values = view.Entered
			}
		}

		h.raw(`<form method="post"`)
		h.attr("action", wizardCommandPath)
		h.attr("hx-post", wizardCommandPath)
		h.raw(` hx-target="#boat-wizard" hx-swap="outerHTML">`)
		hidden(h, "action", string(domain.ActionSave))
		hidden(h, "slot", string(kind))
		hidden(h, "index", strconv.Itoa(index))

		for _, f := range form.Fields {
			h.render(ctx, field(f, values[f.InputName()], errs[f.Name]))
		}

		h.raw(`<button type="submit">Save</button></form>`)
		h.render(ctx, removeButton(kind, index))
		h.raw(`</section>`)
	})
}

func removeButton(kind domain.SlotKind, index int) templ.Component {
	if !kind.Additional() {
		return nil
	}

	return commandButton(domain.ActionRemove, kind, index, "Remove", "danger")
}

func commandButton(action domain.WizardAction, kind domain.SlotKind, index int, label, class string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<form class="inline" method="post"`)
		h.attr("action", wizardCommandPath)
		h.attr("hx-post", wizardCommandPath)
		h.raw(` hx-target="#boat-wizard" hx-swap="outerHTML">`)
		hidden(h, "action", string(action))
		hidden(h, "slot", string(kind))
		hidden(h, "index", strconv.Itoa(index))
		h.raw(`<button type="submit"`)
		h.attr("class", class)
		h.raw(`>`)
		h.text(label)
		h.raw(`</button></form>`)
	})
}

func wizardSubmit(view WizardView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		ready := view.Wizard.CanSubmit()

		h.raw(`<section class="wizard-step wizard-contact"><h2>Your contact details</h2>`)
		h.render(ctx, banner("error", view.Contact.State.Error))

		if missing := view.Wizard.MissingSteps(); len(missing) > 0 {
			h.raw(`<p class="hint">Save these steps before submitting:</p><ul class="missing">`)

			for _, m := range missing {
				h.raw(`<li>`)
				h.text(m.SubForm().Title)
				h.raw(`</li>`)
			}

			h.raw(`</ul>`)
		}

		h.raw(`<form method="post"`)
		h.attr("action", wizardSubmitPath)
		h.attr("hx-post", wizardSubmitPath)
		h.raw(` hx-target="#boat-wizard" hx-swap="outerHTML">`)

		for _, f := range view.Contact.Schema.AllFields() {
			h.render(ctx, field(f, view.Contact.Values[f.InputName()], view.Contact.Errors[f.Path()]))
		}

		h.render(ctx, consentBox(view.Contact.ConsentChecked, view.Contact.Errors[domain.ConsentField]))

		h.raw(`<button type="submit"`)
		h.flag("disabled", !ready || view.Contact.State.Submitting)
		h.raw(`>Submit boat quote</button></form></section>`)
	})
}

func hidden(h *htmlWriter, name, value string) {
	h.raw(`<input type="hidden"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`>`)
}

func stateLabel(s domain.SlotState) string {
	switch s {
	case domain.StateSubmitted:
		return "Saved"
	case domain.StateEditing:
		return "Editing"
	default:
		return "Not started"
	}
}

// slotValues turns stored slot data back into input values.
func slotValues(fields []domain.FieldSpec, data map[string]any) map[string]string {
	out := make(map[string]string, len(fields))

	for _, f := range fields {
		v, ok := data[f.Name]
		if !ok {
			continue
		}

		if b, isBool := v.(bool); isBool {
			if b {
				out[f.InputName()] = "on"
			}

			continue
		}

		out[f.InputName()] = displayValue(v)
	}

	return out
}

func displayValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "Yes"
		}

		return "No"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
