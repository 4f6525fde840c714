package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// MaxAdditionalSlots bounds the additional boats and the additional operators.
const MaxAdditionalSlots = 3

// SlotKind names one sub-form of the boat wizard.
type SlotKind string

// Wizard slots.
const (
	SlotPrimaryBoat           SlotKind = "primary-boat"
	SlotBoat                  SlotKind = "boat"
	SlotPrimaryOperator       SlotKind = "primary-operator"
	SlotOperator              SlotKind = "operator"
	SlotAdditionalInformation SlotKind = "additional-information"
)

// ParseSlotKind validates a slot name.
func ParseSlotKind(s string) (SlotKind, error) {
	k := SlotKind(s)
	switch k {
	case SlotPrimaryBoat, SlotBoat, SlotPrimaryOperator, SlotOperator, SlotAdditionalInformation:
		return k, nil
	}

	return "", NewValidationErrorWithValue("slot", "unknown wizard slot", s)
}

// Additional reports whether the slot is one of the optional indexed slots.
func (k SlotKind) Additional() bool {
	return k == SlotBoat || k == SlotOperator
}

// SubForm returns the fields collected by this slot.
func (k SlotKind) SubForm() SubForm {
	switch k {
	case SlotPrimaryBoat:
		return SubForm{Name: string(k), Title: "Primary Boat", Fields: WatercraftFields()}
	case SlotBoat:
		return SubForm{Name: string(k), Title: "Additional Boat", Fields: WatercraftFields()}
	case SlotPrimaryOperator:
		return SubForm{Name: string(k), Title: "Primary Operator", Fields: OperatorFields()}
	case SlotOperator:
		return SubForm{Name: string(k), Title: "Additional Operator", Fields: OperatorFields()}
	default:
		return SubForm{Name: string(k), Title: "Additional Information", Fields: AdditionalInformationFields()}
	}
}

// WizardAction is a command verb applied to a slot.
type WizardAction string

// Wizard actions.
const (
	ActionSave   WizardAction = "save"
	ActionEdit   WizardAction = "edit"
	ActionAdd    WizardAction = "add"
	ActionRemove WizardAction = "remove"
)

// SlotState is the observable state of one sub-form.
type SlotState string

// Slot states.
const (
	StateNotSubmitted SlotState = "not-submitted"
	StateSubmitted    SlotState = "submitted"
	StateEditing      SlotState = "editing"
)

// FormSlot holds one sub-form's answers and progress.
type FormSlot struct {
	Submitted bool           `json:"submitted"`
	Editing   bool           `json:"editing"`
	Data      map[string]any `json:"data,omitempty"`
}

// State derives the slot state from its flags.
func (s *FormSlot) State() SlotState {
	switch {
	case s.Editing:
		return StateEditing
	case s.Submitted:
		return StateSubmitted
	default:
		return StateNotSubmitted
	}
}

// Ready reports whether the slot's data may be used in the final quote.
func (s *FormSlot) Ready() bool {
	return s.Submitted && !s.Editing
}

// WizardCommand is one user action against the wizard.
type WizardCommand struct {
	Action WizardAction   `json:"action" validate:"required,oneof=save edit add remove"`
	Slot   SlotKind       `json:"slot" validate:"required,slot"`
	Index  int            `json:"index" validate:"gte=0"`
	Data   map[string]any `json:"data,omitempty"`
}

// BoatWizard is the serializable view state of the multi-step boat quote.
type BoatWizard struct {
	ID                    string     `json:"id"`
	PrimaryBoat           FormSlot   `json:"primaryBoat"`
	PrimaryOperator       FormSlot   `json:"primaryOperator"`
	AdditionalBoats       []FormSlot `json:"additionalBoats"`
	AdditionalOperators   []FormSlot `json:"additionalOperators"`
	AdditionalInformation FormSlot   `json:"additionalInformation"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// NewBoatWizard returns an empty wizard.
func NewBoatWizard(id string, now time.Time) *BoatWizard {
	return &BoatWizard{
		ID:                  id,
		AdditionalBoats:     []FormSlot{},
		AdditionalOperators: []FormSlot{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Apply executes cmd against the wizard. Save data is expected to be
// validated by the caller; Apply only enforces the state transitions.
func (w *BoatWizard) Apply(cmd WizardCommand) error {
	switch cmd.Action {
	case ActionAdd:
		return w.add(cmd.Slot)
	case ActionRemove:
		return w.remove(cmd.Slot, cmd.Index)
	case ActionSave, ActionEdit:
		slot, err := w.Slot(cmd.Slot, cmd.Index)
		if err != nil {
			return err
		}

		if cmd.Action == ActionSave {
			slot.Data = maps.Clone(cmd.Data)
			slot.Submitted = true
			slot.Editing = false

			return nil
		}

		if !slot.Submitted {
			return NewConflictErrorWithDetails("boat wizard", "only a submitted form can be edited", string(cmd.Slot))
		}

		slot.Editing = true

		return nil
	default:
		return NewValidationErrorWithValue("action", "unknown wizard action", cmd.Action)
	}
}

// Slot returns a pointer to the addressed slot. Index is ignored for the
// non-indexed slots.
func (w *BoatWizard) Slot(kind SlotKind, index int) (*FormSlot, error) {
	switch kind {
	case SlotPrimaryBoat:
		return &w.PrimaryBoat, nil
	case SlotPrimaryOperator:
		return &w.PrimaryOperator, nil
	case SlotAdditionalInformation:
		return &w.AdditionalInformation, nil
	case SlotBoat, SlotOperator:
		list := w.list(kind)
		if index < 0 || index >= len(*list) {
			return nil, NewNotFoundError(fmt.Sprintf("%s slot", kind), fmt.Sprint(index))
		}

		return &(*list)[index], nil
	default:
		return nil, NewValidationErrorWithValue("slot", "unknown wizard slot", kind)
	}
}

func (w *BoatWizard) list(kind SlotKind) *[]FormSlot {
	if kind == SlotBoat {
		return &w.AdditionalBoats
	}

	return &w.AdditionalOperators
}

func (w *BoatWizard) add(kind SlotKind) error {
	if !kind.Additional() {
		return NewValidationError("slot", fmt.Sprintf("%s cannot be added", kind))
	}

	list := w.list(kind)
	if len(*list) >= MaxAdditionalSlots {
		return NewConflictErrorWithDetails("boat wizard", fmt.Sprintf("no more %s slots", kind),
			fmt.Sprintf("max %d", MaxAdditionalSlots))
	}

	*list = append(*list, FormSlot{})

	return nil
}

// remove drops slot index and keeps the relative order of the rest.
// Submitted slots are removed as well; their data no longer reaches the quote.
func (w *BoatWizard) remove(kind SlotKind, index int) error {
	if !kind.Additional() {
		return NewValidationError("slot", fmt.Sprintf("%s cannot be removed", kind))
	}

	list := w.list(kind)
	if index < 0 || index >= len(*list) {
		return NewNotFoundError(fmt.Sprintf("%s slot", kind), fmt.Sprint(index))
	}

	*list = slices.Delete(*list, index, index+1)

	return nil
}

// CanSubmit reports whether the final submit is enabled.
func (w *BoatWizard) CanSubmit() bool {
	return w.PrimaryBoat.Ready() && w.PrimaryOperator.Ready() && w.AdditionalInformation.Ready()
}

// MissingSteps lists the sub-forms that still block the final submit.
func (w *BoatWizard) MissingSteps() []SlotKind {
	var missing []SlotKind

	if !w.PrimaryBoat.Ready() {
		missing = append(missing, SlotPrimaryBoat)
	}

	if !w.PrimaryOperator.Ready() {
		missing = append(missing, SlotPrimaryOperator)
	}

	if !w.AdditionalInformation.Ready() {
		missing = append(missing, SlotAdditionalInformation)
	}

	return missing
}

// Assemble combines the contact block in base with the wizard's sub-forms
// into the final Boat quote.
func (w *BoatWizard) Assemble(base *Quote) (*Quote, error) {
	if !w.CanSubmit() {
		return nil, NewConflictErrorWithDetails("boat wizard", "quote is not ready to submit",
			fmt.Sprint(w.MissingSteps()))
	}

	q := &Quote{Type: QuoteTypeBoat}
	if base != nil {
		q.BaseQuote = base.BaseQuote
		q.Fields = maps.Clone(base.Fields)
	}

	q.Type = QuoteTypeBoat
	q.CoverageDesired = "Boat Insurance"

	if q.Fields == nil {
		q.Fields = make(map[string]any)
	}

	maps.Copy(q.Fields, w.AdditionalInformation.Data)

	q.Watercraft = []Watercraft{watercraftFrom(w.PrimaryBoat, true)}
	for _, slot := range w.AdditionalBoats {
		if slot.Ready() {
			q.Watercraft = append(q.Watercraft, watercraftFrom(slot, false))
		}
	}

	q.Operators = []Operator{operatorFrom(w.PrimaryOperator, true)}
	for _, slot := range w.AdditionalOperators {
		if slot.Ready() {
			q.Operators = append(q.Operators, operatorFrom(slot, false))
		}
	}

	return q, nil
}

func watercraftFrom(slot FormSlot, primary bool) Watercraft {
	var b Watercraft
	DecodeRecord(slot.Data, &b)
	b.IsPrimary = primary

	return b
}

func operatorFrom(slot FormSlot, primary bool) Operator {
	var o Operator
	DecodeRecord(slot.Data, &o)
	o.IsPrimary = primary

	return o
}
