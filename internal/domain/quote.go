package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"strings"
	"sync"
)

// QuoteType selects which backend collection and payload shape a quote uses.
type QuoteType string

// Quote types understood by the quote-management backend.
const (
	QuoteTypeAuto               QuoteType = "Auto"
	QuoteTypeHome               QuoteType = "Home"
	QuoteTypeBoat               QuoteType = "Boat"
	QuoteTypeBOP                QuoteType = "BOP"
	QuoteTypeWorkersComp        QuoteType = "WorkersComp"
	QuoteTypeHealth             QuoteType = "Health"
	QuoteTypeBusiness           QuoteType = "Business"
	QuoteTypeFlood              QuoteType = "Flood"
	QuoteTypeLife               QuoteType = "Life"
	QuoteTypeDental             QuoteType = "Dental"
	QuoteTypeVision             QuoteType = "Vision"
	QuoteTypeLandlords          QuoteType = "Landlords"
	QuoteTypeUmbrella           QuoteType = "Umbrella"
	QuoteTypeMedicareAdvantage  QuoteType = "MedicareAdvantage"
	QuoteTypeMedicareSupplement QuoteType = "MedicareSupplement"
	QuoteTypeAnnuity            QuoteType = "Annuity"
	QuoteTypeMotorcycle         QuoteType = "Motorcycle"
	QuoteTypeRenters            QuoteType = "Renters"
	QuoteTypeCondo              QuoteType = "Condo"
)

var quoteTypes = []QuoteType{
	QuoteTypeAuto, QuoteTypeHome, QuoteTypeBoat, QuoteTypeBOP, QuoteTypeWorkersComp,
	QuoteTypeHealth, QuoteTypeBusiness, QuoteTypeFlood, QuoteTypeLife, QuoteTypeDental,
	QuoteTypeVision, QuoteTypeLandlords, QuoteTypeUmbrella, QuoteTypeMedicareAdvantage,
	QuoteTypeMedicareSupplement, QuoteTypeAnnuity, QuoteTypeMotorcycle, QuoteTypeRenters,
	QuoteTypeCondo,
}

// QuoteTypes returns every known quote type in display order.
func QuoteTypes() []QuoteType {
	out := make([]QuoteType, len(quoteTypes))
	copy(out, quoteTypes)

	return out
}

// ParseQuoteType resolves s to a known quote type, ignoring case.
func ParseQuoteType(s string) (QuoteType, error) {
	for _, t := range quoteTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}

	return "", NewValidationErrorWithValue("quoteType", "unknown quote type", s)
}

// String returns the backend collection name.
func (t QuoteType) String() string {
	return string(t)
}

// BaseQuote carries the contact and shopping fields every product collects.
type BaseQuote struct {
	ID          string `json:"id,omitempty"`
	QuoteNumber string `json:"quoteNumber,omitempty"`

	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`

	CurrentInsuranceCarrier string `json:"currentInsuranceCarrier,omitempty"`
	ContinuousCoverage      string `json:"continuousCoverage,omitempty"`
	ClaimsHistory           string `json:"claimsHistory,omitempty"`
	TicketsHistory          string `json:"ticketsHistory,omitempty"`

	CoverageDesired   string `json:"coverageDesired,omitempty"`
	InformationSecure bool   `json:"informationSecure"`
}

// FullName joins first and last name.
func (b *BaseQuote) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Vehicle is one automobile or motorcycle on a quote.
type Vehicle struct {
	Year          string `json:"year,omitempty"`
	Make          string `json:"make,omitempty"`
	Model         string `json:"model,omitempty"`
	VIN           string `json:"vin,omitempty"`
	PrimaryUse    string `json:"primaryUse,omitempty"`
	AnnualMileage string `json:"annualMileage,omitempty"`
	Ownership     string `json:"ownership,omitempty"`
	IsPrimary     bool   `json:"isPrimary"`
}

// Driver is one licensed driver or rider on a quote.
type Driver struct {
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	LicenseState  string `json:"licenseState,omitempty"`
	YearsLicensed string `json:"yearsLicensed,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
	IsPrimary     bool   `json:"isPrimary"`
}

// Watercraft is one boat on a Boat quote.
type Watercraft struct {
	Year            string `json:"year,omitempty"`
	Make            string `json:"make,omitempty"`
	Model           string `json:"model,omitempty"`
	Length          string `json:"length,omitempty"`
	HullType        string `json:"hullType,omitempty"`
	HullMaterial    string `json:"hullMaterial,omitempty"`
	EngineType      string `json:"engineType,omitempty"`
	Horsepower      string `json:"horsepower,omitempty"`
	Value           string `json:"value,omitempty"`
	StorageLocation string `json:"storageLocation,omitempty"`
	IsPrimary       bool   `json:"isPrimary"`
}

// Operator is one person who will operate a boat on a Boat quote.
type Operator struct {
	FirstName           string `json:"firstName,omitempty"`
	LastName            string `json:"lastName,omitempty"`
	DateOfBirth         string `json:"dateOfBirth,omitempty"`
	YearsExperience     string `json:"yearsExperience,omitempty"`
	BoatingSafetyCourse bool   `json:"boatingSafetyCourse"`
	Violations          string `json:"violations,omitempty"`
	IsPrimary           bool   `json:"isPrimary"`
}

// Quote is a prospective customer's request for a price estimate.
//
// On the wire a quote is one flat JSON object: base fields, product-specific
// fields and the sub-entity arrays share the same level. Type is carried by
// the collection path, never by the body.
type Quote struct {
	Type QuoteType
	BaseQuote

	// Fields holds the product-specific answers keyed by payload name.
	Fields map[string]any

	Vehicles   []Vehicle
	Drivers    []Driver
	Watercraft []Watercraft
	Operators  []Operator
}

const (
	keyVehicles   = "vehicles"
	keyDrivers    = "drivers"
	keyWatercraft = "watercraft"
	keyOperators  = "operators"
)

// baseKeys is the set of JSON names owned by BaseQuote.
var baseKeys = sync.OnceValue(func() map[string]struct{} {
	keys := make(map[string]struct{})

	t := reflect.TypeFor[BaseQuote]()
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		keys[name] = struct{}{}
	}

	return keys
})

// IsBaseField reports whether name is a BaseQuote payload key.
func IsBaseField(name string) bool {
	_, ok := baseKeys()[name]
	return ok
}

// Flatten returns the quote as the flat map sent to the backend.
// Base fields win over a product field of the same name.
func (q *Quote) Flatten() map[string]any {
	out := make(map[string]any, len(q.Fields)+len(baseKeys()))
	maps.Copy(out, q.Fields)

	raw, _ := json.Marshal(q.BaseQuote)

	var base map[string]any
	_ = json.Unmarshal(raw, &base)
	maps.Copy(out, base)

	if len(q.Vehicles) > 0 {
		out[keyVehicles] = q.Vehicles
	}

	if len(q.Drivers) > 0 {
		out[keyDrivers] = q.Drivers
	}

	if len(q.Watercraft) > 0 {
		out[keyWatercraft] = q.Watercraft
	}

	if len(q.Operators) > 0 {
		out[keyOperators] = q.Operators
	}

	return out
}

// Value returns the flat payload value for name, if present.
func (q *Quote) Value(name string) (any, bool) {
	v, ok := q.Flatten()[name]
	return v, ok
}

// MarshalJSON implements json.Marshaler with the flat wire layout.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Flatten())
}

// UnmarshalJSON implements json.Unmarshaler for the flat wire layout.
func (q *Quote) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding quote: %w", err)
	}

	// Backends differ on whether identifiers are numbers or strings.
	for _, key := range []string{"id", "quoteNumber"} {
		if v, ok := raw[key]; ok {
			raw[key] = numberAsString(v)
		}
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("decoding quote: %w", err)
	}

	var base BaseQuote
	if err := json.Unmarshal(normalized, &base); err != nil {
		return fmt.Errorf("decoding quote base fields: %w", err)
	}

	decoded := Quote{Type: q.Type, BaseQuote: base}

	arrays := map[string]any{
		keyVehicles:   &decoded.Vehicles,
		keyDrivers:    &decoded.Drivers,
		keyWatercraft: &decoded.Watercraft,
		keyOperators:  &decoded.Operators,
	}

	for key, value := range raw {
		if IsBaseField(key) {
			continue
		}

		if target, ok := arrays[key]; ok {
			if err := json.Unmarshal(value, target); err != nil {
				return fmt.Errorf("decoding quote %s: %w", key, err)
			}

			continue
		}

		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("decoding quote field %s: %w", key, err)
		}

		if decoded.Fields == nil {
			decoded.Fields = make(map[string]any)
		}

		decoded.Fields[key] = v
	}

	*q = decoded

	return nil
}

// numberAsString turns a JSON number into the equivalent JSON string and
// leaves anything else untouched.
func numberAsString(v json.RawMessage) json.RawMessage {
	text := bytes.TrimSpace(v)
	if len(text) == 0 || (text[0] != '-' && (text[0] < '0' || text[0] > '9')) {
		return v
	}

	var n json.Number
	if err := json.Unmarshal(text, &n); err != nil {
		return v
	}

	quoted, _ := json.Marshal(n.String())

	return quoted
}

// QuotePage is one page of a quote collection listing.
type QuotePage struct {
	Data       []*Quote `json:"data"`
	TotalCount int      `json:"totalCount"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
}

// HasMore reports whether later pages exist.
func (p *QuotePage) HasMore() bool {
	return p.Page*p.PageSize < p.TotalCount
}

// QuoteStats summarizes one quote collection.
type QuoteStats struct {
	Type      QuoteType      `json:"type"`
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown,omitempty"`
}
