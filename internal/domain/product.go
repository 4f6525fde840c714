package domain

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// FieldKind selects the input widget and value conversion for a field.
type FieldKind string

// Supported field kinds.
const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindDate     FieldKind = "date"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindTextarea FieldKind = "textarea"
)

// FieldTarget says where a field's value lands in the quote payload.
type FieldTarget string

// Field targets. The zero value is the flat quote object.
const (
	TargetQuote   FieldTarget = ""
	TargetVehicle FieldTarget = "vehicle"
	TargetDriver  FieldTarget = "driver"
)

// ConsentField is the payload key of the consent checkbox.
const ConsentField = "informationSecure"

// FieldSpec declares one form field and the rules it must satisfy.
type FieldSpec struct {
	Name        string      `json:"name"`
	FormName    string      `json:"formName"`
	Label       string      `json:"label"`
	Kind        FieldKind   `json:"kind"`
	Options     []string    `json:"options,omitempty"`
	Rules       string      `json:"rules,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Target      FieldTarget `json:"target,omitempty"`
}

// InputName returns the HTML input name, falling back to Name.
func (f FieldSpec) InputName() string {
	if f.FormName != "" {
		return f.FormName
	}

	return f.Name
}

// Path is the key field-level errors are reported under: the payload name
// for quote fields, "vehicle.year" style for grouped sub-entity fields.
func (f FieldSpec) Path() string {
	if f.Target == TargetQuote {
		return f.Name
	}

	return string(f.Target) + "." + f.Name
}

// Required reports whether the rules demand a value.
func (f FieldSpec) Required() bool {
	return slices.Contains(strings.Split(f.Rules, ","), "required")
}

// Convert turns a raw form string into the payload value for this field.
// Checkboxes become booleans and numbers become float64 when they parse.
func (f FieldSpec) Convert(raw string) any {
	raw = strings.TrimSpace(raw)

	switch f.Kind {
	case KindCheckbox:
		switch strings.ToLower(raw) {
		case "on", "true", "1", "yes":
			return true
		}

		return false
	case KindNumber:
		if raw == "" {
			return ""
		}

		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}

		return raw
	default:
		return raw
	}
}

// ProductSchema is the declarative description of one product's quote form.
type ProductSchema struct {
	Type            QuoteType   `json:"type"`
	Slug            string      `json:"slug"`
	Title           string      `json:"title"`
	Tagline         string      `json:"tagline"`
	CoverageDesired string      `json:"coverageDesired"`
	Fields          []FieldSpec `json:"fields"`

	// ConsentDefault pre-checks the consent box on the rendered form.
	ConsentDefault bool `json:"consentDefault"`
	IncludeHistory bool `json:"includeHistory"`

	// Wizard marks products collected through a multi-step flow.
	Wizard bool `json:"wizard"`
}

// AllFields returns the base block, the history block when enabled, and the
// product fields in render order.
func (p *ProductSchema) AllFields() []FieldSpec {
	out := BaseFields()
	if p.IncludeHistory {
		out = append(out, HistoryFields()...)
	}

	return append(out, p.Fields...)
}

// Field looks up a field by payload name.
func (p *ProductSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range p.AllFields() {
		if f.Name == name {
			return f, true
		}
	}

	return FieldSpec{}, false
}

// NewQuote builds a quote of this product from raw form values keyed by
// input name. Values outside the schema are ignored.
func (p *ProductSchema) NewQuote(values map[string]string) *Quote {
	flat := map[string]any{}
	vehicle := map[string]any{}
	driver := map[string]any{}

	for _, f := range p.AllFields() {
		raw, ok := values[f.InputName()]
		if !ok && f.Kind != KindCheckbox {
			continue
		}

		v := f.Convert(raw)

		switch f.Target {
		case TargetVehicle:
			vehicle[f.Name] = v
		case TargetDriver:
			driver[f.Name] = v
		default:
			flat[f.Name] = v
		}
	}

	if raw, ok := values[ConsentField]; ok {
		flat[ConsentField] = FieldSpec{Kind: KindCheckbox}.Convert(raw)
	}

	q := QuoteFromMap(p.Type, flat)
	q.CoverageDesired = p.CoverageDesired

	if len(vehicle) > 0 {
		var v Vehicle
		DecodeRecord(vehicle, &v)
		v.IsPrimary = true
		q.Vehicles = []Vehicle{v}
	}

	if len(driver) > 0 {
		var d Driver
		DecodeRecord(driver, &d)
		d.IsPrimary = true
		q.Drivers = []Driver{d}
	}

	return q
}

// QuoteFromMap decodes a flat payload map into a quote of type t.
func QuoteFromMap(t QuoteType, flat map[string]any) *Quote {
	clean := make(map[string]any, len(flat))

	for k, v := range flat {
		if IsBaseField(k) {
			v = stringifyNumber(v)
		}

		clean[k] = v
	}

	q := &Quote{Type: t}
	decodeInto(clean, q)

	return q
}

// DecodeRecord fills a sub-entity record such as Watercraft from loose form
// data. Numbers are carried as strings on sub-entities.
func DecodeRecord(m map[string]any, target any) {
	clean := make(map[string]any, len(m))
	for k, v := range m {
		clean[k] = stringifyNumber(v)
	}

	decodeInto(clean, target)
}

func stringifyNumber(v any) any {
	if n, ok := v.(float64); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	return v
}

// decodeInto re-encodes a loose map through its JSON form. Fields whose
// values have the wrong shape are left at their zero value.
func decodeInto(m map[string]any, target any) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}

	_ = json.Unmarshal(data, target)
}

// SubForm is a named group of fields submitted as one step of a wizard.
type SubForm struct {
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Fields []FieldSpec `json:"fields"`
}

func text(name, label, rules string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindText, Rules: rules}
}

func number(name, label, rules string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindNumber, Rules: rules}
}

func date(name, label, rules string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindDate, Rules: joinRules(rules, "datetime=2006-01-02")}
}

func checkbox(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindCheckbox}
}

func textarea(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindTextarea, Rules: "omitempty,max=2000"}
}

func choice(name, label, rules string, options ...string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Kind: KindSelect, Rules: rules, Options: options}
}

func grouped(target FieldTarget, f FieldSpec) FieldSpec {
	f.Target = target
	f.FormName = string(target) + "_" + f.Name

	return f
}

func joinRules(rules, extra string) string {
	if rules == "" {
		return "omitempty," + extra
	}

	return rules + "," + extra
}

var yesNo = []string{"Yes", "No"}

// BaseFields returns the contact block shared by every product.
func BaseFields() []FieldSpec {
	return []FieldSpec{
		{Name: "firstName", Label: "First Name", Kind: KindText, Rules: "required,max=100"},
		{Name: "lastName", Label: "Last Name", Kind: KindText, Rules: "required,max=100"},
		{Name: "email", Label: "Email", Kind: KindEmail, Rules: "required,email", Placeholder: "you@example.com"},
		{Name: "phoneNumber", Label: "Phone Number", Kind: KindTel, Rules: "required,min=7,max=20", Placeholder: "555-555-5555"},
		text("address", "Street Address", "omitempty,max=200"),
		text("city", "City", "omitempty,max=100"),
		text("state", "State", "omitempty,max=50"),
		{Name: "zipCode", FormName: "zipcode", Label: "ZIP Code", Kind: KindText, Rules: "omitempty,numeric,len=5"},
		date("dateOfBirth", "Date of Birth", ""),
	}
}

// HistoryFields returns the insurance-shopping block.
func HistoryFields() []FieldSpec {
	return []FieldSpec{
		text("currentInsuranceCarrier", "Current Insurance Carrier", "omitempty,max=100"),
		choice("continuousCoverage", "Continuous Coverage", "omitempty", "Less than 1 year", "1-3 years", "3-5 years", "5+ years", "None"),
		choice("claimsHistory", "Claims in the Last 5 Years", "omitempty", "None", "1", "2", "3 or more"),
		choice("ticketsHistory", "Tickets in the Last 3 Years", "omitempty", "None", "1", "2", "3 or more"),
	}
}

// WatercraftFields returns the boat sub-form used for every boat slot.
func WatercraftFields() []FieldSpec {
	return []FieldSpec{
		number("year", "Year", "required,numeric,len=4"),
		text("make", "Make", "required,max=100"),
		text("model", "Model", "required,max=100"),
		number("length", "Length (ft)", "omitempty,numeric"),
		choice("hullType", "Hull Type", "omitempty", "Monohull", "Catamaran", "Pontoon", "Inflatable"),
		choice("hullMaterial", "Hull Material", "omitempty", "Fiberglass", "Aluminum", "Wood", "Steel"),
		choice("engineType", "Engine Type", "required", "Outboard", "Inboard", "Inboard/Outboard", "Jet", "Sail only"),
		number("horsepower", "Horsepower", "omitempty,numeric"),
		number("value", "Estimated Value ($)", "omitempty,numeric"),
		choice("storageLocation", "Storage Location", "omitempty", "Marina", "Dry storage", "Trailer at home", "Private dock"),
	}
}

// OperatorFields returns the operator sub-form used for every operator slot.
func OperatorFields() []FieldSpec {
	return []FieldSpec{
		text("firstName", "First Name", "required,max=100"),
		text("lastName", "Last Name", "required,max=100"),
		date("dateOfBirth", "Date of Birth", "required"),
		number("yearsExperience", "Years of Boating Experience", "omitempty,numeric"),
		checkbox("boatingSafetyCourse", "Completed a boating safety course"),
		textarea("violations", "Boating Violations"),
	}
}

// AdditionalInformationFields returns the final boat wizard step.
func AdditionalInformationFields() []FieldSpec {
	return []FieldSpec{
		choice("boatUsage", "Primary Use", "required", "Pleasure", "Fishing", "Watersports", "Charter"),
		choice("navigationArea", "Navigation Area", "required", "Lakes", "Rivers", "Coastal", "Offshore"),
		choice("monthsInWater", "Months in Water per Year", "omitempty", "1-3", "4-6", "7-9", "10-12"),
		date("coverageStartDate", "Desired Coverage Start", ""),
		textarea("additionalComments", "Anything else we should know?"),
	}
}

var autoVehicleFields = []FieldSpec{
	grouped(TargetVehicle, number("year", "Vehicle Year", "required,numeric,len=4")),
	grouped(TargetVehicle, text("make", "Make", "required,max=100")),
	grouped(TargetVehicle, text("model", "Model", "required,max=100")),
	grouped(TargetVehicle, text("vin", "VIN", "omitempty,alphanum,len=17")),
	grouped(TargetVehicle, choice("primaryUse", "Primary Use", "omitempty", "Commute", "Pleasure", "Business")),
	grouped(TargetVehicle, number("annualMileage", "Annual Mileage", "omitempty,numeric")),
	grouped(TargetVehicle, choice("ownership", "Ownership", "omitempty", "Owned", "Financed", "Leased")),
}

var autoDriverFields = []FieldSpec{
	grouped(TargetDriver, text("licenseNumber", "Driver's License Number", "omitempty,max=30")),
	grouped(TargetDriver, text("licenseState", "License State", "omitempty,max=50")),
	grouped(TargetDriver, number("yearsLicensed", "Years Licensed", "omitempty,numeric")),
	grouped(TargetDriver, choice("maritalStatus", "Marital Status", "omitempty", "Single", "Married", "Divorced", "Widowed")),
}

var products = []ProductSchema{
	{
		Type: QuoteTypeAuto, Slug: "auto", Title: "Auto Insurance",
		Tagline: "Coverage for the car you drive every day.", IncludeHistory: true,
		Fields: slices.Concat(autoVehicleFields, autoDriverFields, []FieldSpec{
			choice("coverageLevel", "Coverage Level", "required", "State Minimum", "Standard", "Full Coverage"),
		}),
	},
	{
		Type: QuoteTypeHome, Slug: "home", Title: "Home Insurance",
		Tagline: "Protect the place you live.", IncludeHistory: true,
		Fields: []FieldSpec{
			choice("propertyType", "Property Type", "required", "Single Family", "Townhouse", "Mobile Home"),
			number("yearBuilt", "Year Built", "required,numeric,len=4"),
			number("squareFootage", "Square Footage", "omitempty,numeric"),
			choice("roofType", "Roof Type", "omitempty", "Asphalt Shingle", "Metal", "Tile", "Slate", "Other"),
			choice("constructionType", "Construction Type", "omitempty", "Frame", "Masonry", "Brick Veneer"),
			checkbox("securitySystem", "Monitored security system"),
			checkbox("swimmingPool", "Swimming pool on property"),
		},
	},
	{
		Type: QuoteTypeBoat, Slug: "boat", Title: "Boat Insurance",
		Tagline: "On the lake or offshore, we have you covered.", IncludeHistory: true, Wizard: true,
	},
	{
		Type: QuoteTypeBOP, Slug: "bop", Title: "Business Owner's Policy",
		Tagline: "Property and liability bundled for small businesses.",
		Fields: []FieldSpec{
			text("businessName", "Business Name", "required,max=200"),
			text("industry", "Industry", "required,max=100"),
			number("yearsInBusiness", "Years in Business", "omitempty,numeric"),
			number("annualRevenue", "Annual Revenue ($)", "omitempty,numeric"),
			number("numberOfEmployees", "Number of Employees", "omitempty,numeric"),
			choice("ownOrLease", "Do you own or lease your location?", "omitempty", "Own", "Lease"),
		},
	},
	{
		Type: QuoteTypeWorkersComp, Slug: "workers-comp", Title: "Workers' Compensation",
		Tagline: "Take care of your team if they get hurt on the job.",
		Fields: []FieldSpec{
			text("businessName", "Business Name", "required,max=200"),
			text("industry", "Industry", "required,max=100"),
			number("numberOfEmployees", "Number of Employees", "required,numeric"),
			number("annualPayroll", "Annual Payroll ($)", "omitempty,numeric"),
			choice("priorClaims", "Prior Workers' Comp Claims", "omitempty", "None", "1-2", "3 or more"),
		},
	},
	{
		Type: QuoteTypeHealth, Slug: "health", Title: "Health Insurance",
		Tagline: "Plans for individuals and families.",
		Fields: []FieldSpec{
			choice("householdSize", "Household Size", "required", "1", "2", "3", "4", "5", "6+"),
			choice("coverageType", "Coverage Type", "required", "Individual", "Family", "Employer Group"),
			choice("tobaccoUse", "Tobacco Use", "required", yesNo...),
			choice("preferredPlanType", "Preferred Plan Type", "required", "HMO", "PPO", "EPO", "HDHP", "Not sure"),
			choice("annualIncome", "Household Income", "omitempty", "Under $30,000", "$30,000-$60,000", "$60,000-$100,000", "Over $100,000"),
			textarea("preExistingConditions", "Pre-existing Conditions"),
		},
	},
	{
		Type: QuoteTypeBusiness, Slug: "business", Title: "Business Insurance",
		Tagline: "General liability, property, and more.", ConsentDefault: true,
		Fields: []FieldSpec{
			text("businessName", "Business Name", "required,max=200"),
			choice("businessType", "Business Type", "required", "Sole Proprietorship", "LLC", "Corporation", "Partnership", "Nonprofit"),
			text("industry", "Industry", "omitempty,max=100"),
			number("annualRevenue", "Annual Revenue ($)", "omitempty,numeric"),
			number("numberOfEmployees", "Number of Employees", "omitempty,numeric"),
			checkbox("generalLiability", "General liability"),
			checkbox("commercialProperty", "Commercial property"),
			checkbox("professionalLiability", "Professional liability"),
			checkbox("cyberLiability", "Cyber liability"),
		},
	},
	{
		Type: QuoteTypeFlood, Slug: "flood", Title: "Flood Insurance",
		Tagline: "Standard homeowners policies do not cover floods.", IncludeHistory: true, ConsentDefault: true,
		Fields: []FieldSpec{
			choice("floodZone", "Flood Zone", "omitempty", "A", "AE", "V", "X", "Not sure"),
			choice("buildingType", "Building Type", "required", "Single Family", "Condo", "Commercial"),
			number("buildingCoverage", "Building Coverage ($)", "omitempty,numeric"),
			number("contentsCoverage", "Contents Coverage ($)", "omitempty,numeric"),
			checkbox("basement", "Has a basement"),
			checkbox("priorFloodLoss", "Prior flood loss"),
		},
	},
	{
		Type: QuoteTypeLife, Slug: "life", Title: "Life Insurance",
		Tagline: "Protect the people who depend on you.",
		Fields: []FieldSpec{
			choice("policyType", "Policy Type", "required", "Term", "Whole", "Universal", "Not sure"),
			choice("coverageAmount", "Coverage Amount", "required", "$100,000", "$250,000", "$500,000", "$1,000,000+"),
			choice("termLength", "Term Length", "omitempty", "10 years", "20 years", "30 years"),
			choice("gender", "Gender", "omitempty", "Female", "Male", "Prefer not to say"),
			choice("tobaccoUse", "Tobacco Use", "required", yesNo...),
			number("height", "Height (inches)", "omitempty,numeric"),
			number("weight", "Weight (lbs)", "omitempty,numeric"),
		},
	},
	{
		Type: QuoteTypeDental, Slug: "dental", Title: "Dental Insurance",
		Tagline: "Cleanings, fillings, and everything in between.",
		Fields: []FieldSpec{
			choice("coverageType", "Coverage Type", "required", "Individual", "Family"),
			number("numberOfMembers", "Members to Cover", "omitempty,numeric"),
			checkbox("orthodonticCoverage", "Include orthodontic coverage"),
			choice("lastDentalVisit", "Last Dental Visit", "omitempty", "Within 6 months", "Within a year", "Over a year ago"),
		},
	},
	{
		Type: QuoteTypeVision, Slug: "vision", Title: "Vision Insurance",
		Tagline: "Eye exams, frames, and contacts.",
		Fields: []FieldSpec{
			choice("coverageType", "Coverage Type", "required", "Individual", "Family"),
			checkbox("wearsGlasses", "Wears glasses"),
			checkbox("wearsContacts", "Wears contacts"),
			choice("lastEyeExam", "Last Eye Exam", "omitempty", "Within a year", "1-2 years ago", "Over 2 years ago"),
		},
	},
	{
		Type: QuoteTypeLandlords, Slug: "landlords", Title: "Landlord Insurance",
		Tagline: "Coverage for the properties you rent out.", IncludeHistory: true,
		Fields: []FieldSpec{
			number("numberOfUnits", "Number of Units", "required,numeric"),
			choice("propertyType", "Property Type", "required", "Single Family", "Duplex", "Triplex", "Fourplex", "Apartment Building"),
			number("yearBuilt", "Year Built", "omitempty,numeric,len=4"),
			number("monthlyRent", "Monthly Rent ($)", "omitempty,numeric"),
			checkbox("furnished", "Furnished"),
		},
	},
	{
		Type: QuoteTypeUmbrella, Slug: "umbrella", Title: "Umbrella Insurance",
		Tagline: "Extra liability protection above your other policies.", IncludeHistory: true,
		Fields: []FieldSpec{
			choice("coverageAmount", "Umbrella Limit", "required", "$1,000,000", "$2,000,000", "$5,000,000"),
			number("numberOfVehicles", "Vehicles Owned", "omitempty,numeric"),
			number("numberOfProperties", "Properties Owned", "omitempty,numeric"),
			checkbox("hasWatercraft", "Owns watercraft"),
			checkbox("hasPool", "Has a pool"),
		},
	},
	{
		Type: QuoteTypeMedicareAdvantage, Slug: "medicare-advantage", Title: "Medicare Advantage",
		Tagline: "All-in-one alternative to Original Medicare.",
		Fields: []FieldSpec{
			text("medicareNumber", "Medicare Number", "omitempty,max=20"),
			date("partAEffectiveDate", "Part A Effective Date", ""),
			date("partBEffectiveDate", "Part B Effective Date", ""),
			choice("planPreference", "Plan Preference", "required", "HMO", "PPO", "PFFS", "SNP", "Not sure"),
			textarea("preferredDoctors", "Doctors you want to keep"),
			textarea("prescriptions", "Current Prescriptions"),
		},
	},
	{
		Type: QuoteTypeMedicareSupplement, Slug: "medicare-supplement", Title: "Medicare Supplement",
		Tagline: "Fill the gaps in Original Medicare.",
		Fields: []FieldSpec{
			text("medicareNumber", "Medicare Number", "omitempty,max=20"),
			date("partBEffectiveDate", "Part B Effective Date", ""),
			choice("planLetter", "Plan", "required", "Plan G", "Plan N", "Plan F", "High Deductible G", "Not sure"),
			choice("tobaccoUse", "Tobacco Use", "required", yesNo...),
		},
	},
	{
		Type: QuoteTypeAnnuity, Slug: "annuity", Title: "Annuities",
		Tagline: "Guaranteed income for retirement.",
		Fields: []FieldSpec{
			choice("annuityType", "Annuity Type", "required", "Fixed", "Indexed", "Variable", "Immediate", "Not sure"),
			number("investmentAmount", "Amount to Invest ($)", "required,numeric"),
			choice("timeHorizon", "Time Horizon", "omitempty", "Under 5 years", "5-10 years", "10+ years"),
			choice("incomeStart", "When do you want income to start?", "omitempty", "Immediately", "Within 5 years", "Later"),
		},
	},
	{
		Type: QuoteTypeMotorcycle, Slug: "motorcycle", Title: "Motorcycle Insurance",
		Tagline: "Coverage built for riders.", IncludeHistory: true,
		Fields: slices.Concat(autoVehicleFields[:4], autoDriverFields[:3], []FieldSpec{
			checkbox("ridingCourse", "Completed a rider safety course"),
			choice("storage", "Storage", "omitempty", "Garage", "Carport", "Street"),
		}),
	},
	{
		Type: QuoteTypeRenters, Slug: "renters", Title: "Renters Insurance",
		Tagline: "Protect your belongings for less than you think.", IncludeHistory: true,
		Fields: []FieldSpec{
			number("personalPropertyValue", "Value of Belongings ($)", "required,numeric"),
			choice("buildingType", "Building Type", "omitempty", "Apartment", "House", "Condo", "Townhouse"),
			number("roommates", "Roommates", "omitempty,numeric"),
			checkbox("pets", "Pets in the home"),
		},
	},
	{
		Type: QuoteTypeCondo, Slug: "condo", Title: "Condo Insurance",
		Tagline: "Coverage for what your HOA policy leaves out.", IncludeHistory: true,
		Fields: []FieldSpec{
			number("yearBuilt", "Year Built", "omitempty,numeric,len=4"),
			number("unitSquareFootage", "Unit Square Footage", "omitempty,numeric"),
			number("personalPropertyValue", "Value of Belongings ($)", "required,numeric"),
			choice("floorLevel", "Floor", "omitempty", "Ground", "2-5", "6+"),
			checkbox("hoaMasterPolicy", "HOA has a master policy"),
		},
	},
}

func init() {
	for i := range products {
		if products[i].CoverageDesired == "" {
			products[i].CoverageDesired = products[i].Title
		}
	}
}

// Products returns every product schema in display order.
func Products() []ProductSchema {
	return slices.Clone(products)
}

// ProductBySlug finds a product by its URL slug.
func ProductBySlug(slug string) (*ProductSchema, error) {
	for i := range products {
		if products[i].Slug == slug {
			p := products[i]
			return &p, nil
		}
	}

	return nil, NewNotFoundError("product", slug)
}

// ProductByType finds a product by its quote type.
func ProductByType(t QuoteType) (*ProductSchema, error) {
	for i := range products {
		if products[i].Type == t {
			p := products[i]
			return &p, nil
		}
	}

	return nil, NewNotFoundError("product", string(t))
}
