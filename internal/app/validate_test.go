package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

func mustSchema(t *testing.T, qt domain.QuoteType) *domain.ProductSchema {
	t.Helper()

	schema, err := domain.ProductByType(qt)
	require.NoError(t, err)

	return schema
}

func TestValidateQuote_BlankQuoteReportsRequiredSet(t *testing.T) {
	err := ValidateQuote(mustSchema(t, domain.QuoteTypeHealth), &domain.Quote{}, true)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	details := domain.ValidationDetails(err)
	for _, field := range []string{
		"firstName", "lastName", "email", "phoneNumber", domain.ConsentField,
		"householdSize", "coverageType", "tobaccoUse", "preferredPlanType",
	} {
		assert.Contains(t, details, field)
	}

	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, consentMessage, details[domain.ConsentField])
	assert.NotContains(t, details, "address")
}

func TestValidateQuote_EveryProductAcceptsAValidQuote(t *testing.T) {
	for _, p := range domain.Products() {
		t.Run(p.Slug, func(t *testing.T) {
			q := validQuote(t, p.Type)
			assert.NoError(t, ValidateQuote(&p, q, true))
		})
	}
}

func TestValidateQuote_Nil(t *testing.T) {
	err := ValidateQuote(mustSchema(t, domain.QuoteTypeLife), nil, true)

	assert.True(t, domain.IsValidation(err))
}

func TestValidateQuote_Consent(t *testing.T) {
	q := healthQuote(t)
	q.InformationSecure = false

	schema := mustSchema(t, domain.QuoteTypeHealth)

	require.Error(t, ValidateQuote(schema, q, true))
	assert.NoError(t, ValidateQuote(schema, q, false))
}

func TestValidateQuote_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *domain.Quote)
		field   string
		message string
	}{
		{
			name:    "bad email",
			mutate:  func(q *domain.Quote) { q.Email = "not-an-email" },
			field:   "email",
			message: "must be a valid email address",
		},
		{
			name:    "short phone",
			mutate:  func(q *domain.Quote) { q.PhoneNumber = "12" },
			field:   "phoneNumber",
			message: "must be at least 7 characters",
		},
		{
			name:    "zip code length",
			mutate:  func(q *domain.Quote) { q.ZipCode = "1234" },
			field:   "zipCode",
			message: "must be exactly 5 characters",
		},
		{
			name:    "date format",
			mutate:  func(q *domain.Quote) { q.DateOfBirth = "01/02/1990" },
			field:   "dateOfBirth",
			message: "must be a date (YYYY-MM-DD)",
		},
		{
			name:    "unknown option",
			mutate:  func(q *domain.Quote) { q.Fields["tobaccoUse"] = "Sometimes" },
			field:   "tobaccoUse",
			message: "must be one of: Yes, No",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := healthQuote(t)
			tt.mutate(q)

			err := ValidateQuote(mustSchema(t, domain.QuoteTypeHealth), q, true)

			require.Error(t, err)
			assert.Equal(t, map[string]string{tt.field: tt.message}, domain.ValidationDetails(err))
		})
	}
}

func TestValidateQuote_GroupedFieldsUsePaths(t *testing.T) {
	q := validQuote(t, domain.QuoteTypeAuto)
	q.Vehicles = nil

	err := ValidateQuote(mustSchema(t, domain.QuoteTypeAuto), q, true)

	details := domain.ValidationDetails(err)
	assert.Equal(t, "is required", details["vehicle.year"])
	assert.Equal(t, "is required", details["vehicle.make"])
	assert.NotContains(t, details, "year")
}

func TestValidateQuote_NumbersFromJSON(t *testing.T) {
	q := validQuote(t, domain.QuoteTypeAnnuity)
	q.Fields["investmentAmount"] = float64(25000)

	assert.NoError(t, ValidateQuote(mustSchema(t, domain.QuoteTypeAnnuity), q, true))

	q.Fields["investmentAmount"] = "lots"

	details := domain.ValidationDetails(ValidateQuote(mustSchema(t, domain.QuoteTypeAnnuity), q, true))
	assert.Equal(t, "must be a number", details["investmentAmount"])
}

func TestValidateRecord(t *testing.T) {
	form := domain.SlotPrimaryBoat.SubForm()

	err := ValidateRecord(form, map[string]any{"make": "Sea Ray", "year": "19"})

	var fieldErrs *domain.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Primary Boat", fieldErrs.Entity)
	assert.Equal(t, map[string]string{
		"year":       "must be exactly 4 characters",
		"model":      "is required",
		"engineType": "is required",
	}, fieldErrs.Fields)

	assert.NoError(t, ValidateRecord(form, map[string]any{
		"year": float64(2019), "make": "Sea Ray", "model": "SPX 190", "engineType": "Outboard",
	}))
}

func TestNormalizeRecord(t *testing.T) {
	specs := domain.OperatorFields()

	got := NormalizeRecord(specs, map[string]any{
		"firstName":       " Lee ",
		"lastName":        "Park",
		"yearsExperience": "7",
		"unexpected":      "dropped",
	})

	assert.Equal(t, map[string]any{
		"firstName":           "Lee",
		"lastName":            "Park",
		"yearsExperience":     float64(7),
		"boatingSafetyCourse": false,
	}, got)
}

func TestNormalizeRecord_InputNamesAndTypedValues(t *testing.T) {
	specs := []domain.FieldSpec{
		{Name: "zipCode", FormName: "zipcode", Kind: domain.KindText},
		{Name: "pets", Kind: domain.KindCheckbox},
	}

	got := NormalizeRecord(specs, map[string]any{"zipcode": "02134", "pets": true})

	assert.Equal(t, map[string]any{"zipCode": "02134", "pets": true}, got)
}
