package ports

import (
	"context"
)

// Flag names evaluated by the application layer.
const (
	// FlagConsentStrict requires the informationSecure box on every product.
	// When off, products with a pre-checked consent box accept a missing
	// value as consent.
	FlagConsentStrict = "consent.strict"

	// FlagStatsConcurrency bounds concurrent backend calls in fan-out reads.
	FlagStatsConcurrency = "stats.concurrency"

	// FlagExportPageSize is the page size used when gathering an export.
	FlagExportPageSize = "export.page_size"

	// FlagSiteBanner is an announcement shown above every page when set.
	FlagSiteBanner = "site.banner"
)

// FeatureFlags evaluates runtime switches. Implementations never fail: an
// unknown flag or a lookup error yields defaultValue.
//
//	if flags.IsEnabled(ctx, ports.FlagConsentStrict, true) {
//	    required = append(required, domain.ConsentField)
//	}
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
	GetString(ctx context.Context, flag string, defaultValue string) string
	GetInt(ctx context.Context, flag string, defaultValue int) int
}
