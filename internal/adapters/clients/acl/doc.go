// Package acl is the anti-corruption layer between the lead-capture service
// and the quote-management backend.
//
// The backend exposes one REST collection per quote type:
//
//	POST   /{type}               create a quote
//	GET    /{type}?page=&pageSize=  list, paginated by X-Total-Count / X-Page / X-Page-Size
//	GET    /{type}/{id}          fetch one quote
//	PUT    /{type}/{id}          replace a quote
//	DELETE /{type}/{id}          delete a quote
//	GET    /{type}/search?q=     free-text search
//	GET    /{type}/stats         collection statistics
//
// Nothing outside this package sees the backend's wire shapes or status
// codes. [MapHTTPError] turns transport failures and non-2xx responses into
// domain errors, and every failure is logged with the operation that caused it
// before being returned.
//
// Creates are sent exactly once. A failed submission surfaces to the user,
// who decides whether to resubmit.
package acl
