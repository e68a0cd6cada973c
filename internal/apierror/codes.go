package apierror

// Error type URIs following the urn:sereno:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:sereno:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:sereno:error:not_found"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:sereno:error:auth_required"

	// TypeStoreUnavailable indicates the record store could not be reached (503)
	TypeStoreUnavailable = "urn:sereno:error:store_unavailable"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:sereno:error:internal"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:sereno:error:bad_request"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation       = "Validation Error"
	TitleNotFound         = "Resource Not Found"
	TitleUnauthorized     = "Authentication Required"
	TitleStoreUnavailable = "Record Store Unavailable"
	TitleInternal         = "Internal Server Error"
	TitleBadRequest       = "Bad Request"
)
