package setpush

import "strings"

const (
	// setContentType is the media type identifying a signed security event
	// token carried as an HTTP request body.
	setContentType = "application/secevent+jwt"

	defaultUserAgent = "setpush/0"

	bearerPrefix = "Bearer "
)

// normalizeBearer ensures a credential carries the Bearer scheme prefix
// exactly once. A credential that already begins with the literal prefix
// passes through unchanged, so the function is idempotent.
func normalizeBearer(credential string) string {
	if strings.HasPrefix(credential, bearerPrefix) {
		return credential
	}
	return bearerPrefix + credential
}

// buildHeaders composes the header set for one delivery: fixed base headers
// first, then the authorization header when a credential is present, then
// caller overrides layered on top. Caller values win on key collision. Keys
// are compared as exact strings; canonicalization is left to the transport.
func buildHeaders(authToken, userAgent string, overrides map[string]string) map[string]string {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	headers := map[string]string{
		"Content-Type": setContentType,
		"Accept":       "application/json",
		"User-Agent":   userAgent,
	}

	if authToken != "" {
		headers["Authorization"] = normalizeBearer(authToken)
	}

	for name, value := range overrides {
		headers[name] = value
	}

	return headers
}
