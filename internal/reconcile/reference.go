package reconcile

import "net/url"

// referenceKeys are the parameter names the payment provider has been seen
// using for the transaction reference.
var referenceKeys = []string{"tx_ref", "txRef", "payment_ref"}

// ExtractReference resolves the payment reference from the return context.
// Precedence is query parameters, then fragment parameters, then the
// navigation state stashed in the session; the first non-empty value wins.
func ExtractReference(query, fragment url.Values, stashed string) string {
	for _, values := range []url.Values{query, fragment} {
		for _, key := range referenceKeys {
			if v := values.Get(key); v != "" {
				return v
			}
		}
	}
	return stashed
}
