package server

import (
	"strings"

	"github.com/ByLCY/sheetsmith/layout"
)

// ParsePath extracts the six raw fields from an escaped request path of the form
// /account/referrer/gender/age/profession/contact/details... Every segment after the
// fifth is rejoined with "/" to form the contact details. Values stay percent-encoded.
func ParsePath(escapedPath string) (layout.Request, bool) {
	parts := strings.Split(escapedPath, "/")
	if len(parts) < 7 || parts[0] != "" {
		return layout.Request{}, false
	}
	for _, p := range parts[1:6] {
		if p == "" {
			return layout.Request{}, false
		}
	}
	return layout.Request{
		Account:        parts[1],
		Referrer:       parts[2],
		Gender:         parts[3],
		Age:            parts[4],
		Profession:     parts[5],
		ContactDetails: strings.Join(parts[6:], "/"),
	}, true
}
