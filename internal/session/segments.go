package session

import "sort"

// exchangeSegments maps caller-facing segment keys (and common aliases) to
// the canonical segment token used in scrip master file names.
var exchangeSegments = map[string]string{
	"nse_cm": "nse_cm",
	"bse_cm": "bse_cm",
	"nse_fo": "nse_fo",
	"bse_fo": "bse_fo",
	"cde_fo": "cde_fo",
	"bcs_fo": "bcs_fo",
	"mcx_fo": "mcx_fo",

	// aliases
	"nse": "nse_cm",
	"bse": "bse_cm",
	"nfo": "nse_fo",
	"bfo": "bse_fo",
	"cds": "cde_fo",
	"mcx": "mcx_fo",
}

// ScripSegment resolves a caller-supplied exchange segment key to the
// canonical token used in scrip master file names.
func ScripSegment(key string) (string, bool) {
	seg, ok := exchangeSegments[key]
	return seg, ok
}

// ExchangeSegments returns the canonical segment tokens, sorted.
func ExchangeSegments() []string {
	seen := make(map[string]bool)
	for _, seg := range exchangeSegments {
		seen[seg] = true
	}
	out := make([]string, 0, len(seen))
	for seg := range seen {
		out = append(out, seg)
	}
	sort.Strings(out)
	return out
}
