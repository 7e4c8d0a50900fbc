package signal

import "fmt"

// homeHealthRanges are the HCPCS code ranges covering home health services:
// skilled nursing and therapy visits (G0151-G0162, G0299-G0300), private duty
// nursing (S9122-S9124), and personal care services (T1019-T1022).
var homeHealthRanges = []struct {
	prefix     string
	start, end int
}{
	{"G", 151, 162},
	{"G", 299, 300},
	{"S", 9122, 9124},
	{"T", 1019, 1022},
}

// HomeHealthCodes expands the code ranges into the full lookup set with
// zero-padded 4-digit suffixes (e.g. "G0151").
func HomeHealthCodes() map[string]struct{} {
	codes := make(map[string]struct{})
	for _, r := range homeHealthRanges {
		for n := r.start; n <= r.end; n++ {
			codes[fmt.Sprintf("%s%04d", r.prefix, n)] = struct{}{}
		}
	}
	return codes
}
