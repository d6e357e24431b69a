package device

import "strings"

// addressPrefixLen is how much of an address a fallback name shows.
const addressPrefixLen = 4

// ResolveName returns the display name for a device. An exact address
// entry wins; otherwise the longest configured key that prefixes the
// address; otherwise "<Prefix>@<first characters of address>".
func ResolveName(address string, kind Kind, names map[string]string) string {
	if name, ok := names[address]; ok && name != "" {
		return name
	}

	best := ""
	for key, name := range names {
		if key == "" || name == "" || !strings.HasPrefix(address, key) {
			continue
		}
		if len(key) > len(best) {
			best = key
		}
	}
	if best != "" {
		return names[best]
	}

	short := address
	if len(short) > addressPrefixLen {
		short = short[:addressPrefixLen]
	}
	return kind.Prefix() + "@" + short
}
