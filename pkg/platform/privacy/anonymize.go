// Package privacy keeps personally identifying values out of logs and metrics.
package privacy

import (
	"net/netip"
)

// AnonymizeIP truncates an address to its network prefix: /24 for IPv4 and /48 for
// IPv6. Returns "unknown" for empty input and "invalid" for unparseable input.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()
	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// MaskDigits keeps the last n digits of a contact handle visible, e.g. for
// logging the destination of a deep link without exposing the full number.
func MaskDigits(value string, visible int) string {
	if visible < 0 {
		visible = 0
	}
	runes := []rune(value)
	if len(runes) <= visible {
		return value
	}
	masked := make([]rune, len(runes))
	for i, r := range runes {
		if i < len(runes)-visible {
			masked[i] = '*'
			continue
		}
		masked[i] = r
	}
	return string(masked)
}
