package compiler

import (
	"net/mail"
	neturl "net/url"
	"strings"

	"github.com/google/uuid"
)

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func isURL(raw string) bool {
	value := strings.TrimSpace(raw)
	if value == "" || value != raw {
		return false
	}
	if strings.ContainsAny(value, " \t\r\n") {
		return false
	}

	parsed, err := neturl.Parse(value)
	if err != nil || parsed.Scheme == "" {
		return false
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return parsed.Host != ""
	default:
		return parsed.Host != "" || parsed.Opaque != "" || parsed.Path != ""
	}
}

// isUUID accepts only the canonical 8-4-4-4-12 form.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
