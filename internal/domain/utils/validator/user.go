package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

func UserName(name string) bool {
	name = strings.TrimSpace(name)
	return utf8.RuneCountInString(name) >= 2 && utf8.RuneCountInString(name) <= 80
}

func Bio(bio string) bool {
	return utf8.RuneCountInString(bio) <= 500
}

// Email accepts a bare address. When domains are given the address must end
// with one of them.
func Email(email string, domains ...string) bool {
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return false
	}
	if len(domains) == 0 {
		return true
	}
	for _, domain := range domains {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}
	return false
}

// Password must have at least 8 characters and fit into bcrypt's 72 bytes.
func Password(password string) bool {
	return utf8.RuneCountInString(password) >= 8 && len(password) <= 72
}
