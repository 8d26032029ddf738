package validator

import (
	"strings"
	"unicode/utf8"
)

func ClubName(name string) bool {
	name = strings.TrimSpace(name)
	return utf8.RuneCountInString(name) >= 3 && utf8.RuneCountInString(name) <= 60
}

func ClubDescription(description string) bool {
	return utf8.RuneCountInString(description) <= 1000
}

func ClubCategory(category string) bool {
	return utf8.RuneCountInString(category) <= 40
}
