package service

import "strings"

func trim(s string) string {
	return strings.TrimSpace(s)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
