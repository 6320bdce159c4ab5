package models

import (
	"errors"
	"strings"
)

type fieldErrors []string

func (e *fieldErrors) add(message string) {
	*e = append(*e, message)
}

func (e fieldErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return errors.New(strings.Join(e, "; "))
}

func isCurrencyCode(value string) bool {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != 3 {
		return false
	}
	for _, ch := range strings.ToUpper(trimmed) {
		if ch < 'A' || ch > 'Z' {
			return false
		}
	}
	return true
}

func optional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
