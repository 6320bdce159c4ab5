package models

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

// ParsePage reads ?limit= and ?offset=. Missing values fall back to the
// default page; a limit above the maximum is capped.
func ParsePage(query url.Values) (domain.Page, error) {
	var errs fieldErrors
	var page domain.Page

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			errs.add("limit must be a positive integer")
		}
		page.Limit = limit
	}
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			errs.add("offset must be a non-negative integer")
		}
		page.Offset = offset
	}

	if err := errs.err(); err != nil {
		return domain.Page{}, err
	}
	return page.Normalize(), nil
}

// ParseStandingOrderFilter reads ?accountId= and ?active= on top of the page.
func ParseStandingOrderFilter(query url.Values) (domain.StandingOrderFilter, error) {
	var errs fieldErrors
	filter := domain.StandingOrderFilter{AccountID: OptionalQuery(query, "accountId")}

	if raw := strings.TrimSpace(query.Get("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			errs.add("active must be true or false")
		}
		filter.Active = &active
	}
	page, err := ParsePage(query)
	if err != nil {
		errs.add(err.Error())
	}
	filter.Page = page

	if err := errs.err(); err != nil {
		return domain.StandingOrderFilter{}, err
	}
	return filter, nil
}

// OptionalQuery returns the trimmed query value, or nil when it is blank.
func OptionalQuery(query url.Values, key string) *string {
	value := query.Get(key)
	return optional(&value)
}
