package utils

import "strconv"

// Page converts limit/page query values into LIMIT and OFFSET.  Invalid or
// missing values fall back to def and page 1; limit is capped at max.
func Page(limitRaw, pageRaw string, def, max int) (limit, page, offset int) {
	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	page, err = strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = 1
	}
	return limit, page, (page - 1) * limit
}
