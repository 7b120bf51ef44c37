package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset, or page and pageSize with pages
// counted from 1. Unparseable values fall back to the defaults and limit is
// capped at maxLimit.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()
	p := Pagination{
		Limit:  positiveInt(q.Get("limit"), 0),
		Offset: positiveInt(q.Get("offset"), 0),
	}
	if p.Limit == 0 {
		p.Limit = positiveInt(q.Get("pageSize"), defaultLimit)
	}
	if maxLimit > 0 {
		p.Limit = min(p.Limit, maxLimit)
	}
	if _, ok := q["offset"]; !ok {
		if page := positiveInt(q.Get("page"), 1); page > 1 {
			p.Offset = (page - 1) * p.Limit
		}
	}
	return p
}

func positiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
