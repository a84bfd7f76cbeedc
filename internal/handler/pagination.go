// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Pagination holds pagination data for templates.
type Pagination struct {
	Page        int
	PerPage     int
	TotalPages  int
	TotalItems  int64
	HasPrev     bool
	HasNext     bool
	PrevURL     string
	NextURL     string
	BaseURL     string
	QueryString string
}

// ParsePageParam parses the "page" query parameter. Returns 1 if the
// parameter is missing, invalid, or below 1.
func ParsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// NormalizePage clamps a page number into [1, totalPages] and returns it
// together with the page count.
func NormalizePage(page int, totalItems int64, perPage int) (int, int) {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

// BuildPagination creates pagination data for templates. baseURL is the
// path without query string; queryParams are preserved across page links
// (for example the comments filter).
func BuildPagination(page int, totalItems int64, perPage int, baseURL string, queryParams url.Values) Pagination {
	page, totalPages := NormalizePage(page, totalItems, perPage)

	p := Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: totalItems,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		BaseURL:    baseURL,
	}

	if queryParams != nil {
		params := make(url.Values)
		for k, v := range queryParams {
			if k != "page" && len(v) > 0 && v[0] != "" {
				params[k] = v
			}
		}
		if len(params) > 0 {
			p.QueryString = params.Encode()
		}
	}

	if p.HasPrev {
		p.PrevURL = p.PageURL(page - 1)
	}
	if p.HasNext {
		p.NextURL = p.PageURL(page + 1)
	}

	return p
}

// PageURL returns the URL for a specific page number.
func (p Pagination) PageURL(page int) string {
	if p.QueryString != "" {
		return fmt.Sprintf("%s?%s&page=%d", p.BaseURL, p.QueryString, page)
	}
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}
