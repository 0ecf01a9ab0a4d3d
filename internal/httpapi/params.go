// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/kinoscope/catalog/internal/validation"
)

// pagingRequest is the validated shape of the paging query parameters
// every list endpoint accepts (spec.md §6: `page_size ∈ [1,100]`
// default 50, `page_number ≥ 1` default 1), the same
// validate-tagged-struct-plus-ValidateStruct pattern as cartographus's
// PlaybacksRequest/LocationsRequest.
type pagingRequest struct {
	PageSize   int `validate:"min=1,max=100"`
	PageNumber int `validate:"min=1"`
}

const (
	defaultPageSize   = 50
	defaultPageNumber = 1
)

// parsePaging reads page_size/page_number from the query string,
// applying defaults, and validates the bounds. A malformed integer is
// reported the same as an out-of-range one, since both are the
// client's fault (spec.md §7(c): bad-request, never retried).
func parsePaging(r *http.Request) (pagingRequest, error) {
	req := pagingRequest{PageSize: defaultPageSize, PageNumber: defaultPageNumber}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, &paramError{field: "page_size", message: "page_size must be an integer"}
		}
		req.PageSize = v
	}

	if raw := r.URL.Query().Get("page_number"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, &paramError{field: "page_number", message: "page_number must be an integer"}
		}
		req.PageNumber = v
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		return req, verr
	}

	return req, nil
}

// paramError is a lightweight bad-request sentinel for parameters that
// fail before reaching the validator (non-numeric input).
type paramError struct {
	field   string
	message string
}

func (e *paramError) Error() string { return e.message }
