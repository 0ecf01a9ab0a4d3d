// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton, used by internal/httpapi to enforce the paging bounds from
// SPEC_FULL.md §4.9 (page_size 1-100, page_number >= 1) before a request
// reaches internal/query.
//
//	type FilmListRequest struct {
//	    PageSize   int    `validate:"min=1,max=100"`
//	    PageNumber int    `validate:"min=1"`
//	    Sort       string `validate:"omitempty,oneof=imdb_rating -imdb_rating"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    writeUnprocessable(w, verr.Error())
//	    return
//	}
package validation
