// Package handlers implements the HTTP endpoints of the console API. Each
// handler decodes and validates its request, delegates to a service and
// writes the shared response envelope: one error or one success per action,
// never both.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/pkg/common"
	apperrors "fraudgraph-backend/pkg/errors"
	"fraudgraph-backend/pkg/utils"
)

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return false
	}
	return true
}

// decodeOptional decodes a request body that may be absent. An empty body
// leaves dst at its zero value; the content length is not consulted, so
// chunked bodies decode the same as fixed-length ones.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("id must be an integer"))
		return 0, false
	}
	return id, true
}

// rowsResult shapes service records into the tabular payload the console
// renders. Columns are the union of the keys across all rows, sorted for
// stable display, so a row missing a property cannot hide its column.
func rowsResult(rows []ports.Record) common.RowsResult {
	out := common.RowsResult{
		Rows:  make([]map[string]interface{}, len(rows)),
		Count: len(rows),
	}
	seen := make(map[string]struct{})
	for i, row := range rows {
		out.Rows[i] = row
		for key := range row {
			seen[key] = struct{}{}
		}
	}
	if len(seen) > 0 {
		columns := make([]string, 0, len(seen))
		for key := range seen {
			columns = append(columns, key)
		}
		sort.Strings(columns)
		out.Columns = columns
	}
	return out
}
