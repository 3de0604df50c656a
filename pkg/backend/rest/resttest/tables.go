package resttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DeBrosOfficial/contacts/pkg/httputil"
)

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	q := r.URL.Query()
	filters, err := parseFilters(q)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "PGRST100", err.Error())
		return
	}
	from, to, hasRange, err := parseRange(r.Header.Get("Range"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "PGRST100", err.Error())
		return
	}

	s.mu.Lock()
	var matched []map[string]any
	for _, row := range s.tables[table] {
		if matchAll(filters, row) {
			matched = append(matched, cloneRow(row))
		}
	}
	s.mu.Unlock()

	if err := sortRows(matched, q.Get("order")); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "PGRST100", err.Error())
		return
	}

	total := len(matched)
	start, end := 0, total
	if hasRange {
		// the window is only checked against the total when a count was asked for
		if from < 0 || to < from || (wantsExactCount(r) && from > total) {
			w.Header().Set("Content-Range", fmt.Sprintf("*/%d", total))
			httputil.WriteError(w, http.StatusRequestedRangeNotSatisfiable, "PGRST103", "Requested range not satisfiable")
			return
		}
		start = min(from, total)
		end = max(min(to+1, total), start)
	}
	if lim := q.Get("limit"); lim != "" {
		n, err := strconv.Atoi(lim)
		if err != nil || n < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "PGRST100", "invalid limit")
			return
		}
		if start+n < end {
			end = start + n
		}
	}
	page := project(matched[start:end], q.Get("select"))

	totalText := "*"
	if wantsExactCount(r) {
		totalText = strconv.Itoa(total)
	}
	if len(page) == 0 {
		w.Header().Set("Content-Range", "*/"+totalText)
	} else {
		w.Header().Set("Content-Range", fmt.Sprintf("%d-%d/%s", start, start+len(page)-1, totalText))
	}

	status := http.StatusOK
	if hasRange && len(page) > 0 && len(page) < total {
		status = http.StatusPartialContent
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	httputil.WriteJSON(w, status, page)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	var raw json.RawMessage
	if err := httputil.DecodeJSON(r, &raw); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "PGRST102", "Empty or invalid json")
		return
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		var one map[string]any
		if err := json.Unmarshal(raw, &one); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "PGRST102", "Empty or invalid json")
			return
		}
		rows = []map[string]any{one}
	}

	s.mu.Lock()
	existing := make(map[string]bool, len(s.tables[table]))
	for _, row := range s.tables[table] {
		existing[fmt.Sprint(row["id"])] = true
	}
	inserted := make([]map[string]any, 0, len(rows))
	for _, in := range rows {
		row := cloneRow(in)
		if row["id"] == nil {
			row["id"] = uuid.NewString()
		}
		if row["created_at"] == nil {
			row["created_at"] = s.now().UTC().Format(timestampLayout)
		}
		key := fmt.Sprint(row["id"])
		if existing[key] {
			s.mu.Unlock()
			httputil.WriteError(w, http.StatusConflict, "23505",
				`duplicate key value violates unique constraint "`+table+`_pkey"`)
			return
		}
		existing[key] = true
		inserted = append(inserted, row)
	}
	s.tables[table] = append(s.tables[table], inserted...)
	s.mu.Unlock()

	if !wantsRepresentation(r) {
		w.WriteHeader(http.StatusCreated)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, project(inserted, r.URL.Query().Get("select")))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "PGRST100", err.Error())
		return
	}
	var patch map[string]any
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "PGRST102", "Empty or invalid json")
		return
	}

	s.mu.Lock()
	var updated []map[string]any
	for _, row := range s.tables[table] {
		if !matchAll(filters, row) {
			continue
		}
		for k, v := range patch {
			row[k] = v
		}
		updated = append(updated, cloneRow(row))
	}
	s.mu.Unlock()

	s.writeEcho(w, r, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "PGRST100", err.Error())
		return
	}

	s.mu.Lock()
	var kept, deleted []map[string]any
	for _, row := range s.tables[table] {
		if matchAll(filters, row) {
			deleted = append(deleted, row)
			continue
		}
		kept = append(kept, row)
	}
	s.tables[table] = kept
	s.mu.Unlock()

	s.writeEcho(w, r, deleted)
}

func (s *Server) writeEcho(w http.ResponseWriter, r *http.Request, rows []map[string]any) {
	if !wantsRepresentation(r) {
		httputil.WriteNoContent(w)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, project(rows, r.URL.Query().Get("select")))
}
