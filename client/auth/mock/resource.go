package mock

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type page struct {
	Content       []map[string]any `json:"content"`
	PageNumber    int              `json:"pageNumber"`
	PageSize      int              `json:"pageSize"`
	TotalElements int              `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

// splitResource maps /api/brand/42 to ("brand", "42") and /api/brand to ("brand", "").
// It takes the escaped path, so an id may carry an encoded slash.
func splitResource(escapedPath string) (string, string) {
	escapedPath = strings.Trim(strings.TrimPrefix(escapedPath, "/api/"), "/")
	index := strings.LastIndex(escapedPath, "/")
	if index == -1 {
		return unescape(escapedPath), ""
	}
	return unescape(escapedPath[:index]), unescape(escapedPath[index+1:])
}

func unescape(segment string) string {
	if ret, err := url.PathUnescape(segment); err == nil {
		return ret
	}
	return segment
}

// defaultResourceHandler serves session-protected CRUD over /api/{resource}[/{id}]
func (s *Service) defaultResourceHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeEnvelope(w, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}
	resource, id := splitResource(r.URL.EscapedPath())
	if _, ok := s.resources.Get(resource); !ok && id != "" && id != "search" {
		// /api/product/42 where "product/42" was seeded as a collection
		if _, ok = s.resources.Get(resource + "/" + id); ok {
			resource, id = resource+"/"+id, ""
		}
	}
	switch {
	case r.Method == http.MethodGet && (id == "" || id == "search"):
		s.listResource(w, r, resource)
	case r.Method == http.MethodGet:
		item, ok := s.collection(resource).Get(id)
		if !ok {
			writeEnvelope(w, http.StatusNotFound, "Resource not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Success", item)
	case r.Method == http.MethodPost && id == "":
		item := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeEnvelope(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
		item["id"] = uuid.NewString()
		s.collection(resource).Put(item["id"].(string), item)
		writeEnvelope(w, http.StatusCreated, "Created", item)
	case (r.Method == http.MethodPut || r.Method == http.MethodPatch) && id != "":
		changes := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
			writeEnvelope(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
		merge := r.Method == http.MethodPatch
		item, ok := s.collection(resource).Update(id, func(current map[string]any) map[string]any {
			next := map[string]any{}
			if merge {
				for k, v := range current {
					next[k] = v
				}
			}
			for k, v := range changes {
				next[k] = v
			}
			next["id"] = id
			return next
		})
		if !ok {
			writeEnvelope(w, http.StatusNotFound, "Resource not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Updated", item)
	case r.Method == http.MethodDelete && id != "":
		if !s.collection(resource).Delete(id) {
			writeEnvelope(w, http.StatusNotFound, "Resource not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "Deleted", nil)
	default:
		writeEnvelope(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}

func (s *Service) listResource(w http.ResponseWriter, r *http.Request, resource string) {
	query := r.URL.Query()
	name := strings.ToLower(query.Get("name"))
	store := s.collection(resource)
	items := make([]map[string]any, 0, store.Len())
	for _, item := range store.Values() {
		if value, _ := item["name"].(string); name == "" || strings.Contains(strings.ToLower(value), name) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i]["id"].(string) < items[j]["id"].(string)
	})

	pageNumber, _ := strconv.Atoi(query.Get("pageNumber"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	result := page{
		Content:       []map[string]any{},
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: len(items),
		TotalPages:    (len(items) + pageSize - 1) / pageSize,
	}
	if start := (pageNumber - 1) * pageSize; start < len(items) {
		end := start + pageSize
		if end > len(items) {
			end = len(items)
		}
		result.Content = items[start:end]
	}
	writeEnvelope(w, http.StatusOK, "Success", result)
}
