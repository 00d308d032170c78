package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/nickspeelman/reflect/internal/usecases"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

func (api ReflectServer) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := ErrorResp{}
		errResp.Error.Code = BADREQUEST
		errResp.Error.Message = fmt.Sprintf("invalid request body: %v", err)

		respondError(w, errResp)
		return
	}

	entry, err := api.CreateEntryUseCase.Execute(r.Context(), req.Prompt, req.Response)
	if err != nil {
		api.Logger.Printf("Error creating entry: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toEntry(entry))
}

func (api ReflectServer) ListEntries(w http.ResponseWriter, r *http.Request) {
	page, pageSize, ok := parsePagination(w, r)
	if !ok {
		return
	}

	var queryParams []usecases.ListEntriesOptions
	if query := r.URL.Query().Get("query"); query != "" {
		queryParams = append(queryParams, usecases.WithSearchQuery(query))
	}

	entries, hasMore, err := api.ListEntriesUseCase.Query(r.Context(), page, pageSize, queryParams...)
	if err != nil {
		api.Logger.Printf("Error listing entries: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := ListEntriesResp{
		Items: []Entry{},
		Page:  page,
	}
	for _, e := range entries {
		resp.Items = append(resp.Items, toEntry(e))
	}
	if hasMore {
		nextPage := page + 1
		resp.NextPage = &nextPage
	}
	if page > 1 {
		prevPage := page - 1
		resp.PreviousPage = &prevPage
	}

	respondJSON(w, http.StatusOK, resp)
}

func (api ReflectServer) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryId, ok := parseUUIDPathValue(w, r, "entryId")
	if !ok {
		return
	}

	entry, err := api.GetEntryUseCase.Query(r.Context(), entryId)
	if err != nil {
		api.Logger.Printf("Error getting entry: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusOK, toEntry(entry))
}

func (api ReflectServer) ListRelatedEntries(w http.ResponseWriter, r *http.Request) {
	entryId, ok := parseUUIDPathValue(w, r, "entryId")
	if !ok {
		return
	}

	related, err := api.ListRelatedEntriesUseCase.Query(r.Context(), entryId)
	if err != nil {
		api.Logger.Printf("Error listing related entries: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := ListRelatedEntriesResp{Items: []RelatedEntry{}}
	for _, rel := range related {
		resp.Items = append(resp.Items, toRelatedEntry(rel))
	}

	respondJSON(w, http.StatusOK, resp)
}

func parsePagination(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	page := defaultPage
	pageSize := defaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadParam(w, "page", raw)
			return 0, 0, false
		}
		page = parsed
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadParam(w, "page_size", raw)
			return 0, 0, false
		}
		pageSize = parsed
	}
	return page, pageSize, true
}

func parseUUIDPathValue(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		respondBadParam(w, name, r.PathValue(name))
		return uuid.Nil, false
	}
	return id, true
}

func respondBadParam(w http.ResponseWriter, name, value string) {
	errResp := ErrorResp{}
	errResp.Error.Code = BADREQUEST
	errResp.Error.Message = fmt.Sprintf("invalid %s: %q", name, value)
	respondError(w, errResp)
}
