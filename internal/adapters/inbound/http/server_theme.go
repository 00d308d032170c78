package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func (api ReflectServer) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := api.ListThemesUseCase.Query(r.Context())
	if err != nil {
		api.Logger.Printf("Error listing themes: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := ListThemesResp{Items: []Theme{}}
	for _, t := range themes {
		resp.Items = append(resp.Items, toTheme(t))
	}

	respondJSON(w, http.StatusOK, resp)
}

func (api ReflectServer) RenameTheme(w http.ResponseWriter, r *http.Request) {
	themeId, ok := parseUUIDPathValue(w, r, "themeId")
	if !ok {
		return
	}

	var req RenameThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := ErrorResp{}
		errResp.Error.Code = BADREQUEST
		errResp.Error.Message = fmt.Sprintf("invalid request body: %v", err)

		respondError(w, errResp)
		return
	}

	if err := api.RenameThemeUseCase.Execute(r.Context(), themeId, req.Label); err != nil {
		api.Logger.Printf("Error renaming theme: %v", err)
		respondError(w, toError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
