package http

import (
	"net/http"
)

func (api ReflectServer) GetDailyPrompt(w http.ResponseWriter, r *http.Request) {
	prompt := api.GetDailyPromptUseCase.Query(r.Context())
	respondJSON(w, http.StatusOK, DailyPromptResp{Prompt: prompt})
}
