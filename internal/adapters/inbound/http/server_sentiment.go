package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nickspeelman/reflect/internal/usecases"
)

func (api ReflectServer) InferSentiment(w http.ResponseWriter, r *http.Request) {
	var req InferSentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := ErrorResp{}
		errResp.Error.Code = BADREQUEST
		errResp.Error.Message = fmt.Sprintf("invalid request body: %v", err)

		respondError(w, errResp)
		return
	}

	result, err := api.InferSentimentUseCase.Execute(r.Context(), req.Text, usecases.SentimentPath(req.Path))
	if err != nil {
		api.Logger.Printf("Error inferring sentiment: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusOK, result)
}
