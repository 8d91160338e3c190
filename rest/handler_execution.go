package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/flowly-io/flowly/logger"
	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/persistence"
)

func (s *Server) HandleStartExecution(w http.ResponseWriter, r *http.Request) {
	var runReq model.WorkflowRunRequest
	if err := json.NewDecoder(r.Body).Decode(&runReq); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid run payload")
		return
	}
	defer r.Body.Close()
	if runReq.WorkflowId == "" {
		respondWithError(w, http.StatusBadRequest, "workflowId is required")
		return
	}
	executionId, err := s.executorService.StartWorkflow(runReq.WorkflowId, runReq.Input, runReq.Parameters)
	if err != nil {
		logger.Error("error running workflow", zap.String("workflowId", runReq.WorkflowId), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "error running workflow")
		return
	}
	respondWithData(w, http.StatusOK, map[string]any{"executionId": executionId})
}

func (s *Server) HandleGetExecution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	executionId := vars["id"]
	state, err := s.executorService.GetExecution(executionId)
	if err != nil {
		if _, ok := err.(persistence.NotFoundError); ok {
			respondWithError(w, http.StatusNotFound, "execution not found")
			return
		}
		logger.Error("error getting execution", zap.String("id", executionId), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error getting execution")
		return
	}
	respondWithData(w, http.StatusOK, state)
}
