package rest

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/flowly-io/flowly/logger"
	"github.com/flowly-io/flowly/model"
)

func (s *Server) suggestEnabled(w http.ResponseWriter) bool {
	if s.suggestServices == nil {
		respondWithError(w, http.StatusServiceUnavailable, "suggestion services are not configured")
		return false
	}
	return true
}

func (s *Server) HandleGenerateWorkflow(w http.ResponseWriter, r *http.Request) {
	if !s.suggestEnabled(w) {
		return
	}
	var req model.GenerateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()
	if req.Description == "" || len(req.Endpoints) == 0 {
		respondWithError(w, http.StatusBadRequest, "description and endpoints are required")
		return
	}
	resp, err := s.suggestServices.Generator.GenerateFromNL(r.Context(), req)
	if err != nil {
		logger.Error("error generating workflow", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to generate workflow")
		return
	}
	respondWithData(w, http.StatusOK, resp)
}

func (s *Server) HandleSuggestFlows(w http.ResponseWriter, r *http.Request) {
	if !s.suggestEnabled(w) {
		return
	}
	var req model.SuggestFlowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()
	if len(req.Endpoints) == 0 {
		respondWithError(w, http.StatusBadRequest, "endpoints are required")
		return
	}
	resp, err := s.suggestServices.Suggester.SuggestFlows(r.Context(), req)
	if err != nil {
		logger.Error("error suggesting flows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to suggest flows")
		return
	}
	respondWithData(w, http.StatusOK, resp)
}

func (s *Server) HandleLearnPattern(w http.ResponseWriter, r *http.Request) {
	if !s.suggestEnabled(w) {
		return
	}
	var req model.LearnPatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()
	if len(req.ReferenceWorkflow.Steps) == 0 {
		respondWithError(w, http.StatusBadRequest, "referenceWorkflow with steps is required")
		return
	}
	resp, err := s.suggestServices.Learner.Learn(r.Context(), req)
	if err != nil {
		logger.Error("error learning pattern", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to learn pattern")
		return
	}
	respondWithData(w, http.StatusOK, resp)
}

func (s *Server) HandleAutoBuild(w http.ResponseWriter, r *http.Request) {
	if !s.suggestEnabled(w) {
		return
	}
	var req model.AutoBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()
	if len(req.SuggestedFlows) == 0 || len(req.Endpoints) == 0 {
		respondWithError(w, http.StatusBadRequest, "suggestedFlows and endpoints are required")
		return
	}
	resp, err := s.suggestServices.Builder.Build(r.Context(), req)
	if err != nil {
		logger.Error("error auto-building workflows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to auto-build workflows")
		return
	}
	respondWithData(w, http.StatusOK, resp)
}
