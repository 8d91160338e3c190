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

func (s *Server) HandleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var wf model.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid workflow payload")
		return
	}
	defer r.Body.Close()
	saved, err := s.metadataService.SaveWorkflow(wf)
	if err != nil {
		logger.Error("error creating workflow", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithData(w, http.StatusOK, saved)
}

func (s *Server) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workflowId := vars["id"]
	wf, err := s.metadataService.GetMetadataStorage().GetWorkflow(workflowId)
	if err != nil {
		logger.Info("workflow does not exist", zap.String("id", workflowId))
		respondWithError(w, http.StatusNotFound, "workflow does not exist")
		return
	}
	respondWithData(w, http.StatusOK, wf)
}

func (s *Server) HandleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workflowId := vars["id"]
	if err := s.metadataService.DeleteWorkflow(workflowId); err != nil {
		if _, ok := err.(persistence.NotFoundError); ok {
			respondWithError(w, http.StatusNotFound, "workflow does not exist")
			return
		}
		logger.Error("error deleting workflow", zap.String("id", workflowId), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting workflow")
		return
	}
	respondWithData(w, http.StatusOK, map[string]any{"deleted": true})
}
