package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/flowly-io/flowly/logger"
	"github.com/flowly-io/flowly/model"
)

func (s *Server) HandleRegisterEndpoints(w http.ResponseWriter, r *http.Request) {
	var endpoints []model.Endpoint
	if err := json.NewDecoder(r.Body).Decode(&endpoints); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid endpoint payload")
		return
	}
	defer r.Body.Close()
	for _, ep := range endpoints {
		if ep.Id == "" || ep.Method == "" || ep.Path == "" {
			respondWithError(w, http.StatusBadRequest, "endpoint requires id, method and path")
			return
		}
	}
	for _, ep := range endpoints {
		if err := s.metadataService.GetMetadataStorage().SaveEndpoint(ep); err != nil {
			logger.Error("error registering endpoint", zap.String("id", ep.Id), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "error registering endpoint")
			return
		}
	}
	respondWithData(w, http.StatusOK, map[string]any{"registered": len(endpoints)})
}

func (s *Server) HandleGetEndpoint(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	endpointId := vars["id"]
	ep, err := s.metadataService.GetMetadataStorage().GetEndpoint(endpointId)
	if err != nil {
		logger.Info("endpoint not found", zap.String("id", endpointId))
		respondWithError(w, http.StatusNotFound, "endpoint not found")
		return
	}
	respondWithData(w, http.StatusOK, ep)
}
