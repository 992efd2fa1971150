package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signetdash/signet/apiclient"
	"github.com/signetdash/signet/documents"
)

// DocumentsListHandler proxies the documents list through the authorized
// client, answering in the canonical envelope shape.
func (s *Server) DocumentsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := s.documents.List(r.Context())
		if err != nil {
			s.writeBackendFailure(w, err, "listing documents failed")
			return
		}
		s.writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: docs})
	}
}

// DocumentCreateHandler registers a new document.
func (s *Server) DocumentCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc documents.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			s.writeJSON(w, http.StatusBadRequest, apiResponse{Message: "malformed request body"})
			return
		}
		created, err := s.documents.Create(r.Context(), doc)
		if err != nil {
			s.writeBackendFailure(w, err, "creating document failed")
			return
		}
		s.writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: created})
	}
}

// DocumentReplaceHandler overwrites a document.
func (s *Server) DocumentReplaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc documents.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			s.writeJSON(w, http.StatusBadRequest, apiResponse{Message: "malformed request body"})
			return
		}
		replaced, err := s.documents.Replace(r.Context(), r.PathValue("id"), doc)
		if err != nil {
			s.writeBackendFailure(w, err, "replacing document failed")
			return
		}
		s.writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: replaced})
	}
}

// DocumentDeleteHandler removes a document.
func (s *Server) DocumentDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.documents.Delete(r.Context(), r.PathValue("id")); err != nil {
			s.writeBackendFailure(w, err, "deleting document failed")
			return
		}
		s.writeJSON(w, http.StatusOK, apiResponse{Success: true})
	}
}

// DocumentDownloadHandler streams a document's raw file content.
func (s *Server) DocumentDownloadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := s.documents.Download(r.Context(), r.PathValue("id"))
		if err != nil {
			s.writeBackendFailure(w, err, "downloading document failed")
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(content); err != nil {
			s.log.Error().Err(err).Msg("writing download failed")
		}
	}
}

// DocumentUploadHandler forwards an uploaded file plus its form fields to
// the backend as one multipart request.
func (s *Server) DocumentUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, apiResponse{Message: "missing file field"})
			return
		}
		defer file.Close()

		metadata := map[string]string{}
		if r.MultipartForm != nil {
			for name, values := range r.MultipartForm.Value {
				if len(values) > 0 {
					metadata[name] = values[0]
				}
			}
		}

		uploaded, err := s.documents.Upload(r.Context(), header.Filename, file, metadata)
		if err != nil {
			s.writeBackendFailure(w, err, "uploading document failed")
			return
		}
		s.writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: uploaded})
	}
}

// DashboardStatsHandler proxies the dashboard headline numbers.
func (s *Server) DashboardStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.dashboard.Stats(r.Context())
		if err != nil {
			s.writeBackendFailure(w, err, "fetching stats failed")
			return
		}
		s.writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: stats})
	}
}

// DashboardActivityHandler proxies the recent-activity feed.
func (s *Server) DashboardActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed, err := s.dashboard.RecentActivity(r.Context())
		if err != nil {
			s.writeBackendFailure(w, err, "fetching activity failed")
			return
		}
		s.writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: feed})
	}
}

// writeBackendFailure answers for both backend rejections and transport
// failures, keeping the two categories distinct for callers. A rejection the
// backend answered with a client-level status is forwarded with the
// backend's own message; everything else, including transport failures (the
// retryable category), maps to 502.
func (s *Server) writeBackendFailure(w http.ResponseWriter, err error, message string) {
	s.log.Error().Err(err).Msg(message)

	var backendErr *apiclient.BackendError
	if errors.As(err, &backendErr) && backendErr.StatusCode >= 400 && backendErr.StatusCode < 500 {
		s.writeJSON(w, backendErr.StatusCode, apiResponse{Message: backendErr.Message})
		return
	}

	s.writeJSON(w, http.StatusBadGateway, apiResponse{Message: message})
}
