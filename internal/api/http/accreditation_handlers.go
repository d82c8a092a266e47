package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appAccreditation "github.com/accreditation-hub/accreditation-hub/internal/application/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
)

type documentRequest struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Content  string `json:"content"`
}

type createAccreditationRequest struct {
	UserID   string          `json:"user_id"`
	Type     string          `json:"accreditation_type"`
	Document documentRequest `json:"document"`
}

type updateAccreditationRequest struct {
	Outcome string `json:"outcome"`
}

type typeAndStatusResponse struct {
	Status string `json:"status"`
	Type   string `json:"accreditation_type"`
}

type historyRowResponse struct {
	Status         string `json:"status"`
	Type           string `json:"accreditation_type"`
	LastUpdateTime int64  `json:"last_update_time"`
}

func (s *Server) createAccreditation(w http.ResponseWriter, r *http.Request) {
	var req createAccreditationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	id, err := s.accreditationSvc.Create(r.Context(), req.UserID, req.Type, appAccreditation.DocumentInput{
		Name:        req.Document.Name,
		ContentType: req.Document.MimeType,
		Content:     req.Document.Content,
	})
	if err != nil {
		s.respondAccreditationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"accreditation_id": id.String()})
}

func (s *Server) updateAccreditation(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "accreditationId")
	var req updateAccreditationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.accreditationSvc.RequestTransition(r.Context(), rawID, req.Outcome); err != nil {
		s.respondAccreditationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"accreditation_id": rawID})
}

func (s *Server) getUserAccreditations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	recs, err := s.accreditationSvc.GetUserAccreditations(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	statuses := make(map[string]typeAndStatusResponse, len(recs))
	for _, rec := range recs {
		statuses[rec.AccreditationID.String()] = typeAndStatusResponse{
			Status: string(rec.Status),
			Type:   string(rec.Category),
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":                userID,
		"accreditation_statuses": statuses,
	})
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "accreditationId")
	items, err := s.accreditationSvc.GetHistory(r.Context(), rawID)
	if err != nil {
		s.respondAccreditationError(w, err)
		return
	}
	rows := make([]historyRowResponse, 0, len(items))
	for _, item := range items {
		rows = append(rows, historyRowResponse{
			Status:         string(item.Status),
			Type:           string(item.Category),
			LastUpdateTime: item.LastUpdateTime.UnixMilli(),
		})
	}
	respondJSON(w, http.StatusOK, rows)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "accreditationId")
	doc, err := s.accreditationSvc.GetDocument(r.Context(), rawID)
	if err != nil {
		s.respondAccreditationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": doc.DocumentID.String(),
		"name":        doc.Name,
		"mime_type":   doc.ContentType,
		"content":     doc.Content,
	})
}

// respondAccreditationError maps domain errors to HTTP statuses.
func (s *Server) respondAccreditationError(w http.ResponseWriter, err error) {
	var pendingErr *accreditation.PendingExistsError
	switch {
	case errors.As(err, &pendingErr):
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":                    "PENDING_EXISTS",
			"message":                  err.Error(),
			"pending_accreditation_id": pendingErr.ExistingID.String(),
		})
	case errors.Is(err, accreditation.ErrInvalidCategory),
		errors.Is(err, accreditation.ErrInvalidContentType),
		errors.Is(err, accreditation.ErrInvalidOutcome),
		errors.Is(err, accreditation.ErrInvalidID):
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	case errors.Is(err, accreditation.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, accreditation.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "ILLEGAL_TRANSITION", err.Error())
	case errors.Is(err, accreditation.ErrDispatchFailed):
		respondError(w, http.StatusServiceUnavailable, "DISPATCH_FAILED", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
