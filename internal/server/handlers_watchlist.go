package server

import (
	"net/http"

	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
)

func (s *Server) routeWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleWatchlistGet(w, r)
	case http.MethodPost:
		s.handleWatchlistAdd(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleWatchlistGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.app.WatchlistService.GetWatchlist(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var req interfaces.WatchlistAddRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	doc, err := s.app.WatchlistService.AddEntry(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "added",
		"count":  len(doc.Watchlist),
	})
}

func (s *Server) handleWatchlistDelete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	code := PathParam(r, "/api/watchlist/", "")
	if code == "" {
		WriteError(w, http.StatusBadRequest, "Stock code is required")
		return
	}

	remaining, err := s.app.WatchlistService.RemoveEntry(r.Context(), code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"status": "deleted",
		"count":  remaining,
	})
}

func (s *Server) handleWatchlistStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Code   string `json:"code"`
		Status string `json:"status"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.WatchlistService.SetStatus(r.Context(), req.Code, models.WatchStatus(req.Status)); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"code":   req.Code,
		"status": req.Status,
	})
}

func (s *Server) handleWatchlistUpdatePER(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	result, err := s.app.WatchlistService.RefreshPER(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
