package server

import (
	"net/http"
	"strings"
)

// routeStocks dispatches /api/stocks/{code} (live snapshot) and
// /api/stocks/{code}/data (stored analysis document).
func (s *Server) routeStocks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/stocks/")
	if strings.HasSuffix(rest, "/data") {
		s.handleStockData(w, r, strings.TrimSuffix(rest, "/data"))
		return
	}
	if rest == "" || strings.Contains(rest, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleStockSnapshot(w, r, rest)
}

func (s *Server) handleStockSnapshot(w http.ResponseWriter, r *http.Request, code string) {
	snapshot, err := s.app.HealthService.Snapshot(r.Context(), code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleStockData(w http.ResponseWriter, r *http.Request, code string) {
	raw, err := s.app.ReportService.GetStockDocument(r.Context(), code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	manifest, err := s.app.ReportService.GetManifest(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, manifest)
}

func (s *Server) handleReportDelete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	code := PathParam(r, "/api/report/", "")
	if code == "" {
		WriteError(w, http.StatusBadRequest, "Stock code is required")
		return
	}

	if err := s.app.ReportService.DeleteReport(r.Context(), code); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"status": "deleted",
		"code":   code,
	})
}
