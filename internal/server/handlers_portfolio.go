package server

import (
	"net/http"
	"strconv"

	"github.com/bi-al1/stock-dashboard/internal/interfaces"
)

func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	doc, err := s.app.PortfolioService.GetPortfolio(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePortfolioBuy(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.BuyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	trade, err := s.app.PortfolioService.Buy(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "bought",
		"trade":  trade,
	})
}

func (s *Server) handlePortfolioSell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.SellRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	trade, err := s.app.PortfolioService.Sell(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "sold",
		"trade":  trade,
	})
}

func (s *Server) handlePortfolioReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := s.app.PortfolioService.Reset(r.Context()); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"status": "reset",
	})
}

func (s *Server) handlePortfolioDeleteHolding(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	code := PathParam(r, "/api/portfolio/delete/", "")
	if code == "" {
		WriteError(w, http.StatusBadRequest, "Stock code is required")
		return
	}

	deleted, err := s.app.PortfolioService.DeleteHolding(r.Context(), code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"status": "deleted",
		"code":   deleted,
	})
}

func (s *Server) handlePortfolioDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	raw := PathParam(r, "/api/portfolio/trade/", "")
	index, err := strconv.Atoi(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Trade index must be an integer")
		return
	}

	trade, err := s.app.PortfolioService.DeleteTrade(r.Context(), index)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"status":  "deleted",
		"deleted": trade,
	})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	report, err := s.app.HealthService.CheckHoldings(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}
