package server

import (
	"net/http"

	"github.com/bi-al1/stock-dashboard/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Watchlist
	mux.HandleFunc("/api/watchlist/status", s.handleWatchlistStatus)
	mux.HandleFunc("/api/watchlist/update-per", s.handleWatchlistUpdatePER)
	mux.HandleFunc("/api/watchlist/", s.handleWatchlistDelete) // DELETE {code}
	mux.HandleFunc("/api/watchlist", s.routeWatchlist)

	// Portfolio
	mux.HandleFunc("/api/portfolio/buy", s.handlePortfolioBuy)
	mux.HandleFunc("/api/portfolio/sell", s.handlePortfolioSell)
	mux.HandleFunc("/api/portfolio/reset", s.handlePortfolioReset)
	mux.HandleFunc("/api/portfolio/delete/", s.handlePortfolioDeleteHolding) // DELETE {code}
	mux.HandleFunc("/api/portfolio/trade/", s.handlePortfolioDeleteTrade)    // DELETE {index}
	mux.HandleFunc("/api/portfolio", s.handlePortfolioGet)

	// Health alerts
	mux.HandleFunc("/api/healthcheck", s.handleHealthcheck)

	// Stock snapshots and analysis documents
	mux.HandleFunc("/api/stocks/", s.routeStocks) // {code} and {code}/data
	mux.HandleFunc("/api/manifest", s.handleManifest)
	mux.HandleFunc("/api/report/", s.handleReportDelete) // DELETE {code}

	// Static frontend
	if dir := s.app.Config.Server.FrontendDir; dir != "" {
		mux.Handle("/", http.FileServer(http.Dir(dir)))
	} else {
		mux.HandleFunc("/", s.handleRoot)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"service": "kabu-server",
		"version": common.GetVersion(),
	})
}
