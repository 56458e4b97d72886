package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("POST /webhook", ChainMiddleware(s.WebhookHandler(), s.WebhookMiddleware(s.RequireChatAuth())...))
	s.RegisterRouteFunc("GET /healthz", s.HealthHandler())
}

// HealthHandler reports process liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
