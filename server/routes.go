package server

// Route patterns served by the dashboard surface.
const (
	loginRoute = "/login"

	sessionRoute = "/session"

	documentsRoute        = "/api/documents"
	documentRoute         = "/api/documents/{id}"
	documentDownloadRoute = "/api/documents/{id}/download"
	documentUploadRoute   = "/api/documents/upload"

	dashboardStatsRoute    = "/api/dashboard/stats"
	dashboardActivityRoute = "/api/dashboard/recent-activity"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+sessionRoute, s.SessionLoginHandler())
	s.RegisterRouteFunc("GET "+sessionRoute, s.RequireSession()(s.SessionViewHandler()))
	s.RegisterRouteFunc("DELETE "+sessionRoute, s.SessionSignOutHandler())

	s.RegisterRouteFunc("GET "+documentsRoute, s.RequireSession()(s.DocumentsListHandler()))
	s.RegisterRouteFunc("POST "+documentsRoute, s.RequireSession()(s.DocumentCreateHandler()))
	s.RegisterRouteFunc("PUT "+documentRoute, s.RequireSession()(s.DocumentReplaceHandler()))
	s.RegisterRouteFunc("DELETE "+documentRoute, s.RequireSession()(s.DocumentDeleteHandler()))
	s.RegisterRouteFunc("GET "+documentDownloadRoute, s.RequireSession()(s.DocumentDownloadHandler()))
	s.RegisterRouteFunc("POST "+documentUploadRoute, s.RequireSession()(s.DocumentUploadHandler()))

	s.RegisterRouteFunc("GET "+dashboardStatsRoute, s.RequireSession()(s.DashboardStatsHandler()))
	s.RegisterRouteFunc("GET "+dashboardActivityRoute, s.RequireSession()(s.DashboardActivityHandler()))
}
