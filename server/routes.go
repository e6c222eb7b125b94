package server

import "net/http"

func (s *Server) initRoutes() {
	// AUTH
	s.api(http.MethodPost, RouteAuthLogin, s.LoginHandler())
	s.api(http.MethodPost, RouteAuthSignup, s.SignupHandler())
	s.api(http.MethodPost, RouteAuthForgotPassword, s.ForgotPasswordHandler())
	s.api(http.MethodPost, RouteAuthThirdParty, s.ThirdPartyAuthHandler())
	s.api(http.MethodPost, RouteAuthLogout, s.LogoutHandler())

	// SESSION
	s.api(http.MethodGet, RouteToken, s.SessionReadHandler())
	s.api(http.MethodPost, RouteTokenRefresh, s.SessionRefreshHandler())

	// PROJECTS
	s.api(http.MethodPost, RouteProjects, s.CreateProjectHandler(), s.RequireSession())
	s.api(http.MethodGet, RouteProjects, s.ListProjectsHandler(), s.RequireSession())
	s.api(http.MethodGet, RouteProjectInfo, s.GetProjectInfoHandler(), s.RequireSession())
	s.api(http.MethodPatch, RouteProjectInfo, s.RenameProjectHandler(), s.RequireSession())
	s.api(http.MethodDelete, RouteProjectInfo, s.DeleteProjectHandler(), s.RequireSession())
	s.api(http.MethodGet, RouteProjectPage, s.GetProjectPageHandler(), s.RequireSession())
	s.api(http.MethodPut, RouteProjectPage, s.SaveProjectPageHandler(), s.RequireSession())

	// ASSETS
	s.api(http.MethodPost, RouteAssets, s.InsertAssetsHandler(), s.RequireSession())
	s.api(http.MethodGet, RouteAssets, s.GetAssetHandler(), s.RequireSession())

	// SYSTEM
	s.api(http.MethodOptions, RouteAPIPreflight, s.PreflightHandler())
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.MetricsHandler())
}

// api registers a JSON route behind the shared API middleware.
func (s *Server) api(method, path string, handler http.HandlerFunc, mw ...middleware) {
	pattern := method + " " + path
	s.RegisterRouteHandler(pattern, ChainMiddleware(handler, s.APIMiddleware(pattern, mw...)...))
}
