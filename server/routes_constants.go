package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin          = "/api/auth/login"
	RouteAuthSignup         = "/api/auth/signup"
	RouteAuthForgotPassword = "/api/auth/forgot-password"
	RouteAuthThirdParty     = "/api/auth/third-party-auth"
	RouteAuthLogout         = "/api/auth/logout"

	// Session Routes
	RouteToken        = "/api/token"
	RouteTokenRefresh = "/api/token/refresh"

	// Project Routes
	RouteProjects    = "/api/projects"
	RouteProjectInfo = "/api/projects/{projectId}/info"
	RouteProjectPage = "/api/projects/{projectId}/page"

	// Asset Routes
	RouteAssets = "/api/assets"

	// System Routes
	RouteAPIPreflight = "/api/"
	RouteHealth       = "/healthz"
	RouteMetrics      = "/metrics"
)

const (
	contentTypeJSON   = "application/json"
	sessionCookieName = "token"
	pathProjectID     = "projectId"
)
