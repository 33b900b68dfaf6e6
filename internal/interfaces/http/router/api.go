package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/domain/identity"
	"github.com/mediaassoc/backend/internal/interfaces/http/handler"
	"github.com/mediaassoc/backend/internal/interfaces/http/middleware"
)

// ContentRoutes is a content type that mounts its own public and admin routes
type ContentRoutes interface {
	RegisterPublic(rg *gin.RouterGroup)
	RegisterAdmin(rg *gin.RouterGroup)
}

// ContentMount pairs a content type with its path segment, e.g. "posts"
type ContentMount struct {
	Path   string
	Routes ContentRoutes
}

// Handlers are the HTTP handlers exposed by the API
type Handlers struct {
	Auth         *handler.AuthHandler
	Members      *handler.MemberHandler
	Renewals     *handler.RenewalHandler
	Ledger       *handler.LedgerHandler
	ArchivalJobs *handler.ArchivalJobHandler
	Uploads      *handler.UploadHandler
	System       *handler.SystemHandler
	Content      []ContentMount
}

// Guards are the middleware that protect parts of the API.
// Login and Submit may be nil to leave those routes unthrottled.
// Profile may be nil when profiling is off.
type Guards struct {
	Session gin.HandlerFunc // validates the admin session
	Login   gin.HandlerFunc // throttles login attempts
	Submit  gin.HandlerFunc // throttles public form submissions
	Profile gin.HandlerFunc // labels admin profiles with the caller's role
}

// RegisterAPI wires every API route onto r. Health checks live on the bare
// engine so load balancers never pass through the API middleware.
func RegisterAPI(engine *gin.Engine, r *Router, h Handlers, g Guards) {
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	system := NewGroup("/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	authRoutes := NewGroup("/auth").POST("/login", g.Login, h.Auth.Login)
	authRoutes.Group("", g.Session).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser).
		PUT("/password", h.Auth.ChangePassword)

	public := NewGroup("").
		POST("/members", g.Submit, h.Members.Submit).
		POST("/renewals", g.Submit, h.Renewals.Submit)
	for _, m := range h.Content {
		public.Group("/" + m.Path).Mount(m.Routes.RegisterPublic)
	}

	admin := NewGroup("/admin", g.Session, g.Profile)

	// membership records hold personal data and stay with full admins
	admin.Group("", middleware.RequireRole(string(identity.RoleAdmin))).
		GET("/members", h.Members.List).
		GET("/members/:id", h.Members.GetByID).
		PATCH("/members/:id/status", h.Members.UpdateStatus).
		DELETE("/members/:id", h.Members.Delete).
		GET("/renewals", h.Renewals.List).
		GET("/renewals/:id", h.Renewals.GetByID).
		PUT("/renewals/:id", h.Renewals.Update).
		DELETE("/renewals/:id", h.Renewals.Delete).
		GET("/ledger", h.Ledger.ListByYear).
		DELETE("/ledger", h.Ledger.DeleteByYear).
		GET("/ledger/years", h.Ledger.Years).
		GET("/ledger/:id", h.Ledger.GetByID).
		DELETE("/ledger/:id", h.Ledger.Delete).
		POST("/ledger/import", h.Ledger.BulkImport).
		POST("/ledger/import/csv", h.Ledger.ImportCSV).
		GET("/archival-jobs", h.ArchivalJobs.List).
		POST("/archival-jobs/:id/retry", h.ArchivalJobs.Retry)

	site := admin.Group("", middleware.RequireRole(string(identity.RoleAdmin), string(identity.RoleEditor))).
		POST("/uploads", h.Uploads.Upload).
		DELETE("/uploads/*key", h.Uploads.Delete)
	for _, m := range h.Content {
		site.Group("/" + m.Path).Mount(m.Routes.RegisterAdmin)
	}

	r.Mount(system, authRoutes, public, admin).Setup()
}
