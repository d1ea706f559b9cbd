package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/infrastructure/config"
	"github.com/preload/backend/internal/infrastructure/logger"
	"github.com/preload/backend/internal/interfaces/http/handler"
	"github.com/preload/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one resource before mounting them
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers are the HTTP handlers mounted by New
type Handlers struct {
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Provider       *handler.ProviderHandler
	Society        *handler.SocietyHandler
	Document       *handler.DocumentHandler
	Reconciliation *handler.ReconciliationHandler
	System         *handler.SystemHandler
}

// Config carries what the middleware chain needs
type Config struct {
	HTTP    config.HTTPConfig
	JWT     middleware.JWTMiddlewareConfig
	Tracing middleware.TracingConfig
	Meter   metric.Meter
	Logger  *zap.Logger
	// Idempotency dedupes document submissions; nil disables it
	Idempotency middleware.IdempotencyStore
	// Profiling adds pprof labels to requests for the Pyroscope agent
	Profiling bool
	// Swagger gates the API documentation under /swagger/
	Swagger middleware.SwaggerConfig
}

// Engine is the configured gin engine. Close stops the rate limiters.
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close releases background resources held by the middleware
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}

// authRequests is the login/refresh budget per IP and rate window
const authRequests = 10

// New builds the engine with the full middleware chain and the API routes
func New(cfg Config, h Handlers) (*Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	e := &Engine{Engine: engine}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	// the documentation routes authenticate on their own when configured to
	jwtCfg := cfg.JWT
	jwtCfg.SkipPathPrefixes = append(append([]string{}, cfg.JWT.SkipPathPrefixes...), middleware.SwaggerPathPrefix)

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.TracingWithConfig(cfg.Tracing),
		middleware.CORSWithConfig(cors),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.WriteTimeout),
		middleware.HTTPMetrics(cfg.Meter),
		middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		middleware.SpanEnricher(),
		middleware.Profiling(cfg.Profiling),
	)

	var authLimit gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		general := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		auth := middleware.NewRateLimiter(authRequests, cfg.HTTP.RateLimitWindow)
		e.limiters = append(e.limiters, general, auth)
		engine.Use(middleware.RateLimit(general))
		authLimit = middleware.AuthRateLimit(auth)
	}

	engine.GET("/health", h.System.Live)
	engine.GET("/health/ready", h.System.Ready)
	engine.GET(middleware.SwaggerPathPrefix+"*any",
		middleware.SwaggerProtection(cfg.Swagger, middleware.JWTAuthMiddlewareWithConfig(cfg.JWT)),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine)
	once := middleware.Idempotency(cfg.Idempotency, cfg.HTTP.IdempotencyTTL)
	for _, g := range apiGroups(h, authLimit, once) {
		r.Register(g)
	}
	r.Setup()
	return e, nil
}

func apiGroups(h Handlers, authLimit, once gin.HandlerFunc) []*DomainGroup {
	admin := middleware.RequireRoles(identity.RoleAdministrator)
	staff := middleware.RequireRoles(identity.RoleAdministrator, identity.RoleReadOnly, identity.RoleSociety)
	auditors := middleware.RequireRoles(identity.RoleAdministrator, identity.RoleReadOnly)

	login := []gin.HandlerFunc{h.Auth.Login}
	refresh := []gin.HandlerFunc{h.Auth.RefreshToken}
	if authLimit != nil {
		login = append([]gin.HandlerFunc{authLimit}, login...)
		refresh = append([]gin.HandlerFunc{authLimit}, refresh...)
	}
	authGroup := NewDomainGroup("auth", "/auth").
		POST("/login", login...).
		POST("/refresh", refresh...).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser)

	users := NewDomainGroup("users", "/users").Use(admin).
		POST("", h.User.Create).
		GET("", h.User.List).
		GET("/:id", h.User.GetByID).
		POST("/:id/deactivate", h.User.Deactivate)

	providers := NewDomainGroup("providers", "/providers").
		GET("", staff, h.Provider.List).
		GET("/:id", staff, h.Provider.GetByID).
		POST("", admin, h.Provider.Create).
		PUT("/:id", admin, h.Provider.Update).
		POST("/:id/activate", admin, h.Provider.Activate).
		POST("/:id/deactivate", admin, h.Provider.Deactivate)

	societies := NewDomainGroup("societies", "/societies").
		GET("/mine", h.Society.Mine).
		GET("", auditors, h.Society.List).
		GET("/external/:external_id", auditors, h.Society.GetByExternalID).
		GET("/:id", auditors, h.Society.GetByID).
		POST("", admin, h.Society.Create).
		PUT("/:id", admin, h.Society.Rename).
		POST("/:id/users", admin, h.Society.AssignUser).
		DELETE("/:id/users/:user_id", admin, h.Society.UnassignUser)

	documents := NewDomainGroup("documents", "/documents").
		POST("", once, h.Document.Create).
		GET("", h.Document.List).
		GET("/export", h.Document.Export).
		GET("/:id", h.Document.GetByID).
		GET("/:id/history", h.Document.History).
		POST("/:id/attachment", once, h.Document.UploadAttachment).
		GET("/:id/attachment", h.Document.DownloadURL).
		POST("/:id/actions/:action", h.Document.Transition)

	documentTypes := NewDomainGroup("document-types", "/document-types").
		GET("", h.Document.ListTypes).
		GET("/:id", h.Document.GetType)

	reconciliations := NewDomainGroup("reconciliations", "/reconciliations").
		GET("", h.Reconciliation.Reconcile).
		GET("/export", h.Reconciliation.Export)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{authGroup, users, providers, societies, documents, documentTypes, reconciliations, system}
}
