package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIVersion is the path segment every API route sits under
const APIVersion = "v1"

// Router collects route groups and mounts them under /api/<version> in one
// pass, so middleware given to Use never leaks onto routes outside the API.
type Router struct {
	engine *gin.Engine
	use    []gin.HandlerFunc
	groups []*Group
}

func NewRouter(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Use adds middleware for every API route
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.use = append(r.use, compact(middleware)...)
	return r
}

// Mount queues groups for Setup
func (r *Router) Mount(groups ...*Group) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

func (r *Router) BasePath() string {
	return "/api/" + APIVersion
}

// Setup registers the queued groups on the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.use...)
	for _, g := range r.groups {
		g.register(api)
	}
}

// Group is a path prefix with its guards. Routes, mounts and child groups
// are registered in the order they were declared.
type Group struct {
	prefix string
	guards []gin.HandlerFunc
	steps  []func(*gin.RouterGroup)
}

// NewGroup creates a group. Nil guards are dropped so optional middleware
// can be passed unconditionally.
func NewGroup(prefix string, guards ...gin.HandlerFunc) *Group {
	return &Group{prefix: prefix, guards: compact(guards)}
}

// Handle adds a route. Nil handlers are dropped, which lets an optional
// rate limiter sit in front of the real handler.
func (g *Group) Handle(method, path string, handlers ...gin.HandlerFunc) *Group {
	handlers = compact(handlers)
	g.steps = append(g.steps, func(rg *gin.RouterGroup) { rg.Handle(method, path, handlers...) })
	return g
}

func (g *Group) GET(path string, h ...gin.HandlerFunc) *Group { return g.Handle(http.MethodGet, path, h...) }
func (g *Group) POST(path string, h ...gin.HandlerFunc) *Group { return g.Handle(http.MethodPost, path, h...) }
func (g *Group) PUT(path string, h ...gin.HandlerFunc) *Group { return g.Handle(http.MethodPut, path, h...) }
func (g *Group) PATCH(path string, h ...gin.HandlerFunc) *Group { return g.Handle(http.MethodPatch, path, h...) }
func (g *Group) DELETE(path string, h ...gin.HandlerFunc) *Group { return g.Handle(http.MethodDelete, path, h...) }

// Mount hands the group's gin.RouterGroup to fn, for handlers that declare
// their own routes
func (g *Group) Mount(fn func(*gin.RouterGroup)) *Group {
	g.steps = append(g.steps, fn)
	return g
}

// Group adds a child group that inherits this group's guards
func (g *Group) Group(prefix string, guards ...gin.HandlerFunc) *Group {
	child := NewGroup(prefix, guards...)
	g.steps = append(g.steps, child.register)
	return child
}

func (g *Group) register(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.guards...)
	for _, step := range g.steps {
		step(rg)
	}
}

func compact(handlers []gin.HandlerFunc) []gin.HandlerFunc {
	out := handlers[:0:0]
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
