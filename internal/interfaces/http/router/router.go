package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// API collects resources mounted under /api/<version> behind a shared
// middleware chain
type API struct {
	version    string
	middleware []gin.HandlerFunc
	resources  []*Resource
}

func NewAPI(version string) *API {
	if version == "" {
		version = "v1"
	}
	return &API{version: version}
}

// Prefix is the path every resource is mounted below
func (a *API) Prefix() string {
	return "/api/" + a.version
}

func (a *API) Use(middleware ...gin.HandlerFunc) *API {
	a.middleware = append(a.middleware, middleware...)
	return a
}

// Add queues resources for Mount. Resources without routes are ignored.
func (a *API) Add(resources ...*Resource) *API {
	for _, res := range resources {
		if len(res.routes) > 0 {
			a.resources = append(a.resources, res)
		}
	}
	return a
}

// Mount registers every queued resource on engine
func (a *API) Mount(engine *gin.Engine) {
	api := engine.Group(a.Prefix(), a.middleware...)
	for _, res := range a.resources {
		group := api.Group(res.prefix)
		for _, rt := range res.routes {
			group.Handle(rt.method, rt.path, rt.handler)
		}
	}
}

// Resource is a set of routes sharing a path prefix
type Resource struct {
	prefix string
	routes []route
}

type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
}

func NewResource(prefix string) *Resource {
	return &Resource{prefix: prefix}
}

func (r *Resource) handle(method, path string, h gin.HandlerFunc) *Resource {
	r.routes = append(r.routes, route{method: method, path: path, handler: h})
	return r
}

func (r *Resource) GET(path string, h gin.HandlerFunc) *Resource {
	return r.handle(http.MethodGet, path, h)
}

func (r *Resource) POST(path string, h gin.HandlerFunc) *Resource {
	return r.handle(http.MethodPost, path, h)
}

func (r *Resource) PUT(path string, h gin.HandlerFunc) *Resource {
	return r.handle(http.MethodPut, path, h)
}
