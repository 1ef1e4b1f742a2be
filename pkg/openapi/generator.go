package openapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

type RouteDocs struct {
	Summary     string
	Description string
	Tags        []string
	Query       []Parameter // Query string parameters
	Responses   map[int]ResponseDoc
}

type ResponseDoc struct {
	Description string
	Model       interface{} // Struct for response schema
	ContentType string      // Defaults to application/json
	Headers     map[string]string
}

// RouteLister is satisfied by *gin.Engine
type RouteLister interface {
	Routes() gin.RoutesInfo
}

type Generator struct {
	routes    RouteLister
	info      Info
	servers   []Server
	tags      []Tag
	routeDocs map[string]RouteDocs
}

func NewGenerator(routes RouteLister, info Info, servers []Server, tags []Tag) *Generator {
	return &Generator{
		routes:    routes,
		info:      info,
		servers:   servers,
		tags:      tags,
		routeDocs: make(map[string]RouteDocs),
	}
}

// RegisterDocs registers documentation for a specific route
// method: GET, POST, etc.
// path: /repositories/:name/tags/:tag
func (g *Generator) RegisterDocs(method, path string, docs RouteDocs) {
	g.routeDocs[method+" "+path] = docs
}

// Generate builds the document from the GET and HEAD routes registered on
// the engine. Routes without registered docs are listed with a default response.
func (g *Generator) Generate() *OpenAPI {
	spec := &OpenAPI{
		OpenAPI: "3.0.3",
		Info:    g.info,
		Servers: g.servers,
		Tags:    g.tags,
		Paths:   make(map[string]*PathItem),
	}

	routes := g.routes.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	for _, route := range routes {
		if route.Method != http.MethodGet && route.Method != http.MethodHead {
			continue
		}

		openAPIPath := convertPath(route.Path)
		pathItem, ok := spec.Paths[openAPIPath]
		if !ok {
			pathItem = &PathItem{}
			spec.Paths[openAPIPath] = pathItem
		}

		operation := &Operation{
			Summary:     route.Handler,
			OperationID: getOperationID(route.Handler),
			Parameters:  extractPathParams(route.Path),
			Responses:   make(map[string]Response),
		}

		if docs, ok := g.routeDocs[route.Method+" "+route.Path]; ok {
			applyDocs(operation, docs)
		}

		if len(operation.Responses) == 0 {
			operation.Responses["200"] = Response{Description: "Successful response"}
		}

		if route.Method == http.MethodHead {
			pathItem.Head = operation
		} else {
			pathItem.Get = operation
		}
	}

	return spec
}

func applyDocs(operation *Operation, docs RouteDocs) {
	if docs.Summary != "" {
		operation.Summary = docs.Summary
	}
	operation.Description = docs.Description
	operation.Tags = docs.Tags

	for _, q := range docs.Query {
		q.In = "query"
		if q.Schema == nil {
			q.Schema = &Schema{Type: "string"}
		}
		operation.Parameters = append(operation.Parameters, q)
	}

	for status, respDoc := range docs.Responses {
		resp := Response{Description: respDoc.Description}
		for name, desc := range respDoc.Headers {
			if resp.Headers == nil {
				resp.Headers = make(map[string]Header, len(respDoc.Headers))
			}
			resp.Headers[name] = Header{Description: desc, Schema: &Schema{Type: "string"}}
		}
		if respDoc.Model != nil {
			contentType := respDoc.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			resp.Content = map[string]MediaType{
				contentType: {Schema: GenerateSchema(respDoc.Model)},
			}
		}
		operation.Responses[strconv.Itoa(status)] = resp
	}
}

// JSON renders the document as indented JSON
func (g *Generator) JSON() ([]byte, error) {
	return json.MarshalIndent(g.Generate(), "", "  ")
}

// YAML renders the document as YAML
func (g *Generator) YAML() ([]byte, error) {
	var sb strings.Builder
	encoder := yaml.NewEncoder(&sb)
	encoder.SetIndent(2)
	if err := encoder.Encode(g.Generate()); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func convertPath(ginPath string) string {
	parts := strings.Split(ginPath, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

func extractPathParams(ginPath string) []Parameter {
	var params []Parameter
	for _, part := range strings.Split(ginPath, "/") {
		if !strings.HasPrefix(part, ":") && !strings.HasPrefix(part, "*") {
			continue
		}
		params = append(params, Parameter{
			Name:     part[1:],
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: "string"},
		})
	}
	return params
}

func getOperationID(handlerName string) string {
	// handlerName is usually "github.com/bravo68web/gitapi/internal/transport/http/handler.(*RepoHandler).GetTag-fm"
	// which becomes "handler_RepoHandler_GetTag"
	parts := strings.Split(handlerName, "/")
	lastPart := parts[len(parts)-1]

	if idx := strings.Index(lastPart, "-fm"); idx != -1 {
		lastPart = lastPart[:idx]
	}

	replacer := strings.NewReplacer("(", "", ")", "", "*", "", ".", "_")
	return replacer.Replace(lastPart)
}
