package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resource is a JSON:API resource object.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    any                     `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Links         *Links                  `json:"links,omitempty"`
}

// Identifier is a JSON:API resource identifier object.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is a JSON:API relationship object. Data holds the result of
// ToOne or ToMany, or nil when only links are rendered.
type Relationship struct {
	Data  any    `json:"data,omitempty"`
	Links *Links `json:"links,omitempty"`
}

// Links is a JSON:API links object.
type Links struct {
	Self    string `json:"self,omitempty"`
	Related string `json:"related,omitempty"`
}

// Document is the top-level JSON:API document of a success response.
type Document struct {
	Data  any            `json:"data"`
	Meta  map[string]any `json:"meta,omitempty"`
	Links *Links         `json:"links,omitempty"`
}

// Linker builds URLs from route names.
type Linker interface {
	URL(name string, params ...string) (string, error)
}

// Link returns the URL of the named route, or empty string when the route
// does not exist.
func Link(l Linker, name string, params ...string) string {
	if l == nil {
		return ""
	}
	u, err := l.URL(name, params...)
	if err != nil {
		return ""
	}
	return u
}

// ToOne builds to-one relationship data; an empty id renders as null.
func ToOne(resourceType, id string) any {
	if id == "" {
		return json.RawMessage("null")
	}
	return Identifier{Type: resourceType, ID: id}
}

// ToMany builds to-many relationship data. It never returns nil so the
// document carries an empty array.
func ToMany(resourceType string, ids []string) []Identifier {
	out := make([]Identifier, 0, len(ids))
	for _, id := range ids {
		out = append(out, Identifier{Type: resourceType, ID: id})
	}
	return out
}

// JSON writes a success document.
func JSON(c *gin.Context, status int, doc Document) {
	c.Header("Content-Type", ContentType)
	c.JSON(status, doc)
}

// Data writes a document whose primary data is data.
func Data(c *gin.Context, status int, data any) {
	JSON(c, status, Document{Data: data})
}

// Collection writes a paginated collection document. A nil slice renders
// as an empty array.
func Collection(c *gin.Context, items []Resource, page, pageSize, total int) {
	if items == nil {
		items = make([]Resource, 0)
	}
	JSON(c, http.StatusOK, Document{Data: items, Meta: PageMeta(page, pageSize, total)})
}

// PageMeta builds the page member of a collection's meta object.
func PageMeta(page, pageSize, total int) map[string]any {
	lastPage := 1
	if pageSize > 0 && total > 0 {
		lastPage = (total + pageSize - 1) / pageSize
	}
	return map[string]any{
		"page": map[string]int{
			"currentPage": page,
			"perPage":     pageSize,
			"total":       total,
			"lastPage":    lastPage,
		},
	}
}
