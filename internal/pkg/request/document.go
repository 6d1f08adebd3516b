package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/apperror"
)

// Identifier is a JSON:API resource identifier in a request document.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship carries the raw data member of a relationship object.
type Relationship struct {
	Data json.RawMessage `json:"data"`
}

// ResourceObject is the primary data of a create or update document.
type ResourceObject[T any] struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    T                       `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships"`
}

type document[T any] struct {
	Data *ResourceObject[T] `json:"data"`
}

type identifiersDocument struct {
	Data json.RawMessage `json:"data"`
}

// BindResource decodes a create or update document for resourceType and
// validates the attributes against their binding tags. A type mismatch
// answers 409 as required for JSON:API servers, before any attribute error.
func BindResource[T any](c *gin.Context, resourceType string) (*ResourceObject[T], error) {
	var doc document[T]
	var invalid validator.ValidationErrors
	err := c.ShouldBindJSON(&doc)
	if err != nil && !errors.As(err, &invalid) {
		return nil, apperror.Wrap(err, http.StatusBadRequest, "request body is not a valid JSON:API document")
	}
	if doc.Data == nil {
		return nil, apperror.Invalid("/data", "the data member is required")
	}
	if doc.Data.Type == "" {
		return nil, apperror.Invalid("/data/type", "the type member is required")
	}
	if doc.Data.Type != resourceType {
		return nil, &apperror.AppError{
			Code:    http.StatusConflict,
			Message: "resource type " + doc.Data.Type + " is not supported by this endpoint",
			Pointer: "/data/type",
		}
	}
	if len(invalid) > 0 {
		return nil, attributeError[T](invalid[0])
	}
	return doc.Data, nil
}

// ToOne decodes a to-one relationship. A null linkage returns nil.
func (r Relationship) ToOne(resourceType string) (*Identifier, error) {
	return decodeToOne(r.Data, resourceType)
}

// ToMany decodes a to-many relationship.
func (r Relationship) ToMany(resourceType string) ([]Identifier, error) {
	return decodeToMany(r.Data, resourceType)
}

// BindIdentifiers decodes a relationship document whose data is an array of
// identifiers, as sent to update, attach and detach to-many relationships.
func BindIdentifiers(c *gin.Context, resourceType string) ([]Identifier, error) {
	var doc identifiersDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		return nil, apperror.Wrap(err, http.StatusBadRequest, "request body is not a valid JSON:API document")
	}
	return decodeToMany(doc.Data, resourceType)
}

// BindIdentifier decodes a relationship document whose data is a single
// identifier or null.
func BindIdentifier(c *gin.Context, resourceType string) (*Identifier, error) {
	var doc identifiersDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		return nil, apperror.Wrap(err, http.StatusBadRequest, "request body is not a valid JSON:API document")
	}
	return decodeToOne(doc.Data, resourceType)
}

func decodeToOne(raw json.RawMessage, resourceType string) (*Identifier, error) {
	if len(raw) == 0 {
		return nil, apperror.Invalid("/data", "the data member is required")
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var id Identifier
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, apperror.Invalid("/data", "expected a resource identifier")
	}
	if err := checkIdentifier(id, resourceType, "/data"); err != nil {
		return nil, err
	}
	return &id, nil
}

func decodeToMany(raw json.RawMessage, resourceType string) ([]Identifier, error) {
	if len(raw) == 0 {
		return nil, apperror.Invalid("/data", "the data member is required")
	}
	var ids []Identifier
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, apperror.Invalid("/data", "expected an array of resource identifiers")
	}
	if ids == nil {
		return nil, apperror.Invalid("/data", "expected an array of resource identifiers")
	}
	for i, id := range ids {
		if err := checkIdentifier(id, resourceType, "/data/"+strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func checkIdentifier(id Identifier, resourceType, pointer string) error {
	if id.Type != resourceType {
		return apperror.Invalid(pointer+"/type", "expected resource type "+resourceType)
	}
	if id.ID == "" {
		return apperror.Invalid(pointer+"/id", "the id member is required")
	}
	return nil
}
