package request

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/apperror"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPageNumber keeps (number-1)*size within an int32 offset.
	MaxPageNumber = math.MaxInt32 / MaxPageSize
)

// Page holds the page[number] and page[size] query parameters.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// pageQuery binds the JSON:API page parameters. The max values mirror
// MaxPageNumber and MaxPageSize.
type pageQuery struct {
	Number *int `form:"page[number]" binding:"omitempty,min=1,max=21474836"`
	Size   *int `form:"page[size]" binding:"omitempty,min=1,max=100"`
}

// ParsePage reads the JSON:API page query parameters, applying defaults.
func ParsePage(c *gin.Context) (Page, error) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && invalid[0].StructField() == "Size" {
			return Page{}, pageError(err, "size", "page size must be between 1 and "+strconv.Itoa(MaxPageSize))
		}
		if errors.As(err, &invalid) {
			return Page{}, pageError(err, "number", "page number must be between 1 and "+strconv.Itoa(MaxPageNumber))
		}
		return Page{}, pageError(err, "", "page parameters must be integers")
	}

	page := Page{Number: 1, Size: DefaultPageSize}
	if q.Number != nil {
		page.Number = *q.Number
	}
	if q.Size != nil {
		page.Size = *q.Size
	}
	return page, nil
}

func pageError(err error, member, message string) error {
	pointer := "page"
	if member != "" {
		pointer += "[" + member + "]"
	}
	return &apperror.AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Pointer: pointer,
		Err:     err,
	}
}
