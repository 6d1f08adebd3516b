package routing

import "github.com/gin-gonic/gin"

const (
	resourceTypeKey = "jsonapi.resourceType"
	parameterKey    = "jsonapi.parameter"
	relationshipKey = "jsonapi.relationship"
)

// ResourceType returns the resource type of the matched route.
func ResourceType(c *gin.Context) string {
	return c.GetString(resourceTypeKey)
}

// ResourceID returns the resource id from the route parameter, or empty
// string on collection routes.
func ResourceID(c *gin.Context) string {
	if param := c.GetString(parameterKey); param != "" {
		return c.Param(param)
	}
	return ""
}

// RelationshipName returns the relationship field of the matched route.
func RelationshipName(c *gin.Context) string {
	return c.GetString(relationshipKey)
}

func routeContext(resourceType, parameter, relationship string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(resourceTypeKey, resourceType)
		if parameter != "" {
			c.Set(parameterKey, parameter)
		}
		if relationship != "" {
			c.Set(relationshipKey, relationship)
		}
		c.Next()
	}
}
