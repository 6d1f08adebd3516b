package routing

import "github.com/gin-gonic/gin"

// A controller handles the actions of a resource. It implements the
// interfaces of the actions it supports.
type (
	Indexer   interface{ Index(c *gin.Context) }
	Storer    interface{ Store(c *gin.Context) }
	Shower    interface{ Show(c *gin.Context) }
	Updater   interface{ Update(c *gin.Context) }
	Destroyer interface{ Destroy(c *gin.Context) }

	RelatedShower        interface{ ShowRelated(c *gin.Context) }
	RelationshipShower   interface{ ShowRelationship(c *gin.Context) }
	RelationshipUpdater  interface{ UpdateRelationship(c *gin.Context) }
	RelationshipAttacher interface{ AttachRelationship(c *gin.Context) }
	RelationshipDetacher interface{ DetachRelationship(c *gin.Context) }

	// ActionController exposes custom actions keyed by controller method name.
	ActionController interface {
		Actions() map[string]gin.HandlerFunc
	}
)

// Controllers maps controller names to controllers.
type Controllers struct {
	bound map[string]any
}

// NewControllers creates an empty controller table.
func NewControllers() *Controllers {
	return &Controllers{bound: make(map[string]any)}
}

// Bind registers controller under name, replacing any earlier binding.
func (c *Controllers) Bind(name string, controller any) *Controllers {
	c.bound[name] = controller
	return c
}

// Resolve returns the controller bound under name.
func (c *Controllers) Resolve(name string) (any, bool) {
	controller, ok := c.bound[name]
	return controller, ok
}

func resourceHandler(controller any, action string) (gin.HandlerFunc, bool) {
	switch action {
	case ActionIndex:
		if h, ok := controller.(Indexer); ok {
			return h.Index, true
		}
	case ActionStore:
		if h, ok := controller.(Storer); ok {
			return h.Store, true
		}
	case ActionShow:
		if h, ok := controller.(Shower); ok {
			return h.Show, true
		}
	case ActionUpdate:
		if h, ok := controller.(Updater); ok {
			return h.Update, true
		}
	case ActionDestroy:
		if h, ok := controller.(Destroyer); ok {
			return h.Destroy, true
		}
	}
	return nil, false
}

func relationshipHandler(controller any, action string) (gin.HandlerFunc, bool) {
	switch action {
	case ActionRelated:
		if h, ok := controller.(RelatedShower); ok {
			return h.ShowRelated, true
		}
	case ActionShow:
		if h, ok := controller.(RelationshipShower); ok {
			return h.ShowRelationship, true
		}
	case ActionUpdate:
		if h, ok := controller.(RelationshipUpdater); ok {
			return h.UpdateRelationship, true
		}
	case ActionAttach:
		if h, ok := controller.(RelationshipAttacher); ok {
			return h.AttachRelationship, true
		}
	case ActionDetach:
		if h, ok := controller.(RelationshipDetacher); ok {
			return h.DetachRelationship, true
		}
	}
	return nil, false
}

func customHandler(controller any, method string) (gin.HandlerFunc, bool) {
	ac, ok := controller.(ActionController)
	if !ok {
		return nil, false
	}
	h, ok := ac.Actions()[method]
	return h, ok && h != nil
}
