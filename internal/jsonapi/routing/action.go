// Package routing registers JSON:API resource routes on a gin router.
//
// Resources are declared through PendingResourceRegistration, a chainable
// builder that collects options and hands them to a ResourceRegistrar once
// it is finalized, either explicitly with Register or by the Server flush
// at the end of a route-definition pass.
package routing

// Canonical resource actions.
const (
	ActionIndex   = "index"
	ActionStore   = "store"
	ActionShow    = "show"
	ActionUpdate  = "update"
	ActionDestroy = "destroy"
)

// Relationship actions.
const (
	ActionRelated = "related"
	ActionAttach  = "attach"
	ActionDetach  = "detach"
)

// resourceActions lists resource actions in registration order.
var resourceActions = []string{ActionIndex, ActionStore, ActionShow, ActionUpdate, ActionDestroy}

var actionAliases = map[string]string{
	"create": ActionStore,
	"read":   ActionShow,
	"delete": ActionDestroy,
}

// NormalizeAction maps an action alias to its canonical name.
// Names without an alias are returned unchanged.
func NormalizeAction(action string) string {
	if canonical, ok := actionAliases[action]; ok {
		return canonical
	}
	return action
}

func normalizeActions(actions []string) []string {
	out := make([]string, len(actions))
	for i, action := range actions {
		out[i] = NormalizeAction(action)
	}
	return out
}

// relationshipAliases map resource verbs onto relationship actions.
var relationshipAliases = map[string]string{
	"read":    ActionShow,
	"create":  ActionAttach,
	"store":   ActionAttach,
	"delete":  ActionDetach,
	"destroy": ActionDetach,
}

// NormalizeRelationshipAction maps an alias to its canonical relationship
// action. Names without an alias are returned unchanged.
func NormalizeRelationshipAction(action string) string {
	if canonical, ok := relationshipAliases[action]; ok {
		return canonical
	}
	return action
}

func normalizeRelationshipActions(actions []string) []string {
	out := make([]string, len(actions))
	for i, action := range actions {
		out[i] = NormalizeRelationshipAction(action)
	}
	return out
}
