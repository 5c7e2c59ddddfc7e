package authz

import "translink/internal/domain" // Importing domain models

// Action is what an actor wants to do to a resource.
type Action string

const (
	ActionView     Action = "view"     // Read a resource
	ActionUpdate   Action = "update"   // Edit a resource's fields
	ActionDelete   Action = "delete"   // Remove a resource and its dependents
	ActionDecide   Action = "decide"   // Accept or reject a request against the resource
	ActionOverride Action = "override" // Owner override of availability/status flags
)

// CanPerform decides whether an actor may perform an action on a resource
// owned by ownerID. This is the single dispatch point for every ownership
// check in the system; handlers never compare role strings directly.
//
// Rules: the owner may mutate their own resources; only the owner may decide
// requests against them (admins included are refused); admins may update and
// delete anything for moderation; any authenticated actor may view.
func CanPerform(actor domain.Actor, action Action, ownerID uint) bool {
	// Anonymous actors can do nothing
	if actor.Anonymous() {
		return false
	}
	switch action {
	case ActionView:
		return true
	case ActionDecide, ActionOverride:
		// Owner-only, no admin bypass
		return actor.ID == ownerID
	case ActionUpdate, ActionDelete:
		return actor.ID == ownerID || actor.Role == domain.RoleAdmin
	}
	return false
}
