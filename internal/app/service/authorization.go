package service

import (
	"errors"

	"github.com/forkspot/forkspot-backend/internal/app/model"
)

// ErrForbidden is returned whenever an authorization predicate fails. The
// caller is never told which check failed.
var ErrForbidden = errors.New("not allowed to perform this action")

// isSelf reports whether the actor owns the resource. Admins get no
// override here: acting on another user's own resource (their review,
// their order cancellation, their profile) is never allowed by role.
func isSelf(actorID, ownerID uint) bool {
	return actorID == ownerID
}

// canManageRestaurant reports whether the actor may act on behalf of a
// restaurant: its owner, or an admin.
func canManageRestaurant(actorID uint, role model.UserRole, restaurantOwnerID uint) bool {
	if role == model.RoleAdmin {
		return true
	}
	return actorID == restaurantOwnerID
}

// canModerate reports whether the actor may remove another user's content.
// Authors may always remove their own; admins may remove anyone's.
func canModerate(actorID uint, role model.UserRole, authorID uint) bool {
	if role == model.RoleAdmin {
		return true
	}
	return actorID == authorID
}
