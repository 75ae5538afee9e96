package service

import "reportam/internal/microservices/http-api/models"

// Actor is the identity a mutation is performed on behalf of. It is either an
// AdminActor or an AnonymousActor; other implementations are not possible.
type Actor interface {
	isActor()
}

// AdminActor is an administrator authenticated by a bearer token
type AdminActor struct {
	AdminID string
}

// AnonymousActor is a citizen identified only by the fingerprint they supplied
type AnonymousActor struct {
	Fingerprint string
}

func (AdminActor) isActor()     {}
func (AnonymousActor) isActor() {}

// Authorize decides whether actor may edit or delete comment. Administrators
// always may. Anonymous actors need a non-empty fingerprint equal to the one
// stored on the comment, so comments posted without a fingerprint can only be
// moderated by an administrator.
func Authorize(comment *models.Comment, actor Actor) bool {
	if comment == nil {
		return false
	}
	switch a := actor.(type) {
	case AdminActor:
		return true
	case *AdminActor:
		return a != nil
	case AnonymousActor:
		return a.Fingerprint != "" && a.Fingerprint == comment.Fingerprint
	case *AnonymousActor:
		return a != nil && a.Fingerprint != "" && a.Fingerprint == comment.Fingerprint
	default:
		return false
	}
}
