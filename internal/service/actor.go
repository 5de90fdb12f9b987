package service

import "github.com/noah-isme/mediahub-api/internal/models"

// Actor is the authenticated caller a workflow runs on behalf of.
type Actor struct {
	ID   string
	Role models.UserRole
	Name string
}

// ActorFromClaims builds an Actor from validated token claims.
func ActorFromClaims(claims *models.JWTClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{ID: claims.UserID, Role: claims.Role, Name: claims.Name}
}
