package models

import "github.com/golang-jwt/jwt/v4"

// SessionClaims are custom claims extending standard jwt.RegisteredClaims.
// Minted after Firebase ID-token verification; the role is snapshotted at
// sign-in and re-checked by the admin guard on every admin request.
type SessionClaims struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionRequest defines the request body for exchanging a Firebase ID
// token for a local session token
type SessionRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}
