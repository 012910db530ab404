package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for tenant-admin authentication
type AdminClaims struct {
	TenantID string `json:"tenantId"`
	AdminID  string `json:"adminId"`
	jwt.RegisteredClaims
}

// ConsumerClaims are JWT claims for program-scoped consumer screening tokens
type ConsumerClaims struct {
	ProgramID  string `json:"programId"`
	SessionID  string `json:"sessionId"`
	ConsumerID string `json:"consumerId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token    string `json:"token"`
	TenantID string `json:"tenantId"`
	AdminID  string `json:"adminId"`
}
