package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fintracore/corebank/internal/adapter/http/middleware"
	"github.com/fintracore/corebank/internal/infrastructure/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	TellerID string `json:"teller_id"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token  string     `json:"token"`
	Teller TellerInfo `json:"teller"`
}

// TellerInfo represents teller information
type TellerInfo struct {
	TellerID string `json:"teller_id"`
	BranchID string `json:"branch_id"`
	Role     string `json:"role"`
}

// demoTeller is one hardcoded credential used until the HR directory
// integration lands.
type demoTeller struct {
	password string
	branchID string
	role     string
}

// DEMO ONLY: Hardcoded tellers for testing
// In production, validate against the staff directory with hashed passwords
var demoTellers = map[string]demoTeller{
	"teller-1":     {password: "teller123", branchID: "br-1", role: auth.RoleTeller},
	"supervisor-1": {password: "supervisor123", branchID: "br-1", role: auth.RoleSupervisor},
	"auditor-1":    {password: "auditor123", branchID: "br-1", role: auth.RoleAuditor},
}

// Login handles teller login (simplified - no password hashing for demo)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	teller, ok := demoTellers[req.TellerID]
	if !ok || teller.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	token, err := h.jwtManager.Generate(req.TellerID, teller.branchID, teller.role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		Teller: TellerInfo{
			TellerID: req.TellerID,
			BranchID: teller.branchID,
			Role:     teller.role,
		},
	})
}

// GetCurrentTeller returns the authenticated teller
func (h *AuthHandler) GetCurrentTeller(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, TellerInfo{
		TellerID: claims.TellerID,
		BranchID: claims.BranchID,
		Role:     claims.Role,
	})
}
