package handler

import (
	"strings"

	"ffwpu/internal/recovery/models"
	dErrors "ffwpu/pkg/domain-errors"
)

// RecoverRequest is the HTTP request body for POST /auth/recover.
type RecoverRequest struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
}

// Validate trims the claims and rejects missing required fields. Field
// limits and date parsing are enforced by the service.
func (r *RecoverRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.MiddleName = strings.TrimSpace(r.MiddleName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Email = strings.TrimSpace(r.Email)

	if r.FirstName == "" || r.LastName == "" || r.DateOfBirth == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "first_name, last_name and date_of_birth are required")
	}
	return nil
}

func (r *RecoverRequest) toModel() models.RecoveryRequest {
	return models.RecoveryRequest{
		FirstName:   r.FirstName,
		MiddleName:  r.MiddleName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
		Email:       r.Email,
	}
}
