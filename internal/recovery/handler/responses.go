package handler

import (
	"time"

	"ffwpu/internal/recovery/models"
)

const successMessage = "We found your account. Check your email for a link to reset your password."

// RecoverResponse is the 200 body for POST /auth/recover.
type RecoverResponse struct {
	MaskedEmail string `json:"masked_email"`
	DisplayName string `json:"display_name"`
	Church      string `json:"church,omitempty"`
	Region      string `json:"region,omitempty"`
	ExpiresAt   string `json:"expires_at"`
	Token       string `json:"token,omitempty"`
	Message     string `json:"message"`
}

func fromResult(res *models.RecoveryResult) RecoverResponse {
	return RecoverResponse{
		MaskedEmail: res.MaskedEmail,
		DisplayName: res.DisplayName,
		Church:      res.Church,
		Region:      res.Region,
		ExpiresAt:   res.ExpiresAt.UTC().Format(time.RFC3339),
		Token:       res.Token,
		Message:     successMessage,
	}
}
