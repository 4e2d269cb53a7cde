package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ContactRequest is a visitor's contact-form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactHandler relays a contact-form submission to the site owner.
// Fire-and-forget for the submitter: any relay failure comes back as a
// generic 500 with no internal detail.
func (h *APIHandler) ContactHandler(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		http.Error(w, "Name, email and message are required", http.StatusBadRequest)
		return
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "New contact form message"
	}

	body := fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message)

	if err := h.mailer.Send(r.Context(), req.Name, req.Email, subject, body); err != nil {
		internalError(w, "failed to relay contact message", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Message sent"})
}
