package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/logicspark/logicspark/internal/common"
	"github.com/logicspark/logicspark/internal/server/models"
	"github.com/logicspark/logicspark/internal/server/services"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type sponsorRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SupportType string `json:"supportType"`
	Message     string `json:"message"`
}

type userAuthResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    models.UserView `json:"user"`
}

type adminAuthResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Token   string           `json:"token"`
	Admin   models.AdminView `json:"admin"`
}

type meResponse struct {
	Success   bool      `json:"success"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// decodeJSON reads a bounded JSON body into dst. An empty body decodes to the
// zero value so required-field checks report the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return common.NewValidationError("Invalid JSON body")
	}
	return nil
}

func (s *HTTPServer) handleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message"`
		Timestamp time.Time `json:"timestamp"`
	}{true, "Backend is reachable", s.now().UTC()})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}

	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, health{Status: "unhealthy", Database: "disconnected"})
		return
	}
	writeJSON(w, http.StatusOK, health{Status: "healthy", Database: "connected"})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	msgs := errorMessages{fallback: "Server error during registration"}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	sess, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	s.metrics.authAttempt("register", err)
	if err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	writeJSON(w, http.StatusCreated, userAuthResponse{
		Success: true,
		Message: "Registration successful",
		Token:   sess.Token,
		User:    sess.User.View(),
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	msgs := errorMessages{invalidCredentials: "Invalid email or password", fallback: "Server error during login"}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Email, req.Password)
	s.metrics.authAttempt("login", err)
	if err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	writeJSON(w, http.StatusOK, userAuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   sess.Token,
		User:    sess.User.View(),
	})
}

func (s *HTTPServer) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	msgs := errorMessages{invalidCredentials: "Invalid credentials", fallback: "Server error"}

	var req adminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	sess, err := s.auth.AdminLogin(r.Context(), req.Username, req.Password)
	s.metrics.authAttempt("admin_login", err)
	if err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	writeJSON(w, http.StatusOK, adminAuthResponse{
		Success: true,
		Message: "Admin login successful",
		Token:   sess.Token,
		Admin:   sess.Admin.View(),
	})
}

func (s *HTTPServer) handleAdminMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrMissingToken, errorMessages{})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		Success:   true,
		ID:        claims.SubjectID(),
		Username:  claims.Identity,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	})
}

func (s *HTTPServer) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	msgs := errorMessages{fallback: "Failed to send message. Please try again."}

	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	c, err := s.submissions.CreateContact(r.Context(), services.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	s.metrics.SubmissionsTotal.WithLabelValues(string(services.KindContacts)).Inc()
	writeJSON(w, http.StatusCreated, dataResponse{Success: true, Message: "Message sent successfully", Data: c})
}

func (s *HTTPServer) handleCreateSponsor(w http.ResponseWriter, r *http.Request) {
	msgs := errorMessages{fallback: "Failed to submit request. Please try again."}

	var req sponsorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	sp, err := s.submissions.CreateSponsor(r.Context(), services.SponsorInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		SupportType: req.SupportType,
		Message:     req.Message,
	})
	if err != nil {
		s.writeError(w, r, err, msgs)
		return
	}

	s.metrics.SubmissionsTotal.WithLabelValues(string(services.KindSponsors)).Inc()
	writeJSON(w, http.StatusCreated, dataResponse{Success: true, Message: "Sponsorship request submitted successfully", Data: sp})
}

func (s *HTTPServer) handleListContacts(w http.ResponseWriter, r *http.Request) {
	items, err := s.submissions.ListContacts(r.Context())
	if err != nil {
		s.writeError(w, r, err, errorMessages{fallback: "Failed to fetch contacts"})
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: items})
}

func (s *HTTPServer) handleListSponsors(w http.ResponseWriter, r *http.Request) {
	items, err := s.submissions.ListSponsors(r.Context())
	if err != nil {
		s.writeError(w, r, err, errorMessages{fallback: "Failed to fetch sponsors"})
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: items})
}

func (s *HTTPServer) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	kind := kindVar(r)
	if err := s.submissions.MarkRead(r.Context(), kind, idVar(r)); err != nil {
		s.writeError(w, r, err, errorMessages{notFound: notFoundMessage(kind), fallback: "Update failed"})
		return
	}
	writeMessage(w, http.StatusOK, "Marked as read")
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind := kindVar(r)
	if err := s.submissions.Delete(r.Context(), kind, idVar(r)); err != nil {
		s.writeError(w, r, err, errorMessages{notFound: notFoundMessage(kind), fallback: "Delete failed"})
		return
	}

	msg := "Message deleted"
	if kind == services.KindSponsors {
		msg = "Request deleted"
	}
	writeMessage(w, http.StatusOK, msg)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	exp, err := s.submissions.Export(r.Context(), kindVar(r))
	if err != nil {
		s.writeError(w, r, err, errorMessages{fallback: "Export failed"})
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Message: "Export ready", Data: exp})
}

func notFoundMessage(kind services.Kind) string {
	if kind == services.KindSponsors {
		return "Sponsor request not found"
	}
	return "Message not found"
}
