package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clickform/internal/logger"
	"clickform/internal/service"
	"clickform/internal/submission"
)

// Response is the body of every API response.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type submissionRequest struct {
	Settings submission.Settings `json:"settings"`
	Fields   submission.Fields   `json:"fields"`
}

type submissionResult struct {
	RunID string `json:"run_id"`
	submission.Outcome
}

type verifyRequest struct {
	Token string `json:"token"`
}

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNoToken, service.KindInvalidToken:
		return http.StatusUnauthorized
	case service.KindTransport:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), Response{Success: false, Message: err.Error()})
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func (s *Server) handleSubmission(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "Invalid submission body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	outcome := s.orch.Run(ctx, req.Settings, req.Fields, nil)
	result := submissionResult{RunID: requestID(c), Outcome: outcome}

	if !outcome.Succeeded() {
		c.JSON(StatusFor(outcome.Err), Response{Success: false, Message: outcome.Message, Data: result})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: outcome.Message, Data: result})
}

func (s *Server) handleVerifyToken(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "API key is required"})
		return
	}
	token := strings.TrimSpace(req.Token)

	ctx := c.Request.Context()
	if err := s.svc.ValidateToken(ctx, token); err != nil {
		respondError(c, err)
		return
	}

	if s.tokens == nil {
		c.JSON(http.StatusOK, Response{Success: true, Message: "API key verified"})
		return
	}
	if err := s.tokens.SetToken(token); err != nil {
		logger.FromContext(ctx).Error("failed to store API token", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "Failed to save API key"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "API key verified and saved"})
}

func (s *Server) handleWorkspaces(c *gin.Context) {
	workspaces, err := s.svc.Workspaces(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, workspaces)
}

func (s *Server) handleSpaces(c *gin.Context) {
	spaces, err := s.svc.Spaces(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, spaces)
}

func (s *Server) handleLists(c *gin.Context) {
	lists, err := s.svc.Lists(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, lists)
}

func (s *Server) handleStatuses(c *gin.Context) {
	statuses, err := s.svc.Statuses(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, statuses)
}
