package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tokendomain "github.com/stocktrail/stocktrail/internal/token/domain"
)

type issueTokenRequest struct {
	Role         string `json:"role"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	ExpiryAmount int    `json:"expiry_amount"`
	ExpiryUnit   string `json:"expiry_unit"`
}

func (s *Server) IssueToken(c *gin.Context) {
	if !s.tokenLimiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company := strings.TrimSpace(req.Company)
	if company == "" {
		AbortWithError(c, newValidationError("company", "required", "company is required"))
		return
	}

	resp, err := s.tokenSvc.Issue(c.Request.Context(), tokendomain.IssueRequest{
		Role:         strings.TrimSpace(req.Role),
		Company:      company,
		Email:        strings.TrimSpace(req.Email),
		ExpiryAmount: req.ExpiryAmount,
		ExpiryUnit:   strings.TrimSpace(req.ExpiryUnit),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
