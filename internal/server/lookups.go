package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListStatuses(c *gin.Context) {
	statuses, err := s.vocabulary.Statuses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": statuses})
}
