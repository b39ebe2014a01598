package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetCompanyInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.company.Current()})
}
