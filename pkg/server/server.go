package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praachilabs/studypack/pkg/studypack"
)

// Server holds the state for the REST API server.
type Server struct {
	svc    *studypack.Service
	router *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(svc *studypack.Service) *Server {
	r := gin.Default()
	s := &Server{
		svc:    svc,
		router: r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/v1/generate", s.handleGenerate)
	s.router.POST("/v1/grade", s.handleGrade)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
