package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abakedjoetato/Fbtrial-sub001/api/routes"
	"github.com/abakedjoetato/Fbtrial-sub001/config"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
)

type Server struct {
	router *gin.Engine
	addr   string
	db     *database.Database
}

func NewServer(cfg *config.Config, db *database.Database) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{
		router: gin.Default(),
		addr:   cfg.Server.Addr,
		db:     db,
	}
}

func (s *Server) SetupRoutes() {
	routes.SetupRoutes(s.router, s.db)
}

func (s *Server) Start() error {
	return s.router.Run(s.addr)
}
