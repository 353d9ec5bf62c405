package emulator

import (
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/fieldkit/internal/config"
	"github.com/danmuck/fieldkit/internal/observability"
	"github.com/danmuck/fieldkit/internal/wire"
)

// Server wraps one emulated device behind an HTTP harness.
type Server struct {
	Name    string
	Addr    string
	Device  *Device
	Started time.Time

	router *gin.Engine
}

func NewServer(cfg config.DaemonConfig) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	identity := config.DeviceIdentity(cfg.Identity)

	s := &Server{
		Name:    cfg.Name,
		Addr:    cfg.Addr,
		Device:  NewDevice(identity, log.Logger),
		Started: time.Now(),
		router:  r,
	}
	s.registerRoutes()
	return s
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

type reportRequest struct {
	// Report is the raw inbound report, hex encoded.
	Report string `json:"report" binding:"required"`
}

type responseView struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Packet  string `json:"packet"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Started).String(),
			"device":  s.Name,
			"version": "0.1.0",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":  !s.Device.BootloaderEntered(),
			"uptime": time.Since(s.Started).String(),
			"device": s.Name,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"buffered":   s.Device.Buffered(),
			"bootloader": s.Device.BootloaderEntered(),
		})
	})

	s.router.POST("/report", func(c *gin.Context) {
		var req reportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		report, err := hex.DecodeString(req.Report)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "report is not valid hex"})
			return
		}

		packets := s.Device.Inject(report)
		views := make([]responseView, 0, len(packets))
		for _, packet := range packets {
			status, message, err := wire.DecodeResponsePacket(packet)
			if err != nil {
				continue
			}
			views = append(views, responseView{
				Status:  status.String(),
				Message: message,
				Packet:  hex.EncodeToString(packet),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"responses":  views,
			"bootloader": s.Device.BootloaderEntered(),
		})
	})
}

// HTTPRouter exposes the router for tests.
func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

// Run blocks serving the harness.
func (s *Server) Run() error {
	return s.router.Run(s.Addr)
}
