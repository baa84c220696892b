package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	statusDelivered = "DELIVERED"
	statusFailed    = "FAILED"
)

type sendRequest struct {
	To      string `json:"to" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	ErrorMsg  string `json:"error_message,omitempty"`
}

type healthResponse struct {
	Status       string    `json:"status"`
	GatewayID    string    `json:"gateway_id"`
	Timestamp    time.Time `json:"timestamp"`
	DeliveryRate float64   `json:"delivery_rate"`
	SentTotal    int64     `json:"sent_total"`
}

// Simulator stands in for a real WhatsApp gateway during local runs. It
// answers the same JSON protocol the gateway provider speaks and fails a
// configurable fraction of sends.
type Simulator struct {
	mu           sync.Mutex
	deliveryRate float64
	minDelay     time.Duration
	maxDelay     time.Duration
	gatewayID    string
	sentTotal    int64
	rng          *rand.Rand
}

func NewSimulator(deliveryRate float64, minDelay, maxDelay time.Duration) *Simulator {
	return &Simulator{
		deliveryRate: deliveryRate,
		minDelay:     minDelay,
		maxDelay:     maxDelay,
		gatewayID:    "WHATSAPP_SIM_" + uuid.New().String()[:8],
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Simulator) deliver(req *sendRequest) *sendResponse {
	time.Sleep(s.randomDelay())

	response := &sendResponse{
		MessageID: uuid.New().String(),
	}

	s.mu.Lock()
	s.sentTotal++
	ok := s.rng.Float64() < s.deliveryRate
	s.mu.Unlock()

	if ok {
		response.Status = statusDelivered
		log.Info().
			Str("message_id", response.MessageID).
			Str("to", req.To).
			Msg("message delivered")
	} else {
		response.Status = statusFailed
		response.ErrorMsg = s.randomError()
		log.Warn().
			Str("message_id", response.MessageID).
			Str("to", req.To).
			Str("error", response.ErrorMsg).
			Msg("message delivery failed")
	}

	return response
}

func (s *Simulator) randomDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	delta := s.maxDelay - s.minDelay
	if delta <= 0 {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.rng.Int63n(int64(delta)))
}

func (s *Simulator) randomError() string {
	errorMessages := []string{
		"recipient is not a whatsapp user",
		"recipient has blocked business messages",
		"message rate limit reached",
		"network error reaching whatsapp servers",
	}
	return errorMessages[s.rng.Intn(len(errorMessages))]
}

type Handler struct {
	sim *Simulator
}

func NewHandler(sim *Simulator) *Handler {
	return &Handler{sim: sim}
}

func (h *Handler) Send(c *gin.Context) {
	var req sendRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	response := h.sim.deliver(&req)

	statusCode := http.StatusOK
	if response.Status == statusFailed {
		statusCode = http.StatusAccepted
	}

	c.JSON(statusCode, response)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	h.sim.mu.Lock()
	rate := h.sim.deliveryRate
	sent := h.sim.sentTotal
	h.sim.mu.Unlock()

	c.JSON(http.StatusOK, healthResponse{
		Status:       "healthy",
		GatewayID:    h.sim.gatewayID,
		Timestamp:    time.Now(),
		DeliveryRate: rate,
		SentTotal:    sent,
	})
}

// UpdateConfig changes the delivery rate at runtime so failure handling
// can be exercised without restarting the simulator.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		DeliveryRate *float64 `json:"delivery_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.DeliveryRate != nil && *config.DeliveryRate >= 0 && *config.DeliveryRate <= 1.0 {
		h.sim.mu.Lock()
		h.sim.deliveryRate = *config.DeliveryRate
		h.sim.mu.Unlock()
		log.Info().Float64("rate", *config.DeliveryRate).Msg("updated delivery rate")
	}

	h.sim.mu.Lock()
	rate := h.sim.deliveryRate
	h.sim.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":       "configuration updated",
		"delivery_rate": rate,
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/whatsapp/send", handler.Send)
		v1.GET("/health", handler.HealthCheck)
		v1.PUT("/config", handler.UpdateConfig)
	}

	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8082")
	deliveryRate := getEnvFloat("DELIVERY_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 100*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 2*time.Second)

	log.Info().
		Str("port", port).
		Float64("delivery_rate", deliveryRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("starting whatsapp gateway simulator")

	sim := NewSimulator(deliveryRate, minDelay, maxDelay)
	handler := NewHandler(sim)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
