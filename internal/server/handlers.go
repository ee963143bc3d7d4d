package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"quyca-monitor/internal/chart"
	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/settings"
	"quyca-monitor/internal/simulator"
	"quyca-monitor/internal/storage"
)

// WebSocket message types.
const (
	MessageSnapshot = "snapshot"
)

const (
	defaultAlertLimit = 20
	maxAlertLimit     = 500
)

type seriesResponse struct {
	Series simulator.Series `json:"series"`
	Points []chart.Point    `json:"points"`
	Trend  chart.Trend      `json:"trend"`
}

type settingsResponse struct {
	Interval              string          `json:"interval"`
	Schedule              string          `json:"schedule,omitempty"`
	RegenerateProbability float64         `json:"regenerateProbability"`
	Timezone              string          `json:"timezone"`
	SeriesHours           int             `json:"seriesHours"`
	ReadingRisk           risk.Table      `json:"readingRisk"`
	ChartRisk             risk.Table      `json:"chartRisk"`
	ChartDomain           settings.Domain `json:"chartDomain"`
}

type classifyResponse struct {
	Temperature float64   `json:"temperature"`
	Reading     risk.Tier `json:"reading"`
	Chart       risk.Tier `json:"chart"`
}

type verificationRequest struct {
	HasFire *bool `json:"hasFire" binding:"required"`
}

type verificationResponse struct {
	At          time.Time `json:"at"`
	Temperature float64   `json:"temperature"`
	Tier        risk.Tier `json:"riskLevel"`
	Action      string    `json:"action"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoints": []string{
			"GET /api/v1/snapshot",
			"GET /api/v1/series",
			"GET /api/v1/settings",
			"GET /api/v1/alerts?limit=N",
			"GET /api/v1/alerts/:id",
			"GET /api/v1/classify?t=TEMP",
			"GET /api/v1/contacts",
			"GET /api/v1/manual",
			"POST /api/v1/verification",
			"GET /ws",
			"GET /metrics",
			"GET /healthz",
		},
	})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	if !s.requireMonitor(c) {
		return
	}
	c.JSON(http.StatusOK, s.monitor.Snapshot())
}

func (s *Server) handleSeries(c *gin.Context) {
	if !s.requireMonitor(c) {
		return
	}
	snap := s.monitor.Snapshot()
	c.JSON(http.StatusOK, seriesResponse{Series: snap.Series, Points: snap.Points, Trend: snap.Trend})
}

func (s *Server) handleSettings(c *gin.Context) {
	if !s.requireMonitor(c) {
		return
	}
	st := s.monitor.Snapshot().Settings
	c.JSON(http.StatusOK, settingsResponse{
		Interval:              st.Interval.String(),
		Schedule:              st.Schedule,
		RegenerateProbability: st.RegenerateProbability,
		Timezone:              st.Loc().String(),
		SeriesHours:           st.SeriesHours,
		ReadingRisk:           st.ReadingRisk,
		ChartRisk:             st.ChartRisk,
		ChartDomain:           st.ChartDomain,
	})
}

func (s *Server) handleAlerts(c *gin.Context) {
	if s.alerts == nil {
		respondWithError(c, http.StatusServiceUnavailable, ErrCodeInternal, "alert log not configured", "")
		return
	}
	limit := defaultAlertLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAlertLimit {
			respondWithError(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid limit", "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	rows, err := s.alerts.ListRecentAlerts(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("list alerts")
		respondWithError(c, http.StatusInternalServerError, ErrCodeInternal, "could not list alerts", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": rows, "count": len(rows)})
}

func (s *Server) handleAlert(c *gin.Context) {
	if s.alerts == nil {
		respondWithError(c, http.StatusServiceUnavailable, ErrCodeInternal, "alert log not configured", "")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid alert id", "id must be a positive integer")
		return
	}
	rec, err := s.alerts.GetAlert(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		respondWithError(c, http.StatusNotFound, ErrCodeNotFound, "alert not found", "it may have been evicted from the log")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("get alert")
		respondWithError(c, http.StatusInternalServerError, ErrCodeInternal, "could not load alert", "")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleClassify(c *gin.Context) {
	raw := c.Query("t")
	temp, err := strconv.ParseFloat(raw, 64)
	if raw == "" || err != nil {
		respondWithError(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid temperature", "pass ?t=<°C>, e.g. ?t=36.5")
		return
	}
	st := settings.Default()
	if s.monitor != nil {
		st = s.monitor.Snapshot().Settings
	}
	c.JSON(http.StatusOK, classifyResponse{
		Temperature: temp,
		Reading:     st.ReadingRisk.Classify(temp),
		Chart:       st.ChartRisk.Classify(temp),
	})
}

func (s *Server) handleContacts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"contacts": s.fixtures.Contacts})
}

func (s *Server) handleManual(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": s.fixtures.Manual})
}

func (s *Server) handleVerification(c *gin.Context) {
	if !s.requireMonitor(c) {
		return
	}
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid body", `expected {"hasFire": true|false}`)
		return
	}
	note, err := s.monitor.RecordVerification(c.Request.Context(), *req.HasFire)
	if err != nil {
		s.logger.Error().Err(err).Msg("record verification")
		respondWithError(c, http.StatusInternalServerError, ErrCodeInternal, "could not record verification", "")
		return
	}
	c.JSON(http.StatusCreated, verificationResponse{
		At:          note.At,
		Temperature: note.Temperature,
		Tier:        note.Tier,
		Action:      note.Action,
	})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	cl := &client{hub: s.hub, conn: conn, send: make(chan []byte, sendBuffer)}

	if s.monitor != nil {
		if frame, err := encodeMessage(MessageSnapshot, s.monitor.Snapshot()); err == nil {
			cl.send <- frame
		}
	}

	select {
	case s.hub.register <- cl:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go cl.writePump()
	go cl.readPump()
}

func (s *Server) requireMonitor(c *gin.Context) bool {
	if s.monitor == nil {
		respondWithError(c, http.StatusServiceUnavailable, ErrCodeInternal, "monitor not running", "")
		return false
	}
	return true
}
