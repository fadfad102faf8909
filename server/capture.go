package server

import (
	"net/http"
	"strings"

	"github.com/existflow/quickadd/internal/capture"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
	"github.com/labstack/echo/v4"
)

type captureRequest struct {
	Kind      string `json:"kind"` // selection or link
	Text      string `json:"text"`
	URL       string `json:"url"`
	PageTitle string `json:"page_title"`
	LinkText  string `json:"link_text"`
}

// handleCapture stores a selection or link for the next capture form
func (s *Server) handleCapture(c echo.Context) error {
	if !s.Config().ContextMenuEnabled() {
		return c.JSON(http.StatusNotFound, actionResponse{Error: "selection and link capture is disabled", Code: "disabled"})
	}

	var req captureRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, actionResponse{Error: "invalid request", Code: "validation"})
	}

	var pending *model.Capture
	switch req.Kind {
	case model.SourceSelection:
		if strings.TrimSpace(req.Text) == "" {
			return c.JSON(http.StatusBadRequest, actionResponse{Error: "text is required", Code: "validation"})
		}
		pending = capture.SelectionCapture(req.Text, capture.Page{Title: req.PageTitle, URL: req.URL})
	case model.SourceLink:
		if strings.TrimSpace(req.URL) == "" {
			return c.JSON(http.StatusBadRequest, actionResponse{Error: "url is required", Code: "validation"})
		}
		pending = capture.LinkCapture(req.URL, req.LinkText)
	default:
		return c.JSON(http.StatusBadRequest, actionResponse{Error: "kind must be selection or link", Code: "validation"})
	}

	if err := s.db.SetPendingCapture(c.Request().Context(), pending); err != nil {
		logger.Error("Failed to store pending capture", logger.Err(err))
		return c.JSON(http.StatusInternalServerError, actionResponse{Error: "internal error"})
	}

	s.metrics.capturesTotal.WithLabelValues(req.Kind).Inc()
	logger.Info("Pending capture stored", logger.F("source", pending.Source), logger.F("id", pending.ID))
	return c.JSON(http.StatusCreated, actionResponse{Success: true, Data: pending})
}
