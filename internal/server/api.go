package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/jade/nuestro27/internal/anniversary"
	"github.com/jade/nuestro27/internal/app"
	"github.com/jade/nuestro27/internal/calendar"
	"github.com/jade/nuestro27/internal/model"
	"github.com/jade/nuestro27/internal/notify"
	"go.uber.org/zap"
)

// maxUploadBytes caps a single uploaded image.
const maxUploadBytes = 10 << 20

var (
	errTooLarge  = errors.New("image too large")
	errNotImage  = errors.New("file is not an image")
	errNoUpload  = errors.New("no file provided")
	errBadUpload = errors.New("invalid upload")
)

// --- Countdown ---

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	day := s.state.AnniversaryDay()
	st := anniversary.Compute(s.watcher.Now(), day)

	resp := map[string]interface{}{
		"isAnniversary":  st.IsAnniversary,
		"timeLeft":       st.TimeLeft,
		"anniversaryDay": day,
		"message":        s.state.Message(),
	}
	if !st.IsAnniversary {
		resp["target"] = st.Target
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Settings ---

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"config":  s.state.Config(),
		"presets": model.BackgroundPresets,
	})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AnniversaryDay  *int    `json:"anniversaryDay"`
		BackgroundType  *string `json:"backgroundType"`
		BackgroundValue *string `json:"backgroundValue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	u := app.SettingsUpdate{
		AnniversaryDay:  req.AnniversaryDay,
		BackgroundValue: req.BackgroundValue,
	}
	if req.BackgroundType != nil {
		t := model.BackgroundType(*req.BackgroundType)
		u.BackgroundType = &t
	}
	cfg, err := s.state.UpdateSettings(u)
	if err != nil {
		s.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "config": cfg})
}

func (s *Server) handleUploadBackground(w http.ResponseWriter, r *http.Request) {
	uri, err := readImage(w, r, "image")
	if err != nil {
		writeUploadError(w, err)
		return
	}
	cfg, err := s.state.SetBackground(model.BackgroundImage, uri)
	if err != nil {
		s.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "config": cfg})
}

// --- Memories ---

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"memories": s.state.Memories()})
}

func (s *Server) handleAddMemory(w http.ResponseWriter, r *http.Request) {
	uri, err := readImage(w, r, "photo")
	if err != nil {
		writeUploadError(w, err)
		return
	}
	m, err := s.state.AddMemory(uri)
	if err != nil {
		s.writeStateError(w, err)
		return
	}
	s.log.Info("memory added", zap.String("id", m.ID))
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusPreconditionRequired, "Deleting a memory must be confirmed")
		return
	}
	found, err := s.state.DeleteMemory(id)
	if err != nil {
		s.writeStateError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Memory not found")
		return
	}
	s.log.Info("memory deleted", zap.String("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Calendar ---

func (s *Server) handleCalendarYear(w http.ResponseWriter, r *http.Request) {
	now := s.watcher.Now()
	year := now.Year()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			writeError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = y
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"months": calendar.BuildYear(year, s.state.AnniversaryDay(), now),
	})
}

func (s *Server) handleCalendarMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month")
		return
	}
	writeJSON(w, http.StatusOK, calendar.BuildMonth(year, time.Month(month), s.state.AnniversaryDay(), s.watcher.Now()))
}

// --- Notifications ---

func (s *Server) handlePollNotifications(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"enabled":       s.state.NotificationsEnabled(),
		"permission":    s.gate.Platform().Permission(),
		"prompt":        false,
		"notifications": []model.Notification{},
	}
	if s.browser != nil {
		resp["prompt"] = s.browser.Prompting()
		if queued := s.browser.Drain(); len(queued) > 0 {
			resp["notifications"] = queued
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEnableNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), permissionWait)
	defer cancel()

	p, err := s.gate.RequestPermission(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusRequestTimeout, "No answer to the permission request")
			return
		}
		s.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"permission": p,
		"enabled":    s.state.NotificationsEnabled(),
	})
}

func (s *Server) handleReportPermission(w http.ResponseWriter, r *http.Request) {
	if s.browser == nil {
		writeError(w, http.StatusNotFound, "Browser notifications are not in use")
		return
	}
	var req struct {
		Permission string `json:"permission"`
		Supported  *bool  `json:"supported"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	supported := req.Supported == nil || *req.Supported
	s.browser.Report(notify.ParsePermission(req.Permission), supported)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDisableNotifications(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.Disable(); err != nil {
		s.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "enabled": false})
}

// --- Overrides ---

func (s *Server) handleGetOverrides(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"overrides": s.state.Overrides()})
}

func (s *Server) handleSaveOverrides(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Overrides []model.Override `json:"overrides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := s.state.SetOverrides(req.Overrides); err != nil {
		s.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "overrides": s.state.Overrides()})
}

// --- Helpers ---

// readImage reads one uploaded image fully and returns it as a data URI.
func readImage(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", errTooLarge
		}
		return "", fmt.Errorf("%w: %v", errBadUpload, err)
	}
	file, _, err := r.FormFile(field)
	if err != nil {
		return "", errNoUpload
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadUpload, err)
	}
	if len(data) > maxUploadBytes {
		return "", errTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", errNotImage
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Image too large")
	case errors.Is(err, errNotImage):
		writeError(w, http.StatusUnsupportedMediaType, "Only images can be uploaded")
	default:
		writeError(w, http.StatusBadRequest, "No file provided")
	}
}

func (s *Server) writeStateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidDay),
		errors.Is(err, app.ErrInvalidBackground),
		errors.Is(err, app.ErrInvalidOverride):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("state update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
