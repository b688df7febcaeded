package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/guardian"
	"github.com/vidscope/vidscope/pkg/repository"
)

// getSettingsHandler returns the user settings blob
func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := s.repos.Settings.Get(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": settings,
	})
}

// saveSettingsHandler replaces the user settings blob
func (s *Server) saveSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	if err := s.repos.Settings.Save(r.Context(), settings); err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// getFocusHandler returns the focus schedule with its current activity state
func (s *Server) getFocusHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := s.repos.Settings.Get(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"schedule": settings.FocusSchedule,
		"active":   settings.FocusSchedule.InPeriod(time.Now()),
	})
}

// pauseFocusHandler suspends focus mode for a number of hours
func (s *Server) pauseFocusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Hours float64 `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if req.Hours <= 0 {
		renderError(w, r, fmt.Errorf("hours must be positive"), http.StatusBadRequest)
		return
	}

	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	until := time.Now().Add(time.Duration(req.Hours * float64(time.Hour))).UnixMilli()
	settings.FocusSchedule.PausedUntil = &until

	if err := s.repos.Settings.Save(ctx, settings); err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":     true,
		"pausedUntil": until,
	})
}

// guardianCheckHandler evaluates the block policy for a video's analysis
func (s *Server) guardianCheckHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Analysis domain.VideoAnalysis `json:"analysis"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	settings, err := s.repos.Settings.Get(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	decision := guardian.Decide(req.Analysis, settings, time.Now())
	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"decision": decision,
	})
}

// getSessionHandler returns the current watch session, if one is active
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	current, err := s.sessions.Current(r.Context())
	if errors.Is(err, repository.ErrNotFound) {
		renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "session": nil})
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "session": current})
}

// startSessionHandler begins a new watch session
func (s *Server) startSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Start(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "session": session})
}

// sessionAddVideoHandler records a video starting in the current session
func (s *Server) sessionAddVideoHandler(w http.ResponseWriter, r *http.Request) {
	var video domain.SessionVideo
	if err := json.NewDecoder(r.Body).Decode(&video); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if video.VideoID == "" {
		renderError(w, r, fmt.Errorf("videoId is required"), http.StatusBadRequest)
		return
	}

	session, err := s.sessions.AddVideo(r.Context(), video)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "session": session})
}

// sessionEndVideoHandler closes a video entry and adds its play time
func (s *Server) sessionEndVideoHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	var req struct {
		WatchSeconds int `json:"watchSeconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	session, err := s.sessions.EndVideo(r.Context(), videoID, req.WatchSeconds)
	if errors.Is(err, repository.ErrNotFound) {
		renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "session": nil})
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "session": session})
}

// sessionActivityHandler refreshes the session's last-activity timestamp
func (s *Server) sessionActivityHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Touch(r.Context()); err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// sessionIntentHandler records the declared purpose of the current session
func (s *Server) sessionIntentHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Intent domain.WatchIntent `json:"intent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	session, err := s.sessions.SetIntent(r.Context(), req.Intent)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "session": session})
}

// sessionCheckinHandler reports whether a check-in prompt is due
func (s *Server) sessionCheckinHandler(w http.ResponseWriter, r *http.Request) {
	minutes := 0
	if v := r.URL.Query().Get("minutes"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			renderError(w, r, fmt.Errorf("invalid minutes"), http.StatusBadRequest)
			return
		}
		minutes = parsed
	}

	due, err := s.sessions.CheckinDue(r.Context(), minutes)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "due": due})
}

// recordWatchRequest is the watch stats endpoint payload
type recordWatchRequest struct {
	Video       domain.SessionVideo `json:"video"`
	Tags        []string            `json:"tags"`
	ChannelName string              `json:"channelName"`
}

// recordWatchHandler folds a watched video into the daily and channel stats
func (s *Server) recordWatchHandler(w http.ResponseWriter, r *http.Request) {
	var req recordWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if req.Video.VideoID == "" {
		renderError(w, r, fmt.Errorf("video.videoId is required"), http.StatusBadRequest)
		return
	}

	if err := s.sessions.RecordWatch(r.Context(), req.Video, req.Tags, req.ChannelName); err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// dailyStatsHandler returns daily aggregates for a date range
func (s *Server) dailyStatsHandler(w http.ResponseWriter, r *http.Request) {
	to := r.URL.Query().Get("to")
	if to == "" {
		to = time.Now().Format("2006-01-02")
	}
	from := r.URL.Query().Get("from")
	if from == "" {
		from = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}

	stats, err := s.repos.Stats.ListDailyRange(r.Context(), from, to)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}

// listChannelStatsHandler returns rolling averages for all channels
func (s *Server) listChannelStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repos.Stats.ListChannels(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}

// getChannelStatsHandler returns rolling averages for one channel
func (s *Server) getChannelStatsHandler(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")

	stats, err := s.repos.Stats.GetChannel(r.Context(), channelID)
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, fmt.Errorf("channel not found"), http.StatusNotFound)
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}

// getOverridesHandler returns the guardian override counters
func (s *Server) getOverridesHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.sessions.Overrides(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}

// trackOverrideHandler counts one guardian override
func (s *Server) trackOverrideHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.sessions.TrackOverride(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}

// blindSpotsHandler reports narrow-perspective topics in recent history
func (s *Server) blindSpotsHandler(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			renderError(w, r, fmt.Errorf("invalid days"), http.StatusBadRequest)
			return
		}
		days = parsed
	}

	report, err := s.blindSpots.Analyze(r.Context(), days)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "report": report})
}

// listNotesHandler returns all notes for a video
func (s *Server) listNotesHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	notes, err := s.repos.Notes.ListForVideo(r.Context(), videoID)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "notes": notes})
}

// addNoteHandler attaches a note to a video
func (s *Server) addNoteHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	var req struct {
		Text    string `json:"text"`
		Seconds *int   `json:"seconds,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		renderError(w, r, fmt.Errorf("text is required"), http.StatusBadRequest)
		return
	}

	note := domain.Note{
		ID:        newNoteID(),
		VideoID:   videoID,
		Text:      req.Text,
		Seconds:   req.Seconds,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.repos.Notes.Add(r.Context(), note); err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "note": note})
}

// updateNoteHandler replaces a note's text
func (s *Server) updateNoteHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		renderError(w, r, fmt.Errorf("text is required"), http.StatusBadRequest)
		return
	}

	err := s.repos.Notes.Update(r.Context(), id, req.Text, time.Now().UnixMilli())
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, fmt.Errorf("note not found"), http.StatusNotFound)
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// deleteNoteHandler removes a note
func (s *Server) deleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.repos.Notes.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, fmt.Errorf("note not found"), http.StatusNotFound)
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// listLikedChannelsHandler returns the channels the user liked videos from
func (s *Server) listLikedChannelsHandler(w http.ResponseWriter, r *http.Request) {
	channels, err := s.repos.Channels.List(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "channels": channels})
}

// removeLikedChannelHandler drops a channel from the liked set
func (s *Server) removeLikedChannelHandler(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")

	err := s.repos.Channels.Remove(r.Context(), channelID)
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, fmt.Errorf("channel not found"), http.StatusNotFound)
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// setSubscriptionHandler records whether the user subscribes to a channel
func (s *Server) setSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")

	var req struct {
		Status domain.SubscriptionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	switch req.Status {
	case domain.Subscribed, domain.NotSubscribed, domain.SubscriptionUnknown:
	default:
		renderError(w, r, fmt.Errorf("invalid subscription status"), http.StatusBadRequest)
		return
	}

	err := s.repos.Channels.SetSubscription(r.Context(), channelID, req.Status)
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, fmt.Errorf("channel not found"), http.StatusNotFound)
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}
