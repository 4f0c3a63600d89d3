package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/isAdamBailey/black-circles/data"
	"github.com/isAdamBailey/black-circles/db"
	"github.com/isAdamBailey/black-circles/suggest"
	"go.uber.org/zap"
)

const defaultLimit = 5

func (s *Server) handleMoods(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"moods": suggest.Moods()})
}

func (s *Server) handleSuggest(w http.ResponseWriter, req *http.Request) {
	suggestion, err := s.suggester.ForMood(req.Context(), req.PathValue("mood"), limitParam(req))
	switch {
	case errors.Is(err, suggest.ErrUnknownMood):
		writeError(w, http.StatusNotFound, "unknown mood")
	case errors.Is(err, suggest.ErrEmptyCollection):
		s.emptyCollection(w)
	case err != nil:
		s.internalError(w, req, err)
	default:
		writeJSON(w, http.StatusOK, suggestion)
	}
}

func (s *Server) handleVibe(w http.ResponseWriter, req *http.Request) {
	if !s.vibeOK {
		writeError(w, http.StatusBadRequest, "Hugging Face API is not configured")
		return
	}

	var body struct {
		Prompt string `json:"prompt"`
		Limit  int    `json:"limit"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	prompt := strings.TrimSpace(body.Prompt)
	if length := utf8.RuneCountInString(prompt); length < 3 || length > 500 {
		writeError(w, http.StatusBadRequest, "prompt must be between 3 and 500 characters")
		return
	}
	limit := body.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	suggestion, err := s.suggester.ForVibe(req.Context(), prompt, limit)
	switch {
	case errors.Is(err, suggest.ErrEmptyCollection):
		s.emptyCollection(w)
	case err != nil:
		s.internalError(w, req, err)
	default:
		writeJSON(w, http.StatusOK, suggestion)
	}
}

func (s *Server) handleSync(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Username string `json:"username"`
		Fast     bool   `json:"fast"`
	}
	if req.ContentLength != 0 {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	username := strings.TrimSpace(body.Username)
	if username == "" {
		saved, err := s.db.Setting(req.Context(), db.SettingDiscogsUsername)
		if err != nil {
			s.internalError(w, req, err)
			return
		}
		username = saved
	}
	if username == "" {
		writeError(w, http.StatusBadRequest, "no username; save one in settings or pass it in the request")
		return
	}

	synced, err := s.fetcher.Sync(req.Context(), username, body.Fast)
	if err != nil {
		s.internalError(w, req, err)
		return
	}

	resp := map[string]interface{}{"synced": synced, "username": username}
	if synced == 0 {
		resp["warning"] = "No items synced. Check the username, that the collection has items, and that a token is configured for rate limits."
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCollection(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	perPage := intParam(q.Get("per_page"), 50)
	page := intParam(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}

	releases, err := s.db.BrowseReleases(req.Context(),
		q.Get("search"), q["genre"], q["style"], perPage, (page-1)*perPage)
	if err != nil {
		s.internalError(w, req, err)
		return
	}

	projections := make([]suggest.Projection, len(releases))
	for i := range releases {
		projections[i] = suggest.Format(&releases[i])
	}

	total, err := s.db.CollectionCount(req.Context())
	if err != nil {
		s.internalError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"releases": projections,
		"page":     page,
		"total":    total,
	})
}

func (s *Server) handleRandom(w http.ResponseWriter, req *http.Request) {
	releases, err := s.suggester.Random(req.Context(), 1)
	if err != nil {
		s.internalError(w, req, err)
		return
	}
	if len(releases) == 0 {
		s.emptyCollection(w)
		return
	}
	writeJSON(w, http.StatusOK, suggest.Format(&releases[0]))
}

// releaseResponse is the full single-release view, enriched on demand.
type releaseResponse struct {
	suggest.Projection
	Label         string                `json:"label"`
	CatalogNumber string                `json:"catalog_number"`
	Formats       []data.Format         `json:"formats"`
	Tracklist     []data.TracklistEntry `json:"tracklist"`
	Videos        []data.Video          `json:"videos"`
	Images        []data.Image          `json:"images"`
	Notes         string                `json:"notes"`
	DiscogsURI    string                `json:"discogs_uri"`
	LowestPrice   *float64              `json:"lowest_price"`
	MedianPrice   *float64              `json:"median_price"`
	HighestPrice  *float64              `json:"highest_price"`
}

func (s *Server) handleRelease(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(req.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid release id")
		return
	}

	release, err := s.db.GetRelease(req.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "release not found")
		return
	}

	enriched, err := s.fetcher.Enrich(req.Context(), release)
	if err != nil {
		s.internalError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, releaseResponse{
		Projection:    suggest.Format(enriched),
		Label:         enriched.Label,
		CatalogNumber: enriched.CatalogNumber,
		Formats:       enriched.Formats,
		Tracklist:     enriched.Tracklist,
		Videos:        enriched.Videos,
		Images:        enriched.Images,
		Notes:         enriched.Notes,
		DiscogsURI:    enriched.DiscogsURI,
		LowestPrice:   enriched.LowestPrice,
		MedianPrice:   enriched.MedianPrice,
		HighestPrice:  enriched.HighestPrice,
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, req *http.Request) {
	username, err := s.db.Setting(req.Context(), db.SettingDiscogsUsername)
	if err != nil {
		s.internalError(w, req, err)
		return
	}
	lastSynced, err := s.db.Setting(req.Context(), db.SettingLastSynced)
	if err != nil {
		s.internalError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"discogs_username":       username,
		"collection_last_synced": lastSynced,
	})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, req *http.Request) {
	var body struct {
		DiscogsUsername string `json:"discogs_username"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.TrimSpace(body.DiscogsUsername)
	if !db.ValidDiscogsUsername(username) {
		writeError(w, http.StatusBadRequest, "discogs_username is required and may only contain letters, numbers, dashes, and underscores")
		return
	}

	if err := s.db.SetSetting(req.Context(), db.SettingDiscogsUsername, username); err != nil {
		s.internalError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"discogs_username": username})
}

func (s *Server) emptyCollection(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "Your collection is empty. Sync your Discogs collection to get suggestions.")
}

func (s *Server) internalError(w http.ResponseWriter, req *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("path", req.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func limitParam(req *http.Request) int {
	return intParam(req.URL.Query().Get("limit"), defaultLimit)
}

func intParam(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
