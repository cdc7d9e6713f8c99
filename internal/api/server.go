package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/feedcorpus/backend/internal/corpus"
	"github.com/feedcorpus/backend/internal/engine"
	"github.com/feedcorpus/backend/internal/ranker"
	"github.com/feedcorpus/backend/internal/similarity"
	"github.com/feedcorpus/backend/internal/source"
	"github.com/feedcorpus/backend/internal/trends"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/collect", s.handleCollect)
	s.Router.HandleFunc("/api/v1/search", s.handleSearch)
	s.Router.HandleFunc("/api/v1/related", s.handleRelated)
	s.Router.HandleFunc("/api/v1/trends", s.handleTrends)
	s.Router.HandleFunc("/api/v1/documents", s.handleDocument)
	s.Router.HandleFunc("/api/v1/stats", s.handleStats)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

// Responses

type ErrorResponse struct {
	Error string `json:"error"`
}

type CollectResponse struct {
	Status string       `json:"status"`
	Stats  engine.Stats `json:"stats"`
}

type SearchResponse struct {
	Query   string          `json:"query"`
	Message string          `json:"message,omitempty"`
	Results []ranker.Result `json:"results"`
}

type RelatedResponse struct {
	K     int                                         `json:"k"`
	Pairs map[string]map[string][]similarity.Neighbor `json:"pairs"`
}

type TrendsResponse struct {
	Words  []string                  `json:"words"`
	Series map[string][]trends.Point `json:"series"`
}

type StatsResponse struct {
	Collection engine.Stats      `json:"collection"`
	Corpus     corpus.Summary    `json:"corpus"`
	TopWords   []corpus.WordStat `json:"top_words"`
}

type StatusResponse struct {
	Ready     bool   `json:"ready"`
	Topic     string `json:"topic"`
	Documents int    `json:"documents"`
}

// Handlers

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Queries []source.Query `json:"queries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	stats, err := s.Engine.Collect(r.Context(), req.Queries)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, CollectResponse{Status: "collected", Stats: stats})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "no query entered"})
		return
	}

	results, err := s.Engine.Search(query)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := SearchResponse{Query: query, Results: results}
	if len(results) == 0 {
		resp.Results = []ranker.Result{}
		resp.Message = "no matching documents"
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	k := 3
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "parameter 'k' must be a positive integer"})
			return
		}
		k = parsed
	}

	jsonResponse(w, http.StatusOK, RelatedResponse{K: k, Pairs: s.Engine.Related(k)})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := r.URL.Query().Get("words")
	if raw == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "parameter 'words' is required"})
		return
	}
	words := strings.Split(raw, ",")

	table := s.Engine.Trends(words)
	series := make(map[string][]trends.Point, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		series[word] = trends.TimeSeries(table, word)
	}

	jsonResponse(w, http.StatusOK, TrendsResponse{Words: words, Series: series})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "parameter 'id' must be an integer"})
		return
	}

	doc, err := s.Engine.GetDocument(id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stemmed := r.URL.Query().Get("stem") == "true"
	top := 20
	if raw := r.URL.Query().Get("top"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			top = parsed
		}
	}

	words := s.Engine.WordStats(stemmed)
	if len(words) > top {
		words = words[:top]
	}

	resp := StatsResponse{
		Collection: s.Engine.Stats(),
		TopWords:   words,
	}
	if c := s.Engine.Corpus(); c != nil {
		resp.Corpus = c.Stats()
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Stats()
	jsonResponse(w, http.StatusOK, StatusResponse{
		Ready:     stats.Documents > 0,
		Topic:     stats.Topic,
		Documents: stats.Documents,
	})
}

// errorResponse maps domain errors onto HTTP statuses.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, corpus.ErrInvalidArgument):
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, corpus.ErrNotFound), errors.Is(err, corpus.ErrEmptySource):
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		s.Logger.WithError(err).Error("Request failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
