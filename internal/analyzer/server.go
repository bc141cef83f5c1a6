package analyzer

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jward/prism/internal/runtime"
)

type analyzeRequest struct {
	Code string `json:"code"`
}

// Handler returns the HTTP surface of the service:
//
//	POST /analyze[?lang=<language>]  body {"code": "..."}
//	GET  /languages
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", enableCors(s.handleAnalyze))
	mux.HandleFunc("/languages", enableCors(s.handleLanguages))
	return mux
}

func enableCors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	res, err := s.Analyze(r.Context(), req.Code, r.URL.Query().Get("lang"))
	if errors.Is(err, ErrUnsupportedLanguage) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("warning: analyze: %v", err)
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, res)
}

func (s *Service) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"default":   s.language,
		"languages": runtime.Languages(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: encode response: %v", err)
	}
}
