package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// scrapeRequest accepts French field names alongside English ones. English
// wins when both are set.
type scrapeRequest struct {
	Source  string   `json:"source"`
	Sources []string `json:"sources"`

	Title        string `json:"title"`
	Titre        string `json:"titre"`
	Sector       string `json:"sector"`
	Secteur      string `json:"secteur"`
	Location     string `json:"location"`
	Localisation string `json:"localisation"`
	Company      string `json:"company"`
	Entreprise   string `json:"entreprise"`
	Role         string `json:"role"`
	Emploi       string `json:"emploi"`
	CompanySize  string `json:"company_size"`
	TailleEntr   string `json:"taille_entreprise"`
	Keywords     string `json:"keywords"`
	Profession   string `json:"profession"`

	MaxResults *int `json:"max_results"`
}

func (r scrapeRequest) criteria() model.Criteria {
	return model.Criteria{
		Title:       model.FirstNonEmpty(r.Title, r.Titre),
		Sector:      model.FirstNonEmpty(r.Sector, r.Secteur),
		Location:    model.FirstNonEmpty(r.Location, r.Localisation),
		Company:     model.FirstNonEmpty(r.Company, r.Entreprise),
		Role:        model.FirstNonEmpty(r.Role, r.Emploi),
		CompanySize: model.FirstNonEmpty(r.CompanySize, r.TailleEntr),
		Keywords:    model.FirstNonEmpty(r.Keywords),
		Profession:  model.FirstNonEmpty(r.Profession),
	}
}

func (r scrapeRequest) sourceList() []string {
	if len(r.Sources) > 0 {
		return r.Sources
	}
	if r.Source != "" {
		return []string{r.Source}
	}
	return nil
}

type scrapeResponse struct {
	RequestID string                `json:"request_id"`
	Results   []model.ContactRecord `json:"results"`
	Count     int                   `json:"count"`
	Failures  []model.SourceFailure `json:"failures"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	maxResults := s.cfg.Aggregate.MaxResults
	if req.MaxResults != nil {
		maxResults = *req.MaxResults
	}
	if maxResults < 1 || maxResults > s.cfg.Aggregate.MaxResultsCap {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("max_results must be between 1 and %d", s.cfg.Aggregate.MaxResultsCap))
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	log := zap.L().With(zap.String("request_id", requestID))
	start := time.Now()

	res := s.aggregator.Aggregate(r.Context(), req.sourceList(), req.criteria(), maxResults)

	results := res.Records
	if results == nil {
		results = []model.ContactRecord{}
	}
	failures := res.Failures
	if failures == nil {
		failures = []model.SourceFailure{}
	}

	log.Info("server: scrape complete",
		zap.Strings("sources", req.sourceList()),
		zap.Int("count", len(results)),
		zap.Int("failures", len(failures)),
		zap.Duration("elapsed", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, scrapeResponse{
		RequestID: requestID,
		Results:   results,
		Count:     len(results),
		Failures:  failures,
	})
}

type enrichRequest struct {
	Name     string `json:"name"`
	Context  string `json:"context"`
	MaxPages *int   `json:"max_pages"`
}

type enrichResponse struct {
	Email  string       `json:"email"`
	Phone  string       `json:"phone"`
	Origin model.Origin `json:"origin"`
}

// maxEnrichPages bounds the per-request fetch fan-out.
const maxEnrichPages = 20

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if s.enricher == nil {
		writeError(w, http.StatusServiceUnavailable, "enrichment is disabled")
		return
	}

	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := model.FirstNonEmpty(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	pages := s.cfg.Enrich.MaxCandidatePages
	if req.MaxPages != nil {
		pages = *req.MaxPages
	}
	if pages < 1 || pages > maxEnrichPages {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("max_pages must be between 1 and %d", maxEnrichPages))
		return
	}

	res := s.enricher.Enrich(r.Context(), name, req.Context, pages)
	writeJSON(w, http.StatusOK, enrichResponse{
		Email:  placeholder(res.Email),
		Phone:  placeholder(res.Phone),
		Origin: res.Origin,
	})
}

func placeholder(v string) string {
	if v == "" {
		return model.Placeholder
	}
	return v
}
