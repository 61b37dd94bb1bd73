package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"repasse/internal/report"
	"repasse/internal/services"
	"repasse/internal/storage"
	"repasse/internal/upstream"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type generateReportRequest struct {
	CodigoIBGE    string `json:"codigo_ibge"`
	Competencia   string `json:"competencia"`
	MunicipioNome string `json:"municipio_nome"`
	UF            string `json:"uf"`
	Kind          string `json:"kind"`
}

// handleGenerateReport renders the projection report and streams it as
// a PDF attachment.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req generateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := report.KindSummary
	switch req.Kind {
	case "", string(report.KindSummary):
	case string(report.KindDetailed):
		kind = report.KindDetailed
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown report kind %q", req.Kind))
		return
	}

	pdfBytes, filename, err := s.api.GenerateReport(r.Context(), services.GenerateParams{
		CodigoIBGE:   req.CodigoIBGE,
		Competencia:  req.Competencia,
		Municipality: req.MunicipioNome,
		UF:           req.UF,
		Kind:         kind,
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "report generation failed",
			"codigo_ibge", req.CodigoIBGE, "competencia", req.Competencia, "error", err)
		writeError(w, http.StatusBadGateway, "could not generate the report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// handleFinancing proxies the upstream figures with the computed
// summary and projection attached.
func (s *Server) handleFinancing(w http.ResponseWriter, r *http.Request) {
	codigoIBGE := r.URL.Query().Get("codigo_ibge")
	competencia := r.URL.Query().Get("competencia")

	overview, err := s.api.Financing(r.Context(), codigoIBGE, competencia)
	switch {
	case errors.Is(err, upstream.ErrEmptyPayload):
		writeError(w, http.StatusNotFound, "no financing data for the requested period")
		return
	case err != nil && isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "financing lookup failed",
			"codigo_ibge", codigoIBGE, "competencia", competencia, "error", err)
		writeError(w, http.StatusBadGateway, "could not fetch financing data")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

type overrideResponse struct {
	CodigoIBGE         string    `json:"codigo_ibge"`
	Competencia        string    `json:"competencia"`
	PercaRecursoMensal []float64 `json:"perca_recurso_mensal"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (s *Server) handleGetOverride(w http.ResponseWriter, r *http.Request) {
	codigoIBGE := r.PathValue("ibge")
	competencia := r.PathValue("competencia")

	override, err := s.api.GetOverride(r.Context(), codigoIBGE, competencia)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no override stored for this period")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "override lookup failed",
			"codigo_ibge", codigoIBGE, "competencia", competencia, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load the override")
		return
	}

	writeJSON(w, http.StatusOK, overrideResponse{
		CodigoIBGE:         override.CodigoIBGE,
		Competencia:        override.Competencia,
		PercaRecursoMensal: override.MonthlyLosses,
		UpdatedAt:          override.UpdatedAt,
	})
}

type putOverrideRequest struct {
	PercaRecursoMensal []float64 `json:"perca_recurso_mensal"`
}

func (s *Server) handlePutOverride(w http.ResponseWriter, r *http.Request) {
	codigoIBGE := r.PathValue("ibge")
	competencia := r.PathValue("competencia")

	var req putOverrideRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, loss := range req.PercaRecursoMensal {
		if loss < 0 {
			writeError(w, http.StatusBadRequest, "monthly losses must not be negative")
			return
		}
	}

	err := s.api.SaveOverride(r.Context(), storage.LossOverride{
		CodigoIBGE:    codigoIBGE,
		Competencia:   competencia,
		MonthlyLosses: req.PercaRecursoMensal,
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "override save failed",
			"codigo_ibge", codigoIBGE, "competencia", competencia, "error", err)
		writeError(w, http.StatusInternalServerError, "could not save the override")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	codigoIBGE := r.PathValue("ibge")
	competencia := r.PathValue("competencia")

	if err := s.api.DeleteOverride(r.Context(), codigoIBGE, competencia); err != nil {
		s.logger.ErrorContext(r.Context(), "override delete failed",
			"codigo_ibge", codigoIBGE, "competencia", competencia, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete the override")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isValidationError reports whether the failure came from request
// parameters rather than a dependency.
func isValidationError(err error) bool {
	return errors.Is(err, upstream.ErrInvalidParams)
}
