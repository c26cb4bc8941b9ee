package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/domain/model"
	"purchase-registry/internal/infra/logging"
)

const (
	maxBodyBytes    = 64 << 10
	maxSummaryCodes = 100
)

type verifyRequest struct {
	Code    string `json:"code"`
	Details bool   `json:"details"`
}

type verifyResponse struct {
	Valid    bool         `json:"valid"`
	Purchase *purchaseDTO `json:"purchase,omitempty"`
	Status   string       `json:"status,omitempty"`
}

type purchaseDTO struct {
	ItemID         string     `json:"item_id"`
	ItemName       string     `json:"item_name"`
	Buyer          string     `json:"buyer"`
	Licence        string     `json:"licence"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	SupportedUntil time.Time  `json:"supported_until"`
}

type summaryDTO struct {
	Code     string       `json:"code"`
	Purchase *purchaseDTO `json:"purchase,omitempty"`
	Status   string       `json:"status,omitempty"`
	Error    string       `json:"error,omitempty"`
	Message  string       `json:"message,omitempty"`
}

type codesRequest struct {
	Codes []string `json:"codes"`
}

type attachRequest struct {
	Code string `json:"code"`
}

func toPurchaseDTO(rec *model.PurchaseRecord) *purchaseDTO {
	if rec == nil {
		return nil
	}
	return &purchaseDTO{
		ItemID:         rec.ItemID,
		ItemName:       rec.ItemName,
		Buyer:          rec.Buyer,
		Licence:        rec.Licence,
		CreatedAt:      rec.CreatedAt,
		SupportedUntil: rec.SupportedUntil,
	}
}

func decodeBody(r *http.Request, w http.ResponseWriter, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrInvalidArgument
	}
	return nil
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.purchaseUC.Verify(r.Context(), req.Code, req.Details)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := verifyResponse{Valid: true}
	if rec != nil {
		resp.Purchase = toPurchaseDTO(rec)
		resp.Status = string(s.purchaseUC.Status(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	var req codesRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Codes) == 0 || len(req.Codes) > maxSummaryCodes {
		s.writeError(w, r, domain.ErrInvalidArgument)
		return
	}
	s.writeSummaries(w, r, req.Codes)
}

func (s *Server) writeSummaries(w http.ResponseWriter, r *http.Request, codes []string) {
	sums, err := s.purchaseUC.Summaries(r.Context(), codes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]summaryDTO, 0, len(sums))
	for _, sum := range sums {
		dto := summaryDTO{Code: sum.Code, Purchase: toPurchaseDTO(sum.Record)}
		if sum.Err != nil {
			dto.Error = domain.Kind(sum.Err)
			dto.Message = s.message(dto.Error)
		} else {
			dto.Status = string(sum.Status)
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.purchaseUC.ItemInfo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleMarketUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.purchaseUC.UserInfo(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := logging.Identity(ctx)

	var req attachRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	// rejected input must not use up the caller's quota
	if req.Code == "" {
		s.writeError(w, r, domain.ErrEmptyCode)
		return
	}

	if s.opts.Limiter != nil && s.opts.AttachPerHour > 0 {
		ok, err := s.opts.Limiter.Allow(ctx, s.opts.AttachKey(identity), s.opts.AttachPerHour, time.Hour)
		if err != nil {
			// a broken limiter must not block registrations
			l := logging.With(ctx, s.log)
			l.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !ok {
			s.writeErrorKind(w, http.StatusTooManyRequests, domain.Kind(domain.ErrRateLimited), time.Hour.String())
			return
		}
	}

	if err := s.registryUC.Attach(ctx, identity, req.Code); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachRequest{Code: req.Code})
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	codes, err := s.registryUC.Codes(r.Context(), logging.Identity(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(codes) == 0 {
		writeJSON(w, http.StatusOK, []summaryDTO{})
		return
	}
	s.writeSummaries(w, r, codes)
}
