package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/platform/money"
	"github.com/gridironsim/capengine/internal/usecase"
)

// SignContract books a new contract for a team. The bridge validates the
// request against cap space before anything is written; a rejection leaves
// the ledger untouched.
func (h *Handler) SignContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SignContract")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	teamID := r.PathValue("teamID")

	var req signContractRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	terms := make([]usecase.YearTerms, 0, len(req.YearTerms))
	for _, year := range req.YearTerms {
		terms = append(terms, usecase.YearTerms{
			BaseSalary:    money.Cents(year.BaseSalaryCents),
			RosterBonus:   money.Cents(year.RosterBonusCents),
			WorkoutBonus:  money.Cents(year.WorkoutBonusCents),
			Guaranteed:    year.Guaranteed,
			GuaranteeType: guaranteeTypeFromRequest(year.GuaranteeType, year.Guaranteed),
		})
	}

	result, err := h.bridge.Execute(ctx, usecase.SignContractRequest{
		DynastyID:    dynastyID,
		PlayerID:     req.PlayerID,
		TeamID:       teamID,
		Kind:         contract.Kind(req.Kind),
		StartYear:    req.StartYear,
		Years:        req.Years,
		SigningBonus: money.Cents(req.SigningBonusCents),
		YearTerms:    terms,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "sign contract failed", "team_id", teamID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transactionResultToDTO(ctx, result))
}

func (h *Handler) RestructureContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RestructureContract")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	teamID := r.PathValue("teamID")

	var req restructureRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.bridge.Execute(ctx, usecase.RestructureRequest{
		DynastyID:  dynastyID,
		TeamID:     teamID,
		ContractID: req.ContractID,
		Season:     req.Season,
		Amount:     money.Cents(req.AmountCents),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "restructure failed", "team_id", teamID, "contract_id", req.ContractID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transactionResultToDTO(ctx, result))
}

func (h *Handler) ReleasePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReleasePlayer")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	teamID := r.PathValue("teamID")

	var req releaseRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.bridge.Execute(ctx, usecase.ReleaseRequest{
		DynastyID:  dynastyID,
		TeamID:     teamID,
		ContractID: req.ContractID,
		Season:     req.Season,
		Date:       req.Date,
		June1:      req.June1,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "release failed", "team_id", teamID, "contract_id", req.ContractID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transactionResultToDTO(ctx, result))
}

func (h *Handler) ApplyTag(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyTag")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	teamID := r.PathValue("teamID")

	var req applyTagRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.bridge.Execute(ctx, usecase.ApplyTagRequest{
		DynastyID: dynastyID,
		PlayerID:  req.PlayerID,
		TeamID:    teamID,
		Position:  req.Position,
		Season:    req.Season,
		Type:      tag.Type(req.Type),
		Exclusive: req.Exclusive,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply tag failed", "team_id", teamID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transactionResultToDTO(ctx, result))
}

func (h *Handler) ApplyRFATender(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyRFATender")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	teamID := r.PathValue("teamID")

	var req rfaTenderRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.bridge.Execute(ctx, usecase.RFATenderRequest{
		DynastyID:      dynastyID,
		PlayerID:       req.PlayerID,
		TeamID:         teamID,
		Season:         req.Season,
		Level:          tag.TenderLevel(req.Level),
		PreviousSalary: money.Cents(req.PreviousSalaryCents),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "rfa tender failed", "team_id", teamID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transactionResultToDTO(ctx, result))
}

// AcceptTender converts an offered tender into its one-year contract. The
// tender amount starts counting against the cap here, not at the offer.
func (h *Handler) AcceptTender(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptTender")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	tenderID := r.PathValue("tenderID")

	result, err := h.tags.AcceptTender(ctx, dynastyID, tenderID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept tender failed", "tender_id", tenderID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transactionResultDTO{
		Status:            string(usecase.StatusPersisted),
		Kind:              "accept_tender",
		ContractID:        result.Tender.ContractID,
		TenderAmountCents: int64(result.Amount),
		LogEntry:          logEntryPtr(result.LogEntry),
	})
}

// ExtendContract appends years and new bonus money to an active contract.
func (h *Handler) ExtendContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExtendContract")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	contractID := r.PathValue("contractID")

	var req extendContractRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	terms := make([]usecase.YearTerms, 0, len(req.YearTerms))
	for _, year := range req.YearTerms {
		terms = append(terms, usecase.YearTerms{
			BaseSalary:    money.Cents(year.BaseSalaryCents),
			RosterBonus:   money.Cents(year.RosterBonusCents),
			WorkoutBonus:  money.Cents(year.WorkoutBonusCents),
			Guaranteed:    year.Guaranteed,
			GuaranteeType: guaranteeTypeFromRequest(year.GuaranteeType, year.Guaranteed),
		})
	}

	extended, err := h.contracts.Extend(ctx, usecase.ExtendContractInput{
		DynastyID:       dynastyID,
		ContractID:      contractID,
		Season:          req.Season,
		AdditionalYears: req.AdditionalYears,
		SigningBonus:    money.Cents(req.SigningBonusCents),
		YearTerms:       terms,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "extend contract failed", "contract_id", contractID, "error", err)
		writeError(ctx, w, err)
		return
	}

	breakdown, err := h.reporting.ContractBreakdown(ctx, dynastyID, extended.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contractBreakdownToDTO(breakdown))
}

func logEntryPtr(entry txlog.Entry) *logEntryDTO {
	dto := logEntryToDTO(entry)
	return &dto
}
