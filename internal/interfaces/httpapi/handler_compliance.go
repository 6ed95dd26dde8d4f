package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironsim/capengine/internal/usecase"
)

// RunComplianceSweep checks every team in a dynasty against the hard cap
// and spending floor, optionally rolling unused cap space forward into the
// next season. League schedulers call this around the league-year deadline.
func (h *Handler) RunComplianceSweep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunComplianceSweep")
	defer span.End()

	var req complianceSweepRequest
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

	violations, err := h.compliance.CheckLeagueWideCompliance(ctx, req.DynastyID, req.Season, req.Deadline)
	if err != nil {
		h.logger.ErrorContext(ctx, "compliance sweep failed", "dynasty_id", req.DynastyID, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	if req.RollCarryover {
		if err := h.compliance.RollCarryover(ctx, req.DynastyID, req.Season); err != nil {
			h.logger.ErrorContext(ctx, "carryover roll failed", "dynasty_id", req.DynastyID, "season", req.Season, "error", err)
			writeError(ctx, w, err)
			return
		}
	}

	out := make([]violationDTO, 0, len(violations))
	for _, violation := range violations {
		out = append(out, violationToDTO(violation))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"season":          req.Season,
		"violations":      out,
		"carryoverRolled": req.RollCarryover,
	})
}
