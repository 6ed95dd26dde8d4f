package httpapi

import (
	"net/http"
)

func (h *Handler) GetTeamCapSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamCapSummary")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	teamID := r.PathValue("teamID")
	season, err := parseSeason(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.reporting.TeamCapSummary(ctx, dynastyID, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "team cap summary failed", "team_id", teamID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamCapSummaryToDTO(summary))
}

func (h *Handler) GetContractBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContractBreakdown")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	contractID := r.PathValue("contractID")

	breakdown, err := h.reporting.ContractBreakdown(ctx, dynastyID, contractID)
	if err != nil {
		h.logger.WarnContext(ctx, "contract breakdown failed", "contract_id", contractID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contractBreakdownToDTO(breakdown))
}

func (h *Handler) GetComplianceReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetComplianceReport")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	season, err := parseSeason(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.reporting.ComplianceReport(ctx, dynastyID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "compliance report failed", "dynasty_id", dynastyID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := complianceReportDTO{Season: report.Season}
	for _, team := range report.Teams {
		dto.Teams = append(dto.Teams, teamCapSummaryToDTO(team))
	}
	for _, violation := range report.Violations {
		dto.Violations = append(dto.Violations, violationToDTO(violation))
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTransactionHistory")
	defer span.End()

	dynastyID := r.PathValue("dynastyID")
	teamID := r.PathValue("teamID")
	season, err := parseSeason(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.reporting.TransactionHistory(ctx, dynastyID, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "transaction history failed", "team_id", teamID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]logEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, logEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
