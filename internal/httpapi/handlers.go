package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/validation"
)

type scanRequest struct {
	UserID  string `json:"user_id" validate:"omitempty,max=128"`
	Payload string `json:"payload" validate:"max=2048"`
}

type userRequest struct {
	Name  string `json:"name" validate:"required,max=128"`
	Email string `json:"email" validate:"omitempty,email"`
}

type redeemRequest struct {
	Points int `json:"points" validate:"required,gt=0"`
}

type pageQuery struct {
	Limit  int `validate:"gte=0,lte=200"`
	Offset int `validate:"gte=0"`
}

type breakdownQuery struct {
	Days int `validate:"gte=1,lte=90"`
}

type pointsResponse struct {
	UserID string `json:"user_id"`
	Today  int    `json:"today"`
	Week   int    `json:"week"`
}

type dayTotal struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// scanStatus maps each scan outcome to its HTTP status.
var scanStatus = map[domain.ScanReason]int{
	domain.ScanOK:               http.StatusOK,
	domain.ScanNotFound:         http.StatusNotFound,
	domain.ScanMismatch:         http.StatusUnprocessableEntity,
	domain.ScanAlreadyCompleted: http.StatusConflict,
	domain.ScanUpdateFailed:     http.StatusConflict,
}

func (h Handlers) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h Handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	list, err := h.Catalog.All(r.Context())
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.Activity{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"activities": list})
}

func (h Handlers) topActivities(w http.ResponseWriter, r *http.Request) {
	per, err := intQuery(r, "per_category", 2)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	groups, err := h.Catalog.TopByCategory(r.Context(), per)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": groups})
}

func (h Handlers) getActivity(w http.ResponseWriter, r *http.Request) {
	a, err := h.Catalog.ByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (h Handlers) scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondFailure(w, r, err)
		return
	}
	ctx := r.Context()

	if req.UserID != "" {
		if _, err := h.Users.Execute(ctx, req.UserID, "", ""); err != nil {
			respondFailure(w, r, err)
			return
		}
	}

	res, err := h.Scan.Execute(ctx, req.UserID, chi.URLParam(r, "code"), req.Payload)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	status, ok := scanStatus[res.Reason]
	if !ok {
		status = http.StatusInternalServerError
	}
	respondJSON(w, status, res)
}

func (h Handlers) putUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondFailure(w, r, err)
		return
	}
	u, err := h.Users.Execute(r.Context(), userID(r), req.Name, req.Email)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h Handlers) points(w http.ResponseWriter, r *http.Request) {
	ctx, id := r.Context(), userID(r)
	respondJSON(w, http.StatusOK, pointsResponse{
		UserID: id,
		Today:  h.Points.DailyPoints(ctx, id, time.Time{}),
		Week:   h.Points.WeeklyPoints(ctx, id, time.Time{}),
	})
}

func (h Handlers) breakdown(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", 7)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	q := breakdownQuery{Days: days}
	if err := validation.Struct(&q); err != nil {
		respondFailure(w, r, err)
		return
	}

	out := make([]dayTotal, 0, q.Days)
	for d := range h.Points.DailyBreakdown(r.Context(), userID(r), q.Days) {
		out = append(out, dayTotal{Date: d.Key(), Total: d.Total})
	}
	respondJSON(w, http.StatusOK, map[string]any{"user_id": userID(r), "days": out})
}

func (h Handlers) history(w http.ResponseWriter, r *http.Request) {
	q, err := readPage(r)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	events, err := h.History.Execute(r.Context(), userID(r), q.Limit, q.Offset)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.PointEvent{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h Handlers) standing(w http.ResponseWriter, r *http.Request) {
	self, err := h.Leaderboard.Standing(r.Context(), userID(r))
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if self == nil {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	respondJSON(w, http.StatusOK, self)
}

func (h Handlers) redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondFailure(w, r, err)
		return
	}
	red, err := h.Redeem.Execute(r.Context(), userID(r), req.Points)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, red)
}

func (h Handlers) listRedemptions(w http.ResponseWriter, r *http.Request) {
	q, err := readPage(r)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	list, err := h.Redeem.Recent(r.Context(), userID(r), q.Limit)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.Redemption{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"redemptions": list})
}

func (h Handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	q, err := readPage(r)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	entries, err := h.Leaderboard.Top(r.Context(), q.Limit)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	if entries == nil {
		entries = []*domain.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func readPage(r *http.Request) (pageQuery, error) {
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		return pageQuery{}, err
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		return pageQuery{}, err
	}
	q := pageQuery{Limit: limit, Offset: offset}
	if err := validation.Struct(&q); err != nil {
		return pageQuery{}, err
	}
	return q, nil
}
