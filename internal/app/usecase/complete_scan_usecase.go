package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/logging"
	"github.com/fardannozami/ecoscan-bot/internal/metrics"
)

type CompleteScanUsecase struct {
	repo domain.ActivityRepository
	now  func() time.Time
}

func NewCompleteScanUsecase(repo domain.ActivityRepository) *CompleteScanUsecase {
	return &CompleteScanUsecase{repo: repo, now: time.Now}
}

// WithClock replaces the time source stamped on ledger entries.
func (uc *CompleteScanUsecase) WithClock(now func() time.Time) *CompleteScanUsecase {
	uc.now = now
	return uc
}

// Execute validates a scanned QR payload against the activity identified by
// code and completes it. Business outcomes come back in the result; the
// error is reserved for store failures.
//
// The completion itself is a single conditional update (status must still
// be active). A caller whose update matched no row re-reads the status and
// still reports ok if someone else completed it; only the caller whose own
// update flipped the row gets Transitioned and a ledger entry.
func (uc *CompleteScanUsecase) Execute(ctx context.Context, userID, code, payload string) (domain.ScanResult, error) {
	res, err := uc.execute(ctx, userID, code, payload)
	if err != nil {
		return res, err
	}
	metrics.ScanResults.WithLabelValues(string(res.Reason)).Inc()
	if res.Transitioned {
		metrics.PointsAwarded.Add(float64(res.Points))
	}
	logging.Info().
		Str("code", code).
		Str("user_id", userID).
		Str("reason", string(res.Reason)).
		Bool("transitioned", res.Transitioned).
		Msg("scan processed")
	return res, nil
}

func (uc *CompleteScanUsecase) execute(ctx context.Context, userID, code, payload string) (domain.ScanResult, error) {
	activity, err := uc.repo.GetActivityByCode(ctx, code)
	if err != nil {
		return domain.ScanResult{}, uc.storeFailure("get activity", err)
	}
	if activity == nil {
		return domain.ScanResult{Reason: domain.ScanNotFound, Code: code}, nil
	}

	// Mismatch is reported before status so a wrong scan never learns
	// whether the activity is already done.
	if !domain.QRMatches(payload, activity.QRCodeValue) {
		return domain.ScanResult{Reason: domain.ScanMismatch, Code: activity.Code}, nil
	}

	if !activity.IsActive() {
		return domain.ScanResult{Reason: domain.ScanAlreadyCompleted, Code: activity.Code}, nil
	}

	ok := domain.ScanResult{Reason: domain.ScanOK, Points: activity.RewardPoints, Code: activity.Code}

	updated, err := uc.repo.CompleteActivity(ctx, activity.ID, uc.award(userID, payload, activity))
	if err != nil {
		return domain.ScanResult{}, uc.storeFailure("complete activity", err)
	}
	if updated != nil && domain.NormalizeStatus(updated.Status) == domain.StatusCompleted {
		ok.Transitioned = true
		return ok, nil
	}

	// Lost the race or the row changed between read and write.
	status, found, err := uc.repo.GetActivityStatus(ctx, activity.ID)
	if err != nil {
		return domain.ScanResult{}, uc.storeFailure("recheck activity", err)
	}
	if found && domain.NormalizeStatus(status) == domain.StatusCompleted {
		return ok, nil
	}
	return domain.ScanResult{Reason: domain.ScanUpdateFailed, Code: activity.Code}, nil
}

func (uc *CompleteScanUsecase) award(userID, payload string, activity *domain.Activity) *domain.PointEvent {
	if userID == "" {
		return nil
	}
	id := activity.ID
	return &domain.PointEvent{
		LogID:       uuid.NewString(),
		UserID:      userID,
		ActivityID:  &id,
		Action:      activity.Name,
		Reward:      domain.NewReward(activity.RewardPoints),
		ScannedCode: payload,
		Status:      domain.StatusCompleted,
		CreatedAt:   uc.now(),
	}
}

func (uc *CompleteScanUsecase) storeFailure(op string, err error) error {
	metrics.StoreErrors.WithLabelValues(op).Inc()
	return domain.WrapStore(op, err)
}
