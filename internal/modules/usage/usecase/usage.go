package usecase

import (
	"context"

	"pmprep/internal/modules/usage/domain"
	"pmprep/internal/modules/usage/dto"
	usagein "pmprep/internal/modules/usage/port/in"
	"pmprep/internal/modules/usage/service"
)

type Interactor struct {
	tracker *service.Tracker
}

func NewInteractor(tracker *service.Tracker) usagein.Usecase {
	return &Interactor{tracker: tracker}
}

func (i *Interactor) Fingerprint(ctx context.Context) string {
	return i.tracker.EnsureFingerprint(ctx)
}

func (i *Interactor) Check(ctx context.Context) (dto.StatusOutput, error) {
	status, err := i.tracker.CheckLimit(ctx)
	out := toOutput(status)
	out.Degraded = err != nil
	return out, err
}

func (i *Interactor) Track(ctx context.Context) (dto.StatusOutput, error) {
	status, err := i.tracker.TrackQuestion(ctx)
	out := toOutput(status)
	out.Degraded = err != nil
	return out, err
}

func (i *Interactor) Snapshot(_ context.Context) (dto.StatusOutput, bool) {
	status, ok := i.tracker.Snapshot()
	if !ok {
		return dto.StatusOutput{}, false
	}
	return toOutput(status), true
}

func toOutput(status domain.Status) dto.StatusOutput {
	locked := make(map[string]bool, len(status.Locked))
	for feature, isLocked := range status.Locked {
		locked[string(feature)] = isLocked
	}
	return dto.StatusOutput{
		Plan:                string(status.Plan),
		CanPractice:         status.CanPractice,
		QuestionsUsed:       status.QuestionsUsed,
		QuestionsRemaining:  status.QuestionsRemaining,
		QuestionsLimit:      status.QuestionsLimit,
		TrialHoursRemaining: status.TrialHoursRemaining,
		Locked:              locked,
		Authenticated:       status.Authenticated(),
	}
}
