package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muratoffalex/tgchecker/internal/logger"
)

// Guard serialises stages of one requester.
type Guard interface {
	Acquire(ctx context.Context, requesterID int64, command string) (context.Context, func(), error)
}

type Flow struct {
	store   Store
	gateway Gateway
	guard   Guard
	logger  logger.Logger
	now     func() time.Time
	newID   func() string
}

func NewFlow(store Store, gateway Gateway, guard Guard, l logger.Logger) *Flow {
	return &Flow{
		store:   store,
		gateway: gateway,
		guard:   guard,
		logger:  l.WithField("component", "probe"),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// CheckNumber asks the gateway to deliver a login code to phone.
func (f *Flow) CheckNumber(ctx context.Context, requesterID int64, phone string) (*Result, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, userInput("phone number is required")
	}

	ctx, release, err := f.acquire(ctx, requesterID, StageNumberCheck)
	if err != nil {
		return nil, err
	}
	defer release()

	l := f.logger.WithFields(logger.Fields{
		"requester_id": requesterID,
		"stage":        StageNumberCheck,
	})
	l.Info("Checking number")

	token, err := f.gateway.RequestCode(ctx, requesterID, phone)
	var outcome Outcome
	switch {
	case err == nil && token != "":
		outcome = OutcomeFound
	case err == nil:
		return nil, &GatewayFault{Stage: StageNumberCheck, Err: errors.New("empty correlation token")}
	case errors.Is(err, ErrInvalidNumber):
		outcome = OutcomeNotFound
		token = ""
	default:
		l.WithError(err).Error("Number check failed")
		return nil, &GatewayFault{Stage: StageNumberCheck, Err: err}
	}

	rec := f.newRecord(requesterID, StageNumberCheck, phone, token, outcome)
	state := State{
		RequesterID:      requesterID,
		PhoneNumber:      phone,
		CorrelationToken: token,
		Stage:            StageNumberCheck,
		Outcome:          outcome,
		UpdatedAt:        rec.CreatedAt,
	}
	if err := f.persist(ctx, rec, state); err != nil {
		return nil, err
	}

	l.WithField("outcome", outcome).Info("Number checked")
	return &Result{Stage: StageNumberCheck, Outcome: outcome, PhoneNumber: phone, Record: &rec}, nil
}

// CheckCode verifies a one-time code against the last delivered code.
func (f *Flow) CheckCode(ctx context.Context, requesterID int64, code string) (*Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, userInput("code is required")
	}

	ctx, release, err := f.acquire(ctx, requesterID, StageOTPCheck)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := f.loadState(ctx, requesterID, StageOTPCheck)
	if err != nil {
		return nil, err
	}
	if !state.CanVerifyCode() {
		return nil, &PreconditionError{Stage: StageOTPCheck, Required: StageNumberCheck}
	}

	l := f.logger.WithFields(logger.Fields{
		"requester_id": requesterID,
		"stage":        StageOTPCheck,
	})
	l.Info("Checking code")

	next := *state
	err = f.gateway.VerifyCode(ctx, requesterID, state.PhoneNumber, state.CorrelationToken, code)
	switch {
	case err == nil:
		next.Outcome = OutcomeValid
		next.CorrelationToken = ""
		next.AwaitingSecondFactor = false
	case errors.Is(err, ErrSecondFactorRequired):
		next.Outcome = OutcomeValidNeedsSecondFactor
		next.CorrelationToken = ""
		next.AwaitingSecondFactor = true
	case errors.Is(err, ErrCodeExpired):
		next.Outcome = OutcomeExpired
		next.CorrelationToken = ""
		next.AwaitingSecondFactor = false
	case errors.Is(err, ErrCodeInvalid):
		// the delivered code stays usable for another attempt
		next.Outcome = OutcomeInvalid
	default:
		l.WithError(err).Error("Code check failed")
		return nil, &GatewayFault{Stage: StageOTPCheck, Err: err}
	}

	rec := f.newRecord(requesterID, StageOTPCheck, state.PhoneNumber, state.CorrelationToken, next.Outcome)
	next.Stage = StageOTPCheck
	next.UpdatedAt = rec.CreatedAt
	if err := f.persist(ctx, rec, next); err != nil {
		return nil, err
	}

	l.WithField("outcome", next.Outcome).Info("Code checked")
	return &Result{Stage: StageOTPCheck, Outcome: next.Outcome, PhoneNumber: state.PhoneNumber, Record: &rec}, nil
}

// CheckSecondFactor verifies the cloud password of an account whose code was
// accepted with a second factor pending.
func (f *Flow) CheckSecondFactor(ctx context.Context, requesterID int64, secret string) (*Result, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, userInput("password is required")
	}

	ctx, release, err := f.acquire(ctx, requesterID, StageA2FCheck)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := f.loadState(ctx, requesterID, StageA2FCheck)
	if err != nil {
		return nil, err
	}
	if !state.CanVerifySecondFactor() {
		return nil, &PreconditionError{Stage: StageA2FCheck, Required: StageOTPCheck}
	}

	l := f.logger.WithFields(logger.Fields{
		"requester_id": requesterID,
		"stage":        StageA2FCheck,
	})
	l.Info("Checking second factor")

	next := *state
	err = f.gateway.VerifySecondFactor(ctx, requesterID, state.PhoneNumber, secret)
	switch {
	case err == nil:
		next.Outcome = OutcomeValid
		next.AwaitingSecondFactor = false
	case errors.Is(err, ErrSecondFactorInvalid):
		next.Outcome = OutcomeInvalid
	default:
		l.WithError(err).Error("Second factor check failed")
		return nil, &GatewayFault{Stage: StageA2FCheck, Err: err}
	}

	rec := f.newRecord(requesterID, StageA2FCheck, state.PhoneNumber, "", next.Outcome)
	next.Stage = StageA2FCheck
	next.UpdatedAt = rec.CreatedAt
	if err := f.persist(ctx, rec, next); err != nil {
		return nil, err
	}

	l.WithField("outcome", next.Outcome).Info("Second factor checked")
	return &Result{Stage: StageA2FCheck, Outcome: next.Outcome, PhoneNumber: state.PhoneNumber, Record: &rec}, nil
}

// History returns the latest record of requesterID that matches filter.
func (f *Flow) History(ctx context.Context, requesterID int64, filter Filter) (*Record, error) {
	rec, err := f.store.FindLatest(ctx, requesterID, filter)
	if err != nil {
		return nil, &StoreFault{Err: err}
	}
	return rec, nil
}

func (f *Flow) acquire(ctx context.Context, requesterID int64, stage Stage) (context.Context, func(), error) {
	if f.guard == nil {
		return ctx, func() {}, nil
	}
	ctx, release, err := f.guard.Acquire(ctx, requesterID, string(stage))
	if err != nil {
		f.logger.WithFields(logger.Fields{
			"requester_id": requesterID,
			"stage":        stage,
		}).Warn("Rejected concurrent check")
		return nil, nil, fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return ctx, release, nil
}

func (f *Flow) loadState(ctx context.Context, requesterID int64, stage Stage) (*State, error) {
	state, err := f.store.GetState(ctx, requesterID)
	if errors.Is(err, ErrNoState) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreFault{Stage: stage, Err: err}
	}
	return state, nil
}

func (f *Flow) persist(ctx context.Context, rec Record, state State) error {
	if err := f.store.Append(ctx, rec, state); err != nil {
		f.logger.WithError(err).WithFields(logger.Fields{
			"requester_id": rec.RequesterID,
			"stage":        rec.Stage,
			"outcome":      rec.Outcome,
		}).Error("Failed to persist probe record")
		return &StoreFault{Stage: rec.Stage, Err: err}
	}
	return nil
}

func (f *Flow) newRecord(requesterID int64, stage Stage, phone, token string, outcome Outcome) Record {
	return Record{
		ID:               f.newID(),
		RequesterID:      requesterID,
		Stage:            stage,
		PhoneNumber:      phone,
		CorrelationToken: token,
		Outcome:          outcome,
		CreatedAt:        f.now(),
	}
}
