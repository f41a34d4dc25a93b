package probe

import (
	"context"
	"time"
)

type Stage string

const (
	StageNumberCheck Stage = "number_check"
	StageOTPCheck    Stage = "otp_check"
	StageA2FCheck    Stage = "a2f_check"
)

type Outcome string

const (
	OutcomeFound                  Outcome = "found"
	OutcomeNotFound               Outcome = "not_found"
	OutcomeValid                  Outcome = "valid"
	OutcomeExpired                Outcome = "expired"
	OutcomeInvalid                Outcome = "invalid"
	OutcomeValidNeedsSecondFactor Outcome = "valid_needs_second_factor"
)

// Record is one immutable entry of the probe log.
type Record struct {
	ID               string    `json:"id" bson:"_id"`
	RequesterID      int64     `json:"requester_id" bson:"requester_id"`
	Stage            Stage     `json:"stage" bson:"stage"`
	PhoneNumber      string    `json:"phone_number" bson:"phone_number"`
	CorrelationToken string    `json:"correlation_token,omitempty" bson:"correlation_token,omitempty"`
	Outcome          Outcome   `json:"outcome" bson:"outcome"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// State is the current position of a requester in the flow. It is rewritten
// together with every appended record.
type State struct {
	RequesterID          int64     `json:"requester_id" bson:"_id"`
	PhoneNumber          string    `json:"phone_number" bson:"phone_number"`
	CorrelationToken     string    `json:"correlation_token" bson:"correlation_token"`
	Stage                Stage     `json:"stage" bson:"stage"`
	Outcome              Outcome   `json:"outcome" bson:"outcome"`
	AwaitingSecondFactor bool      `json:"awaiting_second_factor" bson:"awaiting_second_factor"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

// CanVerifyCode reports whether the last number check delivered a code.
func (s *State) CanVerifyCode() bool {
	return s != nil && s.PhoneNumber != "" && s.CorrelationToken != ""
}

func (s *State) CanVerifySecondFactor() bool {
	return s != nil && s.AwaitingSecondFactor && s.PhoneNumber != ""
}

// Filter narrows FindLatest. Zero values match anything.
type Filter struct {
	Stage   Stage
	Outcome Outcome
}

type Store interface {
	// Append writes rec to the log and replaces the requester state in one
	// unit of work.
	Append(ctx context.Context, rec Record, state State) error
	FindLatest(ctx context.Context, requesterID int64, filter Filter) (*Record, error)
	// GetState returns ErrNoState when the requester never ran a stage.
	GetState(ctx context.Context, requesterID int64) (*State, error)
}

// SessionStore keeps the serialized authentication session of a requester
// between stages. LoadSession returns nil data when nothing is stored.
type SessionStore interface {
	LoadSession(ctx context.Context, requesterID int64) ([]byte, error)
	StoreSession(ctx context.Context, requesterID int64, data []byte) error
	DeleteSession(ctx context.Context, requesterID int64) error
}

// Gateway is the external authentication service. Implementations scope one
// session per call and release it before returning.
type Gateway interface {
	RequestCode(ctx context.Context, requesterID int64, phone string) (string, error)
	VerifyCode(ctx context.Context, requesterID int64, phone, token, code string) error
	VerifySecondFactor(ctx context.Context, requesterID int64, phone, secret string) error
}

// Result is what a stage reports back to the command layer.
type Result struct {
	Stage       Stage
	Outcome     Outcome
	PhoneNumber string
	Record      *Record
}

// Terminal reports a completed login.
func (r Result) Terminal() bool {
	return r.Outcome == OutcomeValid
}
