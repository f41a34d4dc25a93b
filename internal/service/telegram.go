package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/muratoffalex/tgchecker/internal/cache"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/network"
	"github.com/muratoffalex/tgchecker/internal/probe"
)

const (
	mtprotoTimeout = 45 * time.Second
	profileTTL     = 10 * time.Minute

	// botSessionID keys the bot's own MTProto session in the session store.
	// Telegram user ids are always positive.
	botSessionID int64 = 0
)

var (
	errUnexpectedSentCode = errors.New("unexpected sent code type")
	errSignUpRequired     = errors.New("number has no account, sign up required")
)

type TelegramProfile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	LangCode  string `json:"lang_code"`
	About     string `json:"about"`
	Bot       bool   `json:"bot"`
	Premium   bool   `json:"premium"`
	Verified  bool   `json:"verified"`
	Scam      bool   `json:"scam"`
	Fake      bool   `json:"fake"`
}

// TelegramAPI talks MTProto. Every call runs on a fresh client that is torn
// down before the call returns, the auth key survives in the session store.
type TelegramAPI struct {
	apiID    int
	apiHash  string
	botToken string
	sessions probe.SessionStore
	dial     network.DialFunc
	cache    cache.Cache
	log      logger.Logger
}

func NewTelegramAPI(
	apiID int,
	apiHash, botToken string,
	sessions probe.SessionStore,
	dial network.DialFunc,
	cache cache.Cache,
	l logger.Logger,
) *TelegramAPI {
	return &TelegramAPI{
		apiID:    apiID,
		apiHash:  apiHash,
		botToken: botToken,
		sessions: sessions,
		dial:     dial,
		cache:    cache,
		log:      l.WithField("component", "mtproto"),
	}
}

// sessionAction says what happens to the requester's stored session once a
// gateway call has been classified.
type sessionAction int

const (
	sessionKeep sessionAction = iota
	sessionReplace
	sessionDrop
)

type codeSender interface {
	SendCode(ctx context.Context, phone string, options auth.SendCodeOptions) (tg.AuthSentCodeClass, error)
}

type codeSigner interface {
	SignIn(ctx context.Context, phone, code, codeHash string) (*tg.AuthAuthorization, error)
}

type passwordSigner interface {
	Password(ctx context.Context, password string) (*tg.AuthAuthorization, error)
}

type logOuter interface {
	AuthLogOut(ctx context.Context) (*tg.AuthLoggedOut, error)
}

// RequestCode starts a login for phone on a brand new auth key and returns the
// phone code hash. The key lives in a scratch session and only replaces the
// requester's stored one when the number was classified.
func (t *TelegramAPI) RequestCode(ctx context.Context, requesterID int64, phone string) (string, error) {
	scratch := new(session.StorageMemory)

	var hash string
	err := t.run(ctx, scratch, func(ctx context.Context, client *telegram.Client) error {
		var err error
		hash, err = requestCode(ctx, client.Auth(), phone)
		return err
	})
	err = classifySendCodeError(err)

	if serr := t.applySession(ctx, requesterID, afterSendCode(err), scratch); serr != nil {
		return "", serr
	}
	if err != nil {
		return "", err
	}

	t.log.WithField("requester_id", requesterID).Debug("Login code requested")
	return hash, nil
}

func (t *TelegramAPI) VerifyCode(ctx context.Context, requesterID int64, phone, hash, code string) error {
	err := t.run(ctx, t.storage(requesterID), func(ctx context.Context, client *telegram.Client) error {
		return t.signIn(ctx, client.Auth(), client.API(), requesterID, phone, code, hash)
	})
	err = classifySignInError(err)

	if serr := t.applySession(ctx, requesterID, afterSignIn(err), nil); serr != nil {
		return serr
	}
	return err
}

func (t *TelegramAPI) VerifySecondFactor(ctx context.Context, requesterID int64, phone, secret string) error {
	err := t.run(ctx, t.storage(requesterID), func(ctx context.Context, client *telegram.Client) error {
		return t.checkPassword(ctx, client.Auth(), client.API(), requesterID, secret)
	})
	err = classifyPasswordError(err)

	if serr := t.applySession(ctx, requesterID, afterPassword(err), nil); serr != nil {
		return serr
	}
	return err
}

// LookupUser resolves a user profile through the bot account.
func (t *TelegramAPI) LookupUser(ctx context.Context, userID int64) (*TelegramProfile, error) {
	if t.botToken == "" {
		return nil, probe.ErrGatewayNotConfigured
	}

	key := cache.LocalKey("tg:user", userID)
	var profile *TelegramProfile
	if ok := cache.GetJSON(t.cache, key, &profile); ok {
		return profile, nil
	}

	err := t.run(ctx, t.storage(botSessionID), func(ctx context.Context, client *telegram.Client) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			if _, err := client.Auth().Bot(ctx, t.botToken); err != nil {
				return fmt.Errorf("bot auth: %w", err)
			}
		}

		api := client.API()
		input := &tg.InputUser{UserID: userID}
		users, err := api.UsersGetUsers(ctx, []tg.InputUserClass{input})
		if err != nil {
			return fmt.Errorf("get users: %w", err)
		}
		for _, u := range users {
			if user, ok := u.(*tg.User); ok && user.ID == userID {
				profile = profileFromUser(user)
				input.AccessHash = user.AccessHash
				break
			}
		}
		if profile == nil {
			return fmt.Errorf("user %d not found", userID)
		}

		full, err := api.UsersGetFullUser(ctx, input)
		if err != nil {
			t.log.WithError(err).WithField("user_id", userID).Debug("Full user unavailable")
			return nil
		}
		profile.About = full.FullUser.About
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.SetJSON(t.cache, key, profile, profileTTL)
	return profile, nil
}

func (t *TelegramAPI) run(ctx context.Context, storage session.Storage, fn func(ctx context.Context, client *telegram.Client) error) error {
	if t.apiID == 0 || t.apiHash == "" {
		return probe.ErrGatewayNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, mtprotoTimeout)
	defer cancel()

	opts := telegram.Options{
		SessionStorage: storage,
		NoUpdates:      true,
	}
	if t.dial != nil {
		opts.Resolver = dcs.Plain(dcs.PlainOptions{Dial: dcs.DialFunc(t.dial)})
	}
	client := telegram.NewClient(t.apiID, t.apiHash, opts)

	return client.Run(ctx, func(ctx context.Context) error {
		return fn(ctx, client)
	})
}

func (t *TelegramAPI) storage(id int64) session.Storage {
	return &sessionStorage{store: t.sessions, id: id}
}

func requestCode(ctx context.Context, a codeSender, phone string) (string, error) {
	sent, err := a.SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		return "", err
	}
	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return "", fmt.Errorf("%w: %T", errUnexpectedSentCode, sent)
	}
	return code.PhoneCodeHash, nil
}

func (t *TelegramAPI) signIn(ctx context.Context, a codeSigner, api logOuter, requesterID int64, phone, code, hash string) error {
	if _, err := a.SignIn(ctx, phone, code, hash); err != nil {
		return err
	}
	t.logout(ctx, api, requesterID)
	return nil
}

func (t *TelegramAPI) checkPassword(ctx context.Context, a passwordSigner, api logOuter, requesterID int64, secret string) error {
	if _, err := a.Password(ctx, secret); err != nil {
		return err
	}
	t.logout(ctx, api, requesterID)
	return nil
}

func (t *TelegramAPI) logout(ctx context.Context, api logOuter, requesterID int64) {
	if _, err := api.AuthLogOut(ctx); err != nil {
		t.log.WithError(err).WithField("requester_id", requesterID).Warn("Failed to log out probe session")
	}
}

// applySession carries out action for requesterID. scratch is only read on
// sessionReplace.
func (t *TelegramAPI) applySession(ctx context.Context, requesterID int64, action sessionAction, scratch *session.StorageMemory) error {
	switch action {
	case sessionReplace:
		data, err := scratch.LoadSession(ctx)
		if err != nil {
			return fmt.Errorf("read scratch session: %w", err)
		}
		if err := t.sessions.StoreSession(ctx, requesterID, data); err != nil {
			return fmt.Errorf("store session: %w", err)
		}
	case sessionDrop:
		if err := t.sessions.DeleteSession(ctx, requesterID); err != nil {
			t.log.WithError(err).WithField("requester_id", requesterID).Warn("Failed to delete probe session")
		}
	}
	return nil
}

// afterSendCode keeps the previous session on faults: nothing is recorded for
// them, so the stored stage-1 token still belongs to the stored key.
func afterSendCode(err error) sessionAction {
	switch {
	case err == nil:
		return sessionReplace
	case errors.Is(err, probe.ErrInvalidNumber):
		return sessionDrop
	default:
		return sessionKeep
	}
}

// afterSignIn drops the session once the code is spent. A wrong code or a
// pending second factor keeps it for the retry or for stage 3.
func afterSignIn(err error) sessionAction {
	switch {
	case err == nil, errors.Is(err, probe.ErrCodeExpired):
		return sessionDrop
	default:
		return sessionKeep
	}
}

func afterPassword(err error) sessionAction {
	if err == nil {
		return sessionDrop
	}
	return sessionKeep
}

func classifySendCodeError(err error) error {
	if tgerr.Is(err, "PHONE_NUMBER_INVALID", "PHONE_NUMBER_UNOCCUPIED") {
		return fmt.Errorf("%w: %v", probe.ErrInvalidNumber, err)
	}
	return err
}

func classifySignInError(err error) error {
	var signUp *auth.SignUpRequired
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrPasswordAuthNeeded):
		return probe.ErrSecondFactorRequired
	case tgerr.Is(err, "PHONE_CODE_EXPIRED"):
		return fmt.Errorf("%w: %v", probe.ErrCodeExpired, err)
	case tgerr.Is(err, "PHONE_CODE_INVALID", "PHONE_CODE_EMPTY"):
		return fmt.Errorf("%w: %v", probe.ErrCodeInvalid, err)
	case errors.As(err, &signUp):
		return errSignUpRequired
	default:
		return err
	}
}

func classifyPasswordError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrPasswordInvalid), tgerr.Is(err, "PASSWORD_HASH_INVALID"):
		return fmt.Errorf("%w: %v", probe.ErrSecondFactorInvalid, err)
	default:
		return err
	}
}

func profileFromUser(u *tg.User) *TelegramProfile {
	return &TelegramProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Phone:     u.Phone,
		LangCode:  u.LangCode,
		Bot:       u.Bot,
		Premium:   u.Premium,
		Verified:  u.Verified,
		Scam:      u.Scam,
		Fake:      u.Fake,
	}
}

// sessionStorage adapts probe.SessionStore to gotd's session.Storage.
type sessionStorage struct {
	store probe.SessionStore
	id    int64
}

func (s *sessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	data, err := s.store.LoadSession(ctx, s.id)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, session.ErrNotFound
	}
	return data, nil
}

func (s *sessionStorage) StoreSession(ctx context.Context, data []byte) error {
	return s.store.StoreSession(ctx, s.id, data)
}
