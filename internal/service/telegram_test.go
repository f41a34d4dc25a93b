package service

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muratoffalex/tgchecker/internal/cache"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/probe"
)

type memSessions struct {
	data map[int64][]byte
}

func (m *memSessions) LoadSession(_ context.Context, id int64) ([]byte, error) {
	return m.data[id], nil
}

func (m *memSessions) StoreSession(_ context.Context, id int64, data []byte) error {
	m.data[id] = data
	return nil
}

func (m *memSessions) DeleteSession(_ context.Context, id int64) error {
	delete(m.data, id)
	return nil
}

func TestSessionStorage(t *testing.T) {
	ctx := context.Background()
	store := &memSessions{data: map[int64][]byte{}}
	s := &sessionStorage{store: store, id: 42}

	_, err := s.LoadSession(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, s.StoreSession(ctx, []byte("auth-key")))
	data, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("auth-key"), data)

	other := &sessionStorage{store: store, id: 43}
	_, err = other.LoadSession(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestClassifySendCodeError(t *testing.T) {
	assert.ErrorIs(t, classifySendCodeError(tgerr.New(400, "PHONE_NUMBER_INVALID")), probe.ErrInvalidNumber)
	assert.ErrorIs(t, classifySendCodeError(tgerr.New(400, "PHONE_NUMBER_UNOCCUPIED")), probe.ErrInvalidNumber)

	flood := tgerr.New(420, "FLOOD_WAIT_30")
	err := classifySendCodeError(flood)
	assert.NotErrorIs(t, err, probe.ErrInvalidNumber)
	assert.Equal(t, flood, err)
}

func TestClassifySignInError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"password needed", auth.ErrPasswordAuthNeeded, probe.ErrSecondFactorRequired},
		{"expired", tgerr.New(400, "PHONE_CODE_EXPIRED"), probe.ErrCodeExpired},
		{"invalid", tgerr.New(400, "PHONE_CODE_INVALID"), probe.ErrCodeInvalid},
		{"empty", tgerr.New(400, "PHONE_CODE_EMPTY"), probe.ErrCodeInvalid},
		{"sign up", &auth.SignUpRequired{}, errSignUpRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifySignInError(tt.in), tt.want)
		})
	}

	assert.NoError(t, classifySignInError(nil))

	raw := errors.New("connection reset")
	assert.Equal(t, raw, classifySignInError(raw))
}

func TestClassifyPasswordError(t *testing.T) {
	assert.NoError(t, classifyPasswordError(nil))
	assert.ErrorIs(t, classifyPasswordError(auth.ErrPasswordInvalid), probe.ErrSecondFactorInvalid)
	assert.ErrorIs(t, classifyPasswordError(tgerr.New(400, "PASSWORD_HASH_INVALID")), probe.ErrSecondFactorInvalid)

	raw := tgerr.New(500, "INTERNAL")
	assert.Equal(t, raw, classifyPasswordError(raw))
}

func TestTelegramAPI_NotConfigured(t *testing.T) {
	api := NewTelegramAPI(0, "", "", &memSessions{data: map[int64][]byte{}}, nil, cache.NewMemoryCache(0), logger.NewTestLogger())

	_, err := api.RequestCode(context.Background(), 1, "+1555")
	assert.ErrorIs(t, err, probe.ErrGatewayNotConfigured)

	_, err = api.LookupUser(context.Background(), 1)
	assert.ErrorIs(t, err, probe.ErrGatewayNotConfigured)
}

func TestTelegramAPI_LookupUserCached(t *testing.T) {
	c := cache.NewMemoryCache(0)
	require.NoError(t, cache.SetJSON(c, cache.LocalKey("tg:user", 7), &TelegramProfile{ID: 7, Username: "ann"}, profileTTL))

	api := NewTelegramAPI(1, "hash", "token", &memSessions{data: map[int64][]byte{}}, nil, c, logger.NewTestLogger())

	profile, err := api.LookupUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "ann", profile.Username)
}

func TestProfileFromUser(t *testing.T) {
	p := profileFromUser(&tg.User{ID: 5, FirstName: "A", Username: "a", Premium: true})
	assert.Equal(t, int64(5), p.ID)
	assert.True(t, p.Premium)
	assert.Empty(t, p.About)
}

type fakeAuth struct {
	err   error
	calls int
}

func (f *fakeAuth) SendCode(context.Context, string, auth.SendCodeOptions) (tg.AuthSentCodeClass, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &tg.AuthSentCode{PhoneCodeHash: "hash-1"}, nil
}

func (f *fakeAuth) SignIn(context.Context, string, string, string) (*tg.AuthAuthorization, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &tg.AuthAuthorization{}, nil
}

func (f *fakeAuth) Password(context.Context, string) (*tg.AuthAuthorization, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &tg.AuthAuthorization{}, nil
}

type fakeLogOut struct {
	err   error
	calls int
}

func (f *fakeLogOut) AuthLogOut(context.Context) (*tg.AuthLoggedOut, error) {
	f.calls++
	return &tg.AuthLoggedOut{}, f.err
}

type sentCodeSuccess struct{}

func (sentCodeSuccess) SendCode(context.Context, string, auth.SendCodeOptions) (tg.AuthSentCodeClass, error) {
	return &tg.AuthSentCodeSuccess{}, nil
}

func TestRequestCodeHash(t *testing.T) {
	hash, err := requestCode(context.Background(), &fakeAuth{}, "+1555")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", hash)

	_, err = requestCode(context.Background(), sentCodeSuccess{}, "+1555")
	assert.ErrorIs(t, err, errUnexpectedSentCode)
}

func TestSessionAfterSendCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want sessionAction
	}{
		{"found", nil, sessionReplace},
		{"not found", classifySendCodeError(tgerr.New(400, "PHONE_NUMBER_INVALID")), sessionDrop},
		{"flood", classifySendCodeError(tgerr.New(420, "FLOOD_WAIT_30")), sessionKeep},
		{"transport", context.DeadlineExceeded, sessionKeep},
		{"not configured", probe.ErrGatewayNotConfigured, sessionKeep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, afterSendCode(tt.err))
		})
	}
}

func TestSessionAfterSignIn(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want sessionAction
	}{
		{"valid", nil, sessionDrop},
		{"expired", classifySignInError(tgerr.New(400, "PHONE_CODE_EXPIRED")), sessionDrop},
		{"invalid", classifySignInError(tgerr.New(400, "PHONE_CODE_INVALID")), sessionKeep},
		{"second factor", classifySignInError(auth.ErrPasswordAuthNeeded), sessionKeep},
		{"sign up", classifySignInError(&auth.SignUpRequired{}), sessionKeep},
		{"transport", errors.New("connection reset"), sessionKeep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, afterSignIn(tt.err))
		})
	}
}

func TestSessionAfterPassword(t *testing.T) {
	assert.Equal(t, sessionDrop, afterPassword(nil))
	assert.Equal(t, sessionKeep, afterPassword(classifyPasswordError(auth.ErrPasswordInvalid)))
	assert.Equal(t, sessionKeep, afterPassword(errors.New("connection reset")))
}

func TestApplySession(t *testing.T) {
	ctx := context.Background()
	store := &memSessions{data: map[int64][]byte{7: []byte("old-key")}}
	api := NewTelegramAPI(1, "hash", "", store, nil, cache.NewMemoryCache(0), logger.NewTestLogger())

	scratch := new(session.StorageMemory)
	require.NoError(t, scratch.StoreSession(ctx, []byte("new-key")))

	require.NoError(t, api.applySession(ctx, 7, sessionKeep, scratch))
	assert.Equal(t, []byte("old-key"), store.data[7])

	require.NoError(t, api.applySession(ctx, 7, sessionReplace, scratch))
	assert.Equal(t, []byte("new-key"), store.data[7])

	require.NoError(t, api.applySession(ctx, 7, sessionDrop, nil))
	assert.NotContains(t, store.data, int64(7))

	err := api.applySession(ctx, 7, sessionReplace, new(session.StorageMemory))
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSignInLogsOut(t *testing.T) {
	api := NewTelegramAPI(1, "hash", "", &memSessions{data: map[int64][]byte{}}, nil, cache.NewMemoryCache(0), logger.NewTestLogger())
	ctx := context.Background()

	t.Run("valid code", func(t *testing.T) {
		out := &fakeLogOut{}
		require.NoError(t, api.signIn(ctx, &fakeAuth{}, out, 7, "+1555", "12345", "hash-1"))
		assert.Equal(t, 1, out.calls)
	})

	t.Run("rejected code", func(t *testing.T) {
		out := &fakeLogOut{}
		a := &fakeAuth{err: tgerr.New(400, "PHONE_CODE_INVALID")}
		err := api.signIn(ctx, a, out, 7, "+1555", "12345", "hash-1")
		assert.True(t, tgerr.Is(err, "PHONE_CODE_INVALID"))
		assert.Zero(t, out.calls)
	})

	t.Run("logout failure is not fatal", func(t *testing.T) {
		out := &fakeLogOut{err: errors.New("rpc error")}
		require.NoError(t, api.signIn(ctx, &fakeAuth{}, out, 7, "+1555", "12345", "hash-1"))
		assert.Equal(t, 1, out.calls)
	})
}

func TestCheckPasswordLogsOut(t *testing.T) {
	api := NewTelegramAPI(1, "hash", "", &memSessions{data: map[int64][]byte{}}, nil, cache.NewMemoryCache(0), logger.NewTestLogger())
	ctx := context.Background()

	out := &fakeLogOut{}
	require.NoError(t, api.checkPassword(ctx, &fakeAuth{}, out, 7, "secret"))
	assert.Equal(t, 1, out.calls)

	out = &fakeLogOut{}
	err := api.checkPassword(ctx, &fakeAuth{err: auth.ErrPasswordInvalid}, out, 7, "wrong")
	assert.ErrorIs(t, err, auth.ErrPasswordInvalid)
	assert.Zero(t, out.calls)
}

func TestRequestCode_FaultKeepsStoredSession(t *testing.T) {
	store := &memSessions{data: map[int64][]byte{7: []byte("stage-one-key")}}
	dial := func(context.Context, string, string) (net.Conn, error) {
		return nil, errors.New("network down")
	}
	api := NewTelegramAPI(1, "hash", "", store, dial, cache.NewMemoryCache(0), logger.NewTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := api.RequestCode(ctx, 7, "+15550001111")
	require.Error(t, err)
	assert.NotErrorIs(t, err, probe.ErrInvalidNumber)
	assert.Equal(t, []byte("stage-one-key"), store.data[7])
}
