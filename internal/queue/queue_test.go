package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muratoffalex/tgchecker/internal/commands"
	"github.com/muratoffalex/tgchecker/internal/database"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

type recordingCommand struct {
	name      string
	sensitive bool
	err       error
	timeout   time.Duration

	mu       sync.Mutex
	executed []telegram.Update
	deadline bool
}

func (c *recordingCommand) Name() string            { return c.name }
func (c *recordingCommand) Aliases() []string       { return nil }
func (c *recordingCommand) Access() commands.Access { return commands.AccessUser }
func (c *recordingCommand) PrivateOnly() bool       { return false }
func (c *recordingCommand) Sensitive() bool         { return c.sensitive }

func (c *recordingCommand) Handle(ctx context.Context, update telegram.Update) error {
	return c.Execute(ctx, update)
}

func (c *recordingCommand) Execute(ctx context.Context, update telegram.Update) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, c.deadline = ctx.Deadline()
	c.executed = append(c.executed, update)
	return c.err
}

func (c *recordingCommand) GetQueueConfig() commands.QueueConfig {
	timeout := c.timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return commands.QueueConfig{
		Enabled:    true,
		MaxRetries: 1,
		RetryDelay: time.Hour,
		Timeout:    timeout,
		Throttle: commands.ThrottleConfig{
			Period:      time.Second,
			Requests:    10,
			Concurrency: 1,
		},
	}
}

func (c *recordingCommand) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.executed)
}

func newTestQueue(t *testing.T) (*Queue, database.Database) {
	t.Helper()
	l := logger.NewTestLogger()
	db, err := database.Open(":memory:", l)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	q := NewQueue(db, l)
	q.idleWait = 10 * time.Millisecond
	return q, db
}

func update(text string) telegram.Update {
	return tgbotapi.Update{
		UpdateID: 3,
		Message: &tgbotapi.Message{
			MessageID: 8,
			Text:      text,
			Chat:      tgbotapi.Chat{ID: 1, Type: "private"},
			From:      &tgbotapi.User{ID: 1},
		},
	}
}

func taskStatus(t *testing.T, db database.Database, command string) (TaskStatus, int) {
	t.Helper()
	var status TaskStatus
	var retries int
	err := db.QueryRow("SELECT status, retry_count FROM tasks WHERE command = ?", command).Scan(&status, &retries)
	require.NoError(t, err)
	return status, retries
}

func TestAdd_PersistsTask(t *testing.T) {
	q, db := newTestQueue(t)

	require.NoError(t, q.Add(&recordingCommand{name: "song"}, update("/song abc"), 2, 500))

	var data []byte
	var maxRetries int
	var retryDelay int64
	err := db.QueryRow("SELECT update_data, max_retries, retry_delay FROM tasks WHERE command = 'song'").
		Scan(&data, &maxRetries, &retryDelay)
	require.NoError(t, err)
	assert.Equal(t, 2, maxRetries)
	assert.Equal(t, int64(500), retryDelay)

	task := Task{UpdateData: data}
	upd, err := task.GetUpdate()
	require.NoError(t, err)
	assert.Equal(t, "/song abc", upd.Message.Text)
}

func TestAdd_RejectsSensitiveCommands(t *testing.T) {
	q, db := newTestQueue(t)

	err := q.Add(&recordingCommand{name: "check_a2f", sensitive: true}, update("/check_a2f hunter2"), 0, 0)
	require.ErrorIs(t, err, ErrSensitiveCommand)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count))
	assert.Zero(t, count)
}

func TestAdd_EmptyName(t *testing.T) {
	q, _ := newTestQueue(t)
	assert.Error(t, q.Add(&recordingCommand{}, update("/x"), 0, 0))
}

func TestRun_ExecutesWithTimeout(t *testing.T) {
	q, db := newTestQueue(t)
	cmd := &recordingCommand{name: "check_otp", sensitive: true}

	require.NoError(t, q.Run(context.Background(), cmd, update("/check_otp 12345")))

	assert.Equal(t, 1, cmd.calls())
	assert.True(t, cmd.deadline)
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count))
	assert.Zero(t, count)
}

func TestRun_ReturnsCommandError(t *testing.T) {
	q, _ := newTestQueue(t)
	boom := errors.New("boom")

	err := q.Run(context.Background(), &recordingCommand{name: "check_number", err: boom}, update("/check_number 1"))
	assert.ErrorIs(t, err, boom)
}

func TestRun_CancelledContext(t *testing.T) {
	q, _ := newTestQueue(t)
	cmd := &recordingCommand{name: "check_number"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, q.Run(ctx, cmd, update("/check_number 1")))
	assert.Zero(t, cmd.calls())
}

func TestResetInterrupted(t *testing.T) {
	q, db := newTestQueue(t)
	require.NoError(t, q.Add(&recordingCommand{name: "song"}, update("/song a"), 0, 0))
	_, err := db.Exec("UPDATE tasks SET status = ?", TaskStatusRunning)
	require.NoError(t, err)

	require.NoError(t, q.ResetInterrupted(context.Background()))

	status, _ := taskStatus(t, db, "song")
	assert.Equal(t, TaskStatusPending, status)
}

func TestStart_ProcessesTasks(t *testing.T) {
	q, db := newTestQueue(t)
	ok := &recordingCommand{name: "song"}
	failing := &recordingCommand{name: "vsong", err: errors.New("yt-dlp failed")}
	require.NoError(t, q.Add(ok, update("/song a"), 0, 0))
	require.NoError(t, q.Add(failing, update("/vsong b"), 1, int64(time.Hour/time.Millisecond)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, map[string]commands.Command{"song": ok, "vsong": failing})

	assert.Eventually(t, func() bool {
		status, _ := taskStatus(t, db, "song")
		return status == TaskStatusComplete
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		status, retries := taskStatus(t, db, "vsong")
		return status == TaskStatusPending && retries == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, ok.calls())
	assert.Equal(t, 1, failing.calls())
}

func TestStart_SkipsSensitiveCommands(t *testing.T) {
	q, db := newTestQueue(t)
	sensitive := &recordingCommand{name: "check_otp", sensitive: true}
	// a row left behind by an older build must never be replayed
	_, err := db.Exec("INSERT INTO tasks (command, update_data) VALUES ('check_otp', '{}')")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, map[string]commands.Command{"check_otp": sensitive})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, sensitive.calls())
}
