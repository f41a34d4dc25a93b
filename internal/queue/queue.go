package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/muratoffalex/tgchecker/internal/commands"
	"github.com/muratoffalex/tgchecker/internal/database"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/telegram"
)

type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusRunning  TaskStatus = "running"
	TaskStatusComplete TaskStatus = "complete"
	TaskStatusFailed   TaskStatus = "failed"
)

var ErrSensitiveCommand = errors.New("sensitive commands can not be persisted")

type Task struct {
	ID          int64
	Command     string
	UpdateData  []byte
	RetryCount  int
	MaxRetries  int
	RetryDelay  time.Duration
	LastAttempt time.Time
	NextAttempt time.Time
	Status      TaskStatus
	Update      *telegram.Update
}

func (t *Task) GetUpdate() (*telegram.Update, error) {
	if t.Update != nil {
		return t.Update, nil
	}

	var update telegram.Update
	if err := json.Unmarshal(t.UpdateData, &update); err != nil {
		return nil, fmt.Errorf("failed to unmarshal update data: %w", err)
	}
	t.Update = &update
	return t.Update, nil
}

type throttle struct {
	limiter   *rate.Limiter
	semaphore chan struct{}
}

type Queue struct {
	db        database.Database
	throttles map[string]*throttle
	mu        sync.Mutex
	logger    logger.Logger
	idleWait  time.Duration
}

func NewQueue(db database.Database, logger logger.Logger) *Queue {
	return &Queue{
		db:        db,
		throttles: make(map[string]*throttle),
		logger:    logger,
		idleWait:  1 * time.Second,
	}
}

// Add persists update as a task of cmd.
func (q *Queue) Add(cmd commands.Command, update telegram.Update, maxRetries int, retryDelay int64) error {
	cmdName := cmd.Name()
	if cmdName == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cmd.Sensitive() {
		return fmt.Errorf("%w: %s", ErrSensitiveCommand, cmdName)
	}

	q.logger.WithFields(logger.Fields{
		"command":   cmdName,
		"update_id": update.UpdateID,
	}).Debug("Adding task to queue")

	updateData, err := json.Marshal(update)
	if err != nil {
		return err
	}

	_, err = q.db.ExecWithRetry(context.Background(), `
        INSERT INTO tasks (command, update_data, max_retries, retry_delay, next_attempt)
        VALUES (?, ?, ?, ?, ?)
    `, cmdName, updateData, maxRetries, retryDelay, time.Now())
	if err != nil {
		q.logger.WithError(err).
			WithField("command", cmdName).
			Error("Failed to add task")
		return err
	}

	q.logger.WithField("command", cmdName).Debug("Task added successfully")
	return nil
}

// Run executes cmd in the calling goroutine under the same rate limit and
// concurrency cap as queued tasks, without persisting anything.
func (q *Queue) Run(ctx context.Context, cmd commands.Command, update telegram.Update) error {
	cfg := cmd.GetQueueConfig()
	t := q.throttleFor(cmd.Name(), cfg)
	log := q.logger.WithField("command", cmd.Name())

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	select {
	case t.semaphore <- struct{}{}:
		defer func() { <-t.semaphore }()
	case <-ctx.Done():
		return ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := cmd.Execute(ctx, update)
	log.WithField("duration", time.Since(start).String()).Debug("Direct run completed")
	return err
}

// ResetInterrupted puts tasks left running by a previous process back to
// pending.
func (q *Queue) ResetInterrupted(ctx context.Context) error {
	res, err := q.db.ExecWithRetry(ctx,
		"UPDATE tasks SET status = ? WHERE status = ?",
		TaskStatusPending, TaskStatusRunning)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		q.logger.WithField("tasks", n).Warn("Rescheduled interrupted tasks")
	}
	return nil
}

func (q *Queue) Start(ctx context.Context, handlers map[string]commands.Command) {
	if err := q.ResetInterrupted(ctx); err != nil {
		q.logger.WithError(err).Error("Failed to reset interrupted tasks")
	}

	for cmd, handler := range handlers {
		cfg := handler.GetQueueConfig()
		if !cfg.Enabled || handler.Sensitive() {
			continue
		}
		t := q.throttleFor(cmd, cfg)
		go q.processCommandQueue(ctx, cmd, handler, t)
	}
	q.logger.WithField("handlers", len(handlers)).Info("Queue started")
}

func (q *Queue) throttleFor(command string, cfg commands.QueueConfig) *throttle {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t, ok := q.throttles[command]; ok {
		return t
	}

	interval := cfg.Throttle.Period / time.Duration(cfg.Throttle.Requests)
	q.logger.WithFields(logger.Fields{
		"command":     command,
		"period":      cfg.Throttle.Period,
		"requests":    cfg.Throttle.Requests,
		"interval":    interval,
		"concurrency": cfg.Throttle.Concurrency,
	}).Info("Configured rate limiter")

	t := &throttle{
		limiter:   rate.NewLimiter(rate.Every(interval), cfg.Throttle.Requests),
		semaphore: make(chan struct{}, cfg.Throttle.Concurrency),
	}
	q.throttles[command] = t
	return t
}

func (q *Queue) handleTaskError(ctx context.Context, task Task) error {
	log := q.logger.WithFields(logger.Fields{
		"command":     task.Command,
		"task_id":     task.ID,
		"retry_count": task.RetryCount,
		"max_retries": task.MaxRetries,
	})

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log = log.WithField("timeout_reason", "deadline_exceeded")
		// the task context is gone, status updates need a fresh one
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
	}

	if task.RetryCount >= task.MaxRetries {
		log.Warn("Max retries exceeded, marking as failed")
		return q.updateTaskStatus(ctx, task.ID, TaskStatusFailed)
	}

	delay := task.RetryDelay
	q.mu.Lock()
	if t, exists := q.throttles[task.Command]; exists {
		delay = max(delay, t.limiter.Reserve().Delay())
	}
	q.mu.Unlock()

	nextAttempt := time.Now().Add(delay)
	_, err := q.db.ExecWithRetry(ctx, `
		UPDATE tasks 
		SET status = ?, retry_count = retry_count + 1, next_attempt = ?
		WHERE id = ?
	`, TaskStatusPending, nextAttempt, task.ID)
	if err != nil {
		log.WithError(err).Error("Failed to reschedule task")
		return err
	}

	log.WithField("next_attempt", nextAttempt).Info("Task rescheduled")
	return nil
}

func (q *Queue) processCommandQueue(ctx context.Context, command string, handler commands.Command, t *throttle) {
	for range cap(t.semaphore) {
		go q.taskWorker(ctx, command, handler, t.semaphore, t.limiter)
	}

	<-ctx.Done()
}

func (q *Queue) taskWorker(ctx context.Context, command string, h commands.Command, sem chan struct{}, lim *rate.Limiter) {
	log := q.logger.WithField("command", command)
	log.Debug("Worker started")
	defer func() {
		log.Debug("Worker stopped")
		if r := recover(); r != nil {
			log.Error(fmt.Sprintf("recovered from panic: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case sem <- struct{}{}:
			task, err := q.lockAndGetTask(ctx, command)
			<-sem

			if err != nil {
				log.WithError(err).Error("Failed to get task")
				continue
			}
			if task == nil {
				log.Trace("No tasks available")
				select {
				case <-time.After(q.idleWait):
				case <-ctx.Done():
					return
				}
				continue
			}

			reserve := lim.Reserve()
			if delay := reserve.Delay(); delay > 0 {
				log.WithFields(logger.Fields{
					"task":     task.ID,
					"wait_for": delay.String(),
				}).Debug("Rate limiting - delaying task")

				select {
				case <-time.After(delay):
					// continue processing
				case <-ctx.Done():
					reserve.Cancel()
					log.Debug("Cancelled due to context")
					return
				}
			}

			if err := q.handleTask(ctx, *task, h); err != nil {
				log.WithError(err).WithField("task_id", task.ID).Error("Task processing failed")
			}
		}
	}
}

func (q *Queue) lockAndGetTask(ctx context.Context, command string) (*Task, error) {
	var task Task
	err := q.db.GetDB().QueryRowContext(ctx, `
        UPDATE tasks 
        SET status = ?, last_attempt = ?
        WHERE id = (
            SELECT id FROM tasks 
            WHERE command = ? AND status = ? AND next_attempt <= ?
            ORDER BY id ASC 
            LIMIT 1
        )
        RETURNING id, command, update_data, retry_count, max_retries, retry_delay`,
		TaskStatusRunning, time.Now(), command, TaskStatusPending, time.Now(),
	).Scan(
		&task.ID, &task.Command, &task.UpdateData,
		&task.RetryCount, &task.MaxRetries, &task.RetryDelay,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	// retry_delay is stored in milliseconds
	task.RetryDelay *= time.Millisecond

	return &task, nil
}

func (q *Queue) updateTaskStatus(ctx context.Context, taskID int64, status TaskStatus) error {
	q.logger.WithFields(logger.Fields{
		"task_id": taskID,
	}).Info("Marking task as " + status)

	_, err := q.db.ExecWithRetry(ctx,
		"UPDATE tasks SET status = ? WHERE id = ?",
		status, taskID)
	return err
}

func (q *Queue) handleTask(ctx context.Context, task Task, handler commands.Command) error {
	cfg := handler.GetQueueConfig()
	timeout := cfg.Timeout
	deadline := time.Now().Add(timeout)

	log := q.logger.WithFields(logger.Fields{
		"command": task.Command,
		"task_id": task.ID,
	})
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.WithField("timeout", timeout.String()).Debug("Start processing task")
	start := time.Now()
	defer func() {
		log.WithFields(logger.Fields{
			"duration":        time.Since(start).String(),
			"missed_deadline": time.Now().After(deadline),
		}).Debug("Task processing completed")
	}()

	update, err := task.GetUpdate()
	if err != nil {
		log.WithError(err).Error("Broken task payload")
		return q.updateTaskStatus(ctx, task.ID, TaskStatusFailed)
	}

	log.WithField("state", TaskStatusRunning).Info("Processing task")

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- handler.Execute(taskCtx, *update)
	}()

	select {
	case err := <-resultCh:
		if err != nil {
			log.WithError(err).Error("Handler execution failed")
			return q.handleTaskError(taskCtx, task)
		}
	case <-taskCtx.Done():
		log.WithFields(logger.Fields{
			"actual_duration": time.Since(start).String(),
			"retry_count":     task.RetryCount,
		}).Warn("Execution timeout exceeded")
		return q.handleTaskError(taskCtx, task)
	}

	if err := q.updateTaskStatus(ctx, task.ID, TaskStatusComplete); err != nil {
		return fmt.Errorf("failed to mark task as complete: %w", err)
	}

	log.Info("Task completed successfully")
	return nil
}
