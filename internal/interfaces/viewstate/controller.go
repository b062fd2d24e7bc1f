// Package viewstate holds the process-lifetime list of reminders shown to
// the user and dispatches the user's actions as background work.
package viewstate

import (
	"context"
	"fmt"
	"medreminder/internal/application/usecase"
	"medreminder/internal/domain/entity"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"sync"
)

// UIState is the snapshot rendered by the presentation layer.
type UIState struct {
	Data []entity.Reminder
}

// UseCases bundles the operations the controller dispatches to.
type UseCases struct {
	Insert *usecase.InsertReminder
	Update *usecase.UpdateReminder
	Delete *usecase.DeleteReminder
	GetAll *usecase.GetAllReminders
}

// AlarmScheduler registers and withdraws a reminder's trigger.
type AlarmScheduler interface {
	Schedule(ctx context.Context, reminder entity.Reminder) error
	Cancel(ctx context.Context, reminder entity.Reminder) error
}

// Controller mirrors the store's live query into UIState. Actions never
// touch the state directly; it only changes when the store re-emits.
type Controller struct {
	useCases UseCases
	alarms   AlarmScheduler
	log      logger.Logger

	actionCtx context.Context
	cancel    context.CancelFunc
	done      chan struct{}

	mu       sync.RWMutex
	state    []entity.Reminder
	closed   bool
	inflight int
	idle     *sync.Cond // signalled on mu when inflight drops to zero

	// writeMu pairs each store write with its alarm call, so a delete can
	// never cancel before the insert it races with has scheduled.
	writeMu sync.Mutex
}

// NewController subscribes to the reminder list immediately. The state is
// empty until the first snapshot arrives.
func NewController(ctx context.Context, useCases UseCases, alarms AlarmScheduler, log logger.Logger) (*Controller, error) {
	subCtx, cancel := context.WithCancel(ctx)
	ch, err := useCases.GetAll.Execute(subCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	c := &Controller{
		useCases:  useCases,
		alarms:    alarms,
		log:       log,
		actionCtx: context.WithoutCancel(ctx),
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     []entity.Reminder{},
	}
	c.idle = sync.NewCond(&c.mu)
	go c.collect(ch)
	return c, nil
}

func (c *Controller) collect(ch <-chan []entity.Reminder) {
	defer close(c.done)
	for snapshot := range ch {
		c.mu.Lock()
		c.state = snapshot
		c.mu.Unlock()
		c.log.Debug(fmt.Sprintf("UI state refreshed: %d reminders", len(snapshot)))
	}
}

// State returns a copy of the current reminder list.
func (c *Controller) State() UIState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data := make([]entity.Reminder, len(c.state))
	copy(data, c.state)
	return UIState{Data: data}
}

// Find looks a reminder up in the current state.
func (c *Controller) Find(id uint) (entity.Reminder, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.state {
		if r.ID == id {
			return r, true
		}
	}
	return entity.Reminder{}, false
}

// Insert stores reminder in the background and schedules its alarm under
// the identity the store assigns.
func (c *Controller) Insert(reminder entity.Reminder) {
	c.launch("insert", func(ctx context.Context) error {
		if err := c.useCases.Insert.Execute(ctx, &reminder); err != nil {
			return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
		if err := c.alarms.Schedule(ctx, reminder); err != nil {
			return err
		}
		c.log.Info(fmt.Sprintf("Reminder %d created: %s (%s)", reminder.ID, reminder.Name, reminder.Kind()))
		return nil
	})
}

// Update replaces reminder in the background. A completed one-shot record
// loses its alarm before it is written; any other record has its alarm
// re-registered from the new values once the write succeeds.
func (c *Controller) Update(reminder entity.Reminder) {
	c.launch("update", func(ctx context.Context) error {
		completed := reminder.IsTaken && !reminder.IsRepeat
		if completed {
			if err := c.alarms.Cancel(ctx, reminder); err != nil {
				return err
			}
		}
		if err := c.useCases.Update.Execute(ctx, reminder); err != nil {
			return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
		if !completed {
			return c.alarms.Schedule(ctx, reminder)
		}
		return nil
	})
}

// Delete cancels the alarm and then removes reminder in the background.
func (c *Controller) Delete(reminder entity.Reminder) {
	c.launch("delete", func(ctx context.Context) error {
		if err := c.alarms.Cancel(ctx, reminder); err != nil {
			return err
		}
		if err := c.useCases.Delete.Execute(ctx, reminder); err != nil {
			return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
		}
		return nil
	})
}

// Acknowledge marks a recurring reminder as taken, which also ends its
// recurrence.
func (c *Controller) Acknowledge(reminder entity.Reminder) error {
	if !reminder.IsRepeat {
		return appErrors.ErrNotRecurring
	}
	c.Update(reminder.Acknowledged())
	return nil
}

func (c *Controller) launch(action string, fn func(ctx context.Context) error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.log.Warn(fmt.Sprintf("Controller closed, dropping %s action", action))
		return
	}
	c.inflight++
	c.mu.Unlock()

	go func() {
		defer c.finish()
		c.writeMu.Lock()
		err := fn(c.actionCtx)
		c.writeMu.Unlock()
		if err != nil {
			c.log.Error(fmt.Sprintf("🔴 ERROR: %s action failed", action), err)
		}
	}()
}

func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.inflight == 0 {
		c.idle.Broadcast()
	}
}

// Wait blocks until no action is in flight. Actions launched while it
// waits are waited for too.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inflight > 0 {
		c.idle.Wait()
	}
}

// Close rejects new actions, lets in-flight ones finish and stops
// consuming the live query.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.Wait()
	c.cancel()
	<-c.done
}
