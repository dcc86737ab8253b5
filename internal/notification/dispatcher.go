package notification

import (
	"context"
	"sync"
	"time"
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 100
	sendTimeout      = 15 * time.Second
)

// Dispatcher отправляет уведомления в фоне.
// Emit никогда не блокирует вызывающего: при переполненной очереди событие отбрасывается.
type Dispatcher struct {
	sender  Sender
	metrics Metrics
	logger  Logger

	queue  chan Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher создает диспетчер и запускает workers горутин
func NewDispatcher(sender Sender, workers, queueSize int, metrics Metrics, logger Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	d := &Dispatcher{
		sender:  sender,
		metrics: metrics,
		logger:  logger,
		queue:   make(chan Event, queueSize),
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Emit ставит события в очередь
func (d *Dispatcher) Emit(events ...Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, ev := range events {
		if d.closed {
			d.logger.Warn("Notification: dispatcher closed, dropping %s event=%s", ev.Kind, ev.ID)
			continue
		}
		select {
		case d.queue <- ev:
		default:
			d.logger.Warn("Notification: queue is full, dropping %s event=%s for reservation=%d",
				ev.Kind, ev.ID, ev.Reservation.ID)
			d.observe(string(ev.Kind), errQueueFull)
		}
	}
}

// Close перестает принимать события и ждет отправки уже поставленных в очередь
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("Notification: panic while sending %s event=%s: %v", ev.Kind, ev.ID, rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	msg := Render(ev)
	err := d.sender.Send(ctx, msg)
	d.observe(string(ev.Kind), err)

	if err != nil {
		d.logger.Error("Notification: failed to send %s for reservation=%d to %s: %v",
			ev.Kind, ev.Reservation.ID, ev.Recipient, err)
		return
	}

	d.logger.Info("Notification: sent %s for reservation=%d to %s", ev.Kind, ev.Reservation.ID, ev.Recipient)
}

func (d *Dispatcher) observe(kind string, err error) {
	if d.metrics != nil {
		d.metrics.ObserveNotification(kind, err)
	}
}
