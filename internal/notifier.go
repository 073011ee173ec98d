package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/DrGermanius/Bogocargo/internal/model"
)

const (
	defaultQueueSize = 256
	sendTimeout      = 10 * time.Second
)

type Notification struct {
	ID        uuid.UUID         `json:"id"`
	UserID    int               `json:"userID"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	OrderID   int               `json:"orderID"`
	Status    model.OrderStatus `json:"status"`
}

type INotifier interface {
	Notify(Notification)
	Publish(OrderEvent)
}

type ISender interface {
	Send(context.Context, Notification) error
}

// Directory resolves the contact address of a user when a notification is addressed by id.
type Directory interface {
	GetUserByID(context.Context, int) (model.User, error)
}

type job struct {
	notification *Notification
	event        *OrderEvent
}

// Dispatcher delivers notifications and order events off the request path. Enqueueing never
// blocks: when the queue is full the job is dropped and logged.
type Dispatcher struct {
	sender    ISender
	publisher IPublisher
	directory Directory
	logger    *zap.SugaredLogger

	jobs    chan job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	started bool
}

func NewDispatcher(sender ISender, publisher IPublisher, directory Directory, logger *zap.SugaredLogger, size int) *Dispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Dispatcher{
		sender:    sender,
		publisher: publisher,
		directory: directory,
		logger:    logger,
		jobs:      make(chan job, size),
	}
}

func (d *Dispatcher) Start(workers int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
}

// Close stops accepting jobs and waits until the queued ones are handled.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	started := d.started
	d.mu.Unlock()

	if !started {
		for j := range d.jobs {
			d.handle(j)
		}
		return
	}
	d.wg.Wait()
}

func (d *Dispatcher) Notify(n Notification) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	d.enqueue(job{notification: &n})
}

func (d *Dispatcher) Publish(e OrderEvent) {
	if d.publisher == nil {
		return
	}
	d.enqueue(job{event: &e})
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warnw("dispatcher closed, job dropped", "order_id", j.orderID())
		return
	}

	select {
	case d.jobs <- j:
	default:
		d.logger.Warnw("dispatcher queue full, job dropped", "order_id", j.orderID())
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.handle(j)
	}
}

func (d *Dispatcher) handle(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("dispatcher job for order %d panicked: %v", j.orderID(), r)
		}
	}()

	if j.event != nil {
		if err := d.publisher.Publish(ctx, *j.event); err != nil {
			d.logger.Errorf("Error on publishing order event %s: %s", j.event.EventID, err.Error())
		}
		return
	}

	if err := d.deliver(ctx, *j.notification); err != nil {
		d.logger.Errorf("Error on sending notification %s: %s", j.notification.ID, err.Error())
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n Notification) error {
	if n.Recipient == "" {
		if d.directory == nil || n.UserID == 0 {
			return fmt.Errorf("%w: no recipient", ErrNotificationFailed)
		}
		u, err := d.directory.GetUserByID(ctx, n.UserID)
		if err != nil {
			return fmt.Errorf("%w: resolve user %d: %s", ErrNotificationFailed, n.UserID, err)
		}
		n.Recipient = u.Email
	}

	if err := d.sender.Send(ctx, n); err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err)
	}
	return nil
}

func (j job) orderID() int {
	if j.event != nil {
		return j.event.OrderID
	}
	return j.notification.OrderID
}

// LogSender only writes notifications to the log.
type LogSender struct {
	logger *zap.SugaredLogger
}

func NewLogSender(logger *zap.SugaredLogger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.logger.Infow("notification",
		"id", n.ID,
		"recipient", n.Recipient,
		"subject", n.Subject,
		"order_id", n.OrderID,
		"status", n.Status)
	return nil
}

type AMQPSender struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	logger *zap.SugaredLogger
}

func NewAMQPSender(url, queue string, logger *zap.SugaredLogger) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &AMQPSender{conn: conn, ch: ch, queue: queue, logger: logger}, nil
}

func (s *AMQPSender) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return s.ch.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    n.ID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (s *AMQPSender) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	return s.conn.Close()
}

type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(addr, from string, auth smtp.Auth) *SMTPSender {
	return &SMTPSender{addr: addr, from: from, auth: auth, send: smtp.SendMail}
}

func (s *SMTPSender) Send(_ context.Context, n Notification) error {
	return s.send(s.addr, s.auth, s.from, []string{n.Recipient}, composeMail(s.from, n))
}

func composeMail(from string, n Notification) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + n.Recipient + "\r\n")
	b.WriteString("Subject: " + n.Subject + "\r\n")
	b.WriteString("Message-ID: <" + n.ID.String() + "@bogocargo>\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(n.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
