package notifier

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mihretab/staybook/internal/helpers"
)

// ErrQueueFull is returned when the notification queue cannot accept another
// job. Callers treat it as a non-fatal warning; a confirmed booking is never
// rolled back because its email could not be queued.
var ErrQueueFull = errors.New("notification queue is full")

type job struct {
	bookingID    uuid.UUID
	userEmail    string
	listingTitle string
}

// Notifier sends booking confirmation emails off the request path. Jobs go
// through a bounded channel consumed by a fixed worker pool; delivery
// failures are logged and never retried.
type Notifier struct {
	jobs    chan job
	mailer  Mailer
	workers int
	wg      sync.WaitGroup
}

func New(mailer Mailer, queueSize, workers int) *Notifier {
	return &Notifier{
		jobs:    make(chan job, queueSize),
		mailer:  mailer,
		workers: workers,
	}
}

func (n *Notifier) Start() {
	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go n.work()
	}
}

// Stop closes the queue and waits for in-flight jobs to drain.
func (n *Notifier) Stop() {
	close(n.jobs)
	n.wg.Wait()
}

// NotifyBookingConfirmed enqueues a confirmation email and returns
// immediately. ErrQueueFull is the only failure a caller can observe.
func (n *Notifier) NotifyBookingConfirmed(bookingID uuid.UUID, userEmail, listingTitle string) error {
	select {
	case n.jobs <- job{bookingID: bookingID, userEmail: userEmail, listingTitle: listingTitle}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (n *Notifier) work() {
	defer n.wg.Done()
	for j := range n.jobs {
		subject, body := composeConfirmation(j.bookingID, j.listingTitle)
		if err := n.mailer.Send(j.userEmail, subject, body); err != nil {
			if helpers.ErrorLogger != nil {
				helpers.ErrorLogger.Errorf("failed to send confirmation email for booking %s: %v", j.bookingID, err)
			}
		}
	}
}

func composeConfirmation(bookingID uuid.UUID, listingTitle string) (subject, body string) {
	subject = fmt.Sprintf("Booking Confirmation - %s", listingTitle)
	body = fmt.Sprintf(
		"Thank you for your booking!\n\n"+
			"Booking Details:\n- Booking ID: %s\n- Property: %s\n\n"+
			"We hope you enjoy your stay!",
		bookingID, listingTitle,
	)
	return subject, body
}
