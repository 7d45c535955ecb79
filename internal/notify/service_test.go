package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-assistant/internal/calendar"
)

type captureSender struct {
	sent chan EmailMessage
	err  error
}

func newCaptureSender() *captureSender {
	return &captureSender{sent: make(chan EmailMessage, 4)}
}

func (c *captureSender) Send(ctx context.Context, msg EmailMessage) error {
	c.sent <- msg
	return c.err
}

func waitForEmail(t *testing.T, c *captureSender) EmailMessage {
	t.Helper()
	select {
	case msg := <-c.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no email delivered")
		return EmailMessage{}
	}
}

var testAppt = calendar.Appointment{
	ID:          uuid.New(),
	PatientID:   "p-1",
	ScheduledAt: time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC),
	Reason:      "Teeth Cleaning",
	Status:      calendar.StatusScheduled,
}

var testPatient = calendar.Patient{ID: "p-1", Name: "Ali", Email: "ali@example.com"}

func TestNotifyBooked(t *testing.T) {
	sender := newCaptureSender()
	svc := NewService(sender, "BrightSmile Dental", nil)

	svc.NotifyBooked(testPatient, testAppt)

	msg := waitForEmail(t, sender)
	require.Equal(t, "ali@example.com", msg.To)
	require.Contains(t, msg.Subject, "Appointment Confirmed")
	require.Contains(t, msg.Body, "Ali")
	require.Contains(t, msg.Body, "Teeth Cleaning")
	require.Contains(t, msg.Body, "BrightSmile Dental")
}

func TestNotifyRescheduled(t *testing.T) {
	sender := newCaptureSender()
	svc := NewService(sender, "BrightSmile Dental", nil)

	oldAt := testAppt.ScheduledAt.AddDate(0, 0, -1)
	svc.NotifyRescheduled(testPatient, oldAt, testAppt)

	msg := waitForEmail(t, sender)
	require.Contains(t, msg.Subject, "Appointment Rescheduled")
	require.Contains(t, msg.Body, "Previous:")
	require.Contains(t, msg.Body, "New:")
}

func TestNotifyDropsWithoutEmailAddress(t *testing.T) {
	sender := newCaptureSender()
	svc := NewService(sender, "BrightSmile Dental", nil)

	svc.NotifyBooked(calendar.Patient{ID: "p-2"}, testAppt)

	select {
	case msg := <-sender.sent:
		t.Fatalf("unexpected delivery: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotifySwallowsSendErrors(t *testing.T) {
	sender := newCaptureSender()
	sender.err = errors.New("ses throttled")
	svc := NewService(sender, "BrightSmile Dental", nil)

	// Must not panic or block the caller.
	svc.NotifyBooked(testPatient, testAppt)
	waitForEmail(t, sender)
}

func TestNilSenderDisablesDelivery(t *testing.T) {
	svc := NewService(nil, "", nil)
	svc.NotifyBooked(testPatient, testAppt)
	svc.NotifyRescheduled(testPatient, time.Now(), testAppt)
}
