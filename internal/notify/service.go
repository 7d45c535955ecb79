package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/brightsmile/clinic-assistant/internal/calendar"
	"github.com/brightsmile/clinic-assistant/pkg/logging"
)

const sendTimeout = 15 * time.Second

// Service sends appointment confirmations to patients. Delivery is
// best-effort and asynchronous: a booking never fails or rolls back
// because its confirmation email could not be sent.
type Service struct {
	email      EmailSender
	clinicName string
	logger     *logging.Logger
}

// NewService creates a notification service. A nil email sender disables
// delivery; notifications are then logged and dropped.
func NewService(email EmailSender, clinicName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if clinicName == "" {
		clinicName = "BrightSmile Dental"
	}
	return &Service{email: email, clinicName: clinicName, logger: logger}
}

// NotifyBooked dispatches a booking confirmation in the background.
func (s *Service) NotifyBooked(patient calendar.Patient, appt calendar.Appointment) {
	if s == nil {
		return
	}
	go s.deliver(patient, bookedEmail(patient, appt, s.clinicName))
}

// NotifyRescheduled dispatches a reschedule confirmation in the background.
func (s *Service) NotifyRescheduled(patient calendar.Patient, oldAt time.Time, appt calendar.Appointment) {
	if s == nil {
		return
	}
	go s.deliver(patient, rescheduledEmail(patient, oldAt, appt, s.clinicName))
}

func (s *Service) deliver(patient calendar.Patient, msg EmailMessage) {
	if s.email == nil || patient.Email == "" {
		s.logger.Debug("notify: email delivery disabled, dropping notification", "patient_id", patient.ID, "subject", msg.Subject)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.email.Send(ctx, msg); err != nil {
		// Logged only: notification failures never surface to the
		// booking path.
		s.logger.Error("notify: delivery failed", "error", err, "patient_id", patient.ID, "subject", msg.Subject)
	}
}

func bookedEmail(patient calendar.Patient, appt calendar.Appointment, clinicName string) EmailMessage {
	when := appt.ScheduledAt.Format("Monday, January 2, 2006 at 3:04 PM")
	body := fmt.Sprintf(`Dear %s,

Your appointment has been confirmed.

Date & Time: %s
Reason: %s

If you need to reschedule, just reply to our assistant with the new time.

- %s`, patient.Name, when, appt.Reason, clinicName)

	return EmailMessage{
		To:      patient.Email,
		Subject: fmt.Sprintf("Appointment Confirmed - %s", appt.ScheduledAt.Format("Jan 2, 3:04 PM")),
		Body:    body,
	}
}

func rescheduledEmail(patient calendar.Patient, oldAt time.Time, appt calendar.Appointment, clinicName string) EmailMessage {
	body := fmt.Sprintf(`Dear %s,

Your appointment has been moved.

Previous: %s
New: %s
Reason: %s

- %s`, patient.Name,
		oldAt.Format("Monday, January 2, 2006 at 3:04 PM"),
		appt.ScheduledAt.Format("Monday, January 2, 2006 at 3:04 PM"),
		appt.Reason, clinicName)

	return EmailMessage{
		To:      patient.Email,
		Subject: fmt.Sprintf("Appointment Rescheduled - %s", appt.ScheduledAt.Format("Jan 2, 3:04 PM")),
		Body:    body,
	}
}
