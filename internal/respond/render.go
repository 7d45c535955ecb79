// Package respond turns structured scheduling outcomes into patient-facing
// replies in the patient's language. It composes text only; it never touches
// the calendar.
package respond

import (
	"fmt"
	"strings"

	"github.com/brightsmile/clinic-assistant/internal/extract"
	"github.com/brightsmile/clinic-assistant/internal/schedule"
)

// RenderOutcome renders the reply for a scheduling outcome.
func RenderOutcome(o schedule.Outcome, lang extract.Language) string {
	switch o.Kind {
	case schedule.OutcomeBooked:
		return renderBooked(o, lang)
	case schedule.OutcomeRescheduled:
		return renderRescheduled(o, lang)
	case schedule.OutcomeRejectedConflict:
		return renderConflict(o, lang)
	case schedule.OutcomeRejectedOutOfHours:
		return renderOutOfHours(o, lang)
	case schedule.OutcomeRescheduleMissing:
		return renderRescheduleMissing(o, lang)
	case schedule.OutcomeNeedsInfo:
		return renderNeedsInfo(lang)
	default:
		return renderStoreFailure(lang)
	}
}

func renderBooked(o schedule.Outcome, lang extract.Language) string {
	date, slot, reason := candidateParts(o.Candidate)
	if lang == extract.LanguageUrdu {
		return fmt.Sprintf(`بہترین! آپ کا اپائنٹمنٹ بک ہو گیا ہے:

📅 تاریخ: %s
🕐 وقت: %s
🦷 وجہ: %s

آپ کا اپائنٹمنٹ کنفرم ہو گیا ہے! آپ کو جلد ہی تصدیقی ای میل موصول ہوگی۔ کیا میں آپ کی کوئی اور مدد کر سکتا ہوں؟`, date, slot, reason)
	}
	return fmt.Sprintf(`Perfect! I've scheduled your appointment:

📅 Date: %s
🕐 Time: %s
🦷 Reason: %s

Your appointment has been confirmed! You'll receive a confirmation email shortly.
Is there anything else I can help you with?`, date, slot, reason)
}

func renderRescheduled(o schedule.Outcome, lang extract.Language) string {
	oldDate, oldSlot, _ := candidateParts(o.Old)
	newDate, newSlot, reason := candidateParts(o.New)
	if lang == extract.LanguageUrdu {
		return fmt.Sprintf(`ہو گیا! آپ کا اپائنٹمنٹ تبدیل کر دیا گیا ہے:

📅 پہلے: %s کو %s
📅 اب: %s کو %s
🦷 وجہ: %s

آپ کو جلد ہی تصدیقی ای میل موصول ہوگی۔`, oldDate, oldSlot, newDate, newSlot, reason)
	}
	return fmt.Sprintf(`Done! I've rescheduled your appointment:

📅 From: %s at %s
📅 To: %s at %s
🦷 Reason: %s

You'll receive a confirmation email shortly. Is there anything else I can help you with?`, oldDate, oldSlot, newDate, newSlot, reason)
}

func renderConflict(o schedule.Outcome, lang extract.Language) string {
	date, slot, _ := candidateParts(o.Candidate)

	if len(o.Alternatives) == 0 {
		if lang == extract.LanguageUrdu {
			return fmt.Sprintf(`معذرت! %s کو کوئی وقت دستیاب نہیں ہے۔

📅 براہ کرم کوئی اور تاریخ منتخب کریں یا ہمارے دفتر سے رابطہ کریں۔`, date)
		}
		return fmt.Sprintf(`Sorry! No time slots are available on %s.

📅 Please select a different date or contact our office directly.`, date)
	}

	var bullets []string
	for _, alt := range o.Alternatives {
		bullets = append(bullets, "• "+alt.Format12())
	}
	options := strings.Join(bullets, "\n")

	if lang == extract.LanguageUrdu {
		return fmt.Sprintf(`معذرت! یہ وقت پہلے سے بک ہے: %s کو %s

📅 دستیاب وقت:
%s

براہ کرم کوئی اور وقت منتخب کریں۔ کیا میں آپ کے لیے کوئی اور وقت بک کر دوں؟`, date, slot, options)
	}
	return fmt.Sprintf(`Sorry! This time slot is already booked: %s at %s

📅 Available times:
%s

Please select an alternative time. Would you like me to book one of these slots for you?`, date, slot, options)
}

func renderOutOfHours(o schedule.Outcome, lang extract.Language) string {
	if o.Reason == schedule.ReasonWeekendClosed {
		if lang == extract.LanguageUrdu {
			return `معذرت! ہم ہفتے کے آخر میں بند رہتے ہیں۔

📅 ہمارے کام کے دن: پیر سے جمعہ
🕐 کام کے اوقات: صبح 9 بجے سے شام 5 بجے تک

براہ کرم کوئی اور تاریخ منتخب کریں۔`
		}
		return `Sorry! We're closed on weekends.

📅 Our working days: Monday-Friday
🕐 Our working hours: 9:00 AM to 5:00 PM

Please select a different date.`
	}

	if lang == extract.LanguageUrdu {
		return `معذرت! یہ وقت ہمارے کام کے اوقات سے باہر ہے۔

🕐 ہمارے کام کے اوقات: صبح 9 بجے سے شام 5 بجے تک
📅 کام کے دن: پیر سے جمعہ

براہ کرم کوئی اور وقت منتخب کریں۔`
	}
	return `Sorry! That time is outside our working hours.

📅 Our working days: Monday-Friday
🕐 Our working hours: 9:00 AM to 5:00 PM

Please select a different time.`
}

func renderRescheduleMissing(o schedule.Outcome, lang extract.Language) string {
	date, _, _ := candidateParts(o.Old)
	if lang == extract.LanguageUrdu {
		return fmt.Sprintf(`معذرت! مجھے %s کو آپ کا کوئی اپائنٹمنٹ نہیں ملا۔ براہ کرم تاریخ اور وقت چیک کر کے دوبارہ کوشش کریں۔`, date)
	}
	return fmt.Sprintf("Sorry! I couldn't find an existing appointment of yours on %s. Please check the date and time and try again.", date)
}

func renderNeedsInfo(lang extract.Language) string {
	if lang == extract.LanguageUrdu {
		return "میں آپ کا اپائنٹمنٹ بک کرنے میں خوشی محسوس کروں گا! آپ کے لیے کون سا تاریخ اور وقت بہتر ہوگا؟ نیز، آپ کو کس قسم کا اپائنٹمنٹ چاہیے؟"
	}
	return "I'd be happy to help you schedule an appointment! What date and time would work best for you? Also, what type of appointment do you need?"
}

func renderStoreFailure(lang extract.Language) string {
	if lang == extract.LanguageUrdu {
		return "معذرت، میں آپ کا اپائنٹمنٹ نہیں بنا سکا۔ براہ کرم دوبارہ کوشش کریں یا ہمارے دفتر سے براہ راست رابطہ کریں۔"
	}
	return "Sorry, I couldn't create your appointment. Please try again or contact our office directly."
}

func candidateParts(c *extract.Candidate) (date, slot, reason string) {
	if c == nil {
		return "N/A", "N/A", "N/A"
	}
	return c.Date.Format("2006-01-02"), c.Time, string(c.Reason)
}
