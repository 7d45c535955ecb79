package respond

import (
	"fmt"
	"strings"

	"github.com/brightsmile/clinic-assistant/internal/extract"
)

var (
	greetingWords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "السلام علیکم", "سلام", "ہیلو", "صبح بخیر", "شام بخیر"}
	serviceWords  = []string{"cleaning", "clean", "checkup", "check", "filling", "cavity", "pain", "hurt"}
	visitWords    = []string{"appointment", "book", "schedule", "visit", "اپائنٹمنٹ", "بک", "شیڈول", "وزٹ", "ملاقات"}
)

// RenderSmallTalk answers messages that carry no actionable appointment:
// greetings, service inquiries, vague booking requests, and everything else.
func RenderSmallTalk(message string, lang extract.Language) string {
	lower := strings.ToLower(message)

	if hasAny(lower, greetingWords) {
		if lang == extract.LanguageUrdu {
			return "السلام علیکم! ہمارے ڈینٹل کلینک میں خوش آمدید۔ آج میں آپ کی کیا مدد کر سکتا ہوں؟ میں اپائنٹمنٹ بک کرنے، ہماری سروسز کے بارے میں سوالات کے جوابات دینے، یا عام معلومات فراہم کرنے میں مدد کر سکتا ہوں۔"
		}
		return "Hello! Welcome to our dental clinic. How can I help you today? I can assist with scheduling appointments, answering questions about our services, or providing general information."
	}

	if hasAny(lower, serviceWords) {
		if lang == extract.LanguageUrdu {
			return "بہت اچھا! میں اس میں آپ کی مدد کر سکتا ہوں۔ آپ کے لیے کون سا وقت مناسب رہے گا؟ ہمارے اوقات پیر سے جمعہ، صبح 9 بجے سے شام 5 بجے تک ہیں۔"
		}
		return fmt.Sprintf("Great! I can help you with that. For %s, when would be convenient for you? Our available hours are Monday-Friday 9AM-5PM.", message)
	}

	if hasAny(lower, visitWords) {
		if lang == extract.LanguageUrdu {
			return "میں آپ کا اپائنٹمنٹ بک کرنے میں خوشی محسوس کروں گا! آپ کے لیے کون سا تاریخ اور وقت بہتر ہوگا؟ نیز، آپ کو کس قسم کا اپائنٹمنٹ چاہیے؟"
		}
		return "I'd be happy to help you schedule an appointment! What date and time would work best for you? Also, what type of appointment do you need?"
	}

	if lang == extract.LanguageUrdu {
		return fmt.Sprintf("میں سمجھتا ہوں کہ آپ '%s' کے بارے میں پوچھ رہے ہیں۔ کیا آپ مزید تفصیلات فراہم کر سکتے ہیں؟ میں اپائنٹمنٹ بک کرنے، سروس کی معلومات، یا ڈینٹل سے متعلق سوالات کے جوابات میں مدد کر سکتا ہوں۔", message)
	}
	return fmt.Sprintf("I understand you're asking about '%s'. Could you please provide more details? I can help you with appointment scheduling, service information, or answer any dental-related questions.", message)
}

func hasAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
