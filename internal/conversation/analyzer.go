package conversation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/brightsmile/clinic-assistant/internal/extract"
)

// Intent is the structured classification of the current message given the
// conversation so far. At most one of the candidate groups is populated:
// Old/New for a reschedule, Candidate otherwise.
type Intent struct {
	IsBooking      bool
	IsConfirmation bool
	IsReschedule   bool

	Candidate *extract.Candidate
	Old       *extract.Candidate
	New       *extract.Candidate

	// CandidateFromMessage reports whether Candidate was extracted from
	// the current message rather than recovered from an earlier turn. A
	// fresh date/time is actionable on its own; a history candidate needs
	// a booking or confirmation signal before it may be acted on.
	CandidateFromMessage bool
}

// Signal vocabularies, English plus Urdu equivalents.
var (
	confirmationWords = []string{"yes", "yeah", "yep", "confirm", "ok", "okay", "ہاں", "ٹھیک ہے"}
	bookingWords      = []string{"book", "booking", "schedule", "appointment", "اپائنٹمنٹ", "بک", "شیڈول"}
	rescheduleWords   = []string{"reschedule", "rescheduled", "shift", "change", "move", "postpone", "تبدیل", "شفٹ", "منتقل", "ملتوی"}

	// The from/to connectives additionally tag messages that look like
	// part of a reschedule exchange. Word boundaries matter here: "to"
	// must not fire inside "tomorrow".
	tagConnectiveRE = regexp.MustCompile(`\b(from|to)\b`)
	urduConnectives = []string{"سے", "کو"}

	fromToRE = regexp.MustCompile(`(?i)from\s+(.+?)\s+to\s+(.+)$`)
)

// Analyzer derives intent and appointment candidates from a conversation.
type Analyzer struct {
	extractor *extract.Extractor
}

// NewAnalyzer creates an analyzer using the given temporal extractor.
func NewAnalyzer(extractor *extract.Extractor) *Analyzer {
	if extractor == nil {
		extractor = extract.NewExtractor()
	}
	return &Analyzer{extractor: extractor}
}

// Analyze classifies the current message and re-derives candidates from
// every user message seen so far, the current one included. History is
// never mutated.
func (a *Analyzer) Analyze(history []Message, current string, now time.Time) Intent {
	currentLower := strings.ToLower(current)

	intent := Intent{
		IsConfirmation: containsAny(currentLower, confirmationWords),
		IsBooking:      containsAny(currentLower, bookingWords),
		IsReschedule:   containsAny(currentLower, rescheduleWords),
	}

	texts := userTexts(history, current)

	// A tagged "from X to Y" in a reschedule-flavored message is the
	// strongest evidence for which appointment moves where; the
	// two-candidate history pairing below is only the fallback.
	for _, text := range texts {
		lower := strings.ToLower(text)
		if !containsAny(lower, rescheduleWords) {
			continue
		}
		if old, new_, ok := a.taggedPair(text, now); ok {
			intent.Old, intent.New = old, new_
			intent.IsReschedule = true
			return intent
		}
	}

	var booking, resched []sourcedCandidate
	for i, text := range texts {
		cand, ok := a.extractor.CandidateFrom(text, now)
		if !ok {
			continue
		}
		sc := sourcedCandidate{cand: cand, current: i == len(texts)-1}
		if hasRescheduleTag(strings.ToLower(text)) {
			resched = append(resched, sc)
		} else {
			booking = append(booking, sc)
		}
	}

	switch {
	case len(resched) >= 2:
		// Oldest relevant pair wins: first tagged candidate is the
		// appointment being moved, second is its destination.
		intent.Old = &resched[0].cand
		intent.New = &resched[1].cand
	case len(booking) > 0:
		last := booking[len(booking)-1]
		intent.Candidate = &last.cand
		intent.CandidateFromMessage = last.current
	case len(resched) == 1:
		// A lone reschedule-tagged candidate cannot be paired; treat
		// it as the working candidate so a follow-up can complete it.
		intent.Candidate = &resched[0].cand
		intent.CandidateFromMessage = resched[0].current
	}

	return intent
}

type sourcedCandidate struct {
	cand    extract.Candidate
	current bool
}

// taggedPair splits "… from X to Y" and requires both halves to yield a
// complete candidate.
func (a *Analyzer) taggedPair(text string, now time.Time) (*extract.Candidate, *extract.Candidate, bool) {
	m := fromToRE.FindStringSubmatch(text)
	if m == nil {
		return nil, nil, false
	}
	oldCand, okOld := a.extractor.CandidateFrom(m[1], now)
	newCand, okNew := a.extractor.CandidateFrom(m[2], now)
	if !okOld || !okNew {
		return nil, nil, false
	}
	// The halves carry no service keywords of their own; classify from
	// the whole message.
	reason := extract.ClassifyService(text)
	oldCand.Reason = reason
	newCand.Reason = reason
	return &oldCand, &newCand, true
}

func hasRescheduleTag(lower string) bool {
	return containsAny(lower, rescheduleWords) ||
		containsAny(lower, urduConnectives) ||
		tagConnectiveRE.MatchString(lower)
}

func userTexts(history []Message, current string) []string {
	texts := make([]string, 0, len(history)+1)
	for _, msg := range history {
		if msg.Sender == SenderUser {
			texts = append(texts, msg.Text)
		}
	}
	return append(texts, current)
}

// containsAny matches English markers on whole words so "ok" does not fire
// inside "book" or "yes" inside "yesterday". Urdu markers stay substring
// matches: they may be phrases and the texts are not reliably space-split.
func containsAny(text string, words []string) bool {
	var tokens []string
	for _, w := range words {
		if isASCIIWord(w) {
			if tokens == nil {
				tokens = splitWords(text)
			}
			for _, tok := range tokens {
				if tok == w {
					return true
				}
			}
		} else if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func isASCIIWord(w string) bool {
	for _, r := range w {
		if r >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
