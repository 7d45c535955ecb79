package extract

import "strings"

// Language is the detected language of a patient message. It drives which
// localized response templates are used; English is the baseline.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageUrdu    Language = "urdu"
	LanguageHindi   Language = "hindi"
)

// Marker vocabularies: common function words plus the scheduling terms the
// clinic sees most. Counting matches is enough to separate scripts; exact
// morphology does not matter here.
var urduMarkers = []string{
	"ہے", "ہیں", "کیا", "کے", "کو", "میں", "پر", "سے", "تک",
	"بجے", "صبح", "شام", "رات", "دوپہر",
	"پیر", "منگل", "بدھ", "جمعرات", "جمعہ", "ہفتہ", "اتوار",
	"کل", "آج", "اگلے",
}

var hindiMarkers = []string{
	"है", "हैं", "क्या", "के", "को", "में", "पर", "से", "तक",
	"बजे", "सुबह", "शाम", "रात", "दोपहर",
}

// DetectLanguage picks the language with the strictly higher marker count.
// Ties and marker-free text fall back to English.
func DetectLanguage(text string) Language {
	lower := strings.ToLower(text)

	urduCount := countMarkers(lower, urduMarkers)
	hindiCount := countMarkers(lower, hindiMarkers)

	switch {
	case urduCount > hindiCount && urduCount > 0:
		return LanguageUrdu
	case hindiCount > urduCount && hindiCount > 0:
		return LanguageHindi
	default:
		return LanguageEnglish
	}
}

func countMarkers(text string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			n++
		}
	}
	return n
}
