// Package normalize canonicalizes the language metadata returned by the
// book providers, which mix ISO codes, locale strings and English names.
package normalize

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// iso639_2to1 maps ISO 639-2 (3-letter) codes to ISO 639-1 (2-letter) codes.
// Open Library reports languages as 3-letter keys like "/languages/eng".
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var iso639_2to1 = map[string]string{
	"eng": "en", "spa": "es", "fra": "fr", "deu": "de", "ita": "it",
	"por": "pt", "nld": "nl", "rus": "ru", "jpn": "ja", "zho": "zh",
	"kor": "ko", "ara": "ar", "hin": "hi", "pol": "pl", "swe": "sv",
	"nor": "no", "dan": "da", "fin": "fi", "tur": "tr", "ell": "el",
	"heb": "he", "ces": "cs", "hun": "hu", "ron": "ro", "tha": "th",
	"vie": "vi", "ind": "id", "msa": "ms", "ukr": "uk", "cat": "ca",
	"hrv": "hr", "slk": "sk", "bul": "bg", "lit": "lt", "lav": "lv",
	"est": "et", "slv": "sl", "srp": "sr", "fas": "fa", "ben": "bn",
	"tam": "ta", "tel": "te", "mar": "mr", "guj": "gu", "kan": "kn",
	"mal": "ml", "pan": "pa", "urd": "ur", "nep": "ne", "sin": "si",
	"mya": "my", "khm": "km", "lao": "lo", "amh": "am", "swa": "sw",
	"afr": "af", "zul": "zu", "xho": "xh", "hau": "ha", "yor": "yo",
	"ibo": "ig", "cym": "cy", "gle": "ga", "gla": "gd", "eus": "eu",
	"glg": "gl", "isl": "is", "mkd": "mk", "bos": "bs", "sqi": "sq",
	"hye": "hy", "kat": "ka", "kaz": "kk", "uzb": "uz", "azj": "az",
	"mon": "mn", "tgl": "tl", "fil": "tl", "jav": "jv", "sun": "su",
	// Alternative ISO 639-2/B codes (bibliographic)
	"ger": "de", "fre": "fr", "dut": "nl", "chi": "zh", "cze": "cs",
	"gre": "el", "per": "fa", "rum": "ro", "slo": "sk", "alb": "sq",
	"arm": "hy", "baq": "eu", "bur": "my", "geo": "ka", "ice": "is",
	"mac": "mk", "may": "ms", "tib": "bo", "wel": "cy",
}

// languageNameToCode maps common language names to ISO 639-1 codes.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var languageNameToCode = map[string]string{
	"english": "en", "spanish": "es", "french": "fr", "german": "de",
	"italian": "it", "portuguese": "pt", "dutch": "nl", "russian": "ru",
	"japanese": "ja", "chinese": "zh", "korean": "ko", "arabic": "ar",
	"hindi": "hi", "polish": "pl", "swedish": "sv", "norwegian": "no",
	"danish": "da", "finnish": "fi", "turkish": "tr", "greek": "el",
	"hebrew": "he", "czech": "cs", "hungarian": "hu", "romanian": "ro",
	"thai": "th", "vietnamese": "vi", "indonesian": "id", "malay": "ms",
	"ukrainian": "uk", "catalan": "ca", "croatian": "hr", "slovak": "sk",
	"bulgarian": "bg", "lithuanian": "lt", "latvian": "lv", "estonian": "et",
	"slovenian": "sl", "serbian": "sr", "persian": "fa", "farsi": "fa",
	"bengali": "bn", "tamil": "ta", "telugu": "te", "marathi": "mr",
	"gujarati": "gu", "kannada": "kn", "malayalam": "ml", "punjabi": "pa",
	"urdu": "ur", "nepali": "ne", "sinhala": "si", "burmese": "my",
	"khmer": "km", "lao": "lo", "amharic": "am", "swahili": "sw",
	"afrikaans": "af", "zulu": "zu", "xhosa": "xh", "hausa": "ha",
	"yoruba": "yo", "igbo": "ig", "welsh": "cy", "irish": "ga",
	"scottish gaelic": "gd", "basque": "eu", "galician": "gl", "icelandic": "is",
	"macedonian": "mk", "bosnian": "bs", "albanian": "sq", "armenian": "hy",
	"georgian": "ka", "kazakh": "kk", "uzbek": "uz", "azerbaijani": "az",
	"mongolian": "mn", "tagalog": "tl", "filipino": "tl", "javanese": "jv",
	"sundanese": "su", "mandarin": "zh", "cantonese": "zh", "tibetan": "bo",
}

// LanguageCode converts various language representations to ISO 639-1 codes.
// It handles:
//   - ISO 639-1 codes: "en" -> "en"
//   - ISO 639-2 codes: "eng" -> "en"
//   - Open Library keys: "/languages/eng" -> "en"
//   - Locale codes: "en-US", "en_GB" -> "en"
//   - Language names: "English", "ENGLISH" -> "en"
//
// Returns empty string for unrecognized values.
func LanguageCode(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// Open Library edition records reference languages by key.
	s = strings.TrimPrefix(s, "/languages/")

	// Handle locale codes (e.g., "en-US", "en_GB").
	// Split on common separators and use the first part.
	if idx := strings.IndexAny(s, "-_"); idx > 0 {
		s = s[:idx]
	}

	// Already ISO 639-1 if it parses as a valid two-letter base tag.
	if len(s) == 2 {
		if _, err := language.ParseBase(s); err == nil {
			return s
		}
		return ""
	}

	// Try ISO 639-2 (3-letter) to ISO 639-1 mapping.
	if len(s) == 3 {
		if code, ok := iso639_2to1[s]; ok {
			return code
		}
	}

	// Try language name mapping.
	if code, ok := languageNameToCode[s]; ok {
		return code
	}

	// Unrecognized - return empty.
	return ""
}

// Language converts various language representations to English display
// names. "en" -> "English", "deu" -> "German", "german" -> "German".
// Returns empty string for unrecognized values.
func Language(raw string) string {
	code := LanguageCode(raw)
	if code == "" {
		return ""
	}

	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}
