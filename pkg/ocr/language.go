package ocr

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// tesseractOverrides maps languages whose traineddata name differs from the
// ISO 639-2 code.
var tesseractOverrides = map[string]string{
	"zh":      "chi_sim",
	"zh-hans": "chi_sim",
	"zh-hant": "chi_tra",
	"sr-latn": "srp_latn",
	"uz-cyrl": "uzb_cyrl",
	"az-cyrl": "aze_cyrl",
}

// TesseractLanguage converts a language code such as "ru" or "pt-BR" to the
// traineddata name Tesseract expects ("rus", "por"). Codes that already look
// like traineddata names, including combinations such as "eng+deu", are
// returned unchanged.
func TesseractLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("language code is empty")
	}
	if strings.ContainsAny(code, "+_") || (len(code) == 3 && strings.ToLower(code) == code) {
		return code, nil
	}
	if name, ok := tesseractOverrides[strings.ToLower(code)]; ok {
		return name, nil
	}

	base, err := language.ParseBase(strings.SplitN(code, "-", 2)[0])
	if err != nil {
		return "", fmt.Errorf("unknown language code %q: %w", code, err)
	}
	return base.ISO3(), nil
}
