package internal

import (
	"slices"
)

// SelectTrack picks the caption track to download.
//
// Manual captions win over automatic ones. Within the origin the preferred
// language is used when present, otherwise the lexicographically smallest
// language code. Within the language a json3 variant is preferred, otherwise
// the first listed variant.
func SelectTrack(catalog CaptionCatalog, preferredLanguage string) (SelectedTrack, error) {
	var origin CaptionOrigin
	var langs []string
	for _, o := range []CaptionOrigin{OriginManual, OriginAuto} {
		if langs = catalog.Languages(o); len(langs) > 0 {
			origin = o
			break
		}
	}
	if len(langs) == 0 {
		return SelectedTrack{}, ErrNoCaptionsAvailable
	}

	lang := preferredLanguage
	if !slices.Contains(langs, lang) {
		slices.Sort(langs)
		lang = langs[0]
	}

	variants := catalog[origin][lang]
	variant := variants[0]
	for _, v := range variants {
		if v.Format == FormatJSON3 {
			variant = v
			break
		}
	}

	return SelectedTrack{Origin: origin, Language: lang, Variant: variant}, nil
}
