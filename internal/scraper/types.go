package scraper

// MirrorRef points at one mirror page found on a listing page. Row is the
// 1-based position among the listing's data rows.
type MirrorRef struct {
	Row int
	URL string
}

type Selectors struct {
	ListContainer   string `yaml:"list_container"`
	RowSelector     string `yaml:"row_selector"`
	AnchorSelector  string `yaml:"anchor_selector"`
	MirrorLabel     string `yaml:"mirror_label"`
	ContentSelector string `yaml:"content_selector"`
	ChallengeMarker string `yaml:"challenge_marker"`
}

// DefaultSelectors matches the zone-h.org archive markup.
func DefaultSelectors() Selectors {
	return Selectors{
		ListContainer:   "#ldeface",
		RowSelector:     "#ldeface tr:not(:first-child)",
		AnchorSelector:  "a",
		MirrorLabel:     "mirror",
		ContentSelector: ".defaces",
		ChallengeMarker: "#cryptogram",
	}
}
