package detector

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/aleister1102/sitemapinc/internal/config"
)

// Verdict is the heuristic classification of a rendered page.
type Verdict struct {
	NotFound bool
	Reason   string
}

func ok() Verdict {
	return Verdict{Reason: "no 404 indicators found"}
}

func notFound(reason string) Verdict {
	return Verdict{NotFound: true, Reason: reason}
}

// Detector classifies rendered HTML as a real page or a soft 404 using
// configurable thresholds and phrase lists.
type Detector struct {
	minContentLength int
	suspiciousTitles map[string]struct{}
	phrases          []string
	logger           zerolog.Logger
}

// NewDetector creates a detector from configuration
func NewDetector(cfg config.DetectorConfig, logger zerolog.Logger) *Detector {
	titles := make(map[string]struct{}, len(cfg.SuspiciousTitles))
	for _, title := range cfg.SuspiciousTitles {
		titles[strings.ToLower(title)] = struct{}{}
	}

	phrases := make([]string, 0, len(cfg.SoftNotFoundPhrases))
	for _, phrase := range cfg.SoftNotFoundPhrases {
		phrases = append(phrases, strings.ToLower(phrase))
	}

	return &Detector{
		minContentLength: cfg.MinContentLength,
		suspiciousTitles: titles,
		phrases:          phrases,
		logger:           logger.With().Str("component", "Detector").Logger(),
	}
}

// Classify inspects rendered HTML and returns a verdict. Unparseable input
// classifies as not found.
func (d *Detector) Classify(html string) Verdict {
	if len(html) < d.minContentLength {
		return notFound(fmt.Sprintf("content length %d below minimum %d", len(html), d.minContentLength))
	}

	stripped := strings.ToLower(strings.TrimSpace(html))
	if stripped == "" || stripped == "loading..." {
		return notFound("page content is empty or stuck loading")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		d.logger.Debug().Err(err).Msg("Failed to parse rendered HTML")
		return notFound("rendered HTML could not be parsed")
	}

	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	if _, suspicious := d.suspiciousTitles[title]; suspicious {
		return notFound("suspicious page title: " + describeTitle(title))
	}
	if strings.Contains(title, "404") || strings.Contains(title, "not found") {
		return notFound("page title indicates 404: " + title)
	}

	loweredHTML := strings.ToLower(html)
	for _, phrase := range d.phrases {
		if strings.Contains(loweredHTML, phrase) {
			return notFound("page contains phrase: " + phrase)
		}
	}

	verdict := ok()
	doc.Find("h1").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		heading := strings.ToLower(selection.Text())
		if strings.Contains(heading, "404") || strings.Contains(heading, "not found") {
			verdict = notFound("heading indicates 404")
			return false
		}
		return true
	})
	if verdict.NotFound {
		return verdict
	}

	doc.Find("div").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		divText := strings.ToLower(selection.Text())
		for _, phrase := range d.phrases {
			if strings.Contains(divText, phrase) {
				verdict = notFound("div content contains phrase: " + phrase)
				return false
			}
		}
		return true
	})
	return verdict
}

// describeTitle makes empty titles visible in reason strings
func describeTitle(title string) string {
	if title == "" {
		return "(empty)"
	}
	return title
}
