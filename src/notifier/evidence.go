package notifier

import (
	"context"

	"github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/sirupsen/logrus"
)

const (
	// Combined length above which title and description get truncated
	evidenceLengthBudget = 130

	titleTruncateThreshold = 20
	titleTruncateLength    = 17

	descriptionTruncateThreshold = 110
	descriptionTruncateLength    = 107
)

type (
	// evidenceDocument is the raw JSON stored off-chain
	evidenceDocument struct {
		Title       string `json:"title"`
		Name        string `json:"name"`
		Description string `json:"description"`
		FileURI     string `json:"fileURI"`
	}

	// Evidence is a normalized document ready for rendering
	Evidence struct {
		Name        string
		Description string

		// Shortened link to the attached file, empty when there is none
		FileLink string
	}
)

// Resolver fetches evidence documents and normalizes them for the feed
type Resolver struct {
	fetcher   ContentFetcher
	shortener Shortener
	log       *logrus.Entry
}

func NewResolver(fetcher ContentFetcher, shortener Shortener) (self *Resolver) {
	self = new(Resolver)
	self.fetcher = fetcher
	self.shortener = shortener
	self.log = logger.NewSublogger("evidence-resolver")
	return
}

func (self *Resolver) Resolve(ctx context.Context, uri string) (evidence Evidence, err error) {
	var doc evidenceDocument
	err = self.fetcher.GetJson(ctx, uri, &doc)
	if err != nil {
		return
	}

	name := doc.Title
	if name == "" {
		name = doc.Name
	}

	evidence.Name, evidence.Description = TruncateEvidence(name, doc.Description)

	if doc.FileURI != "" {
		evidence.FileLink, err = self.shortener.Shorten(ctx, self.fetcher.ResolveUri(doc.FileURI))
		if err != nil {
			return
		}
	}

	return
}

// TruncateEvidence shortens long titles and descriptions. Both cuts are
// decided independently once the combined length exceeds the budget.
// Lengths are counted in runes so a cut never splits a multibyte character.
func TruncateEvidence(title, description string) (outTitle, outDescription string) {
	outTitle = title
	outDescription = description

	titleRunes := []rune(title)
	descriptionRunes := []rune(description)

	if len(titleRunes)+len(descriptionRunes) <= evidenceLengthBudget {
		return
	}

	if len(titleRunes) > titleTruncateThreshold {
		outTitle = string(titleRunes[:titleTruncateLength]) + "..."
	}
	if len(descriptionRunes) > descriptionTruncateThreshold {
		outDescription = string(descriptionRunes[:descriptionTruncateLength]) + "..."
	}
	return
}
