package ledger

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/matchbox/internal/catalog"
)

// ReplyCount is how many suggestions a generation produces.
const ReplyCount = 3

// ReplyGenerator produces reply suggestions for the owner of a listing.
// Implementations must be deterministic and return exactly ReplyCount strings.
type ReplyGenerator interface {
	Generate(listing catalog.Listing) []string
}

// TemplateGenerator fills fixed templates with the listing's name and
// style examples. No external generation service is involved.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(listing catalog.Listing) []string {
	first := firstName(listing.Name)
	seeds := listing.StyleExamples
	if len(seeds) == 0 {
		seeds = []string{listing.Bio}
	}

	return []string{
		"Hey there, loved what you wrote. Would you like coffee sometime?",
		fmt.Sprintf("Hi! I'm %s. %q is pretty much my week, want to swap stories over drinks?", first, seed(seeds, 0)),
		fmt.Sprintf("Nice to meet you, I'm %s. %s Your turn: what made your day?", first, seed(seeds, 1)),
	}
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "me"
}

func seed(seeds []string, i int) string {
	return strings.TrimSpace(seeds[i%len(seeds)])
}
