package plan

import (
	"regexp"
	"strings"
)

// Section heading tokens shared between the prompt template and the
// splitter. The prompt instructs the generator to mark sections with
// exactly these, the splitter locates them case-insensitively.
const (
	HeadingWarmUp   = "## Warm-up"
	HeadingCoolDown = "## Cool-down"
	HeadingStrength = "## Complimentary Lifting"
)

var (
	strengthSectionRe = regexp.MustCompile(`(?i)## Complimentary Lifting[\s\S]*`)
	primarySectionRe  = regexp.MustCompile(`(?i)## Warm-up[\s\S]*`)
)

// SplitPlan is the parsed form of a generated markdown response: the
// primary sport session and the optional complementary strength block.
type SplitPlan struct {
	Primary string `json:"primary"`
	// Strength is empty exactly when the response contained no
	// complementary lifting heading.
	Strength string `json:"strength,omitempty"`
}

func (p SplitPlan) HasStrength() bool {
	return p.Strength != ""
}

// Split parses a generated markdown plan. The strength section runs
// from its heading to the end of the text and is removed first. The
// primary section then runs from the warm-up heading to the end of the
// remaining text; when no warm-up heading is found the whole remaining
// text becomes the primary section, content is never discarded.
// Idempotent on already-split primary text.
func Split(responseText string) SplitPlan {
	working := responseText

	var strength string
	if loc := strengthSectionRe.FindStringIndex(working); loc != nil {
		strength = strings.TrimSpace(working[loc[0]:loc[1]])
		working = working[:loc[0]]
	}

	primary := primarySectionRe.FindString(working)
	if primary == "" {
		primary = working
	}

	return SplitPlan{
		Primary:  strings.TrimSpace(primary),
		Strength: strength,
	}
}
