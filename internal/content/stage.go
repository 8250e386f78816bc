package content

import (
	"fmt"
	"strings"

	"github.com/dendrix-ai/dendrix-web/pkg/i18n"
)

// Stage is a step of the learning path, from first principles to
// organisation-wide adoption
type Stage string

const (
	StageDNA     Stage = "dna"
	StageSeed    Stage = "seed"
	StageSprout  Stage = "sprout"
	StageSapling Stage = "sapling"
	StageTree    Stage = "tree"
	StageFruits  Stage = "fruits"
	StageOrchard Stage = "orchard"
)

var stageOrder = []Stage{StageDNA, StageSeed, StageSprout, StageSapling, StageTree, StageFruits, StageOrchard}

// AllStages returns every stage in growth order
func AllStages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ParseStage accepts a stage name in any case
func ParseStage(s string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(s)))
	if st.Index() < 0 {
		return "", fmt.Errorf("unknown stage %q", s)
	}
	return st, nil
}

// Index is the zero-based position in growth order, or -1 for an unknown stage
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the following stage; false at the last stage
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i == len(stageOrder)-1 {
		return "", false
	}
	return stageOrder[i+1], true
}

// Previous returns the preceding stage; false at the first stage
func (s Stage) Previous() (Stage, bool) {
	i := s.Index()
	if i <= 0 {
		return "", false
	}
	return stageOrder[i-1], true
}

// Label is the localized stage name
func (s Stage) Label(lang string) string {
	return i18n.Translate("stage."+string(s), lang)
}

// Tagline is the localized one-line description of the stage
func (s Stage) Tagline(lang string) string {
	return i18n.Translate("stage."+string(s)+".tagline", lang)
}
