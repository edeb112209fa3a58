package validator

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/danieljhkim/uiforge/internal/generator"
	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// genTriggerText joins a random selection of the planner's trigger words.
func genTriggerText() gopter.Gen {
	words := planner.Vocabulary()
	return gen.SliceOf(gen.IntRange(0, len(words)-1)).Map(func(idx []int) string {
		parts := make([]string, len(idx))
		for i, j := range idx {
			parts[i] = words[j]
		}
		return strings.Join(parts, " ")
	})
}

func TestTriggerVocabularyRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("build then validate succeeds for a fresh request", prop.ForAll(
		func(text string) bool {
			plan := planner.New(nil).Classify(text, nil)
			built, err := generator.Build(plan, nil)
			if err != nil {
				return false
			}
			return Validate(built) == nil
		},
		genTriggerText(),
	))

	properties.Property("build then validate succeeds for an edit", prop.ForAll(
		func(first, second string, extra int) bool {
			p := planner.New(nil)
			prev, err := generator.Build(p.Classify(first, nil), nil)
			if err != nil {
				return false
			}
			for i := 0; i < extra; i++ {
				prev.Append(tree.New(registry.Input, nil))
			}
			plan := p.Classify("update "+second, prev)
			built, err := generator.Build(plan, prev)
			if err != nil {
				return false
			}
			return Validate(built) == nil
		},
		genTriggerText(),
		genTriggerText(),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}
