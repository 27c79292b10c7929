package exclusion

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/etwgen/errors"
)

// Wildcard matches any value in a rule position.
const Wildcard = "*"

// Rule kinds as spelled in the exclusion file (case-insensitive).
const (
	KindNoStack         = "nostack"
	KindStack           = "stack"
	KindNoClrInstanceID = "noclrinstanceid"
)

// skipToken marks lines that do not apply to this generator.
const skipToken = "nomac"

const (
	minTokens = 2
	maxTokens = 5
)

// Rule is one provider:task:symbol entry. Any position may be Wildcard.
type Rule struct {
	Provider string
	Task     string
	Symbol   string
}

// Key returns the rule as "provider:task:symbol".
func (r Rule) Key() string {
	return r.Provider + ":" + r.Task + ":" + r.Symbol
}

// Matches reports whether every position equals the given value or is Wildcard.
func (r Rule) Matches(provider, task, symbol string) bool {
	return (r.Provider == provider || r.Provider == Wildcard) &&
		(r.Task == task || r.Task == Wildcard) &&
		(r.Symbol == symbol || r.Symbol == Wildcard)
}

// RuleSet is a deduplicated set of rules kept in file order.
type RuleSet struct {
	rules []Rule
	seen  map[Rule]bool
}

// Add inserts r unless an identical rule is already present.
func (s *RuleSet) Add(r Rule) {
	if s.seen == nil {
		s.seen = make(map[Rule]bool)
	}
	if s.seen[r] {
		return
	}
	s.seen[r] = true
	s.rules = append(s.rules, r)
}

// Rules returns the rules in insertion order.
func (s *RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of distinct rules.
func (s *RuleSet) Len() int {
	return len(s.rules)
}

// Match reports whether any rule matches the event.
func (s *RuleSet) Match(provider, task, symbol string) bool {
	for _, r := range s.rules {
		if r.Matches(provider, task, symbol) {
			return true
		}
	}
	return false
}

// StackWalkBit returns false when a rule in set matches the event and true
// otherwise. True is the default policy.
func StackWalkBit(provider, task, symbol string, set *RuleSet) bool {
	return !set.Match(provider, task, symbol)
}

// Exclusions holds the three rule sets of an exclusion file.
type Exclusions struct {
	// Source names the file the rules came from, for messages.
	Source        string
	NoStack       RuleSet
	ExplicitStack RuleSet
	NoClrInstance RuleSet
}

// Load reads the exclusion file at path.
func Load(path string) (*Exclusions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseExclusions, path, err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads exclusion rules. Each meaningful line has the form
// kind:task:provider:unused:symbol; missing or empty positions match anything.
// Blank lines and lines starting with '#' are ignored, as is any line with a
// "nomac" token.
func Parse(r io.Reader, source string) (*Exclusions, error) {
	ex := &Exclusions{Source: source}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Split(line, ":")
		if contains(tokens, skipToken) {
			Logger().Debug("skipping exclusion line",
				zap.String("file", source),
				zap.Int("line", lineNo),
				zap.String("reason", skipToken))
			continue
		}

		loc := source + ":" + strconv.Itoa(lineNo)
		if len(tokens) > maxTokens {
			return nil, errors.New(errors.PhaseExclusions, errors.KindTooManyFields).
				Path(loc).
				Detail("Invalid Entry %s in %s", line, source).
				Value(line).
				Build()
		}
		if len(tokens) < minTokens {
			return nil, errors.New(errors.PhaseExclusions, errors.KindTooFewFields).
				Path(loc).
				Detail("Invalid Entry %s in %s", line, source).
				Value(line).
				Build()
		}

		rule := Rule{
			Task:     field(tokens, 1),
			Provider: field(tokens, 2),
			Symbol:   field(tokens, 4),
		}

		switch strings.ToLower(tokens[0]) {
		case KindNoStack:
			ex.NoStack.Add(rule)
		case KindStack:
			ex.ExplicitStack.Add(rule)
		case KindNoClrInstanceID:
			ex.NoClrInstance.Add(rule)
		default:
			Logger().Debug("ignoring exclusion line with unknown kind",
				zap.String("file", source),
				zap.Int("line", lineNo),
				zap.String("kind", tokens[0]))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.IO(errors.PhaseExclusions, source, err)
	}

	return ex, nil
}

// field returns tokens[i], with absent or empty positions read as Wildcard.
func field(tokens []string, i int) string {
	if i >= len(tokens) || tokens[i] == "" {
		return Wildcard
	}
	return tokens[i]
}

func contains(tokens []string, s string) bool {
	for _, t := range tokens {
		if t == s {
			return true
		}
	}
	return false
}
