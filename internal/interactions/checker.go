// Package interactions finds known interactions between remedies and
// medications by looking up every unordered subject pair in a static table.
package interactions

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
)

const (
	KindMedication = "medication"
	KindRemedy     = "remedy"
)

// Finding is one interaction hit between a remedy and another subject.
type Finding struct {
	InteractionID  uuid.UUID       `json:"interactionId"`
	Remedy         string          `json:"remedy"`
	Other          string          `json:"other"`
	OtherKind      string          `json:"otherKind"`
	Severity       domain.Severity `json:"severity"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation"`
}

type Report struct {
	Findings        []Finding       `json:"findings"`
	HighestSeverity domain.Severity `json:"highestSeverity,omitempty"`
	Safe            bool            `json:"safe"`
	Unrecognized    []string        `json:"unrecognized"`
	PairsChecked    int             `json:"pairsChecked"`
}

type Checker struct {
	pairs     map[string]domain.Interaction
	aliases   map[string][]string
	remedyIDs map[string]string
	known     map[string]struct{}
}

type Option func(*Checker)

// WithAliases maps brand and generic names onto the subjects they stand for.
func WithAliases(aliases map[string][]string) Option {
	return func(c *Checker) {
		for alias, targets := range aliases {
			key := Normalize(alias)
			for _, t := range targets {
				c.aliases[key] = append(c.aliases[key], Normalize(t))
			}
			c.known[key] = struct{}{}
		}
	}
}

// WithRemedies lets remedies be addressed by display name as well as ID.
func WithRemedies(remedies []domain.Remedy) Option {
	return func(c *Checker) {
		for _, r := range remedies {
			c.remedyIDs[Normalize(r.ID)] = r.ID
			c.remedyIDs[Normalize(r.Name)] = r.ID
			c.known[r.ID] = struct{}{}
		}
	}
}

func NewChecker(list []domain.Interaction, opts ...Option) *Checker {
	c := &Checker{
		pairs:     make(map[string]domain.Interaction, len(list)),
		aliases:   make(map[string][]string),
		remedyIDs: make(map[string]string),
		known:     make(map[string]struct{}),
	}
	for _, in := range list {
		a, b := Normalize(in.SubjectA), Normalize(in.SubjectB)
		c.pairs[PairKey(a, b)] = in
		c.known[a] = struct{}{}
		c.known[b] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Size returns the number of interaction pairs in the table.
func (c *Checker) Size() int {
	return len(c.pairs)
}

type subject struct {
	input string
	keys  []string
}

// Check looks up every remedy x medication and remedy x remedy pair.
// Medication pairs are not checked.
func (c *Checker) Check(remedies, medications []string) Report {
	rs := c.subjects(remedies)
	ms := c.subjects(medications)

	report := Report{Findings: []Finding{}, Unrecognized: []string{}}
	for _, s := range append(append([]subject{}, rs...), ms...) {
		if !c.recognized(s) {
			report.Unrecognized = append(report.Unrecognized, s.input)
		}
	}

	seen := make(map[string]struct{})
	record := func(r, other subject, kind string) {
		report.PairsChecked++
		for _, ka := range r.keys {
			for _, kb := range other.keys {
				if ka == kb {
					continue
				}
				key := PairKey(ka, kb)
				in, ok := c.pairs[key]
				if !ok {
					continue
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				report.Findings = append(report.Findings, Finding{
					InteractionID:  in.ID,
					Remedy:         r.input,
					Other:          other.input,
					OtherKind:      kind,
					Severity:       in.Severity,
					Description:    in.Description,
					Recommendation: in.Recommendation,
				})
			}
		}
	}

	for _, r := range rs {
		for _, m := range ms {
			record(r, m, KindMedication)
		}
	}
	for i := range rs {
		for j := i + 1; j < len(rs); j++ {
			record(rs[i], rs[j], KindRemedy)
		}
	}

	sort.SliceStable(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Remedy != b.Remedy {
			return a.Remedy < b.Remedy
		}
		return a.Other < b.Other
	})

	if len(report.Findings) > 0 {
		report.HighestSeverity = report.Findings[0].Severity
	}
	report.Safe = len(report.Findings) == 0
	return report
}

// subjects resolves inputs to lookup keys, dropping blanks and duplicates.
func (c *Checker) subjects(inputs []string) []subject {
	out := make([]subject, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		n := Normalize(in)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, subject{input: strings.TrimSpace(in), keys: c.resolve(n)})
	}
	return out
}

func (c *Checker) resolve(n string) []string {
	keys := []string{n}
	add := func(k string) {
		for _, have := range keys {
			if have == k {
				return
			}
		}
		keys = append(keys, k)
	}

	if id, ok := c.remedyIDs[n]; ok {
		add(id)
	}
	for _, k := range append([]string{}, keys...) {
		for _, target := range c.aliases[k] {
			add(target)
		}
	}
	return keys
}

func (c *Checker) recognized(s subject) bool {
	for _, k := range s.keys {
		if _, ok := c.known[k]; ok {
			return true
		}
	}
	return false
}

// Normalize lowercases s, drops apostrophes and periods and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("'", "", "’", "", ".", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// PairKey is the order-independent key of a subject pair.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
