package interactions

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed data/interactions.yaml
var datasetYAML []byte

// interactionNamespace derives stable interaction IDs from the pair key so
// reseeding updates rows instead of duplicating them.
var interactionNamespace = uuid.MustParse("6f1c1a52-3f7e-4d4b-9a51-5d0c6e2b7a10")

type pairSpec struct {
	A              string          `yaml:"a"`
	B              string          `yaml:"b"`
	Severity       domain.Severity `yaml:"severity"`
	Description    string          `yaml:"description"`
	Recommendation string          `yaml:"recommendation"`
}

// Dataset is the curated remedy catalog with its interaction table.
type Dataset struct {
	Remedies     []domain.Remedy     `yaml:"remedies"`
	Aliases      map[string][]string `yaml:"aliases"`
	Interactions []pairSpec          `yaml:"interactions"`
}

// LoadDataset parses the dataset compiled into the binary.
func LoadDataset() (*Dataset, error) {
	return ParseDataset(bytes.NewReader(datasetYAML))
}

// ParseDataset decodes and checks a dataset document.
func ParseDataset(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode interaction dataset: %w", err)
	}
	if err := ds.check(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (d *Dataset) check() error {
	remedies := make(map[string]struct{}, len(d.Remedies))
	for _, r := range d.Remedies {
		if !validation.ValidRemedyID(r.ID) {
			return fmt.Errorf("remedy %q: invalid id", r.ID)
		}
		if _, dup := remedies[r.ID]; dup {
			return fmt.Errorf("remedy %q: duplicate id", r.ID)
		}
		remedies[r.ID] = struct{}{}
	}

	pairs := make(map[string]struct{}, len(d.Interactions))
	for i, p := range d.Interactions {
		a, b := Normalize(p.A), Normalize(p.B)
		if a == "" || b == "" {
			return fmt.Errorf("interaction %d: both subjects are required", i)
		}
		if a == b {
			return fmt.Errorf("interaction %d: %q interacts with itself", i, a)
		}
		if p.Severity.Rank() == 0 {
			return fmt.Errorf("interaction %s/%s: unknown severity %q", a, b, p.Severity)
		}
		key := PairKey(a, b)
		if _, dup := pairs[key]; dup {
			return fmt.Errorf("interaction %s: duplicate pair", key)
		}
		pairs[key] = struct{}{}
	}
	return nil
}

// InteractionList converts the table into domain interactions with stable IDs.
func (d *Dataset) InteractionList() []domain.Interaction {
	out := make([]domain.Interaction, 0, len(d.Interactions))
	for _, p := range d.Interactions {
		a, b := Normalize(p.A), Normalize(p.B)
		if b < a {
			a, b = b, a
		}
		out = append(out, domain.Interaction{
			ID:             uuid.NewSHA1(interactionNamespace, []byte(PairKey(a, b))),
			SubjectA:       a,
			SubjectB:       b,
			Severity:       p.Severity,
			Description:    p.Description,
			Recommendation: p.Recommendation,
		})
	}
	return out
}

// Checker builds a checker over the dataset alone, without a database.
func (d *Dataset) Checker() *Checker {
	return NewChecker(d.InteractionList(), WithAliases(d.Aliases), WithRemedies(d.Remedies))
}
