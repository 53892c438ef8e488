package domain

import (
	"context"
	"time"
)

type Evidence string

const (
	EvidenceStrong      Evidence = "strong"
	EvidenceModerate    Evidence = "moderate"
	EvidenceLimited     Evidence = "limited"
	EvidenceTraditional Evidence = "traditional"
)

// Remedy is a catalog entry. ID is a lowercase slug such as "st-johns-wort".
type Remedy struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Category    string    `json:"category" yaml:"category"`
	Benefits    []string  `json:"benefits" yaml:"benefits"`
	Evidence    Evidence  `json:"evidence" yaml:"evidence"`
	PremiumOnly bool      `json:"premiumOnly" yaml:"premium_only"`
	CreatedAt   time.Time `json:"createdAt" yaml:"-"`
}

type RemedyFilter struct {
	Query          string
	Category       string
	IncludePremium bool
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SearchResult is one page of remedy search hits.
type SearchResult struct {
	Remedies []Remedy `json:"remedies"`
	Total    int      `json:"total"`
}

type RemedyRepository interface {
	Search(ctx context.Context, filter RemedyFilter, page Page) (*SearchResult, error)
	GetByID(ctx context.Context, id string) (*Remedy, error)
	GetMany(ctx context.Context, ids []string) ([]Remedy, error)
	Categories(ctx context.Context) ([]Category, error)
	Upsert(ctx context.Context, remedy *Remedy) error
}

// SearchCache stores search results for a short time.
type SearchCache interface {
	GetSearch(ctx context.Context, key string) (*SearchResult, bool, error)
	SetSearch(ctx context.Context, key string, result *SearchResult, ttl time.Duration) error
}

// CatalogNotifier tells other replicas that remedies or interactions changed.
type CatalogNotifier interface {
	PublishCatalogChanged(ctx context.Context) error
}
