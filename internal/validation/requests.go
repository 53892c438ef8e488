package validation

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	Name     string `json:"name" validate:"required,notblank,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,notblank,max=100"`
	Email *string `json:"email" validate:"omitempty,email,max=254"`
}

type CreateFavoriteRequest struct {
	RemedyID string `json:"remedyId" validate:"required,remedy_id"`
	Notes    string `json:"notes" validate:"max=1000"`
}

type UpdateFavoriteRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type CreateJournalEntryRequest struct {
	RemedyID      string     `json:"remedyId" validate:"required,remedy_id"`
	Dosage        string     `json:"dosage" validate:"max=100"`
	TakenAt       *time.Time `json:"takenAt"`
	Effectiveness int        `json:"effectiveness" validate:"required,min=1,max=5"`
	Mood          *int       `json:"mood" validate:"omitempty,min=1,max=10"`
	SideEffects   string     `json:"sideEffects" validate:"max=1000"`
	Notes         string     `json:"notes" validate:"max=5000"`
}

type UpdateJournalEntryRequest struct {
	Dosage        *string    `json:"dosage" validate:"omitempty,max=100"`
	TakenAt       *time.Time `json:"takenAt"`
	Effectiveness *int       `json:"effectiveness" validate:"omitempty,min=1,max=5"`
	Mood          *int       `json:"mood" validate:"omitempty,min=1,max=10"`
	SideEffects   *string    `json:"sideEffects" validate:"omitempty,max=1000"`
	Notes         *string    `json:"notes" validate:"omitempty,max=5000"`
}

type CreateMedicationRequest struct {
	Name      string     `json:"name" validate:"required,notblank,max=120"`
	Dosage    string     `json:"dosage" validate:"max=100"`
	Frequency string     `json:"frequency" validate:"max=100"`
	Notes     string     `json:"notes" validate:"max=1000"`
	Active    *bool      `json:"active"`
	StartedAt *time.Time `json:"startedAt"`
}

type UpdateMedicationRequest struct {
	Name      *string    `json:"name" validate:"omitempty,notblank,max=120"`
	Dosage    *string    `json:"dosage" validate:"omitempty,max=100"`
	Frequency *string    `json:"frequency" validate:"omitempty,max=100"`
	Notes     *string    `json:"notes" validate:"omitempty,max=1000"`
	Active    *bool      `json:"active"`
	StartedAt *time.Time `json:"startedAt"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan" validate:"required,plan"`
}

type InteractionCheckRequest struct {
	Remedies             []string `json:"remedies" validate:"required,min=1,max=10,dive,notblank,max=120"`
	Medications          []string `json:"medications" validate:"max=20,dive,notblank,max=120"`
	IncludeMyMedications bool     `json:"includeMyMedications"`
}

type CreateContributionRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=120"`
	Description string   `json:"description" validate:"required,min=20,max=5000"`
	Category    string   `json:"category" validate:"required,notblank,max=60"`
	Benefits    []string `json:"benefits" validate:"max=20,dive,notblank,max=200"`
	Sources     []string `json:"sources" validate:"max=10,dive,url,max=500"`
	ImageKey    string   `json:"imageKey" validate:"omitempty,max=300"`
}

type ApproveContributionRequest struct {
	RemedyID    string `json:"remedyId" validate:"omitempty,remedy_id"`
	Evidence    string `json:"evidence" validate:"omitempty,evidence"`
	PremiumOnly bool   `json:"premiumOnly"`
}

type RejectContributionRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp"`
}

type SearchQuery struct {
	Query    string `query:"q" validate:"omitempty,notblank,max=200"`
	Category string `query:"category" validate:"omitempty,max=60"`
}

type CompareQuery struct {
	IDs []string `query:"ids" validate:"required,min=2,max=4,dive,remedy_id"`
}
