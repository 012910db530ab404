package model

import (
	"time"

	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

// ProgramStatus tracks a program through its publishing lifecycle
type ProgramStatus string

const (
	ProgramDraft     ProgramStatus = "draft"
	ProgramPublished ProgramStatus = "published"
	ProgramArchived  ProgramStatus = "archived"
)

// Program is a pharma tenant's patient-assistance drug program. The
// screening catalog embedded here is immutable once published.
type Program struct {
	ID          string            `json:"id" bson:"_id,omitempty"`
	TenantID    string            `json:"tenantId" bson:"tenantId"`
	Name        string            `json:"name" bson:"name"`
	DrugName    string            `json:"drugName" bson:"drugName"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Status      ProgramStatus     `json:"status" bson:"status"`
	Catalog     screening.Catalog `json:"catalog" bson:"catalog"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt"`
}
