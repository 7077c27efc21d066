// AngelaMos | 2026
// dto.go

package asset

import (
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/form"
	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

// AssetForm is the body accepted by both create and update.
type AssetForm struct {
	Name         form.Value `json:"name"         validate:"notblank,max=200"`
	Type         form.Value `json:"type"         validate:"notblank,max=100"`
	Description  form.Value `json:"description"  validate:"max=2000"`
	PurchaseDate form.Value `json:"purchasedate"`
}

type Fields struct {
	Name         string
	Type         string
	Description  *string
	PurchaseDate *schedule.Date
}

func (f AssetForm) Normalize() (Fields, error) {
	purchased, err := f.PurchaseDate.Date("purchasedate")
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		Name:         f.Name.String(),
		Type:         f.Type.String(),
		Description:  f.Description.Text(),
		PurchaseDate: purchased,
	}, nil
}

type AssetResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	TypeBucket   string         `json:"type_bucket"`
	Description  *string        `json:"description"`
	PurchaseDate *schedule.Date `json:"purchasedate"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type AssetListResponse struct {
	Assets []AssetResponse `json:"assets"`
}

func ToAssetResponse(a *Asset) AssetResponse {
	return AssetResponse{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		TypeBucket:   a.TypeBucket(),
		Description:  a.Description,
		PurchaseDate: a.PurchaseDate,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func ToAssetResponseList(assets []Asset) []AssetResponse {
	responses := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		responses = append(responses, ToAssetResponse(&assets[i]))
	}
	return responses
}
