package domain

import (
	"fmt"
	"time"

	apperror "goinventory/internal/errors"
)

// ProductRecord é a representação persistida de um produto, com o
// discriminador "kind" e os campos específicos de variante como ponteiros
// para que cada documento carregue apenas os campos da sua variante.
type ProductRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Kind      Kind      `json:"kind"`

	Weight          *float64    `json:"weight,omitempty"`
	Dimensions      *Dimensions `json:"dimensions,omitempty"`
	FileSizeMB      *float64    `json:"file_size_mb,omitempty"`
	DownloadLink    *string     `json:"download_link,omitempty"`
	DurationMinutes *int        `json:"duration_minutes,omitempty"`
	ServiceType     *string     `json:"service_type,omitempty"`
}

// record preenche os campos comuns da representação persistida.
func (b *baseProduct) record(kind Kind) ProductRecord {
	return ProductRecord{
		ID:        b.id,
		Name:      b.name,
		Price:     b.price,
		Quantity:  b.quantity,
		Category:  b.category,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
		Kind:      kind,
	}
}

// ProductFromRecord reconstrói a Entidade a partir da representação
// persistida, reaplicando todas as validações de campo. Campos específicos
// de variante ausentes recebem o valor padrão (zero/vazio); discriminador
// desconhecido é rejeitado.
func ProductFromRecord(rec ProductRecord) (Product, error) {
	base, err := restoreBase(rec)
	if err != nil {
		return nil, err
	}

	switch rec.Kind {
	case KindPhysical:
		weight := 0.0
		if rec.Weight != nil {
			weight = *rec.Weight
		}
		if err := validateWeight(weight); err != nil {
			return nil, err
		}
		dims := Dimensions{}
		if rec.Dimensions != nil {
			dims = *rec.Dimensions
		}
		if err := dims.validate(); err != nil {
			return nil, err
		}
		return &PhysicalProduct{baseProduct: base, weight: weight, dimensions: dims}, nil

	case KindDigital:
		fileSize := 0.0
		if rec.FileSizeMB != nil {
			fileSize = *rec.FileSizeMB
		}
		if err := validateFileSize(fileSize); err != nil {
			return nil, err
		}
		link := ""
		if rec.DownloadLink != nil {
			link = *rec.DownloadLink
		}
		return &DigitalProduct{baseProduct: base, fileSizeMB: fileSize, downloadLink: link}, nil

	case KindService:
		duration := 0
		if rec.DurationMinutes != nil {
			duration = *rec.DurationMinutes
		}
		if err := validateDuration(duration); err != nil {
			return nil, err
		}
		serviceType := ""
		if rec.ServiceType != nil {
			serviceType = *rec.ServiceType
		}
		return &ServiceProduct{baseProduct: base, durationMinutes: duration, serviceType: serviceType}, nil

	default:
		return nil, apperror.NewValidationError(fmt.Sprintf("Tipo de produto desconhecido: '%s'.", rec.Kind))
	}
}

// restoreBase valida e reconstrói os campos comuns, preservando o ID e os
// timestamps originais do registro.
func restoreBase(rec ProductRecord) (baseProduct, error) {
	if rec.ID == "" {
		return baseProduct{}, apperror.NewValidationError("O ID do produto não pode ser vazio.")
	}
	if err := validateName(rec.Name); err != nil {
		return baseProduct{}, err
	}
	if err := validatePrice(rec.Price); err != nil {
		return baseProduct{}, err
	}
	if err := validateQuantity(rec.Quantity); err != nil {
		return baseProduct{}, err
	}
	if err := validateCategory(rec.Category); err != nil {
		return baseProduct{}, err
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() || updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}

	return baseProduct{
		id:        rec.ID,
		name:      rec.Name,
		price:     rec.Price,
		quantity:  rec.Quantity,
		category:  rec.Category,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}
