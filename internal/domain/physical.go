package domain

import (
	"fmt"

	apperror "goinventory/internal/errors"
)

// Dimensions representa as medidas de um produto físico, em centímetros.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (d Dimensions) validate() error {
	if d.Length < 0 || d.Width < 0 || d.Height < 0 {
		return apperror.NewValidationError("As dimensões não podem ser negativas.")
	}
	return nil
}

// PhysicalProduct é a variante de produto com presença física em estoque:
// além dos campos comuns carrega peso (kg) e dimensões (cm).
type PhysicalProduct struct {
	baseProduct
	weight     float64
	dimensions Dimensions
}

// NewPhysicalProduct cria um produto físico validado, com ID e timestamps gerados.
func NewPhysicalProduct(name string, price float64, quantity int, category string, weight float64, dimensions Dimensions) (*PhysicalProduct, error) {
	base, err := newBaseProduct(name, price, quantity, category)
	if err != nil {
		return nil, err
	}
	if err := validateWeight(weight); err != nil {
		return nil, err
	}
	if err := dimensions.validate(); err != nil {
		return nil, err
	}
	return &PhysicalProduct{baseProduct: base, weight: weight, dimensions: dimensions}, nil
}

func (p *PhysicalProduct) Weight() float64        { return p.weight }
func (p *PhysicalProduct) Dimensions() Dimensions { return p.dimensions }

// SetWeight altera o peso do produto, em quilogramas.
func (p *PhysicalProduct) SetWeight(value float64) error {
	if err := validateWeight(value); err != nil {
		return err
	}
	p.weight = value
	p.touch()
	return nil
}

// SetDimensions altera as dimensões do produto, em centímetros.
func (p *PhysicalProduct) SetDimensions(value Dimensions) error {
	if err := value.validate(); err != nil {
		return err
	}
	p.dimensions = value
	p.touch()
	return nil
}

// Kind identifica a variante.
func (p *PhysicalProduct) Kind() Kind { return KindPhysical }

// DisplayDetails produz a visão formatada do produto físico.
func (p *PhysicalProduct) DisplayDetails() DetailView {
	view := p.detailView("Physical Product")
	view.Weight = fmt.Sprintf("%g kg", p.weight)
	view.Dimensions = fmt.Sprintf("%g×%g×%g cm", p.dimensions.Length, p.dimensions.Width, p.dimensions.Height)
	return view
}

// Record produz a representação persistida do produto físico.
func (p *PhysicalProduct) Record() ProductRecord {
	rec := p.record(KindPhysical)
	weight := p.weight
	dims := p.dimensions
	rec.Weight = &weight
	rec.Dimensions = &dims
	return rec
}

// ApplyUpdate aplica uma atualização parcial, rejeitando campos de outras variantes.
func (p *PhysicalProduct) ApplyUpdate(update ProductUpdate) error {
	if update.FileSizeMB != nil || update.DownloadLink != nil {
		return apperror.NewValidationError("Campos de produto digital não se aplicam a um produto físico.")
	}
	if update.DurationMinutes != nil || update.ServiceType != nil {
		return apperror.NewValidationError("Campos de serviço não se aplicam a um produto físico.")
	}
	if err := p.applyCommon(update); err != nil {
		return err
	}
	if update.Weight != nil {
		if err := p.SetWeight(*update.Weight); err != nil {
			return err
		}
	}
	if update.Dimensions != nil {
		if err := p.SetDimensions(*update.Dimensions); err != nil {
			return err
		}
	}
	return nil
}

func validateWeight(value float64) error {
	if value < 0 {
		return apperror.NewValidationError("O peso não pode ser negativo.")
	}
	return nil
}
