package domain

import (
	"fmt"

	apperror "goinventory/internal/errors"
)

// ServiceProduct é a variante de produto que representa um serviço prestado:
// além dos campos comuns carrega a duração (minutos) e o tipo de serviço.
// Para serviços, a quantidade representa o número de sessões disponíveis.
type ServiceProduct struct {
	baseProduct
	durationMinutes int
	serviceType     string
}

// NewServiceProduct cria um serviço validado, com ID e timestamps gerados.
func NewServiceProduct(name string, price float64, quantity int, category string, durationMinutes int, serviceType string) (*ServiceProduct, error) {
	base, err := newBaseProduct(name, price, quantity, category)
	if err != nil {
		return nil, err
	}
	if err := validateDuration(durationMinutes); err != nil {
		return nil, err
	}
	return &ServiceProduct{baseProduct: base, durationMinutes: durationMinutes, serviceType: serviceType}, nil
}

func (p *ServiceProduct) DurationMinutes() int { return p.durationMinutes }
func (p *ServiceProduct) ServiceType() string  { return p.serviceType }

// SetDurationMinutes altera a duração do serviço, em minutos.
func (p *ServiceProduct) SetDurationMinutes(value int) error {
	if err := validateDuration(value); err != nil {
		return err
	}
	p.durationMinutes = value
	p.touch()
	return nil
}

// SetServiceType altera o tipo do serviço. Tipo vazio é permitido e é
// apresentado como "Standard".
func (p *ServiceProduct) SetServiceType(value string) error {
	p.serviceType = value
	p.touch()
	return nil
}

// Kind identifica a variante.
func (p *ServiceProduct) Kind() Kind { return KindService }

// DisplayDetails produz a visão formatada do serviço.
func (p *ServiceProduct) DisplayDetails() DetailView {
	view := p.detailView("Service Product")
	view.Duration = fmt.Sprintf("%d minutes", p.durationMinutes)
	if p.serviceType == "" {
		view.ServiceType = "Standard"
	} else {
		view.ServiceType = p.serviceType
	}
	return view
}

// Record produz a representação persistida do serviço.
func (p *ServiceProduct) Record() ProductRecord {
	rec := p.record(KindService)
	duration := p.durationMinutes
	serviceType := p.serviceType
	rec.DurationMinutes = &duration
	rec.ServiceType = &serviceType
	return rec
}

// ApplyUpdate aplica uma atualização parcial, rejeitando campos de outras variantes.
func (p *ServiceProduct) ApplyUpdate(update ProductUpdate) error {
	if update.Weight != nil || update.Dimensions != nil {
		return apperror.NewValidationError("Campos de produto físico não se aplicam a um serviço.")
	}
	if update.FileSizeMB != nil || update.DownloadLink != nil {
		return apperror.NewValidationError("Campos de produto digital não se aplicam a um serviço.")
	}
	if err := p.applyCommon(update); err != nil {
		return err
	}
	if update.DurationMinutes != nil {
		if err := p.SetDurationMinutes(*update.DurationMinutes); err != nil {
			return err
		}
	}
	if update.ServiceType != nil {
		if err := p.SetServiceType(*update.ServiceType); err != nil {
			return err
		}
	}
	return nil
}

func validateDuration(value int) error {
	if value < 0 {
		return apperror.NewValidationError("A duração não pode ser negativa.")
	}
	return nil
}
