package domain

import (
	"fmt"

	apperror "goinventory/internal/errors"
)

// DigitalProduct é a variante de produto entregue eletronicamente:
// além dos campos comuns carrega o tamanho do arquivo (MB) e o link de download.
type DigitalProduct struct {
	baseProduct
	fileSizeMB   float64
	downloadLink string
}

// NewDigitalProduct cria um produto digital validado, com ID e timestamps gerados.
func NewDigitalProduct(name string, price float64, quantity int, category string, fileSizeMB float64, downloadLink string) (*DigitalProduct, error) {
	base, err := newBaseProduct(name, price, quantity, category)
	if err != nil {
		return nil, err
	}
	if err := validateFileSize(fileSizeMB); err != nil {
		return nil, err
	}
	return &DigitalProduct{baseProduct: base, fileSizeMB: fileSizeMB, downloadLink: downloadLink}, nil
}

func (p *DigitalProduct) FileSizeMB() float64  { return p.fileSizeMB }
func (p *DigitalProduct) DownloadLink() string { return p.downloadLink }

// SetFileSizeMB altera o tamanho do arquivo, em megabytes.
func (p *DigitalProduct) SetFileSizeMB(value float64) error {
	if err := validateFileSize(value); err != nil {
		return err
	}
	p.fileSizeMB = value
	p.touch()
	return nil
}

// SetDownloadLink altera o link de download. Link vazio é permitido e é
// apresentado como "No link provided".
func (p *DigitalProduct) SetDownloadLink(value string) error {
	p.downloadLink = value
	p.touch()
	return nil
}

// Kind identifica a variante.
func (p *DigitalProduct) Kind() Kind { return KindDigital }

// DisplayDetails produz a visão formatada do produto digital.
func (p *DigitalProduct) DisplayDetails() DetailView {
	view := p.detailView("Digital Product")
	view.FileSize = fmt.Sprintf("%g MB", p.fileSizeMB)
	if p.downloadLink == "" {
		view.DownloadLink = "No link provided"
	} else {
		view.DownloadLink = p.downloadLink
	}
	return view
}

// Record produz a representação persistida do produto digital.
func (p *DigitalProduct) Record() ProductRecord {
	rec := p.record(KindDigital)
	fileSize := p.fileSizeMB
	link := p.downloadLink
	rec.FileSizeMB = &fileSize
	rec.DownloadLink = &link
	return rec
}

// ApplyUpdate aplica uma atualização parcial, rejeitando campos de outras variantes.
func (p *DigitalProduct) ApplyUpdate(update ProductUpdate) error {
	if update.Weight != nil || update.Dimensions != nil {
		return apperror.NewValidationError("Campos de produto físico não se aplicam a um produto digital.")
	}
	if update.DurationMinutes != nil || update.ServiceType != nil {
		return apperror.NewValidationError("Campos de serviço não se aplicam a um produto digital.")
	}
	if err := p.applyCommon(update); err != nil {
		return err
	}
	if update.FileSizeMB != nil {
		if err := p.SetFileSizeMB(*update.FileSizeMB); err != nil {
			return err
		}
	}
	if update.DownloadLink != nil {
		if err := p.SetDownloadLink(*update.DownloadLink); err != nil {
			return err
		}
	}
	return nil
}

func validateFileSize(value float64) error {
	if value < 0 {
		return apperror.NewValidationError("O tamanho do arquivo não pode ser negativo.")
	}
	return nil
}
