package domain

import "fmt"

// DetailView é a visão formatada de um produto para apresentação.
// Valores monetários são formatados como moeda e medidas recebem unidade;
// os campos específicos de variante só são preenchidos na variante
// correspondente (omitempty nos demais).
type DetailView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Value    string `json:"value"`
	Kind     string `json:"kind"`

	Weight       string `json:"weight,omitempty"`
	Dimensions   string `json:"dimensions,omitempty"`
	FileSize     string `json:"file_size,omitempty"`
	DownloadLink string `json:"download_link,omitempty"`
	Duration     string `json:"duration,omitempty"`
	ServiceType  string `json:"service_type,omitempty"`
}

// detailView preenche os campos comuns da visão; cada variante completa os seus.
func (b *baseProduct) detailView(kindLabel string) DetailView {
	return DetailView{
		ID:       b.id,
		Name:     b.name,
		Price:    formatCurrency(b.price),
		Quantity: b.quantity,
		Category: b.category,
		Value:    formatCurrency(b.TotalValue()),
		Kind:     kindLabel,
	}
}

func formatCurrency(value float64) string {
	return fmt.Sprintf("$%.2f", value)
}
