package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperror "goinventory/internal/errors"
)

// Kind é o discriminador do tipo de produto. O conjunto é fechado:
// não há herança aberta, apenas estas três variantes.
type Kind string

const (
	KindPhysical Kind = "physical"
	KindDigital  Kind = "digital"
	KindService  Kind = "service"
)

// Valid informa se o discriminador corresponde a uma variante conhecida.
func (k Kind) Valid() bool {
	switch k {
	case KindPhysical, KindDigital, KindService:
		return true
	}
	return false
}

// Product é o contrato polimórfico de um item do catálogo (a Entidade).
// Tudo que o Catálogo e a camada de Serviço sabem fazer com um produto
// passa por este conjunto de capacidades; os campos em si são privados
// das variantes para que as invariantes (preço ≥ 0, quantidade ≥ 0,
// nome/categoria não vazios, ID imutável) não possam ser violadas por fora.
type Product interface {
	ID() string
	Name() string
	Price() float64
	Quantity() int
	Category() string
	CreatedAt() time.Time
	UpdatedAt() time.Time

	// TotalValue calcula o valor total em estoque (preço × quantidade).
	TotalValue() float64

	// Setters com validação; em caso de sucesso avançam o UpdatedAt.
	SetName(value string) error
	SetPrice(value float64) error
	SetQuantity(value int) error
	SetCategory(value string) error

	// Operações do razão de estoque. A remoção nunca deixa a quantidade
	// negativa: remover mais do que o disponível falha com
	// InsufficientStockError carregando o disponível e o solicitado.
	AddStock(amount int) error
	RemoveStock(amount int) error

	// Kind identifica a variante; DisplayDetails produz a visão formatada
	// para apresentação; Record produz a representação persistida.
	Kind() Kind
	DisplayDetails() DetailView
	Record() ProductRecord

	// ApplyUpdate aplica uma atualização parcial (campos opcionais),
	// rejeitando campos que não pertencem à variante.
	ApplyUpdate(update ProductUpdate) error
}

// ProductFilter define os parâmetros de filtragem do catálogo.
// Valores zero significam "qualquer": Kind vazio não filtra por tipo e
// Category vazia não filtra por categoria.
type ProductFilter struct {
	Kind     Kind
	Category string
}

// SortField enumera os campos pelos quais o catálogo pode ser ordenado.
type SortField string

const (
	SortByName     SortField = "name"
	SortByPrice    SortField = "price"
	SortByQuantity SortField = "quantity"
)

// ProductUpdate descreve uma atualização parcial de produto. Apenas os
// ponteiros não nulos são aplicados; campos específicos de uma variante
// só podem ser aplicados sobre a variante correspondente.
type ProductUpdate struct {
	Name     *string
	Price    *float64
	Quantity *int
	Category *string

	// Específicos de produto físico
	Weight     *float64
	Dimensions *Dimensions

	// Específicos de produto digital
	FileSizeMB   *float64
	DownloadLink *string

	// Específicos de serviço
	DurationMinutes *int
	ServiceType     *string
}

// --- Base compartilhada entre as variantes ---

// baseProduct guarda os campos comuns a todas as variantes e implementa as
// operações compartilhadas. As variantes o incorporam por embedding.
type baseProduct struct {
	id        string
	name      string
	price     float64
	quantity  int
	category  string
	createdAt time.Time
	updatedAt time.Time
}

// newBaseProduct valida os campos comuns e gera o ID e os timestamps de criação.
func newBaseProduct(name string, price float64, quantity int, category string) (baseProduct, error) {
	if err := validateName(name); err != nil {
		return baseProduct{}, err
	}
	if err := validatePrice(price); err != nil {
		return baseProduct{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return baseProduct{}, err
	}
	if err := validateCategory(category); err != nil {
		return baseProduct{}, err
	}

	now := time.Now().UTC()
	return baseProduct{
		id:        uuid.NewString(),
		name:      name,
		price:     price,
		quantity:  quantity,
		category:  category,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (b *baseProduct) ID() string           { return b.id }
func (b *baseProduct) Name() string         { return b.name }
func (b *baseProduct) Price() float64       { return b.price }
func (b *baseProduct) Quantity() int        { return b.quantity }
func (b *baseProduct) Category() string     { return b.category }
func (b *baseProduct) CreatedAt() time.Time { return b.createdAt }
func (b *baseProduct) UpdatedAt() time.Time { return b.updatedAt }

// TotalValue calcula o valor total deste produto em estoque (preço × quantidade).
func (b *baseProduct) TotalValue() float64 {
	return b.price * float64(b.quantity)
}

// touch avança o UpdatedAt. Toda mutação bem-sucedida passa por aqui,
// mantendo a causalidade auditável em um único ponto.
func (b *baseProduct) touch() {
	b.updatedAt = time.Now().UTC()
}

// SetName altera o nome do produto.
func (b *baseProduct) SetName(value string) error {
	if err := validateName(value); err != nil {
		return err
	}
	b.name = value
	b.touch()
	return nil
}

// SetPrice altera o preço do produto.
func (b *baseProduct) SetPrice(value float64) error {
	if err := validatePrice(value); err != nil {
		return err
	}
	b.price = value
	b.touch()
	return nil
}

// SetQuantity altera a quantidade em estoque. Para movimentações de estoque
// prefira AddStock/RemoveStock, que validam a operação e não apenas o valor.
func (b *baseProduct) SetQuantity(value int) error {
	if err := validateQuantity(value); err != nil {
		return err
	}
	b.quantity = value
	b.touch()
	return nil
}

// SetCategory altera a categoria do produto.
func (b *baseProduct) SetCategory(value string) error {
	if err := validateCategory(value); err != nil {
		return err
	}
	b.category = value
	b.touch()
	return nil
}

// AddStock adiciona unidades ao estoque.
func (b *baseProduct) AddStock(amount int) error {
	if amount < 0 {
		return apperror.NewValidationError("A quantidade a adicionar não pode ser negativa.")
	}
	b.quantity += amount
	b.touch()
	return nil
}

// RemoveStock remove unidades do estoque. Falha com InsufficientStockError
// quando a quantidade solicitada excede a disponível, sem alterar o estoque.
func (b *baseProduct) RemoveStock(amount int) error {
	if amount < 0 {
		return apperror.NewValidationError("A quantidade a remover não pode ser negativa.")
	}
	if amount > b.quantity {
		return apperror.NewInsufficientStockError(b.quantity, amount)
	}
	b.quantity -= amount
	b.touch()
	return nil
}

// applyCommon aplica os campos comuns de uma atualização parcial.
func (b *baseProduct) applyCommon(update ProductUpdate) error {
	if update.Name != nil {
		if err := b.SetName(*update.Name); err != nil {
			return err
		}
	}
	if update.Price != nil {
		if err := b.SetPrice(*update.Price); err != nil {
			return err
		}
	}
	if update.Quantity != nil {
		if err := b.SetQuantity(*update.Quantity); err != nil {
			return err
		}
	}
	if update.Category != nil {
		if err := b.SetCategory(*update.Category); err != nil {
			return err
		}
	}
	return nil
}

// --- Validações de campos comuns ---

func validateName(value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.NewValidationError("O nome do produto não pode ser vazio.")
	}
	return nil
}

func validatePrice(value float64) error {
	if value < 0 {
		return apperror.NewValidationError("O preço não pode ser negativo.")
	}
	return nil
}

func validateQuantity(value int) error {
	if value < 0 {
		return apperror.NewValidationError("A quantidade não pode ser negativa.")
	}
	return nil
}

func validateCategory(value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.NewValidationError("A categoria não pode ser vazia.")
	}
	return nil
}
