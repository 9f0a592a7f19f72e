package domain

import (
	"sort"
	"strings"

	apperror "goinventory/internal/errors"
)

// Catalog é o agregado em memória de produtos. Além do índice por ID ele
// mantém a ordem de inserção, para que listagens e exportações sejam
// determinísticas entre execuções.
//
// O Catálogo não é seguro para uso concorrente por si só; a serialização
// das operações é responsabilidade da camada de Serviço.
type Catalog struct {
	products map[string]Product
	order    []string
}

// NewCatalog cria um catálogo vazio.
func NewCatalog() *Catalog {
	return &Catalog{products: make(map[string]Product)}
}

// Add insere um produto no catálogo. ID já presente falha com
// DuplicateProductError.
func (c *Catalog) Add(product Product) error {
	id := product.ID()
	if _, exists := c.products[id]; exists {
		return apperror.NewDuplicateProductError(id)
	}
	c.products[id] = product
	c.order = append(c.order, id)
	return nil
}

// Get busca um produto pelo ID.
func (c *Catalog) Get(id string) (Product, error) {
	product, exists := c.products[id]
	if !exists {
		return nil, apperror.NewProductNotFoundError(id)
	}
	return product, nil
}

// Remove exclui um produto pelo ID.
func (c *Catalog) Remove(id string) error {
	if _, exists := c.products[id]; !exists {
		return apperror.NewProductNotFoundError(id)
	}
	delete(c.products, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len informa quantos produtos o catálogo contém.
func (c *Catalog) Len() int {
	return len(c.products)
}

// All lista os produtos na ordem de inserção.
func (c *Catalog) All() []Product {
	result := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.products[id])
	}
	return result
}

// Search busca produtos cujo nome, categoria ou ID contenha o termo,
// sem diferenciar maiúsculas. Termo vazio retorna todos os produtos.
func (c *Catalog) Search(term string) []Product {
	if strings.TrimSpace(term) == "" {
		return c.All()
	}
	needle := strings.ToLower(term)
	result := make([]Product, 0)
	for _, product := range c.All() {
		if strings.Contains(strings.ToLower(product.Name()), needle) ||
			strings.Contains(strings.ToLower(product.Category()), needle) ||
			strings.Contains(strings.ToLower(product.ID()), needle) {
			result = append(result, product)
		}
	}
	return result
}

// Filter retorna os produtos que satisfazem o filtro. Campos zero do filtro
// não restringem nada; a categoria é comparada sem diferenciar maiúsculas.
func (c *Catalog) Filter(filter ProductFilter) []Product {
	result := make([]Product, 0)
	for _, product := range c.All() {
		if filter.Kind != "" && product.Kind() != filter.Kind {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(product.Category(), filter.Category) {
			continue
		}
		result = append(result, product)
	}
	return result
}

// SortBy retorna os produtos ordenados pelo campo informado. A ordenação é
// estável e nunca altera a ordem interna do catálogo.
func (c *Catalog) SortBy(field SortField, ascending bool) ([]Product, error) {
	products := c.All()

	var less func(a, b Product) bool
	switch field {
	case SortByName:
		less = func(a, b Product) bool {
			return strings.ToLower(a.Name()) < strings.ToLower(b.Name())
		}
	case SortByPrice:
		less = func(a, b Product) bool { return a.Price() < b.Price() }
	case SortByQuantity:
		less = func(a, b Product) bool { return a.Quantity() < b.Quantity() }
	default:
		return nil, apperror.NewValidationError("Campo de ordenação inválido. Use: name, price ou quantity.")
	}

	sort.SliceStable(products, func(i, j int) bool {
		if ascending {
			return less(products[i], products[j])
		}
		return less(products[j], products[i])
	})
	return products, nil
}

// LowStock lista os produtos com quantidade menor ou igual ao limite.
func (c *Catalog) LowStock(threshold int) []Product {
	result := make([]Product, 0)
	for _, product := range c.All() {
		if product.Quantity() <= threshold {
			result = append(result, product)
		}
	}
	return result
}

// TotalValue soma o valor em estoque de todos os produtos.
func (c *Catalog) TotalValue() float64 {
	total := 0.0
	for _, product := range c.products {
		total += product.TotalValue()
	}
	return total
}

// CountByKind conta os produtos por variante.
func (c *Catalog) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, product := range c.products {
		counts[product.Kind()]++
	}
	return counts
}

// BulkAdjust aplica um ajuste de estoque com sinal: delta positivo adiciona,
// delta negativo remove. Delta zero é rejeitado por não representar ajuste.
func (c *Catalog) BulkAdjust(id string, delta int) (Product, error) {
	product, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	switch {
	case delta > 0:
		err = product.AddStock(delta)
	case delta < 0:
		err = product.RemoveStock(-delta)
	default:
		return nil, apperror.NewValidationError("O ajuste de estoque não pode ser zero.")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Clear esvazia o catálogo.
func (c *Catalog) Clear() {
	c.products = make(map[string]Product)
	c.order = nil
}
