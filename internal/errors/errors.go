package errors

import (
	"fmt"
)

// AppError é a interface central para todos os erros customizados do GoInventory.
// Ela permite que o código externo (CLI, UI) acesse a Categoria e a Mensagem do erro.
// Nenhuma categoria é fatal: todos os erros aqui são condições esperadas e recuperáveis
// que a camada chamadora traduz em feedback para o usuário.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "INSUFFICIENT_STOCK")
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada
// (campo obrigatório vazio, valor negativo, role desconhecida, etc.).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// InsufficientStockError representa a tentativa de remover mais estoque do que
// o disponível. Carrega as quantidades para que a camada de apresentação possa
// montar uma mensagem acionável.
type InsufficientStockError struct {
	Available int // Quantidade atualmente em estoque
	Requested int // Quantidade solicitada para remoção
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente. Disponível: %d, Solicitado: %d", e.Available, e.Requested)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) Unwrap() error    { return nil }

// NewInsufficientStockError cria um novo erro de estoque insuficiente.
func NewInsufficientStockError(available, requested int) *InsufficientStockError {
	return &InsufficientStockError{Available: available, Requested: requested}
}

// ProductNotFoundError representa a ausência de um produto solicitado por ID.
type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Produto com ID %s não foi encontrado", e.ID)
}
func (e *ProductNotFoundError) Category() string { return "PRODUCT_NOT_FOUND" }
func (e *ProductNotFoundError) Unwrap() error    { return nil }

// NewProductNotFoundError cria um novo erro de produto não encontrado.
func NewProductNotFoundError(id string) *ProductNotFoundError {
	return &ProductNotFoundError{ID: id}
}

// DuplicateProductError representa a tentativa de inserir um produto cujo ID
// já existe no catálogo. O catálogo mantém o produto original.
type DuplicateProductError struct {
	ID string
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("Produto com ID %s já existe", e.ID)
}
func (e *DuplicateProductError) Category() string { return "DUPLICATE_PRODUCT" }
func (e *DuplicateProductError) Unwrap() error    { return nil }

// NewDuplicateProductError cria um novo erro de produto duplicado.
func NewDuplicateProductError(id string) *DuplicateProductError {
	return &DuplicateProductError{ID: id}
}

// AuthenticationError representa credenciais inválidas no login ou na troca de senha.
// A mensagem é sempre a mesma para usuário desconhecido e senha incorreta, e nunca
// inclui o hash armazenado.
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string    { return e.Msg }
func (e *AuthenticationError) Category() string { return "AUTHENTICATION_ERROR" }
func (e *AuthenticationError) Unwrap() error    { return nil }

// NewAuthenticationError cria um novo erro de autenticação com a mensagem padrão.
func NewAuthenticationError() *AuthenticationError {
	return &AuthenticationError{Msg: "Credenciais inválidas."}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no serviço que não envolvem o
// snapshot persistido (e.g., falha na assinatura do token de sessão).
type InternalError struct {
	Msg string
	Err error // Erro original subjacente
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Erro Interno: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("Erro Interno: %s", e.Msg)
}
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro interno encapsulando o erro original.
func NewInternalError(msg string, err error) *InternalError {
	return &InternalError{Msg: msg, Err: err}
}

// PersistenceError representa falhas de leitura, escrita ou parse do snapshot
// persistido. Nunca derruba o processo: a camada chamadora decide entre
// iniciar com um estado vazio ou abortar a inicialização.
type PersistenceError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro de I/O ou de JSON)
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Erro de Persistência: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("Erro de Persistência: %s", e.Msg)
}
func (e *PersistenceError) Category() string { return "PERSISTENCE_ERROR" }
func (e *PersistenceError) Unwrap() error    { return e.Err }

// NewPersistenceError cria um erro de persistência encapsulando o erro original.
func NewPersistenceError(msg string, err error) *PersistenceError {
	return &PersistenceError{Msg: msg, Err: err}
}

// --- Helper para a camada de apresentação (Tradução Final) ---

// Categorize recebe um erro e o traduz para a categoria e a mensagem que a
// camada de apresentação exibe ao usuário.
func Categorize(err error) (string, string) {
	if appErr, ok := err.(AppError); ok {
		// O erro é tipado (ValidationError, InsufficientStockError, etc.)
		return appErr.Category(), appErr.Error()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	return "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
