package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/token"
	"goinventory/internal/service/inventoryservice"
	"goinventory/internal/service/userservice"
)

// CLI é a camada de apresentação: um colaborador de terminal que conduz o
// operador pelo inventário. Fina por desenho: toda regra de negócio vive nos
// Serviços, e a CLI apenas coleta entradas, chama e apresenta.
type CLI struct {
	inventory *inventoryservice.Service
	users     *userservice.Service
	logger    logger.Logger

	// Par de credenciais semeado na primeira execução; usado apenas para
	// avisar o operador que ainda está entrando com a senha padrão.
	seedUser     string
	seedPassword string

	scanner *bufio.Scanner
	session *token.CustomClaims
	eof     bool
}

// NewCLI cria o colaborador de terminal, injetando os Serviços.
func NewCLI(inventory *inventoryservice.Service, users *userservice.Service, log logger.Logger, seedUser, seedPassword string) *CLI {
	return &CLI{
		inventory:    inventory,
		users:        users,
		logger:       log,
		seedUser:     seedUser,
		seedPassword: seedPassword,
		scanner:      bufio.NewScanner(os.Stdin),
	}
}

// Run conduz a sessão: login (ou cadastro) e depois o menu principal.
func (c *CLI) Run(ctx context.Context) error {
	fmt.Println("=== GoInventory - Sistema de Gestão de Inventário ===")

	if !c.loginScreen(ctx) {
		return nil
	}

	for {
		c.printMenu()
		option := c.readLine("Opção: ")
		if c.eof {
			option = "0"
		}

		switch option {
		case "1":
			c.dashboard()
		case "2":
			c.listProducts()
		case "3":
			c.searchProducts()
		case "4":
			c.filterProducts()
		case "5":
			c.sortProducts()
		case "6":
			c.addProduct(ctx)
		case "7":
			c.updateProduct(ctx)
		case "8":
			c.removeProduct(ctx)
		case "9":
			c.stockEntry(ctx)
		case "10":
			c.stockExit(ctx)
		case "11":
			c.stockAdjust(ctx)
		case "12":
			c.lowStock()
		case "13":
			c.exportData()
		case "14":
			c.importData(ctx)
		case "15":
			c.manageUsers(ctx)
		case "16":
			c.changePassword(ctx)
		case "17":
			c.clearAll(ctx)
		case "0":
			// Salvamento final antes de sair; as mutações já salvaram sozinhas.
			if err := c.inventory.Save(ctx); err != nil {
				c.printError(err)
			}
			if err := c.users.Save(ctx); err != nil {
				c.printError(err)
			}
			fmt.Println("Até logo!")
			return nil
		default:
			fmt.Println("Opção inválida.")
		}
	}
}

// loginScreen apresenta a tela de entrada: login ou criação de conta, como
// no fluxo original. Retorna false quando o operador desiste.
func (c *CLI) loginScreen(ctx context.Context) bool {
	for {
		fmt.Println("\n1. Entrar  2. Criar conta  0. Sair")
		option := c.readLine("Opção: ")
		if c.eof {
			return false
		}

		switch option {
		case "1":
			username := c.readLine("Usuário: ")
			password := c.readLine("Senha: ")

			tokenString, err := c.users.Login(username, password)
			if err != nil {
				c.printError(err)
				continue
			}
			claims, err := c.users.ValidateToken(tokenString)
			if err != nil {
				c.printError(err)
				continue
			}
			c.session = claims
			fmt.Printf("✅ Bem-vindo, %s (%s)!\n", claims.Username, claims.Role)
			if username == c.seedUser && password == c.seedPassword {
				fmt.Println("⚠️ Você entrou com as credenciais padrão. Altere a senha (opção 16).")
				c.logger.Warn("Login com as credenciais padrão.", map[string]interface{}{
					"username": username,
				})
			}
			return true

		case "2":
			username := c.readLine("Usuário: ")
			password := c.readLine("Senha: ")

			// Contas criadas na tela de entrada nascem com o papel "user";
			// papéis maiores só via área administrativa.
			if _, err := c.users.AddUser(ctx, username, password, string(domain.RoleUser)); err != nil {
				c.printError(err)
				continue
			}
			fmt.Println("✅ Conta criada com sucesso! Agora você pode entrar.")

		case "0":
			return false
		default:
			fmt.Println("Opção inválida.")
		}
	}
}

func (c *CLI) printMenu() {
	fmt.Print(`
--- Menu Principal ---
 1. Dashboard
 2. Listar produtos
 3. Buscar produtos
 4. Filtrar produtos
 5. Ordenar produtos
 6. Adicionar produto
 7. Atualizar produto
 8. Remover produto
 9. Entrada de estoque
10. Saída de estoque
11. Ajuste de estoque (+/-)
12. Estoque baixo
13. Exportar inventário (JSON)
14. Importar inventário (JSON)
15. Gerenciar usuários
16. Trocar senha
17. Esvaziar inventário
 0. Sair
`)
}

// --- Páginas do menu ---

func (c *CLI) dashboard() {
	view := c.inventory.Dashboard()

	fmt.Println("\n--- Dashboard ---")
	fmt.Printf("Produtos cadastrados:   %d\n", view.TotalProducts)
	fmt.Printf("Valor total em estoque: $%.2f\n", view.TotalValue)
	fmt.Printf("Físicos: %d | Digitais: %d | Serviços: %d\n",
		view.CountByKind[domain.KindPhysical],
		view.CountByKind[domain.KindDigital],
		view.CountByKind[domain.KindService])
	fmt.Printf("Produtos com estoque baixo (<= %d): %d\n", view.LowStockThreshold, view.LowStockCount)
}

func (c *CLI) listProducts() {
	products := c.inventory.ListProducts()
	c.printProducts(products)
	if len(products) == 0 {
		return
	}

	id := c.readLine("ID para ver detalhes (em branco para voltar): ")
	if id == "" {
		return
	}
	product, err := c.inventory.GetProduct(id)
	if err != nil {
		c.printError(err)
		return
	}
	printDetails(product.DisplayDetails())
}

func (c *CLI) searchProducts() {
	term := c.readLine("Termo de busca (nome, categoria ou ID): ")
	c.printProducts(c.inventory.Search(term))
}

func (c *CLI) filterProducts() {
	kindValue := c.readLine("Tipo (physical/digital/service, em branco para todos): ")
	category := c.readLine("Categoria (em branco para todas): ")

	filter := domain.ProductFilter{Category: category}
	if kindValue != "" {
		kind := domain.Kind(strings.ToLower(kindValue))
		if !kind.Valid() {
			fmt.Println("❌ Tipo inválido. Use: physical, digital ou service.")
			return
		}
		filter.Kind = kind
	}
	c.printProducts(c.inventory.Filter(filter))
}

func (c *CLI) sortProducts() {
	field := domain.SortField(strings.ToLower(c.readLine("Ordenar por (name/price/quantity): ")))
	direction := strings.ToLower(c.readLine("Direção (a = crescente, d = decrescente): "))

	products, err := c.inventory.SortBy(field, direction != "d")
	if err != nil {
		c.printError(err)
		return
	}
	c.printProducts(products)
}

func (c *CLI) addProduct(ctx context.Context) {
	kind := domain.Kind(strings.ToLower(c.readLine("Tipo (physical/digital/service): ")))
	if !kind.Valid() {
		fmt.Println("❌ Tipo inválido. Use: physical, digital ou service.")
		return
	}

	var input inventoryservice.ProductInput
	input.Name = c.readLine("Nome: ")

	price, err := c.readFloat("Preço: ")
	if err != nil {
		c.printError(err)
		return
	}
	input.Price = price

	quantity, err := c.readInt("Quantidade: ")
	if err != nil {
		c.printError(err)
		return
	}
	input.Quantity = quantity
	input.Category = c.readLine("Categoria: ")

	switch kind {
	case domain.KindPhysical:
		if input.Weight, err = c.readFloat("Peso (kg): "); err != nil {
			c.printError(err)
			return
		}
		dims, err := parseDimensions(c.readLine("Dimensões CxLxA em cm (ex: 10x5x3): "))
		if err != nil {
			c.printError(err)
			return
		}
		input.Dimensions = dims

	case domain.KindDigital:
		if input.FileSizeMB, err = c.readFloat("Tamanho do arquivo (MB): "); err != nil {
			c.printError(err)
			return
		}
		input.DownloadLink = c.readLine("Link de download (opcional): ")

	case domain.KindService:
		if input.DurationMinutes, err = c.readInt("Duração (minutos): "); err != nil {
			c.printError(err)
			return
		}
		input.ServiceType = c.readLine("Tipo de serviço (opcional): ")
	}

	product, err := c.inventory.CreateProduct(ctx, kind, input)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Printf("✅ Produto criado com ID %s\n", product.ID())
}

func (c *CLI) updateProduct(ctx context.Context) {
	id := c.readLine("ID do produto: ")
	product, err := c.inventory.GetProduct(id)
	if err != nil {
		c.printError(err)
		return
	}
	printDetails(product.DisplayDetails())
	fmt.Println("Deixe em branco para manter o valor atual.")

	var update domain.ProductUpdate
	update.Name = c.readOptional("Novo nome: ")

	if update.Price, err = parseOptionalFloat(c.readOptional("Novo preço: ")); err != nil {
		c.printError(err)
		return
	}
	if update.Quantity, err = parseOptionalInt(c.readOptional("Nova quantidade: ")); err != nil {
		c.printError(err)
		return
	}
	update.Category = c.readOptional("Nova categoria: ")

	switch product.Kind() {
	case domain.KindPhysical:
		if update.Weight, err = parseOptionalFloat(c.readOptional("Novo peso (kg): ")); err != nil {
			c.printError(err)
			return
		}
		if raw := c.readOptional("Novas dimensões CxLxA em cm (ex: 10x5x3): "); raw != nil {
			dims, err := parseDimensions(*raw)
			if err != nil {
				c.printError(err)
				return
			}
			update.Dimensions = &dims
		}

	case domain.KindDigital:
		if update.FileSizeMB, err = parseOptionalFloat(c.readOptional("Novo tamanho do arquivo (MB): ")); err != nil {
			c.printError(err)
			return
		}
		update.DownloadLink = c.readOptional("Novo link de download: ")

	case domain.KindService:
		if update.DurationMinutes, err = parseOptionalInt(c.readOptional("Nova duração (minutos): ")); err != nil {
			c.printError(err)
			return
		}
		update.ServiceType = c.readOptional("Novo tipo de serviço: ")
	}

	if _, err := c.inventory.UpdateProduct(ctx, id, update); err != nil {
		c.printError(err)
		return
	}
	fmt.Println("✅ Produto atualizado.")
}

func (c *CLI) removeProduct(ctx context.Context) {
	id := c.readLine("ID do produto: ")
	if !c.confirm("Remover o produto definitivamente?") {
		return
	}
	if err := c.inventory.RemoveProduct(ctx, id); err != nil {
		c.printError(err)
		return
	}
	fmt.Println("✅ Produto removido.")
}

func (c *CLI) stockEntry(ctx context.Context) {
	id := c.readLine("ID do produto: ")
	amount, err := c.readInt("Quantidade a adicionar: ")
	if err != nil {
		c.printError(err)
		return
	}
	product, err := c.inventory.AddStock(ctx, id, amount)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Printf("✅ Estoque atualizado: %d unidades de %s\n", product.Quantity(), product.Name())
}

func (c *CLI) stockExit(ctx context.Context) {
	id := c.readLine("ID do produto: ")
	amount, err := c.readInt("Quantidade a remover: ")
	if err != nil {
		c.printError(err)
		return
	}
	product, err := c.inventory.RemoveStock(ctx, id, amount)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Printf("✅ Estoque atualizado: %d unidades de %s\n", product.Quantity(), product.Name())
}

func (c *CLI) stockAdjust(ctx context.Context) {
	id := c.readLine("ID do produto: ")
	delta, err := c.readInt("Ajuste (positivo adiciona, negativo remove): ")
	if err != nil {
		c.printError(err)
		return
	}
	product, err := c.inventory.BulkAdjust(ctx, id, delta)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Printf("✅ Estoque atualizado: %d unidades de %s\n", product.Quantity(), product.Name())
}

func (c *CLI) lowStock() {
	threshold := c.inventory.Dashboard().LowStockThreshold
	if raw := c.readOptional(fmt.Sprintf("Limite (em branco para %d): ", threshold)); raw != nil {
		value, err := strconv.Atoi(*raw)
		if err != nil {
			c.printError(apperror.NewValidationError("O limite deve ser um número inteiro."))
			return
		}
		threshold = value
	}
	c.printProducts(c.inventory.LowStock(threshold))
}

func (c *CLI) exportData() {
	path := c.readLine("Arquivo de destino (em branco para inventory_export.json): ")
	if path == "" {
		path = "inventory_export.json"
	}

	data, err := c.inventory.ExportJSON()
	if err != nil {
		c.printError(err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printError(apperror.NewPersistenceError("Falha ao gravar o arquivo de exportação.", err))
		return
	}
	fmt.Printf("✅ Inventário exportado para %s\n", path)
}

func (c *CLI) importData(ctx context.Context) {
	path := c.readLine("Arquivo JSON a importar: ")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printError(apperror.NewPersistenceError("Falha ao ler o arquivo de importação.", err))
		return
	}
	if !c.confirm("A importação substituirá todo o inventário atual. Continuar?") {
		return
	}

	count, err := c.inventory.ImportJSON(ctx, data)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Printf("✅ Importação concluída: %d produtos.\n", count)
}

func (c *CLI) manageUsers(ctx context.Context) {
	if !c.requireAdmin() {
		return
	}

	for {
		fmt.Println("\n--- Usuários ---\n1. Listar  2. Adicionar  0. Voltar")
		switch c.readLine("Opção: ") {
		case "1":
			for _, user := range c.users.ListUsers() {
				fmt.Printf("%-20s %s\n", user.Username(), user.Role())
			}
		case "2":
			username := c.readLine("Usuário: ")
			password := c.readLine("Senha: ")
			role := c.readLine("Papel (admin/manager/user, em branco para user): ")
			if _, err := c.users.AddUser(ctx, username, password, role); err != nil {
				c.printError(err)
				continue
			}
			fmt.Println("✅ Usuário adicionado.")
		case "0":
			return
		default:
			if c.eof {
				return
			}
			fmt.Println("Opção inválida.")
		}
	}
}

func (c *CLI) changePassword(ctx context.Context) {
	current := c.readLine("Senha atual: ")
	newPassword := c.readLine("Nova senha: ")
	confirmPassword := c.readLine("Confirme a nova senha: ")

	if newPassword != confirmPassword {
		fmt.Println("❌ As novas senhas não conferem.")
		return
	}
	if err := c.users.ChangePassword(ctx, c.session.Username, current, newPassword); err != nil {
		c.printError(err)
		return
	}
	fmt.Println("✅ Senha alterada com sucesso.")
}

func (c *CLI) clearAll(ctx context.Context) {
	if !c.requireAdmin() {
		return
	}
	if !c.confirm("Isso excluirá TODOS os produtos do inventário. Esta ação não pode ser desfeita. Continuar?") {
		return
	}
	if err := c.inventory.ClearAll(ctx); err != nil {
		c.printError(err)
		return
	}
	fmt.Println("✅ Inventário esvaziado.")
}

// --- Apresentação ---

func (c *CLI) printProducts(products []domain.Product) {
	if len(products) == 0 {
		fmt.Println("Nenhum produto encontrado.")
		return
	}
	for i, product := range products {
		fmt.Printf("%2d. %-25s %-8s  $%8.2f  qtd %4d  %-15s %s\n",
			i+1,
			product.Name(),
			product.Kind(),
			product.Price(),
			product.Quantity(),
			product.Category(),
			product.ID())
	}
}

func printDetails(view domain.DetailView) {
	fmt.Println("\n--- Detalhes do Produto ---")
	fmt.Printf("ID:         %s\n", view.ID)
	fmt.Printf("Nome:       %s\n", view.Name)
	fmt.Printf("Tipo:       %s\n", view.Kind)
	fmt.Printf("Preço:      %s\n", view.Price)
	fmt.Printf("Quantidade: %d\n", view.Quantity)
	fmt.Printf("Categoria:  %s\n", view.Category)
	fmt.Printf("Valor em estoque: %s\n", view.Value)
	if view.Weight != "" {
		fmt.Printf("Peso:       %s\n", view.Weight)
	}
	if view.Dimensions != "" {
		fmt.Printf("Dimensões:  %s\n", view.Dimensions)
	}
	if view.FileSize != "" {
		fmt.Printf("Tamanho:    %s\n", view.FileSize)
	}
	if view.DownloadLink != "" {
		fmt.Printf("Download:   %s\n", view.DownloadLink)
	}
	if view.Duration != "" {
		fmt.Printf("Duração:    %s\n", view.Duration)
	}
	if view.ServiceType != "" {
		fmt.Printf("Tipo de serviço: %s\n", view.ServiceType)
	}
}

func (c *CLI) printError(err error) {
	category, message := apperror.Categorize(err)
	fmt.Printf("❌ [%s] %s\n", category, message)
}

// requireAdmin barra o acesso às áreas administrativas para papéis menores.
func (c *CLI) requireAdmin() bool {
	if c.session == nil || c.session.Role != string(domain.RoleAdmin) {
		fmt.Println("❌ Apenas administradores podem acessar esta área.")
		return false
	}
	return true
}

// --- Leitura de entradas ---

// readLine lê uma linha do operador. EOF encerra a sessão com elegância.
func (c *CLI) readLine(prompt string) string {
	if c.eof {
		return ""
	}
	fmt.Print(prompt)
	if !c.scanner.Scan() {
		c.eof = true
		fmt.Println()
		return ""
	}
	return strings.TrimSpace(c.scanner.Text())
}

// readOptional lê um campo opcional; em branco significa "manter o atual".
func (c *CLI) readOptional(prompt string) *string {
	value := c.readLine(prompt)
	if value == "" {
		return nil
	}
	return &value
}

func (c *CLI) readFloat(prompt string) (float64, error) {
	value, err := strconv.ParseFloat(c.readLine(prompt), 64)
	if err != nil {
		return 0, apperror.NewValidationError("Valor numérico inválido.")
	}
	return value, nil
}

func (c *CLI) readInt(prompt string) (int, error) {
	value, err := strconv.Atoi(c.readLine(prompt))
	if err != nil {
		return 0, apperror.NewValidationError("Valor inteiro inválido.")
	}
	return value, nil
}

func (c *CLI) confirm(question string) bool {
	answer := strings.ToLower(c.readLine(question + " (s/N): "))
	return answer == "s" || answer == "sim"
}

func parseOptionalFloat(raw *string) (*float64, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, apperror.NewValidationError("Valor numérico inválido.")
	}
	return &value, nil
}

func parseOptionalInt(raw *string) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, apperror.NewValidationError("Valor inteiro inválido.")
	}
	return &value, nil
}

// parseDimensions interpreta "10x5x3" como comprimento x largura x altura, em cm.
func parseDimensions(raw string) (domain.Dimensions, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(raw)), "x")
	if len(parts) != 3 {
		return domain.Dimensions{}, apperror.NewValidationError("Dimensões inválidas. Use o formato CxLxA, ex: 10x5x3.")
	}

	values := make([]float64, 3)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return domain.Dimensions{}, apperror.NewValidationError("Dimensões inválidas. Use o formato CxLxA, ex: 10x5x3.")
		}
		values[i] = value
	}
	return domain.Dimensions{Length: values[0], Width: values[1], Height: values[2]}, nil
}
