package domain

// Records projeta o catálogo na sua forma persistida, na ordem de inserção.
// É o mesmo formato do snapshot gravado e da exportação manual.
func (c *Catalog) Records() []ProductRecord {
	products := c.All()
	records := make([]ProductRecord, 0, len(products))
	for _, product := range products {
		records = append(records, product.Record())
	}
	return records
}

// CatalogFromRecords reconstrói um catálogo a partir de registros persistidos.
// Tudo-ou-nada: um único registro inválido ou duplicado falha a reconstrução
// inteira, para que um estado meio-lido jamais substitua dados bons.
func CatalogFromRecords(records []ProductRecord) (*Catalog, error) {
	catalog := NewCatalog()
	for _, rec := range records {
		product, err := ProductFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if err := catalog.Add(product); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Records projeta as credenciais na sua forma persistida: um mapa de nome de
// usuário → registro. Apenas hashes, nunca senhas.
func (s *CredentialStore) Records() map[string]UserRecord {
	records := make(map[string]UserRecord, len(s.users))
	for username, user := range s.users {
		records[username] = user.Record()
	}
	return records
}

// CredentialStoreFromRecords reconstrói o repositório de credenciais a partir
// de registros persistidos. Tudo-ou-nada, como no catálogo.
func CredentialStoreFromRecords(records map[string]UserRecord) (*CredentialStore, error) {
	store := NewCredentialStore()
	for username, rec := range records {
		// A chave do mapa prevalece como nome canônico quando o registro
		// interno estiver vazio (snapshots gravados à mão).
		if rec.Username == "" {
			rec.Username = username
		}
		user, err := UserFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if err := store.Insert(user); err != nil {
			return nil, err
		}
	}
	return store, nil
}
