package crud

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
)

// HashSecrets reemplaza en doc cada campo secreto por su hash bcrypt.
func HashSecrets(schema entity.Schema, doc entity.Document, cost int) error {
	for _, f := range schema.SecretFields() {
		plain, ok := doc[f.Name].(string)
		if !ok || plain == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
		if err != nil {
			return fmt.Errorf("hash %s: %w", f.Name, err)
		}
		doc[f.Name] = string(hash)
	}
	return nil
}

// CheckUnique devuelve *domain.ConflictError si otro documento (distinto de excludeID)
// ya usa el valor de algún campo único presente en doc. Los valores vacíos no cuentan.
func CheckUnique(ctx context.Context, coll repository.DocumentCollection, schema entity.Schema, doc entity.Document, excludeID string) error {
	for _, f := range schema.UniqueFields() {
		v, present := doc[f.Name]
		if !present || v == nil || v == "" {
			continue
		}
		existing, err := coll.FindOne(ctx, repository.Filter{f.Name: v})
		if err != nil {
			return fmt.Errorf("check unique %s: %w", f.Name, err)
		}
		if existing != nil && existing.ID() != excludeID {
			return &domain.ConflictError{Field: f.Name, Value: fmt.Sprint(v)}
		}
	}
	return nil
}
