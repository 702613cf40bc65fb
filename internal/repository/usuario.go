package repository

import (
	"context"

	"github.com/deppfellow/clean-api/internal/database"
	"github.com/deppfellow/clean-api/internal/model"
)

var usuarioMapping = Mapping[model.Usuario]{
	Table: database.UsuariosTable,
	Key: func(u *model.Usuario) int64 {
		return u.Id
	},
	Values: func(u *model.Usuario) []any {
		return []any{u.Nome, u.Email}
	},
	Fields: func(u *model.Usuario) []any {
		return []any{&u.Id, &u.Nome, &u.Email}
	},
}

type UsuarioRepository struct {
	*Store[model.Usuario]
}

func NewUsuarioRepository(dbCtx *database.Context) (*UsuarioRepository, error) {
	store, err := NewStore(dbCtx, usuarioMapping)
	if err != nil {
		return nil, err
	}
	return &UsuarioRepository{Store: store}, nil
}

// FindUsuariosQueMaisCompram returns at most limit users, the ones who buy
// the most first.
//
// There is no purchase data yet, so users are ranked by Id until a purchase
// table exists to aggregate over.
func (r *UsuarioRepository) FindUsuariosQueMaisCompram(ctx context.Context, limit int) ([]model.Usuario, error) {
	if limit <= 0 {
		return []model.Usuario{}, nil
	}

	sql := r.selectSQL + " ORDER BY " + r.table.PrimaryKey + " LIMIT $1"
	return collect(r.query(ctx, sql, limit))
}
