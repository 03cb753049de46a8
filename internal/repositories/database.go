package repository

import (
	"database/sql"
	"fmt"

	"github.com/pdvlabs/pdv-sales-platform/internal/config"

	_ "github.com/lib/pq"
)

type Repositories struct {
	DB       *sql.DB
	Product  ProductRepository
	Operator OperatorRepository
	Register RegisterRepository
	Sale     SaleRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repositories{
		DB:       db,
		Product:  NewProductRepo(db),
		Operator: NewOperatorRepo(db),
		Register: NewRegisterRepo(db),
		Sale:     NewSaleRepo(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
