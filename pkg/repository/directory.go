package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"spv_captable_back/models"
)

type DirectoryPostgres struct {
	db *sqlx.DB
}

func NewDirectoryPostgres(db *sqlx.DB) *DirectoryPostgres {
	return &DirectoryPostgres{db: db}
}

func (r *DirectoryPostgres) GetInvestor(id int64) (models.Investor, error) {
	var investor models.Investor
	err := r.db.Get(&investor, `SELECT * FROM investors WHERE id = $1`, id)
	if err != nil {
		return investor, errors.Wrap(err, "select investor")
	}
	return investor, nil
}

func (r *DirectoryPostgres) GetVehicle(id int64) (models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.Get(&vehicle, `SELECT * FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return vehicle, errors.Wrap(err, "select vehicle")
	}
	return vehicle, nil
}
