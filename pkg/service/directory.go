package service

import (
	"database/sql"

	"github.com/pkg/errors"

	"spv_captable_back/models"
	"spv_captable_back/pkg/repository"
)

type DirectoryService struct {
	repo repository.Directory
}

func NewDirectoryService(repo repository.Directory) *DirectoryService {
	return &DirectoryService{repo: repo}
}

func (s *DirectoryService) GetInvestor(id int64) (models.Investor, error) {
	investor, err := s.repo.GetInvestor(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return investor, models.NewNotFoundError("investor %d not found", id)
		}
		return investor, err
	}
	return investor, nil
}

func (s *DirectoryService) GetVehicle(id int64) (models.Vehicle, error) {
	vehicle, err := s.repo.GetVehicle(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vehicle, models.NewNotFoundError("vehicle %d not found", id)
		}
		return vehicle, err
	}
	return vehicle, nil
}
