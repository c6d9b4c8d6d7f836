package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository/mysql/model"
)

type profileRepository struct {
	DB *gorm.DB
}

var _ domain.ProfileRepository = (*profileRepository)(nil)

// NewProfileRepository will create an implementation of domain.ProfileRepository
func NewProfileRepository(db *gorm.DB) *profileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (m *profileRepository) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	var p model.Profile
	if err := m.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return domain.Profile{}, translate(err)
	}
	return p.ToDomain(), nil
}

func (m *profileRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return []domain.Profile{}, nil
	}
	var profiles []model.Profile
	if err := m.DB.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, translate(err)
	}
	res := make([]domain.Profile, len(profiles))
	for i := range profiles {
		res[i] = profiles[i].ToDomain()
	}
	return res, nil
}
