package implementation

import (
	"context"
	"errors"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/mapper"
	"subscription-webhook-be/internal/model"
	"subscription-webhook-be/internal/repository/contract"
	"subscription-webhook-be/internal/repository/specification"
	"subscription-webhook-be/pkg/billing"

	"gorm.io/gorm"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB, calendar *billing.Calendar) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(calendar),
	}
}

func (r *SubscriptionRepositoryImpl) FindByUserId(ctx context.Context, userId string) (*entity.Subscription, error) {
	var m model.Subscription
	query := specification.Apply(r.db.WithContext(ctx), specification.ByUserId{UserId: userId})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// UpdateByUserId issues a single UPDATE ... WHERE user_id = ? [AND guard];
// the database row lock makes concurrent writers serialize.
func (r *SubscriptionRepositoryImpl) UpdateByUserId(ctx context.Context, userId string, update entity.SubscriptionUpdate, guard entity.UpdateGuard) (int64, error) {
	specs := []specification.Specification{specification.ByUserId{UserId: userId}}
	if len(guard.StatusIn) > 0 {
		statuses := make([]string, len(guard.StatusIn))
		for i, s := range guard.StatusIn {
			statuses[i] = string(s)
		}
		specs = append(specs, specification.StatusIn{Statuses: statuses})
	}
	if guard.StartDate != nil {
		specs = append(specs, specification.StartDateEquals{StartDate: r.mapper.FormatTime(*guard.StartDate)})
	}

	query := specification.Apply(r.db.WithContext(ctx).Model(&model.Subscription{}), specs...)
	result := query.Updates(r.mapper.UpdateColumns(update))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.ToModel(subscription)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*subscription = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
