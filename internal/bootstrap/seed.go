package bootstrap

import (
	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Profile{},
		&entity.Post{},
		&entity.Attachment{},
		&entity.Comment{},
		&entity.Reaction{},
		&entity.Message{},
	)
}

// SeedAdmins grants the admin role to the given principals, creating placeholder
// profiles for those that never signed in. Their names are replaced on first profile save.
func SeedAdmins(db *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		admin := entity.Profile{
			ID:        id,
			Name:      "Administrator",
			Role:      entity.RoleAdmin,
			Interests: entity.Interests(nil),
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": entity.RoleAdmin}),
		}).Create(&admin).Error
		if err != nil {
			return err
		}
		logger.L.Info("admin role granted", zap.String("profile_id", id.String()))
	}
	return nil
}
