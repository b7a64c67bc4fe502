package database

import (
	"github.com/aojudge/ranklist/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Run log

// AppendRun inserts a run into the log. The run id is the primary key, so a
// redelivered run is ignored rather than duplicated; the return value
// reports whether the row was new. The ranking engine requires deduplicated
// input and this is the gate that provides it.
func AppendRun(db *gorm.DB, rec *models.RunRecord) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListRuns returns the whole run log in id order. This is the replay source
// for building a fresh engine.
func ListRuns(db *gorm.DB) ([]models.RunRecord, error) {
	var recs []models.RunRecord
	if err := db.Order("id asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func CountRuns(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.RunRecord{}).Count(&count).Error
	return count, err
}

// Operator CRUD

func CreateOperator(db *gorm.DB, op *models.Operator) error {
	return db.Create(op).Error
}

func GetOperatorByID(db *gorm.DB, id string) (*models.Operator, error) {
	var op models.Operator
	if err := db.Where("id = ?", id).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func GetOperatorByUsername(db *gorm.DB, username string) (*models.Operator, error) {
	var op models.Operator
	if err := db.Where("username = ?", username).First(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func CountOperators(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Operator{}).Count(&count).Error
	return count, err
}

func UpdateOperator(db *gorm.DB, op *models.Operator) error {
	return db.Save(op).Error
}
