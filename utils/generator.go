package utils

import (
	"errors"
	"math/rand"
	"time"

	"github.com/anjiri1684/hireloom/models"
	"gorm.io/gorm"
)

const testIDLength = 12
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateUniqueTestID returns a short "test_" id not yet used by any
// aptitude test.
func GenerateUniqueTestID(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, testIDLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		id := "test_" + string(b)

		var test models.AptitudeTest
		err := tx.Select("id").Where("id = ?", id).First(&test).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return id, nil
			}
			return "", err
		}
	}
}
