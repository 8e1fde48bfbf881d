package service

import (
	"fmt"

	"github.com/noah-isme/sma-rating-sync/internal/models"
)

const (
	msgAddFailed     = "The student could not be added"
	msgIllegalRating = "The rating must be between 0 and 5"
	msgRateFailed    = "The student could not be rated"
	msgRemoveFailed  = "The student could not be removed"
	msgLoadFailed    = "The student data could not be loaded"
)

func addedMessage(s models.Student) string {
	return fmt.Sprintf("%s was added", s.FullName())
}

func ratedMessage(s models.Student, rating int) string {
	switch rating {
	case 0:
		return fmt.Sprintf("The rating of %s was reset", s.FullName())
	case 1:
		return fmt.Sprintf("%s was rated with 1 point", s.FullName())
	default:
		return fmt.Sprintf("%s was rated with %d points", s.FullName(), rating)
	}
}

func removedMessage(s models.Student) string {
	return fmt.Sprintf("%s was removed", s.FullName())
}
