package rating

import (
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

const (
	MinScore = 1
	MaxScore = 5

	// motivos de reclamação só aparecem para notas baixas
	ComplaintMaxScore = 3
	MaxComplaintTags  = 5
)

type Submission struct {
	SupplierID    uint
	UserID        uint
	UserName      string
	Score         int
	Comment       string
	ComplaintTags []string
}

func Validate(s Submission) error {
	if s.Score < MinScore || s.Score > MaxScore {
		return httperr.ErrBusiness("invalid_rating")
	}
	if len(s.ComplaintTags) == 0 {
		return nil
	}
	if s.Score > ComplaintMaxScore {
		return httperr.ErrBusiness("complaint_tags_not_allowed")
	}
	if len(s.ComplaintTags) > MaxComplaintTags {
		return httperr.ErrBusiness("too_many_complaint_tags")
	}
	for _, tag := range s.ComplaintTags {
		if !IsValidTag(tag) {
			return httperr.ErrBusiness("invalid_complaint_tag")
		}
	}
	return nil
}

// Apply substitui a avaliação do mesmo usuário ou acrescenta uma nova.
// A lista de entrada não é alterada.
func Apply(ratings []models.Rating, s Submission, now time.Time) (out []models.Rating, replaced bool) {
	out = make([]models.Rating, 0, len(ratings)+1)

	for _, r := range ratings {
		if r.UserID == s.UserID && !replaced {
			r.Score = s.Score
			r.Comment = s.Comment
			r.ComplaintTags = append([]string(nil), s.ComplaintTags...)
			r.UserName = s.UserName
			r.UpdatedAt = now
			replaced = true
		}
		out = append(out, r)
	}

	if !replaced {
		out = append(out, models.Rating{
			SupplierID:    s.SupplierID,
			UserID:        s.UserID,
			UserName:      s.UserName,
			Score:         s.Score,
			Comment:       s.Comment,
			ComplaintTags: append([]string(nil), s.ComplaintTags...),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return out, replaced
}

func Remove(ratings []models.Rating, userID uint) (out []models.Rating, removed bool) {
	out = make([]models.Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.UserID == userID {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out, removed
}

// Average é a média aritmética das notas; zero sem avaliações.
func Average(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings))
}
