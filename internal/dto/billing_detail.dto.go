package dto

import (
	"time"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type ServiceDetailDTO struct {
	ID          string                `json:"id"`
	BillingID   string                `json:"billingId"`
	UserID      string                `json:"userId"`
	ServiceID   string                `json:"serviceId"`
	Amount      float64               `json:"amount"`
	ServiceType string                `json:"serviceType"`
	User        *models.UserSummary   `json:"user"`
	Lesson      *models.LessonSummary `json:"lesson"`
}

type BillingDetailDTO struct {
	ID        string             `json:"id"`
	Date      time.Time          `json:"date"`
	Situation string             `json:"situation"`
	Total     float64            `json:"total"`
	Services  []ServiceDetailDTO `json:"services"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func UserSummary(u *models.User) *models.UserSummary {
	if u == nil {
		return nil
	}
	return &models.UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func LessonSummary(l *models.Lesson) *models.LessonSummary {
	if l == nil {
		return nil
	}
	return &models.LessonSummary{
		ID:     l.ID,
		Date:   l.Date,
		Desc:   l.Desc,
		Status: l.Status,
	}
}

// BillingDetail flattens a billing loaded with services, users and lessons.
func BillingDetail(b *models.Billing) BillingDetailDTO {
	out := BillingDetailDTO{
		ID:        b.ID,
		Date:      b.Date,
		Situation: b.Situation,
		Total:     b.Total(),
		Services:  make([]ServiceDetailDTO, 0, len(b.Services)),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	for i := range b.Services {
		s := &b.Services[i]
		out.Services = append(out.Services, ServiceDetailDTO{
			ID:          s.ID,
			BillingID:   s.BillingID,
			UserID:      s.UserID,
			ServiceID:   s.ServiceID,
			Amount:      s.Amount,
			ServiceType: s.ServiceType,
			User:        UserSummary(s.User),
			Lesson:      LessonSummary(s.Lesson),
		})
	}

	return out
}
