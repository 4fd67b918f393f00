package service

import (
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func groupToAPI(g *models.Group) *api.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		Members:     members,
		CreatedAt:   g.CreatedAt,
	}
}

func expenseToAPI(e *models.Expense) *api.Expense {
	shares := make([]api.Share, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = api.Share{UserID: s.UserID, Amount: s.Amount}
	}
	return &api.Expense{
		ID:                e.ID,
		Description:       e.Description,
		Amount:            e.Amount,
		PaidBy:            e.PaidBy,
		GroupID:           e.GroupID,
		SplitType:         e.SplitType,
		Shares:            shares,
		Date:              e.Date,
		IsRecurring:       e.IsRecurring,
		RecurrencePattern: e.RecurrencePattern,
	}
}

func paymentToAPI(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:          p.ID,
		FromUserID:  p.FromUserID,
		ToUserID:    p.ToUserID,
		Amount:      p.Amount,
		GroupID:     p.GroupID,
		Description: p.Description,
		Date:        p.Date,
	}
}
