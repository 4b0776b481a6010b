package models

import (
	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type AccountProjectionResponse struct {
	AccountID        string `json:"accountId"`
	Name             string `json:"name"`
	CurrentBalance   string `json:"currentBalance"`
	ProjectedBalance string `json:"projectedBalance"`
	MinimumBalance   string `json:"minimumBalance"`
	BelowMinimum     bool   `json:"belowMinimum"`
}

type ProjectionResponse struct {
	Days         int                         `json:"days"`
	From         string                      `json:"from"`
	To           string                      `json:"to"`
	Events       []ForecastEventResponse     `json:"events"`
	Accounts     []AccountProjectionResponse `json:"accounts"`
	TotalInflow  string                      `json:"totalInflow"`
	TotalOutflow string                      `json:"totalOutflow"`
	NetFlow      string                      `json:"netFlow"`
}

func MapProjectionToResponse(projection domain.Projection) ProjectionResponse {
	events := make([]ForecastEventResponse, 0, len(projection.Events))
	for _, event := range projection.Events {
		events = append(events, MapForecastEventToResponse(event))
	}

	accounts := make([]AccountProjectionResponse, 0, len(projection.Accounts))
	for _, account := range projection.Accounts {
		accounts = append(accounts, AccountProjectionResponse{
			AccountID:        account.AccountID,
			Name:             account.Name,
			CurrentBalance:   account.CurrentBalance.StringFixed(2),
			ProjectedBalance: account.ProjectedBalance.StringFixed(2),
			MinimumBalance:   account.MinimumBalance.StringFixed(2),
			BelowMinimum:     account.BelowMinimum,
		})
	}

	return ProjectionResponse{
		Days:         projection.Days,
		From:         projection.From.Format("2006-01-02"),
		To:           projection.To.Format("2006-01-02"),
		Events:       events,
		Accounts:     accounts,
		TotalInflow:  projection.TotalInflow.StringFixed(2),
		TotalOutflow: projection.TotalOutflow.StringFixed(2),
		NetFlow:      projection.NetFlow.StringFixed(2),
	}
}
