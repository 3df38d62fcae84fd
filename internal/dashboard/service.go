package dashboard

import (
	"context"

	"github.com/yairmaster/mastercode-api/internal/store"
)

// Stats is the aggregate view the dashboard landing page shows.
type Stats struct {
	TotalClients      int     `json:"total_clients"`
	ActiveProjects    int     `json:"active_projects"`
	CompletedProjects int     `json:"completed_projects"`
	ActiveLeads       int     `json:"active_leads"`
	TotalIncome       float64 `json:"total_income"`
	TotalExpenses     float64 `json:"total_expenses"`
	PendingPayments   float64 `json:"pending_payments"`
	OpenTasks         int     `json:"open_tasks"`
	NetProfit         float64 `json:"net_profit"`
}

// Service computes aggregates over the shared document.
type Service struct {
	Store *store.Store
}

// Overview scans the document once and reduces it to dashboard stats.
func (s *Service) Overview(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.Store.View(func(d *store.Dataset) error {
		stats.TotalClients = len(d.Clients)
		for _, p := range d.Projects {
			switch p.Status {
			case store.ProjectStatusActive:
				stats.ActiveProjects++
			case store.ProjectStatusDone:
				stats.CompletedProjects++
			}
			if !p.Paid {
				stats.PendingPayments += p.Price
			}
		}
		for _, l := range d.Leads {
			if l.Status == store.LeadStatusNew || l.Status == store.LeadStatusWorking {
				stats.ActiveLeads++
			}
		}
		for _, e := range d.Income {
			stats.TotalIncome += e.Amount
		}
		for _, e := range d.Expenses {
			stats.TotalExpenses += e.Amount
		}
		for _, t := range d.Tasks {
			if t.Status == store.TaskStatusOpen {
				stats.OpenTasks++
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	stats.NetProfit = stats.TotalIncome - stats.TotalExpenses
	return stats, nil
}
