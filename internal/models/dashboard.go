package models

import "time"

// DashboardStats aggregates production counters for managers.
type DashboardStats struct {
	UpcomingEvents    int       `json:"upcoming_events"`
	PendingDeliveries int       `json:"pending_deliveries"`
	ClosedThisMonth   int       `json:"closed_this_month"`
	OverdueTasks      int       `json:"overdue_tasks"`
	TotalEvents       int       `json:"total_events"`
	TotalTasks        int       `json:"total_tasks"`
	GeneratedAt       time.Time `json:"generated_at"`
}
