package catalog

import "ougadgets/internal/model"

// ComputeStats derives the dashboard numbers from a loaded catalog. The
// server asks the database instead; this is for clients holding a list.
func ComputeStats(phones []model.Phone) model.DashboardStats {
	stats := model.DashboardStats{TotalPhones: len(phones), Brands: len(Brands(phones))}
	for _, p := range phones {
		stats.InventoryValue += int64(p.OUPrice)
		stats.CustomerSavings += int64(p.Savings())
	}
	return stats
}
