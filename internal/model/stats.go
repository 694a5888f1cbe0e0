package model

// DashboardStats are the headline numbers on the admin dashboard.
type DashboardStats struct {
	TotalPhones     int   `json:"totalPhones"`
	InventoryValue  int64 `json:"inventoryValue"`
	CustomerSavings int64 `json:"customerSavings"`
	Brands          int   `json:"brands"`
}
