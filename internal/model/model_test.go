package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUpdatePhoneRequest_NullableFields(t *testing.T) {
	var req UpdatePhoneRequest
	require.NoError(t, json.Unmarshal([]byte(`{"os":null,"sim":"Dual"}`), &req))

	assert.True(t, req.OS.Set)
	assert.Nil(t, req.OS.Value)
	assert.True(t, req.SIM.Set)
	assert.Equal(t, "Dual", *req.SIM.Value)
	assert.False(t, req.InspectionVideo.Set)

	p := Phone{OS: strPtr("Android 14"), SIM: strPtr("Single"), InspectionVideo: strPtr("https://v.example/1")}
	req.Apply(&p)

	assert.Nil(t, p.OS)
	assert.Equal(t, "Dual", *p.SIM)
	assert.Equal(t, "https://v.example/1", *p.InspectionVideo)
}

func TestUpdatePhoneRequest_ApplyPartial(t *testing.T) {
	p := Phone{Name: "Galaxy S23", Brand: "Samsung", RAM: 8, OUPrice: 500000, Images: []string{"a.jpg"}}
	req := UpdatePhoneRequest{OUPrice: intPtr(450000), Images: []string{"b.jpg", "c.jpg"}}

	req.Apply(&p)

	assert.Equal(t, "Galaxy S23", p.Name)
	assert.Equal(t, 8, p.RAM)
	assert.Equal(t, 450000, p.OUPrice)
	assert.Equal(t, []string{"b.jpg", "c.jpg"}, p.Images)
}

func TestCreatePhoneRequest_ToPhone(t *testing.T) {
	req := CreatePhoneRequest{
		Name: "iPhone 14", Brand: "Apple", RAM: intPtr(6), ROM: intPtr(128), Color: "Blue",
		Battery: intPtr(3279), Camera: intPtr(12), FrontCamera: intPtr(12),
		MarketPrice: intPtr(900000), JumiaPrice: intPtr(880000), OUPrice: intPtr(820000),
		Description: "Clean", Images: []string{"1.jpg"}, Condition: "Used - Good",
	}

	p := req.ToPhone()

	assert.Empty(t, p.ID)
	assert.Equal(t, 820000, p.OUPrice)
	assert.Equal(t, 80000, p.Savings())
	assert.Equal(t, "1.jpg", p.PrimaryImage())
}

func TestPhone_SavingsCanBeNegative(t *testing.T) {
	p := Phone{MarketPrice: 100, OUPrice: 120}
	assert.Equal(t, -20, p.Savings())
	assert.Equal(t, "", Phone{}.PrimaryImage())
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
	assert.True(t, DefaultRole.Valid())
}

func TestParseStoreSettings(t *testing.T) {
	s := ParseStoreSettings(map[string]string{
		SettingStoreName:     "Phones R Us",
		SettingPublicCatalog: "false",
		SettingCurrency:      "",
	})

	assert.Equal(t, "Phones R Us", s.StoreName)
	assert.Equal(t, "₦", s.Currency)
	assert.False(t, s.PublicCatalog)
	assert.True(t, s.PriceComparison)
	assert.Equal(t, "false", s.Map()[SettingPublicCatalog])
}

func TestUpdateProfileRequest(t *testing.T) {
	assert.True(t, UpdateProfileRequest{}.Empty())

	u := AdminUser{Name: "Admin User", Email: "admin@ougadgets.com"}
	UpdateProfileRequest{Email: strPtr("ops@ougadgets.com"), Phone: strPtr("+234 1")}.Apply(&u)

	assert.Equal(t, "Admin User", u.Name)
	assert.Equal(t, "ops@ougadgets.com", u.Email)
	assert.Equal(t, "+234 1", *u.Phone)
}
