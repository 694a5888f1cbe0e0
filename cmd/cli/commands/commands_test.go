package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"ougadgets/cmd/cli/output"
	"ougadgets/internal/client"
	"ougadgets/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	phones := map[string]model.Phone{
		"1": {ID: "1", Name: "Galaxy S21", Brand: "Samsung", RAM: 8, ROM: 128, MarketPrice: 500000, OUPrice: 450000, Condition: "UK Used"},
		"2": {ID: "2", Name: "iPhone 12", Brand: "Apple", RAM: 4, ROM: 64, MarketPrice: 400000, OUPrice: 380000, Condition: "New"},
	}
	r := gin.New()
	r.GET("/api/phones/:id", func(c *gin.Context) {
		p, ok := phones[c.Param("id")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Phone not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	orig := output.Out
	output.Out = &buf
	t.Cleanup(func() { output.Out = orig })
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCompareCommands(t *testing.T) {
	srv := catalogServer(t)
	state := filepath.Join(t.TempDir(), "state.json")
	base := []string{"--api", srv.URL, "--state", state}

	out, err := run(t, append([]string{"compare", "add", "1", "2"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Added Galaxy S21")
	assert.Contains(t, out, "Added iPhone 12")

	out, err = run(t, append([]string{"compare", "add", "1"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "not added")

	out, err = run(t, append([]string{"compare", "show"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Market Price")
	assert.Contains(t, out, "₦450,000")
	assert.Contains(t, out, "128 GB")

	store, err := client.LoadStore(state)
	require.NoError(t, err)
	assert.Len(t, store.CompareItems(), 2)

	_, err = run(t, append([]string{"compare", "remove", "2"}, base...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"compare", "add", "404"}, base...)...)
	assert.Error(t, err)

	store, err = client.LoadStore(state)
	require.NoError(t, err)
	require.Len(t, store.CompareItems(), 1)
	assert.Equal(t, "1", store.CompareItems()[0].ID)
}

func TestCurrencyFormatter(t *testing.T) {
	assert.Equal(t, "₦1,250,000", currencyFormatter("₦")(1250000))
	assert.Equal(t, "₦900", currencyFormatter("")(900))
	assert.Equal(t, "NGN 1,000", currencyFormatter("NGN ")(1000))
}
