package order

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storefront/internal/modules/cart"
)

var handoffLines = []cart.Line{
	{ProductID: "rice", Name: "Rice", Price: decimal.NewFromInt(1250), Quantity: 3},
	{ProductID: "oil", Name: "Oil & Co", Price: decimal.RequireFromString("4100.50"), Quantity: 2},
}

func TestBuildSummary(t *testing.T) {
	want := "3x Rice - KES 3750.00\n2x Oil & Co - KES 8201.00\nTotal: KES 11951.00"
	assert.Equal(t, want, BuildSummary(handoffLines, "KES"))
}

func TestDeepLink(t *testing.T) {
	link, err := DeepLink("+254 712-345-678", handoffLines, "KES")
	require.NoError(t, err)

	want := "https://wa.me/254712345678?text=" +
		"3x%20Rice%20-%20KES%203750.00" +
		"%0A2x%20Oil%20%26%20Co%20-%20KES%208201.00" +
		"%0ATotal%3A%20KES%2011951.00"
	assert.Equal(t, want, link)
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, strings.Split(BuildSummary(handoffLines, "KES"), "\n"), strings.Split(u.Query().Get("text"), "\n"))
}

func TestDeepLink_EncodesPlusInNames(t *testing.T) {
	lines := []cart.Line{{ProductID: "a", Name: "Salt+Iodine", Price: decimal.NewFromInt(10), Quantity: 1}}
	link, err := DeepLink("254700000000", lines, "KES")
	require.NoError(t, err)
	assert.Contains(t, link, "Salt%2BIodine")
}

func TestDeepLink_RequiresPhone(t *testing.T) {
	_, err := DeepLink(" + - ", handoffLines, "KES")
	assert.ErrorIs(t, err, ErrNoPhone)
}
