package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducts(t *testing.T) {
	csvData := `name,brand,category,price_inr,unit,stock
Organic Apples,NatureFarm,Produce,180.0,kg,50
Salt 1kg,MDH,Spices,35,1kg,80
,NoName,Other,10,,
Broken Price,X,Other,abc,,
Paneer 200g,LocalDairy,Dairy,110
`
	products, err := parseProducts(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Organic Apples", products[0].Name)
	assert.Equal(t, "NatureFarm", products[0].Brand)
	assert.Equal(t, 180.0, products[0].PriceINR)
	assert.Equal(t, "kg", products[0].Unit)
	assert.Equal(t, 50, products[0].Stock)

	assert.Equal(t, "Paneer 200g", products[2].Name)
	assert.Equal(t, "", products[2].Unit)
	assert.Equal(t, 0, products[2].Stock)
}

func TestParseProductsRequiresColumns(t *testing.T) {
	_, err := parseProducts(strings.NewReader("brand,price_inr\nAmul,65\n"))
	assert.Error(t, err)

	_, err = parseProducts(strings.NewReader("name,brand\nMilk,Amul\n"))
	assert.Error(t, err)

	products, err := parseProducts(strings.NewReader("Name,Price\nMilk,65\n"))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 65.0, products[0].PriceINR)
}
