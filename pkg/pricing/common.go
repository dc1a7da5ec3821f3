package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/utils"
)

// Provider is the provider name stamped on AWS price rows
const Provider = "aws"

// ParsePriceListItem converts one AWS price list JSON document into a PricingRecord
// carrying its on-demand price
func ParsePriceListItem(priceJSON string) (models.PricingRecord, error) {
	priceData, err := utils.ParseJSON(priceJSON)
	if err != nil {
		return models.PricingRecord{}, fmt.Errorf("error parsing pricing data: %w", err)
	}

	attributes, err := utils.GetNestedMap(priceData, "product", "attributes")
	if err != nil {
		return models.PricingRecord{}, fmt.Errorf("product attributes not found or invalid")
	}
	instanceType, err := utils.GetNestedString(attributes, "instanceType")
	if err != nil {
		return models.PricingRecord{}, fmt.Errorf("instanceType attribute not found")
	}
	sku, _ := utils.GetNestedString(priceData, "product", "sku")

	offer, dimension, err := extractOnDemandDimension(priceData)
	if err != nil {
		return models.PricingRecord{}, err
	}

	usd, err := utils.GetNestedString(dimension, "pricePerUnit", "USD")
	if err != nil {
		return models.PricingRecord{}, fmt.Errorf("USD price not found or invalid")
	}
	price, err := decimal.NewFromString(usd)
	if err != nil {
		return models.PricingRecord{}, fmt.Errorf("error parsing price: %w", err)
	}

	record := models.PricingRecord{
		ID:            sku,
		Provider:      Provider,
		VMSize:        instanceType,
		PriceType:     "Consumption",
		PriceCategory: "OnDemand",
		PricePerHour:  decimal.NewNullDecimal(price),
		RetailPrice:   price,
		UnitPrice:     price,
		Currency:      "USD",
		UnitOfMeasure: "1 Hour",
		SKUName:       sku,
		ProductID:     sku,
	}
	record.RegionName, _ = utils.GetNestedString(attributes, "regionCode")
	record.Location, _ = utils.GetNestedString(attributes, "location")
	record.ProductName, _ = utils.GetNestedString(attributes, "instanceFamily")
	record.EffectiveDate, _ = utils.GetNestedString(offer, "effectiveDate")
	record.MeterName, _ = utils.GetNestedString(dimension, "description")
	record.MeterID, _ = utils.GetNestedString(dimension, "rateCode")
	if unit, _ := utils.GetNestedString(dimension, "unit"); unit != "" && unit != "Hrs" {
		record.UnitOfMeasure = unit
	}

	return record, nil
}

// extractOnDemandDimension walks terms.OnDemand down to the first SKU offer and its first price dimension
func extractOnDemandDimension(priceData map[string]interface{}) (map[string]interface{}, map[string]interface{}, error) {
	onDemand, err := utils.GetNestedMap(priceData, "terms", "OnDemand")
	if err != nil {
		return nil, nil, fmt.Errorf("OnDemand field not found or invalid")
	}

	skuOffer, err := utils.GetFirstMapValue(onDemand)
	if err != nil {
		return nil, nil, fmt.Errorf("no SKU offer found")
	}
	skuOfferMap, ok := skuOffer.(map[string]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("SKU offer is not a map")
	}

	priceDimensions, err := utils.GetNestedMap(skuOfferMap, "priceDimensions")
	if err != nil {
		return nil, nil, fmt.Errorf("priceDimensions field not found or invalid")
	}

	dimension, err := utils.GetFirstMapValue(priceDimensions)
	if err != nil {
		return nil, nil, fmt.Errorf("no price dimension found")
	}
	dimensionMap, ok := dimension.(map[string]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("price dimension is not a map")
	}

	return skuOfferMap, dimensionMap, nil
}
