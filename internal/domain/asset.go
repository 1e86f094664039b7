package domain

import (
	"fmt"
	"strings"
)

// AssetClass identifies one of the three portfolio buckets.
type AssetClass string

const (
	AssetClassCrypto AssetClass = "crypto"
	AssetClassStocks AssetClass = "stocks"
	AssetClassCash   AssetClass = "cash"
)

// ParseAssetClass validates an asset class string.
func ParseAssetClass(s string) (AssetClass, error) {
	switch AssetClass(strings.ToLower(strings.TrimSpace(s))) {
	case AssetClassCrypto:
		return AssetClassCrypto, nil
	case AssetClassStocks:
		return AssetClassStocks, nil
	case AssetClassCash:
		return AssetClassCash, nil
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}

// Subcategory classifies a crypto asset.
type Subcategory string

const (
	SubcategoryCoin       Subcategory = "coin"
	SubcategoryStablecoin Subcategory = "stablecoin"
	SubcategoryDeFi       Subcategory = "defi"
	SubcategoryNFT        Subcategory = "nft"
	SubcategoryOther      Subcategory = "other"
)

// SubcategoryFromTag maps a free-text subcategory tag onto the closed set.
// Matching is case-insensitive; empty and unknown tags map to SubcategoryOther.
func SubcategoryFromTag(tag string) Subcategory {
	switch Subcategory(strings.ToLower(strings.TrimSpace(tag))) {
	case SubcategoryCoin:
		return SubcategoryCoin
	case SubcategoryStablecoin:
		return SubcategoryStablecoin
	case SubcategoryDeFi:
		return SubcategoryDeFi
	case SubcategoryNFT:
		return SubcategoryNFT
	}
	return SubcategoryOther
}

// EquityCategory classifies a listed instrument.
type EquityCategory string

const (
	EquityCategoryStock EquityCategory = "stock"
	EquityCategoryETF   EquityCategory = "etf"
	EquityCategoryBond  EquityCategory = "bond"
	EquityCategoryOther EquityCategory = "other"
)

// ParseEquityCategory validates an equity category string.
// An empty string defaults to EquityCategoryStock.
func ParseEquityCategory(s string) (EquityCategory, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return EquityCategoryStock, nil
	}
	switch EquityCategory(normalized) {
	case EquityCategoryStock:
		return EquityCategoryStock, nil
	case EquityCategoryETF:
		return EquityCategoryETF, nil
	case EquityCategoryBond:
		return EquityCategoryBond, nil
	case EquityCategoryOther:
		return EquityCategoryOther, nil
	}
	return "", fmt.Errorf("unknown equity category %q", s)
}

// CashKind distinguishes where a fiat balance is held.
// All kinds are equivalent for valuation.
type CashKind string

const (
	CashKindBank     CashKind = "bank"
	CashKindExchange CashKind = "exchange"
	CashKindBroker   CashKind = "broker"
)

// ParseCashKind validates a cash kind string.
func ParseCashKind(s string) (CashKind, error) {
	switch CashKind(strings.ToLower(strings.TrimSpace(s))) {
	case CashKindBank:
		return CashKindBank, nil
	case CashKindExchange:
		return CashKindExchange, nil
	case CashKindBroker:
		return CashKindBroker, nil
	}
	return "", fmt.Errorf("unknown cash kind %q", s)
}

// AcquisitionMethod records how a crypto position was acquired.
type AcquisitionMethod string

const (
	AcquisitionBought  AcquisitionMethod = "bought"
	AcquisitionMined   AcquisitionMethod = "mined"
	AcquisitionStaked  AcquisitionMethod = "staked"
	AcquisitionAirdrop AcquisitionMethod = "airdrop"
)

// ParseAcquisitionMethod validates an acquisition method string.
// An empty string defaults to AcquisitionBought.
func ParseAcquisitionMethod(s string) (AcquisitionMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return AcquisitionBought, nil
	}
	switch AcquisitionMethod(normalized) {
	case AcquisitionBought:
		return AcquisitionBought, nil
	case AcquisitionMined:
		return AcquisitionMined, nil
	case AcquisitionStaked:
		return AcquisitionStaked, nil
	case AcquisitionAirdrop:
		return AcquisitionAirdrop, nil
	}
	return "", fmt.Errorf("unknown acquisition method %q", s)
}

// MinedOrStaked reports whether the position was acquired by mining or staking.
func (m AcquisitionMethod) MinedOrStaked() bool {
	return m == AcquisitionMined || m == AcquisitionStaked
}
