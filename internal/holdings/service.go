package holdings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
)

// ErrInvalid flags a rejected holding payload.
var ErrInvalid = errors.New("invalid holding")

// CryptoInput is the raw, unvalidated form of a crypto position.
type CryptoInput struct {
	AssetID     string          `json:"assetId"`
	Ticker      string          `json:"ticker"`
	Name        string          `json:"name"`
	Subcategory string          `json:"subcategory"`
	Venue       string          `json:"venue"`
	Quantity    decimal.Decimal `json:"quantity"`
	APY         decimal.Decimal `json:"apy"`
	Acquisition string          `json:"acquisition"`
}

// EquityInput is the raw, unvalidated form of an equity position.
type EquityInput struct {
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Subtype  string          `json:"subtype"`
	Tags     []string        `json:"tags"`
	Currency string          `json:"currency"`
	Venue    string          `json:"venue"`
	Quantity decimal.Decimal `json:"quantity"`
	APY      decimal.Decimal `json:"apy"`
}

// CashInput is the raw, unvalidated form of a cash position.
type CashInput struct {
	Label    string          `json:"label"`
	Kind     string          `json:"kind"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	APY      decimal.Decimal `json:"apy"`
}

// Holdings groups every stored position by asset class.
type Holdings struct {
	Crypto   []domain.CryptoHolding `json:"crypto"`
	Equities []domain.EquityHolding `json:"equities"`
	Cash     []domain.CashHolding   `json:"cash"`
}

// Service validates incoming positions and stores them. Free-form
// classification fields are rejected here so everything downstream
// works with closed enums only.
type Service struct {
	repo Repository
}

// NewService creates a new holdings service.
func NewService(repo Repository) *Service {
	if repo == nil {
		panic("holdings.NewService: repo is nil")
	}
	return &Service{repo: repo}
}

// List returns every stored position grouped by asset class.
func (s *Service) List(ctx context.Context) (Holdings, error) {
	crypto, err := s.repo.ListCrypto(ctx)
	if err != nil {
		return Holdings{}, fmt.Errorf("loading crypto holdings: %w", err)
	}
	equities, err := s.repo.ListEquities(ctx)
	if err != nil {
		return Holdings{}, fmt.Errorf("loading equity holdings: %w", err)
	}
	cash, err := s.repo.ListCash(ctx)
	if err != nil {
		return Holdings{}, fmt.Errorf("loading cash holdings: %w", err)
	}
	return Holdings{Crypto: crypto, Equities: equities, Cash: cash}, nil
}

// SaveCrypto validates and upserts a crypto position.
func (s *Service) SaveCrypto(ctx context.Context, in CryptoInput) (domain.CryptoHolding, error) {
	h, err := cryptoFromInput(in)
	if err != nil {
		return domain.CryptoHolding{}, err
	}
	saved, err := s.repo.UpsertCrypto(ctx, h)
	if err != nil {
		return domain.CryptoHolding{}, fmt.Errorf("saving crypto holding: %w", err)
	}
	return saved, nil
}

// SaveEquity validates and upserts an equity position.
func (s *Service) SaveEquity(ctx context.Context, in EquityInput) (domain.EquityHolding, error) {
	h, err := equityFromInput(in)
	if err != nil {
		return domain.EquityHolding{}, err
	}
	saved, err := s.repo.UpsertEquity(ctx, h)
	if err != nil {
		return domain.EquityHolding{}, fmt.Errorf("saving equity holding: %w", err)
	}
	return saved, nil
}

// SaveCash validates and upserts a cash position.
func (s *Service) SaveCash(ctx context.Context, in CashInput) (domain.CashHolding, error) {
	h, err := cashFromInput(in)
	if err != nil {
		return domain.CashHolding{}, err
	}
	saved, err := s.repo.UpsertCash(ctx, h)
	if err != nil {
		return domain.CashHolding{}, fmt.Errorf("saving cash holding: %w", err)
	}
	return saved, nil
}

// Delete removes the holding with the given id from the given class.
func (s *Service) Delete(ctx context.Context, class string, id int64) error {
	parsed, err := domain.ParseAssetClass(class)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	if err := s.repo.Delete(ctx, parsed, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("deleting holding: %w", err)
	}
	return nil
}

// Universe returns the distinct crypto asset ids and equity tickers the
// quote providers must cover.
func (s *Service) Universe(ctx context.Context) (assetIDs, tickers []string, err error) {
	crypto, err := s.repo.ListCrypto(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading crypto holdings: %w", err)
	}
	equities, err := s.repo.ListEquities(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading equity holdings: %w", err)
	}

	assetIDs = lo.Uniq(lo.Map(crypto, func(h domain.CryptoHolding, _ int) string {
		return h.AssetID
	}))
	tickers = lo.Uniq(lo.Map(equities, func(h domain.EquityHolding, _ int) string {
		return h.Ticker
	}))
	return assetIDs, tickers, nil
}

func cryptoFromInput(in CryptoInput) (domain.CryptoHolding, error) {
	assetID := strings.TrimSpace(strings.ToLower(in.AssetID))
	if assetID == "" {
		return domain.CryptoHolding{}, fmt.Errorf("%w: assetId is required", ErrInvalid)
	}
	ticker := strings.TrimSpace(strings.ToUpper(in.Ticker))
	if ticker == "" {
		return domain.CryptoHolding{}, fmt.Errorf("%w: ticker is required", ErrInvalid)
	}
	venue := strings.TrimSpace(in.Venue)
	if venue == "" {
		return domain.CryptoHolding{}, fmt.Errorf("%w: venue is required", ErrInvalid)
	}
	if !in.Quantity.IsPositive() {
		return domain.CryptoHolding{}, fmt.Errorf("%w: quantity must be positive", ErrInvalid)
	}
	if in.APY.IsNegative() {
		return domain.CryptoHolding{}, fmt.Errorf("%w: apy must not be negative", ErrInvalid)
	}
	acquisition, err := domain.ParseAcquisitionMethod(in.Acquisition)
	if err != nil {
		return domain.CryptoHolding{}, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	return domain.CryptoHolding{
		AssetID:     assetID,
		Ticker:      ticker,
		Name:        strings.TrimSpace(in.Name),
		Subcategory: domain.SubcategoryFromTag(in.Subcategory),
		Venue:       venue,
		Quantity:    in.Quantity,
		APY:         in.APY,
		Acquisition: acquisition,
	}, nil
}

func equityFromInput(in EquityInput) (domain.EquityHolding, error) {
	ticker := strings.TrimSpace(strings.ToUpper(in.Ticker))
	if ticker == "" {
		return domain.EquityHolding{}, fmt.Errorf("%w: ticker is required", ErrInvalid)
	}
	venue := strings.TrimSpace(in.Venue)
	if venue == "" {
		return domain.EquityHolding{}, fmt.Errorf("%w: venue is required", ErrInvalid)
	}
	if !in.Quantity.IsPositive() {
		return domain.EquityHolding{}, fmt.Errorf("%w: quantity must be positive", ErrInvalid)
	}
	if in.APY.IsNegative() {
		return domain.EquityHolding{}, fmt.Errorf("%w: apy must not be negative", ErrInvalid)
	}
	category, err := domain.ParseEquityCategory(in.Category)
	if err != nil {
		return domain.EquityHolding{}, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	currency, err := domain.ParseCurrency(in.Currency)
	if err != nil {
		return domain.EquityHolding{}, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	tags := lo.Uniq(lo.FilterMap(in.Tags, func(tag string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(tag)
		return trimmed, trimmed != ""
	}))

	return domain.EquityHolding{
		Ticker:   ticker,
		Name:     strings.TrimSpace(in.Name),
		Category: category,
		Subtype:  strings.TrimSpace(in.Subtype),
		Tags:     tags,
		Currency: currency,
		Venue:    venue,
		Quantity: in.Quantity,
		APY:      in.APY,
	}, nil
}

func cashFromInput(in CashInput) (domain.CashHolding, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return domain.CashHolding{}, fmt.Errorf("%w: label is required", ErrInvalid)
	}
	kind, err := domain.ParseCashKind(in.Kind)
	if err != nil {
		return domain.CashHolding{}, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	currency, err := domain.ParseCurrency(in.Currency)
	if err != nil {
		return domain.CashHolding{}, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	if in.Amount.IsNegative() {
		return domain.CashHolding{}, fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}
	if in.APY.IsNegative() {
		return domain.CashHolding{}, fmt.Errorf("%w: apy must not be negative", ErrInvalid)
	}

	return domain.CashHolding{
		Label:    label,
		Kind:     kind,
		Currency: currency,
		Amount:   in.Amount,
		APY:      in.APY,
	}, nil
}
