package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Paintersrp/mixsearch/internal/model"
)

const assetColumns = `asset_id, symbol, name, icon_url, balance, price_usd, chain_id`

func scanAsset(row rowScanner) (model.Asset, error) {
	var a model.Asset
	err := row.Scan(&a.ID, &a.Symbol, &a.Name, &a.IconURL, &a.Balance, &a.PriceUSD, &a.ChainID)
	return a, err
}

// SearchAssets matches symbol or name, most valuable holdings first.
func (s *Store) SearchAssets(ctx context.Context, keyword string, limit int) ([]model.Asset, error) {
	pattern := containsPattern(keyword)
	rows, err := s.db.QueryContext(ctx, `
SELECT `+assetColumns+`
FROM assets
WHERE symbol LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\'
ORDER BY balance * price_usd DESC, symbol
LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}
	defer rows.Close()

	assets := make([]model.Asset, 0, limit)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// Asset returns a single asset by id.
func (s *Store) Asset(ctx context.Context, id string) (model.Asset, error) {
	a, err := scanAsset(s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE asset_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, ErrNotFound
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	return a, nil
}

func upsertAssets(ctx context.Context, q querier, assets []model.Asset) error {
	for _, a := range assets {
		if a.ID == "" {
			return fmt.Errorf("asset without id (symbol %q)", a.Symbol)
		}
		_, err := q.ExecContext(ctx, `
INSERT INTO assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(asset_id) DO UPDATE SET
    symbol = excluded.symbol,
    name = excluded.name,
    icon_url = excluded.icon_url,
    balance = excluded.balance,
    price_usd = excluded.price_usd,
    chain_id = excluded.chain_id`,
			a.ID, a.Symbol, a.Name, a.IconURL, a.Balance, a.PriceUSD, a.ChainID)
		if err != nil {
			return fmt.Errorf("failed to upsert asset %s: %w", a.ID, err)
		}
	}
	return nil
}
