package postgres

import (
	"context"
	"database/sql"

	"optimapricer/internal/model"
	"optimapricer/internal/repository"
)

// RecommendationPostgres is a PostgreSQL implementation of
// repository.RecommendationRepository. Ownership checks join through
// products and stores.
type RecommendationPostgres struct {
	db *sql.DB
}

// NewRecommendationPostgres creates a new RecommendationPostgres repository.
func NewRecommendationPostgres(db *sql.DB) *RecommendationPostgres {
	return &RecommendationPostgres{db: db}
}

var _ repository.RecommendationRepository = (*RecommendationPostgres)(nil)

const recommendationColumns = `id, product_id, suggested_price, predicted_margin, confidence_score, rationale, status, risk_level, competitor_min_price, competitor_max_price, market_position, strategy, implementation_timing, revenue_impact, created_at, updated_at`

func scanRecommendation(row interface{ Scan(...any) error }) (*model.Recommendation, error) {
	var rec model.Recommendation
	if err := row.Scan(
		&rec.ID,
		&rec.ProductID,
		&rec.SuggestedPrice,
		&rec.PredictedMargin,
		&rec.ConfidenceScore,
		&rec.Rationale,
		&rec.Status,
		&rec.RiskLevel,
		&rec.CompetitorMinPrice,
		&rec.CompetitorMaxPrice,
		&rec.MarketPosition,
		&rec.Strategy,
		&rec.ImplementationTiming,
		&rec.RevenueImpact,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

// joined recommendation plus its product.
const recommendationWithProductQuery = `
	SELECT r.id, r.product_id, r.suggested_price, r.predicted_margin, r.confidence_score,
	       r.rationale, r.status, r.risk_level, r.competitor_min_price, r.competitor_max_price,
	       r.market_position, r.strategy, r.implementation_timing, r.revenue_impact,
	       r.created_at, r.updated_at,
	       p.id, p.store_id, p.name, p.sku, p.category, p.cost_price, p.current_price,
	       p.competitor_price, p.sales_velocity, p.created_at, p.updated_at
	FROM recommendations r
	JOIN products p ON p.id = r.product_id
	JOIN stores s ON s.id = p.store_id
`

func scanRecommendationWithProduct(row interface{ Scan(...any) error }) (*model.Recommendation, error) {
	var (
		rec model.Recommendation
		p   model.Product
	)
	if err := row.Scan(
		&rec.ID,
		&rec.ProductID,
		&rec.SuggestedPrice,
		&rec.PredictedMargin,
		&rec.ConfidenceScore,
		&rec.Rationale,
		&rec.Status,
		&rec.RiskLevel,
		&rec.CompetitorMinPrice,
		&rec.CompetitorMaxPrice,
		&rec.MarketPosition,
		&rec.Strategy,
		&rec.ImplementationTiming,
		&rec.RevenueImpact,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&p.ID,
		&p.StoreID,
		&p.Name,
		&p.SKU,
		&p.Category,
		&p.CostPrice,
		&p.CurrentPrice,
		&p.CompetitorPrice,
		&p.SalesVelocity,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Product = &p
	return &rec, nil
}

// Create inserts a new recommendation row and returns the stored record.
func (r *RecommendationPostgres) Create(ctx context.Context, rec *model.Recommendation) (*model.Recommendation, error) {
	const q = `
		INSERT INTO recommendations (id, product_id, suggested_price, predicted_margin, confidence_score, rationale, status, risk_level, competitor_min_price, competitor_max_price, market_position, strategy, implementation_timing, revenue_impact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + recommendationColumns
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.ProductID,
		rec.SuggestedPrice,
		rec.PredictedMargin,
		rec.ConfidenceScore,
		rec.Rationale,
		rec.Status,
		rec.RiskLevel,
		rec.CompetitorMinPrice,
		rec.CompetitorMaxPrice,
		rec.MarketPosition,
		rec.Strategy,
		rec.ImplementationTiming,
		rec.RevenueImpact,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return scanRecommendation(row)
}

// FindByID fetches a recommendation owned by the user, with its product
// attached.
func (r *RecommendationPostgres) FindByID(ctx context.Context, id, userID string) (*model.Recommendation, error) {
	const q = recommendationWithProductQuery + `WHERE r.id = $1 AND s.user_id = $2`
	return scanRecommendationWithProduct(r.db.QueryRowContext(ctx, q, id, userID))
}

// List returns the user's recommendations newest first. Empty filter fields
// match everything.
func (r *RecommendationPostgres) List(ctx context.Context, userID string, f repository.RecommendationFilter) ([]model.Recommendation, error) {
	const q = recommendationWithProductQuery + `
		WHERE s.user_id = $1
		  AND ($2 = '' OR r.status = $2)
		  AND ($3 = '' OR r.product_id = $3)
		ORDER BY r.created_at DESC, r.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID, f.Status, f.ProductID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Recommendation, 0)
	for rows.Next() {
		rec, err := scanRecommendationWithProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindPendingByProduct returns the product's pending recommendation.
func (r *RecommendationPostgres) FindPendingByProduct(ctx context.Context, productID string) (*model.Recommendation, error) {
	const q = `
		SELECT ` + recommendationColumns + `
		FROM recommendations
		WHERE product_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanRecommendation(r.db.QueryRowContext(ctx, q, productID))
}

// Update persists recomputed optimizer fields and returns the stored record.
func (r *RecommendationPostgres) Update(ctx context.Context, rec *model.Recommendation) (*model.Recommendation, error) {
	const q = `
		UPDATE recommendations
		SET suggested_price = $2, predicted_margin = $3, confidence_score = $4, rationale = $5,
		    risk_level = $6, competitor_min_price = $7, competitor_max_price = $8,
		    market_position = $9, strategy = $10, implementation_timing = $11, revenue_impact = $12,
		    updated_at = $13
		WHERE id = $1
		RETURNING ` + recommendationColumns
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.SuggestedPrice,
		rec.PredictedMargin,
		rec.ConfidenceScore,
		rec.Rationale,
		rec.RiskLevel,
		rec.CompetitorMinPrice,
		rec.CompetitorMaxPrice,
		rec.MarketPosition,
		rec.Strategy,
		rec.ImplementationTiming,
		rec.RevenueImpact,
		rec.UpdatedAt,
	)
	return scanRecommendation(row)
}

// SetStatus transitions the recommendation's status.
func (r *RecommendationPostgres) SetStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE recommendations SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}
