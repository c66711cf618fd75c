package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lot-bidding/internal/biddingerrors"
	"lot-bidding/internal/increment"
	model "lot-bidding/internal/models"
	"lot-bidding/internal/money"
	"lot-bidding/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// RunMigrations applies every pending migration found at migrationURL.
func RunMigrations(migrationURL, dbSource string) error {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer migration.Close()

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// NewPool opens a pgx connection pool and verifies it with a ping.
func NewPool(ctx context.Context, conn string) (*pgxpool.Pool, error) {
	if conn == "" {
		return nil, fmt.Errorf("postgres connection string is empty")
	}
	pool, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// PostgresRepo implements AuctionDB on PostgreSQL.
type PostgresRepo struct {
	DB *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

const lotColumns = `lot_id, auction_id, title, currency, starting_bid, reserve_price, increment_schedule,
	status, current_bid, current_bidder_id, starts_at, closes_at, outcome, version`

func (r *PostgresRepo) CreateLot(ctx context.Context, lot model.Lot) error {
	outcome, err := encodeOutcome(lot.Outcome)
	if err != nil {
		return err
	}
	query := `INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.DB.Exec(ctx, query,
		lot.LotID,
		lot.AuctionID,
		lot.Title,
		lot.Currency(),
		lot.StartingBid.Minor(),
		minorOrNil(lot.ReservePrice),
		lot.Increment.String(),
		lot.Status,
		minorOrNil(lot.CurrentBid),
		stringOrNil(lot.CurrentBidderID),
		lot.StartsAt,
		lot.ClosesAt,
		outcome,
		lot.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("create lot %s: %w", lot.LotID, biddingerrors.ErrLotExists)
		}
		return fmt.Errorf("create lot %s: %w", lot.LotID, err)
	}
	return nil
}

func (r *PostgresRepo) GetLot(ctx context.Context, lotID string) (model.Lot, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+lotColumns+` FROM lots WHERE lot_id = $1`, lotID)
	lot, err := scanLot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Lot{}, fmt.Errorf("get lot %s: %w", lotID, biddingerrors.ErrLotNotFound)
	}
	if err != nil {
		return model.Lot{}, fmt.Errorf("get lot %s: %w", lotID, err)
	}
	return lot, nil
}

func (r *PostgresRepo) UpdateLot(ctx context.Context, lot model.Lot) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("update lot %s: begin: %w", lot.LotID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := updateLot(ctx, tx, lot); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("update lot %s: commit: %w", lot.LotID, err)
	}
	return nil
}

// RecordBidForLot inserts the bid and advances the lot in one transaction.
// Replaying a bid whose write already committed is a no-op.
func (r *PostgresRepo) RecordBidForLot(ctx context.Context, bid model.Bid, lot model.Lot) error {
	if bid.LotID != lot.LotID {
		return fmt.Errorf("record bid %s for lot %s: %w", bid.BidID, lot.LotID, biddingerrors.ErrInvalidBid)
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("record bid %s: begin: %w", bid.BidID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	insertQuery := `INSERT INTO bids (bid_id, lot_id, bidder_id, amount, currency, submitted_at, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (bid_id) DO NOTHING`
	tag, err := tx.Exec(ctx, insertQuery,
		bid.BidID,
		bid.LotID,
		bid.BidderID,
		bid.Amount.Minor(),
		bid.Amount.Currency(),
		bid.SubmittedAt,
		bid.AcceptedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("record bid %s: amount already taken: %w", bid.BidID, biddingerrors.ErrVersionConflict)
		}
		return fmt.Errorf("record bid %s: insert: %w", bid.BidID, err)
	}
	if tag.RowsAffected() == 0 {
		return replayedBid(ctx, tx, bid, lot)
	}
	if err := updateLot(ctx, tx, lot); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("record bid %s: commit: %w", bid.BidID, err)
	}
	return nil
}

// replayedBid resolves a bid_id that is already stored: the earlier write
// succeeded when it belongs to this lot and the lot reached lot.Version.
func replayedBid(ctx context.Context, tx pgx.Tx, bid model.Bid, lot model.Lot) error {
	var (
		storedLot string
		version   int64
	)
	query := `SELECT b.lot_id, l.version FROM bids b JOIN lots l ON l.lot_id = b.lot_id WHERE b.bid_id = $1`
	if err := tx.QueryRow(ctx, query, bid.BidID).Scan(&storedLot, &version); err != nil {
		return fmt.Errorf("record bid %s: lookup: %w", bid.BidID, err)
	}
	if storedLot != lot.LotID {
		return fmt.Errorf("record bid %s: id used on lot %s: %w", bid.BidID, storedLot, biddingerrors.ErrInvalidBid)
	}
	if version < lot.Version {
		return fmt.Errorf("record bid %s: stored %d, writing %d: %w", bid.BidID, version, lot.Version, biddingerrors.ErrVersionConflict)
	}
	utils.Debug("repository: bid already recorded", map[string]any{"bid_id": bid.BidID, "lot_id": lot.LotID})
	return nil
}

// updateLot writes lot only if the stored row is at the preceding version.
func updateLot(ctx context.Context, tx pgx.Tx, lot model.Lot) error {
	outcome, err := encodeOutcome(lot.Outcome)
	if err != nil {
		return err
	}
	query := `UPDATE lots
		SET status = $2, current_bid = $3, current_bidder_id = $4, closes_at = $5, outcome = $6, version = $7
		WHERE lot_id = $1 AND version = $8`
	tag, err := tx.Exec(ctx, query,
		lot.LotID,
		lot.Status,
		minorOrNil(lot.CurrentBid),
		stringOrNil(lot.CurrentBidderID),
		lot.ClosesAt,
		outcome,
		lot.Version,
		lot.Version-1)
	if err != nil {
		return fmt.Errorf("update lot %s: %w", lot.LotID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM lots WHERE lot_id = $1)`, lot.LotID).Scan(&exists); err != nil {
		return fmt.Errorf("update lot %s: %w", lot.LotID, err)
	}
	if !exists {
		return fmt.Errorf("update lot %s: %w", lot.LotID, biddingerrors.ErrLotNotFound)
	}
	return fmt.Errorf("update lot %s at version %d: %w", lot.LotID, lot.Version, biddingerrors.ErrVersionConflict)
}

func (r *PostgresRepo) GetBidsByLot(ctx context.Context, lotID string) ([]model.Bid, error) {
	if _, err := r.GetLot(ctx, lotID); err != nil {
		return nil, err
	}
	query := `
		SELECT bid_id, lot_id, bidder_id, amount, currency, submitted_at, accepted_at
		FROM bids
		WHERE lot_id = $1
		ORDER BY seq`
	rows, err := r.DB.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("get bids for lot %s: %w", lotID, err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var (
			bid        model.Bid
			amount     int64
			currency   string
			acceptedAt *time.Time
		)
		if err := rows.Scan(&bid.BidID, &bid.LotID, &bid.BidderID, &amount, &currency, &bid.SubmittedAt, &acceptedAt); err != nil {
			return nil, fmt.Errorf("scan bid for lot %s: %w", lotID, err)
		}
		bid.Amount = money.New(amount, currency)
		bid.AcceptedAt = acceptedAt
		bid.Outcome = model.BidAccepted
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

func (r *PostgresRepo) GetLotsByBidder(ctx context.Context, bidderID string) ([]model.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots
		WHERE lot_id IN (SELECT DISTINCT lot_id FROM bids WHERE bidder_id = $1)
		ORDER BY lot_id`
	rows, err := r.DB.Query(ctx, query, bidderID)
	if err != nil {
		return nil, fmt.Errorf("get lots for bidder %s: %w", bidderID, err)
	}
	defer rows.Close()

	var lots []model.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot for bidder %s: %w", bidderID, err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, fmt.Errorf("get lots for bidder %s: %w", bidderID, biddingerrors.ErrBidderNoBids)
	}
	return lots, nil
}

func (r *PostgresRepo) RecordCommissionBid(ctx context.Context, bid model.CommissionBid) error {
	query := `INSERT INTO commission_bids (commission_bid_id, lot_id, bidder_id, max_bid, open_bid, currency, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.Exec(ctx, query,
		bid.CommissionBidID,
		bid.LotID,
		bid.BidderID,
		bid.MaxBid.Minor(),
		minorOrNil(bid.OpenBid),
		bid.MaxBid.Currency(),
		bid.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("record commission bid for lot %s: %w", bid.LotID, biddingerrors.ErrLotNotFound)
		}
		return fmt.Errorf("record commission bid for lot %s: %w", bid.LotID, err)
	}
	return nil
}

func (r *PostgresRepo) GetCommissionBids(ctx context.Context, lotID string) ([]model.CommissionBid, error) {
	query := `
		SELECT commission_bid_id, lot_id, bidder_id, max_bid, open_bid, currency, submitted_at
		FROM commission_bids
		WHERE lot_id = $1
		ORDER BY submitted_at, commission_bid_id`
	rows, err := r.DB.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("get commission bids for lot %s: %w", lotID, err)
	}
	defer rows.Close()

	var bids []model.CommissionBid
	for rows.Next() {
		var (
			bid      model.CommissionBid
			maxBid   int64
			openBid  *int64
			currency string
		)
		if err := rows.Scan(&bid.CommissionBidID, &bid.LotID, &bid.BidderID, &maxBid, &openBid, &currency, &bid.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan commission bid for lot %s: %w", lotID, err)
		}
		bid.MaxBid = money.New(maxBid, currency)
		bid.OpenBid = moneyOrNil(openBid, currency)
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

func scanLot(row pgx.Row) (model.Lot, error) {
	var (
		lot           model.Lot
		currency      string
		startingBid   int64
		reservePrice  *int64
		schedule      string
		currentBid    *int64
		currentBidder *string
		outcome       []byte
	)
	if err := row.Scan(
		&lot.LotID,
		&lot.AuctionID,
		&lot.Title,
		&currency,
		&startingBid,
		&reservePrice,
		&schedule,
		&lot.Status,
		&currentBid,
		&currentBidder,
		&lot.StartsAt,
		&lot.ClosesAt,
		&outcome,
		&lot.Version); err != nil {
		return model.Lot{}, err
	}

	inc, err := increment.Parse(schedule)
	if err != nil {
		return model.Lot{}, fmt.Errorf("lot %s increment schedule: %w", lot.LotID, err)
	}
	lot.Increment = inc
	lot.StartingBid = money.New(startingBid, currency)
	lot.ReservePrice = moneyOrNil(reservePrice, currency)
	lot.CurrentBid = moneyOrNil(currentBid, currency)
	if currentBidder != nil {
		lot.CurrentBidderID = *currentBidder
	}
	if len(outcome) > 0 {
		var o model.ClosingOutcome
		if err := json.Unmarshal(outcome, &o); err != nil {
			return model.Lot{}, fmt.Errorf("lot %s outcome: %w", lot.LotID, err)
		}
		lot.Outcome = &o
	}
	return lot, nil
}

func encodeOutcome(o *model.ClosingOutcome) ([]byte, error) {
	if o == nil {
		return nil, nil
	}
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode closing outcome: %w", err)
	}
	return data, nil
}

func minorOrNil(m *money.Money) *int64 {
	if m == nil {
		return nil
	}
	v := m.Minor()
	return &v
}

func moneyOrNil(minor *int64, currency string) *money.Money {
	if minor == nil {
		return nil
	}
	m := money.New(*minor, currency)
	return &m
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
