// Package mirror maintains a query-optimized copy of the ledger state by
// replaying committed events into a sqlite store. It is eventually
// consistent with the ledger and is never consulted for ownership or fund
// decisions; it exists so that browsing and history queries do not touch
// the ledger's locks.
package mirror

import (
	"math/big"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ownpicture/marketplace/ledger"
)

// baseUnitExponent converts the ledger's smallest integer money unit into
// whole coins for display, matching the chain's 18-decimal convention.
const baseUnitExponent = 18

// Token is the mirrored per-asset row: identity plus the current listing
// and rental state, denormalized for browsing queries.
type Token struct {
	AssetID            uint64 `gorm:"primaryKey"`
	Creator            string `gorm:"index"`
	Owner              string `gorm:"index"`
	MetadataRef        string
	RoyaltyBasisPoints uint32

	Listed           bool `gorm:"index"`
	SalePrice        uint64
	RentPrice        uint64
	DisplaySalePrice string

	Rented          bool
	Renter          string
	RentalExpiresAt *time.Time

	UpdatedAt time.Time
}

// Trade is one completed sale or rental, keyed by the ledger event id so a
// replayed event overwrites rather than duplicates.
type Trade struct {
	EventID        string `gorm:"primaryKey"`
	AssetID        uint64 `gorm:"index"`
	Kind           string `gorm:"index"` // "sale" or "rental"
	Seller         string
	Buyer          string
	Price          uint64
	DisplayPrice   string
	PlatformFee    uint64
	RoyaltyFee     uint64
	SellerProceeds uint64
	ExecutedAt     time.Time
}

// Mirror replays ledger events into its store. HandleEvent is driven by the
// ledger's synchronous fan-out, so writes for the same asset arrive in
// commit order.
type Mirror struct {
	db  *gorm.DB
	log *logger.L
}

// Open creates or opens the mirror store at path and migrates the schema.
func Open(path string) (*Mirror, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Token{}, &Trade{}); err != nil {
		return nil, err
	}
	return &Mirror{
		db:  db,
		log: logger.New("mirror"),
	}, nil
}

// Close releases the underlying database handle.
func (m *Mirror) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// displayAmount renders an integer base-unit amount as whole coins.
func displayAmount(units uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -baseUnitExponent).String()
}

// HandleEvent is the ledger subscriber. A replay failure is logged and the
// event dropped; the mirror is a convenience copy and must never fail the
// settlement that emitted the event.
func (m *Mirror) HandleEvent(ev ledger.Event) {
	var err error

	switch e := ev.(type) {
	case ledger.Minted:
		err = m.db.Create(&Token{
			AssetID:            e.AssetID,
			Creator:            e.Creator,
			Owner:              e.Creator,
			MetadataRef:        e.MetadataRef,
			RoyaltyBasisPoints: e.RoyaltyBasisPoints,
			UpdatedAt:          e.CommittedAt,
		}).Error

	case ledger.Listed:
		err = m.db.Model(&Token{}).Where("asset_id = ?", e.AssetID).
			Updates(map[string]interface{}{
				"listed":             true,
				"sale_price":         e.SalePrice,
				"rent_price":         e.RentPrice,
				"display_sale_price": displayAmount(e.SalePrice),
				"updated_at":         e.CommittedAt,
			}).Error

	case ledger.Delisted:
		err = m.db.Model(&Token{}).Where("asset_id = ?", e.AssetID).
			Updates(map[string]interface{}{
				"listed":             false,
				"sale_price":         0,
				"rent_price":         0,
				"display_sale_price": "",
				"updated_at":         e.CommittedAt,
			}).Error

	case ledger.Sold:
		err = m.db.Model(&Token{}).Where("asset_id = ?", e.AssetID).
			Updates(map[string]interface{}{
				"owner":              e.Buyer,
				"listed":             false,
				"sale_price":         0,
				"rent_price":         0,
				"display_sale_price": "",
				"updated_at":         e.CommittedAt,
			}).Error
		if err == nil {
			err = m.db.Save(&Trade{
				EventID:        e.EventID,
				AssetID:        e.AssetID,
				Kind:           "sale",
				Seller:         e.Seller,
				Buyer:          e.Buyer,
				Price:          e.SalePrice,
				DisplayPrice:   displayAmount(e.SalePrice),
				PlatformFee:    e.PlatformFee,
				RoyaltyFee:     e.RoyaltyFee,
				SellerProceeds: e.SellerProceeds,
				ExecutedAt:     e.CommittedAt,
			}).Error
		}

	case ledger.Rented:
		expiresAt := e.ExpiresAt
		err = m.db.Model(&Token{}).Where("asset_id = ?", e.AssetID).
			Updates(map[string]interface{}{
				"rented":            true,
				"renter":            e.Renter,
				"rental_expires_at": &expiresAt,
				"updated_at":        e.CommittedAt,
			}).Error
		if err == nil {
			err = m.db.Save(&Trade{
				EventID:        e.EventID,
				AssetID:        e.AssetID,
				Kind:           "rental",
				Seller:         e.Owner,
				Buyer:          e.Renter,
				Price:          e.RentPaid,
				DisplayPrice:   displayAmount(e.RentPaid),
				SellerProceeds: e.RentPaid,
				ExecutedAt:     e.CommittedAt,
			}).Error
		}

	case ledger.RentalEnded:
		err = m.db.Model(&Token{}).Where("asset_id = ?", e.AssetID).
			Updates(map[string]interface{}{
				"rented":            false,
				"renter":            "",
				"rental_expires_at": nil,
				"updated_at":        e.CommittedAt,
			}).Error
	}

	if err != nil {
		m.log.Errorf("replay of %s event failed: %v", ev.Name(), err)
	}
}

// Token returns the mirrored row for one asset.
func (m *Mirror) Token(assetID uint64) (Token, error) {
	var t Token
	err := m.db.First(&t, "asset_id = ?", assetID).Error
	return t, err
}

// TokensOwnedBy returns every token currently held by owner.
func (m *Mirror) TokensOwnedBy(owner string) ([]Token, error) {
	var tokens []Token
	err := m.db.Where("owner = ?", owner).Order("asset_id").Find(&tokens).Error
	return tokens, err
}

// ListedTokens returns every token with an active listing.
func (m *Mirror) ListedTokens() ([]Token, error) {
	var tokens []Token
	err := m.db.Where("listed = ?", true).Order("asset_id").Find(&tokens).Error
	return tokens, err
}

// TradesForToken returns the trade history of one asset, oldest first.
func (m *Mirror) TradesForToken(assetID uint64) ([]Trade, error) {
	var trades []Trade
	err := m.db.Where("asset_id = ?", assetID).Order("executed_at").Find(&trades).Error
	return trades, err
}

// TradeCount reports how many trades of the given kind have been mirrored.
func (m *Mirror) TradeCount(kind string) (int64, error) {
	var n int64
	err := m.db.Model(&Trade{}).Where("kind = ?", kind).Count(&n).Error
	return n, err
}
