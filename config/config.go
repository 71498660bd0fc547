package config

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/hcl"
)

// Configuration is the main configuration structure

type MarketConf struct {
	AdminAddress      string `hcl:"admin_address"`
	PlatformWallet    string `hcl:"platform_wallet"`
	RentalPeriodHours int    `hcl:"rental_period_hours"`
}

type SimulatorConf struct {
	CreatorNum         int     `hcl:"creator_num"`
	CollectorNum       int     `hcl:"collector_num"`
	Rounds             int     `hcl:"rounds"`
	SeedFunds          int64   `hcl:"seed_funds"`
	RoyaltyBasisPoints int     `hcl:"royalty_basis_points"`
	SalePrice          int64   `hcl:"sale_price"`
	RentPrice          int64   `hcl:"rent_price"`
	RentDuration       int     `hcl:"rent_duration"`
	ListProb           float64 `hcl:"list_prob"`
	DelistProb         float64 `hcl:"delist_prob"`
	BuyProb            float64 `hcl:"buy_prob"`
	RentProb           float64 `hcl:"rent_prob"`
	PauseProb          float64 `hcl:"pause_prob"`
}

type LoggerConf struct {
	Directory string            `hcl:"directory"`
	File      string            `hcl:"file"`
	Size      int               `hcl:"size"`
	Count     int               `hcl:"count"`
	Console   bool              `hcl:"console"`
	Levels    map[string]string `hcl:"levels"`
}

type Configuration struct {
	Network   string        `hcl:"network"`
	MirrorDB  string        `hcl:"mirror_db"`
	Market    MarketConf    `hcl:"market"`
	Simulator SimulatorConf `hcl:"simulator"`
	Logger    LoggerConf    `hcl:"logger"`
}

// RentalPeriod converts the configured period length, defaulting to one day.
func (m MarketConf) RentalPeriod() time.Duration {
	if m.RentalPeriodHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(m.RentalPeriodHours) * time.Hour
}

// Load will read configuration from file
func Load(fileName string) (*Configuration, error) {
	var m Configuration
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	if err = hcl.Unmarshal(b, &m); nil != err {
		return nil, err
	}

	if m.Logger.Levels == nil {
		m.Logger.Levels = map[string]string{"DEFAULT": "info"}
	}
	if m.Logger.File == "" {
		m.Logger.File = "marketplace.log"
	}
	if m.Logger.Size <= 0 {
		m.Logger.Size = 1048576
	}
	if m.Logger.Count <= 0 {
		m.Logger.Count = 10
	}

	return &m, nil
}
