package main

import (
	"errors"

	"github.com/fatih/color"

	"github.com/ownpicture/marketplace/config"
	"github.com/ownpicture/marketplace/ledger"
	"github.com/ownpicture/marketplace/mirror"
	"github.com/ownpicture/marketplace/util"
)

var (
	collectorColor = color.New(color.FgGreen)
	collectorTag   = "[COLLECTOR] "
)

type Collector struct {
	Address    string
	Name       string
	Identities map[string]string

	conf    config.SimulatorConf
	ledger  *ledger.Ledger
	mirror  *mirror.Mirror
	rentals []uint64
}

func newCollector(i int, l *ledger.Ledger, m *mirror.Mirror, conf config.SimulatorConf) *Collector {
	address := newAddress()
	return &Collector{
		Address: address,
		Name:    "Collector " + util.StringFromNum(i) + " " + util.ShortenAddress(address),
		conf:    conf,
		ledger:  l,
		mirror:  m,
	}
}

func (c *Collector) print(a ...interface{}) {
	collectorColor.Print(collectorTag)
	collectorColor.Println(a...)
}

// Shop browses the mirror for listed tokens and settles against the ledger.
// The mirror is only a catalog: price and availability are re-read from the
// ledger, which re-validates everything again inside the settlement.
func (c *Collector) Shop() error {
	if err := c.returnRentals(); err != nil {
		return err
	}

	tokens, err := c.mirror.ListedTokens()
	if err != nil {
		return err
	}

	for _, t := range tokens {
		if t.Owner == c.Address {
			continue
		}

		listing, ok := c.ledger.GetListing(t.AssetID)
		if !ok {
			// The mirror lagged behind a sale or delist.
			continue
		}

		switch {
		case util.RandWithProb(c.conf.BuyProb):
			if err := c.buy(t.AssetID, listing); err != nil {
				return err
			}
		case listing.RentPrice > 0 && util.RandWithProb(c.conf.RentProb):
			if err := c.rent(t.AssetID, listing); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Collector) buy(assetID uint64, listing ledger.Listing) error {
	seller := c.Identities[listing.Seller]
	err := c.ledger.Buy(assetID, c.Address, listing.SalePrice)
	switch {
	case err == nil:
		c.print(c.Name, "bought asset", assetID, "from", seller)
	case errors.Is(err, ledger.ErrSystemPaused):
		c.print(c.Name, "could not buy, the marketplace is paused.")
	case errors.Is(err, ledger.ErrNotListed),
		errors.Is(err, ledger.ErrCurrentlyRented),
		errors.Is(err, ledger.ErrInsufficientPayment),
		errors.Is(err, ledger.ErrInsufficientFunds):
		c.print(c.Name, "passed on asset", assetID, ":", err)
	default:
		return err
	}
	return nil
}

func (c *Collector) rent(assetID uint64, listing ledger.Listing) error {
	duration := uint32(c.conf.RentDuration)
	payment := listing.RentPrice * uint64(duration)
	err := c.ledger.Rent(assetID, c.Address, duration, payment)
	switch {
	case err == nil:
		c.rentals = append(c.rentals, assetID)
		c.print(c.Name, "rented asset", assetID, "for", duration, "periods")
	case errors.Is(err, ledger.ErrSystemPaused):
		c.print(c.Name, "could not rent, the marketplace is paused.")
	case errors.Is(err, ledger.ErrNotRentable),
		errors.Is(err, ledger.ErrAlreadyRented),
		errors.Is(err, ledger.ErrInsufficientPayment),
		errors.Is(err, ledger.ErrInsufficientFunds):
		c.print(c.Name, "passed on renting asset", assetID, ":", err)
	default:
		return err
	}
	return nil
}

// returnRentals ends this collector's rentals; the renter may always end
// early, anyone else has to wait for expiry.
func (c *Collector) returnRentals() error {
	remaining := c.rentals[:0]
	for _, assetID := range c.rentals {
		err := c.ledger.EndRental(assetID, c.Address)
		switch {
		case err == nil:
			c.print(c.Name, "ended rental of asset", assetID)
		case errors.Is(err, ledger.ErrNotExpired):
			remaining = append(remaining, assetID)
		default:
			return err
		}
	}
	c.rentals = remaining
	return nil
}
