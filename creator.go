package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/ownpicture/marketplace/config"
	"github.com/ownpicture/marketplace/ledger"
	"github.com/ownpicture/marketplace/util"
)

var (
	creatorColor = color.New(color.FgCyan)
	creatorTag   = "[CREATOR] "
)

type Creator struct {
	Address    string
	Name       string
	Identities map[string]string

	conf   config.SimulatorConf
	ledger *ledger.Ledger
	minted []uint64
	listed []uint64
}

func newCreator(i int, l *ledger.Ledger, conf config.SimulatorConf) *Creator {
	address := newAddress()
	return &Creator{
		Address: address,
		Name:    "Creator " + util.StringFromNum(i) + " " + util.ShortenAddress(address),
		conf:    conf,
		ledger:  l,
	}
}

func (c *Creator) print(a ...interface{}) {
	creatorColor.Print(creatorTag)
	creatorColor.Println(a...)
}

// MintAndList mints one new piece and, with the configured probability,
// immediately puts it on the market.
func (c *Creator) MintAndList() error {
	metadataRef := "ipfs://" + uuid.NewString()

	assetID, err := c.ledger.Mint(c.Address, metadataRef, uint32(c.conf.RoyaltyBasisPoints))
	if errors.Is(err, ledger.ErrSystemPaused) {
		c.print(c.Name, "could not mint, the marketplace is paused.")
		return nil
	}
	if err != nil {
		return err
	}
	c.minted = append(c.minted, assetID)
	c.print(c.Name, "minted asset", assetID)

	if !util.RandWithProb(c.conf.ListProb) {
		return nil
	}

	err = c.ledger.List(assetID, c.Address, uint64(c.conf.SalePrice), uint64(c.conf.RentPrice))
	if errors.Is(err, ledger.ErrActiveRental) {
		return nil
	}
	if err != nil {
		return err
	}
	c.listed = append(c.listed, assetID)
	c.print(c.Name, "listed asset", assetID)
	return nil
}

// ReviseListings occasionally withdraws a listing, exercising delist and
// the not-owner/no-listing rejections that follow a sale.
func (c *Creator) ReviseListings() {
	remaining := c.listed[:0]
	for _, assetID := range c.listed {
		if !util.RandWithProb(c.conf.DelistProb) {
			remaining = append(remaining, assetID)
			continue
		}
		err := c.ledger.Delist(assetID, c.Address)
		switch {
		case err == nil:
			c.print(c.Name, "delisted asset", assetID)
		case errors.Is(err, ledger.ErrNotOwner), errors.Is(err, ledger.ErrNoActiveListing):
			// Sold or already inactive, drop it from our book.
		default:
			c.print(c.Name, "delist of asset", assetID, "failed:", err)
		}
	}
	c.listed = remaining
}
