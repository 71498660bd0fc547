package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/bitmark-inc/logger"

	"github.com/ownpicture/marketplace/config"
	"github.com/ownpicture/marketplace/ledger"
	"github.com/ownpicture/marketplace/mirror"
	"github.com/ownpicture/marketplace/util"
)

type Simulator struct {
	conf   *config.Configuration
	bank   *ledger.InMemoryBank
	ledger *ledger.Ledger
	mirror *mirror.Mirror
	log    *logger.L

	creators   []*Creator
	collectors []*Collector
}

// newAddress makes a fresh wallet-style identity for a simulated actor.
func newAddress() string {
	var b [20]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return "0x" + hex.EncodeToString(b[:])
}

func newSimulator(conf *config.Configuration) (*Simulator, error) {
	bank := ledger.NewInMemoryBank()
	led := ledger.New(ledger.Options{
		Admin:          conf.Market.AdminAddress,
		PlatformWallet: conf.Market.PlatformWallet,
		PeriodLength:   conf.Market.RentalPeriod(),
		Bank:           bank,
	})

	m, err := mirror.Open(conf.MirrorDB)
	if err != nil {
		return nil, err
	}
	led.Subscribe(m.HandleEvent)

	return &Simulator{
		conf:   conf,
		bank:   bank,
		ledger: led,
		mirror: m,
		log:    logger.New("simulator"),
	}, nil
}

func (s *Simulator) Close() {
	if err := s.mirror.Close(); err != nil {
		s.log.Errorf("closing mirror: %v", err)
	}
}

func (s *Simulator) Simulate() error {
	identities := map[string]string{
		s.conf.Market.AdminAddress:   "Admin",
		s.conf.Market.PlatformWallet: "Platform",
	}

	creators := make([]*Creator, 0)
	for i := 0; i < s.conf.Simulator.CreatorNum; i++ {
		c := newCreator(i, s.ledger, s.conf.Simulator)
		identities[c.Address] = c.Name
		creators = append(creators, c)
	}

	collectors := make([]*Collector, 0)
	for i := 0; i < s.conf.Simulator.CollectorNum; i++ {
		c := newCollector(i, s.ledger, s.mirror, s.conf.Simulator)
		s.bank.Deposit(c.Address, uint64(s.conf.Simulator.SeedFunds))
		identities[c.Address] = c.Name
		collectors = append(collectors, c)
	}

	for _, c := range creators {
		c.Identities = identities
	}
	for _, c := range collectors {
		c.Identities = identities
	}
	s.creators = creators
	s.collectors = collectors

	for round := 0; round < s.conf.Simulator.Rounds; round++ {
		s.log.Infof("round %d", round)

		// Creators put new work on the market.
		for _, c := range s.creators {
			if err := c.MintAndList(); err != nil {
				return err
			}
		}

		// The admin occasionally trips the circuit breaker to exercise
		// pause gating, then reopens before the next round.
		pausedThisRound := util.RandWithProb(s.conf.Simulator.PauseProb)
		if pausedThisRound {
			if err := s.ledger.Pause(s.conf.Market.AdminAddress); err != nil {
				return err
			}
			s.log.Infof("admin paused the marketplace")
		}

		// Collectors shop from the mirror, settle against the ledger.
		for _, c := range s.collectors {
			if err := c.Shop(); err != nil {
				return err
			}
		}

		// Creators reconsider their listings.
		for _, c := range s.creators {
			c.ReviseListings()
		}

		if pausedThisRound {
			if err := s.ledger.Unpause(s.conf.Market.AdminAddress); err != nil {
				return err
			}
			s.log.Infof("admin unpaused the marketplace")
		}
	}

	return s.report()
}

func (s *Simulator) report() error {
	sales, err := s.mirror.TradeCount("sale")
	if err != nil {
		return err
	}
	rentals, err := s.mirror.TradeCount("rental")
	if err != nil {
		return err
	}

	platformBalance := s.bank.Balance(s.conf.Market.PlatformWallet)
	fmt.Printf("simulation finished: %d sales, %d rentals, platform earned %d\n",
		sales, rentals, platformBalance)
	s.log.Infof("simulation finished: %d sales, %d rentals, platform earned %d",
		sales, rentals, platformBalance)
	return nil
}
