package config

import (
	"testing"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestParseRelayFees(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fees, err := parseRelayFees([]string{"10002:150", " 10004:0"})
		require.NoError(t, err)
		require.Equal(t, map[domain.ChainId]uint64{
			domain.ChainSepolia: 150,
			domain.ChainHolesky: 0,
		}, fees)

		fees, err = parseRelayFees(nil)
		require.NoError(t, err)
		require.Empty(t, fees)
	})

	t.Run("invalid", func(t *testing.T) {
		testCases := []struct {
			value       []string
			expectedErr string
		}{
			{[]string{"10002"}, "must be in the form"},
			{[]string{"abc:1"}, "invalid relay fee"},
			{[]string{"10002:-1"}, "invalid relay fee"},
			{[]string{"10002:1", "10002:2"}, "duplicated relay fee"},
		}
		for _, tc := range testCases {
			_, err := parseRelayFees(tc.value)
			require.ErrorContains(t, err, tc.expectedErr)
		}
	})
}

func TestDerivePeerId(t *testing.T) {
	sepolia := derivePeerId(domain.ChainSepolia)
	require.False(t, sepolia.IsZero())
	require.Equal(t, sepolia, derivePeerId(domain.ChainSepolia))
	require.NotEqual(t, sepolia, derivePeerId(domain.ChainHolesky))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DbType:                "badger",
			EventDbType:           "inmemory",
			LiveStoreType:         "inmemory",
			RelayBusType:          "inmemory",
			ChainId:               domain.ChainSepolia,
			LocalPeer:             derivePeerId(domain.ChainSepolia),
			CustodyAccount:        defaultCustodyAccount,
			FeeAccount:            defaultFeeAccount,
			RelayTreasury:         defaultRelayTreasury,
			RelayFees:             map[domain.ChainId]uint64{domain.ChainHolesky: 100},
			MintingFee:            defaultMintingFee,
			DeliveryCheckInterval: defaultDeliveryCheckInterval,
			StaleBridgeThreshold:  defaultStaleBridgeThreshold,
			HeartbeatInterval:     int64(defaultHeartbeatInterval),
		}
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())

		svc, err := cfg.AppService()
		require.NoError(t, err)
		require.Equal(t, domain.ChainSepolia, svc.ChainId())
		require.NotNil(t, cfg.AdminService())
		require.NotNil(t, cfg.Ledger())
		svc.Stop()
		cfg.Close()
	})

	t.Run("invalid", func(t *testing.T) {
		testCases := []struct {
			name        string
			mutate      func(*Config)
			expectedErr string
		}{
			{"db type", func(c *Config) { c.DbType = "mysql" }, "db type not supported"},
			{"event db type", func(c *Config) { c.EventDbType = "badger" }, "event db type not supported"},
			{"live store", func(c *Config) { c.LiveStoreType = "memcached" }, "live store type not supported"},
			{"relay bus", func(c *Config) { c.RelayBusType = "kafka" }, "relay bus type not supported"},
			{"zero peer", func(c *Config) { c.LocalPeer = domain.ZeroPeer }, "local peer must not be zero"},
			{"custody", func(c *Config) { c.CustodyAccount = "" }, "missing custody account"},
			{"same accounts", func(c *Config) { c.FeeAccount = c.CustodyAccount }, "must be different"},
			{
				"local relay fee",
				func(c *Config) { c.RelayFees[domain.ChainSepolia] = 1 },
				"relay fee configured for the local chain",
			},
			{"heartbeat", func(c *Config) { c.HeartbeatInterval = 0 }, "heartbeat interval"},
			{"stale threshold", func(c *Config) { c.StaleBridgeThreshold = 0 }, "stale bridge threshold"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				cfg := valid()
				tc.mutate(cfg)
				require.ErrorContains(t, cfg.Validate(), tc.expectedErr)
			})
		}
	})
}
