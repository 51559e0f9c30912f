package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageId(t *testing.T) {
	boxId := NewBoxId(ChainHolesky, 1)

	id := NewMessageId(ChainHolesky, boxId, 1)
	require.Equal(t, id, NewMessageId(ChainHolesky, boxId, 1))
	require.NotEqual(t, id, NewMessageId(ChainHolesky, boxId, 2))
	require.NotEqual(t, id, NewMessageId(ChainSepolia, boxId, 1))
	require.NotEqual(t, id, NewMessageId(ChainHolesky, NewBoxId(ChainHolesky, 2), 1))

	parsed, err := ParseMessageId(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestBridgeMessage(t *testing.T) {
	boxId := NewBoxId(ChainHolesky, 3)
	peer, err := ParsePeerId("aa")
	require.NoError(t, err)

	msg := BridgeMessage{
		Id:                 NewMessageId(ChainHolesky, boxId, 1),
		SourceChainId:      ChainHolesky,
		DestinationChainId: ChainSepolia,
		BoxId:              boxId,
		Sequence:           1,
		Recipient:          "bob",
		SenderPeer:         peer,
		Snapshot: Snapshot{
			Fungibles: []FungibleBalance{{"T", 10}},
			Nfts:      []NftRef{{"N", 5}},
		},
		CreatedAt: 1700000000,
	}
	require.NoError(t, msg.Validate())

	buf, err := msg.Serialize()
	require.NoError(t, err)
	decoded, err := DeserializeBridgeMessage(buf)
	require.NoError(t, err)
	require.Equal(t, msg, *decoded)

	t.Run("invalid", func(t *testing.T) {
		tampered := msg
		tampered.Sequence = 2
		require.Error(t, tampered.Validate())

		tampered = msg
		tampered.DestinationChainId = ChainHolesky
		require.Error(t, tampered.Validate())

		tampered = msg
		tampered.Recipient = ""
		require.Error(t, tampered.Validate())

		_, err := DeserializeBridgeMessage([]byte("{"))
		require.Error(t, err)
	})
}

func TestParseDeliveryStatus(t *testing.T) {
	for _, status := range []DeliveryStatus{
		DeliveryStatusSent, DeliveryStatusDelivered, DeliveryStatusFailed,
	} {
		parsed, err := ParseDeliveryStatus(status.String())
		require.NoError(t, err)
		require.Equal(t, status, parsed)
	}

	_, err := ParseDeliveryStatus("unknown")
	require.Error(t, err)
}
