package boxv1

type Empty struct{}

type GetInfoResponse struct {
	Version    string `json:"version"`
	ChainId    uint32 `json:"chain_id"`
	LocalPeer  string `json:"local_peer"`
	MintingFee uint64 `json:"minting_fee"`
}

type MintRequest struct {
	FeePaid uint64 `json:"fee_paid"`
}

type MintResponse struct {
	BoxId string `json:"box_id"`
}

type TransferRequest struct {
	BoxId string `json:"box_id"`
	To    string `json:"to"`
}

type GetOwnerRequest struct {
	BoxId string `json:"box_id"`
}

type GetOwnerResponse struct {
	Owner string `json:"owner"`
}

type ListBoxesRequest struct {
	Owner string `json:"owner"`
}

type ListBoxesResponse struct {
	BoxIds []string `json:"box_ids"`
}

type DepositFungibleRequest struct {
	BoxId  string `json:"box_id"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type WithdrawFungibleRequest struct {
	BoxId string `json:"box_id"`
	Asset string `json:"asset"`
	// To defaults to the caller.
	To string `json:"to,omitempty"`
}

type WithdrawFungibleResponse struct {
	Amount uint64 `json:"amount"`
}

type DepositNftRequest struct {
	BoxId    string `json:"box_id"`
	Contract string `json:"contract"`
	TokenId  uint64 `json:"token_id"`
}

type WithdrawNftRequest struct {
	BoxId    string `json:"box_id"`
	Contract string `json:"contract"`
	TokenId  uint64 `json:"token_id"`
	To       string `json:"to,omitempty"`
}

type GetBalanceRequest struct {
	BoxId string `json:"box_id"`
	Asset string `json:"asset"`
}

type GetBalanceResponse struct {
	Amount uint64 `json:"amount"`
}

type ContainsNftRequest struct {
	BoxId    string `json:"box_id"`
	Contract string `json:"contract"`
	TokenId  uint64 `json:"token_id"`
}

type ContainsNftResponse struct {
	Held bool `json:"held"`
}

type GetBoxRequest struct {
	BoxId string `json:"box_id"`
}

type FungibleBalance struct {
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type Nft struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"token_id"`
}

type Box struct {
	BoxId         string            `json:"box_id"`
	Owner         string            `json:"owner"`
	Locked        bool              `json:"locked"`
	OriginChainId uint32            `json:"origin_chain_id"`
	IsOriginal    bool              `json:"is_original"`
	Sequence      uint64            `json:"sequence"`
	Fungibles     []FungibleBalance `json:"fungibles"`
	Nfts          []Nft             `json:"nfts"`
}

type GetPeerRequest struct {
	ChainId uint32 `json:"chain_id"`
}

type GetPeerResponse struct {
	// PeerId is empty if no peer is configured for the chain.
	PeerId string `json:"peer_id"`
}

type QuoteFeeRequest struct {
	DestinationChainId uint32 `json:"destination_chain_id"`
}

type QuoteFeeResponse struct {
	Fee uint64 `json:"fee"`
}

type BridgeRequest struct {
	BoxId              string `json:"box_id"`
	DestinationChainId uint32 `json:"destination_chain_id"`
	Recipient          string `json:"recipient"`
	FeePaid            uint64 `json:"fee_paid"`
}

type BridgeResponse struct {
	MessageId string `json:"message_id"`
	Sequence  uint64 `json:"sequence"`
}

type GetEventStreamRequest struct {
	// BoxIds restricts the stream to the events of the given boxes.
	BoxIds []string `json:"box_ids,omitempty"`
}

type Heartbeat struct{}

type BoxEvent struct {
	Id        string            `json:"id"`
	Type      string            `json:"type"`
	BoxId     string            `json:"box_id"`
	Timestamp int64             `json:"timestamp"`
	Data      map[string]string `json:"data,omitempty"`
}

type GetEventStreamResponse struct {
	Heartbeat *Heartbeat `json:"heartbeat,omitempty"`
	Event     *BoxEvent  `json:"event,omitempty"`
}

/* Admin */

type SetPeerRequest struct {
	ChainId uint32 `json:"chain_id"`
	// PeerId is hex encoded, an empty or all-zero value disables the chain.
	PeerId string `json:"peer_id"`
}

type Peer struct {
	ChainId   uint32 `json:"chain_id"`
	PeerId    string `json:"peer_id"`
	UpdatedAt int64  `json:"updated_at"`
}

type ListPeersResponse struct {
	LocalPeer string `json:"local_peer"`
	Peers     []Peer `json:"peers"`
}

type GetFeeBalanceResponse struct {
	Amount uint64 `json:"amount"`
}

type WithdrawFeesRequest struct {
	To string `json:"to"`
	// Amount zero withdraws everything collected.
	Amount uint64 `json:"amount"`
}

type WithdrawFeesResponse struct {
	Amount uint64 `json:"amount"`
}

type ResendBridgeMessageRequest struct {
	MessageId string `json:"message_id"`
	Payer     string `json:"payer"`
	FeePaid   uint64 `json:"fee_paid"`
}

type ListOutboundMessagesRequest struct {
	// Statuses filters by delivery status (sent, delivered, failed).
	Statuses []string `json:"statuses,omitempty"`
}

type OutboundMessage struct {
	MessageId          string `json:"message_id"`
	BoxId              string `json:"box_id"`
	DestinationChainId uint32 `json:"destination_chain_id"`
	Sequence           uint64 `json:"sequence"`
	Recipient          string `json:"recipient"`
	Payer              string `json:"payer"`
	Fee                uint64 `json:"fee"`
	Status             string `json:"status"`
	CreatedAt          int64  `json:"created_at"`
	UpdatedAt          int64  `json:"updated_at"`
}

type ListOutboundMessagesResponse struct {
	Messages []OutboundMessage `json:"messages"`
}
