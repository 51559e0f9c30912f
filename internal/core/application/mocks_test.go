package application_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

type mockRepoManager struct {
	events   *mockEventRepository
	boxes    *mockBoxRepository
	vault    *mockVaultRepository
	peers    *mockPeerRepository
	messages *mockMessageRepository
}

func newMockRepoManager() *mockRepoManager {
	return &mockRepoManager{
		events:   &mockEventRepository{handlers: make(map[string][]func([]domain.Event))},
		boxes:    &mockBoxRepository{boxes: make(map[domain.BoxId]domain.Box)},
		vault:    &mockVaultRepository{contents: make(map[domain.BoxId]domain.Contents)},
		peers:    &mockPeerRepository{peers: make(map[domain.ChainId]domain.Peer)},
		messages: newMockMessageRepository(),
	}
}

func (m *mockRepoManager) Events() domain.EventRepository     { return m.events }
func (m *mockRepoManager) Boxes() domain.BoxRepository        { return m.boxes }
func (m *mockRepoManager) Vault() domain.VaultRepository      { return m.vault }
func (m *mockRepoManager) Peers() domain.PeerRepository       { return m.peers }
func (m *mockRepoManager) Messages() domain.MessageRepository { return m.messages }
func (m *mockRepoManager) Close()                             {}

// RunInTx restores boxes, vault and messages as they were if fn fails.
func (m *mockRepoManager) RunInTx(_ context.Context, fn func(ports.RepoTx) error) error {
	m.boxes.mu.Lock()
	boxes := maps.Clone(m.boxes.boxes)
	m.boxes.mu.Unlock()
	m.vault.mu.Lock()
	contents := maps.Clone(m.vault.contents)
	m.vault.mu.Unlock()
	m.messages.mu.Lock()
	outbound := maps.Clone(m.messages.outbound)
	applied := maps.Clone(m.messages.applied)
	m.messages.mu.Unlock()

	if err := fn(m); err != nil {
		m.boxes.mu.Lock()
		m.boxes.boxes = boxes
		m.boxes.mu.Unlock()
		m.vault.mu.Lock()
		m.vault.contents = contents
		m.vault.mu.Unlock()
		m.messages.mu.Lock()
		m.messages.outbound = outbound
		m.messages.applied = applied
		m.messages.mu.Unlock()
		return err
	}
	return nil
}

// writeFailure fails every write once a number of writes succeeded.
type writeFailure struct {
	err    error
	after  int
	writes int
}

// failAfter makes writes fail with err once n more writes succeeded.
func (w *writeFailure) failAfter(n int, err error) {
	w.after = w.writes + n
	w.err = err
}

func (w *writeFailure) next() error {
	if w.err != nil && w.writes >= w.after {
		return w.err
	}
	w.writes++
	return nil
}

type mockEventRepository struct {
	mu       sync.Mutex
	saved    []domain.Event
	handlers map[string][]func([]domain.Event)
}

func (m *mockEventRepository) Save(
	_ context.Context, topic, _ string, events []domain.Event,
) error {
	m.mu.Lock()
	m.saved = append(m.saved, events...)
	handlers := m.handlers[topic]
	m.mu.Unlock()
	for _, handler := range handlers {
		handler(events)
	}
	return nil
}

func (m *mockEventRepository) RegisterEventsHandler(topic string, handler func([]domain.Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = append(m.handlers[topic], handler)
}

func (m *mockEventRepository) ClearRegisteredHandlers(topics ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, topic := range topics {
		delete(m.handlers, topic)
	}
}

func (m *mockEventRepository) Close() {}

func (m *mockEventRepository) types() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]domain.EventType, 0, len(m.saved))
	for _, ev := range m.saved {
		types = append(types, ev.GetType())
	}
	return types
}

type mockBoxRepository struct {
	mu      sync.Mutex
	counter uint64
	boxes   map[domain.BoxId]domain.Box
	writeFailure
}

func (m *mockBoxRepository) NextBoxCounter(_ context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return m.counter, nil
}

func (m *mockBoxRepository) Add(_ context.Context, box domain.Box) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.next(); err != nil {
		return err
	}
	if _, ok := m.boxes[box.Id]; ok {
		return fmt.Errorf("box %s already exists", box.Id)
	}
	m.boxes[box.Id] = box
	return nil
}

func (m *mockBoxRepository) Get(_ context.Context, id domain.BoxId) (*domain.Box, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	box, ok := m.boxes[id]
	if !ok {
		return nil, fmt.Errorf("box %s: %w", id, domain.ErrNotFound)
	}
	return &box, nil
}

func (m *mockBoxRepository) Update(_ context.Context, box domain.Box) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.next(); err != nil {
		return err
	}
	if _, ok := m.boxes[box.Id]; !ok {
		return domain.ErrNotFound
	}
	m.boxes[box.Id] = box
	return nil
}

func (m *mockBoxRepository) ListByOwner(_ context.Context, owner string) ([]domain.BoxId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	boxes := make([]domain.Box, 0)
	for _, box := range m.boxes {
		if box.Owner == owner {
			boxes = append(boxes, box)
		}
	}
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].AcquiredAt < boxes[j].AcquiredAt
	})
	ids := make([]domain.BoxId, 0, len(boxes))
	for _, box := range boxes {
		ids = append(ids, box.Id)
	}
	return ids, nil
}

func (m *mockBoxRepository) ListLocked(_ context.Context) ([]domain.BoxId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]domain.BoxId, 0)
	for id, box := range m.boxes {
		if box.Locked {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockBoxRepository) Close() {}

type mockVaultRepository struct {
	mu       sync.Mutex
	contents map[domain.BoxId]domain.Contents
	writeFailure
}

func (m *mockVaultRepository) Get(_ context.Context, id domain.BoxId) (*domain.Contents, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	contents, ok := m.contents[id]
	if !ok {
		return domain.NewContents(id), nil
	}
	clone := domain.NewContents(id)
	clone.Replace(contents.Snapshot())
	return clone, nil
}

func (m *mockVaultRepository) Upsert(_ context.Context, contents domain.Contents) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.next(); err != nil {
		return err
	}
	clone := domain.NewContents(contents.BoxId)
	clone.Replace(contents.Snapshot())
	m.contents[contents.BoxId] = *clone
	return nil
}

func (m *mockVaultRepository) Close() {}

type mockPeerRepository struct {
	mu    sync.Mutex
	peers map[domain.ChainId]domain.Peer
}

func (m *mockPeerRepository) Set(_ context.Context, peer domain.Peer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peers[peer.ChainId] = peer
	return nil
}

func (m *mockPeerRepository) Get(_ context.Context, chainId domain.ChainId) (*domain.Peer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	peer, ok := m.peers[chainId]
	if !ok {
		return nil, nil
	}
	return &peer, nil
}

func (m *mockPeerRepository) List(_ context.Context) ([]domain.Peer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	peers := make([]domain.Peer, 0, len(m.peers))
	for _, peer := range m.peers {
		peers = append(peers, peer)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].ChainId < peers[j].ChainId })
	return peers, nil
}

func (m *mockPeerRepository) Close() {}

type mockMessageRepository struct {
	mu       sync.Mutex
	outbound map[domain.MessageId]domain.OutboundMessage
	applied  map[domain.MessageId]domain.AppliedMessage
	writeFailure
}

func newMockMessageRepository() *mockMessageRepository {
	return &mockMessageRepository{
		outbound: make(map[domain.MessageId]domain.OutboundMessage),
		applied:  make(map[domain.MessageId]domain.AppliedMessage),
	}
}

func (m *mockMessageRepository) AddOutbound(_ context.Context, msg domain.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.next(); err != nil {
		return err
	}
	if _, ok := m.outbound[msg.Id]; ok {
		return fmt.Errorf("message %s already exists", msg.Id)
	}
	m.outbound[msg.Id] = msg
	return nil
}

func (m *mockMessageRepository) GetOutbound(
	_ context.Context, id domain.MessageId,
) (*domain.OutboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.outbound[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &msg, nil
}

func (m *mockMessageRepository) UpdateOutbound(_ context.Context, msg domain.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.outbound[msg.Id]; !ok {
		return domain.ErrNotFound
	}
	m.outbound[msg.Id] = msg
	return nil
}

func (m *mockMessageRepository) DeleteOutbound(_ context.Context, id domain.MessageId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.next(); err != nil {
		return err
	}
	delete(m.outbound, id)
	return nil
}

func (m *mockMessageRepository) ListOutbound(
	_ context.Context, statuses ...domain.DeliveryStatus,
) ([]domain.OutboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := make([]domain.OutboundMessage, 0)
	for _, msg := range m.outbound {
		if len(statuses) > 0 && !slices.Contains(statuses, msg.Status) {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (m *mockMessageRepository) MarkApplied(
	_ context.Context, applied domain.AppliedMessage,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.next(); err != nil {
		return false, err
	}
	if _, ok := m.applied[applied.Id]; ok {
		return false, nil
	}
	m.applied[applied.Id] = applied
	return true, nil
}

func (m *mockMessageRepository) IsApplied(_ context.Context, id domain.MessageId) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.applied[id]
	return ok, nil
}

func (m *mockMessageRepository) Close() {}

type mockLiveStore struct {
	mutexes *mockMutexStore
}

func newMockLiveStore() *mockLiveStore {
	return &mockLiveStore{&mockMutexStore{locks: make(map[string]*sync.Mutex)}}
}

func (m *mockLiveStore) Mutexes() ports.MutexStore { return m.mutexes }
func (m *mockLiveStore) Close()                    {}

type mockMutexStore struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (m *mockMutexStore) Acquire(_ context.Context, key string) (func(), error) {
	m.mu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	m.mu.Unlock()
	lock.Lock()
	return lock.Unlock, nil
}

func (m *mockMutexStore) Held(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	lock, ok := m.locks[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if lock.TryLock() {
		lock.Unlock()
		return false, nil
	}
	return true, nil
}

// mockLedger keeps token balances and nft ownership of a single chain.
type mockLedger struct {
	mu         sync.Mutex
	balances   map[string]map[string]uint64
	nftOwners  map[string]map[uint64]string
	failOutbox bool
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		balances:  make(map[string]map[string]uint64),
		nftOwners: make(map[string]map[uint64]string),
	}
}

func (l *mockLedger) mint(asset, account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.balances[asset]; !ok {
		l.balances[asset] = make(map[string]uint64)
	}
	l.balances[asset][account] += amount
}

func (l *mockLedger) mintNft(contract string, tokenId uint64, owner string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.nftOwners[contract]; !ok {
		l.nftOwners[contract] = make(map[uint64]string)
	}
	l.nftOwners[contract][tokenId] = owner
}

func (l *mockLedger) balance(asset, account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[asset][account]
}

func (l *mockLedger) ownerOf(contract string, tokenId uint64) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nftOwners[contract][tokenId]
}

func (l *mockLedger) Fungible(_ context.Context, asset string) (ports.FungibleAsset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.balances[asset]; !ok {
		return nil, ports.ErrUnknownAsset
	}
	return &mockToken{l, asset}, nil
}

func (l *mockLedger) NonFungible(_ context.Context, contract string) (ports.NonFungibleAsset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.nftOwners[contract]; !ok {
		return nil, ports.ErrUnknownAsset
	}
	return &mockCollection{l, contract}, nil
}

type mockToken struct {
	ledger *mockLedger
	asset  string
}

func (t *mockToken) Address() string { return t.asset }

func (t *mockToken) TransferFrom(
	_ context.Context, _, from, to string, amount uint64,
) error {
	t.ledger.mu.Lock()
	defer t.ledger.mu.Unlock()
	if t.ledger.failOutbox && from == custody {
		return fmt.Errorf("token contract reverted")
	}
	balances := t.ledger.balances[t.asset]
	if balances[from] < amount {
		return ports.ErrInsufficientBalance
	}
	balances[from] -= amount
	balances[to] += amount
	return nil
}

func (t *mockToken) BalanceOf(_ context.Context, account string) (uint64, error) {
	return t.ledger.balance(t.asset, account), nil
}

type mockCollection struct {
	ledger   *mockLedger
	contract string
}

func (c *mockCollection) Address() string { return c.contract }

func (c *mockCollection) TransferFrom(
	_ context.Context, _, from, to string, tokenId uint64,
) error {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	if c.ledger.failOutbox && from == custody {
		return fmt.Errorf("collection contract reverted")
	}
	owners := c.ledger.nftOwners[c.contract]
	if owners[tokenId] != from {
		return ports.ErrNotTokenOwner
	}
	owners[tokenId] = to
	return nil
}

func (c *mockCollection) OwnerOf(_ context.Context, tokenId uint64) (string, error) {
	return c.ledger.ownerOf(c.contract, tokenId), nil
}

type mockRelay struct {
	mock.Mock
}

func (m *mockRelay) QuoteFee(ctx context.Context, destination domain.ChainId) (uint64, error) {
	args := m.Called(ctx, destination)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockRelay) Send(
	ctx context.Context, msg domain.BridgeMessage, payer string, fee uint64,
) error {
	args := m.Called(ctx, msg, payer, fee)
	return args.Error(0)
}

func (m *mockRelay) DeliveryStatus(
	ctx context.Context, id domain.MessageId,
) (domain.DeliveryStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.DeliveryStatus), args.Error(1)
}

func (m *mockRelay) Start(handler ports.InboundHandler) error {
	args := m.Called(handler)
	return args.Error(0)
}

func (m *mockRelay) Close() {}

type mockFeeCollector struct {
	mock.Mock
}

func (m *mockFeeCollector) Deposit(ctx context.Context, payer string, amount uint64) error {
	args := m.Called(ctx, payer, amount)
	return args.Error(0)
}

func (m *mockFeeCollector) Withdraw(ctx context.Context, to string, amount uint64) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

func (m *mockFeeCollector) Balance(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

type mockScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (m *mockScheduler) Start() {}
func (m *mockScheduler) Stop()  {}

func (m *mockScheduler) ScheduleTaskOnce(_ time.Time, task func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockScheduler) ScheduleEvery(_ time.Duration, task func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockScheduler) runAll() {
	m.mu.Lock()
	tasks := slices.Clone(m.tasks)
	m.mu.Unlock()
	for _, task := range tasks {
		task()
	}
}

type mockAlerts struct {
	mock.Mock
}

func (m *mockAlerts) Publish(ctx context.Context, topic ports.Topic, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}
