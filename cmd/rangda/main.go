package main

import (
	"context"
	"log"
	"os"

	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ethereum/go-ethereum/common"
	"github.com/layer-3/rangda/adapters/events"
	"github.com/layer-3/rangda/adapters/store"
	"github.com/layer-3/rangda/adapters/tokenizer"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/service"
	httptransport "github.com/layer-3/rangda/transport/http"
	"github.com/layer-3/rangda/transport/relay"
	"github.com/redis/go-redis/v9"
)

// staticWalletProvider exposes a wallet handle fixed at process start. A
// real deployment replaces this with the wallet's own lock-state feed.
type staticWalletProvider struct {
	handle core.WalletHandle
}

func (p *staticWalletProvider) ActiveWalletHandle() (core.WalletHandle, bool) {
	if p.handle.SessionKey == nil {
		return core.WalletHandle{}, false
	}
	return p.handle, true
}

func main() {
	// Generate a session-token signing key (you would normally derive this
	// from the unlocked wallet)
	sessionKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}

	walletAddress := os.Getenv("WALLET_ADDRESS")
	if walletAddress == "" {
		walletAddress = "0x0000000000000000000000000000000000000000"
	}

	handle := core.WalletHandle{
		Address:    common.HexToAddress(walletAddress),
		SessionKey: sessionKey,
	}

	// Get Redis URL from environment
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	redisClient := redis.NewClient(opts)

	// Initialize Watermill Redis pub/sub over the shared client
	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis publisher: %v", err)
	}

	subscriber, err := redisstream.NewSubscriber(
		redisstream.SubscriberConfig{
			Client:        redisClient,
			ConsumerGroup: "rangda",
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis subscriber: %v", err)
	}

	approvalStore := store.NewRedisStore(redisClient)
	eventPub := events.NewWatermillPublisher(publisher)
	escalator := events.NewWatermillEscalator(publisher)

	host := service.NewConnectHost(approvalStore, escalator, eventPub)

	// The codec follows the host's current wallet so session tokens stop
	// verifying after a lock/unlock cycle re-keys the wallet.
	codec := tokenizer.NewJWTSessionCodec(host.Wallet)

	lifecycle := service.NewWalletLifecycle(&staticWalletProvider{handle: handle}, host, logger)
	if !lifecycle.HandleUnlock() {
		log.Fatalf("No wallet handle available, connect host stays inactive")
	}
	defer lifecycle.HandleLock()

	// Run the envelope relay
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectRelay := relay.NewRelay(host, codec, subscriber, publisher, logger)
	go func() {
		if err := connectRelay.Run(ctx); err != nil {
			log.Fatalf("Relay stopped: %v", err)
		}
	}()

	// Setup Gin router for the approval and admin surfaces
	router := httptransport.SetupRouter(host, approvalStore, eventPub)

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":9000"
	}

	if err := router.Run(listenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
