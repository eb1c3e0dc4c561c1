// README: Entry point; loads config, wires the conversation pipeline, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"skylane/internal/ai"
	"skylane/internal/amadeus"
	"skylane/internal/config"
	httptransport "skylane/internal/http"
	"skylane/internal/infra"
	"skylane/internal/modules/conversation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer provider.Close()

	searcher := amadeus.NewClient(cfg.Amadeus.BaseURL, cfg.Amadeus.APIKey, cfg.Amadeus.APISecret)

	var store *conversation.Store
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("db init: %v", err)
		}
		defer dbPool.Close()
		store = conversation.NewStore(dbPool)
	}

	convSvc := conversation.NewService(provider, searcher, store)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewRouter(convSvc)}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
