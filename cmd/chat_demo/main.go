package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"skylane/internal/ai"
	"skylane/internal/amadeus"
	"skylane/internal/config"
	"skylane/internal/modules/conversation"
)

// Interactive terminal loop against the real Gemini and Amadeus backends.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	searcher := amadeus.NewClient(cfg.Amadeus.BaseURL, cfg.Amadeus.APIKey, cfg.Amadeus.APISecret)
	svc := conversation.NewService(provider, searcher, nil)
	sess := svc.CreateSession()

	fmt.Println("Flight assistant ready. Type a message, or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		res := svc.ProcessMessage(ctx, sess, line)
		if res.Reply != "" {
			fmt.Printf("Assistant: %s\n", res.Reply)
			continue
		}

		// Silence means results are ready.
		flights, inspiration := sess.Results()
		switch {
		case flights != nil:
			out, _ := json.MarshalIndent(flights, "", "  ")
			fmt.Println(string(out))
		case inspiration != nil:
			for _, d := range inspiration {
				fmt.Printf("%s  %s -> %s  %s %s\n", d.Destination, d.DepartureDate, d.ReturnDate, d.Price, "EUR")
			}
		}
	}
}
