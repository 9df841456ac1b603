package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/botbridge-backend/internal/app"
	types "github.com/yungbote/botbridge-backend/internal/domain"
)

// Exports an application's sentences as NDJSON, one sentence per line. The
// whole export runs against a single search mark, so sentences rewritten
// while pages are being fetched cannot appear twice.
func main() {
	var (
		applicationID string
		language      string
		status        string
		intentID      string
		modifiedAfter string
		outPath       string
		pageSize      int
	)
	flag.StringVar(&applicationID, "application", "", "application id to export (required)")
	flag.StringVar(&language, "language", "", "only sentences in this language")
	flag.StringVar(&status, "status", "", "only sentences with this status")
	flag.StringVar(&intentID, "intent", "", "only sentences classified to this intent id")
	flag.StringVar(&modifiedAfter, "modified-after", "", "only sentences updated after this RFC3339 instant")
	flag.StringVar(&outPath, "out", "", "output file (default stdout)")
	flag.IntVar(&pageSize, "page-size", 200, "sentences fetched per page")
	flag.Parse()

	appID, err := uuid.Parse(strings.TrimSpace(applicationID))
	if err != nil {
		fmt.Println("a valid -application id is required")
		os.Exit(1)
	}
	if pageSize <= 0 {
		pageSize = 200
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	query := &types.SentencesQuery{
		ApplicationID: appID,
		Language:      language,
		Size:          pageSize,
		SearchMark:    &types.SearchMark{Date: time.Now().UTC()},
	}
	if s := strings.TrimSpace(status); s != "" {
		query.Status = []types.SentenceStatus{types.SentenceStatus(s)}
	}
	if raw := strings.TrimSpace(intentID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fmt.Printf("invalid -intent id: %v\n", err)
			os.Exit(1)
		}
		query.IntentID = &id
	}
	if raw := strings.TrimSpace(modifiedAfter); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fmt.Printf("invalid -modified-after instant: %v\n", err)
			os.Exit(1)
		}
		query.ModifiedAfter = &at
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Printf("create output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	ctx := context.Background()
	enc := json.NewEncoder(out)
	exported := 0
	for {
		result, err := application.Services.Sentences.Search(ctx, query)
		if err != nil {
			fmt.Printf("search sentences: %v\n", err)
			os.Exit(1)
		}
		for _, sentence := range result.Sentences {
			if err := enc.Encode(sentence); err != nil {
				fmt.Printf("write sentence: %v\n", err)
				os.Exit(1)
			}
			exported++
		}
		if len(result.Sentences) == 0 || int64(exported) >= result.Total {
			break
		}
		query.Start += len(result.Sentences)
	}

	fmt.Fprintf(os.Stderr, "exported %d sentences for application %s\n", exported, appID)
}
