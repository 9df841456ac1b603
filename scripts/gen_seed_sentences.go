package main

// Emits a save-request payload of sample classified sentences, ready to pipe
// into the admin API:
//
//	go run scripts/gen_seed_sentences.go -application <uuid> -n 50 \
//	  | curl -s -X POST localhost:8080/api/sentences -d @-

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

type entity struct {
	Type        string   `json:"type"`
	Role        string   `json:"role"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	SubEntities []entity `json:"sub_entities,omitempty"`
}

type sentence struct {
	Text          string   `json:"text"`
	Language      string   `json:"language"`
	ApplicationID string   `json:"application_id"`
	Status        string   `json:"status"`
	IntentID      string   `json:"intent_id"`
	Entities      []entity `json:"entities,omitempty"`
}

type payload struct {
	Sentences []sentence `json:"sentences"`
}

var templates = []struct {
	text     string
	entities []entity
}{
	{"book a flight to %s", []entity{{Type: "location", Role: "destination"}}},
	{"find me a hotel in %s for two nights", []entity{{Type: "location", Role: "destination"}}},
	{"what is the weather in %s", []entity{{Type: "location", Role: "destination"}}},
	{"cancel my booking", nil},
	{"I want to travel from %s to paris", []entity{{Type: "location", Role: "origin"}}},
}

var cities = []string{"london", "berlin", "madrid", "rome", "lisbon", "vienna", "oslo"}

func main() {
	var (
		applicationID string
		intentID      string
		language      string
		n             int
		seed          int64
	)
	flag.StringVar(&applicationID, "application", "", "application id to stamp on every sentence (required)")
	flag.StringVar(&intentID, "intent", "00000000-0000-0000-0000-000000000000", "intent id to classify sentences to")
	flag.StringVar(&language, "language", "en", "language tag")
	flag.IntVar(&n, "n", 20, "number of sentences")
	flag.Int64Var(&seed, "seed", 1, "rng seed, for reproducible payloads")
	flag.Parse()

	if strings.TrimSpace(applicationID) == "" {
		fmt.Fprintln(os.Stderr, "-application is required")
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(seed))
	out := payload{Sentences: make([]sentence, 0, n)}
	statuses := []string{"inbox", "inbox", "inbox", "validated", "model"}

	for i := 0; i < n; i++ {
		tpl := templates[rng.Intn(len(templates))]
		city := cities[rng.Intn(len(cities))]
		text := tpl.text
		var entities []entity
		if strings.Contains(tpl.text, "%s") {
			text = fmt.Sprintf(tpl.text, city)
			at := strings.Index(tpl.text, "%s")
			for _, e := range tpl.entities {
				e.Start = at
				e.End = at + len(city)
				entities = append(entities, e)
			}
		}
		// dedupe key is the text triple, so vary repeated templates
		if rng.Intn(2) == 1 {
			text = text + fmt.Sprintf(" #%d", i)
		}
		out.Sentences = append(out.Sentences, sentence{
			Text:          text,
			Language:      language,
			ApplicationID: applicationID,
			Status:        statuses[rng.Intn(len(statuses))],
			IntentID:      intentID,
			Entities:      entities,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
