// Command formsender is a thin demo entrypoint around the core: it reads a
// target URL and a client record, drives one submission attempt through a
// real headless Chrome via go-rod, and prints the resulting Verdict as
// JSON. It is not part of the core (§6: "No CLI ... is part of the core")
// — it exists the way the teacher's cmd/main.go exists, as the one
// concrete wiring of the library into a runnable program.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/formsender/core/internal/browser"
	"github.com/formsender/core/internal/clientsource"
	"github.com/formsender/core/internal/models"
	"github.com/formsender/core/internal/orchestrator"
)

func main() {
	url := flag.String("url", "", "target form page URL")
	clientFile := flag.String("client", "", "path to a client record JSON file (see SPEC_FULL.md §3)")
	recordID := flag.Int("record-id", 0, "record identifier echoed back on the Verdict")
	headless := flag.Bool("headless", true, "run Chrome headless")
	flag.Parse()

	if *url == "" || *clientFile == "" {
		log.Fatal("both -url and -client are required")
	}

	raw, err := os.ReadFile(*clientFile)
	if err != nil {
		log.Fatalf("reading client file: %v", err)
	}
	record, err := clientsource.Decode(raw, clientsource.DefaultEscapeDepth)
	if err != nil {
		log.Fatalf("decoding client record: %v", err)
	}

	controlURL, err := launcher.New().Headless(*headless).Launch()
	if err != nil {
		log.Fatalf("launching browser: %v", err)
	}
	browserInstance := rod.New().ControlURL(controlURL)
	if err := browserInstance.Connect(); err != nil {
		log.Fatalf("connecting to browser: %v", err)
	}
	defer browserInstance.Close()

	o := orchestrator.New(func(ctx context.Context) (browser.Driver, error) {
		page, err := browserInstance.Page(proto.TargetCreateTarget{})
		if err != nil {
			return nil, err
		}
		return browser.NewRodDriver(page), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	verdict := o.ProcessOne(ctx, *recordID, *url, record)
	emit(verdict)
}

func emit(v models.Verdict) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encoding verdict: %v", err)
	}
}
