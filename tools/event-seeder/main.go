package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	relayURL   = flag.String("relay-url", "http://localhost:8081", "Relay publish endpoint URL")
	token      = flag.String("token", "", "Publish token (required)")
	count      = flag.Int("count", 100, "Number of events to generate")
	interval   = flag.Duration("interval", 100*time.Millisecond, "Interval between events")
	timeSpread = flag.Duration("time-spread", 24*time.Hour, "Spread event timestamps over this period (0 for real-time)")
	dropField  = flag.Float64("drop-rate", 0, "Fraction of events sent with a missing field, to exercise validation")
)

var requiredFields = []string{"subject", "sender", "timestream", "content"}

func main() {
	flag.Parse()

	if *token == "" {
		log.Fatal("Publish token is required. Use -token flag")
	}

	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Starting event seeder:")
	log.Printf("  Relay URL: %s", *relayURL)
	log.Printf("  Event count: %d", *count)
	log.Printf("  Interval: %v", *interval)
	log.Printf("  Time spread: %v", *timeSpread)
	log.Printf("  Drop rate: %.2f", *dropField)

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	successCount := 0
	failCount := 0

	for i := 0; i < *count; i++ {
		event := generateEvent()

		if *dropField > 0 && gofakeit.Float64Range(0, 1) < *dropField {
			delete(event, requiredFields[gofakeit.Number(0, len(requiredFields)-1)])
		}

		if err := sendEvent(client, *relayURL, *token, event); err != nil {
			log.Printf("Failed to send event %d: %v", i, err)
			failCount++
		} else {
			successCount++
			if successCount%50 == 0 {
				log.Printf("Progress: %d/%d events sent", successCount, *count)
			}
		}

		if *interval > 0 && i < *count-1 {
			time.Sleep(*interval)
		}
	}

	log.Printf("Seeding complete:")
	log.Printf("  Success: %d events", successCount)
	log.Printf("  Failed: %d events", failCount)
}

func generateEvent() map[string]interface{} {
	ts := time.Now()
	if *timeSpread > 0 {
		ts = ts.Add(-time.Duration(gofakeit.Number(0, int(timeSpread.Seconds()))) * time.Second)
	}

	return map[string]interface{}{
		"subject":    gofakeit.Sentence(gofakeit.Number(3, 8)),
		"sender":     gofakeit.Email(),
		"timestream": strconv.FormatInt(ts.Unix(), 10),
		"content":    gofakeit.Paragraph(1, gofakeit.Number(2, 5), gofakeit.Number(5, 15), " "),
	}
}

func sendEvent(client *http.Client, url, token string, event map[string]interface{}) error {
	payload := map[string]interface{}{
		"data":  event,
		"token": token,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", url+"/publish", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("publish failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	return nil
}
