package main

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	TermCount     = 2_000 // Term dissociations (two ILIKE scans each)
	LocationCount = 5_000 // Coordinate dissociations (indexed point lookups)
	Concurrency   = 10

	BaseURL = "http://localhost:8080"
)

var terms = []string{
	"amygdala", "hippocampus", "insula", "memory", "fear",
	"reward", "default mode", "pain", "language", "attention",
}

func main() {
	fmt.Println("🔥 Starting dissociation service load generator")
	fmt.Printf("Target: %s | Workers: %d\n", BaseURL, Concurrency)

	fmt.Println("\n🔤 Phase 1: Term dissociations...")
	runTest("terms", TermCount, func(workerID, i int) error {
		a, b := randomTermPair()
		return sendGet(fmt.Sprintf("/dissociate/terms/%s/%s", url.PathEscape(a), url.PathEscape(b)))
	})

	fmt.Println("\n📍 Phase 2: Coordinate dissociations...")
	runTest("locations", LocationCount, func(workerID, i int) error {
		return sendGet(fmt.Sprintf("/dissociate/locations/%s/%s", randomCoords(), randomCoords()))
	})

	fmt.Println("\n✅ Load Test Complete!")
}

// Generic Test Runner to handle Concurrency and Timing
func runTest(name string, totalOps int, opFunc func(workerID, i int) error) {
	var wg sync.WaitGroup
	start := time.Now()

	opsPerWorker := totalOps / Concurrency

	for w := 0; w < Concurrency; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < opsPerWorker; i++ {
				if err := opFunc(workerID, i); err != nil {
					fmt.Printf("❌ %s error: %v\n", name, err)
				}
			}
		}(w)
	}

	wg.Wait()
	duration := time.Since(start)
	qps := float64(totalOps) / duration.Seconds()

	fmt.Printf("⏱️ %s Duration: %s\n", name, duration)
	fmt.Printf("📈 %s QPS: %.2f\n", name, qps)
}

func sendGet(path string) error {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func randomTermPair() (string, string) {
	a := terms[rand.Intn(len(terms))]
	b := terms[rand.Intn(len(terms))]
	for b == a {
		b = terms[rand.Intn(len(terms))]
	}
	return a, b
}

// randomCoords picks an even MNI-style grid point so a fraction of
// requests hit real coordinates.
func randomCoords() string {
	coord := func() int { return rand.Intn(91)*2 - 90 }
	return fmt.Sprintf("%d_%d_%d", coord(), coord(), coord())
}
