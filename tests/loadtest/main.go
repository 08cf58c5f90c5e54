package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numSpots     = 6
	numMedia     = 200
)

var directions = []string{"up", "down"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Spotr Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Spots: %d | Media ids: %d\n\n", numSpots, numMedia)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Every writer below lands on a shared key, so this phase measures
	// version-conflict retries more than raw throughput.
	fmt.Println("\n--- Phase 1: Contended writes (favorites, votes, uploads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.40:
			return doToggleFavorite(rng)
		case r < 0.80:
			return doCastVote(rng)
		default:
			return doUpload(rng)
		}
	})

	fmt.Println("\n--- Phase 2: Mixed load (40% write, 60% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.15:
			return doToggleFavorite(rng)
		case r < 0.30:
			return doCastVote(rng)
		case r < 0.40:
			return doUpload(rng)
		case r < 0.60:
			return doGet("/media/feed?limit=20")
		case r < 0.75:
			return doGet("/media/top?limit=5")
		case r < 0.90:
			return doGet(fmt.Sprintf("/spots/summary?id=%d", rng.Intn(numSpots)+1))
		default:
			return doGet("/profile")
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (5% write, 95% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.05:
			return doUpload(rng)
		case r < 0.45:
			return doGet("/media/feed?limit=20")
		case r < 0.65:
			return doGet("/media/top?limit=5")
		case r < 0.85:
			return doGet(fmt.Sprintf("/media?spotId=%d", rng.Intn(numSpots)+1))
		default:
			return doGet("/votes")
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	totalOps := atomic.NewInt64(0)
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Inc()
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func post(endpoint string, body any, want int) result {
	data, _ := json.Marshal(body)
	label := "POST " + endpoint
	start := time.Now()
	resp, err := httpClient.Post(baseURL+endpoint, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != want}
}

func doGet(target string) result {
	label := "GET " + strings.SplitN(target, "?", 2)[0]
	start := time.Now()
	resp, err := httpClient.Get(baseURL + target)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doToggleFavorite(rng *rand.Rand) result {
	return post("/favorites/toggle", map[string]string{
		"spotId": fmt.Sprintf("%d", rng.Intn(numSpots)+1),
	}, http.StatusOK)
}

func doCastVote(rng *rand.Rand) result {
	return post("/votes", map[string]string{
		"mediaId":   fmt.Sprintf("m_%d", rng.Intn(numMedia)),
		"direction": directions[rng.Intn(len(directions))],
	}, http.StatusOK)
}

func doUpload(rng *rand.Rand) result {
	uris := make([]string, rng.Intn(3)+1)
	for i := range uris {
		uris[i] = fmt.Sprintf("file:///photos/%d.jpg", rng.Int63())
	}
	return post("/media", map[string]any{
		"spotId": fmt.Sprintf("%d", rng.Intn(numSpots)+1),
		"uris":   uris,
	}, http.StatusCreated)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
