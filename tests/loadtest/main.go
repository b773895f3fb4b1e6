package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var actions = []string{
	"goal_created", "project_created", "task_completed",
	"time_block_created", "ai_conversation", "document_uploaded", "referral_sent",
}

var goalIcons = []string{"💪", "💼", "💰", "📚", "🎨", "❤️"}

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
	fmt.Println("=== AKD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/achievements")
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

	// Phase 1: Write-heavy tracking load. Unlocks all happen here; the
	// ledger is idempotent so hammering the same actions is the point.
	fmt.Println("\n--- Phase 1: Tracking load (POST /track) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doTrack(rng)
	})

	// Phase 2: Mixed load
	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.35:
			return doTrack(rng)
		case r < 0.50:
			return doCheck(rng)
		case r < 0.75:
			return doGetAchievements()
		case r < 0.90:
			return doGetStreak()
		default:
			return doGetPending()
		}
	})

	// Phase 3: Read-heavy load against the cached achievements list
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doTrack(rng)
		case r < 0.70:
			return doGetAchievements()
		case r < 0.90:
			return doGetStreak()
		default:
			return doGetPending()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
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
					totalOps.Add(1)
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

	fmt.Printf("\n  %-28s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 94))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-28s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 94))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doTrack(rng *rand.Rand) result {
	nGoals := rng.Intn(4)
	goals := make([]map[string]interface{}, nGoals)
	for i := range goals {
		goals[i] = map[string]interface{}{
			"id":    fmt.Sprintf("g_%d", rng.Intn(200)),
			"title": fmt.Sprintf("Goal %d", rng.Intn(200)),
			"icon":  goalIcons[rng.Intn(len(goalIcons))],
		}
	}

	body := map[string]interface{}{
		"action": actions[rng.Intn(len(actions))],
		"data": map[string]interface{}{
			"goals": goals,
			"pro":   rng.Float64() < 0.3,
		},
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/track", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /track", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /track", resp.StatusCode, lat, resp.StatusCode != 202}
}

func doCheck(rng *rand.Rand) result {
	nGoals := rng.Intn(5) + 1
	goals := make([]map[string]interface{}, nGoals)
	for i := range goals {
		goals[i] = map[string]interface{}{
			"id":        fmt.Sprintf("g_%d", rng.Intn(200)),
			"icon":      goalIcons[rng.Intn(len(goalIcons))],
			"completed": rng.Float64() < 0.5,
		}
	}

	body := map[string]interface{}{
		"type":  "goal_completed",
		"goals": goals,
		"pro":   rng.Float64() < 0.3,
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/check", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /check", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /check", resp.StatusCode, lat, resp.StatusCode != 202}
}

func doGetAchievements() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/achievements")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /achievements", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /achievements", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetStreak() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/streak")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /streak", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /streak", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetPending() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/notifications/pending")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /notifications/pending", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /notifications/pending", resp.StatusCode, lat, resp.StatusCode != 200}
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

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
