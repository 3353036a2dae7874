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
	numSites     = 200
	numPosts     = 500
	numTerms     = 100
	numDays      = 14
)

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
	fmt.Println("=== SiteStats Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Sites: %d | Posts: %d | Terms: %d | Days: %d\n\n", numSites, numPosts, numTerms, numDays)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/facets")
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

	fmt.Println("\n--- Phase 1: Seeding data (POST /stats) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPost(rng)
	})

	fmt.Println("\n--- Phase 2: Mixed load (70% POST, 30% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.70:
			return doPost(rng)
		case r < 0.90:
			return doGetStats(rng)
		case r < 0.95:
			return doGetSites()
		default:
			return doGetFacets()
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doPost(rng)
		case r < 0.85:
			return doGetStats(rng)
		case r < 0.95:
			return doGetSites()
		default:
			return doGetFacets()
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

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

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

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func randomSite(rng *rand.Rand) string {
	return fmt.Sprintf("site_%d", rng.Intn(numSites)+1)
}

func randomDay(rng *rand.Rand) time.Time {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -rng.Intn(numDays))
}

func postsBody(rng *rand.Rand, day time.Time) map[string]interface{} {
	n := rng.Intn(8) + 1
	posts := make([]map[string]interface{}, n)
	var total int64
	for i := range posts {
		id := rng.Intn(numPosts) + 1
		views := int64(rng.Intn(1000))
		total += views
		posts[i] = map[string]interface{}{
			"title":      fmt.Sprintf("Post %d", id),
			"postId":     id,
			"postUrl":    fmt.Sprintf("https://example.com/?p=%d", id),
			"viewsCount": views,
			"kind":       "post",
		}
	}
	return map[string]interface{}{
		"period":          "day",
		"periodEndDate":   day,
		"totalViewsCount": total + 10,
		"otherViewsCount": 10,
		"topPosts":        posts,
	}
}

func searchTermsBody(rng *rand.Rand, day time.Time) map[string]interface{} {
	n := rng.Intn(5) + 1
	terms := make([]map[string]interface{}, n)
	var total int64
	for i := range terms {
		views := int64(rng.Intn(50) + 1)
		total += views
		terms[i] = map[string]interface{}{
			"term":       fmt.Sprintf("term %d", rng.Intn(numTerms)),
			"viewsCount": views,
		}
	}
	hidden := int64(rng.Intn(20))
	return map[string]interface{}{
		"period":                 "day",
		"periodEndDate":          day,
		"totalSearchTermsCount":  total + hidden,
		"hiddenSearchTermsCount": hidden,
		"otherSearchTermsCount":  0,
		"searchTerms":            terms,
	}
}

func doPost(rng *rand.Rand) result {
	day := randomDay(rng)
	facet, body := "posts", postsBody(rng, day)
	if rng.Float64() < 0.4 {
		facet, body = "searchTerms", searchTermsBody(rng, day)
	}

	data, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/stats?blog=%s&facet=%s", baseURL, randomSite(rng), facet)
	start := time.Now()
	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	endpoint := "POST /stats " + facet
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != 201}
}

func doGetStats(rng *rand.Rand) result {
	facet := "posts"
	if rng.Float64() < 0.4 {
		facet = "searchTerms"
	}
	url := fmt.Sprintf("%s/stats?blog=%s&facet=%s&date=%s&period=day",
		baseURL, randomSite(rng), facet, randomDay(rng).Format(time.DateOnly))
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /stats", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// 404 is expected for days no worker has written yet.
	return result{"GET /stats", resp.StatusCode, lat, resp.StatusCode != 200 && resp.StatusCode != 404}
}

func doGetSites() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/sites")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /sites", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /sites", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetFacets() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/facets")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /facets", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /facets", resp.StatusCode, lat, resp.StatusCode != 200}
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
		return fmt.Sprintf("%dÂµs", d.Microseconds())
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
