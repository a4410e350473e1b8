// Package benchmark drives the HOA API with concurrent requests and reports
// latency and status distribution.
package benchmark

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Runner fires Requests calls with at most Concurrency in flight.
type Runner struct {
	BaseURL     string
	Concurrency int
	Requests    int
	Client      *resty.Client
}

// Result summarizes one run.
type Result struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	MinTime        time.Duration `json:"min_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

type outcome struct {
	duration time.Duration
	status   int
	err      error
}

// NewRunner returns a runner with a 10 second request timeout.
func NewRunner(baseURL string, concurrency, requests int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		Client:      resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
	}
}

// Get runs GET path.
func (r *Runner) Get(ctx context.Context, path string) *Result {
	return r.run(ctx, resty.MethodGet, path, func(int) any { return nil })
}

// Post runs POST path; body builds the payload of the i-th request so runs
// can avoid unique-key collisions.
func (r *Runner) Post(ctx context.Context, path string, body func(i int) any) *Result {
	return r.run(ctx, resty.MethodPost, path, body)
}

func (r *Runner) run(ctx context.Context, method, path string, body func(int) any) *Result {
	results := make(chan outcome, r.Requests)
	limiter := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < r.Requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			req := r.Client.R().SetContext(ctx)
			if payload := body(i); payload != nil {
				req.SetHeader("Content-Type", "application/json").SetBody(payload)
			}
			began := time.Now()
			resp, err := req.Execute(method, path)
			if err != nil {
				results <- outcome{err: err}
				return
			}
			results <- outcome{duration: time.Since(began), status: resp.StatusCode()}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	res := &Result{
		URL:           r.BaseURL + path,
		Method:        method,
		Concurrency:   r.Concurrency,
		TotalRequests: r.Requests,
		StatusCodes:   map[int]int{},
	}
	var total time.Duration
	for o := range results {
		if o.err != nil {
			res.FailureCount++
			res.Errors = append(res.Errors, o.err.Error())
			continue
		}
		total += o.duration
		if res.MinTime == 0 || o.duration < res.MinTime {
			res.MinTime = o.duration
		}
		if o.duration > res.MaxTime {
			res.MaxTime = o.duration
		}
		res.StatusCodes[o.status]++
		if o.status >= 200 && o.status < 300 {
			res.SuccessCount++
		} else {
			res.FailureCount++
		}
	}

	res.TotalTime = time.Since(start)
	if res.TotalTime > 0 {
		res.RequestsPerSec = float64(r.Requests) / res.TotalTime.Seconds()
	}
	if n := res.SuccessCount + res.FailureCount; n > 0 {
		res.AverageTime = total / time.Duration(n)
	}
	return res
}

// Log writes the result at info, with up to five errors.
func (res *Result) Log(log *zap.Logger) {
	errs := res.Errors
	if len(errs) > 5 {
		errs = errs[:5]
	}
	log.Info("load result",
		zap.String("method", res.Method),
		zap.String("url", res.URL),
		zap.Int("concurrency", res.Concurrency),
		zap.Int("requests", res.TotalRequests),
		zap.Int("success", res.SuccessCount),
		zap.Int("failure", res.FailureCount),
		zap.Duration("total", res.TotalTime),
		zap.Duration("average", res.AverageTime),
		zap.Duration("min", res.MinTime),
		zap.Duration("max", res.MaxTime),
		zap.Float64("rps", res.RequestsPerSec),
		zap.Any("status_codes", res.StatusCodes),
		zap.Strings("errors", errs),
	)
}
