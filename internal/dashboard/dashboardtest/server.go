// Package dashboardtest runs an in-memory REST backend for dashboard tests.
// It follows the collection convention of the HOA API and records every
// request it receives.
package dashboardtest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// JSON decodes the request body.
func (r Request) JSON() map[string]any {
	out := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	_ = dec.Decode(&out)
	return out
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend rooted at URL()+"/api".
type Server struct {
	srv *httptest.Server

	mu          sync.Mutex
	collections map[string][]map[string]any
	nextID      map[string]int64
	requests    []Request
	failures    map[string][]failure
	holds       map[string][]chan struct{}
}

// New starts a server with the given empty collections and stops it when
// the test ends.
func New(t testing.TB, collections ...string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		collections: map[string][]map[string]any{},
		nextID:      map[string]int64{},
		failures:    map[string][]failure{},
		holds:       map[string][]chan struct{}{},
	}
	for _, name := range collections {
		s.collections[name] = []map[string]any{}
	}

	r := gin.New()
	r.Use(s.record)
	r.Any("/api/*path", s.route)
	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the API root, e.g. http://127.0.0.1:4321/api.
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// Seed appends records to a collection, assigning ids, and returns them.
func (s *Server) Seed(collection string, records ...map[string]any) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		out = append(out, s.insert(collection, record))
	}
	return out
}

// Records returns a copy of a collection.
func (s *Server) Records(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.collections[collection]))
	for i, record := range s.collections[collection] {
		out[i] = clone(record)
	}
	return out
}

// Requests returns every recorded call in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many calls matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

// Fail makes the next call to method and path answer with status and an
// {"error": message} body. An empty message sends an empty body.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, message: message})
}

// Hold makes the next call to method and path compute its response and then
// wait until release is called before writing it.
func (s *Server) Hold(method, path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	key := method + " " + path
	s.holds[key] = append(s.holds[key], gate)
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// WaitFor blocks until n calls to method and path have arrived or the
// timeout passes, and reports whether they did.
func (s *Server) WaitFor(method, path string, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for s.Count(method, path) < n {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
	return true
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: c.Request.Method, Path: c.Request.URL.Path, Body: body})
	s.mu.Unlock()
	c.Next()
}

type response struct {
	status      int
	body        []byte
	contentType string
	headers     map[string]string
}

func (s *Server) route(c *gin.Context) {
	key := c.Request.Method + " " + c.Request.URL.Path

	s.mu.Lock()
	var resp response
	if queued := s.failures[key]; len(queued) > 0 {
		s.failures[key] = queued[1:]
		resp = errorResponse(queued[0].status, queued[0].message)
	} else {
		resp = s.handle(c)
	}
	var gate chan struct{}
	if queued := s.holds[key]; len(queued) > 0 {
		gate, s.holds[key] = queued[0], queued[1:]
	}
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			return
		}
	}
	for name, value := range resp.headers {
		c.Header(name, value)
	}
	if resp.body == nil {
		c.Status(resp.status)
		return
	}
	c.Data(resp.status, resp.contentType, resp.body)
}

// handle runs with s.mu held.
func (s *Server) handle(c *gin.Context) response {
	parts := strings.Split(strings.Trim(c.Param("path"), "/"), "/")
	if parts[0] == "import-export" && len(parts) == 3 {
		return s.transfer(c, parts[1], parts[2])
	}

	records, ok := s.collections[parts[0]]
	if !ok || len(parts) > 2 {
		return errorResponse(http.StatusNotFound, "route not found")
	}
	collection := parts[0]

	if len(parts) == 1 {
		switch c.Request.Method {
		case http.MethodGet:
			return jsonResponse(http.StatusOK, records)
		case http.MethodPost:
			body, err := decodeBody(c)
			if err != nil {
				return errorResponse(http.StatusBadRequest, "invalid JSON body")
			}
			return jsonResponse(http.StatusCreated, s.insert(collection, body))
		}
		return errorResponse(http.StatusMethodNotAllowed, "method not allowed")
	}

	index := -1
	for i, record := range records {
		if fmt.Sprint(record["id"]) == parts[1] {
			index = i
		}
	}
	if index < 0 {
		return errorResponse(http.StatusNotFound, fmt.Sprintf("%s %s not found", collection, parts[1]))
	}

	switch c.Request.Method {
	case http.MethodGet:
		return jsonResponse(http.StatusOK, records[index])
	case http.MethodPut:
		body, err := decodeBody(c)
		if err != nil {
			return errorResponse(http.StatusBadRequest, "invalid JSON body")
		}
		for k, v := range body {
			if k != "id" {
				records[index][k] = v
			}
		}
		return jsonResponse(http.StatusOK, records[index])
	case http.MethodDelete:
		s.collections[collection] = append(records[:index:index], records[index+1:]...)
		return jsonResponse(http.StatusOK, map[string]string{"message": "Record deleted successfully"})
	}
	return errorResponse(http.StatusMethodNotAllowed, "method not allowed")
}

func (s *Server) transfer(c *gin.Context, entity, action string) response {
	records, ok := s.collections[entity]
	if !ok {
		return errorResponse(http.StatusNotFound, "unknown entity: "+entity)
	}
	switch action {
	case "template":
		return csvResponse(entity+"_import_template.csv", [][]string{columns(records)})
	case "export":
		header := columns(records)
		rows := [][]string{header}
		for _, record := range records {
			row := make([]string, len(header))
			for i, col := range header {
				if v, ok := record[col]; ok && v != nil {
					row[i] = fmt.Sprint(v)
				}
			}
			rows = append(rows, row)
		}
		return csvResponse(entity+"_export.csv", rows)
	case "import":
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			return errorResponse(http.StatusBadRequest, "No file provided")
		}
		defer file.Close()
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
			return errorResponse(http.StatusBadRequest, "File must be a CSV")
		}
		rows, err := csv.NewReader(file).ReadAll()
		if err != nil || len(rows) == 0 {
			return errorResponse(http.StatusBadRequest, "CSV file is empty")
		}
		imported := 0
		var problems []string
		for i, row := range rows[1:] {
			record := map[string]any{}
			empty := true
			for j, col := range rows[0] {
				if j < len(row) {
					record[col] = row[j]
					empty = empty && row[j] == ""
				}
			}
			if empty {
				problems = append(problems, fmt.Sprintf("Row %d: empty row", i+2))
				continue
			}
			s.insert(entity, record)
			imported++
		}
		return jsonResponse(http.StatusOK, map[string]any{
			"success":        true,
			"imported_count": imported,
			"errors":         problems,
		})
	}
	return errorResponse(http.StatusNotFound, "route not found")
}

func (s *Server) insert(collection string, record map[string]any) map[string]any {
	s.nextID[collection]++
	stored := clone(record)
	stored["id"] = s.nextID[collection]
	s.collections[collection] = append(s.collections[collection], stored)
	return clone(stored)
}

func columns(records []map[string]any) []string {
	seen := map[string]bool{"id": true}
	var cols []string
	for _, record := range records {
		for k := range record {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return append([]string{"id"}, cols...)
}

func decodeBody(c *gin.Context) (map[string]any, error) {
	body := map[string]any{}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func jsonResponse(status int, v any) response {
	data, _ := json.Marshal(v)
	return response{status: status, body: data, contentType: "application/json; charset=utf-8"}
}

func errorResponse(status int, message string) response {
	if message == "" {
		return response{status: status}
	}
	return jsonResponse(status, map[string]any{"code": status, "error": message})
}

func csvResponse(name string, rows [][]string) response {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(rows)
	return response{
		status:      http.StatusOK,
		body:        buf.Bytes(),
		contentType: "text/csv; charset=utf-8",
		headers:     map[string]string{"Content-Disposition": `attachment; filename="` + name + `"`},
	}
}

func clone(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}

// Number converts a recorded JSON value to an int64 for assertions.
func Number(v any) int64 {
	switch n := v.(type) {
	case json.Number:
		i, _ := n.Int64()
		return i
	case int64:
		return n
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}
