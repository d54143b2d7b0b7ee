// Package testutil provides testing utilities for the RateMyProfessors client.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	listingPath = "/filter/professor/"
	ratingsPath = "/paginate/professors/ratings"
	pageSize    = 20
)

// MockResponse defines a canned response for a mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockProfessor is one professor served by the mock listing.
type MockProfessor struct {
	ID         int64
	FirstName  string
	LastName   string
	Department string

	// NumRatings is served as tNumRatings; nil omits the field.
	NumRatings *int

	// Comments produce one rating each, in order.
	Comments []string
}

// MockSchool is the data set served by MockRMP.
type MockSchool struct {
	ID         int
	Name       string
	Professors []MockProfessor
}

// Request is one request received by the mock.
type Request struct {
	Path  string
	Query url.Values
}

// MockRMP is a configurable mock of the listing and ratings endpoints.
type MockRMP struct {
	server   *httptest.Server
	mu       sync.RWMutex
	school   MockSchool
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// ratingOverrides replace the ratings response of a single professor.
	ratingOverrides map[int64]MockResponse

	requests []Request
}

// NewMockRMP creates a mock server serving school.
func NewMockRMP(school MockSchool) *MockRMP {
	mock := &MockRMP{
		school:          school,
		handlers:        make(map[string]func(w http.ResponseWriter, r *http.Request)),
		ratingOverrides: make(map[int64]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests = append(mock.requests, Request{Path: r.URL.Path, Query: r.URL.Query()})
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		switch r.URL.Path {
		case listingPath:
			mock.listingHandler(w, r)
		case ratingsPath:
			mock.ratingsHandler(w, r)
		default:
			http.NotFound(w, r)
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockRMP) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockRMP) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockRMP) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetHandler replaces the handler for a path.
func (m *MockRMP) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse serves resp for every request to path.
func (m *MockRMP) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, resp.write)
}

// SetRatingsResponse serves resp instead of the ratings of professorID.
func (m *MockRMP) SetRatingsResponse(professorID int64, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingOverrides[professorID] = resp
}

// RequestCount returns the number of requests to path, or to any path when
// path is empty.
func (m *MockRMP) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, req := range m.requests {
		if path == "" || req.Path == path {
			n++
		}
	}
	return n
}

// RatingsRequests returns the number of ratings requests for one professor.
func (m *MockRMP) RatingsRequests(professorID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tid := strconv.FormatInt(professorID, 10)
	n := 0
	for _, req := range m.requests {
		if req.Path == ratingsPath && req.Query.Get("tid") == tid {
			n++
		}
	}
	return n
}

// Requests returns a copy of the recorded requests in arrival order.
func (m *MockRMP) Requests() []Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Request(nil), m.requests...)
}

func (m *MockRMP) listingHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := pageParam(query)

	var profs []MockProfessor
	if query.Get("sid") == strconv.Itoa(m.school.ID) {
		profs = m.school.Professors
	}

	start, end, remaining := window(len(profs), page)
	records := make([]map[string]any, 0, end-start)
	for _, p := range profs[start:end] {
		record := map[string]any{
			"tid":              p.ID,
			"tFname":           p.FirstName,
			"tMiddlename":      "",
			"tLname":           p.LastName,
			"tDept":            p.Department,
			"tSid":             strconv.Itoa(m.school.ID),
			"institution_name": m.school.Name,
			"rating_class":     "good",
			"overall_rating":   "4.0",
			"contentType":      "TEACHER",
			"categoryType":     "PROFESSOR",
		}
		if p.NumRatings != nil {
			record["tNumRatings"] = *p.NumRatings
		}
		records = append(records, record)
	}

	writeJSON(w, map[string]any{
		"professors":         records,
		"searchResultsTotal": len(profs),
		"remaining":          remaining,
		"type":               "teacher",
	})
}

func (m *MockRMP) ratingsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tid, err := strconv.ParseInt(query.Get("tid"), 10, 64)
	if err != nil {
		http.Error(w, "bad tid", http.StatusBadRequest)
		return
	}

	m.mu.RLock()
	override, overridden := m.ratingOverrides[tid]
	m.mu.RUnlock()
	if overridden {
		override.write(w, r)
		return
	}

	var prof *MockProfessor
	for i := range m.school.Professors {
		if m.school.Professors[i].ID == tid {
			prof = &m.school.Professors[i]
			break
		}
	}
	if prof == nil {
		http.NotFound(w, r)
		return
	}

	start, end, remaining := window(len(prof.Comments), pageParam(query))
	records := make([]map[string]any, 0, end-start)
	for i := start; i < end; i++ {
		records = append(records, map[string]any{
			"id":                tid*1000 + int64(i),
			"rClass":            "CS101",
			"rComments":         prof.Comments[i],
			"rOverall":          4.5,
			"rOverallString":    "4.5",
			"rDate":             "09/01/2019",
			"sId":               m.school.ID,
			"teacherRatingTags": []string{"Caring"},
		})
	}

	writeJSON(w, map[string]any{
		"ratings":   records,
		"remaining": remaining,
	})
}

func (resp MockResponse) write(w http.ResponseWriter, _ *http.Request) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// window returns the slice bounds of a 1-based page and the records left after it.
func window(total, page int) (start, end, remaining int) {
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end, total - end
}

func pageParam(query url.Values) int {
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// IntPtr returns a pointer to n, for MockProfessor.NumRatings.
func IntPtr(n int) *int {
	return &n
}

// NewEmptyResponse is a 200 with no body, which the live site returns for
// professors that no longer exist.
func NewEmptyResponse() MockResponse {
	return MockResponse{StatusCode: http.StatusOK}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       "<html><body>Page not found</body></html>",
		Headers:    map[string]string{"Content-Type": "text/html"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewSchool builds a school with n professors named after their index, each
// with the given number of comments. tNumRatings is served for every professor.
func NewSchool(id int, name string, n, commentsEach int) MockSchool {
	school := MockSchool{ID: id, Name: name}
	for i := 0; i < n; i++ {
		comments := make([]string, commentsEach)
		for j := range comments {
			comments[j] = "comment " + strconv.Itoa(j)
		}
		school.Professors = append(school.Professors, MockProfessor{
			ID:         int64(1000 + i),
			FirstName:  "First" + strconv.Itoa(i),
			LastName:   "Last" + strconv.Itoa(i),
			Department: "Dept" + strconv.Itoa(i%3),
			NumRatings: IntPtr(commentsEach),
			Comments:   comments,
		})
	}
	return school
}
