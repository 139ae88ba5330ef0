package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

func TestSearchBuildsQuery(t *testing.T) {
	tests := []struct {
		searchType models.SearchType
		param      string
	}{
		{models.SearchTitle, "title"},
		{models.SearchAuthor, "author"},
		{models.SearchGenre, "subject"},
		{models.SearchGeneral, "q"},
	}

	for _, tt := range tests {
		t.Run(string(tt.searchType), func(t *testing.T) {
			var rawQuery string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search.json" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				rawQuery = r.URL.RawQuery
				fmt.Fprint(w, `{"docs": [{"key": "/works/OL1W", "title": "Dune"}]}`)
			}))
			defer server.Close()

			books, err := NewClient(server.URL).Search(context.Background(), "dune messiah & co", tt.searchType)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(books) != 1 || books[0].Title != "Dune" {
				t.Errorf("Unexpected books %+v", books)
			}

			expected := tt.param + "=dune%20messiah%20%26%20co&limit=50"
			if rawQuery != expected {
				t.Errorf("Expected query %q, got %q", expected, rawQuery)
			}
		})
	}
}

func TestSearchMissingDocsIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"numFound": 0}`)
	}))
	defer server.Close()

	books, err := NewClient(server.URL).Search(context.Background(), "nothing", models.SearchTitle)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", books)
	}
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"docs": [`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(server.URL).Search(context.Background(), "Dune", models.SearchTitle)
			if !errors.Is(err, ErrFetchFailed) {
				t.Errorf("Expected ErrFetchFailed, got %v", err)
			}
		})
	}
}

func TestSearchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).Search(context.Background(), "Dune", models.SearchTitle)
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Expected ErrFetchFailed, got %v", err)
	}
}

func TestFetchWork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/OL893415W.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"key": "/works/OL893415W",
			"title": "Dune",
			"description": {"type": "/type/text", "value": "Set on the desert planet Arrakis."},
			"subjects": ["Science fiction", "Arrakis"],
			"first_publish_date": "1965"
		}`)
	}))
	defer server.Close()

	work, err := NewClient(server.URL).FetchWork(context.Background(), "/works/OL893415W")
	if err != nil {
		t.Fatalf("FetchWork failed: %v", err)
	}
	if work.Description.Text != "Set on the desert planet Arrakis." {
		t.Errorf("Unexpected description %q", work.Description.Text)
	}
	if len(work.Subjects) != 2 || work.FirstPublishDate != "1965" {
		t.Errorf("Unexpected work %+v", work)
	}

	if _, err := NewClient(server.URL).FetchWork(context.Background(), "/works/OL0W"); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Expected ErrFetchFailed for missing work, got %v", err)
	}
}

func TestFetchEditions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/works/OL1W/editions.json":
			if got := r.URL.Query().Get("limit"); got != "50" {
				t.Errorf("Expected limit=50, got %s", got)
			}
			fmt.Fprint(w, `{"entries": [
				{"key": "/books/OL1M", "publish_date": "1990", "isbn_13": ["9780441172719"], "number_of_pages": 535, "publishers": ["Ace"]},
				{"key": "/books/OL2M", "publish_date": "2005"}
			]}`)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	editions, err := client.FetchEditions(context.Background(), "/works/OL1W")
	if err != nil {
		t.Fatalf("FetchEditions failed: %v", err)
	}
	if len(editions) != 2 || editions[0].NumberOfPages != 535 || editions[0].ISBN13[0] != "9780441172719" {
		t.Errorf("Unexpected editions %+v", editions)
	}

	empty, err := client.FetchEditions(context.Background(), "/works/OL2W")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no editions, got %d", len(empty))
	}
}

func TestSearchBySubject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("subject") != "Science fiction" || q.Get("limit") != "6" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"docs": [
			{"key": "/works/SELF"},
			{"key": "/works/A"},
			{"key": "/works/A"},
			{"key": "/works/B"},
			{"key": "/works/C"},
			{"key": "/works/D"},
			{"key": "/works/E"}
		]}`)
	}))
	defer server.Close()

	books, err := NewClient(server.URL).SearchBySubject(context.Background(), "Science fiction", "/works/SELF")
	if err != nil {
		t.Fatalf("SearchBySubject failed: %v", err)
	}

	var keys []string
	for _, b := range books {
		keys = append(keys, b.Key)
	}
	if strings.Join(keys, ",") != "/works/A,/works/B,/works/C,/works/D" {
		t.Errorf("Unexpected recommendations %v", keys)
	}
}

func TestWorkID(t *testing.T) {
	if got := WorkID("/works/OL45883W"); got != "OL45883W" {
		t.Errorf("Expected OL45883W, got %s", got)
	}
	if got := WorkID("OL45883W"); got != "OL45883W" {
		t.Errorf("Expected OL45883W, got %s", got)
	}
}

func TestWithHTTPClientIsUsed(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"docs": [{"key": "/works/OL1W", "title": "Dune"}]}`)
	}))
	defer server.Close()

	// the default client does not trust the test certificate
	if _, err := NewClient(server.URL).Search(context.Background(), "dune", models.SearchTitle); err == nil {
		t.Fatal("Expected the default client to reject the test certificate")
	}

	books, err := NewClient(server.URL).WithHTTPClient(server.Client()).Search(context.Background(), "dune", models.SearchTitle)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Errorf("Unexpected books %+v", books)
	}
}
