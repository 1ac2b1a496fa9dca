package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

// newCollectionServer serves a synthetic collection of count entries.
func newCollectionServer(t *testing.T, count int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v2/pokemon":
			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			resp := ListResponse{Count: count, Results: []ListRef{}}
			for i := offset; i < offset+limit && i < count; i++ {
				resp.Results = append(resp.Results, ListRef{
					Name: fmt.Sprintf("mon-%d", i+1),
					URL:  fmt.Sprintf("http://%s/api/v2/pokemon/%d/", r.Host, i+1),
				})
			}
			if offset+limit < count {
				next := fmt.Sprintf("http://%s/api/v2/pokemon?offset=%d&limit=%d", r.Host, offset+limit, limit)
				resp.Next = &next
			}
			_ = json.NewEncoder(w).Encode(resp)
		case r.URL.Path == "/api/v2/pokemon/1" || r.URL.Path == "/api/v2/pokemon/bulbasaur":
			art := "https://img.example/1.png"
			_ = json.NewEncoder(w).Encode(Pokemon{
				ID:   1,
				Name: "bulbasaur",
				Sprites: Sprites{
					Other: &OtherSprite{OfficialArtwork: &Artwork{FrontDefault: &art}},
				},
				Types: []TypeSlot{{Slot: 1, Type: NamedResource{Name: "grass"}}},
			})
		case r.URL.Path == "/api/v2/pokemon/broken":
			_, _ = w.Write([]byte("{not-json"))
		case r.URL.Path == "/api/v2/pokemon/boom":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/api/v2/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api/v2" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("pokeapi.co/api/v2")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "pokeapi.co" {
		t.Fatalf("url = %q, want https://pokeapi.co/api/v2", u.String())
	}
}

func TestClient_ListPageReturnsWindow(t *testing.T) {
	t.Parallel()

	server := newCollectionServer(t, 45)
	c, err := NewClient(server.URL + "/api/v2")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	cases := []struct {
		offset, limit int
		wantLen       int
		wantNext      int // -1 means absent
	}{
		{0, 20, 20, 20},
		{20, 20, 20, 40},
		{40, 20, 5, -1},
		{44, 1, 1, -1},
	}
	for _, tc := range cases {
		page, err := c.ListPage(ctx, tc.offset, tc.limit)
		if err != nil {
			t.Fatalf("ListPage(%d,%d) returned error: %v", tc.offset, tc.limit, err)
		}
		if page.Count != 45 {
			t.Fatalf("Count = %d, want 45", page.Count)
		}
		if len(page.Items) != tc.wantLen {
			t.Fatalf("ListPage(%d,%d) items = %d, want %d", tc.offset, tc.limit, len(page.Items), tc.wantLen)
		}
		if page.Items[0].Name != fmt.Sprintf("mon-%d", tc.offset+1) {
			t.Fatalf("first item = %q, want mon-%d", page.Items[0].Name, tc.offset+1)
		}
		switch {
		case tc.wantNext < 0 && page.NextOffset != nil:
			t.Fatalf("NextOffset = %d, want absent", *page.NextOffset)
		case tc.wantNext >= 0 && (page.NextOffset == nil || *page.NextOffset != tc.wantNext):
			t.Fatalf("NextOffset = %v, want %d", page.NextOffset, tc.wantNext)
		}
	}
}

func TestClient_ListPageValidatesArguments(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	var vErr *ValidationError
	if _, err := c.ListPage(context.Background(), -1, 20); !errors.As(err, &vErr) {
		t.Fatalf("ListPage(-1) error = %v, want ValidationError", err)
	}
	if _, err := c.ListPage(context.Background(), 0, 0); !errors.As(err, &vErr) {
		t.Fatalf("ListPage(limit 0) error = %v, want ValidationError", err)
	}
	if _, err := c.GetDetail(context.Background(), "   "); !errors.As(err, &vErr) {
		t.Fatalf("GetDetail(blank) error = %v, want ValidationError", err)
	}
}

func TestClient_GetDetailByIDAndName(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	server := newCollectionServer(t, 1)
	c, err := NewClient(server.URL+"/api/v2", WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			gotUserAgent = r.Header.Get("User-Agent")
			return http.DefaultTransport.RoundTrip(r)
		}),
	}))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	byID, err := c.GetDetail(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetDetail(1) returned error: %v", err)
	}
	byName, err := c.GetDetail(context.Background(), " Bulbasaur ")
	if err != nil {
		t.Fatalf("GetDetail(Bulbasaur) returned error: %v", err)
	}
	if byID.ID != byName.ID || byID.Name != "bulbasaur" {
		t.Fatalf("records differ: %#v vs %#v", byID, byName)
	}
	if s := ToSummary(byID); s.ID != 1 || s.Name != "bulbasaur" {
		t.Fatalf("summary = %#v, want id=1 name=bulbasaur", s)
	}
	if !strings.HasPrefix(gotUserAgent, "pokedex/") {
		t.Fatalf("User-Agent = %q, want pokedex/*", gotUserAgent)
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	server := newCollectionServer(t, 1)
	c, err := NewClient(server.URL + "/api/v2")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.GetDetail(context.Background(), "missing-entry")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
		t.Fatalf("GetDetail(missing) error = %v, want HTTPError 404", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("errors.Is(err, ErrNotFound) = false for %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("error %q should keep the status text", err.Error())
	}

	_, err = c.GetDetail(context.Background(), "boom")
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusInternalServerError {
		t.Fatalf("GetDetail(boom) error = %v, want HTTPError 500", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("500 must not match ErrNotFound")
	}

	_, err = c.GetDetail(context.Background(), "broken")
	var decErr *DecodeError
	if !errors.As(err, &decErr) || !strings.HasPrefix(err.Error(), "decode response") {
		t.Fatalf("GetDetail(broken) error = %v, want DecodeError", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListPage(context.Background(), 0, 20)
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("ListPage error = %v, want TransportError", err)
	}
	if !strings.HasPrefix(err.Error(), "network error: ") {
		t.Fatalf("error = %q, want network error prefix", err.Error())
	}
}

func TestNextOffset(t *testing.T) {
	link := "https://pokeapi.co/api/v2/pokemon?offset=40&limit=20"
	if got := nextOffset(&link, 20, 20); got == nil || *got != 40 {
		t.Fatalf("nextOffset = %v, want 40", got)
	}
	bad := "https://pokeapi.co/api/v2/pokemon?limit=20"
	if got := nextOffset(&bad, 20, 20); got == nil || *got != 40 {
		t.Fatalf("nextOffset fallback = %v, want 40", got)
	}
	if got := nextOffset(nil, 0, 20); got != nil {
		t.Fatalf("nextOffset(nil) = %d, want absent", *got)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
