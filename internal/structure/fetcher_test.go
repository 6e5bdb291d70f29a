package structure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFirstSourceWins(t *testing.T) {
	var rcsbHits, pdbeHits int32

	rcsb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&rcsbHits, 1)
		assert.Equal(t, "/4HHB.pdb", r.URL.Path)
		_, _ = w.Write([]byte("HEADER    OXYGEN TRANSPORT"))
	}))
	defer rcsb.Close()

	pdbe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&pdbeHits, 1)
		_, _ = w.Write([]byte("should not be reached"))
	}))
	defer pdbe.Close()

	fetcher := NewFetcher(rcsb.URL, pdbe.URL)
	payload, err := fetcher.Fetch(context.Background(), "4hhb")
	require.NoError(t, err)

	assert.Equal(t, "4HHB", payload.PDBID)
	assert.Equal(t, "rcsb", payload.Source)
	assert.Contains(t, payload.Body, "OXYGEN TRANSPORT")
	assert.EqualValues(t, 1, atomic.LoadInt32(&rcsbHits))
	assert.EqualValues(t, 0, atomic.LoadInt32(&pdbeHits), "short-circuit must skip later sources")
}

func TestFetchFallsBackToSecondSource(t *testing.T) {
	var rcsbHits int32

	rcsb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&rcsbHits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer rcsb.Close()

	pdbe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pdb1abc.ent", r.URL.Path)
		_, _ = w.Write([]byte("HEADER    FROM PDBE"))
	}))
	defer pdbe.Close()

	fetcher := NewFetcher(rcsb.URL, pdbe.URL)
	payload, err := fetcher.Fetch(context.Background(), "1ABC")
	require.NoError(t, err)

	assert.Equal(t, "pdbe", payload.Source)
	assert.Contains(t, payload.Body, "FROM PDBE")
	// No per-URL retry: a failing source is hit exactly once.
	assert.EqualValues(t, 1, atomic.LoadInt32(&rcsbHits))
}

func TestFetchAcceptsAnySuccessStatus(t *testing.T) {
	rcsb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		_, _ = w.Write([]byte("HEADER    CACHED COPY"))
	}))
	defer rcsb.Close()

	pdbe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("should not be reached"))
	}))
	defer pdbe.Close()

	fetcher := NewFetcher(rcsb.URL, pdbe.URL)
	payload, err := fetcher.Fetch(context.Background(), "1abc")
	require.NoError(t, err)

	assert.Equal(t, "rcsb", payload.Source)
	assert.Contains(t, payload.Body, "CACHED COPY")
}

func TestFetchAllSourcesFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	fetcher := NewFetcher(failing.URL, failing.URL)
	_, err := fetcher.Fetch(context.Background(), "1ABC")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchEmptyID(t *testing.T) {
	fetcher := NewFetcher("http://unused.invalid", "http://unused.invalid")
	_, err := fetcher.Fetch(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchEmptyBodyIsFailure(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer empty.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ATOM      1  N   VAL A   1"))
	}))
	defer good.Close()

	fetcher := NewFetcher(empty.URL, good.URL)
	payload, err := fetcher.Fetch(context.Background(), "9xyz")
	require.NoError(t, err)
	assert.Equal(t, "pdbe", payload.Source)
}
