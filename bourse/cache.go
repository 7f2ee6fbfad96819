package bourse

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/FredPerr/gesport/date"
	"go.uber.org/zap"
)

// diskCache implements a simple disk cache for HTTP responses.
//
// The key holds the current day, so that every entry expires at midnight:
// historical quotes do not change, but today's close does.
type diskCache struct {
	base  http.RoundTripper
	dir   string
	clock date.Clock
	log   *zap.SugaredLogger
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key := fmt.Sprintf("%s %s %s", c.clock.Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		c.log.Debugw("cache hit", "url", req.URL.String())
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debugf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	// the service reports some errors with a 200.
	if isAPIError(body) {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.log.Warnw("cache write failed (ignored)", "error", err)
	}
	return resp, nil
}

// isAPIError tells whether body carries the error message of the service.
func isAPIError(body []byte) bool {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return false
	}
	_, ok := errorMessage(jobj)
	return ok
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk. DumpResponse reads the body and replaces it
// with an in memory copy, so resp stays readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}
