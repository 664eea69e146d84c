package psimod

import (
	"bytes"
	"errors"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockHttpClient struct {
	resp       string
	statusCode int
	err        error
	requests   []*http.Request
}

func (c *mockHttpClient) Do(req *http.Request) (resp *http.Response, err error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	cb := ioutil.NopCloser(bytes.NewReader([]byte(c.resp)))
	return &http.Response{Body: cb, StatusCode: c.statusCode}, nil
}

func TestHTTPSource_Read(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := &mockHttpClient{resp: "format-version: 1.4\n", statusCode: 200}
		source := NewHTTPSource(client, "http://example.org/PSI-MOD.obo")

		b, err := source.Read()
		assert.NoError(t, err)
		assert.Equal(t, "format-version: 1.4\n", string(b))
		assert.Len(t, client.requests, 1)
		assert.Equal(t, "http://example.org/PSI-MOD.obo", client.requests[0].URL.String())
		assert.Equal(t, "http://example.org/PSI-MOD.obo", source.String())
	})

	t.Run("Error - status", func(t *testing.T) {
		source := NewHTTPSource(&mockHttpClient{resp: "gone", statusCode: 404}, "http://example.org/PSI-MOD.obo")

		b, err := source.Read()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 404")
		assert.Nil(t, b)
	})

	t.Run("Error - client", func(t *testing.T) {
		source := NewHTTPSource(&mockHttpClient{err: errors.New("timeout")}, "http://example.org/PSI-MOD.obo")

		_, err := source.Read()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}

func TestFileSource_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PSI-MOD.obo")
	assert.NoError(t, os.WriteFile(path, []byte("data-version: 1.0\n"), 0600))

	b, err := FileSource{Path: path}.Read()
	assert.NoError(t, err)
	assert.Equal(t, "data-version: 1.0\n", string(b))

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.obo")}.Read()
	assert.Error(t, err)
}
