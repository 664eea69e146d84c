package psimod

import (
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Source supplies the raw bytes of an OBO file.
type Source interface {
	Read() ([]byte, error)
	String() string
}

type httpClient interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Read() ([]byte, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.Path)
	}
	return b, nil
}

func (s FileSource) String() string {
	return s.Path
}

type HTTPSource struct {
	client httpClient
	url    string
}

func NewHTTPSource(client httpClient, url string) *HTTPSource {
	return &HTTPSource{client: client, url: url}
}

func (s *HTTPSource) Read() ([]byte, error) {
	req, err := http.NewRequest("GET", s.url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", s.url)
	}
	req.Header.Set("Accept", "text/plain")
	log.WithField("url", s.url).Info("Fetching OBO file")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", s.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching %s: unexpected status %d", s.url, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading body of %s", s.url)
	}
	return b, nil
}

func (s *HTTPSource) String() string {
	return s.url
}
