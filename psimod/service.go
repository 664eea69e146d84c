package psimod

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/unipept/psimod-transformer/obo"
	bolt "go.etcd.io/bbolt"
)

const (
	termsBucket = "terms"

	StateUninitialised = "uninitialised"
	StateLoading       = "loading"
	StateLoaded        = "loaded"
	StateFailed        = "failed"
)

var ErrLoadInProgress = errors.New("load already in progress")

type Service interface {
	Load() error
	Reload() error
	Status() Status
	IsDataLoaded() bool
	GetCount() (int, error)
	GetDataVersion() (string, bool)
	GetTermByID(id string) (TermConcept, bool, error)
	Search(query string) ([]TermConcept, error)
	GetAllTerms() (*io.PipeReader, error)
	GetTermIDs() (*io.PipeReader, error)
}

type ServiceImpl struct {
	sync.RWMutex
	source        Source
	cacheFileName string
	baseURL       string
	batchSize     int
	db            *bolt.DB
	state         string
	ontology      *obo.Ontology
	lastErr       error
	generation    uint64
	searchCache   *cache.Cache
}

func NewService(source Source, cacheFileName string, baseURL string, batchSize int, searchTTL time.Duration) *ServiceImpl {
	if batchSize < 1 {
		batchSize = 1
	}
	return &ServiceImpl{
		source:        source,
		cacheFileName: cacheFileName,
		baseURL:       baseURL,
		batchSize:     batchSize,
		state:         StateUninitialised,
		searchCache:   cache.New(searchTTL, 2*searchTTL),
	}
}

// Load parses the source unless a non-empty ontology is already loaded.
func (s *ServiceImpl) Load() error {
	s.Lock()
	if s.state == StateLoaded && s.ontology != nil && s.ontology.Len() > 0 {
		s.Unlock()
		return nil
	}
	if s.state == StateLoading {
		s.Unlock()
		return ErrLoadInProgress
	}
	s.state = StateLoading
	s.Unlock()
	return s.load()
}

// Reload always parses the source again, replacing whatever was loaded.
func (s *ServiceImpl) Reload() error {
	s.Lock()
	if s.state == StateLoading {
		s.Unlock()
		return ErrLoadInProgress
	}
	s.state = StateLoading
	s.Unlock()
	return s.load()
}

func (s *ServiceImpl) load() error {
	start := time.Now()
	log.WithField("source", s.source.String()).Info("Loading ontology...")

	if err := s.openDB(); err != nil {
		return s.fail(err)
	}
	raw, err := s.source.Read()
	if err != nil {
		return s.fail(err)
	}
	o, err := obo.Parse(string(raw))
	if err != nil {
		return s.fail(errors.Wrapf(err, "parsing %s", s.source.String()))
	}
	if err := s.createCacheBucket(); err != nil {
		return s.fail(err)
	}
	if err := s.storeTerms(o.Terms()); err != nil {
		return s.fail(err)
	}

	for _, id := range o.Duplicates() {
		log.WithField("id", id).Warn("Term id declared more than once, lookups return the last declaration")
	}
	version, _ := o.DataVersion()

	s.Lock()
	s.ontology = o
	s.lastErr = nil
	s.state = StateLoaded
	s.generation++
	s.Unlock()
	s.searchCache.Flush()

	loadTimer.UpdateSince(start)
	termGauge.Update(int64(o.Len()))
	loadsTotal.WithLabelValues("success").Inc()
	log.WithFields(log.Fields{
		"terms":       o.Len(),
		"dataVersion": version,
		"took":        time.Since(start),
	}).Info("Finished loading ontology")
	return nil
}

// fail drops any previously loaded data so nothing stale is served.
func (s *ServiceImpl) fail(err error) error {
	log.WithError(err).Error("Failed to load ontology")

	s.Lock()
	s.ontology = nil
	s.lastErr = err
	s.state = StateFailed
	s.generation++
	s.Unlock()
	s.searchCache.Flush()

	if s.db != nil {
		if cerr := s.createCacheBucket(); cerr != nil {
			log.WithError(cerr).Warn("Could not clear term cache")
		}
	}
	termGauge.Update(0)
	loadFailures.Inc(1)
	loadsTotal.WithLabelValues("failure").Inc()
	return err
}

func (s *ServiceImpl) openDB() error {
	s.Lock()
	defer s.Unlock()
	if s.db != nil {
		return nil
	}
	log.Infof("Opening database '%v'.", s.cacheFileName)
	db, err := bolt.Open(s.cacheFileName, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return errors.Wrapf(err, "opening cache file %s", s.cacheFileName)
	}
	s.db = db
	return nil
}

func (s *ServiceImpl) Close() error {
	s.Lock()
	defer s.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *ServiceImpl) createCacheBucket() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(termsBucket)) != nil {
			if err := tx.DeleteBucket([]byte(termsBucket)); err != nil {
				return errors.Wrapf(err, "deleting bucket %s", termsBucket)
			}
		}
		_, err := tx.CreateBucket([]byte(termsBucket))
		return err
	})
}

// storeTerms hands batches of transformed terms to a single writer so the
// bucket keeps file order.
func (s *ServiceImpl) storeTerms(terms []*obo.Term) error {
	batches := make(chan []TermConcept)
	done := make(chan error, 1)
	go s.processConcepts(batches, done)

	for i := 0; i < len(terms); i += s.batchSize {
		end := min(i+s.batchSize, len(terms))
		batches <- transformTerms(terms[i:end], s.baseURL)
	}
	close(batches)
	return <-done
}

func (s *ServiceImpl) processConcepts(batches <-chan []TermConcept, done chan<- error) {
	var firstErr error
	for concepts := range batches {
		if firstErr != nil {
			continue
		}
		log.Debugf("Storing batch of %v terms.", len(concepts))
		firstErr = s.db.Update(func(tx *bolt.Tx) error {
			bucket := tx.Bucket([]byte(termsBucket))
			if bucket == nil {
				return errors.Errorf("cache bucket %s not found", termsBucket)
			}
			for _, c := range concepts {
				marshalled, err := json.Marshal(c)
				if err != nil {
					return err
				}
				seq, err := bucket.NextSequence()
				if err != nil {
					return err
				}
				if err := bucket.Put(itob(seq), marshalled); err != nil {
					return err
				}
			}
			return nil
		})
	}
	done <- errors.Wrap(firstErr, "storing terms")
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func (s *ServiceImpl) Status() Status {
	s.RLock()
	defer s.RUnlock()
	st := Status{State: s.state}
	if s.ontology != nil {
		st.Terms = s.ontology.Len()
		st.DataVersion, _ = s.ontology.DataVersion()
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}

func (s *ServiceImpl) IsDataLoaded() bool {
	s.RLock()
	defer s.RUnlock()
	return s.state == StateLoaded
}

func (s *ServiceImpl) loaded() (*obo.Ontology, error) {
	s.RLock()
	defer s.RUnlock()
	if s.state != StateLoaded || s.ontology == nil {
		return nil, errors.New("data not loaded")
	}
	return s.ontology, nil
}

func (s *ServiceImpl) GetCount() (int, error) {
	o, err := s.loaded()
	if err != nil {
		return 0, err
	}
	return o.Len(), nil
}

func (s *ServiceImpl) GetDataVersion() (string, bool) {
	o, err := s.loaded()
	if err != nil {
		return "", false
	}
	return o.DataVersion()
}

func (s *ServiceImpl) GetTermByID(id string) (TermConcept, bool, error) {
	o, err := s.loaded()
	if err != nil {
		return TermConcept{}, false, err
	}
	term, found := o.ByID(id)
	if !found {
		log.Infof("No term for [%v].", id)
		return TermConcept{}, false, nil
	}
	return transformTerm(term, s.baseURL), true, nil
}

// Search memoises results per ontology generation, so results computed
// against an ontology that a reload has since replaced are never served.
func (s *ServiceImpl) Search(query string) ([]TermConcept, error) {
	s.RLock()
	o, gen := s.ontology, s.generation
	ready := s.state == StateLoaded && o != nil
	s.RUnlock()
	if !ready {
		return nil, errors.New("data not loaded")
	}
	q := strings.ToLower(strings.TrimSpace(query))
	key := searchKey(gen, q)
	if cached, found := s.searchCache.Get(key); found {
		return cached.([]TermConcept), nil
	}
	result := transformTerms(o.Search(q), s.baseURL)
	s.searchCache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

func searchKey(generation uint64, query string) string {
	return strconv.FormatUint(generation, 10) + "|" + query
}

func (s *ServiceImpl) GetAllTerms() (*io.PipeReader, error) {
	return s.streamTerms(func(w io.Writer, v []byte) error {
		if _, err := w.Write(v); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	})
}

func (s *ServiceImpl) GetTermIDs() (*io.PipeReader, error) {
	return s.streamTerms(func(w io.Writer, v []byte) error {
		var id TermID
		if err := json.Unmarshal(v, &id); err != nil {
			return err
		}
		return json.NewEncoder(w).Encode(id)
	})
}

func (s *ServiceImpl) streamTerms(write func(w io.Writer, v []byte) error) (*io.PipeReader, error) {
	s.RLock()
	if s.state != StateLoaded || s.db == nil {
		s.RUnlock()
		return nil, errors.New("data not loaded")
	}
	pr, pw := io.Pipe()
	go func() {
		defer s.RUnlock()
		err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(termsBucket))
			if b == nil {
				return errors.Errorf("cache bucket %s not found", termsBucket)
			}
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				if err := write(pw, v); err != nil {
					return err
				}
			}
			return nil
		})
		pw.CloseWithError(err)
	}()
	return pr, nil
}
