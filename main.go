package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	cli "github.com/jawher/mow.cli"
	_ "github.com/joho/godotenv/autoload"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
	"github.com/unipept/psimod-transformer/obo"
	"github.com/unipept/psimod-transformer/psimod"
)

func main() {
	app := cli.App("psimod-transformer", "An API serving the PSI-MOD protein modification ontology")

	oboFile := app.String(cli.StringOpt{
		Name:   "obo-file",
		Value:  "",
		Desc:   "Path of a local PSI-MOD.obo file. Takes precedence over obo-url",
		EnvVar: "OBO_FILE",
	})
	oboURL := app.String(cli.StringOpt{
		Name:   "obo-url",
		Value:  "https://raw.githubusercontent.com/HUPO-PSI/psi-mod-CV/master/PSI-MOD.obo",
		Desc:   "URL the OBO file is fetched from when no obo-file is given",
		EnvVar: "OBO_URL",
	})
	baseURL := app.String(cli.StringOpt{
		Name:   "base-url",
		Value:  "http://localhost:8080/terms/",
		Desc:   "Base url",
		EnvVar: "BASE_URL",
	})
	port := app.Int(cli.IntOpt{
		Name:   "port",
		Value:  8080,
		Desc:   "Port to listen on",
		EnvVar: "PORT",
	})
	cacheFileName := app.String(cli.StringOpt{
		Name:   "cache-file-name",
		Value:  "cache.db",
		Desc:   "Cache file name",
		EnvVar: "CACHE_FILE_NAME",
	})
	batchSize := app.Int(cli.IntOpt{
		Name:   "batchSize",
		Value:  500,
		Desc:   "Number of terms written to the cache per transaction",
		EnvVar: "BATCH_SIZE",
	})
	searchCacheTTL := app.String(cli.StringOpt{
		Name:   "search-cache-ttl",
		Value:  "5m",
		Desc:   "How long search results are memoised",
		EnvVar: "SEARCH_CACHE_TTL",
	})
	logMetrics := app.Bool(cli.BoolOpt{
		Name:   "logMetrics",
		Value:  false,
		Desc:   "Whether to log metrics. Set to true if running locally and you want metrics output",
		EnvVar: "LOG_METRICS",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "INFO",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})

	app.Before = func() {
		lvl, err := log.ParseLevel(*logLevel)
		if err != nil {
			log.Warnf("Unknown log level %q, using INFO", *logLevel)
			lvl = log.InfoLevel
		}
		log.SetLevel(lvl)
	}

	app.Command("validate", "Parse an OBO file and report what it contains", func(cmd *cli.Cmd) {
		path := cmd.StringArg("FILE", "", "OBO file to validate")
		cmd.Action = func() {
			if err := validate(*path); err != nil {
				log.WithError(err).Error("Validation failed")
				cli.Exit(1)
			}
		}
	})

	app.Action = func() {
		ttl, err := time.ParseDuration(*searchCacheTTL)
		if err != nil {
			log.Fatalf("Invalid search-cache-ttl %q: %v", *searchCacheTTL, err)
		}
		if *logMetrics {
			go metrics.Log(metrics.DefaultRegistry, 60*time.Second, log.StandardLogger())
		}

		var source psimod.Source = psimod.NewHTTPSource(getResilientClient(), *oboURL)
		if *oboFile != "" {
			source = psimod.FileSource{Path: *oboFile}
		}
		log.WithFields(log.Fields{
			"source":    source.String(),
			"cacheFile": *cacheFileName,
			"baseURL":   *baseURL,
		}).Info("Starting psimod-transformer")

		service := psimod.NewService(source, *cacheFileName, *baseURL, *batchSize, ttl)
		defer service.Close()
		go func() {
			if err := service.Load(); err != nil {
				log.Errorf("Error while loading ontology: [%v]", err)
			}
		}()

		th := psimod.NewHandler(service)
		http.Handle("/", psimod.Router(th))

		if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), nil); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	}
	app.Run(os.Args)
}

func validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	o, err := obo.ParseReader(f)
	if err != nil {
		return err
	}
	version, _ := o.DataVersion()
	log.WithFields(log.Fields{
		"terms":       o.Len(),
		"roots":       len(o.Roots()),
		"dataVersion": version,
		"duplicates":  o.Duplicates(),
	}).Info("OBO file is valid")
	return nil
}

func getResilientClient() *pester.Client {
	tr := &http.Transport{
		MaxIdleConnsPerHost: 32,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	c := &http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}
	client := pester.NewExtendedClient(c)
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = 5
	client.Concurrency = 1

	return client
}
