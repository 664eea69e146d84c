package psimod

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

var (
	idURLParameter    = "id"
	queryURLParameter = "q"
)

func (th *Handler) HandleGetAllTerms(resp http.ResponseWriter, req *http.Request) {
	pv, err := th.service.GetAllTerms()
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	defer pv.Close()
	resp.Header().Add("Content-Type", "application/x-ndjson")
	resp.WriteHeader(http.StatusOK)
	if _, err := io.Copy(resp, pv); err != nil {
		log.WithError(err).Error("Error streaming terms")
	}
}

func (th *Handler) HandleGetSingleTerm(resp http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)[idURLParameter]

	resp.Header().Add("Content-Type", "application/json")

	obj, found, err := th.service.GetTermByID(id)
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSONResponse(obj, found, fmt.Sprintf("Term %s", id), resp)
}

func (th *Handler) HandleGetIDs(resp http.ResponseWriter, req *http.Request) {
	pv, err := th.service.GetTermIDs()
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	defer pv.Close()
	resp.Header().Add("Content-Type", "application/x-ndjson")
	resp.WriteHeader(http.StatusOK)
	if _, err := io.Copy(resp, pv); err != nil {
		log.WithError(err).Error("Error streaming term ids")
	}
}

func (th *Handler) HandleGetCount(resp http.ResponseWriter, req *http.Request) {
	count, err := th.service.GetCount()
	if err != nil {
		resp.Header().Add("Content-Type", "application/json")
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	resp.Write([]byte(strconv.Itoa(count)))
}

func (th *Handler) HandleSearch(resp http.ResponseWriter, req *http.Request) {
	resp.Header().Add("Content-Type", "application/json")

	result, err := th.service.Search(req.URL.Query().Get(queryURLParameter))
	if err != nil {
		writeJSONMessageWithStatus(resp, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSONResponse(result, true, "Terms", resp)
}

func (th *Handler) HandleGetDataVersion(resp http.ResponseWriter, req *http.Request) {
	resp.Header().Add("Content-Type", "application/json")

	version, found := th.service.GetDataVersion()
	writeJSONResponse(DataVersion{DataVersion: version}, found, "Data version", resp)
}

func (th *Handler) HandleReload(resp http.ResponseWriter, req *http.Request) {
	go func() {
		if err := th.service.Reload(); err != nil {
			log.WithError(err).Warn("Reload did not complete")
		}
	}()

	resp.Header().Add("Content-Type", "application/json")
	writeJSONMessageWithStatus(resp, "Reloading terms", http.StatusAccepted)
}

func (th *Handler) HealthCheck(resp http.ResponseWriter, req *http.Request) {
	status := th.service.Status()
	code := http.StatusOK
	if status.State != StateLoaded {
		code = http.StatusServiceUnavailable
	}
	resp.Header().Add("Content-Type", "application/json")
	resp.WriteHeader(code)
	if err := json.NewEncoder(resp).Encode(status); err != nil {
		log.Errorf("Error on json encoding=%v", err)
	}
}

func (th *Handler) G2GCheck(resp http.ResponseWriter, req *http.Request) {
	if !th.service.IsDataLoaded() {
		resp.WriteHeader(http.StatusServiceUnavailable)
		resp.Write([]byte("Data is not loaded"))
		return
	}
	resp.Write([]byte("OK"))
}

func writeJSONMessageWithStatus(w http.ResponseWriter, msg string, statusCode int) {
	w.WriteHeader(statusCode)
	m, _ := json.Marshal(map[string]string{"message": msg})
	fmt.Fprintln(w, string(m))
}

func writeJSONResponse(obj interface{}, found bool, what string, writer http.ResponseWriter) {
	if !found {
		writeJSONMessageWithStatus(writer, fmt.Sprintf("%s not found", what), http.StatusNotFound)
		return
	}

	enc := json.NewEncoder(writer)
	if err := enc.Encode(obj); err != nil {
		log.Errorf("Error on json encoding=%v", err)
		writeJSONMessageWithStatus(writer, err.Error(), http.StatusInternalServerError)
		return
	}
}

func Router(th *Handler) *mux.Router {
	servicesRouter := mux.NewRouter()

	getAllHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleGetAllTerms)),
	}

	getSingleHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleGetSingleTerm)),
	}

	countHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleGetCount)),
	}

	getIDsHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleGetIDs)),
	}

	searchHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleSearch)),
	}

	versionHandler := handlers.MethodHandler{
		"GET": th.EnforceDataLoaded(http.HandlerFunc(th.HandleGetDataVersion)),
	}

	reloadHandler := handlers.MethodHandler{
		"POST": http.HandlerFunc(th.HandleReload),
	}

	servicesRouter.Handle("/terms", getAllHandler)
	servicesRouter.Handle("/terms/__count", countHandler)
	servicesRouter.Handle("/terms/__ids", getIDsHandler)
	servicesRouter.Handle("/terms/__search", searchHandler)
	servicesRouter.Handle("/terms/__version", versionHandler)
	servicesRouter.Handle("/terms/__reload", reloadHandler)
	servicesRouter.Handle("/terms/{id}", getSingleHandler)

	servicesRouter.HandleFunc("/__health", th.HealthCheck).Methods("GET")
	servicesRouter.HandleFunc("/__gtg", th.G2GCheck).Methods("GET")
	servicesRouter.Handle("/__metrics", promhttp.Handler()).Methods("GET")

	servicesRouter.Use(RequestLogging, Recovery)
	return servicesRouter
}
