// Command devcollector is a local stand-in for the analytics collection endpoint. It logs every
// event it receives and lists recent deliveries at GET /received.
//
// Point a client at it with Config.CollectDomain set to "http://localhost:8080".
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	path := flag.String("path", defaultPath, "collection path")
	keep := flag.Int("keep", defaultKeepBatches, "number of deliveries kept for GET /received")
	debug := flag.Bool("debug", false, "log request payloads")
	flag.Parse()

	loggers := ldlog.NewDefaultLoggers()
	if *debug {
		loggers.SetMinLevel(ldlog.Debug)
	}
	loggers.SetPrefix("devcollector:")

	c := newCollector(*keep, loggers)
	handler := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CombinedLoggingHandler(os.Stdout,
			handlers.CORS(
				handlers.AllowedOrigins([]string{"*"}),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
				handlers.AllowedHeaders([]string{"Content-Type", "X-Payload-ID"}),
			)(c.router(*path))))

	server := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	loggers.Infof("Listening on %s, collecting at /%s", *addr, *path)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server stopped: %s", err)
	}
}
